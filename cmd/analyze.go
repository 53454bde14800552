package cmd

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/pable/go-playcall/internal/analysis"
	"github.com/pable/go-playcall/internal/model"
	"github.com/pable/go-playcall/internal/report"
)

const analyzeLong = `Rank the team's play types for a game situation.

Each play type (formation | play family) gets a success rate, average gain,
explosive/touchdown/turnover rates and a composite score:

  0.55 * smoothed success + 0.20 * yards z-score
  + 0.15 * (explosive rate - 0.5 * turnover rate) + 0.10 * touchdown rate

Success: 1st down gains 50% of the distance, 2nd down 70%, 3rd/4th 100%;
a touchdown always counts. Play types with fewer than --min-samples snaps
are flagged LOW.

Options can also come from a YAML file passed with --config:

  team: Lions
  min_samples: 6
  smoothing: {enabled: true, prior_rate: 0.5, prior_weight: 5}
  explosive: {run_yards: 10, pass_yards: 15}
  drop_penalty_only: true
  use_motion: false
  player_limit: 20
  player_sort: yards
  key_template: "{formation} | {family}"

Command-line flags override the file.`

// newAnalyzeCmd builds the analyze command. The shell builds a fresh one per line.
func newAnalyzeCmd() *cobra.Command {
	var (
		f       analysisFlags
		jsonOut bool
	)
	c := &cobra.Command{
		Use:   "analyze",
		Short: "Rank play types for a situation",
		Long:  analyzeLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plays, q, o, err := f.prepare(cmd)
			if err != nil {
				return err
			}
			rep, err := analysis.Analyze(plays, model.PlayResolvers(), q, &o)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), rep)
			}
			report.PrintReport(cmd.OutOrStdout(), rep)
			return nil
		},
	}
	f.register(c)
	c.Flags().BoolVar(&jsonOut, "json", false, "print the report as JSON")
	return c
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
