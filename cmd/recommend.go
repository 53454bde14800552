package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pable/go-playcall/internal/analysis"
	"github.com/pable/go-playcall/internal/model"
	"github.com/pable/go-playcall/internal/report"
)

func newRecommendCmd() *cobra.Command {
	var (
		f       analysisFlags
		jsonOut bool
	)
	c := &cobra.Command{
		Use:   "recommend",
		Short: "Suggest the best play type for a situation",
		Long: `Run the same ranking as 'analyze' and print the top play type with a
one-line explanation, e.g.

  playcall recommend --down 3 --distance short --zone red_zone`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plays, q, o, err := f.prepare(cmd)
			if err != nil {
				return err
			}
			rec, err := analysis.Recommend(plays, model.PlayResolvers(), q, &o)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			report.PrintRecommendation(cmd.OutOrStdout(), rec)
			return nil
		},
	}
	f.register(c)
	c.Flags().BoolVar(&jsonOut, "json", false, "print the recommendation as JSON")
	return c
}
