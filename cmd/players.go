package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/go-playcall/internal/analysis"
	"github.com/pable/go-playcall/internal/filter"
	"github.com/pable/go-playcall/internal/model"
	"github.com/pable/go-playcall/internal/report"
	"github.com/pable/go-playcall/internal/storage"
)

func newPlayersCmd() *cobra.Command {
	var (
		slice    sliceFlags
		opts     optionFlags
		down     int
		playType string
		jsonOut  bool
	)
	c := &cobra.Command{
		Use:   "players",
		Short: "Show the player leaderboard",
		Long: `Attribute each snap to its ball carrier, passer and target and rank the
players. A player listed in two roles on one snap is credited once per role.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := opts.options(cmd)
			if err != nil {
				return err
			}
			db, err := storage.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer db.Close()

			r := model.PlayResolvers()
			var extra []filter.Predicate[model.Play]
			if down > 0 {
				extra = append(extra, filter.ByDown(r, down))
			}
			if playType != "" {
				extra = append(extra, filter.ByPlayType(r, playType))
			}
			plays, err := slice.loadPlays(cmd, db, extra...)
			if err != nil {
				return err
			}

			rep, err := analysis.Analyze(plays, r, model.Situation{}, &o)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), rep.Players)
			}
			w := cmd.OutOrStdout()
			report.PrintReportHeader(w, rep)
			report.PrintPlayerTable(w, rep.Players)
			report.PrintWarnings(w, rep.Warnings)
			return nil
		},
	}
	slice.register(c)
	opts.register(c)
	c.Flags().IntVar(&down, "down", 0, "only snaps on this down")
	c.Flags().StringVar(&playType, "play-type", "", "only snaps whose play family contains this text")
	c.Flags().BoolVar(&jsonOut, "json", false, "print the leaderboard as JSON")
	return c
}
