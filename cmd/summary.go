package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-playcall/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all stored plays:
import and play counts, games and teams seen, and the most used play families.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.Plays == 0 {
		fmt.Fprintln(os.Stdout, "No plays stored yet. Run 'playcall import <file.csv>' to add some.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Imports       : %d\n", ov.Imports)
	fmt.Fprintf(os.Stdout, "  Plays stored  : %s\n", humanize.Comma(int64(ov.Plays)))
	fmt.Fprintf(os.Stdout, "  Games         : %d\n", ov.Games)
	fmt.Fprintf(os.Stdout, "  Teams seen    : %d\n", ov.Teams)
	fmt.Fprintf(os.Stdout, "  First import  : %s\n", importedAgo(ov.EarliestImport))
	fmt.Fprintf(os.Stdout, "  Last import   : %s\n", importedAgo(ov.LatestImport))

	fams, err := db.GetFamilyCounts(15)
	if err != nil {
		return fmt.Errorf("get family counts: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Play Families ---\n\n")
	ft := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	ft.Header("FAMILY", "PLAYS", "SHARE", "AVG YDS")
	for _, f := range fams {
		name := f.Family
		if name == "" {
			name = "—"
		}
		ft.Append(
			name,
			humanize.Comma(int64(f.Plays)),
			fmt.Sprintf("%.0f%%", 100*float64(f.Plays)/float64(ov.Plays)),
			fmt.Sprintf("%.1f", f.AvgYards),
		)
	}
	ft.Render()
	return nil
}
