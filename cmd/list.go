package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pable/go-playcall/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all imported play logs",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	imports, err := db.ListImports()
	if err != nil {
		return fmt.Errorf("list imports: %w", err)
	}
	if len(imports) == 0 {
		fmt.Fprintln(os.Stdout, "No play logs imported yet. Run 'playcall import <file.csv>' to add one.")
		return nil
	}
	printImports(imports)
	return nil
}

func printImports(imports []storage.ImportSummary) {
	fmt.Fprintf(os.Stdout, "%-10s  %-28s  %-16s  %7s\n", "ID", "SOURCE", "IMPORTED", "PLAYS")
	fmt.Fprintf(os.Stdout, "%-10s  %-28s  %-16s  %7s\n",
		"──────────", "────────────────────────────", "────────────────", "───────")
	for _, im := range imports {
		fmt.Fprintf(os.Stdout, "%-10s  %-28s  %-16s  %7s\n",
			im.ID[:8], im.Source, importedAgo(im.ImportedAt), humanize.Comma(int64(im.PlayCount)))
	}
}

func importedAgo(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return humanize.Time(t)
}
