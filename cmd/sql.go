package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-playcall/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the play database",
	Long: `Run an arbitrary SQL query against the play database and print results as a table.

Schema overview:
  imports(id, source, imported_at, play_count)
  plays(import_id, seq, game_id, play_id, offense, defense, quarter, down,
    distance, yard_line, end_yard_line, yards_gained, play_type, formation,
    motion, def_front, passer, ball_carrier, target, touchdown, turnover,
    penalty, penalty_yards, notes)

yard_line runs 1-99 from the offense's own goal line. Flags are stored as 0/1.
Example: SELECT formation, play_type, COUNT(*), AVG(yards_gained) FROM plays
  WHERE down = 3 GROUP BY 1, 2 ORDER BY 3 DESC`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	table.Header(toAny(cols)...)
	for _, row := range rows {
		table.Append(toAny(row)...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%s rows)\n", humanize.Comma(int64(len(rows))))
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
