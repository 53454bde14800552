package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pable/go-playcall/internal/model"
	"github.com/pable/go-playcall/internal/playlog"
	"github.com/pable/go-playcall/internal/storage"
)

var (
	importGame     string
	importTeam     string
	importOpponent string
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import play-by-play logs (.csv, .json, .yaml)",
	Long: `Import one or more play logs. Each file becomes its own import batch.

CSV headers are matched loosely: plain names (game_id, offense, down, distance,
yard_line, yards_gained, play_type, formation, ...) and coach-software export
names (DN, DIST, YARD LN, GN/LS, OFF FORM, OFF PLAY, DEF FRONT, RESULT) both work.
A signed YARD LN (-35 = own 35, +20 = opponent 20) is converted to the 1-99 scale.

Film exports often leave out the game and the teams; --game, --team and
--opponent fill those in for rows where they are blank.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importGame, "game", "", "game id for rows without one (default: file name)")
	importCmd.Flags().StringVar(&importTeam, "team", "", "offense for rows without one")
	importCmd.Flags().StringVar(&importOpponent, "opponent", "", "defense for rows without one")
}

func runImport(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	total := 0
	for _, path := range args {
		plays, err := playlog.Load(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fillDefaults(plays, path)

		sum, err := db.InsertImport(filepath.Base(path), plays)
		if err != nil {
			return fmt.Errorf("store %s: %w", path, err)
		}
		total += sum.PlayCount
		fmt.Fprintf(os.Stdout, "Imported %s plays from %s as %s\n",
			humanize.Comma(int64(sum.PlayCount)), path, sum.ID[:8])
	}
	if len(args) > 1 {
		fmt.Fprintf(os.Stdout, "Total: %s plays from %d files\n", humanize.Comma(int64(total)), len(args))
	}
	return nil
}

func fillDefaults(plays []model.Play, path string) {
	game := importGame
	if game == "" {
		base := filepath.Base(path)
		game = base[:len(base)-len(filepath.Ext(base))]
	}
	for i := range plays {
		p := &plays[i]
		if p.GameID == "" {
			p.GameID = game
		}
		if p.Offense == "" {
			p.Offense = importTeam
		}
		if p.Defense == "" {
			p.Defense = importOpponent
		}
	}
}
