package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-playcall/internal/storage"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List the games in the play store",
	Args:  cobra.NoArgs,
	RunE:  runGames,
}

func runGames(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	games, err := db.ListGames()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet.")
		return nil
	}
	printGames(games)
	return nil
}

func printGames(games []storage.GameSummary) {
	fmt.Fprintf(os.Stdout, "%-20s  %-36s  %6s\n", "GAME", "TEAMS", "PLAYS")
	fmt.Fprintf(os.Stdout, "%-20s  %-36s  %6s\n",
		"────────────────────", "────────────────────────────────────", "──────")
	for _, g := range games {
		id := g.GameID
		if id == "" {
			id = "(none)"
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-36s  %6d\n", id, strings.Join(g.Teams, " vs "), g.Plays)
	}
}
