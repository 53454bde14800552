package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-playcall/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// shellCommands are the analysis commands the shell runs with the same flags as the CLI.
var shellCommands = map[string]func() *cobra.Command{
	"analyze":   newAnalyzeCmd,
	"recommend": newRecommendCmd,
	"players":   newPlayersCmd,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	cGreeting.Println("playcall shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("playcall")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "games":
			shellGames(db)
		default:
			newCmd, ok := shellCommands[name]
			if !ok {
				cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
				continue
			}
			c := newCmd()
			c.SetArgs(args)
			c.SetOut(os.Stdout)
			c.SetErr(os.Stderr)
			c.SilenceUsage = true
			c.SilenceErrors = true
			if err := c.Execute(); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list imported play logs"},
		{"games", "list stored games"},
		{"analyze [flags]", "rank play types (e.g. --down 3 --distance short)"},
		{"recommend [flags]", "best call for a situation"},
		{"players [flags]", "player leaderboard (--sort, --limit)"},
		{"<command> --help", "flags for a command"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-24s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	imports, err := db.ListImports()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(imports) == 0 {
		cMuted.Println("No play logs imported yet.")
		return
	}
	printImports(imports)
}

func shellGames(db *storage.DB) {
	games, err := db.ListGames()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(games) == 0 {
		cMuted.Println("No games stored yet.")
		return
	}
	printGames(games)
}
