package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-playcall/internal/storage"
)

var (
	dropForce  bool
	dropImport string
)

// dropCmd deletes one import or the whole database file.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete an import or the whole play database",
	Long: `With --import, delete one import batch and its plays.
Without it, permanently delete the SQLite database. All stored plays will be lost.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().StringVar(&dropImport, "import", "", "delete only the import with this id prefix")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if dropImport != "" {
		return dropOneImport(dropImport)
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dropOneImport(prefix string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	imp, err := db.GetImportByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("find import: %w", err)
	}
	if imp == nil {
		return fmt.Errorf("no import found with prefix %q", prefix)
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will delete import %s (%s, %d plays).\n", imp.ID[:8], imp.Source, imp.PlayCount)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if _, err := db.DeleteImport(imp.ID); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Deleted import %s (%d plays)\n", imp.ID[:8], imp.PlayCount)
	return nil
}
