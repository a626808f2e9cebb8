// Backup commands export and import the full database content.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pantry-app/pantry/internal/export"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export and import backups",
}

var backupOut string

var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a full backup to a JSON file",
	Long: `Export dumps every table into a JSON file in your documents directory,
with a best-effort copy in your downloads directory. With --out the file is
written to that directory only.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := store.Dump()
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}

		w, err := export.NewWriter(logger)
		if err != nil {
			return err
		}
		if backupOut != "" {
			w.DocumentsDir = backupOut
			w.DownloadsDir = ""
		}
		path, err := w.Write(b)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Println("Backup written to", path)
		return nil
	},
}

var backupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore the database from a backup file",
	Long: `Import validates the backup file, then replaces the entire database
content with it. All current data is lost. A failed import rolls back and
leaves a freshly initialized database.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := export.Read(args[0])
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		if err := store.Restore(b); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		fmt.Printf("Restored %d entities from %s\n", len(b.Data.Entities), args[0])
		return nil
	},
}

func init() {
	backupExportCmd.Flags().StringVar(&backupOut, "out", "", "directory to write the backup into")

	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupImportCmd)
}
