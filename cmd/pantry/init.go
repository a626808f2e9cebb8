// Init command for the pantry CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pantry-app/pantry/internal/paths"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize pantry storage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The store is already open; PersistentPreRunE created the data
		// directory, schema and seed rows. Report where everything landed.
		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(map[string]string{
				"configDir": configDir,
				"dataDir":   store.DataDir(),
			})
		}
		fmt.Println("Pantry initialized successfully")
		fmt.Println("  config:", configDir)
		fmt.Println("  data:  ", store.DataDir())
		return nil
	},
}
