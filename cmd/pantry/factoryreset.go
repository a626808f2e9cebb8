// Factory-reset command wipes the database back to its initial state.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var factoryResetYes bool

var factoryResetCmd = &cobra.Command{
	Use:   "factory-reset",
	Short: "Erase all data and reinitialize",
	Long: `Factory-reset drops every table and recreates an empty, seeded
database. All entities, fields, values, tags, files and codes are lost.
Requires --yes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !factoryResetYes {
			return fmt.Errorf("refusing to erase all data without --yes")
		}
		if err := store.FactoryReset(); err != nil {
			return fmt.Errorf("factory reset: %w", err)
		}
		fmt.Println("Factory reset complete")
		return nil
	},
}

func init() {
	factoryResetCmd.Flags().BoolVar(&factoryResetYes, "yes", false, "confirm the reset")
}
