// Remove and purge commands delete entities.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Soft-delete an entity",
	Long: `Remove marks the entity deleted without destroying its data. Removed
entities disappear from lists and search; purge destroys them for good.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := store.Entities().Remove(id); err != nil {
			return fmt.Errorf("remove entity %d: %w", id, err)
		}
		fmt.Printf("Removed entity %d\n", id)
		return nil
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge <id>",
	Short: "Permanently delete an entity and its related data",
	Long: `Purge physically deletes the entity. Its tag links, files, codes,
field values and ad-hoc field definitions go with it. This cannot be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := store.Entities().Purge(id); err != nil {
			return fmt.Errorf("purge entity %d: %w", id, err)
		}
		fmt.Printf("Purged entity %d\n", id)
		return nil
	},
}
