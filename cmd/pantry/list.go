// List command shows live entities, optionally filtered by type or parent.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pantry-app/pantry/pkg/types"
)

var listParent int64

var listCmd = &cobra.Command{
	Use:   "list [type]",
	Short: "List entities",
	Long: `List shows live entities ordered by sort order and name. Archived and
deleted entities are excluded. With a type argument only entities of that
type are listed; with --parent only direct children of that entity.

Example:
  pantry list
  pantry list item
  pantry list item --parent 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().Int64Var(&listParent, "parent", 0, "restrict to children of this entity")
}

func runList(cmd *cobra.Command, args []string) error {
	entityType := ""
	if len(args) == 1 {
		entityType = args[0]
		if !types.IsValidEntityType(entityType) {
			return fmt.Errorf("%w: %q (valid: item, category, place)", types.ErrInvalidType, entityType)
		}
	}

	var entities []types.Entity
	var err error
	if listParent != 0 {
		entities, err = store.Entities().FindChildren(listParent, entityType)
	} else {
		entities, err = store.Entities().FindAll(entityType)
	}
	if err != nil {
		return fmt.Errorf("list entities: %w", err)
	}

	if flagJSON {
		return printJSON(entities)
	}
	for i := range entities {
		fmt.Println(entityLine(&entities[i]))
	}
	return nil
}
