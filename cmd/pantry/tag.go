// Tag commands manage labels and their entity links.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pantry-app/pantry/pkg/types"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
}

var (
	tagColor string
	tagIcon  string
)

var tagAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t := &types.Tag{Name: args[0], Color: tagColor, Icon: tagIcon}
		id, err := store.Tags().Save(t)
		if err != nil {
			return fmt.Errorf("add tag: %w", err)
		}
		fmt.Printf("Added tag %q (id %d)\n", t.Name, id)
		return nil
	},
}

var tagAttachCmd = &cobra.Command{
	Use:   "attach <entity-id> <tag-name>",
	Short: "Attach a tag to an entity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entityID, err := parseID(args[0])
		if err != nil {
			return err
		}
		t, err := store.Tags().FindByName(args[1])
		if err != nil {
			return fmt.Errorf("tag %q: %w", args[1], err)
		}
		if err := store.Tags().Attach(entityID, t.ID); err != nil {
			return fmt.Errorf("attach tag: %w", err)
		}
		fmt.Printf("Attached %q to entity %d\n", t.Name, entityID)
		return nil
	},
}

var tagDetachCmd = &cobra.Command{
	Use:   "detach <entity-id> <tag-name>",
	Short: "Detach a tag from an entity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entityID, err := parseID(args[0])
		if err != nil {
			return err
		}
		t, err := store.Tags().FindByName(args[1])
		if err != nil {
			return fmt.Errorf("tag %q: %w", args[1], err)
		}
		if err := store.Tags().Detach(entityID, t.ID); err != nil {
			return fmt.Errorf("detach tag: %w", err)
		}
		fmt.Printf("Detached %q from entity %d\n", t.Name, entityID)
		return nil
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list [entity-id]",
	Short: "List tags, or the tags of one entity",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var tags []types.Tag
		var err error
		if len(args) == 1 {
			entityID, perr := parseID(args[0])
			if perr != nil {
				return perr
			}
			tags, err = store.Tags().FindByEntity(entityID)
		} else {
			tags, err = store.Tags().FindAll()
		}
		if err != nil {
			return fmt.Errorf("list tags: %w", err)
		}
		if flagJSON {
			return printJSON(tags)
		}
		for _, t := range tags {
			fmt.Printf("%-6d %s\n", t.ID, t.Name)
		}
		return nil
	},
}

func init() {
	tagAddCmd.Flags().StringVar(&tagColor, "color", "", "display color")
	tagAddCmd.Flags().StringVar(&tagIcon, "icon", "", "icon name")

	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagAttachCmd)
	tagCmd.AddCommand(tagDetachCmd)
	tagCmd.AddCommand(tagListCmd)
}
