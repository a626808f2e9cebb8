// Search command runs the full-text query.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchType string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over names, descriptions and field values",
	Long: `Search matches the query against entity names, descriptions and custom
field values, ranked by relevance. Terms match as prefixes, so "dri" finds
"Drill".

Example:
  pantry search drill
  pantry search "power tools" --type item`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entities, err := store.Entities().Search(args[0], searchType)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		if flagJSON {
			return printJSON(entities)
		}
		for i := range entities {
			fmt.Println(entityLine(&entities[i]))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchType, "type", "", "restrict to one entity type")
}
