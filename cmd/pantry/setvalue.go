// Set-value command stores one custom field value.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var setValueCmd = &cobra.Command{
	Use:   "set-value <entity-id> <field-id> <value>",
	Short: "Set a custom field value on an entity",
	Long: `Set-value stores the value for one field on one entity, replacing any
previous value. Date and expiry-date fields require strict YYYY-MM-DD input.
An empty value clears the field.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		entityID, err := parseID(args[0])
		if err != nil {
			return err
		}
		fieldID, err := parseID(args[1])
		if err != nil {
			return err
		}
		if _, err := store.Values().SetFieldValue(entityID, fieldID, args[2]); err != nil {
			return fmt.Errorf("set value: %w", err)
		}
		if args[2] == "" {
			fmt.Printf("Cleared field %d on entity %d\n", fieldID, entityID)
		} else {
			fmt.Printf("Set field %d on entity %d\n", fieldID, entityID)
		}
		return nil
	},
}
