// Field commands manage custom field definitions and exceptions.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pantry-app/pantry/pkg/types"
)

var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "Manage custom field definitions",
}

var (
	fieldTemplate int64
	fieldEntity   int64
	fieldRequired bool
	fieldDefault  string
	fieldOptions  string
)

var fieldDefineCmd = &cobra.Command{
	Use:   "define <name> <type>",
	Short: "Define a custom field",
	Long: `Define creates a field bound either to a category template
(--template, inherited by every entity classified under that category) or to
a single entity (--entity). Exactly one binding must be given.

Example:
  pantry field define "Expiry date" expiry_date --template 2
  pantry field define "Serial number" text --entity 14 --required`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &types.CustomField{
			FieldName:    args[0],
			FieldType:    args[1],
			IsRequired:   fieldRequired,
			DefaultValue: fieldDefault,
			Options:      fieldOptions,
		}
		if fieldTemplate != 0 {
			f.CategoryTemplateID = &fieldTemplate
		}
		if fieldEntity != 0 {
			f.EntityID = &fieldEntity
		}
		id, err := store.Fields().Save(f)
		if err != nil {
			return fmt.Errorf("define field: %w", err)
		}
		fmt.Printf("Defined field %q (id %d)\n", f.FieldName, id)
		return nil
	},
}

var fieldListCmd = &cobra.Command{
	Use:   "list <entity-id>",
	Short: "List the effective fields of an entity",
	Long: `List resolves the full field set the entity presents: the template
fields of its category plus its own fields, minus its exceptions.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entityID, err := parseID(args[0])
		if err != nil {
			return err
		}
		fields, err := store.Fields().EffectiveFields(entityID)
		if err != nil {
			return fmt.Errorf("list fields: %w", err)
		}
		if flagJSON {
			return printJSON(fields)
		}
		for _, f := range fields {
			binding := "entity"
			if f.CategoryTemplateID != nil {
				binding = "template"
			}
			fmt.Printf("%-6d %-20s %-12s %s\n", f.ID, f.FieldName, f.FieldType, binding)
		}
		return nil
	},
}

var fieldArchiveCmd = &cobra.Command{
	Use:   "archive <field-id>",
	Short: "Archive a custom field",
	Long: `Archive hides the field from effective sets while keeping all stored
values. Use --restore to bring it back.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		restore, _ := cmd.Flags().GetBool("restore")
		if err := store.Fields().Archive(id, !restore); err != nil {
			return fmt.Errorf("archive field: %w", err)
		}
		if restore {
			fmt.Printf("Restored field %d\n", id)
		} else {
			fmt.Printf("Archived field %d\n", id)
		}
		return nil
	},
}

var fieldRemoveCmd = &cobra.Command{
	Use:   "remove <field-id>",
	Short: "Soft-delete a custom field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := store.Fields().Remove(id); err != nil {
			return fmt.Errorf("remove field: %w", err)
		}
		fmt.Printf("Removed field %d\n", id)
		return nil
	},
}

var fieldExceptCmd = &cobra.Command{
	Use:   "except <entity-id> <field-id>",
	Short: "Opt an entity out of an inherited field",
	Long: `Except suppresses one inherited template field for one entity without
touching the shared template. Use --restore to undo the opt-out.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entityID, err := parseID(args[0])
		if err != nil {
			return err
		}
		fieldID, err := parseID(args[1])
		if err != nil {
			return err
		}
		restore, _ := cmd.Flags().GetBool("restore")
		if restore {
			if err := store.Fields().RemoveException(entityID, fieldID); err != nil {
				return fmt.Errorf("restore field: %w", err)
			}
			fmt.Printf("Restored field %d for entity %d\n", fieldID, entityID)
			return nil
		}
		if err := store.Fields().AddException(entityID, fieldID); err != nil {
			return fmt.Errorf("except field: %w", err)
		}
		fmt.Printf("Excepted field %d for entity %d\n", fieldID, entityID)
		return nil
	},
}

func init() {
	fieldDefineCmd.Flags().Int64Var(&fieldTemplate, "template", 0, "bind to a category template")
	fieldDefineCmd.Flags().Int64Var(&fieldEntity, "entity", 0, "bind to a single entity")
	fieldDefineCmd.Flags().BoolVar(&fieldRequired, "required", false, "mark the field required")
	fieldDefineCmd.Flags().StringVar(&fieldDefault, "default", "", "default value")
	fieldDefineCmd.Flags().StringVar(&fieldOptions, "options", "", "serialized options for select/radio fields")
	fieldArchiveCmd.Flags().Bool("restore", false, "unarchive instead")
	fieldExceptCmd.Flags().Bool("restore", false, "remove the exception instead")

	fieldCmd.AddCommand(fieldDefineCmd)
	fieldCmd.AddCommand(fieldListCmd)
	fieldCmd.AddCommand(fieldArchiveCmd)
	fieldCmd.AddCommand(fieldRemoveCmd)
	fieldCmd.AddCommand(fieldExceptCmd)
}
