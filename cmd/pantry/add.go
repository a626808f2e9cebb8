// Add command creates an item, category or place with optional related data.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pantry-app/pantry/pkg/types"
)

var (
	addParent      int64
	addCategory    int64
	addDescription string
	addIcon        string
	addColor       string
	addCode        string
	addCodeType    string
	addFields      []string
	addAdhoc       []string
)

var addCmd = &cobra.Command{
	Use:   "add <type> <name>",
	Short: "Add an item, category or place",
	Long: `Add creates a new entity of the given type.

Template field values are set with --field <fieldID>=<value>. Ad-hoc fields
that exist only on this entity are created with --adhoc <name>[:<type>]=<value>;
the type defaults to text. The entity, its code and all field values are
written in one transaction.

Example:
  pantry add place "Garage"
  pantry add category "Power tools" --parent 1
  pantry add item "Drill" --parent 1 --category 2 --code 4006381333931
  pantry add item "Milk" --field 7=2026-09-02 --adhoc brand=Arla`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().Int64Var(&addParent, "parent", 0, "parent entity id (stored-in)")
	addCmd.Flags().Int64Var(&addCategory, "category", 0, "category entity id (classified-as)")
	addCmd.Flags().StringVar(&addDescription, "description", "", "free-form description")
	addCmd.Flags().StringVar(&addIcon, "icon", "", "icon name")
	addCmd.Flags().StringVar(&addColor, "color", "", "display color")
	addCmd.Flags().StringVar(&addCode, "code", "", "scannable code value")
	addCmd.Flags().StringVar(&addCodeType, "code-type", "", "code type (barcode, qr, nfc)")
	addCmd.Flags().StringArrayVar(&addFields, "field", nil, "template field value as fieldID=value")
	addCmd.Flags().StringArrayVar(&addAdhoc, "adhoc", nil, "ad-hoc field as name[:type]=value")
}

func runAdd(cmd *cobra.Command, args []string) error {
	e := &types.Entity{
		Type:        args[0],
		Name:        args[1],
		Description: addDescription,
		Icon:        addIcon,
		Color:       addColor,
	}
	if addParent != 0 {
		e.ParentID = &addParent
	}
	if addCategory != 0 {
		e.CategoryID = &addCategory
	}
	if err := e.Validate(); err != nil {
		return err
	}

	var code *types.Code
	if addCode != "" {
		code = &types.Code{CodeValue: addCode, CodeType: addCodeType}
	}

	templateValues, err := parseFieldValues(addFields)
	if err != nil {
		return err
	}
	adhoc, err := parseAdhoc(addAdhoc)
	if err != nil {
		return err
	}

	id, err := store.Entities().CreateWithRelatedData(e, code, templateValues, adhoc)
	if err != nil {
		return fmt.Errorf("add %s: %w", e.Type, err)
	}

	if flagJSON {
		created, err := store.Entities().Find(id)
		if err != nil {
			return err
		}
		return printJSON(created)
	}
	fmt.Printf("Added %s %q (id %d)\n", e.Type, e.Name, id)
	return nil
}

// parseFieldValues converts repeated --field fieldID=value flags.
func parseFieldValues(args []string) (map[int64]string, error) {
	if len(args) == 0 {
		return nil, nil
	}
	values := make(map[int64]string, len(args))
	for _, arg := range args {
		k, v, err := parseKeyValue(arg)
		if err != nil {
			return nil, err
		}
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: field id %q", types.ErrInvalidID, k)
		}
		values[id] = v
	}
	return values, nil
}

// parseAdhoc converts repeated --adhoc name[:type]=value flags.
func parseAdhoc(args []string) ([]types.AdhocAttribute, error) {
	if len(args) == 0 {
		return nil, nil
	}
	attrs := make([]types.AdhocAttribute, 0, len(args))
	for _, arg := range args {
		k, v, err := parseKeyValue(arg)
		if err != nil {
			return nil, err
		}
		name, fieldType := k, types.FieldTypeText
		if i := strings.IndexByte(k, ':'); i >= 0 {
			name, fieldType = k[:i], k[i+1:]
		}
		if name == "" {
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidName, arg)
		}
		if !types.IsValidFieldType(fieldType) {
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidFieldType, fieldType)
		}
		attrs = append(attrs, types.AdhocAttribute{Name: name, FieldType: fieldType, Value: v})
	}
	return attrs, nil
}
