// Show command prints one entity with its related data.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pantry-app/pantry/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an entity with its tags, codes, fields and values",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

// entityView aggregates everything the show command presents.
type entityView struct {
	Entity *types.Entity          `json:"entity"`
	Tags   []types.Tag            `json:"tags"`
	Files  []types.File           `json:"files"`
	Codes  []types.Code           `json:"codes"`
	Fields []types.CustomField    `json:"fields"`
	Values []types.FieldWithValue `json:"values"`
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	e, err := store.Entities().Find(id)
	if err != nil {
		return fmt.Errorf("show entity %d: %w", id, err)
	}

	view := entityView{Entity: e}
	if view.Tags, err = store.Tags().FindByEntity(id); err != nil {
		return err
	}
	if view.Files, err = store.Files().FindByEntity(id); err != nil {
		return err
	}
	if view.Codes, err = store.Codes().FindByEntity(id); err != nil {
		return err
	}
	if view.Fields, err = store.Fields().EffectiveFields(id); err != nil {
		return err
	}
	if view.Values, err = store.Values().FindByEntityWithFields(id); err != nil {
		return err
	}

	if flagJSON {
		return printJSON(view)
	}

	fmt.Println(entityLine(e))
	if e.Description != "" {
		fmt.Println("  description:", e.Description)
	}
	if e.ParentID != nil {
		fmt.Println("  parent:", *e.ParentID)
	}
	if e.CategoryID != nil {
		fmt.Println("  category:", *e.CategoryID)
	}
	for _, t := range view.Tags {
		fmt.Println("  tag:", t.Name)
	}
	for _, c := range view.Codes {
		fmt.Printf("  code: %s (%s)\n", c.CodeValue, c.CodeType)
	}
	for _, f := range view.Files {
		marker := ""
		if f.IsPrimary {
			marker = " [primary]"
		}
		fmt.Printf("  file: %s%s\n", f.FileName, marker)
	}

	// Print every effective field, with its stored value when one exists.
	stored := make(map[int64]string, len(view.Values))
	for _, v := range view.Values {
		stored[v.CustomFieldID] = v.FieldValue
	}
	for _, f := range view.Fields {
		if v, ok := stored[f.ID]; ok {
			fmt.Printf("  %s (%s): %s\n", f.FieldName, f.FieldType, v)
		} else {
			fmt.Printf("  %s (%s): -\n", f.FieldName, f.FieldType)
		}
	}
	return nil
}
