// Shared helpers for pantry CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pantry-app/pantry/pkg/types"
)

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

// parseID converts a positional argument into an entity id.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidID, arg)
	}
	return id, nil
}

// parseKeyValue splits a k=v argument.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(arg, "=", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", "", fmt.Errorf("%w: %q (expected key=value)", types.ErrInvalidData, arg)
	}
	return parts[0], parts[1], nil
}

// entityLine formats one entity for table output.
func entityLine(e *types.Entity) string {
	line := fmt.Sprintf("%-6d %-10s %s", e.ID, e.Type, e.Name)
	if e.IsArchived {
		line += " [archived]"
	}
	return line
}
