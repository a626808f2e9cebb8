// Package main provides the pantry CLI, a local-first personal inventory
// store.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pantry-app/pantry/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// userErrors are input problems, reported with exit code 1. Anything else
// that fails is a system error.
var userErrors = []error{
	types.ErrNotFound,
	types.ErrInvalidID,
	types.ErrInvalidData,
	types.ErrInvalidType,
	types.ErrInvalidFieldType,
	types.ErrInvalidName,
	types.ErrInvalidDate,
	types.ErrUnknownCriteriaField,
	types.ErrInvalidBackup,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pantry:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

func exitCode(err error) int {
	for _, ue := range userErrors {
		if errors.Is(err, ue) {
			return exitUserError
		}
	}
	return exitSysError
}
