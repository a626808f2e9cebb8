package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pantry-app/pantry/pkg/types"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", types.ErrNotFound, exitUserError},
		{"invalid date", types.ErrInvalidDate, exitUserError},
		{"invalid backup", types.ErrInvalidBackup, exitUserError},
		{"wrapped user error", fmt.Errorf("saving entity: %w", types.ErrInvalidName), exitUserError},
		{"deeply wrapped user error", fmt.Errorf("restore: %w", fmt.Errorf("envelope: %w", types.ErrInvalidBackup)), exitUserError},
		{"plain error", errors.New("disk full"), exitSysError},
		{"wrapped system error", fmt.Errorf("opening store: %w", errors.New("permission denied")), exitSysError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
