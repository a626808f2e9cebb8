package types

import (
	"testing"
)

func TestIsValidEntityType(t *testing.T) {
	valid := []string{EntityTypeItem, EntityTypeCategory, EntityTypePlace}
	for _, et := range valid {
		if !IsValidEntityType(et) {
			t.Errorf("IsValidEntityType(%q) = false, want true", et)
		}
	}
	invalid := []string{"", "Item", "drawer", "items"}
	for _, et := range invalid {
		if IsValidEntityType(et) {
			t.Errorf("IsValidEntityType(%q) = true, want false", et)
		}
	}
}

func TestEntityValidate(t *testing.T) {
	tests := []struct {
		name    string
		entity  Entity
		wantErr error
	}{
		{"valid item", Entity{Type: EntityTypeItem, Name: "Drill"}, nil},
		{"valid place", Entity{Type: EntityTypePlace, Name: "Garage"}, nil},
		{"missing name", Entity{Type: EntityTypeItem}, ErrInvalidName},
		{"bad type", Entity{Type: "drawer", Name: "Drill"}, ErrInvalidType},
		{"empty type", Entity{Name: "Drill"}, ErrInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.entity.Validate(); err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
