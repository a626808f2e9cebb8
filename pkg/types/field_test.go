package types

import (
	"testing"
)

func TestCustomFieldValidate(t *testing.T) {
	categoryID := int64(1)
	entityID := int64(2)

	tests := []struct {
		name    string
		field   CustomField
		wantErr error
	}{
		{"template bound", CustomField{
			CategoryTemplateID: &categoryID, FieldName: "Brand",
			FieldType: FieldTypeText}, nil},
		{"entity bound", CustomField{
			EntityID: &entityID, FieldName: "Serial",
			FieldType: FieldTypeText}, nil},
		{"missing name", CustomField{
			EntityID: &entityID, FieldType: FieldTypeText}, ErrInvalidName},
		{"bad field type", CustomField{
			EntityID: &entityID, FieldName: "Brand",
			FieldType: "paragraph"}, ErrInvalidFieldType},
		{"no binding", CustomField{
			FieldName: "Brand", FieldType: FieldTypeText}, ErrInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.field.Validate(); err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsDateFieldType(t *testing.T) {
	if !IsDateFieldType(FieldTypeDate) || !IsDateFieldType(FieldTypeExpiryDate) {
		t.Error("date and expiry_date must be date field types")
	}
	for _, ft := range []string{FieldTypeText, FieldTypeDatetime, FieldTypeNumber} {
		if IsDateFieldType(ft) {
			t.Errorf("IsDateFieldType(%q) = true, want false", ft)
		}
	}
}

func TestValidateISODate(t *testing.T) {
	valid := []string{"2030-06-01", "1999-12-31", "2026-01-01"}
	for _, v := range valid {
		if err := ValidateISODate(v); err != nil {
			t.Errorf("ValidateISODate(%q) = %v, want nil", v, err)
		}
	}
	invalid := []string{
		"", "2030-6-1", "01/06/2030", "2030-06-01T00:00:00Z",
		"tomorrow", "2030-06-01 ", "20300601",
	}
	for _, v := range invalid {
		if err := ValidateISODate(v); err != ErrInvalidDate {
			t.Errorf("ValidateISODate(%q) = %v, want ErrInvalidDate", v, err)
		}
	}
}
