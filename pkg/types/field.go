package types

import (
	"regexp"
	"time"
)

// Custom field types.
const (
	FieldTypeText       = "text"
	FieldTypeNumber     = "number"
	FieldTypeDate       = "date"
	FieldTypeDatetime   = "datetime"
	FieldTypeExpiryDate = "expiry_date"
	FieldTypeTextarea   = "textarea"
	FieldTypeCheckbox   = "checkbox"
	FieldTypeRadio      = "radio"
	FieldTypeSelect     = "select"
	FieldTypeFile       = "file"
	FieldTypeImage      = "image"
	FieldTypeColor      = "color"
	FieldTypeURL        = "url"
	FieldTypeBoolean    = "boolean"
	FieldTypeEmail      = "email"
)

// validFieldTypes is the set of recognized custom field types.
var validFieldTypes = map[string]bool{
	FieldTypeText:       true,
	FieldTypeNumber:     true,
	FieldTypeDate:       true,
	FieldTypeDatetime:   true,
	FieldTypeExpiryDate: true,
	FieldTypeTextarea:   true,
	FieldTypeCheckbox:   true,
	FieldTypeRadio:      true,
	FieldTypeSelect:     true,
	FieldTypeFile:       true,
	FieldTypeImage:      true,
	FieldTypeColor:      true,
	FieldTypeURL:        true,
	FieldTypeBoolean:    true,
	FieldTypeEmail:      true,
}

// IsValidFieldType reports whether t is a recognized custom field type.
func IsValidFieldType(t string) bool {
	return validFieldTypes[t]
}

// IsDateFieldType reports whether values of this field type must be strict
// ISO YYYY-MM-DD strings.
func IsDateFieldType(t string) bool {
	return t == FieldTypeDate || t == FieldTypeExpiryDate
}

// isoDateRe matches a zero-padded ISO 8601 calendar date.
var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateISODate checks that v is a strict YYYY-MM-DD string. The expiry
// window query orders these lexicographically, so mixed-precision or
// locale-formatted dates must never reach storage.
func ValidateISODate(v string) error {
	if !isoDateRe.MatchString(v) {
		return ErrInvalidDate
	}
	return nil
}

// CustomField is a field definition. It binds in exactly one of two modes:
// template-bound (CategoryTemplateID set, inherited by every entity
// classified under that category) or entity-bound (EntityID set, applying to
// one entity only). The schema enforces that at least one binding is present.
type CustomField struct {
	ID                 int64      `json:"id"`
	CategoryTemplateID *int64     `json:"categoryTemplateId"`
	EntityID           *int64     `json:"entityId"`
	FieldName          string     `json:"fieldName"`
	FieldType          string     `json:"fieldType"`
	IsRequired         bool       `json:"isRequired"`
	DefaultValue       string     `json:"defaultValue,omitempty"`
	Options            string     `json:"options,omitempty"`
	SortOrder          int64      `json:"sortOrder"`
	IsArchived         bool       `json:"isArchived"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          *time.Time `json:"updatedAt"`
	DeletedAt          *time.Time `json:"deletedAt"`
}

// Validate checks the minimum shape required before persisting.
func (f *CustomField) Validate() error {
	if f.FieldName == "" {
		return ErrInvalidName
	}
	if !IsValidFieldType(f.FieldType) {
		return ErrInvalidFieldType
	}
	if f.CategoryTemplateID == nil && f.EntityID == nil {
		return ErrInvalidData
	}
	return nil
}

// FieldException records that one entity opts out of an inherited template
// field. It suppresses the field for that entity without mutating the shared
// template.
type FieldException struct {
	EntityID      int64     `json:"entityId"`
	CustomFieldID int64     `json:"customFieldId"`
	CreatedAt     time.Time `json:"createdAt"`
}
