package types

import "time"

// CustomFieldValue holds the value of one custom field for one entity. The
// (EntityID, CustomFieldID) pair is unique; saving an existing pair updates
// the value in place. Structured values (such as attached file id lists) are
// stored serialized in FieldValue.
type CustomFieldValue struct {
	ID            int64      `json:"id"`
	EntityID      int64      `json:"entityId"`
	CustomFieldID int64      `json:"customFieldId"`
	FieldValue    string     `json:"fieldValue"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt"`
}

// FieldWithValue joins a value with its field definition for callers that
// render both (name, type, options) alongside the stored value.
type FieldWithValue struct {
	ValueID       int64  `json:"valueId"`
	EntityID      int64  `json:"entityId"`
	CustomFieldID int64  `json:"customFieldId"`
	FieldValue    string `json:"fieldValue"`
	FieldName     string `json:"fieldName"`
	FieldType     string `json:"fieldType"`
	IsRequired    bool   `json:"isRequired"`
	Options       string `json:"options,omitempty"`
}
