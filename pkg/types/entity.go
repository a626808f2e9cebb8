package types

import "time"

// Entity types. Items, categories and places share one polymorphic record
// distinguished by this discriminant.
const (
	EntityTypeItem     = "item"
	EntityTypeCategory = "category"
	EntityTypePlace    = "place"
)

// validEntityTypes is the set of recognized entity type values.
var validEntityTypes = map[string]bool{
	EntityTypeItem:     true,
	EntityTypeCategory: true,
	EntityTypePlace:    true,
}

// IsValidEntityType reports whether t is a recognized entity type.
func IsValidEntityType(t string) bool {
	return validEntityTypes[t]
}

// Entity is the unified record for items, categories and places.
//
// ParentID and CategoryID are independent self-references: ParentID encodes
// the location/containment hierarchy (stored-in), CategoryID the
// classification hierarchy (classified-as). Either may point at an entity of
// any type.
type Entity struct {
	ID          int64      `json:"id"`
	Type        string     `json:"type"`
	ParentID    *int64     `json:"parentId"`
	CategoryID  *int64     `json:"categoryId"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Icon        string     `json:"icon,omitempty"`
	Color       string     `json:"color,omitempty"`
	SortOrder   int64      `json:"sortOrder"`
	IsArchived  bool       `json:"isArchived"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt"`
}

// ExpiringEntity pairs an entity with the expiry date that put it inside the
// reminder window.
type ExpiringEntity struct {
	Entity    Entity `json:"entity"`
	FieldName string `json:"fieldName"`
	ExpiresOn string `json:"expiresOn"`
}

// Validate checks the minimum shape required before persisting.
func (e *Entity) Validate() error {
	if e.Name == "" {
		return ErrInvalidName
	}
	if !IsValidEntityType(e.Type) {
		return ErrInvalidType
	}
	return nil
}
