package types

import "time"

// Tag is a user-defined label, globally unique by name.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// EntityTag links one tag to one entity. The pair is unique.
type EntityTag struct {
	ID        int64     `json:"id"`
	EntityID  int64     `json:"entityId"`
	TagID     int64     `json:"tagId"`
	CreatedAt time.Time `json:"createdAt"`
}
