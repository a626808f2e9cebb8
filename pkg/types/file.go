package types

import "time"

// File is a binary attachment (image or document) bound to exactly one
// entity. At most one file per entity carries IsPrimary; the exclusivity is
// enforced by the repository's reset-then-set transaction, not by a
// constraint.
type File struct {
	ID            int64     `json:"id"`
	EntityID      int64     `json:"entityId"`
	FilePath      string    `json:"filePath"`
	FileName      string    `json:"fileName"`
	MimeType      string    `json:"mimeType,omitempty"`
	IsPrimary     bool      `json:"isPrimary"`
	ThumbnailPath string    `json:"thumbnailPath,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
