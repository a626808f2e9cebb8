package types

import "errors"

// Standard errors returned by the repositories and the backup engine.
var (
	// ErrNotFound is returned by single-row lookups that match nothing.
	// List lookups return empty slices instead.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidID is returned when an operation receives an empty or zero id.
	ErrInvalidID = errors.New("invalid id")

	// ErrInvalidData is returned when a model fails basic validation
	// (missing required attributes, malformed references).
	ErrInvalidData = errors.New("invalid data")

	// ErrInvalidType is returned for an entity type outside item/category/place.
	ErrInvalidType = errors.New("invalid entity type")

	// ErrInvalidFieldType is returned for an unrecognized custom field type.
	ErrInvalidFieldType = errors.New("invalid field type")

	// ErrInvalidName is returned for an empty name where one is required.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidDate is returned when a date or expiry_date field value is
	// not a strict YYYY-MM-DD string. The expiry window query compares ISO
	// date strings lexicographically, so the format is enforced at write time.
	ErrInvalidDate = errors.New("date value must be YYYY-MM-DD")

	// ErrUnknownCriteriaField is returned by FindBy/FindOneBy when a criteria
	// key does not name a known model attribute. A typo fails loudly instead
	// of silently filtering nothing.
	ErrUnknownCriteriaField = errors.New("unknown criteria field")

	// ErrInvalidBackup is returned before any destructive restore step when
	// the envelope is missing its version or data sections.
	ErrInvalidBackup = errors.New("invalid backup file format")

	// ErrShareCanceled marks a user-canceled share hand-off. Export treats it
	// as a silent, recoverable outcome rather than a failure.
	ErrShareCanceled = errors.New("share canceled")

	// ErrStoreClosed is returned by operations on a store that was never
	// opened or has been closed.
	ErrStoreClosed = errors.New("store is closed")

	// ErrAlreadyOpen is returned by Open on a store that is already open.
	ErrAlreadyOpen = errors.New("store is already open")
)
