package types

// Criteria is a model-attribute-name → value mapping for the generic
// FindBy/FindOneBy lookups. Every entry is AND-ed as an equality predicate.
// Repositories validate keys against an explicit column map, so a mistyped
// attribute fails with ErrUnknownCriteriaField instead of silently matching
// nothing. Callers needing ranges, OR or null tests use dedicated finders.
type Criteria map[string]any

// AdhocAttribute describes an entity-bound field created during composite
// entity creation. For file and image attributes the payloads are persisted
// as File rows and the resulting id list is serialized as the field value;
// for every other type Value is stored directly.
type AdhocAttribute struct {
	Name      string
	FieldType string
	Value     string
	Files     []File
}
