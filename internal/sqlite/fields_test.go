package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantry-app/pantry/pkg/types"
)

func TestFieldValidation(t *testing.T) {
	s := newTestStore(t)
	entityID := addEntity(t, s, types.EntityTypeItem, "Drill")

	_, err := s.Fields().Save(&types.CustomField{FieldType: types.FieldTypeText, EntityID: &entityID})
	assert.ErrorIs(t, err, types.ErrInvalidName)

	_, err = s.Fields().Save(&types.CustomField{FieldName: "X", FieldType: "bignum", EntityID: &entityID})
	assert.ErrorIs(t, err, types.ErrInvalidFieldType)

	// A field must bind to a template or an entity.
	_, err = s.Fields().Save(&types.CustomField{FieldName: "X", FieldType: types.FieldTypeText})
	assert.ErrorIs(t, err, types.ErrInvalidData)
}

func TestEffectiveFields(t *testing.T) {
	s := newTestStore(t)

	category := addEntity(t, s, types.EntityTypeCategory, "Groceries")
	item, err := s.Entities().Save(&types.Entity{
		Type: types.EntityTypeItem, Name: "Milk", CategoryID: &category})
	require.NoError(t, err)

	inherited, err := s.Fields().Save(&types.CustomField{
		CategoryTemplateID: &category, FieldName: "Best before",
		FieldType: types.FieldTypeExpiryDate, SortOrder: 0})
	require.NoError(t, err)
	suppressed, err := s.Fields().Save(&types.CustomField{
		CategoryTemplateID: &category, FieldName: "Brand",
		FieldType: types.FieldTypeText, SortOrder: 1})
	require.NoError(t, err)
	own, err := s.Fields().Save(&types.CustomField{
		EntityID: &item, FieldName: "Opened on",
		FieldType: types.FieldTypeDate, SortOrder: 2})
	require.NoError(t, err)

	t.Run("inherits template fields plus own", func(t *testing.T) {
		fields, err := s.Fields().EffectiveFields(item)
		require.NoError(t, err)
		require.Len(t, fields, 3)
		assert.Equal(t, inherited, fields[0].ID)
		assert.Equal(t, suppressed, fields[1].ID)
		assert.Equal(t, own, fields[2].ID)
	})

	t.Run("exception suppresses one inherited field", func(t *testing.T) {
		require.NoError(t, s.Fields().AddException(item, suppressed))

		fields, err := s.Fields().EffectiveFields(item)
		require.NoError(t, err)
		require.Len(t, fields, 2)
		assert.Equal(t, inherited, fields[0].ID)
		assert.Equal(t, own, fields[1].ID)

		// Other entities under the same category are untouched.
		other, err := s.Entities().Save(&types.Entity{
			Type: types.EntityTypeItem, Name: "Yogurt", CategoryID: &category})
		require.NoError(t, err)
		otherFields, err := s.Fields().EffectiveFields(other)
		require.NoError(t, err)
		assert.Len(t, otherFields, 2)
	})

	t.Run("exception is idempotent and reversible", func(t *testing.T) {
		require.NoError(t, s.Fields().AddException(item, suppressed))

		exceptions, err := s.Fields().Exceptions(item)
		require.NoError(t, err)
		assert.Len(t, exceptions, 1)

		require.NoError(t, s.Fields().RemoveException(item, suppressed))
		fields, err := s.Fields().EffectiveFields(item)
		require.NoError(t, err)
		assert.Len(t, fields, 3)
	})

	t.Run("entity without category sees only own fields", func(t *testing.T) {
		loose := addEntity(t, s, types.EntityTypeItem, "Loose")
		fields, err := s.Fields().EffectiveFields(loose)
		require.NoError(t, err)
		assert.Empty(t, fields)
	})
}

func TestFieldArchiveStampsDeletedAt(t *testing.T) {
	s := newTestStore(t)
	entityID := addEntity(t, s, types.EntityTypeItem, "Drill")
	fieldID, err := s.Fields().Save(&types.CustomField{
		EntityID: &entityID, FieldName: "Voltage", FieldType: types.FieldTypeNumber})
	require.NoError(t, err)

	require.NoError(t, s.Fields().Archive(fieldID, true))
	f, err := s.Fields().Find(fieldID)
	require.NoError(t, err)
	assert.True(t, f.IsArchived)
	assert.NotNil(t, f.DeletedAt)

	// Archived fields leave the effective set.
	fields, err := s.Fields().EffectiveFields(entityID)
	require.NoError(t, err)
	assert.Empty(t, fields)

	require.NoError(t, s.Fields().Archive(fieldID, false))
	f, err = s.Fields().Find(fieldID)
	require.NoError(t, err)
	assert.False(t, f.IsArchived)
	assert.Nil(t, f.DeletedAt)
}

func TestFieldRemoveKeepsValues(t *testing.T) {
	s := newTestStore(t)
	entityID := addEntity(t, s, types.EntityTypeItem, "Drill")
	fieldID, err := s.Fields().Save(&types.CustomField{
		EntityID: &entityID, FieldName: "Voltage", FieldType: types.FieldTypeNumber})
	require.NoError(t, err)
	_, err = s.Values().SetFieldValue(entityID, fieldID, "18")
	require.NoError(t, err)

	require.NoError(t, s.Fields().Remove(fieldID))

	// Soft-deleted field no longer resolves, but the stored value survives.
	fields, err := s.Fields().FindByEntity(entityID)
	require.NoError(t, err)
	assert.Empty(t, fields)
	values, err := s.Values().FindByEntity(entityID)
	require.NoError(t, err)
	assert.Len(t, values, 1)
}

func TestFieldPurgeRestrictedByValues(t *testing.T) {
	s := newTestStore(t)
	entityID := addEntity(t, s, types.EntityTypeItem, "Drill")
	fieldID, err := s.Fields().Save(&types.CustomField{
		EntityID: &entityID, FieldName: "Voltage", FieldType: types.FieldTypeNumber})
	require.NoError(t, err)
	_, err = s.Values().SetFieldValue(entityID, fieldID, "18")
	require.NoError(t, err)

	// The value FK restricts physical deletion.
	assert.Error(t, s.Fields().Purge(fieldID))

	require.NoError(t, s.Values().RemoveByEntity(entityID))
	assert.NoError(t, s.Fields().Purge(fieldID))
}

func TestFieldCriteria(t *testing.T) {
	s := newTestStore(t)
	category := addEntity(t, s, types.EntityTypeCategory, "Groceries")
	_, err := s.Fields().Save(&types.CustomField{
		CategoryTemplateID: &category, FieldName: "Best before",
		FieldType: types.FieldTypeExpiryDate})
	require.NoError(t, err)

	found, err := s.Fields().FindBy(types.Criteria{"fieldType": types.FieldTypeExpiryDate})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = s.Fields().FindBy(types.Criteria{"field_type": "x"})
	assert.ErrorIs(t, err, types.ErrUnknownCriteriaField)
}
