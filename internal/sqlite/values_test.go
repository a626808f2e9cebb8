package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantry-app/pantry/pkg/types"
)

func TestSetFieldValueUpsert(t *testing.T) {
	s := newTestStore(t)
	entityID := addEntity(t, s, types.EntityTypeItem, "Drill")
	fieldID, err := s.Fields().Save(&types.CustomField{
		EntityID: &entityID, FieldName: "Voltage", FieldType: types.FieldTypeNumber})
	require.NoError(t, err)

	first, err := s.Values().SetFieldValue(entityID, fieldID, "18")
	require.NoError(t, err)
	require.NotZero(t, first)

	// Writing the same pair again updates in place and keeps the row id.
	second, err := s.Values().SetFieldValue(entityID, fieldID, "20")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	values, err := s.Values().FindByEntity(entityID)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, "20", values[0].FieldValue)
}

func TestSetFieldValueDateValidation(t *testing.T) {
	s := newTestStore(t)
	entityID := addEntity(t, s, types.EntityTypeItem, "Milk")
	fieldID := addExpiryField(t, s, entityID)

	for _, bad := range []string{"01/06/2030", "2030-6-1", "tomorrow", "2030-06-01T00:00:00Z"} {
		_, err := s.Values().SetFieldValue(entityID, fieldID, bad)
		assert.ErrorIs(t, err, types.ErrInvalidDate, "value %q", bad)
	}

	_, err := s.Values().SetFieldValue(entityID, fieldID, "2030-06-01")
	assert.NoError(t, err)

	// Non-date fields take anything.
	textField, err := s.Fields().Save(&types.CustomField{
		EntityID: &entityID, FieldName: "Note", FieldType: types.FieldTypeText})
	require.NoError(t, err)
	_, err = s.Values().SetFieldValue(entityID, textField, "opened 01/06")
	assert.NoError(t, err)
}

func TestSetFieldValueEmptyClears(t *testing.T) {
	s := newTestStore(t)
	entityID := addEntity(t, s, types.EntityTypeItem, "Drill")
	fieldID, err := s.Fields().Save(&types.CustomField{
		EntityID: &entityID, FieldName: "Note", FieldType: types.FieldTypeText})
	require.NoError(t, err)

	_, err = s.Values().SetFieldValue(entityID, fieldID, "spare battery in drawer")
	require.NoError(t, err)
	_, err = s.Values().SetFieldValue(entityID, fieldID, "")
	require.NoError(t, err)

	values, err := s.Values().FindByEntity(entityID)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestFindByEntityWithFields(t *testing.T) {
	s := newTestStore(t)
	entityID := addEntity(t, s, types.EntityTypeItem, "Drill")
	voltage, err := s.Fields().Save(&types.CustomField{
		EntityID: &entityID, FieldName: "Voltage", FieldType: types.FieldTypeNumber, SortOrder: 0})
	require.NoError(t, err)
	_, err = s.Fields().Save(&types.CustomField{
		EntityID: &entityID, FieldName: "Note", FieldType: types.FieldTypeText, SortOrder: 1})
	require.NoError(t, err)
	_, err = s.Values().SetFieldValue(entityID, voltage, "18")
	require.NoError(t, err)

	values, err := s.Values().FindByEntityWithFields(entityID)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, "Voltage", values[0].FieldName)
	assert.Equal(t, types.FieldTypeNumber, values[0].FieldType)
	assert.Equal(t, "18", values[0].FieldValue)
}

func TestValueSave(t *testing.T) {
	s := newTestStore(t)
	entityID := addEntity(t, s, types.EntityTypeItem, "Drill")
	fieldID, err := s.Fields().Save(&types.CustomField{
		EntityID: &entityID, FieldName: "Note", FieldType: types.FieldTypeText})
	require.NoError(t, err)

	v := &types.CustomFieldValue{EntityID: entityID, CustomFieldID: fieldID, FieldValue: "first"}
	id, err := s.Values().Save(v)
	require.NoError(t, err)
	assert.Equal(t, id, v.ID)

	v2 := &types.CustomFieldValue{EntityID: entityID, CustomFieldID: fieldID, FieldValue: "second"}
	id2, err := s.Values().Save(v2)
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	got, err := s.Values().Find(id)
	require.NoError(t, err)
	assert.Equal(t, "second", got.FieldValue)
}
