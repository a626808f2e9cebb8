package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantry-app/pantry/pkg/types"
)

// addEntity saves a minimal entity of the given type and returns its id.
func addEntity(t *testing.T, s *Store, entityType, name string) int64 {
	t.Helper()
	id, err := s.Entities().Save(&types.Entity{Type: entityType, Name: name})
	require.NoError(t, err)
	return id
}

// addExpiryField creates an entity-bound expiry_date field for the entity.
func addExpiryField(t *testing.T, s *Store, entityID int64) int64 {
	t.Helper()
	id, err := s.Fields().Save(&types.CustomField{
		EntityID:  &entityID,
		FieldName: "Expiry date",
		FieldType: types.FieldTypeExpiryDate,
	})
	require.NoError(t, err)
	return id
}

func TestEntityRoundTrip(t *testing.T) {
	s := newTestStore(t)

	parent := addEntity(t, s, types.EntityTypePlace, "Garage")
	category := addEntity(t, s, types.EntityTypeCategory, "Power tools")

	e := &types.Entity{
		Type:        types.EntityTypeItem,
		Name:        "Drill",
		Description: "Cordless",
		ParentID:    &parent,
		CategoryID:  &category,
		Icon:        "tool",
		Color:       "#ff8800",
		SortOrder:   3,
	}
	id, err := s.Entities().Save(e)
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := s.Entities().Find(id)
	require.NoError(t, err)
	assert.Equal(t, "Drill", got.Name)
	assert.Equal(t, "Cordless", got.Description)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, parent, *got.ParentID)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, category, *got.CategoryID)
	assert.Equal(t, int64(3), got.SortOrder)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Nil(t, got.DeletedAt)
}

func TestEntityValidation(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Entities().Save(&types.Entity{Type: types.EntityTypeItem})
	assert.ErrorIs(t, err, types.ErrInvalidName)

	_, err = s.Entities().Save(&types.Entity{Type: "drawer", Name: "X"})
	assert.ErrorIs(t, err, types.ErrInvalidType)
}

func TestEntityUpdatePreservesCreatedAt(t *testing.T) {
	s := newTestStore(t)
	id := addEntity(t, s, types.EntityTypeItem, "Drill")

	before, err := s.Entities().Find(id)
	require.NoError(t, err)

	before.Name = "Hammer drill"
	_, err = s.Entities().Save(before)
	require.NoError(t, err)

	after, err := s.Entities().Find(id)
	require.NoError(t, err)
	assert.Equal(t, "Hammer drill", after.Name)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
}

func TestEntityUpdateMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Entities().Save(&types.Entity{ID: 9999, Type: types.EntityTypeItem, Name: "Ghost"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestFindAllFiltersAndOrders(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Entities().Save(&types.Entity{Type: types.EntityTypeItem, Name: "Beta", SortOrder: 1})
	require.NoError(t, err)
	_, err = s.Entities().Save(&types.Entity{Type: types.EntityTypeItem, Name: "Alpha", SortOrder: 1})
	require.NoError(t, err)
	_, err = s.Entities().Save(&types.Entity{Type: types.EntityTypeItem, Name: "First", SortOrder: 0})
	require.NoError(t, err)
	_, err = s.Entities().Save(&types.Entity{Type: types.EntityTypeItem, Name: "Hidden", IsArchived: true})
	require.NoError(t, err)
	addEntity(t, s, types.EntityTypePlace, "Garage")

	items, err := s.Entities().FindAll(types.EntityTypeItem)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "First", items[0].Name)
	assert.Equal(t, "Alpha", items[1].Name)
	assert.Equal(t, "Beta", items[2].Name)

	all, err := s.Entities().FindAll("")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestFindChildren(t *testing.T) {
	s := newTestStore(t)

	garage := addEntity(t, s, types.EntityTypePlace, "Garage")
	shelf, err := s.Entities().Save(&types.Entity{
		Type: types.EntityTypePlace, Name: "Shelf", ParentID: &garage})
	require.NoError(t, err)
	_, err = s.Entities().Save(&types.Entity{
		Type: types.EntityTypeItem, Name: "Drill", ParentID: &garage})
	require.NoError(t, err)

	children, err := s.Entities().FindChildren(garage, "")
	require.NoError(t, err)
	assert.Len(t, children, 2)

	places, err := s.Entities().FindChildren(garage, types.EntityTypePlace)
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, shelf, places[0].ID)
}

func TestCriteria(t *testing.T) {
	s := newTestStore(t)
	garage := addEntity(t, s, types.EntityTypePlace, "Garage")
	_, err := s.Entities().Save(&types.Entity{
		Type: types.EntityTypeItem, Name: "Drill", ParentID: &garage})
	require.NoError(t, err)

	t.Run("find by attribute names", func(t *testing.T) {
		found, err := s.Entities().FindBy(types.Criteria{"type": types.EntityTypeItem, "parentId": garage})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Drill", found[0].Name)
	})

	t.Run("unknown key fails loudly", func(t *testing.T) {
		_, err := s.Entities().FindBy(types.Criteria{"parent_id": garage})
		assert.ErrorIs(t, err, types.ErrUnknownCriteriaField)
	})

	t.Run("find one by", func(t *testing.T) {
		e, err := s.Entities().FindOneBy(types.Criteria{"name": "Drill"})
		require.NoError(t, err)
		assert.Equal(t, "Drill", e.Name)

		_, err = s.Entities().FindOneBy(types.Criteria{"name": "Nothing"})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("count", func(t *testing.T) {
		n, err := s.Entities().Count(types.Criteria{"type": types.EntityTypeItem})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func TestSoftDeleteAndPurge(t *testing.T) {
	s := newTestStore(t)

	t.Run("remove hides without destroying", func(t *testing.T) {
		id := addEntity(t, s, types.EntityTypeItem, "Milk")
		require.NoError(t, s.Entities().Remove(id))

		// Direct lookup still works, carries the deletion stamp.
		e, err := s.Entities().Find(id)
		require.NoError(t, err)
		assert.NotNil(t, e.DeletedAt)

		// Gone from lists and criteria queries.
		items, err := s.Entities().FindAll(types.EntityTypeItem)
		require.NoError(t, err)
		for _, it := range items {
			assert.NotEqual(t, id, it.ID)
		}
		found, err := s.Entities().FindBy(types.Criteria{"name": "Milk"})
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("remove twice fails", func(t *testing.T) {
		id := addEntity(t, s, types.EntityTypeItem, "Eggs")
		require.NoError(t, s.Entities().Remove(id))
		assert.ErrorIs(t, s.Entities().Remove(id), types.ErrNotFound)
	})

	t.Run("purge cascades related data", func(t *testing.T) {
		id := addEntity(t, s, types.EntityTypeItem, "Cheese")
		fieldID := addExpiryField(t, s, id)
		_, err := s.Values().SetFieldValue(id, fieldID, "2030-01-01")
		require.NoError(t, err)
		_, err = s.Codes().Save(&types.Code{EntityID: id, CodeValue: "5901234123457"})
		require.NoError(t, err)

		require.NoError(t, s.Entities().Purge(id))

		_, err = s.Entities().Find(id)
		assert.ErrorIs(t, err, types.ErrNotFound)
		values, err := s.Values().FindByEntity(id)
		require.NoError(t, err)
		assert.Empty(t, values)
		codes, err := s.Codes().FindByEntity(id)
		require.NoError(t, err)
		assert.Empty(t, codes)
	})
}

func TestCreateWithRelatedData(t *testing.T) {
	s := newTestStore(t)

	category := addEntity(t, s, types.EntityTypeCategory, "Groceries")
	templateField, err := s.Fields().Save(&types.CustomField{
		CategoryTemplateID: &category,
		FieldName:          "Best before",
		FieldType:          types.FieldTypeExpiryDate,
	})
	require.NoError(t, err)

	t.Run("creates entity, code and values in one unit", func(t *testing.T) {
		id, err := s.Entities().CreateWithRelatedData(
			&types.Entity{Type: types.EntityTypeItem, Name: "Milk", CategoryID: &category},
			&types.Code{CodeValue: "4006381333931"},
			map[int64]string{templateField: "2030-06-01"},
			[]types.AdhocAttribute{{Name: "Brand", FieldType: types.FieldTypeText, Value: "Arla"}},
		)
		require.NoError(t, err)

		e, err := s.Codes().FindEntityByCode("4006381333931", types.CodeTypeBarcode)
		require.NoError(t, err)
		assert.Equal(t, id, e.ID)

		values, err := s.Values().FindByEntityWithFields(id)
		require.NoError(t, err)
		require.Len(t, values, 2)

		fields, err := s.Fields().FindByEntity(id)
		require.NoError(t, err)
		require.Len(t, fields, 1)
		assert.Equal(t, "Brand", fields[0].FieldName)
	})

	t.Run("invalid date rolls the whole unit back", func(t *testing.T) {
		before, err := s.Entities().Count(nil)
		require.NoError(t, err)

		_, err = s.Entities().CreateWithRelatedData(
			&types.Entity{Type: types.EntityTypeItem, Name: "Yogurt", CategoryID: &category},
			&types.Code{CodeValue: "4006381333948"},
			map[int64]string{templateField: "06/01/2030"},
			nil,
		)
		assert.ErrorIs(t, err, types.ErrInvalidDate)

		after, err := s.Entities().Count(nil)
		require.NoError(t, err)
		assert.Equal(t, before, after)

		_, err = s.Codes().FindEntityByCode("4006381333948", types.CodeTypeBarcode)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestExpiryWindow(t *testing.T) {
	s := newTestStore(t)

	day := func(offset int) string {
		return time.Now().UTC().AddDate(0, 0, offset).Format("2006-01-02")
	}

	add := func(name, expiresOn string) int64 {
		id := addEntity(t, s, types.EntityTypeItem, name)
		fieldID := addExpiryField(t, s, id)
		_, err := s.Values().SetFieldValue(id, fieldID, expiresOn)
		require.NoError(t, err)
		return id
	}

	today := add("Today", day(0))
	edge := add("Edge", day(3))
	add("Beyond", day(4))
	add("Past", day(-1))

	archived := add("Archived", day(1))
	e, err := s.Entities().Find(archived)
	require.NoError(t, err)
	e.IsArchived = true
	_, err = s.Entities().Save(e)
	require.NoError(t, err)

	expiring, err := s.Entities().FindExpiringIn3Days()
	require.NoError(t, err)
	require.Len(t, expiring, 2)
	assert.Equal(t, today, expiring[0].Entity.ID)
	assert.Equal(t, day(0), expiring[0].ExpiresOn)
	assert.Equal(t, edge, expiring[1].Entity.ID)
	assert.Equal(t, "Expiry date", expiring[1].FieldName)
}

// Timestamps reach the database two ways: bound from Go on inserts, and
// written by triggers or column defaults inside SQLite. Both must scan back
// as real times on DATETIME columns.
func TestTimestampScanning(t *testing.T) {
	s := newTestStore(t)
	start := time.Now().UTC().Add(-time.Minute)

	id := addEntity(t, s, types.EntityTypeItem, "Milk")
	e, err := s.Entities().Find(id)
	require.NoError(t, err)
	assert.True(t, e.CreatedAt.After(start), "created_at %v not after %v", e.CreatedAt, start)
	assert.Nil(t, e.UpdatedAt)
	assert.Nil(t, e.DeletedAt)

	// updated_at is stamped by the touch trigger, not by Go.
	e.Name = "Oat milk"
	_, err = s.Entities().Save(e)
	require.NoError(t, err)
	e, err = s.Entities().Find(id)
	require.NoError(t, err)
	require.NotNil(t, e.UpdatedAt)
	assert.True(t, e.UpdatedAt.After(start))

	// deleted_at comes from CURRENT_TIMESTAMP in the soft delete.
	require.NoError(t, s.Entities().Remove(id))
	e, err = s.Entities().Find(id)
	require.NoError(t, err)
	require.NotNil(t, e.DeletedAt)
	assert.True(t, e.DeletedAt.After(start))

	// Exception rows take created_at from the column default.
	itemID := addEntity(t, s, types.EntityTypeItem, "Eggs")
	category := addEntity(t, s, types.EntityTypeCategory, "Groceries")
	fieldID, err := s.Fields().Save(&types.CustomField{
		CategoryTemplateID: &category,
		FieldName:          "Best before",
		FieldType:          types.FieldTypeExpiryDate,
	})
	require.NoError(t, err)
	require.NoError(t, s.Fields().AddException(itemID, fieldID))
	exceptions, err := s.Fields().Exceptions(itemID)
	require.NoError(t, err)
	require.Len(t, exceptions, 1)
	assert.True(t, exceptions[0].CreatedAt.After(start))
}

func TestUpdatedAtTrigger(t *testing.T) {
	s := newTestStore(t)
	id := addEntity(t, s, types.EntityTypeItem, "Drill")

	before, err := s.Entities().Find(id)
	require.NoError(t, err)
	assert.Nil(t, before.UpdatedAt)

	before.Name = "Impact drill"
	_, err = s.Entities().Save(before)
	require.NoError(t, err)

	after, err := s.Entities().Find(id)
	require.NoError(t, err)
	assert.NotNil(t, after.UpdatedAt)
}
