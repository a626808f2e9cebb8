package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantry-app/pantry/pkg/types"
)

func addFile(t *testing.T, s *Store, entityID int64, name string) int64 {
	t.Helper()
	id, err := s.Files().Save(&types.File{
		EntityID: entityID,
		FilePath: "/photos/" + name,
		FileName: name,
		MimeType: "image/jpeg",
	})
	require.NoError(t, err)
	return id
}

func TestPrimaryFileExclusivity(t *testing.T) {
	s := newTestStore(t)
	entityID := addEntity(t, s, types.EntityTypeItem, "Drill")

	a := addFile(t, s, entityID, "front.jpg")
	b := addFile(t, s, entityID, "back.jpg")
	c := addFile(t, s, entityID, "side.jpg")

	countPrimary := func() int {
		files, err := s.Files().FindByEntity(entityID)
		require.NoError(t, err)
		n := 0
		for _, f := range files {
			if f.IsPrimary {
				n++
			}
		}
		return n
	}

	require.NoError(t, s.Files().SetPrimary(entityID, a))
	assert.Equal(t, 1, countPrimary())

	// Promoting another file demotes the previous one in the same step.
	require.NoError(t, s.Files().SetPrimary(entityID, b))
	assert.Equal(t, 1, countPrimary())
	f, err := s.Files().Find(b)
	require.NoError(t, err)
	assert.True(t, f.IsPrimary)
	f, err = s.Files().Find(a)
	require.NoError(t, err)
	assert.False(t, f.IsPrimary)

	// Primary sorts first in the entity listing.
	files, err := s.Files().FindByEntity(entityID)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, b, files[0].ID)

	// A file of another entity cannot be promoted through this one.
	other := addEntity(t, s, types.EntityTypeItem, "Hammer")
	assert.ErrorIs(t, s.Files().SetPrimary(other, c), types.ErrNotFound)
}

func TestFileValidationAndRemove(t *testing.T) {
	s := newTestStore(t)
	entityID := addEntity(t, s, types.EntityTypeItem, "Drill")

	_, err := s.Files().Save(&types.File{EntityID: entityID, FileName: "x.jpg"})
	assert.ErrorIs(t, err, types.ErrInvalidData)

	id := addFile(t, s, entityID, "front.jpg")
	require.NoError(t, s.Files().Remove(id))
	_, err = s.Files().Find(id)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestFilesCascadeWithEntityPurge(t *testing.T) {
	s := newTestStore(t)
	entityID := addEntity(t, s, types.EntityTypeItem, "Drill")
	addFile(t, s, entityID, "front.jpg")

	require.NoError(t, s.Entities().Purge(entityID))
	files, err := s.Files().FindByEntity(entityID)
	require.NoError(t, err)
	assert.Empty(t, files)
}
