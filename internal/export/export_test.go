package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantry-app/pantry/pkg/types"
)

func testBackup() *types.Backup {
	return &types.Backup{
		Version:   types.BackupVersion,
		ID:        "test-install",
		Timestamp: "2026-08-30T12:00:00Z",
		Data: &types.BackupData{
			Entities: []types.Entity{{ID: 1, Type: types.EntityTypeItem, Name: "Drill"}},
		},
	}
}

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	w, err := NewWriter(nil)
	require.NoError(t, err)
	w.DocumentsDir = t.TempDir()
	w.DownloadsDir = t.TempDir()
	return w
}

func TestWriteRoundTrip(t *testing.T) {
	w := newTestWriter(t)
	b := testBackup()

	path, err := w.Write(b)
	require.NoError(t, err)
	assert.Equal(t, w.DocumentsDir, filepath.Dir(path))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	require.Len(t, got.Data.Entities, 1)
	assert.Equal(t, "Drill", got.Data.Entities[0].Name)

	// Best-effort public copy landed too.
	_, err = os.Stat(filepath.Join(w.DownloadsDir, filepath.Base(path)))
	assert.NoError(t, err)
}

func TestWriteSurvivesDownloadsFailure(t *testing.T) {
	w := newTestWriter(t)
	w.DownloadsDir = filepath.Join(w.DownloadsDir, "does", "not", "exist")

	path, err := w.Write(testBackup())
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteRejectsInvalidEnvelope(t *testing.T) {
	w := newTestWriter(t)
	_, err := w.Write(&types.Backup{})
	assert.ErrorIs(t, err, types.ErrInvalidBackup)
}

func TestReadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Read(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		_, err := Read(path)
		assert.ErrorIs(t, err, types.ErrInvalidBackup)
	})

	t.Run("valid json, invalid envelope", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.json")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
		_, err := Read(path)
		assert.ErrorIs(t, err, types.ErrInvalidBackup)
	})
}

// recordingSharer captures the shared path and returns a scripted error.
type recordingSharer struct {
	path string
	err  error
}

func (r *recordingSharer) Share(path string) error {
	r.path = path
	return r.err
}

func TestWriteAndShare(t *testing.T) {
	t.Run("hands the written path to the sharer", func(t *testing.T) {
		w := newTestWriter(t)
		sharer := &recordingSharer{}
		path, err := w.WriteAndShare(testBackup(), sharer)
		require.NoError(t, err)
		assert.Equal(t, path, sharer.path)
	})

	t.Run("cancel is swallowed", func(t *testing.T) {
		w := newTestWriter(t)
		sharer := &recordingSharer{err: types.ErrShareCanceled}
		path, err := w.WriteAndShare(testBackup(), sharer)
		require.NoError(t, err)
		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("other share failures surface", func(t *testing.T) {
		w := newTestWriter(t)
		sharer := &recordingSharer{err: errors.New("transport broke")}
		_, err := w.WriteAndShare(testBackup(), sharer)
		assert.Error(t, err)
	})

	t.Run("nil sharer writes only", func(t *testing.T) {
		w := newTestWriter(t)
		path, err := w.WriteAndShare(testBackup(), nil)
		require.NoError(t, err)
		assert.NotEmpty(t, path)
	})
}
