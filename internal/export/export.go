// Package export writes backup envelopes to user-visible files and hands
// them to a share mechanism.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/pantry-app/pantry/internal/paths"
	"github.com/pantry-app/pantry/pkg/types"
)

// Sharer hands a written backup file to an external share mechanism. A
// user-canceled share returns ErrShareCanceled.
type Sharer interface {
	Share(path string) error
}

// Writer serializes backup envelopes to the documents directory, with a
// best-effort copy into the public downloads directory.
type Writer struct {
	DocumentsDir string
	DownloadsDir string

	log *zap.SugaredLogger
}

// NewWriter resolves the default target directories. A nil logger disables
// logging.
func NewWriter(log *zap.SugaredLogger) (*Writer, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	docs, err := paths.DefaultDocumentsDir()
	if err != nil {
		return nil, fmt.Errorf("resolving documents dir: %w", err)
	}
	downloads, err := paths.DefaultDownloadsDir()
	if err != nil {
		return nil, fmt.Errorf("resolving downloads dir: %w", err)
	}
	return &Writer{DocumentsDir: docs, DownloadsDir: downloads, log: log}, nil
}

// fileName derives the backup file name from the envelope timestamp.
func fileName(b *types.Backup) string {
	ts := b.Timestamp
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t = time.Now().UTC()
	}
	return "pantry-backup-" + t.Format("2006-01-02-150405") + ".json"
}

// Write serializes the envelope into the documents directory and returns the
// written path. The downloads copy is best effort; a failure there is logged
// and does not fail the export.
func (w *Writer) Write(b *types.Backup) (string, error) {
	if err := b.Validate(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding backup: %w", err)
	}

	if err := os.MkdirAll(w.DocumentsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating documents dir: %w", err)
	}
	name := fileName(b)
	path := filepath.Join(w.DocumentsDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing backup file: %w", err)
	}
	w.log.Infow("backup written", "path", path, "bytes", len(data))

	if w.DownloadsDir != "" {
		publicPath := filepath.Join(w.DownloadsDir, name)
		if err := os.WriteFile(publicPath, data, 0o644); err != nil {
			w.log.Warnw("public backup copy failed", "path", publicPath, "error", err)
		}
	}
	return path, nil
}

// WriteAndShare writes the envelope and offers the file through the sharer.
// A canceled share is not an error; the file stays on disk either way.
func (w *Writer) WriteAndShare(b *types.Backup, sharer Sharer) (string, error) {
	path, err := w.Write(b)
	if err != nil {
		return "", err
	}
	if sharer == nil {
		return path, nil
	}
	if err := sharer.Share(path); err != nil {
		if errors.Is(err, types.ErrShareCanceled) {
			w.log.Infow("share canceled", "path", path)
			return path, nil
		}
		return path, fmt.Errorf("sharing backup: %w", err)
	}
	return path, nil
}

// Read parses a backup file and validates the envelope shape.
func Read(path string) (*types.Backup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading backup file: %w", err)
	}
	var b types.Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidBackup, err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
