package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pantry-app/pantry/pkg/types"
)

const fileCols = "id, entity_id, file_path, file_name, mime_type, is_primary, thumbnail_path, created_at"

var fileColumns = map[string]string{
	"id":        "id",
	"entityId":  "entity_id",
	"fileName":  "file_name",
	"mimeType":  "mime_type",
	"isPrimary": "is_primary",
}

// FileRepository provides CRUD over binary attachments.
type FileRepository struct {
	s *Store
}

func scanFile(row rowScanner) (*types.File, error) {
	var f types.File
	var mime, thumb sql.NullString
	err := row.Scan(&f.ID, &f.EntityID, &f.FilePath, &f.FileName, &mime, &f.IsPrimary, &thumb, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning file: %w", err)
	}
	f.MimeType = mime.String
	f.ThumbnailPath = thumb.String
	return &f, nil
}

func collectFiles(rows *sql.Rows) ([]types.File, error) {
	defer rows.Close()
	results := []types.File{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *f)
	}
	return results, rows.Err()
}

// Find returns the file with the given id.
func (r *FileRepository) Find(id int64) (*types.File, error) {
	if id == 0 {
		return nil, types.ErrInvalidID
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	row := r.s.db.QueryRow("SELECT "+fileCols+" FROM File WHERE id = ?", id)
	return scanFile(row)
}

// FindByEntity returns all files attached to an entity, primary first.
func (r *FileRepository) FindByEntity(entityID int64) ([]types.File, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := r.s.db.Query(
		"SELECT "+fileCols+" FROM File WHERE entity_id = ? ORDER BY is_primary DESC, created_at ASC",
		entityID)
	if err != nil {
		return nil, fmt.Errorf("fetching entity files: %w", err)
	}
	return collectFiles(rows)
}

// FindBy returns files matching all criteria entries.
func (r *FileRepository) FindBy(c types.Criteria) ([]types.File, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	where, args, err := criteriaClause(fileColumns, c)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + fileCols + " FROM File"
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching files: %w", err)
	}
	return collectFiles(rows)
}

// Save inserts the file when it has no id, otherwise updates it in place.
func (r *FileRepository) Save(f *types.File) (int64, error) {
	if f.EntityID == 0 {
		return 0, types.ErrInvalidID
	}
	if f.FilePath == "" || f.FileName == "" {
		return 0, types.ErrInvalidData
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return 0, err
	}

	if f.ID != 0 {
		res, err := r.s.db.Exec(`UPDATE File SET
            entity_id = ?, file_path = ?, file_name = ?, mime_type = ?,
            is_primary = ?, thumbnail_path = ?
            WHERE id = ?`,
			f.EntityID, f.FilePath, f.FileName, nullStr(f.MimeType),
			f.IsPrimary, nullStr(f.ThumbnailPath), f.ID)
		if err != nil {
			return 0, fmt.Errorf("updating file: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return 0, types.ErrNotFound
		}
		return f.ID, nil
	}

	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	return insertFile(r.s.db, f)
}

func insertFile(db execer, f *types.File) (int64, error) {
	res, err := db.Exec(`INSERT INTO File
        (entity_id, file_path, file_name, mime_type, is_primary, thumbnail_path, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.EntityID, f.FilePath, f.FileName, nullStr(f.MimeType),
		f.IsPrimary, nullStr(f.ThumbnailPath), f.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading file id: %w", err)
	}
	f.ID = id
	return id, nil
}

// SetPrimary marks one file as the entity's primary attachment. All other
// files of the same entity are demoted in the same transaction, so at most
// one primary exists at any observable point.
func (r *FileRepository) SetPrimary(entityID, fileID int64) error {
	if entityID == 0 || fileID == 0 {
		return types.ErrInvalidID
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return err
	}

	tx, err := r.s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning set-primary transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE File SET is_primary = 0 WHERE entity_id = ?", entityID); err != nil {
		return fmt.Errorf("clearing primary flag: %w", err)
	}
	res, err := tx.Exec("UPDATE File SET is_primary = 1 WHERE id = ? AND entity_id = ?",
		fileID, entityID)
	if err != nil {
		return fmt.Errorf("setting primary flag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing set-primary transaction: %w", err)
	}
	return nil
}

// Remove deletes the file row. The caller owns removing the bytes on disk.
func (r *FileRepository) Remove(v any) error {
	if f, ok := v.(*types.File); ok {
		v = f.ID
	}
	id, ok := idArg(v)
	if !ok || id == 0 {
		return types.ErrInvalidID
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return err
	}

	res, err := r.s.db.Exec("DELETE FROM File WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}
