package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pantry-app/pantry/pkg/types"
)

const codeCols = "id, entity_id, code_type, code_value, created_at"

var codeColumns = map[string]string{
	"id":        "id",
	"entityId":  "entity_id",
	"codeType":  "code_type",
	"codeValue": "code_value",
}

// CodeRepository provides CRUD over scannable codes and the reverse lookup
// from a scanned value to its entity.
type CodeRepository struct {
	s *Store
}

func scanCode(row rowScanner) (*types.Code, error) {
	var c types.Code
	err := row.Scan(&c.ID, &c.EntityID, &c.CodeType, &c.CodeValue, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning code: %w", err)
	}
	return &c, nil
}

func collectCodes(rows *sql.Rows) ([]types.Code, error) {
	defer rows.Close()
	results := []types.Code{}
	for rows.Next() {
		c, err := scanCode(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *c)
	}
	return results, rows.Err()
}

// Find returns the code with the given id.
func (r *CodeRepository) Find(id int64) (*types.Code, error) {
	if id == 0 {
		return nil, types.ErrInvalidID
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	row := r.s.db.QueryRow("SELECT "+codeCols+" FROM Code WHERE id = ?", id)
	return scanCode(row)
}

// FindByEntity returns all codes bound to an entity.
func (r *CodeRepository) FindByEntity(entityID int64) ([]types.Code, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := r.s.db.Query(
		"SELECT "+codeCols+" FROM Code WHERE entity_id = ? ORDER BY created_at ASC",
		entityID)
	if err != nil {
		return nil, fmt.Errorf("fetching entity codes: %w", err)
	}
	return collectCodes(rows)
}

// FindBy returns codes matching all criteria entries.
func (r *CodeRepository) FindBy(c types.Criteria) ([]types.Code, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	where, args, err := criteriaClause(codeColumns, c)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + codeCols + " FROM Code"
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching codes: %w", err)
	}
	return collectCodes(rows)
}

// Save inserts the code when it has no id, otherwise updates it in place.
// An empty type defaults to barcode, matching what the camera scanner emits.
func (r *CodeRepository) Save(c *types.Code) (int64, error) {
	if c.EntityID == 0 {
		return 0, types.ErrInvalidID
	}
	if c.CodeValue == "" {
		return 0, types.ErrInvalidData
	}
	if c.CodeType == "" {
		c.CodeType = types.CodeTypeBarcode
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return 0, err
	}

	if c.ID != 0 {
		res, err := r.s.db.Exec(
			"UPDATE Code SET entity_id = ?, code_type = ?, code_value = ? WHERE id = ?",
			c.EntityID, c.CodeType, c.CodeValue, c.ID)
		if err != nil {
			return 0, fmt.Errorf("updating code: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return 0, types.ErrNotFound
		}
		return c.ID, nil
	}

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return insertCode(r.s.db, c)
}

func insertCode(db execer, c *types.Code) (int64, error) {
	res, err := db.Exec(
		"INSERT INTO Code (entity_id, code_type, code_value, created_at) VALUES (?, ?, ?, ?)",
		c.EntityID, c.CodeType, c.CodeValue, c.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting code: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading code id: %w", err)
	}
	c.ID = id
	return id, nil
}

// FindEntityByCode resolves a scanned value to its owning entity. Archived
// and deleted entities do not resolve; the scan flow treats that the same as
// an unknown code.
func (r *CodeRepository) FindEntityByCode(value, codeType string) (*types.Entity, error) {
	if value == "" {
		return nil, types.ErrInvalidData
	}
	if codeType == "" {
		codeType = types.CodeTypeBarcode
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	row := r.s.db.QueryRow(`SELECT `+prefixCols("e", entityCols)+`
        FROM Entity e
        JOIN Code c ON c.entity_id = e.id
        WHERE c.code_value = ? AND c.code_type = ?
          AND e.is_archived = 0 AND e.deleted_at IS NULL`,
		value, codeType)
	return scanEntity(row)
}

// Remove deletes the code row.
func (r *CodeRepository) Remove(v any) error {
	if c, ok := v.(*types.Code); ok {
		v = c.ID
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

	res, err := r.s.db.Exec("DELETE FROM Code WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting code: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}
