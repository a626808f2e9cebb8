package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pantry-app/pantry/pkg/types"
)

// entityCols is the select list shared by every entity query.
const entityCols = `id, type, parent_id, category_id, name, description, icon, color,
    sort_order, is_archived, created_at, updated_at, deleted_at`

// entityColumns maps model attribute names to storage columns for generic
// criteria lookups.
var entityColumns = map[string]string{
	"id":         "id",
	"type":       "type",
	"parentId":   "parent_id",
	"categoryId": "category_id",
	"name":       "name",
	"icon":       "icon",
	"color":      "color",
	"sortOrder":  "sort_order",
	"isArchived": "is_archived",
}

// EntityRepository provides CRUD and queries over the polymorphic Entity
// table. Remove is a soft delete; Purge removes physically with storage-level
// cascades.
type EntityRepository struct {
	s *Store
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (*types.Entity, error) {
	var e types.Entity
	var parentID, categoryID, sortOrder sql.NullInt64
	var description, icon, color sql.NullString
	var updatedAt, deletedAt sql.NullTime

	err := row.Scan(&e.ID, &e.Type, &parentID, &categoryID, &e.Name, &description,
		&icon, &color, &sortOrder, &e.IsArchived, &e.CreatedAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning entity: %w", err)
	}

	e.ParentID = idPtr(parentID)
	e.CategoryID = idPtr(categoryID)
	e.Description = description.String
	e.Icon = icon.String
	e.Color = color.String
	e.SortOrder = sortOrder.Int64
	e.UpdatedAt = timePtr(updatedAt)
	e.DeletedAt = timePtr(deletedAt)
	return &e, nil
}

func collectEntities(rows *sql.Rows) ([]types.Entity, error) {
	defer rows.Close()
	results := []types.Entity{}
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *e)
	}
	return results, rows.Err()
}

// FindAll returns live entities, optionally restricted to one type, ordered
// by sort order. Archived and soft-deleted rows are excluded.
func (r *EntityRepository) FindAll(entityType string) ([]types.Entity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	query := "SELECT " + entityCols + " FROM Entity WHERE is_archived = 0 AND deleted_at IS NULL"
	var args []any
	if entityType != "" {
		query += " AND type = ?"
		args = append(args, entityType)
	}
	query += " ORDER BY sort_order ASC, name ASC"

	rows, err := r.s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching entities: %w", err)
	}
	return collectEntities(rows)
}

// Find returns the entity with the given id, soft-deleted or not. Callers
// listing live records use FindAll/FindBy.
func (r *EntityRepository) Find(id int64) (*types.Entity, error) {
	if id == 0 {
		return nil, types.ErrInvalidID
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	row := r.s.db.QueryRow("SELECT "+entityCols+" FROM Entity WHERE id = ?", id)
	return scanEntity(row)
}

// FindBy returns live entities matching all criteria entries.
func (r *EntityRepository) FindBy(c types.Criteria) ([]types.Entity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	where, args, err := criteriaClause(entityColumns, c)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + entityCols + " FROM Entity WHERE deleted_at IS NULL"
	if where != "" {
		query += " AND " + where
	}
	query += " ORDER BY sort_order ASC, name ASC"

	rows, err := r.s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching entities: %w", err)
	}
	return collectEntities(rows)
}

// FindOneBy returns the first live entity matching all criteria entries.
func (r *EntityRepository) FindOneBy(c types.Criteria) (*types.Entity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	where, args, err := criteriaClause(entityColumns, c)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + entityCols + " FROM Entity WHERE deleted_at IS NULL"
	if where != "" {
		query += " AND " + where
	}
	query += " LIMIT 1"

	row := r.s.db.QueryRow(query, args...)
	return scanEntity(row)
}

// FindChildren returns live entities whose parent is parentID, optionally
// restricted to one type.
func (r *EntityRepository) FindChildren(parentID int64, entityType string) ([]types.Entity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	query := "SELECT " + entityCols + ` FROM Entity
        WHERE parent_id = ? AND is_archived = 0 AND deleted_at IS NULL`
	args := []any{parentID}
	if entityType != "" {
		query += " AND type = ?"
		args = append(args, entityType)
	}
	query += " ORDER BY sort_order ASC, name ASC"

	rows, err := r.s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching children: %w", err)
	}
	return collectEntities(rows)
}

// Count returns the number of live entities matching the criteria.
func (r *EntityRepository) Count(c types.Criteria) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return 0, err
	}

	where, args, err := criteriaClause(entityColumns, c)
	if err != nil {
		return 0, err
	}
	query := "SELECT COUNT(*) FROM Entity WHERE deleted_at IS NULL"
	if where != "" {
		query += " AND " + where
	}

	var n int64
	if err := r.s.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting entities: %w", err)
	}
	return n, nil
}

// Save inserts the entity when it has no id, otherwise updates it in place.
// Updates never touch created_at; updated_at is stamped by the storage layer.
// Returns the entity id.
func (r *EntityRepository) Save(e *types.Entity) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return 0, err
	}

	if e.ID != 0 {
		res, err := r.s.db.Exec(`UPDATE Entity
            SET type = ?, parent_id = ?, category_id = ?, name = ?, description = ?,
                icon = ?, color = ?, sort_order = ?, is_archived = ?
            WHERE id = ?`,
			e.Type, nullID(e.ParentID), nullID(e.CategoryID), e.Name, nullStr(e.Description),
			nullStr(e.Icon), nullStr(e.Color), e.SortOrder, e.IsArchived, e.ID)
		if err != nil {
			return 0, fmt.Errorf("updating entity: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return 0, types.ErrNotFound
		}
		return e.ID, nil
	}

	id, err := insertEntity(r.s.db, e)
	if err != nil {
		return 0, err
	}
	e.ID = id
	return id, nil
}

// execer covers *sql.DB and *sql.Tx for insert helpers shared with the
// composite-creation transaction.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

func insertEntity(db execer, e *types.Entity) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	res, err := db.Exec(`INSERT INTO Entity
        (type, parent_id, category_id, name, description, icon, color, sort_order, is_archived, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Type, nullID(e.ParentID), nullID(e.CategoryID), e.Name, nullStr(e.Description),
		nullStr(e.Icon), nullStr(e.Color), e.SortOrder, e.IsArchived, e.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting entity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading entity id: %w", err)
	}
	return id, nil
}

// Remove soft-deletes the entity: deleted_at is stamped and every list,
// search and join read path stops returning it. Accepts a model or a raw id.
func (r *EntityRepository) Remove(v any) error {
	id, err := entityID(v)
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return err
	}

	res, err := r.s.db.Exec(
		"UPDATE Entity SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL", id)
	if err != nil {
		return fmt.Errorf("removing entity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Purge physically deletes the entity. Storage-level cascades remove its tag
// links, files, codes, entity-scoped field definitions, values and search
// row; parent/category references of dependents are set to null.
func (r *EntityRepository) Purge(v any) error {
	id, err := entityID(v)
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return err
	}

	res, err := r.s.db.Exec("DELETE FROM Entity WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("purging entity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

func entityID(v any) (int64, error) {
	if e, ok := v.(*types.Entity); ok {
		v = e.ID
	}
	id, ok := idArg(v)
	if !ok || id == 0 {
		return 0, types.ErrInvalidID
	}
	return id, nil
}

// CreateWithRelatedData creates an entity together with its optional code,
// template field values and ad-hoc attributes as one atomic unit. Any
// failure rolls the whole transaction back with no partial rows persisted.
//
// Ad-hoc attributes each create a new entity-bound field definition. For
// file and image attributes the payloads are inserted as File rows first and
// the resulting id list is serialized as the field value; for every other
// type the scalar value is stored directly.
func (r *EntityRepository) CreateWithRelatedData(e *types.Entity, code *types.Code,
	templateValues map[int64]string, adhoc []types.AdhocAttribute) (int64, error) {

	if err := e.Validate(); err != nil {
		return 0, err
	}
	for _, a := range adhoc {
		if a.Name == "" {
			return 0, types.ErrInvalidName
		}
		if !types.IsValidFieldType(a.FieldType) {
			return 0, types.ErrInvalidFieldType
		}
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return 0, err
	}

	tx, err := r.s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning create transaction: %w", err)
	}
	defer tx.Rollback()

	entityID, err := insertEntity(tx, e)
	if err != nil {
		return 0, err
	}
	e.ID = entityID

	if code != nil && code.CodeValue != "" {
		codeType := code.CodeType
		if codeType == "" {
			codeType = types.CodeTypeBarcode
		}
		if _, err := tx.Exec(
			"INSERT INTO Code (entity_id, code_type, code_value) VALUES (?, ?, ?)",
			entityID, codeType, code.CodeValue); err != nil {
			return 0, fmt.Errorf("inserting code: %w", err)
		}
	}

	for fieldID, value := range templateValues {
		if value == "" {
			continue
		}
		if err := insertValue(tx, entityID, fieldID, value); err != nil {
			return 0, err
		}
	}

	for i, a := range adhoc {
		res, err := tx.Exec(`INSERT INTO CustomField
            (entity_id, field_name, field_type, sort_order)
            VALUES (?, ?, ?, ?)`,
			entityID, a.Name, a.FieldType, int64(i))
		if err != nil {
			return 0, fmt.Errorf("inserting ad-hoc field %s: %w", a.Name, err)
		}
		fieldID, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("reading field id: %w", err)
		}

		value := a.Value
		if (a.FieldType == types.FieldTypeFile || a.FieldType == types.FieldTypeImage) && len(a.Files) > 0 {
			fileIDs := make([]int64, 0, len(a.Files))
			for _, f := range a.Files {
				fres, err := tx.Exec(`INSERT INTO File
                    (entity_id, file_path, file_name, mime_type, is_primary, thumbnail_path)
                    VALUES (?, ?, ?, ?, ?, ?)`,
					entityID, f.FilePath, f.FileName, nullStr(f.MimeType), f.IsPrimary,
					nullStr(f.ThumbnailPath))
				if err != nil {
					return 0, fmt.Errorf("inserting attribute file: %w", err)
				}
				fid, err := fres.LastInsertId()
				if err != nil {
					return 0, fmt.Errorf("reading file id: %w", err)
				}
				fileIDs = append(fileIDs, fid)
			}
			serialized, err := json.Marshal(fileIDs)
			if err != nil {
				return 0, fmt.Errorf("serializing file ids: %w", err)
			}
			value = string(serialized)
		}

		if value != "" {
			if err := insertValue(tx, entityID, fieldID, value); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing create transaction: %w", err)
	}
	return entityID, nil
}

// insertValue upserts one field value inside a transaction, enforcing the
// strict ISO date invariant for date-typed fields.
func insertValue(tx execer, entityID, fieldID int64, value string) error {
	var fieldType string
	err := tx.QueryRow("SELECT field_type FROM CustomField WHERE id = ?", fieldID).Scan(&fieldType)
	if err == sql.ErrNoRows {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("resolving field type: %w", err)
	}
	if types.IsDateFieldType(fieldType) {
		if err := types.ValidateISODate(value); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`INSERT INTO CustomFieldValue (entity_id, custom_field_id, field_value)
        VALUES (?, ?, ?)
        ON CONFLICT(entity_id, custom_field_id) DO UPDATE SET field_value = excluded.field_value`,
		entityID, fieldID, value); err != nil {
		return fmt.Errorf("upserting field value: %w", err)
	}
	return nil
}

// FindExpiringIn3Days returns live entities holding an expiry_date field
// value inside [today, today+3]. The range is compared on ISO date strings;
// SetFieldValue enforces the format at write time.
func (r *EntityRepository) FindExpiringIn3Days() ([]types.ExpiringEntity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	from := now.Format("2006-01-02")
	to := now.AddDate(0, 0, 3).Format("2006-01-02")

	rows, err := r.s.db.Query(`SELECT `+prefixCols("e", entityCols)+`, cf.field_name, cfv.field_value
        FROM Entity e
        JOIN CustomFieldValue cfv ON cfv.entity_id = e.id
        JOIN CustomField cf ON cf.id = cfv.custom_field_id
        WHERE cf.field_type = 'expiry_date' AND cf.is_archived = 0 AND cf.deleted_at IS NULL
          AND e.is_archived = 0 AND e.deleted_at IS NULL
          AND cfv.field_value >= ? AND cfv.field_value <= ?
        ORDER BY cfv.field_value ASC, e.id ASC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetching expiring entities: %w", err)
	}
	defer rows.Close()

	results := []types.ExpiringEntity{}
	for rows.Next() {
		var x types.ExpiringEntity
		var parentID, categoryID, sortOrder sql.NullInt64
		var description, icon, color sql.NullString
		var updatedAt, deletedAt sql.NullTime

		e := &x.Entity
		err := rows.Scan(&e.ID, &e.Type, &parentID, &categoryID, &e.Name, &description,
			&icon, &color, &sortOrder, &e.IsArchived, &e.CreatedAt, &updatedAt, &deletedAt,
			&x.FieldName, &x.ExpiresOn)
		if err != nil {
			return nil, fmt.Errorf("scanning expiring entity: %w", err)
		}
		e.ParentID = idPtr(parentID)
		e.CategoryID = idPtr(categoryID)
		e.Description = description.String
		e.Icon = icon.String
		e.Color = color.String
		e.SortOrder = sortOrder.Int64
		e.UpdatedAt = timePtr(updatedAt)
		e.DeletedAt = timePtr(deletedAt)
		results = append(results, x)
	}
	return results, rows.Err()
}
