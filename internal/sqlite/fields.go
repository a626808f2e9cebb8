package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pantry-app/pantry/pkg/types"
)

const fieldCols = `id, category_template_id, entity_id, field_name, field_type,
    is_required, default_value, options, sort_order, is_archived,
    created_at, updated_at, deleted_at`

var fieldColumns = map[string]string{
	"id":                 "id",
	"categoryTemplateId": "category_template_id",
	"entityId":           "entity_id",
	"fieldName":          "field_name",
	"fieldType":          "field_type",
	"isRequired":         "is_required",
	"isArchived":         "is_archived",
}

// FieldRepository provides CRUD over custom field definitions, the
// per-entity exception list and the effective-field resolution that merges
// the two binding modes.
type FieldRepository struct {
	s *Store
}

func scanField(row rowScanner) (*types.CustomField, error) {
	var f types.CustomField
	var templateID, entityID sql.NullInt64
	var defaultValue, options sql.NullString
	var updatedAt, deletedAt sql.NullTime
	err := row.Scan(&f.ID, &templateID, &entityID, &f.FieldName, &f.FieldType,
		&f.IsRequired, &defaultValue, &options, &f.SortOrder, &f.IsArchived,
		&f.CreatedAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning custom field: %w", err)
	}
	f.CategoryTemplateID = idPtr(templateID)
	f.EntityID = idPtr(entityID)
	f.DefaultValue = defaultValue.String
	f.Options = options.String
	f.UpdatedAt = timePtr(updatedAt)
	f.DeletedAt = timePtr(deletedAt)
	return &f, nil
}

func collectFields(rows *sql.Rows) ([]types.CustomField, error) {
	defer rows.Close()
	results := []types.CustomField{}
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *f)
	}
	return results, rows.Err()
}

// Find returns the field with the given id, soft-deleted or not.
func (r *FieldRepository) Find(id int64) (*types.CustomField, error) {
	if id == 0 {
		return nil, types.ErrInvalidID
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	row := r.s.db.QueryRow("SELECT "+fieldCols+" FROM CustomField WHERE id = ?", id)
	return scanField(row)
}

// FindBy returns live fields matching all criteria entries.
func (r *FieldRepository) FindBy(c types.Criteria) ([]types.CustomField, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	where, args, err := criteriaClause(fieldColumns, c)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + fieldCols + " FROM CustomField WHERE deleted_at IS NULL"
	if where != "" {
		query += " AND " + where
	}
	query += " ORDER BY sort_order ASC, field_name ASC"

	rows, err := r.s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching custom fields: %w", err)
	}
	return collectFields(rows)
}

// FindByCategoryTemplate returns the live template fields of one category.
func (r *FieldRepository) FindByCategoryTemplate(categoryID int64) ([]types.CustomField, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := r.s.db.Query(`SELECT `+fieldCols+` FROM CustomField
        WHERE category_template_id = ? AND is_archived = 0 AND deleted_at IS NULL
        ORDER BY sort_order ASC, field_name ASC`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("fetching template fields: %w", err)
	}
	return collectFields(rows)
}

// FindByEntity returns the live fields bound directly to one entity. Fields
// inherited through the entity's category are not included; use
// EffectiveFields for the merged view.
func (r *FieldRepository) FindByEntity(entityID int64) ([]types.CustomField, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := r.s.db.Query(`SELECT `+fieldCols+` FROM CustomField
        WHERE entity_id = ? AND is_archived = 0 AND deleted_at IS NULL
        ORDER BY sort_order ASC, field_name ASC`, entityID)
	if err != nil {
		return nil, fmt.Errorf("fetching entity fields: %w", err)
	}
	return collectFields(rows)
}

// EffectiveFields resolves the full field set one entity presents: the
// template fields of its category plus its own entity-bound fields, minus
// any field the entity holds an exception for.
func (r *FieldRepository) EffectiveFields(entityID int64) ([]types.CustomField, error) {
	if entityID == 0 {
		return nil, types.ErrInvalidID
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	var categoryID sql.NullInt64
	err := r.s.db.QueryRow("SELECT category_id FROM Entity WHERE id = ?", entityID).
		Scan(&categoryID)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolving entity category: %w", err)
	}

	rows, err := r.s.db.Query(`SELECT `+fieldCols+` FROM CustomField cf
        WHERE cf.is_archived = 0 AND cf.deleted_at IS NULL
          AND (cf.entity_id = ? OR (? IS NOT NULL AND cf.category_template_id = ?))
          AND NOT EXISTS (
              SELECT 1 FROM EntityFieldException x
              WHERE x.entity_id = ? AND x.custom_field_id = cf.id)
        ORDER BY cf.sort_order ASC, cf.field_name ASC`,
		entityID, categoryID, categoryID, entityID)
	if err != nil {
		return nil, fmt.Errorf("resolving effective fields: %w", err)
	}
	return collectFields(rows)
}

// Save inserts the field when it has no id, otherwise updates it in place.
func (r *FieldRepository) Save(f *types.CustomField) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return 0, err
	}

	if f.ID != 0 {
		res, err := r.s.db.Exec(`UPDATE CustomField SET
            category_template_id = ?, entity_id = ?, field_name = ?, field_type = ?,
            is_required = ?, default_value = ?, options = ?, sort_order = ?, is_archived = ?
            WHERE id = ?`,
			nullID(f.CategoryTemplateID), nullID(f.EntityID), f.FieldName, f.FieldType,
			f.IsRequired, nullStr(f.DefaultValue), nullStr(f.Options), f.SortOrder,
			f.IsArchived, f.ID)
		if err != nil {
			return 0, fmt.Errorf("updating custom field: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return 0, types.ErrNotFound
		}
		return f.ID, nil
	}

	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	return insertField(r.s.db, f)
}

func insertField(db execer, f *types.CustomField) (int64, error) {
	res, err := db.Exec(`INSERT INTO CustomField
        (category_template_id, entity_id, field_name, field_type, is_required,
         default_value, options, sort_order, is_archived, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullID(f.CategoryTemplateID), nullID(f.EntityID), f.FieldName, f.FieldType,
		f.IsRequired, nullStr(f.DefaultValue), nullStr(f.Options), f.SortOrder,
		f.IsArchived, f.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting custom field: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading custom field id: %w", err)
	}
	f.ID = id
	return id, nil
}

// Archive flips the archive flag. The storage layer derives deleted_at from
// the transition, so archiving doubles as a soft delete and unarchiving
// restores the field.
func (r *FieldRepository) Archive(id int64, archived bool) error {
	if id == 0 {
		return types.ErrInvalidID
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return err
	}

	res, err := r.s.db.Exec("UPDATE CustomField SET is_archived = ? WHERE id = ?", archived, id)
	if err != nil {
		return fmt.Errorf("archiving custom field: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Remove soft-deletes the field. Existing values stay behind the field's
// restrict constraint, so history is preserved while the field stops
// appearing in effective sets.
func (r *FieldRepository) Remove(v any) error {
	if f, ok := v.(*types.CustomField); ok {
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

	res, err := r.s.db.Exec(
		"UPDATE CustomField SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL",
		id)
	if err != nil {
		return fmt.Errorf("deleting custom field: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Purge physically deletes the field. Fails while any value still references
// it; callers purge values first.
func (r *FieldRepository) Purge(id int64) error {
	if id == 0 {
		return types.ErrInvalidID
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return err
	}

	res, err := r.s.db.Exec("DELETE FROM CustomField WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("purging custom field: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// AddException opts the entity out of an inherited template field. Adding the
// same exception twice is a no-op.
func (r *FieldRepository) AddException(entityID, fieldID int64) error {
	if entityID == 0 || fieldID == 0 {
		return types.ErrInvalidID
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return err
	}

	if _, err := r.s.db.Exec(`INSERT INTO EntityFieldException (entity_id, custom_field_id)
        VALUES (?, ?) ON CONFLICT(entity_id, custom_field_id) DO NOTHING`,
		entityID, fieldID); err != nil {
		return fmt.Errorf("adding field exception: %w", err)
	}
	return nil
}

// RemoveException restores an inherited field for the entity.
func (r *FieldRepository) RemoveException(entityID, fieldID int64) error {
	if entityID == 0 || fieldID == 0 {
		return types.ErrInvalidID
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return err
	}

	res, err := r.s.db.Exec(
		"DELETE FROM EntityFieldException WHERE entity_id = ? AND custom_field_id = ?",
		entityID, fieldID)
	if err != nil {
		return fmt.Errorf("removing field exception: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Exceptions lists the entity's opt-outs.
func (r *FieldRepository) Exceptions(entityID int64) ([]types.FieldException, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := r.s.db.Query(`SELECT entity_id, custom_field_id, created_at
        FROM EntityFieldException WHERE entity_id = ? ORDER BY custom_field_id ASC`,
		entityID)
	if err != nil {
		return nil, fmt.Errorf("fetching field exceptions: %w", err)
	}
	defer rows.Close()

	results := []types.FieldException{}
	for rows.Next() {
		var x types.FieldException
		if err := rows.Scan(&x.EntityID, &x.CustomFieldID, &x.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning field exception: %w", err)
		}
		results = append(results, x)
	}
	return results, rows.Err()
}
