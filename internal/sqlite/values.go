package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/pantry-app/pantry/pkg/types"
)

const valueCols = "id, entity_id, custom_field_id, field_value, created_at, updated_at"

// ValueRepository provides access to stored custom field values. Writes are
// upserts keyed on the (entity, field) pair.
type ValueRepository struct {
	s *Store
}

func scanValue(row rowScanner) (*types.CustomFieldValue, error) {
	var v types.CustomFieldValue
	var updatedAt sql.NullTime
	err := row.Scan(&v.ID, &v.EntityID, &v.CustomFieldID, &v.FieldValue, &v.CreatedAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning field value: %w", err)
	}
	v.UpdatedAt = timePtr(updatedAt)
	return &v, nil
}

// Find returns the value row with the given id.
func (r *ValueRepository) Find(id int64) (*types.CustomFieldValue, error) {
	if id == 0 {
		return nil, types.ErrInvalidID
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	row := r.s.db.QueryRow("SELECT "+valueCols+" FROM CustomFieldValue WHERE id = ?", id)
	return scanValue(row)
}

// FindByEntity returns all value rows stored for one entity.
func (r *ValueRepository) FindByEntity(entityID int64) ([]types.CustomFieldValue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := r.s.db.Query(
		"SELECT "+valueCols+" FROM CustomFieldValue WHERE entity_id = ? ORDER BY custom_field_id ASC",
		entityID)
	if err != nil {
		return nil, fmt.Errorf("fetching field values: %w", err)
	}
	defer rows.Close()

	results := []types.CustomFieldValue{}
	for rows.Next() {
		v, err := scanValue(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *v)
	}
	return results, rows.Err()
}

// FindByEntityWithFields returns the entity's values joined with their field
// definitions, ordered the way the fields are presented.
func (r *ValueRepository) FindByEntityWithFields(entityID int64) ([]types.FieldWithValue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := r.s.db.Query(`SELECT
        v.id, v.entity_id, v.custom_field_id, v.field_value,
        cf.field_name, cf.field_type, cf.is_required, cf.options
        FROM CustomFieldValue v
        JOIN CustomField cf ON cf.id = v.custom_field_id
        WHERE v.entity_id = ? AND cf.deleted_at IS NULL
        ORDER BY cf.sort_order ASC, cf.field_name ASC`, entityID)
	if err != nil {
		return nil, fmt.Errorf("fetching field values: %w", err)
	}
	defer rows.Close()

	results := []types.FieldWithValue{}
	for rows.Next() {
		var fv types.FieldWithValue
		var options sql.NullString
		if err := rows.Scan(&fv.ValueID, &fv.EntityID, &fv.CustomFieldID, &fv.FieldValue,
			&fv.FieldName, &fv.FieldType, &fv.IsRequired, &options); err != nil {
			return nil, fmt.Errorf("scanning field value: %w", err)
		}
		fv.Options = options.String
		results = append(results, fv)
	}
	return results, rows.Err()
}

// SetFieldValue upserts one value for the (entity, field) pair and returns
// the row id. Date-typed fields only accept strict ISO dates. An empty value
// clears the pair instead of storing "".
func (r *ValueRepository) SetFieldValue(entityID, fieldID int64, value string) (int64, error) {
	if entityID == 0 || fieldID == 0 {
		return 0, types.ErrInvalidID
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return 0, err
	}

	if value == "" {
		if _, err := r.s.db.Exec(
			"DELETE FROM CustomFieldValue WHERE entity_id = ? AND custom_field_id = ?",
			entityID, fieldID); err != nil {
			return 0, fmt.Errorf("clearing field value: %w", err)
		}
		return 0, nil
	}

	if err := insertValue(r.s.db, entityID, fieldID, value); err != nil {
		return 0, err
	}
	return r.valueID(entityID, fieldID)
}

// Save upserts the value row. The id on the model is ignored; the (entity,
// field) pair decides whether this inserts or updates.
func (r *ValueRepository) Save(v *types.CustomFieldValue) (int64, error) {
	if v.EntityID == 0 || v.CustomFieldID == 0 {
		return 0, types.ErrInvalidID
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return 0, err
	}

	if err := insertValue(r.s.db, v.EntityID, v.CustomFieldID, v.FieldValue); err != nil {
		return 0, err
	}
	id, err := r.valueID(v.EntityID, v.CustomFieldID)
	if err != nil {
		return 0, err
	}
	v.ID = id
	return id, nil
}

// valueID re-selects the row id after an upsert. LastInsertId is not
// refreshed when the conflict branch runs, so the pair lookup is the only
// reliable source.
func (r *ValueRepository) valueID(entityID, fieldID int64) (int64, error) {
	var id int64
	err := r.s.db.QueryRow(
		"SELECT id FROM CustomFieldValue WHERE entity_id = ? AND custom_field_id = ?",
		entityID, fieldID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("reading field value id: %w", err)
	}
	return id, nil
}

// Remove deletes one value row.
func (r *ValueRepository) Remove(v any) error {
	if cv, ok := v.(*types.CustomFieldValue); ok {
		v = cv.ID
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

	res, err := r.s.db.Exec("DELETE FROM CustomFieldValue WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting field value: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// RemoveByEntity deletes every value stored for one entity.
func (r *ValueRepository) RemoveByEntity(entityID int64) error {
	if entityID == 0 {
		return types.ErrInvalidID
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return err
	}

	if _, err := r.s.db.Exec("DELETE FROM CustomFieldValue WHERE entity_id = ?", entityID); err != nil {
		return fmt.Errorf("deleting entity field values: %w", err)
	}
	return nil
}
