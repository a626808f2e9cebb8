package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pantry-app/pantry/pkg/types"
)

const tagCols = "id, name, color, icon, created_at"

var tagColumns = map[string]string{
	"id":    "id",
	"name":  "name",
	"color": "color",
	"icon":  "icon",
}

// TagRepository provides CRUD over tags and the entity-tag links. Tag names
// are globally unique; a duplicate insert surfaces the constraint error
// untranslated.
type TagRepository struct {
	s *Store
}

func scanTag(row rowScanner) (*types.Tag, error) {
	var t types.Tag
	var color, icon sql.NullString
	err := row.Scan(&t.ID, &t.Name, &color, &icon, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning tag: %w", err)
	}
	t.Color = color.String
	t.Icon = icon.String
	return &t, nil
}

func collectTags(rows *sql.Rows) ([]types.Tag, error) {
	defer rows.Close()
	results := []types.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *t)
	}
	return results, rows.Err()
}

// FindAll returns every tag ordered by name.
func (r *TagRepository) FindAll() ([]types.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := r.s.db.Query("SELECT " + tagCols + " FROM Tag ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("fetching tags: %w", err)
	}
	return collectTags(rows)
}

// Find returns the tag with the given id.
func (r *TagRepository) Find(id int64) (*types.Tag, error) {
	if id == 0 {
		return nil, types.ErrInvalidID
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	row := r.s.db.QueryRow("SELECT "+tagCols+" FROM Tag WHERE id = ?", id)
	return scanTag(row)
}

// FindByName returns the tag with the given name.
func (r *TagRepository) FindByName(name string) (*types.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	row := r.s.db.QueryRow("SELECT "+tagCols+" FROM Tag WHERE name = ?", name)
	return scanTag(row)
}

// FindBy returns tags matching all criteria entries.
func (r *TagRepository) FindBy(c types.Criteria) ([]types.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	where, args, err := criteriaClause(tagColumns, c)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + tagCols + " FROM Tag"
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY name ASC"

	rows, err := r.s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching tags: %w", err)
	}
	return collectTags(rows)
}

// FindOneBy returns the first tag matching all criteria entries.
func (r *TagRepository) FindOneBy(c types.Criteria) (*types.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	where, args, err := criteriaClause(tagColumns, c)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + tagCols + " FROM Tag"
	if where != "" {
		query += " WHERE " + where
	}
	query += " LIMIT 1"

	row := r.s.db.QueryRow(query, args...)
	return scanTag(row)
}

// Save inserts the tag when it has no id, otherwise updates it in place.
func (r *TagRepository) Save(t *types.Tag) (int64, error) {
	if t.Name == "" {
		return 0, types.ErrInvalidName
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return 0, err
	}

	if t.ID != 0 {
		res, err := r.s.db.Exec("UPDATE Tag SET name = ?, color = ?, icon = ? WHERE id = ?",
			t.Name, nullStr(t.Color), nullStr(t.Icon), t.ID)
		if err != nil {
			return 0, fmt.Errorf("updating tag: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return 0, types.ErrNotFound
		}
		return t.ID, nil
	}

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	res, err := r.s.db.Exec("INSERT INTO Tag (name, color, icon, created_at) VALUES (?, ?, ?, ?)",
		t.Name, nullStr(t.Color), nullStr(t.Icon), t.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("inserting tag: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading tag id: %w", err)
	}
	t.ID = id
	return id, nil
}

// Remove deletes the tag. Its entity links cascade away at the storage
// layer. Accepts a model or a raw id.
func (r *TagRepository) Remove(v any) error {
	if t, ok := v.(*types.Tag); ok {
		v = t.ID
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

	res, err := r.s.db.Exec("DELETE FROM Tag WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Attach links a tag to an entity. The pair is unique; re-attaching
// surfaces the constraint error.
func (r *TagRepository) Attach(entityID, tagID int64) error {
	if entityID == 0 || tagID == 0 {
		return types.ErrInvalidID
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return err
	}

	if _, err := r.s.db.Exec("INSERT INTO EntityTag (entity_id, tag_id) VALUES (?, ?)",
		entityID, tagID); err != nil {
		return fmt.Errorf("attaching tag: %w", err)
	}
	return nil
}

// Detach removes the link between a tag and an entity.
func (r *TagRepository) Detach(entityID, tagID int64) error {
	if entityID == 0 || tagID == 0 {
		return types.ErrInvalidID
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return err
	}

	res, err := r.s.db.Exec("DELETE FROM EntityTag WHERE entity_id = ? AND tag_id = ?",
		entityID, tagID)
	if err != nil {
		return fmt.Errorf("detaching tag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// FindByEntity returns the tags attached to one entity, ordered by name.
func (r *TagRepository) FindByEntity(entityID int64) ([]types.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := r.s.db.Query(`SELECT `+prefixCols("t", tagCols)+`
        FROM Tag t
        JOIN EntityTag et ON et.tag_id = t.id
        WHERE et.entity_id = ?
        ORDER BY t.name ASC`, entityID)
	if err != nil {
		return nil, fmt.Errorf("fetching entity tags: %w", err)
	}
	return collectTags(rows)
}
