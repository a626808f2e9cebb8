package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pantry-app/pantry/pkg/types"
)

// Dump reads every user table into a backup envelope. All reads run inside
// one transaction so the dump is a consistent snapshot even if another
// goroutine is waiting to write.
func (s *Store) Dump() (*types.Backup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(context.Background(), &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("beginning dump transaction: %w", err)
	}
	defer tx.Rollback()

	data := &types.BackupData{}
	if data.Entities, err = dumpEntities(tx); err != nil {
		return nil, err
	}
	if data.Tags, err = dumpTags(tx); err != nil {
		return nil, err
	}
	if data.Links, err = dumpLinks(tx); err != nil {
		return nil, err
	}
	if data.Files, err = dumpFiles(tx); err != nil {
		return nil, err
	}
	if data.Codes, err = dumpCodes(tx); err != nil {
		return nil, err
	}
	if data.Fields, err = dumpFields(tx); err != nil {
		return nil, err
	}
	if data.Values, err = dumpValues(tx); err != nil {
		return nil, err
	}
	if data.Settings, err = dumpSettings(tx); err != nil {
		return nil, err
	}
	if data.Locales, err = dumpLocales(tx); err != nil {
		return nil, err
	}

	var installID sql.NullString
	err = tx.QueryRow("SELECT value FROM Setting WHERE key = ?", types.SettingInstallID).
		Scan(&installID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("reading install id: %w", err)
	}

	b := &types.Backup{
		Version:   types.BackupVersion,
		ID:        installID.String,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	}
	s.log.Infow("dump complete",
		"entities", len(data.Entities), "fields", len(data.Fields), "values", len(data.Values))
	return b, nil
}

func dumpEntities(tx *sql.Tx) ([]types.Entity, error) {
	rows, err := tx.Query("SELECT " + entityCols + " FROM Entity ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("dumping entities: %w", err)
	}
	return collectEntities(rows)
}

func dumpTags(tx *sql.Tx) ([]types.Tag, error) {
	rows, err := tx.Query("SELECT " + tagCols + " FROM Tag ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("dumping tags: %w", err)
	}
	return collectTags(rows)
}

func dumpLinks(tx *sql.Tx) ([]types.EntityTag, error) {
	rows, err := tx.Query("SELECT id, entity_id, tag_id, created_at FROM EntityTag ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("dumping entity tags: %w", err)
	}
	defer rows.Close()

	results := []types.EntityTag{}
	for rows.Next() {
		var et types.EntityTag
		if err := rows.Scan(&et.ID, &et.EntityID, &et.TagID, &et.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning entity tag: %w", err)
		}
		results = append(results, et)
	}
	return results, rows.Err()
}

func dumpFiles(tx *sql.Tx) ([]types.File, error) {
	rows, err := tx.Query("SELECT " + fileCols + " FROM File ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("dumping files: %w", err)
	}
	return collectFiles(rows)
}

func dumpCodes(tx *sql.Tx) ([]types.Code, error) {
	rows, err := tx.Query("SELECT " + codeCols + " FROM Code ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("dumping codes: %w", err)
	}
	return collectCodes(rows)
}

func dumpFields(tx *sql.Tx) ([]types.CustomField, error) {
	rows, err := tx.Query("SELECT " + fieldCols + " FROM CustomField ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("dumping custom fields: %w", err)
	}
	return collectFields(rows)
}

func dumpValues(tx *sql.Tx) ([]types.CustomFieldValue, error) {
	rows, err := tx.Query("SELECT " + valueCols + " FROM CustomFieldValue ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("dumping field values: %w", err)
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

func dumpSettings(tx *sql.Tx) ([]types.Setting, error) {
	rows, err := tx.Query("SELECT key, value, updated_at FROM Setting ORDER BY key ASC")
	if err != nil {
		return nil, fmt.Errorf("dumping settings: %w", err)
	}
	defer rows.Close()

	results := []types.Setting{}
	for rows.Next() {
		var st types.Setting
		var value sql.NullString
		var updatedAt sql.NullTime
		if err := rows.Scan(&st.Key, &value, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning setting: %w", err)
		}
		st.Value = value.String
		st.UpdatedAt = timePtr(updatedAt)
		results = append(results, st)
	}
	return results, rows.Err()
}

func dumpLocales(tx *sql.Tx) ([]types.Locale, error) {
	rows, err := tx.Query("SELECT code, name, created_at FROM Locale ORDER BY code ASC")
	if err != nil {
		return nil, fmt.Errorf("dumping locales: %w", err)
	}
	defer rows.Close()

	results := []types.Locale{}
	for rows.Next() {
		var l types.Locale
		if err := rows.Scan(&l.Code, &l.Name, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning locale: %w", err)
		}
		results = append(results, l)
	}
	return results, rows.Err()
}

// Restore replaces the entire database content with the backup. The envelope
// is validated before the first destructive step. The schema is rebuilt from
// scratch so the restored file carries current DDL regardless of what wrote
// the backup, then all rows are inserted with their original ids inside one
// transaction with foreign keys suspended.
func (s *Store) Restore(b *types.Backup) error {
	if err := b.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	if err := s.rebuildSchema(); err != nil {
		return err
	}
	if err := s.insertBackup(b.Data); err != nil {
		s.log.Errorw("restore failed", "error", err)
		return err
	}
	s.log.Infow("restore complete",
		"entities", len(b.Data.Entities), "fields", len(b.Data.Fields), "values", len(b.Data.Values))
	return nil
}

// FactoryReset drops every table and reinitializes the schema and seed rows.
// The install id is regenerated, so backups made afterwards identify as a
// fresh installation.
func (s *Store) FactoryReset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	if err := s.rebuildSchema(); err != nil {
		return err
	}
	s.log.Infow("factory reset complete")
	return nil
}

// rebuildSchema drops all tables and recreates them with seed rows. The
// foreign-key pragma only takes effect outside a transaction, so it is
// toggled around the drop rather than inside it. Caller holds the write lock.
func (s *Store) rebuildSchema() error {
	if _, err := s.db.Exec("PRAGMA foreign_keys = OFF"); err != nil {
		return fmt.Errorf("suspending foreign keys: %w", err)
	}
	defer s.db.Exec("PRAGMA foreign_keys = ON")

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning drop transaction: %w", err)
	}
	for _, stmt := range dropDDL {
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("dropping schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing drop transaction: %w", err)
	}

	if err := initSchema(s.db); err != nil {
		return err
	}
	return seed(s.db, s.cfg.Locale)
}

// insertBackup bulk-inserts the dump into a freshly rebuilt schema. Rows keep
// their original ids and run in dependency order; foreign keys stay suspended
// for the duration so self-references among entities need no topological
// sort. Settings and locales replace the seeded rows wholesale when the dump
// carries them.
func (s *Store) insertBackup(data *types.BackupData) error {
	if _, err := s.db.Exec("PRAGMA foreign_keys = OFF"); err != nil {
		return fmt.Errorf("suspending foreign keys: %w", err)
	}
	defer s.db.Exec("PRAGMA foreign_keys = ON")

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning restore transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range data.Entities {
		e := &data.Entities[i]
		if _, err := tx.Exec(`INSERT INTO Entity
            (id, type, parent_id, category_id, name, description, icon, color,
             sort_order, is_archived, created_at, updated_at, deleted_at)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Type, nullID(e.ParentID), nullID(e.CategoryID), e.Name,
			nullStr(e.Description), nullStr(e.Icon), nullStr(e.Color),
			e.SortOrder, e.IsArchived, e.CreatedAt,
			nullTime(e.UpdatedAt), nullTime(e.DeletedAt)); err != nil {
			return fmt.Errorf("restoring entity %d: %w", e.ID, err)
		}
	}
	for i := range data.Tags {
		t := &data.Tags[i]
		if _, err := tx.Exec(
			"INSERT INTO Tag (id, name, color, icon, created_at) VALUES (?, ?, ?, ?, ?)",
			t.ID, t.Name, nullStr(t.Color), nullStr(t.Icon), t.CreatedAt); err != nil {
			return fmt.Errorf("restoring tag %d: %w", t.ID, err)
		}
	}
	for i := range data.Links {
		l := &data.Links[i]
		if _, err := tx.Exec(
			"INSERT INTO EntityTag (id, entity_id, tag_id, created_at) VALUES (?, ?, ?, ?)",
			l.ID, l.EntityID, l.TagID, l.CreatedAt); err != nil {
			return fmt.Errorf("restoring entity tag %d: %w", l.ID, err)
		}
	}
	for i := range data.Files {
		f := &data.Files[i]
		if _, err := tx.Exec(`INSERT INTO File
            (id, entity_id, file_path, file_name, mime_type, is_primary, thumbnail_path, created_at)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, f.EntityID, f.FilePath, f.FileName, nullStr(f.MimeType),
			f.IsPrimary, nullStr(f.ThumbnailPath), f.CreatedAt); err != nil {
			return fmt.Errorf("restoring file %d: %w", f.ID, err)
		}
	}
	for i := range data.Codes {
		c := &data.Codes[i]
		if _, err := tx.Exec(
			"INSERT INTO Code (id, entity_id, code_type, code_value, created_at) VALUES (?, ?, ?, ?, ?)",
			c.ID, c.EntityID, c.CodeType, c.CodeValue, c.CreatedAt); err != nil {
			return fmt.Errorf("restoring code %d: %w", c.ID, err)
		}
	}
	for i := range data.Fields {
		f := &data.Fields[i]
		if _, err := tx.Exec(`INSERT INTO CustomField
            (id, category_template_id, entity_id, field_name, field_type, is_required,
             default_value, options, sort_order, is_archived, created_at, updated_at, deleted_at)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, nullID(f.CategoryTemplateID), nullID(f.EntityID), f.FieldName,
			f.FieldType, f.IsRequired, nullStr(f.DefaultValue), nullStr(f.Options),
			f.SortOrder, f.IsArchived, f.CreatedAt,
			nullTime(f.UpdatedAt), nullTime(f.DeletedAt)); err != nil {
			return fmt.Errorf("restoring custom field %d: %w", f.ID, err)
		}
	}
	for i := range data.Values {
		v := &data.Values[i]
		if _, err := tx.Exec(`INSERT INTO CustomFieldValue
            (id, entity_id, custom_field_id, field_value, created_at, updated_at)
            VALUES (?, ?, ?, ?, ?, ?)`,
			v.ID, v.EntityID, v.CustomFieldID, v.FieldValue,
			v.CreatedAt, nullTime(v.UpdatedAt)); err != nil {
			return fmt.Errorf("restoring field value %d: %w", v.ID, err)
		}
	}
	if len(data.Settings) > 0 {
		if _, err := tx.Exec("DELETE FROM Setting"); err != nil {
			return fmt.Errorf("clearing settings: %w", err)
		}
		for i := range data.Settings {
			st := &data.Settings[i]
			if _, err := tx.Exec(
				"INSERT INTO Setting (key, value, updated_at) VALUES (?, ?, ?)",
				st.Key, st.Value, nullTime(st.UpdatedAt)); err != nil {
				return fmt.Errorf("restoring setting %s: %w", st.Key, err)
			}
		}
	}
	if len(data.Locales) > 0 {
		if _, err := tx.Exec("DELETE FROM Locale"); err != nil {
			return fmt.Errorf("clearing locales: %w", err)
		}
		for i := range data.Locales {
			l := &data.Locales[i]
			if _, err := tx.Exec(
				"INSERT INTO Locale (code, name, created_at) VALUES (?, ?, ?)",
				l.Code, l.Name, l.CreatedAt); err != nil {
				return fmt.Errorf("restoring locale %s: %w", l.Code, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing restore transaction: %w", err)
	}
	return nil
}
