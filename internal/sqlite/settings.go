package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/pantry-app/pantry/pkg/types"
)

// SettingRepository provides access to the global key/value configuration
// store.
type SettingRepository struct {
	s *Store
}

// Get returns the setting stored under key.
func (r *SettingRepository) Get(key string) (*types.Setting, error) {
	if key == "" {
		return nil, types.ErrInvalidData
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	var st types.Setting
	var value sql.NullString
	var updatedAt sql.NullTime
	err := r.s.db.QueryRow("SELECT key, value, updated_at FROM Setting WHERE key = ?", key).
		Scan(&st.Key, &value, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching setting %s: %w", key, err)
	}
	st.Value = value.String
	st.UpdatedAt = timePtr(updatedAt)
	return &st, nil
}

// GetValue returns the raw value under key, or fallback when the key is
// absent.
func (r *SettingRepository) GetValue(key, fallback string) (string, error) {
	st, err := r.Get(key)
	if err == types.ErrNotFound {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return st.Value, nil
}

// Set upserts the value under key.
func (r *SettingRepository) Set(key, value string) error {
	if key == "" {
		return types.ErrInvalidData
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return err
	}

	if _, err := r.s.db.Exec(`INSERT INTO Setting (key, value) VALUES (?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value); err != nil {
		return fmt.Errorf("storing setting %s: %w", key, err)
	}
	return nil
}

// FindAll returns every setting ordered by key.
func (r *SettingRepository) FindAll() ([]types.Setting, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := r.s.db.Query("SELECT key, value, updated_at FROM Setting ORDER BY key ASC")
	if err != nil {
		return nil, fmt.Errorf("fetching settings: %w", err)
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

// Remove deletes the setting under key.
func (r *SettingRepository) Remove(key string) error {
	if key == "" {
		return types.ErrInvalidData
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkOpen(); err != nil {
		return err
	}

	res, err := r.s.db.Exec("DELETE FROM Setting WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("deleting setting %s: %w", key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// LocaleRepository reads the supported language catalog.
type LocaleRepository struct {
	s *Store
}

// FindAll returns every supported locale ordered by code.
func (r *LocaleRepository) FindAll() ([]types.Locale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := r.s.db.Query("SELECT code, name, created_at FROM Locale ORDER BY code ASC")
	if err != nil {
		return nil, fmt.Errorf("fetching locales: %w", err)
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

// Find returns the locale with the given code.
func (r *LocaleRepository) Find(code string) (*types.Locale, error) {
	if code == "" {
		return nil, types.ErrInvalidData
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.checkOpen(); err != nil {
		return nil, err
	}

	var l types.Locale
	err := r.s.db.QueryRow("SELECT code, name, created_at FROM Locale WHERE code = ?", code).
		Scan(&l.Code, &l.Name, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching locale %s: %w", code, err)
	}
	return &l, nil
}
