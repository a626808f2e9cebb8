// System row seeding on store open.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/pantry-app/pantry/pkg/types"
)

// seedLocale pairs a language code with its display name.
type seedLocale struct {
	code string
	name string
}

// seedLocales lists the supported language catalog, inserted on first run.
var seedLocales = []seedLocale{
	{"en", "English"},
	{"pl", "Polski"},
	{"de", "Deutsch"},
	{"fr", "Français"},
	{"es", "Español"},
}

// seed inserts the locale catalog and the well-known settings. Every insert
// is guarded by an ignore-on-conflict clause, so seeding is idempotent and a
// user-changed locale survives restarts.
func seed(db *sql.DB, locale string) error {
	if locale == "" {
		locale = "en"
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, l := range seedLocales {
		if _, err := tx.Exec(
			"INSERT INTO Locale (code, name) VALUES (?, ?) ON CONFLICT(code) DO NOTHING",
			l.code, l.name); err != nil {
			return fmt.Errorf("seeding locale %s: %w", l.code, err)
		}
	}

	if _, err := tx.Exec(
		"INSERT INTO Setting (key, value) VALUES (?, ?) ON CONFLICT(key) DO NOTHING",
		types.SettingLocale, locale); err != nil {
		return fmt.Errorf("seeding locale setting: %w", err)
	}

	installID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generating install id: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO Setting (key, value) VALUES (?, ?) ON CONFLICT(key) DO NOTHING",
		types.SettingInstallID, installID.String()); err != nil {
		return fmt.Errorf("seeding install id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed transaction: %w", err)
	}
	return nil
}
