package types

// BackupVersion is the envelope version written by export and accepted by
// import.
const BackupVersion = 1

// Backup is the envelope serialized to a backup file. Table names key the
// data section so a file remains readable without this package.
type Backup struct {
	Version   int         `json:"version"`
	ID        string      `json:"id,omitempty"`
	Timestamp string      `json:"timestamp"`
	Data      *BackupData `json:"data"`
}

// BackupData holds full dumps of every user table, in dependency order.
// Field exceptions are intentionally absent from the dump; restore clears
// the table so stale exceptions cannot survive.
type BackupData struct {
	Entities []Entity           `json:"Entity"`
	Tags     []Tag              `json:"Tag"`
	Links    []EntityTag        `json:"EntityTag"`
	Files    []File             `json:"File"`
	Codes    []Code             `json:"Code"`
	Fields   []CustomField      `json:"CustomField"`
	Values   []CustomFieldValue `json:"CustomFieldValue"`
	Settings []Setting          `json:"Setting"`
	Locales  []Locale           `json:"Locale"`
}

// Validate checks the envelope shape. It runs before any destructive restore
// step so a malformed file can never cause a partial drop.
func (b *Backup) Validate() error {
	if b == nil || b.Version == 0 || b.Data == nil {
		return ErrInvalidBackup
	}
	return nil
}
