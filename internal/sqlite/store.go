package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/pantry-app/pantry/pkg/types"
)

// DBFileName is the name of the database file inside the data directory.
const DBFileName = "pantry.db"

// Store owns the single database connection and hands out typed
// repositories. One store is opened per process lifetime; the pool is capped
// at one connection so the per-connection foreign-key pragma holds for every
// statement and writes serialize naturally.
type Store struct {
	mu   sync.RWMutex
	db   *sql.DB
	open bool
	cfg  types.Config
	log  *zap.SugaredLogger

	entities *EntityRepository
	tags     *TagRepository
	files    *FileRepository
	codes    *CodeRepository
	fields   *FieldRepository
	values   *ValueRepository
	settings *SettingRepository
	locales  *LocaleRepository
}

// New creates an unopened store. A nil logger disables logging.
func New(log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Store{log: log}
	s.entities = &EntityRepository{s: s}
	s.tags = &TagRepository{s: s}
	s.files = &FileRepository{s: s}
	s.codes = &CodeRepository{s: s}
	s.fields = &FieldRepository{s: s}
	s.values = &ValueRepository{s: s}
	s.settings = &SettingRepository{s: s}
	s.locales = &LocaleRepository{s: s}
	return s
}

// Open creates the data directory if needed, opens the database file,
// enables foreign-key enforcement, initializes the schema and seeds system
// rows. Initialization failures are logged and returned; there is no
// partial-success state.
func (s *Store) Open(cfg types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return types.ErrAlreadyOpen
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	// Single connection: the engine serializes writes, and connection-scoped
	// pragmas stay in force for the whole process.
	db.SetMaxOpenConns(1)

	// Foreign keys default off in SQLite and must be enabled explicitly.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		s.log.Errorw("schema initialization failed", "path", dbPath, "error", err)
		return err
	}
	if err := seed(db, cfg.Locale); err != nil {
		db.Close()
		s.log.Errorw("seeding failed", "path", dbPath, "error", err)
		return err
	}

	s.db = db
	s.cfg = cfg
	s.open = true
	s.log.Infow("store opened", "path", dbPath)
	return nil
}

// Close releases the database connection. Closing an unopened store is a
// no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.open = false
	err := s.db.Close()
	s.db = nil
	return err
}

// Entities returns the entity repository.
func (s *Store) Entities() *EntityRepository { return s.entities }

// Tags returns the tag repository.
func (s *Store) Tags() *TagRepository { return s.tags }

// Files returns the file repository.
func (s *Store) Files() *FileRepository { return s.files }

// Codes returns the code repository.
func (s *Store) Codes() *CodeRepository { return s.codes }

// Fields returns the custom field repository.
func (s *Store) Fields() *FieldRepository { return s.fields }

// Values returns the custom field value repository.
func (s *Store) Values() *ValueRepository { return s.values }

// Settings returns the setting repository.
func (s *Store) Settings() *SettingRepository { return s.settings }

// Locales returns the locale repository.
func (s *Store) Locales() *LocaleRepository { return s.locales }

// DataDir returns the data directory the store was opened with.
func (s *Store) DataDir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.DataDir
}

// checkOpen returns ErrStoreClosed unless the store is open. Callers must
// hold the mutex.
func (s *Store) checkOpen() error {
	if !s.open {
		return types.ErrStoreClosed
	}
	return nil
}

// initSchema executes the full DDL list. Every statement carries an
// existence guard, so repeated calls are safe no-ops.
func initSchema(db *sql.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("initializing schema: %w", err)
		}
	}
	return nil
}
