// Package sqlite implements the SQLite storage backend for student and
// accommodation records: schema migrations, the data access operations,
// spreadsheet import/export, and JSONL backup/restore.
package sqlite

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

// Compile-time interface check: Backend must implement Store.
var _ types.Store = (*Backend)(nil)

// Backend implements types.Store on a single SQLite file. It is the only
// writer to that file. Reads take the read lock; writes take the write lock
// and run in a transaction when they touch more than one row set.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	sb       sq.StatementBuilderType
	log      zerolog.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for migrations and operation failures.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Backend) { b.log = l }
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Question),
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// DBPath returns the database file path for config.
func DBPath(config types.Config) string {
	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	return filepath.Join(dataDir, types.DBFileName)
}

// Attach opens the database in config.DataDir, creating the directory if
// needed, and runs pending migrations. A migration failure closes the
// database and is returned; the store cannot be trusted in that case.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dbPath := DBPath(config)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	db, err := openDB(dbPath)
	if err != nil {
		return err
	}

	from, to, err := Migrate(db, b.log)
	if err != nil {
		db.Close()
		return fmt.Errorf("migrating %s: %w", dbPath, err)
	}
	if from != to {
		b.log.Info().Int("from", from).Int("to", to).Str("path", dbPath).Msg("database migrated")
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// openDB opens path with foreign keys enforced. The pool is limited to one
// connection so per-connection pragmas always apply and writes never overlap.
func openDB(path string) (*sql.DB, error) {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	dsn := "file:" + path + "?" + q.Encode()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// SchemaVersion returns the version stamped on the attached store.
func (b *Backend) SchemaVersion() (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return 0, types.ErrBackendDetached
	}
	return schemaVersion(b.db)
}

// read runs fn under the read lock after checking that the backend is attached.
func (b *Backend) read(fn func() error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrBackendDetached
	}
	return fn()
}

// write runs fn under the write lock after checking that the backend is attached.
func (b *Backend) write(fn func() error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrBackendDetached
	}
	return fn()
}

// inTx runs fn inside a transaction. The caller must hold the write lock.
// The transaction commits only if fn returns nil.
func (b *Backend) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// fail logs an operation failure and returns err unchanged. Validation and
// not-found errors are logged at debug level; storage faults at error level.
func (b *Backend) fail(op string, err error) error {
	if err == nil {
		return nil
	}
	ev := b.log.Error()
	if k := types.Kind(err); k == types.KindNotFound || k == types.KindValidation {
		ev = b.log.Debug()
	}
	ev.Err(err).Str("op", op).Msg("store operation failed")
	return err
}
