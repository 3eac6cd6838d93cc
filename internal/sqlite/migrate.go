package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

// schemaVersion reads PRAGMA user_version.
func schemaVersion(q interface {
	QueryRow(query string, args ...any) *sql.Row
}) (int, error) {
	var v int
	if err := q.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// Migrate brings db to LatestSchemaVersion. All pending steps and the final
// version stamp run in one transaction; on any failure nothing is applied.
// It returns the version found and the version left on the store. A store
// already at the latest version is left untouched. A store newer than this
// build returns ErrSchemaTooNew.
func Migrate(db *sql.DB, log zerolog.Logger) (from, to int, err error) {
	from, err = schemaVersion(db)
	if err != nil {
		return 0, 0, err
	}
	if from == LatestSchemaVersion {
		return from, from, nil
	}
	if from > LatestSchemaVersion {
		return from, from, fmt.Errorf("%w: found %d, latest %d", types.ErrSchemaTooNew, from, LatestSchemaVersion)
	}

	tx, err := db.Begin()
	if err != nil {
		return from, from, fmt.Errorf("beginning migration: %w", err)
	}
	defer tx.Rollback()

	for _, m := range migrations {
		if m.version <= from {
			continue
		}
		log.Debug().Int("version", m.version).Str("step", m.name).Msg("applying migration")
		for _, stmt := range m.statements {
			if _, err := tx.Exec(stmt); err != nil {
				return from, from, fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
			}
		}
	}

	// PRAGMA does not take bound parameters; the value is an int constant.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", LatestSchemaVersion)); err != nil {
		return from, from, fmt.Errorf("stamping schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return from, from, fmt.Errorf("committing migration: %w", err)
	}
	return from, LatestSchemaVersion, nil
}

// StoredVersion reports the schema version of the database described by
// config without migrating it. A data directory with no database is at
// version 0.
func StoredVersion(config types.Config) (int, error) {
	if err := config.Validate(); err != nil {
		return 0, err
	}
	dbPath := DBPath(config)
	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("checking %s: %w", dbPath, err)
	}

	db, err := openDB(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return schemaVersion(db)
}

// MigrateStore opens the database described by config, migrates it and
// closes it again.
func MigrateStore(config types.Config, log zerolog.Logger) (from, to int, err error) {
	if err := config.Validate(); err != nil {
		return 0, 0, err
	}
	dbPath := DBPath(config)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return 0, 0, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := openDB(dbPath)
	if err != nil {
		return 0, 0, err
	}
	defer db.Close()
	return Migrate(db, log)
}
