package sqlite

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

// backupTables maps backup files to their tables and columns. Order matters:
// students load before the records that reference them.
var backupTables = []struct {
	file    string
	table   string
	key     string
	columns []string
}{
	{"elever.jsonl", types.StudentsTable, "elev_id", []string{"elev_id", "navn", "klasse"}},
	{"tilrettelegginger.jsonl", types.AccommodationsTable, "tilrettelegging_id", []string{
		"tilrettelegging_id", "elev_id", "faggruppe_navn", "fagnavn", "lærer",
		"ekstra_tid", "skjermet_plass", "opplest_oppgave", "kommentar",
	}},
}

// Backup writes each table as one JSON object per line into dir. Each file
// is replaced atomically.
func (b *Backend) Backup(dir string) error {
	err := b.read(func() error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating backup dir: %w", err)
		}
		for _, m := range backupTables {
			records, err := dumpTable(b.db, m.table, m.key, m.columns)
			if err != nil {
				return err
			}
			if err := writeBackupFile(filepath.Join(dir, m.file), records); err != nil {
				return fmt.Errorf("writing %s: %w", m.file, err)
			}
		}
		return nil
	})
	if err == nil {
		b.log.Info().Str("dir", dir).Msg("backup written")
	}
	return b.fail("Backup", err)
}

// Restore replaces all data with the backup in dir. It wipes the store and
// loads every file in one transaction, so a bad backup leaves the store as
// it was. Malformed lines are skipped; unknown fields are ignored.
func (b *Backend) Restore(dir string) error {
	loaded := make([][]json.RawMessage, len(backupTables))
	for i, m := range backupTables {
		records, skipped, err := readBackupFile(filepath.Join(dir, m.file))
		if errors.Is(err, os.ErrNotExist) {
			return b.fail("Restore", fmt.Errorf("%w: missing %s", types.ErrInvalidData, m.file))
		}
		if err != nil {
			return b.fail("Restore", err)
		}
		if skipped > 0 {
			b.log.Warn().Str("file", m.file).Int("skipped", skipped).Msg("malformed backup lines skipped")
		}
		loaded[i] = records
	}

	err := b.write(func() error {
		return b.inTx(func(tx *sql.Tx) error {
			if err := wipeTx(tx); err != nil {
				return err
			}
			for i, m := range backupTables {
				if err := insertRecords(tx, m.table, m.columns, loaded[i]); err != nil {
					return fmt.Errorf("loading %s into %s: %w", m.file, m.table, err)
				}
			}
			return nil
		})
	})
	if err == nil {
		b.log.Info().Str("dir", dir).Msg("backup restored")
	}
	return b.fail("Restore", err)
}

// dumpTable returns every row of table as a JSON object keyed by column name,
// ordered by key.
func dumpTable(db *sql.DB, table, key string, columns []string) ([]json.RawMessage, error) {
	rows, err := db.Query(fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(columns, ", "), table, key))
	if err != nil {
		return nil, fmt.Errorf("dumping %s: %w", table, err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		vals := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		obj := make(map[string]any, len(columns))
		for i, col := range columns {
			if raw, ok := vals[i].([]byte); ok {
				obj[col] = string(raw)
				continue
			}
			obj[col] = vals[i]
		}
		rec, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("encoding %s row: %w", table, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// insertRecords inserts JSONL records into table. Only the listed columns are
// read; missing columns insert NULL. Numbers are decoded exactly so ids and
// flags stay integers.
func insertRecords(tx *sql.Tx, table string, columns []string, records []json.RawMessage) error {
	if len(records) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for n, rec := range records {
		dec := json.NewDecoder(bytes.NewReader(rec))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return fmt.Errorf("%w: record %d: %v", types.ErrInvalidData, n+1, err)
		}

		args := make([]any, len(columns))
		for i, col := range columns {
			args[i] = sqlValue(obj[col])
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("record %d: %w", n+1, err)
		}
	}
	return nil
}

// sqlValue converts a decoded JSON value into a bind argument.
func sqlValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	case bool:
		return types.Bit(x).Int()
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return nil
		}
		return string(b)
	default:
		return x
	}
}
