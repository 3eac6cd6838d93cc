package sqlite

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// maxBackupLine bounds a single row in a backup file.
const maxBackupLine = 4 << 20

// readBackupFile loads one table's backup file, one row per line. Blank
// lines are ignored. Rows that are not JSON are left out and counted in
// skipped, so Restore can warn about them.
func readBackupFile(path string) (rows []json.RawMessage, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(nil, maxBackupLine)
	for sc.Scan() {
		row := bytes.TrimSpace(sc.Bytes())
		switch {
		case len(row) == 0:
		case !json.Valid(row):
			skipped++
		default:
			rows = append(rows, json.RawMessage(bytes.Clone(row)))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, skipped, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, skipped, nil
}

// writeBackupFile replaces path with rows, one per line. The rows go to a
// sibling temp file that is synced and renamed over path, so an interrupted
// backup keeps the previous file.
func writeBackupFile(path string, rows []json.RawMessage) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", filepath.Base(path), err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, row := range rows {
		w.Write(row)
		w.WriteByte('\n')
	}
	// bufio.Writer keeps the first write error and returns it here.
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
