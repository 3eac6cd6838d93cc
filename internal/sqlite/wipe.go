package sqlite

import (
	"database/sql"
	"fmt"
)

// WipeAll deletes every record, then every student, then resets the id
// counters, all in one transaction. The counter table only exists once an
// AUTOINCREMENT table has been written, so its absence is tolerated.
func (b *Backend) WipeAll() error {
	err := b.write(func() error {
		return b.inTx(wipeTx)
	})
	if err == nil {
		b.log.Info().Msg("all data wiped")
	}
	return b.fail("WipeAll", err)
}

func wipeTx(tx *sql.Tx) error {
	if _, err := tx.Exec("DELETE FROM tilrettelegginger"); err != nil {
		return fmt.Errorf("deleting records: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM elever"); err != nil {
		return fmt.Errorf("deleting students: %w", err)
	}

	var n int
	err := tx.QueryRow("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence'").Scan(&n)
	if err != nil {
		return fmt.Errorf("checking id counters: %w", err)
	}
	if n == 0 {
		return nil
	}
	if _, err := tx.Exec("DELETE FROM sqlite_sequence WHERE name IN ('elever', 'tilrettelegginger')"); err != nil {
		return fmt.Errorf("resetting id counters: %w", err)
	}
	return nil
}
