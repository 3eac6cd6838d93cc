package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

// accommodationColumns is the column list scanned by scanAccommodation.
const accommodationColumns = "tilrettelegging_id, elev_id, faggruppe_navn, fagnavn, lærer, " +
	"ekstra_tid, skjermet_plass, opplest_oppgave, kommentar"

// AddAccommodation creates a record for an existing student. Flags start at 0
// and the comment empty.
func (b *Backend) AddAccommodation(a types.NewAccommodation) (int64, error) {
	if a.StudentID <= 0 {
		return 0, b.fail("AddAccommodation", fmt.Errorf("%w: elev_id must be positive", types.ErrInvalidID))
	}
	if strings.TrimSpace(a.Group) == "" {
		return 0, b.fail("AddAccommodation", fmt.Errorf("%w: faggruppe_navn is required", types.ErrInvalidData))
	}

	var id int64
	err := b.write(func() error {
		return b.inTx(func(tx *sql.Tx) error {
			ok, err := studentExists(tx, a.StudentID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: id %d", types.ErrStudentNotFound, a.StudentID)
			}
			id, err = insertAccommodation(tx, a.StudentID, a.Group, a.Subject, a.Teacher)
			return err
		})
	})
	return id, b.fail("AddAccommodation", err)
}

// UpdateAccommodation replaces the flags and comment of one record.
func (b *Backend) UpdateAccommodation(id int64, u types.AccommodationUpdate) (int64, error) {
	var n int64
	err := b.write(func() error {
		res, err := b.db.Exec(`UPDATE tilrettelegginger
			SET ekstra_tid = ?, skjermet_plass = ?, opplest_oppgave = ?, kommentar = ?
			WHERE tilrettelegging_id = ?`,
			u.ExtraTime.Int(), u.ScreenedSeat.Int(), u.ReadAloud.Int(), u.Comment, id)
		if err != nil {
			return fmt.Errorf("updating record %d: %w", id, err)
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, b.fail("UpdateAccommodation", err)
}

// DeleteAccommodation removes one record.
func (b *Backend) DeleteAccommodation(id int64) (int64, error) {
	var n int64
	err := b.write(func() error {
		res, err := b.db.Exec("DELETE FROM tilrettelegginger WHERE tilrettelegging_id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting record %d: %w", id, err)
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, b.fail("DeleteAccommodation", err)
}

// BulkSetFlag sets one flag on every record of a student in one transaction.
// A flag outside the allowed set is rejected before any write.
func (b *Backend) BulkSetFlag(studentID int64, flag types.Flag, value bool) (int64, error) {
	f, err := types.ParseFlag(string(flag))
	if err != nil {
		return 0, b.fail("BulkSetFlag", fmt.Errorf("%w: %q", err, flag))
	}

	var n int64
	err = b.write(func() error {
		query, args, err := b.sb.
			Update(types.AccommodationsTable).
			Set(f.Column(), types.Bit(value).Int()).
			Where("elev_id = ?", studentID).
			ToSql()
		if err != nil {
			return fmt.Errorf("building bulk update: %w", err)
		}
		return b.inTx(func(tx *sql.Tx) error {
			res, err := tx.Exec(query, args...)
			if err != nil {
				return fmt.Errorf("bulk updating %s for student %d: %w", f, studentID, err)
			}
			n, err = res.RowsAffected()
			return err
		})
	})
	return n, b.fail("BulkSetFlag", err)
}

// BulkSetComment sets the comment on every record of a student in one
// transaction.
func (b *Backend) BulkSetComment(studentID int64, comment string) (int64, error) {
	var n int64
	err := b.write(func() error {
		return b.inTx(func(tx *sql.Tx) error {
			res, err := tx.Exec("UPDATE tilrettelegginger SET kommentar = ? WHERE elev_id = ?", comment, studentID)
			if err != nil {
				return fmt.Errorf("bulk updating comment for student %d: %w", studentID, err)
			}
			n, err = res.RowsAffected()
			return err
		})
	})
	return n, b.fail("BulkSetComment", err)
}

func studentExists(tx *sql.Tx, id int64) (bool, error) {
	var one int
	err := tx.QueryRow("SELECT 1 FROM elever WHERE elev_id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking student %d: %w", id, err)
	}
	return true, nil
}

func insertAccommodation(tx *sql.Tx, studentID int64, group, subject, teacher string) (int64, error) {
	res, err := tx.Exec(`INSERT INTO tilrettelegginger
		(elev_id, faggruppe_navn, fagnavn, lærer, ekstra_tid, skjermet_plass, opplest_oppgave, kommentar)
		VALUES (?, ?, ?, ?, 0, 0, 0, '')`, studentID, group, subject, teacher)
	if err != nil {
		return 0, fmt.Errorf("inserting record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading record id: %w", err)
	}
	return id, nil
}

func scanAccommodation(r rowScanner) (types.Accommodation, error) {
	var (
		a                              types.Accommodation
		group, subject, teacher, notes sql.NullString
	)
	err := r.Scan(&a.ID, &a.StudentID, &group, &subject, &teacher,
		&a.ExtraTime, &a.ScreenedSeat, &a.ReadAloud, &notes)
	if err != nil {
		return a, fmt.Errorf("scanning record: %w", err)
	}
	a.Group = group.String
	a.Subject = subject.String
	a.Teacher = teacher.String
	a.Comment = notes.String
	return a, nil
}
