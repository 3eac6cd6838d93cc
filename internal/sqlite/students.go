package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

// searchLimit caps autocomplete results.
const searchLimit = 10

// prefixMatch is a case-sensitive, left-anchored prefix test. LIKE is not
// used because it folds ASCII case and treats % and _ as wildcards.
const prefixMatch = "substr(%s, 1, length(?)) = ?"

// SearchStudents returns up to ten students whose name starts with prefix.
func (b *Backend) SearchStudents(prefix string) ([]types.Student, error) {
	var out []types.Student
	err := b.read(func() error {
		query, args, err := b.sb.
			Select("elev_id", "navn", "klasse").
			From(types.StudentsTable).
			Where(fmt.Sprintf(prefixMatch, "navn"), prefix, prefix).
			OrderBy("navn", "elev_id").
			Limit(searchLimit).
			ToSql()
		if err != nil {
			return fmt.Errorf("building student search: %w", err)
		}
		rows, err := b.db.Query(query, args...)
		if err != nil {
			return fmt.Errorf("searching students: %w", err)
		}
		defer rows.Close()

		out = []types.Student{}
		for rows.Next() {
			s, err := scanStudent(rows)
			if err != nil {
				return err
			}
			out = append(out, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, b.fail("SearchStudents", err)
	}
	return out, nil
}

// GetStudent returns a student and all of its records ordered by group name.
func (b *Backend) GetStudent(id int64) (*types.StudentDetail, error) {
	var detail *types.StudentDetail
	err := b.read(func() error {
		row := b.db.QueryRow("SELECT elev_id, navn, klasse FROM elever WHERE elev_id = ?", id)
		s, err := scanStudent(row)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: id %d", types.ErrStudentNotFound, id)
		}
		if err != nil {
			return err
		}

		rows, err := b.db.Query("SELECT "+accommodationColumns+
			" FROM tilrettelegginger WHERE elev_id = ? ORDER BY faggruppe_navn, tilrettelegging_id", id)
		if err != nil {
			return fmt.Errorf("loading records for student %d: %w", id, err)
		}
		defer rows.Close()

		detail = &types.StudentDetail{Student: s, Accommodations: []types.Accommodation{}}
		for rows.Next() {
			a, err := scanAccommodation(rows)
			if err != nil {
				return err
			}
			detail.Accommodations = append(detail.Accommodations, a)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, b.fail("GetStudent", err)
	}
	return detail, nil
}

// AddStudent inserts a student with name and class stored exactly as given.
func (b *Backend) AddStudent(name, class string) (*types.Student, error) {
	if strings.TrimSpace(name) == "" {
		return nil, b.fail("AddStudent", fmt.Errorf("%w: name is required", types.ErrInvalidData))
	}
	var s *types.Student
	err := b.write(func() error {
		res, err := b.db.Exec("INSERT INTO elever (navn, klasse) VALUES (?, ?)", name, class)
		if err != nil {
			return fmt.Errorf("inserting student: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading student id: %w", err)
		}
		s = &types.Student{ID: id, Name: name, Class: class}
		return nil
	})
	if err != nil {
		return nil, b.fail("AddStudent", err)
	}
	return s, nil
}

// UpdateStudent normalizes name and class, then writes them. Updating an id
// that does not exist changes zero rows and is not an error.
func (b *Backend) UpdateStudent(id int64, name, class string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, b.fail("UpdateStudent", fmt.Errorf("%w: name is required", types.ErrInvalidData))
	}
	var n int64
	err := b.write(func() error {
		res, err := b.db.Exec("UPDATE elever SET navn = ?, klasse = ? WHERE elev_id = ?",
			types.NormalizeName(name), types.NormalizeClass(class), id)
		if err != nil {
			return fmt.Errorf("updating student %d: %w", id, err)
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, b.fail("UpdateStudent", err)
}

// DeleteStudent removes a student; its records go with it by cascade.
func (b *Backend) DeleteStudent(id int64) (int64, error) {
	var n int64
	err := b.write(func() error {
		res, err := b.db.Exec("DELETE FROM elever WHERE elev_id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting student %d: %w", id, err)
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, b.fail("DeleteStudent", err)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(r rowScanner) (types.Student, error) {
	var (
		s     types.Student
		class sql.NullString
	)
	if err := r.Scan(&s.ID, &s.Name, &class); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, err
		}
		return s, fmt.Errorf("scanning student: %w", err)
	}
	s.Class = class.String
	return s, nil
}
