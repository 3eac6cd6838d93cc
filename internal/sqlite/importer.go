package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

// Import sheet columns, zero-based.
const (
	colName = iota
	colClass
	colSubject
	colTeacher
	colGroup
)

// importRow is one data row of an import sheet after trimming.
type importRow struct {
	name, class, subject, teacher, group string
}

func (r importRow) complete() bool {
	return r.name != "" && r.class != "" && r.group != ""
}

// ImportWorkbook reads the first sheet of the xlsx file at path and creates
// one record per complete row. Row 1 is a header. Students are matched on
// exact (name, class) and created when missing. Rows without a name, class
// or group are counted as skipped. All writes happen in one transaction.
func (b *Backend) ImportWorkbook(path string) (*types.ImportResult, error) {
	rows, err := readImportRows(path)
	if err != nil {
		return nil, b.fail("ImportWorkbook", err)
	}

	result := &types.ImportResult{}
	err = b.write(func() error {
		return b.inTx(func(tx *sql.Tx) error {
			known := map[importRow]int64{}
			for i, r := range rows {
				if !r.complete() {
					result.Skipped++
					continue
				}
				key := importRow{name: r.name, class: r.class}
				id, ok := known[key]
				if !ok {
					var created bool
					id, created, err = findOrCreateStudent(tx, r.name, r.class)
					if err != nil {
						return fmt.Errorf("row %d: %w", i+2, err)
					}
					if created {
						result.StudentsCreated++
					}
					known[key] = id
				}
				if _, err := insertAccommodation(tx, id, r.group, r.subject, r.teacher); err != nil {
					return fmt.Errorf("row %d: %w", i+2, err)
				}
				result.Processed++
			}
			return nil
		})
	})
	if err != nil {
		return nil, b.fail("ImportWorkbook", err)
	}

	result.Success = true
	b.log.Info().
		Str("path", path).
		Int("processed", result.Processed).
		Int("students_created", result.StudentsCreated).
		Int("skipped", result.Skipped).
		Msg("workbook imported")
	return result, nil
}

// readImportRows returns the trimmed data rows of the first sheet, header
// excluded. Short rows are padded with empty cells.
func readImportRows(path string) ([]importRow, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: path is required", types.ErrInvalidImport)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidImport, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", types.ErrInvalidImport)
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", types.ErrInvalidImport, sheets[0], err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	rows := make([]importRow, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		cell := func(i int) string {
			if i < len(cells) {
				return strings.TrimSpace(cells[i])
			}
			return ""
		}
		r := importRow{
			name:    cell(colName),
			class:   cell(colClass),
			subject: cell(colSubject),
			teacher: cell(colTeacher),
			group:   cell(colGroup),
		}
		if r == (importRow{}) {
			continue
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// findOrCreateStudent returns the id of the student with exactly this name
// and class, inserting one if none exists.
func findOrCreateStudent(tx *sql.Tx, name, class string) (id int64, created bool, err error) {
	err = tx.QueryRow("SELECT elev_id FROM elever WHERE navn = ? AND klasse = ? ORDER BY elev_id LIMIT 1",
		name, class).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("looking up student %q: %w", name, err)
	}
	res, err := tx.Exec("INSERT INTO elever (navn, klasse) VALUES (?, ?)", name, class)
	if err != nil {
		return 0, false, fmt.Errorf("inserting student %q: %w", name, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("reading student id: %w", err)
	}
	return id, true, nil
}
