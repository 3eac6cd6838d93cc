package types

import (
	"errors"
	"io"
)

// Store is the data access contract for student and accommodation records.
// Callers attach to a backend, run operations, and detach when done. Every
// operation returns its result or an error; nothing panics past this boundary.
type Store interface {
	// Attach opens the backend described by config and brings its schema to
	// the latest version. Returns ErrAlreadyAttached if already attached.
	// A migration failure is returned as-is and the store stays detached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations return ErrBackendDetached.
	Detach() error

	// SchemaVersion returns the version stamped on the store.
	SchemaVersion() (int, error)

	// SearchStudents returns at most ten students whose name starts with
	// prefix (case-sensitive), ordered by name.
	SearchStudents(prefix string) ([]Student, error)

	// SearchGroups returns at most ten distinct subject-group names starting
	// with prefix, ordered by name.
	SearchGroups(prefix string) ([]Group, error)

	// GetStudent returns the student with all of its records, or
	// ErrStudentNotFound.
	GetStudent(id int64) (*StudentDetail, error)

	// GetGroupDetails returns the subject and teacher of the first record in
	// the group, or nil when the group has no records.
	GetGroupDetails(group string) (*GroupDetails, error)

	// ListGroupMembers returns every student in the group, ordered by name.
	ListGroupMembers(group string) ([]GroupMember, error)

	AddStudent(name, class string) (*Student, error)

	// UpdateStudent normalizes name and class before writing and returns the
	// number of rows changed.
	UpdateStudent(id int64, name, class string) (int64, error)

	// DeleteStudent removes the student and, by cascade, its records.
	DeleteStudent(id int64) (int64, error)

	// AddAccommodation creates a record for an existing student and returns
	// its id. Returns ErrStudentNotFound if the owner does not exist.
	AddAccommodation(a NewAccommodation) (int64, error)

	UpdateAccommodation(id int64, u AccommodationUpdate) (int64, error)
	DeleteAccommodation(id int64) (int64, error)

	// BulkSetFlag sets one flag on every record of a student in a single
	// transaction.
	BulkSetFlag(studentID int64, flag Flag, value bool) (int64, error)

	// BulkSetComment sets the comment on every record of a student.
	BulkSetComment(studentID int64, comment string) (int64, error)

	// WipeAll deletes every record and student and resets id counters.
	WipeAll() error

	// ImportWorkbook loads students and records from the first sheet of an
	// xlsx file in one transaction.
	ImportWorkbook(path string) (*ImportResult, error)

	// ExportGroup writes the group's member list as an xlsx workbook.
	ExportGroup(group string, w io.Writer) error

	// Backup writes every table as JSONL into dir.
	Backup(dir string) error

	// Restore replaces all data with the JSONL files in dir.
	Restore(dir string) error
}

// Store lifecycle errors.
var (
	ErrBackendDetached = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
