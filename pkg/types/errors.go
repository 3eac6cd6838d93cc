package types

import "errors"

// Not-found errors.
var (
	ErrStudentNotFound = errors.New("student not found")
)

// Validation errors.
var (
	ErrInvalidID     = errors.New("invalid id")
	ErrInvalidData   = errors.New("invalid data")
	ErrInvalidField  = errors.New("invalid field for bulk update")
	ErrInvalidImport = errors.New("invalid import file")
)

// Router errors.
var (
	ErrUnknownEndpoint = errors.New("unknown endpoint")
)

// Schema errors are fatal at startup.
var (
	ErrSchemaTooNew = errors.New("database schema is newer than this build")
)

// ErrorKind classifies an error for callers that map errors onto a transport
// status (HTTP codes, CLI exit codes).
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNotFound
	KindValidation
	KindUnknownEndpoint
	KindStorage
)

// String returns the lower-case name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindUnknownEndpoint:
		return "unknown_endpoint"
	default:
		return "storage"
	}
}

// Kind returns the ErrorKind of err. Errors that do not wrap a sentinel from
// this package are storage faults.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrStudentNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidData),
		errors.Is(err, ErrInvalidField), errors.Is(err, ErrInvalidImport):
		return KindValidation
	case errors.Is(err, ErrUnknownEndpoint):
		return KindUnknownEndpoint
	default:
		return KindStorage
	}
}
