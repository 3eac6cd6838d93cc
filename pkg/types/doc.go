// Package types defines the Store interface, the student and accommodation
// record types, and the standard errors shared by the storage backend, the
// request router and the CLI.
package types
