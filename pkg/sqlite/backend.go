// Package sqlite provides the public API for the SQLite student record
// store. It exposes the factory function while keeping implementation
// details internal.
package sqlite

import (
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/tilrettelegging/internal/sqlite"
	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

// NewBackend creates a new SQLite store that logs through logger.
// The store is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend(zerolog.Nop())
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".tilrettelegging-db",
//	})
//	defer store.Detach()
func NewBackend(logger zerolog.Logger) types.Store {
	return sqlite.NewBackend(sqlite.WithLogger(logger))
}
