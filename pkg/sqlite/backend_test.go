package sqlite

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

func TestNewBackend(t *testing.T) {
	store := NewBackend(zerolog.Nop())
	require.NoError(t, store.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	defer store.Detach()

	s, err := store.AddStudent("Ola", "1A")
	require.NoError(t, err)

	got, err := store.SearchStudents("O")
	require.NoError(t, err)
	assert.Equal(t, []types.Student{*s}, got)
}
