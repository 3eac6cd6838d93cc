package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWipeAll(t *testing.T) {
	b := newTestBackend(t)
	for _, name := range []string{"Ola", "Kari", "Per"} {
		s := mustAddStudent(t, b, name, "1A")
		mustAddRecord(t, b, s.ID, "R101 Matte")
	}

	require.NoError(t, b.WipeAll())

	students, err := b.SearchStudents("")
	require.NoError(t, err)
	assert.Empty(t, students)

	groups, err := b.SearchGroups("")
	require.NoError(t, err)
	assert.Empty(t, groups)

	s := mustAddStudent(t, b, "Ny", "1A")
	assert.Equal(t, int64(1), s.ID, "id counter reset")
	id := mustAddRecord(t, b, s.ID, "R101 Matte")
	assert.Equal(t, int64(1), id)
}

func TestWipeAll_ResetsSequenceTable(t *testing.T) {
	b := newTestBackend(t)
	// An AUTOINCREMENT table from an older layout creates sqlite_sequence.
	_, err := b.db.Exec("CREATE TABLE legacy (id INTEGER PRIMARY KEY AUTOINCREMENT, v TEXT)")
	require.NoError(t, err)
	_, err = b.db.Exec("INSERT INTO legacy (v) VALUES ('x')")
	require.NoError(t, err)
	_, err = b.db.Exec("INSERT INTO sqlite_sequence (name, seq) VALUES ('elever', 41)")
	require.NoError(t, err)

	require.NoError(t, b.WipeAll())

	var n int
	require.NoError(t, b.db.QueryRow("SELECT count(*) FROM sqlite_sequence WHERE name = 'elever'").Scan(&n))
	assert.Zero(t, n)
}

func TestWipeAll_EmptyStore(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.WipeAll())
	require.NoError(t, b.WipeAll())
}
