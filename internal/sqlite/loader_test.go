package sqlite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

func writeFixtureFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	src := newTestBackend(t)
	ola := mustAddStudent(t, src, "Ola", "1A")
	kari := mustAddStudent(t, src, "Kari", "")
	rec := mustAddRecord(t, src, ola.ID, "R101 Matte")
	mustAddRecord(t, src, kari.ID, "R102 Norsk")
	_, err := src.UpdateAccommodation(rec, types.AccommodationUpdate{ExtraTime: true, Comment: "Eget rom"})
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "backup")
	require.NoError(t, src.Backup(dir))

	dst := newTestBackend(t)
	mustAddStudent(t, dst, "Overskrives", "9Z")
	require.NoError(t, dst.Restore(dir))

	got, err := dst.GetStudent(ola.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ola", got.Name)
	require.Len(t, got.Accommodations, 1)
	assert.Equal(t, rec, got.Accommodations[0].ID, "ids are preserved")
	assert.True(t, bool(got.Accommodations[0].ExtraTime))
	assert.Equal(t, "Eget rom", got.Accommodations[0].Comment)
	assert.Equal(t, "Per Lærer", got.Accommodations[0].Teacher)

	students, err := dst.SearchStudents("")
	require.NoError(t, err)
	assert.Equal(t, []string{"Kari", "Ola"}, studentNames(students), "restore replaces existing data")
}

func TestBackup_OneObjectPerLine(t *testing.T) {
	b := newTestBackend(t)
	s := mustAddStudent(t, b, "Ola", "1A")
	mustAddRecord(t, b, s.ID, "R101 Matte")

	dir := t.TempDir()
	require.NoError(t, b.Backup(dir))

	data, err := os.ReadFile(filepath.Join(dir, "elever.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, `{"elev_id":1,"klasse":"1A","navn":"Ola"}`+"\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "tilrettelegginger.jsonl"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"ekstra_tid":0`)
	assert.Contains(t, lines[0], `"lærer":"Per Lærer"`)
}

func TestRestore(t *testing.T) {
	tests := []struct {
		name     string
		students string
		records  string
		wantErr  bool
		check    func(t *testing.T, b *Backend)
	}{
		{
			name:     "unknown fields are ignored",
			students: `{"elev_id":5,"navn":"Ola","klasse":"1A","future":"x"}` + "\n",
			records:  `{"tilrettelegging_id":7,"elev_id":5,"faggruppe_navn":"R101","ekstra_tid":1,"priority":3}` + "\n",
			check: func(t *testing.T, b *Backend) {
				got, err := b.GetStudent(5)
				require.NoError(t, err)
				require.Len(t, got.Accommodations, 1)
				assert.Equal(t, int64(7), got.Accommodations[0].ID)
				assert.True(t, bool(got.Accommodations[0].ExtraTime))
			},
		},
		{
			name:     "malformed and blank lines are skipped",
			students: `{"elev_id":1,"navn":"Ola","klasse":"1A"}` + "\n\nnot json\n" + `{"elev_id":2,"navn":"Kari","klasse":"1B"}` + "\n",
			records:  "",
			check: func(t *testing.T, b *Backend) {
				got, err := b.SearchStudents("")
				require.NoError(t, err)
				assert.Len(t, got, 2)
			},
		},
		{
			name:     "boolean flags are accepted",
			students: `{"elev_id":1,"navn":"Ola","klasse":"1A"}` + "\n",
			records:  `{"tilrettelegging_id":1,"elev_id":1,"faggruppe_navn":"R1","opplest_oppgave":true}` + "\n",
			check: func(t *testing.T, b *Backend) {
				got, err := b.GetStudent(1)
				require.NoError(t, err)
				assert.True(t, bool(got.Accommodations[0].ReadAloud))
			},
		},
		{
			name:     "orphan record aborts the restore",
			students: `{"elev_id":1,"navn":"Ola","klasse":"1A"}` + "\n",
			records:  `{"tilrettelegging_id":1,"elev_id":99,"faggruppe_navn":"R1"}` + "\n",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBackend(t)
			keep := mustAddStudent(t, b, "Beholdes", "1A")

			dir := t.TempDir()
			writeFixtureFile(t, dir, "elever.jsonl", tt.students)
			writeFixtureFile(t, dir, "tilrettelegginger.jsonl", tt.records)

			err := b.Restore(dir)
			if tt.wantErr {
				require.Error(t, err)
				got, err := b.GetStudent(keep.ID)
				require.NoError(t, err, "failed restore leaves data untouched")
				assert.Equal(t, "Beholdes", got.Name)
				return
			}
			require.NoError(t, err)
			tt.check(t, b)
		})
	}
}

func TestRestore_MissingFile(t *testing.T) {
	b := newTestBackend(t)
	dir := t.TempDir()
	writeFixtureFile(t, dir, "elever.jsonl", "")

	err := b.Restore(dir)
	require.ErrorIs(t, err, types.ErrInvalidData)
}
