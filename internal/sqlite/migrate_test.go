package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := openDB(filepath.Join(t.TempDir(), types.DBFileName))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, kind, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type = ? AND name = ?", kind, name).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

func TestMigrate(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, db *sql.DB)
		wantFrom int
		check    func(t *testing.T, db *sql.DB)
	}{
		{
			name:     "fresh store gets every step",
			wantFrom: 0,
			check: func(t *testing.T, db *sql.DB) {
				assert.True(t, tableExists(t, db, "table", "elever"))
				assert.True(t, tableExists(t, db, "table", "tilrettelegginger"))
				assert.True(t, tableExists(t, db, "index", "idx_tilrettelegginger_elev"))
				assert.True(t, tableExists(t, db, "index", "idx_tilrettelegginger_faggruppe"))
			},
		},
		{
			name: "version 1 store gets indexes only",
			setup: func(t *testing.T, db *sql.DB) {
				_, err := db.Exec(createStudents)
				require.NoError(t, err)
				_, err = db.Exec(createAccommodations)
				require.NoError(t, err)
				_, err = db.Exec("INSERT INTO elever (navn, klasse) VALUES ('Ola', '1A')")
				require.NoError(t, err)
				_, err = db.Exec("PRAGMA user_version = 1")
				require.NoError(t, err)
			},
			wantFrom: 1,
			check: func(t *testing.T, db *sql.DB) {
				assert.True(t, tableExists(t, db, "index", "idx_tilrettelegginger_elev"))
				var n int
				require.NoError(t, db.QueryRow("SELECT count(*) FROM elever").Scan(&n))
				assert.Equal(t, 1, n, "existing rows survive migration")
			},
		},
		{
			name: "unversioned legacy tables are adopted",
			setup: func(t *testing.T, db *sql.DB) {
				_, err := db.Exec(createStudents)
				require.NoError(t, err)
				_, err = db.Exec(createAccommodations)
				require.NoError(t, err)
			},
			wantFrom: 0,
			check: func(t *testing.T, db *sql.DB) {
				assert.True(t, tableExists(t, db, "index", "idx_tilrettelegginger_faggruppe"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openTestDB(t)
			if tt.setup != nil {
				tt.setup(t, db)
			}

			from, to, err := Migrate(db, zerolog.Nop())
			require.NoError(t, err)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, LatestSchemaVersion, to)

			v, err := schemaVersion(db)
			require.NoError(t, err)
			assert.Equal(t, LatestSchemaVersion, v)

			if tt.check != nil {
				tt.check(t, db)
			}
		})
	}
}

func TestMigrate_SecondRunIsNoop(t *testing.T) {
	db := openTestDB(t)

	_, _, err := Migrate(db, zerolog.Nop())
	require.NoError(t, err)

	var before int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM sqlite_master").Scan(&before))

	from, to, err := Migrate(db, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, LatestSchemaVersion, from)
	assert.Equal(t, LatestSchemaVersion, to)

	var after int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM sqlite_master").Scan(&after))
	assert.Equal(t, before, after)
}

func TestMigrate_RejectsNewerStore(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)

	_, _, err = Migrate(db, zerolog.Nop())
	require.ErrorIs(t, err, types.ErrSchemaTooNew)

	v, err := schemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, 99, v, "version is never decremented")
}

func TestMigrate_FailureRollsBack(t *testing.T) {
	db := openTestDB(t)
	// A view named like an index target makes step 2 fail after step 1 ran
	// inside the same transaction.
	_, err := db.Exec("CREATE VIEW tilrettelegginger AS SELECT 1 AS elev_id")
	require.NoError(t, err)

	_, _, err = Migrate(db, zerolog.Nop())
	require.Error(t, err)

	assert.False(t, tableExists(t, db, "table", "elever"), "step 1 rolled back")
	v, err := schemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestStoredVersionAndMigrateStore(t *testing.T) {
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: filepath.Join(t.TempDir(), "data")}

	v, err := StoredVersion(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, v, "missing database reads as version 0")

	from, to, err := MigrateStore(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0, from)
	assert.Equal(t, LatestSchemaVersion, to)

	v, err = StoredVersion(cfg)
	require.NoError(t, err)
	assert.Equal(t, LatestSchemaVersion, v)

	from, to, err = MigrateStore(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, from, to)

	_, err = StoredVersion(types.Config{DataDir: cfg.DataDir})
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}
