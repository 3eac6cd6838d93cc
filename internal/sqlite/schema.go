package sqlite

// Schema DDL, version 1.
const (
	createStudents = `CREATE TABLE IF NOT EXISTS elever (
    elev_id INTEGER PRIMARY KEY,
    navn TEXT NOT NULL,
    klasse TEXT
);`

	createAccommodations = `CREATE TABLE IF NOT EXISTS tilrettelegginger (
    tilrettelegging_id INTEGER PRIMARY KEY,
    elev_id INTEGER NOT NULL,
    faggruppe_navn TEXT,
    fagnavn TEXT,
    lærer TEXT,
    ekstra_tid INTEGER DEFAULT 0,
    skjermet_plass INTEGER DEFAULT 0,
    opplest_oppgave INTEGER DEFAULT 0,
    kommentar TEXT,
    FOREIGN KEY (elev_id) REFERENCES elever(elev_id) ON DELETE CASCADE
);`
)

// Index DDL, version 2.
const (
	idxAccommodationsStudent = `CREATE INDEX IF NOT EXISTS idx_tilrettelegginger_elev ON tilrettelegginger(elev_id);`
	idxAccommodationsGroup   = `CREATE INDEX IF NOT EXISTS idx_tilrettelegginger_faggruppe ON tilrettelegginger(faggruppe_navn);`
)

// migration is one schema step. Steps are additive and idempotent so a
// partially applied history can be replayed safely.
type migration struct {
	version    int
	name       string
	statements []string
}

// migrations lists every schema step in ascending version order. New steps
// are appended; existing steps are never edited.
var migrations = []migration{
	{
		version:    1,
		name:       "create elever and tilrettelegginger",
		statements: []string{createStudents, createAccommodations},
	},
	{
		version:    2,
		name:       "index tilrettelegginger by student and group",
		statements: []string{idxAccommodationsStudent, idxAccommodationsGroup},
	},
}

// LatestSchemaVersion is the version a fully migrated store carries.
var LatestSchemaVersion = migrations[len(migrations)-1].version
