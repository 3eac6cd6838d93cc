package types

// Table names in the schema store.
const (
	StudentsTable       = "elever"
	AccommodationsTable = "tilrettelegginger"
)

