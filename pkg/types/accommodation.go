package types

import "strings"

// Accommodation is one subject-group-scoped set of accommodation flags and a
// comment for a student.
type Accommodation struct {
	ID           int64  `json:"tilrettelegging_id"`
	StudentID    int64  `json:"elev_id"`
	Group        string `json:"faggruppe_navn"`
	Subject      string `json:"fagnavn"`
	Teacher      string `json:"lærer"`
	ExtraTime    Bit    `json:"ekstra_tid"`
	ScreenedSeat Bit    `json:"skjermet_plass"`
	ReadAloud    Bit    `json:"opplest_oppgave"`
	Comment      string `json:"kommentar"`
}

// NewAccommodation is the input for creating an accommodation record. Flags
// start cleared and the comment empty.
type NewAccommodation struct {
	StudentID int64  `json:"elev_id" validate:"required,gt=0"`
	Group     string `json:"faggruppe_navn" validate:"required"`
	Subject   string `json:"fagnavn"`
	Teacher   string `json:"lærer"`
}

// AccommodationUpdate replaces the flags and comment of one record.
type AccommodationUpdate struct {
	ExtraTime    Bit    `json:"ekstra_tid"`
	ScreenedSeat Bit    `json:"skjermet_plass"`
	ReadAloud    Bit    `json:"opplest_oppgave"`
	Comment      string `json:"kommentar"`
}

// Flag names one of the boolean accommodation columns. Only these values may
// be bulk-updated.
type Flag string

const (
	FlagExtraTime    Flag = "ekstra_tid"
	FlagScreenedSeat Flag = "skjermet_plass"
	FlagReadAloud    Flag = "opplest_oppgave"
)

// Flags lists every accommodation flag in column order.
var Flags = []Flag{FlagExtraTime, FlagScreenedSeat, FlagReadAloud}

// ParseFlag returns the Flag named by s, or ErrInvalidField.
func ParseFlag(s string) (Flag, error) {
	for _, f := range Flags {
		if string(f) == s {
			return f, nil
		}
	}
	return "", ErrInvalidField
}

// Column returns the column name for the flag. The result is always one of
// the fixed column names, so it is safe to splice into SQL.
func (f Flag) Column() string {
	return string(f)
}

// Group is a distinct subject-group name, as returned by group search.
type Group struct {
	Name string `json:"faggruppe_navn"`
}

// GroupDetails is the subject and teacher recorded for a subject group.
type GroupDetails struct {
	Subject string `json:"fagnavn"`
	Teacher string `json:"lærer"`
}

// GroupMember is a student in a subject group with that group's flags.
type GroupMember struct {
	StudentID    int64  `json:"elev_id"`
	Name         string `json:"navn"`
	Class        string `json:"klasse"`
	Group        string `json:"faggruppe_navn"`
	ExtraTime    Bit    `json:"ekstra_tid"`
	ScreenedSeat Bit    `json:"skjermet_plass"`
	ReadAloud    Bit    `json:"opplest_oppgave"`
	Comment      string `json:"kommentar"`
	Room         string `json:"rom"`
}

// RoomUnknown is the room token for groups whose name carries no room segment.
const RoomUnknown = "ukjent"

// RoomToken returns the first whitespace-delimited segment of a group name,
// or RoomUnknown when the name is blank.
func RoomToken(group string) string {
	fields := strings.Fields(group)
	if len(fields) == 0 {
		return RoomUnknown
	}
	return fields[0]
}

// ImportResult summarizes a spreadsheet import.
type ImportResult struct {
	Success         bool `json:"success"`
	Processed       int  `json:"count"`
	StudentsCreated int  `json:"students_created"`
	Skipped         int  `json:"skipped"`
}
