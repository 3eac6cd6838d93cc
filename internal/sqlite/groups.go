package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

// SearchGroups returns up to ten distinct group names starting with prefix.
func (b *Backend) SearchGroups(prefix string) ([]types.Group, error) {
	var out []types.Group
	err := b.read(func() error {
		query, args, err := b.sb.
			Select("faggruppe_navn").
			Distinct().
			From(types.AccommodationsTable).
			Where(fmt.Sprintf(prefixMatch, "faggruppe_navn"), prefix, prefix).
			OrderBy("faggruppe_navn").
			Limit(searchLimit).
			ToSql()
		if err != nil {
			return fmt.Errorf("building group search: %w", err)
		}
		rows, err := b.db.Query(query, args...)
		if err != nil {
			return fmt.Errorf("searching groups: %w", err)
		}
		defer rows.Close()

		out = []types.Group{}
		for rows.Next() {
			var g types.Group
			if err := rows.Scan(&g.Name); err != nil {
				return fmt.Errorf("scanning group: %w", err)
			}
			out = append(out, g)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, b.fail("SearchGroups", err)
	}
	return out, nil
}

// GetGroupDetails returns the subject and teacher of the group's first
// record. A group with no records yields nil and no error.
func (b *Backend) GetGroupDetails(group string) (*types.GroupDetails, error) {
	var details *types.GroupDetails
	err := b.read(func() error {
		var subject, teacher sql.NullString
		err := b.db.QueryRow(`SELECT fagnavn, lærer FROM tilrettelegginger
			WHERE faggruppe_navn = ? ORDER BY tilrettelegging_id LIMIT 1`, group).Scan(&subject, &teacher)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("loading group %q: %w", group, err)
		}
		details = &types.GroupDetails{Subject: subject.String, Teacher: teacher.String}
		return nil
	})
	if err != nil {
		return nil, b.fail("GetGroupDetails", err)
	}
	return details, nil
}

// ListGroupMembers returns every student with a record in group, ordered by
// name, each carrying that record's flags and the group's room token.
func (b *Backend) ListGroupMembers(group string) ([]types.GroupMember, error) {
	var out []types.GroupMember
	err := b.read(func() error {
		var err error
		out, err = b.groupMembers(group)
		return err
	})
	if err != nil {
		return nil, b.fail("ListGroupMembers", err)
	}
	return out, nil
}

// groupMembers runs the member query. The caller must hold a lock.
func (b *Backend) groupMembers(group string) ([]types.GroupMember, error) {
	query, args, err := b.sb.
		Select("e.elev_id", "e.navn", "e.klasse", "t.faggruppe_navn",
			"t.ekstra_tid", "t.skjermet_plass", "t.opplest_oppgave", "t.kommentar").
		From(types.StudentsTable + " e").
		Join(types.AccommodationsTable + " t ON t.elev_id = e.elev_id").
		Where(sq.Eq{"t.faggruppe_navn": group}).
		OrderBy("e.navn", "e.elev_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building member query: %w", err)
	}
	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing members of %q: %w", group, err)
	}
	defer rows.Close()

	room := types.RoomToken(group)
	members := []types.GroupMember{}
	for rows.Next() {
		var (
			m            types.GroupMember
			class, notes sql.NullString
		)
		if err := rows.Scan(&m.StudentID, &m.Name, &class, &m.Group,
			&m.ExtraTime, &m.ScreenedSeat, &m.ReadAloud, &notes); err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		m.Class = class.String
		m.Comment = notes.String
		m.Room = room
		members = append(members, m)
	}
	return members, rows.Err()
}
