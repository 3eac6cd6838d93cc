package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

func TestSearchGroups(t *testing.T) {
	b := newTestBackend(t)
	ola := mustAddStudent(t, b, "Ola", "1A")
	kari := mustAddStudent(t, b, "Kari", "1B")
	mustAddRecord(t, b, ola.ID, "R101 Matte")
	mustAddRecord(t, b, kari.ID, "R101 Matte")
	mustAddRecord(t, b, ola.ID, "R102 Norsk")
	mustAddRecord(t, b, kari.ID, "r200 Gym")

	got, err := b.SearchGroups("R10")
	require.NoError(t, err)
	assert.Equal(t, []types.Group{{Name: "R101 Matte"}, {Name: "R102 Norsk"}}, got, "distinct and ordered")

	got, err = b.SearchGroups("Matte")
	require.NoError(t, err)
	assert.Empty(t, got, "left anchored")

	got, err = b.SearchGroups("r")
	require.NoError(t, err)
	assert.Equal(t, []types.Group{{Name: "r200 Gym"}}, got, "case sensitive")
}

func TestSearchGroups_Limit(t *testing.T) {
	b := newTestBackend(t)
	s := mustAddStudent(t, b, "Ola", "1A")
	for _, g := range []string{"A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8", "A9", "B1", "B2", "B3"} {
		mustAddRecord(t, b, s.ID, g)
	}

	got, err := b.SearchGroups("")
	require.NoError(t, err)
	assert.Len(t, got, searchLimit)
}

func TestGetGroupDetails(t *testing.T) {
	b := newTestBackend(t)
	s := mustAddStudent(t, b, "Ola", "1A")
	_, err := b.AddAccommodation(types.NewAccommodation{StudentID: s.ID, Group: "R101 Matte", Subject: "Matematikk", Teacher: "Per"})
	require.NoError(t, err)
	_, err = b.AddAccommodation(types.NewAccommodation{StudentID: s.ID, Group: "R101 Matte", Subject: "Annet", Teacher: "Pål"})
	require.NoError(t, err)

	got, err := b.GetGroupDetails("R101 Matte")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, &types.GroupDetails{Subject: "Matematikk", Teacher: "Per"}, got, "first record wins")

	got, err = b.GetGroupDetails("Finnes ikke")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListGroupMembers(t *testing.T) {
	b := newTestBackend(t)
	ola := mustAddStudent(t, b, "Ola", "1A")
	anne := mustAddStudent(t, b, "Anne", "1B")
	other := mustAddStudent(t, b, "Zara", "2C")
	olaRec := mustAddRecord(t, b, ola.ID, "R101 Matte")
	mustAddRecord(t, b, anne.ID, "R101 Matte")
	mustAddRecord(t, b, other.ID, "R102 Norsk")

	_, err := b.UpdateAccommodation(olaRec, types.AccommodationUpdate{ScreenedSeat: true, Comment: "Vindusplass"})
	require.NoError(t, err)

	got, err := b.ListGroupMembers("R101 Matte")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Anne", got[0].Name)
	assert.Equal(t, "1B", got[0].Class)
	assert.Equal(t, "R101", got[0].Room)

	assert.Equal(t, "Ola", got[1].Name)
	assert.Equal(t, ola.ID, got[1].StudentID)
	assert.True(t, bool(got[1].ScreenedSeat))
	assert.Equal(t, "Vindusplass", got[1].Comment)
	assert.Equal(t, "R101 Matte", got[1].Group)
}

func TestListGroupMembers_Empty(t *testing.T) {
	b := newTestBackend(t)

	got, err := b.ListGroupMembers("Ingen")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
