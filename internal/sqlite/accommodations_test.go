package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

func mustAddRecord(t *testing.T, b *Backend, studentID int64, group string) int64 {
	t.Helper()
	id, err := b.AddAccommodation(types.NewAccommodation{
		StudentID: studentID,
		Group:     group,
		Subject:   "Matematikk",
		Teacher:   "Per Lærer",
	})
	require.NoError(t, err)
	return id
}

func TestAddAccommodation(t *testing.T) {
	tests := []struct {
		name    string
		input   func(studentID int64) types.NewAccommodation
		wantErr error
		check   func(t *testing.T, b *Backend, studentID int64)
	}{
		{
			name: "new record starts cleared",
			input: func(id int64) types.NewAccommodation {
				return types.NewAccommodation{StudentID: id, Group: "R1 Matte", Subject: "Matematikk", Teacher: "Per"}
			},
			check: func(t *testing.T, b *Backend, studentID int64) {
				got, err := b.GetStudent(studentID)
				require.NoError(t, err)
				require.Len(t, got.Accommodations, 1)
				a := got.Accommodations[0]
				assert.Equal(t, "R1 Matte", a.Group)
				assert.Equal(t, "Matematikk", a.Subject)
				assert.Equal(t, "Per", a.Teacher)
				assert.False(t, bool(a.ExtraTime))
				assert.False(t, bool(a.ScreenedSeat))
				assert.False(t, bool(a.ReadAloud))
				assert.Equal(t, "", a.Comment)
			},
		},
		{
			name: "unknown student",
			input: func(int64) types.NewAccommodation {
				return types.NewAccommodation{StudentID: 999, Group: "R1 Matte"}
			},
			wantErr: types.ErrStudentNotFound,
		},
		{
			name: "missing group",
			input: func(id int64) types.NewAccommodation {
				return types.NewAccommodation{StudentID: id}
			},
			wantErr: types.ErrInvalidData,
		},
		{
			name: "non-positive student id",
			input: func(int64) types.NewAccommodation {
				return types.NewAccommodation{StudentID: 0, Group: "R1 Matte"}
			},
			wantErr: types.ErrInvalidID,
		},
		{
			name: "duplicate group for same student is allowed",
			input: func(id int64) types.NewAccommodation {
				return types.NewAccommodation{StudentID: id, Group: "R1 Matte"}
			},
			check: func(t *testing.T, b *Backend, studentID int64) {
				_, err := b.AddAccommodation(types.NewAccommodation{StudentID: studentID, Group: "R1 Matte"})
				require.NoError(t, err)
				got, err := b.GetStudent(studentID)
				require.NoError(t, err)
				assert.Len(t, got.Accommodations, 2)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBackend(t)
			s := mustAddStudent(t, b, "Ola", "1A")

			id, err := b.AddAccommodation(tt.input(s.ID))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Positive(t, id)
			if tt.check != nil {
				tt.check(t, b, s.ID)
			}
		})
	}
}

func TestUpdateAccommodation(t *testing.T) {
	b := newTestBackend(t)
	s := mustAddStudent(t, b, "Ola", "1A")
	id := mustAddRecord(t, b, s.ID, "R1 Matte")

	n, err := b.UpdateAccommodation(id, types.AccommodationUpdate{
		ExtraTime: true,
		ReadAloud: true,
		Comment:   "Trenger rolig rom",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := b.GetStudent(s.ID)
	require.NoError(t, err)
	a := got.Accommodations[0]
	assert.True(t, bool(a.ExtraTime))
	assert.False(t, bool(a.ScreenedSeat))
	assert.True(t, bool(a.ReadAloud))
	assert.Equal(t, "Trenger rolig rom", a.Comment)

	var stored int
	require.NoError(t, b.db.QueryRow("SELECT ekstra_tid FROM tilrettelegginger WHERE tilrettelegging_id = ?", id).Scan(&stored))
	assert.Equal(t, 1, stored, "flags are stored as 0/1")

	n, err = b.UpdateAccommodation(999, types.AccommodationUpdate{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteAccommodation(t *testing.T) {
	b := newTestBackend(t)
	s := mustAddStudent(t, b, "Ola", "1A")
	id := mustAddRecord(t, b, s.ID, "R1 Matte")
	mustAddRecord(t, b, s.ID, "R2 Norsk")

	n, err := b.DeleteAccommodation(id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := b.GetStudent(s.ID)
	require.NoError(t, err)
	require.Len(t, got.Accommodations, 1)
	assert.Equal(t, "R2 Norsk", got.Accommodations[0].Group)
}

func TestBulkSetFlag(t *testing.T) {
	tests := []struct {
		name    string
		flag    types.Flag
		value   bool
		wantN   int64
		wantErr error
		check   func(t *testing.T, d *types.StudentDetail)
	}{
		{
			name:  "sets extra time on every record",
			flag:  types.FlagExtraTime,
			value: true,
			wantN: 2,
			check: func(t *testing.T, d *types.StudentDetail) {
				for _, a := range d.Accommodations {
					assert.True(t, bool(a.ExtraTime))
					assert.False(t, bool(a.ReadAloud))
				}
			},
		},
		{
			name:  "sets read aloud",
			flag:  types.FlagReadAloud,
			value: true,
			wantN: 2,
			check: func(t *testing.T, d *types.StudentDetail) {
				for _, a := range d.Accommodations {
					assert.True(t, bool(a.ReadAloud))
				}
			},
		},
		{
			name:    "column outside the flag set is rejected",
			flag:    types.Flag("navn"),
			value:   true,
			wantErr: types.ErrInvalidField,
		},
		{
			name:    "injection attempt is rejected",
			flag:    types.Flag("ekstra_tid = 1; DROP TABLE elever; --"),
			value:   true,
			wantErr: types.ErrInvalidField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBackend(t)
			s := mustAddStudent(t, b, "Ola", "1A")
			mustAddRecord(t, b, s.ID, "R1 Matte")
			mustAddRecord(t, b, s.ID, "R2 Norsk")
			other := mustAddStudent(t, b, "Kari", "1A")
			mustAddRecord(t, b, other.ID, "R1 Matte")

			n, err := b.BulkSetFlag(s.ID, tt.flag, tt.value)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, n)
				got, err := b.GetStudent(s.ID)
				require.NoError(t, err)
				assert.Equal(t, "Ola", got.Name)
				for _, a := range got.Accommodations {
					assert.False(t, bool(a.ExtraTime))
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantN, n)

			got, err := b.GetStudent(s.ID)
			require.NoError(t, err)
			tt.check(t, got)

			untouched, err := b.GetStudent(other.ID)
			require.NoError(t, err)
			assert.False(t, bool(untouched.Accommodations[0].ExtraTime))
			assert.False(t, bool(untouched.Accommodations[0].ReadAloud))
		})
	}
}

func TestBulkSetFlag_Clear(t *testing.T) {
	b := newTestBackend(t)
	s := mustAddStudent(t, b, "Ola", "1A")
	mustAddRecord(t, b, s.ID, "R1 Matte")

	_, err := b.BulkSetFlag(s.ID, types.FlagScreenedSeat, true)
	require.NoError(t, err)
	_, err = b.BulkSetFlag(s.ID, types.FlagScreenedSeat, false)
	require.NoError(t, err)

	got, err := b.GetStudent(s.ID)
	require.NoError(t, err)
	assert.False(t, bool(got.Accommodations[0].ScreenedSeat))
}

func TestBulkSetComment(t *testing.T) {
	b := newTestBackend(t)
	s := mustAddStudent(t, b, "Ola", "1A")
	mustAddRecord(t, b, s.ID, "R1 Matte")
	mustAddRecord(t, b, s.ID, "R2 Norsk")

	n, err := b.BulkSetComment(s.ID, "Lese høyt")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := b.GetStudent(s.ID)
	require.NoError(t, err)
	for _, a := range got.Accommodations {
		assert.Equal(t, "Lese høyt", a.Comment)
	}

	n, err = b.BulkSetComment(999, "ingen")
	require.NoError(t, err)
	assert.Zero(t, n)
}
