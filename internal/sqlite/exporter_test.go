package sqlite

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "R101 Matte_elever.xlsx", ExportFileName("R101 Matte"))
	assert.Equal(t, "1A-1B-2C_elever.xlsx", ExportFileName(`1A/1B\2C`))
}

func TestExportGroup(t *testing.T) {
	b := newTestBackend(t)
	ola := mustAddStudent(t, b, "Ola", "1A")
	anne := mustAddStudent(t, b, "Anne", "1B")
	rec := mustAddRecord(t, b, ola.ID, "R101 Matte")
	mustAddRecord(t, b, anne.ID, "R101 Matte")
	_, err := b.UpdateAccommodation(rec, types.AccommodationUpdate{ExtraTime: true, ReadAloud: true, Comment: "Eget rom"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, b.ExportGroup("R101 Matte", &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ExportSheet}, f.GetSheetList())
	rows, err := f.GetRows(ExportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Navn", "Klasse", "Ekstra tid", "Skjermet plass", "Opplest oppgave", "Kommentar"}, rows[0])
	require.GreaterOrEqual(t, len(rows[1]), 2)
	assert.Equal(t, []string{"Anne", "1B"}, rows[1][:2])
	for _, cell := range rows[1][2:] {
		assert.Empty(t, cell)
	}
	assert.Equal(t, []string{"Ola", "1A", "Ja", "", "Ja", "Eget rom"}, rows[2])
}

func TestExportGroup_EmptyGroup(t *testing.T) {
	b := newTestBackend(t)

	var buf bytes.Buffer
	require.NoError(t, b.ExportGroup("Ingen", &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(ExportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
