package sqlite

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

// ExportSheet is the sheet name of an exported group workbook.
const ExportSheet = "Elever"

var exportHeader = []any{"Navn", "Klasse", "Ekstra tid", "Skjermet plass", "Opplest oppgave", "Kommentar"}

// ExportFileName returns the download name for a group's workbook. Path
// separators in the group name become dashes.
func ExportFileName(group string) string {
	name := strings.NewReplacer("/", "-", `\`, "-").Replace(group)
	return name + "_elever.xlsx"
}

// ExportGroup writes the members of group as an xlsx workbook to w. Flags
// render as "Ja" when set and blank otherwise.
func (b *Backend) ExportGroup(group string, w io.Writer) error {
	var members []types.GroupMember
	err := b.read(func() error {
		var err error
		members, err = b.groupMembers(group)
		return err
	})
	if err != nil {
		return b.fail("ExportGroup", err)
	}
	return b.fail("ExportGroup", writeMemberWorkbook(members, w))
}

func writeMemberWorkbook(members []types.GroupMember, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, m := range members {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{m.Name, m.Class, yes(m.ExtraTime), yes(m.ScreenedSeat), yes(m.ReadAloud), m.Comment}
		if err := f.SetSheetRow(ExportSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func yes(b types.Bit) string {
	if b {
		return "Ja"
	}
	return ""
}
