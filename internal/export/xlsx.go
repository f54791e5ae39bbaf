package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/erazemk/inventura/internal/model"
)

// Sheet names.
const (
	DetailSheet  = "Inventura"
	SummarySheet = "Povzetek"
)

type column struct {
	header string
	width  float64
}

var detailColumns = []column{
	{"Uporabnik", 20},
	{"Username", 15},
	{"Seja", 25},
	{"Status", 12},
	{"Seja ustvarjena", 20},
	{"Seja zaključena", 20},
	{"SKU", 20},
	{"Količina", 12},
	{"Skenirano", 20},
}

var summaryColumns = []column{
	{"Uporabnik", 20},
	{"Število sej", 15},
	{"Skupaj artiklov", 18},
	{"Skupaj količina", 18},
}

// WriteXLSX writes a workbook with a detail sheet (one row per item) and a
// per-user summary sheet.
func WriteXLSX(w io.Writer, rows []model.ExportRow, summaries []model.UserSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), DetailSheet); err != nil {
		return fmt.Errorf("naming detail sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2D3436"}},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	detail := make([][]any, 0, len(rows))
	for _, r := range rows {
		detail = append(detail, []any{
			r.DisplayName,
			r.Username,
			r.SessionName,
			r.SessionStatus,
			formatTime(r.SessionCreatedAt),
			formatOptionalTime(r.SessionCompletedAt),
			r.SKU,
			r.Quantity,
			formatTime(r.ScannedAt),
		})
	}
	if err := writeSheet(f, DetailSheet, detailColumns, headerStyle, detail); err != nil {
		return err
	}

	summary := make([][]any, 0, len(summaries))
	for _, s := range summaries {
		summary = append(summary, []any{s.DisplayName, s.Sessions, s.Items, s.Quantity})
	}
	if err := writeSheet(f, SummarySheet, summaryColumns, headerStyle, summary); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, cols []column, headerStyle int, rows [][]any) error {
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.header

		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, c.width); err != nil {
			return fmt.Errorf("setting %s column width: %w", sheet, err)
		}
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
