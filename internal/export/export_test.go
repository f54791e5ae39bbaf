package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/erazemk/inventura/internal/model"
)

func sampleRows() []model.ExportRow {
	created := time.Date(2026, 3, 5, 9, 7, 0, 0, time.UTC)
	completed := created.Add(time.Hour)
	return []model.ExportRow{
		{
			DisplayName: "Bob", Username: "bob", SessionName: `Polica "A"`, SessionStatus: model.SessionStatusCompleted,
			SessionCreatedAt: created, SessionCompletedAt: &completed,
			SKU: "ABC123", Quantity: 3, ScannedAt: created.Add(time.Minute),
		},
		{
			DisplayName: "Bob", Username: "bob", SessionName: "Druga, seja", SessionStatus: model.SessionStatusActive,
			SessionCreatedAt: created,
			SKU: "XYZ", Quantity: 1, ScannedAt: created,
		},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatXLSX, "xlsx": FormatXLSX, "CSV": FormatCSV, "csv": FormatCSV} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	ts := time.UnixMilli(1772700000123)
	assert.Equal(t, "inventura_1772700000123.csv", FormatCSV.Filename(ts))
	assert.Equal(t, "inventura_1772700000123.xlsx", FormatXLSX.Filename(ts))
	assert.Contains(t, FormatCSV.ContentType(), "text/csv")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\ufeff"), "missing BOM")

	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, "\ufeff"), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "Uporabnik,Username,Seja,Status,Ustvarjena,Zaključena,SKU,Količina,Skenirano", lines[0])
	assert.Equal(t,
		`"Bob","bob","Polica ""A""","completed","2026-03-05 09:07:00","2026-03-05 10:07:00","ABC123",3,"2026-03-05 09:08:00"`,
		lines[1])
	assert.Equal(t,
		`"Bob","bob","Druga, seja","active","2026-03-05 09:07:00","","XYZ",1,"2026-03-05 09:07:00"`,
		lines[2])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "\ufeff"+csvHeader, buf.String())
}

func TestWriteXLSX(t *testing.T) {
	summaries := []model.UserSummary{
		{DisplayName: "Ana", Sessions: 0, Items: 0, Quantity: 0},
		{DisplayName: "Bob", Sessions: 2, Items: 2, Quantity: 4},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRows(), summaries))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DetailSheet, SummarySheet}, f.GetSheetList())

	detail, err := f.GetRows(DetailSheet)
	require.NoError(t, err)
	require.Len(t, detail, 3)
	assert.Equal(t, "Seja zaključena", detail[0][5])
	assert.Equal(t, []string{"Bob", "bob", `Polica "A"`, "completed", "2026-03-05 09:07:00", "2026-03-05 10:07:00", "ABC123", "3", "2026-03-05 09:08:00"}, detail[1])
	assert.Equal(t, "XYZ", detail[2][6])

	qty, err := f.GetCellValue(DetailSheet, "H2")
	require.NoError(t, err)
	assert.Equal(t, "3", qty)

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, []string{"Uporabnik", "Število sej", "Skupaj artiklov", "Skupaj količina"}, summary[0])
	assert.Equal(t, []string{"Bob", "2", "2", "4"}, summary[2])

	width, err := f.GetColWidth(DetailSheet, "C")
	require.NoError(t, err)
	assert.Equal(t, 25.0, width)

	styleID, err := f.GetCellStyle(SummarySheet, "D1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}
