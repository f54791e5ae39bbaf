package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/erazemk/inventura/internal/model"
)

const (
	utf8BOM   = "\ufeff"
	csvHeader = "Uporabnik,Username,Seja,Status,Ustvarjena,Zaključena,SKU,Količina,Skenirano\n"
)

// WriteCSV writes rows as CSV with a UTF-8 BOM so spreadsheet programs pick
// the right encoding. Every text field is quoted; quantity is a bare number.
func WriteCSV(w io.Writer, rows []model.ExportRow) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(utf8BOM)
	bw.WriteString(csvHeader)

	for _, r := range rows {
		fields := []string{
			quote(r.DisplayName),
			quote(r.Username),
			quote(r.SessionName),
			quote(r.SessionStatus),
			quote(formatTime(r.SessionCreatedAt)),
			quote(formatOptionalTime(r.SessionCompletedAt)),
			quote(r.SKU),
			strconv.Itoa(r.Quantity),
			quote(formatTime(r.ScannedAt)),
		}
		bw.WriteString(strings.Join(fields, ","))
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
