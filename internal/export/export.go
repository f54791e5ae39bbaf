// Package export renders scanned items as CSV or as an XLSX workbook.
package export

import (
	"fmt"
	"strings"
	"time"
)

// Format is an export file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// TimeLayout is used for every timestamp cell.
const TimeLayout = "2006-01-02 15:04:05"

// ParseFormat maps a query value to a Format. An empty value means XLSX.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatXLSX):
		return FormatXLSX, nil
	case string(FormatCSV):
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Filename returns the attachment name for an export generated at t.
func (f Format) Filename(t time.Time) string {
	return fmt.Sprintf("inventura_%d.%s", t.UnixMilli(), f)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
