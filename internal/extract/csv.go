package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSV renders tabular data as a markdown table, first row as the header.
func CSV(r io.Reader) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	var buf strings.Builder
	writeRow := func(cells []string) {
		buf.WriteString("|")
		for _, cell := range cells {
			buf.WriteString(" " + strings.ReplaceAll(cell, "|", "\\|") + " |")
		}
		buf.WriteString("\n")
	}

	writeRow(records[0])
	buf.WriteString("|")
	for range records[0] {
		buf.WriteString(" --- |")
	}
	buf.WriteString("\n")
	for _, row := range records[1:] {
		writeRow(row)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
