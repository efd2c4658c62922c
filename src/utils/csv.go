package utils

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

// NormalizeHeader lowercases a column name and turns spaces and hyphens into
// underscores, so "Purchase Date" and "purchase-date" both read as
// purchase_date.
func NormalizeHeader(name string) string {
	name = strings.TrimPrefix(name, utf8BOM)
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(name)
}

// ReadCSVRecords reads a CSV document whose first row names the columns and
// returns one map per data row keyed by normalized column name. Rows with
// fewer cells than the header leave the missing columns empty.
func ReadCSVRecords(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read the header: %w", err)
	}
	for i := range header {
		header[i] = NormalizeHeader(header[i])
	}

	records := []map[string]string{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(records)+1, err)
		}
		if isBlank(row) {
			continue
		}

		record := make(map[string]string, len(header))
		for i, column := range header {
			if column == "" {
				continue
			}
			if i < len(row) {
				record[column] = strings.TrimSpace(row[i])
			} else {
				record[column] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// WriteQuotedCSV writes the header row bare and every data field inside
// double quotes with embedded quotes doubled. Lines end in CRLF.
func WriteQuotedCSV(w io.Writer, header []string, rows [][]string) error {
	buf := bufio.NewWriter(w)
	if _, err := buf.WriteString(strings.Join(header, ",") + "\r\n"); err != nil {
		return err
	}
	for _, row := range rows {
		quoted := make([]string, len(row))
		for i, field := range row {
			quoted[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
		}
		if _, err := buf.WriteString(strings.Join(quoted, ",") + "\r\n"); err != nil {
			return err
		}
	}
	return buf.Flush()
}
