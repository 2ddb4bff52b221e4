package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Table is a rectangular table addressed by header name. It only exists
// between fetch and schema resolution.
type Table struct {
	Name     string
	Header   []string
	Rows     [][]string
	Warnings []Warning // raised by the source while reading
}

// Column returns the index of the header equal to name after trimming, or -1.
func (t *Table) Column(name string) int {
	name = strings.TrimSpace(name)
	for i, h := range t.Header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// Cell returns row[i] trimmed, or "" when the row is short or i < 0.
func (t *Table) Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ParseCSV reads a table whose first record is the header. Fully blank rows
// are dropped; ragged rows are allowed.
func ParseCSV(name string, data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("table %s: no header row", name)
	}
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", name, err)
	}

	t := &Table{Name: name, Header: header}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", name, err)
		}
		if isBlank(rec) {
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
