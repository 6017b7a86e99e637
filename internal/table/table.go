// Package table reads practice-management exports (CSV and Excel workbooks)
// into a header row plus records.
package table

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ErrUnsupportedFileType is returned for files whose extension is not readable.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// Extensions lists the accepted file extensions.
var Extensions = []string{".csv", ".xls", ".xlsx"}

// Cell is a single table value. Spreadsheet cells formatted as dates carry Time.
type Cell struct {
	Text string
	Time time.Time
}

// IsTime reports whether the cell holds a native date.
func (c Cell) IsTime() bool {
	return !c.Time.IsZero()
}

// Table is the first sheet (or the whole CSV) of an export.
type Table struct {
	Headers []string
	Rows    [][]Cell
}

// Column returns the cells at position i, padding short rows with empty cells.
func (t Table) Column(i int) []Cell {
	out := make([]Cell, len(t.Rows))
	for r, row := range t.Rows {
		if i >= 0 && i < len(row) {
			out[r] = row[i]
		}
	}
	return out
}

// Supported reports whether name has an accepted extension.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Read parses data according to the extension of name.
func Read(name string, data []byte) (Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return ReadCSV(bytes.NewReader(data))
	case ".xlsx":
		return ReadXLSX(bytes.NewReader(data))
	case ".xls":
		return ReadXLS(data)
	default:
		return Table{}, fmt.Errorf("%s: %w", name, ErrUnsupportedFileType)
	}
}

func fromRecords(records [][]Cell) (Table, error) {
	if len(records) == 0 {
		return Table{}, errors.New("file is empty")
	}
	header := records[0]
	headers := make([]string, len(header))
	for i, c := range header {
		headers[i] = c.Text
	}

	var rows [][]Cell
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		if len(rec) < len(headers) {
			padded := make([]Cell, len(headers))
			copy(padded, rec)
			rec = padded
		}
		rows = append(rows, rec)
	}
	return Table{Headers: headers, Rows: rows}, nil
}

func blank(rec []Cell) bool {
	for _, c := range rec {
		if c.IsTime() || strings.TrimSpace(c.Text) != "" {
			return false
		}
	}
	return true
}

func textCells(rec []string) []Cell {
	out := make([]Cell, len(rec))
	for i, s := range rec {
		out[i] = Cell{Text: s}
	}
	return out
}
