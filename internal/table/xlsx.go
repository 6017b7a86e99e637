package table

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads the first sheet of an Office Open XML workbook. Numeric cells
// styled with a date number format are returned as native dates.
func ReadXLSX(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, errors.New("workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	styles := dateStyles{file: f, known: map[int]bool{}}
	records := make([][]Cell, len(rows))
	for r, row := range rows {
		cells := textCells(row)
		if r > 0 {
			for c, raw := range row {
				serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
				if err != nil {
					continue
				}
				axis, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil || !styles.isDate(sheet, axis) {
					continue
				}
				if t, err := excelize.ExcelDateToTime(serial, date1904); err == nil {
					cells[c].Time = t
				}
			}
		}
		records[r] = cells
	}
	return fromRecords(records)
}

// dateStyles caches whether a cell style renders numbers as dates.
type dateStyles struct {
	file  *excelize.File
	known map[int]bool
}

func (d dateStyles) isDate(sheet, axis string) bool {
	id, err := d.file.GetCellStyle(sheet, axis)
	if err != nil {
		return false
	}
	if v, ok := d.known[id]; ok {
		return v
	}
	v := false
	if style, err := d.file.GetStyle(id); err == nil && style != nil {
		v = dateNumFmt(style.NumFmt, style.CustomNumFmt)
	}
	d.known[id] = v
	return v
}

func dateNumFmt(id int, custom *string) bool {
	if (id >= 14 && id <= 22) || (id >= 45 && id <= 47) {
		return true
	}
	if custom == nil {
		return false
	}
	code := strings.ToLower(stripLiterals(*custom))
	return strings.ContainsAny(code, "dy") || strings.Contains(code, "mmm")
}

// stripLiterals removes quoted text and bracketed sections such as colours
// and locale tags from a number format code.
func stripLiterals(code string) string {
	var b strings.Builder
	depth, quoted := 0, false
	for _, r := range code {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			depth++
		case r == ']' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
