package table

import (
	"fmt"
	"os"

	"github.com/shakinm/xlsReader/xls"
)

// ReadXLS reads the first sheet of a legacy BIFF workbook. The reader needs a
// file on disk, so data is spooled to a temporary file first.
func ReadXLS(data []byte) (Table, error) {
	tmp, err := os.CreateTemp("", "export-*.xls")
	if err != nil {
		return Table{}, fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return Table{}, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Table{}, fmt.Errorf("close temp file: %w", err)
	}

	workbook, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return Table{}, fmt.Errorf("open xls: %w", err)
	}
	if workbook.GetNumberSheets() == 0 {
		return Table{}, fmt.Errorf("workbook has no sheets")
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return Table{}, fmt.Errorf("read first sheet: %w", err)
	}
	if sheet == nil {
		return Table{}, fmt.Errorf("workbook has no sheets")
	}

	var records [][]Cell
	for i := 0; i < int(sheet.GetNumberRows()); i++ {
		row, err := sheet.GetRow(i)
		if err != nil || row == nil {
			continue
		}
		var cells []Cell
		for _, col := range row.GetCols() {
			if col == nil {
				cells = append(cells, Cell{})
				continue
			}
			cells = append(cells, Cell{Text: col.GetString()})
		}
		records = append(records, cells)
	}
	return fromRecords(records)
}
