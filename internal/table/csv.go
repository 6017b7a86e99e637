package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadCSV reads a comma-separated export. A leading byte-order mark is dropped.
func ReadCSV(r io.Reader) (Table, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(r, decoder))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]Cell
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read csv: %w", err)
		}
		records = append(records, textCells(rec))
	}
	return fromRecords(records)
}
