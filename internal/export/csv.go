// Package export writes reminder lists as CSV or JSON.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"vetremind/internal/model"
)

// Columns is the CSV header row.
var Columns = []string{"Due Date", "Charge Date", "Client Name", "Animal Name", "Plan Item", "Qty", "Days", "Message"}

// WriteCSV writes reminders to w with a header row.
func WriteCSV(w io.Writer, reminders []model.Reminder) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range reminders {
		row := []string{
			r.DueDate,
			r.ChargeDate,
			r.ClientName,
			r.AnimalName,
			r.ItemLabel,
			strconv.Itoa(r.Quantity),
			r.Days,
			r.Message,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ToCSV writes reminders to a CSV file at path.
func ToCSV(reminders []model.Reminder, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	if err := WriteCSV(f, reminders); err != nil {
		_ = f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}
