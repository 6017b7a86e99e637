package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"vetremind/internal/dates"
	"vetremind/internal/model"
)

type jsonExport struct {
	RunID       string         `json:"run_id,omitempty"`
	ExportedAt  string         `json:"exported_at"`
	WindowStart string         `json:"window_start"`
	WindowEnd   string         `json:"window_end"`
	Count       int            `json:"count"`
	Reminders   []jsonReminder `json:"reminders"`
}

type jsonReminder struct {
	DueDate      string   `json:"due_date"`
	ChargeDate   string   `json:"charge_date"`
	ClientName   string   `json:"client_name"`
	Animals      []string `json:"animals"`
	AnimalName   string   `json:"animal_name"`
	PlanItem     string   `json:"plan_item"`
	Quantity     int      `json:"qty"`
	IntervalDays []int    `json:"interval_days"`
	Message      string   `json:"message,omitempty"`
}

// Meta describes the run a JSON export belongs to.
type Meta struct {
	RunID string
	Start time.Time
	End   time.Time
	Now   time.Time
}

// WriteJSON writes reminders and run metadata to w as an indented document.
func WriteJSON(w io.Writer, meta Meta, reminders []model.Reminder) error {
	now := meta.Now
	if now.IsZero() {
		now = time.Now()
	}
	export := jsonExport{
		RunID:       meta.RunID,
		ExportedAt:  now.UTC().Format(time.RFC3339),
		WindowStart: dates.Format(meta.Start),
		WindowEnd:   dates.Format(meta.End),
		Count:       len(reminders),
		Reminders:   make([]jsonReminder, 0, len(reminders)),
	}

	for _, r := range reminders {
		export.Reminders = append(export.Reminders, jsonReminder{
			DueDate:      r.DueDate,
			ChargeDate:   r.ChargeDate,
			ClientName:   r.ClientName,
			Animals:      r.Animals,
			AnimalName:   r.AnimalName,
			PlanItem:     r.ItemLabel,
			Quantity:     r.Quantity,
			IntervalDays: r.IntervalDays,
			Message:      r.Message,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// ToJSON writes a JSON export to a file at path.
func ToJSON(meta Meta, reminders []model.Reminder, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	if err := WriteJSON(f, meta, reminders); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
