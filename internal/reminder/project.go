// Package reminder projects due dates for invoice rows, selects those due in
// the reminder window and renders client messages for them.
package reminder

import (
	"time"

	"vetremind/internal/dates"
	"vetremind/internal/model"
)

// Project fills the due date and formatted dates of every row. Rows without
// a performed date or interval stay undated.
func Project(rows []model.Row) {
	for i := range rows {
		r := &rows[i]
		r.ChargeDate = dates.Format(r.PerformedAt)
		r.DueAt = Due(r.PerformedAt, r.IntervalDays)
		r.DueDate = dates.Format(r.DueAt)
	}
}

// Due returns performed plus days, or the zero time when either is unknown.
func Due(performed time.Time, days int) time.Time {
	if performed.IsZero() || days < 1 {
		return time.Time{}
	}
	return dates.Day(performed).AddDate(0, 0, days)
}
