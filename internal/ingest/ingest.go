// Package ingest turns a vendor table into canonical invoice rows.
package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"

	"vetremind/internal/dates"
	"vetremind/internal/model"
	"vetremind/internal/schema"
	"vetremind/internal/table"
)

// VETportDateFormat is the layout VETport uses for Planitem Performed.
const VETportDateFormat = "%d/%b/%Y %H:%M %S"

// Stats describes what staging did with a table.
type Stats struct {
	Rows    int
	Dropped int
	Dated   int
	First   time.Time
	Last    time.Time
}

// Stage maps tbl to canonical rows using the field map of v. Rows without a
// client name are dropped.
func Stage(tbl table.Table, v schema.Vendor) ([]model.Row, Stats) {
	idx := schema.Index(tbl.Headers)
	col := func(label string) int {
		if label == "" {
			return -1
		}
		if i, ok := idx[schema.Normalize(label)]; ok {
			return i
		}
		return -1
	}

	f := v.Fields
	var (
		dateCol   = col(f.Date)
		clientCol = col(f.Client)
		firstCol  = col(f.ClientFirst)
		lastCol   = col(f.ClientLast)
		animalCol = col(f.Animal)
		itemCol   = col(f.Item)
		qtyCol    = col(f.Qty)
	)

	performed := parseDates(tbl.Column(dateCol), v.Name)

	stats := Stats{Rows: len(tbl.Rows)}
	rows := make([]model.Row, 0, len(tbl.Rows))
	for i, rec := range tbl.Rows {
		var client string
		if f.SplitClient() {
			client = JoinName(text(rec, firstCol), text(rec, lastCol))
		} else {
			client = strings.TrimSpace(text(rec, clientCol))
		}
		if client == "" {
			stats.Dropped++
			continue
		}

		r := model.Row{
			PerformedAt: performed[i],
			ClientName:  client,
			AnimalName:  strings.TrimSpace(text(rec, animalCol)),
			ItemName:    strings.TrimSpace(text(rec, itemCol)),
			Quantity:    Quantity(text(rec, qtyCol)),
		}
		r.ClientLC = strings.ToLower(r.ClientName)
		r.AnimalLC = strings.ToLower(r.AnimalName)
		r.ItemLC = strings.ToLower(r.ItemName)

		if !r.PerformedAt.IsZero() {
			stats.Dated++
			if stats.First.IsZero() || r.PerformedAt.Before(stats.First) {
				stats.First = r.PerformedAt
			}
			if r.PerformedAt.After(stats.Last) {
				stats.Last = r.PerformedAt
			}
		}
		rows = append(rows, r)
	}
	return rows, stats
}

// JoinName joins first and last name with a single space.
func JoinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// Quantity parses a quantity cell. Fractions are truncated; missing,
// non-numeric and non-positive values count as 1.
func Quantity(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 1
	}
	if f < 1 || f > math.MaxInt32 {
		return 1
	}
	return int(f)
}

func parseDates(cells []table.Cell, vendor string) []time.Time {
	values := make([]dates.Value, len(cells))
	for i, c := range cells {
		values[i] = dates.Value{Text: c.Text, Time: c.Time, Native: c.IsTime()}
	}
	if vendor == schema.VETport {
		// Rows that do not fit the fixed layout fall through to the generic parser.
		if fixed, err := dates.ParseFixed(VETportDateFormat, values); err == nil {
			values = fixed
		}
	}
	return dates.ParseColumn(values)
}

func text(rec []table.Cell, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i].Text
}
