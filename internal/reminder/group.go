package reminder

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"vetremind/internal/dates"
	"vetremind/internal/model"
	"vetremind/internal/rules"
)

// WindowDays is the length of the reminder window, start day included.
const WindowDays = 7

// Window returns the first and last day of the reminder window beginning at start.
func Window(start time.Time) (time.Time, time.Time) {
	from := dates.Day(start)
	return from, from.AddDate(0, 0, WindowDays-1)
}

// InWindow reports whether due falls within the window beginning at start.
func InWindow(due, start time.Time) bool {
	if due.IsZero() {
		return false
	}
	from, to := Window(start)
	d := dates.Day(due)
	return !d.Before(from) && !d.After(to)
}

type groupKey struct {
	due    string
	client string
}

// Group selects projected rows due within the window beginning at start and
// folds them into one reminder per due date and client. Groups whose item
// label contains an exclusion term are dropped. The result is ordered by due
// date, then client name.
func Group(rows []model.Row, start time.Time, exclusions []string) []model.Reminder {
	groups := make(map[groupKey]*model.Reminder)
	var order []groupKey

	for _, r := range rows {
		if !InWindow(r.DueAt, start) {
			continue
		}
		k := groupKey{due: r.DueDate, client: r.ClientName}
		g, ok := groups[k]
		if !ok {
			g = &model.Reminder{DueAt: dates.Day(r.DueAt), DueDate: r.DueDate, ClientName: r.ClientName}
			groups[k] = g
			order = append(order, k)
		}
		if r.PerformedAt.After(g.LastPerformedAt) {
			g.LastPerformedAt = r.PerformedAt
		}
		if r.AnimalName != "" {
			g.Animals = append(g.Animals, r.AnimalName)
		}
		if r.Label != "" {
			g.Labels = append(g.Labels, r.Label)
		}
		g.Quantity += r.Quantity
		g.IntervalDays = append(g.IntervalDays, r.IntervalDays)
	}

	terms := normalizeTerms(exclusions)
	out := make([]model.Reminder, 0, len(order))
	for _, k := range order {
		g := groups[k]
		finish(g)
		if Excluded(g.ItemLabel, terms) {
			continue
		}
		out = append(out, *g)
	}

	slices.SortStableFunc(out, func(a, b model.Reminder) int {
		if c := a.DueAt.Compare(b.DueAt); c != 0 {
			return c
		}
		return strings.Compare(a.ClientName, b.ClientName)
	})
	return out
}

func finish(g *model.Reminder) {
	g.ChargeDate = dates.Format(g.LastPerformedAt)

	g.Animals = sortedUnique(g.Animals)
	g.AnimalName = rules.JoinList(g.Animals)

	g.Labels = sortedUnique(g.Labels)
	g.ItemLabel = rules.SimplifyVaccines(rules.JoinList(g.Labels), rules.GroupVaccineThreshold)

	slices.Sort(g.IntervalDays)
	g.IntervalDays = slices.Compact(g.IntervalDays)
	days := make([]string, len(g.IntervalDays))
	for i, d := range g.IntervalDays {
		days[i] = strconv.Itoa(d)
	}
	g.Days = strings.Join(days, ", ")
}

// Excluded reports whether label contains any of the lower-case terms.
func Excluded(label string, terms []string) bool {
	l := strings.ToLower(label)
	for _, t := range terms {
		if strings.Contains(l, t) {
			return true
		}
	}
	return false
}

func normalizeTerms(exclusions []string) []string {
	var out []string
	for _, e := range exclusions {
		if t := strings.ToLower(strings.TrimSpace(e)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func sortedUnique(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := slices.Clone(items)
	slices.Sort(out)
	return slices.Compact(out)
}
