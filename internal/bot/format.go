package bot

import (
	"fmt"
	"slices"
	"strings"

	"vetremind/internal/dates"
	"vetremind/internal/model"
	"vetremind/internal/pipeline"
)

// FormatRules lists rules sorted by key.
func FormatRules(rules map[string]model.Rule) string {
	if len(rules) == 0 {
		return "No rules. Use /setrule to add one or /resetrules to restore the defaults."
	}
	keys := make([]string, 0, len(rules))
	for k := range rules {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "Rules (%d):\n", len(rules))
	for _, k := range keys {
		r := rules[k]
		per := ""
		if r.UseQty {
			per = " per unit"
		}
		label := r.VisibleText
		if label == "" {
			label = "(item name)"
		}
		fmt.Fprintf(&b, "\n%s: %d days%s -> %s", k, r.Days, per, label)
	}
	return b.String()
}

// FormatExclusions lists exclusion terms.
func FormatExclusions(terms []string) string {
	if len(terms) == 0 {
		return "No exclusions. Use /exclude <term> to hide reminders whose plan item contains a term."
	}
	var b strings.Builder
	b.WriteString("Excluded terms:\n")
	for _, t := range terms {
		fmt.Fprintf(&b, "\n- %s", t)
	}
	return b.String()
}

// FormatReport summarizes a batch run, one paragraph per file.
func FormatReport(rep *pipeline.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Window: %s to %s\n", dates.Format(rep.Start), dates.Format(rep.End))
	for _, f := range rep.Files {
		b.WriteString("\n")
		b.WriteString(FormatFileSummary(f))
	}
	fmt.Fprintf(&b, "\n\n%s", reminderCount(len(rep.Reminders)))
	return b.String()
}

// FormatFileSummary describes the outcome for one file.
func FormatFileSummary(f pipeline.FileSummary) string {
	if f.Err != nil {
		return f.Err.Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s): %d rows, %d dated, %d matched", f.Name, f.Vendor, f.Rows, f.Dated, f.Matched)
	if f.Dropped > 0 {
		fmt.Fprintf(&b, ", %d without client", f.Dropped)
	}
	if !f.First.IsZero() {
		fmt.Fprintf(&b, "\nCharges from %s to %s", dates.Format(f.First), dates.Format(f.Last))
	}
	return b.String()
}

// FormatReminder renders a reminder preview.
func FormatReminder(r model.Reminder) string {
	animal := r.AnimalName
	if animal == "" {
		animal = "(no animal)"
	}
	return fmt.Sprintf("Due %s: %s\n%s: %s (qty %d, every %s days, last charged %s)\n\n%s",
		r.DueDate, r.ClientName, animal, r.ItemLabel, r.Quantity, r.Days, r.ChargeDate, r.Message)
}

// FormatFeedbackList renders feedback entries newest first.
func FormatFeedbackList(entries []model.Feedback) string {
	if len(entries) == 0 {
		return "No feedback yet."
	}
	var b strings.Builder
	for i, f := range entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		from := f.Name
		if f.Email != "" {
			from = strings.TrimSpace(from + " <" + f.Email + ">")
		}
		if from == "" {
			from = "anonymous"
		}
		fmt.Fprintf(&b, "#%d %s from %s\n%s", f.ID, f.CreatedAt.Format("2006-01-02 15:04 UTC"), from, f.Message)
	}
	return b.String()
}

func reminderCount(n int) string {
	switch n {
	case 0:
		return "No reminders due in this window."
	case 1:
		return "1 reminder due."
	default:
		return fmt.Sprintf("%d reminders due.", n)
	}
}
