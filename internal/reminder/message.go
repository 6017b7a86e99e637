package reminder

import (
	"fmt"
	"strconv"
	"strings"

	"vetremind/internal/dates"
	"vetremind/internal/model"
)

const (
	anonymousIntro = "this is a reminder letting you know that"
	closing        = "Get in touch with us any time, and we look forward to hearing from you soon!"
)

// Message renders the outbound text for r. userName, when set, introduces the sender.
func Message(r model.Reminder, userName string) string {
	first := "there"
	if f := strings.Fields(r.ClientName); len(f) > 0 {
		first = f[0]
	}

	animal := strings.TrimSpace(r.AnimalName)
	if animal == "" {
		animal = "your pet"
	}
	verb := "is"
	if strings.Contains(animal, ",") || strings.Contains(animal, " and ") {
		verb = "are"
	}

	intro := anonymousIntro
	if name := strings.TrimSpace(userName); name != "" {
		intro = "this is " + name + " reminding you that"
	}

	return fmt.Sprintf("Hi %s, %s %s %s due for their %s %s. %s",
		first, intro, animal, verb, r.ItemLabel, DuePhrase(r.DueDate), closing)
}

// DuePhrase turns a formatted due date such as "12 Jan 2025" into
// "on the 12th of January, 2025". Unparseable input is returned as "on <raw>".
func DuePhrase(raw string) string {
	t, err := dates.Parse(dates.DisplayFormat, raw)
	if err != nil {
		return "on " + raw
	}
	return fmt.Sprintf("on the %s of %s, %d", Ordinal(t.Day()), t.Month(), t.Year())
}

// Ordinal returns day with its English ordinal suffix.
func Ordinal(day int) string {
	suffix := "th"
	switch day % 100 {
	case 11, 12, 13:
	default:
		switch day % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(day) + suffix
}

// Render fills the Message of every reminder.
func Render(reminders []model.Reminder, userName string) {
	for i := range reminders {
		reminders[i].Message = Message(reminders[i], userName)
	}
}
