// Package dates resolves columns of mixed date representations found in
// practice-management exports into calendar dates.
package dates

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/ncruces/go-strftime"
)

// DisplayFormat is the strftime layout used for every rendered date.
const DisplayFormat = "%d %b %Y"

const (
	serialShare      = 0.6
	minPlausibleYear = 1990
	maxPlausibleYear = 2100
)

var (
	epoch1900 = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	epoch1904 = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)

	serialLike = regexp.MustCompile(`^\d+(\.0+)?$`)
	invisibles = strings.NewReplacer("\u00a0", " ", "\ufeff", "")

	// strftime emits zero-padded day and month fields; exports often omit the padding.
	unpadded = strings.NewReplacer("01", "1", "02", "2")
)

// TextFormats are tried in order; the first one that parses at least one
// value is used for the whole column.
var TextFormats = []string{
	"%d/%b/%Y",
	"%d-%b-%Y",
	"%d-%b-%y",
	"%d/%m/%Y",
	"%m/%d/%Y",
	"%Y-%m-%d",
	"%Y.%m.%d",
	"%d/%m/%Y %H:%M",
	"%d/%m/%Y %H:%M:%S",
	"%Y-%m-%d %H:%M:%S",
	"%Y-%m-%d %H:%M",
}

var textLayouts = mustLayouts(TextFormats)

// Value is a single cell of a date column. Native values already carry a time.
type Value struct {
	Text   string
	Time   time.Time
	Native bool
}

// Texts wraps raw cell strings as non-native values.
func Texts(cells []string) []Value {
	out := make([]Value, len(cells))
	for i, c := range cells {
		out[i] = Value{Text: c}
	}
	return out
}

// ParseColumn resolves every value to a date at UTC midnight. Unparseable
// values yield the zero time. Native values are used as-is; the remaining text
// values are parsed as one column.
func ParseColumn(values []Value) []time.Time {
	out := make([]time.Time, len(values))

	var (
		pending []int
		texts   []string
	)
	for i, v := range values {
		if v.Native {
			if !v.Time.IsZero() {
				out[i] = Day(v.Time)
			}
			continue
		}
		s := clean(v.Text)
		if s == "" {
			continue
		}
		pending = append(pending, i)
		texts = append(texts, s)
	}
	if len(texts) == 0 {
		return out
	}

	parsed := parseTexts(texts)
	for j, i := range pending {
		out[i] = parsed[j]
	}
	return out
}

// ParseFixed parses text values with a single strftime format. Values that
// parse become native; the rest are returned unchanged.
func ParseFixed(format string, values []Value) ([]Value, error) {
	layout, err := layoutFor(format)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = v
		if v.Native {
			continue
		}
		if t, err := time.Parse(layout, clean(v.Text)); err == nil {
			out[i] = Value{Text: v.Text, Time: t, Native: true}
		}
	}
	return out, nil
}

// Parse parses s with a strftime format.
func Parse(format, s string) (time.Time, error) {
	layout, err := layoutFor(format)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(layout, clean(s))
}

// Format renders t with DisplayFormat, or "" for the zero time.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strftime.Format(DisplayFormat, t)
}

// Day drops the time of day, keeping the calendar date in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseTexts(texts []string) []time.Time {
	if shareSerial(texts) >= serialShare {
		return parseSerials(texts)
	}
	for _, layout := range textLayouts {
		if out, n := parseLayout(layout, texts); n > 0 {
			return out
		}
	}
	if out, n := parseLenient(texts, false); n > 0 {
		return out
	}
	out, _ := parseLenient(texts, true)
	return out
}

func shareSerial(texts []string) float64 {
	n := 0
	for _, s := range texts {
		if serialLike.MatchString(s) {
			n++
		}
	}
	return float64(n) / float64(len(texts))
}

func parseSerials(texts []string) []time.Time {
	days := make([]float64, len(texts))
	valid := make([]bool, len(texts))
	for i, s := range texts {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		days[i], valid[i] = f, true
	}

	from1900 := fromEpoch(epoch1900, days, valid)
	from1904 := fromEpoch(epoch1904, days, valid)
	if plausible(from1904) > plausible(from1900) {
		return from1904
	}
	return from1900
}

func fromEpoch(epoch time.Time, days []float64, valid []bool) []time.Time {
	out := make([]time.Time, len(days))
	for i, d := range days {
		if !valid[i] {
			continue
		}
		out[i] = epoch.AddDate(0, 0, int(math.Floor(d)))
	}
	return out
}

func plausible(ts []time.Time) int {
	n := 0
	for _, t := range ts {
		if t.IsZero() {
			continue
		}
		if y := t.Year(); y >= minPlausibleYear && y <= maxPlausibleYear {
			n++
		}
	}
	return n
}

func parseLayout(layout string, texts []string) ([]time.Time, int) {
	out := make([]time.Time, len(texts))
	n := 0
	for i, s := range texts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		out[i] = Day(t)
		n++
	}
	return out, n
}

func parseLenient(texts []string, monthFirst bool) ([]time.Time, int) {
	out := make([]time.Time, len(texts))
	n := 0
	for i, s := range texts {
		t, err := dateparse.ParseAny(s, dateparse.PreferMonthFirst(monthFirst))
		if err != nil {
			continue
		}
		out[i] = Day(t)
		n++
	}
	return out, n
}

func layoutFor(format string) (string, error) {
	layout, err := strftime.Layout(format)
	if err != nil {
		return "", fmt.Errorf("strftime layout %q: %w", format, err)
	}
	return unpadded.Replace(layout), nil
}

func mustLayouts(formats []string) []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		l, err := layoutFor(f)
		if err != nil {
			panic(err)
		}
		out[i] = l
	}
	return out
}

func clean(s string) string {
	return strings.TrimSpace(invisibles.Replace(s))
}
