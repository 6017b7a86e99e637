// Package rules implements the item-text matching engine that assigns
// recurrence intervals and display labels to invoice lines.
package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"vetremind/internal/model"
)

// Engine matches item text against a fixed rule set. Build a new Engine
// whenever the rule set changes.
type Engine struct {
	rules []compiled
}

type compiled struct {
	key  string
	rule model.Rule
	re   *regexp.Regexp
}

// Match is the rule chosen for an item.
type Match struct {
	Key  string
	Rule model.Rule
}

// New compiles rules ordered by key length, longest first. Keys of equal
// length are ordered alphabetically: map iteration has no order, and the
// same rule set must always pick the same rule for an item.
func New(rules map[string]model.Rule) *Engine {
	keys := make([]string, 0, len(rules))
	for k := range rules {
		if NormalizeKey(k) != "" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := NormalizeKey(keys[i]), NormalizeKey(keys[j])
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	e := &Engine{rules: make([]compiled, 0, len(keys))}
	for _, k := range keys {
		norm := NormalizeKey(k)
		e.rules = append(e.rules, compiled{key: norm, rule: rules[k], re: wholeWord(norm)})
	}
	return e
}

// NormalizeKey lower-cases and trims a rule key.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// ValidateRule checks that a rule can be stored under key.
func ValidateRule(key string, r model.Rule) error {
	if NormalizeKey(key) == "" {
		return fmt.Errorf("rule key is required")
	}
	if r.Days < 1 {
		return fmt.Errorf("rule %q: days must be positive, got %d", key, r.Days)
	}
	return nil
}

// wholeWord matches key when it is bounded by the text edges or by runes
// that are not letters, digits or underscores.
func wholeWord(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(key) + `(?:$|[^\p{L}\p{N}_])`)
}

// Match returns the longest rule key occurring as a whole word in text.
func (e *Engine) Match(text string) (Match, bool) {
	t := strings.ToLower(text)
	for _, c := range e.rules {
		if !strings.Contains(t, c.key) {
			continue
		}
		if c.re.MatchString(t) {
			return Match{Key: c.key, Rule: c.rule}, true
		}
	}
	return Match{}, false
}

// Interval returns the number of days until the item is due again, scaled by
// quantity for rules that use it. The second result is false when no rule matches.
func (e *Engine) Interval(item string, qty int) (int, bool) {
	m, ok := e.Match(item)
	if !ok {
		return 0, false
	}
	if qty < 1 {
		qty = 1
	}
	if m.Rule.UseQty {
		return m.Rule.Days * qty, true
	}
	return m.Rule.Days, true
}

// Label returns the text shown to clients for an item: the matching rule's
// visible text, or the item itself, with repeated vaccine names folded.
func (e *Engine) Label(item string) string {
	label := strings.TrimSpace(item)
	if m, ok := e.Match(item); ok && m.Rule.VisibleText != "" {
		label = m.Rule.VisibleText
	}
	return SimplifyVaccines(label, RowVaccineThreshold)
}

// Apply assigns interval and label to every row.
func (e *Engine) Apply(rows []model.Row) {
	for i := range rows {
		r := &rows[i]
		r.IntervalDays, _ = e.Interval(r.ItemName, r.Quantity)
		r.Label = e.Label(r.ItemName)
	}
}

// Len returns the number of rules in the engine.
func (e *Engine) Len() int {
	return len(e.rules)
}
