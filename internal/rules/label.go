package rules

import (
	"regexp"
	"strings"
)

// Vaccine simplification thresholds: a single line item is simplified when it
// names "vaccine" twice, a grouped label when it lists three vaccines.
const (
	RowVaccineThreshold   = 2
	GroupVaccineThreshold = 3
)

var (
	vaccineWord     = regexp.MustCompile(`(?i)\bvaccine`)
	trailingVaccine = regexp.MustCompile(`(?i)\s*\bvaccine\S*\s*$`)
	listSeparator   = regexp.MustCompile(`\s*,\s*|\s+and\s+`)
)

// SimplifyVaccines folds "A Vaccine, B Vaccine and C Vaccine" into
// "A, B and C Vaccines" when text mentions vaccine at least min times.
func SimplifyVaccines(text string, min int) string {
	if len(vaccineWord.FindAllStringIndex(text, -1)) < min {
		return text
	}

	var parts []string
	for _, frag := range listSeparator.Split(text, -1) {
		frag = strings.TrimSpace(trailingVaccine.ReplaceAllString(frag, ""))
		if frag != "" {
			parts = append(parts, frag)
		}
	}
	if len(parts) == 0 {
		return text
	}
	return JoinList(parts) + " Vaccines"
}

// JoinList joins items as "A", "A and B" or "A, B and C".
func JoinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
