package schema

import "strings"

var invisibles = strings.NewReplacer("\u00a0", " ", "\ufeff", "")

// Normalize canonicalizes a column label for comparison.
func Normalize(h string) string {
	h = invisibles.Replace(h)
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

// NormalizeAll normalizes every label in headers.
func NormalizeAll(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = Normalize(h)
	}
	return out
}

// Index maps normalized labels to their first column position.
func Index(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range NormalizeAll(headers) {
		if _, ok := idx[h]; !ok {
			idx[h] = i
		}
	}
	return idx
}
