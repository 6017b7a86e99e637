package schema

// Detect returns the first registered vendor whose required columns are all
// present in headers. The second result is false when no vendor matches.
func Detect(headers []string) (Vendor, bool) {
	have := Index(headers)
	for _, v := range Vendors {
		if covers(have, v.Required) {
			return v, true
		}
	}
	return Vendor{}, false
}

func covers(have map[string]int, required []string) bool {
	for _, r := range required {
		if _, ok := have[Normalize(r)]; !ok {
			return false
		}
	}
	return true
}
