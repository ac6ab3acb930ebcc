package domain

// MergeParameters applies the section-wise merge rule to the parameter
// document: each non-empty section in src replaces the same-named section
// in dst wholesale. Empty sections are skipped, so a failed or vacuous
// extraction can never erase previously confirmed data. There is no deep
// merge across sections.
func MergeParameters(dst, src map[string]any) {
	for section, value := range src {
		if sectionEmpty(value) {
			continue
		}
		dst[section] = value
	}
}

// sectionEmpty reports whether a section value carries no data.
func sectionEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	case []map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
