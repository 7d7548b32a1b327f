package model

// DisplayTag returns the tag with an @ prefix, the way quick add spells it.
func DisplayTag(tag string) string {
	if len(tag) > 0 && tag[0] == '@' {
		return tag
	}
	return "@" + tag
}

// NormalizeTags drops empty strings and duplicates, keeping the first
// occurrence of each tag.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// MergeTags appends the tags not yet in universe, in order. The universe only
// grows. When nothing is new, universe itself is returned so callers can
// detect the no-op by identity.
func MergeTags(universe, tags []string) []string {
	seen := make(map[string]bool, len(universe))
	for _, tag := range universe {
		seen[tag] = true
	}

	var fresh []string
	for _, tag := range tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		fresh = append(fresh, tag)
	}
	if len(fresh) == 0 {
		return universe
	}

	merged := make([]string, 0, len(universe)+len(fresh))
	merged = append(merged, universe...)
	return append(merged, fresh...)
}
