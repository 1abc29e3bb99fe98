package food

import "strings"

// SelectBestMatch 從外部候選中挑出單一最佳結果，沒有候選時回傳 false
func SelectBestMatch(query string, candidates []RawExternalFood) (RawExternalFood, bool) {
	if len(candidates) == 0 {
		return RawExternalFood{}, false
	}

	q := strings.ToLower(strings.TrimSpace(query))
	descs := make([]string, len(candidates))
	for i, c := range candidates {
		descs[i] = strings.ToLower(strings.TrimSpace(c.Description))
	}

	cascade := []func(d string) bool{
		func(d string) bool { return d == q },
		func(d string) bool { return d == q+", raw" || d == q+", fresh" },
		func(d string) bool { return strings.HasPrefix(d, q+",") && strings.Contains(d, "raw") },
		func(d string) bool { return strings.HasPrefix(d, q+",") && strings.Contains(d, "fresh") },
		func(d string) bool { return strings.HasPrefix(d, q+",") },
		func(d string) bool { return strings.HasPrefix(d, q+" ") },
		func(d string) bool { return strings.HasPrefix(d, q) },
	}

	for _, matches := range cascade {
		for i, d := range descs {
			if matches(d) {
				return candidates[i], true
			}
		}
	}
	return candidates[0], true
}
