package timezones

import (
	"sort"
	"strings"
)

// Search returns up to limit zones containing query, case-insensitively.
// Prefix matches sort first. An empty query matches nothing; a limit below
// one returns nil.
func Search(zones []string, query string, limit int) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if limit < 1 || query == "" {
		return nil
	}

	type matchedZone struct {
		name     string
		isPrefix bool
	}
	matches := make([]matchedZone, 0, 16)
	for _, zone := range zones {
		lowerZone := strings.ToLower(zone)
		if !strings.Contains(lowerZone, query) {
			continue
		}
		matches = append(matches, matchedZone{name: zone, isPrefix: strings.HasPrefix(lowerZone, query)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].name < matches[j].name
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.name)
	}
	return out
}
