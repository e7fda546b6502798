package cli

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns up to limit candidates close to input, nearest first.
// Candidates further than a third of their length away are dropped.
func Suggest(input string, candidates []string, limit int) []string {
	type scored struct {
		value string
		dist  int
	}

	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" || limit <= 0 {
		return nil
	}

	var matches []scored
	for _, c := range candidates {
		hay := strings.ToLower(c)
		dist := levenshtein.ComputeDistance(needle, hay)
		if strings.HasPrefix(hay, needle) {
			dist = 0
		}
		if dist > max(len(hay)/3, 1) {
			continue
		}
		matches = append(matches, scored{value: c, dist: dist})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].dist < matches[j].dist
	})

	out := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches[:min(limit, len(matches))] {
		out = append(out, m.value)
	}
	return out
}
