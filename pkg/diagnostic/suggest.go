package diagnostic

import (
	"math"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the candidate closest to name by edit distance, or "" when
// even the closest one is too different. A candidate qualifies only when its
// distance is below min(len(name)*1.1, len(shortest candidate)*3).
func Suggest(name string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	threshold := float64(len(name)) * 1.1
	for _, c := range candidates {
		threshold = math.Min(threshold, float64(len(c))*3)
	}

	best := ""
	for _, c := range candidates {
		dist := float64(levenshtein.ComputeDistance(name, c))
		if dist < threshold {
			threshold = dist
			best = c
		}
	}
	return best
}
