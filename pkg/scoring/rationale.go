package scoring

import (
	"sort"
	"strings"
)

// rationale categorizes a channel's adjusted rate relative to the others.
// Presentation only, no correctness contract on the wording.
func rationale(i int, adjusted []float64, boosted, floored bool) string {
	var s string
	switch {
	case len(adjusted) == 1:
		s = "only channel"
	case isHighest(i, adjusted):
		s = "highest conversion rate"
	case isLowest(i, adjusted):
		s = "lowest conversion rate"
	case adjusted[i] >= median(adjusted):
		s = "above median conversion rate"
	default:
		s = "below median conversion rate"
	}

	notes := []string{s}
	if boosted {
		notes = append(notes, "boost applied")
	}
	if floored {
		notes = append(notes, "raised to minimum weight")
	}
	return strings.Join(notes, "; ")
}

// isHighest reports whether i holds the strictly first highest adjusted
// rate, so a tie at the top labels only the earliest channel.
func isHighest(i int, adjusted []float64) bool {
	for j, v := range adjusted {
		if v > adjusted[i] {
			return false
		}
		if v == adjusted[i] && j < i {
			return false
		}
	}
	return true
}

func isLowest(i int, adjusted []float64) bool {
	for j, v := range adjusted {
		if v < adjusted[i] {
			return false
		}
		if v == adjusted[i] && j < i {
			return false
		}
	}
	return true
}

func median(vals []float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
