package quiz

import (
	"math"
	"math/rand/v2"
	"slices"
)

// ChooseCategory draws a category with probability proportional to its
// weight. Weights need not sum to one. Categories with a non-positive
// weight are never drawn; with nothing to draw it returns "". A nil rng
// uses the global source.
func ChooseCategory(weights map[string]float64, rng *rand.Rand) string {
	var total float64
	keys := make([]string, 0, len(weights))
	for k, w := range weights {
		if w > 0 && !math.IsInf(w, 0) {
			keys = append(keys, k)
			total += w
		}
	}
	if len(keys) == 0 {
		return ""
	}
	// Map iteration order is random; sort so a seeded rng is repeatable.
	slices.Sort(keys)

	var r float64
	if rng != nil {
		r = rng.Float64()
	} else {
		r = rand.Float64()
	}
	r *= total

	for _, k := range keys {
		r -= weights[k]
		if r < 0 {
			return k
		}
	}
	return keys[len(keys)-1]
}
