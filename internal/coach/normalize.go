package coach

import (
	"cmp"
	"math"
	"slices"
)

const (
	// MinWeight and MaxWeight bound every normalized weight.
	MinWeight = 0.1
	MaxWeight = 1.0

	maxFeasibleCategories = 10 // 10 * MinWeight == 1
)

// Normalize projects raw weights onto [MinWeight, MaxWeight] with a sum of
// one, keeping their order. Only the maxCategories heaviest categories are
// kept (ties broken by name). Non-finite and negative inputs count as zero.
//
// The result is clamp(scale * raw) for the scale at which the clamped
// values sum to one; the scale is found by bisection since the clamped sum
// is monotone in it.
func Normalize(raw map[string]float64, maxCategories int) map[string]float64 {
	type kv struct {
		k string
		v float64
	}
	items := make([]kv, 0, len(raw))
	for k, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			v = 0
		}
		items = append(items, kv{k, v})
	}
	slices.SortFunc(items, func(a, b kv) int {
		if c := cmp.Compare(b.v, a.v); c != 0 {
			return c
		}
		return cmp.Compare(a.k, b.k)
	})
	if maxCategories <= 0 || maxCategories > maxFeasibleCategories {
		maxCategories = maxFeasibleCategories
	}
	if len(items) > maxCategories {
		items = items[:maxCategories]
	}

	out := make(map[string]float64, len(items))
	switch {
	case len(items) == 0:
		return out
	case len(items) == 1:
		out[items[0].k] = 1
		return out
	case items[0].v == 0:
		for _, it := range items {
			out[it.k] = 1 / float64(len(items))
		}
		return out
	}

	sum := func(scale float64) float64 {
		var s float64
		for _, it := range items {
			s += clamp(scale * it.v)
		}
		return s
	}

	// sum(0) = n*MinWeight <= 1. Grow hi until sum(hi) >= 1; the heaviest
	// item reaches MaxWeight once hi >= 1/items[0].v.
	lo, hi := 0.0, 1/items[0].v
	for sum(hi) < 1 {
		hi *= 2
	}
	for range 200 {
		mid := (lo + hi) / 2
		if sum(mid) < 1 {
			lo = mid
		} else {
			hi = mid
		}
	}

	for _, it := range items {
		out[it.k] = clamp(hi * it.v)
	}
	return out
}

func clamp(w float64) float64 {
	return min(max(w, MinWeight), MaxWeight)
}
