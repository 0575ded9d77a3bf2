package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/adaptquiz/internal/store"
)

// dedup drops questions whose prompt repeats an earlier one in the batch
// or one of the existing prompts. It returns the kept questions and how
// many were dropped.
func dedup(qs []store.Question, existing []string) ([]store.Question, int) {
	seen := make(map[string]bool, len(qs)+len(existing))
	for _, p := range existing {
		seen[foldKey(p)] = true
	}
	out := qs[:0]
	for _, q := range qs {
		key := foldKey(q.Prompt)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
	}
	return out, len(qs) - len(out)
}

// buildAvoidList numbers existing prompts for the user message, keeping
// the newest max of them. It returns "" when there is nothing to avoid.
func buildAvoidList(existing []string, max int) string {
	if max > 0 && len(existing) > max {
		existing = existing[:max]
	}
	var b strings.Builder
	for i, p := range existing {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return b.String()
}
