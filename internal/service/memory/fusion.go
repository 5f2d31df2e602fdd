package memory

import (
	"sort"
	"strings"

	"github.com/sandevgo/recall/internal/core"
)

// fuse merges per-source pre-ranked candidate lists into one ordering.
// Each source contributes a positional score w * (1 - rank/len); ties
// are broken by source priority. Duplicates by content similarity keep
// the higher-combined-score entry.
func fuse(lists []sourceEntries, weights map[core.Source]float64, dedupThreshold float64) []core.ContextEntry {
	var scored []core.ContextEntry
	for _, list := range lists {
		n := len(list.entries)
		for i, entry := range list.entries {
			entry.Score = weights[list.source] * (1 - float64(i)/float64(n))
			scored = append(scored, entry)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Source.Priority() < scored[j].Source.Priority()
	})

	return dedupe(scored, dedupThreshold)
}

// dedupe drops entries whose normalized content near-matches an
// already-kept entry. The input is sorted by combined score, so the
// kept entry is always the higher-scored one.
func dedupe(entries []core.ContextEntry, threshold float64) []core.ContextEntry {
	var kept []core.ContextEntry
	var keptNorms []string
	var keptTokens []map[string]struct{}

	for _, entry := range entries {
		norm := normalizeContent(entry.Content)
		tokens := tokenSet(norm)

		dup := false
		for i := range kept {
			if norm == keptNorms[i] || jaccard(tokens, keptTokens[i]) >= threshold {
				dup = true
				break
			}
		}
		if dup {
			continue
		}

		kept = append(kept, entry)
		keptNorms = append(keptNorms, norm)
		keptTokens = append(keptTokens, tokens)
	}
	return kept
}

// normalizeContent lowercases and collapses whitespace.
func normalizeContent(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func tokenSet(norm string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(norm) {
		set[tok] = struct{}{}
	}
	return set
}

// jaccard computes token-set overlap. Two empty sets are identical.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
