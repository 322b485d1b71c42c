package pii

import (
	"sort"
	"strings"

	"github.com/synapse-med/synapse-core/internal/core/domain"
)

// Anonymizer replaces matched spans with placeholder tokens.
type Anonymizer struct {
	policy Policy
}

// NewAnonymizer creates a new Anonymizer
func NewAnonymizer(policy Policy) *Anonymizer {
	return &Anonymizer{policy: policy}
}

// Anonymize returns the text with every surviving match replaced by its
// placeholder. Overlapping matches are resolved first: higher
// confidence wins, then the longer span, then the earlier start.
// Replacement runs right to left so earlier offsets stay valid.
func (a *Anonymizer) Anonymize(text string, matches []domain.PIIMatch) string {
	if len(matches) == 0 {
		return text
	}

	kept := resolveOverlaps(matches)

	var b strings.Builder
	for i := len(kept) - 1; i >= 0; i-- {
		m := kept[i]
		b.Reset()
		b.WriteString(text[:m.Start])
		b.WriteString(a.policy.placeholder(m.Type))
		b.WriteString(text[m.End:])
		text = b.String()
	}
	return text
}

// resolveOverlaps keeps a non-overlapping subset of matches, preferring
// confidence, then length, then position. The result is sorted by start.
func resolveOverlaps(matches []domain.PIIMatch) []domain.PIIMatch {
	ordered := make([]domain.PIIMatch, len(matches))
	copy(ordered, matches)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score > ordered[j].Score
		}
		if ordered[i].Len() != ordered[j].Len() {
			return ordered[i].Len() > ordered[j].Len()
		}
		return ordered[i].Start < ordered[j].Start
	})

	var kept []domain.PIIMatch
	for _, candidate := range ordered {
		overlaps := false
		for _, existing := range kept {
			if candidate.Overlaps(existing) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, candidate)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		return kept[i].Start < kept[j].Start
	})
	return kept
}
