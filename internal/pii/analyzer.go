package pii

import (
	"github.com/synapse-med/synapse-core/internal/core/domain"
)

// Analyzer runs the configured recognizer composition over a text.
// Each recognizer scans the full text independently; the combined
// match list may contain overlaps, which the anonymizer resolves.
type Analyzer struct {
	policy      Policy
	recognizers []Recognizer
}

// NewAnalyzer builds the recognizer set for the policy. Recognizers for
// entity types outside the allow-list are not constructed.
func NewAnalyzer(policy Policy) *Analyzer {
	a := &Analyzer{policy: policy}

	if policy.allows(domain.PIIPhoneNumber) {
		a.recognizers = append(a.recognizers, newPhoneRecognizer(policy.Region))
	}
	if policy.allows(domain.PIIEmail) {
		a.recognizers = append(a.recognizers, newEmailRecognizer())
	}
	if policy.allows(domain.PIIPesel) {
		a.recognizers = append(a.recognizers, newPeselRecognizer())
	}
	if policy.allows(domain.PIINip) {
		a.recognizers = append(a.recognizers, newNipRecognizer())
	}
	if policy.allows(domain.PIICreditCard) {
		a.recognizers = append(a.recognizers, newCreditCardRecognizer())
	}
	if policy.allows(domain.PIIPerson) {
		a.recognizers = append(a.recognizers, newNameRecognizer(policy.Languages))
	}
	if policy.allows(domain.PIILocation) {
		a.recognizers = append(a.recognizers, newLocationRecognizer(policy.Languages))
	}
	return a
}

// Analyze returns every allow-listed match across all recognizers.
// Spans with invalid offsets are dropped here so downstream replacement
// can trust them.
func (a *Analyzer) Analyze(text string) []domain.PIIMatch {
	if text == "" {
		return nil
	}

	var all []domain.PIIMatch
	for _, rec := range a.recognizers {
		for _, match := range rec.Recognize(text) {
			if !match.Valid(len(text)) {
				continue
			}
			if !a.policy.allows(match.Type) {
				continue
			}
			all = append(all, match)
		}
	}
	return all
}
