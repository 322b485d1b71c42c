package pii

import (
	"regexp"

	"github.com/synapse-med/synapse-core/internal/core/domain"
)

// Recognizer scans the full text and reports matched spans. Recognizers
// run independently; overlap between their results is resolved during
// anonymization, not here.
type Recognizer interface {
	Name() string
	Recognize(text string) []domain.PIIMatch
}

// patternRecognizer matches a single regular expression, optionally
// gated by a validator on the matched substring.
type patternRecognizer struct {
	name     string
	entity   domain.PIIEntityType
	pattern  *regexp.Regexp
	score    float64
	validate func(string) bool
}

func (r *patternRecognizer) Name() string { return r.name }

func (r *patternRecognizer) Recognize(text string) []domain.PIIMatch {
	var matches []domain.PIIMatch
	for _, loc := range r.pattern.FindAllStringIndex(text, -1) {
		if r.validate != nil && !r.validate(text[loc[0]:loc[1]]) {
			continue
		}
		matches = append(matches, domain.PIIMatch{
			Type:  r.entity,
			Start: loc[0],
			End:   loc[1],
			Score: r.score,
		})
	}
	return matches
}

var (
	// Any 11-digit run. No checksum validation: over-matching unrelated
	// numbers is accepted in exchange for never missing a real one.
	peselPattern = regexp.MustCompile(`\b\d{11}\b`)

	// 10 digits, plain or in the conventional dashed groupings.
	nipPattern = regexp.MustCompile(`\b\d{3}[- ]?\d{3}[- ]?\d{2}[- ]?\d{2}\b`)

	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// 13 to 19 digits with optional single separators, Luhn-gated.
	creditCardPattern = regexp.MustCompile(`\b(?:\d[ -]?){12,18}\d\b`)
)

func newPeselRecognizer() Recognizer {
	return &patternRecognizer{
		name:    "pesel",
		entity:  domain.PIIPesel,
		pattern: peselPattern,
		score:   0.85,
	}
}

func newNipRecognizer() Recognizer {
	return &patternRecognizer{
		name:    "nip",
		entity:  domain.PIINip,
		pattern: nipPattern,
		score:   0.8,
	}
}

func newEmailRecognizer() Recognizer {
	return &patternRecognizer{
		name:    "email",
		entity:  domain.PIIEmail,
		pattern: emailPattern,
		score:   1.0,
	}
}

func newCreditCardRecognizer() Recognizer {
	return &patternRecognizer{
		name:     "credit_card",
		entity:   domain.PIICreditCard,
		pattern:  creditCardPattern,
		score:    1.0,
		validate: luhnValid,
	}
}

// luhnValid checks the Luhn checksum over the digits of s, ignoring
// space and dash separators.
func luhnValid(s string) bool {
	var digits []int
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits = append(digits, int(r-'0'))
		case r == ' ' || r == '-':
		default:
			return false
		}
	}
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
