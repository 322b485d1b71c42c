package pii

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/synapse-med/synapse-core/internal/core/domain"
)

// phoneCandidatePattern over-captures digit runs with common phone
// formatting; each candidate is then validated with the phone-number
// library, which is the actual matcher.
var phoneCandidatePattern = regexp.MustCompile(`\+?\d[\d\-\s()]{5,18}\d`)

// phoneRecognizer validates formatting-tolerant candidates against the
// configured default region. Library-confirmed numbers score 1.0.
type phoneRecognizer struct {
	region string
}

func newPhoneRecognizer(region string) Recognizer {
	return &phoneRecognizer{region: region}
}

func (r *phoneRecognizer) Name() string { return "phone" }

func (r *phoneRecognizer) Recognize(text string) []domain.PIIMatch {
	var matches []domain.PIIMatch
	for _, loc := range phoneCandidatePattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]

		// A greedy candidate can swallow trailing digits that belong to
		// the surrounding text; retry with whitespace-trimmed suffixes.
		candidate := text[start:end]
		for candidate != "" {
			if r.valid(candidate) {
				matches = append(matches, domain.PIIMatch{
					Type:  domain.PIIPhoneNumber,
					Start: start,
					End:   start + len(candidate),
					Score: 1.0,
				})
				break
			}
			cut := strings.LastIndexAny(candidate, " \t")
			if cut < 0 {
				break
			}
			candidate = strings.TrimRight(candidate[:cut], " \t")
		}
	}
	return matches
}

func (r *phoneRecognizer) valid(candidate string) bool {
	num, err := phonenumbers.Parse(candidate, r.region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}
