package pii

import (
	"regexp"
	"strings"

	"github.com/synapse-med/synapse-core/internal/core/domain"
)

// streetAddress matches a Polish street reference, optionally with a
// building number.
var streetAddress = regexp.MustCompile(`\b[Uu]l\.\s+\p{Lu}[\p{Ll}]+(?:\s+\d+[a-zA-Z]?)?`)

// City lexicons keyed by language. Lowercased for lookup.
var cityLexicons = map[string][]string{
	"pl": {
		"białystok", "bydgoszcz", "częstochowa", "gdańsk", "gdynia",
		"gliwice", "katowice", "kielce", "kraków", "lublin", "olsztyn",
		"opole", "poznań", "radom", "rzeszów", "sosnowiec", "szczecin",
		"toruń", "warszawa", "wrocław", "zabrze", "łódź",
	},
	"en": {
		"birmingham", "boston", "chicago", "dublin", "edinburgh",
		"glasgow", "leeds", "liverpool", "london", "manchester",
	},
}

// locationRecognizer detects city names by lexicon and street
// references by pattern. Off by default: clinic and hospital names
// over-match, so the policy gates it behind DetectLocations.
type locationRecognizer struct {
	cities map[string]struct{}
}

func newLocationRecognizer(languages []string) Recognizer {
	cities := make(map[string]struct{})
	for _, lang := range languages {
		for _, city := range cityLexicons[lang] {
			cities[city] = struct{}{}
		}
	}
	return &locationRecognizer{cities: cities}
}

func (r *locationRecognizer) Name() string { return "location" }

func (r *locationRecognizer) Recognize(text string) []domain.PIIMatch {
	var matches []domain.PIIMatch

	for _, span := range streetAddress.FindAllStringIndex(text, -1) {
		matches = append(matches, domain.PIIMatch{
			Type:  domain.PIILocation,
			Start: span[0],
			End:   span[1],
			Score: 0.85,
		})
	}

	for _, span := range capitalizedToken.FindAllStringIndex(text, -1) {
		if _, ok := r.cities[strings.ToLower(text[span[0]:span[1]])]; !ok {
			continue
		}
		matches = append(matches, domain.PIIMatch{
			Type:  domain.PIILocation,
			Start: span[0],
			End:   span[1],
			Score: 0.85,
		})
	}
	return matches
}
