package pii

import (
	"regexp"
	"strings"

	"github.com/synapse-med/synapse-core/internal/core/domain"
)

// capitalizedToken matches a capitalized word, Unicode-aware so Polish
// names with diacritics are caught.
var capitalizedToken = regexp.MustCompile(`\p{Lu}[\p{Ll}]+`)

// Given-name lexicons keyed by language. Lowercased for lookup.
var nameLexicons = map[string][]string{
	"pl": {
		"adam", "agata", "agnieszka", "aleksandra", "andrzej", "anna",
		"barbara", "bartosz", "dariusz", "dorota", "elżbieta", "ewa",
		"grzegorz", "halina", "iwona", "jacek", "jadwiga", "jan",
		"janusz", "jerzy", "joanna", "józef", "kamil", "katarzyna",
		"krzysztof", "leszek", "magdalena", "małgorzata", "marcin",
		"marek", "maria", "mariusz", "michał", "monika", "paweł",
		"piotr", "rafał", "renata", "robert", "ryszard", "stanisław",
		"tadeusz", "tomasz", "urszula", "wojciech", "zbigniew", "zofia",
		"łukasz",
	},
	"en": {
		"alice", "andrew", "anthony", "barbara", "charles", "daniel",
		"david", "dorothy", "edward", "elizabeth", "emily", "emma",
		"george", "helen", "henry", "jack", "james", "jennifer", "john",
		"joseph", "karen", "laura", "linda", "margaret", "mark", "mary",
		"matthew", "michael", "nancy", "oliver", "patricia", "paul",
		"peter", "richard", "robert", "sarah", "susan", "thomas",
		"william",
	},
}

// nameRecognizer is a lexicon-based person-name detector: a capitalized
// token whose lowercase form is a known given name starts a match, and
// an immediately following capitalized token is taken as the surname.
// A statistical model would generalize better; the lexicon keeps
// detection deterministic and dependency-free.
type nameRecognizer struct {
	givenNames map[string]struct{}
}

func newNameRecognizer(languages []string) Recognizer {
	given := make(map[string]struct{})
	for _, lang := range languages {
		for _, name := range nameLexicons[lang] {
			given[name] = struct{}{}
		}
	}
	return &nameRecognizer{givenNames: given}
}

func (r *nameRecognizer) Name() string { return "person_name" }

func (r *nameRecognizer) Recognize(text string) []domain.PIIMatch {
	tokens := capitalizedToken.FindAllStringIndex(text, -1)

	var matches []domain.PIIMatch
	for i := 0; i < len(tokens); i++ {
		start, end := tokens[i][0], tokens[i][1]
		if _, ok := r.givenNames[strings.ToLower(text[start:end])]; !ok {
			continue
		}

		// Extend over the surname when the next capitalized token is
		// adjacent (separated only by spaces).
		score := 0.6
		if i+1 < len(tokens) && adjacentTokens(text, end, tokens[i+1][0]) {
			end = tokens[i+1][1]
			score = 0.85
			i++
		}

		matches = append(matches, domain.PIIMatch{
			Type:  domain.PIIPerson,
			Start: start,
			End:   end,
			Score: score,
		})
	}
	return matches
}

func adjacentTokens(text string, end, nextStart int) bool {
	between := text[end:nextStart]
	return between != "" && strings.TrimLeft(between, " ") == ""
}
