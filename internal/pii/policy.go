package pii

import "github.com/synapse-med/synapse-core/internal/core/domain"

// DefaultPlaceholder masks entity types without a specific override
const DefaultPlaceholder = "<PII_REDACTED>"

// Policy configures which entities are detected and how matched spans
// are replaced. The allow-list is closed: recognizers never report
// types outside it.
type Policy struct {
	// Languages are the name lexicons to load, primary first
	Languages []string

	// Region is the default phone-number region (ISO 3166-1 alpha-2)
	Region string

	// Entities is the allow-list of entity types to detect
	Entities []domain.PIIEntityType

	// Placeholders maps entity types to replacement tokens; types
	// without an entry fall back to DefaultPlaceholder
	Placeholders map[domain.PIIEntityType]string

	// DetectLocations enables the location entity, which is off by
	// default because clinic and hospital names over-match
	DetectLocations bool
}

// DefaultPolicy is tuned for Polish medical documents with English as
// the fallback language.
func DefaultPolicy() Policy {
	return Policy{
		Languages: []string{"pl", "en"},
		Region:    "PL",
		Entities: []domain.PIIEntityType{
			domain.PIIPhoneNumber,
			domain.PIIEmail,
			domain.PIIPerson,
			domain.PIIPesel,
			domain.PIINip,
			domain.PIICreditCard,
		},
		Placeholders: map[domain.PIIEntityType]string{
			domain.PIIPhoneNumber: "<PHONE>",
			domain.PIIEmail:       "<EMAIL>",
			domain.PIIPerson:      "<PERSON>",
			domain.PIIPesel:       "<PESEL>",
			domain.PIINip:         "<NIP>",
			domain.PIICreditCard:  "<CREDIT_CARD>",
		},
	}
}

// allows reports whether the entity type is on the allow-list.
func (p Policy) allows(entity domain.PIIEntityType) bool {
	if entity == domain.PIILocation {
		return p.DetectLocations
	}
	for _, allowed := range p.Entities {
		if allowed == entity {
			return true
		}
	}
	return false
}

// placeholder returns the replacement token for an entity type.
func (p Policy) placeholder(entity domain.PIIEntityType) string {
	if token, ok := p.Placeholders[entity]; ok {
		return token
	}
	return DefaultPlaceholder
}
