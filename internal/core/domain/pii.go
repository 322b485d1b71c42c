package domain

// PIIEntityType tags a category of sensitive text.
type PIIEntityType string

const (
	PIIPhoneNumber PIIEntityType = "PHONE_NUMBER"
	PIIEmail       PIIEntityType = "EMAIL_ADDRESS"
	PIIPerson      PIIEntityType = "PERSON"
	// PIIPesel is the Polish 11-digit national citizen identifier
	PIIPesel PIIEntityType = "PESEL"
	// PIINip is the Polish 10-digit national tax identifier
	PIINip        PIIEntityType = "NIP"
	PIICreditCard PIIEntityType = "CREDIT_CARD"
	PIILocation   PIIEntityType = "LOCATION"
)

// PIIMatch is a detected span of sensitive text. Offsets are byte
// offsets into the analyzed string. Matches are produced per analysis
// call, consumed by the anonymizer and discarded - never persisted.
type PIIMatch struct {
	Type  PIIEntityType
	Start int
	End   int
	Score float64
}

// Valid reports whether the match offsets describe a real span.
func (m PIIMatch) Valid(textLen int) bool {
	return m.Start >= 0 && m.Start < m.End && m.End <= textLen
}

// Len returns the span length in bytes.
func (m PIIMatch) Len() int {
	return m.End - m.Start
}

// Overlaps reports whether two spans share any bytes.
func (m PIIMatch) Overlaps(other PIIMatch) bool {
	return m.Start < other.End && other.Start < m.End
}

// SanitizeResult is the tagged outcome of a PII masking pass.
// Sanitization is fail-open: on internal failure the original text is
// returned with Degraded set, logged for audit, and the request
// continues unmasked.
type SanitizeResult struct {
	Text     string
	Masked   bool
	Degraded bool
	Reason   string
}
