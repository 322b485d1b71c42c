package domain

import "strings"

// Intent is the routing decision for an incoming query.
type Intent string

const (
	// IntentChat routes to a direct conversational reply
	IntentChat Intent = "CHAT"
	// IntentRAG routes to the document research path
	IntentRAG Intent = "RAG"
)

// ParseIntent normalises a raw model response into an Intent.
// Anything that does not contain "RAG" after trimming and uppercasing
// is treated as CHAT; callers apply the failure default (RAG) themselves.
func ParseIntent(raw string) Intent {
	normalised := strings.ToUpper(strings.TrimSpace(raw))
	if strings.Contains(normalised, string(IntentRAG)) {
		return IntentRAG
	}
	return IntentChat
}
