package driven

import "context"

// PromptSource fetches managed instruction text by name from an
// external prompt-management service. Callers must tolerate failure by
// falling back to a hardcoded instruction.
type PromptSource interface {
	// Get returns the production prompt text for the given name
	Get(ctx context.Context, name string) (string, error)
}
