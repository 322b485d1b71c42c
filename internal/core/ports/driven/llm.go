package driven

import "context"

// CompletionRequest is a single chat-style completion call.
type CompletionRequest struct {
	// System is the instruction message (may be empty)
	System string

	// User is the user-role message
	User string

	// Temperature controls sampling (0 = deterministic)
	Temperature float64

	// MaxTokens caps the response length (0 = provider default)
	MaxTokens int
}

// LLMService provides chat completions for routing and answer
// generation. Callers only ever see sanitized text through this port.
type LLMService interface {
	// Complete runs one completion and returns the response text
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the LLM backend is available
	Ping(ctx context.Context) error

	// Close releases resources held by the LLM service
	Close() error
}
