package driven

import "time"

// LLMCall describes one completed (or failed) language-model call.
type LLMCall struct {
	// Model is the model name used for the call
	Model string

	// Tags classify the call site (e.g. "router", "researcher")
	Tags []string

	// Latency is the wall-clock duration of the call
	Latency time.Duration

	// Err is non-nil if the call failed
	Err error
}

// TelemetrySink receives LLM call telemetry. Implementations are
// fire-and-forget: RecordLLMCall must never block or fail the
// primary call.
type TelemetrySink interface {
	RecordLLMCall(call LLMCall)
}
