package domain

// AIProvider identifies the AI/embedding provider
type AIProvider string

const (
	// AIProviderOpenAI is the remote embedding/completions API
	AIProviderOpenAI AIProvider = "openai"
	// AIProviderLocal is a locally hosted embedding model server
	AIProviderLocal AIProvider = "local"
)

// Supported dense dimensionalities. The two providers are NOT
// interchangeable within one collection: mixing them without
// rebuilding the collection is a schema error.
const (
	// VectorSizeLocal is the output dimensionality of the local model
	VectorSizeLocal = 384
	// VectorSizeOpenAI is the output dimensionality of text-embedding-3-small
	VectorSizeOpenAI = 1536
)

// RequiresAPIKey returns true if this provider requires an API key
func (p AIProvider) RequiresAPIKey() bool {
	switch p {
	case AIProviderLocal:
		return false // Self-hosted, no API key needed
	default:
		return true
	}
}

// DenseVectorSize returns the dense dimensionality the provider produces.
func (p AIProvider) DenseVectorSize() int {
	if p == AIProviderOpenAI {
		return VectorSizeOpenAI
	}
	return VectorSizeLocal
}

// EmbeddingSettings configures the dense embedding provider
type EmbeddingSettings struct {
	Provider AIProvider `json:"provider"`
	Model    string     `json:"model"`
	APIKey   string     `json:"-"` // Never serialize to JSON
	BaseURL  string     `json:"base_url,omitempty"`
}

// IsConfigured returns true if embedding settings are properly configured
func (e *EmbeddingSettings) IsConfigured() bool {
	if e.Provider == "" {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings configures the LLM service
type LLMSettings struct {
	Provider AIProvider `json:"provider"`
	Model    string     `json:"model"`
	APIKey   string     `json:"-"` // Never serialize to JSON
	BaseURL  string     `json:"base_url,omitempty"`
}

// IsConfigured returns true if LLM settings are properly configured
func (l *LLMSettings) IsConfigured() bool {
	if l.Provider == "" {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}
