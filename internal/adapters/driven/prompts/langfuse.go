// Package prompts fetches managed instruction text from a Langfuse
// prompt registry over its public REST API.
package prompts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/synapse-med/synapse-core/internal/core/domain"
	"github.com/synapse-med/synapse-core/internal/core/ports/driven"
)

const defaultLangfuseURL = "https://cloud.langfuse.com"

// Verify interface compliance
var _ driven.PromptSource = (*Langfuse)(nil)

// Langfuse resolves prompt names against a Langfuse project using
// basic auth with the project's public/secret key pair.
type Langfuse struct {
	baseURL   string
	publicKey string
	secretKey string
	client    *http.Client
}

// NewLangfuse creates a prompt source for the given project keys.
// baseURL may be empty for the hosted service.
func NewLangfuse(baseURL, publicKey, secretKey string) (*Langfuse, error) {
	if publicKey == "" || secretKey == "" {
		return nil, fmt.Errorf("%w: langfuse keys are required", domain.ErrInvalidInput)
	}
	if baseURL == "" {
		baseURL = defaultLangfuseURL
	}

	return &Langfuse{
		baseURL:   baseURL,
		publicKey: publicKey,
		secretKey: secretKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

type promptResponse struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Prompt string `json:"prompt"`
}

// Get returns the production-labelled prompt text for the given name.
func (l *Langfuse) Get(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: prompt name is required", domain.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("%s/api/public/v2/prompts/%s", l.baseURL, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(l.publicKey, l.secretKey)

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: langfuse request failed: %v", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: prompt %q", domain.ErrNotFound, name)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: langfuse returned status %d: %s", domain.ErrProvider, resp.StatusCode, string(body))
	}

	var pr promptResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", fmt.Errorf("%w: failed to decode prompt response: %v", domain.ErrProvider, err)
	}

	return pr.Prompt, nil
}
