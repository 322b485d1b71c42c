package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/synapse-med/synapse-core/internal/core/domain"
	"github.com/synapse-med/synapse-core/internal/core/ports/driven"
	"github.com/synapse-med/synapse-core/internal/core/ports/driving"
	"github.com/synapse-med/synapse-core/internal/runtime"
)

// Managed prompt names, with hardcoded fallbacks used when the prompt
// source is unavailable.
const (
	routerPromptName     = "synapse-router"
	chatPromptName       = "synapse-chat"
	researcherPromptName = "synapse-researcher"
)

const (
	routerPromptFallback = "You are a query router for a medical document assistant. " +
		"Reply with exactly one word: RAG if the query asks about document contents, " +
		"patient records, diagnoses, treatments or anything that needs the indexed " +
		"documents; CHAT if it is greeting, small talk or a general question."

	chatPromptFallback = "You are a helpful assistant for a medical document system. " +
		"Answer conversationally and briefly. Do not invent document contents."

	researcherPromptFallback = "You are a medical document researcher. Answer the " +
		"question using only the provided source passages. Cite the source filename " +
		"for every claim. If the passages do not contain the answer, say so."
)

// maxContextChars caps the fused passage context handed to the model
const maxContextChars = 2000

// Sanitizer masks PII in free text.
type Sanitizer interface {
	Sanitize(ctx context.Context, text string) domain.SanitizeResult
}

// GatewayService is the secure front of every user-facing text path.
// Raw user text is PII-masked before any model call; routing and
// answer generation only ever see sanitized text.
type GatewayService struct {
	services  *runtime.Services
	sanitizer Sanitizer
	search    driving.SearchService
	logger    *slog.Logger
}

// NewGatewayService creates a new GatewayService
func NewGatewayService(services *runtime.Services, sanitizer Sanitizer, search driving.SearchService, logger *slog.Logger) *GatewayService {
	return &GatewayService{
		services:  services,
		sanitizer: sanitizer,
		search:    search,
		logger:    logger,
	}
}

// Sanitize implements driving.Gateway.
func (g *GatewayService) Sanitize(ctx context.Context, text string) domain.SanitizeResult {
	result := g.sanitizer.Sanitize(ctx, text)
	if result.Degraded {
		g.logger.Error("sanitization degraded, continuing unmasked", "reason", result.Reason)
	}
	return result
}

// Classify implements driving.Gateway. The query must already be
// sanitized. Any failure defaults to RAG so uncertain queries get the
// grounded path rather than a hallucinated reply.
func (g *GatewayService) Classify(ctx context.Context, query string) domain.Intent {
	system := g.prompt(ctx, routerPromptName, routerPromptFallback)

	raw, err := g.complete(ctx, driven.CompletionRequest{
		System:      system,
		User:        query,
		Temperature: 0,
		MaxTokens:   8,
	}, "router")
	if err != nil {
		g.logger.Warn("intent classification failed, defaulting to RAG", "error", err)
		return domain.IntentRAG
	}
	return domain.ParseIntent(raw)
}

// Answer implements driving.Gateway.
func (g *GatewayService) Answer(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	sanitized := g.Sanitize(ctx, query)

	intent := g.Classify(ctx, sanitized.Text)
	g.logger.Info("query routed",
		"intent", intent,
		"pii_masked", sanitized.Masked,
		"sanitize_degraded", sanitized.Degraded,
	)

	if intent == domain.IntentChat {
		return g.answerChat(ctx, sanitized.Text)
	}
	return g.answerResearch(ctx, sanitized.Text)
}

func (g *GatewayService) answerChat(ctx context.Context, query string) (string, error) {
	system := g.prompt(ctx, chatPromptName, chatPromptFallback)

	reply, err := g.complete(ctx, driven.CompletionRequest{
		System:      system,
		User:        query,
		Temperature: 0.7,
	}, "chat")
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return reply, nil
}

func (g *GatewayService) answerResearch(ctx context.Context, query string) (string, error) {
	result := g.search.Search(ctx, query, DefaultSearchLimit)
	if result.Degraded {
		g.logger.Warn("retrieval degraded, answering without sources", "reason", result.Reason)
	}

	system := g.prompt(ctx, researcherPromptName, researcherPromptFallback)
	user := buildResearchPrompt(query, result)

	answer, err := g.complete(ctx, driven.CompletionRequest{
		System:      system,
		User:        user,
		Temperature: 0.2,
	}, "researcher")
	if err != nil {
		return "", fmt.Errorf("research completion: %w", err)
	}
	return answer, nil
}

// prompt fetches a managed prompt, falling back to the hardcoded text
// when the source is missing or fails.
func (g *GatewayService) prompt(ctx context.Context, name, fallback string) string {
	source := g.services.PromptSource()
	if source == nil {
		return fallback
	}
	text, err := source.Get(ctx, name)
	if err != nil || strings.TrimSpace(text) == "" {
		g.logger.Debug("prompt source miss, using fallback", "prompt", name, "error", err)
		return fallback
	}
	return text
}

// complete runs one LLM call and records its telemetry.
func (g *GatewayService) complete(ctx context.Context, req driven.CompletionRequest, tag string) (string, error) {
	llm := g.services.LLMService()
	if llm == nil {
		return "", fmt.Errorf("%w: llm not configured", domain.ErrServiceUnavailable)
	}

	start := time.Now()
	reply, err := llm.Complete(ctx, req)
	g.services.TelemetrySink().RecordLLMCall(driven.LLMCall{
		Model:   llm.Model(),
		Tags:    []string{tag},
		Latency: time.Since(start),
		Err:     err,
	})
	return reply, err
}

// buildResearchPrompt assembles the user message: the fused passages as
// labelled sources under a character cap, then the question. With no
// usable passages the model is told so explicitly.
func buildResearchPrompt(query string, result *domain.SearchResult) string {
	var b strings.Builder

	if result.Empty() {
		b.WriteString("No source passages were found for this question.\n\n")
	} else {
		b.WriteString("Source passages:\n\n")
		used := 0
		for _, passage := range result.Passages {
			entry := fmt.Sprintf("Source: %s\n%s\n\n", passage.Filename, passage.Content)
			if used+len(entry) > maxContextChars && used > 0 {
				break
			}
			if len(entry) > maxContextChars {
				entry = truncateToRune(entry, maxContextChars)
			}
			b.WriteString(entry)
			used += len(entry)
		}
	}

	b.WriteString("Question: ")
	b.WriteString(query)
	return b.String()
}

// truncateToRune cuts s to at most max bytes without splitting a
// multi-byte rune.
func truncateToRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
