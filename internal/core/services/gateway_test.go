package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/synapse-med/synapse-core/internal/core/domain"
	"github.com/synapse-med/synapse-core/internal/core/ports/driven/mocks"
	"github.com/synapse-med/synapse-core/internal/runtime"
)

// passthroughSanitizer returns text unchanged.
type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(ctx context.Context, text string) domain.SanitizeResult {
	return domain.SanitizeResult{Text: text}
}

// maskingSanitizer replaces a fixed token, for asserting the model
// never sees raw input.
type maskingSanitizer struct {
	from, to string
}

func (s maskingSanitizer) Sanitize(ctx context.Context, text string) domain.SanitizeResult {
	masked := strings.ReplaceAll(text, s.from, s.to)
	return domain.SanitizeResult{Text: masked, Masked: masked != text}
}

func newTestGateway(services *runtime.Services, index *mocks.MockVectorIndex, sanitizer Sanitizer) *GatewayService {
	if index == nil {
		index = mocks.NewMockVectorIndex()
	}
	if sanitizer == nil {
		sanitizer = passthroughSanitizer{}
	}
	search := NewSearchService(services, index, testLogger())
	return NewGatewayService(services, sanitizer, search, testLogger())
}

func TestGateway_ClassifyRAG(t *testing.T) {
	services := testServices()
	services.SetLLMService(mocks.NewMockLLMService("RAG"))
	gw := newTestGateway(services, nil, nil)

	if intent := gw.Classify(context.Background(), "what does the report say"); intent != domain.IntentRAG {
		t.Errorf("expected RAG, got %s", intent)
	}
}

func TestGateway_ClassifyChat(t *testing.T) {
	services := testServices()
	services.SetLLMService(mocks.NewMockLLMService("chat"))
	gw := newTestGateway(services, nil, nil)

	if intent := gw.Classify(context.Background(), "hello there"); intent != domain.IntentChat {
		t.Errorf("expected CHAT, got %s", intent)
	}
}

func TestGateway_ClassifyDefaultsToRAGOnFailure(t *testing.T) {
	services := testServices()
	llm := mocks.NewMockLLMService("CHAT")
	llm.SetFailNext(true)
	services.SetLLMService(llm)
	gw := newTestGateway(services, nil, nil)

	if intent := gw.Classify(context.Background(), "ambiguous"); intent != domain.IntentRAG {
		t.Errorf("classification failure must default to RAG, got %s", intent)
	}
}

func TestGateway_ClassifyDefaultsToRAGWithoutLLM(t *testing.T) {
	gw := newTestGateway(testServices(), nil, nil)

	if intent := gw.Classify(context.Background(), "anything"); intent != domain.IntentRAG {
		t.Errorf("missing LLM must default to RAG, got %s", intent)
	}
}

func TestGateway_AnswerChatPath(t *testing.T) {
	services := testServices()
	llm := mocks.NewMockLLMService("CHAT", "hello, how can I help?")
	services.SetLLMService(llm)
	sink := mocks.NewMockTelemetrySink()
	services.SetTelemetrySink(sink)
	gw := newTestGateway(services, nil, nil)

	answer, err := gw.Answer(context.Background(), "hi there")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if answer != "hello, how can I help?" {
		t.Errorf("unexpected answer: %q", answer)
	}

	calls := sink.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 telemetry calls (router, chat), got %d", len(calls))
	}
	if calls[0].Tags[0] != "router" || calls[1].Tags[0] != "chat" {
		t.Errorf("unexpected telemetry tags: %v, %v", calls[0].Tags, calls[1].Tags)
	}
}

func TestGateway_AnswerResearchPathUsesSources(t *testing.T) {
	services := testServices()
	llm := mocks.NewMockLLMService("RAG", "the dosage was 5mg per report.txt")
	services.SetLLMService(llm)

	index := mocks.NewMockVectorIndex()
	ingest := NewIngestService(services, index, nil, testLogger())
	ctx := context.Background()
	if err := ingest.Index(ctx, "report.txt",
		"the prescribed dosage was five milligrams daily", domain.IngestMetadata{}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	gw := newTestGateway(services, index, nil)
	answer, err := gw.Answer(ctx, "what was the prescribed dosage")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if answer == "" {
		t.Fatal("expected an answer")
	}

	reqs := llm.Requests()
	if len(reqs) != 2 {
		t.Fatalf("expected router + researcher calls, got %d", len(reqs))
	}
	research := reqs[1]
	if !strings.Contains(research.User, "Source: report.txt") {
		t.Errorf("researcher prompt missing source label:\n%s", research.User)
	}
	if !strings.Contains(research.User, "Question: what was the prescribed dosage") {
		t.Errorf("researcher prompt missing question:\n%s", research.User)
	}
}

func TestGateway_AnswerSanitizesBeforeModel(t *testing.T) {
	services := testServices()
	llm := mocks.NewMockLLMService("CHAT", "done")
	services.SetLLMService(llm)
	sanitizer := maskingSanitizer{from: "Jan Kowalski", to: "<PERSON>"}
	gw := newTestGateway(services, nil, sanitizer)

	if _, err := gw.Answer(context.Background(), "say hi to Jan Kowalski"); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	for i, req := range llm.Requests() {
		if strings.Contains(req.User, "Jan Kowalski") {
			t.Errorf("request %d leaked raw PII: %q", i, req.User)
		}
		if i == 0 && !strings.Contains(req.User, "<PERSON>") {
			t.Errorf("router request should carry the placeholder: %q", req.User)
		}
	}
}

func TestGateway_AnswerEmptyQuery(t *testing.T) {
	gw := newTestGateway(testServices(), nil, nil)

	_, err := gw.Answer(context.Background(), "   ")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGateway_AnswerResearchWithEmptyIndex(t *testing.T) {
	services := testServices()
	llm := mocks.NewMockLLMService("RAG", "I could not find that in the documents")
	services.SetLLMService(llm)
	gw := newTestGateway(services, nil, nil)

	answer, err := gw.Answer(context.Background(), "what is in the chart")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if answer == "" {
		t.Fatal("expected an answer")
	}

	reqs := llm.Requests()
	if !strings.Contains(reqs[1].User, "No source passages were found") {
		t.Errorf("researcher prompt should state the corpus miss:\n%s", reqs[1].User)
	}
}

func TestGateway_ManagedPromptPreferred(t *testing.T) {
	services := testServices()
	llm := mocks.NewMockLLMService("CHAT", "ok")
	services.SetLLMService(llm)
	services.SetPromptSource(mocks.NewMockPromptSource(map[string]string{
		routerPromptName: "custom router instructions",
	}))
	gw := newTestGateway(services, nil, nil)

	if _, err := gw.Answer(context.Background(), "hello"); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	reqs := llm.Requests()
	if reqs[0].System != "custom router instructions" {
		t.Errorf("expected managed router prompt, got %q", reqs[0].System)
	}
	// The chat prompt is not managed, so the fallback applies.
	if reqs[1].System != chatPromptFallback {
		t.Errorf("expected chat fallback prompt, got %q", reqs[1].System)
	}
}

func TestGateway_ResearchContextCapped(t *testing.T) {
	services := testServices()
	llm := mocks.NewMockLLMService("RAG", "summary")
	services.SetLLMService(llm)

	index := mocks.NewMockVectorIndex()
	ingest := NewIngestService(services, index, nil, testLogger())
	ctx := context.Background()
	long := strings.Repeat("extensive cardiology findings were documented in detail ", 60)
	for _, name := range []string{"one.txt", "two.txt", "three.txt"} {
		if err := ingest.Index(ctx, name, long, domain.IngestMetadata{}); err != nil {
			t.Fatalf("ingest %s: %v", name, err)
		}
	}

	gw := newTestGateway(services, index, nil)
	if _, err := gw.Answer(ctx, "cardiology findings documented"); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	research := llm.Requests()[1]
	// The cap bounds the passage context, not the trailing question.
	if len(research.User) > maxContextChars+200 {
		t.Errorf("research prompt exceeds context cap: %d chars", len(research.User))
	}
}

func TestBuildResearchPrompt_TruncatesOnRuneBoundary(t *testing.T) {
	// An oversized Polish passage forces a cut that would land inside a
	// two-byte rune if truncation counted bytes blindly.
	content := strings.Repeat("ó", maxContextChars)
	result := &domain.SearchResult{
		Query:    "wyniki badań",
		Passages: []domain.RankedPassage{{Filename: "ab.txt", Content: content}},
	}

	prompt := buildResearchPrompt("wyniki badań", result)
	if !utf8.ValidString(prompt) {
		t.Fatal("truncation split a multi-byte rune")
	}
	if !strings.Contains(prompt, "Question: wyniki badań") {
		t.Errorf("question missing from prompt:\n%s", prompt)
	}
}

func TestTruncateToRune(t *testing.T) {
	// Byte 3 of "łóżko" sits inside the second rune; the cut must step
	// back to the previous boundary.
	if got := truncateToRune("łóżko", 3); got != "ł" {
		t.Errorf("expected cut on rune boundary, got %q", got)
	}
	if got := truncateToRune("abc", 10); got != "abc" {
		t.Errorf("short string must pass through unchanged, got %q", got)
	}
}
