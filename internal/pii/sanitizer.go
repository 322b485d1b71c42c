package pii

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/synapse-med/synapse-core/internal/core/domain"
)

// TextSanitizer is the detect-then-replace pipeline behind every
// user-facing text path. Sanitize is total: internal failure returns
// the original text tagged degraded and logged for audit, never an
// error, because blocking the request is worse than missing a mask.
type TextSanitizer struct {
	analyzer   *Analyzer
	anonymizer *Anonymizer
	logger     *slog.Logger
}

// NewTextSanitizer creates a sanitizer for the policy.
func NewTextSanitizer(policy Policy, logger *slog.Logger) *TextSanitizer {
	return &TextSanitizer{
		analyzer:   NewAnalyzer(policy),
		anonymizer: NewAnonymizer(policy),
		logger:     logger,
	}
}

// Sanitize masks every detected PII span in the text.
func (s *TextSanitizer) Sanitize(ctx context.Context, text string) (result domain.SanitizeResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("pii sanitization panicked, passing text through unmasked", "panic", fmt.Sprint(r))
			result = domain.SanitizeResult{
				Text:     text,
				Degraded: true,
				Reason:   fmt.Sprintf("sanitizer panic: %v", r),
			}
		}
	}()

	matches := s.analyzer.Analyze(text)
	if len(matches) == 0 {
		return domain.SanitizeResult{Text: text}
	}

	masked := s.anonymizer.Anonymize(text, matches)
	s.logger.Info("pii masked", "spans", len(matches))
	return domain.SanitizeResult{
		Text:   masked,
		Masked: masked != text,
	}
}
