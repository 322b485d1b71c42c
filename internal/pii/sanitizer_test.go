package pii

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/synapse-med/synapse-core/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSanitizer() *TextSanitizer {
	return NewTextSanitizer(DefaultPolicy(), testLogger())
}

func TestSanitize_PhoneNumber(t *testing.T) {
	s := newTestSanitizer()

	result := s.Sanitize(context.Background(), "proszę dzwonić pod +48 601 234 567 po południu")
	if !result.Masked {
		t.Fatal("expected phone number to be masked")
	}
	if !strings.Contains(result.Text, "<PHONE>") {
		t.Errorf("expected phone placeholder, got %q", result.Text)
	}
	if strings.Contains(result.Text, "601 234 567") {
		t.Errorf("raw digits leaked: %q", result.Text)
	}
}

func TestSanitize_PhoneNumberLocalFormat(t *testing.T) {
	s := newTestSanitizer()

	result := s.Sanitize(context.Background(), "kontakt: 601-234-567")
	if !strings.Contains(result.Text, "<PHONE>") {
		t.Errorf("expected local-format phone masked, got %q", result.Text)
	}
}

func TestSanitize_Pesel(t *testing.T) {
	s := newTestSanitizer()

	result := s.Sanitize(context.Background(), "PESEL pacjenta: 85072512345, przyjęty wczoraj")
	if !strings.Contains(result.Text, "<PESEL>") {
		t.Errorf("expected PESEL placeholder, got %q", result.Text)
	}
	if strings.Contains(result.Text, "85072512345") {
		t.Errorf("raw PESEL leaked: %q", result.Text)
	}
}

func TestSanitize_PeselMatchesAnyElevenDigits(t *testing.T) {
	// Recall over precision: no checksum, so any 11-digit run masks.
	s := newTestSanitizer()

	result := s.Sanitize(context.Background(), "numer zamówienia 12345678901 został przyjęty")
	if !strings.Contains(result.Text, "<PESEL>") {
		t.Errorf("expected any 11-digit run masked, got %q", result.Text)
	}
}

func TestSanitize_Nip(t *testing.T) {
	s := newTestSanitizer()

	result := s.Sanitize(context.Background(), "faktura dla NIP 123-456-78-90")
	if !strings.Contains(result.Text, "<NIP>") {
		t.Errorf("expected NIP placeholder, got %q", result.Text)
	}
}

func TestSanitize_Email(t *testing.T) {
	s := newTestSanitizer()

	result := s.Sanitize(context.Background(), "wyniki wysłano na jan.kowalski@example.com wczoraj")
	if !strings.Contains(result.Text, "<EMAIL>") {
		t.Errorf("expected email placeholder, got %q", result.Text)
	}
	if strings.Contains(result.Text, "example.com") {
		t.Errorf("raw email leaked: %q", result.Text)
	}
}

func TestSanitize_CreditCard(t *testing.T) {
	s := newTestSanitizer()

	result := s.Sanitize(context.Background(), "płatność kartą 4111 1111 1111 1111 zaakceptowana")
	if !strings.Contains(result.Text, "<CREDIT_CARD>") {
		t.Errorf("expected credit card placeholder, got %q", result.Text)
	}
}

func TestSanitize_CreditCardLuhnRejected(t *testing.T) {
	// Sixteen digits failing the checksum must not mask as a card.
	s := newTestSanitizer()

	result := s.Sanitize(context.Background(), "kod 4111 1111 1111 1112 nie jest kartą")
	if strings.Contains(result.Text, "<CREDIT_CARD>") {
		t.Errorf("Luhn-invalid number masked as card: %q", result.Text)
	}
}

func TestSanitize_PersonName(t *testing.T) {
	s := newTestSanitizer()

	result := s.Sanitize(context.Background(), "Pacjent Jan Kowalski zgłosił się do poradni")
	if !strings.Contains(result.Text, "<PERSON>") {
		t.Errorf("expected person placeholder, got %q", result.Text)
	}
	if strings.Contains(result.Text, "Kowalski") {
		t.Errorf("surname leaked: %q", result.Text)
	}
	if !strings.Contains(result.Text, "Pacjent") {
		t.Errorf("non-name capitalized word should survive: %q", result.Text)
	}
}

func TestSanitize_GivenNameAlone(t *testing.T) {
	s := newTestSanitizer()

	result := s.Sanitize(context.Background(), "wizyta dla pacjentki Maria w piątek")
	if !strings.Contains(result.Text, "<PERSON>") {
		t.Errorf("expected lone given name masked, got %q", result.Text)
	}
}

func TestSanitize_EnglishName(t *testing.T) {
	s := newTestSanitizer()

	result := s.Sanitize(context.Background(), "referred by Michael Thompson from the clinic")
	if !strings.Contains(result.Text, "<PERSON>") {
		t.Errorf("expected fallback-language name masked, got %q", result.Text)
	}
}

func TestSanitize_CleanTextUntouched(t *testing.T) {
	s := newTestSanitizer()

	text := "pacjent skarży się na ból głowy od trzech dni"
	result := s.Sanitize(context.Background(), text)
	if result.Masked || result.Degraded {
		t.Errorf("clean text flagged: %+v", result)
	}
	if result.Text != text {
		t.Errorf("clean text modified: %q", result.Text)
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	s := newTestSanitizer()
	ctx := context.Background()

	text := "Jan Kowalski, tel. +48 601 234 567, PESEL 85072512345, jan@example.com"
	first := s.Sanitize(ctx, text)
	second := s.Sanitize(ctx, first.Text)

	if second.Text != first.Text {
		t.Errorf("second pass changed text:\nfirst:  %q\nsecond: %q", first.Text, second.Text)
	}
	if second.Masked {
		t.Error("second pass must not mask new spans")
	}
}

func TestSanitize_MultipleEntities(t *testing.T) {
	s := newTestSanitizer()

	result := s.Sanitize(context.Background(),
		"Anna Nowak (anna.nowak@example.com, +48 512 345 678) PESEL 90010112345")
	for _, placeholder := range []string{"<PERSON>", "<EMAIL>", "<PHONE>", "<PESEL>"} {
		if !strings.Contains(result.Text, placeholder) {
			t.Errorf("missing %s in %q", placeholder, result.Text)
		}
	}
}

func TestSanitize_FailOpenOnPanic(t *testing.T) {
	// A sanitizer with no analyzer panics internally; the original text
	// must come back tagged degraded.
	s := &TextSanitizer{logger: testLogger()}

	result := s.Sanitize(context.Background(), "tel. 601 234 567")
	if !result.Degraded {
		t.Fatal("expected degraded result")
	}
	if result.Text != "tel. 601 234 567" {
		t.Errorf("fail-open must return the original text, got %q", result.Text)
	}
	if result.Reason == "" {
		t.Error("degraded result must carry a reason")
	}
}

func TestResolveOverlaps_PrefersScoreThenLength(t *testing.T) {
	matches := []domain.PIIMatch{
		{Type: domain.PIIPesel, Start: 0, End: 11, Score: 0.85},
		{Type: domain.PIIPhoneNumber, Start: 5, End: 16, Score: 1.0},
		{Type: domain.PIIEmail, Start: 30, End: 45, Score: 1.0},
	}

	kept := resolveOverlaps(matches)
	if len(kept) != 2 {
		t.Fatalf("expected 2 surviving matches, got %d", len(kept))
	}
	if kept[0].Type != domain.PIIPhoneNumber {
		t.Errorf("higher-confidence phone should win the overlap, got %s", kept[0].Type)
	}
	if kept[1].Type != domain.PIIEmail {
		t.Errorf("disjoint email should survive, got %s", kept[1].Type)
	}
}

func TestAnonymize_AdjacentSpans(t *testing.T) {
	a := NewAnonymizer(DefaultPolicy())
	text := "ab12345678901cd"
	matches := []domain.PIIMatch{
		{Type: domain.PIIPesel, Start: 2, End: 13, Score: 0.85},
	}

	masked := a.Anonymize(text, matches)
	if masked != "ab<PESEL>cd" {
		t.Errorf("unexpected replacement: %q", masked)
	}
}

func TestAnonymize_DefaultPlaceholder(t *testing.T) {
	policy := DefaultPolicy()
	policy.Placeholders = nil
	a := NewAnonymizer(policy)

	masked := a.Anonymize("x 12345678901 y", []domain.PIIMatch{
		{Type: domain.PIIPesel, Start: 2, End: 13, Score: 0.85},
	})
	if masked != "x "+DefaultPlaceholder+" y" {
		t.Errorf("expected default placeholder, got %q", masked)
	}
}

func TestLocationsOffByDefault(t *testing.T) {
	policy := DefaultPolicy()
	if policy.allows(domain.PIILocation) {
		t.Error("locations must be off by default")
	}
	policy.DetectLocations = true
	if !policy.allows(domain.PIILocation) {
		t.Error("locations flag must enable the entity")
	}
}

func TestSanitize_LocationsMaskedWhenEnabled(t *testing.T) {
	policy := DefaultPolicy()
	policy.DetectLocations = true
	s := NewTextSanitizer(policy, testLogger())

	text := "pacjent przyjęty w Szpital Wojewódzki w Warszawa"
	result := s.Sanitize(context.Background(), text)
	if !result.Masked {
		t.Fatalf("expected city name masked, got %q", result.Text)
	}
	if strings.Contains(result.Text, "Warszawa") {
		t.Errorf("city name leaked: %q", result.Text)
	}
	// LOCATION has no placeholder override, the default applies
	if !strings.Contains(result.Text, DefaultPlaceholder) {
		t.Errorf("expected default placeholder, got %q", result.Text)
	}
	if !strings.Contains(result.Text, "Szpital Wojewódzki") {
		t.Errorf("facility name is not a city, must survive: %q", result.Text)
	}
}

func TestSanitize_StreetAddressMaskedWhenEnabled(t *testing.T) {
	policy := DefaultPolicy()
	policy.DetectLocations = true
	s := NewTextSanitizer(policy, testLogger())

	result := s.Sanitize(context.Background(), "przychodnia przy ul. Długa 15 od poniedziałku")
	if strings.Contains(result.Text, "Długa 15") {
		t.Errorf("street address leaked: %q", result.Text)
	}
}

func TestSanitize_LocationsIgnoredByDefaultPolicy(t *testing.T) {
	s := newTestSanitizer()

	text := "pacjent przyjęty w Szpital Wojewódzki w Warszawa"
	result := s.Sanitize(context.Background(), text)
	if result.Masked || result.Text != text {
		t.Errorf("default policy must not mask locations: %+v", result)
	}
}
