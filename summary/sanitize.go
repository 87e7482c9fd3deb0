package summary

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// suspiciousPattern flags prompt-injection vocabulary in the raw trigger
// message. It is applied to the original input, never to the delegate's
// output, and acts as the deterministic backstop for the sanitizer.
var suspiciousPattern = regexp.MustCompile(`(?i)\b(` +
	`ignore\s+(?:les\s+)?(?:instructions|règles|précédentes)|` +
	`disregard|override|bypass|jailbreak|DAN|act\s+as|` +
	`system\s*prompt|developer\s*message|tool\s*call|function\s*call` +
	`)\b`)

// Sanitizer removes adversarial instructions from untrusted user text by
// asking the delegate for an exact subset of the input, then distrusting the
// answer whenever it looks over-aggressive.
type Sanitizer struct {
	Delegate Completer

	// Threshold is the fraction of the input below which a non-suspicious
	// edit is distrusted: a legitimate request rarely needs more than 30%
	// removed. Tuned for French; re-derive for other locales.
	Threshold float64

	// Suspicious classifies the original input. Tuned for French plus the
	// usual English jailbreak vocabulary.
	Suspicious *regexp.Regexp

	Log zerolog.Logger
}

// NewSanitizer returns a Sanitizer with the stock threshold and classifier.
func NewSanitizer(delegate Completer, log zerolog.Logger) *Sanitizer {
	return &Sanitizer{
		Delegate:   delegate,
		Threshold:  0.7,
		Suspicious: suspiciousPattern,
		Log:        log,
	}
}

// Sanitize never fails: any delegate error returns the input unchanged.
// Full removal is honored only when the local classifier confirms the input
// as an attack; an empty or heavily shortened answer on benign input is
// treated as a delegate failure and discarded.
func (s *Sanitizer) Sanitize(ctx context.Context, text string) string {
	cleaned, err := s.Delegate.Complete(ctx, CompletionRequest{
		Instructions: sanitizerInstructions,
		Input:        text,
	})
	if err != nil {
		s.Log.Warn().Err(err).Msg("sanitize: delegate failed, keeping original")
		return text
	}
	cleaned = strings.TrimSpace(cleaned)

	flagged := s.Suspicious.MatchString(text)
	switch {
	case cleaned == "" && flagged:
		s.Log.Info().Msg("sanitize: fully suspicious input blocked")
		return ""
	case cleaned == "":
		s.Log.Info().Msg("sanitize: empty answer on benign input, keeping original")
		return text
	case !flagged && float64(utf8.RuneCountInString(cleaned)) < s.Threshold*float64(utf8.RuneCountInString(text)):
		s.Log.Info().
			Int("len_in", utf8.RuneCountInString(text)).
			Int("len_out", utf8.RuneCountInString(cleaned)).
			Msg("sanitize: over-aggressive edit distrusted, keeping original")
		return text
	}

	if cleaned != text {
		s.Log.Info().Str("original", text).Str("cleaned", cleaned).Msg("sanitize: modified")
	}
	return cleaned
}
