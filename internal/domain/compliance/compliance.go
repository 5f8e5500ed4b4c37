// Package compliance is a lexical rule engine over raw transcript text.
// It runs independently of the external analyzer so a compliance verdict
// can never be suppressed or altered by an upstream language model.
// Scans are substring checks only and are reproducible byte-for-byte
// given the same transcript and rule set.
package compliance

import (
	"fmt"
	"strings"

	"github.com/oakmontrealty/voicrm-coaching/internal/domain/model"
)

// Default rule configuration.
const (
	defaultLongCallThreshold = 1000
	appointmentTerm          = "appointment"
)

var defaultIdentityTokens = []string{"oakmont", "realty"}

var defaultProhibitedPhrases = []string{
	"guarantee",
	"risk-free",
	"no risk",
	"definitely sell",
}

// Scanner evaluates a transcript against required/prohibited phrase lists.
type Scanner struct {
	identityTokens    []string
	prohibitedPhrases []string
	longCallThreshold int
}

// Option applies a configuration option to the Scanner.
type Option func(*Scanner)

// WithIdentityTokens replaces the company identity token list. A
// transcript containing none of the tokens draws a warning.
func WithIdentityTokens(tokens []string) Option {
	return func(s *Scanner) {
		if len(tokens) > 0 {
			s.identityTokens = tokens
		}
	}
}

// WithProhibitedPhrases replaces the hard-violation phrase list.
func WithProhibitedPhrases(phrases []string) Option {
	return func(s *Scanner) {
		if len(phrases) > 0 {
			s.prohibitedPhrases = phrases
		}
	}
}

// WithLongCallThreshold sets the transcript length beyond which a missing
// appointment attempt draws a warning.
func WithLongCallThreshold(chars int) Option {
	return func(s *Scanner) {
		if chars > 0 {
			s.longCallThreshold = chars
		}
	}
}

// NewScanner creates a Scanner with the default rule set.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		identityTokens:    defaultIdentityTokens,
		prohibitedPhrases: defaultProhibitedPhrases,
		longCallThreshold: defaultLongCallThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan evaluates all rules. Issues are hard violations and fail the
// call; warnings are soft signals. All prohibited-phrase matches are
// reported, not just the first.
func (s *Scanner) Scan(transcript string) model.ComplianceResult {
	lower := strings.ToLower(transcript)

	result := model.ComplianceResult{Passed: true}

	identified := false
	for _, token := range s.identityTokens {
		if strings.Contains(lower, strings.ToLower(token)) {
			identified = true
			break
		}
	}
	if !identified {
		result.Warnings = append(result.Warnings, "company identity never stated on the call")
	}

	for _, phrase := range s.prohibitedPhrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			result.Passed = false
			result.Issues = append(result.Issues, fmt.Sprintf("prohibited phrase used: %q", phrase))
		}
	}

	if len(transcript) > s.longCallThreshold && !strings.Contains(lower, appointmentTerm) {
		result.Warnings = append(result.Warnings, "long call with no appointment attempt")
	}

	return result
}
