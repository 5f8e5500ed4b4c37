package analyzer

import "errors"

// Sentinel kinds for analyzer errors.
var (
	// ErrUnavailable means the external analyzer call failed; callers
	// take documented fallback paths instead of crashing.
	ErrUnavailable = errors.New("analyzer unavailable")

	// ErrMalformedAnalysis means the analyzer returned output that fails
	// boundary validation and must not reach scoring arithmetic.
	ErrMalformedAnalysis = errors.New("malformed analyzer output")
)
