package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	// ErrIncompleteAnalysis means the analyzer produced no criterion
	// scores at all; the call must not be scored as a silent zero.
	ErrIncompleteAnalysis = errors.New("incomplete analysis")

	// ErrInvalidRange means a raw score left its documented [0,10] range.
	// This indicates a bug at the ingestion boundary, not bad user input.
	ErrInvalidRange = errors.New("score out of range")
)
