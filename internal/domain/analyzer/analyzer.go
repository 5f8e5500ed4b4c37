// Package analyzer defines the contract with the external
// natural-language transcript analyzer and validates its output at the
// ingestion boundary. The core never parses transcripts itself; it only
// consumes structured results.
package analyzer

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/oakmontrealty/voicrm-coaching/internal/domain/model"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/skills"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/training"
)

// Request carries one transcript to the analyzer.
type Request struct {
	CallID     string
	AgentID    string
	Transcript string
}

// PlanSeed parameterizes an external plan-generation request.
type PlanSeed struct {
	AgentID         string
	ExperienceLevel string
	Preferences     model.Preferences
	Duration        model.PlanDuration
	PriorityAreas   []skills.TrainingArea
}

// TranscriptAnalyzer is the external language-understanding service.
// Implementations may fail (timeout, quota); callers degrade through the
// documented fallbacks and never crash on analyzer errors.
type TranscriptAnalyzer interface {
	// AnalyzeCall produces per-criterion scores and narrative signals.
	AnalyzeCall(ctx context.Context, req Request) (model.CallAnalysis, error)

	// AnalyzeCoaching produces coaching opportunities for one call.
	AnalyzeCoaching(ctx context.Context, req Request) (model.CoachingAnalysis, error)

	// GeneratePlan drafts a structured training plan from the seed.
	GeneratePlan(ctx context.Context, seed PlanSeed) (*training.Draft, error)
}

var validate = validator.New()

// ValidateCallAnalysis rejects malformed analyzer output before any
// arithmetic sees it: required identifiers and every raw score within
// [0,10].
func ValidateCallAnalysis(analysis model.CallAnalysis) error {
	if err := validate.Struct(analysis); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedAnalysis, err)
	}
	return nil
}

// ValidateCoachingAnalysis rejects coaching output missing identifiers.
func ValidateCoachingAnalysis(analysis model.CoachingAnalysis) error {
	if err := validate.Struct(analysis); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedAnalysis, err)
	}
	return nil
}
