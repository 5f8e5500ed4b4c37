// Package model contains domain models passed between layers.
package model

import "time"

// Priority levels attached to insights and interventions.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Grade is the letter-grade bucket derived from an overall score.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeCPlus Grade = "C+"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// CallEvent is a completed call submitted for asynchronous scoring.
type CallEvent struct {
	CallID          string    `json:"call_id"`
	AgentID         string    `json:"agent_id"`
	AgentName       string    `json:"agent_name,omitempty"`
	Transcript      string    `json:"transcript"`
	DurationSeconds int       `json:"duration_seconds"`
	TS              time.Time `json:"ts"`
}

// SentimentSummary is copied through from the external analyzer; the
// core treats it as opaque.
type SentimentSummary struct {
	CustomerSentiment string   `json:"customer_sentiment"`
	AgentSentiment    string   `json:"agent_sentiment"`
	OverallTone       string   `json:"overall_tone"`
	EmotionalJourney  []string `json:"emotional_journey,omitempty"`
}

// CallAnalysis is the structured result the external transcript analyzer
// produces for one call. Immutable after creation.
type CallAnalysis struct {
	CallID            string             `json:"call_id" validate:"required"`
	AgentID           string             `json:"agent_id" validate:"required"`
	RawScores         map[string]float64 `json:"raw_scores" validate:"required,dive,min=0,max=10"`
	NarrativeInsights []string           `json:"narrative_insights,omitempty"`
	StrengthsHint     []string           `json:"strengths_hint,omitempty"`
	WeaknessesHint    []string           `json:"weaknesses_hint,omitempty"`
	SeriousConcerns   []string           `json:"serious_concerns,omitempty"`
	Sentiment         SentimentSummary   `json:"sentiment"`
	RawTranscriptText string             `json:"-"`
}

// InsightType distinguishes improvement signals from strengths.
type InsightType string

const (
	InsightImprovement InsightType = "improvement"
	InsightStrength    InsightType = "strength"
)

// Insight is one deterministic, threshold-derived observation about a call.
type Insight struct {
	Type     InsightType `json:"type"`
	Area     string      `json:"area"`
	Message  string      `json:"message"`
	Priority Priority    `json:"priority"`
}

// ImprovementArea annotates a weak criterion with a coaching recommendation.
type ImprovementArea struct {
	Area           string  `json:"area"`
	Score          float64 `json:"score"`
	Recommendation string  `json:"recommendation"`
}

// Strength annotates a strong criterion.
type Strength struct {
	Area  string  `json:"area"`
	Score float64 `json:"score"`
}

// ComplianceResult is the verdict of the lexical compliance scan.
type ComplianceResult struct {
	Passed   bool     `json:"passed"`
	Issues   []string `json:"issues,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// CallScoreResult is the normalized, weighted performance score for one
// call. Created once per analyzed call and never mutated.
type CallScoreResult struct {
	CallID           string             `json:"call_id"`
	AgentID          string             `json:"agent_id"`
	Timestamp        time.Time          `json:"timestamp"`
	DurationSeconds  int                `json:"duration_seconds"`
	Scores           map[string]float64 `json:"scores"`
	OverallScore     int                `json:"overall_score"`
	Grade            Grade              `json:"grade"`
	Insights         []Insight          `json:"insights"`
	ImprovementAreas []ImprovementArea  `json:"improvement_areas"`
	Strengths        []Strength         `json:"strengths"`
	CoachingNotes    []string           `json:"coaching_notes"`
	Compliance       ComplianceResult   `json:"compliance"`
	Sentiment        SentimentSummary   `json:"sentiment"`
}
