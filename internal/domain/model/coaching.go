package model

import "time"

// InterventionType distinguishes when and how a coaching message is
// surfaced to an agent or manager.
type InterventionType string

const (
	InterventionImmediate InterventionType = "immediate"
	InterventionGentle    InterventionType = "gentle"
	InterventionPostCall  InterventionType = "post_call"
	InterventionScheduled InterventionType = "scheduled"
)

// Urgency classifies a whole coaching response.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// CoachingItem is one suggestion inside a coaching analysis.
type CoachingItem struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Category string   `json:"category,omitempty"`
	Priority Priority `json:"priority,omitempty"`
}

// CoachingAnalysis is the coaching-mode result from the external
// analyzer: opportunities and suggestions rather than criterion scores.
type CoachingAnalysis struct {
	CallID                 string         `json:"call_id" validate:"required"`
	AgentID                string         `json:"agent_id" validate:"required"`
	ImmediateOpportunities []CoachingItem `json:"immediate_opportunities,omitempty"`
	GentleSuggestions      []CoachingItem `json:"gentle_suggestions,omitempty"`
	PostCallCoaching       []CoachingItem `json:"post_call_coaching,omitempty"`
	SkillGaps              []string       `json:"skill_gaps,omitempty"`
	SeriousConcerns        []string       `json:"serious_concerns,omitempty"`
}

// InterventionRecord is a timed, typed coaching message. Immutable once
// created; appended to AgentProfile.Interventions.
type InterventionRecord struct {
	ID                  string           `json:"id"`
	Type                InterventionType `json:"type"`
	Priority            Priority         `json:"priority"`
	Title               string           `json:"title"`
	Message             string           `json:"message"`
	Timing              string           `json:"timing"`
	Category            string           `json:"category,omitempty"`
	DevelopmentActivity string           `json:"development_activity,omitempty"`
	TrainingRequired    string           `json:"training_required,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
}

// CoachingResponse is the ordered result of intervention generation.
type CoachingResponse struct {
	AgentID       string               `json:"agent_id"`
	CallID        string               `json:"call_id,omitempty"`
	Urgency       Urgency              `json:"urgency"`
	Interventions []InterventionRecord `json:"interventions"`
	Fallback      bool                 `json:"fallback"`
}

// CoachingInteraction records a coaching conversation an agent took part
// in; addressed skills gain confidence.
type CoachingInteraction struct {
	Topic           string    `json:"topic"`
	Notes           string    `json:"notes,omitempty"`
	SkillsAddressed []string  `json:"skills_addressed"`
	CompletedAt     time.Time `json:"completed_at"`
}
