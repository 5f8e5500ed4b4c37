package model

import "time"

// PlanDuration is the overall cadence of a training plan.
type PlanDuration string

const (
	PlanWeekly  PlanDuration = "weekly"
	PlanMonthly PlanDuration = "monthly"
)

// PlanStatus tracks a plan's lifecycle. Superseded plans are marked, not
// deleted.
type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
	PlanAbandoned PlanStatus = "abandoned"
)

// ResourceDifficulty tags a training resource by the size of the gap it
// addresses.
type ResourceDifficulty string

const (
	DifficultyBeginner     ResourceDifficulty = "beginner"
	DifficultyIntermediate ResourceDifficulty = "intermediate"
	DifficultyAdvanced     ResourceDifficulty = "advanced"
)

// Resource is one practice script, scenario, reading, or video.
type Resource struct {
	Title      string             `json:"title"`
	Skill      string             `json:"skill"`
	Difficulty ResourceDifficulty `json:"difficulty"`
}

// PlanResources groups resources by kind.
type PlanResources struct {
	Scripts   []Resource `json:"scripts"`
	Scenarios []Resource `json:"scenarios"`
	Readings  []Resource `json:"readings"`
	Videos    []Resource `json:"videos"`
}

// PlanWeek is one checkpointed week of a training plan.
type PlanWeek struct {
	WeekNumber int      `json:"week_number"`
	FocusArea  string   `json:"focus_area"`
	Activities []string `json:"activities"`
	Goals      []string `json:"goals"`
}

// Checkpoint marks a week boundary for progress review.
type Checkpoint struct {
	Week      int       `json:"week"`
	Label     string    `json:"label"`
	Reached   bool      `json:"reached"`
	ReachedAt time.Time `json:"reached_at,omitempty"`
}

// PlanProgress tracks completion; updated by coaching-interaction
// recording, not by the plan builder.
type PlanProgress struct {
	CompletedActivities []string     `json:"completed_activities"`
	CurrentWeek         int          `json:"current_week"`
	OverallProgressPct  int          `json:"overall_progress_pct"`
	Checkpoints         []Checkpoint `json:"checkpoints"`
}

// Gamification keeps the light-weight motivation state on a plan.
type Gamification struct {
	Points int      `json:"points"`
	Badges []string `json:"badges"`
	Streak int      `json:"streak"`
	Level  int      `json:"level"`
}

// TrainingPlan is a structured, multi-week remediation program targeting
// an agent's weakest prioritized skills. At most one plan per agent is
// active at any time.
type TrainingPlan struct {
	ID           string        `json:"id"`
	AgentID      string        `json:"agent_id"`
	DurationKind PlanDuration  `json:"duration_kind"`
	CreatedAt    time.Time     `json:"created_at"`
	Status       PlanStatus    `json:"status"`
	Objectives   []string      `json:"objectives"`
	Weeks        []PlanWeek    `json:"weeks"`
	Resources    PlanResources `json:"resources"`
	Assessments  []string      `json:"assessments"`
	Progress     PlanProgress  `json:"progress"`
	Gamification Gamification  `json:"gamification"`
}
