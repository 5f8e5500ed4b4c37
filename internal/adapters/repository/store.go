// Package repository defines the agent state stores and errors.
package repository

import (
	"context"

	"github.com/oakmontrealty/voicrm-coaching/internal/domain/model"
)

// MetricsStore holds per-agent rolling score aggregates. Appends for the
// same agent are serialized; readers always see a consistent aggregate.
type MetricsStore interface {
	// AppendScore records one scored call for the agent, creating the
	// aggregate on first use, and returns the updated aggregate.
	AppendScore(ctx context.Context, agentID string, rec model.ScoreRecord) (model.AgentMetrics, error)

	// Metrics returns the current aggregate for an agent.
	// Returns ErrAgentNotFound for agents with no scored calls.
	Metrics(ctx context.Context, agentID string) (model.AgentMetrics, error)

	// Leaderboard returns up to limit agents ordered by average score
	// desc, then call count desc, then agent ID asc.
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)

	// Count returns the number of tracked agents.
	Count(ctx context.Context) int
}

// ProfileStore holds longitudinal coaching profiles.
type ProfileStore interface {
	// EnsureProfile returns the agent's profile, creating a fresh one on
	// first sight of the agent ID.
	EnsureProfile(ctx context.Context, agentID, name string) (model.AgentProfile, error)

	// Profile returns an existing profile or ErrAgentNotFound.
	Profile(ctx context.Context, agentID string) (model.AgentProfile, error)

	// MutateProfile applies mutate to the profile under the agent's
	// write lock and returns the updated copy. The profile must already
	// exist. LastUpdated is stamped by the store.
	MutateProfile(ctx context.Context, agentID string, mutate func(*model.AgentProfile) error) (model.AgentProfile, error)
}

// PlanStore holds training plans. At most one plan per agent is active;
// creating a new one marks any previous active plan completed.
type PlanStore interface {
	CreatePlan(ctx context.Context, plan model.TrainingPlan) error

	// Plan returns a plan by ID or ErrPlanNotFound.
	Plan(ctx context.Context, planID string) (model.TrainingPlan, error)

	// ActivePlan returns the agent's active plan or ErrPlanNotFound.
	ActivePlan(ctx context.Context, agentID string) (model.TrainingPlan, error)

	// AgentPlans returns all plans for an agent, newest first.
	AgentPlans(ctx context.Context, agentID string) ([]model.TrainingPlan, error)

	// MutatePlan applies mutate to a plan under its write lock and
	// returns the updated copy.
	MutatePlan(ctx context.Context, planID string, mutate func(*model.TrainingPlan) error) (model.TrainingPlan, error)
}

// Store is the full persistence surface used by the application service.
type Store interface {
	MetricsStore
	ProfileStore
	PlanStore
}
