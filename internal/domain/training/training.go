// Package training assembles structured, checkpointed training plans
// from prioritized skill gaps.
package training

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oakmontrealty/voicrm-coaching/internal/domain/model"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/skills"
	"github.com/oakmontrealty/voicrm-coaching/pkg/metrics"
)

// Gap-to-difficulty thresholds: the bigger the gap, the more fundamental
// the material.
const (
	beginnerGap     = 30
	intermediateGap = 15

	weeklyPlanWeeks  = 1
	monthlyPlanWeeks = 4
)

// Draft is the structured skeleton an external plan generator returns.
// Any empty section is synthesized deterministically by the builder.
type Draft struct {
	Objectives  []string            `json:"objectives" validate:"omitempty,dive,required"`
	Weeks       []model.PlanWeek    `json:"weeks"`
	Resources   model.PlanResources `json:"resources"`
	Assessments []string            `json:"assessments"`
}

// Builder wraps generator drafts into full TrainingPlans.
type Builder struct{}

// NewBuilder creates a plan builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build assembles a training plan for the agent from the prioritized
// areas and an optional generator draft. The returned plan is active;
// the caller is responsible for superseding any prior active plan.
func (b *Builder) Build(agentID string, duration model.PlanDuration, areas []skills.TrainingArea, draft *Draft, now time.Time) model.TrainingPlan {
	if draft == nil {
		draft = &Draft{}
	}

	weeks := draft.Weeks
	if len(weeks) == 0 {
		weeks = synthesizeWeeks(duration, areas)
	}

	objectives := draft.Objectives
	if len(objectives) == 0 {
		for _, area := range areas {
			objectives = append(objectives, fmt.Sprintf("Raise %s proficiency by %d points", area.Subskill, area.Gap))
		}
	}

	assessments := draft.Assessments
	if len(assessments) == 0 {
		assessments = []string{"Role-play assessment with coach", "Scored live-call review"}
	}

	checkpoints := make([]model.Checkpoint, 0, len(weeks))
	for _, w := range weeks {
		checkpoints = append(checkpoints, model.Checkpoint{
			Week:  w.WeekNumber,
			Label: fmt.Sprintf("Week %d review: %s", w.WeekNumber, w.FocusArea),
		})
	}

	plan := model.TrainingPlan{
		ID:           uuid.NewString(),
		AgentID:      agentID,
		DurationKind: duration,
		CreatedAt:    now.UTC(),
		Status:       model.PlanActive,
		Objectives:   objectives,
		Weeks:        weeks,
		Resources:    fillResources(draft.Resources, areas),
		Assessments:  assessments,
		Progress: model.PlanProgress{
			CompletedActivities: []string{},
			CurrentWeek:         1,
			Checkpoints:         checkpoints,
		},
		Gamification: model.Gamification{Badges: []string{}, Level: 1},
	}

	metrics.RecordTrainingPlanCreated()
	return plan
}

// synthesizeWeeks cycles the priority areas across the plan's weeks.
func synthesizeWeeks(duration model.PlanDuration, areas []skills.TrainingArea) []model.PlanWeek {
	count := weeklyPlanWeeks
	if duration == model.PlanMonthly {
		count = monthlyPlanWeeks
	}

	weeks := make([]model.PlanWeek, 0, count)
	for i := 0; i < count; i++ {
		focus := "general skills"
		if len(areas) > 0 {
			focus = areas[i%len(areas)].Subskill
		}
		weeks = append(weeks, model.PlanWeek{
			WeekNumber: i + 1,
			FocusArea:  focus,
			Activities: []string{
				fmt.Sprintf("Daily 10-minute %s drill", focus),
				fmt.Sprintf("Shadow one call from a top performer, noting %s moments", focus),
			},
			Goals: []string{fmt.Sprintf("Demonstrate improved %s on two live calls", focus)},
		})
	}
	return weeks
}

// fillResources keeps whatever the generator supplied and synthesizes a
// deterministic placeholder per priority area for each empty kind.
func fillResources(supplied model.PlanResources, areas []skills.TrainingArea) model.PlanResources {
	out := supplied
	if len(out.Scripts) == 0 {
		out.Scripts = resourcesFor(areas, "Practice script")
	}
	if len(out.Scenarios) == 0 {
		out.Scenarios = resourcesFor(areas, "Role-play scenario")
	}
	if len(out.Readings) == 0 {
		out.Readings = resourcesFor(areas, "Reading")
	}
	if len(out.Videos) == 0 {
		out.Videos = resourcesFor(areas, "Video")
	}
	return out
}

func resourcesFor(areas []skills.TrainingArea, kind string) []model.Resource {
	resources := make([]model.Resource, 0, len(areas))
	for _, area := range areas {
		resources = append(resources, model.Resource{
			Title:      fmt.Sprintf("%s: %s", kind, area.Subskill),
			Skill:      area.Subskill,
			Difficulty: difficultyFor(area.Gap),
		})
	}
	return resources
}

// difficultyFor derives material difficulty from gap size: large gaps
// start from fundamentals.
func difficultyFor(gap int) model.ResourceDifficulty {
	switch {
	case gap > beginnerGap:
		return model.DifficultyBeginner
	case gap > intermediateGap:
		return model.DifficultyIntermediate
	default:
		return model.DifficultyAdvanced
	}
}
