// Package skills maintains the per-agent, per-subskill proficiency and
// confidence matrix and derives skill gaps and training priorities from it.
package skills

import (
	"sort"
	"strings"
	"time"

	"github.com/oakmontrealty/voicrm-coaching/internal/domain/catalog"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/model"
)

// Matrix update constants. Scores only ratchet upward from call
// evidence; decay is deliberately not modeled.
const (
	initialScore      = 50
	initialConfidence = 10

	evidencePerOccurrence   = 2
	maxEvidenceAdjustment   = 5
	confidencePerAssessment = 1
	confidencePerCoaching   = 2
	maxSkillValue           = 100

	// DefaultGapThreshold is the proficiency below which a subskill
	// counts as a gap.
	DefaultGapThreshold = 60

	maxTrainingAreas = 5
)

// NewProfile initializes a profile with every catalog subskill at a
// conservative prior: score 50, confidence 10.
func NewProfile(agentID, name, experienceLevel string, now time.Time) *model.AgentProfile {
	matrix := make(model.SkillMatrix)
	for category, subskills := range catalog.SkillCategories() {
		states := make(map[string]model.SkillState, len(subskills))
		for _, subskill := range subskills {
			states[subskill] = model.SkillState{
				Score:      initialScore,
				Confidence: initialConfidence,
				Trend:      model.TrendUnknown,
			}
		}
		matrix[category] = states
	}
	return &model.AgentProfile{
		AgentID:         agentID,
		Name:            name,
		ExperienceLevel: experienceLevel,
		Preferences: model.Preferences{
			LearningStyle:     "practice",
			CoachingFrequency: "weekly",
			FeedbackStyle:     "direct",
		},
		Skills:      matrix,
		AIInsights:  model.AIInsights{},
		LastUpdated: now.UTC(),
	}
}

// AssessFromCall counts phrase-indicator occurrences per subskill in the
// transcript and applies bounded upward evidence: adjustment is
// min(occurrences*2, 5) points, confidence gains 1 per assessment.
// Scores never decrease.
func AssessFromCall(profile *model.AgentProfile, transcript string, now time.Time) {
	lower := strings.ToLower(transcript)
	for category, states := range profile.Skills {
		for subskill, state := range states {
			occurrences := 0
			for _, phrase := range catalog.SkillIndicators(subskill) {
				occurrences += strings.Count(lower, strings.ToLower(phrase))
			}
			adjustment := occurrences * evidencePerOccurrence
			if adjustment > maxEvidenceAdjustment {
				adjustment = maxEvidenceAdjustment
			}

			next := state
			next.Score = clamp(state.Score + adjustment)
			next.Confidence = clamp(state.Confidence + confidencePerAssessment)
			next.LastAssessed = now.UTC()
			if next.Score > state.Score {
				next.Trend = model.TrendImproving
			} else if state.Trend == model.TrendUnknown {
				next.Trend = model.TrendStable
			}
			profile.Skills[category][subskill] = next
		}
	}
	profile.LastUpdated = now.UTC()
}

// ConfirmSkills raises confidence by 2 for every subskill addressed in a
// coaching interaction without touching the score.
func ConfirmSkills(profile *model.AgentProfile, addressed []string, now time.Time) {
	for _, name := range addressed {
		for category, states := range profile.Skills {
			if state, ok := states[name]; ok {
				state.Confidence = clamp(state.Confidence + confidencePerCoaching)
				profile.Skills[category][name] = state
			}
		}
	}
	profile.LastUpdated = now.UTC()
}

// Gap is one subskill below the proficiency threshold.
type Gap struct {
	Category string  `json:"category"`
	Subskill string  `json:"subskill"`
	Score    int     `json:"score"`
	Gap      int     `json:"gap"`
	Priority float64 `json:"priority"`
}

// IdentifyGaps returns every subskill scoring below threshold, annotated
// with gap size and a category-weighted priority, highest priority first.
func IdentifyGaps(profile *model.AgentProfile, threshold int) []Gap {
	gaps := make([]Gap, 0)
	for category, states := range profile.Skills {
		weight := catalog.CategoryWeight(category)
		for subskill, state := range states {
			if state.Score >= threshold {
				continue
			}
			gaps = append(gaps, Gap{
				Category: category,
				Subskill: subskill,
				Score:    state.Score,
				Gap:      threshold - state.Score,
				Priority: weight * (10 - float64(state.Score)/10),
			})
		}
	}
	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].Priority != gaps[j].Priority {
			return gaps[i].Priority > gaps[j].Priority
		}
		return gaps[i].Subskill < gaps[j].Subskill
	})
	return gaps
}

// TrainingArea is a gap weighted by fixed business impact.
type TrainingArea struct {
	Subskill      string  `json:"subskill"`
	Category      string  `json:"category"`
	Gap           int     `json:"gap"`
	TotalPriority float64 `json:"total_priority"`
}

// PrioritizeTrainingAreas combines gap priority with the business-impact
// table and returns the top five areas.
func PrioritizeTrainingAreas(gaps []Gap) []TrainingArea {
	areas := make([]TrainingArea, 0, len(gaps))
	for _, g := range gaps {
		areas = append(areas, TrainingArea{
			Subskill:      g.Subskill,
			Category:      g.Category,
			Gap:           g.Gap,
			TotalPriority: g.Priority + catalog.BusinessImpact(g.Subskill),
		})
	}
	sort.Slice(areas, func(i, j int) bool {
		if areas[i].TotalPriority != areas[j].TotalPriority {
			return areas[i].TotalPriority > areas[j].TotalPriority
		}
		return areas[i].Subskill < areas[j].Subskill
	})
	if len(areas) > maxTrainingAreas {
		areas = areas[:maxTrainingAreas]
	}
	return areas
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > maxSkillValue {
		return maxSkillValue
	}
	return v
}
