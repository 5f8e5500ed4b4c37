package model

import "time"

// SkillState is the per-subskill proficiency/confidence pair.
// Scores and confidence are always clamped to [0,100]; confidence only
// ever increases.
type SkillState struct {
	Score        int       `json:"score"`
	Confidence   int       `json:"confidence"`
	LastAssessed time.Time `json:"last_assessed"`
	Trend        Trend     `json:"trend"`
}

// SkillMatrix maps category -> subskill -> state.
type SkillMatrix map[string]map[string]SkillState

// Clone returns a deep copy so readers never observe in-place mutation.
func (m SkillMatrix) Clone() SkillMatrix {
	out := make(SkillMatrix, len(m))
	for category, subskills := range m {
		cp := make(map[string]SkillState, len(subskills))
		for name, state := range subskills {
			cp[name] = state
		}
		out[category] = cp
	}
	return out
}

// Preferences capture how an agent wants to be coached.
type Preferences struct {
	LearningStyle     string `json:"learning_style"`
	CoachingFrequency string `json:"coaching_frequency"`
	FeedbackStyle     string `json:"feedback_style"`
}

// Challenge is a serious concern recorded against an agent.
type Challenge struct {
	Concern      string    `json:"concern"`
	IdentifiedAt time.Time `json:"identified_at"`
	Severity     Priority  `json:"severity"`
}

// AIInsights accumulates analyzer-reported strengths and weaknesses.
type AIInsights struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// PerformanceSnapshot is one historical overall score on a profile.
type PerformanceSnapshot struct {
	CallID       string    `json:"call_id"`
	OverallScore int       `json:"overall_score"`
	Timestamp    time.Time `json:"timestamp"`
}

// AgentProfile is the longitudinal coaching state for one agent.
// Created on the first call seen for an agent ID; never deleted.
type AgentProfile struct {
	AgentID               string                `json:"agent_id"`
	Name                  string                `json:"name"`
	ExperienceLevel       string                `json:"experience_level"`
	Preferences           Preferences           `json:"preferences"`
	Skills                SkillMatrix           `json:"skills"`
	HistoricalPerformance []PerformanceSnapshot `json:"historical_performance"`
	Challenges            []Challenge           `json:"challenges"`
	AIInsights            AIInsights            `json:"ai_insights"`
	Interventions         []InterventionRecord  `json:"interventions"`
	ActiveTrainingPlanID  string                `json:"active_training_plan_id,omitempty"`
	LastUpdated           time.Time             `json:"last_updated"`
}
