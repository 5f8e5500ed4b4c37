// Package coaching maps an external coaching analysis plus profile state
// into typed, timed intervention records.
package coaching

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oakmontrealty/voicrm-coaching/internal/domain/model"
	"github.com/oakmontrealty/voicrm-coaching/pkg/metrics"
)

// urgencyImmediateLimit: more than this many immediate opportunities on
// one call raises the urgency to medium.
const urgencyImmediateLimit = 2

// Timing hints surfaced alongside each intervention type.
const (
	timingNow       = "now"
	timingNextPause = "next_pause"
	timingAfterCall = "after_call"
	timingScheduled = "next_coaching_session"
)

// Generator builds CoachingResponses from analyzer output.
type Generator struct{}

// NewGenerator creates an intervention generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate converts a coaching analysis into an ordered list of
// intervention records. Immediate opportunities are only honored while
// the call is still live.
func (g *Generator) Generate(analysis model.CoachingAnalysis, callLive bool, now time.Time) model.CoachingResponse {
	records := make([]model.InterventionRecord, 0,
		len(analysis.ImmediateOpportunities)+len(analysis.GentleSuggestions)+len(analysis.PostCallCoaching)+1)

	if callLive {
		for _, item := range analysis.ImmediateOpportunities {
			records = append(records, newRecord(item, model.InterventionImmediate, model.PriorityHigh, timingNow, now))
		}
	}
	for _, item := range analysis.GentleSuggestions {
		records = append(records, newRecord(item, model.InterventionGentle, model.PriorityMedium, timingNextPause, now))
	}
	for _, item := range analysis.PostCallCoaching {
		priority := item.Priority
		if priority == "" {
			priority = model.PriorityMedium
		}
		records = append(records, newRecord(item, model.InterventionPostCall, priority, timingAfterCall, now))
	}

	// All gaps roll up into a single scheduled record, not one per gap.
	if len(analysis.SkillGaps) > 0 {
		records = append(records, model.InterventionRecord{
			ID:               uuid.NewString(),
			Type:             model.InterventionScheduled,
			Priority:         model.PriorityLow,
			Title:            "Skill development plan",
			Message:          fmt.Sprintf("Development areas from this call: %s", strings.Join(analysis.SkillGaps, ", ")),
			Timing:           timingScheduled,
			Category:         "development",
			TrainingRequired: strings.Join(analysis.SkillGaps, ", "),
			CreatedAt:        now.UTC(),
		})
	}

	for _, r := range records {
		metrics.RecordIntervention(string(r.Type))
	}

	return model.CoachingResponse{
		AgentID:       analysis.AgentID,
		CallID:        analysis.CallID,
		Urgency:       classifyUrgency(analysis),
		Interventions: records,
	}
}

// Fallback emits the single generic post-call record required when the
// analyzer fails: coaching is never silently dropped.
func (g *Generator) Fallback(agentID, callID string, now time.Time) model.CoachingResponse {
	metrics.RecordCoachingFallback()
	metrics.RecordIntervention(string(model.InterventionPostCall))
	return model.CoachingResponse{
		AgentID: agentID,
		CallID:  callID,
		Urgency: model.UrgencyLow,
		Interventions: []model.InterventionRecord{{
			ID:        uuid.NewString(),
			Type:      model.InterventionPostCall,
			Priority:  model.PriorityLow,
			Title:     "Call review",
			Message:   "Automated coaching was unavailable for this call; review the recording with your coach",
			Timing:    timingAfterCall,
			Category:  "general",
			CreatedAt: now.UTC(),
		}},
		Fallback: true,
	}
}

func newRecord(item model.CoachingItem, t model.InterventionType, p model.Priority, timing string, now time.Time) model.InterventionRecord {
	return model.InterventionRecord{
		ID:        uuid.NewString(),
		Type:      t,
		Priority:  p,
		Title:     item.Title,
		Message:   item.Message,
		Timing:    timing,
		Category:  item.Category,
		CreatedAt: now.UTC(),
	}
}

// classifyUrgency: serious concerns always dominate; a pile of immediate
// opportunities is the next signal; everything else is routine.
func classifyUrgency(analysis model.CoachingAnalysis) model.Urgency {
	switch {
	case len(analysis.SeriousConcerns) > 0:
		return model.UrgencyHigh
	case len(analysis.ImmediateOpportunities) > urgencyImmediateLimit:
		return model.UrgencyMedium
	default:
		return model.UrgencyLow
	}
}
