package analyzer

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/oakmontrealty/voicrm-coaching/internal/domain/catalog"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/model"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/training"
)

// Default simulation constants. Latency models the external service;
// scores are derived deterministically from transcript content so tests
// and the load generator are reproducible.
const (
	defaultMinLatency = 80 * time.Millisecond
	defaultMaxLatency = 150 * time.Millisecond
	defaultRandomSeed = 42

	baseScore     = 5.0
	scorePerCue   = 2.0
	maxRawScore   = 10.0
	weakThreshold = 7.0
)

// criterionCues extends the skill-indicator lists with cues for criteria
// that have no profile subskill.
var criterionCues = map[string][]string{
	catalog.Greeting:   {"good morning", "good afternoon", "this is", "calling from"},
	catalog.Rapport:    {"how are you", "how have you been", "great to speak"},
	catalog.Enthusiasm: {"fantastic", "excellent", "wonderful", "really excited"},
}

// Simulated implements TranscriptAnalyzer with deterministic
// keyword-evidence scoring and simulated service latency.
type Simulated struct {
	minLatency time.Duration
	maxLatency time.Duration
	rng        *rand.Rand
}

// Option applies a configuration option to the Simulated analyzer.
type Option func(*Simulated)

// WithLatencyRange sets the simulated latency range.
func WithLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(s *Simulated) {
		if minLatency > 0 && maxLatency > minLatency {
			s.minLatency = minLatency
			s.maxLatency = maxLatency
		}
	}
}

// NewSimulated creates a simulated analyzer.
func NewSimulated(opts ...Option) *Simulated {
	s := &Simulated{
		minLatency: defaultMinLatency,
		maxLatency: defaultMaxLatency,
		rng:        rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // deterministic seed for reproducible latency
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeCall scores every catalog criterion from cue occurrences in the
// transcript.
func (s *Simulated) AnalyzeCall(ctx context.Context, req Request) (model.CallAnalysis, error) {
	if err := s.sleep(ctx); err != nil {
		return model.CallAnalysis{}, err
	}

	scores := s.scoreCriteria(req.Transcript)

	var total float64
	var strengths, weaknesses []string
	for _, c := range catalog.Criteria() {
		score := scores[c.Key]
		total += score
		switch {
		case score >= 8:
			strengths = append(strengths, c.Key)
		case score < weakThreshold:
			weaknesses = append(weaknesses, c.Key)
		}
	}
	mean := total / float64(len(scores))

	return model.CallAnalysis{
		CallID:            req.CallID,
		AgentID:           req.AgentID,
		RawScores:         scores,
		NarrativeInsights: []string{fmt.Sprintf("Average criterion score %.1f across the call", mean)},
		StrengthsHint:     strengths,
		WeaknessesHint:    weaknesses,
		Sentiment:         sentimentFor(mean),
		RawTranscriptText: req.Transcript,
	}, nil
}

// AnalyzeCoaching derives coaching items from the same cue evidence.
func (s *Simulated) AnalyzeCoaching(ctx context.Context, req Request) (model.CoachingAnalysis, error) {
	if err := s.sleep(ctx); err != nil {
		return model.CoachingAnalysis{}, err
	}

	scores := s.scoreCriteria(req.Transcript)
	analysis := model.CoachingAnalysis{
		CallID:  req.CallID,
		AgentID: req.AgentID,
	}

	for _, c := range catalog.Criteria() {
		score := scores[c.Key]
		switch {
		case score < baseScore:
			analysis.ImmediateOpportunities = append(analysis.ImmediateOpportunities, model.CoachingItem{
				Title:    "Recover " + c.Key,
				Message:  catalog.ImprovementMessage(c.Key),
				Category: c.Key,
			})
		case score < weakThreshold:
			analysis.GentleSuggestions = append(analysis.GentleSuggestions, model.CoachingItem{
				Title:    "Improve " + c.Key,
				Message:  catalog.Recommendation(c.Key),
				Category: c.Key,
			})
		}
		if score < weakThreshold {
			analysis.SkillGaps = append(analysis.SkillGaps, c.Key)
		}
	}

	analysis.PostCallCoaching = append(analysis.PostCallCoaching, model.CoachingItem{
		Title:   "Call debrief",
		Message: "Walk through the discovery and closing sections of this call with your coach",
	})

	lower := strings.ToLower(req.Transcript)
	for _, phrase := range []string{"guarantee", "risk-free"} {
		if strings.Contains(lower, phrase) {
			analysis.SeriousConcerns = append(analysis.SeriousConcerns, "prohibited claim on call: "+phrase)
		}
	}

	return analysis, nil
}

// GeneratePlan drafts objectives only; the plan builder synthesizes
// weeks and resources deterministically from the priority areas.
func (s *Simulated) GeneratePlan(ctx context.Context, seed PlanSeed) (*training.Draft, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}

	draft := &training.Draft{}
	for _, area := range seed.PriorityAreas {
		draft.Objectives = append(draft.Objectives,
			fmt.Sprintf("Close the %d-point %s gap within the plan period", area.Gap, area.Subskill))
	}
	return draft, nil
}

func (s *Simulated) scoreCriteria(transcript string) map[string]float64 {
	lower := strings.ToLower(transcript)
	scores := make(map[string]float64, len(catalog.Criteria()))
	for _, c := range catalog.Criteria() {
		cues := criterionCues[c.Key]
		if len(cues) == 0 {
			cues = catalog.SkillIndicators(c.Key)
		}
		occurrences := 0
		for _, cue := range cues {
			occurrences += strings.Count(lower, cue)
		}
		score := baseScore + scorePerCue*float64(occurrences)
		if score > maxRawScore {
			score = maxRawScore
		}
		scores[c.Key] = score
	}
	return scores
}

func (s *Simulated) sleep(ctx context.Context) error {
	latency := s.minLatency
	if s.maxLatency > s.minLatency {
		latency += time.Duration(s.rng.Int63n(int64(s.maxLatency - s.minLatency)))
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
	case <-time.After(latency):
		return nil
	}
}

func sentimentFor(mean float64) model.SentimentSummary {
	switch {
	case mean >= 7.5:
		return model.SentimentSummary{
			CustomerSentiment: "positive",
			AgentSentiment:    "confident",
			OverallTone:       "warm",
			EmotionalJourney:  []string{"curious", "engaged", "satisfied"},
		}
	case mean >= 5:
		return model.SentimentSummary{
			CustomerSentiment: "neutral",
			AgentSentiment:    "steady",
			OverallTone:       "professional",
			EmotionalJourney:  []string{"curious", "undecided"},
		}
	default:
		return model.SentimentSummary{
			CustomerSentiment: "negative",
			AgentSentiment:    "strained",
			OverallTone:       "tense",
			EmotionalJourney:  []string{"skeptical", "frustrated"},
		}
	}
}
