// Package scoring turns a per-criterion raw-score map into the overall
// score, grade, insights, and coaching notes for one call.
package scoring

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"time"

	"github.com/oakmontrealty/voicrm-coaching/internal/domain/catalog"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/compliance"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/model"
	"github.com/oakmontrealty/voicrm-coaching/pkg/logger"
)

// Threshold constants for deterministic insight rules.
const (
	improvementThreshold = 7.0
	strengthThreshold    = 8.0
	maxImprovementAreas  = 3
	maxStrengths         = 3
	fillerWordLimit      = 5

	positiveNoteMean     = 8.0
	balancedNoteMean     = 6.0
	percentScale         = 100
)

// fillerWords matches hesitation markers on word boundaries.
var fillerWords = regexp.MustCompile(`(?i)\b(?:um|uh|like|you know)\b`)

// Aggregator computes CallScoreResults. It is a pure function of the
// analysis and the catalog weights; the same inputs always produce the
// same output.
type Aggregator struct {
	scanner *compliance.Scanner
	logger  logger.Logger
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithComplianceScanner overrides the default compliance rule set.
func WithComplianceScanner(s *compliance.Scanner) Option {
	return func(a *Aggregator) {
		if s != nil {
			a.scanner = s
		}
	}
}

// WithLogger sets a custom logger for the aggregator.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// New constructs an Aggregator with default configuration.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		scanner: compliance.NewScanner(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.Get().Named("scoring")
	}
	return a
}

// Score aggregates one call analysis into a CallScoreResult.
// Missing criterion scores default to 0 and are logged as a data-quality
// signal; an entirely absent score map fails with ErrIncompleteAnalysis
// rather than fabricating a zero score.
func (a *Aggregator) Score(ctx context.Context, analysis model.CallAnalysis, ts time.Time, durationSeconds int) (model.CallScoreResult, error) {
	if len(analysis.RawScores) == 0 {
		return model.CallScoreResult{}, fmt.Errorf("call %s: %w", analysis.CallID, ErrIncompleteAnalysis)
	}

	criteria := catalog.Criteria()
	scores := make(map[string]float64, len(criteria))
	var weightedSum, scoreSum float64
	for _, c := range criteria {
		raw, ok := analysis.RawScores[c.Key]
		if !ok {
			a.logger.Warn(ctx, "criterion missing from analysis; defaulting to 0",
				logger.String("callID", analysis.CallID),
				logger.String("criterion", c.Key),
			)
			raw = 0
		}
		if raw < 0 || raw > c.MaxScore {
			return model.CallScoreResult{}, fmt.Errorf("criterion %s score %.2f: %w", c.Key, raw, ErrInvalidRange)
		}
		scores[c.Key] = raw
		weightedSum += raw / c.MaxScore * c.Weight
		scoreSum += raw
	}

	overall := int(math.Round(weightedSum / catalog.TotalWeight() * percentScale))

	result := model.CallScoreResult{
		CallID:           analysis.CallID,
		AgentID:          analysis.AgentID,
		Timestamp:        ts.UTC(),
		DurationSeconds:  durationSeconds,
		Scores:           scores,
		OverallScore:     overall,
		Grade:            GradeFor(overall),
		Insights:         a.buildInsights(scores, analysis.RawTranscriptText),
		ImprovementAreas: buildImprovementAreas(criteria, scores),
		Strengths:        buildStrengths(criteria, scores),
		CoachingNotes:    buildCoachingNotes(scores, scoreSum/float64(len(criteria))),
		Compliance:       a.scanner.Scan(analysis.RawTranscriptText),
		Sentiment:        analysis.Sentiment,
	}
	return result, nil
}

// buildInsights applies the threshold rules in catalog order, then the
// filler-word rule over the raw transcript.
func (a *Aggregator) buildInsights(scores map[string]float64, transcript string) []model.Insight {
	insights := make([]model.Insight, 0, len(scores))
	for _, c := range catalog.Criteria() {
		score := scores[c.Key]
		switch {
		case score < improvementThreshold:
			insights = append(insights, model.Insight{
				Type:     model.InsightImprovement,
				Area:     c.Key,
				Message:  catalog.ImprovementMessage(c.Key),
				Priority: catalog.ImprovementPriority(c.Key),
			})
		case score >= strengthThreshold:
			insights = append(insights, model.Insight{
				Type:     model.InsightStrength,
				Area:     c.Key,
				Message:  catalog.StrengthMessage(c.Key),
				Priority: model.PriorityLow,
			})
		}
	}

	if count := len(fillerWords.FindAllString(transcript, -1)); count > fillerWordLimit {
		insights = append(insights, model.Insight{
			Type:     model.InsightImprovement,
			Area:     catalog.Clarity,
			Message:  fmt.Sprintf("Used %d filler words this call; pause instead of filling silence", count),
			Priority: model.PriorityMedium,
		})
	}
	return insights
}

// buildImprovementAreas returns the weakest criteria (score < 7), worst
// first, capped at 3. The sort is stable so ties keep catalog order.
func buildImprovementAreas(criteria []catalog.CriterionSpec, scores map[string]float64) []model.ImprovementArea {
	areas := make([]model.ImprovementArea, 0, maxImprovementAreas)
	for _, c := range criteria {
		if scores[c.Key] < improvementThreshold {
			areas = append(areas, model.ImprovementArea{
				Area:           c.Key,
				Score:          scores[c.Key],
				Recommendation: catalog.Recommendation(c.Key),
			})
		}
	}
	sort.SliceStable(areas, func(i, j int) bool { return areas[i].Score < areas[j].Score })
	if len(areas) > maxImprovementAreas {
		areas = areas[:maxImprovementAreas]
	}
	return areas
}

// buildStrengths returns the strongest criteria (score >= 8), best first,
// capped at 3.
func buildStrengths(criteria []catalog.CriterionSpec, scores map[string]float64) []model.Strength {
	strengths := make([]model.Strength, 0, maxStrengths)
	for _, c := range criteria {
		if scores[c.Key] >= strengthThreshold {
			strengths = append(strengths, model.Strength{Area: c.Key, Score: scores[c.Key]})
		}
	}
	sort.SliceStable(strengths, func(i, j int) bool { return strengths[i].Score > strengths[j].Score })
	if len(strengths) > maxStrengths {
		strengths = strengths[:maxStrengths]
	}
	return strengths
}

// buildCoachingNotes derives notes from the arithmetic mean of all
// criterion scores plus a few conditional combinations.
func buildCoachingNotes(scores map[string]float64, mean float64) []string {
	notes := make([]string, 0, 4)
	switch {
	case mean >= positiveNoteMean:
		notes = append(notes, "Excellent call overall; keep doing what works and mentor a teammate")
	case mean >= balancedNoteMean:
		notes = append(notes, "Solid call with clear room to grow; focus practice on the weakest areas below")
	default:
		notes = append(notes, "Fundamentals need attention; book a full-call review with your coach")
	}

	if scores[catalog.Discovery] < improvementThreshold && scores[catalog.Closing] < improvementThreshold {
		notes = append(notes, "Weak discovery is starving the close; qualifying questions earn the right to ask for the appointment")
	}
	if scores[catalog.Enthusiasm] < improvementThreshold {
		notes = append(notes, "Bring more energy; callers mirror the enthusiasm they hear")
	}
	if scores[catalog.ObjectionHandling] < improvementThreshold {
		notes = append(notes, "Revisit the objection-handling scripts before your next shift")
	}
	return notes
}
