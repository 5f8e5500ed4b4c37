// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	callqueue "github.com/oakmontrealty/voicrm-coaching/internal/adapters/mq/queue"
	workerpool "github.com/oakmontrealty/voicrm-coaching/internal/adapters/mq/worker"
	"github.com/oakmontrealty/voicrm-coaching/internal/adapters/repository"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/analyzer"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/coaching"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/dedupe"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/model"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/scoring"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/skills"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/stats"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/training"
	"github.com/oakmontrealty/voicrm-coaching/pkg/logger"
	"github.com/oakmontrealty/voicrm-coaching/pkg/metrics"
)

// SubmitResult reports the outcome of an asynchronous call submission.
type SubmitResult int

const (
	SubmitAccepted SubmitResult = iota
	SubmitDuplicate
	SubmitBackpressure
)

// Stats is the operational snapshot exposed on the stats endpoint.
type Stats struct {
	TrackedAgents int   `json:"tracked_agents"`
	QueueDepth    int   `json:"queue_depth"`
	DedupeSize    int64 `json:"dedupe_size"`
	WorkerCount   int   `json:"worker_count"`
}

// Service wires the analyzer, scoring, coaching, and persistence
// components behind one API.
type Service struct {
	mu sync.RWMutex

	store      repository.Store
	deduper    dedupe.Deduper
	callQueue  callqueue.Queue
	transcript analyzer.TranscriptAnalyzer
	aggregator *scoring.Aggregator
	coach      *coaching.Generator
	planner    *training.Builder
	workerPool *workerpool.Pool

	workerCount         int
	queueSize           int
	dedupeSize          int
	maxLeaderboardLimit int
	skillGapThreshold   int

	started bool
	logger  logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:         runtime.NumCPU() * 2,
		queueSize:           10_000,
		dedupeSize:          100_000,
		maxLeaderboardLimit: 100,
		skillGapThreshold:   skills.DefaultGapThreshold,
		coach:               coaching.NewGenerator(),
		planner:             training.NewBuilder(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory store")
	}
	if s.transcript == nil {
		s.transcript = analyzer.NewSimulated()
		s.logger.Info(ctx, "using simulated transcript analyzer")
	}
	if s.aggregator == nil {
		s.aggregator = scoring.New()
	}
	s.deduper = dedupe.NewInMemory(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.callQueue = callqueue.NewInMemoryQueue(
		callqueue.WithCapacity(s.queueSize),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.callQueue, s)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "coaching service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
	)
	return nil
}

// Stop drains the queue and shuts down the workers.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(ctx, "stopping coaching service...")

	if s.workerPool != nil {
		_ = s.workerPool.Shutdown(ctx)
	}
	if closer, ok := s.store.(interface{ Close() }); ok {
		closer.Close()
	}

	s.started = false
	s.logger.Info(ctx, "coaching service stopped")
}

// SubmitCall accepts a call for asynchronous scoring. Redelivered call
// IDs are dropped; a full queue releases the ID so the call can be
// retried.
func (s *Service) SubmitCall(ctx context.Context, event model.CallEvent) SubmitResult {
	if s.deduper.SeenAndRecord(ctx, event.CallID) {
		metrics.RecordCallDuplicate()
		s.logger.Debug(ctx, "duplicate call skipped", logger.String("call_id", event.CallID))
		return SubmitDuplicate
	}

	if !s.callQueue.Enqueue(ctx, event) {
		s.deduper.Unrecord(ctx, event.CallID)
		s.logger.Warn(ctx, "call rejected, queue full", logger.String("call_id", event.CallID))
		return SubmitBackpressure
	}
	return SubmitAccepted
}

// ProcessCall runs the full scoring pipeline for one dequeued call.
func (s *Service) ProcessCall(ctx context.Context, event workerpool.Event) error {
	_, err := s.ScoreCall(ctx, event)
	return err
}

// ScoreCall analyzes and scores one call synchronously, records the
// result against the agent, and updates the agent's skill profile.
func (s *Service) ScoreCall(ctx context.Context, event model.CallEvent) (model.CallScoreResult, error) {
	analysis, err := s.analyzeCall(ctx, event)
	if err != nil {
		metrics.RecordScoringError()
		return model.CallScoreResult{}, err
	}

	ts := event.TS
	if ts.IsZero() {
		ts = time.Now()
	}
	result, err := s.aggregator.Score(ctx, analysis, ts, event.DurationSeconds)
	if err != nil {
		metrics.RecordScoringError()
		return model.CallScoreResult{}, fmt.Errorf("score call %s: %w", event.CallID, err)
	}

	metrics.RecordCallScored(float64(result.OverallScore))
	if !result.Compliance.Passed {
		metrics.RecordComplianceFailure()
	}

	if _, err := s.store.AppendScore(ctx, event.AgentID, model.ScoreRecord{
		CallID:    event.CallID,
		Score:     result.OverallScore,
		Timestamp: result.Timestamp,
	}); err != nil {
		return model.CallScoreResult{}, fmt.Errorf("record score for agent %s: %w", event.AgentID, err)
	}

	if err := s.updateProfileFromCall(ctx, event, analysis, result); err != nil {
		return model.CallScoreResult{}, err
	}

	s.logger.Info(ctx, "call scored",
		logger.String("call_id", event.CallID),
		logger.String("agent_id", event.AgentID),
		logger.Int("overall_score", result.OverallScore),
		logger.String("grade", string(result.Grade)),
	)
	return result, nil
}

func (s *Service) analyzeCall(ctx context.Context, event model.CallEvent) (model.CallAnalysis, error) {
	start := time.Now()
	analysis, err := s.transcript.AnalyzeCall(ctx, analyzer.Request{
		CallID:     event.CallID,
		AgentID:    event.AgentID,
		Transcript: event.Transcript,
	})
	metrics.RecordAnalyzerLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordAnalyzerError()
		return model.CallAnalysis{}, fmt.Errorf("analyze call %s: %w", event.CallID, err)
	}

	if err := analyzer.ValidateCallAnalysis(analysis); err != nil {
		metrics.RecordAnalyzerError()
		return model.CallAnalysis{}, fmt.Errorf("call %s: %w", event.CallID, err)
	}
	return analysis, nil
}

func (s *Service) updateProfileFromCall(ctx context.Context, event model.CallEvent, analysis model.CallAnalysis, result model.CallScoreResult) error {
	if _, err := s.store.EnsureProfile(ctx, event.AgentID, event.AgentName); err != nil {
		return fmt.Errorf("ensure profile for agent %s: %w", event.AgentID, err)
	}

	_, err := s.store.MutateProfile(ctx, event.AgentID, func(p *model.AgentProfile) error {
		skills.AssessFromCall(p, event.Transcript, result.Timestamp)
		p.HistoricalPerformance = append(p.HistoricalPerformance, model.PerformanceSnapshot{
			CallID:       event.CallID,
			OverallScore: result.OverallScore,
			Timestamp:    result.Timestamp,
		})
		p.AIInsights.Strengths = mergeUnique(p.AIInsights.Strengths, analysis.StrengthsHint)
		p.AIInsights.Weaknesses = mergeUnique(p.AIInsights.Weaknesses, analysis.WeaknessesHint)
		for _, concern := range analysis.SeriousConcerns {
			p.Challenges = append(p.Challenges, model.Challenge{
				Concern:      concern,
				IdentifiedAt: result.Timestamp,
				Severity:     model.PriorityHigh,
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update profile for agent %s: %w", event.AgentID, err)
	}
	return nil
}

// GetAgentReport assembles the read-side performance summary.
func (s *Service) GetAgentReport(ctx context.Context, agentID string) (model.AgentReport, error) {
	m, err := s.store.Metrics(ctx, agentID)
	if err != nil {
		return model.AgentReport{}, err
	}

	scores := make([]int, len(m.ScoreHistory))
	best, worst := m.ScoreHistory[0], m.ScoreHistory[0]
	for i, rec := range m.ScoreHistory {
		scores[i] = rec.Score
		if rec.Score > best.Score {
			best = rec
		}
		if rec.Score < worst.Score {
			worst = rec
		}
	}

	return model.AgentReport{
		AgentID:          agentID,
		CallCount:        m.CallCount,
		AverageScore:     m.AverageScore,
		Grade:            scoring.GradeFor(int(math.Round(m.AverageScore))),
		Trend:            m.Trend,
		BestCall:         best,
		WorstCall:        worst,
		ConsistencyScore: stats.ConsistencyScore(scores),
		ImprovementRate:  stats.ImprovementRate(scores),
	}, nil
}

// TeamLeaderboard returns the ranked snapshot, clamped to the
// configured maximum.
func (s *Service) TeamLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > s.maxLeaderboardLimit {
		limit = s.maxLeaderboardLimit
	}
	return s.store.Leaderboard(ctx, limit)
}

const defaultLeaderboardLimit = 10

// GenerateCoaching produces timed interventions for one call. When the
// analyzer fails, a single generic follow-up is persisted first and the
// failure is surfaced alongside it.
func (s *Service) GenerateCoaching(ctx context.Context, event model.CallEvent, callLive bool) (model.CoachingResponse, error) {
	now := time.Now()

	analysis, analyzeErr := s.transcript.AnalyzeCoaching(ctx, analyzer.Request{
		CallID:     event.CallID,
		AgentID:    event.AgentID,
		Transcript: event.Transcript,
	})
	if analyzeErr == nil {
		analyzeErr = analyzer.ValidateCoachingAnalysis(analysis)
	}

	var response model.CoachingResponse
	if analyzeErr != nil {
		metrics.RecordAnalyzerError()
		s.logger.Warn(ctx, "coaching analysis failed, using fallback",
			logger.String("call_id", event.CallID),
			logger.Error(analyzeErr),
		)
		response = s.coach.Fallback(event.AgentID, event.CallID, now)
	} else {
		response = s.coach.Generate(analysis, callLive, now)
	}

	if _, err := s.store.EnsureProfile(ctx, event.AgentID, event.AgentName); err != nil {
		return model.CoachingResponse{}, fmt.Errorf("ensure profile for agent %s: %w", event.AgentID, err)
	}
	if _, err := s.store.MutateProfile(ctx, event.AgentID, func(p *model.AgentProfile) error {
		p.Interventions = append(p.Interventions, response.Interventions...)
		return nil
	}); err != nil {
		return model.CoachingResponse{}, fmt.Errorf("record interventions for agent %s: %w", event.AgentID, err)
	}

	if analyzeErr != nil {
		return response, fmt.Errorf("coaching analysis for call %s: %w", event.CallID, analyzeErr)
	}
	return response, nil
}

// CreateTrainingPlan builds and activates a plan targeting the agent's
// prioritized skill gaps. Any previously active plan is superseded.
func (s *Service) CreateTrainingPlan(ctx context.Context, agentID string, duration model.PlanDuration) (model.TrainingPlan, error) {
	if duration != model.PlanWeekly && duration != model.PlanMonthly {
		return model.TrainingPlan{}, fmt.Errorf("%w: %q", ErrInvalidPlanDuration, duration)
	}

	profile, err := s.store.EnsureProfile(ctx, agentID, "")
	if err != nil {
		return model.TrainingPlan{}, fmt.Errorf("ensure profile for agent %s: %w", agentID, err)
	}

	gaps := skills.IdentifyGaps(&profile, s.skillGapThreshold)
	areas := skills.PrioritizeTrainingAreas(gaps)

	draft, err := s.transcript.GeneratePlan(ctx, analyzer.PlanSeed{
		AgentID:         agentID,
		ExperienceLevel: profile.ExperienceLevel,
		Preferences:     profile.Preferences,
		Duration:        duration,
		PriorityAreas:   areas,
	})
	if err != nil {
		metrics.RecordAnalyzerError()
		s.logger.Warn(ctx, "plan generation failed, synthesizing locally",
			logger.String("agent_id", agentID),
			logger.Error(err),
		)
		draft = nil
	}

	plan := s.planner.Build(agentID, duration, areas, draft, time.Now())
	if err := s.store.CreatePlan(ctx, plan); err != nil {
		return model.TrainingPlan{}, fmt.Errorf("save plan for agent %s: %w", agentID, err)
	}
	if _, err := s.store.MutateProfile(ctx, agentID, func(p *model.AgentProfile) error {
		p.ActiveTrainingPlanID = plan.ID
		return nil
	}); err != nil {
		return model.TrainingPlan{}, fmt.Errorf("activate plan for agent %s: %w", agentID, err)
	}
	return plan, nil
}

// RecordCoachingInteraction confirms the addressed skills on the
// profile and advances the active plan's progress when one exists.
func (s *Service) RecordCoachingInteraction(ctx context.Context, agentID string, interaction model.CoachingInteraction) (model.AgentProfile, error) {
	completedAt := interaction.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	if _, err := s.store.EnsureProfile(ctx, agentID, ""); err != nil {
		return model.AgentProfile{}, fmt.Errorf("ensure profile for agent %s: %w", agentID, err)
	}
	profile, err := s.store.MutateProfile(ctx, agentID, func(p *model.AgentProfile) error {
		skills.ConfirmSkills(p, interaction.SkillsAddressed, completedAt)
		return nil
	})
	if err != nil {
		return model.AgentProfile{}, fmt.Errorf("confirm skills for agent %s: %w", agentID, err)
	}

	if profile.ActiveTrainingPlanID != "" {
		if _, err := s.store.MutatePlan(ctx, profile.ActiveTrainingPlanID, func(plan *model.TrainingPlan) error {
			advancePlanProgress(plan, interaction)
			return nil
		}); err != nil && !errors.Is(err, repository.ErrPlanNotFound) {
			return model.AgentProfile{}, fmt.Errorf("advance plan for agent %s: %w", agentID, err)
		}
	}
	return profile, nil
}

// Profile returns the agent's coaching profile.
func (s *Service) Profile(ctx context.Context, agentID string) (model.AgentProfile, error) {
	return s.store.Profile(ctx, agentID)
}

// TrainingPlan returns one plan by ID.
func (s *Service) TrainingPlan(ctx context.Context, planID string) (model.TrainingPlan, error) {
	return s.store.Plan(ctx, planID)
}

// ActiveTrainingPlan returns the agent's active plan.
func (s *Service) ActiveTrainingPlan(ctx context.Context, agentID string) (model.TrainingPlan, error) {
	return s.store.ActivePlan(ctx, agentID)
}

// AgentTrainingPlans returns every plan for an agent, newest first.
func (s *Service) AgentTrainingPlans(ctx context.Context, agentID string) ([]model.TrainingPlan, error) {
	return s.store.AgentPlans(ctx, agentID)
}

// OperationalStats reports the live pipeline state.
func (s *Service) OperationalStats(ctx context.Context) Stats {
	return Stats{
		TrackedAgents: s.store.Count(ctx),
		QueueDepth:    s.callQueue.Len(ctx),
		DedupeSize:    s.deduper.Size(),
		WorkerCount:   s.workerCount,
	}
}

// advancePlanProgress marks one activity done, recomputes the overall
// percentage, and awards points. Checkpoints flip when their week's
// share of activities is complete.
func advancePlanProgress(plan *model.TrainingPlan, interaction model.CoachingInteraction) {
	if interaction.Topic != "" {
		for _, done := range plan.Progress.CompletedActivities {
			if done == interaction.Topic {
				return
			}
		}
		plan.Progress.CompletedActivities = append(plan.Progress.CompletedActivities, interaction.Topic)
	}

	total := 0
	for _, week := range plan.Weeks {
		total += len(week.Activities)
	}
	if total > 0 {
		pct := len(plan.Progress.CompletedActivities) * 100 / total
		if pct > 100 {
			pct = 100
		}
		plan.Progress.OverallProgressPct = pct
		if len(plan.Weeks) > 0 {
			week := pct * len(plan.Weeks) / 100
			if week >= len(plan.Weeks) {
				week = len(plan.Weeks) - 1
			}
			plan.Progress.CurrentWeek = week + 1
		}
	}
	for i := range plan.Progress.Checkpoints {
		cp := &plan.Progress.Checkpoints[i]
		if !cp.Reached && cp.Week <= plan.Progress.CurrentWeek-1 {
			cp.Reached = true
			cp.ReachedAt = interaction.CompletedAt
		}
	}

	plan.Gamification.Points += pointsPerInteraction
	plan.Gamification.Streak++
	if plan.Progress.OverallProgressPct >= 100 && plan.Status == model.PlanActive {
		plan.Status = model.PlanCompleted
	}
}

const pointsPerInteraction = 10

func mergeUnique(existing, additions []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, v := range existing {
		seen[v] = struct{}{}
	}
	for _, v := range additions {
		if _, ok := seen[v]; !ok {
			existing = append(existing, v)
			seen[v] = struct{}{}
		}
	}
	return existing
}
