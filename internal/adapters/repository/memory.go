package repository

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/oakmontrealty/voicrm-coaching/internal/domain/model"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/scoring"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/skills"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/stats"
	"github.com/oakmontrealty/voicrm-coaching/pkg/metrics"
)

// agentRecord is all mutable state for one agent. Its mutex serializes
// every write to that agent while leaving other agents untouched.
type agentRecord struct {
	mu      sync.Mutex
	metrics model.AgentMetrics
	profile model.AgentProfile
}

// MemoryStore is the in-process Store implementation. A read-write
// mutex guards the agent map; per-agent mutexes guard record contents.
type MemoryStore struct {
	mu     sync.RWMutex
	agents map[string]*agentRecord

	planMu     sync.Mutex
	plans      map[string]*model.TrainingPlan
	agentPlans map[string][]string

	now func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		agents:     make(map[string]*agentRecord),
		plans:      make(map[string]*model.TrainingPlan),
		agentPlans: make(map[string][]string),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// record returns the agent's record, creating it when create is set.
func (s *MemoryStore) record(agentID string, create bool) (*agentRecord, bool) {
	s.mu.RLock()
	rec, ok := s.agents[agentID]
	s.mu.RUnlock()
	if ok || !create {
		return rec, ok
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok = s.agents[agentID]; ok {
		return rec, true
	}
	rec = &agentRecord{}
	s.agents[agentID] = rec
	metrics.UpdateTrackedAgents(len(s.agents))
	return rec, true
}

func (s *MemoryStore) AppendScore(_ context.Context, agentID string, scoreRec model.ScoreRecord) (model.AgentMetrics, error) {
	rec, _ := s.record(agentID, true)
	rec.mu.Lock()
	defer rec.mu.Unlock()

	m := &rec.metrics
	m.AgentID = agentID
	m.CallCount++
	m.TotalScore += scoreRec.Score
	m.AverageScore = roundAverage(float64(m.TotalScore) / float64(m.CallCount))
	m.ScoreHistory = append(m.ScoreHistory, scoreRec)
	m.Trend = stats.TrendFor(historyScores(m.ScoreHistory))

	return copyMetrics(*m), nil
}

func (s *MemoryStore) Metrics(_ context.Context, agentID string) (model.AgentMetrics, error) {
	rec, ok := s.record(agentID, false)
	if !ok {
		return model.AgentMetrics{}, fmt.Errorf("%w: %s", ErrAgentNotFound, agentID)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.metrics.CallCount == 0 {
		return model.AgentMetrics{}, fmt.Errorf("%w: %s", ErrAgentNotFound, agentID)
	}
	return copyMetrics(rec.metrics), nil
}

func (s *MemoryStore) Leaderboard(_ context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	s.mu.RLock()
	snapshot := make([]model.LeaderboardEntry, 0, len(s.agents))
	for agentID, rec := range s.agents {
		rec.mu.Lock()
		if rec.metrics.CallCount > 0 {
			snapshot = append(snapshot, model.LeaderboardEntry{
				AgentID:      agentID,
				AverageScore: rec.metrics.AverageScore,
				CallCount:    rec.metrics.CallCount,
				Grade:        scoring.GradeFor(int(math.Round(rec.metrics.AverageScore))),
				Trend:        rec.metrics.Trend,
			})
		}
		rec.mu.Unlock()
	}
	s.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool {
		if snapshot[i].AverageScore != snapshot[j].AverageScore {
			return snapshot[i].AverageScore > snapshot[j].AverageScore
		}
		if snapshot[i].CallCount != snapshot[j].CallCount {
			return snapshot[i].CallCount > snapshot[j].CallCount
		}
		return snapshot[i].AgentID < snapshot[j].AgentID
	})

	if len(snapshot) > limit {
		snapshot = snapshot[:limit]
	}
	for i := range snapshot {
		snapshot[i].Rank = i + 1
	}
	return snapshot, nil
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.agents)
}

func (s *MemoryStore) EnsureProfile(_ context.Context, agentID, name string) (model.AgentProfile, error) {
	rec, _ := s.record(agentID, true)
	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.profile.AgentID == "" {
		rec.profile = *skills.NewProfile(agentID, name, "", s.now())
	} else if name != "" && rec.profile.Name == "" {
		rec.profile.Name = name
	}
	return copyProfile(rec.profile), nil
}

func (s *MemoryStore) Profile(_ context.Context, agentID string) (model.AgentProfile, error) {
	rec, ok := s.record(agentID, false)
	if !ok {
		return model.AgentProfile{}, fmt.Errorf("%w: %s", ErrAgentNotFound, agentID)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.profile.AgentID == "" {
		return model.AgentProfile{}, fmt.Errorf("%w: %s", ErrAgentNotFound, agentID)
	}
	return copyProfile(rec.profile), nil
}

func (s *MemoryStore) MutateProfile(_ context.Context, agentID string, mutate func(*model.AgentProfile) error) (model.AgentProfile, error) {
	rec, ok := s.record(agentID, false)
	if !ok {
		return model.AgentProfile{}, fmt.Errorf("%w: %s", ErrAgentNotFound, agentID)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.profile.AgentID == "" {
		return model.AgentProfile{}, fmt.Errorf("%w: %s", ErrAgentNotFound, agentID)
	}

	if err := mutate(&rec.profile); err != nil {
		return model.AgentProfile{}, err
	}
	rec.profile.LastUpdated = s.now()
	return copyProfile(rec.profile), nil
}

func (s *MemoryStore) CreatePlan(_ context.Context, plan model.TrainingPlan) error {
	s.planMu.Lock()
	defer s.planMu.Unlock()

	for _, id := range s.agentPlans[plan.AgentID] {
		if existing := s.plans[id]; existing.Status == model.PlanActive {
			existing.Status = model.PlanCompleted
		}
	}

	stored := copyPlan(plan)
	s.plans[plan.ID] = &stored
	s.agentPlans[plan.AgentID] = append(s.agentPlans[plan.AgentID], plan.ID)
	return nil
}

func (s *MemoryStore) Plan(_ context.Context, planID string) (model.TrainingPlan, error) {
	s.planMu.Lock()
	defer s.planMu.Unlock()

	plan, ok := s.plans[planID]
	if !ok {
		return model.TrainingPlan{}, fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}
	return copyPlan(*plan), nil
}

func (s *MemoryStore) ActivePlan(_ context.Context, agentID string) (model.TrainingPlan, error) {
	s.planMu.Lock()
	defer s.planMu.Unlock()

	for _, id := range s.agentPlans[agentID] {
		if plan := s.plans[id]; plan.Status == model.PlanActive {
			return copyPlan(*plan), nil
		}
	}
	return model.TrainingPlan{}, fmt.Errorf("%w: no active plan for agent %s", ErrPlanNotFound, agentID)
}

func (s *MemoryStore) AgentPlans(_ context.Context, agentID string) ([]model.TrainingPlan, error) {
	s.planMu.Lock()
	defer s.planMu.Unlock()

	ids := s.agentPlans[agentID]
	out := make([]model.TrainingPlan, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, copyPlan(*s.plans[ids[i]]))
	}
	return out, nil
}

func (s *MemoryStore) MutatePlan(_ context.Context, planID string, mutate func(*model.TrainingPlan) error) (model.TrainingPlan, error) {
	s.planMu.Lock()
	defer s.planMu.Unlock()

	plan, ok := s.plans[planID]
	if !ok {
		return model.TrainingPlan{}, fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}
	if err := mutate(plan); err != nil {
		return model.TrainingPlan{}, err
	}
	return copyPlan(*plan), nil
}

// roundAverage keeps averages stable at two decimal places so the
// leaderboard ordering does not flap on float noise.
func roundAverage(v float64) float64 {
	return math.Round(v*100) / 100
}

func historyScores(history []model.ScoreRecord) []int {
	scores := make([]int, len(history))
	for i, rec := range history {
		scores[i] = rec.Score
	}
	return scores
}

func copyMetrics(m model.AgentMetrics) model.AgentMetrics {
	out := m
	out.ScoreHistory = append([]model.ScoreRecord(nil), m.ScoreHistory...)
	return out
}

// copyPlan detaches a plan from the stored one so callers never share
// backing arrays with a concurrent MutatePlan.
func copyPlan(p model.TrainingPlan) model.TrainingPlan {
	out := p
	out.Objectives = append([]string(nil), p.Objectives...)
	out.Assessments = append([]string(nil), p.Assessments...)
	out.Weeks = append([]model.PlanWeek(nil), p.Weeks...)
	for i := range out.Weeks {
		out.Weeks[i].Activities = append([]string(nil), p.Weeks[i].Activities...)
		out.Weeks[i].Goals = append([]string(nil), p.Weeks[i].Goals...)
	}
	out.Resources.Scripts = append([]model.Resource(nil), p.Resources.Scripts...)
	out.Resources.Scenarios = append([]model.Resource(nil), p.Resources.Scenarios...)
	out.Resources.Readings = append([]model.Resource(nil), p.Resources.Readings...)
	out.Resources.Videos = append([]model.Resource(nil), p.Resources.Videos...)
	out.Progress.CompletedActivities = append([]string(nil), p.Progress.CompletedActivities...)
	out.Progress.Checkpoints = append([]model.Checkpoint(nil), p.Progress.Checkpoints...)
	out.Gamification.Badges = append([]string(nil), p.Gamification.Badges...)
	return out
}

func copyProfile(p model.AgentProfile) model.AgentProfile {
	out := p
	out.Skills = p.Skills.Clone()
	out.HistoricalPerformance = append([]model.PerformanceSnapshot(nil), p.HistoricalPerformance...)
	out.Challenges = append([]model.Challenge(nil), p.Challenges...)
	out.AIInsights.Strengths = append([]string(nil), p.AIInsights.Strengths...)
	out.AIInsights.Weaknesses = append([]string(nil), p.AIInsights.Weaknesses...)
	out.Interventions = append([]model.InterventionRecord(nil), p.Interventions...)
	return out
}
