// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	service "github.com/oakmontrealty/voicrm-coaching/internal/app"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SubmitCall(ctx context.Context, event model.CallEvent) service.SubmitResult
	ScoreCall(ctx context.Context, event model.CallEvent) (model.CallScoreResult, error)
	GetAgentReport(ctx context.Context, agentID string) (model.AgentReport, error)
	TeamLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	GenerateCoaching(ctx context.Context, event model.CallEvent, callLive bool) (model.CoachingResponse, error)
	CreateTrainingPlan(ctx context.Context, agentID string, duration model.PlanDuration) (model.TrainingPlan, error)
	RecordCoachingInteraction(ctx context.Context, agentID string, interaction model.CoachingInteraction) (model.AgentProfile, error)
	Profile(ctx context.Context, agentID string) (model.AgentProfile, error)
	TrainingPlan(ctx context.Context, planID string) (model.TrainingPlan, error)
	ActiveTrainingPlan(ctx context.Context, agentID string) (model.TrainingPlan, error)
	AgentTrainingPlans(ctx context.Context, agentID string) ([]model.TrainingPlan, error)
	OperationalStats(ctx context.Context) service.Stats
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = model.LeaderboardEntry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	callsHandler       *CallsHandler
	agentsHandler      *AgentsHandler
	leaderboardHandler *LeaderboardHandler
	coachingHandler    *CoachingHandler
	plansHandler       *PlansHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		callsHandler:       NewCallsHandler(deps),
		agentsHandler:      NewAgentsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
		coachingHandler:    NewCoachingHandler(deps),
		plansHandler:       NewPlansHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/calls", MetricsMiddleware(s.callsHandler.HandlePostCall, "calls"))
	mux.HandleFunc("/calls/score", MetricsMiddleware(s.callsHandler.HandleScoreCall, "calls_score"))
	mux.HandleFunc("/coaching", MetricsMiddleware(s.coachingHandler.HandleGenerateCoaching, "coaching"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/agents/", MetricsMiddleware(s.agentsHandler.HandleAgent, "agents"))
	mux.HandleFunc("/plans/", MetricsMiddleware(s.plansHandler.HandleGetPlan, "plans"))
}

// callRequest mirrors the wire schema for call submissions.
type callRequest struct {
	CallID          string `json:"call_id"`
	AgentID         string `json:"agent_id"`
	AgentName       string `json:"agent_name"`
	Transcript      string `json:"transcript"`
	DurationSeconds int    `json:"duration_seconds"`
	TS              string `json:"ts"`
	Live            bool   `json:"live"`
}

func (c callRequest) validate() error {
	switch {
	case strings.TrimSpace(c.CallID) == "":
		return errors.New("missing call_id")
	case strings.TrimSpace(c.AgentID) == "":
		return errors.New("missing agent_id")
	case strings.TrimSpace(c.Transcript) == "":
		return errors.New("missing transcript")
	case c.DurationSeconds < 0:
		return errors.New("negative duration_seconds")
	}
	if c.TS != "" {
		if _, err := time.Parse(time.RFC3339, c.TS); err != nil {
			return errors.New("invalid ts; must be RFC3339")
		}
	}
	return nil
}

func (c callRequest) toEvent() model.CallEvent {
	event := model.CallEvent{
		CallID:          c.CallID,
		AgentID:         c.AgentID,
		AgentName:       c.AgentName,
		Transcript:      c.Transcript,
		DurationSeconds: c.DurationSeconds,
	}
	if c.TS != "" {
		event.TS, _ = time.Parse(time.RFC3339, c.TS)
	}
	return event
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
