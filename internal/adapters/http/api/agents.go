// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/oakmontrealty/voicrm-coaching/internal/domain/model"
)

// AgentsHandler serves the per-agent read and write routes under
// /agents/{agent_id}/...
type AgentsHandler struct {
	deps Dependencies
}

// NewAgentsHandler creates a new agents handler.
func NewAgentsHandler(deps Dependencies) *AgentsHandler {
	return &AgentsHandler{deps: deps}
}

// HandleAgent dispatches on the sub-resource:
//
//	GET  /agents/{id}/report
//	GET  /agents/{id}/profile
//	GET  /agents/{id}/plans
//	GET  /agents/{id}/plans/active
//	POST /agents/{id}/plans
//	POST /agents/{id}/interactions
func (h *AgentsHandler) HandleAgent(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/agents/")
	agentID, rest, _ := strings.Cut(path, "/")
	if agentID == "" || rest == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch {
	case rest == "report" && r.Method == http.MethodGet:
		h.handleReport(w, r, agentID)
	case rest == "profile" && r.Method == http.MethodGet:
		h.handleProfile(w, r, agentID)
	case rest == "plans" && r.Method == http.MethodGet:
		h.handleListPlans(w, r, agentID)
	case rest == "plans/active" && r.Method == http.MethodGet:
		h.handleActivePlan(w, r, agentID)
	case rest == "plans" && r.Method == http.MethodPost:
		h.handleCreatePlan(w, r, agentID)
	case rest == "interactions" && r.Method == http.MethodPost:
		h.handleInteraction(w, r, agentID)
	default:
		http.NotFound(w, r)
	}
}

func (h *AgentsHandler) handleReport(w http.ResponseWriter, r *http.Request, agentID string) {
	report, err := h.deps.GetAgentReport(r.Context(), agentID)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *AgentsHandler) handleProfile(w http.ResponseWriter, r *http.Request, agentID string) {
	profile, err := h.deps.Profile(r.Context(), agentID)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *AgentsHandler) handleListPlans(w http.ResponseWriter, r *http.Request, agentID string) {
	plans, err := h.deps.AgentTrainingPlans(r.Context(), agentID)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (h *AgentsHandler) handleActivePlan(w http.ResponseWriter, r *http.Request, agentID string) {
	plan, err := h.deps.ActiveTrainingPlan(r.Context(), agentID)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type createPlanRequest struct {
	Duration string `json:"duration"`
}

func (h *AgentsHandler) handleCreatePlan(w http.ResponseWriter, r *http.Request, agentID string) {
	const op = "api.create_plan"
	var req createPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	plan, err := h.deps.CreateTrainingPlan(r.Context(), agentID, model.PlanDuration(req.Duration))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (h *AgentsHandler) handleInteraction(w http.ResponseWriter, r *http.Request, agentID string) {
	const op = "api.record_interaction"
	var interaction model.CoachingInteraction
	if err := json.NewDecoder(r.Body).Decode(&interaction); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if interaction.Topic == "" && len(interaction.SkillsAddressed) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	profile, err := h.deps.RecordCoachingInteraction(r.Context(), agentID, interaction)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func writeLookupError(w http.ResponseWriter, err error) {
	if isNotFound(err) {
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err)
}
