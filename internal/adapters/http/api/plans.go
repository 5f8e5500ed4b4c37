// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
)

// PlansHandler handles plan lookup requests.
type PlansHandler struct {
	deps Dependencies
}

// NewPlansHandler creates a new plans handler.
func NewPlansHandler(deps Dependencies) *PlansHandler {
	return &PlansHandler{deps: deps}
}

// HandleGetPlan handles GET /plans/{plan_id} requests.
func (h *PlansHandler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	planID := strings.TrimPrefix(r.URL.Path, "/plans/")
	if planID == "" || strings.Contains(planID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	plan, err := h.deps.TrainingPlan(r.Context(), planID)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
