// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
)

// CoachingHandler handles coaching generation requests.
type CoachingHandler struct {
	deps Dependencies
}

// NewCoachingHandler creates a new coaching handler.
func NewCoachingHandler(deps Dependencies) *CoachingHandler {
	return &CoachingHandler{deps: deps}
}

// HandleGenerateCoaching handles POST /coaching requests. The live flag
// on the request marks in-progress calls, unlocking immediate
// interventions.
func (h *CoachingHandler) HandleGenerateCoaching(w http.ResponseWriter, r *http.Request) {
	const op = "api.generate_coaching"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req callRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	response, err := h.deps.GenerateCoaching(r.Context(), req.toEvent(), req.Live)
	if err != nil {
		if response.Fallback {
			// the generic record was persisted; deliver it rather than
			// dropping coaching on an analyzer outage
			writeJSON(w, http.StatusOK, response)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}
