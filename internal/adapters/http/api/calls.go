// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	service "github.com/oakmontrealty/voicrm-coaching/internal/app"
)

// CallsHandler handles call submission and synchronous scoring.
type CallsHandler struct {
	deps Dependencies
}

// NewCallsHandler creates a new calls handler.
func NewCallsHandler(deps Dependencies) *CallsHandler {
	return &CallsHandler{deps: deps}
}

// HandlePostCall handles POST /calls requests, queuing the call for
// asynchronous scoring.
func (h *CallsHandler) HandlePostCall(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_call"
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

	switch h.deps.SubmitCall(r.Context(), req.toEvent()) {
	case service.SubmitDuplicate:
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
	case service.SubmitBackpressure:
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
	default:
		writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
	}
}

// HandleScoreCall handles POST /calls/score requests, scoring the call
// inline and returning the full result.
func (h *CallsHandler) HandleScoreCall(w http.ResponseWriter, r *http.Request) {
	const op = "api.score_call"
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

	result, err := h.deps.ScoreCall(r.Context(), req.toEvent())
	if err != nil {
		writeError(w, http.StatusBadGateway, "scoring_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
