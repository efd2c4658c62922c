package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Jshatto/asset-tracker/src/schemas"
)

// RecomputeTimeout bounds a manually triggered run.
const RecomputeTimeout = 5 * time.Minute

type recomputeResponse struct {
	Summary *schemas.RecomputeSummary `json:"summary"`
	Error   string                    `json:"error,omitempty"`
}

func (h *Handler) PostRecompute(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), RecomputeTimeout)
	defer cancel()

	summary, err := h.Controller.RunRecompute(ctx)
	if err != nil && summary == nil {
		h.HandleErrors(w, err)
		return
	}
	if err != nil {
		// Cancelled part way: report what was done.
		h.respond(w, r, recomputeResponse{Summary: summary, Error: err.Error()}, http.StatusAccepted)
		return
	}

	h.respond(w, r, recomputeResponse{Summary: summary}, http.StatusOK)
}

func (h *Handler) GetLastRun(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	summary, err := h.Controller.LastRun(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, summary, http.StatusOK)
}
