package handlers

import (
	"net/http"

	"carebridge/internal/core"
)

// RiskHandler handles risk assessment endpoints
type RiskHandler struct {
	engine *core.Engine
}

// NewRiskHandler creates a new risk handler
func NewRiskHandler(engine *core.Engine) *RiskHandler {
	return &RiskHandler{engine: engine}
}

// Latest returns the scheduler state and the latest prediction for the
// active child, if one has settled this session.
func (h *RiskHandler) Latest(w http.ResponseWriter, r *http.Request) {
	view := RiskView{Status: h.engine.AssessmentStatus()}
	if p, ok := h.engine.LatestPrediction(); ok {
		view.Prediction = &p
	}
	writeJSON(w, http.StatusOK, view)
}

// Refresh starts an assessment for the active child regardless of
// cadence. It returns immediately; the result arrives on a later poll.
func (h *RiskHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.RefreshAssessment(); err != nil {
		respondWithEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, RiskView{Status: h.engine.AssessmentStatus()})
}
