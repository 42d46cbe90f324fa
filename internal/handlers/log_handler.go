package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"carebridge/internal/core"
	"carebridge/internal/models"
)

// LogHandler handles ledger endpoints
type LogHandler struct {
	engine *core.Engine
}

// NewLogHandler creates a new log handler
func NewLogHandler(engine *core.Engine) *LogHandler {
	return &LogHandler{engine: engine}
}

type appendLogRequest struct {
	ChildID      string             `json:"childId"`
	Timestamp    time.Time          `json:"timestamp"`
	Type         models.LogType     `json:"type"`
	MoodLevel    models.MoodLevel   `json:"moodLevel"`
	ActivityName string             `json:"activityName"`
	StressLevel  models.StressLevel `json:"stressLevel"`
	Details      string             `json:"details"`
	SleepQuality int                `json:"sleepQuality"`
}

// Append adds one ledger entry. The author fields come from the
// session, never the request body; an omitted childId targets the
// active child.
func (h *LogHandler) Append(w http.ResponseWriter, r *http.Request) {
	var req appendLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	user := GetUserFromContext(r.Context())
	childID := req.ChildID
	if childID == "" {
		active, ok := h.engine.ActiveChild()
		if !ok {
			respondWithEngineError(w, core.ErrNoActiveChild)
			return
		}
		childID = active.ID
	}

	entry, err := h.engine.AppendLog(models.LogEntry{
		ChildID:      childID,
		Timestamp:    req.Timestamp,
		Type:         req.Type,
		AuthorRole:   user.Role,
		AuthorName:   user.Name,
		MoodLevel:    req.MoodLevel,
		ActivityName: req.ActivityName,
		StressLevel:  req.StressLevel,
		Details:      req.Details,
		SleepQuality: req.SleepQuality,
	})
	if err != nil {
		respondWithEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// List returns a child's entries in chronological order. An omitted
// childId query parameter targets the active child.
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	childID := r.URL.Query().Get("childId")
	if childID == "" {
		active, ok := h.engine.ActiveChild()
		if !ok {
			respondWithEngineError(w, core.ErrNoActiveChild)
			return
		}
		childID = active.ID
	}

	if !h.visible(childID) {
		respondWithEngineError(w, core.ErrChildNotVisible)
		return
	}
	writeJSON(w, http.StatusOK, h.engine.LogsByChild(childID))
}

type importRequest struct {
	ChildID string `json:"childId"`
	CSV     string `json:"csv"`
}

// Import appends the parseable rows of a CSV block to a child's
// ledger and reports how many were accepted.
func (h *LogHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	childID := req.ChildID
	if childID == "" {
		active, ok := h.engine.ActiveChild()
		if !ok {
			respondWithEngineError(w, core.ErrNoActiveChild)
			return
		}
		childID = active.ID
	}

	imported, err := h.engine.ImportLogs(childID, req.CSV)
	if err != nil {
		respondWithEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": imported})
}

func (h *LogHandler) visible(childID string) bool {
	for _, c := range h.engine.VisibleChildren() {
		if c.ID == childID {
			return true
		}
	}
	return false
}
