package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"carebridge/internal/core"
	"carebridge/internal/models"
)

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": userMsg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// respondWithEngineError maps an engine error to its HTTP status.
func respondWithEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotAuthenticated):
		respondWithError(w, http.StatusUnauthorized, err.Error(), "", nil)
	case errors.Is(err, core.ErrChildNotFound), errors.Is(err, core.ErrInvalidInviteCode):
		respondWithError(w, http.StatusNotFound, err.Error(), "", nil)
	case errors.Is(err, core.ErrChildNotVisible):
		respondWithError(w, http.StatusForbidden, err.Error(), "", nil)
	case errors.Is(err, core.ErrInviteCodeTaken):
		respondWithError(w, http.StatusConflict, err.Error(), "", nil)
	case errors.Is(err, core.ErrNoActiveChild),
		errors.Is(err, models.ErrInvalidRole),
		errors.Is(err, models.ErrNameRequired),
		errors.Is(err, models.ErrInvalidEmail),
		errors.Is(err, models.ErrChildNameRequired),
		errors.Is(err, models.ErrInvalidAge),
		errors.Is(err, models.ErrInvalidLogType),
		errors.Is(err, models.ErrChildIDRequired),
		errors.Is(err, models.ErrInvalidMoodLevel),
		errors.Is(err, models.ErrInvalidStressLevel),
		errors.Is(err, models.ErrInvalidSleepQuality),
		errors.Is(err, models.ErrSleepParentOnly):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Unhandled engine error", err)
	}
}
