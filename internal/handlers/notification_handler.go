package handlers

import (
	"net/http"

	"carebridge/internal/core"
)

// NotificationHandler handles the transient notification endpoints
type NotificationHandler struct {
	notifier *core.NotificationCenter
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifier *core.NotificationCenter) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// List returns the active notifications in raise order.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.notifier.Active())
}

// Dismiss removes a notification. Dismissing an already-expired id is
// still a success.
func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.notifier.Dismiss(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}
