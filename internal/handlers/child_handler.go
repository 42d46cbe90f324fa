package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/skip2/go-qrcode"

	"carebridge/internal/core"
	"carebridge/internal/models"
)

// ChildHandler handles child profile endpoints
type ChildHandler struct {
	engine *core.Engine
}

// NewChildHandler creates a new child handler
func NewChildHandler(engine *core.Engine) *ChildHandler {
	return &ChildHandler{engine: engine}
}

// List returns the children visible to the current user.
func (h *ChildHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	views := []ChildView{}
	for _, c := range h.engine.VisibleChildren() {
		views = append(views, childViewFor(user, c))
	}
	writeJSON(w, http.StatusOK, views)
}

type childRequest struct {
	Name             string `json:"name"`
	Age              int    `json:"age"`
	CareNotes        string `json:"careNotes"`
	ParentName       string `json:"parentName"`
	EmergencyContact string `json:"emergencyContact"`
	InviteCode       string `json:"inviteCode"`
}

// Create adds a child profile. A supplied invite code is honored if
// unique; otherwise one is generated from the child's name.
func (h *ChildHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req childRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	child, err := h.engine.UpsertChild(models.ChildProfile{
		Name:             req.Name,
		Age:              req.Age,
		CareNotes:        req.CareNotes,
		ParentName:       req.ParentName,
		EmergencyContact: req.EmergencyContact,
		InviteCode:       req.InviteCode,
	})
	if err != nil {
		respondWithEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, childViewFor(GetUserFromContext(r.Context()), child))
}

// Update fully replaces a child profile. The invite code issued at
// creation is kept regardless of the request body.
func (h *ChildHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req childRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	if _, err := h.engine.InviteCode(id); err != nil {
		respondWithEngineError(w, err)
		return
	}
	child, err := h.engine.UpsertChild(models.ChildProfile{
		ID:               id,
		Name:             req.Name,
		Age:              req.Age,
		CareNotes:        req.CareNotes,
		ParentName:       req.ParentName,
		EmergencyContact: req.EmergencyContact,
	})
	if err != nil {
		respondWithEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, childViewFor(GetUserFromContext(r.Context()), child))
}

// Delete removes a child and everything that references it.
func (h *ChildHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.DeleteChild(r.PathValue("id")); err != nil {
		respondWithEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Select switches the active child.
func (h *ChildHandler) Select(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.SwitchChild(r.PathValue("id")); err != nil {
		respondWithEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionViewFor(h.engine, GetUserFromContext(r.Context())))
}

// Invite returns a child's invite code.
func (h *ChildHandler) Invite(w http.ResponseWriter, r *http.Request) {
	code, err := h.engine.InviteCode(r.PathValue("id"))
	if err != nil {
		respondWithEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"inviteCode": code})
}

// InviteQR renders a child's invite code as a PNG so a parent can show
// it to an educator for scanning.
func (h *ChildHandler) InviteQR(w http.ResponseWriter, r *http.Request) {
	code, err := h.engine.InviteCode(r.PathValue("id"))
	if err != nil {
		respondWithEngineError(w, err)
		return
	}

	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to render QR code", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
