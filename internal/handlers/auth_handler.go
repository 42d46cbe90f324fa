package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"carebridge/internal/core"
	"carebridge/internal/models"
	"carebridge/internal/security"
)

// AuthHandler handles the asserted-identity session endpoints
type AuthHandler struct {
	engine *core.Engine
	issuer *security.TokenIssuer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(engine *core.Engine, issuer *security.TokenIssuer) *AuthHandler {
	return &AuthHandler{engine: engine, issuer: issuer}
}

type loginRequest struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// Login accepts an asserted identity and opens the session. Identity
// is not verified; logging in replaces any previous session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	user, err := h.engine.Login(models.User{Name: req.Name, Email: req.Email, Role: req.Role})
	if err != nil {
		respondWithEngineError(w, err)
		return
	}

	token, err := h.issuer.IssueToken(user)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to issue session token", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, token, time.Now().Add(h.issuer.Duration())))
	writeJSON(w, http.StatusOK, sessionViewFor(h.engine, &user))
}

// Logout closes the session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.engine.Logout()
	http.SetCookie(w, security.CreateDeleteCookie(r))
	w.WriteHeader(http.StatusNoContent)
}

// Session returns the current session view.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	writeJSON(w, http.StatusOK, sessionViewFor(h.engine, user))
}
