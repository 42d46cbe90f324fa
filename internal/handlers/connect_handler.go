package handlers

import (
	"encoding/json"
	"net/http"

	"carebridge/internal/core"
)

// ConnectHandler handles invite-code redemption
type ConnectHandler struct {
	engine *core.Engine
}

// NewConnectHandler creates a new connect handler
func NewConnectHandler(engine *core.Engine) *ConnectHandler {
	return &ConnectHandler{engine: engine}
}

type connectRequest struct {
	Code string `json:"code"`
}

// Connect redeems an invite code, connecting the current user to the
// child it names and selecting that child.
func (h *ConnectHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	child, err := h.engine.Redeem(req.Code)
	if err != nil {
		respondWithEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, childViewFor(GetUserFromContext(r.Context()), child))
}
