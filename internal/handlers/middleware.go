package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"carebridge/internal/core"
	"carebridge/internal/models"
	"carebridge/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const UserContextKey ContextKey = "user"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	engine *core.Engine
	issuer *security.TokenIssuer
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(engine *core.Engine, issuer *security.TokenIssuer) *Middleware {
	return &Middleware{engine: engine, issuer: issuer}
}

// RequireSession validates the session token and checks it names the
// engine's current user. There is one session at a time; a stale token
// from before a logout or a later login is rejected.
func (m *Middleware) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
			return
		}

		claims, err := m.issuer.ParseToken(token)
		if err != nil {
			http.SetCookie(w, security.CreateDeleteCookie(r))
			respondWithError(w, http.StatusUnauthorized, "Invalid session", "", nil)
			return
		}

		user := m.engine.CurrentUser()
		if user == nil || user.ID != claims.Subject {
			http.SetCookie(w, security.CreateDeleteCookie(r))
			respondWithError(w, http.StatusUnauthorized, "Session is no longer active", "", nil)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// RequireParent restricts a route to the parent role.
func (m *Middleware) RequireParent(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireSession(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil || user.Role != models.RoleParent {
			respondWithError(w, http.StatusForbidden, "Parent role required", "", nil)
			return
		}
		next(w, r)
	})
}

// RequireEducator restricts a route to the educator role.
func (m *Middleware) RequireEducator(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireSession(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil || user.Role != models.RoleEducator {
			respondWithError(w, http.StatusForbidden, "Educator role required", "", nil)
			return
		}
		next(w, r)
	})
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// extractToken pulls the session token from the cookie or, failing
// that, an Authorization bearer header.
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
