package security

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"carebridge/internal/models"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "carebridge_session"

var ErrInvalidToken = errors.New("invalid session token")

// Claims is the JWT payload identifying the current session's user.
type Claims struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer struct {
	secret   []byte
	duration time.Duration
}

func NewTokenIssuer(secret string, duration time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), duration: duration}
}

// IssueToken creates a signed session token for a user.
func (t *TokenIssuer) IssueToken(user models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.duration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// ParseToken verifies a session token and returns its claims.
func (t *TokenIssuer) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Duration returns the configured session lifetime.
func (t *TokenIssuer) Duration() time.Duration {
	return t.duration
}

// IsSecureRequest determines if the request is over HTTPS
// Checks TLS connection, X-Forwarded-Proto header (for reverse proxies), and URL scheme
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}

	// Behind reverse proxy (nginx, Caddy, load balancer, etc.)
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" {
		return true
	}

	if r.URL.Scheme == "https" {
		return true
	}

	return false
}

// CreateSessionCookie creates a session cookie with proper security flags
// The Secure flag is automatically set based on the request scheme (HTTPS detection)
func CreateSessionCookie(r *http.Request, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// CreateDeleteCookie creates a cookie for deletion with proper security flags
func CreateDeleteCookie(r *http.Request) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
	}
}
