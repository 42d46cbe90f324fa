package security

import (
	"net/http/httptest"
	"testing"
	"time"

	"carebridge/internal/models"
)

func TestIssueAndParseToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	user := models.User{ID: "u1", Name: "Sarah", Email: "sarah@example.com", Role: models.RoleParent}

	token, err := issuer.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken() error: %v", err)
	}

	claims, err := issuer.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error: %v", err)
	}
	if claims.Subject != "u1" || claims.Name != "Sarah" || claims.Role != models.RoleParent {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a", time.Hour).IssueToken(models.User{ID: "u1", Name: "A", Email: "a@b.com", Role: models.RoleParent})
	if err != nil {
		t.Fatalf("IssueToken() error: %v", err)
	}

	if _, err := NewTokenIssuer("secret-b", time.Hour).ParseToken(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)
	token, err := issuer.IssueToken(models.User{ID: "u1", Name: "A", Email: "a@b.com", Role: models.RoleParent})
	if err != nil {
		t.Fatalf("IssueToken() error: %v", err)
	}

	if _, err := issuer.ParseToken(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	if _, err := issuer.ParseToken("not-a-token"); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestIsSecureRequest(t *testing.T) {
	plain := httptest.NewRequest("GET", "http://example.com/", nil)
	if IsSecureRequest(plain) {
		t.Error("plain HTTP request reported secure")
	}

	forwarded := httptest.NewRequest("GET", "http://example.com/", nil)
	forwarded.Header.Set("X-Forwarded-Proto", "https")
	if !IsSecureRequest(forwarded) {
		t.Error("X-Forwarded-Proto https should report secure")
	}
}

func TestSessionCookieFlags(t *testing.T) {
	r := httptest.NewRequest("GET", "http://example.com/", nil)
	cookie := CreateSessionCookie(r, "token", time.Now().Add(time.Hour))

	if cookie.Name != SessionCookieName || !cookie.HttpOnly || cookie.Path != "/" {
		t.Errorf("cookie = %+v", cookie)
	}

	deleted := CreateDeleteCookie(r)
	if deleted.MaxAge != -1 || deleted.Value != "" {
		t.Errorf("delete cookie = %+v", deleted)
	}
}
