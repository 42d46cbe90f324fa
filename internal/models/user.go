package models

import (
	"errors"
	"strings"
)

// Role identifies which side of the care relationship a user is on.
type Role string

const (
	RoleParent   Role = "Parent"
	RoleEducator Role = "Educator"
)

var (
	ErrInvalidRole  = errors.New("role must be Parent or Educator")
	ErrNameRequired = errors.New("name is required")
	ErrInvalidEmail = errors.New("a valid email address is required")
)

// Valid reports whether the role is one of the two supported roles.
func (r Role) Valid() bool {
	return r == RoleParent || r == RoleEducator
}

// User is the asserted identity of the caregiver currently using the
// system. Identity is not verified; there is exactly one current user
// per session and no retained history after logout.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Validate checks the asserted identity fields.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrNameRequired
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// ValidateEmail performs a minimal shape check on an email address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return ErrInvalidEmail
	}
	if !strings.Contains(email[at+1:], ".") {
		return ErrInvalidEmail
	}
	return nil
}
