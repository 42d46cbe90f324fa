package models

import (
	"errors"
	"strings"
)

var (
	ErrChildNameRequired = errors.New("child name is required")
	ErrInvalidAge        = errors.New("age must be between 0 and 18")
)

// ChildProfile is a child record owned by the parent who created it.
// Educators only ever read it, via a redeemed invite code. The invite
// code is generated once at creation, normalized to uppercase, unique
// across live profiles, and never rotated.
type ChildProfile struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Age              int    `json:"age"`
	CareNotes        string `json:"careNotes"`
	InviteCode       string `json:"inviteCode"`
	ParentName       string `json:"parentName"`
	EmergencyContact string `json:"emergencyContact"`
}

// Validate checks the caller-editable fields of a profile.
func (c *ChildProfile) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrChildNameRequired
	}
	if c.Age < 0 || c.Age > 18 {
		return ErrInvalidAge
	}
	return nil
}
