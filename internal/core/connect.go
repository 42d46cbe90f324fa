package core

import (
	"fmt"

	"carebridge/internal/invitecode"
	"carebridge/internal/models"
)

// inviteCodeRetries bounds regeneration when a fresh code collides with
// a live profile.
const inviteCodeRetries = 10

// issueInviteCodeLocked issues the profile's one-time invite code. A
// caller-supplied code is honored after normalization if no live
// profile holds it; otherwise a fresh unique code is generated.
func (e *Engine) issueInviteCodeLocked(profile models.ChildProfile) (string, error) {
	if supplied := invitecode.Normalize(profile.InviteCode); supplied != "" {
		if e.findChildByCodeLocked(supplied) != nil {
			return "", ErrInviteCodeTaken
		}
		return supplied, nil
	}

	for i := 0; i < inviteCodeRetries; i++ {
		code, err := invitecode.Generate(profile.Name)
		if err != nil {
			return "", fmt.Errorf("failed to generate invite code: %w", err)
		}
		if e.findChildByCodeLocked(code) == nil {
			return code, nil
		}
	}
	return "", ErrInviteCodeTaken
}

func (e *Engine) findChildByCodeLocked(normalized string) *models.ChildProfile {
	for i := range e.children {
		if invitecode.Normalize(e.children[i].InviteCode) == normalized {
			return &e.children[i]
		}
	}
	return nil
}

// InviteCode returns the code issued for a child.
func (e *Engine) InviteCode(childID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	child := e.findChildLocked(childID)
	if child == nil {
		return "", ErrChildNotFound
	}
	return child.InviteCode, nil
}

// Redeem looks up a child by invite code and connects the educator to
// it. Redemption is idempotent: an already-connected code is a no-op
// success. An unknown code fails without mutating any state, and the
// failure never distinguishes "never existed" from "was deleted".
func (e *Engine) Redeem(code string) (models.ChildProfile, error) {
	normalized := invitecode.Normalize(code)

	e.mu.Lock()
	child := e.findChildByCodeLocked(normalized)
	if child == nil {
		e.mu.Unlock()
		return models.ChildProfile{}, ErrInvalidInviteCode
	}
	connected := *child
	var err error
	if !e.connectedLocked(connected.ID) {
		e.connections = append(e.connections, connected.ID)
		err = e.store.SaveConnections(e.connections)
	}
	e.activeChild = connected.ID
	job := e.maybeTriggerLocked(connected.ID)
	e.mu.Unlock()

	persist("connections", err)
	e.notifier.Raise("Connected", fmt.Sprintf("Connected to %s.", connected.Name), models.SeveritySuccess)
	e.startAssessment(job)
	return connected, nil
}

// Connections returns the educator connection set in insertion order.
func (e *Engine) Connections() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.connections...)
}
