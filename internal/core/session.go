package core

import (
	"github.com/google/uuid"

	"carebridge/internal/models"
)

// Login accepts an asserted identity and makes it the current user.
// Identity is not verified. Any previous session state for predictions
// is left intact; the active-child selection rule runs immediately.
func (e *Engine) Login(user models.User) (models.User, error) {
	if err := user.Validate(); err != nil {
		return models.User{}, err
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	e.mu.Lock()
	e.user = &user
	e.ensureSelectionLocked()
	err := e.store.SaveUser(&user)
	e.mu.Unlock()

	persist("user", err)
	return user, nil
}

// Logout tears the session down: no current user, no active child, no
// retained predictions. The durable user blob is removed.
func (e *Engine) Logout() {
	e.mu.Lock()
	e.user = nil
	e.activeChild = ""
	e.latest = make(map[string]*models.Prediction)
	// Bump generations so any in-flight oracle result is discarded.
	for _, a := range e.assessments {
		a.generation++
		a.state = assessmentIdle
	}
	e.assessments = make(map[string]*assessment)
	err := e.store.SaveUser(nil)
	e.mu.Unlock()

	persist("user", err)
}

// CurrentUser returns a copy of the logged-in user, or nil when the
// system is in its unauthenticated state.
func (e *Engine) CurrentUser() *models.User {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.user == nil {
		return nil
	}
	u := *e.user
	return &u
}

// ActiveChild returns the currently selected child profile.
func (e *Engine) ActiveChild() (models.ChildProfile, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c := e.findChildLocked(e.activeChild); c != nil {
		return *c, true
	}
	return models.ChildProfile{}, false
}

// VisibleChildren returns the children the current user may see: all
// profiles for a parent, connected profiles for an educator. Connection
// ids that no longer resolve are skipped.
func (e *Engine) VisibleChildren() []models.ChildProfile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visibleChildrenLocked()
}

func (e *Engine) visibleChildrenLocked() []models.ChildProfile {
	if e.user == nil {
		return nil
	}
	if e.user.Role == models.RoleParent {
		return append([]models.ChildProfile(nil), e.children...)
	}
	out := make([]models.ChildProfile, 0, len(e.connections))
	for _, id := range e.connections {
		if c := e.findChildLocked(id); c != nil {
			out = append(out, *c)
		}
	}
	return out
}

// SwitchChild changes the active selection to another visible child and
// resets that child's assessment bookkeeping.
func (e *Engine) SwitchChild(id string) error {
	e.mu.Lock()
	if e.user == nil {
		e.mu.Unlock()
		return ErrNotAuthenticated
	}
	visible := false
	for _, c := range e.visibleChildrenLocked() {
		if c.ID == id {
			visible = true
			break
		}
	}
	if !visible {
		e.mu.Unlock()
		return ErrChildNotVisible
	}
	if e.activeChild != id {
		// An in-flight attempt keeps its record: dropping it would let a
		// second call start for the same child and recycle a generation
		// the outstanding job still holds. Only the cadence bookkeeping
		// starts fresh.
		if a, ok := e.assessments[id]; ok && a.state == assessmentAssessing {
			a.lastAttempt = 0
			a.succeeded = false
		} else {
			delete(e.assessments, id)
		}
	}
	e.activeChild = id
	job := e.maybeTriggerLocked(id)
	e.mu.Unlock()

	e.startAssessment(job)
	return nil
}

// UpsertChild inserts a profile when its id is unseen, otherwise fully
// replaces the existing record. Fields are never merged. The invite
// code is issued exactly once at creation and survives replacement.
func (e *Engine) UpsertChild(profile models.ChildProfile) (models.ChildProfile, error) {
	if err := profile.Validate(); err != nil {
		return models.ChildProfile{}, err
	}

	e.mu.Lock()

	replaced := false
	if profile.ID != "" {
		if existing := e.findChildLocked(profile.ID); existing != nil {
			// Replace-by-id; the issued invite code is immutable.
			profile.InviteCode = existing.InviteCode
			*existing = profile
			replaced = true
		}
	}
	if !replaced {
		if profile.ID == "" {
			profile.ID = uuid.New().String()
		}
		code, err := e.issueInviteCodeLocked(profile)
		if err != nil {
			e.mu.Unlock()
			return models.ChildProfile{}, err
		}
		profile.InviteCode = code
		e.children = append(e.children, profile)
	}
	e.activeChild = profile.ID
	err := e.store.SaveChildren(e.children)
	e.mu.Unlock()

	persist("children", err)
	return profile, nil
}

// DeleteChild removes a child and cascades: its log entries are purged
// and any educator connection to it is pruned. The new state is
// computed in full and swapped, so a dangling reference can never be
// observed, then flushed as a single snapshot.
func (e *Engine) DeleteChild(id string) error {
	e.mu.Lock()
	if e.findChildLocked(id) == nil {
		e.mu.Unlock()
		return ErrChildNotFound
	}

	children := make([]models.ChildProfile, 0, len(e.children)-1)
	for _, c := range e.children {
		if c.ID != id {
			children = append(children, c)
		}
	}
	logs := make([]models.LogEntry, 0, len(e.logs))
	for _, l := range e.logs {
		if l.ChildID != id {
			logs = append(logs, l)
		}
	}
	connections := make([]string, 0, len(e.connections))
	for _, c := range e.connections {
		if c != id {
			connections = append(connections, c)
		}
	}

	e.children = children
	e.logs = logs
	e.connections = connections
	delete(e.latest, id)
	if a, ok := e.assessments[id]; ok {
		a.generation++
		delete(e.assessments, id)
	}
	if e.activeChild == id {
		e.activeChild = ""
	}
	e.ensureSelectionLocked()

	err := e.store.SaveSnapshot(e.children, e.logs, e.connections)
	e.mu.Unlock()

	persist("snapshot", err)
	return nil
}
