// Package core is the care-coordination state engine: the entity store
// linking the current user, child profiles and the educator connection
// set; the append-only log ledger; the invite-code connection protocol;
// the risk-assessment scheduler; and the notification center.
//
// All state mutation happens under one lock, so no interleaving of two
// mutations is ever observable. The only suspending operation is the
// oracle call, which runs off-lock and delivers its result as a later,
// separate state update. Durable writes are best-effort: a storage
// failure is logged and the in-memory state remains the source of truth
// for the session.
package core

import (
	"errors"
	"log"
	"sync"
	"time"

	"carebridge/internal/models"
	"carebridge/internal/oracle"
)

var (
	ErrNotAuthenticated  = errors.New("no user is logged in")
	ErrNoActiveChild     = errors.New("no child is currently selected")
	ErrChildNotFound     = errors.New("child not found")
	ErrChildNotVisible   = errors.New("child is not in the current user's view")
	ErrInvalidInviteCode = errors.New("invalid invite code")
	ErrInviteCodeTaken   = errors.New("invite code is already in use")
)

// StateStore is the durable storage boundary: four independently-keyed
// blobs rewritten in full on every corresponding in-memory change.
type StateStore interface {
	SaveUser(user *models.User) error
	SaveChildren(children []models.ChildProfile) error
	SaveLogs(logs []models.LogEntry) error
	SaveConnections(ids []string) error

	// SaveSnapshot writes children, logs and connections together,
	// used by the cascade delete.
	SaveSnapshot(children []models.ChildProfile, logs []models.LogEntry, ids []string) error
}

// InitialState carries the blobs loaded once at startup.
type InitialState struct {
	User        *models.User
	Children    []models.ChildProfile
	Logs        []models.LogEntry
	Connections []string
}

// Engine holds the session state and enforces its invariants.
type Engine struct {
	mu sync.Mutex

	store    StateStore
	oracle   oracle.Client
	notifier *NotificationCenter

	user        *models.User
	children    []models.ChildProfile
	logs        []models.LogEntry
	connections []string
	activeChild string

	assessments map[string]*assessment
	latest      map[string]*models.Prediction

	now      func() time.Time
	runAsync func(func())
}

// NewEngine builds an engine around previously loaded state. Connection
// ids that no longer resolve to a child are pruned so readers never see
// a dangling reference.
func NewEngine(store StateStore, oracleClient oracle.Client, notifier *NotificationCenter, initial InitialState) *Engine {
	e := &Engine{
		store:       store,
		oracle:      oracleClient,
		notifier:    notifier,
		user:        initial.User,
		children:    append([]models.ChildProfile(nil), initial.Children...),
		logs:        append([]models.LogEntry(nil), initial.Logs...),
		assessments: make(map[string]*assessment),
		latest:      make(map[string]*models.Prediction),
		now:         time.Now,
		runAsync:    func(f func()) { go f() },
	}
	e.connections = e.resolvableLocked(initial.Connections)
	if e.user != nil {
		e.ensureSelectionLocked()
	}
	return e
}

// resolvableLocked filters a connection id list down to ids that still
// resolve to a live child profile.
func (e *Engine) resolvableLocked(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if e.findChildLocked(id) != nil {
			out = append(out, id)
		}
	}
	return out
}

func (e *Engine) findChildLocked(id string) *models.ChildProfile {
	for i := range e.children {
		if e.children[i].ID == id {
			return &e.children[i]
		}
	}
	return nil
}

func (e *Engine) connectedLocked(id string) bool {
	for _, c := range e.connections {
		if c == id {
			return true
		}
	}
	return false
}

// ensureSelectionLocked applies the deterministic active-child rule:
// when nothing is selected, a parent gets the first child in creation
// order and an educator the first id in the connection set. An existing
// selection is sticky and never recomputed.
func (e *Engine) ensureSelectionLocked() {
	if e.user == nil {
		e.activeChild = ""
		return
	}
	if e.activeChild != "" && e.findChildLocked(e.activeChild) != nil {
		return
	}
	e.activeChild = ""
	if e.user.Role == models.RoleEducator {
		if len(e.connections) > 0 {
			e.activeChild = e.connections[0]
		}
		return
	}
	if len(e.children) > 0 {
		e.activeChild = e.children[0].ID
	}
}

// persist logs and swallows a storage-write failure; the session
// continues on in-memory state.
func persist(what string, err error) {
	if err != nil {
		log.Printf("Storage write for %s failed, continuing in memory: %v", what, err)
	}
}
