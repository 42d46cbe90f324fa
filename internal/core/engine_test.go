package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"carebridge/internal/models"
)

// fakeStore records which blobs were written and can be made to fail.
type fakeStore struct {
	mu    sync.Mutex
	saves []string
	fail  bool
}

func (s *fakeStore) record(what string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves = append(s.saves, what)
	if s.fail {
		return context.DeadlineExceeded
	}
	return nil
}

func (s *fakeStore) SaveUser(*models.User) error             { return s.record("user") }
func (s *fakeStore) SaveChildren([]models.ChildProfile) error { return s.record("children") }
func (s *fakeStore) SaveLogs([]models.LogEntry) error         { return s.record("logs") }
func (s *fakeStore) SaveConnections([]string) error           { return s.record("connections") }
func (s *fakeStore) SaveSnapshot([]models.ChildProfile, []models.LogEntry, []string) error {
	return s.record("snapshot")
}

func (s *fakeStore) saved(what string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, w := range s.saves {
		if w == what {
			n++
		}
	}
	return n
}

// fakeOracle counts invocations and can block to simulate a slow call.
type fakeOracle struct {
	mu     sync.Mutex
	calls  int
	result models.Prediction
	err    error
	block  chan struct{}
}

func (o *fakeOracle) Predict(ctx context.Context, entries []models.LogEntry) (*models.Prediction, error) {
	o.mu.Lock()
	o.calls++
	block := o.block
	result := o.result
	err := o.err
	o.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	r := result
	return &r, nil
}

func (o *fakeOracle) callCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

// newTestEngine builds an engine with synchronous assessments so tests
// observe oracle completions deterministically.
func newTestEngine(initial InitialState) (*Engine, *fakeStore, *fakeOracle, *NotificationCenter) {
	store := &fakeStore{}
	orc := &fakeOracle{result: models.Prediction{
		RiskScore:       24,
		RiskLevel:       models.RiskLow,
		Explanation:     "patterns look stable",
		Recommendations: []string{"keep routine"},
	}}
	notifier := NewNotificationCenter(0)
	e := NewEngine(store, orc, notifier, initial)
	e.runAsync = func(f func()) { f() }
	return e, store, orc, notifier
}

func loginParent(t *testing.T, e *Engine) models.User {
	t.Helper()
	u, err := e.Login(models.User{Name: "Sarah", Email: "sarah@example.com", Role: models.RoleParent})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	return u
}

func loginEducator(t *testing.T, e *Engine) models.User {
	t.Helper()
	u, err := e.Login(models.User{Name: "Ms. Jones", Email: "jones@school.org", Role: models.RoleEducator})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	return u
}

func addChild(t *testing.T, e *Engine, name string) models.ChildProfile {
	t.Helper()
	c, err := e.UpsertChild(models.ChildProfile{Name: name, Age: 6})
	if err != nil {
		t.Fatalf("UpsertChild(%s) error: %v", name, err)
	}
	return c
}

func appendMood(t *testing.T, e *Engine, childID string) models.LogEntry {
	t.Helper()
	entry, err := e.AppendLog(models.LogEntry{
		ChildID:    childID,
		Type:       models.LogMood,
		AuthorRole: models.RoleParent,
		MoodLevel:  models.MoodNeutral,
	})
	if err != nil {
		t.Fatalf("AppendLog() error: %v", err)
	}
	return entry
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}
