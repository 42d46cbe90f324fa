package core

import (
	"sync"
	"testing"
	"time"

	"carebridge/internal/models"
)

func TestRaiseStacksWithoutMerging(t *testing.T) {
	nc := NewNotificationCenter(0)

	first := nc.Raise("Stress Indicator Logged", "Leo is showing signs of stress.", models.SeverityInfo)
	second := nc.Raise("Stress Indicator Logged", "Leo is showing signs of stress.", models.SeverityInfo)

	if first.ID == second.ID {
		t.Error("identical alerts must still get distinct ids")
	}
	items := nc.Active()
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != first.ID || items[1].ID != second.ID {
		t.Error("items should be returned in raise order")
	}
}

func TestDismissIsIdempotent(t *testing.T) {
	nc := NewNotificationCenter(0)
	item := nc.Raise("Connected", "Connected to Leo.", models.SeveritySuccess)

	nc.Dismiss(item.ID)
	nc.Dismiss(item.ID)
	nc.Dismiss("never-existed")

	if got := len(nc.Active()); got != 0 {
		t.Errorf("got %d items after dismiss, want 0", got)
	}
}

func TestAutoDismissAfterDwell(t *testing.T) {
	nc := NewNotificationCenter(20 * time.Millisecond)
	nc.Raise("Connected", "Connected to Leo.", models.SeveritySuccess)

	if got := len(nc.Active()); got != 1 {
		t.Fatalf("item should be visible within the dwell, got %d", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(nc.Active()) == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("item was not auto-dismissed after the dwell")
}

func TestZeroDwellDisablesAutoDismiss(t *testing.T) {
	nc := NewNotificationCenter(0)
	nc.Raise("Connected", "Connected to Leo.", models.SeveritySuccess)

	time.Sleep(30 * time.Millisecond)
	if got := len(nc.Active()); got != 1 {
		t.Errorf("zero dwell must keep items until dismissed, got %d", got)
	}
}

type recordingAlerter struct {
	mu    sync.Mutex
	items []models.NotificationItem
}

func (a *recordingAlerter) SendCriticalAlert(item models.NotificationItem) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items = append(a.items, item)
}

func (a *recordingAlerter) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.items)
}

func TestOnlyCriticalReachesAlerter(t *testing.T) {
	nc := NewNotificationCenter(0)
	alerter := &recordingAlerter{}
	nc.SetAlerter(alerter)

	nc.Raise("Connected", "Connected to Leo.", models.SeveritySuccess)
	nc.Raise("Stress Indicator Logged", "Leo is showing signs of stress.", models.SeverityInfo)
	nc.Raise("High Stress Alert", "Leo is reported as Overwhelmed.", models.SeverityCritical)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && alerter.count() == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	if got := alerter.count(); got != 1 {
		t.Errorf("alerter received %d items, want 1", got)
	}
}
