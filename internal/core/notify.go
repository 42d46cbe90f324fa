package core

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"carebridge/internal/models"
)

// Alerter receives critical notifications for out-of-band delivery
// (e.g. an alert email). Delivery is fire-and-forget.
type Alerter interface {
	SendCriticalAlert(item models.NotificationItem)
}

// NotificationCenter owns the lifecycle of transient session alerts.
// Items auto-expire after the dwell interval unless dismissed earlier;
// repeated identical alerts stack, nothing is ever merged.
type NotificationCenter struct {
	mu      sync.Mutex
	dwell   time.Duration
	items   []models.NotificationItem
	alerter Alerter
}

// NewNotificationCenter creates a notification center with the given
// auto-dismiss dwell. A non-positive dwell disables auto-dismiss.
func NewNotificationCenter(dwell time.Duration) *NotificationCenter {
	return &NotificationCenter{dwell: dwell}
}

// SetAlerter registers an optional out-of-band alert channel.
func (nc *NotificationCenter) SetAlerter(a Alerter) {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	nc.alerter = a
}

// Raise appends a new notification and schedules its auto-dismiss.
func (nc *NotificationCenter) Raise(title, message string, severity models.Severity) models.NotificationItem {
	item := models.NotificationItem{
		ID:        uuid.New().String(),
		Title:     title,
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
	}

	nc.mu.Lock()
	nc.items = append(nc.items, item)
	alerter := nc.alerter
	nc.mu.Unlock()

	if nc.dwell > 0 {
		time.AfterFunc(nc.dwell, func() { nc.Dismiss(item.ID) })
	}
	if severity == models.SeverityCritical && alerter != nil {
		go alerter.SendCriticalAlert(item)
	}
	return item
}

// Dismiss removes a notification immediately. Dismissing an id that is
// already gone is a no-op, never an error.
func (nc *NotificationCenter) Dismiss(id string) {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	for i, item := range nc.items {
		if item.ID == id {
			nc.items = append(nc.items[:i], nc.items[i+1:]...)
			return
		}
	}
}

// Active returns the current notification set in raise order.
func (nc *NotificationCenter) Active() []models.NotificationItem {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return append([]models.NotificationItem(nil), nc.items...)
}
