package models

import "time"

// Severity classifies a notification for display and alerting.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeveritySuccess  Severity = "success"
	SeverityCritical Severity = "critical"
)

// NotificationItem is a transient session alert. It is never persisted;
// it either expires after the dwell interval or is dismissed explicitly.
type NotificationItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"createdAt"`
}
