package core

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"carebridge/internal/models"
)

// AppendLog validates and appends one immutable ledger entry. The id
// and timestamp are assigned here when absent; a timestamp carried in
// (e.g. an imported historical row) is kept. An Overwhelmed or Stressed
// stress indicator raises its notification synchronously, before this
// function returns. Ledger growth for the active child may start a risk
// assessment, which runs without blocking the caller.
func (e *Engine) AppendLog(entry models.LogEntry) (models.LogEntry, error) {
	if err := entry.Validate(); err != nil {
		return models.LogEntry{}, err
	}

	e.mu.Lock()
	child := e.findChildLocked(entry.ChildID)
	if child == nil {
		e.mu.Unlock()
		return models.LogEntry{}, ErrChildNotFound
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = e.now()
	}
	e.logs = append(e.logs, entry)
	childName := child.Name
	err := e.store.SaveLogs(e.logs)
	job := e.maybeTriggerLocked(entry.ChildID)
	e.mu.Unlock()

	persist("logs", err)
	e.raiseStressAlert(entry, childName)
	e.startAssessment(job)
	return entry, nil
}

// raiseStressAlert raises the direct high-severity notification for
// qualifying stress indicators, independent of the scheduler's alerts.
func (e *Engine) raiseStressAlert(entry models.LogEntry, childName string) {
	if entry.Type != models.LogStressIndicator {
		return
	}
	switch entry.StressLevel {
	case models.StressOverwhelmed:
		e.notifier.Raise(
			"High Stress Alert",
			fmt.Sprintf("%s is reported as Overwhelmed.", childName),
			models.SeverityCritical,
		)
	case models.StressStressed:
		e.notifier.Raise(
			"Stress Indicator Logged",
			fmt.Sprintf("%s is showing signs of stress.", childName),
			models.SeverityInfo,
		)
	}
}

// LogsByChild returns the entries for one child in chronological order,
// oldest first. Consumers wanting most-recent-first reverse explicitly.
func (e *Engine) LogsByChild(childID string) []models.LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.logsByChildLocked(childID)
}

func (e *Engine) logsByChildLocked(childID string) []models.LogEntry {
	out := make([]models.LogEntry, 0)
	for _, l := range e.logs {
		if l.ChildID == childID {
			out = append(out, l)
		}
	}
	// Imported rows may carry historical timestamps; canonical order is
	// chronological regardless of arrival order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func (e *Engine) countByChildLocked(childID string) int {
	n := 0
	for _, l := range e.logs {
		if l.ChildID == childID {
			n++
		}
	}
	return n
}
