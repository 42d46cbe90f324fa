package core

import (
	"context"
	"fmt"
	"log"

	"carebridge/internal/models"
	"carebridge/internal/oracle"
)

// assessmentInterval is the ledger-growth cadence: a child is
// re-assessed when its entry count reaches a strict multiple of this.
const assessmentInterval = 3

// minEntriesForAssessment keeps the scheduler dormant until a child has
// enough history to analyze.
const minEntriesForAssessment = 3

type assessmentState string

const (
	assessmentIdle      assessmentState = "Idle"
	assessmentAssessing assessmentState = "Assessing"
	assessmentSettled   assessmentState = "Settled"
)

// assessment is the per-child scheduler bookkeeping.
type assessment struct {
	state       assessmentState
	lastAttempt int  // entry count when the latest attempt started
	succeeded   bool // any assessment has ever succeeded for this child
	generation  int  // bumped per attempt; stale results are discarded
}

// assessmentJob carries everything an oracle call needs, snapshotted
// under the lock so the call itself runs without one.
type assessmentJob struct {
	childID    string
	childName  string
	generation int
	entries    []models.LogEntry
}

func (e *Engine) assessmentFor(childID string) *assessment {
	a, ok := e.assessments[childID]
	if !ok {
		a = &assessment{state: assessmentIdle}
		e.assessments[childID] = a
	}
	return a
}

// maybeTriggerLocked evaluates the cadence trigger for a child and, if
// an assessment is due, claims it and returns the job to start. Only
// the active child is ever assessed, never with two calls outstanding.
func (e *Engine) maybeTriggerLocked(childID string) *assessmentJob {
	if childID == "" || childID != e.activeChild {
		return nil
	}
	count := e.countByChildLocked(childID)
	if count < minEntriesForAssessment {
		// Dormant below the threshold; retry bookkeeping resets.
		if a, ok := e.assessments[childID]; ok && a.state != assessmentAssessing {
			delete(e.assessments, childID)
		}
		return nil
	}

	a := e.assessmentFor(childID)
	if a.state == assessmentAssessing {
		return nil
	}
	onCadence := count%assessmentInterval == 0 && a.lastAttempt != count
	if !onCadence && a.succeeded {
		return nil
	}
	return e.claimLocked(childID, count)
}

// claimLocked marks an attempt started and snapshots the oracle window.
func (e *Engine) claimLocked(childID string, count int) *assessmentJob {
	a := e.assessmentFor(childID)
	a.state = assessmentAssessing
	a.lastAttempt = count
	a.generation++

	entries := e.logsByChildLocked(childID)
	if len(entries) > oracle.Window {
		entries = entries[len(entries)-oracle.Window:]
	}
	childName := ""
	if c := e.findChildLocked(childID); c != nil {
		childName = c.Name
	}
	return &assessmentJob{
		childID:    childID,
		childName:  childName,
		generation: a.generation,
		entries:    entries,
	}
}

// startAssessment launches the oracle call for a claimed job. The call
// may suspend arbitrarily long; its completion arrives as a separate
// state update and never blocks a user-initiated mutation.
func (e *Engine) startAssessment(job *assessmentJob) {
	if job == nil {
		return
	}
	e.runAsync(func() {
		prediction, err := e.oracle.Predict(context.Background(), job.entries)
		e.completeAssessment(job, prediction, err)
	})
}

// completeAssessment delivers an oracle result. Results from a
// superseded attempt, or for a child that is no longer active, are
// discarded so alerts can never leak across children.
func (e *Engine) completeAssessment(job *assessmentJob, prediction *models.Prediction, err error) {
	e.mu.Lock()
	a, ok := e.assessments[job.childID]
	if !ok || a.generation != job.generation {
		e.mu.Unlock()
		return
	}
	a.state = assessmentSettled
	if err != nil {
		log.Printf("Risk assessment for %s failed, settling on fallback: %v", job.childID, err)
		prediction = fallbackPrediction()
	} else {
		a.succeeded = true
	}
	if e.activeChild != job.childID {
		e.mu.Unlock()
		return
	}
	e.latest[job.childID] = prediction
	alert := err == nil && prediction.RiskLevel.AlertWorthy()
	level := prediction.RiskLevel
	e.mu.Unlock()

	if alert {
		title := "High Risk Alert"
		if level == models.RiskCritical {
			title = "Critical AI Prediction"
		}
		e.notifier.Raise(title,
			fmt.Sprintf("AI predicts a %s risk of meltdown for %s based on recent patterns.", level, job.childName),
			models.SeverityCritical)
	}
}

// RefreshAssessment starts an assessment for the active child,
// bypassing the cadence trigger. It is silently ignored while an
// assessment for that child is already running; there are never two
// outstanding calls for the same child.
func (e *Engine) RefreshAssessment() error {
	e.mu.Lock()
	if e.user == nil {
		e.mu.Unlock()
		return ErrNotAuthenticated
	}
	childID := e.activeChild
	if childID == "" {
		e.mu.Unlock()
		return ErrNoActiveChild
	}
	count := e.countByChildLocked(childID)
	if count == 0 {
		e.mu.Unlock()
		return nil
	}
	if e.assessmentFor(childID).state == assessmentAssessing {
		e.mu.Unlock()
		return nil
	}
	job := e.claimLocked(childID, count)
	e.mu.Unlock()

	e.startAssessment(job)
	return nil
}

// LatestPrediction returns the latest settled prediction for the active
// child, if one exists this session.
func (e *Engine) LatestPrediction() (models.Prediction, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.latest[e.activeChild]; ok {
		return *p, true
	}
	return models.Prediction{}, false
}

// AssessmentStatus reports the scheduler state for the active child.
func (e *Engine) AssessmentStatus() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if a, ok := e.assessments[e.activeChild]; ok {
		return string(a.state)
	}
	return string(assessmentIdle)
}

// fallbackPrediction is the safe default shown when the oracle is
// unreachable or returns garbage, so the caller never sees a blank
// assessment.
func fallbackPrediction() *models.Prediction {
	return &models.Prediction{
		RiskScore:   0,
		RiskLevel:   models.RiskLow,
		Explanation: "Unable to generate prediction at this time.",
		Recommendations: []string{
			"Check internet connection",
			"Try again later",
		},
	}
}
