// Package oracle talks to the external risk-prediction service. The
// service receives a bounded window of recent log entries as a text
// block and returns a single meltdown-risk assessment. It is treated as
// substitutable: when no API key is configured a deterministic local
// stand-in answers instead.
package oracle

import (
	"context"
	"fmt"
	"strings"

	"carebridge/internal/models"
)

// Window is the maximum number of recent entries sent per assessment.
const Window = 20

// Client produces a Prediction from recent log history.
type Client interface {
	Predict(ctx context.Context, entries []models.LogEntry) (*models.Prediction, error)
}

// New returns the Gemini-backed client when an API key is configured,
// otherwise the disabled stand-in.
func New(apiKey, model string) Client {
	if apiKey == "" {
		return &Disabled{}
	}
	return NewGemini(apiKey, model)
}

// FormatEntries renders the most recent entries (up to Window) as the
// chronological text block the oracle is prompted with.
func FormatEntries(entries []models.LogEntry) string {
	if len(entries) > Window {
		entries = entries[len(entries)-Window:]
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		var details string
		switch e.Type {
		case models.LogMood:
			details = fmt.Sprintf("Mood: %s (%s)", e.MoodLevel.Label(), e.Details)
		case models.LogStressIndicator:
			details = fmt.Sprintf("Indicator: %s", e.StressLevel)
		case models.LogActivity, models.LogAchievement:
			details = fmt.Sprintf("Activity: %s - %s", e.ActivityName, e.Details)
		case models.LogNote:
			details = fmt.Sprintf("Note: %s", e.Details)
		}
		lines = append(lines, fmt.Sprintf("[%s] [%s] %s",
			e.Timestamp.Format("15:04"), e.AuthorRole, details))
	}
	return strings.Join(lines, "\n")
}

// Disabled is the stand-in used when no oracle credential is
// configured. It always reports stable low risk and says so.
type Disabled struct{}

// Predict returns the fixed low-risk stand-in result.
func (d *Disabled) Predict(ctx context.Context, entries []models.LogEntry) (*models.Prediction, error) {
	return &models.Prediction{
		RiskScore:   24,
		RiskLevel:   models.RiskLow,
		Explanation: "Simulation: patterns look stable based on recent logs. Configure a Gemini API key to enable live behavioral analysis.",
		Recommendations: []string{
			"Maintain current sensory environment",
			"Plan a transition break in the next hour",
			"Monitor for subtle signs of restlessness",
		},
	}, nil
}
