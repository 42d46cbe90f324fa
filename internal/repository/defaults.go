package repository

import (
	"time"

	"carebridge/internal/models"
)

// DemoChildID identifies the demo profile seeded on first boot.
const DemoChildID = "demo-child-leo"

// DefaultChildren returns the first-boot child profile set.
func DefaultChildren() []models.ChildProfile {
	return []models.ChildProfile{
		{
			ID:               DemoChildID,
			Name:             "Leo",
			Age:              6,
			CareNotes:        "Sensory sensitivities to loud noises, loves space and trains.",
			InviteCode:       "LEO-2024",
			ParentName:       "Sarah Parent",
			EmergencyContact: "(555) 010-9988",
		},
	}
}

// DefaultLogs returns the first-boot ledger.
func DefaultLogs() []models.LogEntry {
	return []models.LogEntry{
		{
			ID:         "log-1",
			ChildID:    DemoChildID,
			Timestamp:  time.Now().Add(-4 * time.Hour),
			Type:       models.LogMood,
			AuthorRole: models.RoleParent,
			MoodLevel:  models.MoodHappy,
			Details:    "Woke up well, very interested in his toy rocket.",
		},
	}
}

// DefaultConnections returns the first-boot educator connection set.
func DefaultConnections() []string {
	return []string{DemoChildID}
}
