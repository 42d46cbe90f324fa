package models

import (
	"errors"
	"time"
)

// LogType categorizes a ledger entry.
type LogType string

const (
	LogMood            LogType = "Mood"
	LogActivity        LogType = "Activity"
	LogStressIndicator LogType = "Stress Indicator"
	LogAchievement     LogType = "Achievement"
	LogNote            LogType = "Note"
)

// MoodLevel is an ordinal mood rating, 1 (distressed) to 5 (very happy).
type MoodLevel int

const (
	MoodDistressed MoodLevel = 1
	MoodUnsettled  MoodLevel = 2
	MoodNeutral    MoodLevel = 3
	MoodHappy      MoodLevel = 4
	MoodVeryHappy  MoodLevel = 5
)

// Label returns the display name for a mood level.
func (m MoodLevel) Label() string {
	switch m {
	case MoodDistressed:
		return "Distressed"
	case MoodUnsettled:
		return "Unsettled"
	case MoodNeutral:
		return "Neutral"
	case MoodHappy:
		return "Happy"
	case MoodVeryHappy:
		return "Very Happy"
	}
	return "Unknown"
}

// StressLevel is a categorical stress indicator.
type StressLevel string

const (
	StressCalm        StressLevel = "Calm"
	StressRestless    StressLevel = "Stimulated / Restless"
	StressStressed    StressLevel = "Signs of Stress"
	StressOverwhelmed StressLevel = "Overwhelmed"
	StressNeedsBreak  StressLevel = "Needs Break"
)

// Valid reports whether the stress level is a known category.
func (s StressLevel) Valid() bool {
	switch s {
	case StressCalm, StressRestless, StressStressed, StressOverwhelmed, StressNeedsBreak:
		return true
	}
	return false
}

var (
	ErrInvalidLogType      = errors.New("unknown log entry type")
	ErrChildIDRequired     = errors.New("log entry requires a child id")
	ErrInvalidMoodLevel    = errors.New("mood level must be between 1 and 5")
	ErrInvalidStressLevel  = errors.New("unknown stress level")
	ErrInvalidSleepQuality = errors.New("sleep quality must be between 1 and 5")
	ErrSleepParentOnly     = errors.New("sleep quality can only be logged by a parent")
)

// LogEntry is one immutable ledger record, bound to exactly one child.
// The id and timestamp are assigned by the ledger at append time; the
// only way an entry ever disappears is the child's cascade delete.
type LogEntry struct {
	ID         string    `json:"id"`
	ChildID    string    `json:"childId"`
	Timestamp  time.Time `json:"timestamp"`
	Type       LogType   `json:"type"`
	AuthorRole Role      `json:"authorRole"`
	AuthorName string    `json:"authorName,omitempty"`

	MoodLevel    MoodLevel   `json:"moodLevel,omitempty"`
	ActivityName string      `json:"activityName,omitempty"`
	StressLevel  StressLevel `json:"stressLevel,omitempty"`
	Details      string      `json:"details,omitempty"`

	// SleepQuality is a 1-5 rating a parent may attach to a mood entry.
	SleepQuality int `json:"sleepQuality,omitempty"`
}

// Validate checks type-dependent payload fields. The child id is only
// checked for presence here; referential validity is the ledger's job.
func (e *LogEntry) Validate() error {
	if e.ChildID == "" {
		return ErrChildIDRequired
	}
	if !e.AuthorRole.Valid() {
		return ErrInvalidRole
	}
	switch e.Type {
	case LogMood:
		if e.MoodLevel < MoodDistressed || e.MoodLevel > MoodVeryHappy {
			return ErrInvalidMoodLevel
		}
	case LogStressIndicator:
		if !e.StressLevel.Valid() {
			return ErrInvalidStressLevel
		}
	case LogActivity, LogAchievement, LogNote:
	default:
		return ErrInvalidLogType
	}
	if e.SleepQuality != 0 {
		if e.SleepQuality < 1 || e.SleepQuality > 5 {
			return ErrInvalidSleepQuality
		}
		if e.AuthorRole != RoleParent {
			return ErrSleepParentOnly
		}
	}
	return nil
}
