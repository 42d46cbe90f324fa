package core

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"carebridge/internal/models"
)

// csvTimeLayouts are the accepted date+time shapes for imported rows.
var csvTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"1/2/2006 15:04",
	"01/02/2006 15:04",
}

// ImportLogs appends the parseable rows of a CSV block (date, time,
// type, mood, stress, activity, details, role) to a child's ledger.
// Rows that cannot be parsed or validated are skipped, never fatal.
// It returns how many entries were appended.
func (e *Engine) ImportLogs(childID, csvText string) (int, error) {
	e.mu.Lock()
	exists := e.findChildLocked(childID) != nil
	e.mu.Unlock()
	if !exists {
		return 0, ErrChildNotFound
	}

	imported := 0
	for _, entry := range ParseLogCSV(childID, csvText, e.now()) {
		if _, err := e.AppendLog(entry); err != nil {
			continue
		}
		imported++
	}
	return imported, nil
}

// ParseLogCSV converts CSV rows into candidate log entries. The first
// row is treated as a header. Rows with fewer than three fields are
// skipped; a timestamp that fails to parse falls back to the given
// time; unknown types become notes and unknown roles become Parent.
func ParseLogCSV(childID, data string, fallback time.Time) []models.LogEntry {
	reader := csv.NewReader(strings.NewReader(data))
	reader.FieldsPerRecord = -1

	var entries []models.LogEntry
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil || row == 1 || len(record) < 3 {
			continue
		}

		entry := models.LogEntry{
			ChildID:      childID,
			Timestamp:    parseCSVTime(field(record, 0), field(record, 1), fallback),
			Type:         parseCSVType(field(record, 2)),
			AuthorRole:   parseCSVRole(field(record, 7)),
			ActivityName: field(record, 5),
			Details:      field(record, 6),
		}
		if mood, err := strconv.Atoi(field(record, 3)); err == nil {
			entry.MoodLevel = models.MoodLevel(mood)
		}
		if stress := models.StressLevel(field(record, 4)); stress.Valid() {
			entry.StressLevel = stress
		}
		entries = append(entries, entry)
	}
	return entries
}

func field(record []string, i int) string {
	if i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}

func parseCSVTime(dateStr, timeStr string, fallback time.Time) time.Time {
	combined := strings.TrimSpace(dateStr + " " + timeStr)
	for _, layout := range csvTimeLayouts {
		if t, err := time.ParseInLocation(layout, combined, time.Local); err == nil {
			return t
		}
	}
	return fallback
}

func parseCSVType(s string) models.LogType {
	switch t := models.LogType(s); t {
	case models.LogMood, models.LogActivity, models.LogStressIndicator, models.LogAchievement, models.LogNote:
		return t
	}
	return models.LogNote
}

func parseCSVRole(s string) models.Role {
	if r := models.Role(s); r.Valid() {
		return r
	}
	return models.RoleParent
}
