package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"carebridge/internal/database"
	"carebridge/internal/models"
)

// Storage keys for the four independently-persisted state blobs.
const (
	KeyUser        = "carebridge_user"
	KeyChildren    = "carebridge_children"
	KeyLogs        = "carebridge_logs"
	KeyConnections = "carebridge_connected_ids"
)

// StateRepository persists session state as whole-value JSON blobs, one
// key per state slice. Each blob is read once at startup and rewritten
// in full on every corresponding in-memory change.
type StateRepository struct {
	db *database.DB
}

// NewStateRepository creates a new state repository
func NewStateRepository(db *database.DB) *StateRepository {
	return &StateRepository{db: db}
}

// LoadUser returns the persisted current user, or nil when absent. A
// missing or unparseable blob is never an error, just the default.
func (r *StateRepository) LoadUser() *models.User {
	var user models.User
	if !r.loadInto(KeyUser, &user) {
		return nil
	}
	return &user
}

// LoadChildren returns the persisted child profiles, falling back to
// the demo profile on first boot
func (r *StateRepository) LoadChildren() []models.ChildProfile {
	var children []models.ChildProfile
	if !r.loadInto(KeyChildren, &children) {
		return DefaultChildren()
	}
	return children
}

// LoadLogs returns the persisted ledger, falling back to the demo entry
func (r *StateRepository) LoadLogs() []models.LogEntry {
	var logs []models.LogEntry
	if !r.loadInto(KeyLogs, &logs) {
		return DefaultLogs()
	}
	return logs
}

// LoadConnections returns the persisted educator connection set,
// falling back to the demo connection
func (r *StateRepository) LoadConnections() []string {
	var ids []string
	if !r.loadInto(KeyConnections, &ids) {
		return DefaultConnections()
	}
	return ids
}

// SaveUser rewrites the current-user blob. A nil user removes it, which
// is how logout leaves no retained identity behind.
func (r *StateRepository) SaveUser(user *models.User) error {
	if user == nil {
		return r.deleteBlob(KeyUser)
	}
	return r.saveJSON(KeyUser, user)
}

// SaveChildren rewrites the child-profile blob in full
func (r *StateRepository) SaveChildren(children []models.ChildProfile) error {
	return r.saveJSON(KeyChildren, children)
}

// SaveLogs rewrites the ledger blob in full
func (r *StateRepository) SaveLogs(logs []models.LogEntry) error {
	return r.saveJSON(KeyLogs, logs)
}

// SaveConnections rewrites the connection-set blob in full
func (r *StateRepository) SaveConnections(ids []string) error {
	return r.saveJSON(KeyConnections, ids)
}

// SaveSnapshot writes children, logs and connections in one
// transaction. Used by the cascade delete so the durable copy can never
// hold a dangling reference between blobs.
func (r *StateRepository) SaveSnapshot(children []models.ChildProfile, logs []models.LogEntry, ids []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	blobs := map[string]interface{}{
		KeyChildren:    children,
		KeyLogs:        logs,
		KeyConnections: ids,
	}
	for key, value := range blobs {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		if _, err := tx.Exec(r.db.Dialect.UpsertState(), key, data); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// loadInto reads and decodes a blob, reporting whether a usable value
// was found
func (r *StateRepository) loadInto(key string, dest interface{}) bool {
	var value []byte
	err := r.db.QueryRow("SELECT state_value FROM state WHERE state_key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		log.Printf("Failed to read state %s, using default: %v", key, err)
		return false
	}
	if err := json.Unmarshal(value, dest); err != nil {
		log.Printf("Failed to parse state %s, using default: %v", key, err)
		return false
	}
	return true
}

func (r *StateRepository) saveJSON(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if _, err := r.db.Exec(r.db.Dialect.UpsertState(), key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (r *StateRepository) deleteBlob(key string) error {
	if _, err := r.db.Exec("DELETE FROM state WHERE state_key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
