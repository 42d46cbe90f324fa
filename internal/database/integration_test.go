package database

import (
	"context"
	"path/filepath"
	"testing"
)

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	// Skip if not in integration test mode
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test_integration.db")

	// Test initialization
	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Test connection
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	// Run migrations
	migrationsPath, err := filepath.Abs("../../migrations")
	if err != nil {
		t.Fatalf("Failed to resolve migrations path: %v", err)
	}
	if err := db.RunMigrations(migrationsPath); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Test that tables were created by migrations
	tables := []string{"migrations", "state"}
	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		err := db.QueryRowContext(ctx, query, table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Migrations are idempotent
	if err := db.RunMigrations(migrationsPath); err != nil {
		t.Errorf("Re-running migrations failed: %v", err)
	}
}

// TestStateUpsert tests the insert-or-replace statement for state blobs
func TestStateUpsert(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test_upsert.db")
	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	migrationsPath, _ := filepath.Abs("../../migrations")
	if err := db.RunMigrations(migrationsPath); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	upsert := db.Dialect.UpsertState()
	if _, err := db.Exec(upsert, "test_key", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Failed to insert state: %v", err)
	}
	if _, err := db.Exec(upsert, "test_key", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("Failed to upsert state: %v", err)
	}

	var value []byte
	if err := db.QueryRow("SELECT state_value FROM state WHERE state_key = ?", "test_key").Scan(&value); err != nil {
		t.Fatalf("Failed to read state: %v", err)
	}
	if string(value) != `{"v":2}` {
		t.Errorf("state_value = %s, want the second write", value)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM state").Scan(&count); err != nil {
		t.Fatalf("Failed to count state rows: %v", err)
	}
	if count != 1 {
		t.Errorf("state rows = %d, want 1", count)
	}
}

// TestDatabaseTransactions tests transaction support
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test_transactions.db")
	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	migrationsPath, _ := filepath.Abs("../../migrations")
	if err := db.RunMigrations(migrationsPath); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Rolled-back writes must not be visible
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	if _, err := tx.Exec(db.Dialect.UpsertState(), "tx_key", []byte(`{}`)); err != nil {
		tx.Rollback()
		t.Fatalf("Failed to write in transaction: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Failed to rollback: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM state WHERE state_key = ?", "tx_key").Scan(&count); err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 0 {
		t.Errorf("rolled-back row is visible, count = %d", count)
	}

	// Committed writes are
	tx, err = db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	if _, err := tx.Exec(db.Dialect.UpsertState(), "tx_key", []byte(`{}`)); err != nil {
		tx.Rollback()
		t.Fatalf("Failed to write in transaction: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit transaction: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM state WHERE state_key = ?", "tx_key").Scan(&count); err != nil {
		t.Fatalf("Failed to count after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("committed row missing, count = %d", count)
	}
}
