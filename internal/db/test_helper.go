package db

import (
	"context"
	"database/sql"
	"os"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/atharvakonge/portfolio-admin/internal/config"
)

// SetupTestDB connects to the database named by TEST_DB_NAME, skipping the
// test when it is unset. The remaining DB_* variables apply as usual.
func SetupTestDB(t *testing.T) *sql.DB {
	name := os.Getenv("TEST_DB_NAME")
	if name == "" {
		t.Skip("TEST_DB_NAME not set; skipping database test")
	}

	cfg := config.Load().Audit
	cfg.Name = name

	db, err := sql.Open("postgres", ConnString(cfg))
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err = db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	if err = EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db
}

// CleanupTestDB removes journal rows written by a test
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if _, err := db.Exec("DELETE FROM admin_actions"); err != nil {
		log.WithError(err).Warn("failed to clean up admin_actions")
	}
}
