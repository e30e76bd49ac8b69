package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/atharvakonge/portfolio-admin/internal/config"
)

var DB *sql.DB // Global audit database connection

// ConnString builds the lib/pq connection string
func ConnString(cfg config.Database) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name,
	)
}

// InitDB opens the audit database and makes sure its schema exists
func InitDB(ctx context.Context, cfg config.Database) error {
	var err error
	DB, err = sql.Open("postgres", ConnString(cfg))
	if err != nil {
		return errors.Wrap(err, "error opening database")
	}

	if err = DB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "error connecting to database")
	}

	// The journal is a light write load next to the page traffic
	DB.SetMaxOpenConns(10)
	DB.SetMaxIdleConns(2)
	DB.SetConnMaxLifetime(5 * time.Minute)

	if err = EnsureSchema(ctx, DB); err != nil {
		return err
	}

	log.WithFields(log.Fields{"host": cfg.Host, "db": cfg.Name}).Info("audit database connected")
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS admin_actions (
    id          BIGSERIAL PRIMARY KEY,
    actor       VARCHAR(32)  NOT NULL,
    action      VARCHAR(64)  NOT NULL,
    target      VARCHAR(255) NOT NULL DEFAULT '',
    success     BOOLEAN      NOT NULL,
    detail      TEXT         NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_admin_actions_created_at ON admin_actions (created_at DESC);
`

// EnsureSchema creates the admin_actions table when missing
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "error creating audit schema")
	}
	return nil
}

// CloseDB closes database connection
func CloseDB() {
	if DB != nil {
		DB.Close()
		log.Info("audit database connection closed")
	}
}
