package audit

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Actions recorded by the dashboard
const (
	ActionLogin       = "login"
	ActionLogout      = "logout"
	ActionCreateAdmin = "create_admin"
	ActionNotify      = "send_notification"
	ActionUpdateStock = "update_stock"
	ActionImpersonate = "impersonate"
)

// Entry is one admin mutation. Actor is a token fingerprint, never the
// token itself.
type Entry struct {
	ID        int64     `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Success   bool      `json:"success"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

// Journal records what admins did through this dashboard
type Journal interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Postgres keeps the journal in the admin_actions table
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Record(ctx context.Context, e Entry) error {
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO admin_actions (actor, action, target, success, detail)
        VALUES ($1, $2, $3, $4, $5)
    `, e.Actor, e.Action, e.Target, e.Success, e.Detail)
	if err != nil {
		return errors.Wrapf(err, "record %s", e.Action)
	}
	return nil
}

func (p *Postgres) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := p.db.QueryContext(ctx, `
        SELECT id, actor, action, target, success, detail, created_at
        FROM admin_actions
        ORDER BY created_at DESC, id DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query recent actions")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.Target, &e.Success, &e.Detail, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan action")
		}
		out = append(out, e)
	}
	return out, errors.Wrap(rows.Err(), "iterate actions")
}

// Memory keeps the most recent entries in process. It backs the settings
// page when no audit database is configured.
type Memory struct {
	mu      sync.Mutex
	max     int
	nextID  int64
	entries []Entry // newest last
}

func NewMemory(max int) *Memory {
	if max < 1 {
		max = 1
	}
	return &Memory{max: max}
}

func (m *Memory) Record(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	e.ID = m.nextID
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	m.entries = append(m.entries, e)
	if len(m.entries) > m.max {
		m.entries = m.entries[len(m.entries)-m.max:]
	}
	return nil
}

func (m *Memory) Recent(_ context.Context, limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

// Log records e and only logs a failure: the journal must never block the
// admin action it describes.
func Log(ctx context.Context, j Journal, e Entry) {
	if j == nil {
		return
	}
	if err := j.Record(ctx, e); err != nil {
		log.WithError(err).WithField("action", e.Action).Warn("audit record failed")
	}
}
