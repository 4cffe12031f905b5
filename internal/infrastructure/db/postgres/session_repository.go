package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/csemotors/dealership/internal/core/domain"
)

var sessionSchema = []string{
	`CREATE TABLE IF NOT EXISTS session (
		sid    VARCHAR NOT NULL PRIMARY KEY,
		sess   JSONB NOT NULL,
		expire TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_session_expire ON session (expire)`,
}

// SessionRepository keeps server-side sessions in the session table.
// Expired rows are ignored on read; nothing sweeps them.
type SessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSessionRepository creates the session table when it is missing.
func NewSessionRepository(ctx context.Context, db *sql.DB) (*SessionRepository, error) {
	const op = "postgres.NewSessionRepository"

	for _, stmt := range sessionSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return &SessionRepository{db: db, now: time.Now}, nil
}

func (r *SessionRepository) Create(ctx context.Context, s domain.Session) error {
	const op = "postgres.SessionRepository.Create"

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO session (sid, sess, expire) VALUES ($1, $2, $3)
		ON CONFLICT (sid) DO UPDATE SET sess = EXCLUDED.sess, expire = EXCLUDED.expire`,
		s.ID, payload, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	const op = "postgres.SessionRepository.Get"

	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT sess FROM session WHERE sid = $1 AND expire > $2`, id, r.now()).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var s domain.Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	const op = "postgres.SessionRepository.Delete"

	if _, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE sid = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
