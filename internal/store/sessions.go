package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MikeSquared-Agency/sommelier/internal/preferences"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Session is the persisted state of one conversation.
type Session struct {
	ID          uuid.UUID          `json:"id"`
	Preferences preferences.Record `json:"preferences"`
	Version     int                `json:"version"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// CreateSession inserts a session with an empty preference record.
func (s *Store) CreateSession(ctx context.Context) (Session, error) {
	sess := Session{ID: uuid.New(), Version: 1}
	prefs, err := json.Marshal(sess.Preferences)
	if err != nil {
		return Session{}, fmt.Errorf("marshal preferences: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		INSERT INTO concierge_sessions (id, preferences, version, created_at, updated_at)
		VALUES ($1, $2::jsonb, 1, now(), now())
		RETURNING created_at, updated_at`,
		sess.ID, string(prefs),
	).Scan(&sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

// GetSession fetches a session by ID.
func (s *Store) GetSession(ctx context.Context, id uuid.UUID) (Session, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, preferences, version, created_at, updated_at
		FROM concierge_sessions WHERE id = $1`, id)

	var sess Session
	var prefs []byte
	err := row.Scan(&sess.ID, &prefs, &sess.Version, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("query session: %w", err)
	}
	if err := json.Unmarshal(prefs, &sess.Preferences); err != nil {
		return Session{}, fmt.Errorf("parse preferences: %w", err)
	}
	return sess, nil
}

// UpdatePreferences stores rec if the session is still at expectedVersion and
// returns the new version. A stale version yields ErrVersionConflict.
func (s *Store) UpdatePreferences(ctx context.Context, id uuid.UUID, rec preferences.Record, expectedVersion int) (int, error) {
	return swapPreferences(ctx, s.pool, id, rec, expectedVersion)
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func swapPreferences(ctx context.Context, q querier, id uuid.UUID, rec preferences.Record, expectedVersion int) (int, error) {
	prefs, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("marshal preferences: %w", err)
	}

	var version int
	err = q.QueryRow(ctx, `
		UPDATE concierge_sessions
		SET preferences = $1::jsonb, version = version + 1, updated_at = now()
		WHERE id = $2 AND version = $3
		RETURNING version`,
		string(prefs), id, expectedVersion,
	).Scan(&version)
	if err == nil {
		return version, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("update preferences: %w", err)
	}

	var exists bool
	if err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM concierge_sessions WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check session: %w", err)
	}
	if !exists {
		return 0, ErrNotFound
	}
	return 0, ErrVersionConflict
}
