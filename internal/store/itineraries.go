package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MikeSquared-Agency/sommelier/internal/itinerary"
	"github.com/MikeSquared-Agency/sommelier/internal/preferences"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Itinerary is an assembled plan as stored.
type Itinerary struct {
	ID        uuid.UUID         `json:"id"`
	SessionID uuid.UUID         `json:"session_id"`
	Entries   []itinerary.Entry `json:"entries"`
	CreatedAt time.Time         `json:"created_at"`
}

// WriteItinerary stores a new plan for a session together with rec, in one
// transaction guarded by the session's version. On ErrVersionConflict or
// ErrNotFound nothing is written. Plans are never updated; a new plan is a
// new row. It returns the plan and the session's new version.
func (s *Store) WriteItinerary(ctx context.Context, sessionID uuid.UUID, entries []itinerary.Entry, rec preferences.Record, expectedVersion int) (Itinerary, int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Itinerary{}, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	version, err := swapPreferences(ctx, tx, sessionID, rec, expectedVersion)
	if err != nil {
		return Itinerary{}, 0, err
	}

	it := Itinerary{ID: uuid.New(), SessionID: sessionID}
	err = tx.QueryRow(ctx, `
		INSERT INTO itineraries (id, session_id, created_at)
		VALUES ($1, $2, now())
		RETURNING created_at`,
		it.ID, sessionID,
	).Scan(&it.CreatedAt)
	if err != nil {
		return Itinerary{}, 0, fmt.Errorf("insert itinerary: %w", err)
	}

	for i, e := range entries {
		_, err = tx.Exec(ctx, `
			INSERT INTO itinerary_entries (itinerary_id, position, venue_id, day, order_in_day, suggested_time)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, i, e.VenueID, e.Day, e.OrderInDay, e.SuggestedTime,
		)
		if err != nil {
			return Itinerary{}, 0, fmt.Errorf("insert entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Itinerary{}, 0, fmt.Errorf("commit: %w", err)
	}

	it.Entries = append([]itinerary.Entry(nil), entries...)
	return it, version, nil
}

// LatestItinerary returns the most recent plan for a session.
func (s *Store) LatestItinerary(ctx context.Context, sessionID uuid.UUID) (Itinerary, error) {
	it := Itinerary{SessionID: sessionID}
	err := s.pool.QueryRow(ctx, `
		SELECT id, created_at FROM itineraries
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, sessionID,
	).Scan(&it.ID, &it.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Itinerary{}, ErrNotFound
	}
	if err != nil {
		return Itinerary{}, fmt.Errorf("query itinerary: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT venue_id, day, order_in_day, suggested_time
		FROM itinerary_entries
		WHERE itinerary_id = $1
		ORDER BY position`, it.ID)
	if err != nil {
		return Itinerary{}, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e itinerary.Entry
		if err := rows.Scan(&e.VenueID, &e.Day, &e.OrderInDay, &e.SuggestedTime); err != nil {
			return Itinerary{}, fmt.Errorf("scan entry: %w", err)
		}
		it.Entries = append(it.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return Itinerary{}, fmt.Errorf("iterate entries: %w", err)
	}
	return it, nil
}
