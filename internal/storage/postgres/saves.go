package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Neon681/bmt-idle-sub000/internal/game/event"
	"github.com/Neon681/bmt-idle-sub000/internal/storage"
)

// SaveRepository provides save persistence and the event journal.
type SaveRepository struct {
	db    *pgxpool.Pool
	owner *Pool
}

var (
	_ storage.Store    = (*SaveRepository)(nil)
	_ storage.EventLog = (*SaveRepository)(nil)
)

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool with migrations applied.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// Load retrieves the save stored under name.
//
// Postcondition: Returns the save or storage.ErrSaveNotFound.
func (r *SaveRepository) Load(ctx context.Context, name string) (*storage.Save, error) {
	var rec storage.Record
	err := r.db.QueryRow(ctx, `
		SELECT character, session, saved_at FROM saves WHERE name = $1`,
		name,
	).Scan(&rec.Character, &rec.Session, &rec.SavedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("loading %q: %w", name, storage.ErrSaveNotFound)
		}
		return nil, fmt.Errorf("loading %q: %w", name, err)
	}
	rec.SavedAt = rec.SavedAt.UTC()
	return storage.Decode(name, rec)
}

// Put upserts save.
//
// Postcondition: the row for save.Name holds the encoded state.
func (r *SaveRepository) Put(ctx context.Context, save *storage.Save) error {
	rec, err := storage.Encode(save)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO saves (name, character, session, saved_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET
			character  = EXCLUDED.character,
			session    = EXCLUDED.session,
			saved_at   = EXCLUDED.saved_at,
			updated_at = NOW()`,
		save.Name, rec.Character, rec.Session, rec.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("writing %q: %w", save.Name, err)
	}
	return nil
}

// Delete removes the save and its journal.
func (r *SaveRepository) Delete(ctx context.Context, name string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM saves WHERE name = $1`, name); err != nil {
		return fmt.Errorf("deleting %q: %w", name, err)
	}
	return nil
}

// Close releases the pool when the repository was created by Open. A
// repository built with NewSaveRepository leaves the pool to its caller.
func (r *SaveRepository) Close() error {
	if r.owner != nil {
		r.owner.Close()
	}
	return nil
}

// AppendEvents journals events for the save in one batch.
//
// Precondition: the save row must exist.
func (r *SaveRepository) AppendEvents(ctx context.Context, name string, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, ev := range events {
		payload, err := event.Marshal(ev)
		if err != nil {
			return fmt.Errorf("encoding %s event: %w", ev.Type(), err)
		}
		batch.Queue(`INSERT INTO save_events (save_name, event_type, payload) VALUES ($1, $2, $3)`,
			name, string(ev.Type()), payload)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("journaling %d events for %q: %w", len(events), name, err)
	}
	return nil
}

// RecentEvents returns up to limit journaled events, newest first.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *SaveRepository) RecentEvents(ctx context.Context, name string, limit int) ([]storage.LoggedEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT event_type, payload, created_at FROM save_events
		WHERE save_name = $1 ORDER BY id DESC LIMIT $2`,
		name, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing events for %q: %w", name, err)
	}
	defer rows.Close()

	out := make([]storage.LoggedEvent, 0)
	for rows.Next() {
		var le storage.LoggedEvent
		if err := rows.Scan(&le.Type, &le.Payload, &le.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		out = append(out, le)
	}
	return out, rows.Err()
}
