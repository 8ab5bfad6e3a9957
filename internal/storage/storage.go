// Package storage persists the single player's save: the character ledger and
// the session in progress, written after every tick and read once at startup.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Neon681/bmt-idle-sub000/internal/game/character"
	"github.com/Neon681/bmt-idle-sub000/internal/game/event"
	"github.com/Neon681/bmt-idle-sub000/internal/game/training"
)

//go:generate mockgen -destination=mock/mock.go -package=mock github.com/Neon681/bmt-idle-sub000/internal/storage Store

// ErrSaveNotFound is returned when no save exists under a name.
var ErrSaveNotFound = errors.New("save not found")

// Save is one persisted snapshot.
type Save struct {
	Name    string
	State   training.State
	SavedAt time.Time
}

// Store reads and writes saves by name.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Load returns the save stored under name or ErrSaveNotFound.
	Load(ctx context.Context, name string) (*Save, error)
	// Put writes s, replacing any save with the same name.
	Put(ctx context.Context, s *Save) error
	// Delete removes the save under name. Deleting a missing save is not an error.
	Delete(ctx context.Context, name string) error
	// Close releases backend resources.
	Close() error
}

// Record is the column-level encoding shared by every backend.
type Record struct {
	Character []byte
	// Session is nil when the character is idle.
	Session []byte
	SavedAt time.Time
}

// Encode splits s into its stored columns.
//
// Precondition: s.State.Character must be non-nil.
func Encode(s *Save) (Record, error) {
	if s.State.Character == nil {
		return Record{}, fmt.Errorf("encoding save %q: missing character", s.Name)
	}
	char, err := json.Marshal(s.State.Character)
	if err != nil {
		return Record{}, fmt.Errorf("encoding save %q character: %w", s.Name, err)
	}
	rec := Record{Character: char, SavedAt: s.SavedAt.UTC()}
	if s.State.Session != nil {
		rec.Session, err = training.MarshalSession(s.State.Session)
		if err != nil {
			return Record{}, fmt.Errorf("encoding save %q: %w", s.Name, err)
		}
	}
	return rec, nil
}

// Decode rebuilds a save from its stored columns and normalizes the character.
func Decode(name string, rec Record) (*Save, error) {
	var c character.Character
	if err := json.Unmarshal(rec.Character, &c); err != nil {
		return nil, fmt.Errorf("decoding save %q character: %w", name, err)
	}
	c.Normalize()
	sess, err := training.UnmarshalSession(rec.Session)
	if err != nil {
		return nil, fmt.Errorf("decoding save %q: %w", name, err)
	}
	return &Save{
		Name:    name,
		State:   training.State{Character: &c, Session: sess},
		SavedAt: rec.SavedAt,
	}, nil
}

// LoggedEvent is one journaled engine event.
type LoggedEvent struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventLog is implemented by stores that can journal emitted events next to
// the save.
type EventLog interface {
	AppendEvents(ctx context.Context, name string, events []event.Event) error
	RecentEvents(ctx context.Context, name string, limit int) ([]LoggedEvent, error)
}
