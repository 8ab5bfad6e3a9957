// Package sqlite stores saves in a local SQLite file using the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Neon681/bmt-idle-sub000/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS saves (
	name       TEXT    PRIMARY KEY,
	character  TEXT    NOT NULL,
	session    TEXT,
	saved_at   INTEGER NOT NULL
);`

// Store is a storage.Store backed by one SQLite database file.
type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and ensures the schema.
// Use ":memory:" for a throwaway store.
//
// Postcondition: Returns a ready Store or a non-nil error.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %q: %w", path, err)
	}
	// A single writer keeps ":memory:" databases on one connection.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating sqlite schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Load returns the save stored under name or storage.ErrSaveNotFound.
func (s *Store) Load(ctx context.Context, name string) (*storage.Save, error) {
	var (
		char    string
		sess    sql.NullString
		savedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT character, session, saved_at FROM saves WHERE name = ?`, name,
	).Scan(&char, &sess, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading %q: %w", name, storage.ErrSaveNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", name, err)
	}
	rec := storage.Record{Character: []byte(char), SavedAt: time.UnixMilli(savedAt).UTC()}
	if sess.Valid {
		rec.Session = []byte(sess.String)
	}
	return storage.Decode(name, rec)
}

// Put writes save, replacing any previous save with the same name.
func (s *Store) Put(ctx context.Context, save *storage.Save) error {
	rec, err := storage.Encode(save)
	if err != nil {
		return err
	}
	var sess sql.NullString
	if rec.Session != nil {
		sess = sql.NullString{String: string(rec.Session), Valid: true}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saves (name, character, session, saved_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			character = excluded.character,
			session   = excluded.session,
			saved_at  = excluded.saved_at`,
		save.Name, string(rec.Character), sess, rec.SavedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("writing %q: %w", save.Name, err)
	}
	return nil
}

// Delete removes the save under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting %q: %w", name, err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
