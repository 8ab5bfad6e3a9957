// Package redis stores saves as redis hashes, one key per save name.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Neon681/bmt-idle-sub000/internal/storage"
)

const (
	fieldCharacter = "character"
	fieldSession   = "session"
	fieldSavedAt   = "saved_at"

	defaultKeyPrefix = "idle:save:"
)

// Config holds the dependencies of a redis Store.
type Config struct {
	Client goredis.UniversalClient
	// KeyPrefix is prepended to every save name; empty uses "idle:save:".
	KeyPrefix string
}

// Validate ensures all required dependencies are provided.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config cannot be nil")
	}
	if c.Client == nil {
		return errors.New("client cannot be nil")
	}
	return nil
}

// Store is a storage.Store backed by redis.
type Store struct {
	client goredis.UniversalClient
	prefix string
	// owned is set when the store dialled the client itself.
	owned bool
}

var _ storage.Store = (*Store)(nil)

// New returns a Store using cfg.
//
// Postcondition: Returns a Store or a validation error.
func New(cfg *Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid redis store config: %w", err)
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Store{client: cfg.Client, prefix: prefix}, nil
}

// Dial connects to addr and returns a Store owning the client.
func Dial(ctx context.Context, addr, password string, db int, keyPrefix string) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis %s: %w", addr, err)
	}
	s, err := New(&Config{Client: client, KeyPrefix: keyPrefix})
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

func (s *Store) key(name string) string { return s.prefix + name }

// Load returns the save stored under name or storage.ErrSaveNotFound.
func (s *Store) Load(ctx context.Context, name string) (*storage.Save, error) {
	fields, err := s.client.HGetAll(ctx, s.key(name)).Result()
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", name, err)
	}
	char, ok := fields[fieldCharacter]
	if !ok {
		return nil, fmt.Errorf("loading %q: %w", name, storage.ErrSaveNotFound)
	}
	ms, err := strconv.ParseInt(fields[fieldSavedAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("loading %q: bad saved_at: %w", name, err)
	}
	rec := storage.Record{Character: []byte(char), SavedAt: time.UnixMilli(ms).UTC()}
	if sess, ok := fields[fieldSession]; ok {
		rec.Session = []byte(sess)
	}
	return storage.Decode(name, rec)
}

// Put writes save atomically, replacing any previous save with the same name.
func (s *Store) Put(ctx context.Context, save *storage.Save) error {
	rec, err := storage.Encode(save)
	if err != nil {
		return err
	}
	key := s.key(save.Name)
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, key)
		values := []any{
			fieldCharacter, string(rec.Character),
			fieldSavedAt, strconv.FormatInt(rec.SavedAt.UnixMilli(), 10),
		}
		if rec.Session != nil {
			values = append(values, fieldSession, string(rec.Session))
		}
		pipe.HSet(ctx, key, values...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing %q: %w", save.Name, err)
	}
	return nil
}

// Delete removes the save under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := s.client.Del(ctx, s.key(name)).Err(); err != nil {
		return fmt.Errorf("deleting %q: %w", name, err)
	}
	return nil
}

// Close closes the client when the store was created by Dial. A client
// passed to New stays open for its owner.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}
