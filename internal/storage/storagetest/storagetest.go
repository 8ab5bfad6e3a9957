// Package storagetest runs the shared behavioural checks every storage.Store
// backend must pass.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neon681/bmt-idle-sub000/internal/game/catalog"
	"github.com/Neon681/bmt-idle-sub000/internal/game/character"
	"github.com/Neon681/bmt-idle-sub000/internal/game/combat"
	"github.com/Neon681/bmt-idle-sub000/internal/game/training"
	"github.com/Neon681/bmt-idle-sub000/internal/storage"
)

// SampleSave returns a save with a populated character and an encounter in progress.
func SampleSave(name string) *storage.Save {
	c := character.New("Ada", []string{"attack", "strength", "defence", "hitpoints", "mining"},
		time.UnixMilli(1_700_000_000_000).UTC())
	c.AddExperience("mining", 500)
	_ = c.AddItems("copper_ore", 12)
	c.AddCoins(77)
	c.CurrentHP = 6

	mon := catalog.Monster{ID: "goblin", Name: "Goblin", Level: 5, MaxHP: 12, AttackSpeedMs: 3000}
	foe := combat.NewInstance("enc-1", &mon)
	foe.CurrentHP = 4
	enc := &training.Encounter{
		Base:    training.Base{ID: "enc-1", StartedAt: 1_000, DurationMs: 86_400_000},
		Monster: mon,
		Foe:     foe,
		Player:  training.Track{ActionMs: 4000, LastProcessed: 9_000},
		Enemy:   training.Track{ActionMs: 3000, LastProcessed: 10_000},
	}
	return &storage.Save{
		Name:    name,
		State:   training.State{Character: c, Session: enc},
		SavedAt: time.UnixMilli(1_700_000_123_000).UTC(),
	}
}

// Run exercises s with the contract every backend shares.
func Run(t *testing.T, s storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing save", func(t *testing.T) {
		_, err := s.Load(ctx, "nobody")
		assert.ErrorIs(t, err, storage.ErrSaveNotFound)
	})

	t.Run("round trip", func(t *testing.T) {
		want := SampleSave("slot-a")
		require.NoError(t, s.Put(ctx, want))

		got, err := s.Load(ctx, "slot-a")
		require.NoError(t, err)
		assert.Equal(t, want.Name, got.Name)
		assert.True(t, want.SavedAt.Equal(got.SavedAt))
		assert.Equal(t, want.State.Session, got.State.Session)
		assert.Equal(t, want.State.Character.Skills, got.State.Character.Skills)
		assert.Equal(t, want.State.Character.Inventory, got.State.Character.Inventory)
		assert.Equal(t, want.State.Character.Coins, got.State.Character.Coins)
		assert.Equal(t, 6, got.State.Character.CurrentHP)
	})

	t.Run("overwrite clears session", func(t *testing.T) {
		save := SampleSave("slot-b")
		require.NoError(t, s.Put(ctx, save))
		save.State.Session = nil
		save.State.Character.AddCoins(1)
		require.NoError(t, s.Put(ctx, save))

		got, err := s.Load(ctx, "slot-b")
		require.NoError(t, err)
		assert.Nil(t, got.State.Session)
		assert.Equal(t, int64(78), got.State.Character.Coins)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, SampleSave("slot-c")))
		require.NoError(t, s.Delete(ctx, "slot-c"))
		require.NoError(t, s.Delete(ctx, "slot-c"))
		_, err := s.Load(ctx, "slot-c")
		assert.ErrorIs(t, err, storage.ErrSaveNotFound)
	})
}
