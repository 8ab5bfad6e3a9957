package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neon681/bmt-idle-sub000/internal/game/event"
	"github.com/Neon681/bmt-idle-sub000/internal/storage/postgres"
	"github.com/Neon681/bmt-idle-sub000/internal/storage/storagetest"
	"github.com/Neon681/bmt-idle-sub000/internal/testutil"
)

func setupRepo(t *testing.T) *postgres.SaveRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container tests skipped in -short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return postgres.NewSaveRepository(pc.RawPool)
}

func TestSaveRepository_Contract(t *testing.T) {
	storagetest.Run(t, setupRepo(t))
}

func TestSaveRepository_EventJournal(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, storagetest.SampleSave("journal")))

	require.NoError(t, repo.AppendEvents(ctx, "journal", []event.Event{
		event.LevelUp{Skill: "mining", OldLevel: 1, NewLevel: 2},
		event.MonsterDefeated{MonsterID: "goblin", CoinsAwarded: 9},
	}))
	require.NoError(t, repo.AppendEvents(ctx, "journal", nil))

	got, err := repo.RecentEvents(ctx, "journal", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "monster_defeated", got[0].Type)
	assert.Equal(t, "level_up", got[1].Type)
	assert.Contains(t, string(got[0].Payload), `"goblin"`)

	require.NoError(t, repo.Delete(ctx, "journal"))
	got, err = repo.RecentEvents(ctx, "journal", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpen_RequiresMigratedSchema(t *testing.T) {
	if testing.Short() {
		t.Skip("postgres container tests skipped in -short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	ctx := context.Background()

	_, err := postgres.Open(ctx, pc.Config)
	require.ErrorIs(t, err, postgres.ErrSchemaMissing)

	pc.ApplyMigrations(t)
	repo, err := postgres.Open(ctx, pc.Config)
	require.NoError(t, err)
	require.NoError(t, repo.Put(ctx, storagetest.SampleSave("owned")))
	require.NoError(t, repo.Close())

	_, err = repo.Load(ctx, "owned")
	assert.Error(t, err, "pool must be closed with the repository")
}
