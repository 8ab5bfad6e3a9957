package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Neon681/bmt-idle-sub000/internal/storage/sqlite"
	"github.com/Neon681/bmt-idle-sub000/internal/storage/storagetest"
)

func TestStore_Contract(t *testing.T) {
	s, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	storagetest.Run(t, s)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "save.db")

	s, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, storagetest.SampleSave("default")))
	require.NoError(t, s.Close())

	s, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Load(ctx, "default")
	require.NoError(t, err)
	require.NotNil(t, got.State.Session)
}
