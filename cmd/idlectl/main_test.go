package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neon681/bmt-idle-sub000/internal/game/event"
	"github.com/Neon681/bmt-idle-sub000/internal/game/training"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func useTempSave(t *testing.T) {
	t.Helper()
	t.Setenv("IDLE_STORAGE_BACKEND", "sqlite")
	t.Setenv("IDLE_SQLITE_PATH", filepath.Join(t.TempDir(), "idle.db"))
	t.Setenv("IDLE_CONTENT_DIR", filepath.Join("..", "..", "content"))
}

func TestCLI_NewStartCancel(t *testing.T) {
	useTempSave(t)

	out, err := run(t, "new")
	require.NoError(t, err)
	assert.Contains(t, out, "Idle.")

	_, err = run(t, "new")
	assert.ErrorContains(t, err, "already exists")

	out, err = run(t, "start", "chop_tree")
	require.NoError(t, err)
	assert.Contains(t, out, "Training woodcutting: chop_tree")

	_, err = run(t, "start", "chop_oak")
	assert.ErrorIs(t, err, training.ErrLevelTooLow)

	out, err = run(t, "fight", "chicken")
	require.NoError(t, err)
	assert.Contains(t, out, "Fighting Chicken #1")

	out, err = run(t, "cancel")
	require.NoError(t, err)
	assert.Contains(t, out, "Idle.")

	out, err = run(t, "cancel")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to cancel")

	_, err = run(t, "new", "--force")
	require.NoError(t, err)
}

func TestCLI_Catchup(t *testing.T) {
	useTempSave(t)
	out, err := run(t, "catchup")
	require.NoError(t, err)
	assert.Contains(t, out, "actions: 0")
}

func TestRenderXPTable(t *testing.T) {
	var buf bytes.Buffer
	renderXPTable(&buf, 11)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, []string{"2", "83", "83"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"11", "1358", "204"}, strings.Fields(lines[11]))
}

func TestDescribeEvent(t *testing.T) {
	tests := []struct {
		ev   event.Event
		want string
	}{
		{event.LevelUp{Skill: "mining", OldLevel: 1, NewLevel: 3}, "* mining advanced from level 1 to 3"},
		{event.ItemsProduced{ItemID: "logs", Quantity: 4}, "* produced 4 x logs"},
		{event.SessionFailed{Reason: event.ReasonResourceExhausted, Resource: "potato_seed"}, "* session stopped: resource_exhausted (potato_seed)"},
		{event.SessionFailed{Reason: event.ReasonDeath}, "* session stopped: death"},
		{event.QuestCompleted{QuestID: "first_logs", RewardCoins: 50}, "* quest first_logs complete (+50 coins)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, describeEvent(tt.ev))
	}
}
