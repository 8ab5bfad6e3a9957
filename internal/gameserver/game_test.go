package gameserver_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/Neon681/bmt-idle-sub000/internal/game/catalog"
	"github.com/Neon681/bmt-idle-sub000/internal/game/character"
	"github.com/Neon681/bmt-idle-sub000/internal/game/dice/dicetest"
	"github.com/Neon681/bmt-idle-sub000/internal/game/event"
	"github.com/Neon681/bmt-idle-sub000/internal/game/tick"
	"github.com/Neon681/bmt-idle-sub000/internal/game/training"
	"github.com/Neon681/bmt-idle-sub000/internal/gameserver"
	"github.com/Neon681/bmt-idle-sub000/internal/pkg/clock"
	"github.com/Neon681/bmt-idle-sub000/internal/storage"
	"github.com/Neon681/bmt-idle-sub000/internal/storage/mock"
)

const saveName = "default"

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func loadRegistry(t *testing.T) *catalog.Registry {
	t.Helper()
	reg, err := catalog.LoadDir(filepath.Join("..", "..", "content"))
	require.NoError(t, err)
	return reg
}

func newGame(t *testing.T, store storage.Store, clk clock.Clock) (*gameserver.Game, *catalog.Registry) {
	t.Helper()
	reg := loadRegistry(t)
	g, err := gameserver.NewGame(gameserver.GameConfig{
		SaveName: saveName,
		Registry: reg,
		Machine:  training.NewMachine(reg, training.DefaultConfig()),
		Engine:   tick.NewEngine(dicetest.Fixed{V: 0, F: 0.99}),
		Store:    store,
		Clock:    clk,
		Logger:   zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	return g, reg
}

// freshGame returns a loaded game for a new character; every Put succeeds.
func freshGame(t *testing.T) (*gameserver.Game, *mock.MockStore, *clock.Fixed) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	store.EXPECT().Load(gomock.Any(), saveName).Return(nil, storage.ErrSaveNotFound)
	store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	clk := clock.NewFixed(t0)
	g, _ := newGame(t, store, clk)
	_, err := g.Load(context.Background())
	require.NoError(t, err)
	return g, store, clk
}

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) Publish(events []event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

func (r *recorder) all() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.Event(nil), r.events...)
}

type journalingStore struct {
	*mock.MockStore
	appended []event.Event
}

func (j *journalingStore) AppendEvents(_ context.Context, _ string, events []event.Event) error {
	j.appended = append(j.appended, events...)
	return nil
}

func (j *journalingStore) RecentEvents(context.Context, string, int) ([]storage.LoggedEvent, error) {
	return []storage.LoggedEvent{{Type: "level_up", Payload: []byte(`{}`), CreatedAt: t0}}, nil
}

func TestGameConfig_Validate(t *testing.T) {
	_, err := gameserver.NewGame(gameserver.GameConfig{})
	assert.Error(t, err)
}

func TestLoad_CreatesCharacterWhenNoSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	store.EXPECT().Load(gomock.Any(), saveName).Return(nil, storage.ErrSaveNotFound)
	store.EXPECT().Put(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s *storage.Save) error {
		assert.Equal(t, saveName, s.Name)
		assert.Equal(t, t0, s.SavedAt)
		assert.True(t, s.State.Idle())
		return nil
	})
	g, reg := newGame(t, store, clock.NewFixed(t0))

	res, err := g.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Events)

	snap, err := g.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, saveName, snap.State.Character.Name)
	assert.Len(t, snap.State.Character.Skills, len(reg.SkillIDs()))
	assert.Equal(t, t0.UnixMilli(), snap.Now)
}

func TestLoad_PropagatesStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	boom := errors.New("disk on fire")
	store.EXPECT().Load(gomock.Any(), saveName).Return(nil, boom)
	g, _ := newGame(t, store, clock.NewFixed(t0))

	_, err := g.Load(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = g.Tick(context.Background())
	assert.ErrorIs(t, err, gameserver.ErrNotLoaded)
}

func TestLoad_AppliesOfflineProgressOnce(t *testing.T) {
	reg := loadRegistry(t)
	st := training.State{Character: character.New(saveName, reg.SkillIDs(), t0)}
	_, err := training.NewMachine(reg, training.DefaultConfig()).StartActivity(&st, "chop_tree", t0.UnixMilli())
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	store.EXPECT().Load(gomock.Any(), saveName).Return(&storage.Save{Name: saveName, State: st, SavedAt: t0}, nil)
	var puts []int
	store.EXPECT().Put(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s *storage.Save) error {
		puts = append(puts, s.State.Character.Quantity("logs"))
		return nil
	}).Times(2)

	clk := clock.NewFixed(t0.Add(41 * time.Second))
	g, _ := newGame(t, store, clk)
	rec := &recorder{}
	g.Subscribe(rec)

	res, err := g.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.Actions)
	assert.Contains(t, res.Events, event.Event(event.ItemsProduced{ItemID: "logs", Quantity: 10}))
	assert.Contains(t, res.Events, event.Event(event.LevelUp{Skill: "woodcutting", OldLevel: 1, NewLevel: 3}))
	assert.Equal(t, res.Events, rec.all())

	// Same instant again: nothing new is credited.
	res, err = g.Tick(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Actions)
	assert.Equal(t, []int{10, 10}, puts)
}

func TestTick_PersistsEveryCall(t *testing.T) {
	g, _, clk := freshGame(t)
	_, err := g.StartActivity(context.Background(), "chop_tree")
	require.NoError(t, err)

	clk.Advance(4 * time.Second)
	res, err := g.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Actions)

	snap, err := g.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 1, snap.State.Character.Quantity("logs"))
	assert.Equal(t, int64(25), snap.State.Character.Experience("woodcutting"))
}

func TestTick_ReturnsPersistError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	boom := errors.New("write failed")
	store.EXPECT().Load(gomock.Any(), saveName).Return(nil, storage.ErrSaveNotFound)
	gomock.InOrder(
		store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil),
		store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(boom),
	)
	g, _ := newGame(t, store, clock.NewFixed(t0))
	_, err := g.Load(context.Background())
	require.NoError(t, err)

	_, err = g.Tick(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestStartActivity_CreditsPreviousSession(t *testing.T) {
	g, _, clk := freshGame(t)
	ctx := context.Background()
	_, err := g.StartActivity(ctx, "chop_tree")
	require.NoError(t, err)

	clk.Advance(9 * time.Second)
	s, err := g.StartActivity(ctx, "mine_copper")
	require.NoError(t, err)
	assert.Equal(t, "mining", s.Skill)
	assert.Equal(t, clock.Millis(clk), s.StartedAt)

	snap, err := g.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 2, snap.State.Character.Quantity("logs"))
	require.NotNil(t, snap.State.Session)
	assert.Equal(t, "mining", training.Skill(snap.State.Session))
}

func TestStartActivity_FailureKeepsSession(t *testing.T) {
	g, _, _ := freshGame(t)
	ctx := context.Background()
	_, err := g.StartActivity(ctx, "chop_tree")
	require.NoError(t, err)

	_, err = g.StartActivity(ctx, "cook_shrimp")
	assert.ErrorIs(t, err, training.ErrInsufficientResources)
	_, err = g.StartActivity(ctx, "chop_oak")
	assert.ErrorIs(t, err, training.ErrLevelTooLow)
	_, err = g.StartActivity(ctx, "juggle")
	assert.ErrorIs(t, err, training.ErrUnknownActivity)

	snap, err := g.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "woodcutting", training.Skill(snap.State.Session))
}

func TestStartCombat_AndCancel(t *testing.T) {
	g, _, _ := freshGame(t)
	ctx := context.Background()

	e, err := g.StartCombat(ctx, "chicken")
	require.NoError(t, err)
	assert.Equal(t, "chicken", e.Monster.ID)
	assert.Equal(t, training.DefaultUnarmedAttackSpeedMs, e.Player.ActionMs)

	_, err = g.StartCombat(ctx, "dragon")
	assert.ErrorIs(t, err, training.ErrUnknownMonster)

	cancelled, err := g.Cancel(ctx)
	require.NoError(t, err)
	assert.True(t, cancelled)
	cancelled, err = g.Cancel(ctx)
	require.NoError(t, err)
	assert.False(t, cancelled)
}

func TestCommands_InventoryAndQuests(t *testing.T) {
	g, _, clk := freshGame(t)
	ctx := context.Background()

	assert.ErrorIs(t, g.Eat(ctx, "moon_cheese"), gameserver.ErrUnknownItem)
	assert.ErrorIs(t, g.Eat(ctx, "logs"), character.ErrNotFood)
	assert.ErrorIs(t, g.Equip(ctx, "bronze_sword"), character.ErrInsufficientItems)
	assert.ErrorIs(t, g.Unequip(ctx, catalog.SlotWeapon), character.ErrSlotEmpty)
	assert.ErrorIs(t, g.AcceptQuest(ctx, "save_the_world"), gameserver.ErrUnknownQuest)

	require.NoError(t, g.AcceptQuest(ctx, "first_logs"))
	assert.ErrorIs(t, g.AcceptQuest(ctx, "first_logs"), character.ErrQuestActive)

	_, err := g.StartActivity(ctx, "chop_tree")
	require.NoError(t, err)
	clk.Advance(40 * time.Second)

	// Selling catches up first, so the ten logs exist by the time they are sold.
	earned, err := g.Sell(ctx, "logs", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(40), earned)

	snap, err := g.Snapshot()
	require.NoError(t, err)
	c := snap.State.Character
	assert.Zero(t, c.Quantity("logs"))
	assert.Equal(t, int64(50+40), c.Coins)
	assert.True(t, c.Quests["first_logs"].Completed)

	_, err = g.Sell(ctx, "logs", 0)
	assert.ErrorIs(t, err, character.ErrInvalidQuantity)
}

func TestGame_JournalsEventsWhenStoreSupportsIt(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := mock.NewMockStore(ctrl)
	base.EXPECT().Load(gomock.Any(), saveName).Return(nil, storage.ErrSaveNotFound)
	base.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	store := &journalingStore{MockStore: base}

	clk := clock.NewFixed(t0)
	g, _ := newGame(t, store, clk)
	ctx := context.Background()
	_, err := g.Load(ctx)
	require.NoError(t, err)
	_, err = g.StartActivity(ctx, "chop_tree")
	require.NoError(t, err)

	clk.Advance(4 * time.Second)
	_, err = g.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, []event.Event{event.ItemsProduced{ItemID: "logs", Quantity: 1}}, store.appended)

	history, err := g.History(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestHistory_WithoutJournal(t *testing.T) {
	g, _, _ := freshGame(t)
	_, err := g.History(context.Background(), 5)
	assert.ErrorIs(t, err, gameserver.ErrNoJournal)
}
