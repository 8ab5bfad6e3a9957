// Package gameserver hosts one player's game: it owns the live state, drives
// the tick engine from the wall clock, persists after every tick and exposes
// the result over HTTP and a websocket event stream.
package gameserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Neon681/bmt-idle-sub000/internal/game/catalog"
	"github.com/Neon681/bmt-idle-sub000/internal/game/character"
	"github.com/Neon681/bmt-idle-sub000/internal/game/event"
	"github.com/Neon681/bmt-idle-sub000/internal/game/tick"
	"github.com/Neon681/bmt-idle-sub000/internal/game/training"
	"github.com/Neon681/bmt-idle-sub000/internal/observability"
	"github.com/Neon681/bmt-idle-sub000/internal/pkg/clock"
	"github.com/Neon681/bmt-idle-sub000/internal/storage"
)

var (
	// ErrUnknownItem is returned for an item ID missing from the catalog.
	ErrUnknownItem = errors.New("unknown item")
	// ErrUnknownQuest is returned for a quest ID missing from the catalog.
	ErrUnknownQuest = errors.New("unknown quest")
	// ErrNotLoaded is returned by commands issued before Load.
	ErrNotLoaded = errors.New("game not loaded")
	// ErrNoJournal is returned by History when the store keeps no event log.
	ErrNoJournal = errors.New("store does not journal events")
)

// Publisher receives every batch of events the game emits.
type Publisher interface {
	Publish(events []event.Event)
}

// GameConfig wires a Game.
type GameConfig struct {
	SaveName string
	Registry *catalog.Registry
	Machine  *training.Machine
	Engine   *tick.Engine
	Store    storage.Store
	Clock    clock.Clock
	Logger   *zap.Logger
}

// Validate reports the first missing dependency.
func (c GameConfig) Validate() error {
	switch {
	case c.SaveName == "":
		return errors.New("save name must not be empty")
	case c.Registry == nil:
		return errors.New("registry must not be nil")
	case c.Machine == nil:
		return errors.New("machine must not be nil")
	case c.Engine == nil:
		return errors.New("engine must not be nil")
	case c.Store == nil:
		return errors.New("store must not be nil")
	case c.Clock == nil:
		return errors.New("clock must not be nil")
	case c.Logger == nil:
		return errors.New("logger must not be nil")
	}
	return nil
}

// Game owns one save's State. All access is serialized by mu.
type Game struct {
	cfg     GameConfig
	journal storage.EventLog

	mu     sync.Mutex
	state  training.State
	loaded bool

	pubMu      sync.RWMutex
	publishers []Publisher
}

// Snapshot is a point-in-time copy of the game state.
type Snapshot struct {
	Name  string         `json:"name"`
	Now   int64          `json:"now"`
	State training.State `json:"state"`
}

// NewGame returns an unloaded Game. The store doubles as the event journal
// when it implements storage.EventLog.
func NewGame(cfg GameConfig) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("gameserver: %w", err)
	}
	g := &Game{cfg: cfg}
	if j, ok := cfg.Store.(storage.EventLog); ok {
		g.journal = j
	}
	return g, nil
}

// Subscribe adds p to the receivers of emitted events.
func (g *Game) Subscribe(p Publisher) {
	g.pubMu.Lock()
	defer g.pubMu.Unlock()
	g.publishers = append(g.publishers, p)
}

// Load reads the save, creating a fresh character when none exists, and
// applies all progress made while the host was offline.
//
// Postcondition: on success the game is loaded and the caught-up state has
// been persisted.
func (g *Game) Load(ctx context.Context) (tick.Result, error) {
	g.mu.Lock()
	now := g.cfg.Clock.Now()
	save, err := g.cfg.Store.Load(ctx, g.cfg.SaveName)
	switch {
	case errors.Is(err, storage.ErrSaveNotFound):
		g.state = training.State{
			Character: character.New(g.cfg.SaveName, g.cfg.Registry.SkillIDs(), now),
		}
		g.cfg.Logger.Info("created character", zap.String("save", g.cfg.SaveName))
	case err != nil:
		g.mu.Unlock()
		return tick.Result{}, fmt.Errorf("loading save %q: %w", g.cfg.SaveName, err)
	default:
		g.state = save.State
		g.cfg.Logger.Info("loaded save",
			zap.String("save", g.cfg.SaveName),
			zap.Duration("offline", now.Sub(save.SavedAt)),
			zap.Bool("idle", save.State.Idle()),
		)
	}
	g.loaded = true

	start := time.Now()
	res, err := g.advanceLocked(ctx, now)
	g.mu.Unlock()

	g.cfg.Logger.Info("offline catch-up complete",
		zap.Int64("actions", res.Actions),
		zap.Int64("player_attacks", res.PlayerAttacks),
		zap.Int64("monster_attacks", res.MonsterAttacks),
		zap.Int("events", len(res.Events)),
		zap.Duration("elapsed", time.Since(start)),
	)
	g.publish(res.Events)
	return res, err
}

// Tick advances the session to the clock's current time and persists.
func (g *Game) Tick(ctx context.Context) (tick.Result, error) {
	g.mu.Lock()
	if !g.loaded {
		g.mu.Unlock()
		return tick.Result{}, ErrNotLoaded
	}
	res, err := g.advanceLocked(ctx, g.cfg.Clock.Now())
	g.mu.Unlock()
	g.publish(res.Events)
	return res, err
}

// Save persists the current state without advancing it.
func (g *Game) Save(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.loaded {
		return ErrNotLoaded
	}
	return g.persistLocked(ctx, g.cfg.Clock.Now())
}

// Snapshot returns a deep copy of the current state.
func (g *Game) Snapshot() (Snapshot, error) {
	g.mu.Lock()
	if !g.loaded {
		g.mu.Unlock()
		return Snapshot{}, ErrNotLoaded
	}
	now := clock.Millis(g.cfg.Clock)
	data, err := json.Marshal(g.state)
	g.mu.Unlock()
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshotting state: %w", err)
	}
	snap := Snapshot{Name: g.cfg.SaveName, Now: now}
	if err := json.Unmarshal(data, &snap.State); err != nil {
		return Snapshot{}, fmt.Errorf("snapshotting state: %w", err)
	}
	return snap, nil
}

// History returns up to limit journaled events, newest first.
func (g *Game) History(ctx context.Context, limit int) ([]storage.LoggedEvent, error) {
	if g.journal == nil {
		return nil, ErrNoJournal
	}
	return g.journal.RecentEvents(ctx, g.cfg.SaveName, limit)
}

// StartActivity begins gathering activityID after crediting any progress of
// the current session.
func (g *Game) StartActivity(ctx context.Context, activityID string) (*training.Gathering, error) {
	var started *training.Gathering
	err := g.command(ctx, "start activity", func(st *training.State, nowMs int64) error {
		s, err := g.cfg.Machine.StartActivity(st, activityID, nowMs)
		if err != nil {
			return err
		}
		started = s
		g.cfg.Logger.Info("activity started",
			zap.String("session_id", s.ID),
			zap.String("activity", s.ActivityID),
			zap.String("skill", s.Skill),
			zap.Int64("action_ms", s.ActionMs),
		)
		return nil
	})
	return started, err
}

// StartCombat begins an encounter with monsterID after crediting any
// progress of the current session.
func (g *Game) StartCombat(ctx context.Context, monsterID string) (*training.Encounter, error) {
	var started *training.Encounter
	err := g.command(ctx, "start combat", func(st *training.State, nowMs int64) error {
		s, err := g.cfg.Machine.StartCombat(st, monsterID, nowMs)
		if err != nil {
			return err
		}
		started = s
		g.cfg.Logger.Info("combat started",
			zap.String("session_id", s.ID),
			zap.String("monster", s.Monster.ID),
			zap.Int64("player_attack_ms", s.Player.ActionMs),
			zap.Int64("monster_attack_ms", s.Enemy.ActionMs),
		)
		return nil
	})
	return started, err
}

// Cancel stops the current session after crediting its progress. It reports
// whether a session was running.
func (g *Game) Cancel(ctx context.Context) (bool, error) {
	var cancelled bool
	err := g.command(ctx, "cancel", func(st *training.State, _ int64) error {
		prev := training.Cancel(st)
		if prev != nil {
			cancelled = true
			g.cfg.Logger.Info("session cancelled",
				zap.String("session_id", prev.Info().ID),
				zap.String("skill", training.Skill(prev)),
			)
		}
		return nil
	})
	return cancelled, err
}

// Eat consumes one food item to restore hit points.
func (g *Game) Eat(ctx context.Context, itemID string) error {
	return g.command(ctx, "eat", func(st *training.State, _ int64) error {
		item, err := g.item(itemID)
		if err != nil {
			return err
		}
		return st.Character.Eat(item)
	})
}

// Equip moves an inventory item into its equipment slot.
func (g *Game) Equip(ctx context.Context, itemID string) error {
	return g.command(ctx, "equip", func(st *training.State, _ int64) error {
		item, err := g.item(itemID)
		if err != nil {
			return err
		}
		return st.Character.Equip(item)
	})
}

// Unequip returns the item in slot to the inventory.
func (g *Game) Unequip(ctx context.Context, slot catalog.Slot) error {
	return g.command(ctx, "unequip", func(st *training.State, _ int64) error {
		return st.Character.Unequip(slot)
	})
}

// AcceptQuest starts tracking questID.
func (g *Game) AcceptQuest(ctx context.Context, questID string) error {
	return g.command(ctx, "accept quest", func(st *training.State, _ int64) error {
		q, ok := g.cfg.Registry.Quest(questID)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownQuest, questID)
		}
		return st.Character.AcceptQuest(q)
	})
}

// Sell converts qty of itemID into coins and returns the amount credited.
func (g *Game) Sell(ctx context.Context, itemID string, qty int) (int64, error) {
	var earned int64
	err := g.command(ctx, "sell", func(st *training.State, _ int64) error {
		item, err := g.item(itemID)
		if err != nil {
			return err
		}
		earned, err = st.Character.Sell(item, qty)
		return err
	})
	return earned, err
}

func (g *Game) item(id string) (*catalog.Item, error) {
	item, ok := g.cfg.Registry.Item(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	return item, nil
}

// command catches the session up to now, applies fn and persists. The
// catch-up is persisted even when fn fails.
func (g *Game) command(ctx context.Context, name string, fn func(st *training.State, nowMs int64) error) error {
	g.mu.Lock()
	if !g.loaded {
		g.mu.Unlock()
		return ErrNotLoaded
	}
	now := g.cfg.Clock.Now()
	res := g.cfg.Engine.Advance(&g.state, now.UnixMilli())
	g.logEvents(res.Events)
	cmdErr := fn(&g.state, now.UnixMilli())
	err := g.persistLocked(ctx, now)
	if err == nil {
		err = g.journalLocked(ctx, res.Events)
	}
	g.mu.Unlock()

	g.publish(res.Events)
	if cmdErr != nil {
		g.cfg.Logger.Debug("command rejected", zap.String("command", name), zap.Error(cmdErr))
		return fmt.Errorf("%s: %w", name, cmdErr)
	}
	return err
}

func (g *Game) advanceLocked(ctx context.Context, now time.Time) (tick.Result, error) {
	res := g.cfg.Engine.Advance(&g.state, now.UnixMilli())
	g.logEvents(res.Events)
	if err := g.persistLocked(ctx, now); err != nil {
		return res, err
	}
	return res, g.journalLocked(ctx, res.Events)
}

func (g *Game) persistLocked(ctx context.Context, now time.Time) error {
	err := g.cfg.Store.Put(ctx, &storage.Save{
		Name:    g.cfg.SaveName,
		State:   g.state,
		SavedAt: now,
	})
	if err != nil {
		g.cfg.Logger.Error("persisting save", zap.String("save", g.cfg.SaveName), zap.Error(err))
		return fmt.Errorf("persisting save %q: %w", g.cfg.SaveName, err)
	}
	return nil
}

func (g *Game) journalLocked(ctx context.Context, events []event.Event) error {
	if g.journal == nil || len(events) == 0 {
		return nil
	}
	if err := g.journal.AppendEvents(ctx, g.cfg.SaveName, events); err != nil {
		g.cfg.Logger.Warn("journaling events", zap.Int("events", len(events)), zap.Error(err))
		return fmt.Errorf("journaling events: %w", err)
	}
	return nil
}

func (g *Game) logEvents(events []event.Event) {
	for _, ev := range events {
		g.cfg.Logger.Info("game event", observability.EventFields(ev)...)
	}
}

func (g *Game) publish(events []event.Event) {
	if len(events) == 0 {
		return
	}
	g.pubMu.RLock()
	defer g.pubMu.RUnlock()
	for _, p := range g.publishers {
		p.Publish(events)
	}
}
