package training

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Neon681/bmt-idle-sub000/internal/game/catalog"
	"github.com/Neon681/bmt-idle-sub000/internal/game/combat"
)

var (
	// ErrInsufficientResources is returned when an activity's input is not held.
	ErrInsufficientResources = errors.New("insufficient resources")
	// ErrIncapacitated is returned when starting combat with no hit points.
	ErrIncapacitated = errors.New("character is incapacitated")
	// ErrLevelTooLow is returned when the activity's level requirement is not met.
	ErrLevelTooLow = errors.New("skill level too low")
	// ErrUnknownActivity is returned for an activity ID missing from the catalog.
	ErrUnknownActivity = errors.New("unknown activity")
	// ErrUnknownMonster is returned for a monster ID missing from the catalog.
	ErrUnknownMonster = errors.New("unknown monster")
)

const (
	// DefaultSessionDuration is the ceiling after which a session completes.
	DefaultSessionDuration = 24 * time.Hour
	// DefaultUnarmedAttackSpeedMs is the player cadence with no weapon wielded.
	DefaultUnarmedAttackSpeedMs int64 = 4000
)

// Config tunes session creation.
type Config struct {
	SessionDuration      time.Duration
	UnarmedAttackSpeedMs int64
}

// DefaultConfig returns the standard 24h ceiling and unarmed cadence.
func DefaultConfig() Config {
	return Config{
		SessionDuration:      DefaultSessionDuration,
		UnarmedAttackSpeedMs: DefaultUnarmedAttackSpeedMs,
	}
}

// Machine starts and stops sessions against a content catalog.
type Machine struct {
	catalog *catalog.Registry
	cfg     Config
	newID   func() string
}

// NewMachine returns a Machine that resolves IDs through reg. Zero config
// fields fall back to DefaultConfig.
//
// Precondition: reg must be non-nil.
func NewMachine(reg *catalog.Registry, cfg Config) *Machine {
	def := DefaultConfig()
	if cfg.SessionDuration <= 0 {
		cfg.SessionDuration = def.SessionDuration
	}
	if cfg.UnarmedAttackSpeedMs <= 0 {
		cfg.UnarmedAttackSpeedMs = def.UnarmedAttackSpeedMs
	}
	return &Machine{catalog: reg, cfg: cfg, newID: uuid.NewString}
}

// Config returns the effective configuration.
func (m *Machine) Config() Config { return m.cfg }

// StartActivity replaces any session in st with a new gathering session for
// activityID starting at nowMs.
//
// Precondition: st.Character must be non-nil.
// Postcondition: on error st is unchanged; on success st.Session is a
// *Gathering with LastProcessed == StartedAt == nowMs.
func (m *Machine) StartActivity(st *State, activityID string, nowMs int64) (*Gathering, error) {
	act, ok := m.catalog.Activity(activityID)
	if !ok {
		return nil, fmt.Errorf("starting %q: %w", activityID, ErrUnknownActivity)
	}
	c := st.Character
	if lvl := c.Level(act.Skill); lvl < act.LevelRequired {
		return nil, fmt.Errorf("starting %q: %s level %d < %d: %w",
			act.ID, act.Skill, lvl, act.LevelRequired, ErrLevelTooLow)
	}
	if act.Consumes != "" && c.Quantity(act.Consumes) < 1 {
		return nil, fmt.Errorf("starting %q: need %q: %w", act.ID, act.Consumes, ErrInsufficientResources)
	}

	g := &Gathering{
		Base: Base{
			ID:         m.newID(),
			StartedAt:  nowMs,
			DurationMs: m.cfg.SessionDuration.Milliseconds(),
		},
		Track:       Track{ActionMs: act.DurationMs, LastProcessed: nowMs},
		ActivityID:  act.ID,
		Skill:       act.Skill,
		XPPerAction: act.XPPerAction,
		Produces:    act.Produces,
		Yield:       act.Yield(),
		Consumes:    act.Consumes,
	}
	st.Session = g
	return g, nil
}

// StartCombat replaces any session in st with an encounter against monsterID.
// The player's cadence is fixed at start from the wielded weapon.
//
// Precondition: st.Character must be non-nil.
// Postcondition: on error st is unchanged; on success the foe is at full HP and
// both tracks start at nowMs.
func (m *Machine) StartCombat(st *State, monsterID string, nowMs int64) (*Encounter, error) {
	mon, ok := m.catalog.Monster(monsterID)
	if !ok {
		return nil, fmt.Errorf("fighting %q: %w", monsterID, ErrUnknownMonster)
	}
	c := st.Character
	if c.IsIncapacitated() {
		return nil, fmt.Errorf("fighting %q: %w", monsterID, ErrIncapacitated)
	}

	id := m.newID()
	e := &Encounter{
		Base: Base{
			ID:         id,
			StartedAt:  nowMs,
			DurationMs: m.cfg.SessionDuration.Milliseconds(),
		},
		Monster: *mon,
		Foe:     combat.NewInstance(id, mon),
		Player:  Track{ActionMs: c.AttackSpeedMs(m.cfg.UnarmedAttackSpeedMs), LastProcessed: nowMs},
		Enemy:   Track{ActionMs: mon.AttackSpeedMs, LastProcessed: nowMs},
	}
	st.Session = e
	return e, nil
}

// Cancel clears the session in st and returns it, or nil when idle.
func Cancel(st *State) Session {
	prev := st.Session
	st.Session = nil
	return prev
}
