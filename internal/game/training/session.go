// Package training owns what a character is currently doing. A Session is
// either a Gathering (an activity loop) or an Encounter (combat against one
// monster); the tick engine switches on the concrete type.
package training

import (
	"github.com/Neon681/bmt-idle-sub000/internal/game/catalog"
	"github.com/Neon681/bmt-idle-sub000/internal/game/combat"
)

// Kind names a session variant on the wire.
type Kind string

const (
	KindGathering Kind = "gathering"
	KindCombat    Kind = "combat"
)

// SkillCombat is the skill reported for encounter sessions.
const SkillCombat = "combat"

// Session is implemented only by *Gathering and *Encounter.
type Session interface {
	Kind() Kind
	// Info returns the identity and ceiling shared by every session variant.
	Info() *Base
	sealed()
}

// Base is the identity and ceiling shared by both variants. Timestamps are
// milliseconds since the Unix epoch.
type Base struct {
	ID         string `json:"id"`
	StartedAt  int64  `json:"started_at"`
	DurationMs int64  `json:"duration_ms"`
}

// EndsAt returns the timestamp at which the session ceiling is reached.
func (b *Base) EndsAt() int64 { return b.StartedAt + b.DurationMs }

// Track is one action cadence anchored at the session start.
//
// Invariant: LastProcessed >= start and (LastProcessed - start) % ActionMs == 0.
type Track struct {
	ActionMs      int64 `json:"action_ms"`
	LastProcessed int64 `json:"last_processed"`
}

// Applied returns how many actions on this track have already been applied.
func (t *Track) Applied(start int64) int64 {
	if t.LastProcessed <= start {
		return 0
	}
	return (t.LastProcessed - start) / t.ActionMs
}

// Pending returns how many whole actions completed in (LastProcessed, now].
//
// Postcondition: Returns >= 0.
func (t *Track) Pending(start, now int64) int64 {
	if now <= t.LastProcessed {
		return 0
	}
	total := (now - start) / t.ActionMs
	if n := total - t.Applied(start); n > 0 {
		return n
	}
	return 0
}

// Advance moves LastProcessed forward by n whole actions on the grid.
func (t *Track) Advance(start, n int64) {
	t.LastProcessed = start + (t.Applied(start)+n)*t.ActionMs
}

// Gathering is an activity loop: each action may consume one input, grants
// experience and may produce items.
type Gathering struct {
	Base
	Track
	ActivityID  string `json:"activity_id"`
	Skill       string `json:"skill"`
	XPPerAction int64  `json:"xp_per_action"`
	// Produces is empty when the activity yields nothing.
	Produces string `json:"produces,omitempty"`
	Yield    int    `json:"yield,omitempty"`
	// Consumes is empty when the activity needs no input.
	Consumes string `json:"consumes,omitempty"`
}

func (*Gathering) Kind() Kind    { return KindGathering }
func (g *Gathering) Info() *Base { return &g.Base }
func (*Gathering) sealed()       {}

// Encounter is a fight against a repeating monster. The player and the
// monster each attack on their own Track.
type Encounter struct {
	Base
	// Monster is the template snapshot taken at start.
	Monster catalog.Monster  `json:"monster"`
	Foe     *combat.Instance `json:"foe"`
	Player  Track            `json:"player"`
	Enemy   Track            `json:"enemy"`
}

func (*Encounter) Kind() Kind    { return KindCombat }
func (e *Encounter) Info() *Base { return &e.Base }
func (*Encounter) sealed()       {}

// Skill returns the skill a session trains, for reporting.
func Skill(s Session) string {
	if g, ok := s.(*Gathering); ok {
		return g.Skill
	}
	return SkillCombat
}
