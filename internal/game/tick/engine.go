// Package tick converts elapsed wall-clock time into completed actions. Each
// call applies every action that finished since the session's last processed
// mark exactly once, so calling it every few hundred milliseconds or once after
// hours offline reaches the same gathering state.
package tick

import (
	"sort"

	"github.com/Neon681/bmt-idle-sub000/internal/game/catalog"
	"github.com/Neon681/bmt-idle-sub000/internal/game/character"
	"github.com/Neon681/bmt-idle-sub000/internal/game/combat"
	"github.com/Neon681/bmt-idle-sub000/internal/game/dice"
	"github.com/Neon681/bmt-idle-sub000/internal/game/event"
	"github.com/Neon681/bmt-idle-sub000/internal/game/training"
)

// Result summarizes one Advance call.
type Result struct {
	Events []event.Event
	// Actions is the number of gathering actions applied.
	Actions int64
	// PlayerAttacks and MonsterAttacks count resolved combat swings.
	PlayerAttacks  int64
	MonsterAttacks int64
	// Ended is true when the call cleared the session.
	Ended bool
}

// Engine advances sessions. It holds no per-player state.
type Engine struct {
	src dice.Source
}

// NewEngine returns an Engine drawing combat and loot randomness from src.
//
// Precondition: src must be non-nil.
func NewEngine(src dice.Source) *Engine {
	return &Engine{src: src}
}

// Advance applies all actions completed up to nowMs to st.
//
// Precondition: st.Character must be non-nil.
// Postcondition: every surviving track is aligned to its action grid; a session
// that completed, ran out of input or lost its character is cleared.
func (e *Engine) Advance(st *training.State, nowMs int64) Result {
	switch s := st.Session.(type) {
	case *training.Gathering:
		return e.advanceGathering(st, s, nowMs)
	case *training.Encounter:
		return e.advanceEncounter(st, s, nowMs)
	default:
		return Result{}
	}
}

func (e *Engine) advanceGathering(st *training.State, s *training.Gathering, nowMs int64) Result {
	var res Result
	c := st.Character
	end := s.EndsAt()
	capped := min(nowMs, end)
	pending := s.Pending(s.StartedAt, capped)
	before := levels(c, s.Skill)

	exhausted := false
	for res.Actions < pending {
		if s.Consumes != "" {
			if err := c.RemoveItems(s.Consumes, 1); err != nil {
				exhausted = true
				break
			}
		}
		c.AddExperience(s.Skill, s.XPPerAction)
		if s.Yield > 0 {
			// Yield > 0 so AddItems cannot fail.
			_ = c.AddItems(s.Produces, s.Yield)
		}
		c.RecordActions(s.ActivityID, 1)
		res.Events = append(res.Events, c.AdvanceQuests(s.ActivityID, 1)...)
		res.Actions++
	}

	if s.Yield > 0 && res.Actions > 0 {
		res.Events = append(res.Events, event.ItemsProduced{
			ItemID:   s.Produces,
			Quantity: int(res.Actions) * s.Yield,
		})
	}
	res.Events = append(res.Events, levelUps(c, before)...)

	switch {
	case exhausted:
		res.Events = append(res.Events, event.SessionFailed{
			SessionID: s.ID,
			Reason:    event.ReasonResourceExhausted,
			Resource:  s.Consumes,
		})
		finish(st, &res)
	case nowMs >= end:
		s.Advance(s.StartedAt, res.Actions)
		res.Events = append(res.Events, event.SessionCompleted{SessionID: s.ID, Skill: s.Skill})
		finish(st, &res)
	default:
		s.Advance(s.StartedAt, res.Actions)
	}
	return res
}

// advanceEncounter interleaves the two attack tracks by index with the player
// swinging first at each index. A foe killed mid-batch respawns before the
// next swing. Index order is not time order when the cadences differ, so a
// chunked catch-up and a single batch can diverge once a death is involved.
func (e *Engine) advanceEncounter(st *training.State, s *training.Encounter, nowMs int64) Result {
	var res Result
	c := st.Character
	end := s.EndsAt()
	capped := min(nowMs, end)
	playerPending := s.Player.Pending(s.StartedAt, capped)
	enemyPending := s.Enemy.Pending(s.StartedAt, capped)
	before := levels(c, catalog.CombatSkills...)
	foe := combat.MonsterStats(&s.Monster)

	died := false
	for i := int64(0); i < max(playerPending, enemyPending); i++ {
		if i < playerPending {
			hit := combat.ResolveAttack(e.src, combat.PlayerStats(c), foe)
			s.Foe.ApplyDamage(hit.Damage)
			res.PlayerAttacks++
			if s.Foe.IsDead() {
				res.Events = append(res.Events, combat.Defeat(e.src, c, &s.Monster)...)
				s.Foe.Respawn()
			}
		}
		if i < enemyPending && !s.Foe.IsDead() {
			hit := combat.ResolveAttack(e.src, foe, combat.PlayerStats(c))
			c.ApplyDamage(hit.Damage)
			res.MonsterAttacks++
			if c.IsIncapacitated() {
				died = true
				break
			}
		}
	}
	res.Events = append(res.Events, levelUps(c, before)...)

	if died {
		res.Events = append(res.Events, event.SessionFailed{SessionID: s.ID, Reason: event.ReasonDeath})
		finish(st, &res)
		return res
	}
	s.Player.Advance(s.StartedAt, res.PlayerAttacks)
	s.Enemy.Advance(s.StartedAt, res.MonsterAttacks)
	if nowMs >= end {
		res.Events = append(res.Events, event.SessionCompleted{SessionID: s.ID, Skill: training.SkillCombat})
		finish(st, &res)
	}
	return res
}

func finish(st *training.State, res *Result) {
	st.Session = nil
	res.Ended = true
}

func levels(c *character.Character, skills ...string) map[string]int {
	out := make(map[string]int, len(skills))
	for _, s := range skills {
		out[s] = c.Level(s)
	}
	return out
}

// levelUps returns one LevelUp per skill whose level rose since before, in
// skill order.
func levelUps(c *character.Character, before map[string]int) []event.Event {
	skills := make([]string, 0, len(before))
	for s := range before {
		skills = append(skills, s)
	}
	sort.Strings(skills)

	var events []event.Event
	for _, s := range skills {
		if now := c.Level(s); now > before[s] {
			events = append(events, event.LevelUp{Skill: s, OldLevel: before[s], NewLevel: now})
		}
	}
	return events
}
