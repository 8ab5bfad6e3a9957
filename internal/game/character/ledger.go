package character

import (
	"errors"
	"fmt"
	"math"

	"github.com/Neon681/bmt-idle-sub000/internal/game/catalog"
	"github.com/Neon681/bmt-idle-sub000/internal/game/leveling"
)

// ErrInsufficientItems is returned when removing more of an item than is held.
var ErrInsufficientItems = errors.New("insufficient items")

// ErrInvalidQuantity is returned for zero or negative item quantities.
var ErrInvalidQuantity = errors.New("quantity must be > 0")

// LevelChange describes the effect of one AddExperience call.
type LevelChange struct {
	Skill    string
	Gained   int64
	OldLevel int
	NewLevel int
}

// Increased reports whether the call raised the skill's level.
func (l LevelChange) Increased() bool { return l.NewLevel > l.OldLevel }

// XPBonusPercent returns the additive experience percent for skill from the
// house and every equipped item.
//
// Postcondition: Returns >= 0.
func (c *Character) XPBonusPercent(skill string) int {
	pct := c.House.Level * HouseXPPercentPerLevel
	for _, eq := range c.Equipment {
		pct += eq.XPBonus[skill]
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// AddExperience applies bonus modifiers to amount, stores the result on skill
// and re-derives the level. A skill without an entry is created at level 1.
// Raising hitpoints raises MaxHP to the new level; MaxHP never shrinks.
//
// Precondition: amount >= 0; negative amounts are ignored.
// Postcondition: skill level == LevelForExperience(skill experience).
func (c *Character) AddExperience(skill string, amount int64) LevelChange {
	s, ok := c.Skills[skill]
	if !ok {
		s = &Skill{Level: leveling.MinLevel}
		c.Skills[skill] = s
	}
	change := LevelChange{Skill: skill, OldLevel: s.Level, NewLevel: s.Level}
	if amount <= 0 {
		return change
	}
	gained := scalePercent(amount, int64(100+c.XPBonusPercent(skill)))
	if gained > math.MaxInt64-s.Experience {
		gained = math.MaxInt64 - s.Experience
	}
	s.Experience += gained
	s.Level = leveling.LevelForExperience(s.Experience)
	if skill == catalog.SkillHitpoints && s.Level > c.MaxHP {
		c.MaxHP = s.Level
	}
	change.Gained = gained
	change.NewLevel = s.Level
	return change
}

// scalePercent returns floor(amount*mul/100), saturating at math.MaxInt64.
//
// Precondition: amount >= 0 and mul > 0.
func scalePercent(amount, mul int64) int64 {
	q, r := amount/100, amount%100
	if q > math.MaxInt64/mul {
		return math.MaxInt64
	}
	whole, frac := q*mul, r*mul/100
	if whole > math.MaxInt64-frac {
		return math.MaxInt64
	}
	return whole + frac
}

// Quantity returns how many of itemID the character holds.
func (c *Character) Quantity(itemID string) int {
	return c.Inventory[itemID]
}

// AddItems adds qty of itemID to the inventory.
//
// Precondition: qty > 0.
// Postcondition: on success Quantity(itemID) grows by qty; on error nothing changes.
func (c *Character) AddItems(itemID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("adding %d of %q: %w", qty, itemID, ErrInvalidQuantity)
	}
	c.Inventory[itemID] += qty
	return nil
}

// RemoveItems removes qty of itemID from the inventory. An entry depleted to
// exactly zero is deleted.
//
// Precondition: qty > 0.
// Postcondition: returns ErrInsufficientItems and leaves the inventory
// unchanged when qty exceeds holdings.
func (c *Character) RemoveItems(itemID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("removing %d of %q: %w", qty, itemID, ErrInvalidQuantity)
	}
	held := c.Inventory[itemID]
	if qty > held {
		return fmt.Errorf("removing %d of %q (held %d): %w", qty, itemID, held, ErrInsufficientItems)
	}
	if qty == held {
		delete(c.Inventory, itemID)
		return nil
	}
	c.Inventory[itemID] = held - qty
	return nil
}

// AddCoins adds amount to the coin purse.
func (c *Character) AddCoins(amount int64) {
	c.Coins += amount
}

// ApplyDamage reduces CurrentHP by amount, flooring at zero.
//
// Precondition: amount >= 0; negative amounts are ignored.
// Postcondition: CurrentHP >= 0.
func (c *Character) ApplyDamage(amount int) {
	if amount <= 0 {
		return
	}
	c.CurrentHP -= amount
	c.clampHP()
}

// Heal raises CurrentHP by amount, capping at MaxHP.
//
// Precondition: amount >= 0; negative amounts are ignored.
// Postcondition: CurrentHP <= MaxHP.
func (c *Character) Heal(amount int) {
	if amount <= 0 {
		return
	}
	c.CurrentHP += amount
	c.clampHP()
}

// RecordActions adds n completed actions of activityID to the lifetime counters.
func (c *Character) RecordActions(activityID string, n int) {
	if n <= 0 {
		return
	}
	c.Counters.Actions[activityID] += int64(n)
}

// RecordKill increments the monsters-defeated counters for monsterID.
func (c *Character) RecordKill(monsterID string) {
	c.Counters.MonstersDefeated++
	c.Counters.Kills[monsterID]++
}
