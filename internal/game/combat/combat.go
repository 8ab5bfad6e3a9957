// Package combat resolves single attacks between a player and a monster and
// hands out kill rewards. Every random draw goes through a dice.Source so that
// callers control determinism.
package combat

import (
	"github.com/Neon681/bmt-idle-sub000/internal/game/catalog"
	"github.com/Neon681/bmt-idle-sub000/internal/game/character"
)

// Stats are the offense and defence numbers one combatant brings to an attack.
type Stats struct {
	Attack   int `json:"attack"`
	Strength int `json:"strength"`
	Defence  int `json:"defence"`
}

// PlayerStats returns the character's combat skill levels plus the summed
// bonuses of everything equipped.
//
// Precondition: c must be non-nil.
func PlayerStats(c *character.Character) Stats {
	b := c.EquipmentBonuses()
	return Stats{
		Attack:   c.Level(catalog.SkillAttack) + b.Attack,
		Strength: c.Level(catalog.SkillStrength) + b.Strength,
		Defence:  c.Level(catalog.SkillDefence) + b.Defence,
	}
}

// MonsterStats returns the template's stats unmodified.
func MonsterStats(m *catalog.Monster) Stats {
	return Stats{Attack: m.Attack, Strength: m.Strength, Defence: m.Defence}
}
