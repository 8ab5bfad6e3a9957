// Package catalog holds the immutable reference data the engine reads:
// skills, items, monsters, activities and quests, loaded from YAML.
package catalog

import "fmt"

// Built-in skill identifiers the combat resolver depends on.
const (
	SkillAttack    = "attack"
	SkillStrength  = "strength"
	SkillDefence   = "defence"
	SkillHitpoints = "hitpoints"
)

// CombatSkills lists the skills that receive experience from a monster kill.
var CombatSkills = []string{SkillAttack, SkillStrength, SkillDefence, SkillHitpoints}

// SkillKind groups skills by how they are trained.
type SkillKind string

const (
	KindGathering  SkillKind = "gathering"
	KindProduction SkillKind = "production"
	KindCombat     SkillKind = "combat"
)

// Skill defines a trainable skill.
type Skill struct {
	ID   string    `yaml:"id" json:"id"`
	Name string    `yaml:"name" json:"name"`
	Kind SkillKind `yaml:"kind" json:"kind"`
}

// Validate checks that the skill satisfies basic invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty and Kind is known.
func (s *Skill) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("skill: id must not be empty")
	}
	if s.Name == "" {
		return fmt.Errorf("skill %q: name must not be empty", s.ID)
	}
	switch s.Kind {
	case KindGathering, KindProduction, KindCombat:
		return nil
	default:
		return fmt.Errorf("skill %q: kind must be one of [gathering, production, combat], got %q", s.ID, s.Kind)
	}
}
