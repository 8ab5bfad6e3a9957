package catalog

import "fmt"

// XPTable is the experience a monster kill grants per combat skill.
type XPTable struct {
	Attack    int64 `yaml:"attack" json:"attack"`
	Strength  int64 `yaml:"strength" json:"strength"`
	Defence   int64 `yaml:"defence" json:"defence"`
	Hitpoints int64 `yaml:"hitpoints" json:"hitpoints"`
}

// BySkill returns the table as skill ID → amount, in CombatSkills order.
func (x XPTable) BySkill() map[string]int64 {
	return map[string]int64{
		SkillAttack:    x.Attack,
		SkillStrength:  x.Strength,
		SkillDefence:   x.Defence,
		SkillHitpoints: x.Hitpoints,
	}
}

// Monster defines a reusable combat opponent.
type Monster struct {
	ID            string    `yaml:"id" json:"id"`
	Name          string    `yaml:"name" json:"name"`
	Level         int       `yaml:"level" json:"level"`
	MaxHP         int       `yaml:"max_hp" json:"max_hp"`
	Attack        int       `yaml:"attack" json:"attack"`
	Strength      int       `yaml:"strength" json:"strength"`
	Defence       int       `yaml:"defence" json:"defence"`
	AttackSpeedMs int64     `yaml:"attack_speed_ms" json:"attack_speed_ms"`
	XP            XPTable   `yaml:"xp" json:"xp"`
	Loot          LootTable `yaml:"loot" json:"loot"`
}

// Validate checks that the monster satisfies basic invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, Level >= 1,
// MaxHP >= 1, stats are non-negative, AttackSpeedMs > 0 and Loot is valid.
func (m *Monster) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("monster: id must not be empty")
	}
	if m.Name == "" {
		return fmt.Errorf("monster %q: name must not be empty", m.ID)
	}
	if m.Level < 1 {
		return fmt.Errorf("monster %q: level must be >= 1", m.ID)
	}
	if m.MaxHP < 1 {
		return fmt.Errorf("monster %q: max_hp must be >= 1", m.ID)
	}
	if m.Attack < 0 || m.Strength < 0 || m.Defence < 0 {
		return fmt.Errorf("monster %q: attack, strength and defence must be >= 0", m.ID)
	}
	if m.AttackSpeedMs <= 0 {
		return fmt.Errorf("monster %q: attack_speed_ms must be > 0", m.ID)
	}
	if m.XP.Attack < 0 || m.XP.Strength < 0 || m.XP.Defence < 0 || m.XP.Hitpoints < 0 {
		return fmt.Errorf("monster %q: xp values must be >= 0", m.ID)
	}
	if err := m.Loot.Validate(); err != nil {
		return fmt.Errorf("monster %q: %w", m.ID, err)
	}
	return nil
}
