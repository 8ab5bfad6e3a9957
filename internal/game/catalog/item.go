package catalog

import "fmt"

// Slot identifies an equipment slot. Empty means the item cannot be worn.
type Slot string

const (
	SlotWeapon Slot = "weapon"
	SlotShield Slot = "shield"
	SlotHead   Slot = "head"
	SlotBody   Slot = "body"
	SlotLegs   Slot = "legs"
	SlotHands  Slot = "hands"
	SlotFeet   Slot = "feet"
	SlotNeck   Slot = "neck"
	SlotRing   Slot = "ring"
)

var validSlots = map[Slot]bool{
	SlotWeapon: true, SlotShield: true, SlotHead: true, SlotBody: true,
	SlotLegs: true, SlotHands: true, SlotFeet: true, SlotNeck: true, SlotRing: true,
}

// Bonuses are the combat stat bonuses an equipped item grants.
type Bonuses struct {
	Attack   int `yaml:"attack" json:"attack"`
	Strength int `yaml:"strength" json:"strength"`
	Defence  int `yaml:"defence" json:"defence"`
}

// Add returns the component-wise sum of b and o.
func (b Bonuses) Add(o Bonuses) Bonuses {
	return Bonuses{
		Attack:   b.Attack + o.Attack,
		Strength: b.Strength + o.Strength,
		Defence:  b.Defence + o.Defence,
	}
}

// Item defines an inventory item.
type Item struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Value int    `yaml:"value" json:"value"`
	// Heal is the hit points restored when eaten; 0 means inedible.
	Heal    int     `yaml:"heal" json:"heal"`
	Slot    Slot    `yaml:"slot" json:"slot"`
	Bonuses Bonuses `yaml:"bonuses" json:"bonuses"`
	// AttackSpeedMs overrides the wielder's attack cadence; weapons only.
	AttackSpeedMs int64 `yaml:"attack_speed_ms" json:"attack_speed_ms"`
	// XPBonus maps skill ID to an additive experience percent while equipped.
	XPBonus map[string]int `yaml:"xp_bonus" json:"xp_bonus"`
}

// Equippable reports whether the item occupies an equipment slot.
func (i *Item) Equippable() bool { return i.Slot != "" }

// Edible reports whether the item heals when eaten.
func (i *Item) Edible() bool { return i.Heal > 0 }

// Validate checks that the item satisfies basic invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, Value and Heal are
// non-negative, Slot is empty or known, and only weapons carry AttackSpeedMs.
func (i *Item) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("item: id must not be empty")
	}
	if i.Name == "" {
		return fmt.Errorf("item %q: name must not be empty", i.ID)
	}
	if i.Value < 0 {
		return fmt.Errorf("item %q: value must be >= 0", i.ID)
	}
	if i.Heal < 0 {
		return fmt.Errorf("item %q: heal must be >= 0", i.ID)
	}
	if i.Slot != "" && !validSlots[i.Slot] {
		return fmt.Errorf("item %q: unknown slot %q", i.ID, i.Slot)
	}
	if i.AttackSpeedMs < 0 || (i.AttackSpeedMs > 0 && i.Slot != SlotWeapon) {
		return fmt.Errorf("item %q: attack_speed_ms is only valid on weapons and must be > 0", i.ID)
	}
	for skill, pct := range i.XPBonus {
		if pct < 0 {
			return fmt.Errorf("item %q: xp_bonus for %q must be >= 0", i.ID, skill)
		}
	}
	return nil
}
