package combat

import "github.com/Neon681/bmt-idle-sub000/internal/game/catalog"

// Instance is the live monster an encounter is fighting.
//
// Invariant: 0 <= CurrentHP <= MaxHP. A defeated instance is respawned before
// any later attack sees it.
type Instance struct {
	// ID identifies the encounter's monster slot; it survives respawns.
	ID        string `json:"id"`
	MonsterID string `json:"monster_id"`
	Name      string `json:"name"`
	CurrentHP int    `json:"current_hp"`
	MaxHP     int    `json:"max_hp"`
	// Spawn counts how many times the slot has been refilled.
	Spawn int `json:"spawn"`
}

// NewInstance creates a full-HP instance of m.
//
// Precondition: id must be non-empty; m must be non-nil.
// Postcondition: CurrentHP equals m.MaxHP.
func NewInstance(id string, m *catalog.Monster) *Instance {
	return &Instance{
		ID:        id,
		MonsterID: m.ID,
		Name:      m.Name,
		CurrentHP: m.MaxHP,
		MaxHP:     m.MaxHP,
	}
}

// IsDead reports whether the instance has zero or fewer hit points.
func (i *Instance) IsDead() bool {
	return i.CurrentHP <= 0
}

// ApplyDamage reduces CurrentHP by amount, flooring at zero.
func (i *Instance) ApplyDamage(amount int) {
	if amount <= 0 {
		return
	}
	i.CurrentHP -= amount
	if i.CurrentHP < 0 {
		i.CurrentHP = 0
	}
}

// Respawn replaces the instance with a fresh full-HP one of the same template.
func (i *Instance) Respawn() {
	i.CurrentHP = i.MaxHP
	i.Spawn++
}

// HealthDescription returns a visible health state string.
//
// Postcondition: Returns a non-empty string.
func (i *Instance) HealthDescription() string {
	if i.CurrentHP <= 0 {
		return "dead"
	}
	pct := float64(i.CurrentHP) / float64(i.MaxHP)
	switch {
	case pct >= 1.0:
		return "unharmed"
	case pct >= 0.60:
		return "lightly wounded"
	case pct >= 0.20:
		return "heavily wounded"
	default:
		return "critically wounded"
	}
}
