// Package character is the mutable ledger of a player's progress: skills,
// hit points, inventory, coins, equipment and quest progress. Every engine
// mutation goes through the methods in this package.
package character

import (
	"time"

	"github.com/Neon681/bmt-idle-sub000/internal/game/catalog"
	"github.com/Neon681/bmt-idle-sub000/internal/game/leveling"
)

// StartingHitpointsLevel is the hitpoints level a new character begins with.
const StartingHitpointsLevel = 10

// HouseXPPercentPerLevel is the additive experience percent each house level grants.
const HouseXPPercentPerLevel = 1

// Skill is one skill's progress. Level is always LevelForExperience(Experience).
type Skill struct {
	Level      int   `json:"level"`
	Experience int64 `json:"experience"`
}

// EquippedItem is an item in an equipment slot with its bonuses copied at equip time.
type EquippedItem struct {
	ItemID        string          `json:"item_id"`
	Bonuses       catalog.Bonuses `json:"bonuses"`
	AttackSpeedMs int64           `json:"attack_speed_ms,omitempty"`
	XPBonus       map[string]int  `json:"xp_bonus,omitempty"`
}

// House holds the player's housing upgrades.
type House struct {
	Level int `json:"level"`
}

// Counters track lifetime progress.
type Counters struct {
	MonstersDefeated int64            `json:"monsters_defeated"`
	Kills            map[string]int64 `json:"kills"`
	Actions          map[string]int64 `json:"actions"`
}

// QuestProgress tracks one accepted quest.
type QuestProgress struct {
	QuestID     string `json:"quest_id"`
	Target      string `json:"target"`
	Required    int    `json:"required"`
	Progress    int    `json:"progress"`
	RewardCoins int64  `json:"reward_coins"`
	Completed   bool   `json:"completed"`
}

// Character represents a player's persistent state.
//
// Invariant: every skill has Level >= 1 and Experience >= 0; 0 <= CurrentHP <= MaxHP;
// every inventory quantity is > 0 (depleted entries are removed).
type Character struct {
	Name      string                        `json:"name"`
	Skills    map[string]*Skill             `json:"skills"`
	CurrentHP int                           `json:"current_hp"`
	MaxHP     int                           `json:"max_hp"`
	Inventory map[string]int                `json:"inventory"`
	Coins     int64                         `json:"coins"`
	Equipment map[catalog.Slot]EquippedItem `json:"equipment"`
	House     House                         `json:"house"`
	Counters  Counters                      `json:"counters"`
	Quests    map[string]*QuestProgress     `json:"quests"`
	CreatedAt time.Time                     `json:"created_at"`
}

// New builds a fresh character holding every skill in skillIDs at level 1,
// except hitpoints which starts at StartingHitpointsLevel.
//
// Precondition: name must be non-empty.
// Postcondition: MaxHP == CurrentHP == hitpoints level.
func New(name string, skillIDs []string, now time.Time) *Character {
	c := &Character{
		Name:      name,
		Skills:    make(map[string]*Skill, len(skillIDs)+1),
		Inventory: make(map[string]int),
		Equipment: make(map[catalog.Slot]EquippedItem),
		Quests:    make(map[string]*QuestProgress),
		Counters: Counters{
			Kills:   make(map[string]int64),
			Actions: make(map[string]int64),
		},
		CreatedAt: now,
	}
	for _, id := range skillIDs {
		c.Skills[id] = &Skill{Level: leveling.MinLevel}
	}
	hpXP := leveling.ExperienceForLevel(StartingHitpointsLevel)
	c.Skills[catalog.SkillHitpoints] = &Skill{Level: StartingHitpointsLevel, Experience: hpXP}
	c.MaxHP = StartingHitpointsLevel
	c.CurrentHP = StartingHitpointsLevel
	return c
}

// Normalize repairs a snapshot loaded from storage: nil maps are allocated,
// levels are re-derived from experience and HP is clamped.
//
// Postcondition: the Character invariant holds.
func (c *Character) Normalize() {
	if c.Skills == nil {
		c.Skills = make(map[string]*Skill)
	}
	if c.Inventory == nil {
		c.Inventory = make(map[string]int)
	}
	if c.Equipment == nil {
		c.Equipment = make(map[catalog.Slot]EquippedItem)
	}
	if c.Quests == nil {
		c.Quests = make(map[string]*QuestProgress)
	}
	if c.Counters.Kills == nil {
		c.Counters.Kills = make(map[string]int64)
	}
	if c.Counters.Actions == nil {
		c.Counters.Actions = make(map[string]int64)
	}
	for id, s := range c.Skills {
		if s == nil {
			s = &Skill{}
			c.Skills[id] = s
		}
		if s.Experience < 0 {
			s.Experience = 0
		}
		s.Level = leveling.LevelForExperience(s.Experience)
	}
	for id, q := range c.Quests {
		if q == nil {
			delete(c.Quests, id)
		}
	}
	for id, qty := range c.Inventory {
		if qty <= 0 {
			delete(c.Inventory, id)
		}
	}
	if hp := c.Level(catalog.SkillHitpoints); hp > c.MaxHP {
		c.MaxHP = hp
	}
	c.clampHP()
}

// Level returns the level of skill, or MinLevel when the skill has no entry.
func (c *Character) Level(skill string) int {
	if s, ok := c.Skills[skill]; ok {
		return s.Level
	}
	return leveling.MinLevel
}

// Experience returns the experience held in skill.
func (c *Character) Experience(skill string) int64 {
	if s, ok := c.Skills[skill]; ok {
		return s.Experience
	}
	return 0
}

// IsIncapacitated reports whether the character has no hit points left.
func (c *Character) IsIncapacitated() bool {
	return c.CurrentHP <= 0
}

func (c *Character) clampHP() {
	if c.CurrentHP < 0 {
		c.CurrentHP = 0
	}
	if c.CurrentHP > c.MaxHP {
		c.CurrentHP = c.MaxHP
	}
}
