package character_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Neon681/bmt-idle-sub000/internal/game/catalog"
	"github.com/Neon681/bmt-idle-sub000/internal/game/character"
	"github.com/Neon681/bmt-idle-sub000/internal/game/leveling"
)

var testSkills = []string{"attack", "strength", "defence", "hitpoints", "woodcutting"}

func newChar() *character.Character {
	return character.New("Ada", testSkills, time.Unix(0, 0))
}

func TestNew_StartingState(t *testing.T) {
	c := newChar()
	assert.Equal(t, "Ada", c.Name)
	assert.Equal(t, 1, c.Level("woodcutting"))
	assert.Equal(t, int64(0), c.Experience("woodcutting"))
	assert.Equal(t, character.StartingHitpointsLevel, c.Level(catalog.SkillHitpoints))
	assert.Equal(t, leveling.ExperienceForLevel(character.StartingHitpointsLevel), c.Experience(catalog.SkillHitpoints))
	assert.Equal(t, character.StartingHitpointsLevel, c.MaxHP)
	assert.Equal(t, c.MaxHP, c.CurrentHP)
}

func TestAddExperience_LevelsUp(t *testing.T) {
	c := newChar()
	change := c.AddExperience("woodcutting", 83)
	assert.True(t, change.Increased())
	assert.Equal(t, 1, change.OldLevel)
	assert.Equal(t, 2, change.NewLevel)
	assert.Equal(t, int64(83), change.Gained)
	assert.Equal(t, 2, c.Level("woodcutting"))
}

func TestAddExperience_UnknownSkillIsCreated(t *testing.T) {
	c := newChar()
	change := c.AddExperience("fishing", 10)
	assert.False(t, change.Increased())
	assert.Equal(t, int64(10), c.Experience("fishing"))
}

func TestAddExperience_NegativeIgnored(t *testing.T) {
	c := newChar()
	change := c.AddExperience("woodcutting", -50)
	assert.Equal(t, int64(0), change.Gained)
	assert.Equal(t, int64(0), c.Experience("woodcutting"))
}

func TestAddExperience_SaturatesAtInt64Limit(t *testing.T) {
	c := newChar()
	c.House.Level = 50

	change := c.AddExperience("woodcutting", math.MaxInt64)
	assert.Equal(t, int64(math.MaxInt64), c.Experience("woodcutting"))
	assert.Equal(t, leveling.MaxLevel(), change.NewLevel)

	change = c.AddExperience("woodcutting", math.MaxInt64/3)
	assert.Equal(t, int64(0), change.Gained)
	assert.Equal(t, int64(math.MaxInt64), c.Experience("woodcutting"))
}

func TestProperty_AddExperience_NeverDecreases(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newChar()
		c.House.Level = rapid.IntRange(0, 200).Draw(rt, "house")
		var prev int64
		for i, n := 0, rapid.IntRange(1, 5).Draw(rt, "n"); i < n; i++ {
			amount := rapid.Int64Range(0, math.MaxInt64).Draw(rt, "amount")
			change := c.AddExperience("mining", amount)
			xp := c.Experience("mining")
			assert.GreaterOrEqual(rt, change.Gained, int64(0))
			assert.GreaterOrEqual(rt, xp, prev)
			assert.Equal(rt, leveling.LevelForExperience(xp), c.Level("mining"))
			prev = xp
		}
	})
}

func TestAddExperience_AppliesHouseAndItemBonuses(t *testing.T) {
	c := newChar()
	c.House.Level = 5
	c.Inventory["lumberjack_hat"] = 1
	require.NoError(t, c.Equip(&catalog.Item{
		ID: "lumberjack_hat", Name: "Hat", Slot: catalog.SlotHead,
		XPBonus: map[string]int{"woodcutting": 5},
	}))

	assert.Equal(t, 10, c.XPBonusPercent("woodcutting"))
	assert.Equal(t, 5, c.XPBonusPercent("attack"))

	change := c.AddExperience("woodcutting", 25)
	assert.Equal(t, int64(27), change.Gained) // 25 * 110 / 100 floored
}

func TestAddExperience_HitpointsRaisesMaxHP(t *testing.T) {
	c := newChar()
	c.CurrentHP = 4
	need := leveling.ExperienceForLevel(12) - c.Experience(catalog.SkillHitpoints)
	change := c.AddExperience(catalog.SkillHitpoints, need)
	assert.Equal(t, 12, change.NewLevel)
	assert.Equal(t, 12, c.MaxHP)
	assert.Equal(t, 4, c.CurrentHP, "leveling hitpoints does not heal")
}

func TestRemoveItems_ExactDepletionDeletesEntry(t *testing.T) {
	c := newChar()
	require.NoError(t, c.AddItems("logs", 3))
	require.NoError(t, c.RemoveItems("logs", 3))
	_, present := c.Inventory["logs"]
	assert.False(t, present)
}

func TestRemoveItems_InsufficientLeavesInventoryUnchanged(t *testing.T) {
	c := newChar()
	require.NoError(t, c.AddItems("logs", 2))
	err := c.RemoveItems("logs", 3)
	require.ErrorIs(t, err, character.ErrInsufficientItems)
	assert.Equal(t, 2, c.Quantity("logs"))
}

func TestAddItems_RejectsNonPositive(t *testing.T) {
	c := newChar()
	assert.ErrorIs(t, c.AddItems("logs", 0), character.ErrInvalidQuantity)
	assert.ErrorIs(t, c.RemoveItems("logs", -1), character.ErrInvalidQuantity)
	assert.Empty(t, c.Inventory)
}

func TestRecordKillAndActions(t *testing.T) {
	c := newChar()
	c.RecordKill("goblin")
	c.RecordKill("goblin")
	c.RecordActions("chop_tree", 7)
	c.RecordActions("chop_tree", 0)
	assert.Equal(t, int64(2), c.Counters.MonstersDefeated)
	assert.Equal(t, int64(2), c.Counters.Kills["goblin"])
	assert.Equal(t, int64(7), c.Counters.Actions["chop_tree"])
}

func TestNormalize_RepairsLoadedSnapshot(t *testing.T) {
	c := &character.Character{
		Name:      "Loaded",
		Skills:    map[string]*character.Skill{"mining": {Level: 50, Experience: 200}, "hitpoints": {Level: 1, Experience: 1358}},
		CurrentHP: 99,
		MaxHP:     5,
		Inventory: map[string]int{"ore": 0, "logs": 4},
	}
	c.Normalize()

	assert.Equal(t, 3, c.Level("mining"), "level is re-derived from experience")
	assert.Equal(t, 11, c.MaxHP)
	assert.Equal(t, 11, c.CurrentHP)
	assert.NotContains(t, c.Inventory, "ore")
	assert.NotNil(t, c.Equipment)
	assert.NotNil(t, c.Counters.Kills)
}

func TestNormalize_DropsNilQuestEntries(t *testing.T) {
	var c character.Character
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Loaded","quests":{"q":null}}`), &c))
	c.Normalize()

	assert.NotContains(t, c.Quests, "q")
	assert.NotPanics(t, func() { c.AdvanceQuests("chicken", 1) })
}

func TestProperty_HPClamping(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newChar()
		ops := rapid.SliceOf(rapid.IntRange(-30, 30)).Draw(rt, "ops")
		for _, op := range ops {
			if op < 0 {
				c.ApplyDamage(-op)
			} else {
				c.Heal(op)
			}
			assert.GreaterOrEqual(rt, c.CurrentHP, 0)
			assert.LessOrEqual(rt, c.CurrentHP, c.MaxHP)
		}
	})
}

func TestProperty_NoNegativeInventory(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newChar()
		ops := rapid.SliceOf(rapid.IntRange(-10, 10)).Draw(rt, "ops")
		held := 0
		for _, op := range ops {
			switch {
			case op > 0:
				require.NoError(rt, c.AddItems("seed", op))
				held += op
			case op < 0:
				err := c.RemoveItems("seed", -op)
				if -op > held {
					assert.ErrorIs(rt, err, character.ErrInsufficientItems)
				} else {
					assert.NoError(rt, err)
					held += op
				}
			}
			assert.Equal(rt, held, c.Quantity("seed"))
			assert.GreaterOrEqual(rt, c.Quantity("seed"), 0)
			if held == 0 {
				assert.NotContains(rt, c.Inventory, "seed")
			}
		}
	})
}

func TestProperty_LevelAlwaysDerived(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newChar()
		grants := rapid.SliceOf(rapid.Int64Range(0, 50_000)).Draw(rt, "grants")
		for _, g := range grants {
			c.AddExperience("woodcutting", g)
			assert.Equal(rt, leveling.LevelForExperience(c.Experience("woodcutting")), c.Level("woodcutting"))
		}
	})
}
