package combat

import (
	"github.com/Neon681/bmt-idle-sub000/internal/game/catalog"
	"github.com/Neon681/bmt-idle-sub000/internal/game/character"
	"github.com/Neon681/bmt-idle-sub000/internal/game/dice"
	"github.com/Neon681/bmt-idle-sub000/internal/game/event"
)

// Defeat credits c with the rewards for killing one m: experience in every
// combat skill per the XP table, rolled coins and items, the kill counters and
// quest progress.
//
// Precondition: src, c and m must be non-nil.
// Postcondition: the first returned event is a MonsterDefeated; any
// QuestCompleted events follow it.
func Defeat(src dice.Source, c *character.Character, m *catalog.Monster) []event.Event {
	xp := m.XP.BySkill()
	for _, skill := range catalog.CombatSkills {
		c.AddExperience(skill, xp[skill])
	}

	loot := RollLoot(src, m.Loot)
	c.AddCoins(loot.Coins)
	for id, qty := range loot.Items {
		// qty >= MinQty >= 1 for a validated table.
		_ = c.AddItems(id, qty)
	}
	c.RecordKill(m.ID)

	events := []event.Event{event.MonsterDefeated{
		MonsterID:    m.ID,
		CoinsAwarded: loot.Coins,
		Items:        loot.Items,
	}}
	return append(events, c.AdvanceQuests(m.ID, 1)...)
}
