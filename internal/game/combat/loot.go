package combat

import (
	"github.com/Neon681/bmt-idle-sub000/internal/game/catalog"
	"github.com/Neon681/bmt-idle-sub000/internal/game/dice"
)

// Loot is what one kill drops.
type Loot struct {
	Coins int64
	// Items maps item ID to quantity; nil when nothing dropped.
	Items map[string]int
}

// RollLoot rolls coins and then each item drop in table order.
//
// Precondition: lt must have passed Validate().
// Postcondition: CoinsMin <= Coins <= CoinsMax; each dropped quantity is in
// [MinQty, MaxQty].
func RollLoot(src dice.Source, lt catalog.LootTable) Loot {
	loot := Loot{Coins: int64(dice.Between(src, lt.CoinsMin, lt.CoinsMax))}
	for _, drop := range lt.Items {
		if !dice.Chance(src, drop.Chance) {
			continue
		}
		if loot.Items == nil {
			loot.Items = make(map[string]int)
		}
		loot.Items[drop.ItemID] += dice.Between(src, drop.MinQty, drop.MaxQty)
	}
	return loot
}
