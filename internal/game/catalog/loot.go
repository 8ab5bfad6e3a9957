package catalog

import "fmt"

// ItemDrop defines a single item entry in a loot table with a drop chance.
type ItemDrop struct {
	ItemID string  `yaml:"item" json:"item"`
	Chance float64 `yaml:"chance" json:"chance"`
	MinQty int     `yaml:"min_qty" json:"min_qty"`
	MaxQty int     `yaml:"max_qty" json:"max_qty"`
}

// LootTable defines the possible drops for a monster.
type LootTable struct {
	CoinsMin int        `yaml:"coins_min" json:"coins_min"`
	CoinsMax int        `yaml:"coins_max" json:"coins_max"`
	Items    []ItemDrop `yaml:"items" json:"items"`
}

// Validate checks that the loot table satisfies its invariants.
//
// Postcondition: Returns nil iff 0 <= CoinsMin <= CoinsMax and every item has a
// non-empty id, a chance in (0, 1] and 1 <= MinQty <= MaxQty. An empty table is valid.
func (lt *LootTable) Validate() error {
	if lt.CoinsMin < 0 {
		return fmt.Errorf("loot table: coins_min must be >= 0, got %d", lt.CoinsMin)
	}
	if lt.CoinsMin > lt.CoinsMax {
		return fmt.Errorf("loot table: coins_min (%d) must be <= coins_max (%d)", lt.CoinsMin, lt.CoinsMax)
	}
	for i, item := range lt.Items {
		if item.ItemID == "" {
			return fmt.Errorf("loot table: item[%d] must have a non-empty item id", i)
		}
		if item.Chance <= 0 || item.Chance > 1.0 {
			return fmt.Errorf("loot table: item[%d] chance must be in (0, 1.0], got %f", i, item.Chance)
		}
		if item.MinQty < 1 {
			return fmt.Errorf("loot table: item[%d] min_qty must be >= 1, got %d", i, item.MinQty)
		}
		if item.MinQty > item.MaxQty {
			return fmt.Errorf("loot table: item[%d] min_qty (%d) must be <= max_qty (%d)", i, item.MinQty, item.MaxQty)
		}
	}
	return nil
}
