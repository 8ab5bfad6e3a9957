package character

import (
	"errors"
	"fmt"

	"github.com/Neon681/bmt-idle-sub000/internal/game/catalog"
)

var (
	// ErrNotEquippable is returned when equipping an item with no slot.
	ErrNotEquippable = errors.New("item cannot be equipped")
	// ErrSlotEmpty is returned when unequipping an empty slot.
	ErrSlotEmpty = errors.New("equipment slot is empty")
	// ErrNotFood is returned when eating an item that does not heal.
	ErrNotFood = errors.New("item is not edible")
)

// Equip moves one item from the inventory into its slot. Any item already in
// the slot returns to the inventory.
//
// Precondition: item must be non-nil.
// Postcondition: on error the character is unchanged.
func (c *Character) Equip(item *catalog.Item) error {
	if !item.Equippable() {
		return fmt.Errorf("equipping %q: %w", item.ID, ErrNotEquippable)
	}
	if err := c.RemoveItems(item.ID, 1); err != nil {
		return fmt.Errorf("equipping %q: %w", item.ID, err)
	}
	if prev, ok := c.Equipment[item.Slot]; ok {
		c.Inventory[prev.ItemID]++
	}
	var bonus map[string]int
	if len(item.XPBonus) > 0 {
		bonus = make(map[string]int, len(item.XPBonus))
		for k, v := range item.XPBonus {
			bonus[k] = v
		}
	}
	c.Equipment[item.Slot] = EquippedItem{
		ItemID:        item.ID,
		Bonuses:       item.Bonuses,
		AttackSpeedMs: item.AttackSpeedMs,
		XPBonus:       bonus,
	}
	return nil
}

// Unequip returns the item in slot to the inventory.
func (c *Character) Unequip(slot catalog.Slot) error {
	eq, ok := c.Equipment[slot]
	if !ok {
		return fmt.Errorf("unequipping %q: %w", slot, ErrSlotEmpty)
	}
	delete(c.Equipment, slot)
	c.Inventory[eq.ItemID]++
	return nil
}

// EquipmentBonuses returns the summed combat bonuses of every equipped item.
func (c *Character) EquipmentBonuses() catalog.Bonuses {
	var total catalog.Bonuses
	for _, eq := range c.Equipment {
		total = total.Add(eq.Bonuses)
	}
	return total
}

// AttackSpeedMs returns the equipped weapon's attack cadence, or fallback when
// no weapon with a cadence is wielded.
func (c *Character) AttackSpeedMs(fallback int64) int64 {
	if w, ok := c.Equipment[catalog.SlotWeapon]; ok && w.AttackSpeedMs > 0 {
		return w.AttackSpeedMs
	}
	return fallback
}

// Eat consumes one unit of item and heals by its heal amount.
//
// Postcondition: on error the character is unchanged.
func (c *Character) Eat(item *catalog.Item) error {
	if !item.Edible() {
		return fmt.Errorf("eating %q: %w", item.ID, ErrNotFood)
	}
	if err := c.RemoveItems(item.ID, 1); err != nil {
		return fmt.Errorf("eating %q: %w", item.ID, err)
	}
	c.Heal(item.Heal)
	return nil
}

// Sell removes qty of item and credits its value in coins.
//
// Postcondition: Returns the coins credited; on error the character is unchanged.
func (c *Character) Sell(item *catalog.Item, qty int) (int64, error) {
	if err := c.RemoveItems(item.ID, qty); err != nil {
		return 0, fmt.Errorf("selling %q: %w", item.ID, err)
	}
	earned := int64(item.Value) * int64(qty)
	c.AddCoins(earned)
	return earned, nil
}
