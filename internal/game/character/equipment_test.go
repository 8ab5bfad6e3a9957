package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neon681/bmt-idle-sub000/internal/game/catalog"
	"github.com/Neon681/bmt-idle-sub000/internal/game/character"
)

var (
	sword = &catalog.Item{
		ID: "bronze_sword", Name: "Bronze Sword", Value: 32, Slot: catalog.SlotWeapon,
		AttackSpeedMs: 2400, Bonuses: catalog.Bonuses{Attack: 4, Strength: 3},
	}
	helm = &catalog.Item{
		ID: "bronze_helm", Name: "Bronze Helm", Slot: catalog.SlotHead,
		Bonuses: catalog.Bonuses{Defence: 3},
	}
	shrimp = &catalog.Item{ID: "shrimp", Name: "Shrimp", Value: 6, Heal: 3}
)

func TestEquip_MovesItemIntoSlot(t *testing.T) {
	c := newChar()
	require.NoError(t, c.AddItems(sword.ID, 1))
	require.NoError(t, c.Equip(sword))

	assert.Equal(t, 0, c.Quantity(sword.ID))
	assert.Equal(t, sword.ID, c.Equipment[catalog.SlotWeapon].ItemID)
	assert.Equal(t, int64(2400), c.AttackSpeedMs(4000))
	assert.Equal(t, catalog.Bonuses{Attack: 4, Strength: 3}, c.EquipmentBonuses())
}

func TestEquip_ReplacesAndReturnsPrevious(t *testing.T) {
	c := newChar()
	other := &catalog.Item{ID: "iron_sword", Name: "Iron Sword", Slot: catalog.SlotWeapon}
	require.NoError(t, c.AddItems(sword.ID, 1))
	require.NoError(t, c.AddItems(other.ID, 1))
	require.NoError(t, c.Equip(sword))
	require.NoError(t, c.Equip(other))

	assert.Equal(t, 1, c.Quantity(sword.ID))
	assert.Equal(t, other.ID, c.Equipment[catalog.SlotWeapon].ItemID)
	assert.Equal(t, int64(4000), c.AttackSpeedMs(4000))
}

func TestEquip_Errors(t *testing.T) {
	c := newChar()
	assert.ErrorIs(t, c.Equip(shrimp), character.ErrNotEquippable)
	assert.ErrorIs(t, c.Equip(helm), character.ErrInsufficientItems)
	assert.Empty(t, c.Equipment)
}

func TestUnequip(t *testing.T) {
	c := newChar()
	require.NoError(t, c.AddItems(helm.ID, 1))
	require.NoError(t, c.Equip(helm))
	require.NoError(t, c.Unequip(catalog.SlotHead))
	assert.Equal(t, 1, c.Quantity(helm.ID))
	assert.ErrorIs(t, c.Unequip(catalog.SlotHead), character.ErrSlotEmpty)
}

func TestEat_HealsAndConsumes(t *testing.T) {
	c := newChar()
	c.CurrentHP = 5
	require.NoError(t, c.AddItems(shrimp.ID, 2))
	require.NoError(t, c.Eat(shrimp))
	assert.Equal(t, 8, c.CurrentHP)
	assert.Equal(t, 1, c.Quantity(shrimp.ID))

	require.NoError(t, c.Eat(shrimp))
	assert.Equal(t, c.MaxHP, c.CurrentHP)
	assert.ErrorIs(t, c.Eat(shrimp), character.ErrInsufficientItems)
	assert.ErrorIs(t, c.Eat(helm), character.ErrNotFood)
}

func TestSell(t *testing.T) {
	c := newChar()
	require.NoError(t, c.AddItems(shrimp.ID, 5))
	earned, err := c.Sell(shrimp, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(24), earned)
	assert.Equal(t, int64(24), c.Coins)

	_, err = c.Sell(shrimp, 2)
	assert.ErrorIs(t, err, character.ErrInsufficientItems)
	assert.Equal(t, 1, c.Quantity(shrimp.ID))
	assert.Equal(t, int64(24), c.Coins)
}
