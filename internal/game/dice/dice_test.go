package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/Neon681/bmt-idle-sub000/internal/game/dice"
	"github.com/Neon681/bmt-idle-sub000/internal/game/dice/dicetest"
)

// TestCryptoSource_Intn_InRange verifies the postcondition:
// every value returned by Intn(6) is in [0, 6).
func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

// TestCryptoSource_Intn_PanicsOnZero verifies the precondition:
// Intn panics when called with n <= 0.
func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestCryptoSource_Float64_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestSeededSource_Deterministic(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Intn(20), b.Intn(20))
		require.Equal(t, a.Float64(), b.Float64())
	}
}

func TestSeededSource_Intn_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(0) })
}

func TestBetween_DegenerateRange(t *testing.T) {
	src := dicetest.Fixed{V: 5}
	assert.Equal(t, 3, dice.Between(src, 3, 3))
	assert.Equal(t, 7, dice.Between(src, 7, 2))
}

func TestProperty_Between_Inclusive(t *testing.T) {
	src := dice.NewSeededSource(7)
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-50, 50).Draw(rt, "lo")
		hi := rapid.IntRange(lo, lo+100).Draw(rt, "hi")
		v := dice.Between(src, lo, hi)
		assert.GreaterOrEqual(rt, v, lo)
		assert.LessOrEqual(rt, v, hi)
	})
}

func TestChance_Bounds(t *testing.T) {
	assert.False(t, dice.Chance(dicetest.Fixed{F: 0}, 0))
	assert.True(t, dice.Chance(dicetest.Fixed{F: 0.999}, 1))
	assert.True(t, dice.Chance(dicetest.Fixed{F: 0.79}, 0.8))
	assert.False(t, dice.Chance(dicetest.Fixed{F: 0.8}, 0.8))
}

func TestLoggedSource_LogsEachDraw(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	src := dice.NewLoggedSource(dicetest.Fixed{V: 3, F: 0.25}, zap.New(core))

	assert.Equal(t, 3, src.Intn(20))
	assert.Equal(t, 0.25, src.Float64())

	entries := logs.FilterMessage("dice draw").All()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(20), entries[0].ContextMap()["n"])
	assert.Equal(t, int64(3), entries[0].ContextMap()["result"])
}
