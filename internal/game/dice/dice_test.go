package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/witchery/internal/game/dice"
)

type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

// TestPercent_Threshold verifies a roll is a hit iff it lies strictly below chance.
func TestPercent_Threshold(t *testing.T) {
	assert.True(t, dice.Percent(fixedSrc{val: 9}, 10))
	assert.False(t, dice.Percent(fixedSrc{val: 10}, 10))
	assert.True(t, dice.Percent(fixedSrc{val: 2}, 2.5))
	assert.False(t, dice.Percent(fixedSrc{val: 0}, 0))
}

// TestCryptoSource_Intn_InRange verifies every value returned by Intn(6) is in [0, 6).
func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

// TestCryptoSource_Intn_PanicsOnZero verifies Intn panics when called with n <= 0.
func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestSeededSource_Reproducible(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestSeededSource_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(0) })
}

func TestRoller_LogsPercentRolls(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewLoggedRoller(fixedSrc{val: 3}, zap.New(core))

	assert.True(t, r.Percent("critical", 5))
	assert.Equal(t, 3, r.CoinFlip("tie-break"), "CoinFlip passes the source value through")

	entries := logs.FilterMessage("percent roll").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "critical", entries[0].ContextMap()["purpose"])
		assert.Equal(t, true, entries[0].ContextMap()["hit"])
	}
	assert.Len(t, logs.FilterMessage("coin flip").All(), 1)
}

func TestRoller_NilLoggerIsNop(t *testing.T) {
	r := dice.NewLoggedRoller(fixedSrc{val: 0}, nil)
	assert.True(t, r.Percent("any", 1))
}

func TestPropertyPercent_MonotonicInChance(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		roll := rapid.IntRange(0, 99).Draw(rt, "roll")
		lo := rapid.Float64Range(0, 100).Draw(rt, "lo")
		hi := rapid.Float64Range(lo, 100).Draw(rt, "hi")
		src := fixedSrc{val: roll}
		if dice.Percent(src, lo) {
			assert.True(rt, dice.Percent(src, hi), "a hit at a lower chance must stay a hit at a higher chance")
		}
	})
}
