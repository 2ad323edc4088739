package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/witchery/internal/game/stats"
	"github.com/cory-johannsen/witchery/internal/game/weather"
)

func base() stats.Stats {
	return stats.Stats{Health: 100, Attack: 60, Defense: 40, Agility: 50, Precision: 30, Resistance: 20}
}

func TestModified_SumsModifiers(t *testing.T) {
	got := stats.Modified(stats.Input{
		Base:      base(),
		Effects:   stats.Modifiers{Attack: 10, Defense: -5},
		Nature:    stats.Modifiers{Agility: 5, Precision: -10},
		CurrentHP: 100,
	}, weather.None)
	assert.Equal(t, stats.Stats{Health: 100, Attack: 70, Defense: 35, Agility: 55, Precision: 20, Resistance: 20}, got)
}

func TestModified_ClampsAtZero(t *testing.T) {
	got := stats.Modified(stats.Input{
		Base:    base(),
		Effects: stats.Modifiers{Attack: -500, Defense: -500, Agility: -500, Precision: -500},
	}, weather.None)
	assert.Zero(t, got.Attack)
	assert.Zero(t, got.Defense)
	assert.Zero(t, got.Agility)
	assert.Zero(t, got.Precision)
}

func TestModified_DesperationBelowQuarter(t *testing.T) {
	in := stats.Input{Base: base(), Trinket: stats.Desperation, CurrentHP: 24}
	assert.Equal(t, 60+stats.DesperationBonus, stats.Modified(in, weather.None).Attack)
	in.CurrentHP = 25
	assert.Equal(t, 60, stats.Modified(in, weather.None).Attack)
}

func TestModified_VitalityAndSwiftness(t *testing.T) {
	assert.Equal(t, 100+stats.VitalityBonus,
		stats.Modified(stats.Input{Base: base(), Trinket: stats.Vitality}, weather.None).Health)
	assert.Equal(t, 50+stats.SwiftnessBonus,
		stats.Modified(stats.Input{Base: base(), Trinket: stats.Swiftness}, weather.None).Agility)
}

func TestModified_EclipseSwapsAttackDefense(t *testing.T) {
	got := stats.Modified(stats.Input{Base: base(), CurrentHP: 100}, weather.Eclipse)
	assert.Equal(t, 40, got.Attack)
	assert.Equal(t, 60, got.Defense)
}

func TestModified_FogZeroesAgility(t *testing.T) {
	got := stats.Modified(stats.Input{Base: base(), CurrentHP: 100}, weather.Fog)
	assert.Zero(t, got.Agility)
}

func TestParseTrinket(t *testing.T) {
	tr, err := stats.ParseTrinket("")
	require.NoError(t, err)
	assert.Equal(t, stats.NoTrinket, tr)
	tr, err = stats.ParseTrinket("focus")
	require.NoError(t, err)
	assert.Equal(t, stats.Focus, tr)
	assert.Equal(t, 2, tr.EffectMultiplier())
	_, err = stats.ParseTrinket("crown")
	assert.Error(t, err)
}

func TestPropertyModified_NeverNegative(t *testing.T) {
	kinds := []weather.Kind{weather.None, weather.Eclipse, weather.Fog, weather.Mirage, weather.Stillness}
	trinkets := []stats.Trinket{stats.NoTrinket, stats.Desperation, stats.Amulet, stats.Focus, stats.Vitality, stats.Swiftness}
	rapid.Check(t, func(rt *rapid.T) {
		mod := func(label string) stats.Modifiers {
			return stats.Modifiers{
				Attack:    rapid.IntRange(-300, 300).Draw(rt, label+"_atk"),
				Defense:   rapid.IntRange(-300, 300).Draw(rt, label+"_def"),
				Agility:   rapid.IntRange(-300, 300).Draw(rt, label+"_agi"),
				Precision: rapid.IntRange(-300, 300).Draw(rt, label+"_pre"),
			}
		}
		in := stats.Input{
			Base: stats.Stats{
				Health:     rapid.IntRange(1, 300).Draw(rt, "hp"),
				Attack:     rapid.IntRange(0, 200).Draw(rt, "atk"),
				Defense:    rapid.IntRange(0, 200).Draw(rt, "def"),
				Agility:    rapid.IntRange(0, 200).Draw(rt, "agi"),
				Precision:  rapid.IntRange(0, 200).Draw(rt, "pre"),
				Resistance: rapid.IntRange(0, 200).Draw(rt, "res"),
			},
			Effects:   mod("effects"),
			Nature:    mod("nature"),
			Trinket:   rapid.SampledFrom(trinkets).Draw(rt, "trinket"),
			CurrentHP: rapid.IntRange(0, 300).Draw(rt, "cur"),
		}
		got := stats.Modified(in, rapid.SampledFrom(kinds).Draw(rt, "weather"))
		assert.GreaterOrEqual(rt, got.Health, 0)
		assert.GreaterOrEqual(rt, got.Attack, 0)
		assert.GreaterOrEqual(rt, got.Defense, 0)
		assert.GreaterOrEqual(rt, got.Agility, 0)
		assert.GreaterOrEqual(rt, got.Precision, 0)
		assert.GreaterOrEqual(rt, got.Resistance, 0)
	})
}
