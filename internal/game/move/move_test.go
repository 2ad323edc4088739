package move_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/witchery/internal/game/effect"
	"github.com/cory-johannsen/witchery/internal/game/move"
	"github.com/cory-johannsen/witchery/internal/game/weather"
)

func TestMove_UnmarshalYAML(t *testing.T) {
	src := `
name: Veil of Ash
element: fire
category: barrier
steps:
  - power: 0
    range: self
    chance: 100
    effect: defense_up
  - power: 40
    chance: 90
    weather: eclipse
`
	var m move.Move
	require.NoError(t, yaml.Unmarshal([]byte(src), &m))
	require.NoError(t, m.Validate())
	assert.Equal(t, "Veil of Ash", m.Name)
	assert.True(t, m.IsBarrier())
	require.Len(t, m.Steps, 2)
	assert.Equal(t, move.Self, m.Steps[0].Range)
	assert.Equal(t, effect.DefenseUp, m.Steps[0].Effect)
	assert.Equal(t, move.Opponent, m.Steps[1].Range)
	assert.Equal(t, weather.Eclipse, m.Steps[1].Weather)
	assert.True(t, m.SetsWeather())
}

func TestMove_UnmarshalYAML_UnknownCategory(t *testing.T) {
	var m move.Move
	assert.Error(t, yaml.Unmarshal([]byte("name: x\ncategory: ultimate\n"), &m))
}

func TestMove_Validate(t *testing.T) {
	cases := map[string]move.Move{
		"empty name": {Steps: []move.SubMove{{Chance: 100}}},
		"no steps":   {Name: "a"},
		"chance 0":   {Name: "a", Steps: []move.SubMove{{Chance: 0}}},
		"chance 101": {Name: "a", Steps: []move.SubMove{{Chance: 101}}},
		"neg power":  {Name: "a", Steps: []move.SubMove{{Chance: 50, Power: -1}}},
	}
	for name, m := range cases {
		m := m
		t.Run(name, func(t *testing.T) {
			assert.Error(t, m.Validate())
		})
	}
}

func TestUsageCap(t *testing.T) {
	assert.Equal(t, 1, move.UsageCap(0))
	assert.Equal(t, 1, move.UsageCap(4))
	assert.Equal(t, 10, move.UsageCap(50))
}

func TestSlot_Usable(t *testing.T) {
	s := move.Slot{Uses: 8}
	assert.True(t, s.Usable(2, 10))
	assert.False(t, s.Usable(3, 10))
}

func TestPropertyUsageCap_AtLeastOne(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := rapid.IntRange(-100, 1000).Draw(rt, "resource")
		assert.GreaterOrEqual(rt, move.UsageCap(r), 1)
	})
}
