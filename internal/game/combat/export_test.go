package combat

import "github.com/cory-johannsen/witchery/internal/game/effect"

// SetHP forces a combatant's HP for test setup.
func SetHP(b *Battle, h Handle, hp int) { b.arena[h].hp = hp }

// ForceEffect applies k to h with no trinket or resistance checks.
func ForceEffect(b *Battle, h Handle, k effect.Kind) effect.Outcome {
	return b.arena[h].effects.Apply(k, effect.ApplyOptions{})
}
