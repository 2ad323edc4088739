package combat

import "fmt"

// EventKind is the semantic key of an event; presentation layers localise on it.
type EventKind string

const (
	EventUsedMove       EventKind = "used_move"
	EventMoveFailed     EventKind = "move_failed"
	EventMissed         EventKind = "missed"
	EventNoTarget       EventKind = "no_target"
	EventDamage         EventKind = "damage"
	EventCritical       EventKind = "critical_hit"
	EventBarrierRaised  EventKind = "barrier_raised"
	EventBarrierFailed  EventKind = "barrier_failed"
	EventBlocked        EventKind = "blocked"
	EventHealed         EventKind = "healed"
	EventHealBlocked    EventKind = "heal_blocked"
	EventEffectApplied  EventKind = "effect_applied"
	EventEffectBlocked  EventKind = "effect_blocked"
	EventEffectRemoved  EventKind = "effect_removed"
	EventEffectExpired  EventKind = "effect_expired"
	EventEffectDamage   EventKind = "effect_damage"
	EventEffectHeal     EventKind = "effect_heal"
	EventWeatherChanged EventKind = "weather_changed"
	EventWeatherEnded   EventKind = "weather_ended"
	EventSwapped        EventKind = "swapped"
	EventSwapFailed     EventKind = "swap_failed"
	EventFainted        EventKind = "fainted"
	EventRevived        EventKind = "revived"
	EventForfeit        EventKind = "forfeit"
	EventVictory        EventKind = "victory"
)

// Event is one record of what happened during resolution. Fields not relevant
// to Kind are left at their zero values.
type Event struct {
	Kind   EventKind
	Round  int
	Side   Side
	Actor  string
	Target string
	Move   string
	Effect string
	// Weather is the weather kind name for weather events.
	Weather string
	Amount  int
	// Reason is the block reason for effect_blocked.
	Reason    string
	Narrative string
}

// narrate fills in a default English narrative for e.
func narrate(e Event) Event {
	switch e.Kind {
	case EventUsedMove:
		e.Narrative = fmt.Sprintf("%s uses %s.", e.Actor, e.Move)
	case EventMoveFailed:
		e.Narrative = fmt.Sprintf("%s tries %s but has no strength left for it.", e.Actor, e.Move)
	case EventMissed:
		e.Narrative = fmt.Sprintf("%s's %s misses.", e.Actor, e.Move)
	case EventNoTarget:
		e.Narrative = fmt.Sprintf("%s's %s has no target.", e.Actor, e.Move)
	case EventDamage:
		e.Narrative = fmt.Sprintf("%s takes %d damage.", e.Target, e.Amount)
	case EventCritical:
		e.Narrative = "A critical hit!"
	case EventBarrierRaised:
		e.Narrative = fmt.Sprintf("%s raises a barrier.", e.Actor)
	case EventBarrierFailed:
		e.Narrative = fmt.Sprintf("%s's barrier crumbles.", e.Actor)
	case EventBlocked:
		e.Narrative = fmt.Sprintf("%s's barrier blocks the attack.", e.Target)
	case EventHealed:
		e.Narrative = fmt.Sprintf("%s recovers %d HP.", e.Target, e.Amount)
	case EventHealBlocked:
		e.Narrative = fmt.Sprintf("%s cannot be healed.", e.Target)
	case EventEffectApplied:
		e.Narrative = fmt.Sprintf("%s is afflicted with %s.", e.Target, e.Effect)
	case EventEffectBlocked:
		e.Narrative = fmt.Sprintf("%s avoids %s (%s).", e.Target, e.Effect, e.Reason)
	case EventEffectRemoved:
		e.Narrative = fmt.Sprintf("%s's %s is dispelled.", e.Target, e.Effect)
	case EventEffectExpired:
		e.Narrative = fmt.Sprintf("%s's %s wears off.", e.Target, e.Effect)
	case EventEffectDamage:
		e.Narrative = fmt.Sprintf("%s suffers %d damage from %s.", e.Target, e.Amount, e.Effect)
	case EventEffectHeal:
		e.Narrative = fmt.Sprintf("%s recovers %d HP from %s.", e.Target, e.Amount, e.Effect)
	case EventWeatherChanged:
		e.Narrative = fmt.Sprintf("The weather turns to %s.", e.Weather)
	case EventWeatherEnded:
		e.Narrative = fmt.Sprintf("The %s subsides.", e.Weather)
	case EventSwapped:
		e.Narrative = fmt.Sprintf("%s steps in for %s.", e.Target, e.Actor)
	case EventSwapFailed:
		e.Narrative = fmt.Sprintf("%s cannot escape.", e.Actor)
	case EventFainted:
		e.Narrative = fmt.Sprintf("%s has fainted.", e.Actor)
	case EventRevived:
		e.Narrative = fmt.Sprintf("%s rises again with %d HP.", e.Actor, e.Amount)
	case EventForfeit:
		e.Narrative = fmt.Sprintf("Side %s forfeits.", e.Side)
	case EventVictory:
		e.Narrative = fmt.Sprintf("Side %s wins.", e.Side)
	}
	return e
}
