package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/witchery/internal/game/effect"
	"github.com/cory-johannsen/witchery/internal/game/move"
	"github.com/cory-johannsen/witchery/internal/game/weather"
)

// reviveDivisor sets revived HP to MaxHP/reviveDivisor.
const reviveDivisor = 4

// resolve runs one full round. The caller guarantees Ready().
func (b *Battle) resolve() []Event {
	var events []Event
	b.wiped = nil

	b.state = RoundCommitted
	events = append(events, b.commit()...)

	b.state = Ordering
	first := b.firstSide()
	queue := b.buildQueue(first)
	b.logger.Debug("round ordered",
		zap.Int("round", b.round),
		zap.Stringer("first", first),
		zap.Int("steps", len(queue)),
	)

	b.state = Executing
	var dropped [2]bool
	for _, st := range queue {
		if dropped[st.side] {
			continue
		}
		evs, stop := b.execute(st)
		events = append(events, evs...)
		if stop {
			dropped[st.side] = true
		}
	}
	for _, s := range Sides {
		events = append(events, b.checkFaint(s)...)
	}

	b.state = EndOfRoundTicks
	for _, s := range Sides {
		events = append(events, b.tickEffects(s)...)
	}
	for _, s := range Sides {
		events = append(events, b.checkFaint(s)...)
	}

	b.state = WinCheck
	for _, s := range Sides {
		if p := b.pending[s]; p != nil && p.action.Kind == ActionMove {
			b.lastMove[s] = b.arena[p.actor].moves[p.action.Index].Move.Name
		} else {
			b.lastMove[s] = ""
		}
	}
	b.pending = [2]*pending{}
	b.shield = [2]*Handle{}

	if loser, ok := b.loser(); ok {
		return append(events, b.finish(loser.Opponent()))
	}
	b.round++
	b.state = AwaitingSubmission
	return events
}

// commit decrements weather and charges use counters.
func (b *Battle) commit() []Event {
	var events []Event
	if b.weather != nil && b.weather.Decrement() {
		events = append(events, b.event(Event{Kind: EventWeatherEnded, Weather: b.weather.Kind.String()}))
		b.weather = nil
	}
	for _, s := range Sides {
		p := b.pending[s]
		if p.action.Kind != ActionMove {
			continue
		}
		c := b.arena[p.actor]
		c.moves[p.action.Index].Uses += c.ResourceRate()
	}
	b.logger.Debug("round committed", zap.Int("round", b.round))
	return events
}

// execute resolves one queued step. stop reports that the side's remaining
// steps for this round must be dropped.
func (b *Battle) execute(st step) (events []Event, stop bool) {
	actor := b.arena[st.actor]
	if actor.Fainted() {
		if evs, revived := b.tryRevive(st.side, actor); revived {
			events = append(events, evs...)
		} else {
			return b.faint(st.side, actor), true
		}
	}

	if st.action.Kind == ActionSwap {
		if actor.effects.PreventsSwap() {
			return append(events, b.event(Event{Kind: EventSwapFailed, Side: st.side, Actor: actor.name})), true
		}
		if err := b.validateSwapTarget(st.side, st.action.Index); err != nil {
			return append(events, b.event(Event{Kind: EventSwapFailed, Side: st.side, Actor: actor.name, Reason: err.Error()})), true
		}
		return append(events, b.swap(st.side, st.action.Index)), true
	}

	slot := actor.moves[st.action.Index]
	mv := slot.Move
	if st.index == 0 {
		events = append(events, b.event(Event{Kind: EventUsedMove, Side: st.side, Actor: actor.name, Move: mv.Name}))
		if slot.Uses > actor.UsageCap() {
			return append(events, b.event(Event{Kind: EventMoveFailed, Side: st.side, Actor: actor.name, Move: mv.Name})), true
		}
		if mv.IsBarrier() {
			if b.lastMove[st.side] == mv.Name {
				return append(events, b.event(Event{Kind: EventBarrierFailed, Side: st.side, Actor: actor.name, Move: mv.Name})), true
			}
			h := st.actor
			b.shield[st.side] = &h
			events = append(events, b.event(Event{Kind: EventBarrierRaised, Side: st.side, Actor: actor.name, Move: mv.Name}))
		}
	}
	return append(events, b.executeStep(st, actor, mv, mv.Steps[st.index])...), false
}

func (b *Battle) executeStep(st step, actor *Combatant, mv *move.Move, sub move.SubMove) []Event {
	base := Event{Side: st.side, Actor: actor.name, Move: mv.Name}
	if sub.Chance < 100 && !b.roller.Percent("chance "+mv.Name, float64(sub.Chance)) {
		e := base
		e.Kind = EventMissed
		return []Event{b.event(e)}
	}

	targetSide, targetHandle := st.side, st.actor
	if sub.Range == move.Opponent {
		targetSide = st.side.Opponent()
		targetHandle = b.activeHandle(targetSide)
	}
	target := b.arena[targetHandle]
	base.Target = target.name

	var events []Event
	emit := func(k EventKind, mutate func(*Event)) {
		e := base
		e.Kind = k
		if mutate != nil {
			mutate(&e)
		}
		events = append(events, b.event(e))
	}

	needsTarget := sub.Power > 0 || sub.Heal > 0 || sub.Effect != effect.KindUnknown
	if needsTarget && target.Fainted() {
		emit(EventNoTarget, nil)
		needsTarget = false
	}

	if needsTarget && sub.Power > 0 {
		if sh := b.shield[targetSide]; sh != nil && *sh == targetHandle && targetSide != st.side {
			emit(EventBlocked, nil)
		} else {
			amount, crit := ComputeDamage(b.cat.Elements(), DamageInput{
				Attacker: actor,
				Defender: target,
				Move:     mv,
				Step:     sub,
				Weather:  weather.KindOf(b.weather),
				K:        b.k,
			}, b.roller)
			if crit {
				emit(EventCritical, nil)
			}
			dealt := target.damage(amount)
			emit(EventDamage, func(e *Event) { e.Amount = dealt })
			b.noteWipe(targetSide)
		}
	}

	if needsTarget && sub.Heal > 0 && !target.Fainted() {
		if target.effects.Has(effect.Curse) {
			emit(EventHealBlocked, nil)
		} else {
			gained := target.heal(target.percentOfMax(sub.Heal))
			emit(EventHealed, func(e *Event) { e.Amount = gained })
		}
	}

	if needsTarget && sub.Effect != effect.KindUnknown && !target.Fainted() {
		events = append(events, b.applyEffect(base, target, sub.Effect)...)
	}

	if sub.Weather != weather.None {
		b.weather = weather.New(sub.Weather, mv.Element)
		emit(EventWeatherChanged, func(e *Event) { e.Weather = sub.Weather.String() })
	}
	return events
}

// applyEffect applies k to target and reports the outcome as events.
func (b *Battle) applyEffect(base Event, target *Combatant, k effect.Kind) []Event {
	out := target.effects.Apply(k, effect.ApplyOptions{
		Trinket:    target.Trinket(),
		Resistance: target.Modified(weather.KindOf(b.weather)).Resistance,
		Policy:     b.policy,
		Roller:     b.roller,
	})
	var events []Event
	for _, inst := range out.Removed {
		e := base
		e.Kind = EventEffectRemoved
		e.Effect = inst.Kind.String()
		events = append(events, b.event(e))
	}
	e := base
	e.Effect = k.String()
	if out.Applied {
		e.Kind = EventEffectApplied
	} else {
		e.Kind = EventEffectBlocked
		e.Reason = out.Reason.String()
	}
	target.clampHP()
	return append(events, b.event(e))
}

// tickEffects runs the end-of-round tick for side's active combatant.
func (b *Battle) tickEffects(s Side) []Event {
	h := b.activeHandle(s)
	c := b.arena[h]
	if c.Fainted() {
		return nil
	}
	var events []Event
	for _, res := range c.effects.Tick(c.MaxHP()) {
		e := Event{Side: s, Actor: c.name, Target: c.name, Effect: res.Instance.Kind.String()}
		switch {
		case res.HPDelta < 0:
			e.Kind = EventEffectDamage
			e.Amount = c.damage(-res.HPDelta)
			events = append(events, b.event(e))
			b.noteWipe(s)
		case res.HPDelta > 0 && c.effects.Has(effect.Curse):
			e.Kind = EventHealBlocked
			events = append(events, b.event(e))
		case res.HPDelta > 0:
			e.Kind = EventEffectHeal
			e.Amount = c.heal(res.HPDelta)
			events = append(events, b.event(e))
		}
		if res.Expired {
			e.Kind = EventEffectExpired
			e.Amount = 0
			events = append(events, b.event(e))
		}
	}
	c.clampHP()
	return events
}

// checkFaint flags side's active combatant if it sits at 0 HP and has not
// been flagged yet, consuming a revive when one is held.
func (b *Battle) checkFaint(s Side) []Event {
	c := b.Active(s)
	if !c.Fainted() || b.mustSwap[s] {
		return nil
	}
	if evs, revived := b.tryRevive(s, c); revived {
		return evs
	}
	return b.faint(s, c)
}

func (b *Battle) faint(s Side, c *Combatant) []Event {
	b.mustSwap[s] = true
	b.noteWipe(s)
	return []Event{b.event(Event{Kind: EventFainted, Side: s, Actor: c.name})}
}

// tryRevive consumes c's revive effect and restores a quarter of its max HP.
func (b *Battle) tryRevive(s Side, c *Combatant) ([]Event, bool) {
	if !c.effects.Has(effect.Revive) {
		return nil, false
	}
	c.effects.Remove(effect.Revive)
	c.hp = max(c.MaxHP()/reviveDivisor, 1)
	b.mustSwap[s] = false
	b.unnoteWipe(s)
	return []Event{b.event(Event{Kind: EventRevived, Side: s, Actor: c.name, Amount: c.hp})}, true
}

// swap makes roster slot i active for s.
func (b *Battle) swap(s Side, i int) Event {
	out := b.Active(s)
	b.players[s].Active = i
	b.mustSwap[s] = false
	in := b.Active(s)
	return b.event(Event{Kind: EventSwapped, Side: s, Actor: out.name, Target: in.name})
}

func (b *Battle) teamWiped(s Side) bool {
	for _, h := range b.players[s].Roster {
		if !b.arena[h].Fainted() {
			return false
		}
	}
	return true
}

// noteWipe records s in wipe order the first time its whole roster is at 0 HP.
func (b *Battle) noteWipe(s Side) {
	if !b.teamWiped(s) {
		return
	}
	for _, w := range b.wiped {
		if w == s {
			return
		}
	}
	b.wiped = append(b.wiped, s)
}

func (b *Battle) unnoteWipe(s Side) {
	for i, w := range b.wiped {
		if w == s {
			b.wiped = append(b.wiped[:i], b.wiped[i+1:]...)
			return
		}
	}
}

// loser returns the side that lost this round: the first side whose whole
// roster reached 0 HP, provided it is still wiped.
func (b *Battle) loser() (Side, bool) {
	for _, s := range b.wiped {
		if b.teamWiped(s) {
			return s, true
		}
	}
	return SideA, false
}
