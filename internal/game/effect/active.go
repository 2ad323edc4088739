package effect

import (
	"math"
	"sort"

	"github.com/cory-johannsen/witchery/internal/game/stats"
)

// DefaultMaxActive is the number of effects a combatant may hold at once.
const DefaultMaxActive = 3

// DefaultResourceRate is the resource-use rate of a combatant with no rate-changing effect.
const DefaultResourceRate = 2

// Instance is one applied effect. Instances are compared by pointer identity;
// two poison instances on the same combatant are distinct.
type Instance struct {
	Kind      Kind
	Remaining int
	Polarity  Polarity
	Magnitude int
	Opposite  Kind

	// delta is the stat modifier actually added on apply (after trinket boost).
	delta int
	seq   int
}

// Def returns the fixed parameters of the instance's kind.
func (i *Instance) Def() Def { return i.Kind.Def() }

// BlockReason explains why an application failed.
type BlockReason int

const (
	NotBlocked BlockReason = iota
	BlockedByTrinket
	BlockedResisted
	BlockedFull
	BlockedBlessing
	BlockedCurse
	BlockedUnknownKind
)

// String returns a short reason label.
func (r BlockReason) String() string {
	switch r {
	case NotBlocked:
		return "applied"
	case BlockedByTrinket:
		return "trinket"
	case BlockedResisted:
		return "resisted"
	case BlockedFull:
		return "full"
	case BlockedBlessing:
		return "blessed"
	case BlockedCurse:
		return "cursed"
	case BlockedUnknownKind:
		return "unknown_kind"
	default:
		return "unknown"
	}
}

// Outcome reports the result of Apply. A blocked application is a resolved
// outcome, not an error.
type Outcome struct {
	Applied  bool
	Reason   BlockReason
	Instance *Instance
	// Removed lists instances cancelled by the arriving effect.
	Removed []*Instance
}

// Roller is the subset of dice.Roller used for resistance rolls.
type Roller interface {
	Percent(purpose string, chance float64) bool
}

// ApplyOptions carries the holder's state relevant to an application.
type ApplyOptions struct {
	Trinket    stats.Trinket
	Resistance int
	Policy     ResistancePolicy
	Roller     Roller
}

// Set tracks all effects active on one combatant.
// It is not safe for concurrent use; the battle serialises access.
//
// Invariant: Len() <= max; instances are ordered by remaining duration ascending,
// permanent instances last.
type Set struct {
	max      int
	baseRate int
	items    []*Instance
	mods     stats.Modifiers
	seq      int
}

// NewSet creates an empty Set holding at most maxActive effects.
//
// Precondition: maxActive > 0; a non-positive value selects DefaultMaxActive.
func NewSet(maxActive int) *Set {
	if maxActive <= 0 {
		maxActive = DefaultMaxActive
	}
	return &Set{max: maxActive, baseRate: DefaultResourceRate}
}

// Apply attempts to add an effect of kind k.
//
// Precondition: o.Roller must be non-nil when k is negative and o.Resistance > 0.
// Checks run in order: trinket, resistance, opposite-kind removal, capacity,
// then Blessing and Curse gating. Removals made before a gating block stand.
//
// Postcondition: a block before the removal step leaves the set unchanged; a
// later block lists what was removed in Outcome.Removed. On success the
// instance is present, its stat modifier is accumulated and its resource rate is in force.
func (s *Set) Apply(k Kind, o ApplyOptions) Outcome {
	def, ok := Lookup(k)
	if !ok {
		return Outcome{Reason: BlockedUnknownKind}
	}
	if o.Trinket.BlocksEffects() {
		return Outcome{Reason: BlockedByTrinket}
	}
	if def.Polarity == Negative && o.Roller != nil &&
		o.Roller.Percent("resist "+def.Name, o.Policy.Chance(o.Resistance)) {
		return Outcome{Reason: BlockedResisted}
	}

	var removed []*Instance
	switch {
	case def.ClearsNegative:
		for _, inst := range s.All() {
			if inst.Polarity == Negative {
				s.remove(inst)
				removed = append(removed, inst)
			}
		}
	case def.Opposite != KindUnknown:
		if inst := s.first(def.Opposite); inst != nil {
			s.remove(inst)
			removed = append(removed, inst)
		}
	}

	if len(s.items) >= s.max {
		// Only reachable when nothing was removed above.
		return Outcome{Reason: BlockedFull}
	}
	if def.Polarity == Negative && s.hasFlag(func(d Def) bool { return d.BlocksNegative }) {
		return Outcome{Reason: BlockedBlessing, Removed: removed}
	}
	if def.Restores && s.hasFlag(func(d Def) bool { return d.BlocksHealing }) {
		return Outcome{Reason: BlockedCurse, Removed: removed}
	}

	s.seq++
	inst := &Instance{
		Kind:      k,
		Remaining: def.Duration,
		Polarity:  def.Polarity,
		Magnitude: def.Magnitude,
		Opposite:  def.Opposite,
		delta:     def.StatDelta * o.Trinket.EffectMultiplier(),
		seq:       s.seq,
	}
	s.insert(inst)
	s.mods = s.mods.Add(def.Stat, inst.delta)
	return Outcome{Applied: true, Instance: inst, Removed: removed}
}

// Remove removes the first instance of kind k, reverting its modifier.
//
// Postcondition: returns the removed instance, or nil if none was active.
func (s *Set) Remove(k Kind) *Instance {
	inst := s.first(k)
	if inst == nil {
		return nil
	}
	s.remove(inst)
	return inst
}

// TickResult describes what one instance did during a tick.
type TickResult struct {
	Instance *Instance
	// HPDelta is the HP change to apply: negative for damage, positive for healing.
	HPDelta int
	Expired bool
}

// Tick advances every instance by one round against a holder with maxHP.
// Periodic instances report magnitude% of maxHP as damage every tick, or only
// on their final tick when FinalTickOnly is set. Expired instances are removed
// and their modifiers reverted. The caller clamps the resulting HP.
//
// Postcondition: no remaining instance has Remaining == 0.
func (s *Set) Tick(maxHP int) []TickResult {
	var out []TickResult
	for _, inst := range s.All() {
		def := inst.Def()
		if inst.Remaining == Permanent {
			continue
		}
		res := TickResult{Instance: inst}
		if def.Periodic() && (!def.FinalTickOnly || inst.Remaining == 1) {
			res.HPDelta = -int(math.Round(float64(maxHP) * float64(inst.Magnitude) / 100))
		}
		inst.Remaining--
		if inst.Remaining <= 0 {
			s.remove(inst)
			res.Expired = true
		}
		if res.HPDelta != 0 || res.Expired {
			out = append(out, res)
		}
	}
	s.sort()
	return out
}

// Clear removes every instance and resets modifiers and resource rate.
func (s *Set) Clear() {
	s.items = nil
	s.mods = stats.Modifiers{}
}

// Has reports whether any instance of k is active.
func (s *Set) Has(k Kind) bool { return s.first(k) != nil }

// Len returns the number of active instances.
func (s *Set) Len() int { return len(s.items) }

// Max returns the capacity of the set.
func (s *Set) Max() int { return s.max }

// All returns a copy of the active instances in duration order. The instances
// themselves are shared; callers must not modify them.
func (s *Set) All() []*Instance {
	out := make([]*Instance, len(s.items))
	copy(out, s.items)
	return out
}

// Modifiers returns the summed stat modifiers of all active instances.
func (s *Set) Modifiers() stats.Modifiers { return s.mods }

// ResourceRate returns the holder's current resource-use rate: the rate of the
// most recently applied rate-changing instance, or DefaultResourceRate.
func (s *Set) ResourceRate() int {
	rate, latest := s.baseRate, 0
	for _, inst := range s.items {
		if r := inst.Def().ResourceRate; r > 0 && inst.seq > latest {
			rate, latest = r, inst.seq
		}
	}
	return rate
}

// PreventsSwap reports whether any active instance forbids switching out.
func (s *Set) PreventsSwap() bool {
	return s.hasFlag(func(d Def) bool { return d.PreventsSwap })
}

func (s *Set) hasFlag(pred func(Def) bool) bool {
	for _, inst := range s.items {
		if pred(inst.Def()) {
			return true
		}
	}
	return false
}

func (s *Set) first(k Kind) *Instance {
	for _, inst := range s.items {
		if inst.Kind == k {
			return inst
		}
	}
	return nil
}

func (s *Set) remove(target *Instance) {
	for i, inst := range s.items {
		if inst == target {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.mods = s.mods.Add(inst.Def().Stat, -inst.delta)
			return
		}
	}
}

func (s *Set) insert(inst *Instance) {
	s.items = append(s.items, inst)
	s.sort()
}

func (s *Set) sort() {
	sort.SliceStable(s.items, func(i, j int) bool {
		return sortKey(s.items[i]) < sortKey(s.items[j])
	})
}

func sortKey(inst *Instance) int {
	if inst.Remaining == Permanent {
		return math.MaxInt
	}
	return inst.Remaining
}
