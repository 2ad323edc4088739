package ai

import (
	"errors"

	"github.com/cory-johannsen/witchery/internal/game/combat"
	"github.com/cory-johannsen/witchery/internal/game/dice"
	"github.com/cory-johannsen/witchery/internal/game/element"
)

// ErrNoLegalAction is returned when a side has nothing it may submit.
var ErrNoLegalAction = errors.New("ai: no legal action")

// Policy decides one side's action from a battle snapshot.
type Policy interface {
	// Name identifies the policy in the registry and in logs.
	Name() string
	// Decide returns side's action for the snapshot's round. A side that owes
	// a forced swap must receive a swap action.
	Decide(snap combat.Snapshot, side combat.Side) (combat.Action, error)
}

// RollerBinder is implemented by policies that draw randomness and can be
// bound to one battle's roller.
type RollerBinder interface {
	WithRoller(r *dice.Roller) Policy
}

// BindRoller returns p bound to r, or p itself when p draws no randomness.
// A battle whose policies are bound to its own seeded roller replays
// identically however many battles run beside it.
func BindRoller(p Policy, r *dice.Roller) Policy {
	if b, ok := p.(RollerBinder); ok && r != nil {
		return b.WithRoller(r)
	}
	return p
}

// HeuristicName is the registry name of the built-in policy.
const HeuristicName = "heuristic"

// Heuristic adapts ChooseMove and SwapTarget to Policy.
type Heuristic struct {
	tbl *element.Table
}

// NewHeuristic returns the built-in policy.
//
// Precondition: tbl must be non-nil.
func NewHeuristic(tbl *element.Table) *Heuristic {
	if tbl == nil {
		panic("ai.NewHeuristic: element table must not be nil")
	}
	return &Heuristic{tbl: tbl}
}

// Name returns HeuristicName.
func (h *Heuristic) Name() string { return HeuristicName }

// Decide implements Policy.
//
// Postcondition: returns ErrNoLegalAction only when a forced swap is owed and
// no living bench member remains.
func (h *Heuristic) Decide(snap combat.Snapshot, side combat.Side) (combat.Action, error) {
	ws := BuildWorldState(snap, side)
	if ws.Self.MustSwap {
		if len(ws.LivingBench()) == 0 {
			return combat.Action{}, ErrNoLegalAction
		}
		return combat.SwapTo(SwapTarget(h.tbl, ws)), nil
	}
	d := ChooseMove(h.tbl, ws.Active(), ws.Opponent.Element, ws.Weather, ws.CanSwitch())
	if d.Swap {
		return combat.SwapTo(SwapTarget(h.tbl, ws)), nil
	}
	return combat.UseMove(d.Move), nil
}

// LegalActions lists every action side may submit: usable moves in slot
// order, then swaps to living bench members. A side owing a forced swap only
// gets swaps.
func LegalActions(snap combat.Snapshot, side combat.Side) []combat.Action {
	ws := BuildWorldState(snap, side)
	var out []combat.Action
	if !ws.Self.MustSwap {
		for i, mv := range ws.Active().Moves {
			if mv.Usable {
				out = append(out, combat.UseMove(i))
			}
		}
	}
	for _, i := range ws.LivingBench() {
		out = append(out, combat.SwapTo(i))
	}
	return out
}

// Fallback returns the first legal action for side.
//
// Postcondition: returns ErrNoLegalAction when LegalActions is empty.
func Fallback(snap combat.Snapshot, side combat.Side) (combat.Action, error) {
	legal := LegalActions(snap, side)
	if len(legal) == 0 {
		return combat.Action{}, ErrNoLegalAction
	}
	return legal[0], nil
}

// IsLegal reports whether a is among side's legal actions.
func IsLegal(snap combat.Snapshot, side combat.Side, a combat.Action) bool {
	for _, l := range LegalActions(snap, side) {
		if l == a {
			return true
		}
	}
	return false
}
