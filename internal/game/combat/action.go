package combat

import "fmt"

// ActionKind identifies what a side intends to do this round.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionKind int

const (
	ActionUnknown ActionKind = iota // zero value; intentionally invalid
	ActionMove                      // use the move at Index
	ActionSwap                      // switch to the roster slot at Index
)

// String returns "move", "swap" or "unknown".
func (k ActionKind) String() string {
	switch k {
	case ActionMove:
		return "move"
	case ActionSwap:
		return "swap"
	default:
		return "unknown"
	}
}

// Action is one submitted command.
type Action struct {
	Kind  ActionKind
	Index int
}

// UseMove returns an action using the move at index i.
func UseMove(i int) Action { return Action{Kind: ActionMove, Index: i} }

// SwapTo returns an action switching to roster slot i.
func SwapTo(i int) Action { return Action{Kind: ActionSwap, Index: i} }

// String renders the action for logs.
func (a Action) String() string {
	return fmt.Sprintf("%s(%d)", a.Kind, a.Index)
}

// pending is an accepted submission bound to the combatant that was active when
// it was submitted.
type pending struct {
	action Action
	actor  Handle
}
