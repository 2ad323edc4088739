// Package combat implements the turn resolver: the synchronous state machine
// that takes one action per side per round, orders and executes them, ticks
// status effects and decides the winner.
package combat

import (
	"errors"
)

// Side identifies one of the two players in a battle.
type Side int

const (
	SideA Side = iota
	SideB
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// String returns "A" or "B".
func (s Side) String() string {
	if s == SideB {
		return "B"
	}
	return "A"
}

// Sides lists both sides in the fixed resolution order.
var Sides = [2]Side{SideA, SideB}

// MaxRoster is the largest team a player may field.
const MaxRoster = 4

// DefaultDamageConstant is the K term of the damage formula.
const DefaultDamageConstant = 16

// ErrInvalidRoster is returned when a team is empty or larger than MaxRoster.
var ErrInvalidRoster = errors.New("combat: invalid roster")

// ErrInvalidSubmission wraps every reason a submission is rejected. A rejected
// submission leaves the battle unchanged.
var ErrInvalidSubmission = errors.New("combat: invalid submission")

var (
	ErrUnknownMove       = errors.New("unknown move index")
	ErrMoveExhausted     = errors.New("move usage cap reached")
	ErrSwapTargetFainted = errors.New("swap target has fainted")
	ErrInvalidSwapTarget = errors.New("invalid swap target")
	ErrAlreadySubmitted  = errors.New("side already submitted this round")
	ErrMustSwap          = errors.New("active combatant fainted; side must swap")
	ErrUnknownAction     = errors.New("unknown action kind")
	ErrBattleOver        = errors.New("battle is over")
)

// ErrNotReady is returned by Tick when a side has not submitted.
var ErrNotReady = errors.New("combat: round not ready")

// ErrNothingSubmitted is returned by Withdraw when the side has no pending action.
var ErrNothingSubmitted = errors.New("combat: nothing submitted")
