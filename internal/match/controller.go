package match

import (
	"context"
	"errors"
	"time"

	"github.com/cory-johannsen/witchery/internal/game/ai"
	"github.com/cory-johannsen/witchery/internal/game/combat"
)

// ErrBusy is returned by ExternalController.Submit when an action is already queued.
var ErrBusy = errors.New("match: an action is already queued")

// Controller supplies one side's actions.
type Controller interface {
	// Action returns side's action for snap. Implementations that wait for
	// input must return when ctx is done.
	Action(ctx context.Context, snap combat.Snapshot, side combat.Side) (combat.Action, error)
	// Timed reports whether the runner should apply the turn deadline.
	Timed() bool
}

// PolicyController decides synchronously with an AI policy.
type PolicyController struct {
	Policy ai.Policy
}

// Action implements Controller.
func (c PolicyController) Action(_ context.Context, snap combat.Snapshot, side combat.Side) (combat.Action, error) {
	return c.Policy.Decide(snap, side)
}

// Timed implements Controller; policies are never timed.
func (c PolicyController) Timed() bool { return false }

// Prompt tells an external player that an action is due.
type Prompt struct {
	Snapshot combat.Snapshot
	Side     combat.Side
	// Deadline is zero when the runner has no turn timeout.
	Deadline time.Time
}

// ExternalController relays actions submitted from outside the runner, such
// as a network session.
//
// Invariant: at most one prompt and one action are buffered at a time.
type ExternalController struct {
	prompts chan Prompt
	actions chan combat.Action
}

// NewExternalController returns an idle ExternalController.
func NewExternalController() *ExternalController {
	return &ExternalController{
		prompts: make(chan Prompt, 1),
		actions: make(chan combat.Action, 1),
	}
}

// Prompts delivers a Prompt each time the runner waits on this controller.
// A prompt nobody reads is replaced by the next one.
func (c *ExternalController) Prompts() <-chan Prompt { return c.prompts }

// Submit queues a for the next Action call.
//
// Postcondition: returns ErrBusy if an earlier action has not been consumed.
func (c *ExternalController) Submit(a combat.Action) error {
	select {
	case c.actions <- a:
		return nil
	default:
		return ErrBusy
	}
}

// Action implements Controller.
//
// Postcondition: returns ctx.Err() if ctx ends before an action is submitted.
func (c *ExternalController) Action(ctx context.Context, snap combat.Snapshot, side combat.Side) (combat.Action, error) {
	p := Prompt{Snapshot: snap, Side: side}
	if dl, ok := ctx.Deadline(); ok {
		p.Deadline = dl
	}
	select {
	case <-c.prompts:
	default:
	}
	c.prompts <- p

	select {
	case a := <-c.actions:
		return a, nil
	case <-ctx.Done():
		return combat.Action{}, ctx.Err()
	}
}

// Timed implements Controller.
func (c *ExternalController) Timed() bool { return true }
