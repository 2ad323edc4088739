package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/witchery/internal/game/catalog"
	"github.com/cory-johannsen/witchery/internal/game/dice"
	"github.com/cory-johannsen/witchery/internal/game/effect"
	"github.com/cory-johannsen/witchery/internal/game/element"
	"github.com/cory-johannsen/witchery/internal/game/stats"
	"github.com/cory-johannsen/witchery/internal/game/weather"
)

// State is the resolver's position in its round cycle. Between calls a battle
// is always in AwaitingSubmission or Terminal; the other states are only
// observed by the logger.
type State int

const (
	AwaitingSubmission State = iota
	RoundCommitted
	Ordering
	Executing
	EndOfRoundTicks
	WinCheck
	Terminal
)

// String returns a short state label.
func (s State) String() string {
	switch s {
	case AwaitingSubmission:
		return "awaiting_submission"
	case RoundCommitted:
		return "round_committed"
	case Ordering:
		return "ordering"
	case Executing:
		return "executing"
	case EndOfRoundTicks:
		return "end_of_round_ticks"
	case WinCheck:
		return "win_check"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Player is one side's roster and active slot.
type Player struct {
	Roster []Handle
	Active int
}

// Option configures a Battle.
type Option func(*Battle)

// WithLogger sets the logger. The default is zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(b *Battle) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithRoller sets the randomness source. The default is a logged crypto roller.
func WithRoller(r Roller) Option {
	return func(b *Battle) { b.roller = r }
}

// WithDamageConstant sets K in the damage formula.
func WithDamageConstant(k int) Option {
	return func(b *Battle) { b.k = k }
}

// WithMaxEffects sets how many effects a combatant may hold at once.
func WithMaxEffects(n int) Option {
	return func(b *Battle) { b.maxEffects = n }
}

// WithResistancePolicy selects the resistance roll formula.
func WithResistancePolicy(p effect.ResistancePolicy) Option {
	return func(b *Battle) { b.policy = p }
}

// Battle is the full state of one two-sided battle. It owns every combatant.
// It is not safe for concurrent use; callers serialise access.
type Battle struct {
	cat        *catalog.Catalog
	logger     *zap.Logger
	roller     Roller
	k          int
	maxEffects int
	policy     effect.ResistancePolicy

	arena   []*Combatant
	players [2]Player
	weather *weather.Condition
	pending [2]*pending
	// mustSwap is set when a side's active combatant faints.
	mustSwap [2]bool
	// lastMove is the move name each side used in the previous round.
	lastMove [2]string
	// shield records the combatant protected by a successful barrier this round.
	shield  [2]*Handle
	round   int
	state   State
	winner  *Side
	forfeit bool
	// wiped records the order in which sides lost their last combatant this round.
	wiped []Side
}

// NewBattle builds a battle between the named rosters.
//
// Precondition: cat must be non-nil.
// Postcondition: returns ErrInvalidRoster when either roster is empty or larger
// than MaxRoster; otherwise the battle is in AwaitingSubmission at round 1.
func NewBattle(cat *catalog.Catalog, rosterA, rosterB []string, opts ...Option) (*Battle, error) {
	b := &Battle{
		cat:        cat,
		logger:     zap.NewNop(),
		k:          DefaultDamageConstant,
		maxEffects: effect.DefaultMaxActive,
		policy:     effect.LinearResistance,
		round:      1,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.roller == nil {
		b.roller = dice.NewLoggedRoller(dice.NewCryptoSource(), b.logger)
	}
	for i, names := range [2][]string{rosterA, rosterB} {
		if len(names) == 0 || len(names) > MaxRoster {
			return nil, fmt.Errorf("%w: side %s has %d combatants, want 1-%d", ErrInvalidRoster, Side(i), len(names), MaxRoster)
		}
		for _, name := range names {
			def, err := cat.Combatant(name)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidRoster, err)
			}
			c, err := NewCombatant(cat, def, b.maxEffects)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidRoster, err)
			}
			b.players[i].Roster = append(b.players[i].Roster, Handle(len(b.arena)))
			b.arena = append(b.arena, c)
		}
	}
	return b, nil
}

// Combatant returns the combatant addressed by h, or nil for an unknown handle.
func (b *Battle) Combatant(h Handle) *Combatant {
	if int(h) < 0 || int(h) >= len(b.arena) {
		return nil
	}
	return b.arena[h]
}

// Player returns a copy of side's roster and active slot.
func (b *Battle) Player(s Side) Player {
	p := b.players[s]
	p.Roster = append([]Handle(nil), p.Roster...)
	return p
}

// Active returns side's active combatant.
func (b *Battle) Active(s Side) *Combatant {
	p := b.players[s]
	return b.arena[p.Roster[p.Active]]
}

func (b *Battle) activeHandle(s Side) Handle {
	p := b.players[s]
	return p.Roster[p.Active]
}

// Weather returns a copy of the current weather, or nil.
func (b *Battle) Weather() *weather.Condition {
	if b.weather == nil {
		return nil
	}
	w := *b.weather
	return &w
}

// Elements returns the element table battles are resolved against.
func (b *Battle) Elements() *element.Table { return b.cat.Elements() }

// Round returns the current round number, starting at 1.
func (b *Battle) Round() int { return b.round }

// State returns the resolver state.
func (b *Battle) State() State { return b.state }

// MustSwap reports whether side's active combatant fainted and awaits replacement.
func (b *Battle) MustSwap(s Side) bool { return b.mustSwap[s] }

// Submitted reports whether side has a pending action this round.
func (b *Battle) Submitted(s Side) bool { return b.pending[s] != nil }

// Winner returns the winning side once the battle is terminal.
func (b *Battle) Winner() (Side, bool) {
	if b.winner == nil {
		return SideA, false
	}
	return *b.winner, true
}

// Forfeited reports whether the battle ended by forfeit.
func (b *Battle) Forfeited() bool { return b.forfeit }

// Over reports whether the battle is terminal.
func (b *Battle) Over() bool { return b.state == Terminal }

// OverrideTrinket installs a battle-scoped trinket on h, cleared by Reset.
func (b *Battle) OverrideTrinket(h Handle, t stats.Trinket) error {
	c := b.Combatant(h)
	if c == nil {
		return fmt.Errorf("combat: unknown handle %d", h)
	}
	c.trinketOverride = &t
	c.clampHP()
	return nil
}

// OverrideElement installs a battle-scoped element on h, cleared by Reset.
func (b *Battle) OverrideElement(h Handle, e element.Element) error {
	c := b.Combatant(h)
	if c == nil {
		return fmt.Errorf("combat: unknown handle %d", h)
	}
	if !b.cat.Elements().Has(e) {
		return fmt.Errorf("combat: unknown element %q", e)
	}
	c.elementOverride = e
	return nil
}

func invalid(cause error) error {
	return fmt.Errorf("%w: %w", ErrInvalidSubmission, cause)
}

// Submit records side's action for the current round.
//
// A side whose active combatant fainted may only swap; that swap executes
// immediately, returns its events and does not count as the round's submission.
//
// Postcondition: on error the battle is unchanged and the error wraps
// ErrInvalidSubmission together with the specific cause.
func (b *Battle) Submit(s Side, a Action) ([]Event, error) {
	if b.state == Terminal {
		return nil, invalid(ErrBattleOver)
	}
	if b.pending[s] != nil {
		return nil, invalid(ErrAlreadySubmitted)
	}
	actor := b.activeHandle(s)
	c := b.arena[actor]

	switch a.Kind {
	case ActionMove:
		if b.mustSwap[s] {
			return nil, invalid(ErrMustSwap)
		}
		if a.Index < 0 || a.Index >= len(c.moves) {
			return nil, invalid(ErrUnknownMove)
		}
		if !c.CanUse(a.Index) {
			return nil, invalid(ErrMoveExhausted)
		}
	case ActionSwap:
		if err := b.validateSwapTarget(s, a.Index); err != nil {
			return nil, invalid(err)
		}
		if b.mustSwap[s] {
			return []Event{b.swap(s, a.Index)}, nil
		}
	default:
		return nil, invalid(ErrUnknownAction)
	}

	b.pending[s] = &pending{action: a, actor: actor}
	b.logger.Debug("action submitted",
		zap.Int("round", b.round),
		zap.Stringer("side", s),
		zap.Stringer("action", a),
	)
	return nil, nil
}

func (b *Battle) validateSwapTarget(s Side, i int) error {
	p := b.players[s]
	if i < 0 || i >= len(p.Roster) || i == p.Active {
		return ErrInvalidSwapTarget
	}
	if b.arena[p.Roster[i]].Fainted() {
		return ErrSwapTargetFainted
	}
	return nil
}

// Withdraw cancels side's pending action before the round commits.
func (b *Battle) Withdraw(s Side) error {
	if b.state == Terminal {
		return ErrBattleOver
	}
	if b.pending[s] == nil {
		return ErrNothingSubmitted
	}
	b.pending[s] = nil
	return nil
}

// Ready reports whether the round can be resolved: both sides submitted and
// neither still owes a forced swap.
func (b *Battle) Ready() bool {
	return b.state == AwaitingSubmission &&
		b.pending[SideA] != nil && b.pending[SideB] != nil &&
		!b.mustSwap[SideA] && !b.mustSwap[SideB]
}

// Tick resolves the current round.
//
// Postcondition: returns the round's ordered events; the battle is either
// Terminal or AwaitingSubmission for the next round.
func (b *Battle) Tick() ([]Event, error) {
	if b.state == Terminal {
		return nil, ErrBattleOver
	}
	if !b.Ready() {
		return nil, ErrNotReady
	}
	return b.resolve(), nil
}

// ResolveRound submits a for side A and bb for side B, then resolves the round.
//
// Postcondition: when either submission is rejected nothing changes and the
// error is returned.
func (b *Battle) ResolveRound(a, bb Action) ([]Event, error) {
	if b.mustSwap[SideA] || b.mustSwap[SideB] {
		return nil, invalid(ErrMustSwap)
	}
	if _, err := b.Submit(SideA, a); err != nil {
		return nil, err
	}
	if _, err := b.Submit(SideB, bb); err != nil {
		b.pending[SideA] = nil
		return nil, err
	}
	return b.Tick()
}

// Forfeit ends the battle with s conceding.
//
// Postcondition: the battle is Terminal with the opponent recorded as winner
// and the forfeit flag set. A terminal battle is left unchanged.
func (b *Battle) Forfeit(s Side) []Event {
	if b.state == Terminal {
		return nil
	}
	b.forfeit = true
	events := []Event{b.event(Event{Kind: EventForfeit, Side: s})}
	return append(events, b.finish(s.Opponent()))
}

// Reset restores the battle to its starting state: every combatant reset,
// weather cleared, round 1, no winner.
func (b *Battle) Reset() {
	for _, c := range b.arena {
		c.reset()
	}
	for i := range b.players {
		b.players[i].Active = 0
	}
	b.weather = nil
	b.pending = [2]*pending{}
	b.mustSwap = [2]bool{}
	b.lastMove = [2]string{}
	b.shield = [2]*Handle{}
	b.round = 1
	b.state = AwaitingSubmission
	b.winner = nil
	b.forfeit = false
	b.wiped = nil
}

func (b *Battle) finish(winner Side) Event {
	b.winner = &winner
	b.state = Terminal
	b.pending = [2]*pending{}
	b.logger.Info("battle over",
		zap.Stringer("winner", winner),
		zap.Bool("forfeit", b.forfeit),
		zap.Int("round", b.round),
	)
	return b.event(Event{Kind: EventVictory, Side: winner})
}

func (b *Battle) event(e Event) Event {
	e.Round = b.round
	return narrate(e)
}
