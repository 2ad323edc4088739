package ai

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/witchery/internal/game/combat"
	"github.com/cory-johannsen/witchery/internal/game/dice"
	"github.com/cory-johannsen/witchery/internal/game/element"
	"github.com/cory-johannsen/witchery/internal/scripting"
)

// DefaultHook is the Lua global a scripted policy calls when none is configured.
const DefaultHook = "choose_action"

// ScriptCaller is the interface required by ScriptedPolicy to run Lua hooks.
type ScriptCaller interface {
	// Invoke calls a named Lua function in the given script set's VM and
	// hands its result to c.Decode while the VM is locked. A missing
	// function decodes LNil.
	Invoke(setID, hook string, c scripting.Call) error
}

// ScriptedPolicy asks a Lua hook for the action and falls back when the hook
// is missing, fails, or returns an illegal action.
//
// The hook receives the table built by BuildScriptState and returns
// {kind = "move" | "swap", index = n} with a 1-based index.
type ScriptedPolicy struct {
	name     string
	set      string
	hook     string
	tbl      *element.Table
	caller   ScriptCaller
	fallback Policy
	logger   *zap.Logger
	roller   *dice.Roller
}

// NewScriptedPolicy constructs a ScriptedPolicy that runs hook in script set set.
//
// Precondition: tbl, caller and fallback must be non-nil; an empty hook uses
// DefaultHook; a nil logger is replaced with zap.NewNop().
func NewScriptedPolicy(name, set, hook string, tbl *element.Table, caller ScriptCaller, fallback Policy, logger *zap.Logger) *ScriptedPolicy {
	if tbl == nil || caller == nil || fallback == nil {
		panic("ai.NewScriptedPolicy: tbl, caller and fallback must not be nil")
	}
	if hook == "" {
		hook = DefaultHook
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScriptedPolicy{
		name:     name,
		set:      set,
		hook:     hook,
		tbl:      tbl,
		caller:   caller,
		fallback: fallback,
		logger:   logger,
	}
}

// Name returns the registered policy name.
func (p *ScriptedPolicy) Name() string { return p.name }

// WithRoller returns a copy of p whose hooks draw engine.dice rolls from r.
// p itself is unchanged.
func (p *ScriptedPolicy) WithRoller(r *dice.Roller) Policy {
	c := *p
	c.roller = r
	return &c
}

// Decide implements Policy.
func (p *ScriptedPolicy) Decide(snap combat.Snapshot, side combat.Side) (combat.Action, error) {
	ws := BuildWorldState(snap, side)
	var reply scriptReply
	err := p.caller.Invoke(p.set, p.hook, scripting.Call{
		Args:   []any{BuildScriptState(p.tbl, ws)},
		Roller: p.roller,
		Decode: func(v lua.LValue) error {
			reply = decodeReply(v)
			return nil
		},
	})
	if err != nil {
		p.logger.Warn("scripted policy: hook failed",
			zap.String("policy", p.name),
			zap.Error(err),
		)
		return p.fallback.Decide(snap, side)
	}
	if !reply.present {
		p.logger.Debug("scripted policy: no decision, using fallback",
			zap.String("policy", p.name),
			zap.Stringer("side", side),
		)
		return p.fallback.Decide(snap, side)
	}

	a, ok := reply.action()
	if !ok || !IsLegal(snap, side, a) {
		p.logger.Warn("scripted policy: illegal decision",
			zap.String("policy", p.name),
			zap.Stringer("side", side),
			zap.String("kind", reply.kind),
		)
		return p.fallback.Decide(snap, side)
	}
	return a, nil
}

// scriptReply is a hook result copied out of the VM.
type scriptReply struct {
	present bool
	kind    string
	index   int
	indexed bool
}

func decodeReply(v lua.LValue) scriptReply {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return scriptReply{}
	}
	r := scriptReply{present: true, kind: scripting.StringField(tbl, "kind")}
	r.index, r.indexed = scripting.IntField(tbl, "index")
	return r
}

func (r scriptReply) action() (combat.Action, bool) {
	if !r.indexed {
		return combat.Action{}, false
	}
	switch r.kind {
	case "move":
		return combat.UseMove(r.index - 1), true
	case "swap":
		return combat.SwapTo(r.index - 1), true
	default:
		return combat.Action{}, false
	}
}
