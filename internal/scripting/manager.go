package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/witchery/internal/game/dice"
)

// sharedSetID is the reserved key for scripts loaded via LoadShared.
// Hook calls fall back to this VM when the named set has no VM.
const sharedSetID = "__shared__"

// vm is one sandboxed LState. An LState is single-threaded; mu serialises calls.
type vm struct {
	mu    sync.Mutex
	L     *lua.LState
	limit int
	// roller overrides the manager roller for the call in progress.
	roller *dice.Roller
}

// Manager owns one sandboxed LState per script set and exposes hook dispatch.
//
// Manager is safe for concurrent use. Calls into the same set are serialised;
// different sets run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager. roller backs engine.dice for calls that do
// not bring their own.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no script sets loaded.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		roller: roller,
		logger: logger,
	}
}

// LoadSet creates a sandboxed VM for setID, registers all engine.* modules,
// then executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: setID must be non-empty; scriptDir must be a readable directory.
// Postcondition: the VM is registered, replacing any previous VM for setID;
// returns error on Lua load failure.
func (m *Manager) LoadSet(setID, scriptDir string, instLimit int) error {
	return m.loadInto(setID, scriptDir, instLimit)
}

// LoadShared creates the shared VM that answers hook calls for any set
// without a VM of its own.
func (m *Manager) LoadShared(scriptDir string, instLimit int) error {
	return m.loadInto(sharedSetID, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	defer cancel()
	v := &vm{L: L, limit: instLimit}
	m.registerModules(v)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}
	L.RemoveContext()

	m.mu.Lock()
	old := m.vms[key]
	m.vms[key] = v
	m.mu.Unlock()
	if old != nil {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.logger.Debug("scripting: script set loaded",
		zap.String("set", key),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// Sets returns the loaded set IDs in sorted order, excluding the shared VM.
func (m *Manager) Sets() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.vms))
	for k := range m.vms {
		if k != sharedSetID {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// HasHook reports whether hook is a function in setID's VM (or the shared fallback).
func (m *Manager) HasHook(setID, hook string) bool {
	v := m.lookup(setID)
	if v == nil {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.L.GetGlobal(hook).Type() == lua.LTFunction
}

func (m *Manager) lookup(setID string) *vm {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.vms[setID]; ok {
		return v
	}
	return m.vms[sharedSetID]
}

// Call carries the arguments and per-call options of one hook invocation.
type Call struct {
	// Args are converted with ToLua.
	Args []any
	// Roller backs engine.dice for this call only. Nil uses the manager roller.
	Roller *dice.Roller
	// Decode receives the hook's first return value (LNil when the hook is
	// missing or failed) while the VM is still locked. Tables owned by the VM
	// must not be read after Decode returns.
	Decode func(lua.LValue) error
}

// Invoke calls the named Lua global function in setID's VM. If the set has
// no VM, the shared VM is tried as a fallback. A missing hook or VM decodes
// LNil. Lua runtime errors, including an exhausted instruction budget, are
// logged at Warn level and never propagated.
//
// Postcondition: returns an argument conversion error or the error from c.Decode.
func (m *Manager) Invoke(setID, hook string, c Call) error {
	decode := c.Decode
	if decode == nil {
		decode = func(lua.LValue) error { return nil }
	}
	v := m.lookup(setID)
	if v == nil {
		m.logger.Info("scripting: no VM for script set",
			zap.String("set", setID),
			zap.String("hook", hook),
		)
		return decode(lua.LNil)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	L := v.L

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return decode(lua.LNil)
	}

	largs := make([]lua.LValue, len(c.Args))
	for i, a := range c.Args {
		lv, err := ToLua(L, a)
		if err != nil {
			return fmt.Errorf("scripting: hook %q arg %d: %w", hook, i, err)
		}
		largs[i] = lv
	}

	v.roller = c.Roller
	cancel := Budget(L, v.limit)
	defer func() {
		v.roller = nil
		L.RemoveContext()
		cancel()
	}()

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, largs...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("set", setID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return decode(lua.LNil)
	}

	ret := L.Get(-1)
	L.Pop(1)
	return decode(ret)
}

// CallHook is Invoke with positional args and the manager roller, returning
// the hook's first return value. Only scalar results are safe to read once
// CallHook returns; decode tables through Invoke.
func (m *Manager) CallHook(setID, hook string, args ...any) (lua.LValue, error) {
	ret := lua.LValue(lua.LNil)
	err := m.Invoke(setID, hook, Call{
		Args: args,
		Decode: func(v lua.LValue) error {
			ret = v
			return nil
		},
	})
	if err != nil {
		return lua.LNil, err
	}
	return ret, nil
}

// Close releases every VM. The Manager may be reloaded afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[string]*vm)
	m.mu.Unlock()
	for _, v := range vms {
		v.mu.Lock()
		v.L.Close()
		v.mu.Unlock()
	}
}
