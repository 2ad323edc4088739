package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/witchery/internal/game/dice"
)

// registerModules registers the engine.* Lua tables into v's state:
//
//	engine.log.debug|info|warn|error(msg)
//	engine.dice.percent(chance) -> bool
//	engine.dice.coin() -> 0|1
//
// Precondition: v.L must be from NewSandboxedState.
// Postcondition: engine global is defined in v.L.
func (m *Manager) registerModules(v *vm) {
	L := v.L
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(v))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	for name, fn := range levels {
		fn := fn
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	return mod
}

// diceModule draws from the roller of the call in progress, or the manager
// roller when the call brought none.
func (m *Manager) diceModule(v *vm) *lua.LTable {
	roller := func() *dice.Roller {
		if v.roller != nil {
			return v.roller
		}
		return m.roller
	}
	L := v.L
	mod := L.NewTable()
	L.SetField(mod, "percent", L.NewFunction(func(L *lua.LState) int {
		chance := float64(L.CheckNumber(1))
		L.Push(lua.LBool(roller().Percent("lua", chance)))
		return 1
	}))
	L.SetField(mod, "coin", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(roller().CoinFlip("lua")))
		return 1
	}))
	return mod
}
