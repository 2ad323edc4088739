package scripting

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"
)

// ToLua converts a plain Go value into a Lua value owned by L.
//
// Supported: nil, bool, string, int, int64, float64, []any, []string,
// map[string]any and lua.LValue (passed through). Slices become 1-based
// arrays; maps become tables with string keys.
func ToLua(L *lua.LState, v any) (lua.LValue, error) {
	switch x := v.(type) {
	case nil:
		return lua.LNil, nil
	case lua.LValue:
		return x, nil
	case bool:
		return lua.LBool(x), nil
	case string:
		return lua.LString(x), nil
	case int:
		return lua.LNumber(x), nil
	case int64:
		return lua.LNumber(x), nil
	case float64:
		return lua.LNumber(x), nil
	case []string:
		tbl := L.NewTable()
		for _, s := range x {
			tbl.Append(lua.LString(s))
		}
		return tbl, nil
	case []any:
		tbl := L.NewTable()
		for i, e := range x {
			lv, err := ToLua(L, e)
			if err != nil {
				return lua.LNil, fmt.Errorf("[%d]: %w", i, err)
			}
			tbl.Append(lv)
		}
		return tbl, nil
	case map[string]any:
		tbl := L.NewTable()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lv, err := ToLua(L, x[k])
			if err != nil {
				return lua.LNil, fmt.Errorf("%s: %w", k, err)
			}
			tbl.RawSetString(k, lv)
		}
		return tbl, nil
	default:
		return lua.LNil, fmt.Errorf("unsupported type %T", v)
	}
}

// StringField returns tbl[key] as a string, or "" when absent or not a string.
func StringField(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// IntField returns tbl[key] as an int and whether it was a number.
func IntField(tbl *lua.LTable, key string) (int, bool) {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(n), true
	}
	return 0, false
}
