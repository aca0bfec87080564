package script

import lua "github.com/yuin/gopher-lua"

// luaToGo and goToLua convert between Lua values and plain Go any, the
// same bidirectional conversion wildspark-backend's script_engine.go does
// (luaTableToGo / toLValue) for its ctx table, generalized here to cover
// every call site that crosses the Lua/Go boundary in internal/script.
func luaToGo(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LNil:
		return nil
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		return float64(val)
	case lua.LString:
		return string(val)
	case *lua.LTable:
		return luaTableToGo(val)
	default:
		return val.String()
	}
}

func luaTableToGo(tbl *lua.LTable) any {
	maxIdx := 0
	isArray := true
	tbl.ForEach(func(k, _ lua.LValue) {
		if n, ok := k.(lua.LNumber); ok {
			if int(n) > maxIdx {
				maxIdx = int(n)
			}
		} else {
			isArray = false
		}
	})
	if isArray && maxIdx > 0 {
		arr := make([]any, 0, maxIdx)
		for i := 1; i <= maxIdx; i++ {
			arr = append(arr, luaToGo(tbl.RawGetInt(i)))
		}
		return arr
	}
	m := make(map[string]any)
	tbl.ForEach(func(k, v lua.LValue) {
		m[k.String()] = luaToGo(v)
	})
	return m
}

func goToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case float32:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case int:
		return lua.LNumber(val)
	case int32:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case uint64:
		return lua.LNumber(val)
	case map[string]any:
		tbl := L.NewTable()
		for k, vv := range val {
			tbl.RawSetString(k, goToLua(L, vv))
		}
		return tbl
	case []any:
		tbl := L.NewTable()
		for i, vv := range val {
			tbl.RawSetInt(i+1, goToLua(L, vv))
		}
		return tbl
	default:
		return lua.LString("")
	}
}
