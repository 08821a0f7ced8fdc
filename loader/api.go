package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the scenario constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// World { name = "...", height = 20, width = 40, walls = true }
	L.SetGlobal("World", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		if coll.world != nil {
			L.RaiseError("World is declared more than once")
		}
		coll.world = tbl
		return 0
	}))

	// Spawn "name" { y = 1, x = 2, ... } is curried: Spawn("name") returns a
	// function that takes the table.
	L.SetGlobal("Spawn", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.spawns = append(coll.spawns, rawSpawn{name: name, table: tbl})
			return 0
		}))
		return 1
	}))

	// Slot("hand", {"weapon", "tool"}) builds a slot table.
	L.SetGlobal("Slot", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("name", lua.LString(name))
		if accepts, ok := L.Get(2).(*lua.LTable); ok {
			tbl.RawSetString("accepts", accepts)
		}
		L.Push(tbl)
		return 1
	}))

	// Row("Tree", {"impassable"}, y, x1, x2) spawns a horizontal run of
	// identical entities.
	L.SetGlobal("Row", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		traits := L.CheckTable(2)
		y := L.CheckInt(3)
		x1, x2 := L.CheckInt(4), L.CheckInt(5)
		if x2 < x1 {
			x1, x2 = x2, x1
		}
		for x := x1; x <= x2; x++ {
			tbl := L.NewTable()
			tbl.RawSetString("y", lua.LNumber(y))
			tbl.RawSetString("x", lua.LNumber(x))
			tbl.RawSetString("traits", traits)
			coll.spawns = append(coll.spawns, rawSpawn{name: name, table: tbl})
		}
		return 0
	}))
}
