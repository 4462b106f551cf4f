package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// Marker key identifying helper-built tables during compilation.
const kindKey = "__kind"

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", start = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.game = tbl
		return 0
	}))

	// Location "id" { ... } — curried: Location("id") returns a function
	// that takes a table.
	L.SetGlobal("Location", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.locations = append(coll.locations, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Item "id" { ... } — curried.
	L.SetGlobal("Item", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.items = append(coll.items, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// NPC "id" { ... } — curried. Compiles into both an item entry (for
	// presence and noun resolution) and the NPC dossier.
	L.SetGlobal("NPC", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.npcs = append(coll.npcs, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Interaction "id" { verb = ..., item = ..., ... } — curried.
	// Declaration order is the engine's matching priority, so the
	// collector keeps a slice, never a map.
	L.SetGlobal("Interaction", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.interactions = append(coll.interactions, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))
}

func registerHelpers(L *lua.LState) {
	// Criteria { requires_flags = {...}, blocking_flags = {...},
	//            requires_inventory = {...}, requires_companions = {...} }
	registerTagged(L, "Criteria", "criteria")

	// Effect { set = {...}, clear = {...} }
	registerTagged(L, "Effect", "effect")

	// Exit { to = "...", description = "...", criteria = ..., blocked = ... }
	registerTagged(L, "Exit", "exit")

	// Node { npc = ..., player = ..., criteria = ..., effect = ...,
	//        jump = ..., jump_target = "...", internal = true,
	//        responses = { Response(...), ... } }
	registerTagged(L, "Node", "node")

	// Conditional { Clause("text", criteria), ..., "fallback" }
	registerTagged(L, "Conditional", "conditional")

	// Clause("text", criteria)
	L.SetGlobal("Clause", L.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		criteria := L.CheckTable(2)
		tbl := L.NewTable()
		tbl.RawSetString(kindKey, lua.LString("clause"))
		tbl.RawSetString("text", lua.LString(text))
		tbl.RawSetString("criteria", criteria)
		L.Push(tbl)
		return 1
	}))

	// Response("keyword", Node{...})
	L.SetGlobal("Response", L.NewFunction(func(L *lua.LState) int {
		keyword := L.CheckString(1)
		node := L.CheckTable(2)
		tbl := L.NewTable()
		tbl.RawSetString(kindKey, lua.LString("response"))
		tbl.RawSetString("keyword", lua.LString(keyword))
		tbl.RawSetString("node", node)
		L.Push(tbl)
		return 1
	}))
}

// registerTagged registers a pass-through constructor that tags its table
// argument with a kind marker and returns it.
func registerTagged(L *lua.LState, name, kind string) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		tbl.RawSetString(kindKey, lua.LString(kind))
		L.Push(tbl)
		return 1
	}))
}
