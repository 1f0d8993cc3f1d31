package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// rawDef holds a named constructor table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// registerAPI registers the world constructors as globals.
//
//	Game { title = "...", start = "entrance", intro = { ... } }
//	Item "torch" { description = "...", use = "torch" }
//	Monster "goblin" { name = "Goblin", health = 35, ... }
//	NPC "grebgela" { name = "Grebgela", topics = { ... }, shop = { ... } }
//	Room "entrance" { name = "The Glade", items = { "torch" } }
//	Connect { from = "entrance", to = "courtyard", dir = "forward" }
//	Themes "chamber" { { description = "...", items = { ... } }, ... }
//	Rewire "temple" { from = "windingPassage", flag = "...", exits = { ... } }
//	Encounters { chance = 0.25, monsters = { "goblin" } }
func registerAPI(L *lua.LState, coll *collector) {
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	L.SetGlobal("Encounters", L.NewFunction(func(L *lua.LState) int {
		coll.encounters = L.CheckTable(1)
		return 0
	}))

	L.SetGlobal("Connect", L.NewFunction(func(L *lua.LState) int {
		coll.connections = append(coll.connections, L.CheckTable(1))
		return 0
	}))

	named(L, "Item", &coll.items)
	named(L, "Monster", &coll.monsters)
	named(L, "NPC", &coll.npcs)
	named(L, "Room", &coll.rooms)
	named(L, "Themes", &coll.themes)
	named(L, "Rewire", &coll.rewires)
}

// named registers a curried constructor: Name("id") returns a function
// that takes the definition table.
func named(L *lua.LState, global string, dst *[]rawDef) {
	L.SetGlobal(global, L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			*dst = append(*dst, rawDef{id: id, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))
}
