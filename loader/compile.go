// Package loader runs a Lua world script in a sandboxed VM and compiles the
// definitions it declares into world.Defs. The VM is discarded after
// loading; no Lua runs during play.
package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/lyre/engine/entity"
	"github.com/nathoo/lyre/engine/world"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// stringList reads the array part of a table as strings. A bare string
// is a one-element list.
func stringList(v lua.LValue) []string {
	switch val := v.(type) {
	case lua.LString:
		return []string{string(val)}
	case *lua.LTable:
		var out []string
		for i := 1; i <= val.MaxN(); i++ {
			if s, ok := val.RawGetInt(i).(lua.LString); ok {
				out = append(out, string(s))
			}
		}
		return out
	}
	return nil
}

// lockToken reads a lock field: true is a plain lock, a string is a
// token, anything else is no lock.
func lockToken(tbl *lua.LTable) string {
	switch v := tbl.RawGetString("lock").(type) {
	case lua.LBool:
		if v {
			return "plain"
		}
	case lua.LString:
		return string(v)
	}
	return ""
}

// compiler turns collected tables into Defs. Unresolved references are
// recorded on ve rather than aborting, so a script author sees every
// problem at once.
type compiler struct {
	defs *world.Defs
	ve   *ValidationError
}

func (c *compiler) errorf(format string, args ...any) {
	c.ve.Errors = append(c.ve.Errors, fmt.Sprintf(format, args...))
}

// compile converts all collected Lua data into world.Defs.
func compile(coll *collector, ve *ValidationError) (*world.Defs, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	c := &compiler{
		defs: &world.Defs{
			Items:    map[string]*entity.Item{},
			Monsters: map[string]entity.MonsterTemplate{},
			NPCs:     map[string]entity.NPCTemplate{},
			Themes:   map[string][]world.Theme{},
			Rewires:  map[string]world.Rewire{},
		},
		ve: ve,
	}

	c.compileGame(coll.game)

	// Items first: everything else refers to them.
	for _, raw := range coll.items {
		c.compileItem(raw)
	}
	for _, raw := range coll.monsters {
		c.compileMonster(raw)
	}
	for _, raw := range coll.npcs {
		c.compileNPC(raw)
	}
	for _, raw := range coll.rooms {
		c.compileRoom(raw)
	}
	for _, tbl := range coll.connections {
		c.compileConnection(tbl)
	}
	for _, raw := range coll.themes {
		c.compileThemes(raw)
	}
	for _, raw := range coll.rewires {
		c.compileRewire(raw)
	}
	if coll.encounters != nil {
		c.defs.Encounters = world.Encounters{
			Chance:   getNumber(coll.encounters, "chance"),
			Monsters: stringList(coll.encounters.RawGetString("monsters")),
		}
	}
	return c.defs, nil
}

func (c *compiler) compileGame(tbl *lua.LTable) {
	d := c.defs
	d.Title = getString(tbl, "title")
	d.Start = getString(tbl, "start")
	d.Victory = getString(tbl, "victory")
	d.Treasure = getString(tbl, "treasure")
	d.Intro = stringList(tbl.RawGetString("intro"))
}

func (c *compiler) compileItem(raw rawDef) {
	tbl := raw.table
	key := world.ItemKey(raw.id)
	if _, dup := c.defs.Items[key]; dup {
		c.errorf("item %q defined twice", raw.id)
		return
	}
	kind, err := entity.ParseEffectKind(getString(tbl, "use"))
	if err != nil {
		c.errorf("item %q: %v", raw.id, err)
	}
	it := &entity.Item{
		Name:        raw.id,
		Description: getString(tbl, "description"),
		CanTake:     getBool(tbl, "take", true),
		Usable:      getBool(tbl, "usable", true),
		GoldValue:   getInt(tbl, "gold"),
		Refusal:     getString(tbl, "refusal"),
		Effect: entity.Effect{
			Kind:   kind,
			Amount: getInt(tbl, "amount"),
			Min:    getInt(tbl, "min"),
			Max:    getInt(tbl, "max"),
		},
	}
	it.Stackable = getBool(tbl, "stack", it.IsCurrency())
	if it.Effect.Max < it.Effect.Min {
		c.errorf("item %q: max %d below min %d", raw.id, it.Effect.Max, it.Effect.Min)
	}
	c.defs.Items[key] = it
}

func (c *compiler) item(owner, name string) (*entity.Item, bool) {
	it, ok := c.defs.Items[world.ItemKey(name)]
	if !ok {
		c.errorf("%s: unknown item %q", owner, name)
	}
	return it, ok
}

// placements reads a list whose entries are "name" or { "name", qty }.
func (c *compiler) placements(owner string, tbl *lua.LTable) []world.Placement {
	if tbl == nil {
		return nil
	}
	var out []world.Placement
	for i := 1; i <= tbl.MaxN(); i++ {
		var p world.Placement
		switch v := tbl.RawGetInt(i).(type) {
		case lua.LString:
			p = world.Placement{Item: string(v), Quantity: 1}
		case *lua.LTable:
			name, _ := v.RawGetInt(1).(lua.LString)
			qty, _ := v.RawGetInt(2).(lua.LNumber)
			p = world.Placement{Item: string(name), Quantity: int(qty)}
			if p.Quantity == 0 {
				p.Quantity = 1
			}
		default:
			c.errorf("%s: item entry %d is neither a name nor a { name, quantity } pair", owner, i)
			continue
		}
		if p.Quantity < 0 {
			c.errorf("%s: item %q has negative quantity", owner, p.Item)
			continue
		}
		if _, ok := c.item(owner, p.Item); ok {
			out = append(out, p)
		}
	}
	return out
}

func (c *compiler) compileMonster(raw rawDef) {
	tbl := raw.table
	if _, dup := c.defs.Monsters[raw.id]; dup {
		c.errorf("monster %q defined twice", raw.id)
		return
	}
	kind, err := entity.ParseMonsterKind(getString(tbl, "kind"))
	if err != nil {
		c.errorf("monster %q: %v", raw.id, err)
	}
	t := entity.MonsterTemplate{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Kind:        kind,
		Health:      getInt(tbl, "health"),
		Attack:      getInt(tbl, "attack"),
		Defense:     getInt(tbl, "defense"),
	}
	if t.Name == "" {
		t.Name = raw.id
	}
	if t.Health <= 0 {
		c.errorf("monster %q: health must be positive", raw.id)
	}
	owner := fmt.Sprintf("monster %q loot", raw.id)
	for _, p := range c.placements(owner, getTable(tbl, "loot")) {
		it := c.defs.Items[world.ItemKey(p.Item)]
		t.Loot = append(t.Loot, entity.LootEntry{Item: it, Quantity: p.Quantity})
	}
	c.defs.Monsters[raw.id] = t
}

func (c *compiler) compileNPC(raw rawDef) {
	tbl := raw.table
	if _, dup := c.defs.NPCs[raw.id]; dup {
		c.errorf("npc %q defined twice", raw.id)
		return
	}
	t := entity.NPCTemplate{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Health:      getInt(tbl, "health"),
		Attack:      getInt(tbl, "attack"),
		Defense:     getInt(tbl, "defense"),
		Topics:      compileTopics(getTable(tbl, "topics")),
	}
	if t.Name == "" {
		t.Name = raw.id
	}
	if _, ok := t.Topics["default"]; !ok && len(t.Topics) > 0 {
		c.errorf("npc %q: topics need a default", raw.id)
	}
	if shop := getTable(tbl, "shop"); shop != nil {
		for i := 1; i <= shop.MaxN(); i++ {
			entry, ok := shop.RawGetInt(i).(*lua.LTable)
			if !ok {
				continue
			}
			name, _ := entry.RawGetInt(1).(lua.LString)
			price, _ := entry.RawGetInt(2).(lua.LNumber)
			it, ok := c.item(fmt.Sprintf("npc %q shop", raw.id), string(name))
			if !ok {
				continue
			}
			t.Shop = append(t.Shop, entity.ShopEntry{Item: it, Price: int(price)})
		}
	}
	c.defs.NPCs[raw.id] = t
}

// compileTopics accepts either a plain list of lines or a table with
// lines, random and sets fields for each topic.
func compileTopics(tbl *lua.LTable) map[string]entity.Topic {
	topics := map[string]entity.Topic{}
	if tbl == nil {
		return topics
	}
	tbl.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			return
		}
		topicTbl, ok := v.(*lua.LTable)
		if !ok {
			topics[string(key)] = entity.Topic{Lines: stringList(v)}
			return
		}
		if lines := topicTbl.RawGetString("lines"); lines != lua.LNil {
			topics[string(key)] = entity.Topic{
				Lines:    stringList(lines),
				Random:   getBool(topicTbl, "random", false),
				SetsFlag: getString(topicTbl, "sets"),
			}
			return
		}
		topics[string(key)] = entity.Topic{Lines: stringList(topicTbl)}
	})
	return topics
}

func (c *compiler) compileRoom(raw rawDef) {
	tbl := raw.table
	owner := fmt.Sprintf("room %q", raw.id)
	rd := world.RoomDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Items:       c.placements(owner, getTable(tbl, "items")),
		Monsters:    stringList(tbl.RawGetString("monsters")),
		NPCs:        stringList(tbl.RawGetString("npcs")),
		Safe:        getBool(tbl, "safe", false),
		Detached:    getBool(tbl, "detached", false),
	}
	if rd.Name == "" {
		c.errorf("%s: name is required", owner)
	}
	if vs := getTable(tbl, "variants"); vs != nil {
		for i := 1; i <= vs.MaxN(); i++ {
			v, ok := vs.RawGetInt(i).(*lua.LTable)
			if !ok {
				continue
			}
			requires := stringList(v.RawGetString("requires"))
			for _, name := range requires {
				c.item(owner+" variant", name)
			}
			rd.Variants = append(rd.Variants, world.Variant{
				Requires: requires,
				Text:     getString(v, "text"),
			})
		}
	}
	c.defs.Rooms = append(c.defs.Rooms, rd)
}

func (c *compiler) direction(owner, s string) world.Direction {
	d, ok := world.ParseDirection(s)
	if !ok {
		c.errorf("%s: invalid direction %q", owner, s)
	}
	return d
}

func (c *compiler) compileConnection(tbl *lua.LTable) {
	conn := world.Connection{
		From:       getString(tbl, "from"),
		To:         getString(tbl, "to"),
		Lock:       lockToken(tbl),
		TwoWayLock: getBool(tbl, "two_way", false),
		OneWay:     getBool(tbl, "one_way", false),
	}
	owner := fmt.Sprintf("connection %s->%s", conn.From, conn.To)
	conn.Dir = c.direction(owner, getString(tbl, "dir"))
	if back := getString(tbl, "back"); back != "" {
		conn.Return = c.direction(owner, back)
	}
	c.defs.Connections = append(c.defs.Connections, conn)
}

func (c *compiler) compileThemes(raw rawDef) {
	owner := fmt.Sprintf("themes of %q", raw.id)
	var themes []world.Theme
	for i := 1; i <= raw.table.MaxN(); i++ {
		th, ok := raw.table.RawGetInt(i).(*lua.LTable)
		if !ok {
			continue
		}
		themes = append(themes, world.Theme{
			Description: getString(th, "description"),
			Items:       c.placements(owner, getTable(th, "items")),
		})
	}
	c.defs.Themes[raw.id] = append(c.defs.Themes[raw.id], themes...)
}

func (c *compiler) compileRewire(raw rawDef) {
	tbl := raw.table
	owner := fmt.Sprintf("rewire of %q", raw.id)
	rw := world.Rewire{
		From:        getString(tbl, "from"),
		Flag:        getString(tbl, "flag"),
		Description: getString(tbl, "description"),
	}
	if rw.Flag == "" {
		rw.Flag = raw.id + "Rewired"
	}
	if exits := getTable(tbl, "exits"); exits != nil {
		for i := 1; i <= exits.MaxN(); i++ {
			e, ok := exits.RawGetInt(i).(*lua.LTable)
			if !ok {
				continue
			}
			l := world.Link{
				Dir:  c.direction(owner, getString(e, "dir")),
				To:   getString(e, "to"),
				Lock: lockToken(e),
			}
			if back := getString(e, "back"); back != "" {
				l.Return = c.direction(owner, back)
			}
			rw.Exits = append(rw.Exits, l)
		}
	}
	c.defs.Rewires[raw.id] = rw
}

// sortedLuaFiles returns .lua files in a directory, with game.lua first
// and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
