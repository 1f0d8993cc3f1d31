package loader

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/nathoo/lyre/data"
	"github.com/nathoo/lyre/engine/entity"
	"github.com/nathoo/lyre/engine/world"
)

const minimal = `
Game { title = "Minimal", start = "hall" }
Room "hall" { name = "Great Hall", description = "A grand hall." }
Room "yard" { name = "Yard", description = "Mud." }
Connect { from = "hall", to = "yard", dir = "forward" }
`

func loadString(t *testing.T, src string) (*world.Defs, error) {
	t.Helper()
	fsys := fstest.MapFS{"world.lua": {Data: []byte(src)}}
	return LoadFS(fsys, "world.lua", nil)
}

func mustLoad(t *testing.T, src string) *world.Defs {
	t.Helper()
	defs, err := loadString(t, src)
	if err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}
	return defs
}

func validationErrors(t *testing.T, err error) []string {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	return ve.Errors
}

func containsLine(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func TestLoadFS_Minimal(t *testing.T) {
	defs := mustLoad(t, minimal)
	if defs.Title != "Minimal" {
		t.Errorf("Title = %q", defs.Title)
	}
	if defs.Start != "hall" {
		t.Errorf("Start = %q", defs.Start)
	}
	if len(defs.Rooms) != 2 || defs.Rooms[0].ID != "hall" || defs.Rooms[1].ID != "yard" {
		t.Fatalf("rooms not kept in script order: %+v", defs.Rooms)
	}
	if defs.Rooms[0].Description != "A grand hall." {
		t.Errorf("hall description = %q", defs.Rooms[0].Description)
	}
	if len(defs.Connections) != 1 {
		t.Fatalf("expected 1 connection, got %d", len(defs.Connections))
	}
	c := defs.Connections[0]
	if c.From != "hall" || c.To != "yard" || c.Dir != world.Forward || c.Lock != "" {
		t.Errorf("connection = %+v", c)
	}

	w, err := world.Build(defs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if to, _ := w.Room("yard").Exit(world.Back); to != "hall" {
		t.Errorf("yard back = %q, want hall", to)
	}
}

func TestLoadFS_Items(t *testing.T) {
	defs := mustLoad(t, minimal+`
Item "gold coins" { description = "Shiny.", gold = 1, usable = false }
Item "Potion" { description = "Red.", use = "heal", amount = 20 }
Item "candy" { description = "Sweet.", use = "experience", min = 4, max = 23 }
Item "bowl" { description = "Fruit.", take = false, refusal = "Too heavy." }
`)

	coins := defs.Items["gold coins"]
	if coins == nil || !coins.IsCurrency() || !coins.Stackable || coins.Usable {
		t.Errorf("gold coins = %+v", coins)
	}
	potion := defs.Items["potion"]
	if potion == nil {
		t.Fatal("items should be keyed by lower-cased name")
	}
	if potion.Name != "Potion" || !potion.CanTake || !potion.Usable {
		t.Errorf("potion = %+v", potion)
	}
	if potion.Effect.Kind != entity.EffectHeal || potion.Effect.Amount != 20 {
		t.Errorf("potion effect = %+v", potion.Effect)
	}
	if potion.Stackable {
		t.Error("non-currency items are not stackable by default")
	}
	candy := defs.Items["candy"]
	if candy.Effect.Kind != entity.EffectExperience || candy.Effect.Min != 4 || candy.Effect.Max != 23 {
		t.Errorf("candy effect = %+v", candy.Effect)
	}
	bowl := defs.Items["bowl"]
	if bowl.CanTake || bowl.Refusal != "Too heavy." {
		t.Errorf("bowl = %+v", bowl)
	}
}

func TestLoadFS_MonstersAndNPCs(t *testing.T) {
	defs := mustLoad(t, minimal+`
Item "gold coins" { gold = 1 }
Item "potion" { use = "heal", amount = 20 }
Monster "goblin" {
  name = "Goblin", kind = "goblin", health = 35, attack = 8, defense = 3,
  loot = { { "gold coins", 5 }, "potion" },
}
NPC "greb" {
  name = "Greb", health = 50, defense = 5,
  topics = {
    default = { "Hello.", "Hello again." },
    compass = { lines = { "Find it." }, sets = "wantsCompass" },
    gossip = { lines = { "A", "B" }, random = true },
  },
  shop = { { "potion", 15 } },
}
`)

	gob, ok := defs.Monsters["goblin"]
	if !ok {
		t.Fatal("goblin not compiled")
	}
	if gob.Kind != entity.KindGoblin || gob.Health != 35 || gob.Attack != 8 || gob.Defense != 3 {
		t.Errorf("goblin = %+v", gob)
	}
	if len(gob.Loot) != 2 || gob.Loot[0].Item.Name != "gold coins" || gob.Loot[0].Quantity != 5 || gob.Loot[1].Quantity != 1 {
		t.Errorf("goblin loot = %+v", gob.Loot)
	}

	greb := defs.NPCs["greb"]
	if greb.Name != "Greb" || greb.Health != 50 || greb.Defense != 5 {
		t.Errorf("greb = %+v", greb)
	}
	if got := greb.Topics["default"].Lines; len(got) != 2 || got[1] != "Hello again." {
		t.Errorf("default topic = %v", got)
	}
	if greb.Topics["compass"].SetsFlag != "wantsCompass" {
		t.Errorf("compass topic = %+v", greb.Topics["compass"])
	}
	if !greb.Topics["gossip"].Random {
		t.Error("gossip should be random")
	}
	if len(greb.Shop) != 1 || greb.Shop[0].Item != defs.Items["potion"] || greb.Shop[0].Price != 15 {
		t.Errorf("shop = %+v", greb.Shop)
	}
}

func TestLoadFS_RoomContents(t *testing.T) {
	defs := mustLoad(t, `
Game { title = "T", start = "hall" }
Item "torch" {}
Item "gold coins" { gold = 1 }
Item "apple" {}
Monster "bat" { health = 5 }
Room "hall" {
  name = "Hall", safe = true,
  items = { "torch", { "gold coins", 3 } },
  monsters = { "bat" },
  variants = { { requires = { "apple" }, text = "Glowing." } },
}
Room "secret" { name = "Secret", detached = true }
`)
	hall := defs.Rooms[0]
	if !hall.Safe || hall.Detached {
		t.Errorf("hall flags = safe %v detached %v", hall.Safe, hall.Detached)
	}
	if len(hall.Items) != 2 || hall.Items[1] != (world.Placement{Item: "gold coins", Quantity: 3}) {
		t.Errorf("hall items = %+v", hall.Items)
	}
	if len(hall.Monsters) != 1 || hall.Monsters[0] != "bat" {
		t.Errorf("hall monsters = %v", hall.Monsters)
	}
	if len(hall.Variants) != 1 || hall.Variants[0].Text != "Glowing." || hall.Variants[0].Requires[0] != "apple" {
		t.Errorf("hall variants = %+v", hall.Variants)
	}
	if !defs.Rooms[1].Detached {
		t.Error("secret should be detached")
	}
}

func TestLoadFS_Locks(t *testing.T) {
	defs := mustLoad(t, `
Game { title = "T", start = "a" }
Item "feather" {}
Room "a" { name = "A" }
Room "b" { name = "B" }
Room "c" { name = "C" }
Room "d" { name = "D" }
Connect { from = "a", to = "b", dir = "left", lock = true, two_way = true }
Connect { from = "a", to = "c", dir = "forward", lock = "rps" }
Connect { from = "a", to = "d", dir = "right", lock = "feather", back = "left" }
Connect { from = "d", to = "a", dir = "forward", one_way = true }
`)
	want := []world.Connection{
		{From: "a", To: "b", Dir: world.Left, Lock: "plain", TwoWayLock: true},
		{From: "a", To: "c", Dir: world.Forward, Lock: "rps"},
		{From: "a", To: "d", Dir: world.Right, Return: world.Left, Lock: "feather"},
		{From: "d", To: "a", Dir: world.Forward, OneWay: true},
	}
	if len(defs.Connections) != len(want) {
		t.Fatalf("got %d connections", len(defs.Connections))
	}
	for i, c := range defs.Connections {
		if c != want[i] {
			t.Errorf("connection %d = %+v, want %+v", i, c, want[i])
		}
	}

	w, err := world.Build(defs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if l, _ := w.Room("a").Lock(world.Right); l.Kind != world.LockItem || l.Key != "feather" {
		t.Errorf("a right lock = %v", l)
	}
	if !w.Room("b").IsLocked(world.Back) {
		t.Error("two_way lock should lock the return edge")
	}
}

func TestLoadFS_ThemesRewiresEncounters(t *testing.T) {
	defs := mustLoad(t, `
Game { title = "T", start = "den" }
Item "shard" {}
Monster "imp" { health = 5 }
Room "den" { name = "Den" }
Room "temple" { name = "Temple" }
Room "hall" { name = "Hall", detached = true }
Connect { from = "den", to = "temple", dir = "forward" }
Themes "den" {
  { description = "Ice." },
  { description = "Fire.", items = { { "shard", 2 } } },
}
Rewire "temple" {
  from = "den",
  description = "Shifted.",
  exits = {
    { dir = "forward", to = "hall", back = "back" },
    { dir = "right", to = "den", lock = "white_king" },
  },
}
Encounters { chance = 0.3, monsters = { "imp" } }
`)
	themes := defs.Themes["den"]
	if len(themes) != 2 || themes[1].Description != "Fire." || themes[1].Items[0].Quantity != 2 {
		t.Errorf("themes = %+v", themes)
	}
	rw := defs.Rewires["temple"]
	if rw.From != "den" || rw.Flag != "templeRewired" || rw.Description != "Shifted." {
		t.Errorf("rewire = %+v", rw)
	}
	if len(rw.Exits) != 2 || rw.Exits[0].Return != world.Back || rw.Exits[1].Lock != "white_king" {
		t.Errorf("rewire exits = %+v", rw.Exits)
	}
	if defs.Encounters.Chance != 0.3 || len(defs.Encounters.Monsters) != 1 {
		t.Errorf("encounters = %+v", defs.Encounters)
	}
}

func TestLoadFS_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"missing title", `Game { start = "a" } Room "a" { name = "A" }`, "Game.title is required"},
		{"missing start room", `Game { title = "T", start = "nowhere" } Room "a" { name = "A" }`, `start room "nowhere" not found`},
		{"unknown room item", `Game { title = "T", start = "a" } Room "a" { name = "A", items = { "ghost" } }`, `unknown item "ghost"`},
		{"unknown monster", `Game { title = "T", start = "a" } Room "a" { name = "A", monsters = { "ghost" } }`, `unknown monster "ghost"`},
		{"bad direction", `Game { title = "T", start = "a" } Room "a" { name = "A" } Room "b" { name = "B" } Connect { from = "a", to = "b", dir = "up" }`, `invalid direction "up"`},
		{"dangling connection", `Game { title = "T", start = "a" } Room "a" { name = "A" } Connect { from = "a", to = "b", dir = "left" }`, `undefined room "b"`},
		{"unknown key item", `Game { title = "T", start = "a" } Room "a" { name = "A" } Room "b" { name = "B" } Connect { from = "a", to = "b", dir = "left", lock = "ghost key" }`, "neither a lock kind nor a defined item"},
		{"unknown effect", `Game { title = "T", start = "a" } Room "a" { name = "A" } Item "x" { use = "fly" }`, `unknown item effect "fly"`},
		{"bad chance", `Game { title = "T", start = "a" } Room "a" { name = "A" } Encounters { chance = 2 }`, "outside [0, 1]"},
		{"duplicate room", `Game { title = "T", start = "a" } Room "a" { name = "A" } Room "a" { name = "A" }`, `room "a" defined twice`},
		{"missing treasure", `Game { title = "T", start = "a", treasure = "lyre" } Room "a" { name = "A" }`, `treasure "lyre"`},
		{"npc without default", `Game { title = "T", start = "a" } Room "a" { name = "A" } NPC "n" { topics = { keys = { "k" } } }`, "topics need a default"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadString(t, tt.src)
			if err == nil {
				t.Fatal("expected error")
			}
			errs := validationErrors(t, err)
			if !containsLine(errs, tt.want) {
				t.Errorf("errors %v do not mention %q", errs, tt.want)
			}
		})
	}
}

func TestLoadFS_CollectsAllErrors(t *testing.T) {
	_, err := loadString(t, `
Game { title = "T", start = "a" }
Room "a" { name = "A", items = { "ghost" }, monsters = { "wraith" } }
`)
	errs := validationErrors(t, err)
	if len(errs) != 2 {
		t.Errorf("expected 2 errors, got %v", errs)
	}
	if !strings.HasPrefix(err.Error(), "validation failed with 2 error(s):") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestLoadFS_UnreachableWarning(t *testing.T) {
	var buf bytes.Buffer
	fsys := fstest.MapFS{"world.lua": {Data: []byte(`
Game { title = "T", start = "a" }
Room "a" { name = "A" }
Room "island" { name = "Island" }
Room "secret" { name = "Secret", detached = true }
`)}}
	if _, err := LoadFS(fsys, "world.lua", log.New(&buf, "", 0)); err != nil {
		t.Fatalf("warnings should not fail the load: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `room "island" cannot be reached`) {
		t.Errorf("expected unreachable warning, got %q", out)
	}
	if strings.Contains(out, "secret") {
		t.Errorf("detached rooms should not warn, got %q", out)
	}
}

func TestLoadFS_NoGame(t *testing.T) {
	_, err := loadString(t, `Room "a" { name = "A" }`)
	if err == nil || !strings.Contains(err.Error(), "no Game{} definition") {
		t.Errorf("expected missing Game error, got %v", err)
	}
}

func TestLoadFS_LuaErrors(t *testing.T) {
	if _, err := loadString(t, `Game { title = `); err == nil || !strings.Contains(err.Error(), "parsing world.lua") {
		t.Errorf("syntax error: got %v", err)
	}
	if _, err := loadString(t, `error("boom")`); err == nil || !strings.Contains(err.Error(), "executing world.lua") {
		t.Errorf("runtime error: got %v", err)
	}
	if _, err := loadString(t, `Room "a" (42)`); err == nil {
		t.Error("Room with a non-table body should fail")
	}
}

func TestLoadFS_Sandbox(t *testing.T) {
	blocked := []string{
		`os.exit(1)`,
		`io.write("x")`,
		`dofile("x.lua")`,
		`loadstring("return 1")()`,
		`require("os")`,
		`math.randomseed(1)`,
		`local x = math.random(6)`,
	}
	for _, src := range blocked {
		if _, err := loadString(t, src+"\n"+minimal); err == nil {
			t.Errorf("expected %q to fail in the sandbox", src)
		}
	}

	// The safe libraries stay usable for building content.
	defs := mustLoad(t, `
local rooms = { "a", "b" }
for _, id in ipairs(rooms) do
  Room(id) { name = string.upper(id) .. string.format("%d", math.floor(1.5)) }
end
Game { title = table.concat({ "T", "2" }), start = "a" }
Connect { from = "a", to = "b", dir = "forward" }
`)
	if defs.Rooms[0].Name != "A1" || defs.Title != "T2" {
		t.Errorf("got room %q title %q", defs.Rooms[0].Name, defs.Title)
	}
}

func TestLoadFS_Directory(t *testing.T) {
	fsys := fstest.MapFS{
		"world/game.lua":  {Data: []byte(`Game { title = "Split", start = "hall" }`)},
		"world/b.lua":     {Data: []byte(`Connect { from = "hall", to = "yard", dir = "left" }`)},
		"world/a.lua":     {Data: []byte(`Room "hall" { name = "Hall" } Room "yard" { name = "Yard" }`)},
		"world/notes.txt": {Data: []byte(`not lua`)},
	}
	defs, err := LoadFS(fsys, "world", nil)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if defs.Title != "Split" || len(defs.Rooms) != 2 || len(defs.Connections) != 1 {
		t.Errorf("defs = %+v", defs)
	}

	empty := fstest.MapFS{"world/readme.txt": {Data: []byte("x")}}
	if _, err := LoadFS(empty, "world", nil); err == nil || !strings.Contains(err.Error(), "no .lua files") {
		t.Errorf("expected no .lua files error, got %v", err)
	}
}

func TestSortedLuaFiles(t *testing.T) {
	got := sortedLuaFiles([]string{"rooms.lua", "items.lua", "game.lua", "npcs.lua"})
	want := []string{"game.lua", "items.lua", "npcs.lua", "rooms.lua"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "mini.lua")
	if err := os.WriteFile(p, []byte(minimal), 0o644); err != nil {
		t.Fatal(err)
	}
	defs, err := Load(p, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if defs.Title != "Minimal" {
		t.Errorf("Title = %q", defs.Title)
	}
	if _, err := Load(filepath.Join(dir, "missing.lua"), nil); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestLoadFS_BundledWorld(t *testing.T) {
	var buf bytes.Buffer
	defs, err := LoadFS(data.FS, data.Name, log.New(&buf, "", 0))
	if err != nil {
		t.Fatalf("bundled world failed to load: %v", err)
	}
	if buf.Len() > 0 {
		t.Errorf("bundled world produced warnings:\n%s", buf.String())
	}
	if defs.Title != "The Labyrinth of Lyre" || defs.Start != "entrance" || defs.Treasure != "heart of lyre" {
		t.Errorf("game = %q %q %q", defs.Title, defs.Start, defs.Treasure)
	}
	if len(defs.Intro) != 5 {
		t.Errorf("expected 5 intro passages, got %d", len(defs.Intro))
	}
	if len(defs.Rooms) != 24 {
		t.Errorf("expected 24 rooms, got %d", len(defs.Rooms))
	}
	if n := len(defs.Themes["chamber"]); n != 4 {
		t.Errorf("expected 4 den themes, got %d", n)
	}
	if defs.NPCs["grebgela"].Topics["compass"].SetsFlag != "hasOrnateCompassQuest" {
		t.Error("grebgela's compass topic should start the compass quest")
	}
	if defs.Encounters.Chance != 0.25 || len(defs.Encounters.Monsters) != 3 {
		t.Errorf("encounters = %+v", defs.Encounters)
	}

	w, err := world.Build(defs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	checks := []struct {
		room string
		dir  world.Direction
		kind world.LockKind
	}{
		{"courtyard", world.Left, world.LockPlain},
		{"bunkers", world.Forward, world.LockPlain},
		{"zHallway", world.Back, world.LockPlain},
		{"marketCorridor", world.Forward, world.LockRPS},
		{"safezone", world.Forward, world.LockInspectCabin},
		{"vault", world.Forward, world.LockVaultPuzzle},
		{"rockCrevice", world.Forward, world.LockItem},
	}
	for _, c := range checks {
		l, ok := w.Room(c.room).Lock(c.dir)
		if !ok || l.Kind != c.kind {
			t.Errorf("%s %s lock = %v (locked %v), want kind %d", c.room, c.dir, l, ok, c.kind)
		}
	}
	for _, id := range []string{"entrance", "safezone", "cabin", "grebs"} {
		if !w.IsSafe(id) {
			t.Errorf("%s should be safe", id)
		}
	}
	if _, ok := w.Room("windingPassage").Exit(world.Forward); !ok {
		t.Error("winding passage should lead into the temple")
	}
	if _, ok := w.Room("temple").Exit(world.Right); ok {
		t.Error("temple should have no right exit before the rewire")
	}
}
