package action

import (
	"strings"
	"testing"

	"github.com/nathoo/lyre/engine/battle"
	"github.com/nathoo/lyre/engine/entity"
	"github.com/nathoo/lyre/engine/events"
	"github.com/nathoo/lyre/engine/rng"
	"github.com/nathoo/lyre/engine/state"
	"github.com/nathoo/lyre/engine/world"
)

func testDefs() *world.Defs {
	items := map[string]*entity.Item{}
	for _, it := range []*entity.Item{
		{Name: "torch", Description: "A wooden torch.", CanTake: true, Usable: true, Effect: entity.Effect{Kind: entity.EffectTorch}},
		{Name: "gold coins", Description: "Shiny.", CanTake: true, Stackable: true, GoldValue: 1},
		{Name: "lockpick", Description: "A thin pick.", CanTake: true},
		{Name: "dented helmet", Description: "Dented.", Refusal: "The helmets are rusted together."},
		{Name: "coin purse", Description: "A small purse.", CanTake: true},
		{Name: "fruit bowl", Description: "Fruit."},
		{Name: "red apple", Description: "A perfect apple.", CanTake: true},
		{Name: "blue key", Description: "A sapphire key.", CanTake: true},
		{Name: "blue feather", Description: "A feather.", CanTake: true},
		{Name: "blue feather hand fan", Description: "A fan.", CanTake: true},
		{Name: "white king", Description: "A chess piece.", CanTake: true},
		{Name: "ornate compass", Description: "A compass.", CanTake: true, Usable: true, Effect: entity.Effect{Kind: entity.EffectCompass}},
		{Name: "super potion", Description: "Heals a lot.", CanTake: true, Usable: true, Effect: entity.Effect{Kind: entity.EffectHeal, Amount: 50}},
		{Name: "health potion", Description: "Heals.", CanTake: true, Usable: true, Effect: entity.Effect{Kind: entity.EffectHeal, Amount: 20}},
		{Name: "crystal", Description: "It hums.", CanTake: true},
		{Name: "lyre", Description: "The golden lyre.", CanTake: true},
	} {
		items[world.ItemKey(it.Name)] = it
	}

	return &world.Defs{
		Title:    "Labyrinth",
		Start:    "entrance",
		Victory:  "You won.",
		Treasure: "lyre",
		Items:    items,
		Monsters: map[string]entity.MonsterTemplate{
			"goblin": {ID: "goblin", Name: "Goblin", Kind: entity.KindGoblin, Health: 35, Attack: 8, Defense: 3},
		},
		NPCs: map[string]entity.NPCTemplate{
			"grebgela": {
				ID: "grebgela", Name: "Grebgela", Description: "A small green figure.", Health: 50, Defense: 5,
				Topics: map[string]entity.Topic{
					"default": {Lines: []string{"Welcome!"}},
					"compass": {Lines: []string{"Me lost me compass!"}, SetsFlag: state.FlagCompassQuest},
				},
				Shop: []entity.ShopEntry{
					{Item: items["super potion"], Price: 30},
					{Item: items["lockpick"], Price: 15},
				},
			},
		},
		Rooms: []world.RoomDef{
			{ID: "entrance", Name: "The Entrance", Description: "A gate.", Safe: true},
			{ID: "garden", Name: "The Garden of Grie", Description: "A ruined fountain.",
				Items: []world.Placement{{Item: "torch"}, {Item: "gold coins", Quantity: 3}}},
			{ID: "hall", Name: "Cluttered Hallway", Description: "Debris."},
			{ID: "armoury", Name: "Decrepit Hallway", Description: "Dust.",
				Items: []world.Placement{{Item: "dented helmet"}}},
			{ID: "grotto", Name: "Greb's Grotto", Description: "Junk.", NPCs: []string{"grebgela"},
				Items: []world.Placement{{Item: "fruit bowl"}}},
			{ID: "corridor", Name: "Narrow Corridor", Description: "A door with a hand."},
			{ID: "den", Name: "Mercurial Den", Description: "Crystals.", Items: []world.Placement{{Item: "crystal"}}},
			{ID: "vault", Name: "The Vault", Description: "An iron door."},
			{ID: "treasury", Name: "The Treasury", Description: "Gold.", Items: []world.Placement{{Item: "lyre"}}},
			{ID: "clearing", Name: "Clearing", Description: "A cabin."},
			{ID: "cabin", Name: "The Cabin", Description: "Inside."},
			{ID: "passage", Name: "Winding Passage", Description: "A slope."},
			{ID: "temple", Name: "The Forgotten Temple", Description: "Murals."},
			{ID: "chess", Name: "The Checkered Hall", Description: "Squares.", Detached: true},
			{ID: "lair", Name: "Goblin Lair", Description: "Bones.", Monsters: []string{"goblin"}},
		},
		Connections: []world.Connection{
			{From: "entrance", To: "garden", Dir: world.Forward},
			{From: "garden", To: "hall", Dir: world.Left, Lock: "true"},
			{From: "garden", To: "armoury", Dir: world.Right},
			{From: "garden", To: "corridor", Dir: world.Forward},
			{From: "armoury", To: "grotto", Dir: world.Forward, Lock: "blue feather"},
			{From: "corridor", To: "den", Dir: world.Forward, Lock: "rps"},
			{From: "hall", To: "vault", Dir: world.Forward},
			{From: "vault", To: "treasury", Dir: world.Forward, Lock: "vault_puzzle"},
			{From: "hall", To: "clearing", Dir: world.Left},
			{From: "clearing", To: "cabin", Dir: world.Forward, Lock: "inspect_cabin"},
			{From: "hall", To: "passage", Dir: world.Right},
			{From: "passage", To: "temple", Dir: world.Forward, OneWay: true},
			{From: "temple", To: "lair", Dir: world.Left},
		},
		Themes: map[string][]world.Theme{
			"den": {
				{Description: "Crystals.", Items: []world.Placement{{Item: "crystal"}}},
				{Description: "Red light.", Items: []world.Placement{{Item: "red apple"}}},
				{Description: "Blue light.", Items: []world.Placement{{Item: "blue key"}}},
			},
		},
		Encounters: world.Encounters{Monsters: []string{"goblin"}},
		Rewires: map[string]world.Rewire{
			"temple": {
				From:        "passage",
				Flag:        "templeRewired",
				Description: "The murals shift.",
				Exits: []world.Link{
					{Dir: world.Back, To: "garden"},
					{Dir: world.Forward, To: "chess", Lock: "white_king", Return: world.Back},
					{Dir: world.Left, To: "lair"},
				},
			},
		},
	}
}

type fixture struct {
	h *Handler
	s *state.Session
	r *rng.Scripted
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w, err := world.Build(testDefs())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p, err := entity.NewPlayer("")
	if err != nil {
		t.Fatal(err)
	}
	r := rng.NewScripted()
	return &fixture{h: New(battle.New(nil)), s: state.New(w, p, r, nil), r: r}
}

func (f *fixture) do(verb, obj string) string {
	return f.h.Process(f.s, verb, obj)
}

// teleport drops the player in a room without triggering arrival.
func (f *fixture) teleport(id string) {
	f.s.Enter(f.s.World.Room(id))
}

func (f *fixture) give(name string, qty int) {
	it, _ := f.s.World.Item(name)
	f.s.Player.Inventory.Add(it, qty)
}

func outputContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Errorf("expected output to contain %q, got:\n%s", want, out)
	}
}

func TestProcess_UnknownVerb(t *testing.T) {
	f := newFixture(t)
	if out := f.do("dance", ""); out != MsgUnknown {
		t.Errorf("got %q", out)
	}
}

func TestMove_DescribesGarden(t *testing.T) {
	f := newFixture(t)
	out := f.do("go", "forward")
	want := "You move forward.\n\nThe Garden of Grie\nA ruined fountain.\n\nYou see: torch, gold coins (x3)\n\nExits: back, left (locked), right, forward"
	if out != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}
	if f.s.Current.ID != "garden" || len(f.s.History) != 1 {
		t.Errorf("expected garden with one history entry, got %s/%d", f.s.Current.ID, len(f.s.History))
	}
}

func TestMove_DirectionVerbAndBack(t *testing.T) {
	f := newFixture(t)
	f.do("forward", "")
	out := f.do("back", "")
	outputContains(t, out, "You go back.\n\nThe Entrance")
	if f.s.Current.ID != "entrance" {
		t.Errorf("expected entrance, got %s", f.s.Current.ID)
	}
	if out := f.do("back", ""); out != "You can't go back any further." {
		t.Errorf("got %q", out)
	}
}

func TestMove_Errors(t *testing.T) {
	f := newFixture(t)
	if out := f.do("go", "up"); out != "You can only move in these directions: forward, back, left, right." {
		t.Errorf("got %q", out)
	}
	if out := f.do("go", "left"); out != "You cannot go left from here." {
		t.Errorf("got %q", out)
	}
	f.do("forward", "")
	if out := f.do("left", ""); out != "That way is locked." {
		t.Errorf("got %q", out)
	}
	if f.s.Current.ID != "garden" {
		t.Error("a locked exit must not move the player")
	}
}

func TestPick(t *testing.T) {
	f := newFixture(t)
	f.do("forward", "")
	if out := f.do("pick", "left"); out != "You don't have any lock picks!" {
		t.Errorf("got %q", out)
	}
	f.give("lockpick", 1)
	if out := f.do("pick", ""); out != "Which exit do you want to try and pick?" {
		t.Errorf("got %q", out)
	}
	if out := f.do("pick", "right"); out != "That exit isn't locked." {
		t.Errorf("got %q", out)
	}
	if out := f.do("pick", "left"); out != "You've unlocked the exit to the Cluttered Hallway!" {
		t.Errorf("got %q", out)
	}
	outputContains(t, f.do("left", ""), "Cluttered Hallway")
}

func TestPick_OnlyPlainLocks(t *testing.T) {
	f := newFixture(t)
	f.teleport("corridor")
	f.give("lockpick", 1)
	outputContains(t, f.do("pick", "forward"), "not the ordinary kind")
	if !f.s.Current.IsLocked(world.Forward) {
		t.Error("puzzle lock must survive lock picks")
	}
}

func TestTake_AllGoldCredits(t *testing.T) {
	f := newFixture(t)
	f.teleport("garden")
	if out := f.do("take", "all gold coins"); out != "You pick up 3 gold. You now have 28 gold." {
		t.Errorf("got %q", out)
	}
	if f.s.Current.Items.Has("gold coins") {
		t.Error("coins should be gone from the room")
	}
	if f.s.Player.Inventory.Has("gold coins") {
		t.Error("currency never enters the inventory")
	}
}

func TestTake_CountsEveryUnit(t *testing.T) {
	f := newFixture(t)
	f.teleport("garden")
	it, _ := f.s.World.Item("super potion")
	f.s.Current.Items.Add(it, 4)

	if out := f.do("take", "2 super potion"); out != "You take 2 super potion." {
		t.Errorf("got %q", out)
	}
	if n := f.s.Player.Inventory.Count("super potion"); n != 2 {
		t.Errorf("expected 2 potions carried, got %d", n)
	}
	if out := f.do("take", "all super potion"); out != "You take 2 super potion." {
		t.Errorf("got %q", out)
	}
	if f.s.Current.Items.Has("super potion") || f.s.Player.Inventory.Count("super potion") != 4 {
		t.Errorf("room %v, carried %d", f.s.Current.Items.Labels(), f.s.Player.Inventory.Count("super potion"))
	}
}

func TestTake_Errors(t *testing.T) {
	f := newFixture(t)
	f.teleport("garden")
	tests := []struct {
		obj, want string
	}{
		{"", "What do you want to take?"},
		{"0 torch", "You need to specify a positive quantity."},
		{"sword", "There is no sword here."},
	}
	for _, tt := range tests {
		if out := f.do("take", tt.obj); out != tt.want {
			t.Errorf("take %q: got %q, want %q", tt.obj, out, tt.want)
		}
	}
	f.teleport("armoury")
	if out := f.do("take", "helmet"); out != "The helmets are rusted together." {
		t.Errorf("got %q", out)
	}
}

func TestTakeDrop_RoundTrip(t *testing.T) {
	f := newFixture(t)
	f.teleport("garden")
	if out := f.do("take", "torch"); out != "You take the torch." {
		t.Errorf("got %q", out)
	}
	if f.s.Current.Items.Has("torch") || !f.s.Player.Inventory.Has("torch") {
		t.Fatal("torch should have moved to the inventory")
	}
	if out := f.do("drop", "torch"); out != "You drop the torch." {
		t.Errorf("got %q", out)
	}
	if !f.s.Current.Items.Has("torch") || f.s.Player.Inventory.Has("torch") {
		t.Error("torch should be back in the room")
	}
	if out := f.do("drop", "torch"); out != "You don't have a torch to drop." {
		t.Errorf("got %q", out)
	}
}

func TestUse_AppliesEffectAndConsumes(t *testing.T) {
	f := newFixture(t)
	f.give("health potion", 1)
	f.s.Player.Health = 50
	outputContains(t, f.do("use", "health potion"), "You recover 20 health. (70/100)")
	if f.s.Player.Inventory.Has("health potion") {
		t.Error("potion should be consumed")
	}
	if out := f.do("use", "health potion"); out != "You don't have a health potion." {
		t.Errorf("got %q", out)
	}
}

func TestUse_TorchKeepsItem(t *testing.T) {
	f := newFixture(t)
	f.give("torch", 1)
	f.do("use", "torch")
	if !f.s.Player.Inventory.Has("torch") {
		t.Error("torch is not consumed")
	}
}

func TestInspect(t *testing.T) {
	f := newFixture(t)
	f.teleport("grotto")
	if out := f.do("inspect", "grebgela"); out != "A small green figure." {
		t.Errorf("got %q", out)
	}
	if out := f.do("inspect", "throne"); out != "You don't see a throne here." {
		t.Errorf("got %q", out)
	}
	if out := f.do("inspect", ""); out != "What do you want to inspect?" {
		t.Errorf("got %q", out)
	}
	if out := f.do("look", "bowl"); out != "To examine something specific, try 'inspect bowl'." {
		t.Errorf("got %q", out)
	}
}

func TestInspect_HelmetRevealsOnce(t *testing.T) {
	f := newFixture(t)
	f.teleport("armoury")
	outputContains(t, f.do("inspect", "dented helmet"), "coin purse")
	if n := f.s.Current.Items.Count("coin purse"); n != 1 {
		t.Fatalf("expected one coin purse, got %d", n)
	}
	f.do("inspect", "dented helmet")
	if n := f.s.Current.Items.Count("coin purse"); n != 1 {
		t.Errorf("second inspect must not reveal again, got %d", n)
	}

	outputContains(t, f.do("inspect", "coin purse"), "Ten gold coins")
	if f.s.Current.Items.Has("coin purse") {
		t.Error("purse should be replaced")
	}
	if n := f.s.Current.Items.Count("gold coins"); n != 10 {
		t.Errorf("expected 10 coins, got %d", n)
	}
}

func TestInspect_FanDropsFeather(t *testing.T) {
	f := newFixture(t)
	f.teleport("armoury")
	it, _ := f.s.World.Item("blue feather hand fan")
	f.s.Current.Items.Add(it, 1)
	f.do("inspect", "blue feather hand fan")
	if !f.s.Current.Items.Has("blue feather") || f.s.Current.Items.Has("blue feather hand fan") {
		t.Errorf("expected the fan to become a feather, got %v", f.s.Current.Items.Labels())
	}
}

func TestInspect_CabinUnlocks(t *testing.T) {
	f := newFixture(t)
	f.teleport("clearing")
	outputContains(t, f.do("forward", ""), "take a closer look at the cabin")
	outputContains(t, f.do("inspect", "cabin"), "scrapes open")
	outputContains(t, f.do("forward", ""), "The Cabin")
	outputContains(t, f.do("inspect", "cabin"), "Rough log walls")
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	f.teleport("grotto")
	want := "You search the area carefully...\n\nYou find: fruit bowl\nYou see: Grebgela"
	if out := f.do("search", ""); out != want {
		t.Errorf("got %q", out)
	}
	f.teleport("hall")
	outputContains(t, f.do("search", ""), "You find nothing of interest.")
}

func TestFeatherLock(t *testing.T) {
	f := newFixture(t)
	f.teleport("armoury")
	outputContains(t, f.do("forward", ""), "fierce wind")
	if f.s.Current.ID != "armoury" {
		t.Fatal("should not pass without the feather")
	}
	f.give("blue feather", 1)
	outputContains(t, f.do("forward", ""), "Greb's Grotto")
	if !f.s.World.Room("armoury").IsLocked(world.Forward) {
		t.Error("item locks stay in place")
	}
}

func TestShop(t *testing.T) {
	f := newFixture(t)
	f.teleport("grotto")
	f.s.Player.Gold = 10

	out := f.do("list", "")
	outputContains(t, out, "--- Grebgela's Wares ---")
	outputContains(t, out, "- super potion (30 gold): Heals a lot.")
	outputContains(t, out, "You have 10 gold.")

	if out := f.do("buy", "super potion"); out != "You don't have enough gold. You need 30 gold, but you only have 10." {
		t.Errorf("got %q", out)
	}
	if out := f.do("buy", "sword"); out != "Grebgela doesn't have a \"sword\" for sale." {
		t.Errorf("got %q", out)
	}

	f.s.Player.Gold = 40
	if out := f.do("buy", "lockpick"); out != "You bought the lockpick for 15 gold. You have 25 gold left." {
		t.Errorf("got %q", out)
	}
	if !f.s.Player.Inventory.Has("lockpick") {
		t.Error("lockpick should be in the inventory")
	}
	npc, _ := f.s.Current.FindNPC("grebgela")
	if len(npc.Shop) != 1 {
		t.Errorf("expected 1 entry left, got %d", len(npc.Shop))
	}
	outputContains(t, f.do("buy", "lockpick"), "doesn't have")
}

func TestShop_NoShopkeeper(t *testing.T) {
	f := newFixture(t)
	if out := f.do("list", ""); out != "There is no one here to buy from." {
		t.Errorf("got %q", out)
	}
	if out := f.do("buy", "potion"); out != "There is no one here to buy from." {
		t.Errorf("got %q", out)
	}
}

func TestTalk_SetsQuestFlag(t *testing.T) {
	f := newFixture(t)
	f.teleport("grotto")
	if out := f.do("talk", "to grebgela"); out != `Grebgela says: "Welcome!"` {
		t.Errorf("got %q", out)
	}
	f.do("talk", "grebgela about compass")
	if !f.s.Flag(state.FlagCompassQuest) {
		t.Error("expected the compass quest flag")
	}
	if out := f.do("talk", "bob"); out != "There is no one named 'bob' here to talk to." {
		t.Errorf("got %q", out)
	}
	want := "Grebgela says: \"Welcome!\"\n\n(You could ask Grebgela about: compass.)"
	if out := f.do("talk", "grebgela about weather"); out != want {
		t.Errorf("unknown topic: got %q", out)
	}
}

func TestCompassQuest(t *testing.T) {
	f := newFixture(t)
	f.teleport("grotto")
	f.give("ornate compass", 1)
	f.do("talk", "grebgela about compass")
	gold := f.s.Player.Gold

	outputContains(t, f.do("use", "ornate compass"), "Me compass!")
	if f.s.Player.Gold != gold+40 {
		t.Errorf("expected +40 gold, got %d", f.s.Player.Gold-gold)
	}
	if f.s.Player.Inventory.Has("ornate compass") || !f.s.Player.Inventory.Has("super potion") {
		t.Error("expected the compass traded for a super potion")
	}
	if f.s.Flag(state.FlagCompassQuest) {
		t.Error("quest flag should be cleared")
	}
}

func TestRPS(t *testing.T) {
	f := newFixture(t)
	f.teleport("corridor")
	f.do("forward", "")
	if f.s.Interaction != state.InteractionRPSPrompt {
		t.Fatalf("expected rps prompt, got %v", f.s.Interaction)
	}

	f.r.Ints(0) // rock
	outputContains(t, f.do("play", "rock"), "It's a draw!")
	f.r.Ints(1) // paper
	outputContains(t, f.do("play", "rock"), "You lose!")
	f.r.Ints(2) // scissors
	out := f.do("play", "rock")
	outputContains(t, out, "projecting an image of a scissors")
	outputContains(t, out, MsgRPSWin)
	if f.s.Current.IsLocked(world.Forward) {
		t.Error("door should be unlocked")
	}
}

func TestPlay_Errors(t *testing.T) {
	f := newFixture(t)
	if out := f.do("play", "lizard"); out != "You can't play 'lizard'. Try rock, paper, or scissors." {
		t.Errorf("got %q", out)
	}
	if out := f.do("play", "rock"); out != "There's nothing here to play a game with." {
		t.Errorf("got %q", out)
	}
}

func TestVaultPuzzle(t *testing.T) {
	f := newFixture(t)
	f.teleport("vault")
	f.give("blue key", 1)
	f.give("red apple", 1)

	outputContains(t, f.do("forward", ""), "sealed")
	outputContains(t, f.do("use", "blue key"), "waiting for something else")
	if !f.s.Player.Inventory.Has("blue key") {
		t.Fatal("key should be kept on a failed attempt")
	}

	f.do("use", "red apple")
	if !f.s.Flag(state.FlagVaultAppleUsed) || f.s.Player.Inventory.Has("red apple") {
		t.Fatal("apple should be placed")
	}
	outputContains(t, f.do("use", "blue key"), "You've unlocked the exit to the The Treasury!")
	if f.s.Current.Description != vaultOpened {
		t.Error("vault description should change")
	}
	outputContains(t, f.do("forward", ""), "The Treasury")
}

func TestTreasure_EmitsWon(t *testing.T) {
	f := newFixture(t)
	f.teleport("treasury")
	var got []events.Event
	f.s.Events.Subscribe(events.Won, func(e events.Event) { got = append(got, e) })

	f.do("take", "lyre")
	if len(got) != 1 || got[0].Message != "You won." {
		t.Fatalf("expected one win event, got %+v", got)
	}
	if !f.s.Player.Inventory.Has("lyre") {
		t.Error("the lyre should be carried")
	}
}

func TestCrystal_ActivatesDen(t *testing.T) {
	f := newFixture(t)
	f.teleport("den")
	outputContains(t, f.do("take", "crystal"), "flicker and shift")
	if !f.s.Flag(state.FlagDenActive) || f.s.Counter(state.CounterDenState) != 0 {
		t.Fatal("expected the den to be active at theme 0")
	}

	f.teleport("corridor")
	f.s.Current.ClearLock(world.Forward)
	f.r.Ints(0, 2) // 0 repeats the last theme and is resampled
	outputContains(t, f.do("forward", ""), "Blue light.")
	if f.s.Counter(state.CounterDenState) != 2 {
		t.Errorf("expected theme 2, got %d", f.s.Counter(state.CounterDenState))
	}
	if !f.s.Current.Items.Has("blue key") {
		t.Error("theme items should be placed")
	}
}

func TestTempleRewire(t *testing.T) {
	f := newFixture(t)
	f.teleport("passage")
	out := f.do("forward", "")
	outputContains(t, out, "The murals shift.")
	outputContains(t, out, "Exits: back, forward (locked), left")
	if !f.s.Flag("templeRewired") {
		t.Error("rewire flag should be set")
	}
	temple := f.s.Current
	if to, _ := temple.Exit(world.Back); to != "garden" {
		t.Errorf("expected back -> garden, got %q", to)
	}

	f.give("white king", 1)
	outputContains(t, f.do("use", "white king"), "The Checkered Hall")
	if temple.IsLocked(world.Forward) {
		t.Error("chess door should be open")
	}
	if to, _ := f.s.World.Room("chess").Exit(world.Back); to != "temple" {
		t.Errorf("expected chess back -> temple, got %q", to)
	}
}

func TestEncounter(t *testing.T) {
	f := newFixture(t)
	f.s.EncounterChance = 0
	f.do("forward", "")
	if len(f.s.Current.Monsters) != 0 {
		t.Fatal("no encounter with chance 0")
	}

	f = newFixture(t)
	f.s.EncounterChance = 1
	f.r.Floats(0)
	outputContains(t, f.do("forward", ""), "A Goblin emerges from the shadows!")
	if len(f.s.Current.Monsters) != 1 {
		t.Error("expected the goblin in the garden")
	}
}

func TestEncounter_SkipsSafeRooms(t *testing.T) {
	f := newFixture(t)
	f.s.EncounterChance = 1
	f.teleport("garden")
	f.do("back", "")
	if len(f.s.Current.Monsters) != 0 {
		t.Error("safe rooms never spawn monsters")
	}
}

func TestAttack_StartsBattle(t *testing.T) {
	f := newFixture(t)
	if out := f.do("attack", ""); out != "There is nothing to fight here, or no specific target mentioned." {
		t.Errorf("got %q", out)
	}
	f.teleport("lair")
	outputContains(t, f.do("attack", "gob"), "=== BATTLE BEGINS ===\nYou face the Goblin!")
	if !f.h.battle.InBattle {
		t.Error("expected battle mode")
	}
}

func TestDisplay(t *testing.T) {
	f := newFixture(t)
	want := "--- Inventory ---\n\nYour inventory is empty.\n\nGold: 25"
	if out := f.do("inv", ""); out != want {
		t.Errorf("got %q", out)
	}
	f.give("torch", 1)
	outputContains(t, f.do("i", ""), "You are carrying:\n- torch: A wooden torch.")

	outputContains(t, f.do("stats", ""), "Health: 100 / 100")
	outputContains(t, f.do("st", ""), "Experience: 0 / 100")

	if out := f.do("map", ""); out != "--- Location ---\n\nYour current location is the The Entrance. Exits: forward to The Garden of Grie" {
		t.Errorf("got %q", out)
	}
	help := f.do("help", "")
	outputContains(t, help, "--- Help: Available Commands ---")
	outputContains(t, help, "All words understood: ")
	for _, v := range f.h.Verbs() {
		outputContains(t, help, v)
	}
}

func TestVerbs_IncludesDirections(t *testing.T) {
	f := newFixture(t)
	verbs := strings.Join(f.h.Verbs(), " ")
	for _, v := range []string{"forward", "back", "left", "right", "take", "buy"} {
		if !strings.Contains(verbs, v) {
			t.Errorf("missing verb %q", v)
		}
	}
}
