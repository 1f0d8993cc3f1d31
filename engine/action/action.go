// Package action is the command interpreter. It maps a verb and its object
// text onto a mutation of the session and returns the text to show.
// Bad input never fails; it always resolves to a message.
package action

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/lyre/engine/battle"
	"github.com/nathoo/lyre/engine/dialogue"
	"github.com/nathoo/lyre/engine/effects"
	"github.com/nathoo/lyre/engine/entity"
	"github.com/nathoo/lyre/engine/parser"
	"github.com/nathoo/lyre/engine/resolve"
	"github.com/nathoo/lyre/engine/rng"
	"github.com/nathoo/lyre/engine/state"
	"github.com/nathoo/lyre/engine/world"
)

// MsgUnknown is returned for verbs not in the table.
const MsgUnknown = "I don't understand that command. Try 'help' to see a list of available commands."

type verbFunc func(h *Handler, s *state.Session, obj string) string

// Handler dispatches verbs. It starts battles on the shared battle engine.
type Handler struct {
	battle *battle.Engine
	verbs  map[string]verbFunc
}

// New creates a handler bound to the battle engine.
func New(b *battle.Engine) *Handler {
	h := &Handler{battle: b}
	h.verbs = map[string]verbFunc{
		"go":        (*Handler).move,
		"look":      (*Handler).look,
		"inspect":   (*Handler).inspect,
		"search":    (*Handler).search,
		"take":      (*Handler).take,
		"use":       (*Handler).use,
		"drop":      (*Handler).drop,
		"attack":    (*Handler).attack,
		"fight":     (*Handler).attack,
		"battle":    (*Handler).attack,
		"flee":      (*Handler).flee,
		"pick":      (*Handler).pick,
		"play":      (*Handler).play,
		"talk":      (*Handler).talk,
		"list":      (*Handler).list,
		"buy":       (*Handler).buy,
		"inventory": (*Handler).inventory,
		"inv":       (*Handler).inventory,
		"i":         (*Handler).inventory,
		"stats":     (*Handler).stats,
		"status":    (*Handler).stats,
		"st":        (*Handler).stats,
		"map":       (*Handler).showMap,
		"help":      (*Handler).help,
	}
	for _, d := range world.Directions {
		dir := string(d)
		h.verbs[dir] = func(h *Handler, s *state.Session, _ string) string {
			return h.move(s, dir)
		}
	}
	return h
}

// Process runs one command.
func (h *Handler) Process(s *state.Session, verb, obj string) string {
	fn, ok := h.verbs[verb]
	if !ok {
		return MsgUnknown
	}
	return fn(h, s, strings.TrimSpace(obj))
}

// Verbs returns every registered verb, sorted.
func (h *Handler) Verbs() []string {
	out := make([]string, 0, len(h.verbs))
	for v := range h.verbs {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (h *Handler) move(s *state.Session, dirText string) string {
	dir, ok := world.ParseDirection(dirText)
	if !ok {
		return "You can only move in these directions: forward, back, left, right."
	}

	prev := s.Current
	if dir == world.Back {
		if !s.Back() {
			return "You can't go back any further."
		}
		return h.arrive(s, prev, "You go back.")
	}

	to, ok := s.Current.Exit(dir)
	if !ok {
		return fmt.Sprintf("You cannot go %s from here.", dir)
	}
	if lock, locked := s.Current.Lock(dir); locked {
		if msg, pass := h.checkLock(s, lock); !pass {
			return msg
		}
	}
	dest := s.World.Room(to)
	if dest == nil {
		s.Log.Printf("move: room %q exit %s points to missing room %q", s.Current.ID, dir, to)
		return fmt.Sprintf("You cannot go %s from here.", dir)
	}
	s.Enter(dest)
	return h.arrive(s, prev, fmt.Sprintf("You move %s.", dir))
}

// arrive runs the post-movement triggers in order: room theme, rewire,
// random encounter.
func (h *Handler) arrive(s *state.Session, prev *world.Room, ack string) string {
	h.retheme(s)
	h.rewire(s, prev)
	text := ack + "\n\n" + s.Describe()
	if enc := h.encounter(s); enc != "" {
		text += "\n\n" + enc
	}
	return text
}

func (h *Handler) retheme(s *state.Session) {
	id := s.Current.ID
	if !s.Flag(state.FlagDenActive) || len(s.World.Themes[id]) == 0 {
		return
	}
	next, ok := s.World.Retheme(id, s.Counter(state.CounterDenState), s.Roller)
	if ok {
		s.SetCounter(state.CounterDenState, next)
		s.Log.Printf("room %s: theme %d", id, next)
	}
}

func (h *Handler) rewire(s *state.Session, prev *world.Room) {
	rw, ok := s.World.Rewires[s.Current.ID]
	if !ok || prev == nil || prev.ID != rw.From || s.Flag(rw.Flag) {
		return
	}
	s.SetFlag(rw.Flag, true)
	if err := s.World.ApplyRewire(s.Current.ID, rw); err != nil {
		s.Log.Printf("rewire %s: %v", s.Current.ID, err)
		return
	}
	s.Log.Printf("room %s: rewired on entry from %s", s.Current.ID, prev.ID)
}

func (h *Handler) encounter(s *state.Session) string {
	table := s.World.Encounters.Monsters
	if s.EncounterChance <= 0 || len(table) == 0 {
		return ""
	}
	if s.World.IsSafe(s.Current.ID) || s.Current.Occupied() {
		return ""
	}
	if !rng.Chance(s.Roller, s.EncounterChance) {
		return ""
	}
	id := rng.Pick(s.Roller, table)
	m, err := s.World.Spawn(id)
	if err != nil {
		s.Log.Printf("encounter: %v", err)
		return ""
	}
	s.Current.AddMonster(m)
	s.Log.Printf("encounter: %s in %s", m.Name, s.Current.ID)
	return fmt.Sprintf("A %s emerges from the shadows!", m.Name)
}

func (h *Handler) look(s *state.Session, target string) string {
	if target == "" {
		return s.Describe()
	}
	return fmt.Sprintf("To examine something specific, try 'inspect %s'.", target)
}

func (h *Handler) inspect(s *state.Session, target string) string {
	if target == "" {
		return "What do you want to inspect?"
	}
	if stack, ok := s.Current.Items.Find(target); ok {
		if fn, ok := inspectSpecials[strings.ToLower(stack.Item.Name)]; ok {
			return fn(s, stack)
		}
		return stack.Item.Description
	}
	if fn, ok := scenery[target]; ok {
		if text, handled := fn(s); handled {
			return text
		}
	}
	if m, ok := s.Current.FindMonster(target); ok {
		return m.Description
	}
	if n, ok := s.Current.FindNPC(target); ok {
		return n.Description
	}
	return fmt.Sprintf("You don't see a %s here.", target)
}

func (h *Handler) search(s *state.Session, _ string) string {
	room := s.Current
	var b strings.Builder
	b.WriteString("You search the area carefully...\n")

	if room.Items.Len() > 0 {
		b.WriteString("\nYou find: " + strings.Join(room.Items.Labels(), ", "))
	}
	if len(room.Monsters) > 0 {
		names := make([]string, 0, len(room.Monsters))
		for _, m := range room.Monsters {
			names = append(names, m.Name)
		}
		b.WriteString("\nYou notice: " + strings.Join(names, ", "))
	}
	if len(room.NPCs) > 0 {
		names := make([]string, 0, len(room.NPCs))
		for _, n := range room.NPCs {
			names = append(names, n.Name)
		}
		b.WriteString("\nYou see: " + strings.Join(names, ", "))
	}
	if room.Items.Len() == 0 && !room.Occupied() {
		b.WriteString("\nYou find nothing of interest.")
	}
	return b.String()
}

func (h *Handler) take(s *state.Session, obj string) string {
	qty, name, msg := parser.ParseQuantity(obj)
	if msg != "" {
		return msg
	}
	stack, ok := s.Current.Items.Find(name)
	if !ok {
		return fmt.Sprintf("There is no %s here.", name)
	}
	item := stack.Item
	if !item.CanTake {
		if item.Refusal != "" {
			return item.Refusal
		}
		return fmt.Sprintf("You cannot take the %s.", item.Name)
	}
	if resolve.Equal(item.Name, s.World.Treasure) {
		return h.takeTreasure(s, stack)
	}
	if fn, ok := takeSpecials[strings.ToLower(item.Name)]; ok {
		return fn(s, stack)
	}

	if qty == parser.All {
		qty = s.Current.Items.Count(item.Name)
	}
	moved := s.Current.Items.TakeNamed(item.Name, qty)

	if item.IsCurrency() {
		gold := moved * item.GoldValue
		s.Player.Gold += gold
		return fmt.Sprintf("You pick up %d gold. You now have %d gold.", gold, s.Player.Gold)
	}
	s.Player.Inventory.Add(item, moved)
	if moved > 1 {
		return fmt.Sprintf("You take %d %s.", moved, item.Name)
	}
	return fmt.Sprintf("You take the %s.", item.Name)
}

func (h *Handler) use(s *state.Session, obj string) string {
	if obj == "" {
		return "What do you want to use?"
	}
	stack, ok := s.Player.Inventory.Find(obj)
	if !ok {
		return fmt.Sprintf("You don't have a %s.", obj)
	}
	if fn, ok := usePuzzles[strings.ToLower(stack.Item.Name)]; ok {
		if text, handled := fn(s, stack); handled {
			return text
		}
	}
	out := effects.Apply(stack.Item, s.Player, s.Current.Name, s.Roller)
	if out.Consumed {
		s.Player.Inventory.Take(stack, 1)
	}
	return out.Text
}

func (h *Handler) drop(s *state.Session, obj string) string {
	if obj == "" {
		return "What do you want to drop?"
	}
	stack, ok := s.Player.Inventory.Find(obj)
	if !ok {
		return fmt.Sprintf("You don't have a %s to drop.", obj)
	}
	item := stack.Item
	s.Player.Inventory.Take(stack, 1)
	s.Current.Items.Add(item, 1)
	return fmt.Sprintf("You drop the %s.", item.Name)
}

func (h *Handler) attack(s *state.Session, target string) string {
	const none = "There is nothing to fight here, or no specific target mentioned."
	if len(s.Current.Monsters) == 0 {
		return none
	}
	m := s.Current.Monsters[0]
	if target != "" {
		found, ok := s.Current.FindMonster(target)
		if !ok {
			return none
		}
		m = found
	}
	return h.battle.Start(s.Player, m, s.Current)
}

func (h *Handler) flee(*state.Session, string) string {
	return "You look around nervously, but there is no immediate danger to flee from."
}

func (h *Handler) pick(s *state.Session, obj string) string {
	if obj == "" {
		return "Which exit do you want to try and pick?"
	}
	if !s.Player.Inventory.Has("lockpick") {
		return "You don't have any lock picks!"
	}
	dir, ok := world.ParseDirection(obj)
	if !ok {
		return "There's no exit in that direction."
	}
	if _, ok := s.Current.Exit(dir); !ok {
		return "There's no exit in that direction."
	}
	lock, locked := s.Current.Lock(dir)
	if !locked {
		return "That exit isn't locked."
	}
	if lock.Kind != world.LockPlain {
		return "Your lock picks find nothing to work on. This lock is not the ordinary kind."
	}
	return s.Current.Unlock(dir, s.World)
}

var rpsChoices = []string{"rock", "paper", "scissors"}

var rpsBeats = map[string]string{
	"rock":     "scissors",
	"paper":    "rock",
	"scissors": "paper",
}

// MsgRPSWin marks a won round; the controller clears the prompt on it.
const MsgRPSWin = "You win! With a grinding sound, the lock on the door retracts."

func (h *Handler) play(s *state.Session, choice string) string {
	if choice == "" {
		return "What do you want to play? Try 'play rock', 'play paper', or 'play scissors'."
	}
	if _, ok := rpsBeats[choice]; !ok {
		return fmt.Sprintf("You can't play '%s'. Try rock, paper, or scissors.", choice)
	}
	dir, ok := s.Current.LockedDirection(world.LockRPS)
	if !ok {
		return "There's nothing here to play a game with."
	}

	door := rng.Pick(s.Roller, rpsChoices)
	text := fmt.Sprintf("You play %s. The door seems to respond, projecting an image of a %s.\n\n", choice, door)
	switch {
	case choice == door:
		text += "It's a draw! The door remains locked. Try again."
	case rpsBeats[choice] == door:
		s.Current.Unlock(dir, s.World)
		text += MsgRPSWin
	default:
		text += "You lose! The door remains stubbornly shut."
	}
	return text
}

func (h *Handler) talk(s *state.Session, obj string) string {
	if obj == "" {
		return "Who do you want to talk to?"
	}
	name, topic := parser.ParseTalk(obj)
	npc, ok := s.Current.FindNPC(name)
	if !ok {
		return fmt.Sprintf("There is no one named '%s' here to talk to.", name)
	}
	text, flag := dialogue.Speak(npc, topic, s.Roller)
	if flag != "" {
		s.SetFlag(flag, true)
	}
	if _, known := npc.Topics[strings.ToLower(topic)]; !known && topic != parser.DefaultTopic {
		if hint := topicHint(npc); hint != "" {
			text += "\n\n" + hint
		}
	}
	return text
}

// topicHint lists what an NPC can be asked about, default excluded.
func topicHint(npc *entity.NPC) string {
	var named []string
	for _, t := range dialogue.Topics(npc) {
		if t != parser.DefaultTopic {
			named = append(named, t)
		}
	}
	if len(named) == 0 {
		return ""
	}
	return fmt.Sprintf("(You could ask %s about: %s.)", npc.Name, strings.Join(named, ", "))
}

func (h *Handler) list(s *state.Session, _ string) string {
	npc, ok := s.Current.Shopkeeper()
	if !ok {
		return "There is no one here to buy from."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s's Wares ---\n\n", npc.Name)
	for _, e := range npc.Shop {
		fmt.Fprintf(&b, "- %s (%d gold): %s\n", e.Item.Name, e.Price, e.Item.Description)
	}
	fmt.Fprintf(&b, "\nYou have %d gold.", s.Player.Gold)
	b.WriteString("\n(Type 'buy [item name]' to purchase)")
	return b.String()
}

func (h *Handler) buy(s *state.Session, obj string) string {
	if obj == "" {
		return "What would you like to buy?"
	}
	npc, ok := s.Current.Shopkeeper()
	if !ok {
		return "There is no one here to buy from."
	}
	_, idx, ok := resolve.Find(obj, npc.Shop, func(e entity.ShopEntry) string { return e.Item.Name })
	if !ok {
		return fmt.Sprintf("%s doesn't have a \"%s\" for sale.", npc.Name, obj)
	}
	entry := npc.Shop[idx]
	if s.Player.Gold < entry.Price {
		return fmt.Sprintf("You don't have enough gold. You need %d gold, but you only have %d.", entry.Price, s.Player.Gold)
	}
	s.Player.Gold -= entry.Price
	s.Player.Inventory.Add(entry.Item, 1)
	npc.RemoveShopEntry(idx)
	return fmt.Sprintf("You bought the %s for %d gold. You have %d gold left.", entry.Item.Name, entry.Price, s.Player.Gold)
}
