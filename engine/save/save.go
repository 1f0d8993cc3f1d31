// Package save implements snapshots of a whole game and the stores that
// keep them. A snapshot holds the mutable state only; the immutable world
// definitions are rebuilt from the game's Defs on restore.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nathoo/lyre/engine"
	"github.com/nathoo/lyre/engine/entity"
	"github.com/nathoo/lyre/engine/rng"
	"github.com/nathoo/lyre/engine/state"
	"github.com/nathoo/lyre/engine/world"
)

// Version is the snapshot format version.
const Version = 1

// ErrInBattle is returned when saving mid-fight.
var ErrInBattle = errors.New("cannot save during a battle")

// Stack is a serialized item stack.
type Stack struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// Exit is a serialized exit and its lock token.
type Exit struct {
	Dir  string `json:"dir"`
	To   string `json:"to"`
	Lock string `json:"lock,omitempty"`
}

// Monster is a live monster, recreated from its template.
type Monster struct {
	Template  string `json:"template"`
	Health    int    `json:"health"`
	MaxHealth int    `json:"max_health"`
	Attack    int    `json:"attack"`
	Defense   int    `json:"defense"`
}

// Offer is one remaining shop entry.
type Offer struct {
	Item  string `json:"item"`
	Price int    `json:"price"`
}

// NPC is the mutable part of an NPC.
type NPC struct {
	ID     string         `json:"id"`
	Shop   []Offer        `json:"shop"`
	Cursor map[string]int `json:"cursor,omitempty"`
}

// Room is the mutable state of a room.
type Room struct {
	Description string    `json:"description"`
	Visited     bool      `json:"visited,omitempty"`
	Exits       []Exit    `json:"exits"`
	Items       []Stack   `json:"items,omitempty"`
	Monsters    []Monster `json:"monsters,omitempty"`
	NPCs        []NPC     `json:"npcs,omitempty"`
}

// Player is the serialized player.
type Player struct {
	Name       string  `json:"name"`
	Archetype  string  `json:"archetype,omitempty"`
	Level      int     `json:"level"`
	Experience int     `json:"experience"`
	Health     int     `json:"health"`
	MaxHealth  int     `json:"max_health"`
	Attack     int     `json:"attack"`
	Defense    int     `json:"defense"`
	Gold       int     `json:"gold"`
	Inventory  []Stack `json:"inventory"`
}

// Snapshot is the whole mutable state of a game.
type Snapshot struct {
	ID          string          `json:"id"`
	Version     int             `json:"version"`
	Game        string          `json:"game"`
	SavedAt     time.Time       `json:"saved_at"`
	Phase       string          `json:"phase"`
	Seed        int64           `json:"rng_seed"`
	Position    int64           `json:"rng_position"`
	Current     string          `json:"current"`
	History     []string        `json:"history"`
	Player      Player          `json:"player"`
	Flags       map[string]bool `json:"flags"`
	Counters    map[string]int  `json:"counters"`
	Interaction string          `json:"interaction,omitempty"`
	Rooms       map[string]Room `json:"rooms"`
}

// Capture takes a snapshot of g.
func Capture(g *engine.Game) (*Snapshot, error) {
	if g.Battle.InBattle {
		return nil, ErrInBattle
	}
	s := g.Session
	snap := &Snapshot{
		ID:          uuid.NewString(),
		Version:     Version,
		Game:        s.World.Title,
		SavedAt:     time.Now().UTC(),
		Phase:       g.Phase.String(),
		Seed:        g.RNG.Seed(),
		Position:    g.RNG.Position(),
		Current:     s.Current.ID,
		Flags:       copyMap(s.Flags),
		Counters:    copyMap(s.Counters),
		Interaction: s.Interaction.String(),
		Rooms:       make(map[string]Room, len(s.World.Rooms)),
	}
	for _, r := range s.History {
		snap.History = append(snap.History, r.ID)
	}

	p := s.Player
	snap.Player = Player{
		Name:       p.Name,
		Archetype:  p.Archetype,
		Level:      p.Level,
		Experience: p.Experience,
		Health:     p.Health,
		MaxHealth:  p.MaxHealth,
		Attack:     p.Attack,
		Defense:    p.Defense,
		Gold:       p.Gold,
		Inventory:  stacks(&p.Inventory),
	}

	for id, r := range s.World.Rooms {
		snap.Rooms[id] = captureRoom(r)
	}
	return snap, nil
}

func captureRoom(r *world.Room) Room {
	rd := Room{
		Description: r.Description,
		Visited:     r.Visited,
		Exits:       []Exit{},
		Items:       stacks(&r.Items),
	}
	for _, d := range r.Exits() {
		to, _ := r.Exit(d)
		e := Exit{Dir: string(d), To: to}
		if l, ok := r.Lock(d); ok {
			e.Lock = l.Token()
		}
		rd.Exits = append(rd.Exits, e)
	}
	for _, m := range r.Monsters {
		rd.Monsters = append(rd.Monsters, Monster{
			Template:  m.TemplateID,
			Health:    m.Health,
			MaxHealth: m.MaxHealth,
			Attack:    m.Attack,
			Defense:   m.Defense,
		})
	}
	for _, n := range r.NPCs {
		nd := NPC{ID: n.ID, Shop: []Offer{}, Cursor: copyMap(n.Cursor)}
		for _, e := range n.Shop {
			nd.Shop = append(nd.Shop, Offer{Item: e.Item.Name, Price: e.Price})
		}
		rd.NPCs = append(rd.NPCs, nd)
	}
	return rd
}

// Restore replaces g's state with snap. The world is rebuilt from g.Defs
// and snap applied on top; g is left untouched on error.
func Restore(g *engine.Game, snap *Snapshot) error {
	if snap.Version != Version {
		return fmt.Errorf("save version %d not supported", snap.Version)
	}
	w, err := world.Build(g.Defs)
	if err != nil {
		return fmt.Errorf("rebuild world: %w", err)
	}
	for id, rd := range snap.Rooms {
		room := w.Room(id)
		if room == nil {
			return fmt.Errorf("save references unknown room %q", id)
		}
		if err := restoreRoom(w, room, rd); err != nil {
			return fmt.Errorf("room %q: %w", id, err)
		}
	}
	if err := w.Validate(); err != nil {
		return err
	}

	current := w.Room(snap.Current)
	if current == nil {
		return fmt.Errorf("save references unknown room %q", snap.Current)
	}
	history := make([]*world.Room, 0, len(snap.History))
	for _, id := range snap.History {
		r := w.Room(id)
		if r == nil {
			return fmt.Errorf("save history references unknown room %q", id)
		}
		history = append(history, r)
	}

	p := &entity.Player{
		Character: entity.Character{
			Stats: entity.Stats{
				Health:    snap.Player.Health,
				MaxHealth: snap.Player.MaxHealth,
				Attack:    snap.Player.Attack,
				Defense:   snap.Player.Defense,
			},
			Name:       snap.Player.Name,
			Level:      snap.Player.Level,
			Experience: snap.Player.Experience,
			Gold:       snap.Player.Gold,
		},
		Archetype: snap.Player.Archetype,
	}
	if err := fill(w, &p.Inventory, snap.Player.Inventory); err != nil {
		return fmt.Errorf("inventory: %w", err)
	}

	phase, err := parsePhase(snap.Phase)
	if err != nil {
		return err
	}

	r := rng.Restore(snap.Seed, snap.Position)
	s := g.Session
	s.World = w
	s.Player = p
	s.Current = current
	s.History = history
	s.Flags = copyMap(snap.Flags)
	s.Counters = copyMap(snap.Counters)
	s.Interaction = state.ParseInteraction(snap.Interaction)
	s.Roller = r
	g.RNG = r
	g.Phase = phase
	g.Battle.Enemy = nil
	g.Battle.Room = nil
	g.Battle.InBattle = false
	s.Log.Printf("save: restored %s (%s) at %s", snap.ID, snap.SavedAt.Format(time.RFC3339), snap.Current)
	return nil
}

func restoreRoom(w *world.World, room *world.Room, rd Room) error {
	room.Description = rd.Description
	room.Visited = rd.Visited

	room.ClearExits()
	for _, e := range rd.Exits {
		dir, ok := world.ParseDirection(e.Dir)
		if !ok {
			return fmt.Errorf("invalid direction %q", e.Dir)
		}
		if l, locked := world.ParseLock(e.Lock); locked {
			room.SetLockedExit(dir, e.To, l)
		} else {
			room.SetExit(dir, e.To)
		}
	}

	room.Items.Clear()
	if err := fill(w, &room.Items, rd.Items); err != nil {
		return err
	}

	room.Monsters = nil
	for _, md := range rd.Monsters {
		m, err := w.Spawn(md.Template)
		if err != nil {
			return err
		}
		m.Health, m.MaxHealth = md.Health, md.MaxHealth
		m.Attack, m.Defense = md.Attack, md.Defense
		room.AddMonster(m)
	}

	for _, nd := range rd.NPCs {
		var npc *entity.NPC
		for _, n := range room.NPCs {
			if n.ID == nd.ID {
				npc = n
			}
		}
		if npc == nil {
			return fmt.Errorf("unknown npc %q", nd.ID)
		}
		npc.Shop = npc.Shop[:0]
		for _, o := range nd.Shop {
			it, ok := w.Item(o.Item)
			if !ok {
				return fmt.Errorf("npc %q: unknown item %q", nd.ID, o.Item)
			}
			npc.Shop = append(npc.Shop, entity.ShopEntry{Item: it, Price: o.Price})
		}
		npc.Cursor = copyMap(nd.Cursor)
	}
	return nil
}

func fill(w *world.World, inv *entity.Inventory, src []Stack) error {
	for _, st := range src {
		it, ok := w.Item(st.Item)
		if !ok {
			return fmt.Errorf("unknown item %q", st.Item)
		}
		if st.Quantity <= 0 {
			return fmt.Errorf("item %q: quantity %d", st.Item, st.Quantity)
		}
		inv.Add(it, st.Quantity)
	}
	return nil
}

func stacks(inv *entity.Inventory) []Stack {
	out := []Stack{}
	for _, st := range inv.Stacks() {
		out = append(out, Stack{Item: st.Item.Name, Quantity: st.Quantity})
	}
	return out
}

func parsePhase(s string) (engine.Phase, error) {
	for _, p := range []engine.Phase{engine.PhasePreStart, engine.PhaseIntro, engine.PhasePlaying, engine.PhaseEnded} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Marshal encodes a snapshot as indented JSON.
func Marshal(snap *Snapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}

// Unmarshal decodes a snapshot.
func Unmarshal(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	// Ensure maps are never nil after load.
	if snap.Flags == nil {
		snap.Flags = map[string]bool{}
	}
	if snap.Counters == nil {
		snap.Counters = map[string]int{}
	}
	if snap.Rooms == nil {
		snap.Rooms = map[string]Room{}
	}
	return &snap, nil
}
