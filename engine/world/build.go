package world

import (
	"fmt"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"github.com/nathoo/lyre/engine/entity"
)

// Placement puts Quantity units of a named item somewhere.
type Placement struct {
	Item     string
	Quantity int
}

// RoomDef is the static definition of a room.
type RoomDef struct {
	ID          string
	Name        string
	Description string
	Variants    []Variant
	Items       []Placement
	Monsters    []string // monster template IDs
	NPCs        []string // NPC IDs
	Safe        bool
	Detached    bool // only connected by a rewire
}

// Connection wires two rooms. Lock is a lock token; the reverse edge is
// plain unless TwoWayLock is set, and absent when OneWay is set.
type Connection struct {
	From       string
	To         string
	Dir        Direction
	Return     Direction
	Lock       string
	TwoWayLock bool
	OneWay     bool
}

// Defs are the immutable definitions a world is built from. A new game
// builds a fresh World from the same Defs.
type Defs struct {
	Title    string
	Start    string
	Intro    []string
	Victory  string
	Treasure string

	Items       map[string]*entity.Item // keyed by lower-cased name
	Monsters    map[string]entity.MonsterTemplate
	NPCs        map[string]entity.NPCTemplate
	Rooms       []RoomDef
	Connections []Connection
	Themes      map[string][]Theme
	Encounters  Encounters
	Rewires     map[string]Rewire
}

// Build instantiates the room graph from defs, places items, monsters and
// NPCs, and validates the result.
func Build(defs *Defs) (*World, error) {
	w := &World{
		Title:      defs.Title,
		Start:      defs.Start,
		Intro:      defs.Intro,
		Victory:    defs.Victory,
		Treasure:   defs.Treasure,
		Rooms:      make(map[string]*Room, len(defs.Rooms)),
		Items:      defs.Items,
		Monsters:   defs.Monsters,
		Encounters: defs.Encounters,
		SafeRooms:  mapset.New[string](),
		Themes:     defs.Themes,
		Rewires:    defs.Rewires,
	}

	for _, rd := range defs.Rooms {
		if _, dup := w.Rooms[rd.ID]; dup {
			return nil, fmt.Errorf("duplicate room %q", rd.ID)
		}
		r := NewRoom(rd.ID, rd.Name, rd.Description)
		r.Variants = rd.Variants
		w.Rooms[rd.ID] = r
		if rd.Safe {
			w.SafeRooms.Put(rd.ID)
		}
	}

	for _, c := range defs.Connections {
		if err := w.connect(c); err != nil {
			return nil, err
		}
	}

	for _, rd := range defs.Rooms {
		r := w.Rooms[rd.ID]
		if err := w.place(&r.Items, rd.Items); err != nil {
			return nil, fmt.Errorf("room %q: %w", rd.ID, err)
		}
		for _, id := range rd.Monsters {
			m, err := w.Spawn(id)
			if err != nil {
				return nil, fmt.Errorf("room %q: %w", rd.ID, err)
			}
			r.AddMonster(m)
		}
		for _, id := range rd.NPCs {
			t, ok := defs.NPCs[id]
			if !ok {
				return nil, fmt.Errorf("room %q: unknown npc %q", rd.ID, id)
			}
			r.NPCs = append(r.NPCs, t.Spawn())
		}
	}

	for _, id := range defs.Encounters.Monsters {
		if _, ok := w.Monsters[id]; !ok {
			return nil, fmt.Errorf("encounter table: unknown monster %q", id)
		}
	}
	if w.Treasure != "" {
		if _, ok := w.Item(w.Treasure); !ok {
			return nil, fmt.Errorf("treasure item %q not defined", w.Treasure)
		}
	}
	for roomID, themes := range defs.Themes {
		if _, ok := w.Rooms[roomID]; !ok {
			return nil, fmt.Errorf("themes for undefined room %q", roomID)
		}
		for _, th := range themes {
			for _, p := range th.Items {
				if _, ok := w.Item(p.Item); !ok {
					return nil, fmt.Errorf("theme in room %q: unknown item %q", roomID, p.Item)
				}
			}
		}
	}
	for roomID, rw := range defs.Rewires {
		if _, ok := w.Rooms[roomID]; !ok {
			return nil, fmt.Errorf("rewire of undefined room %q", roomID)
		}
		for _, l := range rw.Exits {
			if _, ok := w.Rooms[l.To]; !ok {
				return nil, fmt.Errorf("rewire of %q: undefined room %q", roomID, l.To)
			}
		}
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *World) connect(c Connection) error {
	from, ok := w.Rooms[c.From]
	if !ok {
		return fmt.Errorf("connection from undefined room %q", c.From)
	}
	to, ok := w.Rooms[c.To]
	if !ok {
		return fmt.Errorf("connection from %q to undefined room %q", c.From, c.To)
	}
	if _, ok := ParseDirection(string(c.Dir)); !ok {
		return fmt.Errorf("connection %s->%s: invalid direction %q", c.From, c.To, c.Dir)
	}

	lock, locked := ParseLock(c.Lock)
	if locked {
		from.SetLockedExit(c.Dir, to.ID, lock)
	} else {
		from.SetExit(c.Dir, to.ID)
	}
	if c.OneWay {
		return nil
	}

	ret := c.Return
	if ret == "" {
		ret = Back
	}
	if _, ok := ParseDirection(string(ret)); !ok {
		return fmt.Errorf("connection %s->%s: invalid return direction %q", c.From, c.To, ret)
	}
	if locked && c.TwoWayLock {
		to.SetLockedExit(ret, from.ID, lock)
	} else {
		to.SetExit(ret, from.ID)
	}
	return nil
}

func (w *World) place(inv *entity.Inventory, items []Placement) error {
	for _, p := range items {
		it, ok := w.Item(p.Item)
		if !ok {
			return fmt.Errorf("unknown item %q", p.Item)
		}
		qty := p.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 {
			return fmt.Errorf("item %q: quantity %d", p.Item, qty)
		}
		inv.Add(it, qty)
	}
	return nil
}

// Unreachable lists rooms that cannot be reached from the start and are
// not marked detached.
func Unreachable(w *World, defs *Defs) []string {
	reach := w.Reachable()
	var out []string
	for _, rd := range defs.Rooms {
		if !rd.Detached && !reach.Has(rd.ID) {
			out = append(out, rd.ID)
		}
	}
	return out
}

// ItemKey normalizes an item name for catalog lookups.
func ItemKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
