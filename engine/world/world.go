package world

import (
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/nathoo/lyre/engine/entity"
)

// Encounters configures random monster encounters.
type Encounters struct {
	Chance   float64
	Monsters []string // monster template IDs
}

// Theme is one state of a randomizing room.
type Theme struct {
	Description string
	Items       []Placement
}

// Link is a single exit set by a rewire. When Return is set, the target
// room gets a plain exit in that direction leading back.
type Link struct {
	Dir    Direction
	To     string
	Lock   string
	Return Direction
}

// Rewire replaces a room's exits the first time the player enters it from
// a given room. Flag records that it has happened.
type Rewire struct {
	From        string
	Flag        string
	Description string
	Exits       []Link
}

// World is the live room graph plus the immutable catalogs it was built from.
type World struct {
	Title    string
	Start    string
	Intro    []string
	Victory  string
	Treasure string

	Rooms      map[string]*Room
	Items      map[string]*entity.Item
	Monsters   map[string]entity.MonsterTemplate
	Encounters Encounters
	SafeRooms  mapset.Set[string]
	Themes     map[string][]Theme
	Rewires    map[string]Rewire
}

// Room returns the room with the given ID, or nil.
func (w *World) Room(id string) *Room {
	return w.Rooms[id]
}

// RoomIDs returns every room ID in sorted order.
func (w *World) RoomIDs() []string {
	ids := make([]string, 0, len(w.Rooms))
	for id := range w.Rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Item looks up an item template by exact name.
func (w *World) Item(name string) (*entity.Item, bool) {
	it, ok := w.Items[ItemKey(name)]
	return it, ok
}

// Spawn instantiates a monster from its template ID.
func (w *World) Spawn(id string) (*entity.Monster, error) {
	t, ok := w.Monsters[id]
	if !ok {
		return nil, fmt.Errorf("unknown monster %q", id)
	}
	return t.Spawn(), nil
}

// IsSafe reports whether random encounters are suppressed in a room.
func (w *World) IsSafe(id string) bool {
	return w.SafeRooms.Has(id)
}

// ExitSummary lists a room's exits with destination names, e.g.
// "forward to The Garden of Grie (locked)".
func (w *World) ExitSummary(r *Room) []string {
	out := make([]string, 0, len(r.order))
	for _, d := range r.order {
		name := r.exits[d]
		if dest := w.Room(name); dest != nil {
			name = dest.Name
		}
		s := fmt.Sprintf("%s to %s", d, name)
		if r.IsLocked(d) {
			s += " (locked)"
		}
		out = append(out, s)
	}
	return out
}

// Validate checks every room's invariants and that all exits lead to
// existing rooms.
func (w *World) Validate() error {
	if _, ok := w.Rooms[w.Start]; !ok {
		return fmt.Errorf("start room %q not found", w.Start)
	}
	for _, id := range w.RoomIDs() {
		r := w.Rooms[id]
		if err := r.CheckInvariants(); err != nil {
			return err
		}
		for _, d := range r.order {
			if _, ok := w.Rooms[r.exits[d]]; !ok {
				return fmt.Errorf("room %q exit %s points to undefined room %q", id, d, r.exits[d])
			}
		}
	}
	return nil
}

// Reachable returns the set of rooms reachable from the start room,
// passing through locked exits.
func (w *World) Reachable() mapset.Set[string] {
	seen := mapset.New[string]()
	queue := []string{w.Start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		r, ok := w.Rooms[id]
		if !ok || seen.Has(id) {
			continue
		}
		seen.Put(id)
		for _, d := range r.order {
			if next := r.exits[d]; !seen.Has(next) {
				queue = append(queue, next)
			}
		}
	}
	return seen
}
