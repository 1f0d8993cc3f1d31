package world

import (
	"fmt"
	"strings"

	"github.com/nathoo/lyre/engine/entity"
	"github.com/nathoo/lyre/engine/resolve"
)

// Holder reports whether the player carries an item. *entity.Inventory
// satisfies it.
type Holder interface {
	Has(name string) bool
}

// Variant is an alternate description shown while the player holds every
// item in Requires.
type Variant struct {
	Requires []string
	Text     string
}

// Room is a node of the world graph. Rooms are identified by ID and never
// replaced during play; transitions mutate them in place.
type Room struct {
	ID          string
	Name        string
	Description string
	Variants    []Variant
	Items       entity.Inventory
	Monsters    []*entity.Monster
	NPCs        []*entity.NPC
	Visited     bool

	exits map[Direction]string
	order []Direction
	locks map[Direction]Lock
}

// NewRoom creates a room with no exits.
func NewRoom(id, name, description string) *Room {
	return &Room{
		ID:          id,
		Name:        name,
		Description: description,
		exits:       map[Direction]string{},
		locks:       map[Direction]Lock{},
	}
}

// SetExit points dir at the room with the given ID, keeping insertion order.
func (r *Room) SetExit(dir Direction, to string) {
	if _, ok := r.exits[dir]; !ok {
		r.order = append(r.order, dir)
	}
	r.exits[dir] = to
}

// SetLockedExit sets an exit and locks it.
func (r *Room) SetLockedExit(dir Direction, to string, lock Lock) {
	r.SetExit(dir, to)
	r.locks[dir] = lock
}

// Exit returns the ID of the room dir leads to.
func (r *Room) Exit(dir Direction) (string, bool) {
	to, ok := r.exits[dir]
	return to, ok
}

// Exits returns the exit directions in insertion order.
func (r *Room) Exits() []Direction {
	return append([]Direction(nil), r.order...)
}

// Lock returns the lock on dir, if any.
func (r *Room) Lock(dir Direction) (Lock, bool) {
	l, ok := r.locks[dir]
	return l, ok
}

// IsLocked reports whether dir is locked.
func (r *Room) IsLocked(dir Direction) bool {
	_, ok := r.locks[dir]
	return ok
}

// ClearLock removes the lock on dir without touching the far side.
func (r *Room) ClearLock(dir Direction) {
	delete(r.locks, dir)
}

// LockedDirection returns the first exit locked with kind.
func (r *Room) LockedDirection(kind LockKind) (Direction, bool) {
	for _, d := range r.order {
		if l, ok := r.locks[d]; ok && l.Kind == kind {
			return d, true
		}
	}
	return "", false
}

// ClearExits removes every exit and lock in place.
func (r *Room) ClearExits() {
	r.exits = map[Direction]string{}
	r.locks = map[Direction]Lock{}
	r.order = nil
}

// Unlock clears the lock on dir and on the destination's first exit that
// leads back here.
func (r *Room) Unlock(dir Direction, w *World) string {
	to, ok := r.exits[dir]
	if !ok {
		return "There's no exit in that direction."
	}
	dest := w.Room(to)
	name := to
	if dest != nil {
		name = dest.Name
	}
	if !r.IsLocked(dir) {
		return fmt.Sprintf("The exit to the %s wasn't locked.", name)
	}
	r.ClearLock(dir)
	if dest != nil {
		for _, d := range dest.order {
			if dest.exits[d] == r.ID {
				dest.ClearLock(d)
				break
			}
		}
	}
	return fmt.Sprintf("You've unlocked the exit to the %s!", name)
}

// AddMonster places a monster in the room.
func (r *Room) AddMonster(m *entity.Monster) {
	r.Monsters = append(r.Monsters, m)
}

// RemoveMonster removes m by identity.
func (r *Room) RemoveMonster(m *entity.Monster) bool {
	for i, v := range r.Monsters {
		if v == m {
			r.Monsters = append(r.Monsters[:i], r.Monsters[i+1:]...)
			return true
		}
	}
	return false
}

// FindMonster resolves a partial name among the room's monsters.
func (r *Room) FindMonster(query string) (*entity.Monster, bool) {
	m, _, ok := resolve.Find(query, r.Monsters, func(m *entity.Monster) string { return m.Name })
	return m, ok
}

// FindNPC resolves a partial name among the room's NPCs.
func (r *Room) FindNPC(query string) (*entity.NPC, bool) {
	n, _, ok := resolve.Find(query, r.NPCs, func(n *entity.NPC) string { return n.Name })
	return n, ok
}

// Shopkeeper returns the first NPC with stock left.
func (r *Room) Shopkeeper() (*entity.NPC, bool) {
	for _, n := range r.NPCs {
		if n.HasShop() {
			return n, true
		}
	}
	return nil, false
}

// Occupied reports whether any monster or NPC is present.
func (r *Room) Occupied() bool {
	return len(r.Monsters) > 0 || len(r.NPCs) > 0
}

// CurrentDescription returns the description text, taking variants into
// account.
func (r *Room) CurrentDescription(h Holder) string {
	if h == nil {
		return r.Description
	}
	for _, v := range r.Variants {
		if holdsAll(h, v.Requires) {
			return v.Text
		}
	}
	return r.Description
}

func holdsAll(h Holder, names []string) bool {
	for _, n := range names {
		if !h.Has(n) {
			return false
		}
	}
	return len(names) > 0
}

// Describe renders the room and marks it visited.
func (r *Room) Describe(h Holder) string {
	r.Visited = true

	var b strings.Builder
	b.WriteString(r.Name)
	b.WriteString("\n")
	b.WriteString(r.CurrentDescription(h))

	if r.Items.Len() > 0 {
		b.WriteString("\n\nYou see: ")
		b.WriteString(strings.Join(r.Items.Labels(), ", "))
	}
	if len(r.Monsters) > 0 {
		names := make([]string, 0, len(r.Monsters))
		for _, m := range r.Monsters {
			names = append(names, m.Name)
		}
		b.WriteString("\n\nCreatures present: ")
		b.WriteString(strings.Join(names, ", "))
	}
	if len(r.NPCs) > 0 {
		names := make([]string, 0, len(r.NPCs))
		for _, n := range r.NPCs {
			names = append(names, n.Name)
		}
		b.WriteString("\n\nPeople here: ")
		b.WriteString(strings.Join(names, ", "))
	}
	if len(r.order) > 0 {
		exits := make([]string, 0, len(r.order))
		for _, d := range r.order {
			if r.IsLocked(d) {
				exits = append(exits, string(d)+" (locked)")
			} else {
				exits = append(exits, string(d))
			}
		}
		b.WriteString("\n\nExits: ")
		b.WriteString(strings.Join(exits, ", "))
	}
	return b.String()
}

// CheckInvariants verifies that every lock has a matching exit and every
// item stack has a positive quantity.
func (r *Room) CheckInvariants() error {
	for d := range r.locks {
		if _, ok := r.exits[d]; !ok {
			return fmt.Errorf("room %q: lock on %s has no exit", r.ID, d)
		}
	}
	if len(r.order) != len(r.exits) {
		return fmt.Errorf("room %q: exit order out of sync", r.ID)
	}
	for _, s := range r.Items.Stacks() {
		if s.Quantity <= 0 {
			return fmt.Errorf("room %q: stack %q has quantity %d", r.ID, s.Item.Name, s.Quantity)
		}
	}
	return nil
}
