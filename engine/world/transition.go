package world

import (
	"fmt"

	"github.com/nathoo/lyre/engine/rng"
)

// Retheme switches a randomizing room to a theme different from last and
// returns its index. With a single theme it is applied as is. last < 0
// means no theme has been shown yet.
func (w *World) Retheme(roomID string, last int, r rng.Roller) (int, bool) {
	themes := w.Themes[roomID]
	room := w.Room(roomID)
	if len(themes) == 0 || room == nil {
		return last, false
	}
	next := r.Intn(len(themes))
	for len(themes) > 1 && next == last {
		next = r.Intn(len(themes))
	}
	w.ApplyTheme(room, themes[next])
	return next, true
}

// ApplyTheme replaces a room's description and items in place.
func (w *World) ApplyTheme(room *Room, th Theme) {
	room.Description = th.Description
	room.Items.Clear()
	for _, p := range th.Items {
		it, ok := w.Item(p.Item)
		if !ok {
			continue
		}
		qty := p.Quantity
		if qty < 1 {
			qty = 1
		}
		room.Items.Add(it, qty)
	}
}

// ApplyRewire clears a room's exits in place and rebuilds them from rw.
// The room keeps its identity so anything holding it sees the new exits.
func (w *World) ApplyRewire(roomID string, rw Rewire) error {
	room := w.Room(roomID)
	if room == nil {
		return fmt.Errorf("rewire: unknown room %q", roomID)
	}
	room.ClearExits()
	if rw.Description != "" {
		room.Description = rw.Description
	}
	for _, l := range rw.Exits {
		target := w.Room(l.To)
		if target == nil {
			return fmt.Errorf("rewire %q: unknown room %q", roomID, l.To)
		}
		if lock, ok := ParseLock(l.Lock); ok {
			room.SetLockedExit(l.Dir, l.To, lock)
		} else {
			room.SetExit(l.Dir, l.To)
		}
		if l.Return != "" {
			target.SetExit(l.Return, roomID)
		}
	}
	return room.CheckInvariants()
}
