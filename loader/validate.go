package loader

import (
	"fmt"
	"log"
	"strings"

	"github.com/nathoo/lyre/engine/world"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// validate checks the compiled defs for referential integrity, then builds
// a throwaway world to find rooms nothing leads to.
func validate(defs *world.Defs, ve *ValidationError, logger *log.Logger) error {
	if defs.Title == "" {
		ve.errorf("Game.title is required")
	}

	rooms := map[string]bool{}
	for _, rd := range defs.Rooms {
		if rooms[rd.ID] {
			ve.errorf("room %q defined twice", rd.ID)
		}
		rooms[rd.ID] = true
		for _, id := range rd.Monsters {
			if _, ok := defs.Monsters[id]; !ok {
				ve.errorf("room %q: unknown monster %q", rd.ID, id)
			}
		}
		for _, id := range rd.NPCs {
			if _, ok := defs.NPCs[id]; !ok {
				ve.errorf("room %q: unknown npc %q", rd.ID, id)
			}
		}
	}

	if defs.Start == "" {
		ve.errorf("Game.start is required")
	} else if !rooms[defs.Start] {
		ve.errorf("start room %q not found in defined rooms", defs.Start)
	}
	if defs.Treasure != "" {
		if _, ok := defs.Items[world.ItemKey(defs.Treasure)]; !ok {
			ve.errorf("treasure %q is not a defined item", defs.Treasure)
		}
	}

	type edge struct {
		room string
		dir  world.Direction
	}
	seen := map[edge]bool{}
	claim := func(room string, dir world.Direction) {
		if dir == "" {
			return
		}
		e := edge{room, dir}
		if seen[e] {
			ve.warnf("room %q: exit %s is set more than once", room, dir)
		}
		seen[e] = true
	}
	for _, c := range defs.Connections {
		if !rooms[c.From] {
			ve.errorf("connection from undefined room %q", c.From)
		}
		if !rooms[c.To] {
			ve.errorf("connection from %q to undefined room %q", c.From, c.To)
		}
		validateLock(defs, ve, fmt.Sprintf("connection %s->%s", c.From, c.To), c.Lock)
		claim(c.From, c.Dir)
		if !c.OneWay {
			ret := c.Return
			if ret == "" {
				ret = world.Back
			}
			claim(c.To, ret)
		}
		if c.OneWay && c.TwoWayLock {
			ve.warnf("connection %s->%s: two_way has no effect on a one_way connection", c.From, c.To)
		}
	}

	ench := defs.Encounters
	if ench.Chance < 0 || ench.Chance > 1 {
		ve.errorf("encounter chance %v is outside [0, 1]", ench.Chance)
	}
	for _, id := range ench.Monsters {
		if _, ok := defs.Monsters[id]; !ok {
			ve.errorf("encounter table: unknown monster %q", id)
		}
	}
	if ench.Chance > 0 && len(ench.Monsters) == 0 {
		ve.warnf("encounter chance is set but no monsters are listed")
	}

	for id := range defs.Themes {
		if !rooms[id] {
			ve.errorf("themes for undefined room %q", id)
		}
	}
	for id, rw := range defs.Rewires {
		if !rooms[id] {
			ve.errorf("rewire of undefined room %q", id)
		}
		if rw.From != "" && !rooms[rw.From] {
			ve.errorf("rewire of %q: trigger room %q is undefined", id, rw.From)
		}
		for _, l := range rw.Exits {
			if !rooms[l.To] {
				ve.errorf("rewire of %q: exit %s points to undefined room %q", id, l.Dir, l.To)
			}
			validateLock(defs, ve, fmt.Sprintf("rewire of %q", id), l.Lock)
		}
	}

	if len(ve.Errors) == 0 {
		w, err := world.Build(defs)
		if err != nil {
			ve.errorf("building world: %v", err)
		} else {
			for _, id := range world.Unreachable(w, defs) {
				ve.warnf("room %q cannot be reached from %q", id, defs.Start)
			}
		}
	}

	for _, w := range ve.Warnings {
		logger.Printf("warning: %s", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateLock requires key-item locks to name a defined item.
func validateLock(defs *world.Defs, ve *ValidationError, owner, token string) {
	lock, ok := world.ParseLock(token)
	if !ok || lock.Kind != world.LockItem {
		return
	}
	if _, ok := defs.Items[world.ItemKey(lock.Key)]; !ok {
		ve.errorf("%s: lock %q is neither a lock kind nor a defined item", owner, token)
	}
}
