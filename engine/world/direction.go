// Package world holds the room graph: rooms, exits and their locks, the
// builder that turns world definitions into a playable graph, and the
// in-place room state transitions triggered during play.
package world

import "strings"

// Direction is one of the four relative movement directions.
type Direction string

const (
	Forward Direction = "forward"
	Back    Direction = "back"
	Left    Direction = "left"
	Right   Direction = "right"
)

// Directions lists every valid direction.
var Directions = []Direction{Forward, Back, Left, Right}

// ParseDirection normalizes s to a Direction.
func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range Directions {
		if d == v {
			return d, true
		}
	}
	return "", false
}
