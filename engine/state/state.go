// Package state holds the Session: the explicit context object every
// command handler receives. It owns the world graph, the player, the
// current room and history, puzzle flags and the random source.
package state

import (
	"io"
	"log"

	"github.com/nathoo/lyre/engine/entity"
	"github.com/nathoo/lyre/engine/events"
	"github.com/nathoo/lyre/engine/rng"
	"github.com/nathoo/lyre/engine/world"
)

// Interaction is a controller-level sub-mode that intercepts raw input.
type Interaction int

const (
	InteractionNone Interaction = iota
	InteractionRPSPrompt
	InteractionRPSChoice
)

func (i Interaction) String() string {
	switch i {
	case InteractionRPSPrompt:
		return "rps_prompt"
	case InteractionRPSChoice:
		return "rps_choice"
	}
	return ""
}

// ParseInteraction is the inverse of Interaction.String.
func ParseInteraction(s string) Interaction {
	switch s {
	case "rps_prompt":
		return InteractionRPSPrompt
	case "rps_choice":
		return InteractionRPSChoice
	}
	return InteractionNone
}

// Puzzle flag and counter names.
const (
	FlagDenActive         = "mercurialDenActive"
	FlagVaultAppleUsed    = "vaultAppleUsed"
	FlagCompassQuest      = "hasOrnateCompassQuest"
	FlagHelmetSearched    = "helmetSearched"
	FlagFruitBowlSearched = "fruitBowlSearched"

	CounterDenState = "mercurialDenState"
)

// Session is the whole mutable game state for one playthrough.
type Session struct {
	World       *world.World
	Player      *entity.Player
	Current     *world.Room
	History     []*world.Room
	Flags       map[string]bool
	Counters    map[string]int
	Interaction Interaction

	Roller          rng.Roller
	Log             *log.Logger
	Events          *events.Bus
	EncounterChance float64
}

// New starts a session in the world's start room. A nil logger discards.
func New(w *world.World, p *entity.Player, r rng.Roller, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Session{
		World:           w,
		Player:          p,
		Current:         w.Room(w.Start),
		Flags:           map[string]bool{},
		Counters:        map[string]int{},
		Roller:          r,
		Log:             logger,
		Events:          events.NewBus(),
		EncounterChance: w.Encounters.Chance,
	}
}

// Flag returns the value of a flag. Unset flags are false.
func (s *Session) Flag(name string) bool {
	return s.Flags[name]
}

// SetFlag sets or clears a flag.
func (s *Session) SetFlag(name string, v bool) {
	if v {
		s.Flags[name] = true
		return
	}
	delete(s.Flags, name)
}

// Counter returns the value of a counter. Unset counters are 0.
func (s *Session) Counter(name string) int {
	return s.Counters[name]
}

// SetCounter sets a counter.
func (s *Session) SetCounter(name string, v int) {
	s.Counters[name] = v
}

// Describe renders the current room for the player.
func (s *Session) Describe() string {
	return s.Current.Describe(&s.Player.Inventory)
}

// Enter moves the player to room, pushing the current room onto the history.
func (s *Session) Enter(room *world.Room) {
	s.History = append(s.History, s.Current)
	s.Current = room
}

// Back pops the history. Returns false when there is nowhere to go back to.
func (s *Session) Back() bool {
	if len(s.History) == 0 {
		return false
	}
	s.Current = s.History[len(s.History)-1]
	s.History = s.History[:len(s.History)-1]
	return true
}

// Emit publishes an event to the front end.
func (s *Session) Emit(e events.Event) {
	s.Events.Publish(e)
}
