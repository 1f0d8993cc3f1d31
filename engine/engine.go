// Package engine provides the Game controller: the top-level state machine
// that owns the session and routes each line of input to the intro, a
// mini-interaction, the battle engine or the command interpreter.
package engine

import (
	"io"
	"log"
	"strings"
	"time"

	"github.com/nathoo/lyre/engine/action"
	"github.com/nathoo/lyre/engine/battle"
	"github.com/nathoo/lyre/engine/entity"
	"github.com/nathoo/lyre/engine/events"
	"github.com/nathoo/lyre/engine/parser"
	"github.com/nathoo/lyre/engine/rng"
	"github.com/nathoo/lyre/engine/state"
	"github.com/nathoo/lyre/engine/world"
)

// Phase is the controller's top-level state.
type Phase int

const (
	PhasePreStart Phase = iota
	PhaseIntro
	PhasePlaying
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "intro"
	case PhasePlaying:
		return "playing"
	case PhaseEnded:
		return "ended"
	}
	return "pre-start"
}

// Player-facing controller messages.
const (
	MsgVenture  = "You steel your resolve and step towards the Labyrinth of Lyre."
	MsgGiveUp   = "You close the journal, the challenge unanswered. The Labyrinth will wait for another hero. You turn and walk away."
	MsgChoose   = "The choice is before you. Will you 'venture forth' or 'give up'?"
	MsgIntroCTA = "Type 'venture forth' to begin your adventure, or 'give up' to walk away."
	MsgOver     = "The adventure is over."
	MsgEmpty    = "What do you want to do?"

	MsgRPSAccept  = "You decide to test your fate. What do you play? (rock, paper, or scissors)"
	MsgRPSYesNo   = "A simple 'yes' or 'no' will suffice."
	MsgRPSBadMove = "That's not a valid move. Choose rock, paper, or scissors."
)

// Options configure a new game.
type Options struct {
	Logger          *log.Logger
	Seed            int64   // 0 picks a time-based seed
	EncounterChance float64 // negative keeps the world's chance
	Archetype       string
}

// Game is one playthrough.
type Game struct {
	Defs    *world.Defs
	Session *state.Session
	Battle  *battle.Engine
	RNG     *rng.RNG
	Phase   Phase

	actions *action.Handler
	log     *log.Logger
}

// New builds a fresh world from defs and a new player.
func New(defs *world.Defs, opts Options) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	w, err := world.Build(defs)
	if err != nil {
		return nil, err
	}
	p, err := entity.NewPlayer(opts.Archetype)
	if err != nil {
		return nil, err
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rng.New(seed)

	s := state.New(w, p, r, logger)
	if opts.EncounterChance >= 0 {
		s.EncounterChance = opts.EncounterChance
	}
	b := battle.New(logger)
	g := &Game{
		Defs:    defs,
		Session: s,
		Battle:  b,
		RNG:     r,
		actions: action.New(b),
		log:     logger,
	}
	g.subscribe()
	return g, nil
}

func (g *Game) subscribe() {
	g.Session.Events.Subscribe(events.Won, func(events.Event) {
		g.Phase = PhaseEnded
		g.log.Printf("game won")
	})
	g.Session.Events.Subscribe(events.Defeated, func(events.Event) {
		g.Phase = PhaseEnded
		g.log.Printf("player defeated")
	})
}

// Events returns the bus front ends subscribe to.
func (g *Game) Events() *events.Bus {
	return g.Session.Events
}

// Start moves to the intro and returns the opening text.
func (g *Game) Start() string {
	g.Phase = PhaseIntro
	parts := append([]string(nil), g.Session.World.Intro...)
	parts = append(parts, MsgIntroCTA)
	g.publishStatus()
	return strings.Join(parts, "\n\n")
}

// Step processes one line of input and returns exactly one response.
func (g *Game) Step(input string) string {
	text := g.step(parser.Normalize(input))
	g.publishStatus()
	return text
}

// Status is the read-only projection shown by status bars.
func (g *Game) Status() events.Status {
	return events.ProjectStatus(g.Session.Player)
}

func (g *Game) publishStatus() {
	g.Session.Emit(events.Event{Kind: events.StatusChanged, Status: g.Status()})
}

func (g *Game) step(input string) string {
	switch g.Phase {
	case PhasePreStart:
		return g.Start()
	case PhaseEnded:
		return MsgOver
	case PhaseIntro:
		return g.intro(input)
	}

	switch g.Session.Interaction {
	case state.InteractionRPSPrompt:
		return g.rpsPrompt(input)
	case state.InteractionRPSChoice:
		return g.rpsChoice(input)
	}

	if input == "" {
		return MsgEmpty
	}
	cmd := parser.Parse(input)
	var text string
	if g.Battle.InBattle {
		text = g.battleTurn(cmd)
	} else {
		text = g.actions.Process(g.Session, cmd.Verb, cmd.Object)
	}
	g.checkCorridor()
	return text
}

func (g *Game) intro(input string) string {
	switch input {
	case "venture forth":
		g.Phase = PhasePlaying
		return MsgVenture + "\n\n" + g.Session.Describe()
	case "give up":
		g.Phase = PhaseEnded
		return MsgGiveUp
	}
	return MsgChoose
}

func (g *Game) rpsPrompt(input string) string {
	switch input {
	case "yes", "try my luck":
		g.Session.Interaction = state.InteractionRPSChoice
		return MsgRPSAccept
	case "no":
		g.Session.Interaction = state.InteractionNone
		return g.actions.Process(g.Session, "back", "")
	}
	return MsgRPSYesNo
}

func (g *Game) rpsChoice(input string) string {
	switch input {
	case "rock", "paper", "scissors":
	default:
		return MsgRPSBadMove
	}
	text := g.actions.Process(g.Session, "play", input)
	if strings.Contains(text, action.MsgRPSWin) {
		g.Session.Interaction = state.InteractionNone
	}
	return text
}

func (g *Game) battleTurn(cmd parser.Command) string {
	s := g.Session
	res := g.Battle.Turn(s.Player, cmd.Verb, cmd.Object, s.Roller)
	switch res.Outcome {
	case battle.Defeat:
		s.Emit(events.Event{Kind: events.Defeated, Title: s.World.Title, Message: res.Text})
	case battle.Aborted:
		g.log.Printf("battle aborted in %s", s.Current.ID)
	}
	return res.Text
}

// checkCorridor raises the door prompt whenever the player stands before a
// forward exit still held by the rock-paper-scissors lock.
func (g *Game) checkCorridor() {
	s := g.Session
	if g.Phase != PhasePlaying || s.Interaction != state.InteractionNone {
		return
	}
	if l, ok := s.Current.Lock(world.Forward); ok && l.Kind == world.LockRPS {
		s.Interaction = state.InteractionRPSPrompt
	}
}
