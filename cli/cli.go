// Package cli provides the plain terminal front end: line I/O, script
// playback and the slash meta-commands for saving and loading.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/nathoo/lyre/engine"
	"github.com/nathoo/lyre/engine/events"
	"github.com/nathoo/lyre/engine/save"
)

// DefaultSlot is the save name used when /save or /load get no argument.
const DefaultSlot = "quicksave"

// CLI handles terminal interaction with the player.
type CLI struct {
	Game      *engine.Game
	Store     save.Store // nil disables /save and /load
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for script playback)

	lastCmd string // for "again"/"g" repeat
}

// New creates a CLI on stdin/stdout wired to the given game.
func New(g *engine.Game, store save.Store) *CLI {
	c := &CLI{
		Game:  g,
		Store: store,
		In:    os.Stdin,
		Out:   os.Stdout,
	}
	c.subscribe()
	return c
}

func (c *CLI) subscribe() {
	bus := c.Game.Events()
	bus.Subscribe(events.Won, func(e events.Event) {
		c.printLine("")
		c.printLine("*** " + e.Title + " ***")
		c.printLine(e.Message)
	})
	bus.Subscribe(events.Defeated, func(events.Event) {
		c.printLine("")
		c.printLine("*** GAME OVER ***")
	})
}

// Run shows the intro then loops: prompt, input, dispatch, output. It
// returns when input runs out, the player quits, or the game ends.
func (c *CLI) Run(ctx context.Context) {
	c.printLine(c.Game.Start())

	scanner := bufio.NewScanner(c.In)
	for c.Game.Phase != engine.PhaseEnded {
		c.print("\n> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(ctx, input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else if input != "" {
			c.lastCmd = input
		}

		c.printLine(strings.TrimSpace(c.Game.Step(input)))
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(ctx, arg)

	case "/load":
		c.cmdLoad(ctx, arg)

	case "/saves":
		c.cmdSaves(ctx)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(ctx context.Context, name string) {
	if c.Store == nil {
		c.printSystem("Saving is disabled.")
		return
	}
	if name == "" {
		name = DefaultSlot
	}

	snap, err := save.Capture(c.Game)
	if errors.Is(err, save.ErrInBattle) {
		c.printSystem("You can't save in the middle of a battle.")
		return
	}
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	if err := c.Store.Put(ctx, name, snap); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(ctx context.Context, name string) {
	if c.Store == nil {
		c.printSystem("Saving is disabled.")
		return
	}
	if name == "" {
		name = DefaultSlot
	}

	snap, err := c.Store.Get(ctx, name)
	if errors.Is(err, save.ErrNotFound) {
		c.printSystem(fmt.Sprintf("No save named %s.", name))
		return
	}
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	if err := save.Restore(c.Game, snap); err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Game loaded from %s (saved %s).", name, snap.SavedAt.Format("2006-01-02 15:04")))
	if c.Game.Phase == engine.PhasePlaying {
		c.printLine(c.Game.Session.Describe())
	}
}

func (c *CLI) cmdSaves(ctx context.Context) {
	if c.Store == nil {
		c.printSystem("Saving is disabled.")
		return
	}
	slots, err := c.Store.List(ctx)
	if err != nil {
		c.printSystem(fmt.Sprintf("Listing saves failed: %v", err))
		return
	}
	if len(slots) == 0 {
		c.printSystem("No saved games.")
		return
	}
	for _, s := range slots {
		c.printSystem(fmt.Sprintf("%s  %s", s.Name, s.SavedAt.Format("2006-01-02 15:04")))
	}
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]  Save game (default: quicksave)",
		"  /load [name]  Load game (default: quicksave)",
		"  /saves        List saved games",
		"  /quit         Exit game",
		"  /help         Show this help",
		"  /state        Debug: dump current state",
		"",
		"Type 'help' for the game's own commands.",
		"  again (g)     Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	g := c.Game
	s := g.Session
	c.printSystem(fmt.Sprintf("Phase: %s", g.Phase))
	c.printSystem(fmt.Sprintf("Location: %s (%s)", s.Current.ID, s.Current.Name))
	c.printSystem(fmt.Sprintf("History: %d room(s)", len(s.History)))
	c.printSystem(fmt.Sprintf("Health: %d/%d  Attack: %d  Defense: %d  Gold: %d",
		s.Player.Health, s.Player.MaxHealth, s.Player.Attack, s.Player.Defense, s.Player.Gold))
	c.printSystem(fmt.Sprintf("Inventory: %s", strings.Join(s.Player.Inventory.Labels(), ", ")))
	if len(s.Flags) > 0 {
		c.printSystem(fmt.Sprintf("Flags: %s", strings.Join(sortedKeys(s.Flags), ", ")))
	}
	if len(s.Counters) > 0 {
		c.printSystem(fmt.Sprintf("Counters: %v", s.Counters))
	}
	if s.Interaction.String() != "" {
		c.printSystem(fmt.Sprintf("Interaction: %s", s.Interaction))
	}
	if g.Battle.InBattle && g.Battle.Enemy != nil {
		c.printSystem(fmt.Sprintf("Battle: %s (%d/%d)", g.Battle.Enemy.Name, g.Battle.Enemy.Health, g.Battle.Enemy.MaxHealth))
	}
	c.printSystem(fmt.Sprintf("RNG: seed %d, position %d", g.RNG.Seed(), g.RNG.Position()))
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
