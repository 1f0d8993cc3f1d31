package action

import (
	"fmt"
	"strings"

	"github.com/nathoo/lyre/engine/state"
)

func (h *Handler) inventory(s *state.Session, _ string) string {
	var b strings.Builder
	b.WriteString("--- Inventory ---\n\n")
	stacks := s.Player.Inventory.Stacks()
	if len(stacks) == 0 {
		b.WriteString("Your inventory is empty.")
	} else {
		b.WriteString("You are carrying:")
		for _, st := range stacks {
			fmt.Fprintf(&b, "\n- %s: %s", st.Label(), st.Item.Description)
		}
	}
	fmt.Fprintf(&b, "\n\nGold: %d", s.Player.Gold)
	return b.String()
}

func (h *Handler) stats(s *state.Session, _ string) string {
	p := s.Player
	rows := []struct {
		label string
		value any
	}{
		{"Name", p.Name},
		{"Level", p.Level},
		{"Health", fmt.Sprintf("%d / %d", p.Health, p.MaxHealth)},
		{"Attack", p.Attack},
		{"Defense", p.Defense},
		{"Experience", fmt.Sprintf("%d / %d", p.Experience, p.NextLevelAt())},
		{"Gold", p.Gold},
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s: %v", r.label, r.value))
	}
	return "--- Character Stats ---\n\n" + strings.Join(lines, "\n")
}

func (h *Handler) showMap(s *state.Session, _ string) string {
	text := fmt.Sprintf("--- Location ---\n\nYour current location is the %s. ", s.Current.Name)
	exits := s.World.ExitSummary(s.Current)
	if len(exits) == 0 {
		return text + "No obvious exits from here."
	}
	return text + "Exits: " + strings.Join(exits, ", ")
}

var helpLines = []string{
	"go [direction]: Move between rooms. Valid directions are 'forward', 'back', 'left', and 'right'. You can also type a direction by itself (e.g., 'left').",
	"look: Get a description of your current location.",
	"inspect [object/monster]: Examine a specific object, creature or person in the room.",
	"search: Search the room for any items or hidden things.",
	"take [quantity|all] [item]: Pick up an item from the room (e.g., 'take all gold coins').",
	"drop [item]: Remove an item from your inventory and leave it in the room.",
	"use [item]: Use an item from your inventory. Some items have special effects.",
	"pick [direction]: Attempt to pick a locked door in a given direction (e.g., 'pick left'). This requires a 'lockpick' in your inventory.",
	"attack [monster]: Engage in combat with a monster. Also 'fight' or 'battle'.",
	"flee: Attempt to run away from a battle.",
	"play [choice]: Play a game of chance when prompted (e.g., 'play rock').",
	"talk [person] or talk [person] about [topic]: Speak to a friendly character.",
	"list: Shows items for sale if a shopkeeper is present.",
	"buy [item]: Purchase an item from a shopkeeper.",
	"inventory (inv, i): List what you are carrying.",
	"stats (status, st): Show your character's statistics.",
	"map: Show where you are and where the exits lead.",
}

func (h *Handler) help(*state.Session, string) string {
	return "--- Help: Available Commands ---\n\n" + strings.Join(helpLines, "\n\n") +
		"\n\nAll words understood: " + strings.Join(h.Verbs(), ", ")
}
