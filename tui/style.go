package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleRoomName = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	styleRoomDesc = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleYouSee = lipgloss.NewStyle().
			Bold(true)

	styleExits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleBattle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleBanner = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)
)

type lineKind int

const (
	kindNarrative lineKind = iota
	kindHeading
	kindYouSee
	kindExits
	kindDialogue
	kindBattle
	kindSystem
	kindError
	kindBanner
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "***") && strings.HasSuffix(line, "***"):
		return kindBanner
	case strings.HasPrefix(line, "---") && strings.HasSuffix(line, "---"):
		return kindHeading
	case strings.HasPrefix(line, "==="):
		return kindBattle
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "You see:"),
		strings.HasPrefix(line, "Creatures present:"),
		strings.HasPrefix(line, "People here:"):
		return kindYouSee
	case strings.HasPrefix(line, "Exits:"):
		return kindExits
	case strings.HasPrefix(line, "You don't"),
		strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You cannot"),
		strings.HasPrefix(line, "I don't understand"),
		strings.HasPrefix(line, "Invalid battle action"):
		return kindError
	case strings.Contains(line, " says: \""):
		return kindDialogue
	case strings.HasPrefix(line, "You strike"),
		strings.HasPrefix(line, "Critical Hit!"),
		strings.HasPrefix(line, "Victory!"):
		return kindBattle
	default:
		return kindNarrative
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindHeading:
		return styleRoomName.Render(line)
	case kindYouSee:
		return styledLabelled(line)
	case kindExits:
		return styleExits.Render(line)
	case kindDialogue:
		return styleDialogue.Render(line)
	case kindBattle:
		return styleBattle.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindBanner:
		return styleBanner.Render(line)
	default:
		return styleRoomDesc.Render(line)
	}
}

// styledLabelled renders "Label: a, b" with the list part bold.
func styledLabelled(line string) string {
	label, rest, ok := strings.Cut(line, ": ")
	if !ok {
		return styleRoomDesc.Render(line)
	}
	return styleRoomDesc.Render(label+": ") + styleYouSee.Render(rest)
}

func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
