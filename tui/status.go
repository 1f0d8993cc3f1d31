package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/lyre/engine/events"
	"github.com/nathoo/lyre/engine/world"
)

const barWidth = 12

var titler = cases.Title(language.English)

func newBars() (health, xp progress.Model) {
	health = progress.New(
		progress.WithGradient("#FF5F5F", "#5FD75F"),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	xp = progress.New(
		progress.WithSolidFill("#AF87FF"),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	return health, xp
}

// exitLabels lists a room's exits for display: "Forward, Left*", where
// the star marks a locked exit.
func exitLabels(r *world.Room) string {
	dirs := r.Exits()
	labels := make([]string, 0, len(dirs))
	for _, d := range dirs {
		label := titler.String(string(d))
		if r.IsLocked(d) {
			label += "*"
		}
		labels = append(labels, label)
	}
	if len(labels) == 0 {
		return "none"
	}
	return strings.Join(labels, ", ")
}

// vitals renders level, the health and experience bars, and gold. The
// bars are dropped when space is short.
func (m Model) vitals(st events.Status, room int) string {
	plain := fmt.Sprintf("Lv %d  HP %d/%d  XP %d/%d  Gold %d ",
		st.Level, st.Health, st.MaxHealth, st.Experience, st.NextLevel, st.Gold)
	full := fmt.Sprintf("Lv %d  HP %s %d/%d  XP %s  Gold %d ",
		st.Level, m.health.ViewAs(st.HealthPercent), st.Health, st.MaxHealth,
		m.xp.ViewAs(st.ExperiencePercent), st.Gold)
	if room+lipgloss.Width(full)+2 < m.width {
		return full
	}
	return plain
}

// renderStatusBar produces a full-width status line: room, exits and the
// player's vitals as last published on the event bus.
func (m Model) renderStatusBar() string {
	s := m.game.Session

	left := fmt.Sprintf(" %s | Exits: %s", s.Current.Name, exitLabels(s.Current))
	if m.game.Battle.InBattle && m.game.Battle.Enemy != nil {
		e := m.game.Battle.Enemy
		left = fmt.Sprintf(" Fighting %s (%d/%d)", e.Name, e.Health, e.MaxHealth)
	}
	right := m.vitals(m.feed.status, lipgloss.Width(left))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
