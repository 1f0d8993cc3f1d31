// Package battle resolves turn-based combat between the player and a
// single monster. The engine is either idle or in battle; while in battle
// it is bound to the enemy and the room the fight takes place in.
package battle

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/nathoo/lyre/engine/effects"
	"github.com/nathoo/lyre/engine/entity"
	"github.com/nathoo/lyre/engine/rng"
	"github.com/nathoo/lyre/engine/world"
)

// Outcome is the state of a battle after a turn.
type Outcome int

const (
	Ongoing Outcome = iota
	Victory
	Defeat
	Fled
	Aborted // invariant violation, battle reset
)

// Result is the text of a turn and how the battle stands afterwards.
type Result struct {
	Text    string
	Outcome Outcome
}

// Player damage rolls. Base rolls above CritThreshold are critical and
// re-rolled between CritMin and the level-scaled cap.
const (
	BaseMin       = 1
	BaseMax       = 13
	CritThreshold = 9
	CritMin       = 10
	CritCapBase   = 11
	CritCapMax    = 18
	FleeThreshold = 0.3
)

// Engine is the battle state machine.
type Engine struct {
	InBattle bool
	Enemy    *entity.Monster
	Room     *world.Room

	turns  []string
	logger *log.Logger
}

// New creates an idle battle engine. A nil logger discards.
func New(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{logger: logger}
}

// Start binds the enemy and room and returns the opening banner.
func (e *Engine) Start(p *entity.Player, m *entity.Monster, room *world.Room) string {
	e.InBattle = true
	e.Enemy = m
	e.Room = room
	e.turns = nil

	var b strings.Builder
	b.WriteString("=== BATTLE BEGINS ===\n")
	fmt.Fprintf(&b, "You face the %s!\n", m.Name)
	if m.Description != "" {
		b.WriteString(m.Description + "\n")
	}
	b.WriteString("\n")
	b.WriteString(Status(p, m))
	b.WriteString("\nWhat will you do? (attack, flee, use [item])")
	return b.String()
}

// Status renders both combatants' health.
func Status(p *entity.Player, m *entity.Monster) string {
	return fmt.Sprintf("--- Battle Status ---\nYour Health: %d/%d\n%s Health: %d/%d",
		p.Health, p.MaxHealth, m.Name, m.Health, m.MaxHealth)
}

// Log returns the texts of the turns played in the current or last battle.
func (e *Engine) Log() []string {
	return append([]string(nil), e.turns...)
}

// Turn resolves one player action.
func (e *Engine) Turn(p *entity.Player, action, target string, r rng.Roller) Result {
	if !e.InBattle {
		return Result{Text: "You are not in battle."}
	}
	m := e.Enemy
	if m == nil {
		e.logger.Printf("battle: in battle with no enemy bound; resetting")
		e.reset()
		return Result{
			Text:    "Error: In battle but no current enemy defined. Exiting battle mode.",
			Outcome: Aborted,
		}
	}

	var text string
	switch action {
	case "attack":
		text = e.playerAttack(p, m, r)
		if m.IsAlive() {
			text += "\n" + e.monsterAttack(p, m, r)
		}
	case "flee":
		if r.Float64() > FleeThreshold {
			e.reset()
			res := Result{
				Text:    "You successfully flee from the battle!\n\n=== BATTLE END ===\nYou escaped from the battle.",
				Outcome: Fled,
			}
			e.turns = append(e.turns, res.Text)
			return res
		}
		text = "You failed to escape!\n" + e.monsterAttack(p, m, r)
	case "use":
		if strings.TrimSpace(target) == "" {
			return Result{Text: "What do you want to use?"}
		}
		text = e.useItem(p, target, r)
		if m.IsAlive() {
			text += "\n" + e.monsterAttack(p, m, r)
		}
	default:
		return Result{Text: "Invalid battle action. Try: attack, flee, or use [item]"}
	}

	res := Result{Text: text}
	switch {
	case !m.IsAlive():
		res.Text += "\n\n" + e.victory(p, m)
		res.Outcome = Victory
	case !p.IsAlive():
		res.Text += "\n\n=== BATTLE END ===\nYou have been defeated! Game Over."
		res.Outcome = Defeat
		e.reset()
	default:
		res.Text += "\n\n" + Status(p, m)
	}
	e.turns = append(e.turns, res.Text)
	return res
}

// PlayerDamage rolls the player's raw attack damage for the given level.
func PlayerDamage(level int, r rng.Roller) (int, bool) {
	base := rng.Between(r, BaseMin, BaseMax)
	if base <= CritThreshold {
		return base, false
	}
	return rng.Between(r, CritMin, CritCap(level)), true
}

// CritCap is the upper bound of a critical hit at level.
func CritCap(level int) int {
	return min(CritCapBase+(level-1)*2, CritCapMax)
}

func (e *Engine) playerAttack(p *entity.Player, m *entity.Monster, r rng.Roller) string {
	raw, crit := PlayerDamage(p.Level, r)
	dealt := m.TakeDamage(raw)

	var text string
	if crit {
		text = fmt.Sprintf("Critical Hit! You strike the %s for %d damage!", m.Name, dealt)
	} else {
		text = fmt.Sprintf("You strike the %s for %d damage!", m.Name, dealt)
	}
	if !m.IsAlive() {
		text += "\n" + m.DeathMessage(r)
	}
	return text
}

func (e *Engine) monsterAttack(p *entity.Player, m *entity.Monster, r rng.Roller) string {
	strike := m.Strike(r)
	dealt := p.TakeDamage(strike.Damage)

	text := m.AttackMessage(r)
	if strike.Critical {
		text += " Critical Hit!"
	}
	text += fmt.Sprintf("\nThe %s hits you for %d damage!", m.Name, dealt)
	if !p.IsAlive() {
		text += "\nYou have been defeated!"
	}
	return text
}

func (e *Engine) useItem(p *entity.Player, name string, r rng.Roller) string {
	stack, ok := p.Inventory.Find(name)
	if !ok {
		return fmt.Sprintf("You don't have a %s.", name)
	}
	out := effects.Apply(stack.Item, p, "", r)
	if out.Consumed {
		p.Inventory.Take(stack, 1)
	}
	return out.Text
}

func (e *Engine) victory(p *entity.Player, m *entity.Monster) string {
	var b strings.Builder
	b.WriteString("=== BATTLE END ===\n")
	fmt.Fprintf(&b, "Victory! You gained %d experience points.", m.ExperienceValue)
	if levels := p.GainExperience(m.ExperienceValue); len(levels) > 0 {
		e.logger.Printf("battle: player reached level %d", levels[len(levels)-1])
		b.WriteString("\n" + entity.LevelUpText(levels))
	}

	if e.Room != nil {
		if len(m.Loot) > 0 {
			names := make([]string, 0, len(m.Loot))
			for _, l := range m.Loot {
				e.Room.Items.Add(l.Item, l.Quantity)
				names = append(names, (&entity.ItemStack{Item: l.Item, Quantity: l.Quantity}).Label())
			}
			fmt.Fprintf(&b, "\nThe defeated %s dropped: %s.", m.Name, strings.Join(names, ", "))
		}
		e.Room.RemoveMonster(m)
	}
	e.reset()
	return b.String()
}

func (e *Engine) reset() {
	e.InBattle = false
	e.Enemy = nil
	e.Room = nil
}
