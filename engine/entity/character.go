package entity

import (
	"fmt"
	"strings"
)

// Stats are the combat numbers shared by players, NPCs and monsters.
// Health stays within [0, MaxHealth].
type Stats struct {
	Health    int
	MaxHealth int
	Attack    int
	Defense   int
}

// Mitigate applies defense to a raw damage roll. At least 1 damage always lands.
func Mitigate(raw, defense int) int {
	d := raw - defense
	if d < 1 {
		return 1
	}
	return d
}

// TakeDamage applies raw damage after defense and returns the damage dealt.
func (s *Stats) TakeDamage(raw int) int {
	dealt := Mitigate(raw, s.Defense)
	s.Health -= dealt
	if s.Health < 0 {
		s.Health = 0
	}
	return dealt
}

// Heal restores up to amount health, clamped at MaxHealth. Returns the amount restored.
func (s *Stats) Heal(amount int) int {
	if amount < 0 {
		return 0
	}
	before := s.Health
	s.Health += amount
	if s.Health > s.MaxHealth {
		s.Health = s.MaxHealth
	}
	return s.Health - before
}

// IsAlive reports whether health is above zero.
func (s *Stats) IsAlive() bool {
	return s.Health > 0
}

// Character is a named, levelled combatant with an inventory and gold.
type Character struct {
	Stats
	Name       string
	Level      int
	Experience int
	Gold       int
	Inventory  Inventory
}

// NewCharacter creates a level-1 character at full health.
func NewCharacter(name string, health, attack, defense, gold int) *Character {
	return &Character{
		Stats: Stats{
			Health:    health,
			MaxHealth: health,
			Attack:    attack,
			Defense:   defense,
		},
		Name:  name,
		Level: 1,
		Gold:  gold,
	}
}

// NextLevelAt returns the experience total that triggers the next level.
func (c *Character) NextLevelAt() int {
	return c.Level * 100
}

// GainExperience adds experience and levels up while the threshold is met.
// Returns the levels reached, in order.
func (c *Character) GainExperience(exp int) []int {
	if exp <= 0 {
		return nil
	}
	c.Experience += exp
	var reached []int
	for c.Experience >= c.NextLevelAt() {
		c.levelUp()
		reached = append(reached, c.Level)
	}
	return reached
}

// levelUp raises the level, improves stats and fully heals.
func (c *Character) levelUp() {
	c.Level++
	c.MaxHealth += 10
	c.Health = c.MaxHealth
	c.Attack += 2
	c.Defense++
}

// LevelUpMessage is the text shown for each level reached.
func LevelUpMessage(level int) string {
	return fmt.Sprintf("You reached level %d! Your stats have improved.", level)
}

// LevelUpText joins the messages for several levels, or "" for none.
func LevelUpText(levels []int) string {
	msgs := make([]string, 0, len(levels))
	for _, l := range levels {
		msgs = append(msgs, LevelUpMessage(l))
	}
	return strings.Join(msgs, "\n")
}

// Player is the character controlled by the user.
type Player struct {
	Character
	Archetype string
}

// Archetype holds the base numbers of a selectable character type.
type Archetype struct {
	Name         string
	Health       int
	Strength     int
	Dexterity    int
	Agility      int
	Intelligence int
	Charisma     int
}

// Archetypes are the selectable character types. Strength becomes attack
// and dexterity becomes defense.
var Archetypes = []Archetype{
	{Name: "Warrior", Health: 120, Strength: 15, Dexterity: 10, Agility: 8, Intelligence: 5, Charisma: 7},
	{Name: "Rogue", Health: 90, Strength: 10, Dexterity: 15, Agility: 12, Intelligence: 8, Charisma: 10},
	{Name: "Ranger", Health: 100, Strength: 12, Dexterity: 14, Agility: 10, Intelligence: 7, Charisma: 8},
	{Name: "Bard", Health: 85, Strength: 8, Dexterity: 12, Agility: 9, Intelligence: 12, Charisma: 15},
	{Name: "Healer", Health: 95, Strength: 7, Dexterity: 9, Agility: 7, Intelligence: 14, Charisma: 12},
	{Name: "Mage", Health: 80, Strength: 6, Dexterity: 8, Agility: 6, Intelligence: 16, Charisma: 9},
}

// StartingGold is what every new player carries.
const StartingGold = 25

// NewPlayer creates a player. An empty archetype yields the plain adventurer.
func NewPlayer(archetype string) (*Player, error) {
	if archetype == "" {
		return &Player{Character: *NewCharacter("Adventurer", 100, 10, 5, StartingGold)}, nil
	}
	for _, a := range Archetypes {
		if strings.EqualFold(a.Name, archetype) {
			return &Player{
				Character: *NewCharacter(a.Name, a.Health, a.Strength, a.Dexterity, StartingGold),
				Archetype: a.Name,
			}, nil
		}
	}
	return nil, fmt.Errorf("unknown archetype %q", archetype)
}
