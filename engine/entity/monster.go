package entity

import (
	"fmt"

	"github.com/nathoo/lyre/engine/rng"
)

// MonsterKind selects a monster's attack behavior.
type MonsterKind int

const (
	KindGeneric MonsterKind = iota
	KindGoblin
)

// ParseMonsterKind maps the kind tag used in world scripts.
func ParseMonsterKind(s string) (MonsterKind, error) {
	switch s {
	case "", "generic":
		return KindGeneric, nil
	case "goblin":
		return KindGoblin, nil
	}
	return KindGeneric, fmt.Errorf("unknown monster kind %q", s)
}

// LootEntry is a stack a monster leaves behind when defeated.
type LootEntry struct {
	Item     *Item
	Quantity int
}

// MonsterTemplate is a factory for a monster type.
type MonsterTemplate struct {
	ID          string
	Name        string
	Description string
	Kind        MonsterKind
	Health      int
	Attack      int
	Defense     int
	Loot        []LootEntry
}

// Spawn creates a fresh monster at full health.
func (t MonsterTemplate) Spawn() *Monster {
	m := &Monster{
		Stats: Stats{
			Health:    t.Health,
			MaxHealth: t.Health,
			Attack:    t.Attack,
			Defense:   t.Defense,
		},
		TemplateID:  t.ID,
		Name:        t.Name,
		Description: t.Description,
		Kind:        t.Kind,
		Loot:        append([]LootEntry(nil), t.Loot...),
	}
	m.ExperienceValue = t.Health/2 + t.Attack
	return m
}

// Monster is a hostile creature.
type Monster struct {
	Stats
	TemplateID      string
	Name            string
	Description     string
	Kind            MonsterKind
	ExperienceValue int
	Loot            []LootEntry
}

// Strike is the outcome of a monster's attack roll, before defense.
type Strike struct {
	Damage   int
	Critical bool
}

// Strike rolls the monster's attack. Goblins roll 1-5 and crit on 4 or 5;
// everything else rolls 1..attack without crits.
func (m *Monster) Strike(r rng.Roller) Strike {
	switch m.Kind {
	case KindGoblin:
		d := rng.Roll(r, 5)
		return Strike{Damage: d, Critical: d >= 4}
	default:
		if m.Attack < 1 {
			return Strike{Damage: 1}
		}
		return Strike{Damage: rng.Roll(r, m.Attack)}
	}
}

// AttackMessage returns one of the monster's attack lines.
func (m *Monster) AttackMessage(r rng.Roller) string {
	return rng.Pick(r, []string{
		fmt.Sprintf("The %s lunges at you!", m.Name),
		fmt.Sprintf("The %s strikes with fury!", m.Name),
		fmt.Sprintf("The %s attacks viciously!", m.Name),
		fmt.Sprintf("The %s bares its claws and attacks!", m.Name),
	})
}

// DeathMessage returns one of the monster's death lines.
func (m *Monster) DeathMessage(r rng.Roller) string {
	return rng.Pick(r, []string{
		fmt.Sprintf("The %s falls to the ground, defeated.", m.Name),
		fmt.Sprintf("The %s lets out a final roar and collapses.", m.Name),
		fmt.Sprintf("The %s crumbles into dust.", m.Name),
		fmt.Sprintf("The %s retreats into the shadows, defeated.", m.Name),
	})
}
