// Package entity holds the things that exist in the world: item templates
// and the stacks that carry them, characters, monsters and NPCs.
package entity

import "fmt"

// EffectKind tags what an item does when used. The tag is assigned when the
// item template is created, never derived from the item's name at use time.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectHeal
	EffectBoostAttack
	EffectBoostDefense
	EffectExperience
	EffectTorch
	EffectCrystal
	EffectCompass
	EffectWaterskin
)

var effectNames = map[string]EffectKind{
	"":              EffectNone,
	"none":          EffectNone,
	"heal":          EffectHeal,
	"boost_attack":  EffectBoostAttack,
	"boost_defense": EffectBoostDefense,
	"experience":    EffectExperience,
	"torch":         EffectTorch,
	"crystal":       EffectCrystal,
	"compass":       EffectCompass,
	"waterskin":     EffectWaterskin,
}

// ParseEffectKind maps the effect tag used in world scripts to an EffectKind.
func ParseEffectKind(s string) (EffectKind, error) {
	k, ok := effectNames[s]
	if !ok {
		return EffectNone, fmt.Errorf("unknown item effect %q", s)
	}
	return k, nil
}

func (k EffectKind) String() string {
	for name, v := range effectNames {
		if v == k && name != "" && name != "none" {
			return name
		}
	}
	return "none"
}

// Effect is the use-behavior of an item. Amount is used by heals and
// boosts; Min and Max bound randomized yields.
type Effect struct {
	Kind   EffectKind
	Amount int
	Min    int
	Max    int
}

// Item is an immutable template. The same *Item is shared by every stack,
// room and shop that holds one; taking an item never copies it.
type Item struct {
	Name        string
	Description string
	CanTake     bool
	Stackable   bool
	Usable      bool
	GoldValue   int    // nonzero only for currency
	Refusal     string // custom message when CanTake is false
	Effect      Effect
}

// IsCurrency reports whether picking the item up credits gold.
func (it *Item) IsCurrency() bool {
	return it.GoldValue > 0
}

// ItemStack is an item and how many of it are held together.
// Quantity is always positive; a stack that reaches zero is removed.
type ItemStack struct {
	Item     *Item
	Quantity int
}

// Label renders the stack for listings: "torch" or "gold coins (x3)".
func (s *ItemStack) Label() string {
	if s.Quantity > 1 {
		return fmt.Sprintf("%s (x%d)", s.Item.Name, s.Quantity)
	}
	return s.Item.Name
}
