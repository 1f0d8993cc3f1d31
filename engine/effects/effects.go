// Package effects implements item use. Each item carries a tagged Effect
// assigned when its template is built; Apply dispatches on that tag.
package effects

import (
	"fmt"

	"github.com/nathoo/lyre/engine/entity"
	"github.com/nathoo/lyre/engine/rng"
)

// Outcome is the result of using an item. Consumed tells the caller to
// remove one unit from the stack the item was used from.
type Outcome struct {
	Text     string
	Consumed bool
}

// Apply uses item on behalf of p. roomName is the display name of the room
// the player stands in, or "" during battle.
func Apply(item *entity.Item, p *entity.Player, roomName string, r rng.Roller) Outcome {
	if !item.Usable {
		return Outcome{Text: fmt.Sprintf("The %s cannot be used.", item.Name)}
	}

	eff := item.Effect
	switch eff.Kind {
	case entity.EffectHeal:
		restored := p.Heal(eff.Amount)
		return Outcome{
			Text: fmt.Sprintf("You drink the %s and feel refreshed. You recover %d health. (%d/%d)",
				item.Name, restored, p.Health, p.MaxHealth),
			Consumed: true,
		}

	case entity.EffectBoostAttack:
		p.Attack += eff.Amount
		return Outcome{
			Text:     fmt.Sprintf("You feel more confident with the %s in hand. Your attack power increases by %d!", item.Name, eff.Amount),
			Consumed: true,
		}

	case entity.EffectBoostDefense:
		p.Defense += eff.Amount
		return Outcome{
			Text:     fmt.Sprintf("You put on the %s. Your defense increases by %d!", item.Name, eff.Amount),
			Consumed: true,
		}

	case entity.EffectExperience:
		gained := rng.Between(r, eff.Min, eff.Max)
		text := fmt.Sprintf("You unwrap the %s and eat it. A strange warmth spreads through you. You gain %d experience.", item.Name, gained)
		if levels := p.GainExperience(gained); len(levels) > 0 {
			text += "\n" + entity.LevelUpText(levels)
		}
		return Outcome{Text: text, Consumed: true}

	case entity.EffectTorch, entity.EffectCrystal, entity.EffectCompass, entity.EffectWaterskin:
		return Outcome{Text: narrative(eff.Kind, roomName)}
	}

	return Outcome{Text: fmt.Sprintf("You use the %s, but nothing happens.", item.Name)}
}

// narratives holds room-dependent text per effect kind. The "" key is the
// fallback used in any other room, and in battle.
var narratives = map[entity.EffectKind]map[string]string{
	entity.EffectTorch: {
		"":                  "The torch illuminates the area, revealing hidden details in the shadows.",
		"Rock Crevice":      "You hold the torch into the crevice. The vines part around a passage, and a faint draught carries the smell of water and feathers.",
		"Hidden Cavern":     "Torchlight dances across the damp walls. Scratched beside the heavy door is a crude drawing of a temple.",
		"The Mercurial Den": "The crystals drink in the torchlight and throw it back a hundredfold. For a moment the walls seem to shift.",
	},
	entity.EffectCrystal: {
		"":                  "The crystal pulses with energy, and you feel your strength renewed.",
		"The Mercurial Den": "The crystal hums in harmony with the walls around you. Somewhere in the den, something answers.",
		"The Vault":         "The crystal flickers in time with the purple glow of the etching, then falls dark.",
	},
	entity.EffectCompass: {
		"":                     "The needle of the compass spins lazily, refusing to settle on any direction.",
		"The Forgotten Temple": "The needle swings wildly, then points firmly at the faded murals.",
		"Greb's Grotto":        "The needle twitches towards Grebgela's counter. He pretends not to notice.",
	},
	entity.EffectWaterskin: {
		"":             "You take a long drink of cool, clean water.",
		"Haven Shield": "You refill the waterskin at the lake's edge and drink deeply. The water is impossibly clear.",
	},
}

func narrative(kind entity.EffectKind, roomName string) string {
	texts := narratives[kind]
	if t, ok := texts[roomName]; ok {
		return t
	}
	return texts[""]
}
