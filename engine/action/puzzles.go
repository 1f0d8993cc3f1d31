package action

import (
	"fmt"

	"github.com/nathoo/lyre/engine/entity"
	"github.com/nathoo/lyre/engine/events"
	"github.com/nathoo/lyre/engine/state"
	"github.com/nathoo/lyre/engine/world"
)

// Room and NPC IDs the puzzles refer to.
const (
	roomCabin   = "cabin"
	npcGrebgela = "grebgela"
)

type lockFunc func(s *state.Session, l world.Lock) (msg string, pass bool)

// lockHandlers decides what happens when the player walks into a locked
// exit. Every lock kind has an entry.
var lockHandlers = map[world.LockKind]lockFunc{
	world.LockPlain: func(*state.Session, world.Lock) (string, bool) {
		return "That way is locked.", false
	},
	world.LockRPS: func(s *state.Session, _ world.Lock) (string, bool) {
		s.Interaction = state.InteractionRPSPrompt
		return "The door will not budge. The hand, the stone and the parchment on the inscription glow faintly. Do you try your luck? (yes or no)", false
	},
	world.LockInspectCabin: func(*state.Session, world.Lock) (string, bool) {
		return "The cabin door is shut tight. Perhaps you should take a closer look at the cabin.", false
	},
	world.LockVaultPuzzle: func(*state.Session, world.Lock) (string, bool) {
		return "The great iron door is sealed. There is no handle and no keyhole, only the etching of the tree.", false
	},
	world.LockWhiteKing: func(*state.Session, world.Lock) (string, bool) {
		return "A stone chessboard is carved into the door. One square stands empty, waiting for a piece.", false
	},
	world.LockItem: func(s *state.Session, l world.Lock) (string, bool) {
		if s.Player.Inventory.Has(l.Key) {
			return "", true
		}
		if msg, ok := keyRefusals[l.Key]; ok {
			return msg, false
		}
		return "Something bars your way. You sense you are missing something.", false
	},
}

var keyRefusals = map[string]string{
	"blue feather": "A fierce wind howls out of the crevice and drives you back. The vines whip about as if guarding the way. Perhaps something light and nimble could ride the wind.",
}

func (h *Handler) checkLock(s *state.Session, l world.Lock) (string, bool) {
	fn, ok := lockHandlers[l.Kind]
	if !ok {
		s.Log.Printf("lock: no handler for kind %v", l)
		return "That way is locked.", false
	}
	return fn(s, l)
}

type stackFunc func(s *state.Session, stack *entity.ItemStack) string

// inspectSpecials are items that change the room when inspected.
var inspectSpecials = map[string]stackFunc{
	"coin purse": func(s *state.Session, stack *entity.ItemStack) string {
		return replaceInRoom(s, stack, "gold coins", 10,
			"You tip open the coin purse. Ten gold coins spill out onto the floor!")
	},
	"blue feather hand fan": func(s *state.Session, stack *entity.ItemStack) string {
		return replaceInRoom(s, stack, "blue feather", 1,
			"You unfold the hand fan. A single brilliant blue feather comes loose and drifts to the floor.")
	},
	"dented helmet": func(s *state.Session, stack *entity.ItemStack) string {
		return revealOnce(s, state.FlagHelmetSearched, "coin purse",
			"You rummage through the pile of dented helmets. Tucked inside one of them is a small coin purse!",
			"Just a pile of dented old helmets. You've already checked them.")
	},
	"fruit bowl": func(s *state.Session, stack *entity.ItemStack) string {
		return revealOnce(s, state.FlagFruitBowlSearched, "red apple",
			"You sort through the fruit bowl. Most of it has seen better days, but one red apple is perfect, almost glowing. You set it aside.",
			"The rest of the fruit is bruised and past its prime.")
	},
}

func replaceInRoom(s *state.Session, stack *entity.ItemStack, with string, qty int, text string) string {
	item, ok := s.World.Item(with)
	if !ok {
		s.Log.Printf("inspect: item %q missing from catalog", with)
		return stack.Item.Description
	}
	s.Current.Items.Take(stack, 1)
	s.Current.Items.Add(item, qty)
	return text
}

func revealOnce(s *state.Session, flag, reveal, first, after string) string {
	if s.Flag(flag) {
		return after
	}
	item, ok := s.World.Item(reveal)
	if !ok {
		s.Log.Printf("inspect: item %q missing from catalog", reveal)
		return after
	}
	s.SetFlag(flag, true)
	s.Current.Items.Add(item, 1)
	return first
}

// scenery are nouns that are not items but react to inspect.
var scenery = map[string]func(s *state.Session) (string, bool){
	"cabin": func(s *state.Session) (string, bool) {
		if dir, ok := s.Current.LockedDirection(world.LockInspectCabin); ok {
			s.Current.Unlock(dir, s.World)
			return "You take a closer look at the cabin. The door isn't locked at all, merely swollen with damp. With a firm shove it scrapes open.", true
		}
		if s.Current.ID == roomCabin {
			return "Rough log walls, a cold hearth and a single window fogged with grime. Someone left in a hurry.", true
		}
		for _, d := range s.Current.Exits() {
			if to, _ := s.Current.Exit(d); to == roomCabin {
				return "A rustic cabin with a sagging roof. Its door stands open.", true
			}
		}
		return "", false
	},
}

// takeSpecials bypass the quantity rules of take.
var takeSpecials = map[string]stackFunc{
	"crystal": func(s *state.Session, stack *entity.ItemStack) string {
		item := stack.Item
		s.Current.Items.Take(stack, 1)
		s.Player.Inventory.Add(item, 1)
		if s.Flag(state.FlagDenActive) {
			return fmt.Sprintf("You take the %s.", item.Name)
		}
		s.SetFlag(state.FlagDenActive, true)
		s.SetCounter(state.CounterDenState, 0)
		s.Log.Printf("den activated in %s", s.Current.ID)
		return "As you lift the crystal from its cradle, the walls of the chamber flicker and shift. Light races through the thousands of crystals around you. The den seems restless now."
	},
}

func (h *Handler) takeTreasure(s *state.Session, stack *entity.ItemStack) string {
	item := stack.Item
	s.Current.Items.Take(stack, stack.Quantity)
	s.Player.Inventory.Add(item, 1)
	s.Log.Printf("treasure %q taken", item.Name)
	s.Emit(events.Event{Kind: events.Won, Title: s.World.Title, Message: s.World.Victory})
	return " "
}

type useFunc func(s *state.Session, stack *entity.ItemStack) (string, bool)

// usePuzzles run before an item's own effect. Returning false falls
// through to the effect.
var usePuzzles = map[string]useFunc{
	"red apple": func(s *state.Session, stack *entity.ItemStack) (string, bool) {
		if _, ok := s.Current.LockedDirection(world.LockVaultPuzzle); !ok {
			return "", false
		}
		s.Player.Inventory.Take(stack, 1)
		s.SetFlag(state.FlagVaultAppleUsed, true)
		return "You press the red apple into the dark hollow of the etched tree. It fits perfectly. The glow deepens to a rich violet and begins to pulse, slow and steady, like a heartbeat.", true
	},
	"blue key": func(s *state.Session, stack *entity.ItemStack) (string, bool) {
		dir, ok := s.Current.LockedDirection(world.LockVaultPuzzle)
		if !ok {
			return "", false
		}
		if !s.Flag(state.FlagVaultAppleUsed) {
			return "You hold the blue key against the etching. Nothing happens. The tree seems to be waiting for something else first.", true
		}
		s.SetFlag(state.FlagVaultAppleUsed, false)
		s.Player.Inventory.Take(stack, 1)
		s.Current.Description = vaultOpened
		unlocked := s.Current.Unlock(dir, s.World)
		return "You lay the sapphire key in the empty nest among the branches. The purple light flares, the etched tree splits down its trunk, and with a deep grinding of iron the great door rolls aside.\n\n" + unlocked, true
	},
	"white king": func(s *state.Session, stack *entity.ItemStack) (string, bool) {
		dir, ok := s.Current.LockedDirection(world.LockWhiteKing)
		if !ok {
			return "", false
		}
		s.Player.Inventory.Take(stack, 1)
		s.Current.Description = templeAwakened
		unlocked := s.Current.Unlock(dir, s.World)
		return "You set the white king on the empty square. Stone scrapes against stone as the pieces on the board rearrange themselves into a finished game.\n\n" + unlocked, true
	},
	"ornate compass": func(s *state.Session, stack *entity.ItemStack) (string, bool) {
		if !s.Flag(state.FlagCompassQuest) {
			return "", false
		}
		var greb *entity.NPC
		for _, n := range s.Current.NPCs {
			if n.ID == npcGrebgela {
				greb = n
			}
		}
		if greb == nil {
			return "", false
		}
		s.Player.Inventory.Take(stack, 1)
		s.SetFlag(state.FlagCompassQuest, false)
		s.Player.Gold += 40
		text := fmt.Sprintf("You hand the ornate compass to %s. His eyes go wide and he clutches it to his chest. \"Me compass! Here, take this for your trouble!\" He presses 40 gold into your hand.", greb.Name)
		if potion, ok := s.World.Item("super potion"); ok {
			s.Player.Inventory.Add(potion, 1)
			text += " He adds a super potion for good measure."
		}
		return text, true
	},
}

const vaultOpened = "The massive circular iron door stands open, split down the trunk of its etched tree. The purple glow has faded to a warm, steady light, and beyond the door a narrow stair descends into the heart of the labyrinth."

const templeAwakened = "An eerie silence hangs in this grand temple. The faded murals seem sharper now, the forgotten gods watching you with something like approval. A stone chessboard set into the eastern door shows a finished game."
