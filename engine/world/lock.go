package world

import "fmt"

// LockKind selects how a locked exit is opened.
type LockKind int

const (
	LockPlain        LockKind = iota + 1 // opened with a lockpick
	LockRPS                              // rock-paper-scissors door
	LockInspectCabin                     // cleared by inspecting the cabin
	LockVaultPuzzle                      // apple then key in the vault
	LockWhiteKing                        // white king placed in the temple
	LockItem                             // passable while Key is held
)

var lockTags = map[string]LockKind{
	"true":          LockPlain,
	"plain":         LockPlain,
	"rps":           LockRPS,
	"inspect_cabin": LockInspectCabin,
	"vault_puzzle":  LockVaultPuzzle,
	"white_king":    LockWhiteKing,
}

// Lock is the token stored on a locked exit.
type Lock struct {
	Kind LockKind
	Key  string // item name, for LockItem
}

// ParseLock maps a lock token from world data. Known tags select a
// mechanism; any other non-empty token names a key item.
func ParseLock(token string) (Lock, bool) {
	if token == "" || token == "false" {
		return Lock{}, false
	}
	if k, ok := lockTags[token]; ok {
		return Lock{Kind: k}, true
	}
	return Lock{Kind: LockItem, Key: token}, true
}

// Token is the inverse of ParseLock.
func (l Lock) Token() string {
	switch l.Kind {
	case LockPlain:
		return "plain"
	case LockRPS:
		return "rps"
	case LockInspectCabin:
		return "inspect_cabin"
	case LockVaultPuzzle:
		return "vault_puzzle"
	case LockWhiteKing:
		return "white_king"
	case LockItem:
		return l.Key
	}
	return ""
}

func (l Lock) String() string {
	if l.Kind == LockItem {
		return fmt.Sprintf("item(%s)", l.Key)
	}
	return l.Token()
}
