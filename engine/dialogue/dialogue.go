// Package dialogue implements the NPC topic system.
package dialogue

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/lyre/engine/entity"
	"github.com/nathoo/lyre/engine/rng"
)

// DefaultTopic is used when the player names no topic, and as the
// fallback for topics the NPC knows nothing about.
const DefaultTopic = "default"

// Speak returns the NPC's next line on topic and the flag the topic raises,
// if any. Sequential topics advance a per-topic cursor and wrap around.
func Speak(npc *entity.NPC, topic string, r rng.Roller) (string, string) {
	key := strings.ToLower(strings.TrimSpace(topic))
	if key == "" {
		key = DefaultTopic
	}
	t, ok := npc.Topics[key]
	if !ok {
		key = DefaultTopic
		t, ok = npc.Topics[key]
	}
	if !ok || len(t.Lines) == 0 {
		return fmt.Sprintf("%s has nothing to say.", npc.Name), ""
	}

	var line string
	if t.Random {
		line = rng.Pick(r, t.Lines)
	} else {
		i := npc.Cursor[key] % len(t.Lines)
		line = t.Lines[i]
		npc.Cursor[key] = (i + 1) % len(t.Lines)
	}
	return fmt.Sprintf("%s says: \"%s\"", npc.Name, line), t.SetsFlag
}

// Topics returns the NPC's topic keys in sorted order.
func Topics(npc *entity.NPC) []string {
	keys := make([]string, 0, len(npc.Topics))
	for k := range npc.Topics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
