package entity

// Topic is a set of lines an NPC says about one subject. Lines cycle in
// order unless Random is set. SetsFlag names a game flag raised whenever
// the topic is spoken.
type Topic struct {
	Lines    []string
	Random   bool
	SetsFlag string
}

// ShopEntry is a single purchasable unit in an NPC's shop.
type ShopEntry struct {
	Item  *Item
	Price int
}

// NPCTemplate describes an NPC placed by the world builder.
type NPCTemplate struct {
	ID          string
	Name        string
	Description string
	Health      int
	Attack      int
	Defense     int
	Topics      map[string]Topic
	Shop        []ShopEntry
}

// Spawn creates the NPC. Shop stock and dialogue positions are per instance.
func (t NPCTemplate) Spawn() *NPC {
	topics := make(map[string]Topic, len(t.Topics))
	for k, v := range t.Topics {
		topics[k] = v
	}
	return &NPC{
		Character:   *NewCharacter(t.Name, t.Health, t.Attack, t.Defense, 0),
		ID:          t.ID,
		Description: t.Description,
		Topics:      topics,
		Cursor:      map[string]int{},
		Shop:        append([]ShopEntry(nil), t.Shop...),
	}
}

// NPC is a non-hostile character with dialogue and an optional shop.
type NPC struct {
	Character
	ID          string
	Description string
	Topics      map[string]Topic
	Cursor      map[string]int // next line index per topic
	Shop        []ShopEntry
}

// HasShop reports whether the NPC has anything left to sell.
func (n *NPC) HasShop() bool {
	return len(n.Shop) > 0
}

// RemoveShopEntry deletes the entry at index i.
func (n *NPC) RemoveShopEntry(i int) {
	if i < 0 || i >= len(n.Shop) {
		return
	}
	n.Shop = append(n.Shop[:i], n.Shop[i+1:]...)
}
