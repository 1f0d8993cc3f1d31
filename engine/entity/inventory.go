package entity

import (
	"strings"

	"github.com/nathoo/lyre/engine/resolve"
)

// Inventory is an ordered collection of item stacks. It backs both the
// player's pack and a room's floor. Stackable items merge by name;
// non-stackable items are always held as separate stacks of one.
type Inventory struct {
	stacks []*ItemStack
}

// Add puts qty units of item into the inventory. qty < 1 is ignored.
func (inv *Inventory) Add(item *Item, qty int) {
	if item == nil || qty < 1 {
		return
	}
	if item.Stackable {
		for _, s := range inv.stacks {
			if strings.EqualFold(s.Item.Name, item.Name) {
				s.Quantity += qty
				return
			}
		}
		inv.stacks = append(inv.stacks, &ItemStack{Item: item, Quantity: qty})
		return
	}
	for i := 0; i < qty; i++ {
		inv.stacks = append(inv.stacks, &ItemStack{Item: item, Quantity: 1})
	}
}

// Take removes up to qty units from the given stack and returns how many
// were removed. The stack is dropped from the inventory when it empties.
func (inv *Inventory) Take(stack *ItemStack, qty int) int {
	idx := inv.indexOf(stack)
	if idx < 0 || qty < 1 {
		return 0
	}
	n := qty
	if n > stack.Quantity {
		n = stack.Quantity
	}
	stack.Quantity -= n
	if stack.Quantity == 0 {
		inv.stacks = append(inv.stacks[:idx], inv.stacks[idx+1:]...)
	}
	return n
}

// TakeNamed removes up to qty units of the named item (exact name match)
// across every stack holding it, oldest first. Returns the units removed.
func (inv *Inventory) TakeNamed(name string, qty int) int {
	removed := 0
	kept := inv.stacks[:0]
	for _, s := range inv.stacks {
		if removed < qty && strings.EqualFold(s.Item.Name, name) {
			n := min(qty-removed, s.Quantity)
			s.Quantity -= n
			removed += n
		}
		if s.Quantity > 0 {
			kept = append(kept, s)
		}
	}
	clear(inv.stacks[len(kept):])
	inv.stacks = kept
	return removed
}

// Find resolves a partial name to a stack.
func (inv *Inventory) Find(query string) (*ItemStack, bool) {
	s, _, ok := resolve.Find(query, inv.stacks, stackName)
	return s, ok
}

// Has reports whether an item with exactly this name is held.
func (inv *Inventory) Has(name string) bool {
	return inv.Count(name) > 0
}

// Count sums the units held of the named item.
func (inv *Inventory) Count(name string) int {
	n := 0
	for _, s := range inv.stacks {
		if strings.EqualFold(s.Item.Name, name) {
			n += s.Quantity
		}
	}
	return n
}

// Stacks returns the stacks in order. The slice is a copy; the stacks are not.
func (inv *Inventory) Stacks() []*ItemStack {
	out := make([]*ItemStack, len(inv.stacks))
	copy(out, inv.stacks)
	return out
}

// Len returns the number of stacks.
func (inv *Inventory) Len() int {
	return len(inv.stacks)
}

// Clear empties the inventory.
func (inv *Inventory) Clear() {
	inv.stacks = nil
}

// Labels renders every stack with quantity annotations.
func (inv *Inventory) Labels() []string {
	out := make([]string, 0, len(inv.stacks))
	for _, s := range inv.stacks {
		out = append(out, s.Label())
	}
	return out
}

func (inv *Inventory) indexOf(stack *ItemStack) int {
	for i, s := range inv.stacks {
		if s == stack {
			return i
		}
	}
	return -1
}

func stackName(s *ItemStack) string {
	return s.Item.Name
}
