package entity

import "testing"

var (
	potion = &Item{Name: "potion", Stackable: true, CanTake: true, Usable: true}
	coins  = &Item{Name: "gold coins", Stackable: true, CanTake: true, GoldValue: 1}
	sword  = &Item{Name: "sword", CanTake: true, Usable: true}
)

func TestInventory_StackableMerges(t *testing.T) {
	var inv Inventory
	inv.Add(potion, 2)
	inv.Add(potion, 3)

	if inv.Len() != 1 {
		t.Fatalf("expected 1 stack, got %d", inv.Len())
	}
	if inv.Count("potion") != 5 {
		t.Errorf("expected 5 potions, got %d", inv.Count("potion"))
	}
}

func TestInventory_NonStackableUnits(t *testing.T) {
	var inv Inventory
	inv.Add(sword, 2)

	if inv.Len() != 2 {
		t.Fatalf("expected 2 separate stacks, got %d", inv.Len())
	}
	for _, s := range inv.Stacks() {
		if s.Quantity != 1 {
			t.Errorf("non-stackable stack has quantity %d", s.Quantity)
		}
	}
}

func TestInventory_TakeRemovesEmptyStack(t *testing.T) {
	var inv Inventory
	inv.Add(potion, 3)
	s, _ := inv.Find("potion")

	if n := inv.Take(s, 2); n != 2 {
		t.Errorf("expected 2 taken, got %d", n)
	}
	if n := inv.Take(s, 5); n != 1 {
		t.Errorf("expected only 1 left to take, got %d", n)
	}
	if inv.Len() != 0 {
		t.Errorf("expected empty inventory, got %d stacks", inv.Len())
	}
	if n := inv.Take(s, 1); n != 0 {
		t.Errorf("taking from a removed stack should yield 0, got %d", n)
	}
}

func TestInventory_QuantitiesStayPositive(t *testing.T) {
	var inv Inventory
	inv.Add(potion, 1)
	inv.Add(coins, 0)
	inv.Add(coins, -3)

	if inv.Len() != 1 {
		t.Fatalf("non-positive adds should be ignored, got %d stacks", inv.Len())
	}
	inv.TakeNamed("potion", 1)
	for _, s := range inv.Stacks() {
		if s.Quantity <= 0 {
			t.Fatalf("found stack with quantity %d", s.Quantity)
		}
	}
	if n := inv.TakeNamed("potion", 1); n != 0 {
		t.Errorf("taking a missing item should remove nothing, got %d", n)
	}
}

func TestInventory_TakeNamedSpansStacks(t *testing.T) {
	var inv Inventory
	inv.Add(sword, 3)
	inv.Add(potion, 4)

	if n := inv.TakeNamed("sword", 2); n != 2 {
		t.Errorf("expected 2 swords removed, got %d", n)
	}
	if inv.Count("sword") != 1 {
		t.Errorf("expected 1 sword left, got %d", inv.Count("sword"))
	}
	if n := inv.TakeNamed("sword", 5); n != 1 {
		t.Errorf("expected the last sword removed, got %d", n)
	}
	if inv.Has("sword") || inv.Count("potion") != 4 {
		t.Errorf("unexpected contents: %v", inv.Labels())
	}
}

func TestInventory_Labels(t *testing.T) {
	var inv Inventory
	inv.Add(coins, 3)
	inv.Add(sword, 1)

	labels := inv.Labels()
	if len(labels) != 2 || labels[0] != "gold coins (x3)" || labels[1] != "sword" {
		t.Errorf("unexpected labels: %v", labels)
	}
}
