package types

import "fmt"

// ItemArena owns every item created during one graph build. Allocation is
// two-phase: Reserve hands out a write-once cell together with a stable,
// copyable handle, so an item can be referenced before its value is known —
// including by the item's own combinator in the recursive case.
//
// An arena is exclusively owned by one in-flight build; it is not safe for
// concurrent use.
type ItemArena struct {
	slots []*Item
}

func NewItemArena() *ItemArena {
	return &ItemArena{}
}

// Reserve allocates a slot and returns its write-once cell.
func (a *ItemArena) Reserve() *ItemCell {
	a.slots = append(a.slots, nil)
	return &ItemCell{
		ref: ItemRef{arena: a, slot: len(a.slots) - 1},
	}
}

// Len reports how many slots have been reserved.
func (a *ItemArena) Len() int {
	return len(a.slots)
}

// ItemCell is the write side of a reserved slot. A cell binds its value
// exactly once; binding twice is a logic error and panics, leaving the
// first-bound value intact.
type ItemCell struct {
	ref   ItemRef
	bound bool
}

// Ref returns the read handle sharing the cell's identity. The handle is
// usable before Bind; Get reports the value as unavailable until then.
func (c *ItemCell) Ref() ItemRef {
	return c.ref
}

// Bind supplies the slot's value and returns the read handle.
func (c *ItemCell) Bind(item Item) ItemRef {
	if c.bound {
		panic(fmt.Sprintf("item cell for slot %d is already bound", c.ref.slot))
	}
	c.bound = true
	c.ref.arena.slots[c.ref.slot] = &item
	return c.ref
}

// ItemRef is a copyable handle to an arena slot. Handles are comparable:
// two handles are equal exactly when they address the same slot of the
// same arena. The zero value is a handle to nothing.
type ItemRef struct {
	arena *ItemArena
	slot  int
}

// Get returns the bound item, or false while the slot is reserved but not
// yet bound (or for the zero handle).
func (r ItemRef) Get() (*Item, bool) {
	if r.arena == nil {
		return nil, false
	}
	item := r.arena.slots[r.slot]
	if item == nil {
		return nil, false
	}
	return item, true
}
