package items

import (
	"fmt"

	"github.com/b4fun/itemgraph-go/types"
)

func operandsOf(item *types.Item) []types.ItemRef {
	switch item.Combinator.Kind {
	case types.CombinatorSeq, types.CombinatorChoice:
		return []types.ItemRef{item.Combinator.Head, item.Combinator.Tail}
	default:
		return nil
	}
}

// Flatten restores the list view of a chain item: the chain's heads in
// order, skipping the Elide-classed links that chain expansion inserted.
// An Empty item flattens to no members; a terminal flattens to itself.
// A chain whose elided links loop back on themselves has no list view and
// is reported as an error.
func Flatten(ref types.ItemRef) ([]types.ItemRef, error) {
	item, ok := ref.Get()
	if !ok {
		return nil, fmt.Errorf("flatten: unbound item handle")
	}

	switch item.Combinator.Kind {
	case types.CombinatorEmpty:
		return nil, nil
	case types.CombinatorSeq, types.CombinatorChoice:
	default:
		return []types.ItemRef{ref}, nil
	}

	seen := map[types.ItemRef]bool{ref: true}
	members := []types.ItemRef{item.Combinator.Head}
	tail := item.Combinator.Tail
	for {
		if seen[tail] {
			return nil, fmt.Errorf("flatten: cyclic elided chain")
		}
		seen[tail] = true

		tailItem, ok := tail.Get()
		if !ok {
			return nil, fmt.Errorf("flatten: unbound item handle")
		}
		if tailItem.Class != types.ClassElide {
			// A named tail is a member in its own right, not a chain link.
			return append(members, tail), nil
		}
		switch tailItem.Combinator.Kind {
		case types.CombinatorSeq, types.CombinatorChoice:
			members = append(members, tailItem.Combinator.Head)
			tail = tailItem.Combinator.Tail
		case types.CombinatorEmpty:
			return members, nil
		default:
			return append(members, tail), nil
		}
	}
}

// WalkFunc is invoked once per reachable item. Returning an error stops
// the walk.
type WalkFunc func(ref types.ItemRef, item *types.Item) error

// Walk visits every item reachable from ref exactly once, pre-order, head
// before tail. Cycles are followed but never re-entered.
func Walk(ref types.ItemRef, fn WalkFunc) error {
	return walk(ref, fn, make(map[types.ItemRef]bool))
}

func walk(ref types.ItemRef, fn WalkFunc, seen map[types.ItemRef]bool) error {
	if seen[ref] {
		return nil
	}
	item, ok := ref.Get()
	if !ok {
		return fmt.Errorf("walk: unbound item handle")
	}
	seen[ref] = true

	if err := fn(ref, item); err != nil {
		return err
	}
	for _, child := range operandsOf(item) {
		if err := walk(child, fn, seen); err != nil {
			return err
		}
	}
	return nil
}

type refPair struct {
	a, b types.ItemRef
}

// Equal reports whether two item graphs are structurally equal: same
// combinator kinds and terminal bytes, same classes and names, and the
// same topology, including how cycles tie back. Handle identity between
// the graphs is irrelevant, so graphs from separate builds compare equal.
func Equal(a, b types.ItemRef) bool {
	return equal(a, b, make(map[refPair]bool))
}

func equal(a, b types.ItemRef, assumed map[refPair]bool) bool {
	if assumed[refPair{a, b}] {
		return true
	}

	itemA, okA := a.Get()
	itemB, okB := b.Get()
	if okA != okB {
		return false
	}
	if !okA {
		return true
	}

	if itemA.Class != itemB.Class || itemA.Name != itemB.Name {
		return false
	}
	if itemA.Combinator.Kind != itemB.Combinator.Kind {
		return false
	}
	if itemA.Combinator.Term != itemB.Combinator.Term {
		return false
	}

	// Assume the pair equal while comparing operands so cyclic references
	// compare as the cycles they are instead of recursing forever.
	assumed[refPair{a, b}] = true

	childrenA := operandsOf(itemA)
	childrenB := operandsOf(itemB)
	for i := range childrenA {
		if !equal(childrenA[i], childrenB[i], assumed) {
			return false
		}
	}
	return true
}
