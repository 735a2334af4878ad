package types

import (
	"fmt"
)

// Class tags how a consumer should treat an item when interpreting the
// graph: Normal items are named and visible, Passthrough items forward the
// classification of their children, and Elide items are structural fillers
// inserted by chain expansion that a consumer flattens through.
type Class uint8

const (
	ClassNormal Class = iota
	ClassPassthrough
	ClassElide
)

func (c Class) String() string {
	switch c {
	case ClassNormal:
		return "normal"
	case ClassPassthrough:
		return "passthrough"
	case ClassElide:
		return "elide"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// CombinatorKind discriminates the structural shape of an item.
type CombinatorKind uint8

const (
	CombinatorEmpty CombinatorKind = iota
	CombinatorTerm
	CombinatorSeq
	// CombinatorChoice and CombinatorDone are reserved shapes for the
	// recognizer; rule expansion never produces them today.
	CombinatorChoice
	CombinatorDone
)

func (k CombinatorKind) String() string {
	switch k {
	case CombinatorEmpty:
		return "empty"
	case CombinatorTerm:
		return "term"
	case CombinatorSeq:
		return "seq"
	case CombinatorChoice:
		return "choice"
	case CombinatorDone:
		return "done"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Combinator is the structural shape of an item. Head and Tail are only
// meaningful for the Seq and Choice kinds, Term only for the Term kind.
// Combinators are plain comparable values: two combinators are equal when
// their kinds, operand handles, and terminal bytes are equal.
type Combinator struct {
	Kind CombinatorKind
	Head ItemRef
	Tail ItemRef
	Term byte
}

func (c Combinator) String() string {
	switch c.Kind {
	case CombinatorSeq:
		return formatRef(c.Head) + " " + formatRef(c.Tail)
	case CombinatorChoice:
		return formatRef(c.Head) + "|" + formatRef(c.Tail)
	case CombinatorTerm:
		return fmt.Sprintf("(%d)", c.Term)
	case CombinatorDone:
		return "i"
	case CombinatorEmpty:
		return "e"
	default:
		return fmt.Sprintf("<%s>", c.Kind)
	}
}

func formatRef(r ItemRef) string {
	item, ok := r.Get()
	if !ok {
		return "<unbuilt>"
	}
	return item.String()
}

// Item is the materialized graph node a rule compiles to. Items are never
// mutated after being bound into an arena; a built graph is a pure value.
type Item struct {
	Combinator Combinator
	Class      Class
	// Name is the display name for Normal items.
	Name string
}

// String renders Normal items by name only; recursion through named items
// therefore terminates even when the graph is cyclic.
func (i Item) String() string {
	if i.Class == ClassNormal {
		return fmt.Sprintf("[%s]", i.Name)
	}
	return i.Combinator.String()
}
