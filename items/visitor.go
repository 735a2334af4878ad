package items

import (
	"fmt"
	"strings"

	"github.com/b4fun/itemgraph-go/types"
)

// ItemVisitFunc visits one item together with the results of visiting the
// items its combinator references. Items reached more than once on a walk
// are visited once; later occurrences contribute a nil child result.
type ItemVisitFunc func(ref types.ItemRef, item *types.Item, children []any) (any, error)

// ItemVisitorMux dispatches item visits by item name.
type ItemVisitorMux struct {
	visitors     map[string]ItemVisitFunc
	defaultVisit ItemVisitFunc
}

// ItemVisitorMuxOpt configures an ItemVisitorMux.
type ItemVisitorMuxOpt func(*ItemVisitorMux)

// WithDefaultItemVisitFunc sets the default visit function.
func WithDefaultItemVisitFunc(f ItemVisitFunc) ItemVisitorMuxOpt {
	return func(mux *ItemVisitorMux) {
		mux.defaultVisit = f
	}
}

func DefaultItemVisitor(ref types.ItemRef, item *types.Item, children []any) (any, error) {
	if len(children) > 0 {
		return children, nil
	}

	return item, nil
}

// NewItemVisitorMux creates an ItemVisitorMux instance.
func NewItemVisitorMux(opts ...ItemVisitorMuxOpt) *ItemVisitorMux {
	rv := &ItemVisitorMux{
		visitors:     make(map[string]ItemVisitFunc),
		defaultVisit: DefaultItemVisitor,
	}

	for _, opt := range opts {
		opt(rv)
	}

	return rv
}

func (mux *ItemVisitorMux) HandleItem(
	name string,
	f ItemVisitFunc,
) *ItemVisitorMux {
	if _, exists := mux.visitors[name]; exists {
		panic(fmt.Sprintf("duplicated visitor for %q", name))
	}

	mux.visitors[name] = f
	return mux
}

func (mux *ItemVisitorMux) Visit(ref types.ItemRef) (any, error) {
	return mux.visit(ref, make(map[types.ItemRef]bool))
}

func (mux *ItemVisitorMux) visit(ref types.ItemRef, seen map[types.ItemRef]bool) (any, error) {
	if seen[ref] {
		return nil, nil
	}
	item, ok := ref.Get()
	if !ok {
		return nil, fmt.Errorf("visit: unbound item handle")
	}
	seen[ref] = true

	operands := operandsOf(item)
	children := make([]any, 0, len(operands))
	for _, child := range operands {
		c, err := mux.visit(child, seen)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}

	visitor, ok := mux.visitors[item.Name]
	if !ok {
		visitor = mux.defaultVisit
	}

	return visitor(ref, item, children)
}

func combinatorLabel(c types.Combinator) string {
	if c.Kind == types.CombinatorTerm {
		return fmt.Sprintf("term(%d)", c.Term)
	}
	return c.Kind.String()
}

// Dump renders the graph reachable from ref as an indented tree. Items
// reached a second time render as a back reference by name.
func Dump(ref types.ItemRef) string {
	sb := new(strings.Builder)
	seen := make(map[types.ItemRef]bool)

	var dump func(ref types.ItemRef, indent int)

	dump = func(ref types.ItemRef, indent int) {
		sb.WriteString(strings.Repeat(" ", indent))

		item, ok := ref.Get()
		if !ok {
			sb.WriteString("<unbuilt>\n")
			return
		}
		if seen[ref] {
			fmt.Fprintf(sb, "&%s\n", item.Name)
			return
		}
		seen[ref] = true

		fmt.Fprintf(sb, "%s class=%s name=%q\n", combinatorLabel(item.Combinator), item.Class, item.Name)

		for _, child := range operandsOf(item) {
			dump(child, indent+2)
		}
	}

	dump(ref, 0)

	return sb.String()
}
