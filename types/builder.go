package types

// ItemSet is the result of one build: the backing arena plus the handle of
// the item the root rule compiled to. It is a pure value once returned.
type ItemSet struct {
	arena *ItemArena
	root  ItemRef
}

// Root returns the handle of the root item.
func (s *ItemSet) Root() ItemRef {
	return s.root
}

// Len reports how many items the build allocated.
func (s *ItemSet) Len() int {
	return s.arena.Len()
}

func (s *ItemSet) String() string {
	return formatRef(s.root)
}

// itemKey identifies an item by structural content: combinator shape with
// operand handles, plus class. Display names are excluded; items with equal
// content are interchangeable to consumers that dispatch on shape.
type itemKey struct {
	combinator Combinator
	class      Class
}

type graphBuilder struct {
	arena   *ItemArena
	grammar *Grammar
	memo    map[string]ItemRef
	dedup   map[itemKey]ItemRef
}

// BuildItems compiles the root rule against the grammar into a fully
// resolved item graph. Each named rule's definition is expanded at most
// once; every further reference — including ones reached while that
// definition is still expanding — reuses the memoized handle. Construction
// is a depth-first, left-to-right walk of the rule tree and is not safe to
// run concurrently against a shared arena or grammar builder state.
func BuildItems(root Rule, grammar *Grammar) (*ItemSet, error) {
	b := &graphBuilder{
		arena:   NewItemArena(),
		grammar: grammar,
		memo:    make(map[string]ItemRef),
		dedup:   make(map[itemKey]ItemRef),
	}

	rootRef, err := b.resolve(DirectKey(root))
	if err != nil {
		return nil, err
	}

	return &ItemSet{arena: b.arena, root: rootRef}, nil
}

func (b *graphBuilder) resolve(key RuleKey) (ItemRef, error) {
	if key.Named() {
		return b.resolveNamed(key.name)
	}
	return b.resolveDirect(key.rule)
}

// resolveDirect expands an anonymous rule. The item is computed before any
// slot is reserved, so a structurally equal node already in the graph is
// reused outright instead of allocating a duplicate.
func (b *graphBuilder) resolveDirect(rule Rule) (ItemRef, error) {
	item, err := rule.BuildItem(b.resolve)
	if err != nil {
		return ItemRef{}, err
	}

	key := itemKey{combinator: item.Combinator, class: item.Class}
	if ref, ok := b.dedup[key]; ok {
		return ref, nil
	}

	ref := b.arena.Reserve().Bind(item)
	b.dedup[key] = ref
	return ref, nil
}

// resolveNamed expands a registered rule at most once per build. The
// forward cell is memoized under the name before the rule's definition is
// entered, so a self-reference that surfaces during the expansion finds the
// pending handle instead of re-entering construction. The grammar lookup
// happens before the cell is reserved; an unknown name allocates nothing.
func (b *graphBuilder) resolveNamed(name string) (ItemRef, error) {
	if ref, ok := b.memo[name]; ok {
		return ref, nil
	}

	rule, ok := b.grammar.Get(name)
	if !ok {
		return ItemRef{}, &ErrUnknownRule{Name: name}
	}

	cell := b.arena.Reserve()
	b.memo[name] = cell.Ref()

	item, err := rule.BuildItem(b.resolve)
	if err != nil {
		return ItemRef{}, err
	}

	ref := cell.Bind(item)
	key := itemKey{combinator: item.Combinator, class: item.Class}
	if _, ok := b.dedup[key]; !ok {
		b.dedup[key] = ref
	}
	return ref, nil
}
