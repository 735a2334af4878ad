package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRule counts how many times its definition is expanded.
type countingRule struct {
	inner  Rule
	builds int
}

func (r *countingRule) BuildItem(resolve Resolver) (Item, error) {
	r.builds++
	return r.inner.BuildItem(resolve)
}

// chainMemberRefs is chainMembers over handles instead of items.
func chainMemberRefs(t testing.TB, root *Item) []ItemRef {
	t.Helper()

	var members []ItemRef
	current := root
	for {
		switch current.Combinator.Kind {
		case CombinatorEmpty:
			return members
		case CombinatorSeq:
			members = append(members, current.Combinator.Head)
			current = mustItem(t, current.Combinator.Tail)
		default:
			t.Fatalf("unexpected combinator kind %s in chain", current.Combinator.Kind)
		}
	}
}

func Test_BuildItems_NamedRuleResolvedOnce(t *testing.T) {
	counted := &countingRule{inner: NewTerminal('x')}

	grammar := NewGrammar()
	grammar.Put("x", counted)

	root := NewSequence("root", []RuleKey{
		NamedKey("x"),
		NamedKey("x"),
		NamedKey("x"),
	})

	set, err := BuildItems(root, grammar)
	require.NoError(t, err)

	assert.Equal(t, 1, counted.builds)

	members := chainMemberRefs(t, mustItem(t, set.Root()))
	require.Len(t, members, 3)
	assert.Equal(t, members[0], members[1])
	assert.Equal(t, members[1], members[2])
}

func Test_BuildItems_UnknownRuleName(t *testing.T) {
	root := NewSequence("root", []RuleKey{NamedKey("undefined")})

	set, err := BuildItems(root, NewGrammar())
	assert.Nil(t, set)
	require.Error(t, err)

	var unknown *ErrUnknownRule
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "undefined", unknown.Name)
}

func Test_BuildItems_PutReplaces(t *testing.T) {
	grammar := NewGrammar()
	grammar.Put("r", NewTerminal('a'))
	grammar.Put("r", NewTerminal('b'))
	assert.Equal(t, 1, grammar.Len())

	set, err := BuildItems(NewSequence("root", []RuleKey{NamedKey("r")}), grammar)
	require.NoError(t, err)

	members := chainMemberRefs(t, mustItem(t, set.Root()))
	require.Len(t, members, 1)
	assert.Equal(t, byte('b'), mustItem(t, members[0]).Combinator.Term)
}

func Test_BuildItems_DeduplicatesEqualItems(t *testing.T) {
	// Two anonymous terminals with equal content collapse to one node.
	root := NewSequence("root", []RuleKey{
		DirectKey(NewTerminal('a')),
		DirectKey(NewTerminal('a')),
		DirectKey(NewTerminal('b')),
	})

	set, err := BuildItems(root, NewGrammar())
	require.NoError(t, err)

	members := chainMemberRefs(t, mustItem(t, set.Root()))
	require.Len(t, members, 3)
	assert.Equal(t, members[0], members[1])
	assert.NotEqual(t, members[0], members[2])
}

func Test_BuildItems_SharedEmptyTail(t *testing.T) {
	// Every chain ends in the same elided Empty node.
	root := NewSequence("root", []RuleKey{
		DirectKey(NewSequence("left", []RuleKey{DirectKey(NewTerminal('l'))})),
		DirectKey(NewSequence("right", []RuleKey{DirectKey(NewTerminal('r'))})),
	})

	set, err := BuildItems(root, NewGrammar())
	require.NoError(t, err)

	members := chainMemberRefs(t, mustItem(t, set.Root()))
	require.Len(t, members, 2)

	left := mustItem(t, members[0])
	right := mustItem(t, members[1])
	assert.Equal(t, left.Combinator.Tail, right.Combinator.Tail)
}

// calculatorGrammar is the polynomial grammar:
//
//	poly = mono | "2" "+" poly
//	mono = "2" | "2" "*" mono
func calculatorGrammar() (Rule, *Grammar) {
	two := NewTerminal('2')
	plus := NewTerminal('+')
	times := NewTerminal('*')

	mono := NewChoice("mono", []RuleKey{
		DirectKey(two),
		DirectKey(NewSequence("mono_complex", []RuleKey{
			DirectKey(two),
			DirectKey(times),
			NamedKey("mono"),
		})),
	})
	poly := NewChoice("poly", []RuleKey{
		NamedKey("mono"),
		DirectKey(NewSequence("poly_complex", []RuleKey{
			DirectKey(two),
			DirectKey(plus),
			NamedKey("poly"),
		})),
	})

	grammar := NewGrammar()
	grammar.Put("mono", mono)
	grammar.Put("poly", poly)

	return poly, grammar
}

func Test_BuildItems_RecursiveGrammarTerminates(t *testing.T) {
	poly, grammar := calculatorGrammar()

	set, err := BuildItems(poly, grammar)
	require.NoError(t, err)

	root := mustItem(t, set.Root())
	assert.Equal(t, ClassNormal, root.Class)
	assert.Equal(t, "poly", root.Name)
	assert.Equal(t, CombinatorSeq, root.Combinator.Kind)
	assert.Equal(t, "[poly]", set.String())

	// The cycle is represented, not unrolled: the recursive reference deep
	// inside poly_complex resolves to the poly node itself.
	alternatives := chainMemberRefs(t, root)
	require.Len(t, alternatives, 2)

	polyComplex := mustItem(t, alternatives[1])
	assert.Equal(t, "poly_complex", polyComplex.Name)

	complexMembers := chainMemberRefs(t, polyComplex)
	require.Len(t, complexMembers, 3)
	assert.Equal(t, set.Root(), complexMembers[2])
}

func Test_BuildItems_Determinism(t *testing.T) {
	poly, grammar := calculatorGrammar()

	first, err := BuildItems(poly, grammar)
	require.NoError(t, err)
	second, err := BuildItems(poly, grammar)
	require.NoError(t, err)

	assert.Equal(t, first.Len(), second.Len())
	assert.Equal(t, first.String(), second.String())
}
