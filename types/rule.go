package types

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// Resolver turns a rule key into an item handle, allocating or reusing
// graph nodes as needed. The returned handle may still be unbound while the
// referenced rule is being expanded (the recursive case); rules must embed
// the handle in their combinator rather than dereference it.
type Resolver func(key RuleKey) (ItemRef, error)

// Rule describes one grammar production. BuildItem produces the single
// item this rule compiles to, resolving nested references through resolve.
// A rule value is immutable once constructed and may be referenced by many
// rule keys.
type Rule interface {
	BuildItem(resolve Resolver) (Item, error)
}

// RuleKey addresses a rule either directly by value or by grammar name.
// Named keys are the only way to express recursive or forward references:
// a rule may mention a name before that name's rule is constructed, as
// long as the name is registered before the graph is built.
type RuleKey struct {
	rule Rule
	name string
}

// DirectKey references an already constructed rule value. Direct keys
// bypass the registry; they are used for anonymous local rules such as the
// elided chain tails.
func DirectKey(rule Rule) RuleKey {
	return RuleKey{rule: rule}
}

// NamedKey references a rule through grammar lookup at build time.
func NamedKey(name string) RuleKey {
	return RuleKey{name: name}
}

// Named reports whether the key resolves through the grammar registry.
func (k RuleKey) Named() bool {
	return k.rule == nil
}

// Name returns the registry name for named keys; empty for direct keys.
func (k RuleKey) Name() string {
	return k.name
}

const elidedName = "(elided)"

// chainOf right-folds members into a binary Seq chain: the head member
// resolves directly and the remaining members are re-wrapped as an elided
// rule of the same variant, so every non-head link carries the Elide class
// and a consumer can flatten the chain back into a list view. An empty
// member list yields the Empty combinator. The tail is always materialized,
// even for a single member, where it is an Empty node.
func chainOf(resolve Resolver, members []RuleKey, rest func([]RuleKey) Rule) (Combinator, error) {
	if len(members) == 0 {
		return Combinator{Kind: CombinatorEmpty}, nil
	}

	head, err := resolve(members[0])
	if err != nil {
		return Combinator{}, err
	}
	tail, err := resolve(DirectKey(NewElide(rest(members[1:]))))
	if err != nil {
		return Combinator{}, err
	}

	return Combinator{Kind: CombinatorSeq, Head: head, Tail: tail}, nil
}

// Terminal matches exactly one byte.
type Terminal struct {
	val byte
}

var _ Rule = (*Terminal)(nil)

func NewTerminal(val byte) *Terminal {
	return &Terminal{val: val}
}

func (t *Terminal) BuildItem(Resolver) (Item, error) {
	return Item{
		Combinator: Combinator{Kind: CombinatorTerm, Term: t.val},
		Class:      ClassNormal,
		Name:       string([]byte{t.val}),
	}, nil
}

// Sequence matches its members in order.
type Sequence struct {
	name    string
	members []RuleKey
}

var _ Rule = (*Sequence)(nil)

func NewSequence(name string, members []RuleKey) *Sequence {
	return &Sequence{name: name, members: members}
}

func (s *Sequence) BuildItem(resolve Resolver) (Item, error) {
	combinator, err := chainOf(resolve, s.members, func(rest []RuleKey) Rule {
		return NewSequence(elidedName, rest)
	})
	if err != nil {
		return Item{}, err
	}

	return Item{
		Combinator: combinator,
		Class:      ClassNormal,
		Name:       s.name,
	}, nil
}

// Choice matches any one of its members. The expansion is the same binary
// chain as Sequence; a downstream recognizer distinguishes alternation from
// concatenation by the originating rule's class and name, not by shape.
type Choice struct {
	name        string
	members     []RuleKey
	passthrough bool
}

var _ Rule = (*Choice)(nil)

func NewChoice(name string, members []RuleKey) *Choice {
	return &Choice{name: name, members: members}
}

// Passthrough returns a copy whose item forwards child classification
// instead of appearing as a named node.
func (c *Choice) Passthrough() *Choice {
	r := *c
	r.passthrough = true
	return &r
}

func (c *Choice) BuildItem(resolve Resolver) (Item, error) {
	combinator, err := chainOf(resolve, c.members, func(rest []RuleKey) Rule {
		return NewChoice(elidedName, rest)
	})
	if err != nil {
		return Item{}, err
	}

	class := ClassNormal
	if c.passthrough {
		class = ClassPassthrough
	}

	return Item{
		Combinator: combinator,
		Class:      class,
		Name:       c.name,
	}, nil
}

// Elide wraps any rule, forcing the produced item's class to Elide while
// leaving its combinator untouched.
type Elide struct {
	rule Rule
}

var _ Rule = (*Elide)(nil)

func NewElide(rule Rule) *Elide {
	return &Elide{rule: rule}
}

func (e *Elide) BuildItem(resolve Resolver) (Item, error) {
	item, err := e.rule.BuildItem(resolve)
	if err != nil {
		return Item{}, err
	}

	item.Class = ClassElide
	item.Name = elidedName
	return item, nil
}

// Literal matches a byte string, expanding into a Seq chain of one
// terminal per byte.
type Literal struct {
	name    string
	literal string
}

var _ Rule = (*Literal)(nil)

func NewLiteral(literal string) *Literal {
	return NewLiteralWithName(literal, literal)
}

func NewLiteralWithName(name string, literal string) *Literal {
	return &Literal{name: name, literal: literal}
}

func (l *Literal) BuildItem(resolve Resolver) (Item, error) {
	members := make([]RuleKey, len(l.literal))
	for i := 0; i < len(l.literal); i++ {
		members[i] = DirectKey(NewTerminal(l.literal[i]))
	}

	return NewSequence(l.name, members).BuildItem(resolve)
}

// ByteClass matches any single byte accepted by the pattern, expanding
// into a Choice chain over the matching terminals. The pattern is tested
// against one-byte inputs; bytes 0x80..0xFF are presented as their Latin-1
// code points.
type ByteClass struct {
	name string
	re   *regexp2.Regexp
}

var _ Rule = (*ByteClass)(nil)

func NewByteClass(name string, re *regexp2.Regexp) *ByteClass {
	return &ByteClass{name: name, re: re}
}

func (bc *ByteClass) BuildItem(resolve Resolver) (Item, error) {
	var members []RuleKey
	for v := 0; v <= 0xff; v++ {
		matched, err := bc.re.MatchString(string(rune(v)))
		if err != nil {
			return Item{}, fmt.Errorf("match byte class %q: %w", bc.name, err)
		}
		if matched {
			members = append(members, DirectKey(NewTerminal(byte(v))))
		}
	}

	return NewChoice(bc.name, members).BuildItem(resolve)
}
