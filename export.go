// Package itemgraph compiles declarative context-free grammar rules into a
// single graph of resolved, cross-referenced items. Mutually and
// self-recursive rules are supported; each named rule is resolved exactly
// once per build regardless of how many times it is referenced.
package itemgraph

import (
	"github.com/b4fun/itemgraph-go/items"
	"github.com/b4fun/itemgraph-go/types"
)

var (
	NewGrammar = types.NewGrammar
	BuildItems = types.BuildItems

	NewTerminal        = types.NewTerminal
	NewSequence        = types.NewSequence
	NewChoice          = types.NewChoice
	NewElide           = types.NewElide
	NewLiteral         = types.NewLiteral
	NewLiteralWithName = types.NewLiteralWithName
	NewByteClass       = types.NewByteClass

	DirectKey = types.DirectKey
	NamedKey  = types.NamedKey

	Flatten = items.Flatten
	Walk    = items.Walk
	Equal   = items.Equal
	Dump    = items.Dump

	NewItemVisitorMux        = items.NewItemVisitorMux
	WithDefaultItemVisitFunc = items.WithDefaultItemVisitFunc
)

type (
	Rule       = types.Rule
	RuleKey    = types.RuleKey
	Resolver   = types.Resolver
	Grammar    = types.Grammar
	Item       = types.Item
	ItemRef    = types.ItemRef
	ItemSet    = types.ItemSet
	ItemArena  = types.ItemArena
	Combinator = types.Combinator
	Class      = types.Class

	ErrUnknownRule = types.ErrUnknownRule
)

const (
	ClassNormal      = types.ClassNormal
	ClassPassthrough = types.ClassPassthrough
	ClassElide       = types.ClassElide

	CombinatorEmpty  = types.CombinatorEmpty
	CombinatorTerm   = types.CombinatorTerm
	CombinatorSeq    = types.CombinatorSeq
	CombinatorChoice = types.CombinatorChoice
	CombinatorDone   = types.CombinatorDone
)
