package types

import "fmt"

// Grammar is the registry named rule keys are resolved against during a
// build. It is populated up front and read-only while a build runs.
type Grammar struct {
	rules map[string]Rule
}

// NewGrammar creates an empty grammar.
func NewGrammar() *Grammar {
	return &Grammar{rules: make(map[string]Rule)}
}

// Put registers a rule under a name, replacing any previous entry.
func (g *Grammar) Put(name string, rule Rule) {
	g.rules[name] = rule
}

// Get looks up the rule registered under a name.
func (g *Grammar) Get(name string) (Rule, bool) {
	rule, ok := g.rules[name]
	return rule, ok
}

// Len reports how many rules are registered.
func (g *Grammar) Len() int {
	return len(g.rules)
}

func (g *Grammar) String() string {
	return fmt.Sprintf("<Grammar #rules=%d>", len(g.rules))
}
