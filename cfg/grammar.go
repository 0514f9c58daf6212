package cfg

import (
	"fmt"
	"sort"

	"github.com/cnf/structhash"
)

// InvalidGrammarError signals a malformed grammar description, raised
// synchronously when the builder assembles the grammar.
type InvalidGrammarError struct {
	Reason string
	Symbol string // offending symbol name, if any
}

func (e *InvalidGrammarError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("invalid grammar: %s (symbol %q)", e.Reason, e.Symbol)
	}
	return "invalid grammar: " + e.Reason
}

// Grammar is an immutable context-free grammar: variables, terminals
// (disjoint from the variables), productions and a start symbol. Grammars
// are built with a GrammarBuilder; all transformations in this package
// return new Grammar values.
type Grammar struct {
	Name      string
	rules     []*Rule
	variables map[string]*Symbol
	terminals map[string]*Symbol
	start     *Symbol
}

// Start returns the start symbol.
func (g *Grammar) Start() *Symbol {
	return g.start
}

// Size returns the number of productions.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Rule returns production number n.
func (g *Grammar) Rule(n int) *Rule {
	return g.rules[n]
}

// Rules returns all productions, in serial order.
func (g *Grammar) Rules() []*Rule {
	return append([]*Rule(nil), g.rules...)
}

// RulesFor returns all productions with the given variable on the
// left-hand side.
func (g *Grammar) RulesFor(v *Symbol) []*Rule {
	var rules []*Rule
	for _, r := range g.rules {
		if r.LHS.Name == v.Name {
			rules = append(rules, r)
		}
	}
	return rules
}

// Variable returns the variable with the given name, or nil.
func (g *Grammar) Variable(name string) *Symbol {
	return g.variables[name]
}

// Terminal returns the terminal with the given name, or nil.
func (g *Grammar) Terminal(name string) *Symbol {
	return g.terminals[name]
}

// EachVariable iterates over all variables, in sorted name order.
// Iteration stops at the first non-nil mapper return value.
func (g *Grammar) EachVariable(mapper func(*Symbol) interface{}) interface{} {
	for _, name := range sortedKeys(g.variables) {
		if v := mapper(g.variables[name]); v != nil {
			return v
		}
	}
	return nil
}

// EachTerminal iterates over all terminals, in sorted name order.
// Iteration stops at the first non-nil mapper return value.
func (g *Grammar) EachTerminal(mapper func(*Symbol) interface{}) interface{} {
	for _, name := range sortedKeys(g.terminals) {
		if v := mapper(g.terminals[name]); v != nil {
			return v
		}
	}
	return nil
}

// Dump is a debugging helper, tracing out all grammar rules.
func (g *Grammar) Dump() {
	tracer().Debugf("--- grammar %s --------------", g.Name)
	tracer().Debugf("start symbol: %s", g.start.Name)
	for _, r := range g.rules {
		tracer().Debugf("%2d: %s", r.Serial, r.String())
	}
	tracer().Debugf("-----------------------------")
}

// ContentHash returns a canonical content hash of the grammar: grammars
// that are structurally equal hash equal, even if they are distinct
// instances. It is the key material for result caches (identity-based
// keying would silently break for equal-but-distinct grammars).
func (g *Grammar) ContentHash() (string, error) {
	shape := struct {
		Start string
		Rules []string
	}{Start: g.start.Name}
	for _, r := range g.rules {
		shape.Rules = append(shape.Rules, r.String())
	}
	sort.Strings(shape.Rules)
	return structhash.Hash(shape, 1)
}

func sortedKeys(m map[string]*Symbol) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- Grammar builder ----------------------------------------------------

// GrammarBuilder assembles a grammar from rules. The first left-hand side
// becomes the start symbol unless Start is called explicitly.
type GrammarBuilder struct {
	name      string
	rules     []*Rule
	variables map[string]*Symbol
	terminals map[string]*Symbol
	start     string
	clash     string // first symbol name used both as variable and terminal
}

// NewGrammarBuilder creates a new builder for a grammar with the given name.
func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{
		name:      name,
		variables: map[string]*Symbol{},
		terminals: map[string]*Symbol{},
	}
}

// Start declares the start symbol explicitly. The symbol is interned as a
// variable.
func (b *GrammarBuilder) Start(name string) *GrammarBuilder {
	b.variable(name)
	b.start = name
	return b
}

// LHS starts a new rule for the given variable. Complete the rule with the
// methods of the returned RuleBuilder.
func (b *GrammarBuilder) LHS(name string) *RuleBuilder {
	lhs := b.variable(name)
	if b.start == "" {
		b.start = name
	}
	return &RuleBuilder{gb: b, lhs: lhs}
}

// Grammar validates the collected rules and returns an immutable grammar.
func (b *GrammarBuilder) Grammar() (*Grammar, error) {
	if b.clash != "" {
		return nil, &InvalidGrammarError{
			Reason: "symbol is used both as variable and as terminal",
			Symbol: b.clash,
		}
	}
	if b.start == "" {
		return nil, &InvalidGrammarError{Reason: "grammar has no start symbol"}
	}
	g := &Grammar{
		Name:      b.name,
		rules:     append([]*Rule(nil), b.rules...),
		variables: b.variables,
		terminals: b.terminals,
		start:     b.variables[b.start],
	}
	tracer().Debugf("built grammar %q with %d rules, %d variables, %d terminals",
		g.Name, len(g.rules), len(g.variables), len(g.terminals))
	return g, nil
}

func (b *GrammarBuilder) variable(name string) *Symbol {
	if _, ok := b.terminals[name]; ok && b.clash == "" {
		b.clash = name
	}
	sym, ok := b.variables[name]
	if !ok {
		sym = &Symbol{Name: name}
		b.variables[name] = sym
	}
	return sym
}

func (b *GrammarBuilder) terminal(name string) *Symbol {
	if _, ok := b.variables[name]; ok && b.clash == "" {
		b.clash = name
	}
	sym, ok := b.terminals[name]
	if !ok {
		sym = &Symbol{Name: name, terminal: true}
		b.terminals[name] = sym
	}
	return sym
}

// addRule appends a rule, dropping exact duplicates.
func (b *GrammarBuilder) addRule(lhs *Symbol, rhs []*Symbol) {
	for _, r := range b.rules {
		if r.LHS.Name == lhs.Name && eqRHS(r.rhs, rhs) {
			return
		}
	}
	b.rules = append(b.rules, &Rule{Serial: len(b.rules), LHS: lhs, rhs: rhs})
}

// RuleBuilder collects the right-hand side of one rule.
type RuleBuilder struct {
	gb  *GrammarBuilder
	lhs *Symbol
	rhs []*Symbol
}

// N appends a non-terminal (variable) to the right-hand side.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.gb.variable(name))
	return rb
}

// T appends a terminal to the right-hand side.
func (rb *RuleBuilder) T(name string) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.gb.terminal(name))
	return rb
}

// AppendSymbol appends an existing symbol (from another grammar instance)
// to the right-hand side, re-interning it in the builder.
func (rb *RuleBuilder) AppendSymbol(sym *Symbol) *RuleBuilder {
	if sym.IsTerminal() {
		return rb.T(sym.Name)
	}
	return rb.N(sym.Name)
}

// End finishes the rule and adds it to the grammar.
func (rb *RuleBuilder) End() {
	rb.gb.addRule(rb.lhs, rb.rhs)
}

// Epsilon finishes the rule as an ε-production (empty right-hand side).
func (rb *RuleBuilder) Epsilon() {
	rb.rhs = nil
	rb.gb.addRule(rb.lhs, nil)
}
