package cfg

import (
	"strings"
)

// Symbol is a grammar symbol: either a variable (non-terminal) or a
// terminal. Symbols are interned per grammar; algorithms compare symbols
// by name, never by pointer identity.
type Symbol struct {
	Name     string
	terminal bool
}

// IsTerminal returns true for a terminal symbol.
func (s *Symbol) IsTerminal() bool {
	return s.terminal
}

func (s *Symbol) String() string {
	return s.Name
}

// Rule is one production of a grammar: a variable on the left-hand side
// deriving a (possibly empty) sequence of symbols. Rules are immutable;
// Serial is the position of the rule within its grammar.
type Rule struct {
	Serial int
	LHS    *Symbol
	rhs    []*Symbol
}

// RHS returns a copy of the right-hand-side symbols of the rule.
func (r *Rule) RHS() []*Symbol {
	return append([]*Symbol(nil), r.rhs...)
}

// Len returns the number of right-hand-side symbols.
func (r *Rule) Len() int {
	return len(r.rhs)
}

// IsEps returns true for an ε-production, i.e. an empty right-hand side.
func (r *Rule) IsEps() bool {
	return len(r.rhs) == 0
}

func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString(r.LHS.Name)
	b.WriteString(" → ")
	if len(r.rhs) == 0 {
		b.WriteString("ε")
	}
	for i, sym := range r.rhs {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(sym.Name)
	}
	return b.String()
}

// eqRHS compares two symbol sequences by name.
func eqRHS(a, b []*Symbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].terminal != b[i].terminal {
			return false
		}
	}
	return true
}
