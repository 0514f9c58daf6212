package pda

import (
	"fmt"
	"unicode/utf8"

	"github.com/baobabgit/baobab-automata/cfg"
)

// freshName derives a name not yet taken, appending primes to base.
func freshName(taken map[string]bool, base string) string {
	name := base
	for taken[name] {
		name += "′"
	}
	return name
}

func takenStates(a *Automaton) map[string]bool {
	taken := map[string]bool{}
	for _, s := range a.labels {
		taken[s] = true
	}
	return taken
}

// ToEmptyStack converts a final-state automaton into one that accepts the
// same language by empty stack. A fresh bottom symbol guards the original
// stack, and every final state may drain the whole stack on ε-moves.
// Automata already accepting by empty stack are returned unchanged.
func ToEmptyStack(a *Automaton) (*Automaton, error) {
	if a.mode == ByEmptyStack {
		return a, nil
	}
	states := takenStates(a)
	p0 := freshName(states, "p0")
	states[p0] = true
	drain := freshName(states, "d")
	x0 := freshName(a.stackSet, "X0")

	b := NewBuilder(a.name + "-es")
	b.Mode(ByEmptyStack)
	b.Symbols(string(a.alphabet))
	b.StackSymbols(a.stackSyms...)
	b.StackSymbols(x0)
	for _, s := range a.labels {
		b.State(s)
	}
	b.Initial(p0).Bottom(x0).State(drain)
	b.Edge(p0, Epsilon, x0, a.Initial(), a.bottom, x0)
	for _, t := range a.Transitions() {
		b.Edge(t.From, t.Input, t.Pop, t.To, t.Push...)
	}
	stackSyms := append(a.StackSymbols(), x0)
	for _, z := range stackSyms {
		for _, f := range a.FinalStates() {
			b.Edge(f, Epsilon, z, drain)
		}
		b.Edge(drain, Epsilon, z, drain)
	}
	return b.Automaton()
}

// ToFinalState converts an empty-stack automaton into one that accepts the
// same language by final state. A fresh bottom symbol marks the point
// where the original automaton has emptied its stack; seeing it on top
// allows an ε-move into the single final state. Automata already accepting
// by final state are returned unchanged.
func ToFinalState(a *Automaton) (*Automaton, error) {
	if a.mode == ByFinalState {
		return a, nil
	}
	states := takenStates(a)
	p0 := freshName(states, "p0")
	states[p0] = true
	qf := freshName(states, "qf")
	x0 := freshName(a.stackSet, "X0")

	b := NewBuilder(a.name + "-fs")
	b.Mode(ByFinalState)
	b.Symbols(string(a.alphabet))
	b.StackSymbols(a.stackSyms...)
	b.StackSymbols(x0)
	for _, s := range a.labels {
		b.State(s)
	}
	b.Initial(p0).Bottom(x0).Final(qf)
	b.Edge(p0, Epsilon, x0, a.Initial(), a.bottom, x0)
	for _, t := range a.Transitions() {
		b.Edge(t.From, t.Input, t.Pop, t.To, t.Push...)
	}
	for _, s := range a.labels {
		b.Edge(s, Epsilon, x0, qf)
	}
	return b.Automaton()
}

// triple names the grammar variable [p,X,q]: "starting in p with X on top,
// reach q having consumed exactly X".
func triple(p, x, q string) string {
	return "[" + p + "," + x + "," + q + "]"
}

// ToGrammar converts the automaton into a context-free grammar generating
// the same language, via the classical triple construction over the
// empty-stack form. Useless variables of the raw construction are removed.
func ToGrammar(a *Automaton) (*cfg.Grammar, error) {
	e, err := ToEmptyStack(a)
	if err != nil {
		return nil, err
	}
	states := e.States()
	b := cfg.NewGrammarBuilder(a.name + "-grammar")
	b.Start("S0")
	for _, q := range states {
		b.LHS("S0").N(triple(e.Initial(), e.bottom, q)).End()
	}
	for _, t := range e.Transitions() {
		addTripleRules(b, states, t)
	}
	g, err := b.Grammar()
	if err != nil {
		return nil, &ConversionError{Op: "pda.ToGrammar", Reason: err.Error()}
	}
	return cfg.RemoveUselessSymbols(g)
}

// addTripleRules emits, for one transition, a rule per sequence of
// intermediate states, one state per pushed symbol.
func addTripleRules(b *cfg.GrammarBuilder, states []string, t Transition) {
	if len(t.Push) == 0 {
		rb := b.LHS(triple(t.From, t.Pop, t.To))
		if t.Input == Epsilon {
			rb.Epsilon()
		} else {
			rb.T(string(t.Input)).End()
		}
		return
	}
	seq := make([]string, len(t.Push))
	var emit func(i int)
	emit = func(i int) {
		if i == len(t.Push) {
			rb := b.LHS(triple(t.From, t.Pop, seq[len(seq)-1]))
			if t.Input != Epsilon {
				rb = rb.T(string(t.Input))
			}
			prev := t.To
			for j, y := range t.Push {
				rb = rb.N(triple(prev, y, seq[j]))
				prev = seq[j]
			}
			rb.End()
			return
		}
		for _, q := range states {
			seq[i] = q
			emit(i + 1)
		}
	}
	emit(0)
}

// FromGrammar converts a context-free grammar into a one-state pushdown
// automaton accepting the same language by empty stack, simulating
// leftmost derivations on the stack. Every terminal must be a single rune;
// multi-rune terminals yield a *ConversionError.
func FromGrammar(g *cfg.Grammar) (*Automaton, error) {
	var badTerm *cfg.Symbol
	g.EachTerminal(func(t *cfg.Symbol) interface{} {
		if utf8.RuneCountInString(t.Name) != 1 {
			badTerm = t
			return t
		}
		return nil
	})
	if badTerm != nil {
		return nil, &ConversionError{
			Op:     "pda.FromGrammar",
			Reason: fmt.Sprintf("terminal %q is not a single rune", badTerm.Name),
		}
	}
	b := NewBuilder(g.Name + "-pda")
	b.Mode(ByEmptyStack)
	b.Initial("q").Bottom(g.Start().Name)
	g.EachVariable(func(v *cfg.Symbol) interface{} {
		b.StackSymbols(v.Name)
		return nil
	})
	g.EachTerminal(func(t *cfg.Symbol) interface{} {
		b.Symbols(t.Name)
		b.StackSymbols(t.Name)
		r, _ := utf8.DecodeRuneInString(t.Name)
		b.Edge("q", r, t.Name, "q")
		return nil
	})
	for _, r := range g.Rules() {
		push := make([]string, 0, r.Len())
		for _, sym := range r.RHS() {
			push = append(push, sym.Name)
		}
		b.Edge("q", Epsilon, r.LHS.Name, "q", push...)
	}
	return b.Automaton()
}
