package fa

import (
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Epsilon is the pseudo-symbol for spontaneous transitions. It is never a
// member of a declared alphabet.
const Epsilon rune = 'ε'

// Kind classifies an automaton by the shape of its transition relation.
type Kind int8

// Automaton kinds. The kind is derived at construction time: an automaton
// with at least one ε-transition is an EpsilonNFA; one where some
// (state, symbol) pair has more than one target is Nondeterministic;
// everything else is Deterministic. A Deterministic automaton may be
// partial, i.e. have (state, symbol) pairs without a transition.
const (
	Deterministic Kind = iota
	Nondeterministic
	EpsilonNFA
)

func (k Kind) String() string {
	switch k {
	case Deterministic:
		return "DFA"
	case Nondeterministic:
		return "NFA"
	case EpsilonNFA:
		return "ε-NFA"
	}
	return "?"
}

// edge is the key of the transition relation: a source state handle and an
// input symbol (or Epsilon).
type edge struct {
	from int
	sym  rune
}

// Automaton is an immutable description of a finite automaton: states, a
// rune alphabet, a transition relation, one initial state and a set of
// final states. States are kept as integer handles internally; the
// label↔handle mapping is a boundary concern only.
//
// Automata are constructed with a Builder and never mutated afterwards.
// All algorithms in this package return new Automaton values.
type Automaton struct {
	name     string
	labels   []string       // state handle → label
	index    map[string]int // label → state handle
	alphabet []rune         // sorted input alphabet, without Epsilon
	symbols  map[rune]bool
	delta    map[edge][]int // sorted target handles
	initial  int
	finals   *bitset.BitSet
	kind     Kind
}

// Name returns the name given to the builder.
func (a *Automaton) Name() string {
	return a.name
}

// Kind returns the derived automaton kind.
func (a *Automaton) Kind() Kind {
	return a.kind
}

// NumStates returns the number of states.
func (a *Automaton) NumStates() int {
	return len(a.labels)
}

// States returns the state labels, in handle order.
func (a *Automaton) States() []string {
	return append([]string(nil), a.labels...)
}

// Alphabet returns the declared input alphabet, sorted.
func (a *Automaton) Alphabet() []rune {
	return append([]rune(nil), a.alphabet...)
}

// Initial returns the label of the initial state.
func (a *Automaton) Initial() string {
	return a.labels[a.initial]
}

// FinalStates returns the labels of all final states.
func (a *Automaton) FinalStates() []string {
	finals := make([]string, 0, a.finals.Count())
	for s, ok := a.finals.NextSet(0); ok; s, ok = a.finals.NextSet(s + 1) {
		finals = append(finals, a.labels[s])
	}
	return finals
}

// IsFinal returns true if the state with the given label is a final state.
func (a *Automaton) IsFinal(label string) bool {
	s, ok := a.index[label]
	return ok && a.finals.Test(uint(s))
}

// Next returns the target states of δ(from, sym), as labels. The result is
// empty for undefined transitions. sym may be Epsilon.
func (a *Automaton) Next(from string, sym rune) []string {
	s, ok := a.index[from]
	if !ok {
		return nil
	}
	targets := a.delta[edge{s, sym}]
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = a.labels[t]
	}
	return out
}

// hasSymbol reports membership in the declared alphabet.
func (a *Automaton) hasSymbol(sym rune) bool {
	return a.symbols[sym]
}

// targets returns the handle set of δ(from, sym); never mutated by callers.
func (a *Automaton) targets(from int, sym rune) []int {
	return a.delta[edge{from, sym}]
}

// --- Builder ----------------------------------------------------------

// Transition is one entry of the transition relation at the label level,
// used by the Builder.
type Transition struct {
	From   string
	Symbol rune // input symbol or Epsilon
	To     string
}

// Builder collects states, alphabet symbols, transitions, the initial state
// and final states, and assembles them into a validated Automaton.
type Builder struct {
	name    string
	states  []string
	seen    map[string]bool
	symbols []rune
	edges   []Transition
	initial string
	hasInit bool
	finals  []string
}

// NewBuilder creates an empty builder for an automaton with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name: name,
		seen: map[string]bool{},
	}
}

// State declares one or more states. Re-declaring a state is harmless.
func (b *Builder) State(labels ...string) *Builder {
	for _, l := range labels {
		if !b.seen[l] {
			b.seen[l] = true
			b.states = append(b.states, l)
		}
	}
	return b
}

// Symbols declares alphabet symbols.
func (b *Builder) Symbols(syms ...rune) *Builder {
	b.symbols = append(b.symbols, syms...)
	return b
}

// Initial declares the initial state. The state is declared implicitly.
func (b *Builder) Initial(label string) *Builder {
	b.State(label)
	b.initial = label
	b.hasInit = true
	return b
}

// Final marks one or more states as final. The states are declared implicitly.
func (b *Builder) Final(labels ...string) *Builder {
	b.State(labels...)
	b.finals = append(b.finals, labels...)
	return b
}

// Edge declares transitions δ(from, sym) ∋ to, for every given target.
// Use fa.Epsilon as sym for a spontaneous transition.
func (b *Builder) Edge(from string, sym rune, to ...string) *Builder {
	for _, t := range to {
		b.edges = append(b.edges, Transition{From: from, Symbol: sym, To: t})
	}
	return b
}

// Automaton validates the collected description and returns an immutable
// automaton. Validation failures are reported as *InvalidAutomatonError.
func (b *Builder) Automaton() (*Automaton, error) {
	if len(b.states) == 0 {
		return nil, &InvalidAutomatonError{Reason: "automaton has no states"}
	}
	if !b.hasInit {
		return nil, &InvalidAutomatonError{Reason: "automaton has no initial state"}
	}
	a := &Automaton{
		name:    b.name,
		labels:  append([]string(nil), b.states...),
		index:   make(map[string]int, len(b.states)),
		symbols: make(map[rune]bool, len(b.symbols)),
		delta:   make(map[edge][]int),
		finals:  bitset.New(uint(len(b.states))),
	}
	for i, l := range a.labels {
		a.index[l] = i
	}
	for _, sym := range b.symbols {
		if sym == Epsilon {
			return nil, &InvalidAutomatonError{
				Reason: "ε is a pseudo-symbol and cannot be a member of the alphabet",
				Symbol: sym,
			}
		}
		if !a.symbols[sym] {
			a.symbols[sym] = true
			a.alphabet = append(a.alphabet, sym)
		}
	}
	sort.Slice(a.alphabet, func(i, j int) bool { return a.alphabet[i] < a.alphabet[j] })
	a.initial = a.index[b.initial]
	for _, l := range b.finals {
		a.finals.Set(uint(a.index[l]))
	}
	for _, t := range b.edges {
		from, ok := a.index[t.From]
		if !ok {
			return nil, &InvalidAutomatonError{Reason: "transition from unknown state", State: t.From}
		}
		to, ok := a.index[t.To]
		if !ok {
			return nil, &InvalidAutomatonError{Reason: "transition to unknown state", State: t.To}
		}
		if t.Symbol != Epsilon && !a.symbols[t.Symbol] {
			return nil, &InvalidAutomatonError{
				Reason: "transition symbol is not in the alphabet",
				State:  t.From,
				Symbol: t.Symbol,
			}
		}
		key := edge{from, t.Symbol}
		if !containsInt(a.delta[key], to) {
			a.delta[key] = insertSorted(a.delta[key], to)
		}
	}
	a.kind = deriveKind(a)
	tracer().Debugf("built %s %q with %d states, %d transitions",
		a.kind, a.name, a.NumStates(), len(a.delta))
	return a, nil
}

func deriveKind(a *Automaton) Kind {
	kind := Deterministic
	for key, targets := range a.delta {
		if key.sym == Epsilon {
			return EpsilonNFA
		}
		if len(targets) > 1 {
			kind = Nondeterministic
		}
	}
	return kind
}

// --- Small helpers ------------------------------------------------------

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func insertSorted(xs []int, x int) []int {
	i := sort.SearchInts(xs, x)
	xs = append(xs, 0)
	copy(xs[i+1:], xs[i:])
	xs[i] = x
	return xs
}

// subsetLabel builds a canonical label for a set of states, e.g. "{q0,q1}".
func subsetLabel(labels []string) string {
	sorted := append([]string(nil), labels...)
	sort.Strings(sorted)
	return "{" + strings.Join(sorted, ",") + "}"
}

// stateSet collects the labels of all states in a bitset, in handle order.
func (a *Automaton) stateSet(set *bitset.BitSet) []string {
	out := make([]string, 0, set.Count())
	for s, ok := set.NextSet(0); ok; s, ok = set.NextSet(s + 1) {
		out = append(out, a.labels[s])
	}
	return out
}
