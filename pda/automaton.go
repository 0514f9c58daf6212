package pda

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// Epsilon is the pseudo input symbol for moves that consume no input. It
// may not be declared as an alphabet symbol.
const Epsilon rune = 'ε'

// AcceptMode selects the acceptance condition of a pushdown automaton,
// fixed at construction.
type AcceptMode int8

const (
	// ByFinalState accepts when the input is consumed in a final state,
	// regardless of stack contents.
	ByFinalState AcceptMode = iota
	// ByEmptyStack accepts when the input is consumed and the stack is
	// empty, regardless of the state.
	ByEmptyStack
)

func (m AcceptMode) String() string {
	if m == ByEmptyStack {
		return "by empty stack"
	}
	return "by final state"
}

// Transition is one move of a pushdown automaton: in state From, reading
// Input (Epsilon for none) with Pop on top of the stack, go to state To
// and replace the top with Push, leftmost symbol ending up on top. An
// empty Push is a plain pop.
type Transition struct {
	From  string
	Input rune
	Pop   string
	To    string
	Push  []string
}

// pkey addresses the transition relation by source configuration.
type pkey struct {
	from  int
	input rune
	pop   string
}

// action is the target side of a transition.
type action struct {
	to   int
	push []string
}

// Automaton is an immutable pushdown automaton. States and stack symbols
// are named; states carry integer handles internally. Build instances
// with a Builder, which validates the automaton once so that recognition
// never fails structurally.
type Automaton struct {
	name      string
	labels    []string
	index     map[string]int
	alphabet  []rune
	symbols   map[rune]bool
	stackSyms []string
	stackSet  map[string]bool
	delta     map[pkey][]action
	initial   int
	bottom    string
	finals    *bitset.BitSet
	mode      AcceptMode
	det       bool
}

// Name returns the automaton's name.
func (a *Automaton) Name() string { return a.name }

// Mode returns the acceptance mode.
func (a *Automaton) Mode() AcceptMode { return a.mode }

// NumStates returns the number of states.
func (a *Automaton) NumStates() int { return len(a.labels) }

// States returns the state names in declaration order.
func (a *Automaton) States() []string {
	return append([]string(nil), a.labels...)
}

// Alphabet returns the input alphabet, sorted.
func (a *Automaton) Alphabet() []rune {
	return append([]rune(nil), a.alphabet...)
}

// StackSymbols returns the stack alphabet in declaration order.
func (a *Automaton) StackSymbols() []string {
	return append([]string(nil), a.stackSyms...)
}

// Initial returns the name of the initial state.
func (a *Automaton) Initial() string { return a.labels[a.initial] }

// Bottom returns the initial stack symbol.
func (a *Automaton) Bottom() string { return a.bottom }

// IsFinal returns true iff the named state is final.
func (a *Automaton) IsFinal(state string) bool {
	s, ok := a.index[state]
	return ok && a.finals.Test(uint(s))
}

// FinalStates returns the names of all final states.
func (a *Automaton) FinalStates() []string {
	var finals []string
	for s, ok := a.finals.NextSet(0); ok; s, ok = a.finals.NextSet(s + 1) {
		finals = append(finals, a.labels[s])
	}
	return finals
}

// Deterministic reports whether the automaton is a DPDA: at most one move
// per configuration, and never both an ε-move and an input move for the
// same state and stack top.
func (a *Automaton) Deterministic() bool { return a.det }

// Transitions returns all transitions, ordered by source state handle,
// input symbol and popped symbol.
func (a *Automaton) Transitions() []Transition {
	keys := make([]pkey, 0, len(a.delta))
	for k := range a.delta {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].from != keys[j].from {
			return keys[i].from < keys[j].from
		}
		if keys[i].input != keys[j].input {
			return keys[i].input < keys[j].input
		}
		return keys[i].pop < keys[j].pop
	})
	var ts []Transition
	for _, k := range keys {
		for _, act := range a.delta[k] {
			ts = append(ts, Transition{
				From:  a.labels[k.from],
				Input: k.input,
				Pop:   k.pop,
				To:    a.labels[act.to],
				Push:  append([]string(nil), act.push...),
			})
		}
	}
	return ts
}

// moves returns the actions for a source configuration.
func (a *Automaton) moves(state int, input rune, top string) []action {
	return a.delta[pkey{from: state, input: input, pop: top}]
}

func (a *Automaton) hasSymbol(r rune) bool {
	return a.symbols[r]
}

// --- Builder ------------------------------------------------------------

// Builder assembles a pushdown automaton. The zero acceptance mode is
// ByFinalState.
type Builder struct {
	name      string
	labels    []string
	index     map[string]int
	symbols   map[rune]bool
	stackSyms []string
	stackSet  map[string]bool
	delta     map[pkey][]action
	initial   string
	bottom    string
	finals    map[string]bool
	mode      AcceptMode
	edges     []Transition
}

// NewBuilder creates a builder for a named automaton.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:     name,
		index:    map[string]int{},
		symbols:  map[rune]bool{},
		stackSet: map[string]bool{},
		delta:    map[pkey][]action{},
		finals:   map[string]bool{},
	}
}

// State declares a state. Declaring a state twice is harmless.
func (b *Builder) State(name string) *Builder {
	if _, ok := b.index[name]; !ok {
		b.index[name] = len(b.labels)
		b.labels = append(b.labels, name)
	}
	return b
}

// Symbols declares the runes of s as input alphabet symbols.
func (b *Builder) Symbols(s string) *Builder {
	for _, r := range s {
		b.symbols[r] = true
	}
	return b
}

// StackSymbols declares stack symbols.
func (b *Builder) StackSymbols(syms ...string) *Builder {
	for _, sym := range syms {
		if !b.stackSet[sym] {
			b.stackSet[sym] = true
			b.stackSyms = append(b.stackSyms, sym)
		}
	}
	return b
}

// Initial declares the initial state, implicitly declaring the state.
func (b *Builder) Initial(name string) *Builder {
	b.State(name)
	b.initial = name
	return b
}

// Bottom declares the initial stack symbol, implicitly declaring it.
func (b *Builder) Bottom(sym string) *Builder {
	b.StackSymbols(sym)
	b.bottom = sym
	return b
}

// Final marks states as final, implicitly declaring them.
func (b *Builder) Final(names ...string) *Builder {
	for _, name := range names {
		b.State(name)
		b.finals[name] = true
	}
	return b
}

// Mode sets the acceptance mode.
func (b *Builder) Mode(m AcceptMode) *Builder {
	b.mode = m
	return b
}

// Edge adds a transition: from state from, reading input (Epsilon for
// none) with pop on top of the stack, go to state to and push the given
// symbols, first symbol on top.
func (b *Builder) Edge(from string, input rune, pop string, to string, push ...string) *Builder {
	b.edges = append(b.edges, Transition{
		From:  from,
		Input: input,
		Pop:   pop,
		To:    to,
		Push:  append([]string(nil), push...),
	})
	return b
}

// Automaton validates and freezes the builder's contents. Errors are
// *InvalidAutomatonError.
func (b *Builder) Automaton() (*Automaton, error) {
	if len(b.labels) == 0 {
		return nil, &InvalidAutomatonError{Reason: "automaton has no states"}
	}
	if b.initial == "" {
		return nil, &InvalidAutomatonError{Reason: "no initial state declared"}
	}
	if b.bottom == "" {
		return nil, &InvalidAutomatonError{Reason: "no initial stack symbol declared"}
	}
	if b.symbols[Epsilon] {
		return nil, &InvalidAutomatonError{Reason: "ε is reserved and may not be an alphabet symbol", Symbol: string(Epsilon)}
	}
	for _, t := range b.edges {
		from, ok := b.index[t.From]
		if !ok {
			return nil, &InvalidAutomatonError{Reason: "transition from unknown state", State: t.From}
		}
		to, ok := b.index[t.To]
		if !ok {
			return nil, &InvalidAutomatonError{Reason: "transition to unknown state", State: t.To}
		}
		if t.Input != Epsilon && !b.symbols[t.Input] {
			return nil, &InvalidAutomatonError{Reason: "transition on undeclared input symbol", State: t.From, Symbol: string(t.Input)}
		}
		if !b.stackSet[t.Pop] {
			return nil, &InvalidAutomatonError{Reason: "transition pops undeclared stack symbol", State: t.From, Symbol: t.Pop}
		}
		for _, sym := range t.Push {
			if !b.stackSet[sym] {
				return nil, &InvalidAutomatonError{Reason: "transition pushes undeclared stack symbol", State: t.From, Symbol: sym}
			}
		}
		k := pkey{from: from, input: t.Input, pop: t.Pop}
		b.delta[k] = append(b.delta[k], action{to: to, push: append([]string(nil), t.Push...)})
	}
	alphabet := make([]rune, 0, len(b.symbols))
	for r := range b.symbols {
		alphabet = append(alphabet, r)
	}
	sort.Slice(alphabet, func(i, j int) bool { return alphabet[i] < alphabet[j] })
	finals := bitset.New(uint(len(b.labels)))
	for name := range b.finals {
		finals.Set(uint(b.index[name]))
	}
	a := &Automaton{
		name:      b.name,
		labels:    b.labels,
		index:     b.index,
		alphabet:  alphabet,
		symbols:   b.symbols,
		stackSyms: b.stackSyms,
		stackSet:  b.stackSet,
		delta:     b.delta,
		initial:   b.index[b.initial],
		bottom:    b.bottom,
		finals:    finals,
		mode:      b.mode,
	}
	a.det = deriveDeterministic(a)
	tracer().Debugf("built PDA %q: %d states, %d stack symbols, accepting %s",
		a.name, a.NumStates(), len(a.stackSyms), a.mode)
	return a, nil
}

// deriveDeterministic checks the DPDA condition over the transition
// relation.
func deriveDeterministic(a *Automaton) bool {
	for k, acts := range a.delta {
		if len(acts) > 1 {
			return false
		}
		if k.input != Epsilon {
			if len(a.delta[pkey{from: k.from, input: Epsilon, pop: k.pop}]) > 0 {
				return false
			}
		}
	}
	return true
}
