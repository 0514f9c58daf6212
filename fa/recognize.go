package fa

import (
	"github.com/bits-and-blooms/bitset"
)

// closure computes the ε-closure of a state set: the fixed point of
// following ε-transitions from every member. The input set is not modified.
func (a *Automaton) closure(set *bitset.BitSet) *bitset.BitSet {
	closed := set.Clone()
	worklist := make([]int, 0, set.Count())
	for s, ok := set.NextSet(0); ok; s, ok = set.NextSet(s + 1) {
		worklist = append(worklist, int(s))
	}
	for len(worklist) > 0 {
		s := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, t := range a.targets(s, Epsilon) {
			if !closed.Test(uint(t)) {
				closed.Set(uint(t))
				worklist = append(worklist, t)
			}
		}
	}
	return closed
}

// move computes ⋃ δ(s, sym) over all states s in the set, without ε-closure.
func (a *Automaton) move(set *bitset.BitSet, sym rune) *bitset.BitSet {
	next := bitset.New(uint(len(a.labels)))
	for s, ok := set.NextSet(0); ok; s, ok = set.NextSet(s + 1) {
		for _, t := range a.targets(int(s), sym) {
			next.Set(uint(t))
		}
	}
	return next
}

// initialSet returns the ε-closed set containing only the initial state.
func (a *Automaton) initialSet() *bitset.BitSet {
	set := bitset.New(uint(len(a.labels)))
	set.Set(uint(a.initial))
	return a.closure(set)
}

// Accepts runs the automaton against the input and reports membership.
// For a deterministic automaton the total transition function is walked
// symbol by symbol; a missing transition is an implicit reject, not an
// error. Non-deterministic and ε-enabled automata are simulated on the set
// of currently reachable states, closed under ε at every step.
//
// An input symbol outside the declared alphabet yields a *RecognitionError.
func (a *Automaton) Accepts(input string) (bool, error) {
	if a.kind == Deterministic {
		return a.acceptsDFA(input)
	}
	current := a.initialSet()
	for pos, sym := range []rune(input) {
		if !a.hasSymbol(sym) {
			return false, &RecognitionError{Symbol: sym, Pos: pos}
		}
		current = a.closure(a.move(current, sym))
		if !current.Any() {
			return false, nil
		}
	}
	return current.IntersectionCardinality(a.finals) > 0, nil
}

func (a *Automaton) acceptsDFA(input string) (bool, error) {
	s := a.initial
	for pos, sym := range []rune(input) {
		if !a.hasSymbol(sym) {
			return false, &RecognitionError{Symbol: sym, Pos: pos}
		}
		targets := a.targets(s, sym)
		if len(targets) == 0 { // partial DFA: implicit reject
			return false, nil
		}
		s = targets[0]
	}
	return a.finals.Test(uint(s)), nil
}

// --- Lazy simulation ----------------------------------------------------

// Step is one element of a simulation trace: the ε-closed set of states the
// automaton occupies after consuming Pos input symbols. For the first step
// (Pos == 0) Symbol is zero, afterwards it is the symbol just consumed.
type Step struct {
	Pos    int
	Symbol rune
	States []string
}

// Simulation is a lazy, restartable trace of an automaton run. It is a
// diagnostic companion of Accepts: both agree on every input.
//
//    sim := a.Simulate("abba")
//    for step, ok := sim.Next(); ok; step, ok = sim.Next() {
//        … inspect step …
//    }
//    accepted := sim.Accepted()
type Simulation struct {
	a       *Automaton
	input   []rune
	pos     int
	started bool
	current *bitset.BitSet
	err     error
}

// Simulate creates a lazy simulation of the automaton on the given input.
// No work is done until Next is called.
func (a *Automaton) Simulate(input string) *Simulation {
	return &Simulation{a: a, input: []rune(input)}
}

// Next advances the simulation by one step. The first call reports the
// initial configuration, every following call consumes one input symbol.
// It returns false when the input is exhausted, the state set runs empty,
// or an input symbol is not in the alphabet (see Err).
func (sim *Simulation) Next() (Step, bool) {
	if sim.err != nil {
		return Step{}, false
	}
	if !sim.started {
		sim.started = true
		sim.current = sim.a.initialSet()
		return Step{Pos: 0, States: sim.a.stateSet(sim.current)}, true
	}
	if sim.pos >= len(sim.input) || !sim.current.Any() {
		return Step{}, false
	}
	sym := sim.input[sim.pos]
	if !sim.a.hasSymbol(sym) {
		sim.err = &RecognitionError{Symbol: sym, Pos: sim.pos}
		return Step{}, false
	}
	sim.current = sim.a.closure(sim.a.move(sim.current, sym))
	sim.pos++
	return Step{Pos: sim.pos, Symbol: sym, States: sim.a.stateSet(sim.current)}, true
}

// Err returns the recognition error that stopped the simulation, if any.
func (sim *Simulation) Err() error {
	return sim.err
}

// Accepted reports whether the simulation has consumed the complete input
// and ended in a set intersecting the final states.
func (sim *Simulation) Accepted() bool {
	return sim.err == nil && sim.started &&
		sim.pos == len(sim.input) &&
		sim.current.IntersectionCardinality(sim.a.finals) > 0
}

// Restart resets the simulation to its initial configuration, so the trace
// can be replayed.
func (sim *Simulation) Restart() {
	sim.pos = 0
	sim.started = false
	sim.current = nil
	sim.err = nil
}
