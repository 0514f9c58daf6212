package fa

import (
	"github.com/bits-and-blooms/bitset"
)

// reachable computes the set of states reachable from the initial state
// over the transition relation (including ε-transitions).
func (a *Automaton) reachable() *bitset.BitSet {
	visited := bitset.New(uint(len(a.labels)))
	visited.Set(uint(a.initial))
	worklist := []int{a.initial}
	for len(worklist) > 0 {
		s := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for key, targets := range a.delta {
			if key.from != s {
				continue
			}
			for _, t := range targets {
				if !visited.Test(uint(t)) {
					visited.Set(uint(t))
					worklist = append(worklist, t)
				}
			}
		}
	}
	return visited
}

// coreachable computes the set of states from which some final state is
// reachable (reverse reachability from the final states).
func (a *Automaton) coreachable() *bitset.BitSet {
	alive := a.finals.Clone()
	for changed := true; changed; {
		changed = false
		for key, targets := range a.delta {
			if alive.Test(uint(key.from)) {
				continue
			}
			for _, t := range targets {
				if alive.Test(uint(t)) {
					alive.Set(uint(key.from))
					changed = true
					break
				}
			}
		}
	}
	return alive
}

// restrictTo rebuilds the automaton on the given subset of states, dropping
// all other states and every transition touching them. The initial state is
// always retained.
func (a *Automaton) restrictTo(keep *bitset.BitSet) (*Automaton, error) {
	keep = keep.Clone()
	keep.Set(uint(a.initial)) // the initial state is part of every automaton
	b := NewBuilder(a.name)
	b.Symbols(a.alphabet...)
	for s, ok := keep.NextSet(0); ok; s, ok = keep.NextSet(s + 1) {
		b.State(a.labels[s])
		if a.finals.Test(s) {
			b.Final(a.labels[s])
		}
	}
	b.Initial(a.labels[a.initial])
	for key, targets := range a.delta {
		if !keep.Test(uint(key.from)) {
			continue
		}
		for _, t := range targets {
			if keep.Test(uint(t)) {
				b.Edge(a.labels[key.from], key.sym, a.labels[t])
			}
		}
	}
	return b.Automaton()
}

// RemoveUnreachable drops every state that cannot be reached from the
// initial state, along with its transitions. The operation is idempotent.
func RemoveUnreachable(a *Automaton) (*Automaton, error) {
	reach := a.reachable()
	if reach.Count() == uint(len(a.labels)) {
		return a, nil // nothing to prune
	}
	tracer().Debugf("pruning %d unreachable states of %q",
		uint(len(a.labels))-reach.Count(), a.name)
	return a.restrictTo(reach)
}

// RemoveDead drops every state with no path to a final state (reverse
// reachability from the final-state set). The initial state is retained
// even if dead, as every automaton needs one. The operation is idempotent.
func RemoveDead(a *Automaton) (*Automaton, error) {
	alive := a.coreachable()
	alive.Set(uint(a.initial))
	if alive.Count() == uint(len(a.labels)) {
		return a, nil
	}
	tracer().Debugf("pruning %d dead states of %q",
		uint(len(a.labels))-alive.Count(), a.name)
	return a.restrictTo(alive)
}

// Totalize makes a deterministic automaton total by adding an explicit
// non-final sink state with the given label and routing every undefined
// (state, symbol) pair to it. A DFA that is already total is returned
// unchanged. Totalize fails on non-deterministic automata and on a sink
// label that is already a state.
func Totalize(a *Automaton, sink string) (*Automaton, error) {
	if a.kind != Deterministic {
		return nil, &InvalidAutomatonError{Reason: "totalization requires a deterministic automaton"}
	}
	if _, ok := a.index[sink]; ok {
		return nil, &InvalidAutomatonError{Reason: "sink label is already a state", State: sink}
	}
	missing := false
	for s := range a.labels {
		for _, sym := range a.alphabet {
			if len(a.targets(s, sym)) == 0 {
				missing = true
			}
		}
	}
	if !missing {
		return a, nil
	}
	b := NewBuilder(a.name)
	b.Symbols(a.alphabet...)
	b.State(a.labels...)
	b.Initial(a.labels[a.initial])
	b.Final(a.FinalStates()...)
	b.State(sink)
	for s := range a.labels {
		for _, sym := range a.alphabet {
			if targets := a.targets(s, sym); len(targets) > 0 {
				b.Edge(a.labels[s], sym, a.labels[targets[0]])
			} else {
				b.Edge(a.labels[s], sym, sink)
			}
		}
	}
	for _, sym := range a.alphabet {
		b.Edge(sink, sym, sink)
	}
	return b.Automaton()
}
