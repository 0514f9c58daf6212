package fa

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/emirpasic/gods/lists/arraylist"

	baobab "github.com/baobabgit/baobab-automata"
)

// Determinize converts an NFA or ε-NFA into an equivalent DFA using the
// subset construction. Every reachable set of source states becomes one
// state of the result, labeled canonically (e.g. "{q0,q1}"); a subset state
// is final iff it intersects the source's final states.
//
// The worst case is a blow-up to 2^n subset states, so the construction
// accepts an optional step budget (nil = unlimited), checked once per
// discovered subset state. On exhaustion a *baobab.TimeoutError is returned
// and no partial automaton escapes.
//
// The resulting DFA may be partial; dead sink states are not synthesized
// (use Totalize if totality is required). Determinizing a DFA returns an
// equivalent automaton with relabeled singleton-set states.
func Determinize(a *Automaton, budget *baobab.Budget) (*Automaton, error) {
	tracer().Debugf("=== subset construction on %q =========================", a.name)
	b := NewBuilder(a.name)
	b.Symbols(a.alphabet...)

	subsets := map[string]*bitset.BitSet{}
	worklist := arraylist.New()

	start := a.initialSet()
	startLabel := subsetLabel(a.stateSet(start))
	subsets[startLabel] = start
	worklist.Add(startLabel)
	b.Initial(startLabel)
	if !budget.Step() {
		return nil, &baobab.TimeoutError{Op: "fa.Determinize", Limit: budget.Limit()}
	}

	for !worklist.Empty() {
		v, _ := worklist.Get(0)
		worklist.Remove(0)
		label := v.(string)
		subset := subsets[label]
		b.State(label)
		if subset.IntersectionCardinality(a.finals) > 0 {
			b.Final(label)
		}
		for _, sym := range a.alphabet {
			next := a.closure(a.move(subset, sym))
			if !next.Any() {
				continue // no transition: result stays partial
			}
			nextLabel := subsetLabel(a.stateSet(next))
			if _, ok := subsets[nextLabel]; !ok {
				if !budget.Step() {
					return nil, &baobab.TimeoutError{Op: "fa.Determinize", Limit: budget.Limit()}
				}
				subsets[nextLabel] = next
				worklist.Add(nextLabel)
				tracer().Debugf("discovered subset state %s", nextLabel)
			}
			b.Edge(label, sym, nextLabel)
		}
	}
	d, err := b.Automaton()
	if err != nil {
		return nil, err
	}
	tracer().Infof("subset construction: %d source states → %d DFA states",
		a.NumStates(), d.NumStates())
	return d, nil
}

// RemoveEpsilons eliminates all ε-transitions from an automaton without
// changing its state set or its language: for every state q and every
// alphabet symbol x,
//
//    δ'(q,x) = ε-closure( ⋃ { δ(q',x) : q' ∈ ε-closure({q}) } )
//
// and q is final in the result iff ε-closure({q}) intersects the original
// final states.
func RemoveEpsilons(a *Automaton) (*Automaton, error) {
	b := NewBuilder(a.name)
	b.Symbols(a.alphabet...)
	b.State(a.labels...)
	b.Initial(a.labels[a.initial])

	single := bitset.New(uint(len(a.labels)))
	for q := range a.labels {
		single.ClearAll()
		single.Set(uint(q))
		closed := a.closure(single)
		if closed.IntersectionCardinality(a.finals) > 0 {
			b.Final(a.labels[q])
		}
		for _, sym := range a.alphabet {
			targets := a.closure(a.move(closed, sym))
			for t, ok := targets.NextSet(0); ok; t, ok = targets.NextSet(t + 1) {
				b.Edge(a.labels[q], sym, a.labels[t])
			}
		}
	}
	return b.Automaton()
}
