/*
Package fa implements finite automata over rune alphabets.

Building an Automaton

Automata are specified using a builder object. Clients declare states,
the alphabet, transitions, one initial state and a set of final states.
The builder validates the description and returns an immutable Automaton.

Example:

    b := fa.NewBuilder("ends-in-ab")
    b.Symbols('a', 'b')
    b.State("q0", "q1", "q2")
    b.Initial("q0")
    b.Final("q2")
    b.Edge("q0", 'a', "q0", "q1")   // δ(q0,a) = {q0,q1}
    b.Edge("q1", 'b', "q2")
    a, err := b.Automaton()

The automaton kind (deterministic, non-deterministic, ε-enabled) is derived
from the transition relation. Spontaneous transitions are declared with the
pseudo-symbol fa.Epsilon, which is never a member of the alphabet.

Algorithms

All algorithms are pure: they never mutate their input automaton, but
return a new one, validated against the same invariants.

    d, err := fa.Determinize(a, nil)    // subset construction
    n, err := fa.RemoveEpsilons(a)      // ε-elimination
    m, err := fa.Minimize(d)            // partition refinement
    fa.RemoveUnreachable(d)             // reachability pruning
    fa.RemoveDead(d)                    // reverse-reachability pruning

Recognition is available as a plain membership query (Accepts) and as a
lazy, restartable step trace (Simulate).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package fa

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'baobab.fa'.
func tracer() tracing.Trace {
	return tracing.Select("baobab.fa")
}
