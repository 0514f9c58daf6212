/*
Package pda implements pushdown automata: construction, recognition by
configuration search, and the classical conversions between pushdown
automata and context-free grammars.

Automata are built with a fluent builder and validated at construction.
A pushdown automaton reads runes, keeps a stack of named symbols, and
accepts either by final state or by empty stack; the acceptance mode is
fixed when the automaton is built.

    b := pda.NewBuilder("anbn")
    b.Symbols("ab").StackSymbols("Z", "A")
    b.Initial("q0").Bottom("Z").Final("q2")
    b.Edge("q0", 'a', "Z", "q0", "A", "Z")
    ...
    a, err := b.Automaton()
    ok, err := a.Accepts("aabb")

Recognition explores the configuration graph breadth-first under a step
budget, since ε-moves that push can grow the stack without bound.
ToGrammar and FromGrammar connect pushdown automata with the cfg package
in both directions.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package pda

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'baobab.pda'.
func tracer() tracing.Trace {
	return tracing.Select("baobab.pda")
}
