/*
Package earley implements an Earley chart parser for arbitrary context-free
grammars.

Earley's algorithm handles any CFG, including ambiguous and left-recursive
ones, without prior normalization. The recognizer fills a chart of item
sets, one per input position, with the classic predict / scan / complete
steps; prediction applies the Aycock-Horspool refinement and advances the
dot over nullable variables directly, which keeps ε-productions correct
without a separate completion pass.

    ok, err := earley.Recognize(g, earley.Letters("aabb"))
    tree, err := earley.Parse(g, earley.Letters("aabb"))

The parse variant reconstructs one derivation tree from the completed
items; for ambiguous grammars it returns a single witness, not a forest.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package earley

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'baobab.earley'.
func tracer() tracing.Trace {
	return tracing.Select("baobab.earley")
}
