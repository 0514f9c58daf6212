/*
Package cyk implements the Cocke–Younger–Kasami membership algorithm for
context-free grammars in Chomsky Normal Form.

The recognizer fills a triangular table of variable sets over all input
substrings, combining two sub-cells for every binary production, for a
total of O(n³·|G|) work. The parse variant additionally stores a
witnessing split point per (cell, variable) and reconstructs a parse tree.

    g, _ = cfg.ToCNF(g)
    ok, err := cyk.Recognize(g, cyk.Letters("aabb"))
    tree, err := cyk.Parse(g, cyk.Letters("aabb"))

Grammars not in CNF are rejected with *NotInCNFError; normalize with
cfg.ToCNF first.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package cyk

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'baobab.cyk'.
func tracer() tracing.Trace {
	return tracing.Select("baobab.cyk")
}
