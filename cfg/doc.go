/*
Package cfg implements context-free grammars.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of non-terminal symbols and terminals. Grammars may
contain epsilon-productions.

Example:

    b := cfg.NewGrammarBuilder("G")
    b.LHS("S").T("a").N("S").T("b").End()   // S  ->  a S b
    b.LHS("S").Epsilon()                    // S  ->
    g, err := b.Grammar()

The first left-hand side becomes the start symbol, unless overridden
with b.Start(…). The builder validates that variables and terminals are
disjoint and returns an immutable Grammar.

Static Grammar Analysis

After the grammar is complete, it may be analysed. For this end, the
grammar is subjected to an Analysis object, which computes the nullable
set, FIRST- and FOLLOW-sets, and the productive and reachable symbol
sets.

    ga := cfg.Analysis(g)
    ga.Nullable("S")      // may S derive ε ?
    ga.First(sym)         // FIRST-set as sorted terminal names
    ga.Follow(sym)        // FOLLOW-set, including cfg.EOFToken

Normalization

Transformations are pure: each returns a new Grammar and never mutates
its input. Available are ε-production elimination, unit-production
elimination, useless-symbol removal, direct left-recursion elimination
(with detection of the indirect case), and Chomsky Normal Form
construction; see ToCNF.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package cfg

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'baobab.cfg'.
func tracer() tracing.Trace {
	return tracing.Select("baobab.cfg")
}
