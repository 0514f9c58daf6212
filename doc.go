/*
Package baobab is a toolkit for formal languages.

It represents finite automata, pushdown automata and context-free
grammars, and implements the classical algorithms to convert, optimize
and recognize with them. Package structure is as follows:

■ fa: Package fa implements deterministic and non-deterministic finite
automata, together with subset construction, ε-elimination, pruning,
DFA minimization and boolean language operations.

■ pda: Package pda implements pushdown automata, configuration-based
recognition, and the bidirectional conversion between pushdown automata
and context-free grammars.

■ cfg: Package cfg implements context-free grammars, grammar analysis
(nullable sets, FIRST, FOLLOW, productive/reachable symbols) and grammar
normalization up to Chomsky Normal Form.

■ cfg/cyk and cfg/earley: membership and parse-tree construction over
grammars, via the CYK and Earley algorithms.

The base package contains data types which are used throughout all the
other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package baobab
