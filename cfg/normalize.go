package cfg

import (
	"fmt"
	"sort"
	"strings"
)

// NormalizationError signals that a grammar transformation could not
// satisfy its postcondition. It is never a silent partial result: the
// transformation returns no grammar alongside it.
type NormalizationError struct {
	Op     string // the transformation that failed
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// LeftRecursionError signals indirect (multi-step) left recursion, which
// the eliminator does not rewrite automatically. Variables names the
// offending variable set.
type LeftRecursionError struct {
	Variables []string
}

func (e *LeftRecursionError) Error() string {
	return fmt.Sprintf("indirect left recursion involving {%s} cannot be eliminated automatically",
		strings.Join(e.Variables, ","))
}

// copyRule appends lhs → rhs to the builder, re-interning all symbols.
func copyRule(b *GrammarBuilder, lhsName string, rhs []*Symbol) {
	rb := b.LHS(lhsName)
	if len(rhs) == 0 {
		rb.Epsilon()
		return
	}
	for _, sym := range rhs {
		rb.AppendSymbol(sym)
	}
	rb.End()
}

// freshName returns base, possibly decorated with primes, such that the
// name does not collide with any symbol of the grammar.
func freshName(g *Grammar, base string) string {
	name := base
	for {
		if g.variables[name] == nil && g.terminals[name] == nil {
			return name
		}
		name += "′"
	}
}

// lhsOrder returns the distinct left-hand-side variables in order of first
// appearance.
func lhsOrder(g *Grammar) []*Symbol {
	var order []*Symbol
	seen := map[string]bool{}
	for _, r := range g.rules {
		if !seen[r.LHS.Name] {
			seen[r.LHS.Name] = true
			order = append(order, r.LHS)
		}
	}
	return order
}

// --- ε-production elimination --------------------------------------------

// RemoveEpsilonProductions returns a grammar without ε-productions that
// derives the same language, except that a single ε-production for the
// start symbol is kept iff ε is in the language (a deliberate exception,
// so the empty word is not lost).
//
// For every production, every combination of keeping/dropping its nullable
// right-hand-side symbols is generated; empty variants are discarded.
// The variant generation is exponential in the number of nullable symbols
// per production, which is the textbook behavior.
func RemoveEpsilonProductions(g *Grammar) (*Grammar, error) {
	ga := Analysis(g)
	b := NewGrammarBuilder(g.Name)
	b.Start(g.start.Name)
	for _, r := range g.rules {
		var nullableAt []int
		for i, sym := range r.rhs {
			if ga.Nullable(sym) {
				nullableAt = append(nullableAt, i)
			}
		}
		for mask := 0; mask < 1<<len(nullableAt); mask++ {
			dropped := map[int]bool{}
			for bit, pos := range nullableAt {
				if mask&(1<<bit) != 0 {
					dropped[pos] = true
				}
			}
			var variant []*Symbol
			for i, sym := range r.rhs {
				if !dropped[i] {
					variant = append(variant, sym)
				}
			}
			if len(variant) == 0 {
				continue // ε-variants are discarded; see below for the start symbol
			}
			copyRule(b, r.LHS.Name, variant)
		}
	}
	if ga.Nullable(g.start) {
		b.LHS(g.start.Name).Epsilon() // ε ∈ L(G), keep exactly one ε-production
	}
	return b.Grammar()
}

// --- Unit-production elimination -------------------------------------------

// unitClosure returns all variables reachable from v via chains of unit
// productions A → B, excluding v itself.
func unitClosure(g *Grammar, v *Symbol) []*Symbol {
	var closure []*Symbol
	seen := map[string]bool{v.Name: true}
	worklist := []*Symbol{v}
	for len(worklist) > 0 {
		a := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, r := range g.RulesFor(a) {
			if len(r.rhs) == 1 && !r.rhs[0].IsTerminal() && !seen[r.rhs[0].Name] {
				seen[r.rhs[0].Name] = true
				closure = append(closure, r.rhs[0])
				worklist = append(worklist, r.rhs[0])
			}
		}
	}
	return closure
}

// RemoveUnitProductions returns a grammar without productions of the form
// A → B (B a variable): every variable receives copies of the non-unit
// productions of all variables reachable via unit chains.
func RemoveUnitProductions(g *Grammar) (*Grammar, error) {
	b := NewGrammarBuilder(g.Name)
	b.Start(g.start.Name)
	isUnit := func(r *Rule) bool {
		return len(r.rhs) == 1 && !r.rhs[0].IsTerminal()
	}
	for _, a := range lhsOrder(g) {
		for _, r := range g.RulesFor(a) {
			if !isUnit(r) {
				copyRule(b, a.Name, r.rhs)
			}
		}
		for _, c := range unitClosure(g, a) {
			for _, r := range g.RulesFor(c) {
				if !isUnit(r) {
					copyRule(b, a.Name, r.rhs)
				}
			}
		}
	}
	return b.Grammar()
}

// --- Useless-symbol removal -------------------------------------------------

// RemoveUselessSymbols drops all productions involving unproductive
// variables (which cannot derive any terminal string), then all productions
// of variables unreachable from the start symbol. The start symbol itself
// is always retained, even when the language is empty.
func RemoveUselessSymbols(g *Grammar) (*Grammar, error) {
	ga := Analysis(g)
	b := NewGrammarBuilder(g.Name)
	b.Start(g.start.Name)
	for _, r := range g.rules {
		productive := ga.Productive(r.LHS)
		for _, sym := range r.rhs {
			if !ga.Productive(sym) {
				productive = false
				break
			}
		}
		if productive {
			copyRule(b, r.LHS.Name, r.rhs)
		}
	}
	g1, err := b.Grammar()
	if err != nil {
		return nil, err
	}
	ga1 := Analysis(g1)
	b = NewGrammarBuilder(g.Name)
	b.Start(g.start.Name)
	for _, r := range g1.rules {
		if ga1.Reachable(r.LHS) {
			copyRule(b, r.LHS.Name, r.rhs)
		}
	}
	return b.Grammar()
}

// --- Left recursion -----------------------------------------------------

// DetectLeftRecursion returns the sorted set of variables A with A ⇒⁺ Aα,
// i.e. variables that are left-recursive directly or through intermediate
// variables (nullable prefixes are taken into account). An empty result
// means the grammar is free of left recursion.
func DetectLeftRecursion(g *Grammar) []string {
	ga := Analysis(g)
	// leftCorner[A] = variables that can appear leftmost in a derivation
	// step from A
	leftCorner := map[string]map[string]bool{}
	for name := range g.variables {
		leftCorner[name] = map[string]bool{}
	}
	for _, r := range g.rules {
		for _, sym := range r.rhs {
			if sym.IsTerminal() {
				break
			}
			leftCorner[r.LHS.Name][sym.Name] = true
			if !ga.Nullable(sym) {
				break
			}
		}
	}
	// transitive closure
	for changed := true; changed; {
		changed = false
		for a, corners := range leftCorner {
			for b := range corners {
				for c := range leftCorner[b] {
					if !corners[c] {
						corners[c] = true
						changed = true
					}
				}
			}
			leftCorner[a] = corners
		}
	}
	var offending []string
	for a, corners := range leftCorner {
		if corners[a] {
			offending = append(offending, a)
		}
	}
	sort.Strings(offending)
	return offending
}

// EliminateLeftRecursion rewrites direct left recursion: the productions of
// a variable A are split into recursive ones (A → Aα) and non-recursive
// ones (A → β), and replaced by
//
//    A  → β A′      for every β
//    A′ → α A′ | ε  for every α
//
// with a fresh variable A′. Indirect left recursion is a documented
// limitation: it is detected (see DetectLeftRecursion) and reported as a
// *LeftRecursionError, never silently approximated.
func EliminateLeftRecursion(g *Grammar) (*Grammar, error) {
	if len(DetectLeftRecursion(g)) == 0 {
		return g, nil
	}
	b := NewGrammarBuilder(g.Name)
	b.Start(g.start.Name)
	for _, a := range lhsOrder(g) {
		var recursive, nonRecursive []*Rule
		for _, r := range g.RulesFor(a) {
			if len(r.rhs) > 0 && !r.rhs[0].IsTerminal() && r.rhs[0].Name == a.Name {
				if len(r.rhs) == 1 {
					continue // A → A has empty α and derives nothing new; drop it
				}
				recursive = append(recursive, r)
			} else {
				nonRecursive = append(nonRecursive, r)
			}
		}
		if len(recursive) == 0 {
			for _, r := range nonRecursive {
				copyRule(b, a.Name, r.rhs)
			}
			continue
		}
		tail := freshName(g, a.Name+"′")
		for _, r := range nonRecursive {
			rb := b.LHS(a.Name)
			for _, sym := range r.rhs {
				rb.AppendSymbol(sym)
			}
			rb.N(tail)
			rb.End()
		}
		for _, r := range recursive {
			rb := b.LHS(tail)
			for _, sym := range r.rhs[1:] { // α of A → Aα
				rb.AppendSymbol(sym)
			}
			rb.N(tail)
			rb.End()
		}
		b.LHS(tail).Epsilon()
	}
	result, err := b.Grammar()
	if err != nil {
		return nil, err
	}
	if remaining := DetectLeftRecursion(result); len(remaining) > 0 {
		return nil, &LeftRecursionError{Variables: remaining}
	}
	return result, nil
}

// --- Chomsky Normal Form ----------------------------------------------------

// IsCNF reports whether every production of the grammar has one of the
// Chomsky Normal Form shapes: A → BC, A → a, or (only for the start
// symbol) A → ε.
func IsCNF(g *Grammar) bool {
	for _, r := range g.rules {
		switch len(r.rhs) {
		case 0:
			if r.LHS.Name != g.start.Name {
				return false
			}
		case 1:
			if !r.rhs[0].IsTerminal() {
				return false
			}
		case 2:
			if r.rhs[0].IsTerminal() || r.rhs[1].IsTerminal() {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func startOnRHS(g *Grammar) bool {
	for _, r := range g.rules {
		for _, sym := range r.rhs {
			if !sym.IsTerminal() && sym.Name == g.start.Name {
				return true
			}
		}
	}
	return false
}

// ToCNF converts a grammar to Chomsky Normal Form: ε-production
// elimination, then unit-production elimination, then useless-symbol
// removal, then wrapping of terminals in long productions (T_a → a), then
// binarization of productions with more than two symbols via fresh chain
// variables. A fresh start symbol is introduced first when the original
// start symbol is nullable or occurs on a right-hand side.
//
// The result satisfies IsCNF, or a *NormalizationError is returned.
func ToCNF(g *Grammar) (*Grammar, error) {
	ga := Analysis(g)
	work := g
	if ga.Nullable(g.start) || startOnRHS(g) {
		s0 := freshName(g, g.start.Name+"₀")
		b := NewGrammarBuilder(g.Name)
		b.Start(s0)
		b.LHS(s0).N(g.start.Name).End()
		for _, r := range g.rules {
			copyRule(b, r.LHS.Name, r.rhs)
		}
		var err error
		if work, err = b.Grammar(); err != nil {
			return nil, err
		}
	}
	work, err := RemoveEpsilonProductions(work)
	if err != nil {
		return nil, err
	}
	if work, err = RemoveUnitProductions(work); err != nil {
		return nil, err
	}
	if work, err = RemoveUselessSymbols(work); err != nil {
		return nil, err
	}

	// Wrap terminals occurring in productions of length ≥ 2 into fresh
	// singleton variables T_a → a.
	b := NewGrammarBuilder(work.Name)
	b.Start(work.start.Name)
	wrapped := map[string]string{} // terminal name → wrapper variable
	wrapperFor := func(t *Symbol) string {
		name, ok := wrapped[t.Name]
		if !ok {
			name = freshName(work, "T_"+t.Name)
			wrapped[t.Name] = name
			b.LHS(name).T(t.Name).End()
		}
		return name
	}
	chain := 0
	for _, r := range work.rules {
		if len(r.rhs) < 2 {
			copyRule(b, r.LHS.Name, r.rhs)
			continue
		}
		names := make([]string, len(r.rhs))
		for i, sym := range r.rhs {
			if sym.IsTerminal() {
				names[i] = wrapperFor(sym)
			} else {
				names[i] = sym.Name
			}
		}
		// Binarize A → X1 X2 … Xk into A → X1 C1, C1 → X2 C2, …
		lhs := r.LHS.Name
		for len(names) > 2 {
			chain++
			link := freshName(work, fmt.Sprintf("X%d", chain))
			b.LHS(lhs).N(names[0]).N(link).End()
			lhs = link
			names = names[1:]
		}
		b.LHS(lhs).N(names[0]).N(names[1]).End()
	}
	result, err := b.Grammar()
	if err != nil {
		return nil, err
	}
	if !IsCNF(result) {
		return nil, &NormalizationError{
			Op:     "cfg.ToCNF",
			Reason: "grammar could not be brought into Chomsky Normal Form",
		}
	}
	tracer().Infof("CNF(%s): %d rules → %d rules", g.Name, g.Size(), result.Size())
	return result, nil
}
