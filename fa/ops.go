package fa

import (
	"fmt"
)

// Boolean operations on regular languages, via complement and product
// construction. All of them require deterministic automata (run
// Determinize first) and, for the binary operations, identical alphabets.

const sinkLabel = "∅" // reserved sink label used by the operations below

// Complement returns a DFA accepting exactly the strings over the same
// alphabet that a rejects. The automaton is totalized first, then final and
// non-final states are swapped.
func Complement(a *Automaton) (*Automaton, error) {
	if a.kind != Deterministic {
		return nil, &InvalidAutomatonError{Reason: "complement requires a deterministic automaton"}
	}
	total, err := Totalize(a, sinkLabel)
	if err != nil {
		return nil, err
	}
	b := NewBuilder(a.name + "′")
	b.Symbols(total.alphabet...)
	b.State(total.labels...)
	b.Initial(total.labels[total.initial])
	for s, label := range total.labels {
		if !total.finals.Test(uint(s)) {
			b.Final(label)
		}
		for _, sym := range total.alphabet {
			for _, t := range total.targets(s, sym) {
				b.Edge(label, sym, total.labels[t])
			}
		}
	}
	return b.Automaton()
}

// Intersect returns a DFA for L(a) ∩ L(b), the product construction with
// conjunctive acceptance.
func Intersect(a, b *Automaton) (*Automaton, error) {
	return product(a, b, "∩", func(af, bf bool) bool { return af && bf })
}

// Union returns a DFA for L(a) ∪ L(b), the product construction with
// disjunctive acceptance.
func Union(a, b *Automaton) (*Automaton, error) {
	return product(a, b, "∪", func(af, bf bool) bool { return af || bf })
}

// IsEmpty reports whether the automaton accepts no string at all, i.e.
// whether no final state is reachable from the initial state.
func IsEmpty(a *Automaton) bool {
	return a.reachable().IntersectionCardinality(a.finals) == 0
}

// Equivalent reports whether two deterministic automata over the same
// alphabet accept exactly the same language. It explores reachable state
// pairs of the totalized automata and fails on the first pair disagreeing
// on finality.
func Equivalent(a, b *Automaton) (bool, error) {
	if a.kind != Deterministic || b.kind != Deterministic {
		return false, &InvalidAutomatonError{Reason: "equivalence check requires deterministic automata"}
	}
	if !sameAlphabet(a, b) {
		return false, nil
	}
	ta, err := Totalize(a, sinkLabel)
	if err != nil {
		return false, err
	}
	tb, err := Totalize(b, sinkLabel)
	if err != nil {
		return false, err
	}
	type pair struct{ x, y int }
	start := pair{ta.initial, tb.initial}
	visited := map[pair]bool{start: true}
	worklist := []pair{start}
	for len(worklist) > 0 {
		p := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		if ta.finals.Test(uint(p.x)) != tb.finals.Test(uint(p.y)) {
			return false, nil
		}
		for _, sym := range ta.alphabet {
			next := pair{ta.targets(p.x, sym)[0], tb.targets(p.y, sym)[0]}
			if !visited[next] {
				visited[next] = true
				worklist = append(worklist, next)
			}
		}
	}
	return true, nil
}

func sameAlphabet(a, b *Automaton) bool {
	if len(a.alphabet) != len(b.alphabet) {
		return false
	}
	for i, sym := range a.alphabet {
		if b.alphabet[i] != sym {
			return false
		}
	}
	return true
}

func product(a, b *Automaton, opname string, accept func(bool, bool) bool) (*Automaton, error) {
	if a.kind != Deterministic || b.kind != Deterministic {
		return nil, &InvalidAutomatonError{
			Reason: opname + " requires deterministic automata",
		}
	}
	if !sameAlphabet(a, b) {
		return nil, &InvalidAutomatonError{
			Reason: opname + " requires identical alphabets",
		}
	}
	ta, err := Totalize(a, sinkLabel)
	if err != nil {
		return nil, err
	}
	tb, err := Totalize(b, sinkLabel)
	if err != nil {
		return nil, err
	}
	pairLabel := func(x, y int) string {
		return fmt.Sprintf("(%s,%s)", ta.labels[x], tb.labels[y])
	}
	bld := NewBuilder(fmt.Sprintf("%s%s%s", a.name, opname, b.name))
	bld.Symbols(ta.alphabet...)
	type pair struct{ x, y int }
	start := pair{ta.initial, tb.initial}
	bld.Initial(pairLabel(start.x, start.y))
	visited := map[pair]bool{start: true}
	worklist := []pair{start}
	for len(worklist) > 0 {
		p := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		label := pairLabel(p.x, p.y)
		bld.State(label)
		if accept(ta.finals.Test(uint(p.x)), tb.finals.Test(uint(p.y))) {
			bld.Final(label)
		}
		for _, sym := range ta.alphabet {
			next := pair{ta.targets(p.x, sym)[0], tb.targets(p.y, sym)[0]}
			bld.Edge(label, sym, pairLabel(next.x, next.y))
			if !visited[next] {
				visited[next] = true
				worklist = append(worklist, next)
			}
		}
	}
	return bld.Automaton()
}
