package fa

import (
	"fmt"
	"strings"

	"github.com/baobabgit/baobab-automata/fa/sparse"
)

// Minimize produces the minimal DFA for the language of a, using partition
// refinement: starting from the partition {final, non-final}, any block
// containing two states that transition into different blocks on some
// symbol is split, until a fixed point is reached. Each remaining block
// becomes one state of the result.
//
// Minimization requires a deterministic automaton. Unreachable states would
// corrupt the distinguishability computation, so reachability pruning is
// performed first as a precondition step. The result accepts exactly the
// same language and never has more states than the input.
func Minimize(a *Automaton) (*Automaton, error) {
	if a.kind != Deterministic {
		return nil, &InvalidAutomatonError{Reason: "minimization requires a deterministic automaton"}
	}
	a, err := RemoveUnreachable(a)
	if err != nil {
		return nil, err
	}
	n := a.NumStates()
	sink := n // implicit sink state making the transition function total

	// Transition lookup table; the null-value doubles as the sink, so a
	// partial DFA needs no explicit sink edges here.
	delta := sparse.NewIntMatrix(n+1, len(a.alphabet), int32(sink))
	for s := 0; s < n; s++ {
		for j, sym := range a.alphabet {
			if targets := a.targets(s, sym); len(targets) > 0 {
				delta.Set(s, j, int32(targets[0]))
			}
		}
	}

	// Initial partition: {non-final, final}; the sink is non-final.
	block := make([]int, n+1)
	blocks := 1
	for s := 0; s < n; s++ {
		if a.finals.Test(uint(s)) {
			block[s] = 1
			blocks = 2
		}
	}

	// Refine until no block can be split. States with identical signatures
	// (own block plus target block per symbol) stay together.
	for {
		next := make([]int, n+1)
		ids := map[string]int{}
		for s := 0; s <= n; s++ {
			var sig strings.Builder
			fmt.Fprintf(&sig, "%d", block[s])
			for j := range a.alphabet {
				fmt.Fprintf(&sig, "|%d", block[delta.Value(s, j)])
			}
			id, ok := ids[sig.String()]
			if !ok {
				id = len(ids)
				ids[sig.String()] = id
			}
			next[s] = id
		}
		if len(ids) == blocks {
			break
		}
		blocks = len(ids)
		block = next
		tracer().Debugf("partition refined to %d blocks", blocks)
	}

	// Each block containing at least one real state becomes one minimized
	// state; edges into the pure-sink block are omitted, keeping the result
	// partial exactly where the input was.
	members := make([][]string, blocks)
	for s := 0; s < n; s++ {
		members[block[s]] = append(members[block[s]], a.labels[s])
	}
	labelOf := make([]string, blocks)
	for i, m := range members {
		if len(m) > 0 {
			labelOf[i] = subsetLabel(m)
		}
	}

	b := NewBuilder(a.name)
	b.Symbols(a.alphabet...)
	b.Initial(labelOf[block[a.initial]])
	emitted := map[string]bool{}
	for s := 0; s < n; s++ {
		from := labelOf[block[s]]
		b.State(from)
		if a.finals.Test(uint(s)) {
			b.Final(from)
		}
		for j, sym := range a.alphabet {
			t := int(delta.Value(s, j))
			if len(members[block[t]]) == 0 {
				continue // pure-sink block
			}
			key := fmt.Sprintf("%s|%c|%d", from, sym, block[t])
			if !emitted[key] {
				emitted[key] = true
				b.Edge(from, sym, labelOf[block[t]])
			}
		}
	}
	m, err := b.Automaton()
	if err != nil {
		return nil, err
	}
	tracer().Infof("minimized %q: %d states → %d states", a.name, n, m.NumStates())
	return m, nil
}
