package fa

import (
	"errors"
	"testing"

	baobab "github.com/baobabgit/baobab-automata"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// endsWithB builds the minimal 2-state DFA for strings over {a,b} ending
// in 'b'.
func endsWithB(t *testing.T) *Automaton {
	b := NewBuilder("ends-with-b")
	b.Symbols('a', 'b')
	b.Initial("s0").Final("s1")
	b.Edge("s0", 'a', "s0").Edge("s0", 'b', "s1")
	b.Edge("s1", 'a', "s0").Edge("s1", 'b', "s1")
	a, err := b.Automaton()
	require.NoError(t, err)
	return a
}

// endsWithAB builds the classic 3-state NFA for strings ending in "ab":
// loop on the initial state, then guess where the suffix starts.
func endsWithAB(t *testing.T) *Automaton {
	b := NewBuilder("ends-with-ab")
	b.Symbols('a', 'b')
	b.State("q0", "q1", "q2")
	b.Initial("q0").Final("q2")
	b.Edge("q0", 'a', "q0", "q1").Edge("q0", 'b', "q0")
	b.Edge("q1", 'b', "q2")
	a, err := b.Automaton()
	require.NoError(t, err)
	return a
}

// aStarBStar builds an ε-NFA for a*b*: an ε-move bridges the a-loop and
// the b-loop.
func aStarBStar(t *testing.T) *Automaton {
	b := NewBuilder("a*b*")
	b.Symbols('a', 'b')
	b.Initial("p").Final("q")
	b.Edge("p", 'a', "p").Edge("p", Epsilon, "q")
	b.Edge("q", 'b', "q")
	a, err := b.Automaton()
	require.NoError(t, err)
	return a
}

// paritySuffixB builds a 6-state DFA for "ends in b" that tracks the
// irrelevant parity of the input length, plus two unreachable states. The
// minimal equivalent automaton has 2 states.
func paritySuffixB(t *testing.T) *Automaton {
	b := NewBuilder("parity-suffix-b")
	b.Symbols('a', 'b')
	b.State("p0", "p1", "u1")
	b.Initial("p0").Final("q0", "q1", "u0")
	b.Edge("p0", 'a', "p1").Edge("p0", 'b', "q1")
	b.Edge("p1", 'a', "p0").Edge("p1", 'b', "q0")
	b.Edge("q0", 'a', "p1").Edge("q0", 'b', "q1")
	b.Edge("q1", 'a', "p0").Edge("q1", 'b', "q0")
	b.Edge("u0", 'a', "u1").Edge("u1", 'b', "u0")
	a, err := b.Automaton()
	require.NoError(t, err)
	return a
}

// allStrings enumerates every string over {a,b} up to the given length,
// the empty string included.
func allStrings(maxLen int) []string {
	strs := []string{""}
	for l := 0; l < maxLen; l++ {
		level := len(strs)
		for _, s := range strs[level-1<<uint(l):] {
			strs = append(strs, s+"a", s+"b")
		}
	}
	return strs
}

func sameLanguage(t *testing.T, a, b *Automaton, maxLen int) {
	t.Helper()
	for _, s := range allStrings(maxLen) {
		accA, err := a.Accepts(s)
		require.NoError(t, err)
		accB, err := b.Accepts(s)
		require.NoError(t, err)
		if accA != accB {
			t.Errorf("%s and %s disagree on %q: %v vs %v", a.Name(), b.Name(), s, accA, accB)
		}
	}
}

// --- the Tests -------------------------------------------------------------

func TestBuilderValidation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.fa")
	defer teardown()
	//
	b := NewBuilder("broken")
	b.Symbols('a')
	b.Initial("q0").Final("q1")
	b.Edge("q0", 'x', "q1") // 'x' is not declared
	_, err := b.Automaton()
	var invalid *InvalidAutomatonError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 'x', invalid.Symbol)

	b = NewBuilder("no-initial")
	b.Symbols('a')
	b.State("q0")
	_, err = b.Automaton()
	require.ErrorAs(t, err, &invalid)
}

func TestKindDerivation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.fa")
	defer teardown()
	//
	assert.Equal(t, Deterministic, endsWithB(t).Kind())
	assert.Equal(t, Nondeterministic, endsWithAB(t).Kind())
	assert.Equal(t, EpsilonNFA, aStarBStar(t).Kind())
}

func TestAcceptsDFA(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.fa")
	defer teardown()
	//
	a := endsWithB(t)
	for _, tc := range []struct {
		input string
		want  bool
	}{
		{"", false}, {"b", true}, {"ab", true}, {"ba", false}, {"abab", true},
	} {
		got, err := a.Accepts(tc.input)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
	_, err := a.Accepts("abc")
	var rerr *RecognitionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 'c', rerr.Symbol)
	assert.Equal(t, 2, rerr.Pos)
}

func TestAcceptsNFA(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.fa")
	defer teardown()
	//
	a := endsWithAB(t)
	for _, tc := range []struct {
		input string
		want  bool
	}{
		{"ab", true}, {"aab", true}, {"bab", true}, {"", false}, {"a", false}, {"aba", false},
	} {
		got, err := a.Accepts(tc.input)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestAcceptsEpsilonNFA(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.fa")
	defer teardown()
	//
	a := aStarBStar(t)
	for _, tc := range []struct {
		input string
		want  bool
	}{
		{"", true}, {"aaa", true}, {"bb", true}, {"aabb", true}, {"ba", false}, {"aba", false},
	} {
		got, err := a.Accepts(tc.input)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestSimulation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.fa")
	defer teardown()
	//
	sim := endsWithAB(t).Simulate("aab")
	var steps []Step
	for {
		step, ok := sim.Next()
		if !ok {
			break
		}
		steps = append(steps, step)
	}
	require.NoError(t, sim.Err())
	assert.Len(t, steps, 4) // initial step plus one per symbol
	assert.Equal(t, 0, steps[0].Pos)
	assert.True(t, sim.Accepted())

	sim.Restart()
	step, ok := sim.Next()
	require.True(t, ok)
	assert.Equal(t, 0, step.Pos)
}

func TestDeterminize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.fa")
	defer teardown()
	//
	nfa := endsWithAB(t)
	dfa, err := Determinize(nfa, nil)
	require.NoError(t, err)
	assert.Equal(t, Deterministic, dfa.Kind())
	sameLanguage(t, nfa, dfa, 6)
}

func TestDeterminizeEpsilonNFA(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.fa")
	defer teardown()
	//
	nfa := aStarBStar(t)
	dfa, err := Determinize(nfa, nil)
	require.NoError(t, err)
	assert.Equal(t, Deterministic, dfa.Kind())
	sameLanguage(t, nfa, dfa, 6)
}

func TestDeterminizeBudget(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.fa")
	defer teardown()
	//
	_, err := Determinize(endsWithAB(t), baobab.NewBudget(1))
	var timeout *baobab.TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "fa.Determinize", timeout.Op)
}

func TestRemoveEpsilons(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.fa")
	defer teardown()
	//
	enfa := aStarBStar(t)
	nfa, err := RemoveEpsilons(enfa)
	require.NoError(t, err)
	assert.NotEqual(t, EpsilonNFA, nfa.Kind())
	assert.Equal(t, enfa.NumStates(), nfa.NumStates())
	sameLanguage(t, enfa, nfa, 6)
}

func TestRemoveUnreachable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.fa")
	defer teardown()
	//
	a := paritySuffixB(t)
	pruned, err := RemoveUnreachable(a)
	require.NoError(t, err)
	assert.Equal(t, 4, pruned.NumStates()) // u0, u1 dropped
	sameLanguage(t, a, pruned, 6)

	again, err := RemoveUnreachable(pruned)
	require.NoError(t, err)
	assert.Equal(t, pruned.NumStates(), again.NumStates())
}

func TestRemoveDead(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.fa")
	defer teardown()
	//
	b := NewBuilder("with-trap")
	b.Symbols('a', 'b')
	b.State("trap")
	b.Initial("q0").Final("q1")
	b.Edge("q0", 'a', "q1").Edge("q0", 'b', "trap")
	b.Edge("trap", 'a', "trap").Edge("trap", 'b', "trap")
	a, err := b.Automaton()
	require.NoError(t, err)

	pruned, err := RemoveDead(a)
	require.NoError(t, err)
	assert.Equal(t, 2, pruned.NumStates())
	sameLanguage(t, a, pruned, 5)

	again, err := RemoveDead(pruned)
	require.NoError(t, err)
	assert.Equal(t, pruned.NumStates(), again.NumStates())
}

func TestMinimize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.fa")
	defer teardown()
	//
	a := paritySuffixB(t)
	min, err := Minimize(a)
	require.NoError(t, err)
	assert.Equal(t, 2, min.NumStates())
	assert.LessOrEqual(t, min.NumStates(), a.NumStates())
	sameLanguage(t, a, min, 7)

	// a minimal automaton is a fixed point
	again, err := Minimize(min)
	require.NoError(t, err)
	assert.Equal(t, min.NumStates(), again.NumStates())
	eq, err := Equivalent(min, again)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestMinimizeRejectsNFA(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.fa")
	defer teardown()
	//
	_, err := Minimize(endsWithAB(t))
	var invalid *InvalidAutomatonError
	require.ErrorAs(t, err, &invalid)
}

func TestTotalize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.fa")
	defer teardown()
	//
	b := NewBuilder("partial")
	b.Symbols('a', 'b')
	b.Initial("q0").Final("q1")
	b.Edge("q0", 'a', "q1")
	a, err := b.Automaton()
	require.NoError(t, err)

	total, err := Totalize(a, "sink")
	require.NoError(t, err)
	assert.Equal(t, 3, total.NumStates())
	sameLanguage(t, a, total, 5)

	again, err := Totalize(total, "sink2")
	require.NoError(t, err)
	assert.Equal(t, total.NumStates(), again.NumStates())
}

func TestComplement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.fa")
	defer teardown()
	//
	comp, err := Complement(endsWithB(t))
	require.NoError(t, err)
	for _, s := range allStrings(6) {
		acc, err := endsWithB(t).Accepts(s)
		require.NoError(t, err)
		cacc, err := comp.Accepts(s)
		require.NoError(t, err)
		assert.NotEqual(t, acc, cacc, "complement agrees on %q", s)
	}
}

func TestIntersectAndUnion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.fa")
	defer teardown()
	//
	a := endsWithB(t)
	dfaAB, err := Determinize(endsWithAB(t), nil)
	require.NoError(t, err)

	both, err := Intersect(a, dfaAB)
	require.NoError(t, err)
	either, err := Union(a, dfaAB)
	require.NoError(t, err)
	for _, s := range allStrings(6) {
		inA, _ := a.Accepts(s)
		inB, _ := dfaAB.Accepts(s)
		inBoth, err := both.Accepts(s)
		require.NoError(t, err)
		inEither, err := either.Accepts(s)
		require.NoError(t, err)
		assert.Equal(t, inA && inB, inBoth, "intersection wrong on %q", s)
		assert.Equal(t, inA || inB, inEither, "union wrong on %q", s)
	}
}

func TestIsEmpty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.fa")
	defer teardown()
	//
	assert.False(t, IsEmpty(endsWithB(t)))

	// L ∩ ¬L is empty
	comp, err := Complement(endsWithB(t))
	require.NoError(t, err)
	empty, err := Intersect(endsWithB(t), comp)
	require.NoError(t, err)
	assert.True(t, IsEmpty(empty))
}

func TestEquivalent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.fa")
	defer teardown()
	//
	min, err := Minimize(paritySuffixB(t))
	require.NoError(t, err)
	eq, err := Equivalent(min, endsWithB(t))
	require.NoError(t, err)
	assert.True(t, eq)

	comp, err := Complement(endsWithB(t))
	require.NoError(t, err)
	eq, err = Equivalent(comp, endsWithB(t))
	require.NoError(t, err)
	assert.False(t, eq)

	_, err = Equivalent(endsWithAB(t), endsWithB(t))
	var invalid *InvalidAutomatonError
	assert.True(t, errors.As(err, &invalid)) // NFAs must be determinized first
}
