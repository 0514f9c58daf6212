package cfg

import (
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// anbn builds the grammar S → a S b | a b for the language aⁿbⁿ, n ≥ 1.
func anbn(t *testing.T) *Grammar {
	b := NewGrammarBuilder("anbn")
	b.LHS("S").T("a").N("S").T("b").End()
	b.LHS("S").T("a").T("b").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	return g
}

func TestGrammarBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.cfg")
	defer teardown()
	//
	g := anbn(t)
	assert.Equal(t, "S", g.Start().Name)
	assert.Equal(t, 2, g.Size())
	assert.Len(t, g.RulesFor(g.Start()), 2)
	assert.NotNil(t, g.Variable("S"))
	assert.NotNil(t, g.Terminal("a"))
	assert.Nil(t, g.Terminal("c"))
	assert.Equal(t, "S → a S b", g.Rule(0).String())
}

func TestGrammarBuilderDedup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.cfg")
	defer teardown()
	//
	b := NewGrammarBuilder("dup")
	b.LHS("S").T("a").End()
	b.LHS("S").T("a").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	assert.Equal(t, 1, g.Size())
}

func TestGrammarBuilderClash(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.cfg")
	defer teardown()
	//
	b := NewGrammarBuilder("clash")
	b.LHS("S").T("S").End() // "S" as variable and as terminal
	_, err := b.Grammar()
	var invalid *InvalidGrammarError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "S", invalid.Symbol)
}

func TestGrammarBuilderExplicitStart(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.cfg")
	defer teardown()
	//
	b := NewGrammarBuilder("expl")
	b.Start("E")
	b.LHS("T").T("n").End()
	b.LHS("E").N("T").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	assert.Equal(t, "E", g.Start().Name)
}

func TestContentHash(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.cfg")
	defer teardown()
	//
	g1, g2 := anbn(t), anbn(t)
	h1, err := g1.ContentHash()
	require.NoError(t, err)
	h2, err := g2.ContentHash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "structurally equal grammars must hash equal")

	b := NewGrammarBuilder("anbn")
	b.LHS("S").T("a").N("S").T("b").End()
	g3, err := b.Grammar()
	require.NoError(t, err)
	h3, err := g3.ContentHash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestMembershipCache(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.cfg")
	defer teardown()
	//
	cache := NewMembershipCache()
	key, err := MembershipKey("cyk", anbn(t), []string{"a", "b"})
	require.NoError(t, err)

	_, ok := cache.Lookup(key)
	assert.False(t, ok)
	cache.Store(key, true)
	accepted, ok := cache.Lookup(key)
	assert.True(t, ok)
	assert.True(t, accepted)
	assert.Equal(t, 1, cache.Len())

	hits, misses := cache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)

	// a nil cache is a no-op
	var nilCache *MembershipCache
	nilCache.Store(key, true)
	_, ok = nilCache.Lookup(key)
	assert.False(t, ok)
}

// Every lookup counts as exactly one hit or one miss, even when lookups
// and stores interleave from concurrent goroutines.
func TestMembershipCacheConcurrent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.cfg")
	defer teardown()
	//
	cache := NewMembershipCache()
	key, err := MembershipKey("cyk", anbn(t), []string{"a", "b"})
	require.NoError(t, err)

	const workers, rounds = 8, 200
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				cache.Lookup(key)
				cache.Store(key, true)
			}
		}()
	}
	wg.Wait()

	hits, misses := cache.Stats()
	assert.Equal(t, uint64(workers*rounds), hits+misses)
	assert.Equal(t, 1, cache.Len())
}

func TestAnalysisNullable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.cfg")
	defer teardown()
	//
	// S → A B, A → a A | ε, B → b
	b := NewGrammarBuilder("nullable")
	b.LHS("S").N("A").N("B").End()
	b.LHS("A").T("a").N("A").End()
	b.LHS("A").Epsilon()
	b.LHS("B").T("b").End()
	g, err := b.Grammar()
	require.NoError(t, err)

	ga := Analysis(g)
	assert.Equal(t, []string{"A"}, ga.NullableSet())
	assert.True(t, ga.Nullable(g.Variable("A")))
	assert.False(t, ga.Nullable(g.Variable("S"))) // B blocks it
	assert.False(t, ga.Nullable(g.Terminal("a")))
	assert.True(t, ga.DerivesEpsilon([]*Symbol{g.Variable("A")}))
	assert.True(t, ga.DerivesEpsilon(nil))
}

func TestAnalysisNullableTransitive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.cfg")
	defer teardown()
	//
	// S → A B, A → ε, B → A A: everything is nullable
	b := NewGrammarBuilder("all-nullable")
	b.LHS("S").N("A").N("B").End()
	b.LHS("A").Epsilon()
	b.LHS("B").N("A").N("A").End()
	g, err := b.Grammar()
	require.NoError(t, err)

	ga := Analysis(g)
	assert.Equal(t, []string{"A", "B", "S"}, ga.NullableSet())
}

func TestAnalysisFirstFollow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.cfg")
	defer teardown()
	//
	// E → T E′, E′ → + T E′ | ε, T → n
	b := NewGrammarBuilder("expr")
	b.LHS("E").N("T").N("E′").End()
	b.LHS("E′").T("+").N("T").N("E′").End()
	b.LHS("E′").Epsilon()
	b.LHS("T").T("n").End()
	g, err := b.Grammar()
	require.NoError(t, err)

	ga := Analysis(g)
	assert.Equal(t, []string{"n"}, ga.First(g.Variable("E")))
	assert.Equal(t, []string{"+"}, ga.First(g.Variable("E′")))
	assert.Equal(t, []string{"n"}, ga.First(g.Terminal("n")))
	assert.Equal(t, []string{EOFToken}, ga.Follow(g.Variable("E")))
	assert.Equal(t, []string{EOFToken}, ga.Follow(g.Variable("E′")))
	assert.Equal(t, []string{EOFToken, "+"}, ga.Follow(g.Variable("T")))
}

func TestAnalysisProductiveReachable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.cfg")
	defer teardown()
	//
	// U never derives a terminal string, W is unreachable
	b := NewGrammarBuilder("useless")
	b.LHS("S").T("a").End()
	b.LHS("S").N("U").End()
	b.LHS("U").N("U").T("b").End()
	b.LHS("W").T("c").End()
	g, err := b.Grammar()
	require.NoError(t, err)

	ga := Analysis(g)
	assert.True(t, ga.Productive(g.Variable("S")))
	assert.False(t, ga.Productive(g.Variable("U")))
	assert.True(t, ga.Reachable(g.Variable("U")))
	assert.False(t, ga.Reachable(g.Variable("W")))
}
