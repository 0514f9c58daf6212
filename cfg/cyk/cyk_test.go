package cyk

import (
	"strings"
	"testing"

	baobab "github.com/baobabgit/baobab-automata"
	"github.com/baobabgit/baobab-automata/cfg"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// anbnCNF builds S → a S b | a b and normalizes it to CNF.
func anbnCNF(t *testing.T) *cfg.Grammar {
	b := cfg.NewGrammarBuilder("anbn")
	b.LHS("S").T("a").N("S").T("b").End()
	b.LHS("S").T("a").T("b").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	cnf, err := cfg.ToCNF(g)
	require.NoError(t, err)
	return cnf
}

func TestLetters(t *testing.T) {
	assert.Equal(t, []string{"a", "a", "b"}, Letters("aab"))
	assert.Empty(t, Letters(""))
}

func TestRecognizeRequiresCNF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.cyk")
	defer teardown()
	//
	b := cfg.NewGrammarBuilder("raw")
	b.LHS("S").T("a").N("S").T("b").End()
	b.LHS("S").T("a").T("b").End()
	g, err := b.Grammar()
	require.NoError(t, err)

	_, err = Recognize(g, Letters("ab"))
	var notCNF *NotInCNFError
	require.ErrorAs(t, err, &notCNF)
	assert.Equal(t, "raw", notCNF.Grammar)
}

func TestRecognize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.cyk")
	defer teardown()
	//
	g := anbnCNF(t)
	for _, tc := range []struct {
		input string
		want  bool
	}{
		{"ab", true}, {"aabb", true}, {"aaabbb", true},
		{"", false}, {"a", false}, {"aab", false}, {"ba", false}, {"abab", false},
	} {
		got, err := Recognize(g, Letters(tc.input))
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestRecognizeEmptyWord(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.cyk")
	defer teardown()
	//
	b := cfg.NewGrammarBuilder("anbn-eps")
	b.LHS("S").T("a").N("S").T("b").End()
	b.LHS("S").Epsilon()
	g, err := b.Grammar()
	require.NoError(t, err)
	cnf, err := cfg.ToCNF(g)
	require.NoError(t, err)

	for _, tc := range []struct {
		input string
		want  bool
	}{
		{"", true}, {"ab", true}, {"aabb", true}, {"a", false},
	} {
		got, err := Recognize(cnf, Letters(tc.input))
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.cyk")
	defer teardown()
	//
	g := anbnCNF(t)
	tree, err := Parse(g, Letters("aabb"))
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, g.Start().Name, tree.Symbol.Name)
	assert.Equal(t, baobab.Span{0, 4}, tree.Span)
	assert.Equal(t, "aabb", strings.Join(tree.Terminals(), ""))

	tree, err = Parse(g, Letters("aab"))
	require.NoError(t, err)
	assert.Nil(t, tree)
}

func TestParseEmptyWord(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.cyk")
	defer teardown()
	//
	b := cfg.NewGrammarBuilder("eps-only")
	b.Start("S")
	b.LHS("S").Epsilon()
	g, err := b.Grammar()
	require.NoError(t, err)
	require.True(t, cfg.IsCNF(g))

	tree, err := Parse(g, nil)
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.True(t, tree.IsLeaf())
	assert.Empty(t, tree.Terminals())
}

func TestRecognizeBudget(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.cyk")
	defer teardown()
	//
	_, err := Recognize(anbnCNF(t), Letters("aaabbb"), WithBudget(baobab.NewBudget(2)))
	var timeout *baobab.TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "cyk.Recognize", timeout.Op)
}

func TestRecognizeCache(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "baobab.cyk")
	defer teardown()
	//
	cache := cfg.NewMembershipCache()
	g := anbnCNF(t)
	ok, err := Recognize(g, Letters("aabb"), WithCache(cache))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, cache.Len())

	ok, err = Recognize(g, Letters("aabb"), WithCache(cache))
	require.NoError(t, err)
	assert.True(t, ok)
	hits, _ := cache.Stats()
	assert.Equal(t, uint64(1), hits)

	// a structurally equal but distinct grammar instance hits the cache too
	ok, err = Recognize(anbnCNF(t), Letters("aabb"), WithCache(cache))
	require.NoError(t, err)
	assert.True(t, ok)
	hits, _ = cache.Stats()
	assert.Equal(t, uint64(2), hits)
}
