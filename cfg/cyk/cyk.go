package cyk

import (
	"fmt"

	baobab "github.com/baobabgit/baobab-automata"
	"github.com/baobabgit/baobab-automata/cfg"
)

// NotInCNFError signals that a grammar handed to the CYK algorithm is not
// in Chomsky Normal Form. Normalize with cfg.ToCNF first.
type NotInCNFError struct {
	Grammar string
}

func (e *NotInCNFError) Error() string {
	return fmt.Sprintf("grammar %q is not in Chomsky Normal Form", e.Grammar)
}

// Option configures a CYK run.
type Option func(*config)

type config struct {
	budget *baobab.Budget
	cache  *cfg.MembershipCache
}

// WithBudget limits the run to a step budget, checked once per table cell.
func WithBudget(b *baobab.Budget) Option {
	return func(c *config) { c.budget = b }
}

// WithCache memoizes membership results in an explicitly provided cache.
func WithCache(cache *cfg.MembershipCache) Option {
	return func(c *config) { c.cache = cache }
}

// Letters splits a string into one-rune terminal names, the common input
// shape for character-level grammars.
func Letters(s string) []string {
	tokens := make([]string, 0, len(s))
	for _, r := range s {
		tokens = append(tokens, string(r))
	}
	return tokens
}

// back is the witness stored per (cell, variable) for tree reconstruction.
type back struct {
	rule  *cfg.Rule
	split int // length of the left part, 0 for terminal cells
}

// table[i][l-1] maps variable names deriving tokens[i:i+l] to a witness.
type table [][]map[string]back

// Recognize reports whether the tokenized input is in the language of the
// CNF grammar g. The empty input is accepted iff the start symbol has an
// ε-production.
func Recognize(g *cfg.Grammar, tokens []string, opts ...Option) (bool, error) {
	cfgr := gather(opts)
	if !cfg.IsCNF(g) {
		return false, &NotInCNFError{Grammar: g.Name}
	}
	var key string
	if cfgr.cache != nil {
		var err error
		if key, err = cfg.MembershipKey("cyk", g, tokens); err != nil {
			return false, err
		}
		if accepted, ok := cfgr.cache.Lookup(key); ok {
			return accepted, nil
		}
	}
	accepted := false
	if len(tokens) == 0 {
		accepted = hasEpsilonStart(g)
	} else {
		tbl, err := fill(g, tokens, cfgr.budget)
		if err != nil {
			return false, err
		}
		_, accepted = tbl[0][len(tokens)-1][g.Start().Name]
	}
	cfgr.cache.Store(key, accepted)
	return accepted, nil
}

// Parse recognizes the input and reconstructs a parse tree from the stored
// split points. It returns nil without error when the input is not in the
// language.
func Parse(g *cfg.Grammar, tokens []string, opts ...Option) (*cfg.ParseTree, error) {
	cfgr := gather(opts)
	if !cfg.IsCNF(g) {
		return nil, &NotInCNFError{Grammar: g.Name}
	}
	if len(tokens) == 0 {
		if hasEpsilonStart(g) {
			return &cfg.ParseTree{Symbol: g.Start()}, nil
		}
		return nil, nil
	}
	tbl, err := fill(g, tokens, cfgr.budget)
	if err != nil {
		return nil, err
	}
	if _, ok := tbl[0][len(tokens)-1][g.Start().Name]; !ok {
		return nil, nil
	}
	return buildTree(g, tbl, tokens, g.Start().Name, 0, len(tokens)), nil
}

func gather(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func hasEpsilonStart(g *cfg.Grammar) bool {
	for _, r := range g.RulesFor(g.Start()) {
		if r.IsEps() {
			return true
		}
	}
	return false
}

// fill computes the CYK table bottom-up: cells of length 1 from terminal
// productions, longer cells by combining two sub-cells over every binary
// production.
func fill(g *cfg.Grammar, tokens []string, budget *baobab.Budget) (table, error) {
	n := len(tokens)
	tbl := make(table, n)
	for i := range tbl {
		tbl[i] = make([]map[string]back, n-i)
		for l := range tbl[i] {
			tbl[i][l] = map[string]back{}
		}
	}
	rules := g.Rules()
	for i := 0; i < n; i++ {
		if !budget.Step() {
			return nil, &baobab.TimeoutError{Op: "cyk.Recognize", Limit: budget.Limit()}
		}
		for _, r := range rules {
			if r.Len() == 1 && r.RHS()[0].IsTerminal() && r.RHS()[0].Name == tokens[i] {
				if _, ok := tbl[i][0][r.LHS.Name]; !ok {
					tbl[i][0][r.LHS.Name] = back{rule: r}
				}
			}
		}
	}
	for l := 2; l <= n; l++ { // substring length
		for i := 0; i+l <= n; i++ { // substring start
			if !budget.Step() {
				return nil, &baobab.TimeoutError{Op: "cyk.Recognize", Limit: budget.Limit()}
			}
			cell := tbl[i][l-1]
			for k := 1; k < l; k++ { // length of the left part
				left, right := tbl[i][k-1], tbl[i+k][l-k-1]
				for _, r := range rules {
					if r.Len() != 2 {
						continue
					}
					rhs := r.RHS()
					if _, ok := cell[r.LHS.Name]; ok {
						continue
					}
					if _, ok := left[rhs[0].Name]; !ok {
						continue
					}
					if _, ok := right[rhs[1].Name]; !ok {
						continue
					}
					cell[r.LHS.Name] = back{rule: r, split: k}
				}
			}
		}
	}
	tracer().Debugf("CYK table for %d tokens filled", n)
	return tbl, nil
}

// buildTree reconstructs the parse tree for variable name deriving
// tokens[i:i+l], following the stored witnesses.
func buildTree(g *cfg.Grammar, tbl table, tokens []string, name string, i, l int) *cfg.ParseTree {
	w := tbl[i][l-1][name]
	node := &cfg.ParseTree{
		Symbol: g.Variable(name),
		Span:   baobab.Span{uint64(i), uint64(i + l)},
	}
	if l == 1 && w.split == 0 {
		node.Children = []*cfg.ParseTree{{
			Symbol: w.rule.RHS()[0],
			Span:   baobab.Span{uint64(i), uint64(i + 1)},
		}}
		return node
	}
	rhs := w.rule.RHS()
	node.Children = []*cfg.ParseTree{
		buildTree(g, tbl, tokens, rhs[0].Name, i, w.split),
		buildTree(g, tbl, tokens, rhs[1].Name, i+w.split, l-w.split),
	}
	return node
}
