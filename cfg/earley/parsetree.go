package earley

import (
	baobab "github.com/baobabgit/baobab-automata"
	"github.com/baobabgit/baobab-automata/cfg"
	"github.com/npillmayer/schuko/gconf"
)

// Parse recognizes the input and reconstructs one derivation tree from the
// completed chart items. It returns nil without error when the input is
// not in the language; for ambiguous grammars an arbitrary witness tree is
// chosen.
func Parse(g *cfg.Grammar, tokens []string, opts ...Option) (*cfg.ParseTree, error) {
	cfgr := gather(opts)
	ch, err := build(g, tokens, cfgr.budget)
	if err != nil {
		return nil, err
	}
	if !ch.accepted() {
		return nil, nil
	}
	d := newDeriver(ch)
	tree := d.derive(g.Start().Name, 0, len(tokens))
	if tree == nil {
		// recognition succeeded, so a derivation must exist
		stuck("no derivation found for accepted input")
		return nil, nil
	}
	return tree, nil
}

// deriver searches the completed items for a concrete derivation. spans
// indexes them as variable name → origin → rules per end position, so the
// search only ever follows spans the recognizer has proven.
type deriver struct {
	ch    *chart
	spans map[string]map[int]map[int][]*cfg.Rule
	memo  map[spanKey]*cfg.ParseTree
	open  map[spanKey]bool // guards against cyclic derivations like A ⇒ A
}

type spanKey struct {
	name       string
	start, end int
}

func newDeriver(ch *chart) *deriver {
	d := &deriver{
		ch:    ch,
		spans: map[string]map[int]map[int][]*cfg.Rule{},
		memo:  map[spanKey]*cfg.ParseTree{},
		open:  map[spanKey]bool{},
	}
	for end, set := range ch.sets {
		for _, it := range set.items {
			if !it.completed() {
				continue
			}
			name := it.rule.LHS.Name
			byOrigin := d.spans[name]
			if byOrigin == nil {
				byOrigin = map[int]map[int][]*cfg.Rule{}
				d.spans[name] = byOrigin
			}
			byEnd := byOrigin[it.origin]
			if byEnd == nil {
				byEnd = map[int][]*cfg.Rule{}
				byOrigin[it.origin] = byEnd
			}
			byEnd[end] = append(byEnd[end], it.rule)
		}
	}
	return d
}

// derive builds a tree for the variable name spanning tokens[start:end],
// or nil if no completed derivation covers that span.
func (d *deriver) derive(name string, start, end int) *cfg.ParseTree {
	key := spanKey{name: name, start: start, end: end}
	if t := d.memo[key]; t != nil {
		return t
	}
	if d.open[key] {
		return nil
	}
	d.open[key] = true
	defer delete(d.open, key)

	var tree *cfg.ParseTree
	for _, r := range d.spans[name][start][end] {
		children, ok := d.matchRHS(r.RHS(), start, end)
		if !ok {
			continue
		}
		tree = &cfg.ParseTree{
			Symbol:   d.ch.g.Variable(name),
			Children: children,
			Span:     baobab.Span{uint64(start), uint64(end)},
		}
		break
	}
	if tree != nil {
		// failures are not memoized: a span may fail under one open
		// ancestor chain and succeed under another
		d.memo[key] = tree
	}
	return tree
}

// matchRHS splits [start, end) over the symbols of a rule body, one child
// per symbol. An empty body matches the empty span (an ε-node).
func (d *deriver) matchRHS(syms []*cfg.Symbol, start, end int) ([]*cfg.ParseTree, bool) {
	if len(syms) == 0 {
		return nil, start == end
	}
	sym := syms[0]
	if sym.IsTerminal() {
		if start >= end || d.ch.tokens[start] != sym.Name {
			return nil, false
		}
		leaf := &cfg.ParseTree{
			Symbol: sym,
			Span:   baobab.Span{uint64(start), uint64(start + 1)},
		}
		rest, ok := d.matchRHS(syms[1:], start+1, end)
		if !ok {
			return nil, false
		}
		return append([]*cfg.ParseTree{leaf}, rest...), true
	}
	for mid := range d.spans[sym.Name][start] {
		if mid > end {
			continue
		}
		child := d.derive(sym.Name, start, mid)
		if child == nil {
			continue
		}
		rest, ok := d.matchRHS(syms[1:], mid, end)
		if !ok {
			continue
		}
		return append([]*cfg.ParseTree{child}, rest...), true
	}
	return nil, false
}

func stuck(msg string) bool {
	tracer().Errorf(msg)
	if gconf.GetBool("panic-on-parser-stuck") {
		panic(`Earley-parser is stuck.

Configuration flag panic-on-parser-stuck is set to true. It is aimed at helping
to debug a parser and do a post-mortem of why it got stuck. However, if this is
a production environment and you did not expect this to panic, please unset
panic-on-parser-stuck to its default (false).

` + msg)
	}
	return true
}
