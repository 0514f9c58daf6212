package earley

import (
	baobab "github.com/baobabgit/baobab-automata"
	"github.com/baobabgit/baobab-automata/cfg"
)

// Option configures an Earley run.
type Option func(*config)

type config struct {
	budget *baobab.Budget
	cache  *cfg.MembershipCache
}

// WithBudget limits the run to a step budget, checked once per completed
// chart position.
func WithBudget(b *baobab.Budget) Option {
	return func(c *config) { c.budget = b }
}

// WithCache memoizes membership results in an explicitly provided cache.
func WithCache(cache *cfg.MembershipCache) Option {
	return func(c *config) { c.cache = cache }
}

// Letters splits a string into one-rune terminal names.
func Letters(s string) []string {
	tokens := make([]string, 0, len(s))
	for _, r := range s {
		tokens = append(tokens, string(r))
	}
	return tokens
}

// item is an Earley item: a dotted rule plus the input position where its
// derivation started.
type item struct {
	rule   *cfg.Rule
	dot    int
	origin int
}

func (it item) completed() bool {
	return it.dot == it.rule.Len()
}

// next returns the symbol right of the dot, nil for completed items.
func (it item) next() *cfg.Symbol {
	if it.completed() {
		return nil
	}
	return it.rule.RHS()[it.dot]
}

func (it item) String() string {
	s := it.rule.LHS.Name + " →"
	rhs := it.rule.RHS()
	for i, sym := range rhs {
		if i == it.dot {
			s += " •"
		}
		s += " " + sym.Name
	}
	if it.dot == len(rhs) {
		s += " •"
	}
	return s
}

// stateSet is an insertion-ordered item set. Iterating by index while
// appending implements the usual fixed point over one chart position.
type stateSet struct {
	items []item
	seen  map[item]bool
}

func newStateSet() *stateSet {
	return &stateSet{seen: map[item]bool{}}
}

func (s *stateSet) add(it item) bool {
	if s.seen[it] {
		return false
	}
	s.seen[it] = true
	s.items = append(s.items, it)
	return true
}

// chart holds one state set per input position, 0 through len(tokens).
type chart struct {
	g      *cfg.Grammar
	ga     *cfg.GrammarAnalysis
	tokens []string
	sets   []*stateSet
}

// Recognize reports whether the tokenized input is in the language of g.
// The grammar may be in any form, ε-productions and left recursion
// included.
func Recognize(g *cfg.Grammar, tokens []string, opts ...Option) (bool, error) {
	cfgr := gather(opts)
	var key string
	if cfgr.cache != nil {
		var err error
		if key, err = cfg.MembershipKey("earley", g, tokens); err != nil {
			return false, err
		}
		if accepted, ok := cfgr.cache.Lookup(key); ok {
			return accepted, nil
		}
	}
	ch, err := build(g, tokens, cfgr.budget)
	if err != nil {
		return false, err
	}
	accepted := ch.accepted()
	cfgr.cache.Store(key, accepted)
	return accepted, nil
}

func gather(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// build fills the chart left to right. Position i consumes tokens[i] into
// set i+1; each set is closed under predict and complete before moving on.
func build(g *cfg.Grammar, tokens []string, budget *baobab.Budget) (*chart, error) {
	n := len(tokens)
	ch := &chart{
		g:      g,
		ga:     cfg.Analysis(g),
		tokens: tokens,
		sets:   make([]*stateSet, n+1),
	}
	for i := range ch.sets {
		ch.sets[i] = newStateSet()
	}
	for _, r := range g.RulesFor(g.Start()) {
		ch.sets[0].add(item{rule: r})
	}
	for i := 0; i <= n; i++ {
		if !budget.Step() {
			return nil, &baobab.TimeoutError{Op: "earley.Recognize", Limit: budget.Limit()}
		}
		set := ch.sets[i]
		for idx := 0; idx < len(set.items); idx++ {
			it := set.items[idx]
			switch sym := it.next(); {
			case sym == nil:
				ch.complete(i, it)
			case sym.IsTerminal():
				ch.scan(i, it, sym)
			default:
				ch.predict(i, it, sym)
			}
		}
		tracer().Debugf("chart position %d closed with %d items", i, len(set.items))
	}
	return ch, nil
}

// predict adds the rules of the variable right of the dot, started at the
// current position. If the variable is nullable the dot additionally jumps
// over it (Aycock-Horspool), so ε-derivations need no dedicated pass.
func (ch *chart) predict(i int, it item, sym *cfg.Symbol) {
	for _, r := range ch.g.RulesFor(sym) {
		ch.sets[i].add(item{rule: r, origin: i})
	}
	if ch.ga.Nullable(sym) {
		ch.sets[i].add(item{rule: it.rule, dot: it.dot + 1, origin: it.origin})
	}
}

// scan moves the dot over a matching terminal into the next set.
func (ch *chart) scan(i int, it item, sym *cfg.Symbol) {
	if i < len(ch.tokens) && ch.tokens[i] == sym.Name {
		ch.sets[i+1].add(item{rule: it.rule, dot: it.dot + 1, origin: it.origin})
	}
}

// complete advances every item in the origin set that was waiting for the
// completed variable.
func (ch *chart) complete(i int, it item) {
	for _, waiting := range ch.sets[it.origin].items {
		if sym := waiting.next(); sym != nil && !sym.IsTerminal() && sym.Name == it.rule.LHS.Name {
			ch.sets[i].add(item{rule: waiting.rule, dot: waiting.dot + 1, origin: waiting.origin})
		}
	}
}

// accepted checks the final set for a completed start rule spanning the
// whole input.
func (ch *chart) accepted() bool {
	start := ch.g.Start().Name
	for _, it := range ch.sets[len(ch.tokens)].items {
		if it.completed() && it.origin == 0 && it.rule.LHS.Name == start {
			return true
		}
	}
	return false
}
