package pda

import (
	"fmt"
	"strings"

	baobab "github.com/baobabgit/baobab-automata"
)

// DefaultBudget is the step budget for configuration searches when none is
// provided. Pushdown ε-moves can grow the stack without bound, so the
// search is never run unbounded.
const DefaultBudget uint64 = 1 << 20

// Option configures a recognition run.
type Option func(*config)

type config struct {
	budget *baobab.Budget
}

// WithBudget replaces the default step budget, checked once per explored
// configuration.
func WithBudget(b *baobab.Budget) Option {
	return func(c *config) { c.budget = b }
}

// Configuration is a snapshot of a run: the current state, the number of
// input symbols consumed, and the stack with its top at index 0.
type Configuration struct {
	State string
	Pos   int
	Stack []string
}

func (c Configuration) String() string {
	return "(" + c.State + ", " + strings.Join(c.Stack, "") + ")"
}

// node is a search node with a parent pointer for trace reconstruction.
type node struct {
	state  int
	pos    int
	stack  []string
	parent *node
}

func (n *node) key() string {
	return fmt.Sprintf("%d|%d|%s", n.state, n.pos, strings.Join(n.stack, "\x00"))
}

// Accepts reports whether the automaton accepts the input, under the
// acceptance mode fixed at construction. The configuration graph is
// explored breadth-first; a *baobab.TimeoutError is returned when the
// step budget runs out before the search settles.
func (a *Automaton) Accepts(input string, opts ...Option) (bool, error) {
	final, err := a.search(input, "pda.Accepts", opts)
	return final != nil, err
}

// Trace returns the configuration sequence of one accepting run, from the
// initial configuration to the accepting one, or nil if the input is
// rejected.
func (a *Automaton) Trace(input string, opts ...Option) ([]Configuration, error) {
	final, err := a.search(input, "pda.Trace", opts)
	if final == nil || err != nil {
		return nil, err
	}
	var path []Configuration
	for n := final; n != nil; n = n.parent {
		path = append(path, Configuration{
			State: a.labels[n.state],
			Pos:   n.pos,
			Stack: append([]string(nil), n.stack...),
		})
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// search runs the breadth-first configuration search and returns the first
// accepting node, or nil.
func (a *Automaton) search(input string, op string, opts []Option) (*node, error) {
	cfgr := &config{}
	for _, opt := range opts {
		opt(cfgr)
	}
	budget := cfgr.budget
	if budget == nil {
		budget = baobab.NewBudget(DefaultBudget)
	}
	runes := []rune(input)
	for i, r := range runes {
		if !a.hasSymbol(r) {
			return nil, &RecognitionError{Symbol: r, Pos: i}
		}
	}
	start := &node{state: a.initial, stack: []string{a.bottom}}
	queue := []*node{start}
	visited := map[string]bool{start.key(): true}
	for len(queue) > 0 {
		if !budget.Step() {
			return nil, &baobab.TimeoutError{Op: op, Limit: budget.Limit()}
		}
		n := queue[0]
		queue = queue[1:]
		if n.pos == len(runes) && a.accepting(n) {
			tracer().Debugf("%q accepted after %d steps", input, budget.Steps())
			return n, nil
		}
		if len(n.stack) == 0 {
			continue // no stack top, no moves
		}
		top := n.stack[0]
		for _, act := range a.moves(n.state, Epsilon, top) {
			succ := &node{state: act.to, pos: n.pos, stack: replaceTop(n.stack, act.push), parent: n}
			if k := succ.key(); !visited[k] {
				visited[k] = true
				queue = append(queue, succ)
			}
		}
		if n.pos < len(runes) {
			for _, act := range a.moves(n.state, runes[n.pos], top) {
				succ := &node{state: act.to, pos: n.pos + 1, stack: replaceTop(n.stack, act.push), parent: n}
				if k := succ.key(); !visited[k] {
					visited[k] = true
					queue = append(queue, succ)
				}
			}
		}
	}
	return nil, nil
}

func (a *Automaton) accepting(n *node) bool {
	if a.mode == ByEmptyStack {
		return len(n.stack) == 0
	}
	return a.finals.Test(uint(n.state))
}

// replaceTop returns a fresh stack with the top symbol replaced by push.
func replaceTop(stack, push []string) []string {
	out := make([]string, 0, len(push)+len(stack)-1)
	out = append(out, push...)
	out = append(out, stack[1:]...)
	return out
}
