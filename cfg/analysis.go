package cfg

import (
	"sort"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// EOFToken is the pseudo-terminal marking the end of input in FOLLOW-sets.
// It is never a member of a grammar's terminal set.
const EOFToken = "#eof"

// GrammarAnalysis holds the results of a static analysis of a grammar:
// the nullable variables, FIRST- and FOLLOW-sets, and the productive and
// reachable symbols. Analyses are computed once and never mutated; an
// analysis stays valid as long as its (immutable) grammar exists.
type GrammarAnalysis struct {
	g          *Grammar
	nullable   map[string]bool
	first      map[string]*treeset.Set
	follow     map[string]*treeset.Set
	productive map[string]bool
	reachable  map[string]bool
}

// Analysis computes the static analysis for a grammar.
func Analysis(g *Grammar) *GrammarAnalysis {
	ga := &GrammarAnalysis{
		g:          g,
		nullable:   map[string]bool{},
		first:      map[string]*treeset.Set{},
		follow:     map[string]*treeset.Set{},
		productive: map[string]bool{},
		reachable:  map[string]bool{},
	}
	ga.computeNullable()
	ga.computeFirst()
	ga.computeFollow()
	ga.computeProductive()
	ga.computeReachable()
	return ga
}

// Grammar returns the grammar this analysis was computed for.
func (ga *GrammarAnalysis) Grammar() *Grammar {
	return ga.g
}

// Nullable reports whether a symbol can derive the empty string. Terminals
// are never nullable.
func (ga *GrammarAnalysis) Nullable(sym *Symbol) bool {
	return !sym.IsTerminal() && ga.nullable[sym.Name]
}

// NullableSet returns the names of all nullable variables, sorted.
func (ga *GrammarAnalysis) NullableSet() []string {
	var names []string
	for name, ok := range ga.nullable {
		if ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// DerivesEpsilon reports whether every symbol of the sequence is nullable,
// i.e. whether the sequence can derive ε. The empty sequence derives ε.
func (ga *GrammarAnalysis) DerivesEpsilon(rhs []*Symbol) bool {
	for _, sym := range rhs {
		if !ga.Nullable(sym) {
			return false
		}
	}
	return true
}

// First returns the FIRST-set of a symbol as sorted terminal names.
// ε-derivability is not part of the set; query Nullable for it.
func (ga *GrammarAnalysis) First(sym *Symbol) []string {
	if sym.IsTerminal() {
		return []string{sym.Name}
	}
	return setValues(ga.first[sym.Name])
}

// Follow returns the FOLLOW-set of a variable as sorted terminal names,
// possibly including EOFToken.
func (ga *GrammarAnalysis) Follow(sym *Symbol) []string {
	return setValues(ga.follow[sym.Name])
}

// Productive reports whether the symbol can derive some terminal string.
func (ga *GrammarAnalysis) Productive(sym *Symbol) bool {
	return sym.IsTerminal() || ga.productive[sym.Name]
}

// Reachable reports whether the symbol occurs in some sentential form
// derivable from the start symbol.
func (ga *GrammarAnalysis) Reachable(sym *Symbol) bool {
	return ga.reachable[sym.Name]
}

// --- Fixed-point computations ---------------------------------------------

// A variable is nullable if it has an ε-production or a production whose
// every symbol is nullable.
func (ga *GrammarAnalysis) computeNullable() {
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			if ga.nullable[r.LHS.Name] {
				continue
			}
			if ga.DerivesEpsilon(r.rhs) {
				ga.nullable[r.LHS.Name] = true
				changed = true
			}
		}
	}
	tracer().Debugf("nullable(%s) = %v", ga.g.Name, ga.NullableSet())
}

func (ga *GrammarAnalysis) computeFirst() {
	for name := range ga.g.variables {
		ga.first[name] = treeset.NewWith(utils.StringComparator)
	}
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			F := ga.first[r.LHS.Name]
			before := F.Size()
			for _, sym := range r.rhs {
				if sym.IsTerminal() {
					F.Add(sym.Name)
					break
				}
				for _, t := range setValues(ga.first[sym.Name]) {
					F.Add(t)
				}
				if !ga.nullable[sym.Name] {
					break
				}
			}
			if F.Size() > before {
				changed = true
			}
		}
	}
}

func (ga *GrammarAnalysis) computeFollow() {
	for name := range ga.g.variables {
		ga.follow[name] = treeset.NewWith(utils.StringComparator)
	}
	ga.follow[ga.g.start.Name].Add(EOFToken)
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			for i, sym := range r.rhs {
				if sym.IsTerminal() {
					continue
				}
				F := ga.follow[sym.Name]
				before := F.Size()
				rest := r.rhs[i+1:]
				for _, s := range rest {
					if s.IsTerminal() {
						F.Add(s.Name)
						break
					}
					for _, t := range setValues(ga.first[s.Name]) {
						F.Add(t)
					}
					if !ga.nullable[s.Name] {
						break
					}
				}
				if ga.DerivesEpsilon(rest) {
					for _, t := range setValues(ga.follow[r.LHS.Name]) {
						F.Add(t)
					}
				}
				if F.Size() > before {
					changed = true
				}
			}
		}
	}
}

// A variable is productive if some of its productions consists entirely of
// terminals and productive variables.
func (ga *GrammarAnalysis) computeProductive() {
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			if ga.productive[r.LHS.Name] {
				continue
			}
			all := true
			for _, sym := range r.rhs {
				if !ga.Productive(sym) {
					all = false
					break
				}
			}
			if all {
				ga.productive[r.LHS.Name] = true
				changed = true
			}
		}
	}
}

func (ga *GrammarAnalysis) computeReachable() {
	ga.reachable[ga.g.start.Name] = true
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			if !ga.reachable[r.LHS.Name] {
				continue
			}
			for _, sym := range r.rhs {
				if !ga.reachable[sym.Name] {
					ga.reachable[sym.Name] = true
					changed = true
				}
			}
		}
	}
}

func setValues(set *treeset.Set) []string {
	if set == nil {
		return nil
	}
	values := make([]string, 0, set.Size())
	for _, v := range set.Values() {
		values = append(values, v.(string))
	}
	return values
}
