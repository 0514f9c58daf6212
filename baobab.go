package baobab

import "fmt"

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input run. For every
// terminal and non-terminal, a parse tree will track which input positions
// this symbol covers. A span denotes a start position and the position just
// behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns the smallest span covering both s and other.
func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}

// --- Step budgets -----------------------------------------------------

// Budget is a cooperative step budget for potentially long-running
// algorithms (subset construction, configuration search, chart parsing).
// Algorithms check the budget at well-defined steps and abort with a
// TimeoutError once it is exhausted, without returning a partial result.
//
// A nil *Budget never exhausts. Budgets are not safe for concurrent use;
// create one per call.
type Budget struct {
	steps uint64
	limit uint64
}

// NewBudget creates a budget of at most limit algorithm steps.
func NewBudget(limit uint64) *Budget {
	return &Budget{limit: limit}
}

// Step consumes one step of the budget. It returns true as long as the
// budget is not exhausted.
func (b *Budget) Step() bool {
	if b == nil {
		return true
	}
	b.steps++
	return b.steps <= b.limit
}

// Steps returns the number of steps consumed so far.
func (b *Budget) Steps() uint64 {
	if b == nil {
		return 0
	}
	return b.steps
}

// Limit returns the step limit of the budget (0 for a nil budget).
func (b *Budget) Limit() uint64 {
	if b == nil {
		return 0
	}
	return b.limit
}

// TimeoutError signals that an algorithm exhausted its step budget.
// It is always safe to retry with a larger budget or a smaller input.
type TimeoutError struct {
	Op    string // the operation that ran out of budget
	Limit uint64 // the budget it was given
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: step budget of %d exhausted", e.Op, e.Limit)
}
