package fa

import "fmt"

// InvalidAutomatonError signals a malformed automaton description. It is
// raised synchronously at construction time (or when an algorithm is given
// an automaton that violates its precondition), never during recognition.
type InvalidAutomatonError struct {
	Reason string // what is wrong
	State  string // offending state label, if any
	Symbol rune   // offending symbol, if any
}

func (e *InvalidAutomatonError) Error() string {
	msg := "invalid automaton: " + e.Reason
	if e.State != "" {
		msg += fmt.Sprintf(" (state %q)", e.State)
	}
	if e.Symbol != 0 {
		msg += fmt.Sprintf(" (symbol %q)", e.Symbol)
	}
	return msg
}

// RecognitionError signals that an input string contains a symbol outside
// the declared alphabet of the automaton.
type RecognitionError struct {
	Symbol rune // the unknown symbol
	Pos    int  // its position within the input
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("input symbol %q at position %d is not in the alphabet", e.Symbol, e.Pos)
}
