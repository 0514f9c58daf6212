package pda

import "fmt"

// InvalidAutomatonError signals a malformed automaton at construction
// time. Automata that pass construction never fail structurally later.
type InvalidAutomatonError struct {
	Reason string
	State  string // offending state, if any
	Symbol string // offending input or stack symbol, if any
}

func (e *InvalidAutomatonError) Error() string {
	msg := "invalid automaton: " + e.Reason
	if e.State != "" {
		msg += fmt.Sprintf(" (state %q)", e.State)
	}
	if e.Symbol != "" {
		msg += fmt.Sprintf(" (symbol %q)", e.Symbol)
	}
	return msg
}

// RecognitionError signals an input symbol outside the automaton's
// alphabet.
type RecognitionError struct {
	Symbol rune
	Pos    int
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("input symbol %q at position %d not in alphabet", e.Symbol, e.Pos)
}

// ConversionError signals that an automaton or grammar cannot be converted
// to the requested form.
type ConversionError struct {
	Op     string
	Reason string
}

func (e *ConversionError) Error() string {
	return e.Op + ": " + e.Reason
}
