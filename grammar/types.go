package grammar

import (
	"errors"

	"github.com/katalvlaran/pcfgguess/terminal"
)

// Sentinel errors for the grammar package.
var (
	// ErrMalformedRow indicates a grammar-file line was not
	// "<run-sequence>\t<probability>".
	ErrMalformedRow = errors.New("grammar: malformed base-structure row")

	// ErrEmptyRunSequence indicates a row's run sequence was empty.
	ErrEmptyRunSequence = errors.New("grammar: empty run sequence")

	// ErrUnknownRunLetter indicates a character outside {L,D,S,K}.
	ErrUnknownRunLetter = errors.New("grammar: run sequence contains an unknown symbol letter")

	// ErrZeroProbability indicates a base-structure or joint probability
	// of exactly zero. Treated as a fatal data error rather than skipped,
	// since it signals a corrupt training file rather than sparse coverage.
	ErrZeroProbability = errors.New("grammar: zero-probability base structure")
)

// SymbolRun is one run of a base structure's symbol sequence, e.g. the
// "D2" in "L3D2S1".
type SymbolRun struct {
	Kind   terminal.Kind
	Length int
}

// BaseStructure is a learned grammar row: an ordered sequence of symbol
// references together with its base (prior) probability.
type BaseStructure struct {
	Runs        []SymbolRun
	Probability float64
}

// letterKind maps the grammar run-sequence alphabet {L,D,S,K} to a
// terminal.Kind.
func letterKind(r byte) (terminal.Kind, bool) {
	switch r {
	case 'L':
		return terminal.KindDictionary, true
	case 'D':
		return terminal.KindDigit, true
	case 'S':
		return terminal.KindSpecial, true
	case 'K':
		return terminal.KindKeyboard, true
	default:
		return 0, false
	}
}
