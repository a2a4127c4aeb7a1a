package materializer

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/katalvlaran/pcfgguess/preterm"
	"github.com/katalvlaran/pcfgguess/terminal"
)

// Sentinel errors for the materializer package.
var (
	// ErrDanglingMask indicates a capitalization slot with no following
	// dictionary slot to apply its masks to.
	ErrDanglingMask = errors.New("materializer: capitalization slot has no following dictionary slot")

	// ErrMaskLength indicates a mask whose length differs from the
	// dictionary word it is applied to.
	ErrMaskLength = errors.New("materializer: mask length does not match word length")

	// ErrWrite wraps a failure on the output sink; fatal per the error
	// policy (the guess stream cannot be resumed mid-pre-terminal).
	ErrWrite = errors.New("materializer: write failed")
)

// Materializer streams the terminal expansion of pre-terminals to a
// single output sink, one guess per line.
type Materializer struct {
	w *bufio.Writer
}

// New wraps out in a buffered writer sized for high-volume line output.
func New(out io.Writer) *Materializer {
	return &Materializer{w: bufio.NewWriterSize(out, 1<<16)}
}

// Handle expands pt and writes every guess it yields. It satisfies the
// engine's per-pop handler contract.
func (m *Materializer) Handle(pt preterm.PreTerminal) error {
	_, err := m.Emit(pt)
	return err
}

// Emit expands pt into guesses, writing one per line, and returns the
// number written.
func (m *Materializer) Emit(pt preterm.PreTerminal) (uint64, error) {
	return m.expand(pt.Slots, 0, make([]byte, 0, 64))
}

// Flush drains the internal buffer to the underlying writer. Callers
// must Flush before exiting or switching sinks.
func (m *Materializer) Flush() error {
	if err := m.w.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// expand walks slots[i:] appending each slot's replacements to prefix,
// emitting a guess when the last slot is consumed. Capitalization and
// all-lowercase slots consume their following dictionary slot as well,
// so one call may advance i by two.
func (m *Materializer) expand(slots []preterm.SlotRef, i int, prefix []byte) (uint64, error) {
	node := slots[i].Node()

	switch node.Rule {
	case terminal.RuleCapMask:
		if i+1 >= len(slots) {
			return 0, ErrDanglingMask
		}
		words := slots[i+1].Node().Replacements
		var total uint64
		for _, mask := range node.Replacements {
			for _, word := range words {
				if len(mask) != len(word) {
					return 0, fmt.Errorf("%w: mask %q word %q", ErrMaskLength, mask, word)
				}
				buf := append(prefix, applyMask(mask, word)...)
				n, err := m.continueFrom(slots, i+2, buf)
				if err != nil {
					return total, err
				}
				total += n
			}
		}
		return total, nil

	case terminal.RuleAllLower:
		if i+1 >= len(slots) {
			return 0, ErrDanglingMask
		}
		// Identity mask: the dictionary words pass through unchanged.
		var total uint64
		for _, word := range slots[i+1].Node().Replacements {
			n, err := m.continueFrom(slots, i+2, append(prefix, word...))
			if err != nil {
				return total, err
			}
			total += n
		}
		return total, nil

	case terminal.RuleBruteForce:
		charset := node.BruteCharset.Charset()
		card := terminal.BruteForceCardinality(node.BruteCharset, node.BruteLength)
		chain := slots[i].Chain
		var total uint64
		for idx := uint64(0); idx < card; idx++ {
			if chain.IsSeen(idx) {
				continue
			}
			s, err := terminal.IndexToString(charset, node.BruteLength, idx)
			if err != nil {
				return total, err
			}
			n, err := m.continueFrom(slots, i+1, append(prefix, s...))
			if err != nil {
				return total, err
			}
			total += n
		}
		return total, nil

	default: // RuleLiteral
		var total uint64
		for _, rep := range node.Replacements {
			n, err := m.continueFrom(slots, i+1, append(prefix, rep...))
			if err != nil {
				return total, err
			}
			total += n
		}
		return total, nil
	}
}

// continueFrom either recurses into the next unconsumed slot or, when
// every slot is consumed, writes prefix as one finished guess.
func (m *Materializer) continueFrom(slots []preterm.SlotRef, next int, prefix []byte) (uint64, error) {
	if next < len(slots) {
		return m.expand(slots, next, prefix)
	}
	if _, err := m.w.Write(prefix); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := m.w.WriteByte('\n'); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return 1, nil
}

// applyMask renders word under a {L,U} capitalization mask: L keeps the
// word's byte, U upper-cases it.
func applyMask(mask, word string) []byte {
	out := make([]byte, len(word))
	for i := 0; i < len(word); i++ {
		if mask[i] == 'U' {
			out[i] = upper(word[i])
		} else {
			out[i] = word[i]
		}
	}
	return out
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// Count returns the number of guesses pt would emit, without emitting
// any. A brute-force slot of length L contributes |charset|^L — the
// skip-list is deliberately ignored, so the result can slightly
// overestimate when literals overlap the brute-force space.
func Count(pt preterm.PreTerminal) uint64 {
	total := uint64(1)
	i := 0
	for i < len(pt.Slots) {
		node := pt.Slots[i].Node()
		switch node.Rule {
		case terminal.RuleCapMask:
			if i+1 >= len(pt.Slots) {
				return 0
			}
			total *= uint64(len(node.Replacements)) * uint64(len(pt.Slots[i+1].Node().Replacements))
			i += 2
		case terminal.RuleAllLower:
			if i+1 >= len(pt.Slots) {
				return 0
			}
			total *= uint64(len(pt.Slots[i+1].Node().Replacements))
			i += 2
		case terminal.RuleBruteForce:
			total *= terminal.BruteForceCardinality(node.BruteCharset, node.BruteLength)
			i++
		default:
			total *= uint64(len(node.Replacements))
			i++
		}
	}
	return total
}
