package grammar

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/pcfgguess/logging"
	"github.com/katalvlaran/pcfgguess/preterm"
	"github.com/katalvlaran/pcfgguess/pqueue"
	"github.com/katalvlaran/pcfgguess/terminal"
)

// ParseRunSequence parses a base structure's symbol sequence into
// SymbolRuns. Both spellings found in training output are accepted:
// repeated letters ("LLLDD" -> [{L,3},{D,2}]) and letter-count pairs
// ("L3D2" -> the same), mixed freely within one row.
func ParseRunSequence(seq string) ([]SymbolRun, error) {
	if len(seq) == 0 {
		return nil, ErrEmptyRunSequence
	}
	var runs []SymbolRun
	i := 0
	for i < len(seq) {
		letter := seq[i]
		kind, ok := letterKind(letter)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRunLetter, letter)
		}
		j := i + 1
		if j < len(seq) && seq[j] >= '0' && seq[j] <= '9' {
			n := 0
			for j < len(seq) && seq[j] >= '0' && seq[j] <= '9' {
				n = n*10 + int(seq[j]-'0')
				j++
			}
			if n == 0 {
				return nil, fmt.Errorf("%w: zero-length run in %q", ErrUnknownRunLetter, seq)
			}
			runs = append(runs, SymbolRun{Kind: kind, Length: n})
		} else {
			for j < len(seq) && seq[j] == letter {
				j++
			}
			runs = append(runs, SymbolRun{Kind: kind, Length: j - i})
		}
		i = j
	}
	return runs, nil
}

// Set is the result of loading a grammar file: every successfully bound
// base structure (kept for later rebuild passes), the head-state pre-
// terminal of each (every slot at its chain head, regardless of whether
// it cleared the floor), and the pre-terminals seeded directly into the
// priority queue.
type Set struct {
	Structures []BaseStructure
	Heads      []preterm.PreTerminal
	Seeds      []preterm.PreTerminal
}

// bindRuns resolves each SymbolRun to the head of its bound chain,
// prepending the capitalization chain's head ahead of every dictionary
// run. Returns terminal.ErrMissingChain when a (kind, length) pair has
// no bound chain.
func bindRuns(table *terminal.Table, runs []SymbolRun) ([]preterm.SlotRef, error) {
	var slots []preterm.SlotRef
	for _, run := range runs {
		if run.Kind == terminal.KindDictionary {
			capChain, err := table.Lookup(terminal.KindCapMask, run.Length)
			if err != nil {
				return nil, err
			}
			slots = append(slots, preterm.SlotRef{Chain: capChain, Index: capChain.Head()})
		}
		chain, err := table.Lookup(run.Kind, run.Length)
		if err != nil {
			return nil, err
		}
		slots = append(slots, preterm.SlotRef{Chain: chain, Index: chain.Head()})
	}
	return slots, nil
}

// LoadFile reads base-structure rows from r against table, binding each to
// its terminal chains and seeding q with every resulting pre-terminal
// whose joint probability is >= q.Floor(). Rows referencing an
// unresolvable (kind, length) are skipped with a warning logged via log;
// a zero base or joint probability is fatal (ErrZeroProbability).
//
// The returned Set.Structures and Set.Heads retain every successfully
// bound structure and its head-state pre-terminal respectively
// (regardless of whether it was seeded), for use by later rebuild
// passes via package generator.
func LoadFile(r io.Reader, table *terminal.Table, q *pqueue.Queue, log logging.Logger) (Set, error) {
	if log == nil {
		log = logging.Nop{}
	}
	var set Set

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		if len(fields) != 2 {
			return set, fmt.Errorf("%w: line %d", ErrMalformedRow, lineNo)
		}
		prob, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return set, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, lineNo, err)
		}
		if prob <= 0 {
			return set, fmt.Errorf("%w: line %d", ErrZeroProbability, lineNo)
		}

		runs, err := ParseRunSequence(fields[0])
		if err != nil {
			return set, fmt.Errorf("grammar: line %d: %w", lineNo, err)
		}

		slots, err := bindRuns(table, runs)
		if err != nil {
			log.Warn("skipping base structure: unresolvable symbol", "line", lineNo, "run", fields[0], "err", err.Error())
			continue
		}

		base := BaseStructure{Runs: runs, Probability: prob}
		set.Structures = append(set.Structures, base)

		pt, err := preterm.New(prob, slots)
		if err != nil {
			return set, err
		}
		if pt.Joint <= 0 {
			return set, fmt.Errorf("%w: line %d", ErrZeroProbability, lineNo)
		}
		// slots were bound at each chain's head (bindRuns), so pt is
		// already the head-state pre-terminal for this base structure.
		set.Heads = append(set.Heads, pt)
		if pt.Joint >= q.Floor() {
			if _, err := q.Push(pt); err != nil {
				return set, err
			}
			set.Seeds = append(set.Seeds, pt)
		}
	}
	return set, scanner.Err()
}
