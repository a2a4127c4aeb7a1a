package postag

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/pcfgguess/logging"
	"github.com/katalvlaran/pcfgguess/pqueue"
	"github.com/katalvlaran/pcfgguess/preterm"
)

// DefaultMinArity drops passphrase base structures shorter than five
// words at seed time: shorter structures generate low-quality phrases
// that crowd out the interesting ones.
const DefaultMinArity = 5

// Option customizes passphrase grammar loading.
type Option func(*loadOptions)

type loadOptions struct {
	minArity int
}

// WithMinArity overrides the minimum base-structure arity admitted at
// seed time. Panics on n < 1, matching the option conventions elsewhere
// in this module.
func WithMinArity(n int) Option {
	if n < 1 {
		panic("postag: WithMinArity requires n >= 1")
	}
	return func(o *loadOptions) { o.minArity = n }
}

// Set mirrors grammar.Set for the passphrase taxonomy: every bound
// head-state pre-terminal plus the subset actually seeded.
type Set struct {
	Heads []preterm.PreTerminal
	Seeds []preterm.PreTerminal
}

// LoadGrammar reads passphrase base-structure rows from r and seeds q.
// Each row is "<probability>\t<TAG>\t<TAG>...": probability first, then
// one Brown part-of-speech tag per phrase position. Rows with an
// unresolvable tag or an unbound category are skipped with a warning;
// rows below the configured minimum arity are skipped silently (that is
// a quality filter, not a data problem). A zero probability is fatal.
func LoadGrammar(r io.Reader, tx *Taxonomy, q *pqueue.Queue, log logging.Logger, opts ...Option) (Set, error) {
	if log == nil {
		log = logging.Nop{}
	}
	o := loadOptions{minArity: DefaultMinArity}
	for _, opt := range opts {
		opt(&o)
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
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return set, fmt.Errorf("%w: line %d", ErrMalformedRow, lineNo)
		}
		prob, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return set, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, lineNo, err)
		}
		if prob <= 0 {
			return set, fmt.Errorf("%w: line %d", ErrZeroProbability, lineNo)
		}

		slots := make([]preterm.SlotRef, 0, len(fields)-1)
		skip := false
		for _, rawTag := range fields[1:] {
			if CleanTag(rawTag) == "" {
				continue // punctuation-only tags contribute no word slot
			}
			chain, err := tx.Resolve(rawTag)
			if err != nil {
				log.Warn("skipping passphrase structure", "line", lineNo, "tag", rawTag, "err", err.Error())
				skip = true
				break
			}
			slots = append(slots, preterm.SlotRef{Chain: chain, Index: chain.Head()})
		}
		if skip || len(slots) == 0 {
			continue
		}
		if len(slots) < o.minArity {
			continue
		}

		pt, err := preterm.New(prob, slots)
		if err != nil {
			return set, err
		}
		if pt.Joint <= 0 {
			return set, fmt.Errorf("%w: line %d", ErrZeroProbability, lineNo)
		}
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
