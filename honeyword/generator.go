package honeyword

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/katalvlaran/pcfgguess/grammar"
	"github.com/katalvlaran/pcfgguess/terminal"
)

// Sentinel errors for the honeyword package.
var (
	// ErrNoStructures indicates an empty base-structure list.
	ErrNoStructures = errors.New("honeyword: no base structures to sample")

	// ErrExhaustedRetries indicates no candidate met the complexity
	// requirement within the retry budget, e.g. a grammar whose every
	// structure expands below the minimum length.
	ErrExhaustedRetries = errors.New("honeyword: could not sample a honeyword meeting the complexity requirement")
)

// Complexity and sampling bounds carried over from the original tool:
// candidates shorter than six characters or covering fewer than three
// character classes are rejected, and base structures longer than 32
// symbols are resampled outright.
const (
	minComplexityLength  = 6
	minCharacterClasses  = 3
	maxStructureSymbols  = 32
	defaultMaxAttempts   = 1000
)

// Option customizes a Generator.
type Option func(*Generator)

// WithRand injects the random source, letting tests fix a seed. Panics
// on nil.
func WithRand(rng *rand.Rand) Option {
	if rng == nil {
		panic("honeyword: WithRand requires a non-nil source")
	}
	return func(g *Generator) { g.rng = rng }
}

// WithMaxAttempts overrides the per-honeyword retry budget. Panics on
// n < 1.
func WithMaxAttempts(n int) Option {
	if n < 1 {
		panic("honeyword: WithMaxAttempts requires n >= 1")
	}
	return func(g *Generator) { g.maxAttempts = n }
}

// Generator samples honeywords from a loaded terminal table and base
// structures. It reads the chains only; safe to discard after use.
type Generator struct {
	table       *terminal.Table
	structures  []grammar.BaseStructure
	totalWeight float64
	rng         *rand.Rand
	maxAttempts int
}

// New builds a Generator over the same table and structures a guessing
// run uses.
func New(table *terminal.Table, structures []grammar.BaseStructure, opts ...Option) (*Generator, error) {
	if len(structures) == 0 {
		return nil, ErrNoStructures
	}
	g := &Generator{
		table:       table,
		structures:  structures,
		rng:         rand.New(rand.NewSource(rand.Int63())),
		maxAttempts: defaultMaxAttempts,
	}
	for _, s := range structures {
		g.totalWeight += s.Probability
	}
	if g.totalWeight <= 0 {
		return nil, ErrNoStructures
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate returns n honeywords.
func (g *Generator) Generate(n int) ([]string, error) {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		hw, err := g.one()
		if err != nil {
			return out, err
		}
		out = append(out, hw)
	}
	return out, nil
}

// one samples candidates until one clears the complexity check.
func (g *Generator) one() (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		st := g.sampleStructure()
		if symbolCount(st) > maxStructureSymbols {
			continue
		}
		candidate, ok := g.expand(st)
		if !ok {
			continue
		}
		if meetsComplexity(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: after %d attempts", ErrExhaustedRetries, g.maxAttempts)
}

// sampleStructure draws a base structure weighted by its prior.
func (g *Generator) sampleStructure() grammar.BaseStructure {
	r := g.rng.Float64() * g.totalWeight
	for _, s := range g.structures {
		r -= s.Probability
		if r < 0 {
			return s
		}
	}
	// Float underflow lands on the last structure, mirroring the
	// original's catch-all bottom bucket.
	return g.structures[len(g.structures)-1]
}

func symbolCount(s grammar.BaseStructure) int {
	total := 0
	for _, run := range s.Runs {
		total += run.Length
	}
	return total
}

// expand renders one candidate from a structure: each run samples its
// chain, dictionary runs additionally sampling and applying a
// capitalization mask of the same length. ok is false when a run's
// chain is missing or holds no literal replacements, which sends the
// caller back to resample.
func (g *Generator) expand(st grammar.BaseStructure) (string, bool) {
	var b strings.Builder
	for _, run := range st.Runs {
		chain, err := g.table.Lookup(run.Kind, run.Length)
		if err != nil {
			return "", false
		}
		word, ok := g.sampleChain(chain)
		if !ok {
			return "", false
		}
		if run.Kind == terminal.KindDictionary {
			capChain, err := g.table.Lookup(terminal.KindCapMask, run.Length)
			if err != nil {
				return "", false
			}
			mask, ok := g.sampleChain(capChain)
			if !ok {
				return "", false
			}
			word = applyMask(mask, word)
		}
		b.WriteString(word)
	}
	return b.String(), true
}

// sampleChain draws one replacement weighted by probability: node mass
// is probability x replacement count, the draw lands in a node, and the
// replacement within the node is uniform (equal-probability group
// members are interchangeable). Brute-force nodes carry no literal
// replacements and are excluded from the draw.
func (g *Generator) sampleChain(c *terminal.Chain) (string, bool) {
	var total float64
	for _, n := range c.Nodes {
		if n.Rule == terminal.RuleBruteForce {
			continue
		}
		total += n.Probability * float64(len(n.Replacements))
	}
	if total <= 0 {
		return "", false
	}

	r := g.rng.Float64() * total
	var last []string
	for _, n := range c.Nodes {
		if n.Rule == terminal.RuleBruteForce {
			continue
		}
		mass := n.Probability * float64(len(n.Replacements))
		if r < mass {
			return n.Replacements[g.rng.Intn(len(n.Replacements))], true
		}
		r -= mass
		last = n.Replacements
	}
	// Float underflow: land on the lowest-probability literal group,
	// mirroring the original's catch-all bottom bucket.
	return last[g.rng.Intn(len(last))], true
}

// applyMask renders word under a {L,U} capitalization mask.
func applyMask(mask, word string) string {
	if len(mask) != len(word) {
		return word
	}
	out := make([]byte, len(word))
	for i := 0; i < len(word); i++ {
		if mask[i] == 'U' && word[i] >= 'a' && word[i] <= 'z' {
			out[i] = word[i] - ('a' - 'A')
		} else {
			out[i] = word[i]
		}
	}
	return string(out)
}

// meetsComplexity applies the original acceptance rule: at least six
// characters covering at least three of the four character classes.
func meetsComplexity(word string) bool {
	if len(word) < minComplexityLength {
		return false
	}
	var lower, upper, digit, special int
	for _, r := range word {
		switch {
		case r >= 'a' && r <= 'z':
			lower = 1
		case r >= 'A' && r <= 'Z':
			upper = 1
		case r >= '0' && r <= '9':
			digit = 1
		default:
			special = 1
		}
	}
	return lower+upper+digit+special >= minCharacterClasses
}
