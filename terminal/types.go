package terminal

import "errors"

// Sentinel errors for the terminal package.
var (
	// ErrEmptyChain indicates a chain was built from zero rows.
	ErrEmptyChain = errors.New("terminal: chain has no rows")

	// ErrBadProbability indicates a row's probability was outside (0,1].
	ErrBadProbability = errors.New("terminal: probability out of range (0,1]")

	// ErrNonMonotonicRows indicates a node appended with AppendNode has a
	// higher probability than the chain's current tail.
	ErrNonMonotonicRows = errors.New("terminal: rows are not sorted by descending probability")

	// ErrUnknownKind indicates a symbol kind outside the supported set.
	ErrUnknownKind = errors.New("terminal: unknown symbol kind")

	// ErrMissingChain indicates a (kind, length) pair has no bound chain.
	ErrMissingChain = errors.New("terminal: no chain bound for this (kind, length)")

	// ErrBadCharsetIndex indicates a brute-force index fell outside the
	// charset's canonical range for the requested length.
	ErrBadCharsetIndex = errors.New("terminal: brute-force index out of range")
)

// Kind identifies the symbol taxonomy a chain belongs to.
//
// L/D/S/K map directly to the grammar run-sequence alphabet; CapMask is
// the synthetic chain prepended ahead of every dictionary slot to carry
// capitalization replacement rules.
type Kind int

const (
	KindDictionary Kind = iota // "L" runs — dictionary words
	KindDigit                  // "D" runs — digit strings
	KindSpecial                // "S" runs — special-character strings
	KindKeyboard               // "K" runs — keyboard-walk strings
	KindCapMask                // synthetic: capitalization masks for an L-run of the same length
)

// String renders the Kind using the single-letter grammar alphabet, or
// "cap" for the synthetic capitalization kind.
func (k Kind) String() string {
	switch k {
	case KindDictionary:
		return "L"
	case KindDigit:
		return "D"
	case KindSpecial:
		return "S"
	case KindKeyboard:
		return "K"
	case KindCapMask:
		return "cap"
	default:
		return "?"
	}
}

// ReplaceRule tags how a Node's replacements are turned into guess text by
// the materializer.
type ReplaceRule int

const (
	// RuleLiteral: replacements are used verbatim.
	RuleLiteral ReplaceRule = iota
	// RuleCapMask: replacements are {L,U} masks applied to the following
	// dictionary slot.
	RuleCapMask
	// RuleAllLower: optimization equivalent to the identity mask; the
	// materializer skips straight to the dictionary word.
	RuleAllLower
	// RuleBruteForce: the node represents an entire charset^length space,
	// enumerated in canonical order, skipping indices already covered by
	// literal nodes of the same (kind, length).
	RuleBruteForce
)

// BruteCharset names which of the three canonical alphabets a brute-force
// node draws from.
type BruteCharset int

const (
	// CharsetNone marks a node that is not a brute-force node.
	CharsetNone BruteCharset = iota
	CharsetAlpha
	CharsetDigit
	CharsetSpecial
)

// Canonical brute-force charsets, ordered by letter frequency. Order
// matters: it defines the index space used by brute-force generation and
// by the seen-index skip list.
const (
	AlphaCharset   = "aeoirlnstmcudbpghyvfkjzxwq"
	DigitCharset   = "0l29837654"
	SpecialCharset = "!._-*@/+,\\$&!=?'#\")(%^<> ;"
)

// Charset returns the literal alphabet for a BruteCharset tag.
func (c BruteCharset) Charset() string {
	switch c {
	case CharsetAlpha:
		return AlphaCharset
	case CharsetDigit:
		return DigitCharset
	case CharsetSpecial:
		return SpecialCharset
	default:
		return ""
	}
}

// Node is one equal-probability replacement group within a Chain.
//
// Next/Prev are indices into the owning Chain's Nodes slice, -1 when there
// is no such neighbor. Rainbow* fields exist purely for the precompute
// sink and are otherwise unused by the core algorithms.
type Node struct {
	Replacements []string     // the replacement group; len >= 1
	Probability  float64      // in (0,1]; never greater than Prev's; AppendNode may add a tail equal to Prev's
	Rule         ReplaceRule  // how to interpret Replacements
	BruteCharset BruteCharset // set iff Rule == RuleBruteForce
	BruteLength  int          // set iff Rule == RuleBruteForce

	Next int // index of next (lower-probability) node in chain, or -1
	Prev int // index of previous (higher-probability) node in chain, or -1

	RainbowCategory uint8  // 0..7, mirrors terminal Kind for the wire format
	RainbowLength   uint8  // 0..127
	RainbowIndex    uint16 // 0..1023, position within the chain
}

// Chain is the full probability-descending sequence of Nodes for one
// (Kind, Length) pair. Chains are immutable after Build.
type Chain struct {
	Kind   Kind
	Length int
	Nodes  []Node

	// seenBruteIndices holds, for the brute-force node (if any), the
	// sorted list of canonical charset indices already covered by a
	// literal node of the same (Kind, Length), precomputed at load so
	// the materializer can binary-search it during expansion.
	seenBruteIndices []uint64
}

// Head returns the index of the highest-probability node, or -1 if empty.
func (c *Chain) Head() int {
	if len(c.Nodes) == 0 {
		return -1
	}
	return 0
}

// Key uniquely identifies a chain by its symbol kind and length.
type Key struct {
	Kind   Kind
	Length int
}

// Table is the full set of chains loaded for a grammar, keyed by (kind,
// length). Tables are built once and read concurrently thereafter; no
// mutation method is exposed after Build.
type Table struct {
	chains map[Key]*Chain
}

// NewTable wraps a pre-built chain map. Callers normally obtain a Table via
// LoadDir rather than constructing one directly.
func NewTable(chains map[Key]*Chain) *Table {
	return &Table{chains: chains}
}

// Lookup returns the chain bound to (kind, length), or ErrMissingChain.
func (t *Table) Lookup(kind Kind, length int) (*Chain, error) {
	c, ok := t.chains[Key{Kind: kind, Length: length}]
	if !ok {
		return nil, ErrMissingChain
	}
	return c, nil
}

// Chains returns every chain in the table, in unspecified order. Used by
// the precompute resolver to index nodes by rainbow triple.
func (t *Table) Chains() []*Chain {
	out := make([]*Chain, 0, len(t.chains))
	for _, c := range t.chains {
		out = append(out, c)
	}
	return out
}

// Put installs a chain under its own (Kind, Length) key. Used by loaders
// while assembling a Table; not part of the steady-state read API.
func (t *Table) Put(c *Chain) {
	if t.chains == nil {
		t.chains = make(map[Key]*Chain)
	}
	t.chains[Key{Kind: c.Kind, Length: c.Length}] = c
}
