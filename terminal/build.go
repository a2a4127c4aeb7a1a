package terminal

import (
	"fmt"
	"sort"
)

// Row is one ingested (replacement, probability) pair prior to grouping.
type Row struct {
	Replacement string
	Probability float64
}

// rainbowCategory maps a Kind to the single-byte category tag used by the
// precompute wire format: 0=capitalization,1=number,2=special,
// 3=dictionary,4=keyboard.
func rainbowCategory(k Kind) uint8 {
	switch k {
	case KindCapMask:
		return 0
	case KindDigit:
		return 1
	case KindSpecial:
		return 2
	case KindDictionary:
		return 3
	case KindKeyboard:
		return 4
	default:
		return 7
	}
}

// BuildChain groups rows into a probability-descending Chain for (kind,
// length): rows are sorted by descending probability, rows with equal
// probability are merged into one Node (a node boundary always coincides
// with a probability change), and rainbow indices are assigned in chain
// order.
//
// BuildChain does not itself install a brute-force smoothing node for
// unseen lengths; callers combine it with NewBruteForceNode via AppendNode
// when a NotFound row applies.
func BuildChain(kind Kind, length int, rows []Row) (*Chain, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyChain
	}
	for _, r := range rows {
		if r.Probability <= 0 || r.Probability > 1 {
			return nil, fmt.Errorf("%w: replacement %q probability %g", ErrBadProbability, r.Replacement, r.Probability)
		}
	}

	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Probability > sorted[j].Probability })

	c := &Chain{Kind: kind, Length: length}
	for _, r := range sorted {
		if n := len(c.Nodes); n > 0 && c.Nodes[n-1].Probability == r.Probability {
			c.Nodes[n-1].Replacements = append(c.Nodes[n-1].Replacements, r.Replacement)
			continue
		}
		c.Nodes = append(c.Nodes, Node{
			Replacements: []string{r.Replacement},
			Probability:  r.Probability,
			Rule:         ruleForKind(kind),
		})
	}

	if kind == KindCapMask {
		tagAllLowerNodes(c)
	}
	linkAndStamp(c)
	return c, nil
}

// ruleForKind picks the replacement rule BuildChain stamps on literal
// rows of a given kind: capitalization chains carry masks, everything
// else is verbatim text.
func ruleForKind(kind Kind) ReplaceRule {
	if kind == KindCapMask {
		return RuleCapMask
	}
	return RuleLiteral
}

// tagAllLowerNodes downgrades capitalization nodes whose only mask is the
// identity (all 'L') to RuleAllLower, letting the materializer skip the
// per-character case mapping for the most common mask.
func tagAllLowerNodes(c *Chain) {
	for i := range c.Nodes {
		n := &c.Nodes[i]
		if len(n.Replacements) != 1 {
			continue
		}
		allLower := len(n.Replacements[0]) > 0
		for _, r := range n.Replacements[0] {
			if r != 'L' {
				allLower = false
				break
			}
		}
		if allLower {
			n.Rule = RuleAllLower
		}
	}
}

// AppendNode appends a single pre-built node (e.g. a brute-force smoothing
// node) to the tail of the chain — the tail is always the lowest-priority
// slot, matching the trainer's practice of adding the NotFound/brute-force
// node last. Probability must not exceed the current tail's.
func (c *Chain) AppendNode(n Node) error {
	if len(c.Nodes) > 0 && n.Probability > c.Nodes[len(c.Nodes)-1].Probability {
		return fmt.Errorf("%w: appended node probability %g exceeds tail %g", ErrNonMonotonicRows, n.Probability, c.Nodes[len(c.Nodes)-1].Probability)
	}
	c.Nodes = append(c.Nodes, n)
	linkAndStamp(c)
	return nil
}

// linkAndStamp (re)computes Next/Prev indices and rainbow metadata for
// every node in the chain, in-place. Called after any structural change.
func linkAndStamp(c *Chain) {
	for i := range c.Nodes {
		if i == 0 {
			c.Nodes[i].Prev = -1
		} else {
			c.Nodes[i].Prev = i - 1
		}
		if i == len(c.Nodes)-1 {
			c.Nodes[i].Next = -1
		} else {
			c.Nodes[i].Next = i + 1
		}
		c.Nodes[i].RainbowCategory = rainbowCategory(c.Kind)
		c.Nodes[i].RainbowLength = uint8(c.Length)
		c.Nodes[i].RainbowIndex = uint16(i)
	}
}
