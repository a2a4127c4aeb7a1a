package terminal

import (
	"fmt"
	"sort"
)

// NewBruteForceNode builds a Node representing the entire charset^length
// brute-force space at the given probability. It carries no literal
// Replacements; the materializer enumerates strings on demand.
func NewBruteForceNode(charset BruteCharset, length int, probability float64) Node {
	return Node{
		Rule:         RuleBruteForce,
		BruteCharset: charset,
		BruteLength:  length,
		Probability:  probability,
	}
}

// NewNotFoundNode builds a node whose single "replacement" is a sentinel
// string, tagged RuleBruteForce. It sets no charset and no brute-force
// length (length is not stored), and the loader does not call it.
func NewNotFoundNode(length int, probability float64, sentinel string) Node {
	return Node{
		Replacements: []string{sentinel},
		Probability:  probability,
		Rule:         RuleBruteForce,
	}
}

// IndexToString renders the canonical-order brute-force string at index i
// for the given charset and length: index is a base-len(charset) number,
// most significant digit first.
func IndexToString(charset string, length int, index uint64) (string, error) {
	base := uint64(len(charset))
	if base == 0 {
		return "", fmt.Errorf("terminal: empty brute-force charset")
	}
	max := pow(base, uint64(length))
	if index >= max {
		return "", ErrBadCharsetIndex
	}
	buf := make([]byte, length)
	for pos := length - 1; pos >= 0; pos-- {
		buf[pos] = charset[index%base]
		index /= base
	}
	return string(buf), nil
}

// StringToIndex is the inverse of IndexToString; ok is false if s contains
// a rune outside charset or has the wrong length.
func StringToIndex(charset string, s string) (index uint64, ok bool) {
	lookup := charsetLookup(charset)
	base := uint64(len(charset))
	for i := 0; i < len(s); i++ {
		d, found := lookup[s[i]]
		if !found {
			return 0, false
		}
		index = index*base + uint64(d)
	}
	return index, true
}

func charsetLookup(charset string) map[byte]int {
	m := make(map[byte]int, len(charset))
	for i := 0; i < len(charset); i++ {
		m[charset[i]] = i
	}
	return m
}

func pow(base, exp uint64) uint64 {
	result := uint64(1)
	for i := uint64(0); i < exp; i++ {
		result *= base
	}
	return result
}

// BruteForceCardinality returns |charset|^length, the number of strings a
// brute-force node of this shape represents. Used by count-only estimation.
func BruteForceCardinality(charset BruteCharset, length int) uint64 {
	return pow(uint64(len(charset.Charset())), uint64(length))
}

// ComputeSeenIndices scans every non-brute-force node of the chain,
// wherever it sits, and records, for each replacement of matching
// length, its canonical index within the brute-force node's charset. The
// result is stored sorted and de-duplicated on the chain so the
// materializer can skip already-emitted strings in O(log n) per candidate.
func (c *Chain) ComputeSeenIndices(bruteNodeIndex int) error {
	if bruteNodeIndex < 0 || bruteNodeIndex >= len(c.Nodes) {
		return fmt.Errorf("terminal: brute-force node index %d out of range", bruteNodeIndex)
	}
	brute := c.Nodes[bruteNodeIndex]
	if brute.Rule != RuleBruteForce {
		return fmt.Errorf("terminal: node %d is not a brute-force node", bruteNodeIndex)
	}
	charset := brute.BruteCharset.Charset()
	seen := make(map[uint64]struct{})
	for i, n := range c.Nodes {
		if i == bruteNodeIndex || n.Rule == RuleBruteForce {
			continue
		}
		for _, word := range n.Replacements {
			if len(word) != brute.BruteLength {
				continue
			}
			if idx, ok := StringToIndex(charset, word); ok {
				seen[idx] = struct{}{}
			}
		}
	}
	indices := make([]uint64, 0, len(seen))
	for idx := range seen {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
	c.seenBruteIndices = indices
	return nil
}

// SeenIndices exposes the precomputed skip-list for a chain's brute-force
// node; the materializer uses it to avoid re-emitting literal guesses.
func (c *Chain) SeenIndices() []uint64 {
	return c.seenBruteIndices
}

// isSeen reports whether idx is present in the sorted seen-index list.
func isSeen(seen []uint64, idx uint64) bool {
	i := sort.Search(len(seen), func(i int) bool { return seen[i] >= idx })
	return i < len(seen) && seen[i] == idx
}

// IsSeen reports whether idx already appears as a literal replacement in
// the chain (i.e. the materializer must skip it during brute-force
// expansion). Exposed for the materializer package.
func (c *Chain) IsSeen(idx uint64) bool {
	return isSeen(c.seenBruteIndices, idx)
}
