package preterm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/pcfgguess/terminal"
)

// ErrEmptyPreTerminal indicates a pre-terminal was constructed with zero
// slots, which can never happen for a well-formed base structure.
var ErrEmptyPreTerminal = errors.New("preterm: pre-terminal has no slots")

// SlotRef names one terminal-chain node: the chain it belongs to and its
// position within that chain's Nodes slice. Chains are immutable after
// terminal.LoadDir, so SlotRef is safe to copy freely.
type SlotRef struct {
	Chain *terminal.Chain
	Index int
}

// Node dereferences the slot to its current terminal.Node.
func (s SlotRef) Node() terminal.Node {
	return s.Chain.Nodes[s.Index]
}

// Probability is a convenience accessor for Node().Probability.
func (s SlotRef) Probability() float64 {
	return s.Chain.Nodes[s.Index].Probability
}

// Next returns the SlotRef advanced to the chain's next (lower-probability)
// node, and false if s is already at the chain's tail.
func (s SlotRef) Next() (SlotRef, bool) {
	n := s.Chain.Nodes[s.Index].Next
	if n == -1 {
		return SlotRef{}, false
	}
	return SlotRef{Chain: s.Chain, Index: n}, true
}

// Prev returns the SlotRef stepped back to the chain's previous
// (higher-probability) node. When s is already at the chain's head, Prev
// returns (zero SlotRef, 1.0, false): a null prev is treated as a
// hypothetical parent of probability 1, not as absent.
func (s SlotRef) Prev() (ref SlotRef, probability float64, hasPrev bool) {
	p := s.Chain.Nodes[s.Index].Prev
	if p == -1 {
		return SlotRef{}, 1.0, false
	}
	return SlotRef{Chain: s.Chain, Index: p}, s.Chain.Nodes[p].Probability, true
}

// PreTerminal is an ordered tuple of SlotRefs, one per slot of its base
// structure, together with the structure's base probability and the
// cached joint probability.
type PreTerminal struct {
	Slots           []SlotRef
	BaseProbability float64
	Joint           float64
}

// New builds a PreTerminal from slots and the owning structure's base
// probability, computing Joint as the product of base probability and
// every slot's node probability.
func New(baseProbability float64, slots []SlotRef) (PreTerminal, error) {
	if len(slots) == 0 {
		return PreTerminal{}, ErrEmptyPreTerminal
	}
	joint := baseProbability
	for _, s := range slots {
		joint *= s.Probability()
	}
	return PreTerminal{Slots: slots, BaseProbability: baseProbability, Joint: joint}, nil
}

// Arity returns the number of slots.
func (p PreTerminal) Arity() int {
	return len(p.Slots)
}

// Recompute returns the joint probability recomputed from scratch, for use
// in invariant checks asserting the cached Joint still equals the product
// of its slots.
func (p PreTerminal) Recompute() float64 {
	joint := p.BaseProbability
	for _, s := range p.Slots {
		joint *= s.Probability()
	}
	return joint
}

// WithSlot returns a copy of p with slot i replaced by ref, and its joint
// probability recomputed. Used by the generator to build candidate
// children without mutating the popped parent.
func (p PreTerminal) WithSlot(i int, ref SlotRef) PreTerminal {
	slots := make([]SlotRef, len(p.Slots))
	copy(slots, p.Slots)
	slots[i] = ref
	joint := p.BaseProbability
	for _, s := range slots {
		joint *= s.Probability()
	}
	return PreTerminal{Slots: slots, BaseProbability: p.BaseProbability, Joint: joint}
}

// RainbowTriple is the (category, length, index) identity of one slot's
// node, used for duplicate detection and the precompute wire format.
type RainbowTriple struct {
	Category uint8
	Length   uint8
	Index    uint16
}

// Rainbow returns the ordered list of RainbowTriples identifying every
// slot, which together uniquely identify this pre-terminal.
func (p PreTerminal) Rainbow() []RainbowTriple {
	triples := make([]RainbowTriple, len(p.Slots))
	for i, s := range p.Slots {
		n := s.Node()
		triples[i] = RainbowTriple{Category: n.RainbowCategory, Length: n.RainbowLength, Index: n.RainbowIndex}
	}
	return triples
}

// Fingerprint renders Rainbow() as a comparable string key, for use in
// duplicate-detection sets during testing and in the status reporter.
func (p PreTerminal) Fingerprint() string {
	var b strings.Builder
	for i, t := range p.Rainbow() {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "%d:%d:%d", t.Category, t.Length, t.Index)
	}
	return b.String()
}
