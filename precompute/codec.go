package precompute

import (
	"errors"
	"fmt"
	"io"

	"github.com/katalvlaran/pcfgguess/preterm"
	"github.com/katalvlaran/pcfgguess/terminal"
)

// Sentinel errors for the precompute package.
var (
	// ErrRecordOverflow indicates a pre-terminal whose shape does not fit
	// the wire format: arity > 255, length > 127, or chain index > 1023.
	ErrRecordOverflow = errors.New("precompute: pre-terminal does not fit the 3-byte slot record")

	// ErrUnknownTriple indicates a decoded rainbow triple with no
	// corresponding node in the loaded terminal table.
	ErrUnknownTriple = errors.New("precompute: rainbow triple resolves to no loaded chain node")

	// ErrTruncated indicates the input stream ended mid-record.
	ErrTruncated = errors.New("precompute: truncated record")
)

// Slot-record bit layout, 3 bytes per slot:
//
//	byte 0: bit 0 = isBruteForce, bits 1-7 = rainbowLength (0..127)
//	byte 1: bits 5-7 = replaceRule, bits 2-4 = rainbowCategory,
//	        bits 0-1 = rainbowIndex high bits
//	byte 2: rainbowIndex low byte (index is 10 bits total)
const (
	bruteFlagMask  = 0x01
	lengthShift    = 1
	maxLength      = 0x7F
	maxRainbowIdx  = 1 << 10
	maxReplaceRule = 7
)

// Encode writes pt as one wire record: size:u8 then size 3-byte slots.
func Encode(w io.Writer, pt preterm.PreTerminal) error {
	size := pt.Arity()
	if size > 255 {
		return fmt.Errorf("%w: arity %d", ErrRecordOverflow, size)
	}
	buf := make([]byte, 1+3*size)
	buf[0] = byte(size)

	for i, slot := range pt.Slots {
		node := slot.Node()
		if node.RainbowLength > maxLength {
			return fmt.Errorf("%w: length %d", ErrRecordOverflow, node.RainbowLength)
		}
		if node.RainbowIndex >= maxRainbowIdx {
			return fmt.Errorf("%w: index %d", ErrRecordOverflow, node.RainbowIndex)
		}
		if node.Rule > maxReplaceRule {
			return fmt.Errorf("%w: replace rule %d", ErrRecordOverflow, node.Rule)
		}
		rec := buf[1+3*i : 4+3*i]
		rec[0] = node.RainbowLength << lengthShift
		if node.Rule == terminal.RuleBruteForce {
			rec[0] |= bruteFlagMask
		}
		rec[1] = byte(node.Rule)<<5 | (node.RainbowCategory&0x07)<<2 | byte(node.RainbowIndex>>8)&0x03
		rec[2] = byte(node.RainbowIndex & 0xFF)
	}

	_, err := w.Write(buf)
	return err
}

// Resolver maps rainbow triples back to slot references over a loaded
// terminal table. Build one per Table; lookups are read-only afterward.
type Resolver struct {
	byTriple map[preterm.RainbowTriple]preterm.SlotRef
}

// NewResolver indexes every node of every chain in table by its rainbow
// triple.
func NewResolver(table *terminal.Table) *Resolver {
	r := &Resolver{byTriple: make(map[preterm.RainbowTriple]preterm.SlotRef)}
	for _, chain := range table.Chains() {
		for i, node := range chain.Nodes {
			key := preterm.RainbowTriple{
				Category: node.RainbowCategory,
				Length:   node.RainbowLength,
				Index:    node.RainbowIndex,
			}
			r.byTriple[key] = preterm.SlotRef{Chain: chain, Index: i}
		}
	}
	return r
}

// Resolve returns the slot reference for a triple, or ErrUnknownTriple.
func (r *Resolver) Resolve(t preterm.RainbowTriple) (preterm.SlotRef, error) {
	ref, ok := r.byTriple[t]
	if !ok {
		return preterm.SlotRef{}, fmt.Errorf("%w: (%d,%d,%d)", ErrUnknownTriple, t.Category, t.Length, t.Index)
	}
	return ref, nil
}

// Decode reads one wire record from r and reattaches its slots via res.
// Returns io.EOF (unwrapped) on a clean end of stream, so stream readers
// can distinguish exhaustion from corruption.
//
// Joint probability is recomputed from the reattached nodes with a base
// probability of 1: the consumer never re-enters the priority queue, so
// the structure prior is not carried on the wire.
func Decode(r io.Reader, res *Resolver) (preterm.PreTerminal, error) {
	var sizeBuf [1]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		if err == io.EOF {
			return preterm.PreTerminal{}, io.EOF
		}
		return preterm.PreTerminal{}, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	size := int(sizeBuf[0])
	if size == 0 {
		return preterm.PreTerminal{}, fmt.Errorf("%w: zero-arity record", ErrTruncated)
	}

	buf := make([]byte, 3*size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return preterm.PreTerminal{}, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	slots := make([]preterm.SlotRef, size)
	for i := 0; i < size; i++ {
		rec := buf[3*i : 3*i+3]
		isBrute := rec[0]&bruteFlagMask != 0
		triple := preterm.RainbowTriple{
			Category: (rec[1] >> 2) & 0x07,
			Length:   rec[0] >> lengthShift,
			Index:    uint16(rec[1]&0x03)<<8 | uint16(rec[2]),
		}
		ref, err := res.Resolve(triple)
		if err != nil {
			return preterm.PreTerminal{}, err
		}
		if isBrute != (ref.Node().Rule == terminal.RuleBruteForce) {
			return preterm.PreTerminal{}, fmt.Errorf("%w: brute-force flag disagrees with node (%d,%d,%d)",
				ErrUnknownTriple, triple.Category, triple.Length, triple.Index)
		}
		slots[i] = ref
	}
	return preterm.New(1.0, slots)
}

// Consume reads records from r until EOF, invoking fn for each decoded
// pre-terminal. The first decode or handler error stops the stream.
func Consume(r io.Reader, res *Resolver, fn func(preterm.PreTerminal) error) error {
	for {
		pt, err := Decode(r, res)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(pt); err != nil {
			return err
		}
	}
}

// Encoder adapts Encode to the engine's per-pop handler contract, so
// precompute mode can replace the materializer in the main loop.
type Encoder struct {
	w io.Writer
}

// NewEncoder wraps w as a per-pop record sink.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Handle serializes pt as one wire record.
func (e *Encoder) Handle(pt preterm.PreTerminal) error {
	return Encode(e.w, pt)
}
