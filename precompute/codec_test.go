package precompute

import (
	"bytes"
	"testing"

	"github.com/katalvlaran/pcfgguess/preterm"
	"github.com/katalvlaran/pcfgguess/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) *terminal.Table {
	t.Helper()
	table := terminal.NewTable(nil)

	caps, err := terminal.BuildChain(terminal.KindCapMask, 2, []terminal.Row{
		{Replacement: "LL", Probability: 0.7},
		{Replacement: "UL", Probability: 0.3},
	})
	require.NoError(t, err)
	table.Put(caps)

	words, err := terminal.BuildChain(terminal.KindDictionary, 2, []terminal.Row{
		{Replacement: "ab", Probability: 1.0},
	})
	require.NoError(t, err)
	table.Put(words)

	digits, err := terminal.BuildChain(terminal.KindDigit, 1, []terminal.Row{
		{Replacement: "1", Probability: 0.6},
		{Replacement: "2", Probability: 0.4},
	})
	require.NoError(t, err)
	require.NoError(t, digits.AppendNode(terminal.NewBruteForceNode(terminal.CharsetDigit, 1, 0.1)))
	table.Put(digits)

	return table
}

func slotAt(t *testing.T, table *terminal.Table, kind terminal.Kind, length, index int) preterm.SlotRef {
	t.Helper()
	c, err := table.Lookup(kind, length)
	require.NoError(t, err)
	return preterm.SlotRef{Chain: c, Index: index}
}

func TestEncode_RecordLayout(t *testing.T) {
	table := testTable(t)
	pt, err := preterm.New(1.0, []preterm.SlotRef{
		slotAt(t, table, terminal.KindDigit, 1, 2), // the brute-force node
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, pt))

	raw := buf.Bytes()
	require.Len(t, raw, 1+3)
	assert.Equal(t, byte(1), raw[0], "arity byte")
	// rainbowLength=1 at bits 1-7, isBruteForce at bit 0.
	assert.Equal(t, byte(1<<1|0x01), raw[1])
	// replaceRule=3 (brute force) << 5, category=1 (digit) << 2, index 2
	// has no high bits.
	assert.Equal(t, byte(3<<5|1<<2), raw[2])
	assert.Equal(t, byte(2), raw[3], "index low byte")
}

func TestRoundTrip_PreservesSlotIdentity(t *testing.T) {
	table := testTable(t)
	pt, err := preterm.New(0.5, []preterm.SlotRef{
		slotAt(t, table, terminal.KindCapMask, 2, 1),
		slotAt(t, table, terminal.KindDictionary, 2, 0),
		slotAt(t, table, terminal.KindDigit, 1, 1),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, pt))

	decoded, err := Decode(&buf, NewResolver(table))
	require.NoError(t, err)
	assert.Equal(t, pt.Rainbow(), decoded.Rainbow())
	assert.Equal(t, pt.Fingerprint(), decoded.Fingerprint())
}

func TestConsume_StreamsEveryRecord(t *testing.T) {
	table := testTable(t)
	var buf bytes.Buffer

	want := []string{}
	for idx := 0; idx < 2; idx++ {
		pt, err := preterm.New(1.0, []preterm.SlotRef{
			slotAt(t, table, terminal.KindDigit, 1, idx),
		})
		require.NoError(t, err)
		require.NoError(t, Encode(&buf, pt))
		want = append(want, pt.Fingerprint())
	}

	var got []string
	err := Consume(&buf, NewResolver(table), func(pt preterm.PreTerminal) error {
		got = append(got, pt.Fingerprint())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecode_TruncatedRecord(t *testing.T) {
	table := testTable(t)
	pt, err := preterm.New(1.0, []preterm.SlotRef{
		slotAt(t, table, terminal.KindDigit, 1, 0),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, pt))
	truncated := buf.Bytes()[:buf.Len()-1]

	_, err = Decode(bytes.NewReader(truncated), NewResolver(table))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDecode_UnknownTriple(t *testing.T) {
	table := testTable(t)
	// A record naming a special-character chain that was never loaded:
	// category=2, length=4, index=0, literal rule.
	raw := []byte{1, 4 << 1, 0<<5 | 2<<2, 0}
	_, err := Decode(bytes.NewReader(raw), NewResolver(table))
	assert.ErrorIs(t, err, ErrUnknownTriple)
}

func TestDecode_BruteFlagMismatch(t *testing.T) {
	table := testTable(t)
	// Names the digit chain's literal head node (category=1, length=1,
	// index=0) but claims it is brute force.
	raw := []byte{1, 1<<1 | 0x01, 0 << 5, 0}
	raw[2] |= 1 << 2
	_, err := Decode(bytes.NewReader(raw), NewResolver(table))
	assert.ErrorIs(t, err, ErrUnknownTriple)
}
