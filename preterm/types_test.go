package preterm

import (
	"testing"

	"github.com/katalvlaran/pcfgguess/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustChain(t *testing.T, rows ...terminal.Row) *terminal.Chain {
	t.Helper()
	c, err := terminal.BuildChain(terminal.KindDigit, 1, rows)
	require.NoError(t, err)
	return c
}

func TestNew_ComputesJointProbability(t *testing.T) {
	c := mustChain(t, terminal.Row{Replacement: "1", Probability: 0.5})
	pt, err := New(0.4, []SlotRef{{Chain: c, Index: 0}})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, pt.Joint, 1e-12)
	assert.Equal(t, pt.Joint, pt.Recompute())
}

func TestNew_RejectsEmptySlots(t *testing.T) {
	_, err := New(1.0, nil)
	assert.ErrorIs(t, err, ErrEmptyPreTerminal)
}

func TestSlotRef_PrevOfHeadIsProbabilityOne(t *testing.T) {
	c := mustChain(t, terminal.Row{Replacement: "1", Probability: 0.5})
	ref := SlotRef{Chain: c, Index: 0}
	_, prob, hasPrev := ref.Prev()
	assert.False(t, hasPrev)
	assert.Equal(t, 1.0, prob)
}

func TestWithSlot_RecomputesJointWithoutMutatingParent(t *testing.T) {
	c, err := terminal.BuildChain(terminal.KindDigit, 1, []terminal.Row{
		{Replacement: "1", Probability: 0.6},
		{Replacement: "2", Probability: 0.2},
	})
	require.NoError(t, err)

	parent, err := New(1.0, []SlotRef{{Chain: c, Index: 0}})
	require.NoError(t, err)

	next, ok := parent.Slots[0].Next()
	require.True(t, ok)
	child := parent.WithSlot(0, next)

	assert.InDelta(t, 0.6, parent.Joint, 1e-12)
	assert.InDelta(t, 0.2, child.Joint, 1e-12)
}

func TestFingerprint_DiffersAcrossSlots(t *testing.T) {
	c, err := terminal.BuildChain(terminal.KindDigit, 1, []terminal.Row{
		{Replacement: "1", Probability: 0.6},
		{Replacement: "2", Probability: 0.2},
	})
	require.NoError(t, err)

	a, _ := New(1.0, []SlotRef{{Chain: c, Index: 0}})
	b, _ := New(1.0, []SlotRef{{Chain: c, Index: 1}})
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}
