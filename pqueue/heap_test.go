package pqueue

import (
	"testing"

	"github.com/katalvlaran/pcfgguess/preterm"
	"github.com/katalvlaran/pcfgguess/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptWithProb(t *testing.T, p float64) preterm.PreTerminal {
	t.Helper()
	c, err := terminal.BuildChain(terminal.KindDigit, 1, []terminal.Row{{Replacement: "x", Probability: p}})
	require.NoError(t, err)
	pt, err := preterm.New(1.0, []preterm.SlotRef{{Chain: c, Index: 0}})
	require.NoError(t, err)
	return pt
}

func TestPushPop_MonotonicOrder(t *testing.T) {
	q := New(0)
	probs := []float64{0.2, 0.9, 0.5, 0.1}
	for _, p := range probs {
		_, err := q.Push(ptWithProb(t, p))
		require.NoError(t, err)
	}

	var last float64 = 1.0
	for q.Len() > 0 {
		pt, err := q.Pop()
		require.NoError(t, err)
		assert.LessOrEqual(t, pt.Joint, last)
		last = pt.Joint
	}
}

func TestPush_RejectsInvalidProbability(t *testing.T) {
	q := New(0)
	bad := preterm.PreTerminal{Joint: 0}
	_, err := q.Push(bad)
	assert.ErrorIs(t, err, ErrProbabilityViolation)
}

func TestPush_RespectsFloor(t *testing.T) {
	q := New(0)
	q.SetFloor(0.5)
	inserted, err := q.Push(ptWithProb(t, 0.3))
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, 0, q.Len())
}

func TestTrim_KeepsTopHalfWithTies(t *testing.T) {
	q := New(4)
	for _, p := range []float64{0.9, 0.7, 0.5, 0.5} {
		_, err := q.Push(ptWithProb(t, p))
		require.NoError(t, err)
	}
	// Pushing the 4th item (reaching cap) auto-trims to keep=2. The boundary
	// item is 0.7, which has no tie, so both 0.5 items are discarded.
	snap := q.Snapshot()
	probs := make([]float64, len(snap))
	for i, pt := range snap {
		probs[i] = pt.Joint
	}
	assert.ElementsMatch(t, []float64{0.9, 0.7}, probs)
}

func TestTrim_RetainsTiesAtTheBoundary(t *testing.T) {
	q := New(4)
	for _, p := range []float64{0.9, 0.5, 0.5, 0.5} {
		_, err := q.Push(ptWithProb(t, p))
		require.NoError(t, err)
	}
	// keep=2, but sorted[1..3] all tie at 0.5, so the boundary tie pulls
	// every one of them back in: nothing is discarded and floor is
	// untouched.
	snap := q.Snapshot()
	assert.Len(t, snap, 4)
	assert.Equal(t, 0.0, q.Floor())
}

func TestTrim_ErrorsWhenNotFull(t *testing.T) {
	q := New(10)
	_, err := q.Push(ptWithProb(t, 0.5))
	require.NoError(t, err)
	assert.ErrorIs(t, q.Trim(), ErrNotFull)
}

func TestState_DefaultsToSeeded(t *testing.T) {
	q := New(0)
	assert.Equal(t, Seeded, q.State())
	q.SetState(Draining)
	assert.Equal(t, Draining, q.State())
}
