package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildChain_GroupsByProbability(t *testing.T) {
	// digit chain of length 1: node A {"1"} 0.6, node B {"2","3"} 0.2.
	c, err := BuildChain(KindDigit, 1, []Row{
		{Replacement: "2", Probability: 0.2},
		{Replacement: "1", Probability: 0.6},
		{Replacement: "3", Probability: 0.2},
	})
	require.NoError(t, err)
	require.Len(t, c.Nodes, 2)
	assert.Equal(t, []string{"1"}, c.Nodes[0].Replacements)
	assert.Equal(t, 0.6, c.Nodes[0].Probability)
	assert.Equal(t, []string{"2", "3"}, c.Nodes[1].Replacements)
	assert.Equal(t, 0.2, c.Nodes[1].Probability)
}

func TestBuildChain_LinksAreNonIncreasing(t *testing.T) {
	c, err := BuildChain(KindDigit, 1, []Row{
		{Replacement: "1", Probability: 0.9},
		{Replacement: "2", Probability: 0.5},
		{Replacement: "3", Probability: 0.1},
	})
	require.NoError(t, err)

	assert.Equal(t, -1, c.Nodes[0].Prev)
	last := -1
	for i := c.Head(); i != -1; i = c.Nodes[i].Next {
		if last != -1 {
			assert.GreaterOrEqual(t, c.Nodes[last].Probability, c.Nodes[i].Probability)
		}
		last = i
	}
	assert.Equal(t, -1, c.Nodes[len(c.Nodes)-1].Next)
}

func TestBuildChain_RejectsBadProbability(t *testing.T) {
	_, err := BuildChain(KindDigit, 1, []Row{{Replacement: "1", Probability: 0}})
	assert.ErrorIs(t, err, ErrBadProbability)

	_, err = BuildChain(KindDigit, 1, []Row{{Replacement: "1", Probability: 1.5}})
	assert.ErrorIs(t, err, ErrBadProbability)
}

func TestBuildChain_RejectsEmpty(t *testing.T) {
	_, err := BuildChain(KindDigit, 1, nil)
	assert.ErrorIs(t, err, ErrEmptyChain)
}

func TestAppendNode_RejectsHigherProbabilityThanTail(t *testing.T) {
	c, err := BuildChain(KindDigit, 2, []Row{{Replacement: "12", Probability: 0.5}})
	require.NoError(t, err)

	err = c.AppendNode(NewBruteForceNode(CharsetDigit, 2, 0.9))
	assert.ErrorIs(t, err, ErrNonMonotonicRows)
}

func TestTable_LookupMissing(t *testing.T) {
	tbl := NewTable(nil)
	_, err := tbl.Lookup(KindDigit, 3)
	assert.ErrorIs(t, err, ErrMissingChain)
}
