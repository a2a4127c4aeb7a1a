package honeyword

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/pcfgguess/grammar"
	"github.com/katalvlaran/pcfgguess/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putChain(t *testing.T, table *terminal.Table, kind terminal.Kind, length int, reps []string, probs []float64) {
	t.Helper()
	rows := make([]terminal.Row, len(reps))
	for i := range reps {
		rows[i] = terminal.Row{Replacement: reps[i], Probability: probs[i]}
	}
	c, err := terminal.BuildChain(kind, length, rows)
	require.NoError(t, err)
	table.Put(c)
}

func sampleTable(t *testing.T) *terminal.Table {
	t.Helper()
	table := terminal.NewTable(nil)
	putChain(t, table, terminal.KindDictionary, 3, []string{"cat", "dog"}, []float64{0.5, 0.5})
	putChain(t, table, terminal.KindCapMask, 3, []string{"LLL", "ULL"}, []float64{0.8, 0.2})
	putChain(t, table, terminal.KindDigit, 2, []string{"12", "77"}, []float64{0.6, 0.4})
	putChain(t, table, terminal.KindSpecial, 1, []string{"!"}, []float64{1.0})
	return table
}

func seededRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestGenerate_DrawsFromTheGrammar(t *testing.T) {
	table := sampleTable(t)
	structures := []grammar.BaseStructure{{
		Runs: []grammar.SymbolRun{
			{Kind: terminal.KindDictionary, Length: 3},
			{Kind: terminal.KindDigit, Length: 2},
			{Kind: terminal.KindSpecial, Length: 1},
		},
		Probability: 1.0,
	}}

	g, err := New(table, structures, WithRand(seededRand()))
	require.NoError(t, err)

	words, err := g.Generate(20)
	require.NoError(t, err)
	require.Len(t, words, 20)

	valid := map[string]bool{}
	for _, w := range []string{"cat", "dog", "Cat", "Dog"} {
		for _, d := range []string{"12", "77"} {
			valid[w+d+"!"] = true
		}
	}
	for _, hw := range words {
		assert.True(t, valid[hw], "unexpected honeyword %q", hw)
		assert.True(t, meetsComplexity(hw))
	}
}

func TestGenerate_RespectsStructureWeights(t *testing.T) {
	// Two structures, one with overwhelming prior: the dominant one must
	// account for the bulk of the draws.
	table := sampleTable(t)
	dominant := grammar.BaseStructure{
		Runs: []grammar.SymbolRun{
			{Kind: terminal.KindDictionary, Length: 3},
			{Kind: terminal.KindDigit, Length: 2},
			{Kind: terminal.KindSpecial, Length: 1},
		},
		Probability: 0.95,
	}
	rare := grammar.BaseStructure{
		Runs: []grammar.SymbolRun{
			{Kind: terminal.KindDigit, Length: 2},
			{Kind: terminal.KindDigit, Length: 2},
			{Kind: terminal.KindDictionary, Length: 3},
			{Kind: terminal.KindSpecial, Length: 1},
		},
		Probability: 0.05,
	}

	g, err := New(table, []grammar.BaseStructure{dominant, rare}, WithRand(seededRand()))
	require.NoError(t, err)

	words, err := g.Generate(200)
	require.NoError(t, err)

	short := 0
	for _, hw := range words {
		if len(hw) == 6 {
			short++
		}
	}
	assert.Greater(t, short, 150, "dominant structure should dominate the sample")
}

func TestGenerate_RejectsLowComplexityCandidates(t *testing.T) {
	// A grammar that can only produce "12!" or "77!" never meets the length
	// requirement, so generation must fail rather than loop forever.
	table := sampleTable(t)
	structures := []grammar.BaseStructure{{
		Runs: []grammar.SymbolRun{
			{Kind: terminal.KindDigit, Length: 2},
			{Kind: terminal.KindSpecial, Length: 1},
		},
		Probability: 1.0,
	}}

	g, err := New(table, structures, WithRand(seededRand()), WithMaxAttempts(50))
	require.NoError(t, err)

	_, err = g.Generate(1)
	assert.ErrorIs(t, err, ErrExhaustedRetries)
}

func TestGenerate_SkipsBruteForceNodes(t *testing.T) {
	table := terminal.NewTable(nil)
	chain, err := terminal.BuildChain(terminal.KindDigit, 6, []terminal.Row{
		{Replacement: "123456", Probability: 0.5},
	})
	require.NoError(t, err)
	require.NoError(t, chain.AppendNode(terminal.NewBruteForceNode(terminal.CharsetDigit, 6, 0.1)))
	table.Put(chain)
	putChain(t, table, terminal.KindSpecial, 1, []string{"!"}, []float64{1.0})
	putChain(t, table, terminal.KindDictionary, 3, []string{"cat"}, []float64{1.0})
	putChain(t, table, terminal.KindCapMask, 3, []string{"ULL"}, []float64{1.0})

	structures := []grammar.BaseStructure{{
		Runs: []grammar.SymbolRun{
			{Kind: terminal.KindDictionary, Length: 3},
			{Kind: terminal.KindDigit, Length: 6},
			{Kind: terminal.KindSpecial, Length: 1},
		},
		Probability: 1.0,
	}}

	g, err := New(table, structures, WithRand(seededRand()))
	require.NoError(t, err)

	words, err := g.Generate(10)
	require.NoError(t, err)
	for _, hw := range words {
		assert.Equal(t, "Cat123456!", hw, "only the literal digit group is sampleable")
	}
}

func TestNew_RejectsEmptyStructures(t *testing.T) {
	_, err := New(terminal.NewTable(nil), nil)
	assert.ErrorIs(t, err, ErrNoStructures)
}

func TestGenerate_MissingChainResamples(t *testing.T) {
	// One structure references an unloaded chain, the other is fully
	// bound; sampling must converge on the bound one.
	table := sampleTable(t)
	bound := grammar.BaseStructure{
		Runs: []grammar.SymbolRun{
			{Kind: terminal.KindDictionary, Length: 3},
			{Kind: terminal.KindDigit, Length: 2},
			{Kind: terminal.KindSpecial, Length: 1},
		},
		Probability: 0.5,
	}
	unbound := grammar.BaseStructure{
		Runs:        []grammar.SymbolRun{{Kind: terminal.KindKeyboard, Length: 4}},
		Probability: 0.5,
	}

	g, err := New(table, []grammar.BaseStructure{bound, unbound}, WithRand(seededRand()))
	require.NoError(t, err)

	words, err := g.Generate(10)
	require.NoError(t, err)
	assert.Len(t, words, 10)
}
