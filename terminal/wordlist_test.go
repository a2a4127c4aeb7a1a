package terminal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWordlist_FiltersAndStripsCR(t *testing.T) {
	input := "hello\r\nWORLD\r\npass1\r\ngood!\r\nok\r\n"
	words, err := ReadWordlist(strings.NewReader(input), WordlistFilter{
		RemoveUpper:   true,
		RemoveDigits:  true,
		RemoveSpecial: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "ok"}, words)
}

func TestReadWordlist_RejectsOverlongWords(t *testing.T) {
	long := strings.Repeat("a", MaxWordLength+1)
	words, err := ReadWordlist(strings.NewReader(long+"\n"), WordlistFilter{})
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestMergeDictionaries_RenormalizesAndSplitsBySourceLength(t *testing.T) {
	sources := []WordlistSource{
		{Path: "a.txt", Prior: 0.6, Words: []string{"cat", "dog"}},
		{Path: "b.txt", Prior: 0.4, Words: []string{"ant"}},
	}
	rows := MergeDictionaries(sources)

	require.Len(t, rows[3], 3)
	var total float64
	for _, r := range rows[3] {
		total += r.Probability
	}
	assert.InDelta(t, 1.0, total, 1e-9)

	// "cat"/"dog" share source a's renormalized 0.6 over 2 equal-length words.
	for _, r := range rows[3] {
		if r.Replacement == "cat" || r.Replacement == "dog" {
			assert.InDelta(t, 0.3, r.Probability, 1e-9)
		}
		if r.Replacement == "ant" {
			assert.InDelta(t, 0.4, r.Probability, 1e-9)
		}
	}
}
