package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/pcfgguess/pqueue"
	"github.com/katalvlaran/pcfgguess/preterm"
	"github.com/katalvlaran/pcfgguess/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecovery() Recovery {
	return Recovery{
		Rules:          "Default",
		KeepUpper:      true,
		KeepDigits:     true,
		PrecomputeMode: 1,
		Dictionaries: []Dictionary{
			{Path: "dic-0294.txt", Prior: 0.75},
			{Path: "common.txt", Prior: 0.25},
		},
		RestoreProbability: 0.0123456789,
	}
}

func TestCreateLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.rec")
	cp, err := Create(path, sampleRecovery())
	require.NoError(t, err)
	require.NoError(t, cp.Close())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sampleRecovery(), got)
}

func TestUpdate_RewritesProbabilityInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.rec")
	cp, err := Create(path, sampleRecovery())
	require.NoError(t, err)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, cp.Update(0.5))
	require.NoError(t, cp.Close())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after), "in-place rewrite must not change file size")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.RestoreProbability)
	// Everything above the probability field is untouched.
	assert.Equal(t, sampleRecovery().Dictionaries, got.Dictionaries)
}

func TestParse_RejectsOldVersion(t *testing.T) {
	content := "Version:\t1.50\nRules:\tDefault\n"
	_, err := Parse(strings.NewReader(content))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestParse_RejectsMissingSentinel(t *testing.T) {
	rec := sampleRecovery()
	text := string(rec.marshalHeader())
	text = strings.Replace(text, endOfDictionaries+"\n", "", 1)
	_, err := Parse(strings.NewReader(text + "0.5\n"))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParse_RejectsBadBoolTag(t *testing.T) {
	content := "Version:\t1.75\nRules:\tDefault\nKeepUpper:\tyes\n"
	_, err := Parse(strings.NewReader(content))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDefaultName_Unique(t *testing.T) {
	a, b := DefaultName(), DefaultName()
	assert.True(t, strings.HasPrefix(a, "session-"))
	assert.NotEqual(t, a, b)
}

func TestRestoreHeap_ResumesAtRestorePoint(t *testing.T) {
	// Digit chain 0.5 / 0.3 / 0.2: a run checkpointed at probability 0.3
	// must resume with 0.3 at the top of the queue (the epsilon nudge
	// re-admits the item being processed at checkpoint time).
	chain, err := terminal.BuildChain(terminal.KindDigit, 1, []terminal.Row{
		{Replacement: "1", Probability: 0.5},
		{Replacement: "2", Probability: 0.3},
		{Replacement: "3", Probability: 0.2},
	})
	require.NoError(t, err)

	head, err := preterm.New(1.0, []preterm.SlotRef{{Chain: chain, Index: 0}})
	require.NoError(t, err)

	q := pqueue.New(0)
	_, err = q.Push(head)
	require.NoError(t, err)

	require.NoError(t, RestoreHeap(q, []preterm.PreTerminal{head}, 0.3))

	pt, err := q.Pop()
	require.NoError(t, err)
	assert.Equal(t, 0.3, pt.Joint)
}
