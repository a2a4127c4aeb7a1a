package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcfg.yaml")
	content := `
rules_name: Leaked
heap_cap: 1000
wordlists:
  - path: common.txt
    prior: 0.6
  - path: names.txt
    prior: 0.4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Rules", cfg.RulesDir, "default survives partial file")
	assert.Equal(t, "Leaked", cfg.RulesName)
	assert.Equal(t, 1000, cfg.HeapCap)
	assert.Len(t, cfg.Wordlists, 2)
	assert.Equal(t, 1, cfg.MinArity)
}

func TestValidate_RejectsBadMode(t *testing.T) {
	cfg := Default()
	cfg.Mode = 3
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
}

func TestValidate_RejectsBadPrior(t *testing.T) {
	cfg := Default()
	cfg.Wordlists = []Wordlist{{Path: "a.txt", Prior: 1.5}}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
}

func TestValidate_RejectsZeroMinArity(t *testing.T) {
	cfg := Default()
	cfg.MinArity = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules_name: [unclosed"), 0o644))
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}
