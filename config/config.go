package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Output modes, mirroring the recovery file's PreComputeMode field.
const (
	ModeGuess      = 0 // materialize guesses to stdout
	ModePrecompute = 1 // serialize popped pre-terminals instead
	ModeConsume    = 2 // read a precompute stream and materialize it
)

// Sentinel errors for the config package.
var (
	// ErrInvalid indicates a configuration that fails validation.
	ErrInvalid = errors.New("config: invalid configuration")
)

// Wordlist names one user dictionary and its prior weight. Priors across
// all wordlists are renormalized at load, so they need not sum to 1 here.
type Wordlist struct {
	Path  string  `yaml:"path"`
	Prior float64 `yaml:"prior"`
}

// Config is the full process configuration for one run.
type Config struct {
	// RulesDir is the root of the trained-rules tree; RulesName selects
	// the rule set under it (RulesDir/RulesName/{grammar,digit,...}).
	RulesDir  string `yaml:"rules_dir"`
	RulesName string `yaml:"rules_name"`

	Wordlists []Wordlist `yaml:"wordlists"`

	// HeapCap bounds the priority queue; <=0 means unbounded.
	HeapCap int `yaml:"heap_cap"`

	// MaxPreTerminals stops the run after this many pops; 0 means run to
	// exhaustion.
	MaxPreTerminals uint64 `yaml:"max_preterminals"`

	// Wordlist ingest filters.
	KeepUpper   bool `yaml:"keep_upper"`
	KeepSpecial bool `yaml:"keep_special"`
	KeepDigits  bool `yaml:"keep_digits"`

	// Mode selects guess generation, precompute, or consume.
	Mode int `yaml:"mode"`

	// SessionName names the recovery file; empty means generate one.
	SessionName string `yaml:"session_name"`

	// MinArity drops base structures with fewer slots at seed time. The
	// passphrase variant defaults this to 5; password runs leave it at 1.
	MinArity int `yaml:"min_arity"`

	// LogMode selects the logging config ("dev" or "prod").
	LogMode string `yaml:"log_mode"`
}

// Default returns the configuration used when no file or flags override
// anything.
func Default() Config {
	return Config{
		RulesDir:  "Rules",
		RulesName: "Default",
		HeapCap:   500000,
		MinArity:  1,
		LogMode:   "prod",
	}
}

// Load reads a YAML config file over Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints flags cannot express.
func (c Config) Validate() error {
	if c.RulesDir == "" || c.RulesName == "" {
		return fmt.Errorf("%w: rules_dir and rules_name are required", ErrInvalid)
	}
	if c.Mode < ModeGuess || c.Mode > ModeConsume {
		return fmt.Errorf("%w: mode must be 0, 1, or 2", ErrInvalid)
	}
	if c.MinArity < 1 {
		return fmt.Errorf("%w: min_arity must be >= 1", ErrInvalid)
	}
	for _, w := range c.Wordlists {
		if w.Path == "" {
			return fmt.Errorf("%w: wordlist with empty path", ErrInvalid)
		}
		if w.Prior <= 0 || w.Prior > 1 {
			return fmt.Errorf("%w: wordlist %q prior %g out of (0,1]", ErrInvalid, w.Path, w.Prior)
		}
	}
	return nil
}
