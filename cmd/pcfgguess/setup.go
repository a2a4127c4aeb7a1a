package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pcfgguess/config"
	"github.com/katalvlaran/pcfgguess/engine"
	"github.com/katalvlaran/pcfgguess/grammar"
	"github.com/katalvlaran/pcfgguess/logging"
	"github.com/katalvlaran/pcfgguess/pqueue"
	"github.com/katalvlaran/pcfgguess/session"
	"github.com/katalvlaran/pcfgguess/terminal"
)

// statusInterval matches the original ten-second status cadence.
const statusInterval = 10 * time.Second

// commonFlags are the configuration knobs shared by every queue-driving
// subcommand; flag values override the config file, which overrides
// defaults.
type commonFlags struct {
	configPath string
	rulesDir   string
	rulesName  string
	sessionName string
	wordlists  []string
	heapCap    int
	maxPreTerms uint64
	keepUpper   bool
	keepSpecial bool
	keepDigits  bool
	logMode     string
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "YAML config file")
	cmd.Flags().StringVar(&f.rulesDir, "rules-dir", "", "root of the trained rules tree")
	cmd.Flags().StringVar(&f.rulesName, "rules", "", "rule set name under the rules dir")
	cmd.Flags().StringVar(&f.sessionName, "session", "", "session name for the recovery file")
	cmd.Flags().StringArrayVar(&f.wordlists, "wordlist", nil, "wordlist as <path>:<prior>, repeatable")
	cmd.Flags().IntVar(&f.heapCap, "heap-cap", 0, "priority queue cap (0 = config default)")
	cmd.Flags().Uint64Var(&f.maxPreTerms, "max-preterminals", 0, "stop after this many pops (0 = run to exhaustion)")
	cmd.Flags().BoolVar(&f.keepUpper, "keep-upper", false, "keep wordlist words containing uppercase")
	cmd.Flags().BoolVar(&f.keepSpecial, "keep-special", false, "keep wordlist words containing specials")
	cmd.Flags().BoolVar(&f.keepDigits, "keep-digits", false, "keep wordlist words containing digits")
	cmd.Flags().StringVar(&f.logMode, "log-mode", "", "logging mode: dev or prod")
}

// resolve merges flag values over the config file over defaults.
func (f *commonFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return cfg, err
		}
	}
	if f.rulesDir != "" {
		cfg.RulesDir = f.rulesDir
	}
	if f.rulesName != "" {
		cfg.RulesName = f.rulesName
	}
	if f.sessionName != "" {
		cfg.SessionName = f.sessionName
	}
	if f.heapCap != 0 {
		cfg.HeapCap = f.heapCap
	}
	if f.maxPreTerms != 0 {
		cfg.MaxPreTerminals = f.maxPreTerms
	}
	if cmd.Flags().Changed("keep-upper") {
		cfg.KeepUpper = f.keepUpper
	}
	if cmd.Flags().Changed("keep-special") {
		cfg.KeepSpecial = f.keepSpecial
	}
	if cmd.Flags().Changed("keep-digits") {
		cfg.KeepDigits = f.keepDigits
	}
	if f.logMode != "" {
		cfg.LogMode = f.logMode
	}
	for _, spec := range f.wordlists {
		wl, err := parseWordlistSpec(spec)
		if err != nil {
			return cfg, err
		}
		cfg.Wordlists = append(cfg.Wordlists, wl)
	}
	return cfg, cfg.Validate()
}

// wordlistFromDictionary maps a recovery-file dictionary entry back to a
// config wordlist.
func wordlistFromDictionary(d session.Dictionary) config.Wordlist {
	return config.Wordlist{Path: d.Path, Prior: d.Prior}
}

func parseWordlistSpec(spec string) (config.Wordlist, error) {
	for i := len(spec) - 1; i >= 0; i-- {
		if spec[i] == ':' {
			var prior float64
			if _, err := fmt.Sscanf(spec[i+1:], "%g", &prior); err != nil {
				return config.Wordlist{}, fmt.Errorf("bad wordlist spec %q: %v", spec, err)
			}
			return config.Wordlist{Path: spec[:i], Prior: prior}, nil
		}
	}
	// Bare path: prior 1, renormalized against the others at load.
	return config.Wordlist{Path: spec, Prior: 1}, nil
}

// loadTable builds the full terminal table: the trained per-kind chain
// directories plus dictionary chains merged from the user wordlists.
func loadTable(cfg config.Config) (*terminal.Table, error) {
	root := filepath.Join(cfg.RulesDir, cfg.RulesName)
	table, err := terminal.LoadDir(root)
	if err != nil {
		return nil, fmt.Errorf("loading terminal tables under %s: %w", root, err)
	}

	if len(cfg.Wordlists) > 0 {
		filter := terminal.WordlistFilter{
			RemoveUpper:   !cfg.KeepUpper,
			RemoveSpecial: !cfg.KeepSpecial,
			RemoveDigits:  !cfg.KeepDigits,
		}
		var sources []terminal.WordlistSource
		for _, wl := range cfg.Wordlists {
			f, err := os.Open(wl.Path)
			if err != nil {
				return nil, err
			}
			words, err := terminal.ReadWordlist(f, filter)
			_ = f.Close()
			if err != nil {
				return nil, fmt.Errorf("reading wordlist %s: %w", wl.Path, err)
			}
			sources = append(sources, terminal.WordlistSource{Path: wl.Path, Prior: wl.Prior, Words: words})
		}
		for length, rows := range terminal.MergeDictionaries(sources) {
			chain, err := terminal.BuildChain(terminal.KindDictionary, length, rows)
			if err != nil {
				return nil, fmt.Errorf("building dictionary chain length %d: %w", length, err)
			}
			table.Put(chain)
		}
	}
	return table, nil
}

// loadGrammar seeds a fresh queue from the rule set's grammar file.
func loadGrammar(cfg config.Config, table *terminal.Table, log logging.Logger) (*pqueue.Queue, grammar.Set, error) {
	path := filepath.Join(cfg.RulesDir, cfg.RulesName, "grammar", "structures.txt")
	f, err := os.Open(path)
	if err != nil {
		return nil, grammar.Set{}, err
	}
	defer f.Close()

	q := pqueue.New(cfg.HeapCap)
	set, err := grammar.LoadFile(f, table, q, log)
	if err != nil {
		return nil, grammar.Set{}, fmt.Errorf("loading grammar %s: %w", path, err)
	}
	return q, set, nil
}

// newCheckpointer creates the recovery file for this run.
func newCheckpointer(cfg config.Config, mode int) (*session.Checkpointer, string, error) {
	name := cfg.SessionName
	if name == "" {
		name = session.DefaultName()
	}
	rec := session.Recovery{
		Rules:          cfg.RulesName,
		KeepUpper:      cfg.KeepUpper,
		KeepSpecial:    cfg.KeepSpecial,
		KeepDigits:     cfg.KeepDigits,
		PrecomputeMode: mode,
	}
	for _, wl := range cfg.Wordlists {
		rec.Dictionaries = append(rec.Dictionaries, session.Dictionary{Path: wl.Path, Prior: wl.Prior})
	}
	cp, err := session.Create(name+".rec", rec)
	return cp, name, err
}

// runSession drives s until completion, wiring SIGINT/SIGTERM to
// cooperative cancellation and logging a status line on each interval
// tick.
func runSession(s *engine.Session, log logging.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(statusInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sigCh:
				cancel()
			case <-ticker.C:
				st := s.Snapshot()
				log.Info("status",
					"state", st.State.String(),
					"popped", st.Popped,
					"queue", st.QueueLen,
					"probability", st.CurrentProbability,
					"floor", st.Floor,
				)
			case <-done:
				return
			}
		}
	}()

	return s.Run(ctx)
}
