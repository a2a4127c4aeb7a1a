package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pcfgguess/engine"
	"github.com/katalvlaran/pcfgguess/logging"
	"github.com/katalvlaran/pcfgguess/materializer"
	"github.com/katalvlaran/pcfgguess/postag"
	"github.com/katalvlaran/pcfgguess/pqueue"
	"github.com/katalvlaran/pcfgguess/terminal"
)

func newPassphraseCmd() *cobra.Command {
	var flags commonFlags
	var grammarPath string
	var dictSpecs []string
	var minArity int

	cmd := &cobra.Command{
		Use:   "passphrase",
		Short: "Generate passphrase guesses from a part-of-speech grammar",
		Long: `Run the passphrase variant: base structures are sequences of Brown
corpus part-of-speech tags rather than letter/digit/special runs. Each
grammatical category needs a word dictionary bound with --dict, e.g.

  pcfgguess passphrase --grammar phrases.txt \
      --dict noun=nouns.txt --dict verb=verbs.txt --dict determiner=det.txt

Words in a category dictionary are weighted uniformly. Structures
shorter than --min-arity words are dropped at seed time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("min-arity") && cfg.MinArity > 1 {
				minArity = cfg.MinArity
			}
			log, sync, err := logging.New(cfg.LogMode)
			if err != nil {
				return err
			}
			defer sync()

			tx := postag.NewTaxonomy()
			for _, spec := range dictSpecs {
				category, path, ok := strings.Cut(spec, "=")
				if !ok {
					return fmt.Errorf("bad --dict %q: expected <category>=<path>", spec)
				}
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				words, err := terminal.ReadWordlist(f, terminal.WordlistFilter{})
				_ = f.Close()
				if err != nil {
					return err
				}
				if len(words) == 0 {
					return fmt.Errorf("dictionary %s is empty", path)
				}
				rows := make([]terminal.Row, len(words))
				for i, w := range words {
					rows[i] = terminal.Row{Replacement: w, Probability: 1.0 / float64(len(words))}
				}
				if err := tx.BindDictionary(category, rows); err != nil {
					return err
				}
			}

			gf, err := os.Open(grammarPath)
			if err != nil {
				return err
			}
			defer gf.Close()

			q := pqueue.New(cfg.HeapCap)
			set, err := postag.LoadGrammar(gf, tx, q, log, postag.WithMinArity(minArity))
			if err != nil {
				return err
			}
			log.Info("passphrase session started", "seeds", q.Len())

			mat := materializer.New(os.Stdout)
			s := engine.New(q, set.Heads, mat,
				engine.WithLogger(log),
				engine.WithMaxPreTerminals(cfg.MaxPreTerminals),
			)
			if err := runSession(s, log); err != nil {
				return err
			}
			return mat.Flush()
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&grammarPath, "grammar", "", "passphrase grammar file (required)")
	cmd.Flags().StringArrayVar(&dictSpecs, "dict", nil, "category dictionary as <category>=<path>, repeatable")
	cmd.Flags().IntVar(&minArity, "min-arity", postag.DefaultMinArity, "minimum words per structure admitted at seed time")
	_ = cmd.MarkFlagRequired("grammar")
	return cmd
}
