package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pcfgguess/engine"
	"github.com/katalvlaran/pcfgguess/logging"
	"github.com/katalvlaran/pcfgguess/materializer"
	"github.com/katalvlaran/pcfgguess/preterm"
)

func newEstimateCmd() *cobra.Command {
	var flags commonFlags

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Count how many guesses the grammar would generate, without emitting any",
		Long: `Run the priority queue in count-only mode, accumulating the number
of guesses each pre-terminal would expand to. Brute-force slots count
their full charset^length space, so the total can slightly overestimate
when literals overlap a brute-force region. Use --max-preterminals to
bound the walk on large grammars.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			log, sync, err := logging.New(cfg.LogMode)
			if err != nil {
				return err
			}
			defer sync()

			table, err := loadTable(cfg)
			if err != nil {
				return err
			}
			q, set, err := loadGrammar(cfg, table, log)
			if err != nil {
				return err
			}

			var total, preTerminals uint64
			s := engine.New(q, set.Heads, engine.HandlerFunc(func(pt preterm.PreTerminal) error {
				total += materializer.Count(pt)
				preTerminals++
				return nil
			}),
				engine.WithLogger(log),
				engine.WithMaxPreTerminals(cfg.MaxPreTerminals),
			)
			if err := runSession(s, log); err != nil {
				return err
			}

			fmt.Printf("pre-terminals:\t%d\nguesses:\t%d\n", preTerminals, total)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
