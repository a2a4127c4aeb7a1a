package main

import (
	"bufio"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pcfgguess/logging"
	"github.com/katalvlaran/pcfgguess/materializer"
	"github.com/katalvlaran/pcfgguess/precompute"
	"github.com/katalvlaran/pcfgguess/preterm"
)

func newConsumeCmd() *cobra.Command {
	var flags commonFlags
	var input string

	cmd := &cobra.Command{
		Use:   "consume",
		Short: "Expand a precomputed pre-terminal stream into guesses",
		Long: `Read the binary record stream written by "precompute", reattach
each record's chain pointers against the same trained rule set and
wordlists, and expand it into guesses on stdout. The rule set and
wordlists must match the producing run exactly, or records will fail to
resolve.`,
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
			resolver := precompute.NewResolver(table)
			log.Info("consume mode", "rules", cfg.RulesName)

			in := os.Stdin
			if input != "" {
				f, err := os.Open(input)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			mat := materializer.New(os.Stdout)
			err = precompute.Consume(bufio.NewReaderSize(in, 1<<16), resolver, func(pt preterm.PreTerminal) error {
				return mat.Handle(pt)
			})
			if err != nil {
				return err
			}
			return mat.Flush()
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&input, "input", "i", "", "read records from a file instead of stdin")
	return cmd
}
