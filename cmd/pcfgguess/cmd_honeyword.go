package main

import (
	"bufio"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pcfgguess/honeyword"
	"github.com/katalvlaran/pcfgguess/logging"
)

func newHoneywordCmd() *cobra.Command {
	var flags commonFlags
	var num int
	var output string

	cmd := &cobra.Command{
		Use:   "honeyword",
		Short: "Sample decoy passwords from the trained grammar",
		Long: `Generate honeywords: decoy passwords drawn at random from the
trained grammar, weighted by probability, so they are indistinguishable
from real user passwords when stored alongside them. Candidates below
the complexity requirement (six characters, three character classes)
are rejected and resampled.`,
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
			_, set, err := loadGrammar(cfg, table, log)
			if err != nil {
				return err
			}

			g, err := honeyword.New(table, set.Structures)
			if err != nil {
				return err
			}
			words, err := g.Generate(num)
			if err != nil {
				return err
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			bw := bufio.NewWriter(out)
			for _, hw := range words {
				if _, err := bw.WriteString(hw + "\n"); err != nil {
					return err
				}
			}
			return bw.Flush()
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&num, "num", "n", 100, "number of honeywords to generate")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write honeywords to a file instead of stdout")
	return cmd
}
