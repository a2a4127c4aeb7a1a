package main

import (
	"bufio"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pcfgguess/config"
	"github.com/katalvlaran/pcfgguess/engine"
	"github.com/katalvlaran/pcfgguess/logging"
	"github.com/katalvlaran/pcfgguess/precompute"
)

func newPrecomputeCmd() *cobra.Command {
	var flags commonFlags
	var output string

	cmd := &cobra.Command{
		Use:   "precompute",
		Short: "Run the priority queue and serialize popped pre-terminals instead of guesses",
		Long: `Run the expensive priority-queue work once, writing each popped
pre-terminal as a compact binary record. Feed the stream to "consume"
(possibly on another machine) to expand it into actual guesses.`,
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

			cp, name, err := newCheckpointer(cfg, config.ModePrecompute)
			if err != nil {
				return err
			}
			defer cp.Close()
			log.Info("precompute session started", "session", name, "seeds", q.Len())

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			bw := bufio.NewWriterSize(out, 1<<16)

			s := engine.New(q, set.Heads, precompute.NewEncoder(bw),
				engine.WithLogger(log),
				engine.WithCheckpointer(cp),
				engine.WithMaxPreTerminals(cfg.MaxPreTerminals),
			)
			if err := runSession(s, log); err != nil {
				return err
			}
			return bw.Flush()
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write records to a file instead of stdout")
	return cmd
}
