package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pcfgguess/config"
	"github.com/katalvlaran/pcfgguess/engine"
	"github.com/katalvlaran/pcfgguess/logging"
	"github.com/katalvlaran/pcfgguess/materializer"
)

func newGenerateCmd() *cobra.Command {
	var flags commonFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate password guesses to stdout in decreasing probability order",
		Args:  cobra.NoArgs,
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

			cp, name, err := newCheckpointer(cfg, config.ModeGuess)
			if err != nil {
				return err
			}
			defer cp.Close()
			log.Info("session started", "session", name, "seeds", q.Len())

			mat := materializer.New(os.Stdout)
			s := engine.New(q, set.Heads, mat,
				engine.WithLogger(log),
				engine.WithCheckpointer(cp),
				engine.WithMaxPreTerminals(cfg.MaxPreTerminals),
			)
			if err := runSession(s, log); err != nil {
				return err
			}
			return mat.Flush()
		},
	}

	flags.register(cmd)
	return cmd
}
