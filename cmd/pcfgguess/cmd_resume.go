package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pcfgguess/engine"
	"github.com/katalvlaran/pcfgguess/logging"
	"github.com/katalvlaran/pcfgguess/materializer"
	"github.com/katalvlaran/pcfgguess/session"
)

func newResumeCmd() *cobra.Command {
	var flags commonFlags

	cmd := &cobra.Command{
		Use:   "resume <session-name>",
		Short: "Resume a crashed or stopped session from its recovery file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			rec, err := session.Load(name + ".rec")
			if err != nil {
				return err
			}

			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			// The recovery file is authoritative for everything it
			// persisted; flags only cover what it does not (rules dir,
			// heap cap, log mode).
			cfg.RulesName = rec.Rules
			cfg.KeepUpper = rec.KeepUpper
			cfg.KeepSpecial = rec.KeepSpecial
			cfg.KeepDigits = rec.KeepDigits
			cfg.SessionName = name
			cfg.Wordlists = cfg.Wordlists[:0]
			for _, d := range rec.Dictionaries {
				cfg.Wordlists = append(cfg.Wordlists, wordlistFromDictionary(d))
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

			if err := session.RestoreHeap(q, set.Heads, rec.RestoreProbability); err != nil {
				return err
			}
			log.Info("session restored",
				"session", name,
				"restoreProbability", rec.RestoreProbability,
				"queue", q.Len(),
			)

			cp, _, err := newCheckpointer(cfg, rec.PrecomputeMode)
			if err != nil {
				return err
			}
			defer cp.Close()

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
