// Command pcfgguess generates password guesses from a trained PCFG in
// strictly decreasing probability order, for piping into an external
// cracking engine.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "pcfgguess",
		Short:         "PCFG-driven password guess generator",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newPrecomputeCmd())
	rootCmd.AddCommand(newConsumeCmd())
	rootCmd.AddCommand(newResumeCmd())
	rootCmd.AddCommand(newEstimateCmd())
	rootCmd.AddCommand(newHoneywordCmd())
	rootCmd.AddCommand(newPassphraseCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
