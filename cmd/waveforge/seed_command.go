package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"waveforge/internal/seed"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <hash>...",
		Short: "Derive the deterministic seed for transaction hashes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, hash := range args {
				seedHex, err := seed.Derive(hash)
				if err != nil {
					return fmt.Errorf("derive seed for %q: %w", hash, err)
				}
				fmt.Fprintf(out, "%s\t%s\n", hash, seedHex)
			}
			return nil
		},
	}
}
