package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"waveforge/internal/bundle"
	"waveforge/internal/config"
)

func newBundleCommand() *cobra.Command {
	var maxChunkBytes int

	cmd := &cobra.Command{
		Use:   "bundle [source_dir] [output_dir]",
		Short: "Package source files into chunked bundles for on-chain storage",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceDir := "."
			if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
				sourceDir = strings.TrimSpace(args[0])
			}
			outputDir := "blockchain"
			if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
				outputDir = strings.TrimSpace(args[1])
			}
			sourceDir, err := config.ExpandPath(sourceDir)
			if err != nil {
				return err
			}
			outputDir, err = config.ExpandPath(outputDir)
			if err != nil {
				return err
			}

			groups, err := bundle.GroupsFromDir(sourceDir)
			if err != nil {
				return err
			}
			result, err := bundle.Write(groups, sourceDir, outputDir, bundle.Options{
				MaxChunkBytes: maxChunkBytes,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, chunk := range result.Chunks {
				fmt.Fprintf(out, "Created %s: %s\n", chunk.Name, humanize.Bytes(uint64(chunk.SizeBytes)))
			}
			fmt.Fprintf(out, "%d chunks ready; see %s\n", len(result.Chunks), result.ManifestPath)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxChunkBytes, "max-chunk-bytes", bundle.DefaultMaxChunkBytes, "Split bundles larger than this many bytes")
	return cmd
}
