package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"waveforge/internal/config"
	"waveforge/internal/fileutil"
	"waveforge/internal/ledger"
	"waveforge/internal/run"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [run_id] [output_dir]",
		Short: "Show ledger state for a run",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}

			outputDir := defaultOutputDir
			if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
				outputDir = strings.TrimSpace(args[1])
			}
			outputDir, err := config.ExpandPath(outputDir)
			if err != nil {
				return err
			}

			layout := run.NewLayout(outputDir, "")
			store, err := ledger.Open(layout.LedgerPath())
			if err != nil {
				return err
			}
			defer store.Close()

			runID := ""
			if len(args) > 0 {
				runID = strings.TrimSpace(args[0])
			}
			if runID == "" {
				runs, err := store.Runs(cmd.Context())
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
					return nil
				}
				runID = runs[0]
			}

			items, err := store.ListRun(cmd.Context(), runID)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No items for run %s\n", runID)
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s: %d items\n", runID, len(items))
			fmt.Fprint(out, renderStatus(items, useTableOutput()))
			return nil
		},
	}
	return cmd
}

func renderStatus(items []*ledger.Item, asTable bool) string {
	headers := []string{"Hash", "Seed", "Status", "Frames", "Video Size", "Error"}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		videoSize := "-"
		if item.VideoFile != "" {
			if size := fileutil.FileSize(item.VideoFile); size > 0 {
				videoSize = humanize.Bytes(uint64(size))
			}
		}
		frames := "-"
		if item.FrameCount > 0 {
			frames = strconv.Itoa(item.FrameCount)
		}
		rows = append(rows, []string{
			shortHash(item.TxHash),
			item.Seed,
			string(item.Status),
			frames,
			videoSize,
			item.ErrorMessage,
		})
	}

	if asTable {
		aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}
		return renderTable(headers, rows, aligns) + "\n"
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}

func shortHash(hash string) string {
	if len(hash) <= 18 {
		return hash
	}
	return hash[:18] + "..."
}

func useTableOutput() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
