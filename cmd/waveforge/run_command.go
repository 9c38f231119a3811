package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"waveforge/internal/config"
	"waveforge/internal/ledger"
	"waveforge/internal/pipeline"
	"waveforge/internal/run"
)

const (
	defaultMaxCount  = 10
	defaultInputCSV  = "input/seeds.csv"
	defaultOutputDir = "./step_output"
)

type runParams struct {
	selector  string
	maxCount  int
	inputCSV  string
	outputDir string
	runID     string
}

func parseRunArgs(args []string) (runParams, error) {
	params := runParams{
		selector:  args[0],
		maxCount:  defaultMaxCount,
		inputCSV:  defaultInputCSV,
		outputDir: defaultOutputDir,
	}
	if len(args) > 1 {
		count, err := strconv.Atoi(strings.TrimSpace(args[1]))
		if err != nil || count < 1 {
			return params, fmt.Errorf("invalid max_count %q: want a positive integer", args[1])
		}
		params.maxCount = count
	}
	if len(args) > 2 && strings.TrimSpace(args[2]) != "" {
		params.inputCSV = strings.TrimSpace(args[2])
	}
	if len(args) > 3 && strings.TrimSpace(args[3]) != "" {
		params.outputDir = strings.TrimSpace(args[3])
	}
	if len(args) > 4 {
		params.runID = strings.TrimSpace(args[4])
	}
	return params, nil
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <stage|all> [max_count] [input_csv] [output_dir] [run_id]",
		Short: "Execute pipeline stages over a run",
		Long: `Execute one stage (1-6, or its name) or all stages in order.
Item failures are contained: the run continues with the remaining hashes
and the summary reports per-stage counts. The process only exits nonzero
for setup problems such as a missing input file.`,
		Args: cobra.RangeArgs(1, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseRunArgs(args)
			if err != nil {
				return err
			}
			if _, err := pipeline.ParseSelector(params.selector); err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			inputCSV, err := config.ExpandPath(params.inputCSV)
			if err != nil {
				return err
			}
			// The input CSV must exist whichever stage is selected, even
			// ones that never read it.
			if _, err := os.Stat(inputCSV); err != nil {
				return fmt.Errorf("input file not found: %s", params.inputCSV)
			}

			outputDir, err := config.ExpandPath(params.outputDir)
			if err != nil {
				return err
			}
			runID := run.ResolveID(params.runID, time.Now())
			layout := run.NewLayout(outputDir, runID)
			if err := layout.EnsureBase(); err != nil {
				return err
			}

			lock := flock.New(layout.LockPath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire workspace lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another waveforge instance is using %s", outputDir)
			}
			defer lock.Unlock()

			store, err := ledger.Open(layout.LedgerPath())
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := pipeline.New(cfg, layout, store, logger)
			if err != nil {
				return err
			}

			results, err := p.Run(cmd.Context(), params.selector, pipeline.Params{
				InputCSV: inputCSV,
				MaxCount: params.maxCount,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s finished\n", runID)
			fmt.Fprint(out, renderStageSummary(results))
			return nil
		},
	}
	return cmd
}

func renderStageSummary(results []pipeline.StageResult) string {
	headers := []string{"Stage", "Attempted", "Succeeded", "Failed", "Skipped"}
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		rows = append(rows, []string{
			result.Stage,
			strconv.Itoa(result.Attempted),
			strconv.Itoa(result.Succeeded),
			strconv.Itoa(result.Failed()),
			strconv.Itoa(result.Skipped),
		})
	}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight}
	return renderTable(headers, rows, aligns) + "\n"
}
