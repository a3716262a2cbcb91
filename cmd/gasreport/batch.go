package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-gas-report/internal/batch"
	"github.com/dmagro/eth-gas-report/internal/output"
)

func batchCmd() *cobra.Command {
	var (
		file    string
		limit   int
		outPath string
		jsonOut bool
		csvOut  bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Fee summary for many transactions",
		Long: `Read transaction hashes (one per line) from a file or stdin and
summarize fees for each. Blocks are cached, so transactions that share
a block cost a single block fetch.

Examples:
  gasreport batch --file hashes.txt
  gasreport batch --file hashes.txt --csv --out fees.csv
  cat hashes.txt | gasreport batch --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, file, limit, outPath, jsonOut, csvOut)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "File with one tx hash per line (default: stdin)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Limit number of hashes read (0 for all)")
	cmd.Flags().StringVar(&outPath, "out", "", "CSV output path (default: stdout)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print a JSON report instead of a table")
	cmd.Flags().BoolVar(&csvOut, "csv", false, "Print CSV instead of a table")

	return cmd
}

func runBatch(cmd *cobra.Command, file string, limit int, outPath string, jsonOut, csvOut bool) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var in *os.File
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("failed to open hash file: %w", err)
		}
		defer f.Close()
		in = f
	} else {
		if output.IsTerminal() {
			fmt.Fprintln(os.Stderr, "Reading tx hashes from stdin (end with Ctrl-D)...")
		}
		in = os.Stdin
	}

	hashes, skipped, err := batch.ReadHashes(in, limit)
	if err != nil {
		return fmt.Errorf("failed to read hashes: %w", err)
	}
	for _, s := range skipped {
		log.Warnf("skipping invalid hash: %s", s)
	}
	if len(hashes) == 0 {
		return fmt.Errorf("no valid transaction hashes provided")
	}

	client, err := selectClient(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	chainID, result := client.ChainID(ctx)
	if !result.Success {
		return fmt.Errorf("failed to resolve chain id: %w", result.Error)
	}

	runner := &batch.Runner{
		Client:     client,
		WarnFeeEth: cfg.Defaults.WarnFeeEth,
		Progress: func(done, total int) {
			if done%10 == 0 || done == total {
				log.Debugf("processed %d/%d", done, total)
			}
		},
	}

	rows, rowErrs, err := runner.Run(ctx, hashes)
	if err != nil {
		return err
	}
	for h, rowErr := range rowErrs {
		log.Warnf("failed to process %s: %v", h, rowErr)
	}

	switch {
	case jsonOut:
		return output.RenderBatchJSON(batch.NewReport(chainID, rows))
	case csvOut || outPath != "":
		w := os.Stdout
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			w = f
		}
		if err := batch.WriteCSV(w, rows); err != nil {
			return err
		}
		if outPath != "" {
			fmt.Printf("CSV written to %s\n", outPath)
		}
		return nil
	default:
		output.RenderBatchTerminal(rows)
		return nil
	}
}
