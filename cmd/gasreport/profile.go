package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-gas-report/internal/output"
	"github.com/dmagro/eth-gas-report/internal/profile"
	"github.com/dmagro/eth-gas-report/internal/rpc"
)

func profileCmd() *cobra.Command {
	var (
		blocks  int
		step    int
		head    string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Fee distribution over recent blocks",
		Long: `Sample recent blocks and compute fee percentiles: base fee,
effective gas price, and approximate priority tip.

Examples:
  gasreport profile
  gasreport profile --blocks 200 --step 20
  gasreport profile --head 19000000 --blocks 100 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd, blocks, step, head, jsonOut)
		},
	}

	cmd.Flags().IntVar(&blocks, "blocks", 100, "How many recent blocks the span covers")
	cmd.Flags().IntVar(&step, "step", 10, "Sample every Nth block")
	cmd.Flags().StringVar(&head, "head", "", "Head block override (decimal or hex, default: chain tip)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON instead of a table")

	return cmd
}

func runProfile(cmd *cobra.Command, blocks, step int, head string, jsonOut bool) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	client, err := selectClient(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	chainID, result := client.ChainID(ctx)
	if !result.Success {
		return fmt.Errorf("failed to resolve chain id: %w", result.Error)
	}

	opts := profile.Options{Blocks: blocks, Step: step}
	if head != "" {
		h, err := rpc.ParseHexUint64(rpc.NormalizeBlockArg(head))
		if err != nil {
			return fmt.Errorf("invalid head block %q", head)
		}
		opts.Head = h
	}

	log.Debugf("profiling %d blocks (step %d) on %s", blocks, step, rpc.NetworkName(chainID))

	res, err := profile.Run(ctx, client, chainID, opts)
	if err != nil {
		return err
	}

	if jsonOut {
		return output.RenderProfileJSON(res)
	}
	output.RenderProfileTerminal(res)
	return nil
}
