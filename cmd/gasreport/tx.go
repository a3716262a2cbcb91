package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dmagro/eth-gas-report/internal/gas"
	"github.com/dmagro/eth-gas-report/internal/output"
	"github.com/dmagro/eth-gas-report/internal/rpc"
)

type txOptions struct {
	warnFeeEth float64
	jsonOut    bool
	minimal    bool
}

func registerTxFlags(flags *pflag.FlagSet, opts *txOptions) {
	flags.Float64Var(&opts.warnFeeEth, "warn-fee-eth", 0.05, "Warn if the total fee exceeds this many ETH (0 disables)")
	flags.BoolVar(&opts.jsonOut, "json", false, "Print JSON instead of human-readable output")
	flags.BoolVar(&opts.minimal, "minimal", false, "Print only status and total fee")
}

func txCmd() *cobra.Command {
	opts := &txOptions{}

	cmd := &cobra.Command{
		Use:   "tx <tx-hash>",
		Short: "Gas report for a single transaction",
		Long: `Fetch a transaction and its receipt, compute the paid fee
(gasUsed × effectiveGasPrice), and print a summary with live network
gas metrics.

Examples:
  gasreport tx 0x2c6a...f3b1
  gasreport tx 0x2c6a...f3b1 --json
  gasreport tx 0x2c6a...f3b1 --warn-fee-eth 0.01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTx(cmd, args[0], opts)
		},
	}

	registerTxFlags(cmd.Flags(), opts)
	return cmd
}

func runTx(cmd *cobra.Command, txHash string, opts *txOptions) error {
	// Validate before any network call.
	if err := rpc.ValidateTxHash(txHash); err != nil {
		return err
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	client, err := selectClient(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	warnFeeEth := cfg.Defaults.WarnFeeEth
	if cmd.Flags().Changed("warn-fee-eth") {
		warnFeeEth = opts.warnFeeEth
	}

	start := time.Now()

	chainID, result := client.ChainID(ctx)
	if !result.Success {
		return fmt.Errorf("failed to resolve chain id: %w", result.Error)
	}
	log.Debugf("connected to %s (chainId %d) in %s", rpc.NetworkName(chainID), chainID, result.Latency)

	tx, receipt, err := client.GetMinedTransaction(ctx, txHash)
	if errors.Is(err, rpc.ErrReceiptPending) {
		// Known but not yet included. Not an error.
		fmt.Println("Transaction is pending (not yet included in a block).")
		return nil
	}
	if err != nil {
		return err
	}
	parsedTx := tx.Parsed()
	parsedReceipt := receipt.Parsed()

	txBlock, result := client.GetBlockByNumber(ctx, rpc.Uint64ToHex(parsedReceipt.BlockNumber))
	if !result.Success {
		return fmt.Errorf("failed to fetch tx block: %w", result.Error)
	}
	if txBlock == nil {
		return fmt.Errorf("block %d not found", parsedReceipt.BlockNumber)
	}

	latest, result := client.BlockNumber(ctx)
	if !result.Success {
		return fmt.Errorf("failed to fetch latest block: %w", result.Error)
	}

	summary := gas.NewSummary(chainID, parsedTx, parsedReceipt, txBlock.Parsed(), latest, warnFeeEth)

	if opts.minimal {
		output.RenderTxMinimal(summary, time.Since(start))
		return nil
	}
	if opts.jsonOut {
		output.DisableColors()
		return output.RenderTxJSON(summary)
	}

	// Network-wide gas metrics are display garnish; fetch them only for the
	// full human-readable report.
	var netInfo *gas.NetworkInfo
	latestBlock, result := client.GetLatestBlock(ctx)
	if result.Success && latestBlock != nil {
		gasPrice, gpResult := client.GasPrice(ctx)
		if !gpResult.Success {
			log.Debugf("eth_gasPrice failed: %v", gpResult.Error)
			gasPrice = nil
		}
		netInfo = &gas.NetworkInfo{Latest: latestBlock.Parsed(), GasPrice: gasPrice}
	} else if result.Error != nil {
		log.Debugf("latest block fetch failed: %v", result.Error)
	}

	output.RenderTxTerminal(summary, netInfo, time.Since(start))
	return nil
}
