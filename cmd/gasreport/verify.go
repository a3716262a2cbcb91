package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-gas-report/internal/config"
	"github.com/dmagro/eth-gas-report/internal/output"
	"github.com/dmagro/eth-gas-report/internal/provider"
	"github.com/dmagro/eth-gas-report/internal/rpc"
	"github.com/dmagro/eth-gas-report/internal/verify"
)

func verifyCmd() *cobra.Command {
	var (
		rpc2       string
		strictExit bool
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "verify <tx-hash|block>",
		Short: "Cross-check a transaction or block across two providers",
		Long: `Fetch the same transaction (or block header) from two independent
providers, compare the key fields, and compare compact keccak
commitments over them. A transaction hash argument compares receipts;
anything else is treated as a block number or tag.

The second endpoint comes from --rpc2 or the RPC_URL_2 environment
variable.

Examples:
  gasreport verify 0x2c6a...f3b1 --rpc2 https://other-node
  gasreport verify latest --rpc2 https://other-node
  gasreport verify 19000000 --strict-exit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args[0], rpc2, strictExit, jsonOut)
		},
	}

	cmd.Flags().StringVar(&rpc2, "rpc2", "", "Second RPC endpoint URL (default from RPC_URL_2 env)")
	cmd.Flags().BoolVar(&strictExit, "strict-exit", false, "Exit non-zero when providers disagree")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON instead of a table")

	return cmd
}

func runVerify(cmd *cobra.Command, arg, rpc2 string, strictExit, jsonOut bool) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	clientA, err := selectClient(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	if rpc2 == "" {
		rpc2 = os.Getenv(config.EnvRPCURL2)
	}
	if rpc2 == "" {
		return fmt.Errorf("no second endpoint: pass --rpc2 or set %s", config.EnvRPCURL2)
	}
	cfg2, err := config.FromURL(rpc2)
	if err != nil {
		return fmt.Errorf("invalid second endpoint: %w", err)
	}
	cfg2.Providers[0].Name = "rpc2"
	cfg2.Defaults = cfg.Defaults
	clientB, err := provider.Select(ctx, cfg2, "")
	if err != nil {
		return err
	}

	var cmp map[string]bool
	if rpc.ValidateTxHash(arg) == nil {
		a, err := verify.FetchTxBundle(ctx, clientA, arg)
		if err != nil {
			return err
		}
		b, err := verify.FetchTxBundle(ctx, clientB, arg)
		if err != nil {
			return err
		}
		if a.Pending || b.Pending {
			if jsonOut {
				output.DisableColors()
				return output.RenderVerifyJSON(a, b, map[string]bool{})
			}
			output.RenderVerifyTxTerminal(a, b, map[string]bool{})
			return nil
		}
		cmp = verify.CompareTx(a, b)
		if jsonOut {
			output.DisableColors()
			if err := output.RenderVerifyJSON(a, b, cmp); err != nil {
				return err
			}
		} else {
			output.RenderVerifyTxTerminal(a, b, cmp)
		}
	} else {
		blockArg := rpc.NormalizeBlockArg(arg)
		a, b, err := verify.FetchBlockBundles(ctx, clientA, clientB, blockArg)
		if err != nil {
			return err
		}
		cmp = verify.CompareBlocks(a, b)
		if jsonOut {
			output.DisableColors()
			if err := output.RenderVerifyJSON(a, b, cmp); err != nil {
				return err
			}
		} else {
			output.RenderVerifyBlockTerminal(a, b, cmp)
		}
	}

	if strictExit && !verify.AllMatch(cmp) {
		return fmt.Errorf("providers disagree on at least one field")
	}
	return nil
}
