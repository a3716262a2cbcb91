// Command gasreport inspects Ethereum transaction fees over JSON-RPC.
//
// The default invocation takes a transaction hash and prints a gas report:
//
//	gasreport 0x<hash> --rpc https://...
//
// Subcommands cover batch summaries, network fee profiling, cross-provider
// verification, and endpoint latency checks.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dmagro/eth-gas-report/internal/config"
	"github.com/dmagro/eth-gas-report/internal/output"
)

var log = logrus.New()

func main() {
	config.LoadEnv()

	root := rootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var verbose bool
	txFlags := &txOptions{}

	cmd := &cobra.Command{
		Use:   "gasreport [tx-hash]",
		Short: "Ethereum transaction gas reports over JSON-RPC",
		Long: `Inspect Ethereum transaction fees and network gas conditions.

Examples:
  gasreport 0x2c6a...f3b1
  gasreport 0x2c6a...f3b1 --rpc https://eth.llamarpc.com --json
  gasreport batch --file hashes.txt --out fees.csv
  gasreport profile --blocks 100 --step 10
  gasreport verify 0x2c6a...f3b1 --rpc2 https://other-node
  gasreport latency --watch --interval 10s`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(os.Stderr)
			log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			} else {
				log.SetLevel(logrus.WarnLevel)
			}
			if !output.IsTerminal() {
				output.DisableColors()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runTx(cmd, args[0], txFlags)
		},
	}

	cmd.PersistentFlags().String("config", "config/providers.yaml", "Config file path")
	cmd.PersistentFlags().String("rpc", "", "RPC endpoint URL (overrides config and RPC_URL)")
	cmd.PersistentFlags().String("provider", "", "Use a specific provider from the config")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	registerTxFlags(cmd.Flags(), txFlags)

	cmd.AddCommand(txCmd())
	cmd.AddCommand(batchCmd())
	cmd.AddCommand(profileCmd())
	cmd.AddCommand(verifyCmd())
	cmd.AddCommand(latencyCmd())

	return cmd
}
