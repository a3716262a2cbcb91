package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-gas-report/internal/config"
	"github.com/dmagro/eth-gas-report/internal/provider"
	"github.com/dmagro/eth-gas-report/internal/rpc"
)

// resolveConfig builds the effective config from the persistent flags:
// --rpc wins, then the config file when present, then the RPC_URL env var.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		cfgPath, _ = cmd.Root().PersistentFlags().GetString("config")
	}
	rpcURL, _ := cmd.Flags().GetString("rpc")
	if rpcURL == "" {
		rpcURL, _ = cmd.Root().PersistentFlags().GetString("rpc")
	}
	return config.Resolve(cfgPath, rpcURL)
}

// selectClient picks a provider client honoring the --provider flag.
func selectClient(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (*rpc.Client, error) {
	name, _ := cmd.Flags().GetString("provider")
	if name == "" {
		name, _ = cmd.Root().PersistentFlags().GetString("provider")
	}

	client, err := provider.Select(ctx, cfg, name)
	if err != nil {
		return nil, err
	}
	log.Debugf("using provider %s (%s)", client.Name(), client.URL())
	return client, nil
}
