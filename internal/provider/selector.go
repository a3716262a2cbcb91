package provider

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dmagro/eth-gas-report/internal/config"
	"github.com/dmagro/eth-gas-report/internal/rpc"
)

// probe holds one provider's health sample used for selection.
type probe struct {
	Name    string
	Latency time.Duration
	Height  uint64
	Err     error
}

// Select returns a client for the named provider, or auto-selects one when
// name is empty. With a single provider configured there is nothing to probe.
// With several, each provider's eth_blockNumber is sampled once concurrently
// and the fastest healthy one wins; providers more than 5 blocks behind the
// highest observed head are skipped.
func Select(ctx context.Context, cfg *config.Config, name string) (*rpc.Client, error) {
	if name != "" {
		for _, p := range cfg.Providers {
			if p.Name == name {
				return NewClientFor(cfg, p), nil
			}
		}
		return nil, fmt.Errorf("provider %q not found in config", name)
	}

	if len(cfg.Providers) == 1 {
		return NewClientFor(cfg, cfg.Providers[0]), nil
	}

	probes := ExecuteAll(ctx, cfg, func(ctx context.Context, client *rpc.Client, p config.Provider) (probe, error) {
		height, result := client.BlockNumber(ctx)
		return probe{Name: p.Name, Latency: result.Latency, Height: height, Err: result.Error}, nil
	})

	var maxHeight uint64
	for _, r := range probes {
		if r.Value.Err == nil && r.Value.Height > maxHeight {
			maxHeight = r.Value.Height
		}
	}

	healthy := make([]probe, 0, len(probes))
	for _, r := range probes {
		p := r.Value
		if p.Err != nil {
			continue
		}
		if maxHeight > p.Height && maxHeight-p.Height > 5 {
			continue // stale provider
		}
		healthy = append(healthy, p)
	}

	if len(healthy) == 0 {
		// Fall back to the first configured provider; the command will surface
		// the connection error with full context.
		return NewClientFor(cfg, cfg.Providers[0]), nil
	}

	sort.Slice(healthy, func(i, j int) bool { return healthy[i].Latency < healthy[j].Latency })

	for _, p := range cfg.Providers {
		if p.Name == healthy[0].Name {
			return NewClientFor(cfg, p), nil
		}
	}
	return NewClientFor(cfg, cfg.Providers[0]), nil
}
