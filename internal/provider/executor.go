// Package provider contains concurrency helpers for running operations across
// providers.
//
// Commands frequently need to fan out the same RPC call across all configured
// providers, collect per-provider results, and continue even if some providers
// fail. This package centralizes that pattern.
package provider

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dmagro/eth-gas-report/internal/config"
	"github.com/dmagro/eth-gas-report/internal/rpc"
)

// Result wraps a per-provider response with metadata.
type Result[T any] struct {
	ProviderName string
	Index        int
	Value        T
	Err          error
}

// ExecuteAll runs fn concurrently for each provider and collects results in
// provider order (by index), not completion order.
//
// The helper does not fail-fast; it always attempts all providers and records
// per-provider errors in the corresponding Result. Context cancellation still
// short-circuits work inside fn via the group context.
func ExecuteAll[T any](
	ctx context.Context,
	cfg *config.Config,
	fn func(ctx context.Context, client *rpc.Client, p config.Provider) (T, error),
) []Result[T] {
	results := make([]Result[T], len(cfg.Providers))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range cfg.Providers {
		i, p := i, p // capture loop vars
		g.Go(func() error {
			client := NewClientFor(cfg, p)
			val, err := fn(gctx, client, p)
			mu.Lock()
			results[i] = Result[T]{
				ProviderName: p.Name,
				Index:        i,
				Value:        val,
				Err:          err,
			}
			mu.Unlock()
			return nil // don't fail-fast; collect all results
		})
	}

	_ = g.Wait()
	return results
}

// NewClientFor builds an rpc.Client for a provider using the config defaults.
func NewClientFor(cfg *config.Config, p config.Provider) *rpc.Client {
	return rpc.NewClient(rpc.ClientConfig{
		Name:           p.Name,
		URL:            p.URL,
		Timeout:        p.Timeout,
		MaxRetries:     cfg.Defaults.MaxRetries,
		BackoffInitial: cfg.Defaults.BackoffInitial,
		BackoffMax:     cfg.Defaults.BackoffMax,
	})
}
