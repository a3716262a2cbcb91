// Package profile samples recent blocks and computes fee percentiles:
// base fee, effective gas price, and approximate priority tip in gwei.
package profile

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmagro/eth-gas-report/internal/rpc"
	"github.com/dmagro/eth-gas-report/internal/stats"
)

// MaxBlockSpan caps the scan range to avoid excessive RPC load.
const MaxBlockSpan = 5000

// fetchConcurrency bounds parallel eth_getBlockByNumber calls so public
// endpoints don't rate-limit the scan.
const fetchConcurrency = 8

// Options controls a profiling run.
type Options struct {
	Blocks int    // how many recent blocks the span covers
	Step   int    // sample every Nth block
	Head   uint64 // head override; 0 means use the chain tip
}

// Distribution summarizes one fee series in gwei.
type Distribution struct {
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Result is the outcome of one profiling run.
type Result struct {
	ChainID         uint64       `json:"chainId"`
	Network         string       `json:"network"`
	Head            uint64       `json:"head"`
	BlockSpan       int          `json:"blockSpan"`
	Step            int          `json:"step"`
	SampledBlocks   int          `json:"sampledBlocks"`
	AvgBlockTimeSec float64      `json:"avgBlockTimeSec"`
	ElapsedSec      float64      `json:"timingSec"`
	BaseFeeGwei     Distribution `json:"baseFeeGwei"`
	EffPriceGwei    Distribution `json:"effectivePriceGwei"`
	TipGwei         Distribution `json:"tipGweiApprox"`
	ZeroTipCount    int          `json:"zeroTipCount"`
}

// ZeroTipShare returns the percentage of sampled transactions with a zero tip.
func (r *Result) ZeroTipShare() float64 {
	if r.TipGwei.Count == 0 {
		return 0
	}
	return float64(r.ZeroTipCount) / float64(r.TipGwei.Count) * 100
}

type blockSample struct {
	number      uint64
	timestamp   uint64
	baseFeeGwei float64
	effGwei     []float64
	tipGwei     []float64
}

// Run scans the configured span, fetching every Step-th block with full
// transactions concurrently, and aggregates fee distributions.
func Run(ctx context.Context, client *rpc.Client, chainID uint64, opts Options) (*Result, error) {
	if opts.Blocks <= 0 || opts.Step <= 0 {
		return nil, fmt.Errorf("blocks and step must be > 0")
	}
	if opts.Blocks > MaxBlockSpan {
		opts.Blocks = MaxBlockSpan
	}

	head := opts.Head
	if head == 0 {
		h, result := client.BlockNumber(ctx)
		if !result.Success {
			return nil, fmt.Errorf("failed to fetch chain head: %w", result.Error)
		}
		head = h
	}

	start := uint64(0)
	if head >= uint64(opts.Blocks) {
		start = head - uint64(opts.Blocks) + 1
	}

	var targets []uint64
	for n := head; n >= start; n -= uint64(opts.Step) {
		targets = append(targets, n)
		if n < uint64(opts.Step) {
			break // avoid uint64 wraparound
		}
	}

	t0 := time.Now()
	samples := make([]blockSample, 0, len(targets))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for _, n := range targets {
		n := n
		g.Go(func() error {
			block, result := client.GetBlockWithTransactions(gctx, rpc.Uint64ToHex(n))
			if !result.Success {
				return fmt.Errorf("failed to fetch block %d: %w", n, result.Error)
			}
			if block == nil {
				return nil // pruned or unknown block; skip
			}

			s := sampleBlock(block)
			mu.Lock()
			samples = append(samples, s)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i].number < samples[j].number })

	res := &Result{
		ChainID:       chainID,
		Network:       rpc.NetworkName(chainID),
		Head:          head,
		BlockSpan:     opts.Blocks,
		Step:          opts.Step,
		SampledBlocks: len(samples),
		ElapsedSec:    time.Since(t0).Seconds(),
	}

	var baseFees, effPrices, tips []float64
	for _, s := range samples {
		baseFees = append(baseFees, s.baseFeeGwei)
		effPrices = append(effPrices, s.effGwei...)
		tips = append(tips, s.tipGwei...)
	}
	for _, t := range tips {
		if t == 0 {
			res.ZeroTipCount++
		}
	}

	res.BaseFeeGwei = distribution(baseFees)
	res.EffPriceGwei = distribution(effPrices)
	res.TipGwei = distribution(tips)

	// Average block time from the first and last sampled blocks.
	if len(samples) >= 2 {
		first, last := samples[0], samples[len(samples)-1]
		if last.number > first.number && last.timestamp > first.timestamp {
			res.AvgBlockTimeSec = float64(last.timestamp-first.timestamp) / float64(last.number-first.number)
		}
	}

	return res, nil
}

// sampleBlock extracts per-transaction effective prices and tips, in gwei.
//
// Approximation:
//   - EIP-1559: effective ≈ min(maxFeePerGas, baseFee + maxPriorityFeePerGas);
//     tip ≈ maxPriorityFeePerGas
//   - Legacy: effective = gasPrice; tip ≈ max(0, gasPrice − baseFee)
func sampleBlock(block *rpc.BlockWithTxs) blockSample {
	number, _ := rpc.ParseHexUint64(block.Number)
	ts, _ := rpc.ParseHexUint64(block.Timestamp)

	baseFee := big.NewInt(0)
	if block.BaseFeePerGas != "" {
		baseFee, _ = rpc.ParseHexBigInt(block.BaseFeePerGas)
	}

	s := blockSample{
		number:      number,
		timestamp:   ts,
		baseFeeGwei: rpc.WeiToGwei(baseFee),
	}

	for i := range block.Transactions {
		tx := block.Transactions[i].Parsed()
		if tx.Type == 2 && tx.MaxFeePerGas != nil {
			maxPriority := tx.MaxPriorityFeePerGas
			if maxPriority == nil {
				maxPriority = big.NewInt(0)
			}
			effective := new(big.Int).Add(baseFee, maxPriority)
			if effective.Cmp(tx.MaxFeePerGas) > 0 {
				effective = tx.MaxFeePerGas
			}
			s.effGwei = append(s.effGwei, rpc.WeiToGwei(effective))
			s.tipGwei = append(s.tipGwei, rpc.WeiToGwei(maxPriority))
		} else {
			gasPrice := tx.GasPrice
			if gasPrice == nil {
				gasPrice = big.NewInt(0)
			}
			s.effGwei = append(s.effGwei, rpc.WeiToGwei(gasPrice))

			tip := new(big.Int).Sub(gasPrice, baseFee)
			if tip.Sign() < 0 {
				tip = big.NewInt(0)
			}
			s.tipGwei = append(s.tipGwei, rpc.WeiToGwei(tip))
		}
	}

	return s
}

func distribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	min, max := stats.MinMax(values)
	return Distribution{
		P50:   round3(stats.Median(values)),
		P95:   round3(stats.FloatPercentile(values, 0.95)),
		Min:   round3(min),
		Max:   round3(max),
		Count: len(values),
	}
}

func round3(f float64) float64 {
	return float64(int64(f*1000+0.5)) / 1000
}
