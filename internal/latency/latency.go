// Package latency probes RPC endpoints, classifies their responsiveness, and
// aggregates samples collected over a watch session.
package latency

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/dmagro/eth-gas-report/internal/config"
	"github.com/dmagro/eth-gas-report/internal/provider"
	"github.com/dmagro/eth-gas-report/internal/rpc"
	"github.com/dmagro/eth-gas-report/internal/stats"
)

// Status classifies one endpoint probe against the latency threshold.
type Status string

const (
	StatusOK           Status = "OK"        // latency <= threshold
	StatusSlow         Status = "SLOW"      // latency <= 2x threshold
	StatusVerySlow     Status = "VERY_SLOW" // latency > 2x threshold
	StatusDisconnected Status = "DISCONNECTED"
)

// Probe is one endpoint measurement.
type Probe struct {
	Timestamp   time.Time
	Provider    string
	BlockHeight uint64
	Latency     time.Duration
	Status      Status
	Err         error
	ErrType     rpc.ErrorType
}

// Classify maps a latency onto the OK/SLOW/VERY_SLOW scale.
func Classify(latency, threshold time.Duration) Status {
	switch {
	case latency <= threshold:
		return StatusOK
	case latency <= 2*threshold:
		return StatusSlow
	default:
		return StatusVerySlow
	}
}

// ProbeAll measures eth_blockNumber on every configured provider concurrently.
func ProbeAll(ctx context.Context, cfg *config.Config, threshold time.Duration) []Probe {
	results := provider.ExecuteAll(ctx, cfg, func(ctx context.Context, client *rpc.Client, p config.Provider) (Probe, error) {
		height, result := client.BlockNumber(ctx)
		probe := Probe{
			Timestamp:   time.Now(),
			Provider:    p.Name,
			BlockHeight: height,
			Latency:     result.Latency,
		}
		if !result.Success {
			probe.Status = StatusDisconnected
			probe.Err = result.Error
			probe.ErrType = result.ErrorType
			return probe, nil
		}
		probe.Status = Classify(result.Latency, threshold)
		return probe, nil
	})

	probes := make([]Probe, len(results))
	for i, r := range results {
		probes[i] = r.Value
	}
	return probes
}

// HighestBlock returns the maximum observed block height across probes.
func HighestBlock(probes []Probe) uint64 {
	var max uint64
	for _, p := range probes {
		if p.Err == nil && p.BlockHeight > max {
			max = p.BlockHeight
		}
	}
	return max
}

// AppendCSV appends probe rows to a CSV log file, writing a header first when
// the file is new. Rows: timestamp, provider, block, latency_ms, status.
func AppendCSV(path string, probes []Probe) error {
	_, statErr := os.Stat(path)
	newFile := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open latency log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if newFile {
		if err := w.Write([]string{"timestamp", "provider", "block", "latency_ms", "status"}); err != nil {
			return err
		}
	}

	for _, p := range probes {
		block := ""
		if p.Err == nil {
			block = fmt.Sprintf("%d", p.BlockHeight)
		}
		row := []string{
			p.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			p.Provider,
			block,
			fmt.Sprintf("%d", p.Latency.Milliseconds()),
			string(p.Status),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// ProviderAggregate accumulates samples for one provider across watch cycles.
type ProviderAggregate struct {
	Provider   string
	Samples    int
	Failures   int
	Latencies  []time.Duration
	LastHeight uint64

	// Error breakdown
	Timeouts     int
	Connections  int
	RateLimits   int
	ServerErrors int
	ParseErrors  int
	OtherErrors  int
}

// Collector aggregates probes over a watch session.
type Collector struct {
	byProvider map[string]*ProviderAggregate
	order      []string
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{byProvider: make(map[string]*ProviderAggregate)}
}

// Add records one probe.
func (c *Collector) Add(p Probe) {
	agg := c.byProvider[p.Provider]
	if agg == nil {
		agg = &ProviderAggregate{Provider: p.Provider}
		c.byProvider[p.Provider] = agg
		c.order = append(c.order, p.Provider)
	}

	agg.Samples++
	if p.Err != nil {
		agg.Failures++
		switch p.ErrType {
		case rpc.ErrorTypeTimeout:
			agg.Timeouts++
		case rpc.ErrorTypeConnection:
			agg.Connections++
		case rpc.ErrorTypeRateLimit:
			agg.RateLimits++
		case rpc.ErrorTypeServerError:
			agg.ServerErrors++
		case rpc.ErrorTypeParseError:
			agg.ParseErrors++
		default:
			agg.OtherErrors++
		}
		return
	}

	agg.Latencies = append(agg.Latencies, p.Latency)
	if p.BlockHeight > agg.LastHeight {
		agg.LastHeight = p.BlockHeight
	}
}

// SuccessRate returns the percentage of successful samples.
func (a *ProviderAggregate) SuccessRate() float64 {
	if a.Samples == 0 {
		return 0
	}
	return float64(a.Samples-a.Failures) / float64(a.Samples) * 100
}

// Tail returns tail latency percentiles over the successful samples.
func (a *ProviderAggregate) Tail() stats.TailLatency {
	return stats.CalculateTailLatency(a.Latencies)
}

// Aggregates returns per-provider aggregates in first-seen order.
func (c *Collector) Aggregates() []*ProviderAggregate {
	out := make([]*ProviderAggregate, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.byProvider[name])
	}
	return out
}
