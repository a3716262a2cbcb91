package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-gas-report/internal/latency"
	"github.com/dmagro/eth-gas-report/internal/output"
	"github.com/dmagro/eth-gas-report/internal/report"
)

func latencyCmd() *cobra.Command {
	var (
		threshold time.Duration
		logPath   string
		watch     bool
		interval  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "latency",
		Short: "Check RPC endpoint latency and sync state",
		Long: `Probe every configured provider with eth_blockNumber, classify
responsiveness against a latency threshold (OK within the threshold,
SLOW within twice, VERY_SLOW beyond), and show how far each provider
lags behind the highest observed block.

With --watch the probes repeat on an interval until Ctrl-C; the session
summary and a JSON report are written on exit.

Examples:
  gasreport latency
  gasreport latency --threshold 150ms --log latency.csv
  gasreport latency --watch --interval 10s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLatency(cmd, threshold, logPath, watch, interval)
		},
	}

	cmd.Flags().DurationVar(&threshold, "threshold", 200*time.Millisecond, "Latency threshold for the OK/SLOW scale")
	cmd.Flags().StringVar(&logPath, "log", "", "Append probe rows to this CSV file")
	cmd.Flags().BoolVar(&watch, "watch", false, "Repeat probes until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Watch refresh interval (0 = config default)")

	return cmd
}

func runLatency(cmd *cobra.Command, threshold time.Duration, logPath string, watch bool, interval time.Duration) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	runOnce := func(ctx context.Context) []latency.Probe {
		probes := latency.ProbeAll(ctx, cfg, threshold)
		output.RenderLatencyTerminal(probes, threshold)
		if logPath != "" {
			if err := latency.AppendCSV(logPath, probes); err != nil {
				log.Warnf("failed to append latency log: %v", err)
			}
		}
		return probes
	}

	if !watch {
		probes := runOnce(cmd.Context())
		for _, p := range probes {
			if p.Err != nil {
				return fmt.Errorf("provider %s unreachable: %w", p.Provider, p.Err)
			}
		}
		return nil
	}

	if interval <= 0 {
		interval = cfg.Defaults.WatchInterval
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	collector := latency.NewCollector()
	rounds := 0
	var highest uint64

	collect := func(probes []latency.Probe) {
		rounds++
		for _, p := range probes {
			collector.Add(p)
		}
		if h := latency.HighestBlock(probes); h > highest {
			highest = h
		}
	}

	output.RenderLatencyWatchHeader(interval)
	collect(runOnce(ctx))

	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			aggs := collector.Aggregates()
			output.RenderLatencySessionSummary(aggs)

			session := buildSession(interval, rounds, highest, aggs)
			path, err := report.WriteJSON(session, "latency")
			if err != nil {
				log.Warnf("failed to write session report: %v", err)
			} else {
				fmt.Printf("Session report written to %s\n", path)
			}
			return nil

		case <-ticker.C:
			if ctx.Err() != nil {
				continue
			}
			output.ClearScreen()
			output.RenderLatencyWatchHeader(interval)
			collect(runOnce(ctx))
		}
	}
}

func buildSession(interval time.Duration, rounds int, highest uint64, aggs []*latency.ProviderAggregate) *report.Session {
	s := &report.Session{
		Timestamp:    time.Now(),
		Interval:     interval.String(),
		Rounds:       rounds,
		HighestBlock: highest,
	}
	for _, a := range aggs {
		tail := a.Tail()
		s.Results = append(s.Results, report.ProviderEntry{
			Provider:     a.Provider,
			Samples:      a.Samples,
			Failures:     a.Failures,
			SuccessRate:  a.SuccessRate(),
			BlockHeight:  a.LastHeight,
			P50LatencyMS: report.MillisDuration(tail.P50),
			P95LatencyMS: report.MillisDuration(tail.P95),
			P99LatencyMS: report.MillisDuration(tail.P99),
			MaxLatencyMS: report.MillisDuration(tail.Max),
			Timeouts:     a.Timeouts,
			Connections:  a.Connections,
			RateLimits:   a.RateLimits,
			ServerErrors: a.ServerErrors,
			ParseErrors:  a.ParseErrors,
			OtherErrors:  a.OtherErrors,
		})
	}
	return s
}
