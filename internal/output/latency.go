package output

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/dmagro/eth-gas-report/internal/latency"
	"github.com/dmagro/eth-gas-report/internal/rpc"
)

// RenderLatencyTerminal prints one round of endpoint probes.
func RenderLatencyTerminal(probes []latency.Probe, threshold time.Duration) {
	highest := latency.HighestBlock(probes)

	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	tbl := table.New("Provider", "Status", "Latency", "Block", "Behind")
	tbl.WithHeaderFormatter(headerFmt)

	for _, p := range probes {
		block := "—"
		behind := "—"
		if p.Err == nil {
			block = rpc.FormatNumber(p.BlockHeight)
			delta := highest - p.BlockHeight
			if delta == 0 {
				behind = green("0")
			} else {
				behind = yellow(fmt.Sprintf("%d", delta))
			}
		}
		tbl.AddRow(p.Provider, formatProbeStatus(p.Status), formatDuration(p.Latency), block, behind)
	}

	tbl.Print()
	fmt.Printf("  threshold: %s\n\n", threshold)
}

// RenderLatencyWatchHeader prints the refresh banner for watch mode.
func RenderLatencyWatchHeader(interval time.Duration) {
	now := time.Now().Format("15:04:05")
	fmt.Printf("%s RPC Latency Watch %s (refresh: %s) %s\n",
		cyan("╭─"), cyan("─────────────────"), interval, cyan(fmt.Sprintf("─ %s ─╮", now)))
}

// RenderLatencySessionSummary prints per-provider aggregates collected over a
// watch session: tail latency, success rate, and the error breakdown.
func RenderLatencySessionSummary(aggs []*latency.ProviderAggregate) {
	fmt.Println(bold("Session Summary"))

	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	tbl := table.New("Provider", "Samples", "p50", "p95", "p99", "Max", "Success")
	tbl.WithHeaderFormatter(headerFmt)

	for _, a := range aggs {
		tail := a.Tail()
		tbl.AddRow(
			a.Provider,
			a.Samples,
			formatDuration(tail.P50),
			formatDuration(tail.P95),
			formatDuration(tail.P99),
			formatDuration(tail.Max),
			formatSuccessRate(a.SuccessRate()),
		)
	}
	tbl.Print()
	fmt.Println()

	hasErrors := false
	for _, a := range aggs {
		if a.Failures > 0 {
			hasErrors = true
			break
		}
	}
	if !hasErrors {
		fmt.Println(green("No errors recorded during the session."))
		fmt.Println()
		return
	}

	fmt.Println(bold("Error Breakdown"))
	etbl := table.New("Provider", "Timeout", "Conn", "429", "5xx", "Parse", "Other")
	etbl.WithHeaderFormatter(headerFmt)
	for _, a := range aggs {
		etbl.AddRow(
			a.Provider,
			formatErrorCount(a.Timeouts),
			formatErrorCount(a.Connections),
			formatErrorCount(a.RateLimits),
			formatErrorCount(a.ServerErrors),
			formatErrorCount(a.ParseErrors),
			formatErrorCount(a.OtherErrors),
		)
	}
	etbl.Print()
	fmt.Println()
}

func formatProbeStatus(s latency.Status) string {
	switch s {
	case latency.StatusOK:
		return green("✓ OK")
	case latency.StatusSlow:
		return yellow("⚠ SLOW")
	case latency.StatusVerySlow:
		return yellow("⚠ VERY_SLOW")
	case latency.StatusDisconnected:
		return red("✗ DISCONNECTED")
	default:
		return "?"
	}
}
