package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/dmagro/eth-gas-report/internal/profile"
	"github.com/dmagro/eth-gas-report/internal/rpc"
)

// RenderProfileTerminal prints fee distributions for a profiling run.
func RenderProfileTerminal(r *profile.Result) {
	fmt.Println(bold(fmt.Sprintf("Fee Profile — %s (chainId %d)", r.Network, r.ChainID)))
	fmt.Printf("  Head Block: %s\n", cyan(rpc.FormatNumber(r.Head)))
	fmt.Printf("  Span: %d blocks, every %d-th sampled (%d blocks fetched)\n", r.BlockSpan, r.Step, r.SampledBlocks)
	if r.AvgBlockTimeSec > 0 {
		fmt.Printf("  Avg Block Time: %.1fs\n", r.AvgBlockTimeSec)
	}
	fmt.Println()

	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	tbl := table.New("Series", "p50", "p95", "Min", "Max", "Samples")
	tbl.WithHeaderFormatter(headerFmt)

	addRow := func(name string, d profile.Distribution) {
		tbl.AddRow(name,
			fmt.Sprintf("%.3f", d.P50),
			fmt.Sprintf("%.3f", d.P95),
			fmt.Sprintf("%.3f", d.Min),
			fmt.Sprintf("%.3f", d.Max),
			d.Count,
		)
	}
	addRow("Base Fee (gwei)", r.BaseFeeGwei)
	addRow("Effective Price (gwei)", r.EffPriceGwei)
	addRow("Tip (gwei, approx)", r.TipGwei)

	tbl.Print()
	fmt.Println()

	if r.TipGwei.Count > 0 {
		fmt.Printf("  Zero-tip transactions: %d of %d (%.1f%%)\n",
			r.ZeroTipCount, r.TipGwei.Count, r.ZeroTipShare())
	}
	fmt.Printf("  Scan time: %.2fs\n\n", r.ElapsedSec)
}

// RenderProfileJSON prints the profiling result as indented JSON.
func RenderProfileJSON(r *profile.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
