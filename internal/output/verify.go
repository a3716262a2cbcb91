package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/dmagro/eth-gas-report/internal/rpc"
	"github.com/dmagro/eth-gas-report/internal/verify"
)

// RenderVerifyTxTerminal prints a two-provider transaction comparison.
func RenderVerifyTxTerminal(a, b *verify.TxBundle, cmp map[string]bool) {
	fmt.Println(bold("Cross-Provider Transaction Check"))
	fmt.Printf("  Tx: %s\n", a.TxHash)
	fmt.Printf("  Providers: %s vs %s\n\n", cyan(a.Provider), cyan(b.Provider))

	if a.Pending || b.Pending {
		fmt.Println(yellow("  Transaction is pending or unknown on at least one provider; nothing to compare."))
		fmt.Println()
		return
	}

	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	tbl := table.New("Field", a.Provider, b.Provider, "Match")
	tbl.WithHeaderFormatter(headerFmt)

	values := func(bundle *verify.TxBundle) map[string]string {
		return map[string]string{
			"chainId":     fmt.Sprintf("%d", bundle.ChainID),
			"blockNumber": fmt.Sprintf("%d", bundle.BlockNumber),
			"status":      fmt.Sprintf("%d", bundle.Status),
			"gasUsed":     fmt.Sprintf("%d", bundle.GasUsed),
			"commitment":  rpc.TruncateHash(bundle.Commitment),
		}
	}
	av, bv := values(a), values(b)

	for _, key := range verify.TxCompareKeys {
		tbl.AddRow(key, av[key], bv[key], matchMark(cmp[key]))
	}
	tbl.Print()
	fmt.Println()

	renderVerdict(verify.AllMatch(cmp))
}

// RenderVerifyBlockTerminal prints a two-provider block header comparison.
func RenderVerifyBlockTerminal(a, b *verify.BlockBundle, cmp map[string]bool) {
	fmt.Println(bold("Cross-Provider Block Check"))
	fmt.Printf("  Block: %s\n", rpc.FormatNumber(a.Number))
	fmt.Printf("  Time: %s\n", rpc.FormatTimestamp(a.Timestamp))
	fmt.Printf("  Providers: %s vs %s\n\n", cyan(a.Provider), cyan(b.Provider))

	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	tbl := table.New("Field", a.Provider, b.Provider, "Match")
	tbl.WithHeaderFormatter(headerFmt)

	values := func(bundle *verify.BlockBundle) map[string]string {
		return map[string]string{
			"chainId":          fmt.Sprintf("%d", bundle.ChainID),
			"number":           fmt.Sprintf("%d", bundle.Number),
			"hash":             rpc.TruncateHash(bundle.Hash),
			"parentHash":       rpc.TruncateHash(bundle.ParentHash),
			"stateRoot":        rpc.TruncateHash(bundle.StateRoot),
			"receiptsRoot":     rpc.TruncateHash(bundle.ReceiptsRoot),
			"transactionsRoot": rpc.TruncateHash(bundle.TransactionsRoot),
			"timestamp":        fmt.Sprintf("%d", bundle.Timestamp),
			"commitment":       rpc.TruncateHash(bundle.Commitment),
		}
	}
	av, bv := values(a), values(b)

	for _, key := range verify.BlockCompareKeys {
		tbl.AddRow(key, av[key], bv[key], matchMark(cmp[key]))
	}
	tbl.Print()
	fmt.Println()

	renderVerdict(verify.AllMatch(cmp))
}

func matchMark(ok bool) string {
	if ok {
		return green("✓")
	}
	return red("✗")
}

func renderVerdict(allMatch bool) {
	if allMatch {
		fmt.Printf("%s Providers agree on all compared fields\n\n", green("✓"))
	} else {
		fmt.Printf("%s MISMATCH DETECTED between providers\n\n", red("✗"))
	}
}

// verifyJSON wraps both bundles plus the per-field comparison.
type verifyJSON struct {
	Match  bool            `json:"match"`
	Fields map[string]bool `json:"fields"`
	A      interface{}     `json:"a"`
	B      interface{}     `json:"b"`
}

// RenderVerifyJSON prints the comparison result as indented JSON.
func RenderVerifyJSON(a, b interface{}, cmp map[string]bool) error {
	out := verifyJSON{
		Match:  verify.AllMatch(cmp),
		Fields: cmp,
		A:      a,
		B:      b,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
