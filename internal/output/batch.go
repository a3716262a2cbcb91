package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/dmagro/eth-gas-report/internal/batch"
	"github.com/dmagro/eth-gas-report/internal/rpc"
)

// RenderBatchTerminal prints a compact per-transaction table.
func RenderBatchTerminal(rows []batch.Row) {
	if len(rows) == 0 {
		fmt.Println(yellow("No rows to display."))
		return
	}

	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	tbl := table.New("Tx", "Status", "Block", "Gas Used", "Eff Price", "Fee (ETH)", "Conf")
	tbl.WithHeaderFormatter(headerFmt)

	for i := range rows {
		r := &rows[i]
		if r.Pending() {
			tbl.AddRow(rpc.TruncateHash(r.TxHash), yellow("pending"), "—", "—", "—", "—", "—")
			continue
		}

		status := green("ok")
		if r.Status != 1 {
			status = red("failed")
		}

		fee := fmt.Sprintf("%.6f", r.TotalFeeEth)
		if r.HighFee {
			fee = yellow(fee + " !")
		}

		tbl.AddRow(
			rpc.TruncateHash(r.TxHash),
			status,
			rpc.FormatNumber(r.BlockNumber),
			rpc.FormatNumber(r.GasUsed),
			fmt.Sprintf("%.2f gwei", r.EffPriceGwei),
			fee,
			r.Confirmations,
		)
	}

	tbl.Print()
	fmt.Println()
}

// RenderBatchJSON prints the batch report envelope as indented JSON.
func RenderBatchJSON(report *batch.Report) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
