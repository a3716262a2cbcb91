package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmagro/eth-gas-report/internal/gas"
	"github.com/dmagro/eth-gas-report/internal/rpc"
)

// TxReportLines builds the human-readable gas report as an ordered list of
// lines. Pure with respect to its inputs, so a fixed summary always yields the
// same text (colors aside).
func TxReportLines(s *gas.Summary, net *gas.NetworkInfo) []string {
	lines := []string{
		fmt.Sprintf("Network: %s (chainId %d)", s.Network, s.ChainID),
		fmt.Sprintf("Transaction: %s", s.Tx.Hash),
	}

	if link := rpc.ExplorerTxURL(s.ChainID, s.Tx.Hash); link != "" {
		lines = append(lines, fmt.Sprintf("Etherscan: %s", link))
	}

	to := s.Tx.To
	if to == "" {
		to = "(contract creation)"
	}
	lines = append(lines,
		fmt.Sprintf("From: %s", s.Tx.From),
		fmt.Sprintf("To: %s", to),
	)

	if s.Receipt.Success {
		lines = append(lines, fmt.Sprintf("Status: %s", green("Success")))
	} else {
		lines = append(lines, fmt.Sprintf("Status: %s", red("Failed")))
	}

	lines = append(lines,
		fmt.Sprintf("Type: %s", s.Tx.TypeLabel()),
		fmt.Sprintf("Block: %s (%s UTC)", rpc.FormatNumber(s.Receipt.BlockNumber), rpc.FormatUTC(s.TxBlock.Timestamp)),
		fmt.Sprintf("Confirmations: %s", rpc.FormatNumber(s.Confirmations)),
		fmt.Sprintf("Gas Used: %s", rpc.FormatNumber(s.Receipt.GasUsed)),
	)

	if s.HasEfficiency {
		lines = append(lines, fmt.Sprintf("Gas Efficiency: %.2f%% of gas limit used", s.GasEfficiency))
	} else {
		lines = append(lines, "Gas Efficiency: N/A (gas limit unavailable)")
	}

	lines = append(lines,
		fmt.Sprintf("Gas Price: %s (base fee at block: %s, tip: %s)",
			rpc.FormatGwei(s.Receipt.EffectiveGasPrice),
			rpc.FormatGwei(s.TxBlock.BaseFeePerGas),
			rpc.FormatGwei(s.TipWei)),
		fmt.Sprintf("Total Fee: %.6f ETH", rpc.WeiToEth(s.TotalFeeWei)),
	)

	if s.HighFee {
		lines = append(lines, yellow(fmt.Sprintf(
			"High Fee Warning: %.4f ETH exceeds threshold %.4f ETH",
			rpc.WeiToEth(s.TotalFeeWei), s.FeeWarnEth)))
	}

	if net != nil {
		lines = append(lines,
			"",
			bold("Network Gas Info:"),
			fmt.Sprintf("Current Block: %s", rpc.FormatNumber(net.Latest.Number)),
			fmt.Sprintf("Block Time: %s UTC", rpc.FormatUTC(net.Latest.Timestamp)),
			fmt.Sprintf("Base Fee: %s", rpc.FormatGwei(net.Latest.BaseFeePerGas)),
			fmt.Sprintf("Suggested Gas Price: %s", rpc.FormatGwei(net.GasPrice)),
		)
	}

	return lines
}

// RenderTxTerminal prints the full human-readable report plus elapsed time.
func RenderTxTerminal(s *gas.Summary, net *gas.NetworkInfo, elapsed time.Duration) {
	for _, line := range TxReportLines(s, net) {
		fmt.Println(line)
	}
	fmt.Printf("\nElapsed: %.2fs\n", elapsed.Seconds())
}

// TxMinimalLines builds the three-line minimal report: status, fee, elapsed.
func TxMinimalLines(s *gas.Summary, elapsed time.Duration) []string {
	status := "success"
	if !s.Receipt.Success {
		status = "failed"
	}
	return []string{
		fmt.Sprintf("Status: %s", status),
		fmt.Sprintf("Total Fee: %.6f ETH", rpc.WeiToEth(s.TotalFeeWei)),
		fmt.Sprintf("Elapsed: %.2fs", elapsed.Seconds()),
	}
}

// RenderTxMinimal prints the minimal report.
func RenderTxMinimal(s *gas.Summary, elapsed time.Duration) {
	for _, line := range TxMinimalLines(s, elapsed) {
		fmt.Println(line)
	}
}

// txJSON is the stable JSON shape for a single-transaction report.
type txJSON struct {
	ChainID          uint64   `json:"chainId"`
	Network          string   `json:"network"`
	TxHash           string   `json:"txHash"`
	From             string   `json:"from"`
	To               string   `json:"to"`
	Status           int      `json:"status"`
	TxType           string   `json:"txType"`
	BlockNumber      uint64   `json:"blockNumber"`
	Timestamp        uint64   `json:"timestamp"`
	Confirmations    uint64   `json:"confirmations"`
	GasUsed          uint64   `json:"gasUsed"`
	GasLimit         uint64   `json:"gasLimit"`
	GasEfficiencyPct *float64 `json:"gasEfficiencyPct"`
	GasPriceGwei     float64  `json:"gasPriceGwei"`
	BaseFeeAtTxGwei  float64  `json:"baseFeeAtTxGwei"`
	TipAtTxGwei      float64  `json:"tipAtTxGwei"`
	TotalFeeEth      float64  `json:"totalFeeEth"`
	HighFee          bool     `json:"highFee"`
	Miner            string   `json:"miner,omitempty"`
}

// RenderTxJSON prints the report as a single JSON object on stdout.
func RenderTxJSON(s *gas.Summary) error {
	status := 0
	if s.Receipt.Success {
		status = 1
	}

	var gasEff *float64
	if s.HasEfficiency {
		v := s.GasEfficiency
		gasEff = &v
	}

	out := txJSON{
		ChainID:          s.ChainID,
		Network:          s.Network,
		TxHash:           s.Tx.Hash,
		From:             s.Tx.From,
		To:               s.Tx.To,
		Status:           status,
		TxType:           s.Tx.TypeLabel(),
		BlockNumber:      s.Receipt.BlockNumber,
		Timestamp:        s.TxBlock.Timestamp,
		Confirmations:    s.Confirmations,
		GasUsed:          s.Receipt.GasUsed,
		GasLimit:         s.Tx.GasLimit,
		GasEfficiencyPct: gasEff,
		GasPriceGwei:     rpc.WeiToGwei(s.Receipt.EffectiveGasPrice),
		BaseFeeAtTxGwei:  rpc.WeiToGwei(s.TxBlock.BaseFeePerGas),
		TipAtTxGwei:      rpc.WeiToGwei(s.TipWei),
		TotalFeeEth:      rpc.WeiToEth(s.TotalFeeWei),
		HighFee:          s.HighFee,
		Miner:            s.TxBlock.Miner,
	}

	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(out)
}
