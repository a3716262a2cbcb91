// Package gas computes transaction fees and assembles per-transaction gas
// summaries. All wei arithmetic stays in *big.Int; floats appear only at the
// display boundary.
package gas

import (
	"math/big"

	"github.com/dmagro/eth-gas-report/internal/rpc"
)

var weiPerEth = new(big.Float).SetFloat64(1e18)

// TotalFeeWei returns gasUsed × effectiveGasPrice in wei.
// A nil price (legacy clients without effectiveGasPrice) counts as zero.
func TotalFeeWei(gasUsed uint64, effectiveGasPrice *big.Int) *big.Int {
	if effectiveGasPrice == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(gasUsed), effectiveGasPrice)
}

// EthToWei converts an ETH amount to wei, truncating sub-wei precision.
func EthToWei(eth float64) *big.Int {
	wei := new(big.Float).Mul(new(big.Float).SetFloat64(eth), weiPerEth)
	out, _ := wei.Int(nil)
	return out
}

// IsHighFee reports whether feeWei strictly exceeds the threshold in ETH.
// A fee exactly at the threshold is not flagged. A zero or negative threshold
// disables the check.
func IsHighFee(feeWei *big.Int, thresholdEth float64) bool {
	if thresholdEth <= 0 || feeWei == nil {
		return false
	}
	return feeWei.Cmp(EthToWei(thresholdEth)) > 0
}

// Efficiency returns gasUsed/gasLimit as a percentage. The second return is
// false when the gas limit is unknown (zero).
func Efficiency(gasUsed, gasLimit uint64) (float64, bool) {
	if gasLimit == 0 {
		return 0, false
	}
	return float64(gasUsed) / float64(gasLimit) * 100, true
}

// Tip returns the priority fee portion of the effective price:
// max(0, effectiveGasPrice − baseFee). Either argument may be nil.
func Tip(effectiveGasPrice, baseFee *big.Int) *big.Int {
	if effectiveGasPrice == nil {
		return big.NewInt(0)
	}
	if baseFee == nil {
		return new(big.Int).Set(effectiveGasPrice)
	}
	tip := new(big.Int).Sub(effectiveGasPrice, baseFee)
	if tip.Sign() < 0 {
		return big.NewInt(0)
	}
	return tip
}

// Confirmations returns how many blocks have been produced on top of the
// transaction's block, clamped at zero when the latest height lags behind.
func Confirmations(latest, txBlock uint64) uint64 {
	if latest <= txBlock {
		return 0
	}
	return latest - txBlock
}

// Summary is the ephemeral gas report for one transaction: all fetched
// records joined with the computed fee. Built once per invocation, never
// persisted.
type Summary struct {
	ChainID uint64
	Network string

	Tx      rpc.ParsedTransaction
	Receipt rpc.ParsedReceipt
	TxBlock rpc.ParsedBlock // block the transaction was included in

	Confirmations uint64
	GasEfficiency float64 // percent of gas limit used
	HasEfficiency bool

	TotalFeeWei *big.Int
	TipWei      *big.Int // effective price minus base fee at the tx block
	HighFee     bool
	FeeWarnEth  float64 // threshold the HighFee flag was computed against
}

// NewSummary assembles a Summary from parsed RPC records.
// latestHeight is the current chain head, used for confirmations.
func NewSummary(chainID uint64, tx rpc.ParsedTransaction, receipt rpc.ParsedReceipt, txBlock rpc.ParsedBlock, latestHeight uint64, warnFeeEth float64) *Summary {
	s := &Summary{
		ChainID:       chainID,
		Network:       rpc.NetworkName(chainID),
		Tx:            tx,
		Receipt:       receipt,
		TxBlock:       txBlock,
		Confirmations: Confirmations(latestHeight, receipt.BlockNumber),
		TotalFeeWei:   TotalFeeWei(receipt.GasUsed, receipt.EffectiveGasPrice),
		TipWei:        Tip(receipt.EffectiveGasPrice, txBlock.BaseFeePerGas),
		FeeWarnEth:    warnFeeEth,
	}

	s.GasEfficiency, s.HasEfficiency = Efficiency(receipt.GasUsed, tx.GasLimit)
	s.HighFee = IsHighFee(s.TotalFeeWei, warnFeeEth)
	return s
}

// NetworkInfo holds chain-wide gas metrics from the latest block, displayed
// alongside the per-transaction report.
type NetworkInfo struct {
	Latest   rpc.ParsedBlock
	GasPrice *big.Int // node-suggested gas price in wei
}
