package gas

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmagro/eth-gas-report/internal/rpc"
)

func TestTotalFeeWei(t *testing.T) {
	// 64231 gas at 15 gwei
	effPrice := big.NewInt(15_000_000_000)
	fee := TotalFeeWei(64231, effPrice)

	want, ok := new(big.Int).SetString("963465000000000", 10)
	require.True(t, ok)
	assert.Zero(t, fee.Cmp(want), "fee = gasUsed × effectiveGasPrice exactly")
}

func TestTotalFeeWeiNilPrice(t *testing.T) {
	assert.Zero(t, TotalFeeWei(21000, nil).Sign())
}

func TestIsHighFee(t *testing.T) {
	threshold := 0.05
	thresholdWei := EthToWei(threshold)

	above := new(big.Int).Add(thresholdWei, big.NewInt(1))
	below := new(big.Int).Sub(thresholdWei, big.NewInt(1))

	assert.True(t, IsHighFee(above, threshold))
	assert.False(t, IsHighFee(below, threshold))
	// Boundary excluded: a fee exactly at the threshold is not flagged.
	assert.False(t, IsHighFee(thresholdWei, threshold))

	assert.False(t, IsHighFee(above, 0), "zero threshold disables the check")
	assert.False(t, IsHighFee(nil, threshold))
}

func TestEthToWei(t *testing.T) {
	want, _ := new(big.Int).SetString("50000000000000000", 10) // 0.05 ETH
	assert.Zero(t, EthToWei(0.05).Cmp(want))
}

func TestEfficiency(t *testing.T) {
	pct, ok := Efficiency(64231, 100000)
	require.True(t, ok)
	assert.InDelta(t, 64.231, pct, 1e-9)

	_, ok = Efficiency(21000, 0)
	assert.False(t, ok, "unknown gas limit")
}

func TestTip(t *testing.T) {
	eff := big.NewInt(15_000_000_000)
	base := big.NewInt(10_000_000_000)

	assert.Equal(t, int64(5_000_000_000), Tip(eff, base).Int64())
	assert.Zero(t, Tip(base, eff).Sign(), "tip never goes negative")
	assert.Equal(t, eff.Int64(), Tip(eff, nil).Int64(), "no base fee means the whole price")
	assert.Zero(t, Tip(nil, base).Sign())
}

func TestConfirmations(t *testing.T) {
	assert.Equal(t, uint64(24), Confirmations(124, 100))
	assert.Equal(t, uint64(0), Confirmations(100, 100))
	assert.Equal(t, uint64(0), Confirmations(99, 100), "clamped when head lags")
}

func TestNewSummary(t *testing.T) {
	tx := rpc.ParsedTransaction{
		Hash:     "0xdead",
		GasLimit: 100000,
		Type:     2,
	}
	receipt := rpc.ParsedReceipt{
		Success:           true,
		GasUsed:           64231,
		EffectiveGasPrice: big.NewInt(15_000_000_000),
		BlockNumber:       100,
	}
	block := rpc.ParsedBlock{
		Number:        100,
		Timestamp:     1700000000,
		BaseFeePerGas: big.NewInt(10_000_000_000),
	}

	s := NewSummary(1, tx, receipt, block, 124, 0.05)

	assert.Equal(t, "Ethereum Mainnet", s.Network)
	assert.Equal(t, uint64(24), s.Confirmations)
	assert.True(t, s.HasEfficiency)
	assert.InDelta(t, 64.231, s.GasEfficiency, 1e-9)
	assert.Equal(t, int64(5_000_000_000), s.TipWei.Int64())
	assert.False(t, s.HighFee, "0.00096 ETH is under the 0.05 threshold")

	want, _ := new(big.Int).SetString("963465000000000", 10)
	assert.Zero(t, s.TotalFeeWei.Cmp(want))
}
