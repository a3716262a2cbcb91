package rpc

import (
	"math/big"
	"testing"
)

func TestBlockParsed(t *testing.T) {
	b := Block{
		Number:        "0x172721e",
		Hash:          "0xaaa",
		Timestamp:     "0x65539a60",
		GasUsed:       "0xfae1",
		GasLimit:      "0x1c9c380",
		BaseFeePerGas: "0x2540be400", // 10 gwei
		Miner:         "0xminer",
		Transactions:  []string{"0x1", "0x2"},
	}

	p := b.Parsed()
	if p.Number != 24277534 {
		t.Errorf("Number = %d", p.Number)
	}
	if p.GasUsed != 64225 {
		t.Errorf("GasUsed = %d", p.GasUsed)
	}
	if p.BaseFeePerGas.Cmp(big.NewInt(10_000_000_000)) != 0 {
		t.Errorf("BaseFeePerGas = %s", p.BaseFeePerGas)
	}
	if p.TxCount != 2 {
		t.Errorf("TxCount = %d", p.TxCount)
	}
}

func TestBlockParsedNoBaseFee(t *testing.T) {
	b := Block{Number: "0x1", Timestamp: "0x1", GasUsed: "0x0", GasLimit: "0x0"}
	if p := b.Parsed(); p.BaseFeePerGas != nil {
		t.Errorf("pre-London block should have nil base fee, got %s", p.BaseFeePerGas)
	}
}

func TestTransactionParsed(t *testing.T) {
	tx := Transaction{
		Hash:                 "0xdead",
		From:                 "0xfrom",
		To:                   "0xto",
		Nonce:                "0x2a",
		Value:                "0xde0b6b3a7640000",
		Gas:                  "0x186a0",
		MaxFeePerGas:         "0x6fc23ac00",
		MaxPriorityFeePerGas: "0x77359400",
		Type:                 "0x2",
		BlockNumber:          "0x10",
	}

	p := tx.Parsed()
	if p.Nonce != 42 {
		t.Errorf("Nonce = %d", p.Nonce)
	}
	if p.GasLimit != 100000 {
		t.Errorf("GasLimit = %d", p.GasLimit)
	}
	if p.Type != 2 || p.TypeLabel() != "EIP-1559" {
		t.Errorf("Type = %d, label = %s", p.Type, p.TypeLabel())
	}
	if p.Pending {
		t.Error("included transaction should not be pending")
	}
	if p.GasPrice != nil {
		t.Error("typed transaction without gasPrice should parse to nil")
	}
}

func TestTransactionParsedPending(t *testing.T) {
	tx := Transaction{Hash: "0x1", Gas: "0x5208", Type: "0x0"}
	p := tx.Parsed()
	if !p.Pending {
		t.Error("transaction without blockNumber should be pending")
	}
	if p.TypeLabel() != "Legacy" {
		t.Errorf("TypeLabel = %s", p.TypeLabel())
	}
}

func TestTypeLabels(t *testing.T) {
	labels := map[uint64]string{
		0:  "Legacy",
		1:  "AccessList",
		2:  "EIP-1559",
		3:  "Blob",
		99: "Unknown",
	}
	for typ, want := range labels {
		p := ParsedTransaction{Type: typ}
		if got := p.TypeLabel(); got != want {
			t.Errorf("TypeLabel(%d) = %q, want %q", typ, got, want)
		}
	}
}

func TestReceiptParsed(t *testing.T) {
	r := Receipt{
		TransactionHash:   "0xdead",
		Status:            "0x1",
		GasUsed:           "0xfae7",
		CumulativeGasUsed: "0x30000",
		EffectiveGasPrice: "0x37e11d600", // 15 gwei
		BlockNumber:       "0x11a4b20",
	}

	p := r.Parsed()
	if !p.Success {
		t.Error("status 0x1 should parse as success")
	}
	if p.GasUsed != 64231 {
		t.Errorf("GasUsed = %d", p.GasUsed)
	}
	if p.EffectiveGasPrice.Cmp(big.NewInt(15_000_000_000)) != 0 {
		t.Errorf("EffectiveGasPrice = %s", p.EffectiveGasPrice)
	}
}

func TestReceiptParsedFailedAndLegacy(t *testing.T) {
	r := Receipt{Status: "0x0", GasUsed: "0x5208", BlockNumber: "0x1"}
	p := r.Parsed()
	if p.Success {
		t.Error("status 0x0 should parse as failure")
	}
	if p.EffectiveGasPrice != nil {
		t.Error("missing effectiveGasPrice should parse to nil")
	}
}
