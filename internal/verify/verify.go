package verify

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmagro/eth-gas-report/internal/rpc"
)

// TxBundle is the minimal comparable view of a transaction from one provider.
type TxBundle struct {
	Provider    string `json:"provider"`
	ChainID     uint64 `json:"chainId"`
	Network     string `json:"network"`
	TxHash      string `json:"tx"`
	BlockNumber uint64 `json:"blockNumber"`
	Status      uint64 `json:"status"`
	GasUsed     uint64 `json:"gasUsed"`
	Commitment  string `json:"commitment"`
	Pending     bool   `json:"pending,omitempty"`
}

// TxCompareKeys is the ordered field list compared between two TxBundles.
var TxCompareKeys = []string{"chainId", "blockNumber", "status", "gasUsed", "commitment"}

// FetchTxBundle fetches a comparable transaction bundle from one provider.
// A pending or unknown transaction returns a bundle with Pending set.
func FetchTxBundle(ctx context.Context, client *rpc.Client, txHash string) (*TxBundle, error) {
	chainID, result := client.ChainID(ctx)
	if !result.Success {
		return nil, fmt.Errorf("%s: %w", client.Name(), result.Error)
	}

	receipt, result := client.GetTransactionReceipt(ctx, txHash)
	if !result.Success {
		return nil, fmt.Errorf("%s: %w", client.Name(), result.Error)
	}
	if receipt == nil {
		return &TxBundle{Provider: client.Name(), ChainID: chainID, Network: rpc.NetworkName(chainID), TxHash: txHash, Pending: true}, nil
	}

	parsed := receipt.Parsed()
	status := uint64(0)
	if parsed.Success {
		status = 1
	}

	return &TxBundle{
		Provider:    client.Name(),
		ChainID:     chainID,
		Network:     rpc.NetworkName(chainID),
		TxHash:      txHash,
		BlockNumber: parsed.BlockNumber,
		Status:      status,
		GasUsed:     parsed.GasUsed,
		Commitment:  TxCommitment(chainID, txHash, parsed.BlockNumber, parsed.Success, parsed.GasUsed),
	}, nil
}

// CompareTx returns per-key equality between two transaction bundles.
func CompareTx(a, b *TxBundle) map[string]bool {
	return map[string]bool{
		"chainId":     a.ChainID == b.ChainID,
		"blockNumber": a.BlockNumber == b.BlockNumber,
		"status":      a.Status == b.Status,
		"gasUsed":     a.GasUsed == b.GasUsed,
		"commitment":  a.Commitment == b.Commitment,
	}
}

// BlockBundle is the minimal comparable view of a block header.
type BlockBundle struct {
	Provider         string `json:"provider"`
	ChainID          uint64 `json:"chainId"`
	Network          string `json:"network"`
	Number           uint64 `json:"number"`
	Hash             string `json:"hash"`
	ParentHash       string `json:"parentHash"`
	StateRoot        string `json:"stateRoot"`
	ReceiptsRoot     string `json:"receiptsRoot"`
	TransactionsRoot string `json:"transactionsRoot"`
	Timestamp        uint64 `json:"timestamp"`
	Commitment       string `json:"commitment"`
}

// BlockCompareKeys is the ordered field list compared between two BlockBundles.
var BlockCompareKeys = []string{
	"chainId", "number", "hash", "parentHash",
	"stateRoot", "receiptsRoot", "transactionsRoot", "timestamp", "commitment",
}

// FetchBlockBundle fetches a comparable header bundle for a block tag/number.
func FetchBlockBundle(ctx context.Context, client *rpc.Client, blockArg string) (*BlockBundle, error) {
	chainID, result := client.ChainID(ctx)
	if !result.Success {
		return nil, fmt.Errorf("%s: %w", client.Name(), result.Error)
	}

	block, result := client.GetBlockByNumber(ctx, blockArg)
	if !result.Success {
		return nil, fmt.Errorf("%s: %w", client.Name(), result.Error)
	}
	if block == nil {
		return nil, fmt.Errorf("%s: block %s not found", client.Name(), blockArg)
	}

	parsed := block.Parsed()
	return &BlockBundle{
		Provider:         client.Name(),
		ChainID:          chainID,
		Network:          rpc.NetworkName(chainID),
		Number:           parsed.Number,
		Hash:             parsed.Hash,
		ParentHash:       parsed.ParentHash,
		StateRoot:        parsed.StateRoot,
		ReceiptsRoot:     parsed.ReceiptsRoot,
		TransactionsRoot: parsed.TransactionsRoot,
		Timestamp:        parsed.Timestamp,
		Commitment: HeaderCommitment(chainID, HeaderFields{
			Number:           parsed.Number,
			Hash:             parsed.Hash,
			ParentHash:       parsed.ParentHash,
			StateRoot:        parsed.StateRoot,
			ReceiptsRoot:     parsed.ReceiptsRoot,
			TransactionsRoot: parsed.TransactionsRoot,
			Timestamp:        parsed.Timestamp,
		}),
	}, nil
}

// FetchBlockBundles fetches the same header from two providers. The argument
// is resolved on the primary first, and the secondary is queried with the
// concrete number the primary answered, so a tag like "latest" never lets the
// two providers describe different heights while the chain advances.
func FetchBlockBundles(ctx context.Context, primary, secondary *rpc.Client, blockArg string) (a, b *BlockBundle, err error) {
	a, err = FetchBlockBundle(ctx, primary, blockArg)
	if err != nil {
		return nil, nil, err
	}
	b, err = FetchBlockBundle(ctx, secondary, rpc.Uint64ToHex(a.Number))
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// CompareBlocks returns per-key equality between two header bundles.
func CompareBlocks(a, b *BlockBundle) map[string]bool {
	return map[string]bool{
		"chainId":          a.ChainID == b.ChainID,
		"number":           a.Number == b.Number,
		"hash":             a.Hash == b.Hash,
		"parentHash":       a.ParentHash == b.ParentHash,
		"stateRoot":        a.StateRoot == b.StateRoot,
		"receiptsRoot":     a.ReceiptsRoot == b.ReceiptsRoot,
		"transactionsRoot": a.TransactionsRoot == b.TransactionsRoot,
		"timestamp":        a.Timestamp == b.Timestamp,
		"commitment":       a.Commitment == b.Commitment,
	}
}

// AllMatch reports whether every compared key is equal.
func AllMatch(cmp map[string]bool) bool {
	for _, ok := range cmp {
		if !ok {
			return false
		}
	}
	return true
}

// SortedKeys returns the comparison keys in stable display order.
func SortedKeys(cmp map[string]bool) []string {
	keys := make([]string, 0, len(cmp))
	for k := range cmp {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
