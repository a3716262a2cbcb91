package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
)

// failParse marks a result as a parse failure after a successful transport call.
func failParse(result *CallResult, err error) {
	result.Success = false
	result.Error = err
	result.ErrorType = ErrorTypeParseError
}

func isNullResult(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// ChainID calls eth_chainId and returns the numeric chain identifier.
func (c *Client) ChainID(ctx context.Context) (uint64, *CallResult) {
	result := c.Call(ctx, "eth_chainId")
	if !result.Success {
		return 0, result
	}

	var hexStr string
	if err := json.Unmarshal(result.Response.Result, &hexStr); err != nil {
		failParse(result, fmt.Errorf("failed to parse chain id: %w", err))
		return 0, result
	}

	id, err := ParseHexUint64(hexStr)
	if err != nil {
		failParse(result, err)
		return 0, result
	}
	return id, result
}

// BlockNumber calls eth_blockNumber and returns the current block height.
func (c *Client) BlockNumber(ctx context.Context) (uint64, *CallResult) {
	result := c.Call(ctx, "eth_blockNumber")
	if !result.Success {
		return 0, result
	}

	var hexStr string
	if err := json.Unmarshal(result.Response.Result, &hexStr); err != nil {
		failParse(result, fmt.Errorf("failed to parse block number: %w", err))
		return 0, result
	}

	num, err := ParseHexUint64(hexStr)
	if err != nil {
		failParse(result, err)
		return 0, result
	}
	return num, result
}

// GasPrice calls eth_gasPrice and returns the node's suggested gas price in wei.
func (c *Client) GasPrice(ctx context.Context) (*big.Int, *CallResult) {
	result := c.Call(ctx, "eth_gasPrice")
	if !result.Success {
		return nil, result
	}

	var hexStr string
	if err := json.Unmarshal(result.Response.Result, &hexStr); err != nil {
		failParse(result, fmt.Errorf("failed to parse gas price: %w", err))
		return nil, result
	}

	price, err := ParseHexBigInt(hexStr)
	if err != nil {
		failParse(result, err)
		return nil, result
	}
	return price, result
}

// GetBlockByNumber calls eth_getBlockByNumber with fullTx=false.
// blockNum is a hex quantity ("0x123") or a tag ("latest", "finalized", ...).
// Returns nil for unknown block numbers (node responds with null).
func (c *Client) GetBlockByNumber(ctx context.Context, blockNum string) (*Block, *CallResult) {
	result := c.Call(ctx, "eth_getBlockByNumber", blockNum, false)
	if !result.Success {
		return nil, result
	}
	if isNullResult(result.Response.Result) {
		return nil, result
	}

	var block Block
	if err := json.Unmarshal(result.Response.Result, &block); err != nil {
		failParse(result, fmt.Errorf("failed to parse block: %w", err))
		return nil, result
	}
	return &block, result
}

// GetLatestBlock is a convenience wrapper for the "latest" tag.
func (c *Client) GetLatestBlock(ctx context.Context) (*Block, *CallResult) {
	return c.GetBlockByNumber(ctx, "latest")
}

// GetBlockWithTransactions calls eth_getBlockByNumber with fullTx=true,
// returning full transaction objects for fee sampling.
func (c *Client) GetBlockWithTransactions(ctx context.Context, blockNum string) (*BlockWithTxs, *CallResult) {
	result := c.Call(ctx, "eth_getBlockByNumber", blockNum, true)
	if !result.Success {
		return nil, result
	}
	if isNullResult(result.Response.Result) {
		return nil, result
	}

	var block BlockWithTxs
	if err := json.Unmarshal(result.Response.Result, &block); err != nil {
		failParse(result, fmt.Errorf("failed to parse block: %w", err))
		return nil, result
	}
	return &block, result
}

// GetTransactionByHash calls eth_getTransactionByHash.
// Returns nil (with a successful result) when the node does not know the hash;
// the caller maps that to ErrTxNotFound.
func (c *Client) GetTransactionByHash(ctx context.Context, txHash string) (*Transaction, *CallResult) {
	result := c.Call(ctx, "eth_getTransactionByHash", txHash)
	if !result.Success {
		return nil, result
	}
	if isNullResult(result.Response.Result) {
		return nil, result
	}

	var tx Transaction
	if err := json.Unmarshal(result.Response.Result, &tx); err != nil {
		failParse(result, fmt.Errorf("failed to parse transaction: %w", err))
		return nil, result
	}
	return &tx, result
}

// GetTransactionReceipt calls eth_getTransactionReceipt.
// Returns nil (with a successful result) while the transaction is pending or
// unknown; the caller distinguishes the two via GetTransactionByHash.
func (c *Client) GetTransactionReceipt(ctx context.Context, txHash string) (*Receipt, *CallResult) {
	result := c.Call(ctx, "eth_getTransactionReceipt", txHash)
	if !result.Success {
		return nil, result
	}
	if isNullResult(result.Response.Result) {
		return nil, result
	}

	var receipt Receipt
	if err := json.Unmarshal(result.Response.Result, &receipt); err != nil {
		failParse(result, fmt.Errorf("failed to parse receipt: %w", err))
		return nil, result
	}
	return &receipt, result
}

// GetMinedTransaction fetches a transaction together with its receipt,
// requiring inclusion in a block. An unknown hash yields ErrTxNotFound; a
// known transaction without a receipt yet yields ErrReceiptPending (with the
// transaction still returned).
func (c *Client) GetMinedTransaction(ctx context.Context, txHash string) (*Transaction, *Receipt, error) {
	tx, result := c.GetTransactionByHash(ctx, txHash)
	if !result.Success {
		return nil, nil, fmt.Errorf("failed to fetch transaction: %w", result.Error)
	}
	if tx == nil {
		return nil, nil, ErrTxNotFound
	}
	if tx.BlockNumber == "" {
		return tx, nil, ErrReceiptPending
	}

	receipt, result := c.GetTransactionReceipt(ctx, txHash)
	if !result.Success {
		return tx, nil, fmt.Errorf("failed to fetch receipt: %w", result.Error)
	}
	if receipt == nil {
		return tx, nil, ErrReceiptPending
	}
	return tx, receipt, nil
}
