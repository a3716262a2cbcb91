// Package rpc implements a minimal Ethereum JSON-RPC client over HTTP.
//
// The package keeps a two-layer type system: wire structs hold numeric values
// as the hex strings the RPC returns, and Parsed() methods bridge them into
// native Go types (uint64, *big.Int) for arithmetic and display.
package rpc

import (
	"encoding/json"
	"math/big"
)

// Request represents a JSON-RPC 2.0 request sent to an Ethereum node.
// Params uses []interface{} because parameter types vary per method
// (e.g., ["0x10d4f", false] for eth_getBlockByNumber, [] for eth_chainId).
type Request struct {
	JSONRPC string        `json:"jsonrpc"` // Always "2.0"
	Method  string        `json:"method"`  // RPC method name, e.g., "eth_getTransactionReceipt"
	Params  []interface{} `json:"params"`  // Method arguments
	ID      int           `json:"id"`      // Request identifier (always 1; one request per connection)
}

// Response represents a JSON-RPC 2.0 response.
// Result stays raw so the caller can decode it into the method-specific shape.
// Error is a pointer so "no error" (nil) is distinguishable from an error
// with zero values.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is the error object from the JSON-RPC server. Negative codes are
// standard (-32601 method not found, -32602 invalid params, ...); nodes also
// use custom codes like -32000 for execution errors.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Block holds the raw JSON-RPC block data. All numeric fields are hex strings
// exactly as they arrive. BaseFeePerGas is absent for pre-EIP-1559 blocks and
// stays an empty string there. Transactions holds hashes when the block was
// fetched with fullTx=false; use BlockWithTxs for full objects.
type Block struct {
	Number           string   `json:"number"`
	Hash             string   `json:"hash"`
	ParentHash       string   `json:"parentHash"`
	StateRoot        string   `json:"stateRoot"`
	ReceiptsRoot     string   `json:"receiptsRoot"`
	TransactionsRoot string   `json:"transactionsRoot"`
	Timestamp        string   `json:"timestamp"`
	GasUsed          string   `json:"gasUsed"`
	GasLimit         string   `json:"gasLimit"`
	BaseFeePerGas    string   `json:"baseFeePerGas,omitempty"`
	Miner            string   `json:"miner"`
	Transactions     []string `json:"transactions"`
}

// ParsedBlock holds block data as native Go types.
type ParsedBlock struct {
	Number           uint64
	Hash             string
	ParentHash       string
	StateRoot        string
	ReceiptsRoot     string
	TransactionsRoot string
	Timestamp        uint64
	GasUsed          uint64
	GasLimit         uint64
	BaseFeePerGas    *big.Int // nil for pre-London blocks
	Miner            string
	TxCount          int
}

// Parsed converts the raw hex-encoded Block into a ParsedBlock.
// Parse errors default fields to zero; the RPC layer has already validated
// the response structure, and a zero is an obvious anomaly in display output.
func (b *Block) Parsed() ParsedBlock {
	num, _ := ParseHexUint64(b.Number)
	ts, _ := ParseHexUint64(b.Timestamp)
	gasUsed, _ := ParseHexUint64(b.GasUsed)
	gasLimit, _ := ParseHexUint64(b.GasLimit)

	var baseFee *big.Int
	if b.BaseFeePerGas != "" {
		baseFee, _ = ParseHexBigInt(b.BaseFeePerGas)
	}

	return ParsedBlock{
		Number:           num,
		Hash:             b.Hash,
		ParentHash:       b.ParentHash,
		StateRoot:        b.StateRoot,
		ReceiptsRoot:     b.ReceiptsRoot,
		TransactionsRoot: b.TransactionsRoot,
		Timestamp:        ts,
		GasUsed:          gasUsed,
		GasLimit:         gasLimit,
		BaseFeePerGas:    baseFee,
		Miner:            b.Miner,
		TxCount:          len(b.Transactions),
	}
}

// Transaction holds raw eth_getTransactionByHash data. BlockNumber decodes to
// an empty string while the transaction is still pending (JSON null).
type Transaction struct {
	Hash                 string `json:"hash"`
	From                 string `json:"from"`
	To                   string `json:"to"` // empty for contract creation
	Nonce                string `json:"nonce"`
	Value                string `json:"value"`
	Gas                  string `json:"gas"` // gas limit declared by the sender
	GasPrice             string `json:"gasPrice,omitempty"`
	MaxFeePerGas         string `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas,omitempty"`
	Type                 string `json:"type,omitempty"`
	BlockNumber          string `json:"blockNumber,omitempty"`
}

// ParsedTransaction holds transaction data as native Go types.
type ParsedTransaction struct {
	Hash                 string
	From                 string
	To                   string
	Nonce                uint64
	Value                *big.Int
	GasLimit             uint64
	GasPrice             *big.Int // nil for typed transactions without gasPrice
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	Type                 uint64
	BlockNumber          uint64
	Pending              bool
}

// Parsed converts the raw hex-encoded Transaction into a ParsedTransaction.
func (t *Transaction) Parsed() ParsedTransaction {
	nonce, _ := ParseHexUint64(t.Nonce)
	gasLimit, _ := ParseHexUint64(t.Gas)
	txType, _ := ParseHexUint64(t.Type)

	value := big.NewInt(0)
	if t.Value != "" {
		value, _ = ParseHexBigInt(t.Value)
	}

	var gasPrice, maxFee, maxPriority *big.Int
	if t.GasPrice != "" {
		gasPrice, _ = ParseHexBigInt(t.GasPrice)
	}
	if t.MaxFeePerGas != "" {
		maxFee, _ = ParseHexBigInt(t.MaxFeePerGas)
	}
	if t.MaxPriorityFeePerGas != "" {
		maxPriority, _ = ParseHexBigInt(t.MaxPriorityFeePerGas)
	}

	var blockNum uint64
	pending := t.BlockNumber == ""
	if !pending {
		blockNum, _ = ParseHexUint64(t.BlockNumber)
	}

	return ParsedTransaction{
		Hash:                 t.Hash,
		From:                 t.From,
		To:                   t.To,
		Nonce:                nonce,
		Value:                value,
		GasLimit:             gasLimit,
		GasPrice:             gasPrice,
		MaxFeePerGas:         maxFee,
		MaxPriorityFeePerGas: maxPriority,
		Type:                 txType,
		BlockNumber:          blockNum,
		Pending:              pending,
	}
}

// TypeLabel returns a human-readable transaction type name.
func (t ParsedTransaction) TypeLabel() string {
	switch t.Type {
	case 0:
		return "Legacy"
	case 1:
		return "AccessList"
	case 2:
		return "EIP-1559"
	case 3:
		return "Blob"
	default:
		return "Unknown"
	}
}

// Receipt holds raw eth_getTransactionReceipt data. Status is "0x1" for
// success and "0x0" for failure (post-Byzantium). EffectiveGasPrice is the
// price actually paid per gas unit; legacy clients may omit it.
type Receipt struct {
	TransactionHash   string `json:"transactionHash"`
	From              string `json:"from"`
	To                string `json:"to,omitempty"`
	ContractAddress   string `json:"contractAddress,omitempty"`
	Status            string `json:"status,omitempty"`
	GasUsed           string `json:"gasUsed"`
	CumulativeGasUsed string `json:"cumulativeGasUsed"`
	EffectiveGasPrice string `json:"effectiveGasPrice,omitempty"`
	BlockNumber       string `json:"blockNumber"`
	BlockHash         string `json:"blockHash"`
}

// ParsedReceipt holds receipt data as native Go types.
type ParsedReceipt struct {
	TransactionHash   string
	From              string
	To                string
	ContractAddress   string
	Success           bool
	GasUsed           uint64
	CumulativeGasUsed uint64
	EffectiveGasPrice *big.Int // nil when the node omits it (legacy clients)
	BlockNumber       uint64
	BlockHash         string
}

// Parsed converts the raw hex-encoded Receipt into a ParsedReceipt.
func (r *Receipt) Parsed() ParsedReceipt {
	status, _ := ParseHexUint64(r.Status)
	gasUsed, _ := ParseHexUint64(r.GasUsed)
	cumulative, _ := ParseHexUint64(r.CumulativeGasUsed)
	blockNum, _ := ParseHexUint64(r.BlockNumber)

	var effPrice *big.Int
	if r.EffectiveGasPrice != "" {
		effPrice, _ = ParseHexBigInt(r.EffectiveGasPrice)
	}

	return ParsedReceipt{
		TransactionHash:   r.TransactionHash,
		From:              r.From,
		To:                r.To,
		ContractAddress:   r.ContractAddress,
		Success:           status == 1,
		GasUsed:           gasUsed,
		CumulativeGasUsed: cumulative,
		EffectiveGasPrice: effPrice,
		BlockNumber:       blockNum,
		BlockHash:         r.BlockHash,
	}
}

// BlockWithTxs is the block shape returned when fullTx=true: the transactions
// array carries full objects instead of hashes. Only fee profiling needs this
// heavier form.
type BlockWithTxs struct {
	Number        string        `json:"number"`
	Hash          string        `json:"hash"`
	Timestamp     string        `json:"timestamp"`
	GasUsed       string        `json:"gasUsed"`
	GasLimit      string        `json:"gasLimit"`
	BaseFeePerGas string        `json:"baseFeePerGas,omitempty"`
	Transactions  []Transaction `json:"transactions"`
}
