package rpc

import "fmt"

// networkNames maps well-known chain IDs to display names.
var networkNames = map[uint64]string{
	1:        "Ethereum Mainnet",
	10:       "Optimism",
	56:       "BNB Smart Chain",
	100:      "Gnosis Chain",
	137:      "Polygon",
	8453:     "Base",
	42161:    "Arbitrum One",
	43114:    "Avalanche C-Chain",
	11155111: "Sepolia Testnet",
}

// NetworkName returns a human-readable name for a chain ID, or a fallback
// string for unknown chains.
func NetworkName(chainID uint64) string {
	if name, ok := networkNames[chainID]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (chain ID %d)", chainID)
}

// ExplorerTxURL returns a block-explorer link for the transaction, or an
// empty string for chains without a configured explorer.
func ExplorerTxURL(chainID uint64, txHash string) string {
	switch chainID {
	case 1:
		return "https://etherscan.io/tx/" + txHash
	case 11155111:
		return "https://sepolia.etherscan.io/tx/" + txHash
	default:
		return ""
	}
}
