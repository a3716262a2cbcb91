// Package rpc (format.go) provides parsing and formatting helpers for
// Ethereum-specific data: hex-to-decimal conversion, wei/gwei/ETH display,
// and block/hash argument normalization.
package rpc

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// ParseHexUint64 converts a hex-encoded string (with or without "0x" prefix)
// to uint64. Used for values that fit in 64 bits: block numbers, timestamps,
// gas amounts.
//
// Examples:
//   - "0x172721e" -> 24277534
//   - "0x0" -> 0
//   - "" -> 0 (empty string treated as zero)
func ParseHexUint64(hex string) (uint64, error) {
	hex = strings.TrimPrefix(hex, "0x")
	if hex == "" {
		return 0, nil
	}

	val := new(big.Int)
	_, ok := val.SetString(hex, 16)
	if !ok || !val.IsUint64() {
		return 0, fmt.Errorf("invalid hex: %s", hex)
	}
	return val.Uint64(), nil
}

// ParseHexBigInt converts a hex-encoded string to *big.Int for values that may
// exceed uint64 range (wei amounts, base fees).
func ParseHexBigInt(hex string) (*big.Int, error) {
	hex = strings.TrimPrefix(hex, "0x")
	if hex == "" {
		return big.NewInt(0), nil
	}

	val := new(big.Int)
	_, ok := val.SetString(hex, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex: %s", hex)
	}
	return val, nil
}

// ValidateTxHash checks that s is a well-formed transaction hash:
// "0x" followed by exactly 64 hex characters. This runs before any network
// call so malformed input never reaches the RPC.
func ValidateTxHash(s string) error {
	s = strings.TrimSpace(s)
	if len(s) != 66 || !strings.HasPrefix(strings.ToLower(s), "0x") {
		return ErrInvalidTxHash
	}
	for _, c := range s[2:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return ErrInvalidTxHash
		}
	}
	return nil
}

// NormalizeBlockArg converts block identifiers (decimal, hex, or tag) to RPC
// format. Tags pass through; empty input defaults to "latest"; decimal numbers
// become hex quantities.
//
// Examples:
//   - "latest" -> "latest"
//   - "12345" -> "0x3039"
//   - "0x172721e" -> "0x172721e"
//   - "" -> "latest"
func NormalizeBlockArg(arg string) string {
	arg = strings.TrimSpace(strings.ToLower(arg))

	switch arg {
	case "", "latest":
		return "latest"
	case "pending", "earliest", "finalized", "safe":
		return arg
	}

	if strings.HasPrefix(arg, "0x") {
		return arg
	}

	num, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		// Not a valid decimal number - return as-is and let the RPC reject it.
		return arg
	}
	return fmt.Sprintf("0x%x", num)
}

// Uint64ToHex converts a uint64 to a 0x-prefixed hex quantity for RPC calls.
func Uint64ToHex(n uint64) string {
	return fmt.Sprintf("0x%x", n)
}

// WeiToGwei converts a wei amount to gwei as float64 (1 gwei = 10^9 wei).
// Returns 0 for nil.
func WeiToGwei(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	gwei := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e9))
	f, _ := gwei.Float64()
	return f
}

// WeiToEth converts a wei amount to ETH as float64 (1 ETH = 10^18 wei).
// Returns 0 for nil. Display only; fee arithmetic stays in *big.Int.
func WeiToEth(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	eth := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18))
	f, _ := eth.Float64()
	return f
}

// FormatGwei renders a wei amount as "X.XX gwei", or an em dash for nil
// (pre-EIP-1559 blocks have no base fee).
func FormatGwei(wei *big.Int) string {
	if wei == nil {
		return "—"
	}
	return fmt.Sprintf("%.2f gwei", WeiToGwei(wei))
}

// FormatTimestamp converts a Unix timestamp to UTC with a relative suffix,
// e.g., "2026-01-20 17:02:23 UTC (14s ago)".
func FormatTimestamp(ts uint64) string {
	t := time.Unix(int64(ts), 0)
	ago := time.Since(t)

	var agoStr string
	switch {
	case ago < time.Minute:
		agoStr = fmt.Sprintf("%ds ago", int(ago.Seconds()))
	case ago < time.Hour:
		agoStr = fmt.Sprintf("%dm ago", int(ago.Minutes()))
	case ago < 24*time.Hour:
		agoStr = fmt.Sprintf("%dh ago", int(ago.Hours()))
	default:
		agoStr = fmt.Sprintf("%dd ago", int(ago.Hours()/24))
	}

	return fmt.Sprintf("%s (%s)", t.UTC().Format("2006-01-02 15:04:05 UTC"), agoStr)
}

// FormatUTC renders a Unix timestamp as plain UTC without the relative suffix.
func FormatUTC(ts uint64) string {
	return time.Unix(int64(ts), 0).UTC().Format("2006-01-02 15:04:05")
}

// FormatNumber adds thousand separators to a number (24277510 -> "24,277,510").
func FormatNumber(n uint64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

// TruncateHash shortens a hash for table display ("0xabc123...beef").
func TruncateHash(hash string) string {
	if len(hash) <= 14 {
		return hash
	}
	return hash[:8] + "..." + hash[len(hash)-4:]
}
