// Package verify cross-checks transactions and block headers across two RPC
// providers, comparing key fields and compact keccak-based commitments.
package verify

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// TxCommitment computes a compact commitment for a transaction:
//
//	keccak(chainId[8] || txHash[32] || blockNumber[8] || status[1] || gasUsed[8])
//
// Providers that agree on these fields produce identical commitments, which
// makes cross-provider equality checks a single string comparison.
func TxCommitment(chainID uint64, txHash string, blockNumber uint64, success bool, gasUsed uint64) string {
	payload := make([]byte, 0, 8+32+8+1+8)
	payload = appendUint64(payload, chainID)
	payload = append(payload, hashBytes(txHash)...)
	payload = appendUint64(payload, blockNumber)
	if success {
		payload = append(payload, 1)
	} else {
		payload = append(payload, 0)
	}
	payload = appendUint64(payload, gasUsed)
	return keccakHex(payload)
}

// HeaderFields holds the consensus-relevant header fields that feed the
// header commitment.
type HeaderFields struct {
	Number           uint64
	Hash             string
	ParentHash       string
	StateRoot        string
	ReceiptsRoot     string
	TransactionsRoot string
	Timestamp        uint64
}

// HeaderCommitment computes
//
//	keccak(chainId[8] || number[8] || hash[32] || parentHash[32] ||
//	       stateRoot[32] || receiptsRoot[32] || transactionsRoot[32] || timestamp[8])
//
// summarizing the key consensus fields of a block header for comparison.
func HeaderCommitment(chainID uint64, h HeaderFields) string {
	payload := make([]byte, 0, 8+8+5*32+8)
	payload = appendUint64(payload, chainID)
	payload = appendUint64(payload, h.Number)
	payload = append(payload, hashBytes(h.Hash)...)
	payload = append(payload, hashBytes(h.ParentHash)...)
	payload = append(payload, hashBytes(h.StateRoot)...)
	payload = append(payload, hashBytes(h.ReceiptsRoot)...)
	payload = append(payload, hashBytes(h.TransactionsRoot)...)
	payload = appendUint64(payload, h.Timestamp)
	return keccakHex(payload)
}

func appendUint64(b []byte, v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return append(b, buf[:]...)
}

// hashBytes decodes a 0x-prefixed 32-byte hash. Malformed or short input
// yields zero-padded bytes so commitments stay fixed-width (and mismatched
// inputs still produce mismatched commitments).
func hashBytes(h string) []byte {
	h = strings.TrimPrefix(strings.TrimSpace(h), "0x")
	out := make([]byte, 32)
	decoded, err := hex.DecodeString(h)
	if err != nil || len(decoded) == 0 {
		return out
	}
	if len(decoded) > 32 {
		decoded = decoded[:32]
	}
	copy(out[32-len(decoded):], decoded)
	return out
}

func keccakHex(payload []byte) string {
	d := sha3.NewLegacyKeccak256()
	d.Write(payload)
	return "0x" + hex.EncodeToString(d.Sum(nil))
}
