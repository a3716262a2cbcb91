// Package batch summarizes fees for many transactions in one run: hashes come
// from a file or stdin, blocks are cached so transactions in the same block
// cost one block fetch, and results render as CSV or JSON.
package batch

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmagro/eth-gas-report/internal/gas"
	"github.com/dmagro/eth-gas-report/internal/rpc"
)

// Row is one transaction's fee summary. Pending or unknown transactions carry
// only the hash and a status text.
type Row struct {
	TxHash        string  `json:"txHash"`
	StatusText    string  `json:"statusText,omitempty"` // "pending_or_not_found" only
	Status        int     `json:"status"`
	TxType        string  `json:"txType"`
	BlockNumber   uint64  `json:"blockNumber"`
	UTC           string  `json:"utc"`
	Confirmations uint64  `json:"confirmations"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	ValueEth      float64 `json:"valueEth"`
	GasUsed       uint64  `json:"gasUsed"`
	GasLimit      uint64  `json:"gasLimit"`
	GasEffPct     float64 `json:"gasEfficiencyPct"`
	HasGasEff     bool    `json:"-"`
	EffPriceGwei  float64 `json:"effectiveGasPriceGwei"`
	BaseFeeGwei   float64 `json:"baseFeeAtTxGwei"`
	TipGwei       float64 `json:"tipAtTxGwei"`
	TotalFeeEth   float64 `json:"totalFeeEth"`
	AgeMinutes    float64 `json:"ageMinutes"`
	HighFee       bool    `json:"highFee"`
}

// Pending reports whether the row describes a pending or unknown transaction.
func (r *Row) Pending() bool { return r.StatusText != "" }

// Report is the JSON envelope for a batch run.
type Report struct {
	Network        string `json:"network"`
	ChainID        uint64 `json:"chainId"`
	Count          int    `json:"count"`
	GeneratedAtUTC string `json:"generatedAtUtc"`
	Rows           []Row  `json:"rows"`
}

// ReadHashes reads one transaction hash per line, skipping blank lines.
// Invalid hashes are collected in skipped rather than aborting the run.
// limit > 0 stops after that many valid hashes.
func ReadHashes(r io.Reader, limit int) (hashes, skipped []string, err error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		h := strings.TrimSpace(scanner.Text())
		if h == "" {
			continue
		}
		if rpc.ValidateTxHash(h) != nil {
			skipped = append(skipped, h)
			continue
		}
		hashes = append(hashes, h)
		if limit > 0 && len(hashes) >= limit {
			break
		}
	}
	return hashes, skipped, scanner.Err()
}

// Runner executes a batch summarization against one provider, caching blocks
// so transactions in the same block need a single eth_getBlockByNumber.
type Runner struct {
	Client     *rpc.Client
	WarnFeeEth float64

	// Progress, when set, is called after each processed hash.
	Progress func(done, total int)

	blockCache map[uint64]rpc.ParsedBlock
}

// Run summarizes every hash. Individual failures become error entries in errs
// (indexed by hash) instead of aborting the batch.
func (r *Runner) Run(ctx context.Context, hashes []string) (rows []Row, errs map[string]error, err error) {
	latest, result := r.Client.BlockNumber(ctx)
	if !result.Success {
		return nil, nil, fmt.Errorf("failed to fetch latest block: %w", result.Error)
	}

	r.blockCache = make(map[uint64]rpc.ParsedBlock)
	errs = make(map[string]error)

	for i, h := range hashes {
		row, rowErr := r.summarize(ctx, h, latest)
		if rowErr != nil {
			errs[h] = rowErr
		} else {
			rows = append(rows, row)
		}
		if r.Progress != nil {
			r.Progress(i+1, len(hashes))
		}
		if ctx.Err() != nil {
			return rows, errs, ctx.Err()
		}
	}
	return rows, errs, nil
}

func (r *Runner) summarize(ctx context.Context, txHash string, latest uint64) (Row, error) {
	tx, receipt, err := r.Client.GetMinedTransaction(ctx, txHash)
	if errors.Is(err, rpc.ErrTxNotFound) || errors.Is(err, rpc.ErrReceiptPending) {
		return Row{TxHash: txHash, StatusText: "pending_or_not_found"}, nil
	}
	if err != nil {
		return Row{}, err
	}
	rcpt := receipt.Parsed()
	parsedTx := tx.Parsed()

	block, err := r.blockAt(ctx, rcpt.BlockNumber)
	if err != nil {
		return Row{}, err
	}

	effPrice := rcpt.EffectiveGasPrice
	if effPrice == nil {
		effPrice = parsedTx.GasPrice
	}

	totalFee := gas.TotalFeeWei(rcpt.GasUsed, effPrice)
	tip := gas.Tip(effPrice, block.BaseFeePerGas)

	status := 0
	if rcpt.Success {
		status = 1
	}

	row := Row{
		TxHash:        txHash,
		Status:        status,
		TxType:        parsedTx.TypeLabel(),
		BlockNumber:   rcpt.BlockNumber,
		UTC:           rpc.FormatUTC(block.Timestamp),
		Confirmations: gas.Confirmations(latest, rcpt.BlockNumber),
		From:          parsedTx.From,
		To:            parsedTx.To,
		ValueEth:      rpc.WeiToEth(parsedTx.Value),
		GasUsed:       rcpt.GasUsed,
		GasLimit:      parsedTx.GasLimit,
		EffPriceGwei:  rpc.WeiToGwei(effPrice),
		BaseFeeGwei:   rpc.WeiToGwei(block.BaseFeePerGas),
		TipGwei:       rpc.WeiToGwei(tip),
		TotalFeeEth:   rpc.WeiToEth(totalFee),
		AgeMinutes:    time.Since(time.Unix(int64(block.Timestamp), 0)).Minutes(),
		HighFee:       gas.IsHighFee(totalFee, r.WarnFeeEth),
	}
	row.GasEffPct, row.HasGasEff = gas.Efficiency(rcpt.GasUsed, parsedTx.GasLimit)
	return row, nil
}

func (r *Runner) blockAt(ctx context.Context, num uint64) (rpc.ParsedBlock, error) {
	if cached, ok := r.blockCache[num]; ok {
		return cached, nil
	}
	block, result := r.Client.GetBlockByNumber(ctx, rpc.Uint64ToHex(num))
	if !result.Success {
		return rpc.ParsedBlock{}, fmt.Errorf("failed to fetch block %d: %w", num, result.Error)
	}
	if block == nil {
		return rpc.ParsedBlock{}, fmt.Errorf("block %d not found", num)
	}
	parsed := block.Parsed()
	r.blockCache[num] = parsed
	return parsed, nil
}

// csvColumns fixes the CSV column order.
var csvColumns = []string{
	"txHash", "status", "txType", "blockNumber", "utc", "confirmations",
	"from", "to", "valueEth",
	"gasUsed", "gasLimit", "gasEfficiencyPct",
	"effectiveGasPriceGwei", "baseFeeAtTxGwei", "tipAtTxGwei", "totalFeeEth",
	"ageMinutes",
}

// WriteCSV renders rows as CSV with a fixed column order. Pending rows keep
// the hash and leave the other columns empty.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return err
	}

	for i := range rows {
		r := &rows[i]
		if r.Pending() {
			rec := make([]string, len(csvColumns))
			rec[0] = r.TxHash
			if err := cw.Write(rec); err != nil {
				return err
			}
			continue
		}

		gasEff := ""
		if r.HasGasEff {
			gasEff = strconv.FormatFloat(r.GasEffPct, 'f', 2, 64)
		}
		rec := []string{
			r.TxHash,
			strconv.Itoa(r.Status),
			r.TxType,
			strconv.FormatUint(r.BlockNumber, 10),
			r.UTC,
			strconv.FormatUint(r.Confirmations, 10),
			r.From,
			r.To,
			strconv.FormatFloat(r.ValueEth, 'f', -1, 64),
			strconv.FormatUint(r.GasUsed, 10),
			strconv.FormatUint(r.GasLimit, 10),
			gasEff,
			strconv.FormatFloat(r.EffPriceGwei, 'f', -1, 64),
			strconv.FormatFloat(r.BaseFeeGwei, 'f', -1, 64),
			strconv.FormatFloat(r.TipGwei, 'f', -1, 64),
			strconv.FormatFloat(r.TotalFeeEth, 'f', -1, 64),
			strconv.FormatFloat(r.AgeMinutes, 'f', 2, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// NewReport wraps rows in the JSON envelope.
func NewReport(chainID uint64, rows []Row) *Report {
	return &Report{
		Network:        rpc.NetworkName(chainID),
		ChainID:        chainID,
		Count:          len(rows),
		GeneratedAtUTC: time.Now().UTC().Format("2006-01-02 15:04:05"),
		Rows:           rows,
	}
}
