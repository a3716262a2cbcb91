package batch

import (
	"strings"
	"testing"
)

const (
	hashA = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	hashB = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	hashC = "0xcccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc"
)

func TestReadHashes(t *testing.T) {
	input := strings.Join([]string{
		hashA,
		"",
		"  " + hashB + "  ",
		"not-a-hash",
		"0xshort",
		hashC,
	}, "\n")

	hashes, skipped, err := ReadHashes(strings.NewReader(input), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hashes) != 3 {
		t.Fatalf("hashes = %v", hashes)
	}
	if hashes[1] != hashB {
		t.Errorf("whitespace should be trimmed, got %q", hashes[1])
	}
	if len(skipped) != 2 {
		t.Errorf("skipped = %v", skipped)
	}
}

func TestReadHashesLimit(t *testing.T) {
	input := hashA + "\n" + hashB + "\n" + hashC + "\n"
	hashes, _, err := ReadHashes(strings.NewReader(input), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hashes) != 2 {
		t.Errorf("limit ignored: %v", hashes)
	}
}

func TestWriteCSV(t *testing.T) {
	rows := []Row{
		{
			TxHash:        hashA,
			Status:        1,
			TxType:        "EIP-1559",
			BlockNumber:   18500000,
			UTC:           "2023-11-14 22:13:20",
			Confirmations: 24,
			From:          "0xfrom",
			To:            "0xto",
			ValueEth:      1.5,
			GasUsed:       64231,
			GasLimit:      100000,
			GasEffPct:     64.231,
			HasGasEff:     true,
			EffPriceGwei:  15,
			BaseFeeGwei:   10,
			TipGwei:       5,
			TotalFeeEth:   0.000963465,
			AgeMinutes:    12.345,
		},
		{TxHash: hashB, StatusText: "pending_or_not_found"},
	}

	var sb strings.Builder
	if err := WriteCSV(&sb, rows); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got:\n%s", sb.String())
	}

	wantHeader := "txHash,status,txType,blockNumber,utc,confirmations," +
		"from,to,valueEth,gasUsed,gasLimit,gasEfficiencyPct," +
		"effectiveGasPriceGwei,baseFeeAtTxGwei,tipAtTxGwei,totalFeeEth,ageMinutes"
	if lines[0] != wantHeader {
		t.Errorf("header = %q", lines[0])
	}

	if !strings.HasPrefix(lines[1], hashA+",1,EIP-1559,18500000,2023-11-14 22:13:20,24,") {
		t.Errorf("row = %q", lines[1])
	}
	if !strings.Contains(lines[1], "64.23") {
		t.Errorf("gas efficiency should round to two decimals: %q", lines[1])
	}
	if !strings.Contains(lines[1], "12.35") {
		t.Errorf("age should round to two decimals: %q", lines[1])
	}

	// Pending row keeps only the hash.
	if lines[2] != hashB+strings.Repeat(",", len(csvColumns)-1) {
		t.Errorf("pending row = %q", lines[2])
	}
}

func TestRowPending(t *testing.T) {
	r := Row{TxHash: hashA, StatusText: "pending_or_not_found"}
	if !r.Pending() {
		t.Error("StatusText should mark the row pending")
	}
	if (&Row{TxHash: hashA}).Pending() {
		t.Error("regular row is not pending")
	}
}

func TestNewReport(t *testing.T) {
	rows := []Row{{TxHash: hashA}, {TxHash: hashB}}
	rep := NewReport(1, rows)

	if rep.Network != "Ethereum Mainnet" || rep.ChainID != 1 {
		t.Errorf("report = %+v", rep)
	}
	if rep.Count != 2 {
		t.Errorf("Count = %d", rep.Count)
	}
	if rep.GeneratedAtUTC == "" {
		t.Error("GeneratedAtUTC should be set")
	}
}
