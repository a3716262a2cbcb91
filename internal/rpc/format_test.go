package rpc

import (
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"
)

func TestParseHexUint64(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint64
		wantErr bool
	}{
		{name: "with_prefix", input: "0x172721e", want: 24277534},
		{name: "without_prefix", input: "172721e", want: 24277534},
		{name: "zero", input: "0x0", want: 0},
		{name: "empty", input: "", want: 0},
		{name: "prefix_only", input: "0x", want: 0},
		{name: "invalid", input: "0xzz", wantErr: true},
		{name: "too_large", input: "0xffffffffffffffffff", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHexUint64(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseHexUint64(%q) expected error, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHexUint64(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseHexUint64(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseHexBigInt(t *testing.T) {
	got, err := ParseHexBigInt("0xde0b6b3a7640000") // 1 ETH in wei
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := new(big.Int).SetString("1000000000000000000", 10)
	if got.Cmp(want) != 0 {
		t.Errorf("got %s, want %s", got, want)
	}

	if _, err := ParseHexBigInt("0xnope"); err == nil {
		t.Error("expected error for invalid hex")
	}

	empty, err := ParseHexBigInt("")
	if err != nil || empty.Sign() != 0 {
		t.Errorf("empty input: got %v, %v; want 0, nil", empty, err)
	}
}

func TestValidateTxHash(t *testing.T) {
	valid := "0x" + repeatHex(64)

	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{name: "valid", input: valid, ok: true},
		{name: "valid_uppercase", input: "0x" + "ABCDEF1234567890ABCDEF1234567890ABCDEF1234567890ABCDEF1234567890", ok: true},
		{name: "too_short", input: "0xabc", ok: false},
		{name: "too_long", input: valid + "ab", ok: false},
		{name: "missing_prefix", input: repeatHex(66), ok: false},
		{name: "non_hex_chars", input: "0x" + "zz" + repeatHex(62), ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTxHash(tt.input)
			if tt.ok && err != nil {
				t.Errorf("ValidateTxHash(%q) = %v, want nil", tt.input, err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidTxHash) {
				t.Errorf("ValidateTxHash(%q) = %v, want ErrInvalidTxHash", tt.input, err)
			}
		})
	}
}

func repeatHex(n int) string {
	const digits = "0123456789abcdef"
	out := make([]byte, n)
	for i := range out {
		out[i] = digits[i%len(digits)]
	}
	return string(out)
}

func TestNormalizeBlockArg(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "latest", want: "latest"},
		{input: "", want: "latest"},
		{input: "FINALIZED", want: "finalized"},
		{input: "pending", want: "pending"},
		{input: "12345", want: "0x3039"},
		{input: "0x172721e", want: "0x172721e"},
		{input: "not-a-number", want: "not-a-number"},
	}

	for _, tt := range tests {
		if got := NormalizeBlockArg(tt.input); got != tt.want {
			t.Errorf("NormalizeBlockArg(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestWeiConversions(t *testing.T) {
	oneGwei := big.NewInt(1e9)
	if got := WeiToGwei(oneGwei); got != 1.0 {
		t.Errorf("WeiToGwei(1e9) = %f, want 1.0", got)
	}

	oneEth, _ := new(big.Int).SetString("1000000000000000000", 10)
	if got := WeiToEth(oneEth); got != 1.0 {
		t.Errorf("WeiToEth(1e18) = %f, want 1.0", got)
	}

	if got := WeiToGwei(nil); got != 0 {
		t.Errorf("WeiToGwei(nil) = %f, want 0", got)
	}
	if got := WeiToEth(nil); got != 0 {
		t.Errorf("WeiToEth(nil) = %f, want 0", got)
	}
}

func TestFormatGwei(t *testing.T) {
	if got := FormatGwei(big.NewInt(12_340_000_000)); got != "12.34 gwei" {
		t.Errorf("got %q, want %q", got, "12.34 gwei")
	}
	if got := FormatGwei(nil); got != "—" {
		t.Errorf("got %q, want em dash", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input uint64
		want  string
	}{
		{input: 0, want: "0"},
		{input: 999, want: "999"},
		{input: 1000, want: "1,000"},
		{input: 24277510, want: "24,277,510"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.input); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		age     time.Duration
		wantAgo string
	}{
		{name: "seconds", age: 30 * time.Second, wantAgo: "s ago)"},
		{name: "minutes", age: 5 * time.Minute, wantAgo: "(5m ago)"},
		{name: "hours", age: 3 * time.Hour, wantAgo: "(3h ago)"},
		{name: "days", age: 48 * time.Hour, wantAgo: "(2d ago)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := uint64(time.Now().Add(-tt.age).Unix())
			got := FormatTimestamp(ts)
			if !strings.Contains(got, " UTC (") || !strings.HasSuffix(got, tt.wantAgo) {
				t.Errorf("FormatTimestamp(%d) = %q, want suffix %q", ts, got, tt.wantAgo)
			}
		})
	}
}

func TestFormatUTC(t *testing.T) {
	if got := FormatUTC(1700000000); got != "2023-11-14 22:13:20" {
		t.Errorf("FormatUTC(1700000000) = %q", got)
	}
}

func TestTruncateHash(t *testing.T) {
	hash := "0xabcdef1234567890abcdef1234567890abcdef1234567890abcdef1234567890"
	want := "0xabcdef...7890"
	if got := TruncateHash(hash); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := TruncateHash("0xshort"); got != "0xshort" {
		t.Errorf("short hash should pass through, got %q", got)
	}
}

func TestUint64ToHex(t *testing.T) {
	if got := Uint64ToHex(24277534); got != "0x172721e" {
		t.Errorf("got %q, want 0x172721e", got)
	}
}
