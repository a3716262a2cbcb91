package latency

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmagro/eth-gas-report/internal/rpc"
)

func TestClassify(t *testing.T) {
	threshold := 200 * time.Millisecond

	tests := []struct {
		name    string
		latency time.Duration
		want    Status
	}{
		{name: "fast", latency: 50 * time.Millisecond, want: StatusOK},
		{name: "at_threshold", latency: 200 * time.Millisecond, want: StatusOK},
		{name: "slow", latency: 300 * time.Millisecond, want: StatusSlow},
		{name: "at_double", latency: 400 * time.Millisecond, want: StatusSlow},
		{name: "very_slow", latency: 401 * time.Millisecond, want: StatusVerySlow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.latency, threshold); got != tt.want {
				t.Errorf("Classify(%s) = %s, want %s", tt.latency, got, tt.want)
			}
		})
	}
}

func TestHighestBlock(t *testing.T) {
	probes := []Probe{
		{Provider: "a", BlockHeight: 100},
		{Provider: "b", BlockHeight: 105},
		{Provider: "c", BlockHeight: 999, Err: errors.New("down")}, // ignored
	}
	if got := HighestBlock(probes); got != 105 {
		t.Errorf("HighestBlock = %d, want 105", got)
	}
}

func TestAppendCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latency.csv")

	probes := []Probe{
		{
			Timestamp:   time.Unix(1700000000, 0),
			Provider:    "a",
			BlockHeight: 100,
			Latency:     150 * time.Millisecond,
			Status:      StatusOK,
		},
		{
			Timestamp: time.Unix(1700000000, 0),
			Provider:  "b",
			Latency:   2 * time.Second,
			Status:    StatusDisconnected,
			Err:       errors.New("connection refused"),
		},
	}

	if err := AppendCSV(path, probes); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := AppendCSV(path, probes[:1]); err != nil {
		t.Fatalf("second append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines:\n%s", len(lines), data)
	}
	if lines[0] != "timestamp,provider,block,latency_ms,status" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "a,100,150,OK") {
		t.Errorf("row = %q", lines[1])
	}
	if !strings.Contains(lines[2], "b,,2000,DISCONNECTED") {
		t.Errorf("failed probe row should have empty block: %q", lines[2])
	}
}

func TestCollector(t *testing.T) {
	c := NewCollector()

	c.Add(Probe{Provider: "a", BlockHeight: 100, Latency: 100 * time.Millisecond})
	c.Add(Probe{Provider: "a", BlockHeight: 101, Latency: 200 * time.Millisecond})
	c.Add(Probe{Provider: "a", Err: errors.New("timeout"), ErrType: rpc.ErrorTypeTimeout})
	c.Add(Probe{Provider: "b", BlockHeight: 99, Latency: 50 * time.Millisecond})

	aggs := c.Aggregates()
	if len(aggs) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(aggs))
	}
	if aggs[0].Provider != "a" || aggs[1].Provider != "b" {
		t.Errorf("first-seen order broken: %s, %s", aggs[0].Provider, aggs[1].Provider)
	}

	a := aggs[0]
	if a.Samples != 3 || a.Failures != 1 || a.Timeouts != 1 {
		t.Errorf("aggregate a = %+v", a)
	}
	if a.LastHeight != 101 {
		t.Errorf("LastHeight = %d", a.LastHeight)
	}
	if got := a.SuccessRate(); got < 66 || got > 67 {
		t.Errorf("SuccessRate = %f", got)
	}
	if len(a.Latencies) != 2 {
		t.Errorf("failed probes must not contribute latencies: %v", a.Latencies)
	}

	tail := a.Tail()
	if tail.Max != 200*time.Millisecond {
		t.Errorf("tail max = %s", tail.Max)
	}
}

func TestSuccessRateEmpty(t *testing.T) {
	a := &ProviderAggregate{}
	if got := a.SuccessRate(); got != 0 {
		t.Errorf("empty aggregate rate = %f", got)
	}
}
