// Package report writes timestamped JSON report files so command output can
// be tracked over time. Files land in a "reports" directory next to the
// working directory.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// MillisDuration marshals a time.Duration as an integer millisecond count.
type MillisDuration time.Duration

func (d MillisDuration) MarshalJSON() ([]byte, error) {
	ms := time.Duration(d).Milliseconds()
	return json.Marshal(ms)
}

// ProviderEntry is one provider's aggregate row in a latency session report.
type ProviderEntry struct {
	Provider string `json:"provider"`
	Samples  int    `json:"samples"`
	Failures int    `json:"failures"`

	SuccessRate float64 `json:"success_rate"`
	BlockHeight uint64  `json:"block_height,omitempty"`

	P50LatencyMS MillisDuration `json:"p50_latency_ms"`
	P95LatencyMS MillisDuration `json:"p95_latency_ms"`
	P99LatencyMS MillisDuration `json:"p99_latency_ms"`
	MaxLatencyMS MillisDuration `json:"max_latency_ms"`

	Timeouts     int `json:"timeouts,omitempty"`
	Connections  int `json:"connection_errors,omitempty"`
	RateLimits   int `json:"rate_limits,omitempty"`
	ServerErrors int `json:"server_errors,omitempty"`
	ParseErrors  int `json:"parse_errors,omitempty"`
	OtherErrors  int `json:"other_errors,omitempty"`
}

// Session is the JSON-serializable summary of a latency watch session.
type Session struct {
	Timestamp    time.Time       `json:"timestamp"`
	Interval     string          `json:"interval"`
	Rounds       int             `json:"rounds"`
	HighestBlock uint64          `json:"highest_block,omitempty"`
	Results      []ProviderEntry `json:"results"`
}

// WriteJSON writes data to reports/{prefix}-{YYYYMMDD-HHMMSS}.json and returns
// the file path. The reports directory is created on demand.
func WriteJSON(data interface{}, prefix string) (string, error) {
	reportsDir := "reports"
	if err := os.MkdirAll(reportsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("%s-%s.json", prefix, timestamp)
	path := filepath.Join(reportsDir, filename)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}

	return path, nil
}
