package stats

import (
	"testing"
	"time"
)

func TestCalculateTailLatency(t *testing.T) {
	samples := []time.Duration{
		50 * time.Millisecond,
		10 * time.Millisecond,
		30 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
	}

	tail := CalculateTailLatency(samples)

	if tail.P50 != 30*time.Millisecond {
		t.Errorf("P50 = %s, want 30ms", tail.P50)
	}
	if tail.P95 != 50*time.Millisecond {
		t.Errorf("P95 = %s, want 50ms (equals max for small samples)", tail.P95)
	}
	if tail.Max != 50*time.Millisecond {
		t.Errorf("Max = %s", tail.Max)
	}
}

func TestCalculateTailLatencyEmpty(t *testing.T) {
	tail := CalculateTailLatency(nil)
	if tail.P50 != 0 || tail.Max != 0 {
		t.Errorf("empty input should yield zeros, got %+v", tail)
	}
}

func TestPercentileNearestRank(t *testing.T) {
	sorted := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		p    float64
		want time.Duration
	}{
		{p: 0.50, want: 5},
		{p: 0.95, want: 10},
		{p: 0.99, want: 10},
		{p: 1.0, want: 10},
		{p: 0.0, want: 1},
	}
	for _, tt := range tests {
		if got := Percentile(sorted, tt.p); got != tt.want {
			t.Errorf("Percentile(%.2f) = %d, want %d", tt.p, got, tt.want)
		}
	}
}

func TestPercentileSingleSample(t *testing.T) {
	sorted := []time.Duration{42}
	if got := Percentile(sorted, 0.99); got != 42 {
		t.Errorf("single sample percentile = %d", got)
	}
}

func TestFloatPercentile(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3}

	if got := FloatPercentile(values, 0.5); got != 3 {
		t.Errorf("p50 = %f, want 3", got)
	}
	if got := FloatPercentile(values, 0); got != 1 {
		t.Errorf("p0 = %f, want 1", got)
	}
	if got := FloatPercentile(values, 1); got != 5 {
		t.Errorf("p100 = %f, want 5", got)
	}
	if got := FloatPercentile(nil, 0.5); got != 0 {
		t.Errorf("empty = %f, want 0", got)
	}
}

func TestMedian(t *testing.T) {
	if got := Median([]float64{9, 1, 5}); got != 5 {
		t.Errorf("Median = %f", got)
	}
}

func TestMinMax(t *testing.T) {
	min, max := MinMax([]float64{3, 1, 4, 1, 5})
	if min != 1 || max != 5 {
		t.Errorf("MinMax = %f, %f", min, max)
	}
	min, max = MinMax(nil)
	if min != 0 || max != 0 {
		t.Errorf("empty MinMax = %f, %f", min, max)
	}
}
