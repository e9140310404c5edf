package stats

import (
	"math"
	"testing"

	"github.com/Lujaina-E/SENG533-Final-Project/pkg/result"
)

func pts(pairs ...float64) []result.PercentilePoint {
	out := make([]result.PercentilePoint, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, result.PercentilePoint{Percentile: pairs[i], LatencyMs: pairs[i+1]})
	}
	return out
}

func TestEstimateViolationPct(t *testing.T) {
	tests := []struct {
		name      string
		points    []result.PercentilePoint
		threshold float64
		expected  float64
	}{
		{
			name:      "no points",
			points:    nil,
			threshold: 3000,
			expected:  0,
		},
		{
			name:      "all below threshold",
			points:    pts(50, 100, 99, 500),
			threshold: 3000,
			expected:  0,
		},
		{
			name:      "lowest percentile above threshold",
			points:    pts(50, 3500, 99, 9000),
			threshold: 3000,
			expected:  100,
		},
		{
			name:      "lowest percentile exactly at threshold",
			points:    pts(50, 3000, 99, 9000),
			threshold: 3000,
			expected:  100,
		},
		{
			name:      "interpolated between p95 and p99",
			points:    pts(50, 800, 95, 2500, 99, 4200, 100, 5000),
			threshold: 3000,
			expected:  100 - (95 + (500.0/1700.0)*4),
		},
		{
			name:      "threshold equal to upper bracket",
			points:    pts(50, 800, 90, 2000, 95, 3000, 100, 5000),
			threshold: 3000,
			expected:  5,
		},
		{
			name:      "only max reaches threshold",
			points:    pts(50, 800, 99, 2900, 100, 3000),
			threshold: 3000,
			expected:  0,
		},
		{
			name:      "sparse breakpoints",
			points:    pts(50, 1000, 100, 5000),
			threshold: 3000,
			expected:  25,
		},
		{
			name:      "non monotonic tail uses first bracket",
			points:    pts(50, 2000, 90, 4000, 95, 1000),
			threshold: 3000,
			expected:  100 - (50 + 0.5*40),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateViolationPct(tt.points, tt.threshold)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("EstimateViolationPct(%v, %.0f) = %v, want %v", tt.points, tt.threshold, got, tt.expected)
			}
		})
	}
}

func TestEstimateViolationPct_Monotonic(t *testing.T) {
	points := pts(50, 800, 66, 1100, 75, 1400, 80, 1600, 90, 2200, 95, 2500, 98, 3600, 99, 4200, 100, 5000)

	prev := math.Inf(1)
	for threshold := 0.0; threshold <= 6000; threshold += 25 {
		got := EstimateViolationPct(points, threshold)
		if got > prev+1e-9 {
			t.Fatalf("violation rose from %v to %v at threshold %v", prev, got, threshold)
		}
		if got < 0 || got > 100 {
			t.Fatalf("violation %v out of range at threshold %v", got, threshold)
		}
		prev = got
	}
}

func TestEstimateViolationPct_Deterministic(t *testing.T) {
	points := pts(50, 800, 95, 2500, 99, 4200, 100, 5000)
	first := EstimateViolationPct(points, 3000)
	for i := 0; i < 10; i++ {
		if got := EstimateViolationPct(points, 3000); got != first {
			t.Fatalf("run %d: got %v, want %v", i, got, first)
		}
	}
	if points[1].LatencyMs != 2500 {
		t.Errorf("input was modified: %v", points)
	}
}

func TestPercentilePoints(t *testing.T) {
	row := &result.RawSummaryRow{Percentiles: pts(99, 4200, 50, 800, 95, 2500)}

	got := PercentilePoints(row)
	want := []float64{50, 95, 99}
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i, p := range got {
		if p.Percentile != want[i] {
			t.Errorf("PercentilePoints[%d] = %v, want percentile %v", i, p, want[i])
		}
	}
	if row.Percentiles[0].Percentile != 99 {
		t.Errorf("source row was reordered")
	}
}
