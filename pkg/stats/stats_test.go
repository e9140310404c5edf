package stats

import (
	"testing"

	"github.com/Lujaina-E/SENG533-Final-Project/pkg/result"
)

func TestErrorPct(t *testing.T) {
	tests := []struct {
		name     string
		failures int64
		total    int64
		expected float64
	}{
		{name: "zero requests", failures: 0, total: 0, expected: 0},
		{name: "no failures", failures: 0, total: 200, expected: 0},
		{name: "some failures", failures: 2, total: 200, expected: 1},
		{name: "all failed", failures: 50, total: 50, expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorPct(tt.failures, tt.total); got != tt.expected {
				t.Errorf("ErrorPct(%d, %d) = %v, want %v", tt.failures, tt.total, got, tt.expected)
			}
		})
	}
}

func TestChangePct(t *testing.T) {
	tests := []struct {
		name     string
		base     float64
		value    float64
		expected float64
	}{
		{name: "zero base", base: 0, value: 10, expected: 0},
		{name: "doubled", base: 100, value: 200, expected: 100},
		{name: "halved", base: 100, value: 50, expected: -50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChangePct(tt.base, tt.value); got != tt.expected {
				t.Errorf("ChangePct(%v, %v) = %v, want %v", tt.base, tt.value, got, tt.expected)
			}
		})
	}
}

func TestSummarizeSeries(t *testing.T) {
	values := []float64{300, 100, 200, 400, 1000}

	s, err := SummarizeSeries(values)
	if err != nil {
		t.Fatalf("SummarizeSeries failed: %v", err)
	}
	if s.Count != 5 {
		t.Errorf("Count = %d, want 5", s.Count)
	}
	if s.Mean != 400 {
		t.Errorf("Mean = %v, want 400", s.Mean)
	}
	if s.Median != 300 {
		t.Errorf("Median = %v, want 300", s.Median)
	}
	if s.Max != 1000 {
		t.Errorf("Max = %v, want 1000", s.Max)
	}
	if s.P95 < s.Median || s.P95 > s.Max {
		t.Errorf("P95 = %v, want within [%v, %v]", s.P95, s.Median, s.Max)
	}
}

func TestSummarizeSeries_Empty(t *testing.T) {
	if _, err := SummarizeSeries(nil); err == nil {
		t.Error("expected error for empty series")
	}
}

func TestBands_Classify(t *testing.T) {
	b := DefaultBands()
	tests := []struct {
		pct      float64
		expected result.Severity
	}{
		{0, result.SeverityOK},
		{4.99, result.SeverityOK},
		{5, result.SeverityWarn},
		{19.9, result.SeverityWarn},
		{20, result.SeverityCritical},
		{100, result.SeverityCritical},
	}
	for _, tt := range tests {
		if got := b.Classify(tt.pct); got != tt.expected {
			t.Errorf("Classify(%v) = %s, want %s", tt.pct, got, tt.expected)
		}
	}
}
