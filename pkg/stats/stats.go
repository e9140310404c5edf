// Package stats provides the statistical derivations used to build a metrics table.
package stats

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// ErrorPct returns failures as a percentage of total requests. A run with no
// requests reports 0 rather than dividing by zero.
func ErrorPct(failures, total int64) float64 {
	if total < 1 {
		total = 1
	}
	return float64(failures) / float64(total) * 100
}

// ChangePct returns the relative change from base to value in percent, or 0
// when base is 0.
func ChangePct(base, value float64) float64 {
	if base == 0 {
		return 0
	}
	return (value - base) / base * 100
}

// Series summarizes a sequence of latency samples.
type Series struct {
	Count  int
	Mean   float64
	Median float64
	P95    float64
	Max    float64
}

// SummarizeSeries computes mean, median, p95 and max of values.
func SummarizeSeries(values []float64) (Series, error) {
	data := stats.Float64Data(values)
	s := Series{Count: len(values)}

	var err error
	if s.Mean, err = stats.Mean(data); err != nil {
		return Series{}, fmt.Errorf("failed to calculate mean: %w", err)
	}
	if s.Median, err = stats.Median(data); err != nil {
		return Series{}, fmt.Errorf("failed to calculate median: %w", err)
	}
	if s.P95, err = stats.Percentile(data, 95); err != nil {
		return Series{}, fmt.Errorf("failed to calculate p95: %w", err)
	}
	if s.Max, err = stats.Max(data); err != nil {
		return Series{}, fmt.Errorf("failed to calculate max: %w", err)
	}
	return s, nil
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}
