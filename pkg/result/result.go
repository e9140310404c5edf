// Package result defines summary rows, derived metrics and report types.
package result

import "time"

// PercentilePoint is one (percentile, latency) sample taken from a summary row.
type PercentilePoint struct {
	Percentile float64 `json:"percentile"`
	LatencyMs  float64 `json:"latency_ms"`
}

// RawSummaryRow holds one row of a per-run summary as reported by the load generator.
type RawSummaryRow struct {
	Type           string  `json:"type,omitempty"` // HTTP method, empty on the aggregate row
	Name           string  `json:"name"`
	RequestCount   int64   `json:"request_count"`
	FailureCount   int64   `json:"failure_count"`
	MedianMs       float64 `json:"median_ms"`
	AverageMs      float64 `json:"average_ms"`
	MinMs          float64 `json:"min_ms"`
	MaxMs          float64 `json:"max_ms"`
	Throughput     float64 `json:"throughput"` // requests per second
	FailuresPerSec float64 `json:"failures_per_sec"`

	// Percentiles is ascending by percentile; columns absent from the
	// source are dropped rather than zero-filled.
	Percentiles []PercentilePoint `json:"percentiles,omitempty"`
}

// LatencyAt returns the latency recorded for percentile p, if the row has it.
func (r *RawSummaryRow) LatencyAt(p float64) (float64, bool) {
	for _, pt := range r.Percentiles {
		if pt.Percentile == p {
			return pt.LatencyMs, true
		}
	}
	return 0, false
}

// Severity classifies an SLA violation rate.
type Severity string

const (
	SeverityOK       Severity = "ok"
	SeverityWarn     Severity = "warn"
	SeverityCritical Severity = "critical"
)

// RunMetrics is the normalized row derived for one concurrency level.
type RunMetrics struct {
	Concurrency     int      `json:"concurrency"`
	AvgMs           float64  `json:"avg_ms"`
	MedianMs        float64  `json:"median_ms"`
	P95Ms           float64  `json:"p95_ms"`
	P99Ms           float64  `json:"p99_ms"`
	MaxMs           float64  `json:"max_ms"`
	Throughput      float64  `json:"throughput"`
	Failures        int64    `json:"failures"`
	Total           int64    `json:"total"`
	ErrorPct        float64  `json:"error_pct"`
	SLAViolationPct float64  `json:"sla_violation_pct"`
	SLASeverity     Severity `json:"sla_severity"`
}

// MetricsTable is one RunMetrics per concurrency level that had data, in the
// order the levels were requested.
type MetricsTable []RunMetrics

// Levels returns the concurrency levels present in the table.
func (t MetricsTable) Levels() []int {
	levels := make([]int, len(t))
	for i, m := range t {
		levels[i] = m.Concurrency
	}
	return levels
}

// Lookup returns the row for the given concurrency level.
func (t MetricsTable) Lookup(concurrency int) (RunMetrics, bool) {
	for _, m := range t {
		if m.Concurrency == concurrency {
			return m, true
		}
	}
	return RunMetrics{}, false
}

// HistorySample is one aggregate sample from a run's time-series history.
type HistorySample struct {
	Timestamp      time.Time `json:"timestamp"`
	UserCount      int       `json:"user_count"`
	Throughput     float64   `json:"throughput"`
	FailuresPerSec float64   `json:"failures_per_sec"`
	AverageMs      float64   `json:"average_ms"`
}

// EndpointMetrics summarizes one endpoint at a single concurrency level.
type EndpointMetrics struct {
	Name         string  `json:"name"`
	Type         string  `json:"type,omitempty"`
	RequestCount int64   `json:"request_count"`
	AverageMs    float64 `json:"average_ms"`
	P95Ms        float64 `json:"p95_ms"`
	Throughput   float64 `json:"throughput"`
}

// ReadWriteSplit compares the mean latency of read and write endpoints.
type ReadWriteSplit struct {
	ReadAvgMs  float64 `json:"read_avg_ms"`
	WriteAvgMs float64 `json:"write_avg_ms"`
	Ratio      float64 `json:"ratio"` // write / read, 0 when reads are unknown
}

// KeyMetrics holds headline figures derived from the whole table.
type KeyMetrics struct {
	BaselineLevel      int     `json:"baseline_level"`
	BaselineAvgMs      float64 `json:"baseline_avg_ms"`
	PeakLevel          int     `json:"peak_level"`
	PeakAvgMs          float64 `json:"peak_avg_ms"`
	LatencyDegradation float64 `json:"latency_degradation_pct"`
	ThroughputGain     float64 `json:"throughput_gain_pct"`
	PeakThroughput     float64 `json:"peak_throughput"`
	PeakThroughputAt   int     `json:"peak_throughput_level"`
	SaturationLevel    int     `json:"saturation_level"` // 0 when every level breaches the warn band
}

// TimelineSummary condenses a run's history into a few statistics.
type TimelineSummary struct {
	Concurrency int     `json:"concurrency"`
	Samples     int     `json:"samples"`
	DurationSec float64 `json:"duration_sec"`
	MeanMs      float64 `json:"mean_ms"`
	MedianMs    float64 `json:"median_ms"`
	P95Ms       float64 `json:"p95_ms"`
	MaxMs       float64 `json:"max_ms"`
}

// Report is the full set of artifacts produced by one build.
type Report struct {
	ID              string            `json:"id"`
	GeneratedAt     string            `json:"generated_at"`
	ThresholdMs     float64           `json:"sla_threshold_ms"`
	RequestedLevels []int             `json:"requested_levels"`
	MissingLevels   []int             `json:"missing_levels,omitempty"`
	Table           MetricsTable      `json:"table"`
	KeyMetrics      *KeyMetrics       `json:"key_metrics,omitempty"`
	EndpointLevel   int               `json:"endpoint_level,omitempty"`
	Endpoints       []EndpointMetrics `json:"endpoints,omitempty"`
	ReadWrite       *ReadWriteSplit   `json:"read_write,omitempty"`
	Timeline        *TimelineSummary  `json:"timeline,omitempty"`
}
