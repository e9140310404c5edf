// Package runner implements report generation.
package runner

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Lujaina-E/SENG533-Final-Project/pkg/config"
	"github.com/Lujaina-E/SENG533-Final-Project/pkg/result"
	"github.com/Lujaina-E/SENG533-Final-Project/pkg/stats"
)

// Run builds the table and the report around it. Under the skip policy a
// non-nil report may be returned with the joined errors of dropped levels.
func (r *Runner) Run(ctx context.Context) (*result.Report, error) {
	runs, buildErr := r.collect(ctx)
	if runs == nil {
		return nil, buildErr
	}

	report, err := r.generateReport(runs)
	if err != nil {
		return nil, err
	}
	return report, buildErr
}

func (r *Runner) generateReport(runs []levelRun) (*result.Report, error) {
	table := tableOf(runs)
	report := &result.Report{
		ID:              uuid.NewString(),
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		ThresholdMs:     r.cfg.SLAThresholdMs,
		RequestedLevels: append([]int(nil), r.cfg.Levels...),
		Table:           table,
	}
	for _, run := range runs {
		if !run.present {
			report.MissingLevels = append(report.MissingLevels, run.level)
		}
	}
	if len(table) == 0 {
		return report, nil
	}

	report.KeyMetrics = r.keyMetrics(table)

	top := topRun(runs)
	report.EndpointLevel = top.level
	report.Endpoints = endpointMetrics(r.reducer.Endpoints(top.rows))
	report.ReadWrite = r.readWriteSplit(runs)

	timeline, err := r.timeline(top.level)
	if err != nil {
		if r.cfg.OnMalformed != config.OnMalformedSkip {
			return nil, err
		}
		r.log.WithError(err).WithField("level", top.level).Warn("Ignoring malformed history")
	}
	report.Timeline = timeline

	return report, nil
}

// topRun returns the usable run with the highest concurrency.
func topRun(runs []levelRun) levelRun {
	var top levelRun
	for _, run := range runs {
		if run.present && run.err == nil && run.level > top.level {
			top = run
		}
	}
	return top
}

func (r *Runner) keyMetrics(table result.MetricsTable) *result.KeyMetrics {
	byLevel := append(result.MetricsTable(nil), table...)
	sort.SliceStable(byLevel, func(i, j int) bool {
		return byLevel[i].Concurrency < byLevel[j].Concurrency
	})
	base, peak := byLevel[0], byLevel[len(byLevel)-1]

	km := &result.KeyMetrics{
		BaselineLevel:      base.Concurrency,
		BaselineAvgMs:      base.AvgMs,
		PeakLevel:          peak.Concurrency,
		PeakAvgMs:          peak.AvgMs,
		LatencyDegradation: stats.ChangePct(base.AvgMs, peak.AvgMs),
		ThroughputGain:     stats.ChangePct(base.Throughput, peak.Throughput),
	}
	for i, m := range byLevel {
		if i == 0 || m.Throughput > km.PeakThroughput {
			km.PeakThroughput = m.Throughput
			km.PeakThroughputAt = m.Concurrency
		}
		if m.SLASeverity == result.SeverityOK {
			km.SaturationLevel = m.Concurrency
		}
	}
	return km
}

func endpointMetrics(rows []result.RawSummaryRow) []result.EndpointMetrics {
	out := make([]result.EndpointMetrics, 0, len(rows))
	for i := range rows {
		p95, _ := rows[i].LatencyAt(95)
		out = append(out, result.EndpointMetrics{
			Name:         rows[i].Name,
			Type:         rows[i].Type,
			RequestCount: rows[i].RequestCount,
			AverageMs:    rows[i].AverageMs,
			P95Ms:        p95,
			Throughput:   rows[i].Throughput,
		})
	}
	return out
}

// readWriteSplit averages endpoint latency over every level for the
// configured read and write endpoint groups.
func (r *Runner) readWriteSplit(runs []levelRun) *result.ReadWriteSplit {
	if len(r.cfg.ReadEndpoints) == 0 && len(r.cfg.WriteEndpoints) == 0 {
		return nil
	}

	var reads, writes []float64
	for _, run := range runs {
		if !run.present || run.err != nil {
			continue
		}
		for _, row := range r.reducer.Endpoints(run.rows) {
			switch {
			case matchesEndpoint(&row, r.cfg.ReadEndpoints):
				reads = append(reads, row.AverageMs)
			case matchesEndpoint(&row, r.cfg.WriteEndpoints):
				writes = append(writes, row.AverageMs)
			}
		}
	}
	if len(reads) == 0 && len(writes) == 0 {
		return nil
	}

	split := &result.ReadWriteSplit{
		ReadAvgMs:  stats.Mean(reads),
		WriteAvgMs: stats.Mean(writes),
	}
	if split.ReadAvgMs > 0 {
		split.Ratio = split.WriteAvgMs / split.ReadAvgMs
	}
	return split
}

// matchesEndpoint accepts either the bare name or "METHOD name".
func matchesEndpoint(row *result.RawSummaryRow, names []string) bool {
	qualified := strings.TrimSpace(row.Type + " " + row.Name)
	for _, n := range names {
		if n == row.Name || n == qualified {
			return true
		}
	}
	return false
}

func (r *Runner) timeline(level int) (*result.TimelineSummary, error) {
	samples, ok, err := r.loader.LoadHistory(level)
	if err != nil {
		return nil, err
	}
	if !ok || len(samples) == 0 {
		return nil, nil
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.AverageMs
	}
	series, err := stats.SummarizeSeries(values)
	if err != nil {
		return nil, err
	}
	return &result.TimelineSummary{
		Concurrency: level,
		Samples:     series.Count,
		DurationSec: samples[len(samples)-1].Timestamp.Sub(samples[0].Timestamp).Seconds(),
		MeanMs:      series.Mean,
		MedianMs:    series.Median,
		P95Ms:       series.P95,
		MaxMs:       series.Max,
	}, nil
}
