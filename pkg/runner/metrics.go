package runner

import (
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/Lujaina-E/SENG533-Final-Project/pkg/result"
)

const metricsNamespace = "loadsummary"

// WriteMetrics renders the table in the Prometheus text format, one series
// per concurrency level, suitable for a node-exporter textfile collector.
func WriteMetrics(w io.Writer, report *result.Report) error {
	reg := prometheus.NewRegistry()

	latency := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "latency_ms",
		Help:      "Response time of the aggregate row, by statistic.",
	}, []string{"concurrency", "stat"})
	throughput := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "throughput_rps",
		Help:      "Measured requests per second.",
	}, []string{"concurrency"})
	requests := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "requests",
		Help:      "Requests issued during the run.",
	}, []string{"concurrency"})
	failures := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "failures",
		Help:      "Requests that failed during the run.",
	}, []string{"concurrency"})
	errorPct := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "error_percent",
		Help:      "Failed requests as a percentage of all requests.",
	}, []string{"concurrency"})
	violation := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "sla_violation_percent",
		Help:      "Estimated percentage of requests slower than the SLA threshold.",
	}, []string{"concurrency"})
	threshold := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "sla_threshold_ms",
		Help:      "SLA threshold used for the violation estimate.",
	})

	reg.MustRegister(latency, throughput, requests, failures, errorPct, violation, threshold)

	threshold.Set(report.ThresholdMs)
	for _, m := range report.Table {
		level := strconv.Itoa(m.Concurrency)
		latency.WithLabelValues(level, "avg").Set(m.AvgMs)
		latency.WithLabelValues(level, "median").Set(m.MedianMs)
		latency.WithLabelValues(level, "p95").Set(m.P95Ms)
		latency.WithLabelValues(level, "p99").Set(m.P99Ms)
		latency.WithLabelValues(level, "max").Set(m.MaxMs)
		throughput.WithLabelValues(level).Set(m.Throughput)
		requests.WithLabelValues(level).Set(float64(m.Total))
		failures.WithLabelValues(level).Set(float64(m.Failures))
		errorPct.WithLabelValues(level).Set(m.ErrorPct)
		violation.WithLabelValues(level).Set(m.SLAViolationPct)
	}

	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
