package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Lujaina-E/SENG533-Final-Project/pkg/result"
)

// printReport writes the aligned per-level table and key metrics.
func printReport(w io.Writer, report *result.Report) {
	fmt.Fprintf(w, "Cross-Run Summary (SLA threshold %.0f ms)\n", report.ThresholdMs)
	fmt.Fprintf(w, "==================\n")

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Users\tAvg (ms)\tMedian\tp95\tp99\tMax\tReq/s\tFailures\tTotal\tError %\tSLA Viol %\tStatus\t")
	for _, m := range report.Table {
		fmt.Fprintf(tw, "%d\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.2f\t%d\t%d\t%.2f\t%.2f\t%s\t\n",
			m.Concurrency, m.AvgMs, m.MedianMs, m.P95Ms, m.P99Ms, m.MaxMs,
			m.Throughput, m.Failures, m.Total, m.ErrorPct, m.SLAViolationPct, m.SLASeverity)
	}
	tw.Flush()

	if len(report.MissingLevels) > 0 {
		fmt.Fprintf(w, "\nMissing levels: %s\n", joinInts(report.MissingLevels))
	}

	if km := report.KeyMetrics; km != nil {
		fmt.Fprintf(w, "\nKey Metrics\n")
		fmt.Fprintf(w, "Baseline:     %d users, %.1f ms avg\n", km.BaselineLevel, km.BaselineAvgMs)
		fmt.Fprintf(w, "Peak:         %d users, %.1f ms avg\n", km.PeakLevel, km.PeakAvgMs)
		fmt.Fprintf(w, "Degradation:  %+.1f%%\n", km.LatencyDegradation)
		fmt.Fprintf(w, "Throughput:   %.2f req/s max at %d users (%+.1f%% vs baseline)\n",
			km.PeakThroughput, km.PeakThroughputAt, km.ThroughputGain)
		if km.SaturationLevel > 0 {
			fmt.Fprintf(w, "Saturation:   %d users is the highest level within SLA\n", km.SaturationLevel)
		} else {
			fmt.Fprintf(w, "Saturation:   no level within SLA\n")
		}
	}

	if rw := report.ReadWrite; rw != nil {
		fmt.Fprintf(w, "Read/Write:   %.1f ms / %.1f ms (%.2fx)\n", rw.ReadAvgMs, rw.WriteAvgMs, rw.Ratio)
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
