package runner

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"

	"github.com/Lujaina-E/SENG533-Final-Project/pkg/result"
)

// Output file names, relative to the output directory.
const (
	SummaryCSVFile  = "summary.csv"
	SummaryJSONFile = "summary.json"
	MetricsFile     = "metrics.prom"
)

var tableHeader = []string{
	"Users", "Avg (ms)", "Median (ms)", "p95 (ms)", "p99 (ms)", "Max (ms)",
	"Req/s", "Failures", "Total", "Error %", "SLA Viol %",
}

// WriteOutput writes the table, the full report and the metrics exposition
// into the configured output directory.
func (r *Runner) WriteOutput(report *result.Report) error {
	if err := r.fs.MkdirAll(r.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	csvPath := filepath.Join(r.cfg.OutputDir, SummaryCSVFile)
	if err := r.writeFile(csvPath, func(w io.Writer) error {
		return WriteTableCSV(w, report.Table)
	}); err != nil {
		return fmt.Errorf("failed to write summary table: %w", err)
	}
	r.log.WithField("path", csvPath).Info("Wrote summary table")

	jsonPath := filepath.Join(r.cfg.OutputDir, SummaryJSONFile)
	summaryData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := afero.WriteFile(r.fs, jsonPath, summaryData, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	r.log.WithField("path", jsonPath).Info("Wrote report")

	promPath := filepath.Join(r.cfg.OutputDir, MetricsFile)
	if err := r.writeFile(promPath, func(w io.Writer) error {
		return WriteMetrics(w, report)
	}); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	r.log.WithField("path", promPath).Info("Wrote metrics exposition")

	return nil
}

func (r *Runner) writeFile(path string, write func(io.Writer) error) error {
	f, err := r.fs.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteTableCSV writes the table with one row per concurrency level.
func WriteTableCSV(w io.Writer, table result.MetricsTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tableHeader); err != nil {
		return err
	}
	for _, m := range table {
		record := []string{
			strconv.Itoa(m.Concurrency),
			formatFloat(m.AvgMs),
			formatFloat(m.MedianMs),
			formatFloat(m.P95Ms),
			formatFloat(m.P99Ms),
			formatFloat(m.MaxMs),
			formatFloat(m.Throughput),
			strconv.FormatInt(m.Failures, 10),
			strconv.FormatInt(m.Total, 10),
			formatFloat(m.ErrorPct),
			formatFloat(m.SLAViolationPct),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
