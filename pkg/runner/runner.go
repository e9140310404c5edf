// Package runner builds the cross-run metrics table and its report artifacts.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/Lujaina-E/SENG533-Final-Project/pkg/aggregate"
	"github.com/Lujaina-E/SENG533-Final-Project/pkg/config"
	"github.com/Lujaina-E/SENG533-Final-Project/pkg/result"
	"github.com/Lujaina-E/SENG533-Final-Project/pkg/stats"
	"github.com/Lujaina-E/SENG533-Final-Project/pkg/summary"
)

// Runner drives loading, reduction and derivation across concurrency levels.
type Runner struct {
	cfg     *config.Config
	fs      afero.Fs
	loader  *summary.Loader
	reducer *aggregate.Reducer
	log     logrus.FieldLogger
}

// New creates a runner reading and writing through fsys.
func New(cfg *config.Config, fsys afero.Fs, log logrus.FieldLogger) (*Runner, error) {
	s, err := cfg.ResolveSchema()
	if err != nil {
		return nil, err
	}
	loader := summary.NewLoader(fsys, cfg.RawDir, s)
	if cfg.StatsPattern != "" {
		loader.StatsPattern = cfg.StatsPattern
	}
	if cfg.HistoryPattern != "" {
		loader.HistoryPattern = cfg.HistoryPattern
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{
		cfg:     cfg,
		fs:      fsys,
		loader:  loader,
		reducer: aggregate.NewReducer(s.AggregateName),
		log:     log,
	}, nil
}

// WithReducer replaces the aggregate-row selection strategy.
func (r *Runner) WithReducer(reducer *aggregate.Reducer) *Runner {
	r.reducer = reducer
	return r
}

// levelRun is everything derived from one concurrency level.
type levelRun struct {
	level   int
	present bool
	rows    []result.RawSummaryRow
	metrics result.RunMetrics
	err     error
}

// Build returns one RunMetrics per level that has a summary, in the
// configured level order. Under the skip policy, the table is returned
// together with the joined errors of the levels that were dropped.
func (r *Runner) Build(ctx context.Context) (result.MetricsTable, error) {
	runs, err := r.collect(ctx)
	if err != nil && runs == nil {
		return nil, err
	}
	return tableOf(runs), err
}

func tableOf(runs []levelRun) result.MetricsTable {
	table := make(result.MetricsTable, 0, len(runs))
	for _, run := range runs {
		if run.present && run.err == nil {
			table = append(table, run.metrics)
		}
	}
	return table
}

// collect processes every level and applies the malformed-input policy.
// It returns nil runs when the build is aborted.
func (r *Runner) collect(ctx context.Context) ([]levelRun, error) {
	runs := make([]levelRun, len(r.cfg.Levels))

	if r.cfg.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, level := range r.cfg.Levels {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				runs[i] = r.processLevel(level)
				if runs[i].err != nil && r.cfg.OnMalformed == config.OnMalformedAbort {
					return runs[i].err
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			// Report the failure of the earliest level, not whichever finished first.
			for _, run := range runs {
				if run.err != nil {
					return nil, run.err
				}
			}
			return nil, err
		}
	} else {
		for i, level := range r.cfg.Levels {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			runs[i] = r.processLevel(level)
			if runs[i].err != nil && r.cfg.OnMalformed == config.OnMalformedAbort {
				return nil, runs[i].err
			}
		}
	}

	var skipped []error
	for _, run := range runs {
		log := r.log.WithField("level", run.level)
		switch {
		case run.err != nil:
			log.WithError(run.err).Warn("Skipping level with malformed summary")
			skipped = append(skipped, run.err)
		case !run.present:
			log.WithField("path", r.loader.StatsPath(run.level)).Info("No summary for level, skipping")
		default:
			log.WithFields(logrus.Fields{
				"requests":      run.metrics.Total,
				"error_pct":     run.metrics.ErrorPct,
				"sla_violation": run.metrics.SLAViolationPct,
			}).Debug("Derived level metrics")
		}
	}
	return runs, errors.Join(skipped...)
}

func (r *Runner) processLevel(level int) levelRun {
	run := levelRun{level: level}

	rows, ok, err := r.loader.Load(level)
	if err != nil {
		run.present = ok
		run.err = fmt.Errorf("level %d: %w", level, err)
		return run
	}
	if !ok {
		return run
	}
	run.present = true
	run.rows = rows

	agg, err := r.reducer.Reduce(rows)
	if err != nil {
		run.err = fmt.Errorf("level %d: %w", level, err)
		return run
	}
	run.metrics = r.deriveMetrics(level, &agg)
	return run
}

func (r *Runner) deriveMetrics(level int, agg *result.RawSummaryRow) result.RunMetrics {
	p95, _ := agg.LatencyAt(95)
	p99, _ := agg.LatencyAt(99)
	violation := stats.EstimateViolationPct(stats.PercentilePoints(agg), r.cfg.SLAThresholdMs)

	return result.RunMetrics{
		Concurrency:     level,
		AvgMs:           agg.AverageMs,
		MedianMs:        agg.MedianMs,
		P95Ms:           p95,
		P99Ms:           p99,
		MaxMs:           agg.MaxMs,
		Throughput:      agg.Throughput,
		Failures:        agg.FailureCount,
		Total:           agg.RequestCount,
		ErrorPct:        stats.ErrorPct(agg.FailureCount, agg.RequestCount),
		SLAViolationPct: violation,
		SLASeverity:     r.cfg.Bands.Classify(violation),
	}
}
