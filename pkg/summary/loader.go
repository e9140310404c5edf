// Package summary loads per-run summary files produced by the load generator.
package summary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/Lujaina-E/SENG533-Final-Project/pkg/result"
	"github.com/Lujaina-E/SENG533-Final-Project/pkg/schema"
)

const (
	DefaultStatsPattern   = "%d_users_stats.csv"
	DefaultHistoryPattern = "%d_users_stats_history.csv"
)

var errNoRows = errors.New("no data rows")

// Loader reads summary files for a concurrency level from a directory.
// A missing file is reported as absent, never as an error.
type Loader struct {
	fs     afero.Fs
	dir    string
	schema *schema.Schema

	StatsPattern   string
	HistoryPattern string
}

// NewLoader creates a loader rooted at dir.
func NewLoader(fsys afero.Fs, dir string, s *schema.Schema) *Loader {
	return &Loader{
		fs:             fsys,
		dir:            dir,
		schema:         s,
		StatsPattern:   DefaultStatsPattern,
		HistoryPattern: DefaultHistoryPattern,
	}
}

// StatsPath returns the stats file path for a level.
func (l *Loader) StatsPath(level int) string {
	return filepath.Join(l.dir, fmt.Sprintf(l.StatsPattern, level))
}

// HistoryPath returns the history file path for a level.
func (l *Loader) HistoryPath(level int) string {
	return filepath.Join(l.dir, fmt.Sprintf(l.HistoryPattern, level))
}

// Load reads the stats rows for a level. ok is false when no file exists.
func (l *Loader) Load(level int) (rows []result.RawSummaryRow, ok bool, err error) {
	path := l.StatsPath(level)
	f, err := l.fs.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to open summary file: %w", err)
	}
	defer f.Close()

	rows, err = ParseStats(f, l.schema, path)
	if err != nil {
		return nil, true, err
	}
	return rows, true, nil
}

// LoadHistory reads the aggregate time series for a level. ok is false when
// no history file exists.
func (l *Loader) LoadHistory(level int) (samples []result.HistorySample, ok bool, err error) {
	path := l.HistoryPath(level)
	f, err := l.fs.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	samples, err = ParseHistory(f, l.schema, path)
	if err != nil {
		return nil, true, err
	}
	return samples, true, nil
}

// table is a CSV file indexed by header name.
type table struct {
	path    string
	reader  *csv.Reader
	columns map[string]int
}

func openTable(r io.Reader, path string) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &MalformedInputError{Path: path, Err: errors.New("empty file")}
	}
	if err != nil {
		return nil, &MalformedInputError{Path: path, Line: 1, Err: err}
	}

	t := &table{path: path, reader: cr, columns: make(map[string]int, len(header))}
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		t.columns[strings.TrimSpace(name)] = i
	}
	return t, nil
}

func (t *table) has(column string) bool {
	_, ok := t.columns[column]
	return column != "" && ok
}

// first returns the first of the candidate columns present in the header.
func (t *table) first(candidates []string) string {
	for _, c := range candidates {
		if t.has(c) {
			return c
		}
	}
	return ""
}

func (t *table) require(columns ...string) error {
	for _, c := range columns {
		if !t.has(c) {
			return &MalformedInputError{Path: t.path, Column: c, Err: errors.New("required column missing")}
		}
	}
	return nil
}

// record is one CSV record with its source line.
type record struct {
	t      *table
	line   int
	fields []string
}

func (t *table) next() (*record, error) {
	fields, err := t.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, &MalformedInputError{Path: t.path, Line: perr.Line, Err: perr.Err}
		}
		return nil, &MalformedInputError{Path: t.path, Err: err}
	}
	line, _ := t.reader.FieldPos(0)
	return &record{t: t, line: line, fields: fields}, nil
}

func (r *record) raw(column string) string {
	idx, ok := r.t.columns[column]
	if !ok || column == "" {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

func (r *record) malformed(column string, err error) error {
	return &MalformedInputError{Path: r.t.path, Line: r.line, Column: column, Err: err}
}

// count parses a required non-negative integer cell.
func (r *record) count(column string) (int64, error) {
	v := r.raw(column)
	if schema.IsBlank(v) {
		return 0, r.malformed(column, errors.New("value is required"))
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, r.malformed(column, err)
	}
	if f < 0 || f != float64(int64(f)) {
		return 0, r.malformed(column, fmt.Errorf("invalid count %q", v))
	}
	return int64(f), nil
}

// optional parses a non-negative float cell; ok is false for blank or absent cells.
func (r *record) optional(column string) (v float64, ok bool, err error) {
	s := r.raw(column)
	if schema.IsBlank(s) {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, r.malformed(column, err)
	}
	if v < 0 {
		return 0, false, r.malformed(column, fmt.Errorf("negative value %q", s))
	}
	return v, true, nil
}

// ParseStats parses a stats CSV into rows, preserving source order.
func ParseStats(r io.Reader, s *schema.Schema, path string) ([]result.RawSummaryRow, error) {
	t, err := openTable(r, path)
	if err != nil {
		return nil, err
	}
	if err := t.require(s.Required()...); err != nil {
		return nil, err
	}

	type pctColumn struct {
		percentile float64
		column     string
	}
	var pcts []pctColumn
	for _, pc := range s.Percentiles {
		if col := t.first(pc.Columns); col != "" {
			pcts = append(pcts, pctColumn{percentile: pc.Percentile, column: col})
		}
	}

	var rows []result.RawSummaryRow
	for {
		rec, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := result.RawSummaryRow{
			Type: rec.raw(s.TypeColumn),
			Name: rec.raw(s.NameColumn),
		}
		if row.RequestCount, err = rec.count(s.RequestCountColumn); err != nil {
			return nil, err
		}
		if row.FailureCount, err = rec.count(s.FailureCountColumn); err != nil {
			return nil, err
		}

		scalars := []struct {
			column string
			dst    *float64
		}{
			{s.MedianColumn, &row.MedianMs},
			{s.AverageColumn, &row.AverageMs},
			{s.MinColumn, &row.MinMs},
			{s.MaxColumn, &row.MaxMs},
			{s.ThroughputColumn, &row.Throughput},
			{s.FailuresPerSecColumn, &row.FailuresPerSec},
		}
		for _, sc := range scalars {
			v, _, err := rec.optional(sc.column)
			if err != nil {
				return nil, err
			}
			*sc.dst = v
		}

		for _, pc := range pcts {
			v, ok, err := rec.optional(pc.column)
			if err != nil {
				return nil, err
			}
			if ok {
				row.Percentiles = append(row.Percentiles, result.PercentilePoint{Percentile: pc.percentile, LatencyMs: v})
			}
		}

		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, &MalformedInputError{Path: path, Err: errNoRows}
	}
	return rows, nil
}

// ParseHistory parses a history CSV, keeping only the aggregate series.
// Files without an aggregate series are used as-is.
func ParseHistory(r io.Reader, s *schema.Schema, path string) ([]result.HistorySample, error) {
	t, err := openTable(r, path)
	if err != nil {
		return nil, err
	}
	if err := t.require(s.TimestampColumn); err != nil {
		return nil, err
	}
	avgColumn := t.first(s.HistoryAverageColumn)
	if avgColumn == "" {
		return nil, &MalformedInputError{Path: path, Column: s.HistoryAverageColumn[0], Err: errors.New("required column missing")}
	}

	var all, aggregate []result.HistorySample
	for {
		rec, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		avg, ok, err := rec.optional(avgColumn)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		ts, err := strconv.ParseInt(rec.raw(s.TimestampColumn), 10, 64)
		if err != nil {
			return nil, rec.malformed(s.TimestampColumn, err)
		}
		sample := result.HistorySample{
			Timestamp: time.Unix(ts, 0).UTC(),
			AverageMs: avg,
		}
		if users, ok, err := rec.optional(s.UserCountColumn); err != nil {
			return nil, err
		} else if ok {
			sample.UserCount = int(users)
		}
		if sample.Throughput, _, err = rec.optional(s.ThroughputColumn); err != nil {
			return nil, err
		}
		if sample.FailuresPerSec, _, err = rec.optional(s.FailuresPerSecColumn); err != nil {
			return nil, err
		}

		all = append(all, sample)
		if rec.raw(s.NameColumn) == s.AggregateName {
			aggregate = append(aggregate, sample)
		}
	}

	if len(aggregate) > 0 {
		return aggregate, nil
	}
	return all, nil
}
