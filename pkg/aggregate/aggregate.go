// Package aggregate picks the combined-endpoints row out of a run's summary rows.
package aggregate

import (
	"strings"

	"github.com/Lujaina-E/SENG533-Final-Project/pkg/result"
)

// EmptyInputError is returned when a reducer is handed no rows.
type EmptyInputError struct{}

func (*EmptyInputError) Error() string {
	return "aggregate: no summary rows to reduce"
}

// Predicate reports whether a row is the aggregate row.
type Predicate func(row *result.RawSummaryRow) bool

// Fallback chooses a substitute when no row matches. rows is never empty.
type Fallback func(rows []result.RawSummaryRow) result.RawSummaryRow

// ByName matches rows whose endpoint identifier equals name, ignoring
// surrounding whitespace and case.
func ByName(name string) Predicate {
	name = strings.TrimSpace(name)
	return func(row *result.RawSummaryRow) bool {
		return strings.EqualFold(strings.TrimSpace(row.Name), name)
	}
}

// LastRow returns the final row. Summary writers emit the total last.
func LastRow(rows []result.RawSummaryRow) result.RawSummaryRow {
	return rows[len(rows)-1]
}

// Reducer selects the aggregate row of a run.
type Reducer struct {
	Match    Predicate
	Fallback Fallback
}

// NewReducer returns a reducer matching the named sentinel row, falling back
// to the last row.
func NewReducer(sentinel string) *Reducer {
	return &Reducer{Match: ByName(sentinel), Fallback: LastRow}
}

// Reduce returns the first matching row, or the fallback when none matches.
func (r *Reducer) Reduce(rows []result.RawSummaryRow) (result.RawSummaryRow, error) {
	if len(rows) == 0 {
		return result.RawSummaryRow{}, &EmptyInputError{}
	}
	for i := range rows {
		if r.Match != nil && r.Match(&rows[i]) {
			return rows[i], nil
		}
	}
	if r.Fallback == nil {
		return LastRow(rows), nil
	}
	return r.Fallback(rows), nil
}

// Endpoints returns the rows that are not the aggregate row, in source order.
// When no row matches the predicate every row is returned.
func (r *Reducer) Endpoints(rows []result.RawSummaryRow) []result.RawSummaryRow {
	var out []result.RawSummaryRow
	for i := range rows {
		if r.Match != nil && r.Match(&rows[i]) {
			continue
		}
		out = append(out, rows[i])
	}
	return out
}
