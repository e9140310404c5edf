// Package schema describes the column layout of per-run summary files.
package schema

import "strings"

// PercentileColumn maps a percentile to the header(s) that carry it.
type PercentileColumn struct {
	Percentile float64
	Columns    []string // first match wins
}

// Schema names the columns of one summary format.
type Schema struct {
	Name string

	// AggregateName is the endpoint identifier of the combined row.
	AggregateName string

	TypeColumn           string
	NameColumn           string
	RequestCountColumn   string
	FailureCountColumn   string
	MedianColumn         string
	AverageColumn        string
	MinColumn            string
	MaxColumn            string
	ThroughputColumn     string
	FailuresPerSecColumn string

	// Percentiles must be declared in ascending order.
	Percentiles []PercentileColumn

	// History columns.
	TimestampColumn      string
	UserCountColumn      string
	HistoryAverageColumn []string
}

// Required returns the columns a stats file cannot be parsed without.
func (s *Schema) Required() []string {
	return []string{s.NameColumn, s.RequestCountColumn, s.FailureCountColumn}
}

// IsBlank reports whether a cell value means "no data".
func IsBlank(v string) bool {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "", "N/A", "NAN", "NONE":
		return true
	}
	return false
}

var locustBreakpoints = []struct {
	percentile float64
	label      string
}{
	{50, "50%"}, {66, "66%"}, {75, "75%"}, {80, "80%"}, {90, "90%"},
	{95, "95%"}, {98, "98%"}, {99, "99%"}, {99.9, "99.9%"}, {99.99, "99.99%"},
	{100, "100%"},
}

func locustPercentiles(suffix string) []PercentileColumn {
	cols := make([]PercentileColumn, 0, len(locustBreakpoints))
	for _, b := range locustBreakpoints {
		names := []string{b.label}
		if suffix != "" {
			names = append(names, b.label+suffix)
		}
		cols = append(cols, PercentileColumn{Percentile: b.percentile, Columns: names})
	}
	return cols
}

// Locust is the stats CSV written by `locust --csv`.
func Locust() *Schema {
	return &Schema{
		Name:                 "locust",
		AggregateName:        "Aggregated",
		TypeColumn:           "Type",
		NameColumn:           "Name",
		RequestCountColumn:   "Request Count",
		FailureCountColumn:   "Failure Count",
		MedianColumn:         "Median Response Time",
		AverageColumn:        "Average Response Time",
		MinColumn:            "Min Response Time",
		MaxColumn:            "Max Response Time",
		ThroughputColumn:     "Requests/s",
		FailuresPerSecColumn: "Failures/s",
		Percentiles:          locustPercentiles(" Response Time"),
		TimestampColumn:      "Timestamp",
		UserCountColumn:      "User Count",
		HistoryAverageColumn: []string{"Total Average Response Time", "Average Response Time"},
	}
}

// LocustLegacy is the pre-1.0 Locust stats CSV layout.
func LocustLegacy() *Schema {
	return &Schema{
		Name:                 "locust-legacy",
		AggregateName:        "Total",
		TypeColumn:           "Method",
		NameColumn:           "Name",
		RequestCountColumn:   "# requests",
		FailureCountColumn:   "# failures",
		MedianColumn:         "Median response time",
		AverageColumn:        "Average response time",
		MinColumn:            "Min response time",
		MaxColumn:            "Max response time",
		ThroughputColumn:     "Requests/s",
		FailuresPerSecColumn: "Failures/s",
		Percentiles:          locustPercentiles(""),
		TimestampColumn:      "Timestamp",
		UserCountColumn:      "User count",
		HistoryAverageColumn: []string{"Average response time"},
	}
}

func init() {
	Register(Locust().Name, Locust)
	Register(LocustLegacy().Name, LocustLegacy)
}
