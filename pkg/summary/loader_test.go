package summary

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lujaina-E/SENG533-Final-Project/pkg/result"
	"github.com/Lujaina-E/SENG533-Final-Project/pkg/schema"
)

const statsCSV = `Type,Name,Request Count,Failure Count,Median Response Time,Average Response Time,Min Response Time,Max Response Time,Average Content Size,Requests/s,Failures/s,50%,66%,75%,80%,90%,95%,98%,99%,99.9%,99.99%,100%
GET,/home,120,2,700,820.5,90,4900,3100,4.1,0.07,700,900,1000,1100,1900,2400,3300,4100,4900,4900,4900
GET,/product?id=[id],80,0,900,1010.2,120,5000,9800,2.7,0,900,1100,1300,1500,2100,2600,3500,4300,5000,5000,5000
,Aggregated,200,2,800,896.4,90,5000,5800,6.8,0.07,800,1000,1100,1200,2000,2500,3400,4200,5000,5000,5000
`

func newTestLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, "raw/"+name, []byte(content), 0644))
	}
	return NewLoader(fsys, "raw", schema.Locust())
}

func TestLoader_Load(t *testing.T) {
	loader := newTestLoader(t, map[string]string{"10_users_stats.csv": statsCSV})

	rows, ok, err := loader.Load(10)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, rows, 3)

	assert.Equal(t, "/home", rows[0].Name)
	assert.Equal(t, "GET", rows[0].Type)
	assert.Equal(t, "Aggregated", rows[2].Name)

	agg := rows[2]
	assert.EqualValues(t, 200, agg.RequestCount)
	assert.EqualValues(t, 2, agg.FailureCount)
	assert.Equal(t, 896.4, agg.AverageMs)
	assert.Equal(t, 800.0, agg.MedianMs)
	assert.Equal(t, 5000.0, agg.MaxMs)
	assert.Equal(t, 6.8, agg.Throughput)
	require.Len(t, agg.Percentiles, 11)
	assert.Equal(t, result.PercentilePoint{Percentile: 50, LatencyMs: 800}, agg.Percentiles[0])
	assert.Equal(t, result.PercentilePoint{Percentile: 100, LatencyMs: 5000}, agg.Percentiles[10])
}

func TestLoader_LoadAbsent(t *testing.T) {
	loader := newTestLoader(t, map[string]string{"10_users_stats.csv": statsCSV})

	rows, ok, err := loader.Load(50)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, rows)
}

func TestLoader_CustomPattern(t *testing.T) {
	loader := newTestLoader(t, map[string]string{"results_25users_stats.csv": statsCSV})
	loader.StatsPattern = "results_%dusers_stats.csv"

	rows, ok, err := loader.Load(25)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, rows, 3)
}

func TestParseStats_OptionalColumns(t *testing.T) {
	input := `Name,Request Count,Failure Count,95% Response Time,99%,Requests/s
/a,10,0,N/A,,1.5
Aggregated,10,0,2500,4200,1.5
`
	rows, err := ParseStats(strings.NewReader(input), schema.Locust(), "mem.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Empty(t, rows[0].Percentiles, "blank percentile cells must be dropped")
	assert.Equal(t, []result.PercentilePoint{
		{Percentile: 95, LatencyMs: 2500},
		{Percentile: 99, LatencyMs: 4200},
	}, rows[1].Percentiles)
	assert.Zero(t, rows[1].AverageMs)
}

func TestParseStats_LegacySchema(t *testing.T) {
	input := `"Method","Name","# requests","# failures","Median response time","Average response time","Min response time","Max response time","Average Content Size","Requests/s"
"GET","/",31,0,170,181,150,280,1500,1.03
"None","Total",31,0,170,181,150,280,1500,1.03
`
	rows, err := ParseStats(strings.NewReader(input), schema.LocustLegacy(), "legacy.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Total", rows[1].Name)
	assert.EqualValues(t, 31, rows[1].RequestCount)
	assert.Equal(t, 181.0, rows[1].AverageMs)
}

func TestParseStats_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		column string
	}{
		{
			name:  "empty file",
			input: "",
		},
		{
			name:  "header only",
			input: "Name,Request Count,Failure Count\n",
		},
		{
			name:   "missing failure count column",
			input:  "Name,Request Count\nAggregated,10\n",
			column: "Failure Count",
		},
		{
			name:   "non numeric request count",
			input:  "Name,Request Count,Failure Count\nAggregated,ten,0\n",
			line:   2,
			column: "Request Count",
		},
		{
			name:   "blank failure count",
			input:  "Name,Request Count,Failure Count\nAggregated,10,\n",
			line:   2,
			column: "Failure Count",
		},
		{
			name:   "negative count",
			input:  "Name,Request Count,Failure Count\nAggregated,-1,0\n",
			line:   2,
			column: "Request Count",
		},
		{
			name:   "garbage percentile",
			input:  "Name,Request Count,Failure Count,95%\nAggregated,10,0,fast\n",
			line:   2,
			column: "95%",
		},
		{
			name:  "ragged row",
			input: "Name,Request Count,Failure Count\nAggregated,10\n",
			line:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStats(strings.NewReader(tt.input), schema.Locust(), "bad.csv")
			require.Error(t, err)

			var merr *MalformedInputError
			require.True(t, errors.As(err, &merr), "expected MalformedInputError, got %T", err)
			assert.Equal(t, "bad.csv", merr.Path)
			assert.Equal(t, tt.line, merr.Line)
			assert.Equal(t, tt.column, merr.Column)
		})
	}
}

func TestLoader_LoadMalformedIsNotAbsent(t *testing.T) {
	loader := newTestLoader(t, map[string]string{"10_users_stats.csv": "Name,Request Count\n"})

	_, ok, err := loader.Load(10)
	assert.True(t, ok)
	var merr *MalformedInputError
	assert.ErrorAs(t, err, &merr)
}

func TestMalformedInputError_Error(t *testing.T) {
	err := &MalformedInputError{Path: "raw/10.csv", Line: 3, Column: "Request Count", Err: errors.New("boom")}
	assert.Equal(t, `malformed summary raw/10.csv: line 3: column "Request Count": boom`, err.Error())
}

const historyCSV = `Timestamp,User Count,Type,Name,Requests/s,Failures/s,50%,Total Request Count,Total Failure Count,Total Median Response Time,Total Average Response Time
1700000000,10,,Aggregated,0.000000,0.000000,N/A,0,0,0,N/A
1700000001,10,GET,/home,2.0,0.0,500,2,0,500,510.0
1700000001,10,,Aggregated,2.000000,0.000000,500,2,0,500,510.0
1700000002,10,,Aggregated,4.000000,0.500000,600,6,1,600,640.5
`

func TestLoader_LoadHistory(t *testing.T) {
	loader := newTestLoader(t, map[string]string{"10_users_stats_history.csv": historyCSV})

	samples, ok, err := loader.LoadHistory(10)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, samples, 2, "N/A average and per-endpoint rows are skipped")

	assert.Equal(t, time.Unix(1700000001, 0).UTC(), samples[0].Timestamp)
	assert.Equal(t, 510.0, samples[0].AverageMs)
	assert.Equal(t, 10, samples[1].UserCount)
	assert.Equal(t, 4.0, samples[1].Throughput)
	assert.Equal(t, 0.5, samples[1].FailuresPerSec)

	_, ok, err = loader.LoadHistory(25)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseHistory_MissingAverage(t *testing.T) {
	_, err := ParseHistory(strings.NewReader("Timestamp,Name\n1,Aggregated\n"), schema.Locust(), "h.csv")
	var merr *MalformedInputError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "Total Average Response Time", merr.Column)
}
