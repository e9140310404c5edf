package stats

import (
	"sort"

	"github.com/Lujaina-E/SENG533-Final-Project/pkg/result"
)

// DefaultSLAThresholdMs is the response time above which a request counts
// as an SLA violation.
const DefaultSLAThresholdMs = 3000

// PercentilePoints returns a copy of the row's percentile samples in
// ascending percentile order.
func PercentilePoints(row *result.RawSummaryRow) []result.PercentilePoint {
	points := make([]result.PercentilePoint, len(row.Percentiles))
	copy(points, row.Percentiles)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Percentile < points[j].Percentile
	})
	return points
}

// EstimateViolationPct estimates the percentage of requests slower than
// thresholdMs from ascending percentile samples.
//
// The estimate linearly interpolates between the two samples that bracket
// the threshold. It is only as good as that assumption: sparse buckets or a
// strongly curved distribution between two buckets skew the result. When
// even the lowest sample is at or above the threshold the estimate is 100,
// since nothing bounds the rate below that percentile. No samples means no
// evidence, reported as 0.
func EstimateViolationPct(points []result.PercentilePoint, thresholdMs float64) float64 {
	if len(points) == 0 {
		return 0
	}

	allBelow := true
	for _, p := range points {
		if p.LatencyMs >= thresholdMs {
			allBelow = false
			break
		}
	}
	if allBelow {
		return 0
	}

	if points[0].LatencyMs >= thresholdMs {
		return 100
	}

	for i := 0; i < len(points)-1; i++ {
		lo, hi := points[i], points[i+1]
		if lo.LatencyMs < thresholdMs && thresholdMs <= hi.LatencyMs {
			breach := lo.Percentile
			if hi.LatencyMs != lo.LatencyMs {
				frac := (thresholdMs - lo.LatencyMs) / (hi.LatencyMs - lo.LatencyMs)
				breach = lo.Percentile + frac*(hi.Percentile-lo.Percentile)
			}
			return 100 - breach
		}
	}

	// Not reached: the first sample at or above the threshold always has a
	// predecessor below it once the lowest sample is known to be below.
	return 0
}
