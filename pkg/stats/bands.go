package stats

import "github.com/Lujaina-E/SENG533-Final-Project/pkg/result"

// Bands are the violation-rate cut-offs used to grade a run.
type Bands struct {
	WarnPct     float64 `yaml:"warn_pct" json:"warn_pct"`
	CriticalPct float64 `yaml:"critical_pct" json:"critical_pct"`
}

// DefaultBands returns the 5% warning and 20% critical bands.
func DefaultBands() Bands {
	return Bands{WarnPct: 5, CriticalPct: 20}
}

// Classify grades a violation percentage.
func (b Bands) Classify(pct float64) result.Severity {
	switch {
	case pct >= b.CriticalPct:
		return result.SeverityCritical
	case pct >= b.WarnPct:
		return result.SeverityWarn
	default:
		return result.SeverityOK
	}
}
