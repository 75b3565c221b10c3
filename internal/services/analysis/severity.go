package analysis

import "github.com/ternarybob/indago/internal/models"

// SeverityBand maps a magnitude threshold to a severity tier. Bands are
// ordered most severe first; the first band whose threshold the magnitude
// exceeds wins, otherwise the table's fallback applies.
type SeverityBand struct {
	Threshold float64
	Severity  models.Severity
}

// SeverityTable is an ordered band list with a fallback tier
type SeverityTable struct {
	Bands    []SeverityBand
	Fallback models.Severity
}

// For returns the severity tier for a magnitude
func (t SeverityTable) For(magnitude float64) models.Severity {
	for _, band := range t.Bands {
		if magnitude > band.Threshold {
			return band.Severity
		}
	}
	return t.Fallback
}

// Severity tables per detector. Trend and comparison magnitudes are absolute
// percentage changes, anomaly magnitudes are z-scores, correlation
// magnitudes are |r|.
var (
	TrendSeverity = SeverityTable{
		Bands: []SeverityBand{
			{Threshold: 50, Severity: models.SeverityCritical},
			{Threshold: 25, Severity: models.SeverityHigh},
			{Threshold: 10, Severity: models.SeverityMedium},
		},
		Fallback: models.SeverityLow,
	}

	AnomalySeverity = SeverityTable{
		Bands: []SeverityBand{
			{Threshold: 4, Severity: models.SeverityCritical},
			{Threshold: 3, Severity: models.SeverityHigh},
		},
		Fallback: models.SeverityMedium,
	}

	CorrelationSeverity = SeverityTable{
		Bands: []SeverityBand{
			{Threshold: 0.8, Severity: models.SeverityHigh},
			{Threshold: 0.6, Severity: models.SeverityMedium},
		},
		Fallback: models.SeverityLow,
	}

	ComparisonSeverity = SeverityTable{
		Bands: []SeverityBand{
			{Threshold: 50, Severity: models.SeverityHigh},
			{Threshold: 25, Severity: models.SeverityMedium},
		},
		Fallback: models.SeverityLow,
	}
)
