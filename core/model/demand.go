package model

import "time"

// DemandRecord aggregates observations for one (cell, hour) pair, together
// with lagged and rolling statistics of that cell's own history. Records are
// created once per feature-pipeline run and superseded wholesale by the next.
type DemandRecord struct {
	CellID    string
	Hour      time.Time // timestamp floored to the hour
	Year      int
	Month     int
	Day       int
	HourOfDay int
	DayOfWeek int // 0=Monday .. 6=Sunday
	IsWeekend bool

	DemandCount    int
	UniqueVehicles int
	CenterLat      float64
	CenterLon      float64

	Lag1h      float64
	Lag24h     float64
	Lag168h    float64
	Rolling3h  float64
	Rolling24h float64
}

// CellSummary is one row of the cell reference table produced alongside the
// demand features.
type CellSummary struct {
	CellID      string
	CenterLat   float64
	CenterLon   float64
	TotalDemand int
	AvgDemand   float64
	RecordCount int
}

// DemandLevel buckets a predicted demand value into a coarse label.
type DemandLevel string

const (
	DemandLow      DemandLevel = "LOW"
	DemandMedium   DemandLevel = "MEDIUM"
	DemandHigh     DemandLevel = "HIGH"
	DemandCritical DemandLevel = "CRITICAL"
)

// ClassifyDemand maps a predicted count onto a DemandLevel.
func ClassifyDemand(demand float64) DemandLevel {
	switch {
	case demand < 1:
		return DemandLow
	case demand < 3:
		return DemandMedium
	case demand < 5:
		return DemandHigh
	default:
		return DemandCritical
	}
}

// WeekdayIndex converts Go's Sunday-first weekday to the Monday-first index
// used across the feature set.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// FeatureVector extracts the model inputs from a demand record, ordered as
// FeatureColumns.
func (d DemandRecord) FeatureVector() []float64 {
	weekend := 0.0
	if d.IsWeekend {
		weekend = 1
	}
	return []float64{
		float64(d.HourOfDay),
		float64(d.DayOfWeek),
		weekend,
		float64(d.Month),
		d.Lag1h,
		d.Lag24h,
		d.Rolling3h,
		d.Rolling24h,
	}
}

// FeatureColumns names the model inputs, in vector order.
var FeatureColumns = []string{
	"hour",
	"day_of_week",
	"is_weekend",
	"month",
	"demand_lag_1h",
	"demand_lag_24h",
	"demand_rolling_3h",
	"demand_rolling_24h",
}
