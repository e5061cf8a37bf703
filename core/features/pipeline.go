// Package features turns raw observations into the aggregated demand dataset
// the model trains on: hexagonal bucketing, hourly time windows and per-cell
// lag and rolling statistics.
package features

import (
	"fmt"
	"sort"
	"time"

	"github.com/citymedic/ambucast/core/model"
)

// CellResolver derives hexagonal cells from coordinates. Implemented by
// infra/geo.
type CellResolver interface {
	CellID(lat, lon float64) string
	CellCenter(lat, lon float64) (float64, float64)
}

// Lag row shifts applied to each cell's demand series: previous hour,
// previous day, previous week.
const (
	LagHour = 1
	LagDay  = 24
	LagWeek = 168
)

// Rolling mean window sizes, in rows.
const (
	RollingShort = 3
	RollingLong  = 24
)

// Pipeline aggregates observations into demand records.
type Pipeline struct {
	cells CellResolver
}

// New creates a Pipeline using the given cell resolver.
func New(cells CellResolver) *Pipeline {
	return &Pipeline{cells: cells}
}

// Build runs the full aggregation. Only on-duty observations contribute.
// The returned records are sorted by (cell, hour); every lag and rolling
// statistic is computed strictly from the owning cell's own ordered history.
func (p *Pipeline) Build(obs []model.Observation) ([]model.DemandRecord, []model.CellSummary, error) {
	buckets := map[bucketKey]*bucket{}
	for _, o := range obs {
		if !o.OnDuty() {
			continue
		}
		id := p.cells.CellID(o.Latitude, o.Longitude)
		hour := floorHour(o.ObservedAt)
		key := bucketKey{cell: id, hour: hour.Unix()}
		b, ok := buckets[key]
		if !ok {
			lat, lon := p.cells.CellCenter(o.Latitude, o.Longitude)
			b = &bucket{hour: hour, centerLat: lat, centerLon: lon, plates: map[string]struct{}{}}
			buckets[key] = b
		}
		b.count++
		b.plates[o.LicensePlate] = struct{}{}
	}
	if len(buckets) == 0 {
		return nil, nil, fmt.Errorf("no on-duty observations to aggregate")
	}

	recs := make([]model.DemandRecord, 0, len(buckets))
	for key, b := range buckets {
		recs = append(recs, model.DemandRecord{
			CellID:         key.cell,
			Hour:           b.hour,
			Year:           b.hour.Year(),
			Month:          int(b.hour.Month()),
			Day:            b.hour.Day(),
			HourOfDay:      b.hour.Hour(),
			DayOfWeek:      model.WeekdayIndex(b.hour),
			IsWeekend:      model.WeekdayIndex(b.hour) >= 5,
			DemandCount:    b.count,
			UniqueVehicles: len(b.plates),
			CenterLat:      b.centerLat,
			CenterLon:      b.centerLon,
		})
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].CellID != recs[j].CellID {
			return recs[i].CellID < recs[j].CellID
		}
		return recs[i].Hour.Before(recs[j].Hour)
	})

	addHistoryFeatures(recs)
	return recs, summarize(recs), nil
}

type bucketKey struct {
	cell string
	hour int64
}

type bucket struct {
	hour      time.Time
	count     int
	centerLat float64
	centerLon float64
	plates    map[string]struct{}
}

// floorHour truncates to the start of the hour in the record's own zone.
// time.Truncate is unsuitable here: the feed carries a half-hour UTC offset.
func floorHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// addHistoryFeatures fills lag and rolling-mean columns in place. recs must be
// sorted by (cell, hour). Lags without enough history are zero-filled; rolling
// means shrink their window at the start of each series.
func addHistoryFeatures(recs []model.DemandRecord) {
	for start := 0; start < len(recs); {
		end := start
		for end < len(recs) && recs[end].CellID == recs[start].CellID {
			end++
		}
		series := recs[start:end]
		for i := range series {
			series[i].Lag1h = lag(series, i, LagHour)
			series[i].Lag24h = lag(series, i, LagDay)
			series[i].Lag168h = lag(series, i, LagWeek)
			series[i].Rolling3h = rollingMean(series, i, RollingShort)
			series[i].Rolling24h = rollingMean(series, i, RollingLong)
		}
		start = end
	}
}

func lag(series []model.DemandRecord, i, shift int) float64 {
	if i < shift {
		return 0
	}
	return float64(series[i-shift].DemandCount)
}

func rollingMean(series []model.DemandRecord, i, window int) float64 {
	lo := i - window + 1
	if lo < 0 {
		lo = 0
	}
	sum := 0.0
	for j := lo; j <= i; j++ {
		sum += float64(series[j].DemandCount)
	}
	return sum / float64(i-lo+1)
}

// summarize builds the per-cell reference table. recs must be sorted by cell.
func summarize(recs []model.DemandRecord) []model.CellSummary {
	var out []model.CellSummary
	for start := 0; start < len(recs); {
		end := start
		total := 0
		for end < len(recs) && recs[end].CellID == recs[start].CellID {
			total += recs[end].DemandCount
			end++
		}
		n := end - start
		out = append(out, model.CellSummary{
			CellID:      recs[start].CellID,
			CenterLat:   recs[start].CenterLat,
			CenterLon:   recs[start].CenterLon,
			TotalDemand: total,
			AvgDemand:   float64(total) / float64(n),
			RecordCount: n,
		})
		start = end
	}
	return out
}
