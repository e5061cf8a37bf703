package csvio

import (
	"fmt"
	"strconv"
	"time"

	"github.com/citymedic/ambucast/core/model"
)

// DemandColumns is the aggregated feature schema, in file order.
var DemandColumns = []string{
	"h3_index",
	"datetime_hour",
	"year",
	"month",
	"day",
	"hour",
	"day_of_week",
	"is_weekend",
	"demand_count",
	"unique_vehicles",
	"h3_center_lat",
	"h3_center_lon",
	"demand_lag_1h",
	"demand_lag_24h",
	"demand_lag_168h",
	"demand_rolling_3h",
	"demand_rolling_24h",
}

// CellSummaryColumns is the cell reference table schema.
var CellSummaryColumns = []string{
	"h3_index",
	"center_lat",
	"center_lon",
	"total_demand",
	"avg_demand",
	"record_count",
}

// WriteDemandRecords writes the feature dataset.
func WriteDemandRecords(path string, recs []model.DemandRecord) error {
	rows := make([][]string, len(recs))
	for i, d := range recs {
		rows[i] = []string{
			d.CellID,
			d.Hour.Format(model.TimestampLayout),
			strconv.Itoa(d.Year),
			strconv.Itoa(d.Month),
			strconv.Itoa(d.Day),
			strconv.Itoa(d.HourOfDay),
			strconv.Itoa(d.DayOfWeek),
			boolFlag(d.IsWeekend),
			strconv.Itoa(d.DemandCount),
			strconv.Itoa(d.UniqueVehicles),
			strconv.FormatFloat(d.CenterLat, 'f', 6, 64),
			strconv.FormatFloat(d.CenterLon, 'f', 6, 64),
			formatStat(d.Lag1h),
			formatStat(d.Lag24h),
			formatStat(d.Lag168h),
			formatStat(d.Rolling3h),
			formatStat(d.Rolling24h),
		}
	}
	return writeAll(path, DemandColumns, rows)
}

// ReadDemandRecords loads the feature dataset produced by WriteDemandRecords.
func ReadDemandRecords(path string) ([]model.DemandRecord, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int, len(DemandColumns))
	for _, col := range DemandColumns {
		i := t.Column(col)
		if i < 0 {
			return nil, fmt.Errorf("%s: missing column %q", path, col)
		}
		idx[col] = i
	}

	recs := make([]model.DemandRecord, 0, len(t.Rows))
	for n, row := range t.Rows {
		get := func(col string) string { return row[idx[col]] }
		d := model.DemandRecord{CellID: get("h3_index")}
		fields := []struct {
			col string
			dst *float64
		}{
			{"h3_center_lat", &d.CenterLat},
			{"h3_center_lon", &d.CenterLon},
			{"demand_lag_1h", &d.Lag1h},
			{"demand_lag_24h", &d.Lag24h},
			{"demand_lag_168h", &d.Lag168h},
			{"demand_rolling_3h", &d.Rolling3h},
			{"demand_rolling_24h", &d.Rolling24h},
		}
		ints := []struct {
			col string
			dst *int
		}{
			{"year", &d.Year},
			{"month", &d.Month},
			{"day", &d.Day},
			{"hour", &d.HourOfDay},
			{"day_of_week", &d.DayOfWeek},
			{"demand_count", &d.DemandCount},
			{"unique_vehicles", &d.UniqueVehicles},
		}
		if d.Hour, err = parseTimestamp(get("datetime_hour")); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, n+2, err)
		}
		for _, f := range fields {
			if *f.dst, err = strconv.ParseFloat(get(f.col), 64); err != nil {
				return nil, fmt.Errorf("%s row %d: %s: %w", path, n+2, f.col, err)
			}
		}
		for _, f := range ints {
			if *f.dst, err = strconv.Atoi(get(f.col)); err != nil {
				return nil, fmt.Errorf("%s row %d: %s: %w", path, n+2, f.col, err)
			}
		}
		d.IsWeekend = get("is_weekend") == "1"
		recs = append(recs, d)
	}
	return recs, nil
}

// WriteCellSummaries writes the cell reference table.
func WriteCellSummaries(path string, cells []model.CellSummary) error {
	rows := make([][]string, len(cells))
	for i, c := range cells {
		rows[i] = []string{
			c.CellID,
			strconv.FormatFloat(c.CenterLat, 'f', 6, 64),
			strconv.FormatFloat(c.CenterLon, 'f', 6, 64),
			strconv.Itoa(c.TotalDemand),
			strconv.FormatFloat(c.AvgDemand, 'f', 4, 64),
			strconv.Itoa(c.RecordCount),
		}
	}
	return writeAll(path, CellSummaryColumns, rows)
}

func parseTimestamp(s string) (time.Time, error) {
	ts, err := time.Parse(model.TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", s, err)
	}
	return ts, nil
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
