package csvio

import (
	"fmt"
	"strconv"

	"github.com/citymedic/ambucast/core/model"
)

// ObservationColumns is the raw feed schema, in file order.
var ObservationColumns = model.RawColumns

// WriteObservations writes the raw dataset.
func WriteObservations(path string, obs []model.Observation) error {
	rows := make([][]string, len(obs))
	for i, o := range obs {
		rows[i] = []string{
			o.VehicleType,
			o.LicensePlate,
			o.SupportType,
			o.ObservedAt.Format(model.TimestampLayout),
			strconv.FormatFloat(o.Longitude, 'f', 6, 64),
			strconv.FormatFloat(o.Latitude, 'f', 6, 64),
			o.ServiceDuty,
		}
	}
	return writeAll(path, ObservationColumns, rows)
}

// ReadObservations loads the raw dataset, resolving columns by header name so
// extra columns are tolerated. Missing columns or malformed values abort.
func ReadObservations(path string) ([]model.Observation, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int, len(ObservationColumns))
	for _, col := range ObservationColumns {
		i := t.Column(col)
		if i < 0 {
			return nil, fmt.Errorf("%s: missing column %q", path, col)
		}
		idx[col] = i
	}

	obs := make([]model.Observation, 0, len(t.Rows))
	for n, row := range t.Rows {
		o := model.Observation{
			VehicleType:  row[idx["emergencyVehicleType"]],
			LicensePlate: row[idx["license_plate"]],
			SupportType:  row[idx["vehicleSupportType"]],
			ServiceDuty:  row[idx["serviceOnDuty"]],
		}
		o.ObservedAt, err = parseTimestamp(row[idx["observationDateTime"]])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, n+2, err)
		}
		o.Longitude, err = strconv.ParseFloat(row[idx["longitude"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: longitude: %w", path, n+2, err)
		}
		o.Latitude, err = strconv.ParseFloat(row[idx["latitude"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: latitude: %w", path, n+2, err)
		}
		obs = append(obs, o)
	}
	return obs, nil
}
