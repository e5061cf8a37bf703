package model

import (
	"fmt"
	"time"
)

// TimestampLayout is the wire format of observation timestamps. The synthetic
// feed mirrors the IUDX ambulance schema; generated records always carry the
// +05:30 IST offset.
const TimestampLayout = "2006-01-02T15:04:05-07:00"

// Duty status values accepted on the raw feed.
const (
	DutyYes = "YES"
	DutyNo  = "NO"
)

// Observation is a single ambulance GPS ping. Records are immutable once
// generated; they form the unit record of the raw dataset.
type Observation struct {
	VehicleType  string    // always "Ambulance" on the synthetic feed
	LicensePlate string
	SupportType  string    // BLS, ALS or Patient Transport
	ObservedAt   time.Time
	Longitude    float64
	Latitude     float64
	ServiceDuty  string // YES while the vehicle is on duty
}

// OnDuty reports whether the ping belongs to an active vehicle.
func (o Observation) OnDuty() bool { return o.ServiceDuty == DutyYes }

// RawColumns lists the columns every raw feed file must carry.
var RawColumns = []string{
	"emergencyVehicleType",
	"license_plate",
	"vehicleSupportType",
	"observationDateTime",
	"longitude",
	"latitude",
	"serviceOnDuty",
}

// BoundingBox delimits the geographic region observations must fall in.
type BoundingBox struct {
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
}

// Contains reports whether the point lies inside the box, bounds included.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax && lon >= b.LonMin && lon <= b.LonMax
}

// Clamp forces the point inside the box.
func (b BoundingBox) Clamp(lat, lon float64) (float64, float64) {
	return clamp(lat, b.LatMin, b.LatMax), clamp(lon, b.LonMin, b.LonMax)
}

// Validate checks that the box is non-degenerate.
func (b BoundingBox) Validate() error {
	if b.LatMin >= b.LatMax {
		return fmt.Errorf("lat_min %v must be below lat_max %v", b.LatMin, b.LatMax)
	}
	if b.LonMin >= b.LonMax {
		return fmt.Errorf("lon_min %v must be below lon_max %v", b.LonMin, b.LonMax)
	}
	return nil
}

// Bangalore is the default service region.
var Bangalore = BoundingBox{LatMin: 12.8, LatMax: 13.2, LonMin: 77.4, LonMax: 77.8}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
