// Package gen synthesizes plausible ambulance GPS pings for the Bangalore
// service region. The output matches the IUDX ambulance schema so the rest of
// the pipeline can switch to the real feed without changes.
package gen

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/citymedic/ambucast/core/model"
)

// Hotspot is a named demand center with a sampling weight.
type Hotspot struct {
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Weight float64 `json:"weight"`
}

// DefaultHotspots lists the Bangalore areas with elevated ambulance activity.
var DefaultHotspots = []Hotspot{
	{Name: "Koramangala", Lat: 12.9352, Lon: 77.6245, Weight: 0.15},
	{Name: "Whitefield", Lat: 12.9698, Lon: 77.7500, Weight: 0.12},
	{Name: "Electronic City", Lat: 12.8399, Lon: 77.6770, Weight: 0.10},
	{Name: "Marathahalli", Lat: 12.9591, Lon: 77.6974, Weight: 0.10},
	{Name: "Jayanagar", Lat: 12.9299, Lon: 77.5826, Weight: 0.08},
	{Name: "Indiranagar", Lat: 12.9784, Lon: 77.6408, Weight: 0.08},
	{Name: "BTM Layout", Lat: 12.9166, Lon: 77.6101, Weight: 0.07},
	{Name: "HSR Layout", Lat: 12.9081, Lon: 77.6476, Weight: 0.07},
	{Name: "Hebbal", Lat: 13.0358, Lon: 77.5970, Weight: 0.06},
	{Name: "Yeshwanthpur", Lat: 13.0285, Lon: 77.5416, Weight: 0.05},
	{Name: "Banashankari", Lat: 12.9255, Lon: 77.5468, Weight: 0.06},
	{Name: "Malleshwaram", Lat: 13.0035, Lon: 77.5647, Weight: 0.06},
}

// defaultHourWeights shapes the diurnal demand curve: a morning rise, steady
// afternoons and an evening peak.
var defaultHourWeights = []float64{
	0.02, 0.01, 0.01, 0.01, 0.02, 0.03,
	0.04, 0.05, 0.06, 0.07, 0.07, 0.06,
	0.05, 0.05, 0.05, 0.05, 0.06, 0.07,
	0.08, 0.07, 0.06, 0.05, 0.04, 0.03,
}

// Vehicle support types carried on the feed.
var supportTypes = []string{"BLS", "ALS", "Patient Transport"}

var plateDistricts = []string{"01", "02", "03", "04", "05", "40", "41", "50", "51"}

const plateLetters = "ABCDEFGHJKLMNPRSTUVWXY"

// Config holds parameters for synthetic data generation.
type Config struct {
	Seed          int64             `json:"seed"`
	FleetSize     int               `json:"fleet_size"`
	Days          int               `json:"days"`
	RecordsPerDay int               `json:"records_per_day"`
	StartDate     string            `json:"start_date"` // YYYY-MM-DD
	HotspotProb   float64           `json:"hotspot_prob"`
	DutyProb      float64           `json:"duty_prob"`
	NoiseSigma    float64           `json:"noise_sigma"`
	WeekendFactor float64           `json:"weekend_factor"`
	Bounds        model.BoundingBox `json:"bounds"`
	Hotspots      []Hotspot         `json:"hotspots"`
}

// SetDefaults applies the reference generation parameters.
func (c *Config) SetDefaults() {
	if c.FleetSize == 0 {
		c.FleetSize = 50
	}
	if c.Days == 0 {
		c.Days = 30
	}
	if c.RecordsPerDay == 0 {
		c.RecordsPerDay = 500
	}
	if c.StartDate == "" {
		c.StartDate = "2024-01-01"
	}
	if c.HotspotProb == 0 {
		c.HotspotProb = 0.7
	}
	if c.DutyProb == 0 {
		c.DutyProb = 0.85
	}
	if c.NoiseSigma == 0 {
		c.NoiseSigma = 0.01
	}
	if c.WeekendFactor == 0 {
		c.WeekendFactor = 0.8
	}
	if c.Bounds == (model.BoundingBox{}) {
		c.Bounds = model.Bangalore
	}
	if len(c.Hotspots) == 0 {
		c.Hotspots = DefaultHotspots
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.FleetSize <= 0 {
		return fmt.Errorf("fleet_size must be positive")
	}
	if c.Days <= 0 {
		return fmt.Errorf("days must be positive")
	}
	if c.RecordsPerDay <= 0 {
		return fmt.Errorf("records_per_day must be positive")
	}
	if _, err := time.Parse("2006-01-02", c.StartDate); err != nil {
		return fmt.Errorf("start_date: %w", err)
	}
	if c.HotspotProb < 0 || c.HotspotProb > 1 {
		return fmt.Errorf("hotspot_prob must be in [0,1]")
	}
	if c.DutyProb < 0 || c.DutyProb > 1 {
		return fmt.Errorf("duty_prob must be in [0,1]")
	}
	return c.Bounds.Validate()
}

// fleetVehicle is a generated ambulance identity, fixed for the whole run.
type fleetVehicle struct {
	plate       string
	supportType string
}

// ist is the fixed offset carried by every generated timestamp.
var ist = time.FixedZone("IST", 5*3600+30*60)

// Generator produces synthetic observation datasets.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// New creates a Generator. The same seed always yields the same dataset.
func New(cfg Config) *Generator {
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate synthesizes the full dataset, sorted chronologically.
func (g *Generator) Generate() ([]model.Observation, error) {
	start, err := time.ParseInLocation("2006-01-02", g.cfg.StartDate, ist)
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}

	fleet := g.buildFleet()
	var obs []model.Observation
	for day := 0; day < g.cfg.Days; day++ {
		date := start.AddDate(0, 0, day)
		n := g.dayRecordCount(date)
		for i := 0; i < n; i++ {
			v := fleet[g.rng.Intn(len(fleet))]
			lat, lon := g.sampleLocation()
			obs = append(obs, model.Observation{
				VehicleType:  "Ambulance",
				LicensePlate: v.plate,
				SupportType:  v.supportType,
				ObservedAt:   g.sampleTime(date),
				Longitude:    lon,
				Latitude:     lat,
				ServiceDuty:  g.sampleDuty(),
			})
		}
	}

	sort.Slice(obs, func(i, j int) bool { return obs[i].ObservedAt.Before(obs[j].ObservedAt) })
	return obs, nil
}

func (g *Generator) buildFleet() []fleetVehicle {
	fleet := make([]fleetVehicle, g.cfg.FleetSize)
	for i := range fleet {
		fleet[i] = fleetVehicle{
			plate:       g.licensePlate(),
			supportType: supportTypes[g.rng.Intn(len(supportTypes))],
		}
	}
	return fleet
}

// licensePlate builds a Karnataka ambulance plate: KA<district><letter><4 digits>.
func (g *Generator) licensePlate() string {
	district := plateDistricts[g.rng.Intn(len(plateDistricts))]
	letter := plateLetters[g.rng.Intn(len(plateLetters))]
	return fmt.Sprintf("KA%s%c%d", district, letter, 1000+g.rng.Intn(9000))
}

// dayRecordCount scales the daily volume for weekends and adds ±10% variance.
func (g *Generator) dayRecordCount(date time.Time) int {
	n := float64(g.cfg.RecordsPerDay)
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		n *= g.cfg.WeekendFactor
	}
	n *= 0.9 + 0.2*g.rng.Float64()
	return int(n)
}

// sampleLocation draws a point near a weighted hotspot with probability
// HotspotProb, otherwise uniformly in the bounding box. The result is always
// clamped to the box and rounded to 6 decimals.
func (g *Generator) sampleLocation() (float64, float64) {
	b := g.cfg.Bounds
	var lat, lon float64
	if g.rng.Float64() < g.cfg.HotspotProb {
		h := g.pickHotspot()
		lat = h.Lat + g.rng.NormFloat64()*g.cfg.NoiseSigma
		lon = h.Lon + g.rng.NormFloat64()*g.cfg.NoiseSigma
	} else {
		lat = b.LatMin + g.rng.Float64()*(b.LatMax-b.LatMin)
		lon = b.LonMin + g.rng.Float64()*(b.LonMax-b.LonMin)
	}
	lat, lon = b.Clamp(lat, lon)
	return round6(lat), round6(lon)
}

func (g *Generator) pickHotspot() Hotspot {
	total := 0.0
	for _, h := range g.cfg.Hotspots {
		total += h.Weight
	}
	r := g.rng.Float64() * total
	for _, h := range g.cfg.Hotspots {
		r -= h.Weight
		if r < 0 {
			return h
		}
	}
	return g.cfg.Hotspots[len(g.cfg.Hotspots)-1]
}

// sampleTime places the ping within the day following the diurnal hour curve.
func (g *Generator) sampleTime(date time.Time) time.Time {
	hour := g.pickHour()
	return time.Date(date.Year(), date.Month(), date.Day(),
		hour, g.rng.Intn(60), g.rng.Intn(60), 0, ist)
}

func (g *Generator) pickHour() int {
	total := 0.0
	for _, w := range defaultHourWeights {
		total += w
	}
	r := g.rng.Float64() * total
	for h, w := range defaultHourWeights {
		r -= w
		if r < 0 {
			return h
		}
	}
	return len(defaultHourWeights) - 1
}

func (g *Generator) sampleDuty() string {
	if g.rng.Float64() < g.cfg.DutyProb {
		return model.DutyYes
	}
	return model.DutyNo
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
