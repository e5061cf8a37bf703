// Package validate runs the fixed sequence of quality checks on a raw
// observation table before it enters the feature pipeline.
package validate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/citymedic/ambucast/core/model"
)

// Status is the outcome of a single check.
type Status string

const (
	Pass Status = "PASS"
	Warn Status = "WARN"
	Fail Status = "FAIL"
)

// Result is the outcome of one check, with a human-readable detail line.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report collects the results of a full validation run.
type Report struct {
	Results []Result
}

// OK reports whether no check failed. Warnings do not fail a run.
func (r Report) OK() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return false
		}
	}
	return true
}

// Table is a raw CSV dataset: header plus unparsed string rows. The validator
// deliberately works below the typed layer so schema defects surface as check
// failures instead of load errors. It mirrors csvio.Table, which cannot be
// imported here: core packages stay free of infra imports, so callers copy the
// header and rows across (see cmd/validate.go).
type Table struct {
	Header []string
	Rows   [][]string
}

func (t Table) column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Config tunes the validator thresholds.
type Config struct {
	Bounds     model.BoundingBox `json:"bounds"`
	MinRecords int               `json:"min_records"`
}

// SetDefaults applies the reference thresholds.
func (c *Config) SetDefaults() {
	if c.Bounds == (model.BoundingBox{}) {
		c.Bounds = model.Bangalore
	}
	if c.MinRecords == 0 {
		c.MinRecords = 1000
	}
}

// Validator runs the check sequence.
type Validator struct {
	cfg Config
}

// New creates a Validator.
func New(cfg Config) *Validator {
	return &Validator{cfg: cfg}
}

// Run executes every check in order. Checks are independent; all of them run
// even when earlier ones fail.
func (v *Validator) Run(t Table) Report {
	checks := []struct {
		name string
		fn   func(Table) Result
	}{
		{"columns", v.checkColumns},
		{"no_empty_values", v.checkEmptyValues},
		{"coordinate_bounds", v.checkCoordinates},
		{"vehicle_type", v.checkVehicleType},
		{"service_status", v.checkServiceStatus},
		{"timestamps", v.checkTimestamps},
		{"record_count", v.checkRecordCount},
	}
	rep := Report{Results: make([]Result, 0, len(checks))}
	for _, c := range checks {
		res := c.fn(t)
		res.Name = c.name
		rep.Results = append(rep.Results, res)
	}
	return rep
}

func (v *Validator) checkColumns(t Table) Result {
	var missing, extra []string
	have := map[string]bool{}
	for _, h := range t.Header {
		have[h] = true
	}
	want := map[string]bool{}
	for _, col := range model.RawColumns {
		want[col] = true
		if !have[col] {
			missing = append(missing, col)
		}
	}
	for _, h := range t.Header {
		if !want[h] {
			extra = append(extra, h)
		}
	}
	if len(missing) > 0 {
		return Result{Status: Fail, Detail: "missing columns: " + strings.Join(missing, ", ")}
	}
	if len(extra) > 0 {
		return Result{Status: Warn, Detail: "extra columns: " + strings.Join(extra, ", ")}
	}
	return Result{Status: Pass, Detail: "all expected columns present"}
}

func (v *Validator) checkEmptyValues(t Table) Result {
	empty := map[string]int{}
	for _, col := range model.RawColumns {
		i := t.column(col)
		if i < 0 {
			continue
		}
		for _, row := range t.Rows {
			if i < len(row) && strings.TrimSpace(row[i]) == "" {
				empty[col]++
			}
		}
	}
	if len(empty) == 0 {
		return Result{Status: Pass, Detail: "no empty values"}
	}
	cols := make([]string, 0, len(empty))
	for col, n := range empty {
		cols = append(cols, fmt.Sprintf("%s=%d", col, n))
	}
	sort.Strings(cols)
	return Result{Status: Fail, Detail: "empty values: " + strings.Join(cols, ", ")}
}

func (v *Validator) checkCoordinates(t Table) Result {
	latIdx, lonIdx := t.column("latitude"), t.column("longitude")
	if latIdx < 0 || lonIdx < 0 {
		return Result{Status: Fail, Detail: "latitude/longitude columns missing"}
	}
	outside := 0
	for _, row := range t.Rows {
		lat, err1 := strconv.ParseFloat(row[latIdx], 64)
		lon, err2 := strconv.ParseFloat(row[lonIdx], 64)
		if err1 != nil || err2 != nil || !v.cfg.Bounds.Contains(lat, lon) {
			outside++
		}
	}
	if outside > 0 {
		return Result{Status: Fail, Detail: fmt.Sprintf("%d records outside bounds", outside)}
	}
	return Result{Status: Pass, Detail: "all coordinates within bounds"}
}

// checkVehicleType is informational: mixed types are reported but never fail.
func (v *Validator) checkVehicleType(t Table) Result {
	i := t.column("emergencyVehicleType")
	if i < 0 {
		return Result{Status: Warn, Detail: "emergencyVehicleType column missing"}
	}
	types := map[string]bool{}
	for _, row := range t.Rows {
		types[row[i]] = true
	}
	if len(types) == 1 && types["Ambulance"] {
		return Result{Status: Pass, Detail: "all records are Ambulance type"}
	}
	names := make([]string, 0, len(types))
	for k := range types {
		names = append(names, k)
	}
	sort.Strings(names)
	return Result{Status: Warn, Detail: "vehicle types: " + strings.Join(names, ", ")}
}

func (v *Validator) checkServiceStatus(t Table) Result {
	i := t.column("serviceOnDuty")
	if i < 0 {
		return Result{Status: Fail, Detail: "serviceOnDuty column missing"}
	}
	invalid := map[string]int{}
	for _, row := range t.Rows {
		if s := row[i]; s != model.DutyYes && s != model.DutyNo {
			invalid[s]++
		}
	}
	if len(invalid) == 0 {
		return Result{Status: Pass, Detail: "service statuses valid"}
	}
	vals := make([]string, 0, len(invalid))
	for s, n := range invalid {
		vals = append(vals, fmt.Sprintf("%q x%d", s, n))
	}
	sort.Strings(vals)
	return Result{Status: Fail, Detail: "invalid statuses: " + strings.Join(vals, ", ")}
}

func (v *Validator) checkTimestamps(t Table) Result {
	i := t.column("observationDateTime")
	if i < 0 {
		return Result{Status: Fail, Detail: "observationDateTime column missing"}
	}
	bad := 0
	for _, row := range t.Rows {
		if _, err := time.Parse(model.TimestampLayout, row[i]); err != nil {
			bad++
		}
	}
	if bad > 0 {
		return Result{Status: Fail, Detail: fmt.Sprintf("%d unparseable timestamps", bad)}
	}
	return Result{Status: Pass, Detail: "timestamps parseable"}
}

// checkRecordCount warns on thin datasets but never fails.
func (v *Validator) checkRecordCount(t Table) Result {
	if n := len(t.Rows); n < v.cfg.MinRecords {
		return Result{Status: Warn, Detail: fmt.Sprintf("only %d records, expected at least %d", n, v.cfg.MinRecords)}
	}
	return Result{Status: Pass, Detail: fmt.Sprintf("%d records", len(t.Rows))}
}
