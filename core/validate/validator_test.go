package validate

import (
	"testing"

	"github.com/citymedic/ambucast/core/model"
)

func goodRow(ts string) []string {
	return []string{"Ambulance", "KA01A1234", "BLS", ts, "77.6245", "12.9352", "YES"}
}

func goodTable(rows int) Table {
	t := Table{Header: append([]string(nil), model.RawColumns...)}
	for i := 0; i < rows; i++ {
		t.Rows = append(t.Rows, goodRow("2024-01-01T10:15:00+05:30"))
	}
	return t
}

func newValidator() *Validator {
	cfg := Config{MinRecords: 2}
	cfg.SetDefaults()
	return New(cfg)
}

func result(t *testing.T, rep Report, name string) Result {
	t.Helper()
	for _, r := range rep.Results {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no result named %q", name)
	return Result{}
}

func TestRunAllPass(t *testing.T) {
	rep := newValidator().Run(goodTable(3))
	if !rep.OK() {
		t.Fatalf("expected clean report, got %+v", rep.Results)
	}
	for _, r := range rep.Results {
		if r.Status != Pass {
			t.Fatalf("%s: expected PASS, got %s (%s)", r.Name, r.Status, r.Detail)
		}
	}
}

func TestMissingColumnFails(t *testing.T) {
	tbl := goodTable(3)
	tbl.Header = tbl.Header[:len(tbl.Header)-1] // drop serviceOnDuty
	rep := newValidator().Run(tbl)
	if rep.OK() {
		t.Fatal("expected failure")
	}
	if res := result(t, rep, "columns"); res.Status != Fail {
		t.Fatalf("columns: got %s", res.Status)
	}
}

func TestExtraColumnWarns(t *testing.T) {
	tbl := goodTable(3)
	tbl.Header = append(tbl.Header, "speedKmph")
	rep := newValidator().Run(tbl)
	if !rep.OK() {
		t.Fatal("extra column must not fail the run")
	}
	if res := result(t, rep, "columns"); res.Status != Warn {
		t.Fatalf("columns: got %s", res.Status)
	}
}

func TestEmptyValueFails(t *testing.T) {
	tbl := goodTable(3)
	tbl.Rows[1][1] = " "
	rep := newValidator().Run(tbl)
	if res := result(t, rep, "no_empty_values"); res.Status != Fail {
		t.Fatalf("no_empty_values: got %s", res.Status)
	}
}

func TestOutOfBoundsFails(t *testing.T) {
	tbl := goodTable(3)
	tbl.Rows[0][5] = "51.5000" // latitude
	rep := newValidator().Run(tbl)
	if res := result(t, rep, "coordinate_bounds"); res.Status != Fail {
		t.Fatalf("coordinate_bounds: got %s", res.Status)
	}
}

func TestMixedVehicleTypeWarnsOnly(t *testing.T) {
	tbl := goodTable(3)
	tbl.Rows[2][0] = "Fire Truck"
	rep := newValidator().Run(tbl)
	if res := result(t, rep, "vehicle_type"); res.Status != Warn {
		t.Fatalf("vehicle_type: got %s", res.Status)
	}
	if !rep.OK() {
		t.Fatal("vehicle type must never fail the run")
	}
}

func TestInvalidStatusFails(t *testing.T) {
	tbl := goodTable(3)
	tbl.Rows[0][6] = "MAYBE"
	rep := newValidator().Run(tbl)
	if res := result(t, rep, "service_status"); res.Status != Fail {
		t.Fatalf("service_status: got %s", res.Status)
	}
}

func TestBadTimestampFails(t *testing.T) {
	tbl := goodTable(3)
	tbl.Rows[0][3] = "01/01/2024 10:15"
	rep := newValidator().Run(tbl)
	if res := result(t, rep, "timestamps"); res.Status != Fail {
		t.Fatalf("timestamps: got %s", res.Status)
	}
}

func TestLowRecordCountWarnsOnly(t *testing.T) {
	rep := newValidator().Run(goodTable(1))
	if res := result(t, rep, "record_count"); res.Status != Warn {
		t.Fatalf("record_count: got %s", res.Status)
	}
	if !rep.OK() {
		t.Fatal("low record count must not fail the run")
	}
}

func TestChecksRunAfterFailures(t *testing.T) {
	tbl := goodTable(3)
	tbl.Rows[0][6] = "MAYBE"
	tbl.Rows[1][3] = "garbage"
	rep := newValidator().Run(tbl)
	if len(rep.Results) != 7 {
		t.Fatalf("expected all 7 checks to run, got %d", len(rep.Results))
	}
}
