package tracking

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	}()

	run := NewRun("demand_forecast")
	run.Params["n_estimators"] = "100"
	run.Metrics["mae"] = 0.42
	run.Importance["hour"] = 0.3
	if err := store.Record(context.Background(), run); err != nil {
		t.Fatal(err)
	}

	other := NewRun("other_experiment")
	other.StartedAt = run.StartedAt.Add(time.Minute)
	if err := store.Record(context.Background(), other); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List(context.Background(), "demand_forecast")
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("listed %d runs, want 1", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.Params["n_estimators"] != "100" ||
		got.Metrics["mae"] != 0.42 || got.Importance["hour"] != 0.3 {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	all, err := store.List(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("listed %d runs, want 2", len(all))
	}
	if all[0].ID != other.ID {
		t.Fatalf("expected newest run first, got %s", all[0].ID)
	}
}

func TestMultiRecorder(t *testing.T) {
	a, err := NewSQLiteStore(filepath.Join(t.TempDir(), "a.db"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSQLiteStore(filepath.Join(t.TempDir(), "b.db"))
	if err != nil {
		t.Fatal(err)
	}
	multi := NewMultiRecorder(a, b, NopRecorder{})
	if err := multi.Record(context.Background(), NewRun("exp")); err != nil {
		t.Fatal(err)
	}
	for _, s := range []*SQLiteStore{a, b} {
		runs, err := s.List(context.Background(), "exp")
		if err != nil {
			t.Fatal(err)
		}
		if len(runs) != 1 {
			t.Fatalf("store missed the run: %d", len(runs))
		}
	}
	if err := multi.Close(); err != nil {
		t.Fatal(err)
	}
}
