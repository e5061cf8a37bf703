// Package tracking records training runs: parameters, held-out metrics and
// the feature importance ranking of each fitted model.
package tracking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Run is one training experiment record.
type Run struct {
	ID         string             `json:"id"`
	Experiment string             `json:"experiment"`
	StartedAt  time.Time          `json:"started_at"`
	Params     map[string]string  `json:"params"`
	Metrics    map[string]float64 `json:"metrics"`
	Importance map[string]float64 `json:"importance"`
}

// NewRun creates a run skeleton with a fresh id.
func NewRun(experiment string) Run {
	return Run{
		ID:         uuid.NewString(),
		Experiment: experiment,
		StartedAt:  time.Now().UTC(),
		Params:     map[string]string{},
		Metrics:    map[string]float64{},
		Importance: map[string]float64{},
	}
}

// Recorder persists training runs.
type Recorder interface {
	Record(ctx context.Context, run Run) error
	Close() error
}

// NopRecorder discards runs.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Run) error { return nil }
func (NopRecorder) Close() error                      { return nil }

// MultiRecorder fans a run out to several recorders, returning the first
// error encountered after trying all of them.
type MultiRecorder struct {
	recorders []Recorder
}

// NewMultiRecorder combines recorders.
func NewMultiRecorder(rs ...Recorder) *MultiRecorder {
	return &MultiRecorder{recorders: rs}
}

func (m *MultiRecorder) Record(ctx context.Context, run Run) error {
	var first error
	for _, r := range m.recorders {
		if err := r.Record(ctx, run); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *MultiRecorder) Close() error {
	var first error
	for _, r := range m.recorders {
		if err := r.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
