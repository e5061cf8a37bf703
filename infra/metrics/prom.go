// Package metrics exposes Prometheus instrumentation for the prediction
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records prediction-serving events in Prometheus metrics.
type PromSink struct {
	predictions *prometheus.CounterVec
	latency     prometheus.Histogram
}

// NewPromSink registers serving metrics on the provided registerer. If reg is
// nil, the default registerer is used. If the collectors are already
// registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	predictions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ambucast_predictions_total",
		Help: "Total number of demand predictions served",
	}, []string{"demand_level"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ambucast_prediction_latency_seconds",
		Help:    "Time spent resolving the cell and scoring the model",
		Buckets: prometheus.DefBuckets,
	})

	if err := reg.Register(predictions); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			predictions = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}

	return &PromSink{predictions: predictions, latency: latency}, nil
}

// RecordPrediction counts one served prediction by demand level.
func (s *PromSink) RecordPrediction(level string) {
	s.predictions.WithLabelValues(level).Inc()
}

// RecordLatency observes one prediction latency in seconds.
func (s *PromSink) RecordLatency(seconds float64) {
	s.latency.Observe(seconds)
}
