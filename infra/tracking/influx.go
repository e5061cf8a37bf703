package tracking

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/citymedic/ambucast/core/logger"
)

// InfluxConfig configures the optional InfluxDB run sink.
type InfluxConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	Token   string `json:"token"`
	Org     string `json:"org"`
	Bucket  string `json:"bucket"`
}

// InfluxRecorder writes training runs to an InfluxDB instance using the
// official client.
type InfluxRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxRecorder creates a recorder for the given InfluxDB endpoint.
func NewInfluxRecorder(cfg InfluxConfig, log logger.Logger) *InfluxRecorder {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxRecorder{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      log,
	}
}

// NewInfluxRecorderWithFallback pings the InfluxDB instance and returns a
// NopRecorder if the health check fails, so a missing tracking backend never
// blocks training.
func NewInfluxRecorderWithFallback(cfg InfluxConfig, log logger.Logger) Recorder {
	rec := NewInfluxRecorder(cfg, log)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := rec.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			log.Errorf("influx health check error: %v", err)
		} else {
			log.Errorf("influx health status: %s", health.Status)
		}
		rec.client.Close()
		return NopRecorder{}
	}
	return rec
}

// Record writes the run as one point per metric family.
func (r *InfluxRecorder) Record(ctx context.Context, run Run) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	p := write.NewPointWithMeasurement("training_run").
		AddTag("experiment", run.Experiment).
		AddTag("run_id", run.ID).
		SetTime(run.StartedAt)
	for k, v := range run.Metrics {
		p.AddField(k, v)
	}
	for k, v := range run.Importance {
		p.AddField("importance_"+k, v)
	}
	for k, v := range run.Params {
		p.AddTag("param_"+k, v)
	}
	return r.writeAPI.WritePoint(ctx, p)
}

// Close shuts the client down.
func (r *InfluxRecorder) Close() error {
	r.client.Close()
	return nil
}
