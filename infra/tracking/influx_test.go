package tracking

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/citymedic/ambucast/core/logger"
)

func TestNewInfluxRecorderWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	cfg := InfluxConfig{
		URL:    srv.URL,
		Token:  "tok",
		Org:    "org",
		Bucket: "training",
	}
	rec := NewInfluxRecorderWithFallback(cfg, logger.NopLogger{})
	if _, ok := rec.(*InfluxRecorder); ok {
		t.Fatalf("expected NopRecorder on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}

func TestNewInfluxRecorderWithFallbackUnreachable(t *testing.T) {
	cfg := InfluxConfig{
		URL:    "http://127.0.0.1:1",
		Token:  "tok",
		Org:    "org",
		Bucket: "training",
	}
	rec := NewInfluxRecorderWithFallback(cfg, logger.NopLogger{})
	if _, ok := rec.(NopRecorder); !ok {
		t.Fatalf("expected NopRecorder for unreachable endpoint, got %T", rec)
	}
}

func TestNewInfluxRecorderWithFallbackHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"influxdb","status":"pass"}`))
			return
		}
	}))
	defer srv.Close()

	cfg := InfluxConfig{
		URL:    srv.URL,
		Token:  "tok",
		Org:    "org",
		Bucket: "training",
	}
	rec := NewInfluxRecorderWithFallback(cfg, logger.NopLogger{})
	ir, ok := rec.(*InfluxRecorder)
	if !ok {
		t.Fatalf("expected live recorder on passing health check, got %T", rec)
	}
	if err := ir.Close(); err != nil {
		t.Fatal(err)
	}
}
