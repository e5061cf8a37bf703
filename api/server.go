// Package api serves demand predictions over HTTP.
package api

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/citymedic/ambucast/core/gbrt"
	"github.com/citymedic/ambucast/core/logger"
	"github.com/citymedic/ambucast/core/model"
	"github.com/citymedic/ambucast/infra/metrics"
)

// CellResolver maps coordinates onto grid cells.
type CellResolver interface {
	CellID(lat, lon float64) string
}

// Server answers point-in-time, point-in-space demand queries with a loaded
// model. The model is read-only after construction; requests share it without
// locking.
type Server struct {
	engine *gin.Engine
	model  *gbrt.Model
	cells  CellResolver
	bounds model.BoundingBox
	sink   *metrics.PromSink
	log    logger.Logger
}

// placeholderLag stands in for live per-cell history, which the serving layer
// has no feature store to read from.
const placeholderLag = 1.0

// New builds the server. mdl may be nil when the artifact failed to load; the
// service then stays up but answers /predict with 503.
func New(mdl *gbrt.Model, cells CellResolver, bounds model.BoundingBox, sink *metrics.PromSink, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		engine: gin.New(),
		model:  mdl,
		cells:  cells,
		bounds: bounds,
		sink:   sink,
		log:    log,
	}
	s.engine.Use(gin.Recovery())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/", s.root)
	s.engine.GET("/health", s.health)
	s.engine.POST("/predict", s.predict)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("server shutdown: %v", err)
		}
	}()
	s.log.Infof("prediction service listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "ambulance demand prediction",
		"health":  "/health",
		"predict": "/predict",
	})
}

func (s *Server) health(c *gin.Context) {
	status := "healthy"
	if s.model == nil {
		status = "unhealthy"
	}
	c.JSON(http.StatusOK, HealthResponse{
		Status:      status,
		ModelLoaded: s.model != nil,
		Timestamp:   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) predict(c *gin.Context) {
	if s.model == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model not loaded"})
		return
	}
	var req PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lat, lon := *req.Latitude, *req.Longitude
	if !s.bounds.Contains(lat, lon) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates outside service region"})
		return
	}

	start := time.Now()
	cellID := s.cells.CellID(lat, lon)
	weekend := 0.0
	if *req.DayOfWeek >= 5 {
		weekend = 1
	}
	x := []float64{
		float64(*req.Hour),
		float64(*req.DayOfWeek),
		weekend,
		float64(*req.Month),
		placeholderLag,
		placeholderLag,
		placeholderLag,
		placeholderLag,
	}
	demand := math.Max(0, s.model.Predict(x))
	demand = math.Round(demand*100) / 100
	level := model.ClassifyDemand(demand)
	if s.sink != nil {
		s.sink.RecordPrediction(string(level))
		s.sink.RecordLatency(time.Since(start).Seconds())
	}

	c.JSON(http.StatusOK, PredictionResponse{
		CellID:          cellID,
		PredictedDemand: demand,
		DemandLevel:     string(level),
		Latitude:        lat,
		Longitude:       lon,
		Hour:            *req.Hour,
		DayOfWeek:       *req.DayOfWeek,
		Timestamp:       time.Now().Format(time.RFC3339),
	})
}
