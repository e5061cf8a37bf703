package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/citymedic/ambucast/core/gbrt"
	"github.com/citymedic/ambucast/core/logger"
	"github.com/citymedic/ambucast/core/model"
)

type stubResolver struct{}

func (stubResolver) CellID(lat, lon float64) string {
	return fmt.Sprintf("cell-%.2f-%.2f", lat, lon)
}

func constantModel(t *testing.T, value float64) *gbrt.Model {
	t.Helper()
	// Eight features with identical targets: the fit degenerates to the mean.
	n := 20
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = make([]float64, len(model.FeatureColumns))
		for j := range x[i] {
			x[i][j] = float64(i + j)
		}
		y[i] = value
	}
	params := gbrt.Params{NEstimators: 5, MaxDepth: 2}
	params.SetDefaults()
	mdl, err := gbrt.Fit(x, y, model.FeatureColumns, params)
	require.NoError(t, err)
	return mdl
}

func newTestServer(t *testing.T, mdl *gbrt.Model) *Server {
	t.Helper()
	return New(mdl, stubResolver{}, model.Bangalore, nil, logger.NopLogger{})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, constantModel(t, 2))
	w := doJSON(t, srv.Handler(), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "healthy", resp.Status)
	require.True(t, resp.ModelLoaded)
}

func TestHealthWithoutModel(t *testing.T) {
	srv := newTestServer(t, nil)
	w := doJSON(t, srv.Handler(), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "unhealthy", resp.Status)
	require.False(t, resp.ModelLoaded)
}

func TestPredictWithoutModel(t *testing.T) {
	srv := newTestServer(t, nil)
	w := doJSON(t, srv.Handler(), http.MethodPost, "/predict",
		`{"latitude": 12.95, "longitude": 77.6, "hour": 10, "day_of_week": 2, "month": 6}`)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPredict(t *testing.T) {
	srv := newTestServer(t, constantModel(t, 2))
	w := doJSON(t, srv.Handler(), http.MethodPost, "/predict",
		`{"latitude": 12.95, "longitude": 77.6, "hour": 0, "day_of_week": 5, "month": 6}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp PredictionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "cell-12.95-77.60", resp.CellID)
	require.InDelta(t, 2, resp.PredictedDemand, 0.01)
	require.Equal(t, string(model.DemandMedium), resp.DemandLevel)
	require.Equal(t, 0, resp.Hour)
	require.Equal(t, 5, resp.DayOfWeek)
}

func TestPredictValidation(t *testing.T) {
	srv := newTestServer(t, constantModel(t, 2))
	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"latitude": `},
		{"missing latitude", `{"longitude": 77.6, "hour": 10, "day_of_week": 2, "month": 6}`},
		{"hour too large", `{"latitude": 12.95, "longitude": 77.6, "hour": 24, "day_of_week": 2, "month": 6}`},
		{"negative day", `{"latitude": 12.95, "longitude": 77.6, "hour": 10, "day_of_week": -1, "month": 6}`},
		{"month zero", `{"latitude": 12.95, "longitude": 77.6, "hour": 10, "day_of_week": 2, "month": 0}`},
		{"out of region", `{"latitude": 28.61, "longitude": 77.2, "hour": 10, "day_of_week": 2, "month": 6}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, srv.Handler(), http.MethodPost, "/predict", tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRoot(t *testing.T) {
	srv := newTestServer(t, nil)
	w := doJSON(t, srv.Handler(), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "/predict")
}
