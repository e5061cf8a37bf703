package gbrt

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func syntheticDataset(n int, seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := range x {
		a := rng.Float64() * 10
		b := rng.Float64() * 5
		c := rng.Float64()
		x[i] = []float64{a, b, c}
		// Piecewise signal with mild noise: trees should capture it easily.
		y[i] = 2*a + b*b
		if a > 5 {
			y[i] += 10
		}
		y[i] += rng.NormFloat64() * 0.1
	}
	return x, y
}

func testParams() Params {
	p := Params{NEstimators: 30, MaxDepth: 4, LearningRate: 0.2, Seed: 42}
	p.SetDefaults()
	return p
}

func TestFitImprovesOnMeanPredictor(t *testing.T) {
	x, y := syntheticDataset(400, 7)
	m, err := Fit(x, y, []string{"a", "b", "c"}, testParams())
	require.NoError(t, err)

	meanMetrics := mustEvaluate(t, y, constant(mean(y), len(y)))
	fitMetrics := mustEvaluate(t, y, m.PredictBatch(x))
	if fitMetrics.RMSE >= meanMetrics.RMSE/2 {
		t.Fatalf("boosting barely improved on the mean: %.4f vs %.4f", fitMetrics.RMSE, meanMetrics.RMSE)
	}
	if fitMetrics.R2 < 0.9 {
		t.Fatalf("training R² %.4f, expected a close fit", fitMetrics.R2)
	}
}

func TestFitDeterministic(t *testing.T) {
	x, y := syntheticDataset(200, 3)
	m1, err := Fit(x, y, []string{"a", "b", "c"}, testParams())
	require.NoError(t, err)
	m2, err := Fit(x, y, []string{"a", "b", "c"}, testParams())
	require.NoError(t, err)
	for i, row := range x {
		if m1.Predict(row) != m2.Predict(row) {
			t.Fatalf("prediction %d differs between identical fits", i)
		}
	}
}

func TestFitInputErrors(t *testing.T) {
	p := testParams()
	if _, err := Fit(nil, nil, nil, p); err == nil {
		t.Fatal("expected error on empty training set")
	}
	x, y := syntheticDataset(10, 1)
	if _, err := Fit(x, y, []string{"only-one"}, p); err == nil {
		t.Fatal("expected error on feature name mismatch")
	}
	bad := p
	bad.LearningRate = 2
	if _, err := Fit(x, y, []string{"a", "b", "c"}, bad); err == nil {
		t.Fatal("expected error on invalid params")
	}
}

func TestImportanceRanking(t *testing.T) {
	x, y := syntheticDataset(400, 11)
	m, err := Fit(x, y, []string{"a", "b", "c"}, testParams())
	require.NoError(t, err)

	total := 0.0
	for _, g := range m.Importances {
		total += g
	}
	require.InDelta(t, 1.0, total, 1e-9, "importances must be normalized")

	ranking := m.ImportanceRanking()
	// Feature c never enters the target; it must not dominate.
	if ranking[0].Feature == "c" {
		t.Fatalf("noise feature ranked first: %+v", ranking)
	}
	for i := 1; i < len(ranking); i++ {
		if ranking[i].Gain > ranking[i-1].Gain {
			t.Fatalf("ranking not sorted: %+v", ranking)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	x, y := syntheticDataset(200, 5)
	m, err := Fit(x, y, []string{"a", "b", "c"}, testParams())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "models", "demand_model.json")
	require.NoError(t, m.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, m.Features, loaded.Features)
	for _, row := range x[:20] {
		if got, want := loaded.Predict(row), m.Predict(row); got != want {
			t.Fatalf("loaded model predicts %v, want %v", got, want)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing model file")
	}
}

func mustEvaluate(t *testing.T, truth, pred []float64) Metrics {
	t.Helper()
	m, err := Evaluate(truth, pred)
	require.NoError(t, err)
	return m
}

func mean(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

func constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
