package gbrt

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metrics are the held-out evaluation scores of a training run.
type Metrics struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}

// Evaluate computes MAE, RMSE and R² of predictions against truth.
func Evaluate(truth, pred []float64) (Metrics, error) {
	if len(truth) == 0 || len(truth) != len(pred) {
		return Metrics{}, fmt.Errorf("evaluate: %d truth vs %d predictions", len(truth), len(pred))
	}
	resid := make([]float64, len(truth))
	floats.SubTo(resid, truth, pred)

	absSum, sqSum := 0.0, 0.0
	for _, r := range resid {
		absSum += math.Abs(r)
		sqSum += r * r
	}
	n := float64(len(truth))

	mean := stat.Mean(truth, nil)
	ssTot := 0.0
	for _, v := range truth {
		d := v - mean
		ssTot += d * d
	}
	r2 := math.NaN()
	if ssTot > 0 {
		r2 = 1 - sqSum/ssTot
	}
	return Metrics{
		MAE:  absSum / n,
		RMSE: math.Sqrt(sqSum / n),
		R2:   r2,
	}, nil
}

// TrainTestSplit shuffles 0..n-1 with the given seed and splits off testFrac
// of the indices for evaluation.
func TrainTestSplit(n int, testFrac float64, seed int64) (train, test []int) {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	cut := n - int(float64(n)*testFrac)
	return idx[:cut], idx[cut:]
}
