// Package gbrt implements gradient-boosted regression trees for the demand
// forecaster: squared-error boosting over shallow CART trees, with JSON model
// persistence.
package gbrt

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
)

// Params configures a boosting run.
type Params struct {
	NEstimators    int     `json:"n_estimators"`
	MaxDepth       int     `json:"max_depth"`
	LearningRate   float64 `json:"learning_rate"`
	MinSamplesLeaf int     `json:"min_samples_leaf"`
	Subsample      float64 `json:"subsample"`
	Seed           int64   `json:"seed"`
}

// SetDefaults applies the reference training parameters.
func (p *Params) SetDefaults() {
	if p.NEstimators == 0 {
		p.NEstimators = 100
	}
	if p.MaxDepth == 0 {
		p.MaxDepth = 6
	}
	if p.LearningRate == 0 {
		p.LearningRate = 0.1
	}
	if p.MinSamplesLeaf == 0 {
		p.MinSamplesLeaf = 1
	}
	if p.Subsample == 0 {
		p.Subsample = 1
	}
	if p.Seed == 0 {
		p.Seed = 42
	}
}

// Validate checks parameter ranges.
func (p Params) Validate() error {
	if p.NEstimators <= 0 {
		return fmt.Errorf("n_estimators must be positive")
	}
	if p.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive")
	}
	if p.LearningRate <= 0 || p.LearningRate > 1 {
		return fmt.Errorf("learning_rate must be in (0,1]")
	}
	if p.Subsample <= 0 || p.Subsample > 1 {
		return fmt.Errorf("subsample must be in (0,1]")
	}
	return nil
}

// Model is a fitted gradient-boosted regressor. Immutable after training;
// retraining replaces the artifact wholesale.
type Model struct {
	Params      Params    `json:"params"`
	Features    []string  `json:"features"`
	Base        float64   `json:"base"`
	Trees       []*Node   `json:"trees"`
	Importances []float64 `json:"importances"`
}

// Fit trains a model on the feature matrix x and target y. featureNames must
// match the column order of x.
func Fit(x [][]float64, y []float64, featureNames []string, p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("training set: %d rows, %d targets", len(x), len(y))
	}
	nFeatures := len(x[0])
	if len(featureNames) != nFeatures {
		return nil, fmt.Errorf("%d feature names for %d columns", len(featureNames), nFeatures)
	}

	base := 0.0
	for _, v := range y {
		base += v
	}
	base /= float64(len(y))

	m := &Model{
		Params:      p,
		Features:    append([]string(nil), featureNames...),
		Base:        base,
		Trees:       make([]*Node, 0, p.NEstimators),
		Importances: make([]float64, nFeatures),
	}

	rng := rand.New(rand.NewSource(p.Seed))
	pred := make([]float64, len(y))
	for i := range pred {
		pred[i] = base
	}
	residual := make([]float64, len(y))
	sampleSize := int(p.Subsample * float64(len(y)))
	if sampleSize < 1 {
		sampleSize = 1
	}

	for t := 0; t < p.NEstimators; t++ {
		for i := range y {
			residual[i] = y[i] - pred[i]
		}
		idx := sampleIndices(rng, len(y), sampleSize)
		b := &treeBuilder{
			x:          x,
			y:          residual,
			maxDepth:   p.MaxDepth,
			minSamples: p.MinSamplesLeaf,
			gains:      make([]float64, nFeatures),
		}
		tree := b.build(idx, 0)
		m.Trees = append(m.Trees, tree)
		for f, g := range b.gains {
			m.Importances[f] += g
		}
		for i := range pred {
			pred[i] += p.LearningRate * tree.Predict(x[i])
		}
	}

	normalize(m.Importances)
	return m, nil
}

// Predict scores one feature vector.
func (m *Model) Predict(x []float64) float64 {
	out := m.Base
	for _, t := range m.Trees {
		out += m.Params.LearningRate * t.Predict(x)
	}
	return out
}

// PredictBatch scores every row of x.
func (m *Model) PredictBatch(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = m.Predict(row)
	}
	return out
}

// Importance pairs a feature name with its normalized split gain.
type Importance struct {
	Feature string  `json:"feature"`
	Gain    float64 `json:"gain"`
}

// ImportanceRanking returns features ordered by decreasing gain.
func (m *Model) ImportanceRanking() []Importance {
	out := make([]Importance, len(m.Features))
	for i, f := range m.Features {
		out[i] = Importance{Feature: f, Gain: m.Importances[i]}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Gain > out[j].Gain })
	return out
}

// Save writes the model artifact as JSON, creating parent directories.
func (m *Model) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a model artifact written by Save.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	if len(m.Trees) == 0 {
		return nil, fmt.Errorf("model %s: no trees", path)
	}
	return &m, nil
}

// sampleIndices draws sampleSize indices without replacement, or the full
// index set when subsampling is off.
func sampleIndices(rng *rand.Rand, n, sampleSize int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if sampleSize >= n {
		return idx
	}
	rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	return idx[:sampleSize]
}

func normalize(v []float64) {
	total := 0.0
	for _, x := range v {
		total += x
	}
	if total == 0 {
		return
	}
	for i := range v {
		v[i] /= total
	}
}
