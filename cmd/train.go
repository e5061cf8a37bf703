package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/citymedic/ambucast/config"
	"github.com/citymedic/ambucast/core/gbrt"
	clog "github.com/citymedic/ambucast/core/logger"
	"github.com/citymedic/ambucast/core/model"
	"github.com/citymedic/ambucast/infra/csvio"
	"github.com/citymedic/ambucast/infra/logger"
	"github.com/citymedic/ambucast/infra/tracking"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit the demand regressor and record the run",
	RunE:  runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New("train")

	recs, err := csvio.ReadDemandRecords(cfg.Data.FeaturesPath)
	if err != nil {
		return fmt.Errorf("load features: %w", err)
	}
	log.Infof("loaded %d demand records from %s", len(recs), cfg.Data.FeaturesPath)

	x := make([][]float64, len(recs))
	y := make([]float64, len(recs))
	for i, d := range recs {
		x[i] = d.FeatureVector()
		y[i] = float64(d.DemandCount)
	}

	trainIdx, testIdx := gbrt.TrainTestSplit(len(recs), cfg.Training.TestFraction, cfg.Training.SplitSeed)
	log.Infof("train size %d, test size %d", len(trainIdx), len(testIdx))

	mdl, err := gbrt.Fit(pick(x, trainIdx), pickF(y, trainIdx), model.FeatureColumns, cfg.Training.Params)
	if err != nil {
		return fmt.Errorf("fit: %w", err)
	}

	metrics, err := gbrt.Evaluate(pickF(y, testIdx), mdl.PredictBatch(pick(x, testIdx)))
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	log.Infof("mae=%.4f rmse=%.4f r2=%.4f", metrics.MAE, metrics.RMSE, metrics.R2)
	for _, imp := range mdl.ImportanceRanking() {
		log.Infof("importance %-20s %.3f", imp.Feature, imp.Gain)
	}

	if err := recordRun(cmd.Context(), cfg, mdl, metrics, log); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	if err := mdl.Save(cfg.Data.ModelPath); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	log.Infof("model saved to %s", cfg.Data.ModelPath)
	return nil
}

// recordRun persists the experiment to the configured tracking backends.
func recordRun(ctx context.Context, cfg *config.Config, mdl *gbrt.Model, metrics gbrt.Metrics, log clog.Logger) error {
	var recorders []tracking.Recorder
	if cfg.Tracking.SQLitePath != "" {
		if dir := filepath.Dir(cfg.Tracking.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		store, err := tracking.NewSQLiteStore(cfg.Tracking.SQLitePath)
		if err != nil {
			return err
		}
		recorders = append(recorders, store)
	}
	if cfg.Tracking.Influx.Enabled {
		recorders = append(recorders, tracking.NewInfluxRecorderWithFallback(cfg.Tracking.Influx, logger.New("influx-tracking")))
	}
	if len(recorders) == 0 {
		return nil
	}
	rec := tracking.NewMultiRecorder(recorders...)
	defer func() {
		if err := rec.Close(); err != nil {
			log.Errorf("close tracking: %v", err)
		}
	}()

	run := tracking.NewRun(cfg.Training.Experiment)
	p := cfg.Training.Params
	run.Params["n_estimators"] = strconv.Itoa(p.NEstimators)
	run.Params["max_depth"] = strconv.Itoa(p.MaxDepth)
	run.Params["learning_rate"] = strconv.FormatFloat(p.LearningRate, 'f', -1, 64)
	run.Params["seed"] = strconv.FormatInt(p.Seed, 10)
	run.Metrics["mae"] = metrics.MAE
	run.Metrics["rmse"] = metrics.RMSE
	run.Metrics["r2"] = metrics.R2
	for _, imp := range mdl.ImportanceRanking() {
		run.Importance[imp.Feature] = imp.Gain
	}
	return rec.Record(ctx, run)
}

func pick(x [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = x[j]
	}
	return out
}

func pickF(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
