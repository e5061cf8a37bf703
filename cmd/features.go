package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citymedic/ambucast/config"
	"github.com/citymedic/ambucast/core/features"
	"github.com/citymedic/ambucast/infra/csvio"
	"github.com/citymedic/ambucast/infra/geo"
	"github.com/citymedic/ambucast/infra/logger"
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Aggregate observations into hexagonal demand features",
	RunE:  runFeatures,
}

func init() {
	rootCmd.AddCommand(featuresCmd)
}

func runFeatures(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New("features")

	obs, err := csvio.ReadObservations(cfg.Data.RawPath)
	if err != nil {
		return fmt.Errorf("load raw dataset: %w", err)
	}
	log.Infof("loaded %d observations from %s", len(obs), cfg.Data.RawPath)

	resolver, err := geo.NewResolver(cfg.Features.Resolution)
	if err != nil {
		return err
	}
	recs, cells, err := features.New(resolver).Build(obs)
	if err != nil {
		return fmt.Errorf("build features: %w", err)
	}

	if err := csvio.WriteDemandRecords(cfg.Data.FeaturesPath, recs); err != nil {
		return fmt.Errorf("write features: %w", err)
	}
	if err := csvio.WriteCellSummaries(cfg.Data.CellsPath, cells); err != nil {
		return fmt.Errorf("write cell mapping: %w", err)
	}
	log.Infof("wrote %d demand records across %d cells", len(recs), len(cells))
	return nil
}
