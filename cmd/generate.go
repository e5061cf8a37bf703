package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citymedic/ambucast/config"
	"github.com/citymedic/ambucast/core/gen"
	"github.com/citymedic/ambucast/infra/csvio"
	"github.com/citymedic/ambucast/infra/logger"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Synthesize the raw observation dataset",
	RunE:  runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New("generate")

	obs, err := gen.New(cfg.Generator).Generate()
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	if err := csvio.WriteObservations(cfg.Data.RawPath, obs); err != nil {
		return fmt.Errorf("write raw dataset: %w", err)
	}

	s := gen.Summarize(obs)
	log.Infof("wrote %d records to %s", s.Records, cfg.Data.RawPath)
	log.Debugw("dataset summary", map[string]any{
		"records":       s.Records,
		"on_duty":       s.OnDuty,
		"support_types": s.SupportTypes,
		"lat_range":     fmt.Sprintf("%.4f..%.4f", s.LatMin, s.LatMax),
		"lon_range":     fmt.Sprintf("%.4f..%.4f", s.LonMin, s.LonMax),
		"from":          s.From,
		"to":            s.To,
	})
	return nil
}
