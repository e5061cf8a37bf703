package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citymedic/ambucast/config"
	"github.com/citymedic/ambucast/core/validate"
	"github.com/citymedic/ambucast/infra/csvio"
	"github.com/citymedic/ambucast/infra/logger"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the raw dataset against the feed invariants",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New("validate")

	t, err := csvio.ReadTable(cfg.Data.RawPath)
	if err != nil {
		return fmt.Errorf("load raw dataset: %w", err)
	}
	log.Infof("loaded %d records from %s", len(t.Rows), cfg.Data.RawPath)

	rep := validate.New(cfg.Validation).Run(validate.Table{Header: t.Header, Rows: t.Rows})
	for _, res := range rep.Results {
		switch res.Status {
		case validate.Fail:
			log.Errorf("%s: %s", res.Name, res.Detail)
		case validate.Warn:
			log.Warnf("%s: %s", res.Name, res.Detail)
		default:
			log.Infof("%s: %s", res.Name, res.Detail)
		}
	}
	if !rep.OK() {
		return fmt.Errorf("validation failed")
	}
	log.Infof("all validations passed")
	return nil
}
