package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/citymedic/ambucast/api"
	"github.com/citymedic/ambucast/config"
	"github.com/citymedic/ambucast/core/gbrt"
	"github.com/citymedic/ambucast/infra/geo"
	"github.com/citymedic/ambucast/infra/logger"
	"github.com/citymedic/ambucast/infra/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve demand predictions over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New("serve")

	// A missing model keeps the service up; /predict degrades to 503.
	mdl, err := gbrt.Load(cfg.Data.ModelPath)
	if err != nil {
		log.Errorf("load model: %v", err)
		mdl = nil
	} else {
		log.Infof("model loaded from %s", cfg.Data.ModelPath)
	}

	resolver, err := geo.NewResolver(cfg.Features.Resolution)
	if err != nil {
		return err
	}
	sink, err := metrics.NewPromSink(nil)
	if err != nil {
		return fmt.Errorf("prom sink: %w", err)
	}

	srv := api.New(mdl, resolver, cfg.Validation.Bounds, sink, log)
	return srv.Run(ctx, cfg.API.Addr)
}
