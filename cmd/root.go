package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "ambucast",
	Short: "Ambulance demand forecast pipeline",
	Long: `ambucast runs the demand-forecast pipeline step by step: synthesize raw
GPS observations, validate them, aggregate them into hexagonal demand
features, train the regressor and serve predictions over HTTP.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
