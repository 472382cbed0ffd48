package main

import (
	"portfoliosim/cmd"
	"portfoliosim/internal/config"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve simulations over http",
	Long: `Serve loads the price history once and starts the http api.

Examples:
  backtest serve --config backtest.yaml --port 8080`,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to api.port)")
}

func runServe(c *cobra.Command, args []string) error {
	ctx := c.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if c.Flags().Changed("port") {
		cfg.Api.Port = servePort
	}
	if err := cfg.Validate(false); err != nil {
		return err
	}

	deps, err := cmd.InitializeDependencies(ctx, *cfg)
	if err != nil {
		return err
	}
	defer cmd.CloseDependencies(ctx, deps)

	apiHandler, err := cmd.NewApiHandler(ctx, deps)
	if err != nil {
		return err
	}
	return apiHandler.StartApi(cfg.Api.Port)
}
