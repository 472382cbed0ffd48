package main

import (
	"context"
	"fmt"
	"os"

	"portfoliosim/internal/logger"

	"github.com/spf13/cobra"
)

var (
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Monthly rebalancing portfolio simulator",
	Long: `backtest replays a managed-fund universe month by month, scoring each
instrument on its own price history and rebalancing into the best scored ones.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("BACKTEST_CONFIG"), "Path to yaml configuration file")
}

func main() {
	lg := logger.New()
	ctx := logger.WithLogger(context.Background(), lg)

	err := rootCmd.ExecuteContext(ctx)
	lg.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
