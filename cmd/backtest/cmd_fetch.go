package main

import (
	"fmt"
	"time"

	"portfoliosim/cmd"
	"portfoliosim/internal/config"
	"portfoliosim/internal/domain"
	"portfoliosim/internal/logger"
	"portfoliosim/internal/util"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download daily prices for every reference instrument",
	Long: `Fetch downloads adjusted daily closes from the Yahoo chart api for each
instrument in the reference file and merges them into the prices file.

Examples:
  backtest fetch --config backtest.yaml
  backtest fetch --from 2010-01-01`,
	RunE: runFetch,
}

var (
	fetchFrom string
	fetchTo   string
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchFrom, "from", "", "First date to download (defaults to data.fetch_start)")
	fetchCmd.Flags().StringVar(&fetchTo, "to", "", "Last date to download (defaults to today)")
}

func runFetch(c *cobra.Command, args []string) error {
	ctx := c.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Data.ReferenceFile == "" || cfg.Data.PricesFile == "" {
		return fmt.Errorf("data.reference_file and data.prices_file are required: %w", domain.ErrConfiguration)
	}
	if c.Flags().Changed("from") {
		cfg.Data.FetchStart = fetchFrom
	}

	start, err := util.ParseDate(cfg.Data.FetchStart)
	if err != nil {
		return fmt.Errorf("invalid fetch start %q: %w", cfg.Data.FetchStart, domain.ErrConfiguration)
	}
	end := util.DateOnly(time.Now().UTC())
	if fetchTo != "" {
		end, err = util.ParseDate(fetchTo)
		if err != nil {
			return fmt.Errorf("invalid fetch end %q: %w", fetchTo, domain.ErrConfiguration)
		}
	}

	// fetching never exports, so skip opening the history sinks
	cfg.Export = config.ExportConfig{}
	deps, err := cmd.InitializeDependencies(ctx, *cfg)
	if err != nil {
		return err
	}
	defer cmd.CloseDependencies(ctx, deps)

	if err := deps.PriceService.IngestPrices(ctx, start, end); err != nil {
		return err
	}
	logger.FromContext(ctx).Infof("prices written to %s", cfg.Data.PricesFile)
	return nil
}
