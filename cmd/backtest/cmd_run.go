package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"portfoliosim/cmd"
	"portfoliosim/internal/app"
	"portfoliosim/internal/config"
	"portfoliosim/internal/logger"
	"portfoliosim/internal/util"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation and export its history",
	Long: `Run loads the reference and price files, steps the simulation from
date_start to date_finish and writes the run history to every configured sink.

Examples:
  backtest run --config backtest.yaml
  backtest run --start 2015-01-01 --finish 2020-12-31 --top 3
  backtest run --format json`,
	RunE: runBacktest,
}

var (
	runStart     string
	runFinish    string
	runCash      float64
	runTop       int
	runMin       float64
	runRiskPower float64
	runWorkers   int
	runCsvDir    string
	runSqlite    string
	runFormat    string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runStart, "start", "", "First simulated date (YYYY-MM-DD)")
	runCmd.Flags().StringVar(&runFinish, "finish", "", "Last simulated date (YYYY-MM-DD)")
	runCmd.Flags().Float64Var(&runCash, "cash", 0, "Starting cash")
	runCmd.Flags().IntVar(&runTop, "top", 0, "Maximum number of instruments held")
	runCmd.Flags().Float64Var(&runMin, "min-score", 0, "Scores must exceed this to be held")
	runCmd.Flags().Float64Var(&runRiskPower, "risk-power", 0, "Dispersion penalty exponent")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "Scoring workers")
	runCmd.Flags().StringVar(&runCsvDir, "csv-dir", "", "Directory for csv history export")
	runCmd.Flags().StringVar(&runSqlite, "sqlite", "", "Path of sqlite history export")
	runCmd.Flags().StringVar(&runFormat, "format", "table", "Output format: table, json")
}

// applyRunFlags overrides cfg with every flag the user set explicitly
func applyRunFlags(c *cobra.Command, cfg *config.Config) {
	flags := c.Flags()
	if flags.Changed("start") {
		cfg.Simulation.DateStart = runStart
	}
	if flags.Changed("finish") {
		cfg.Simulation.DateFinish = runFinish
	}
	if flags.Changed("cash") {
		cfg.Simulation.CashStart = runCash
	}
	if flags.Changed("top") {
		cfg.Simulation.TopThres = runTop
	}
	if flags.Changed("min-score") {
		cfg.Simulation.MinThres = runMin
	}
	if flags.Changed("risk-power") {
		cfg.Simulation.RiskPower = runRiskPower
	}
	if flags.Changed("workers") {
		cfg.Simulation.ScoreWorkers = runWorkers
	}
	if flags.Changed("csv-dir") {
		cfg.Export.CsvDir = runCsvDir
	}
	if flags.Changed("sqlite") {
		cfg.Export.SqlitePath = runSqlite
	}
}

func runBacktest(c *cobra.Command, args []string) error {
	ctx := c.Context()
	lg := logger.FromContext(ctx)

	if runFormat != "table" && runFormat != "json" {
		return fmt.Errorf("unknown format %q", runFormat)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyRunFlags(c, cfg)
	if err := cfg.Validate(true); err != nil {
		return err
	}
	opts, err := cfg.SimulationOptions()
	if err != nil {
		return err
	}

	deps, err := cmd.InitializeDependencies(ctx, *cfg)
	if err != nil {
		return err
	}
	defer cmd.CloseDependencies(ctx, deps)

	store, err := deps.PriceService.LoadPriceHistory(ctx)
	if err != nil {
		return err
	}

	result, err := deps.BacktestHandler.Backtest(ctx, app.BacktestInput{
		Store:   store,
		Options: *opts,
	})
	if err != nil {
		return err
	}
	lg.Infof("run %s finished with total value %.2f", result.RunID, result.TotalValue)

	if runFormat == "json" {
		return printJson(result)
	}
	return printTable(result)
}

func printJson(result *app.RunResult) error {
	out := map[string]interface{}{
		"runID":      result.RunID,
		"totalValue": result.TotalValue,
		"cash":       result.FinalPortfolio.Cash,
		"metrics":    result.Metrics,
		"holdings":   result.Valuation,
		"periods":    result.History.Periods,
		"timingsMs":  result.Timings,
	}
	util.Pprint(out)
	return nil
}

func printTable(result *app.RunResult) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "run\t%s\n", result.RunID)
	fmt.Fprintf(w, "total value\t%.2f\n", result.TotalValue)
	fmt.Fprintf(w, "cash\t%s\n", result.FinalPortfolio.Cash.StringFixed(2))
	if m := result.Metrics; m != nil {
		fmt.Fprintf(w, "total return\t%.4f\n", m.TotalReturn)
		fmt.Fprintf(w, "annualized return\t%.4f\n", m.AnnualizedReturn)
		fmt.Fprintf(w, "annualized stdev\t%.4f\n", m.AnnualizedStdev)
		fmt.Fprintf(w, "sharpe\t%.4f\n", m.SharpeRatio)
		fmt.Fprintf(w, "max drawdown\t%.4f\n", m.MaxDrawdown)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "INSTRUMENT\tNAME\tQUANTITY\tPRICE\tVALUE\tWEIGHT")
	for _, row := range result.Valuation {
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\t%s\t%.4f\n",
			row.InstrumentID, row.Name, row.Quantity, row.Price, row.Value.StringFixed(2), row.Weight)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "DATE\tMODE\tCASH\tINVESTED\tTOTAL\tTRADES")
	for _, p := range result.History.Periods {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			util.FormatDate(p.Date), p.Mode, p.Cash.StringFixed(2), p.InvestedValue.StringFixed(2), p.TotalValue.StringFixed(2), p.NumTrades)
	}

	return w.Flush()
}
