package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"portfoliosim/internal/domain"
	"portfoliosim/internal/util"

	"github.com/gocarina/gocsv"
)

// HistoryRepository persists the per-period tables of a finished run
type HistoryRepository interface {
	Save(ctx context.Context, history domain.RunHistory) error
	Close() error
}

const (
	priceHistoryFile     = "price_history.csv"
	holdingsHistoryFile  = "holdings_history.csv"
	valuationHistoryFile = "valuation_history.csv"
	scoreHistoryFile     = "score_history.csv"
	targetHistoryFile    = "target_history.csv"
	tradeHistoryFile     = "trade_history.csv"
	periodHistoryFile    = "period_history.csv"
)

type csvHistoryRepositoryHandler struct {
	Dir string
}

// NewCsvHistoryRepository writes one csv per table under dir. Rows of later
// runs are appended to existing files and told apart by run_id.
func NewCsvHistoryRepository(dir string) (HistoryRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir %s: %w", dir, err)
	}
	return csvHistoryRepositoryHandler{Dir: dir}, nil
}

type priceHistoryCsvRow struct {
	RunID        string  `csv:"run_id"`
	Date         string  `csv:"date"`
	InstrumentID string  `csv:"instrument_id"`
	Price        float64 `csv:"price"`
}

type holdingCsvRow struct {
	RunID        string  `csv:"run_id"`
	Date         string  `csv:"date"`
	InstrumentID string  `csv:"instrument_id"`
	Quantity     float64 `csv:"quantity"`
}

type valuationCsvRow struct {
	RunID         string  `csv:"run_id"`
	Date          string  `csv:"date"`
	InstrumentID  string  `csv:"instrument_id"`
	Manager       string  `csv:"manager"`
	Name          string  `csv:"name"`
	MinTicketSize float64 `csv:"min_sum"`
	Surcharge     float64 `csv:"surcharge"`
	Discount      float64 `csv:"discount"`
	Quantity      float64 `csv:"quantity"`
	Price         float64 `csv:"price"`
	Value         string  `csv:"value"`
	Weight        float64 `csv:"weight"`
}

type scoreCsvRow struct {
	RunID        string  `csv:"run_id"`
	Date         string  `csv:"date"`
	InstrumentID string  `csv:"instrument_id"`
	Mean         float64 `csv:"mean"`
	Dispersion   float64 `csv:"disp"`
	Total1       float64 `csv:"total_1"`
	Total2       float64 `csv:"total_2"`
}

type targetCsvRow struct {
	RunID        string  `csv:"run_id"`
	Date         string  `csv:"date"`
	InstrumentID string  `csv:"instrument_id"`
	TargetWeight float64 `csv:"target_weight"`
	Score        float64 `csv:"score"`
}

type tradeCsvRow struct {
	RunID        string  `csv:"run_id"`
	Date         string  `csv:"date"`
	InstrumentID string  `csv:"instrument_id"`
	Side         string  `csv:"side"`
	Value        string  `csv:"value"`
	Quantity     float64 `csv:"quantity"`
	Price        float64 `csv:"price"`
}

type periodCsvRow struct {
	RunID         string `csv:"run_id"`
	Date          string `csv:"date"`
	Mode          string `csv:"mode"`
	Cash          string `csv:"cash"`
	InvestedValue string `csv:"invested_value"`
	TotalValue    string `csv:"total_value"`
	NumTrades     int    `csv:"num_trades"`
}

func (h csvHistoryRepositoryHandler) Save(ctx context.Context, history domain.RunHistory) error {
	runID := history.RunID.String()

	prices := []priceHistoryCsvRow{}
	for _, r := range history.Prices {
		prices = append(prices, priceHistoryCsvRow{runID, util.FormatDate(r.Date), r.InstrumentID, r.Price})
	}
	holdings := []holdingCsvRow{}
	for _, r := range history.Holdings {
		holdings = append(holdings, holdingCsvRow{runID, util.FormatDate(r.Date), r.InstrumentID, r.Quantity})
	}
	valuations := []valuationCsvRow{}
	for _, r := range history.Valuations {
		valuations = append(valuations, valuationCsvRow{
			RunID:         runID,
			Date:          util.FormatDate(r.Date),
			InstrumentID:  r.InstrumentID,
			Manager:       r.Manager,
			Name:          r.Name,
			MinTicketSize: r.MinTicketSize,
			Surcharge:     r.Surcharge,
			Discount:      r.Discount,
			Quantity:      r.Quantity,
			Price:         r.Price,
			Value:         r.Value.StringFixed(2),
			Weight:        r.Weight,
		})
	}
	scores := []scoreCsvRow{}
	for _, r := range history.Scores {
		scores = append(scores, scoreCsvRow{
			RunID:        runID,
			Date:         util.FormatDate(r.Date),
			InstrumentID: r.InstrumentID,
			Mean:         r.ForecastMeanReturn,
			Dispersion:   r.ForecastDispersion,
			Total1:       r.CostAdjustedReturn,
			Total2:       r.RiskAdjustedScore,
		})
	}
	targets := []targetCsvRow{}
	for _, r := range history.Targets {
		targets = append(targets, targetCsvRow{runID, util.FormatDate(r.Date), r.InstrumentID, r.TargetWeight, r.Score})
	}
	trades := []tradeCsvRow{}
	for _, r := range history.Trades {
		trades = append(trades, tradeCsvRow{
			RunID:        runID,
			Date:         util.FormatDate(r.Date),
			InstrumentID: r.InstrumentID,
			Side:         string(r.Side),
			Value:        r.Value.StringFixed(2),
			Quantity:     r.Quantity,
			Price:        r.Price,
		})
	}
	periods := []periodCsvRow{}
	for _, r := range history.Periods {
		periods = append(periods, periodCsvRow{
			RunID:         runID,
			Date:          util.FormatDate(r.Date),
			Mode:          string(r.Mode),
			Cash:          r.Cash.StringFixed(2),
			InvestedValue: r.InvestedValue.StringFixed(2),
			TotalValue:    r.TotalValue.StringFixed(2),
			NumTrades:     r.NumTrades,
		})
	}

	tables := []struct {
		file string
		rows any
		n    int
	}{
		{priceHistoryFile, &prices, len(prices)},
		{holdingsHistoryFile, &holdings, len(holdings)},
		{valuationHistoryFile, &valuations, len(valuations)},
		{scoreHistoryFile, &scores, len(scores)},
		{targetHistoryFile, &targets, len(targets)},
		{tradeHistoryFile, &trades, len(trades)},
		{periodHistoryFile, &periods, len(periods)},
	}
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		if t.n == 0 {
			continue
		}
		if err := h.appendRows(filepath.Join(h.Dir, t.file), t.rows); err != nil {
			return err
		}
	}

	return nil
}

func (h csvHistoryRepositoryHandler) appendRows(path string, rows any) error {
	info, err := os.Stat(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err == nil && info.Size() > 0 {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		if err := gocsv.MarshalWithoutHeaders(rows, f); err != nil {
			return fmt.Errorf("failed to append to %s: %w", path, err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(rows, f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

func (h csvHistoryRepositoryHandler) Close() error {
	return nil
}

type multiHistoryRepositoryHandler struct {
	Repositories []HistoryRepository
}

// NewMultiHistoryRepository fans every save out to each repository in order
func NewMultiHistoryRepository(repositories ...HistoryRepository) HistoryRepository {
	return multiHistoryRepositoryHandler{Repositories: repositories}
}

func (h multiHistoryRepositoryHandler) Save(ctx context.Context, history domain.RunHistory) error {
	for _, r := range h.Repositories {
		if err := r.Save(ctx, history); err != nil {
			return err
		}
	}
	return nil
}

func (h multiHistoryRepositoryHandler) Close() error {
	errs := []error{}
	for _, r := range h.Repositories {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
