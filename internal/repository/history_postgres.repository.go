package repository

import (
	"context"
	"database/sql"
	"fmt"

	"portfoliosim/internal/db/models/postgres/public/model"
	. "portfoliosim/internal/db/models/postgres/public/table"
	"portfoliosim/internal/domain"

	. "github.com/go-jet/jet/v2/postgres"
	_ "github.com/lib/pq"
)

const postgresInsertChunkSize = 1000

type postgresHistoryRepositoryHandler struct {
	Db *sql.DB
}

// NewPostgresHistoryRepository connects to dsn and creates the history
// tables if they are missing.
func NewPostgresHistoryRepository(ctx context.Context, dsn string) (HistoryRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres db: %w", err)
	}

	h := postgresHistoryRepositoryHandler{Db: db}
	if err := h.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return h, nil
}

func (h postgresHistoryRepositoryHandler) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS backtest_run (
			backtest_run_id UUID PRIMARY KEY,
			started_at      TIMESTAMPTZ NOT NULL,
			date_start      DATE NOT NULL,
			date_finish     DATE NOT NULL,
			cash_start      DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS price_history (
			price_history_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			backtest_run_id  UUID NOT NULL REFERENCES backtest_run(backtest_run_id),
			date             DATE NOT NULL,
			instrument_id    TEXT NOT NULL,
			price            DOUBLE PRECISION
		)`,
		`CREATE TABLE IF NOT EXISTS holdings_history (
			holdings_history_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			backtest_run_id     UUID NOT NULL REFERENCES backtest_run(backtest_run_id),
			date                DATE NOT NULL,
			instrument_id       TEXT NOT NULL,
			quantity            DOUBLE PRECISION
		)`,
		`CREATE TABLE IF NOT EXISTS valuation_history (
			valuation_history_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			backtest_run_id      UUID NOT NULL REFERENCES backtest_run(backtest_run_id),
			date                 DATE NOT NULL,
			instrument_id        TEXT NOT NULL,
			manager              TEXT,
			name                 TEXT,
			min_sum              DOUBLE PRECISION,
			surcharge            DOUBLE PRECISION,
			discount             DOUBLE PRECISION,
			quantity             DOUBLE PRECISION,
			price                DOUBLE PRECISION,
			value                NUMERIC,
			weight               DOUBLE PRECISION
		)`,
		`CREATE TABLE IF NOT EXISTS score_history (
			score_history_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			backtest_run_id  UUID NOT NULL REFERENCES backtest_run(backtest_run_id),
			date             DATE NOT NULL,
			instrument_id    TEXT NOT NULL,
			mean             DOUBLE PRECISION,
			disp             DOUBLE PRECISION,
			total1           DOUBLE PRECISION,
			total2           DOUBLE PRECISION
		)`,
		`CREATE TABLE IF NOT EXISTS target_history (
			target_history_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			backtest_run_id   UUID NOT NULL REFERENCES backtest_run(backtest_run_id),
			date              DATE NOT NULL,
			instrument_id     TEXT NOT NULL,
			target_weight     DOUBLE PRECISION,
			score             DOUBLE PRECISION
		)`,
		`CREATE TABLE IF NOT EXISTS trade_history (
			trade_history_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			backtest_run_id  UUID NOT NULL REFERENCES backtest_run(backtest_run_id),
			date             DATE NOT NULL,
			instrument_id    TEXT NOT NULL,
			side             TEXT NOT NULL,
			value            NUMERIC,
			quantity         DOUBLE PRECISION,
			price            DOUBLE PRECISION
		)`,
		`CREATE TABLE IF NOT EXISTS period_history (
			period_history_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			backtest_run_id   UUID NOT NULL REFERENCES backtest_run(backtest_run_id),
			date              DATE NOT NULL,
			mode              TEXT NOT NULL,
			cash              NUMERIC,
			invested_value    NUMERIC,
			total_value       NUMERIC,
			num_trades        INTEGER
		)`,
	}
	for _, s := range stmts {
		if _, err := h.Db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("failed to migrate postgres db: %w", err)
		}
	}
	return nil
}

func (h postgresHistoryRepositoryHandler) Save(ctx context.Context, history domain.RunHistory) error {
	tx, err := h.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin postgres tx: %w", err)
	}
	defer tx.Rollback()

	for _, s := range historyInsertStatements(history) {
		if _, err := s.Statement.ExecContext(ctx, tx); err != nil {
			return fmt.Errorf("failed to insert %s: %w", s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit postgres tx: %w", err)
	}

	return nil
}

type historyStatement struct {
	Name      string
	Statement Statement
}

// historyInsertStatements builds the run row insert followed by the chunked
// inserts of every history table, in execution order.
func historyInsertStatements(history domain.RunHistory) []historyStatement {
	runID := history.RunID

	out := []historyStatement{{
		Name: "backtest run",
		Statement: BacktestRun.
			INSERT(BacktestRun.AllColumns).
			MODEL(model.BacktestRun{
				BacktestRunID: runID,
				StartedAt:     history.StartedAt,
				DateStart:     history.DateStart,
				DateFinish:    history.DateFinish,
				CashStart:     history.CashStart,
			}),
	}}

	prices := []model.PriceHistory{}
	for _, r := range history.Prices {
		prices = append(prices, model.PriceHistory{BacktestRunID: runID, Date: r.Date, InstrumentID: r.InstrumentID, Price: r.Price})
	}
	holdings := []model.HoldingsHistory{}
	for _, r := range history.Holdings {
		holdings = append(holdings, model.HoldingsHistory{BacktestRunID: runID, Date: r.Date, InstrumentID: r.InstrumentID, Quantity: r.Quantity})
	}
	valuations := []model.ValuationHistory{}
	for _, r := range history.Valuations {
		valuations = append(valuations, model.ValuationHistory{
			BacktestRunID: runID,
			Date:          r.Date,
			InstrumentID:  r.InstrumentID,
			Manager:       r.Manager,
			Name:          r.Name,
			MinSum:        r.MinTicketSize,
			Surcharge:     r.Surcharge,
			Discount:      r.Discount,
			Quantity:      r.Quantity,
			Price:         r.Price,
			Value:         r.Value.InexactFloat64(),
			Weight:        r.Weight,
		})
	}
	scores := []model.ScoreHistory{}
	for _, r := range history.Scores {
		scores = append(scores, model.ScoreHistory{
			BacktestRunID: runID,
			Date:          r.Date,
			InstrumentID:  r.InstrumentID,
			Mean:          r.ForecastMeanReturn,
			Disp:          r.ForecastDispersion,
			Total1:        r.CostAdjustedReturn,
			Total2:        r.RiskAdjustedScore,
		})
	}
	targets := []model.TargetHistory{}
	for _, r := range history.Targets {
		targets = append(targets, model.TargetHistory{BacktestRunID: runID, Date: r.Date, InstrumentID: r.InstrumentID, TargetWeight: r.TargetWeight, Score: r.Score})
	}
	trades := []model.TradeHistory{}
	for _, r := range history.Trades {
		trades = append(trades, model.TradeHistory{
			BacktestRunID: runID,
			Date:          r.Date,
			InstrumentID:  r.InstrumentID,
			Side:          string(r.Side),
			Value:         r.Value.InexactFloat64(),
			Quantity:      r.Quantity,
			Price:         r.Price,
		})
	}
	periods := []model.PeriodHistory{}
	for _, r := range history.Periods {
		periods = append(periods, model.PeriodHistory{
			BacktestRunID: runID,
			Date:          r.Date,
			Mode:          string(r.Mode),
			Cash:          r.Cash.InexactFloat64(),
			InvestedValue: r.InvestedValue.InexactFloat64(),
			TotalValue:    r.TotalValue.InexactFloat64(),
			NumTrades:     int32(r.NumTrades),
		})
	}

	out = append(out, chunkStatements("price history", prices, func(rows []model.PriceHistory) Statement {
		return PriceHistory.INSERT(PriceHistory.MutableColumns).MODELS(rows)
	})...)
	out = append(out, chunkStatements("holdings history", holdings, func(rows []model.HoldingsHistory) Statement {
		return HoldingsHistory.INSERT(HoldingsHistory.MutableColumns).MODELS(rows)
	})...)
	out = append(out, chunkStatements("valuation history", valuations, func(rows []model.ValuationHistory) Statement {
		return ValuationHistory.INSERT(ValuationHistory.MutableColumns).MODELS(rows)
	})...)
	out = append(out, chunkStatements("score history", scores, func(rows []model.ScoreHistory) Statement {
		return ScoreHistory.INSERT(ScoreHistory.MutableColumns).MODELS(rows)
	})...)
	out = append(out, chunkStatements("target history", targets, func(rows []model.TargetHistory) Statement {
		return TargetHistory.INSERT(TargetHistory.MutableColumns).MODELS(rows)
	})...)
	out = append(out, chunkStatements("trade history", trades, func(rows []model.TradeHistory) Statement {
		return TradeHistory.INSERT(TradeHistory.MutableColumns).MODELS(rows)
	})...)
	out = append(out, chunkStatements("period history", periods, func(rows []model.PeriodHistory) Statement {
		return PeriodHistory.INSERT(PeriodHistory.MutableColumns).MODELS(rows)
	})...)

	return out
}

// chunkStatements keeps each statement under the postgres bind parameter limit
func chunkStatements[T any](name string, rows []T, build func([]T) Statement) []historyStatement {
	out := []historyStatement{}
	for start := 0; start < len(rows); start += postgresInsertChunkSize {
		end := min(start+postgresInsertChunkSize, len(rows))
		out = append(out, historyStatement{Name: name, Statement: build(rows[start:end])})
	}
	return out
}

func (h postgresHistoryRepositoryHandler) Close() error {
	return h.Db.Close()
}
