package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"portfoliosim/internal/domain"
	"portfoliosim/internal/util"

	_ "modernc.org/sqlite"
)

type sqliteHistoryRepositoryHandler struct {
	Db    *sql.DB
	mutex *sync.Mutex
}

// NewSqliteHistoryRepository opens (or creates) the database at path and
// migrates the history tables.
func NewSqliteHistoryRepository(path string) (HistoryRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	h := sqliteHistoryRepositoryHandler{
		Db:    db,
		mutex: &sync.Mutex{},
	}
	if err := h.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate sqlite db: %w", err)
	}

	return h, nil
}

func (h sqliteHistoryRepositoryHandler) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS backtest_run (
			run_id      TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			date_start  TEXT NOT NULL,
			date_finish TEXT NOT NULL,
			cash_start  REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS price_history (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			date          TEXT NOT NULL,
			instrument_id TEXT NOT NULL,
			price         REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_history_run ON price_history(run_id, date)`,
		`CREATE TABLE IF NOT EXISTS holdings_history (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			date          TEXT NOT NULL,
			instrument_id TEXT NOT NULL,
			quantity      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_holdings_history_run ON holdings_history(run_id, date)`,
		`CREATE TABLE IF NOT EXISTS valuation_history (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			date          TEXT NOT NULL,
			instrument_id TEXT NOT NULL,
			manager       TEXT,
			name          TEXT,
			min_sum       REAL,
			surcharge     REAL,
			discount      REAL,
			quantity      REAL,
			price         REAL,
			value         TEXT,
			weight        REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_valuation_history_run ON valuation_history(run_id, date)`,
		`CREATE TABLE IF NOT EXISTS score_history (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			date          TEXT NOT NULL,
			instrument_id TEXT NOT NULL,
			mean          REAL,
			disp          REAL,
			total_1       REAL,
			total_2       REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_score_history_run ON score_history(run_id, date)`,
		`CREATE TABLE IF NOT EXISTS target_history (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			date          TEXT NOT NULL,
			instrument_id TEXT NOT NULL,
			target_weight REAL,
			score         REAL
		)`,
		`CREATE TABLE IF NOT EXISTS trade_history (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			date          TEXT NOT NULL,
			instrument_id TEXT NOT NULL,
			side          TEXT NOT NULL,
			value         TEXT,
			quantity      REAL,
			price         REAL
		)`,
		`CREATE TABLE IF NOT EXISTS period_history (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			date           TEXT NOT NULL,
			mode           TEXT NOT NULL,
			cash           TEXT,
			invested_value TEXT,
			total_value    TEXT,
			num_trades     INTEGER
		)`,
	}
	for _, s := range stmts {
		if _, err := h.Db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the whole run in one transaction
func (h sqliteHistoryRepositoryHandler) Save(ctx context.Context, history domain.RunHistory) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	tx, err := h.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin sqlite tx: %w", err)
	}
	defer tx.Rollback()

	runID := history.RunID.String()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO backtest_run (run_id, started_at, date_start, date_finish, cash_start) VALUES (?, ?, ?, ?, ?)`,
		runID, history.StartedAt.Unix(), util.FormatDate(history.DateStart), util.FormatDate(history.DateFinish), history.CashStart,
	)
	if err != nil {
		return fmt.Errorf("failed to insert backtest run: %w", err)
	}

	for _, r := range history.Prices {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO price_history (run_id, date, instrument_id, price) VALUES (?, ?, ?, ?)`,
			runID, util.FormatDate(r.Date), r.InstrumentID, r.Price,
		); err != nil {
			return fmt.Errorf("failed to insert price history: %w", err)
		}
	}
	for _, r := range history.Holdings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO holdings_history (run_id, date, instrument_id, quantity) VALUES (?, ?, ?, ?)`,
			runID, util.FormatDate(r.Date), r.InstrumentID, r.Quantity,
		); err != nil {
			return fmt.Errorf("failed to insert holdings history: %w", err)
		}
	}
	for _, r := range history.Valuations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO valuation_history (run_id, date, instrument_id, manager, name, min_sum, surcharge, discount, quantity, price, value, weight)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, util.FormatDate(r.Date), r.InstrumentID, r.Manager, r.Name, r.MinTicketSize, r.Surcharge, r.Discount, r.Quantity, r.Price, r.Value.String(), r.Weight,
		); err != nil {
			return fmt.Errorf("failed to insert valuation history: %w", err)
		}
	}
	for _, r := range history.Scores {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO score_history (run_id, date, instrument_id, mean, disp, total_1, total_2) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, util.FormatDate(r.Date), r.InstrumentID, r.ForecastMeanReturn, r.ForecastDispersion, r.CostAdjustedReturn, r.RiskAdjustedScore,
		); err != nil {
			return fmt.Errorf("failed to insert score history: %w", err)
		}
	}
	for _, r := range history.Targets {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO target_history (run_id, date, instrument_id, target_weight, score) VALUES (?, ?, ?, ?, ?)`,
			runID, util.FormatDate(r.Date), r.InstrumentID, r.TargetWeight, r.Score,
		); err != nil {
			return fmt.Errorf("failed to insert target history: %w", err)
		}
	}
	for _, r := range history.Trades {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO trade_history (run_id, date, instrument_id, side, value, quantity, price) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, util.FormatDate(r.Date), r.InstrumentID, string(r.Side), r.Value.String(), r.Quantity, r.Price,
		); err != nil {
			return fmt.Errorf("failed to insert trade history: %w", err)
		}
	}
	for _, r := range history.Periods {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO period_history (run_id, date, mode, cash, invested_value, total_value, num_trades) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, util.FormatDate(r.Date), string(r.Mode), r.Cash.String(), r.InvestedValue.String(), r.TotalValue.String(), r.NumTrades,
		); err != nil {
			return fmt.Errorf("failed to insert period history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sqlite tx: %w", err)
	}

	return nil
}

func (h sqliteHistoryRepositoryHandler) Close() error {
	return h.Db.Close()
}
