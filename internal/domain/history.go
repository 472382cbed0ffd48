package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PriceHistoryRow struct {
	Date         time.Time
	InstrumentID string
	Price        float64
}

type HoldingRow struct {
	Date         time.Time
	InstrumentID string
	Quantity     float64
}

// ValuationRow is one line of the portfolio breakdown on a date. Value is the
// liquidation value and Weight its share of the invested value.
type ValuationRow struct {
	Date          time.Time
	InstrumentID  string
	Manager       string
	Name          string
	MinTicketSize float64
	Surcharge     float64
	Discount      float64
	Quantity      float64
	Price         float64
	Value         decimal.Decimal
	Weight        float64
}

type TargetWeightRow struct {
	Date         time.Time
	InstrumentID string
	TargetWeight float64
	Score        float64
}

type TradeRow struct {
	Date         time.Time
	InstrumentID string
	Side         TradeSide
	Value        decimal.Decimal
	Quantity     float64
	Price        float64
}

type PeriodSummary struct {
	Date          time.Time
	Mode          RebalanceMode
	Cash          decimal.Decimal
	InvestedValue decimal.Decimal
	TotalValue    decimal.Decimal
	NumTrades     int
}

// RunHistory holds the append-only tables of one simulation run, each ordered
// by date and then instrument id.
type RunHistory struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	DateStart  time.Time
	DateFinish time.Time
	CashStart  float64

	Prices     []PriceHistoryRow
	Holdings   []HoldingRow
	Valuations []ValuationRow
	Scores     []ScoreRecord
	Targets    []TargetWeightRow
	Trades     []TradeRow
	Periods    []PeriodSummary
}
