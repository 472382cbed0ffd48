package domain

import "time"

// ScoreRecord is the forecast of one instrument on one simulated date.
type ScoreRecord struct {
	InstrumentID       string
	Date               time.Time
	ForecastMeanReturn float64
	ForecastDispersion float64
	// total_1: mean return net of fee, surcharge and discount
	CostAdjustedReturn float64
	// total_2: CostAdjustedReturn scaled down by dispersion
	RiskAdjustedScore float64
}

type TargetAllocation struct {
	InstrumentID string
	TargetWeight float64
	Score        float64
}

type RebalanceAction string

const (
	RebalanceAction_Buy  RebalanceAction = "BUY"
	RebalanceAction_Sell RebalanceAction = "SELL"
)

// PlanEntry is one leg of a period's rebalance plan. WeightDelta is a
// fraction of invested value.
type PlanEntry struct {
	InstrumentID string
	Action       RebalanceAction
	WeightDelta  float64
}

type RebalanceMode string

const (
	RebalanceMode_InitialAcquisition RebalanceMode = "INITIAL_ACQUISITION"
	RebalanceMode_Rebalancing        RebalanceMode = "REBALANCING"
)
