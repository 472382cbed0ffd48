package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"portfoliosim/internal/calculator"
	"portfoliosim/internal/domain"
	"portfoliosim/internal/logger"
	l1_service "portfoliosim/internal/service/l1"
	l2_service "portfoliosim/internal/service/l2"
	l3_service "portfoliosim/internal/service/l3"
	"portfoliosim/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SimulationOptions struct {
	DateStart  time.Time
	DateFinish time.Time
	CashStart  float64
	Selection  l3_service.SelectionOptions
	Scoring    l2_service.ScoringOptions
}

func (o SimulationOptions) Validate() error {
	if o.DateStart.IsZero() || o.DateFinish.IsZero() {
		return fmt.Errorf("date start and finish are required: %w", domain.ErrConfiguration)
	}
	if o.DateFinish.Before(o.DateStart) {
		return fmt.Errorf("date finish %s is before date start %s: %w", util.FormatDate(o.DateFinish), util.FormatDate(o.DateStart), domain.ErrConfiguration)
	}
	if !(o.CashStart > 0) || math.IsInf(o.CashStart, 0) {
		return fmt.Errorf("cash start must be positive, got %f: %w", o.CashStart, domain.ErrConfiguration)
	}
	if err := o.Selection.Validate(); err != nil {
		return err
	}
	return o.Scoring.Validate()
}

var ErrSimulationNotRunning = errors.New("simulation is not running")

// Simulation steps a portfolio through calendar months over a price history
// and keeps the append-only record of every period.
type Simulation struct {
	Store *l1_service.PriceHistoryStore

	options    SimulationOptions
	scoring    l2_service.ScoringService
	rebalancer *l3_service.Rebalancer
	state      *l1_service.PortfolioState
	view       l1_service.PriceView
	nextDate   time.Time
	started    bool
	finished   bool
	err        error
	history    domain.RunHistory
}

func NewSimulation(store *l1_service.PriceHistoryStore) *Simulation {
	return &Simulation{Store: store}
}

// Start validates the run against the loaded history and resets all state.
// Both dates must fall within the range of known prices.
func (s *Simulation) Start(ctx context.Context, opts SimulationOptions) error {
	opts.DateStart = util.DateOnly(opts.DateStart)
	opts.DateFinish = util.DateOnly(opts.DateFinish)
	if err := opts.Validate(); err != nil {
		return err
	}

	minDate, maxDate, err := s.Store.DateBounds()
	if err != nil {
		return err
	}
	for _, d := range []time.Time{opts.DateStart, opts.DateFinish} {
		if d.Before(minDate) || d.After(maxDate) {
			return fmt.Errorf(
				"date %s outside price history %s to %s: %w",
				util.FormatDate(d), util.FormatDate(minDate), util.FormatDate(maxDate), domain.ErrConfiguration,
			)
		}
	}

	scoring, err := l2_service.NewScoringService(opts.Scoring)
	if err != nil {
		return err
	}
	rebalancer, err := l3_service.NewRebalancer(opts.Selection)
	if err != nil {
		return err
	}

	s.options = opts
	s.scoring = scoring
	s.rebalancer = rebalancer
	s.state = l1_service.NewPortfolioState(decimal.NewFromFloat(opts.CashStart))
	s.nextDate = opts.DateStart
	s.started = true
	s.finished = false
	s.err = nil
	s.history = domain.RunHistory{
		RunID:      uuid.New(),
		StartedAt:  time.Now().UTC(),
		DateStart:  opts.DateStart,
		DateFinish: opts.DateFinish,
		CashStart:  opts.CashStart,
		Prices:     []domain.PriceHistoryRow{},
		Holdings:   []domain.HoldingRow{},
		Valuations: []domain.ValuationRow{},
		Scores:     []domain.ScoreRecord{},
		Targets:    []domain.TargetWeightRow{},
		Trades:     []domain.TradeRow{},
		Periods:    []domain.PeriodSummary{},
	}

	logger.FromContext(ctx).Infof(
		"starting run %s from %s to %s with %.2f cash",
		s.history.RunID, util.FormatDate(opts.DateStart), util.FormatDate(opts.DateFinish), opts.CashStart,
	)

	return nil
}

// AdvancePeriod simulates the next period. It returns false once the next
// period would fall after the finish date. An error ends the run.
func (s *Simulation) AdvancePeriod(ctx context.Context) (bool, error) {
	if !s.started || s.finished {
		return false, ErrSimulationNotRunning
	}
	if s.err != nil {
		return false, s.err
	}
	if s.nextDate.After(s.options.DateFinish) {
		return false, nil
	}

	date := s.nextDate
	if err := s.runPeriod(ctx, date); err != nil {
		s.err = fmt.Errorf("failed to simulate period %s: %w", util.FormatDate(date), err)
		return false, s.err
	}
	s.nextDate = util.NextMonthBegin(date)

	return true, nil
}

func (s *Simulation) runPeriod(ctx context.Context, date time.Time) error {
	log := logger.FromContext(ctx)
	profile := domain.GetProfile(ctx)

	s.view = s.Store.View(date)
	s.state.SetView(s.view)

	_, endSpan := profile.StartNewSpan("score")
	scores, err := s.scoring.ScoreAll(ctx, s.view)
	endSpan()
	if err != nil {
		return err
	}

	s.recordMarket(date, scores)

	mode := s.rebalancer.Mode()
	_, endSpan = profile.StartNewSpan("rebalance")
	result, err := s.rebalancer.Rebalance(ctx, l3_service.RebalanceInput{
		Date:   date,
		Scores: scores,
		View:   s.view,
		State:  s.state,
	})
	endSpan()
	if err != nil {
		return err
	}

	for _, t := range result.Targets {
		s.history.Targets = append(s.history.Targets, domain.TargetWeightRow{
			Date:         date,
			InstrumentID: t.InstrumentID,
			TargetWeight: t.TargetWeight,
			Score:        t.Score,
		})
	}
	for _, t := range result.Trades {
		s.history.Trades = append(s.history.Trades, domain.TradeRow{
			Date:         date,
			InstrumentID: t.InstrumentID,
			Side:         t.Side,
			Value:        t.Value,
			Quantity:     t.Quantity.InexactFloat64(),
			Price:        t.Price,
		})
		log.Infof("%s %s %s for %s (%s @ %f)", util.FormatDate(date), t.Side, t.InstrumentID, t.Value.StringFixed(2), t.Quantity.String(), t.Price)
	}

	invested := s.state.InvestedValue()
	total := s.state.Cash().Add(invested)
	s.history.Periods = append(s.history.Periods, domain.PeriodSummary{
		Date:          date,
		Mode:          mode,
		Cash:          s.state.Cash(),
		InvestedValue: invested,
		TotalValue:    total,
		NumTrades:     len(result.Trades),
	})

	log.Debugf(
		"%s: %d eligible, %d scored, %d targets, %d trades, total value %s",
		util.FormatDate(date), len(s.view.Eligible()), len(scores), len(result.Targets), len(result.Trades), total.StringFixed(2),
	)

	return nil
}

// recordMarket appends the pre-trade snapshot of the period
func (s *Simulation) recordMarket(date time.Time, scores []domain.ScoreRecord) {
	for _, id := range s.view.Eligible() {
		price, _ := s.view.Price(id)
		s.history.Prices = append(s.history.Prices, domain.PriceHistoryRow{
			Date:         date,
			InstrumentID: id,
			Price:        price,
		})
	}
	for _, id := range s.state.HeldInstruments() {
		s.history.Holdings = append(s.history.Holdings, domain.HoldingRow{
			Date:         date,
			InstrumentID: id,
			Quantity:     s.state.Quantity(id).InexactFloat64(),
		})
	}
	s.history.Valuations = append(s.history.Valuations, s.Valuation()...)
	s.history.Scores = append(s.history.Scores, scores...)
}

// Valuation breaks the current holdings down by instrument at the latest
// period's prices.
func (s *Simulation) Valuation() []domain.ValuationRow {
	out := []domain.ValuationRow{}
	if s.state == nil {
		return out
	}
	weights := s.state.CurrentWeights()
	for _, id := range s.state.HeldInstruments() {
		ref, _ := s.view.Reference(id)
		price, _ := s.view.Price(id)
		out = append(out, domain.ValuationRow{
			Date:          s.view.AsOf(),
			InstrumentID:  id,
			Manager:       ref.Manager,
			Name:          ref.Name,
			MinTicketSize: ref.MinTicketSize,
			Surcharge:     ref.Surcharge,
			Discount:      ref.Discount,
			Quantity:      s.state.Quantity(id).InexactFloat64(),
			Price:         price,
			Value:         s.state.HoldingValue(id),
			Weight:        weights[id],
		})
	}
	return out
}

// TotalValue is cash plus the liquidation value of all holdings
func (s *Simulation) TotalValue() float64 {
	if s.state == nil {
		return 0
	}
	return s.state.TotalValue().InexactFloat64()
}

func (s *Simulation) Cash() float64 {
	if s.state == nil {
		return 0
	}
	return s.state.Cash().InexactFloat64()
}

func (s *Simulation) Mode() domain.RebalanceMode {
	if s.rebalancer == nil {
		return domain.RebalanceMode_InitialAcquisition
	}
	return s.rebalancer.Mode()
}

// History returns the records accumulated so far
func (s *Simulation) History() domain.RunHistory {
	return s.history
}

type RunResult struct {
	RunID          uuid.UUID
	Metrics        *calculator.CalculateMetricsResult
	FinalPortfolio *domain.Portfolio
	Valuation      []domain.ValuationRow
	TotalValue     float64
	History        domain.RunHistory
	// milliseconds spent per phase
	Timings map[string]int64
}

// Finalize closes the run and summarizes it. Metrics are left nil for runs
// shorter than two periods.
func (s *Simulation) Finalize(ctx context.Context) (*RunResult, error) {
	if !s.started || s.finished {
		return nil, ErrSimulationNotRunning
	}
	if s.err != nil {
		return nil, s.err
	}
	s.finished = true

	result := &RunResult{
		RunID:          s.history.RunID,
		FinalPortfolio: s.state.Portfolio(),
		Valuation:      s.Valuation(),
		TotalValue:     s.TotalValue(),
		History:        s.history,
	}
	if len(s.history.Periods) > 1 {
		metrics, err := calculator.CalculateMetrics(s.history.Periods, calculator.MonthlyPeriodsPerYear)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate metrics: %w", err)
		}
		result.Metrics = metrics
	}

	log := logger.FromContext(ctx)
	if result.Metrics != nil {
		log.Infof(
			"run %s finished over %d periods: total value %.2f, total return %.4f, annualized return %.4f, max drawdown %.4f",
			result.RunID, len(s.history.Periods), result.TotalValue, result.Metrics.TotalReturn, result.Metrics.AnnualizedReturn, result.Metrics.MaxDrawdown,
		)
	} else {
		log.Infof("run %s finished over %d periods: total value %.2f", result.RunID, len(s.history.Periods), result.TotalValue)
	}

	return result, nil
}
