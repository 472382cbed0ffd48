package l3_service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"portfoliosim/internal/domain"
	"portfoliosim/internal/logger"
	l1_service "portfoliosim/internal/service/l1"
	"portfoliosim/internal/util"

	"github.com/shopspring/decimal"
)

type RebalanceInput struct {
	Date   time.Time
	Scores []domain.ScoreRecord
	View   l1_service.MarketView
	State  *l1_service.PortfolioState
}

// Swap moves Amount, a fraction of invested value, from one holding into
// another instrument.
type Swap struct {
	SellInstrumentID string
	BuyInstrumentID  string
	Benefit          float64
	Amount           float64
}

type RebalanceResult struct {
	// mode the period was rebalanced in
	Mode    domain.RebalanceMode
	Targets []domain.TargetAllocation
	Plan    []domain.PlanEntry
	Swaps   []Swap
	Trades  []domain.FilledTrade
}

// Rebalancer starts in initial acquisition and switches to swap based
// rebalancing once the portfolio holds something.
type Rebalancer struct {
	Selection SelectionOptions
	mode      domain.RebalanceMode
}

func NewRebalancer(selection SelectionOptions) (*Rebalancer, error) {
	if err := selection.Validate(); err != nil {
		return nil, err
	}
	return &Rebalancer{
		Selection: selection,
		mode:      domain.RebalanceMode_InitialAcquisition,
	}, nil
}

func (r *Rebalancer) Mode() domain.RebalanceMode {
	return r.mode
}

// Rebalance trades the portfolio towards this period's targets. Any rejected
// trade aborts the period.
func (r *Rebalancer) Rebalance(ctx context.Context, in RebalanceInput) (*RebalanceResult, error) {
	if in.State == nil || in.View == nil {
		return nil, fmt.Errorf("rebalance needs a portfolio state and market view")
	}
	switch r.mode {
	case domain.RebalanceMode_InitialAcquisition:
		return r.acquire(ctx, in)
	case domain.RebalanceMode_Rebalancing:
		return r.swap(ctx, in)
	default:
		return nil, fmt.Errorf("unknown rebalance mode %s", r.mode)
	}
}

func (r *Rebalancer) acquire(ctx context.Context, in RebalanceInput) (*RebalanceResult, error) {
	log := logger.FromContext(ctx)
	result := &RebalanceResult{
		Mode:    domain.RebalanceMode_InitialAcquisition,
		Targets: []domain.TargetAllocation{},
		Plan:    []domain.PlanEntry{},
		Swaps:   []Swap{},
		Trades:  []domain.FilledTrade{},
	}

	cash := in.State.Cash()
	if !cash.IsPositive() {
		return result, nil
	}
	cashValue := cash.InexactFloat64()

	targets, err := ComputeTargetWeights(in.Scores, r.Selection)
	if err != nil {
		return nil, err
	}

	affordable := []domain.TargetAllocation{}
	for _, t := range targets {
		ref, ok := in.View.Reference(t.InstrumentID)
		if !ok {
			return nil, fmt.Errorf("failed to size %s: %w", t.InstrumentID, domain.ErrReferenceNotFound)
		}
		if t.TargetWeight*cashValue < ref.MinTicketSize {
			log.Debugf("%s: %s allocation %.2f below min ticket %.2f", util.FormatDate(in.Date), t.InstrumentID, t.TargetWeight*cashValue, ref.MinTicketSize)
			continue
		}
		affordable = append(affordable, t)
	}
	affordable, err = normalizeByScore(affordable)
	if err != nil {
		return nil, err
	}
	result.Targets = affordable

	for _, t := range affordable {
		result.Plan = append(result.Plan, domain.PlanEntry{
			InstrumentID: t.InstrumentID,
			Action:       domain.RebalanceAction_Buy,
			WeightDelta:  t.TargetWeight,
		})
	}

	// every buy of the period is sized off the opening cash, even after the
	// first fill switches the mode
	for _, t := range affordable {
		ref, _ := in.View.Reference(t.InstrumentID)
		value := cash.Mul(decimal.NewFromFloat(t.TargetWeight))
		if !value.GreaterThan(decimal.NewFromFloat(ref.MinTicketSize)) {
			continue
		}
		trade, err := in.State.Buy(t.InstrumentID, clampDust(value, in.State.Cash()))
		if err != nil {
			return nil, err
		}
		result.Trades = append(result.Trades, *trade)
		r.mode = domain.RebalanceMode_Rebalancing
	}

	return result, nil
}

type swapLeg struct {
	InstrumentID  string
	Amount        float64
	Score         float64
	Surcharge     float64
	Discount      float64
	MinTicketSize float64
}

type swapPlan struct {
	Swaps         []Swap
	SellRemaining map[string]float64
	BuyRemaining  map[string]float64
}

// dustRatio bounds the rounding overshoot, relative to the trade value, that
// clampDust absorbs.
var dustRatio = decimal.New(1, -12)

// clampDust caps value at available when it exceeds it only by rounding from
// sizing trades as weight times a balance. Real overshoots pass through.
func clampDust(value, available decimal.Decimal) decimal.Decimal {
	if value.LessThanOrEqual(available) {
		return value
	}
	if value.Sub(available).LessThanOrEqual(value.Mul(dustRatio)) {
		return available
	}
	return value
}

func swapBenefit(sell, buy swapLeg) float64 {
	return buy.Score - sell.Score*(1+sell.Surcharge)/(1-sell.Discount)
}

// greedySwaps pairs sellers with buyers in order of falling benefit, each
// pair moving as much as both remainders allow. A chosen pair is never
// revisited, so the result is not an optimal matching.
func greedySwaps(sellers, buyers []swapLeg, investedValue float64) swapPlan {
	plan := swapPlan{
		Swaps:         []Swap{},
		SellRemaining: map[string]float64{},
		BuyRemaining:  map[string]float64{},
	}
	sellIdx := map[string]swapLeg{}
	buyIdx := map[string]swapLeg{}
	for _, s := range sellers {
		plan.SellRemaining[s.InstrumentID] = s.Amount
		sellIdx[s.InstrumentID] = s
	}
	for _, b := range buyers {
		plan.BuyRemaining[b.InstrumentID] = b.Amount
		buyIdx[b.InstrumentID] = b
	}

	pairs := []Swap{}
	for _, s := range sellers {
		for _, b := range buyers {
			benefit := swapBenefit(s, b)
			if benefit > 0 {
				pairs = append(pairs, Swap{
					SellInstrumentID: s.InstrumentID,
					BuyInstrumentID:  b.InstrumentID,
					Benefit:          benefit,
				})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Benefit > pairs[j].Benefit
	})

	for _, p := range pairs {
		sellRemaining := plan.SellRemaining[p.SellInstrumentID]
		buyRemaining := plan.BuyRemaining[p.BuyInstrumentID]
		amount := min(sellRemaining, buyRemaining)
		if !(amount*investedValue > buyIdx[p.BuyInstrumentID].MinTicketSize) {
			continue
		}

		p.Amount = amount
		plan.Swaps = append(plan.Swaps, p)

		sellRemaining -= amount
		if sellRemaining < domain.Tolerance {
			sellRemaining = 0
		}
		buyRemaining -= amount
		if buyRemaining < domain.Tolerance {
			buyRemaining = 0
		}
		plan.SellRemaining[p.SellInstrumentID] = sellRemaining
		plan.BuyRemaining[p.BuyInstrumentID] = buyRemaining
	}

	return plan
}

func (r *Rebalancer) swap(ctx context.Context, in RebalanceInput) (*RebalanceResult, error) {
	log := logger.FromContext(ctx)
	result := &RebalanceResult{
		Mode:   domain.RebalanceMode_Rebalancing,
		Plan:   []domain.PlanEntry{},
		Swaps:  []Swap{},
		Trades: []domain.FilledTrade{},
	}

	targets, err := ComputeTargetWeights(in.Scores, r.Selection)
	if err != nil {
		return nil, err
	}
	result.Targets = targets

	current := in.State.CurrentWeights()
	investedValue := in.State.InvestedValue()
	if !investedValue.IsPositive() {
		return result, nil
	}

	targetByID := map[string]float64{}
	for _, t := range targets {
		targetByID[t.InstrumentID] = t.TargetWeight
	}

	// only instruments scored this period take part
	sellers := []swapLeg{}
	buyers := []swapLeg{}
	for _, s := range in.Scores {
		c := current[s.InstrumentID]
		t := targetByID[s.InstrumentID]
		if c == t {
			continue
		}
		ref, ok := in.View.Reference(s.InstrumentID)
		if !ok {
			return nil, fmt.Errorf("failed to plan %s: %w", s.InstrumentID, domain.ErrReferenceNotFound)
		}
		leg := swapLeg{
			InstrumentID:  s.InstrumentID,
			Score:         s.RiskAdjustedScore,
			Surcharge:     ref.Surcharge,
			Discount:      ref.Discount,
			MinTicketSize: ref.MinTicketSize,
		}
		if c > t {
			leg.Amount = c - t
			sellers = append(sellers, leg)
			result.Plan = append(result.Plan, domain.PlanEntry{InstrumentID: s.InstrumentID, Action: domain.RebalanceAction_Sell, WeightDelta: leg.Amount})
		} else {
			leg.Amount = t - c
			buyers = append(buyers, leg)
			result.Plan = append(result.Plan, domain.PlanEntry{InstrumentID: s.InstrumentID, Action: domain.RebalanceAction_Buy, WeightDelta: leg.Amount})
		}
	}

	plan := greedySwaps(sellers, buyers, investedValue.InexactFloat64())
	result.Swaps = plan.Swaps

	for _, s := range plan.Swaps {
		value := investedValue.Mul(decimal.NewFromFloat(s.Amount))
		sold, err := in.State.Sell(s.SellInstrumentID, clampDust(value, in.State.HoldingValue(s.SellInstrumentID)))
		if err != nil {
			return nil, err
		}
		bought, err := in.State.Buy(s.BuyInstrumentID, sold.Value)
		if err != nil {
			return nil, err
		}
		result.Trades = append(result.Trades, *sold, *bought)
		log.Debugf("%s: swapped %s from %s into %s (benefit %f)", util.FormatDate(in.Date), sold.Value.StringFixed(2), s.SellInstrumentID, s.BuyInstrumentID, s.Benefit)
	}

	return result, nil
}
