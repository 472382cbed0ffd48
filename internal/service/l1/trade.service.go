package l1_service

import (
	"fmt"

	"portfoliosim/internal/domain"

	"github.com/shopspring/decimal"
)

// PortfolioState owns the cash balance and holdings of a simulation and is
// the only place they change.
type PortfolioState struct {
	portfolio *domain.Portfolio
	view      MarketView
}

func NewPortfolioState(cash decimal.Decimal) *PortfolioState {
	return &PortfolioState{
		portfolio: domain.NewPortfolio(cash),
	}
}

// SetView moves the state to a new market date. Trades and valuations use
// its references and prices.
func (s *PortfolioState) SetView(view MarketView) {
	s.view = view
}

func (s *PortfolioState) Cash() decimal.Decimal {
	return s.portfolio.Cash
}

func (s *PortfolioState) Quantity(instrumentID string) decimal.Decimal {
	return s.portfolio.Quantity(instrumentID)
}

func (s *PortfolioState) HeldInstruments() []string {
	return s.portfolio.HeldInstruments()
}

// Portfolio returns a copy of the current holdings and cash
func (s *PortfolioState) Portfolio() *domain.Portfolio {
	return s.portfolio.DeepCopy()
}

func (s *PortfolioState) lookup(instrumentID string) (domain.InstrumentRef, float64, bool, bool) {
	if s.view == nil {
		return domain.InstrumentRef{}, 0, false, false
	}
	ref, refOk := s.view.Reference(instrumentID)
	price, priceOk := s.view.Price(instrumentID)
	return ref, price, refOk, priceOk
}

// Buy spends value of cash on instrumentID at the current price plus
// surcharge. A value within tolerance of the cash balance spends all of it.
// A zero value buy that clears the ticket fills nothing.
func (s *PortfolioState) Buy(instrumentID string, value decimal.Decimal) (*domain.FilledTrade, error) {
	ref, price, refOk, priceOk := s.lookup(instrumentID)
	if !refOk {
		return nil, fmt.Errorf("failed to buy %s: no reference data: %w", instrumentID, domain.ErrReferenceNotFound)
	}
	if value.IsNegative() {
		return nil, fmt.Errorf("failed to buy %s: invalid value %s: %w", instrumentID, value.String(), domain.ErrConfiguration)
	}

	cash := s.portfolio.Cash
	if value.Sub(cash).Abs().LessThan(domain.ToleranceDecimal) {
		value = cash
	}
	if value.LessThan(decimal.NewFromFloat(ref.MinTicketSize)) {
		return nil, fmt.Errorf("failed to buy %s: value %s below min ticket %.2f: %w", instrumentID, value.StringFixed(2), ref.MinTicketSize, domain.ErrBelowMinimumTicket)
	}
	if !priceOk {
		return nil, fmt.Errorf("failed to buy %s: no price: %w", instrumentID, domain.ErrReferenceNotFound)
	}
	if value.Sub(cash).GreaterThan(domain.ToleranceDecimal) {
		return nil, fmt.Errorf("failed to buy %s: value %s exceeds cash %s: %w", instrumentID, value.String(), cash.String(), domain.ErrInsufficientFunds)
	}

	trade := &domain.FilledTrade{
		InstrumentID: instrumentID,
		Side:         domain.TradeSide_Buy,
		Value:        value,
		Quantity:     decimal.Zero,
		Price:        price,
		FilledAt:     s.view.AsOf(),
	}
	if value.IsZero() {
		return trade, nil
	}

	trade.Quantity = value.Div(ref.ExactAcquisitionPrice(price))
	s.portfolio.SetCash(cash.Sub(value))

	position, ok := s.portfolio.Positions[instrumentID]
	if !ok {
		position = &domain.Position{InstrumentID: instrumentID, ExactQuantity: decimal.Zero}
		s.portfolio.Positions[instrumentID] = position
	}
	position.ExactQuantity = position.ExactQuantity.Add(trade.Quantity)

	return trade, nil
}

// Sell raises value of cash from instrumentID at the current price less
// discount. A request within tolerance of the whole holding liquidates it.
func (s *PortfolioState) Sell(instrumentID string, value decimal.Decimal) (*domain.FilledTrade, error) {
	ref, price, refOk, priceOk := s.lookup(instrumentID)
	if !refOk {
		return nil, fmt.Errorf("failed to sell %s: no reference data: %w", instrumentID, domain.ErrReferenceNotFound)
	}
	if !priceOk {
		return nil, fmt.Errorf("failed to sell %s: no price: %w", instrumentID, domain.ErrReferenceNotFound)
	}
	position, ok := s.portfolio.Positions[instrumentID]
	if !ok || !position.ExactQuantity.IsPositive() {
		return nil, fmt.Errorf("failed to sell %s: not held: %w", instrumentID, domain.ErrReferenceNotFound)
	}
	if !value.IsPositive() {
		return nil, fmt.Errorf("failed to sell %s: invalid value %s: %w", instrumentID, value.String(), domain.ErrConfiguration)
	}

	unitValue := ref.ExactLiquidationPrice(price)
	held := position.ExactQuantity
	fullValue := held.Mul(unitValue)
	quantity := value.Div(unitValue)

	if held.Sub(quantity).Abs().LessThan(domain.ToleranceDecimal) || fullValue.Sub(value).Abs().LessThan(domain.ToleranceDecimal) {
		quantity = held
		value = fullValue
	}
	if quantity.Sub(held).GreaterThan(domain.ToleranceDecimal) {
		return nil, fmt.Errorf("failed to sell %s: quantity %s exceeds holding %s: %w", instrumentID, quantity.String(), held.String(), domain.ErrInsufficientHoldings)
	}

	position.ExactQuantity = held.Sub(quantity)
	if !position.ExactQuantity.IsPositive() {
		delete(s.portfolio.Positions, instrumentID)
	}
	s.portfolio.SetCash(s.portfolio.Cash.Add(value))

	return &domain.FilledTrade{
		InstrumentID: instrumentID,
		Side:         domain.TradeSide_Sell,
		Value:        value,
		Quantity:     quantity,
		Price:        price,
		FilledAt:     s.view.AsOf(),
	}, nil
}

// HoldingValue is the liquidation value of the position in instrumentID
func (s *PortfolioState) HoldingValue(instrumentID string) decimal.Decimal {
	quantity := s.portfolio.Quantity(instrumentID)
	if quantity.IsZero() {
		return decimal.Zero
	}
	ref, price, refOk, priceOk := s.lookup(instrumentID)
	if !refOk || !priceOk {
		return decimal.Zero
	}
	return quantity.Mul(ref.ExactLiquidationPrice(price))
}

// InvestedValue sums the liquidation value of all holdings, excluding cash
func (s *PortfolioState) InvestedValue() decimal.Decimal {
	total := decimal.Zero
	for _, id := range s.portfolio.HeldInstruments() {
		total = total.Add(s.HoldingValue(id))
	}
	return total
}

func (s *PortfolioState) TotalValue() decimal.Decimal {
	return s.portfolio.Cash.Add(s.InvestedValue())
}

// CurrentWeights is each holding's share of the invested value. It is empty
// when nothing of value is held.
func (s *PortfolioState) CurrentWeights() map[string]float64 {
	weights := map[string]float64{}
	invested := s.InvestedValue()
	if !invested.IsPositive() {
		return weights
	}
	for _, id := range s.portfolio.HeldInstruments() {
		value := s.HoldingValue(id)
		if value.IsPositive() {
			weights[id] = value.Div(invested).InexactFloat64()
		}
	}
	return weights
}
