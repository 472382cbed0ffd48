package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type Portfolio struct {
	Positions map[string]*Position
	Cash      decimal.Decimal
}

func NewPortfolio(cash decimal.Decimal) *Portfolio {
	return &Portfolio{
		Positions: map[string]*Position{},
		Cash:      cash,
	}
}

func (p *Portfolio) SetCash(newCash decimal.Decimal) {
	p.Cash = newCash
}

// HeldInstruments returns the ids of all positions, sorted
func (p Portfolio) HeldInstruments() []string {
	ids := []string{}
	for id := range p.Positions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (p Portfolio) Quantity(instrumentID string) decimal.Decimal {
	if position, ok := p.Positions[instrumentID]; ok {
		return position.ExactQuantity
	}
	return decimal.Zero
}

func (p Portfolio) DeepCopy() *Portfolio {
	newPortfolio := &Portfolio{
		Cash:      p.Cash,
		Positions: map[string]*Position{},
	}
	for id, position := range p.Positions {
		newPortfolio.Positions[id] = position.DeepCopy()
	}

	return newPortfolio
}

type Position struct {
	InstrumentID  string
	ExactQuantity decimal.Decimal
}

func (p Position) DeepCopy() *Position {
	return &Position{
		InstrumentID:  p.InstrumentID,
		ExactQuantity: p.ExactQuantity,
	}
}

type TradeSide string

const (
	TradeSide_Buy  TradeSide = "BUY"
	TradeSide_Sell TradeSide = "SELL"
)

type FilledTrade struct {
	InstrumentID string
	Side         TradeSide
	// cash leaving the portfolio on a buy, entering it on a sell
	Value    decimal.Decimal
	Quantity decimal.Decimal
	Price    float64
	FilledAt time.Time
}
