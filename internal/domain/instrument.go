package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstrumentRef is the reference row of a tradable instrument. Rates are
// fractions, so a 1.5% surcharge is 0.015.
type InstrumentRef struct {
	InstrumentID  string
	Manager       string
	Name          string
	MinTicketSize float64
	Surcharge     float64
	Discount      float64
	Fee           float64
}

// LiquidationPrice is what one unit returns in cash when sold at price.
func (r InstrumentRef) LiquidationPrice(price float64) float64 {
	return price * (1 - r.Discount)
}

// AcquisitionPrice is what one unit costs in cash when bought at price.
func (r InstrumentRef) AcquisitionPrice(price float64) float64 {
	return price * (1 + r.Surcharge)
}

// ExactLiquidationPrice is LiquidationPrice for ledger arithmetic
func (r InstrumentRef) ExactLiquidationPrice(price float64) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(r.Discount)))
}

// ExactAcquisitionPrice is AcquisitionPrice for ledger arithmetic
func (r InstrumentRef) ExactAcquisitionPrice(price float64) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(r.Surcharge)))
}

type PricePoint struct {
	InstrumentID string
	Date         time.Time
	Price        float64
}
