package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Tolerance absorbs floating point residue in weight and score arithmetic.
const Tolerance = 1e-9

// ToleranceDecimal is Tolerance for cash and quantity checks on the ledger.
var ToleranceDecimal = decimal.New(1, -9)

var (
	ErrConfiguration        = errors.New("configuration error")
	ErrReferenceNotFound    = errors.New("reference not found")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrBelowMinimumTicket   = errors.New("below minimum ticket size")
)
