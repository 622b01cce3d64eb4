package models

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are rendered as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	// MaxQuantity is the largest quantity an INTEGER stock column holds.
	MaxQuantity = math.MaxInt32
	// PriceScale is the number of decimal places kept for money.
	PriceScale = 2
)

var (
	// MaxPrice is the exclusive upper bound of a NUMERIC(12,2) price.
	MaxPrice = decimal.New(1, 10)
	// MaxTotal is the exclusive upper bound of a NUMERIC(14,2) transaction total.
	MaxTotal = decimal.New(1, 12)
)

var (
	errNegativePrice  = errors.New("must be greater than or equal to 0")
	errPriceScale     = errors.New("must have at most 2 decimal places")
	errPriceOverLimit = errors.New("must be less than " + MaxPrice.String())
)

// CheckPrice reports why d cannot be stored as a price, or nil.
func CheckPrice(d decimal.Decimal) error {
	switch {
	case d.IsNegative():
		return errNegativePrice
	case !d.Equal(d.Truncate(PriceScale)):
		return errPriceScale
	case d.GreaterThanOrEqual(MaxPrice):
		return errPriceOverLimit
	}
	return nil
}
