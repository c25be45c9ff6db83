package workflow

import (
	"errors"
	"fmt"

	"github.com/mrzlkvvv/OhMyCash"
	"github.com/mrzlkvvv/OhMyCash/provider"
	"github.com/shopspring/decimal"
)

const conversionPlaces = 4

var ErrInvalidAmount = errors.New("amount must not be negative")

// Conversion is the outcome of exchanging Amount units of From into To
type Conversion struct {
	From   provider.Record
	To     provider.Record
	Amount float64
	Result float64
}

// Convert exchanges amount of the from currency into the to currency through their rouble rates.
// Rates are taken per single unit, so a record quoted for 100 units is divided by 100 first
func Convert(records []provider.Record, from, to string, amount float64) (Conversion, error) {
	if amount < 0 {
		return Conversion{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	src, ok := ohmycash.Find(records, from)
	if !ok {
		return Conversion{}, fmt.Errorf("%w: source %s", ohmycash.ErrUnknownCurrency, from)
	}

	dst, ok := ohmycash.Find(records, to)
	if !ok {
		return Conversion{}, fmt.Errorf("%w: target %s", ohmycash.ErrUnknownCurrency, to)
	}

	result := decimal.NewFromFloat(amount).
		Mul(unitRate(src)).
		Div(unitRate(dst)).
		Round(conversionPlaces)

	return Conversion{
		From:   src,
		To:     dst,
		Amount: amount,
		Result: result.InexactFloat64(),
	}, nil
}

func unitRate(r provider.Record) decimal.Decimal {
	return decimal.NewFromFloat(r.Rate).Div(decimal.NewFromInt(int64(r.Count)))
}
