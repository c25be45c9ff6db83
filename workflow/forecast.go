package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/mrzlkvvv/OhMyCash"
	"github.com/shopspring/decimal"
)

const (
	forecastWindow = 3
	forecastPlaces = 5
)

// Prediction is the next-day rate estimate for Code
type Prediction struct {
	Code   string
	Inputs []ohmycash.Point
	Value  float64
}

// Forecast estimates tomorrow's rate of code as the simple moving average of the rates on now
// and the two days before it. Inputs are ordered from the oldest date
func Forecast(ctx context.Context, getter ohmycash.RatesGetter, code string, now time.Time) (Prediction, error) {
	today := ohmycash.Day(now)

	inputs := make([]ohmycash.Point, 0, forecastWindow)
	sum := decimal.Zero
	for i := forecastWindow - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		d := ohmycash.FormatDate(date)

		records, err := getter.GetRates(ctx, date)
		if err != nil {
			return Prediction{}, fmt.Errorf("rates for %s: %w", d, err)
		}

		r, ok := ohmycash.Find(records, code)
		if !ok {
			return Prediction{}, &ohmycash.UnknownCurrencyError{Date: d, Code: code}
		}

		inputs = append(inputs, ohmycash.Point{Date: d, Rate: r.Rate, Count: r.Count})
		sum = sum.Add(decimal.NewFromFloat(r.Rate))
	}

	value := sum.Div(decimal.NewFromInt(forecastWindow)).Round(forecastPlaces)

	return Prediction{
		Code:   code,
		Inputs: inputs,
		Value:  value.InexactFloat64(),
	}, nil
}
