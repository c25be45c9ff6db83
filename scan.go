package ohmycash

import (
	"context"
	"fmt"
	"time"

	"github.com/mrzlkvvv/OhMyCash/provider"
)

// RatesGetter is anything that can return the rates for a date, the Resolver first of all
type RatesGetter interface {
	GetRates(ctx context.Context, date time.Time) ([]provider.Record, error)
}

// Point is the rate of one currency on one requested date
type Point struct {
	Date  string
	Rate  float64
	Count int
}

// Find returns the record with the alphabetic code
func Find(records []provider.Record, code string) (provider.Record, bool) {
	for _, r := range records {
		if r.Code == code {
			return r, true
		}
	}

	return provider.Record{}, false
}

// Scan requests the rates for every date from start to end, one date at a time, and collects
// the rate of code. It stops at the first date whose snapshot lacks code; snapshots fetched
// before that date stay cached
func Scan(ctx context.Context, getter RatesGetter, start, end, code string) ([]Point, error) {
	dates, err := DatesBetween(start, end)
	if err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(dates))
	for _, d := range dates {
		date, err := ParseDate(d)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
		}

		records, err := getter.GetRates(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("rates for %s: %w", d, err)
		}

		r, ok := Find(records, code)
		if !ok {
			return nil, &UnknownCurrencyError{Date: d, Code: code}
		}

		points = append(points, Point{Date: d, Rate: r.Rate, Count: r.Count})
	}

	return points, nil
}
