package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrzlkvvv/OhMyCash"
	"github.com/mrzlkvvv/OhMyCash/provider"
	"github.com/sethvargo/go-retry"
)

// DefaultRetryDuration is the pause used when NewRetrying gets a non-positive one
const DefaultRetryDuration = 5 * time.Second

var _ ohmycash.RatesGetter = (*Retrying)(nil)

// Retrying repeats GetRates of the wrapped getter while the source is unavailable.
// Format and storage errors are returned at once
type Retrying struct {
	getter   ohmycash.RatesGetter
	num      uint64
	duration time.Duration
}

// NewRetrying wraps getter with num extra attempts spaced by duration
func NewRetrying(getter ohmycash.RatesGetter, num uint64, duration time.Duration) *Retrying {
	if duration <= 0 {
		duration = DefaultRetryDuration
	}

	return &Retrying{getter: getter, num: num, duration: duration}
}

func (r *Retrying) GetRates(ctx context.Context, date time.Time) ([]provider.Record, error) {
	b, err := retry.NewConstant(r.duration)
	if err != nil {
		return nil, fmt.Errorf("backoff: %w", err)
	}

	b = retry.WithMaxRetries(r.num, b)

	var records []provider.Record
	if err := retry.Do(ctx, b, func(ctx context.Context) error {
		rates, err := r.getter.GetRates(ctx, date)
		if err != nil {
			if errors.Is(err, provider.ErrSourceUnavailable) {
				return retry.RetryableError(err)
			}

			return err
		}

		records = rates

		return nil
	}); err != nil {
		return nil, err
	}

	return records, nil
}
