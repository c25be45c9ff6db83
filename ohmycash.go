package ohmycash

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrzlkvvv/OhMyCash/internal/logging"
	"github.com/mrzlkvvv/OhMyCash/provider"
	"golang.org/x/sync/singleflight"
)

const DefaultRequestTimeout = 10 * time.Second

// Store keeps one snapshot per actual publication date, plus the actual date every
// unpublished requested date resolved to
type Store interface {
	Has(date time.Time) (bool, error)
	Read(date time.Time) ([]provider.Record, error)
	Write(date time.Time, records []provider.Record) error
	Alias(requested time.Time) (time.Time, bool, error)
	WriteAlias(requested, actual time.Time) error
}

// NotifyFunc is called when the source answered a request with an earlier publication date
type NotifyFunc func(ctx context.Context, requested, actual time.Time)

type Option func(*Resolver)

type Options struct {
	RequestTimeout time.Duration
}

// WithRequestTimeout set a timeout for source requests, zero disables it
func WithRequestTimeout(t time.Duration) Option {
	return func(r *Resolver) {
		r.opts.RequestTimeout = t
	}
}

// WithNotifyFunc replaces the substitution notice written to the context logger
func WithNotifyFunc(f NotifyFunc) Option {
	return func(r *Resolver) {
		r.notify = f
	}
}

// New returns a resolver reading through store and filling it from source
func New(store Store, source provider.Source, opts ...Option) *Resolver {
	r := &Resolver{
		opts: Options{
			RequestTimeout: DefaultRequestTimeout,
		},
		store:  store,
		source: source,
		notify: logNotice,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolver answers "rates for date D" from the local cache, fetching once on a miss
type Resolver struct {
	opts   Options
	store  Store
	source provider.Source
	notify NotifyFunc

	group singleflight.Group
}

// GetRates returns the records in force on date
func (r *Resolver) GetRates(ctx context.Context, date time.Time) ([]provider.Record, error) {
	snapshot, err := r.Resolve(ctx, date)
	if err != nil {
		return nil, err
	}

	return snapshot.Records, nil
}

// Resolve returns the snapshot in force on date together with its actual publication date.
// Concurrent calls for the same date share one cache lookup and at most one fetch
func (r *Resolver) Resolve(ctx context.Context, date time.Time) (provider.Snapshot, error) {
	date = Day(date)

	v, err, _ := r.group.Do(FormatDate(date), func() (interface{}, error) {
		return r.resolve(ctx, date)
	})
	if err != nil {
		return provider.Snapshot{}, err
	}

	snapshot := v.(provider.Snapshot)
	records := make([]provider.Record, len(snapshot.Records))
	copy(records, snapshot.Records)

	return provider.Snapshot{Date: snapshot.Date, Records: records}, nil
}

func (r *Resolver) resolve(ctx context.Context, date time.Time) (provider.Snapshot, error) {
	if records, ok, err := r.cached(date); err != nil || ok {
		return provider.Snapshot{Date: date, Records: records}, err
	}

	if snapshot, ok, err := r.substituted(ctx, date); err != nil || ok {
		return snapshot, err
	}

	fetched, err := r.fetch(ctx, date)
	if err != nil {
		return provider.Snapshot{}, err
	}

	actual := Day(fetched.Date)
	if actual.After(date) {
		return provider.Snapshot{}, fmt.Errorf(
			"%w: published date %s is after requested %s",
			provider.ErrSourceFormat, FormatDate(actual), FormatDate(date),
		)
	}

	if actual.Equal(date) {
		if err := r.store.Write(date, fetched.Records); err != nil {
			return provider.Snapshot{}, fmt.Errorf("write rates for %s: %w", FormatDate(date), err)
		}

		return provider.Snapshot{Date: date, Records: fetched.Records}, nil
	}

	r.notify(ctx, date, actual)

	records, ok, err := r.cached(actual)
	if err != nil {
		return provider.Snapshot{}, err
	}

	if !ok {
		if err := r.store.Write(actual, fetched.Records); err != nil {
			return provider.Snapshot{}, fmt.Errorf("write rates for %s: %w", FormatDate(actual), err)
		}
		records = fetched.Records
	}

	if err := r.store.WriteAlias(date, actual); err != nil {
		return provider.Snapshot{}, fmt.Errorf("write alias for %s: %w", FormatDate(date), err)
	}

	return provider.Snapshot{Date: actual, Records: records}, nil
}

// substituted answers a date resolved before to an earlier publication. An alias whose
// snapshot has gone missing is ignored so the date is fetched again
func (r *Resolver) substituted(ctx context.Context, date time.Time) (provider.Snapshot, bool, error) {
	actual, ok, err := r.store.Alias(date)
	if err != nil {
		return provider.Snapshot{}, false, fmt.Errorf("alias for %s: %w", FormatDate(date), err)
	}

	if !ok {
		return provider.Snapshot{}, false, nil
	}

	records, ok, err := r.cached(actual)
	if err != nil || !ok {
		return provider.Snapshot{}, false, err
	}

	r.notify(ctx, date, actual)

	return provider.Snapshot{Date: actual, Records: records}, true, nil
}

func (r *Resolver) cached(date time.Time) ([]provider.Record, bool, error) {
	ok, err := r.store.Has(date)
	if err != nil {
		return nil, false, fmt.Errorf("check rates for %s: %w", FormatDate(date), err)
	}

	if !ok {
		return nil, false, nil
	}

	records, err := r.store.Read(date)
	if err != nil {
		return nil, false, fmt.Errorf("read rates for %s: %w", FormatDate(date), err)
	}

	return records, true, nil
}

func (r *Resolver) fetch(ctx context.Context, date time.Time) (provider.Snapshot, error) {
	if r.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.RequestTimeout)
		defer cancel()
	}

	snapshot, err := r.source.Fetch(ctx, date)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, provider.ErrSourceUnavailable) {
			return provider.Snapshot{}, fmt.Errorf("%w: %w", provider.ErrSourceUnavailable, err)
		}

		return provider.Snapshot{}, err
	}

	return snapshot, nil
}

func logNotice(ctx context.Context, requested, actual time.Time) {
	logging.FromContext(ctx).Printf(
		"rates for %s are not published, using %s", FormatDate(requested), FormatDate(actual),
	)
}
