package provider

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrSourceUnavailable reports a transport failure. Callers may retry it
	ErrSourceUnavailable = errors.New("rate source unavailable")
	// ErrSourceFormat reports a page that does not have the expected structure. It is never retried
	ErrSourceFormat = errors.New("rate source format changed")
)

// Source is an interface for getting the published snapshot for a date from an external source.
// Source takes care of receiving data and returning the date the source actually published
//
//go:generate mockgen -source source.go -destination mock_source.go -package provider
type Source interface {
	// Fetch returns the snapshot the source shows for the requested date. The snapshot date
	// may be earlier than requested when nothing was published that day
	Fetch(ctx context.Context, requested time.Time) (Snapshot, error)
}

// Record is a single currency rate within one date's snapshot
type Record struct {
	// ID is the source's numeric identifier, kept as text
	ID string
	// Code is the alphabetic currency code, e.g. USD
	Code string
	// Count is the number of foreign units the rate applies to
	Count int
	Name  string
	// Rate of Count units in the home currency
	Rate float64
}

// Snapshot represents all records published for one actual date
type Snapshot struct {
	Date    time.Time
	Records []Record
}
