package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mrzlkvvv/OhMyCash"
	"github.com/mrzlkvvv/OhMyCash/internal/config"
	"github.com/mrzlkvvv/OhMyCash/internal/hashio"
	"github.com/mrzlkvvv/OhMyCash/provider/cbr"
	"github.com/mrzlkvvv/OhMyCash/provider/httputil"
	"github.com/mrzlkvvv/OhMyCash/storage"
	"github.com/mrzlkvvv/OhMyCash/workflow"
)

type app struct {
	cfg   config.Config
	rates ohmycash.RatesGetter
	plots workflow.PlotWriter
	loc   *time.Location
	now   func() time.Time
}

func newApp(cfg config.Config) (*app, error) {
	for _, dir := range []string{cfg.RatesDir, cfg.PlotsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	hashFunc, err := hashio.HashFuncByName(cfg.RatesHash)
	if err != nil {
		return nil, fmt.Errorf("rates hash: %w", err)
	}

	storeOpts := []storage.Option{storage.WithHashFunc(hashFunc)}
	if cfg.RatesFileMode != 0 {
		storeOpts = append(storeOpts, storage.WithFileMode(cfg.RatesFileMode))
	}

	sourceOpts := []cbr.Option{cbr.WithFormat(cbr.Format(cfg.SourceFormat))}
	if cfg.SourceURL != nil {
		sourceOpts = append(sourceOpts, cbr.WithURL(*cfg.SourceURL))
	}

	resolver := ohmycash.New(
		storage.NewFileStore(cfg.RatesDir, storeOpts...),
		cbr.NewSource(httputil.DefaultClient(), sourceOpts...),
		ohmycash.WithRequestTimeout(cfg.RequestTimeout),
	)

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	return &app{
		cfg:   cfg,
		rates: workflow.NewRetrying(resolver, cfg.RetryNum, cfg.RetryDuration),
		plots: workflow.NewCSVPlotWriter(cfg.PlotsDir),
		loc:   loc,
		now: func() time.Time {
			return time.Now().In(loc)
		},
	}, nil
}

func (a *app) today() time.Time {
	return ohmycash.Day(a.now())
}

// dateOrToday validates a date flag against the configured calendar, empty means today
func (a *app) dateOrToday(date string) (time.Time, error) {
	if date == "" {
		return a.today(), nil
	}

	if !ohmycash.IsValidPastDateAt(date, a.now()) {
		return time.Time{}, fmt.Errorf("%w: %q is not a past DD.MM.YYYY date", ohmycash.ErrInvalidRange, date)
	}

	return ohmycash.ParseDate(date)
}
