package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mrzlkvvv/OhMyCash"
	"github.com/mrzlkvvv/OhMyCash/internal/logging"
	"github.com/mrzlkvvv/OhMyCash/workflow"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

type runFunc func(ctx context.Context, a *app, out io.Writer) error

// commands register their flags and return the function running them
var commands = map[string]func(fs *flag.FlagSet) runFunc{
	"rates":    ratesCmd,
	"convert":  convertCmd,
	"plot":     plotCmd,
	"forecast": forecastCmd,
	"sync":     syncCmd,
	"watch":    watchCmd,
}

func ratesCmd(fs *flag.FlagSet) runFunc {
	date := fs.String("date", "", "date in DD.MM.YYYY format, today by default")

	return func(ctx context.Context, a *app, out io.Writer) error {
		d, err := a.dateOrToday(*date)
		if err != nil {
			return err
		}

		records, err := a.rates.GetRates(ctx, d)
		if err != nil {
			return fmt.Errorf("get rates: %w", err)
		}

		return printRates(out, records)
	}
}

func convertCmd(fs *flag.FlagSet) runFunc {
	var (
		from   = fs.String("from", "", "alphabetic code of the currency to convert")
		to     = fs.String("to", "", "alphabetic code of the currency to get")
		amount = fs.Float64("amount", 1, "amount to convert")
		date   = fs.String("date", "", "date of the rates in DD.MM.YYYY format, today by default")
	)

	return func(ctx context.Context, a *app, out io.Writer) error {
		if *from == "" || *to == "" {
			return fmt.Errorf("%w: convert needs -from and -to", errUsage)
		}

		d, err := a.dateOrToday(*date)
		if err != nil {
			return err
		}

		records, err := a.rates.GetRates(ctx, d)
		if err != nil {
			return fmt.Errorf("get rates: %w", err)
		}

		conv, err := workflow.Convert(records, strings.ToUpper(*from), strings.ToUpper(*to), *amount)
		if err != nil {
			return fmt.Errorf("convert: %w", err)
		}

		_, err = fmt.Fprintf(out, "%v %s = %v %s\n", conv.Amount, conv.From.Name, conv.Result, conv.To.Name)

		return err
	}
}

func plotCmd(fs *flag.FlagSet) runFunc {
	var (
		code  = fs.String("code", "", "alphabetic code of the currency")
		start = fs.String("from", "", "first date in DD.MM.YYYY format")
		end   = fs.String("to", "", "last date in DD.MM.YYYY format")
	)

	return func(ctx context.Context, a *app, out io.Writer) error {
		if *code == "" {
			return fmt.Errorf("%w: plot needs -code", errUsage)
		}

		plot, err := workflow.BuildPlot(ctx, a.rates, *start, *end, strings.ToUpper(*code), a.now())
		if err != nil {
			return fmt.Errorf("build plot: %w", err)
		}

		path, err := a.plots.WritePlot(ctx, plot)
		if err != nil {
			return fmt.Errorf("write plot: %w", err)
		}

		_, err = fmt.Fprintf(out, "plot saved to %q\n", path)

		return err
	}
}

func forecastCmd(fs *flag.FlagSet) runFunc {
	code := fs.String("code", "", "alphabetic code of the currency")

	return func(ctx context.Context, a *app, out io.Writer) error {
		if *code == "" {
			return fmt.Errorf("%w: forecast needs -code", errUsage)
		}

		prediction, err := workflow.Forecast(ctx, a.rates, strings.ToUpper(*code), a.now())
		if err != nil {
			return fmt.Errorf("forecast: %w", err)
		}

		for _, p := range prediction.Inputs {
			if _, err := fmt.Fprintf(out, "%s\t%v\n", p.Date, p.Rate); err != nil {
				return err
			}
		}

		_, err = fmt.Fprintf(out, "simple moving average forecast for tomorrow: %v\n", prediction.Value)

		return err
	}
}

func syncCmd(fs *flag.FlagSet) runFunc {
	target := fs.String("target", "", "directory to upload into, OHMYCASH_SYNC_TARGET by default")

	return func(ctx context.Context, a *app, out io.Writer) error {
		dir := *target
		if dir == "" {
			dir = a.cfg.SyncTarget
		}

		if dir == "" {
			return fmt.Errorf("%w: sync needs -target or OHMYCASH_SYNC_TARGET", errUsage)
		}

		report, err := workflow.Sync(ctx, a.cfg.DataDir, workflow.NewDirUploader(dir))
		if _, printErr := fmt.Fprintf(out, "uploaded %d, already present %d\n", len(report.Uploaded), len(report.Skipped)); printErr != nil {
			err = multierror.Append(err, printErr)
		}

		return err
	}
}

func watchCmd(fs *flag.FlagSet) runFunc {
	spec := fs.String("cron", "", "cron spec of the fetch, OHMYCASH_CRON_SPEC by default")
	withSync := fs.Bool("sync", false, "upload the data directory after every fetch")

	return func(ctx context.Context, a *app, _ io.Writer) error {
		if *spec == "" {
			*spec = a.cfg.CronSpec
		}

		if *withSync && a.cfg.SyncTarget == "" {
			return fmt.Errorf("%w: watch -sync needs OHMYCASH_SYNC_TARGET", errUsage)
		}

		return watch(ctx, a, *spec, *withSync)
	}
}

func watch(ctx context.Context, a *app, spec string, withSync bool) error {
	logger := logging.FromContext(ctx)

	scheduler := cron.New(
		cron.WithLocation(a.loc),
		cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)),
	)

	g, gctx := errgroup.WithContext(ctx)

	job := func() {
		if err := prefetch(gctx, a, withSync); err != nil {
			logger.Printf("scheduled job failed: %v", err)
		}
	}

	if _, err := scheduler.AddFunc(spec, job); err != nil {
		return fmt.Errorf("add cron func: %w", err)
	}

	job()

	g.Go(func() error {
		return runCron(gctx, scheduler)
	})

	logger.Printf("watching with %q, stop with Ctrl+C", spec)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

// prefetch stores today's rates and optionally mirrors the data directory
func prefetch(ctx context.Context, a *app, withSync bool) error {
	var result *multierror.Error

	today := a.today()
	if _, err := a.rates.GetRates(ctx, today); err != nil {
		result = multierror.Append(result, fmt.Errorf("rates for %s: %w", ohmycash.FormatDate(today), err))
	} else {
		logging.FromContext(ctx).Printf("rates for %s are cached", ohmycash.FormatDate(today))
	}

	if withSync {
		if _, err := workflow.Sync(ctx, a.cfg.DataDir, workflow.NewDirUploader(a.cfg.SyncTarget)); err != nil {
			result = multierror.Append(result, fmt.Errorf("sync: %w", err))
		}
	}

	return result.ErrorOrNil()
}

func runCron(ctx context.Context, c *cron.Cron) error {
	c.Start()
	defer func() {
		stopCtx := c.Stop()
		<-stopCtx.Done()
	}()

	<-ctx.Done()

	return nil
}
