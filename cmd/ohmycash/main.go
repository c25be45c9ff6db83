package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrzlkvvv/OhMyCash/internal/config"
	"github.com/mrzlkvvv/OhMyCash/internal/logging"
)

const usage = `usage: ohmycash <command> [flags]

commands:
  rates     print the rates for a date
  convert   convert an amount between two currencies
  plot      save the rate series of a currency over a date range
  forecast  estimate tomorrow's rate of a currency
  sync      upload the data directory
  watch     fetch today's rates on a schedule
`

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logging.WithLogger(ctx, logging.NewLogger("OhMyCash: ", log.Lmsgprefix))
	logger := logging.FromContext(ctx)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if err := realMain(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}

		logger.Fatal(err)
	}
}

func realMain(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	flagSet := flag.NewFlagSet(args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	run := cmd(flagSet)
	if err := flagSet.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, args[0], err)
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	return run(ctx, a, out)
}
