package workflow

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mrzlkvvv/OhMyCash"
)

// Plot is the rate series of one currency over an inclusive date range
type Plot struct {
	Code   string
	Start  string
	End    string
	Points []ohmycash.Point
}

// Name is the file stem the plot is stored under
func (p Plot) Name() string {
	return fmt.Sprintf("%s_from_%s_to_%s", p.Code, p.Start, p.End)
}

// PlotWriter renders a plot somewhere and reports where
type PlotWriter interface {
	WritePlot(ctx context.Context, p Plot) (string, error)
}

// BuildPlot validates the range bounds against the calendar date of now and collects the series of code
func BuildPlot(ctx context.Context, getter ohmycash.RatesGetter, start, end, code string, now time.Time) (Plot, error) {
	for _, d := range []string{start, end} {
		if !ohmycash.IsValidPastDateAt(d, now) {
			return Plot{}, fmt.Errorf("%w: %q is not a past DD.MM.YYYY date", ohmycash.ErrInvalidRange, d)
		}
	}

	points, err := ohmycash.Scan(ctx, getter, start, end, code)
	if err != nil {
		return Plot{}, fmt.Errorf("scan: %w", err)
	}

	return Plot{Code: code, Start: start, End: end, Points: points}, nil
}

var _ PlotWriter = (*CSVPlotWriter)(nil)

// CSVPlotWriter stores the plotted series as a date,rate,count file
type CSVPlotWriter struct {
	dir string
}

func NewCSVPlotWriter(dir string) *CSVPlotWriter {
	return &CSVPlotWriter{dir: dir}
}

func (w *CSVPlotWriter) WritePlot(_ context.Context, p Plot) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create plots dir: %w", err)
	}

	path := filepath.Join(w.dir, p.Name()+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create plot file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"date", "rate", "count"}); err != nil {
		return "", fmt.Errorf("write plot header: %w", err)
	}

	for _, point := range p.Points {
		row := []string{
			point.Date,
			strconv.FormatFloat(point.Rate, 'f', -1, 64),
			strconv.Itoa(point.Count),
		}
		if err := cw.Write(row); err != nil {
			return "", fmt.Errorf("write plot row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush plot: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close plot file: %w", err)
	}

	return path, nil
}
