package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/mrzlkvvv/OhMyCash"
	"github.com/mrzlkvvv/OhMyCash/provider"
)

var testRecords = []provider.Record{
	{ID: "840", Code: "USD", Count: 1, Name: "Доллар США", Rate: 90.3451},
	{ID: "398", Code: "KZT", Count: 100, Name: "Казахстанских тенге", Rate: 16.6117},
	{ID: "643", Code: "RUB", Count: 1, Name: "Российский рубль", Rate: 1},
}

// fakeGetter answers from a map keyed by DD.MM.YYYY and counts the calls
type fakeGetter struct {
	mtx   sync.Mutex
	calls int
	rates map[string][]provider.Record
	errs  []error
}

func (g *fakeGetter) GetRates(_ context.Context, date time.Time) ([]provider.Record, error) {
	g.mtx.Lock()
	defer g.mtx.Unlock()

	g.calls++
	if len(g.errs) > 0 {
		err := g.errs[0]
		g.errs = g.errs[1:]
		if err != nil {
			return nil, err
		}
	}

	return g.rates[ohmycash.FormatDate(date)], nil
}

func usdOnly(rate float64) []provider.Record {
	return []provider.Record{
		{ID: "840", Code: "USD", Count: 1, Name: "Доллар США", Rate: rate},
		{ID: "643", Code: "RUB", Count: 1, Name: "Российский рубль", Rate: 1},
	}
}
