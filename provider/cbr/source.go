package cbr

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mrzlkvvv/OhMyCash/provider"
	"github.com/mrzlkvvv/OhMyCash/provider/httputil"
)

const hostname = "cbr.ru"

// Format selects which cbr.ru resource the source reads
type Format string

const (
	// FormatHTML reads the "currency_base/daily" page
	FormatHTML Format = "html"
	// FormatXML reads the XML_daily.asp feed
	FormatXML Format = "xml"
)

var (
	defaultHTMLResource = url.URL{Scheme: "https", Host: hostname, Path: "/currency_base/daily/"}
	defaultXMLResource  = url.URL{Scheme: "https", Host: hostname, Path: "/scripts/XML_daily.asp"}
)

var _ provider.Source = (*source)(nil)

type Option func(*source)

// WithFormat switches between the HTML page and the XML feed
func WithFormat(f Format) Option {
	return func(s *source) {
		s.format = f
	}
}

// WithURL overrides the resource address, the date query is still added per request
func WithURL(u url.URL) Option {
	return func(s *source) {
		s.resource = &u
	}
}

type fetcher struct {
	u url.URL
	decodeFunc
	httputil.SourceHTTPClient
}

// NewSource returns a source reading the Bank of Russia daily rates
func NewSource(client *http.Client, opts ...Option) *source {
	s := &source{format: FormatHTML}
	for _, opt := range opts {
		opt(s)
	}

	f := fetcher{
		u:                defaultHTMLResource,
		decodeFunc:       decodeHTML(),
		SourceHTTPClient: httputil.NewHTTPClient(client),
	}

	switch s.format {
	case FormatXML:
		f.u, f.decodeFunc = defaultXMLResource, decodeXML()
	default:
		s.format = FormatHTML
	}

	if s.resource != nil {
		f.u = *s.resource
	}

	s.client = f

	return s
}

type source struct {
	format   Format
	resource *url.URL
	client   fetcher
}

// Fetch requests the rates for the date. The returned snapshot carries the date the bank
// actually shows, which is the latest published date not after the requested one
func (s *source) Fetch(ctx context.Context, requested time.Time) (provider.Snapshot, error) {
	snapshot, err := s.fetchingPlan(ctx, requested)
	if err != nil {
		return provider.Snapshot{}, fmt.Errorf("fetching plan: %w", err)
	}

	return snapshot, nil
}

func (s *source) fetchingPlan(ctx context.Context, requested time.Time) (provider.Snapshot, error) {
	b, err := s.client.Get(ctx, s.resourceFor(requested))
	if err != nil {
		return provider.Snapshot{}, fmt.Errorf("%w: %s: %w", provider.ErrSourceUnavailable, requested.Format(dateLayout), err)
	}

	snapshot, err := s.decode(b)
	if err != nil {
		return provider.Snapshot{}, fmt.Errorf("%w: %s: %w", provider.ErrSourceFormat, requested.Format(dateLayout), err)
	}

	return snapshot, nil
}

// resourceFor copies the base address so concurrent requests never share a query
func (s *source) resourceFor(requested time.Time) url.URL {
	u := s.client.u
	query := u.Query()

	switch s.format {
	case FormatXML:
		query.Set("date_req", requested.Format("02/01/2006"))
	default:
		query.Set("UniDbQuery.Posted", "True")
		query.Set("UniDbQuery.To", requested.Format(dateLayout))
	}

	u.RawQuery = query.Encode()

	return u
}

func (s *source) decode(b []byte) (provider.Snapshot, error) {
	dailyRates, err := s.client.decodeFunc(b)
	if err != nil {
		return provider.Snapshot{}, fmt.Errorf("decode %s: %w", s.format, err)
	}

	records := make([]provider.Record, 0, len(dailyRates.rates)+1)
	records = append(records, dailyRates.rates...)
	records = append(records, homeRecord)

	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, ok := seen[r.Code]; ok {
			return provider.Snapshot{}, fmt.Errorf("%w: %s", errDuplicateCode, r.Code)
		}
		seen[r.Code] = struct{}{}
	}

	return provider.Snapshot{
		Date:    dailyRates.time,
		Records: records,
	}, nil
}
