package cbr

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mrzlkvvv/OhMyCash/internal/strutil"
	"github.com/mrzlkvvv/OhMyCash/provider"
)

const dateLayout = "02.01.2006"

var (
	errDateNotFound      = errors.New("date control not found")
	errTableNotFound     = errors.New("rates table not found")
	errDecodeToken       = errors.New("decoding of the markup failed")
	errAttributeNotValid = errors.New("attr is not valid")
	errDuplicateCode     = errors.New("duplicate currency code")
)

// homeRecord is the rouble itself, the bank never lists it
var homeRecord = provider.Record{
	ID:    "643",
	Code:  "RUB",
	Count: 1,
	Name:  "Российский рубль",
	Rate:  1,
}

// decodeFunc turns a raw response into the rates of a single day
type decodeFunc func([]byte) (rubDailyRates, error)

type rubDailyRates struct {
	time  time.Time
	rates []provider.Record
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strutil.RemoveExtraSpaces(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", errAttributeNotValid, s)
	}

	return t, nil
}

// newRecord builds a record from the columns in source order: id, code, count, name, rate
func newRecord(id, code, count, name, rate string) (provider.Record, error) {
	r := provider.Record{
		ID:   strutil.RemoveExtraSpaces(id),
		Code: strutil.RemoveExtraSpaces(code),
		Name: strutil.RemoveExtraSpaces(name),
	}

	if r.Code == "" {
		return provider.Record{}, fmt.Errorf("%w: empty code", errAttributeNotValid)
	}

	n, err := strconv.Atoi(strutil.NormalizeDecimal(count))
	if err != nil || n <= 0 {
		return provider.Record{}, fmt.Errorf("%w: %s count %q", errAttributeNotValid, r.Code, count)
	}

	v, err := strconv.ParseFloat(strutil.NormalizeDecimal(rate), 64)
	if err != nil || v <= 0 {
		return provider.Record{}, fmt.Errorf("%w: %s rate %q", errAttributeNotValid, r.Code, rate)
	}

	r.Count, r.Rate = n, v

	return r, nil
}
