package ohmycash

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned for a date string that does not parse as DD.MM.YYYY
	ErrInvalidRange = errors.New("invalid date range")
	// ErrUnknownCurrency is matched by every *UnknownCurrencyError
	ErrUnknownCurrency = errors.New("currency code is not published")
)

// UnknownCurrencyError reports a currency code absent from the snapshot of a date
type UnknownCurrencyError struct {
	Date string
	Code string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("%v: %s on %s", ErrUnknownCurrency, e.Code, e.Date)
}

func (e *UnknownCurrencyError) Is(target error) bool {
	return target == ErrUnknownCurrency
}
