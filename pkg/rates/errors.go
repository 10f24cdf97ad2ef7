package rates

import (
	"errors"
	"strings"
)

var (
	// ErrUpstream indicates the rate endpoint answered with a non-2xx status.
	ErrUpstream = errors.New("exchange rate API error")

	// ErrNotSuccess indicates the endpoint reported a non-success result.
	ErrNotSuccess = errors.New("exchange rate API did not report success")

	// ErrEmptyTable indicates the endpoint returned no rates.
	ErrEmptyTable = errors.New("exchange rate API returned no rates")
)

// UnknownCurrencyError is returned when an amount is in a currency the
// snapshot has no usable rate for.
type UnknownCurrencyError struct {
	Currency string
}

func (e *UnknownCurrencyError) Error() string {
	return "no exchange rate found for " + strings.ToUpper(e.Currency)
}
