// Package rates normalizes amounts into a single reporting currency.
//
// A Snapshot is fetched once at the start of a run from an exchange-rate
// endpoint and used for every conversion in that run. Amounts are integers
// in the smallest currency unit; each conversion rounds exactly once,
// half to even.
package rates

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultBaseURL is the exchange-rate endpoint; the base currency code
	// is appended as the last path segment.
	DefaultBaseURL = "https://open.er-api.com/v6/latest"

	// DefaultTimeout bounds the single rate request.
	DefaultTimeout = 10 * time.Second

	// DefaultBase is the reporting currency.
	DefaultBase = "eur"
)

// Converter converts an amount into the reporting currency.
type Converter interface {
	// Base returns the lowercase reporting currency code.
	Base() string

	// Convert converts amount, in the smallest unit of currency, into the
	// smallest unit of the reporting currency.
	Convert(amount int64, currency string) (int64, error)
}

// Snapshot is a point-in-time rate table relative to BaseCurrency.
//
// Rates maps a lowercase currency code to the number of units of that
// currency per one unit of the base currency.
type Snapshot struct {
	BaseCurrency string
	Rates        map[string]decimal.Decimal
	FetchedAt    time.Time
}

// Config contains rate fetcher configuration.
type Config struct {
	// BaseURL is the endpoint prefix (default: DefaultBaseURL).
	BaseURL string

	// Base is the reporting currency (default: DefaultBase).
	Base string

	// Timeout bounds the request (default: DefaultTimeout).
	Timeout time.Duration

	// HTTPClient overrides the transport. Its own Timeout is replaced.
	HTTPClient *http.Client
}

// response is the exchange-rate endpoint payload.
type response struct {
	Result   string                     `json:"result"`
	BaseCode string                     `json:"base_code"`
	Rates    map[string]decimal.Decimal `json:"rates"`
}
