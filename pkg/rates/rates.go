package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Fetch retrieves a rate snapshot for cfg.Base.
//
// A non-2xx status, malformed body, non-success result or empty rate table
// is an error. Rate keys are lowercased.
func Fetch(ctx context.Context, cfg Config) (*Snapshot, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Base == "" {
		cfg.Base = DefaultBase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.HTTPClient != nil {
		c := *cfg.HTTPClient
		c.Timeout = cfg.Timeout
		client = &c
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.ToUpper(cfg.Base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchange rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode exchange rates: %w", err)
	}

	if payload.Result != "success" {
		return nil, fmt.Errorf("%w: result %q", ErrNotSuccess, payload.Result)
	}
	if len(payload.Rates) == 0 {
		return nil, ErrEmptyTable
	}

	table := make(map[string]decimal.Decimal, len(payload.Rates))
	for code, rate := range payload.Rates {
		table[strings.ToLower(code)] = rate
	}

	return &Snapshot{
		BaseCurrency: strings.ToLower(cfg.Base),
		Rates:        table,
		FetchedAt:    time.Now().UTC(),
	}, nil
}

// Base implements Converter.Base.
func (s *Snapshot) Base() string {
	return s.BaseCurrency
}

// Convert implements Converter.Convert.
//
// Identity for the base currency; otherwise amount / rate rounded half to
// even. A missing or non-positive rate is an *UnknownCurrencyError.
func (s *Snapshot) Convert(amount int64, currency string) (int64, error) {
	cur := strings.ToLower(currency)
	if cur == s.BaseCurrency {
		return amount, nil
	}

	rate, ok := s.Rates[cur]
	if !ok || !rate.IsPositive() {
		return 0, &UnknownCurrencyError{Currency: cur}
	}

	return decimal.NewFromInt(amount).Div(rate).RoundBank(0).IntPart(), nil
}

// identity accepts only amounts already in the base currency.
type identity struct {
	base string
}

// Identity returns a Converter that passes base-currency amounts through
// and rejects every other currency.
func Identity(base string) Converter {
	return identity{base: strings.ToLower(base)}
}

func (c identity) Base() string {
	return c.base
}

func (c identity) Convert(amount int64, currency string) (int64, error) {
	if strings.ToLower(currency) != c.base {
		return 0, &UnknownCurrencyError{Currency: currency}
	}
	return amount, nil
}
