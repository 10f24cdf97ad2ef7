// Package payments adapts the Stripe API to the checkout types.
//
// All list operations paginate exhaustively and yield objects in the order
// the provider returns them. Every provider object is converted and
// validated at this boundary; a malformed session aborts the listing.
//
// Example usage:
//
//	client := payments.New(payments.Config{APIKey: key}, log)
//	err := client.ListCompletedSessions(ctx, payments.SessionFilter{}, func(s checkout.Session) error {
//	    fmt.Println(s.ID)
//	    return nil
//	})
package payments

import (
	"context"
	"net/http"
	"time"

	"github.com/0xmhha/boxoffice/pkg/checkout"
)

// DefaultPageSize is the page size requested from list endpoints.
const DefaultPageSize = 100

// SessionFilter narrows the completed sessions to list.
type SessionFilter struct {
	// CreatedFrom is the inclusive lower bound; zero means unbounded.
	CreatedFrom time.Time

	// CreatedTo is the inclusive upper bound; zero means unbounded.
	CreatedTo time.Time
}

// SessionSource lists completed checkout sessions.
type SessionSource interface {
	// ListCompletedSessions calls fn for each completed session matching
	// filter, with line items and prices expanded, until the provider
	// reports no more pages. An error from fn stops the listing and is
	// returned as is.
	ListCompletedSessions(ctx context.Context, filter SessionFilter, fn func(checkout.Session) error) error
}

// ProductFetcher retrieves a single product.
type ProductFetcher interface {
	GetProduct(ctx context.Context, productID string) (*checkout.Product, error)
}

// Catalog lists sellable products and their prices.
type Catalog interface {
	ProductFetcher

	// ListActiveProducts returns every active product.
	ListActiveProducts(ctx context.Context) ([]checkout.Product, error)

	// FirstActivePrice returns the first active price of a product, or
	// nil when the product has none.
	FirstActivePrice(ctx context.Context, productID string) (*checkout.Price, error)
}

// Creator creates products and prices.
type Creator interface {
	CreateProduct(ctx context.Context, in ProductInput) (*checkout.Product, error)
	CreatePrice(ctx context.Context, in PriceInput) (*checkout.Price, error)
}

// ProductInput describes a product to create. Empty optional fields are
// not sent.
type ProductInput struct {
	Name        string
	Description string
	Images      []string
	Metadata    map[string]string

	// IdempotencyKey makes a repeated request return the first result.
	IdempotencyKey string
}

// PriceInput describes a one-off price to attach to a product.
type PriceInput struct {
	ProductID  string
	UnitAmount int64
	Currency   string

	IdempotencyKey string
}

// Config contains client configuration.
type Config struct {
	// APIKey is the secret key.
	APIKey string

	// BaseURL overrides the API endpoint (tests).
	BaseURL string

	// HTTPClient overrides the transport; nil uses the SDK default.
	HTTPClient *http.Client

	// PageSize is the list page size (default: DefaultPageSize).
	PageSize int64
}
