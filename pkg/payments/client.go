package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/0xmhha/boxoffice/pkg/checkout"
	"github.com/0xmhha/boxoffice/pkg/logger"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
)

// Expansions requested on every session listing. Stripe caps expansion
// depth at four levels, so price.product stays an id.
var sessionExpansions = []string{
	"data.line_items",
	"data.line_items.data.price",
}

// Client implements SessionSource, Catalog and Creator over stripe-go.
type Client struct {
	api      *client.API
	pageSize int64
	logger   logger.Logger
}

// New creates a Stripe client. Network retries are disabled; a failed
// call fails the run.
func New(cfg Config, log logger.Logger) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if log == nil {
		log = logger.Noop()
	}

	backendCfg := &stripe.BackendConfig{
		HTTPClient:        cfg.HTTPClient,
		LeveledLogger:     &leveledLogger{log: log.With("component", "stripe")},
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.BaseURL != "" {
		backendCfg.URL = stripe.String(cfg.BaseURL)
	}

	api := &client.API{}
	api.Init(cfg.APIKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendCfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendCfg),
	})

	return &Client{
		api:      api,
		pageSize: cfg.PageSize,
		logger:   log,
	}
}

// ListCompletedSessions implements SessionSource.ListCompletedSessions.
func (c *Client) ListCompletedSessions(ctx context.Context, filter SessionFilter, fn func(checkout.Session) error) error {
	params := &stripe.CheckoutSessionListParams{
		Status: stripe.String(string(stripe.CheckoutSessionStatusComplete)),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(c.pageSize)
	for _, field := range sessionExpansions {
		params.AddExpand(field)
	}

	if !filter.CreatedFrom.IsZero() || !filter.CreatedTo.IsZero() {
		created := &stripe.RangeQueryParams{}
		if !filter.CreatedFrom.IsZero() {
			created.GreaterThanOrEqual = filter.CreatedFrom.Unix()
		}
		if !filter.CreatedTo.IsZero() {
			created.LesserThanOrEqual = filter.CreatedTo.Unix()
		}
		params.CreatedRange = created
	}

	iter := c.api.CheckoutSessions.List(params)
	for iter.Next() {
		sess, err := toSession(iter.CheckoutSession())
		if err != nil {
			return err
		}
		if err := fn(sess); err != nil {
			return err
		}
	}

	return wrapAPIError("list checkout sessions", iter.Err())
}

// GetProduct implements ProductFetcher.GetProduct.
func (c *Client) GetProduct(ctx context.Context, productID string) (*checkout.Product, error) {
	if productID == "" {
		return nil, ErrEmptyProductID
	}

	params := &stripe.ProductParams{}
	params.Context = ctx

	p, err := c.api.Products.Get(productID, params)
	if err != nil {
		return nil, wrapAPIError("retrieve product "+productID, err)
	}

	product := toProduct(p)
	return &product, nil
}

// ListActiveProducts implements Catalog.ListActiveProducts.
func (c *Client) ListActiveProducts(ctx context.Context) ([]checkout.Product, error) {
	params := &stripe.ProductListParams{
		Active: stripe.Bool(true),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(c.pageSize)

	products := make([]checkout.Product, 0)
	iter := c.api.Products.List(params)
	for iter.Next() {
		products = append(products, toProduct(iter.Product()))
	}
	if err := iter.Err(); err != nil {
		return nil, wrapAPIError("list products", err)
	}

	return products, nil
}

// FirstActivePrice implements Catalog.FirstActivePrice.
func (c *Client) FirstActivePrice(ctx context.Context, productID string) (*checkout.Price, error) {
	if productID == "" {
		return nil, ErrEmptyProductID
	}

	params := &stripe.PriceListParams{
		Product: stripe.String(productID),
		Active:  stripe.Bool(true),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := c.api.Prices.List(params)
	if iter.Next() {
		price := toPrice(iter.Price())
		return &price, nil
	}
	if err := iter.Err(); err != nil {
		return nil, wrapAPIError("list prices for "+productID, err)
	}

	return nil, nil
}

// CreateProduct implements Creator.CreateProduct.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*checkout.Product, error) {
	params := &stripe.ProductParams{
		Name: stripe.String(in.Name),
	}
	params.Context = ctx
	if in.Description != "" {
		params.Description = stripe.String(in.Description)
	}
	if len(in.Images) > 0 {
		params.Images = stripe.StringSlice(in.Images)
	}
	for key, value := range in.Metadata {
		params.AddMetadata(key, value)
	}
	if in.IdempotencyKey != "" {
		params.SetIdempotencyKey(in.IdempotencyKey)
	}

	p, err := c.api.Products.New(params)
	if err != nil {
		return nil, wrapAPIError("create product", err)
	}

	c.logger.Debug("product created", "product_id", p.ID)

	product := toProduct(p)
	return &product, nil
}

// CreatePrice implements Creator.CreatePrice.
func (c *Client) CreatePrice(ctx context.Context, in PriceInput) (*checkout.Price, error) {
	params := &stripe.PriceParams{
		Product:    stripe.String(in.ProductID),
		UnitAmount: stripe.Int64(in.UnitAmount),
		Currency:   stripe.String(strings.ToLower(in.Currency)),
	}
	params.Context = ctx
	if in.IdempotencyKey != "" {
		params.SetIdempotencyKey(in.IdempotencyKey)
	}

	p, err := c.api.Prices.New(params)
	if err != nil {
		return nil, wrapAPIError("create price", err)
	}

	c.logger.Debug("price created", "price_id", p.ID, "product_id", in.ProductID)

	price := toPrice(p)
	return &price, nil
}

// leveledLogger routes SDK diagnostics into the application logger.
type leveledLogger struct {
	log logger.Logger
}

func (l *leveledLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...))
}

func (l *leveledLogger) Infof(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...))
}

func (l *leveledLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, v...))
}

// Errorf is logged at debug: every SDK error is also returned to the
// caller, which reports it once.
func (l *leveledLogger) Errorf(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...))
}
