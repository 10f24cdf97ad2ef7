// Package catalog resolves product ids to display names.
//
// The payments provider limits expansion depth, so session listings carry
// bare product ids. Directory fetches each product at most once per run and
// remembers the answer, including failures.
package catalog

import (
	"context"

	"github.com/0xmhha/boxoffice/pkg/logger"
	"github.com/0xmhha/boxoffice/pkg/payments"
)

// Directory is a read-through, process-scoped cache of product names.
//
// Entries never expire and failed lookups are never retried: after a fetch
// error the raw product id is the name for the rest of the run.
//
// Directory is not safe for concurrent use.
type Directory struct {
	fetcher payments.ProductFetcher
	logger  logger.Logger
	names   map[string]string
	fetches int
}

// New creates an empty directory backed by fetcher.
func New(fetcher payments.ProductFetcher, log logger.Logger) *Directory {
	if log == nil {
		log = logger.Noop()
	}
	return &Directory{
		fetcher: fetcher,
		logger:  log,
		names:   make(map[string]string),
	}
}

// Name returns the display name of productID.
//
// Lookup errors are not returned; they are logged and the id itself is
// cached as the name. A product with an empty name also resolves to its id.
func (d *Directory) Name(ctx context.Context, productID string) string {
	if name, ok := d.names[productID]; ok {
		return name
	}

	name := productID
	d.fetches++

	product, err := d.fetcher.GetProduct(ctx, productID)
	switch {
	case err != nil:
		d.logger.Warn("product lookup failed, using id as name",
			"product_id", productID,
			"error", err,
		)
	case product != nil && product.Name != "":
		name = product.Name
	}

	d.names[productID] = name
	return name
}

// Seed records a name already known from an expanded object. Empty names
// and ids already cached are ignored.
func (d *Directory) Seed(productID, name string) {
	if productID == "" || name == "" {
		return
	}
	if _, ok := d.names[productID]; ok {
		return
	}
	d.names[productID] = name
}

// Len returns the number of cached entries.
func (d *Directory) Len() int {
	return len(d.names)
}

// Fetches returns how many times the fetcher has been called.
func (d *Directory) Fetches() int {
	return d.fetches
}
