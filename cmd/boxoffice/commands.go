package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/0xmhha/boxoffice/pkg/aggregator"
	"github.com/0xmhha/boxoffice/pkg/catalog"
	"github.com/0xmhha/boxoffice/pkg/checkout"
	"github.com/0xmhha/boxoffice/pkg/display"
	"github.com/0xmhha/boxoffice/pkg/payments"
	"github.com/0xmhha/boxoffice/pkg/rates"
	"github.com/0xmhha/boxoffice/pkg/resolver"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

var (
	errNoProducts = errors.New("no active products found")
	errAmbiguous  = errors.New("more than one show matches the description")
	errNoMatch    = errors.New("no show matches the description")
)

// createShowCommand creates a product and its price.
type createShowCommand struct {
	name        string
	description string
	images      []string
	metadata    map[string]string
	unitAmount  int64
	currency    string
}

// Execute runs the create-show command.
func (c *createShowCommand) Execute(ctx context.Context, a *app) error {
	product, err := a.stripe.CreateProduct(ctx, payments.ProductInput{
		Name:           c.name,
		Description:    c.description,
		Images:         c.images,
		Metadata:       c.metadata,
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return err
	}

	if _, err := a.stripe.CreatePrice(ctx, payments.PriceInput{
		ProductID:      product.ID,
		UnitAmount:     c.unitAmount,
		Currency:       c.currency,
		IdempotencyKey: uuid.NewString(),
	}); err != nil {
		return fmt.Errorf("product %s created without a price: %w", product.ID, err)
	}

	a.log.Info("show created", "product_id", product.ID, "unit_amount", c.unitAmount, "currency", c.currency)

	a.printf("Product created: %s\n", product.ID)
	a.printf("Dashboard: %s/products/%s\n", strings.TrimRight(a.cfg.Stripe.DashboardURL, "/"), product.ID)
	return nil
}

// productsCommand lists active products with their first active price.
type productsCommand struct {
	compact bool
}

// Execute runs the products command.
func (c *productsCommand) Execute(ctx context.Context, a *app) error {
	products, err := a.stripe.ListActiveProducts(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return errNoProducts
	}

	entries := make([]display.ProductEntry, 0, len(products))
	for _, p := range products {
		price, err := a.stripe.FirstActivePrice(ctx, p.ID)
		if err != nil {
			return err
		}
		entries = append(entries, display.NewProductEntry(p, price))
	}

	return display.WriteProducts(a.out, entries, c.compact)
}

// exportCommand writes the buyers of one product to CSV.
type exportCommand struct {
	productID string
	outputDir string
}

// Execute runs the export command.
func (c *exportCommand) Execute(ctx context.Context, a *app) error {
	return exportCustomers(ctx, a, c.productID, c.outputDir)
}

// exportCustomers scans every completed session and writes the buyers of
// productID to <dir>/customers_<id>_<date>.csv.
func exportCustomers(ctx context.Context, a *app, productID, dir string) error {
	if dir == "" {
		dir = a.cfg.Export.OutputDir
	}

	product, err := a.stripe.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	a.printf("Fetching completed checkout sessions for product %s...\n", productID)

	customers := aggregator.NewCustomers(productID, a.log)
	scanned, err := aggregator.Scan(ctx, a.stripe, payments.SessionFilter{}, customers)
	if err != nil {
		return err
	}

	a.printf("Scanned %d completed sessions. Found %d unique customer(s).\n", scanned, customers.Len())

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := display.ExportPath(dir, productID, a.now())
	rows := customers.Rows()
	if err := writeCustomerFile(path, rows, product.Name); err != nil {
		return err
	}

	a.log.Debug("export written", "path", path, "rows", len(rows))
	a.printf("Exported %d customer(s) to %s\n", len(rows), path)
	return nil
}

// writeCustomerFile creates path and writes the CSV export to it.
func writeCustomerFile(path string, rows []aggregator.CustomerRow, show string) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) // nolint:gosec
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close export file: %w", cerr)
		}
	}()

	if err := display.WriteCustomers(f, rows, show); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	return nil
}

// findCommand resolves a show description and exports its buyers.
type findCommand struct {
	query     string
	outputDir string
}

// Execute runs the find command. Ambiguous and unmatched descriptions
// are reported and end the run with an error.
func (c *findCommand) Execute(ctx context.Context, a *app) error {
	a.printf("Fetching your shows from Stripe...\n")

	products, err := a.stripe.ListActiveProducts(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return errNoProducts
	}

	a.printf("Finding the right show for: %q...\n", c.query)

	outcome, err := resolver.New(a.completer, a.log).Resolve(ctx, c.query, products, a.now())
	if err != nil {
		return err
	}

	switch outcome.Kind {
	case resolver.Matched:
		name := outcome.ProductID
		if p, ok := lo.Find(products, func(p checkout.Product) bool { return p.ID == outcome.ProductID }); ok {
			name = p.Name
		}
		a.printf("Matched show: %s\n", name)
		return exportCustomers(ctx, a, outcome.ProductID, c.outputDir)

	case resolver.Ambiguous:
		a.printf("Multiple shows could match your description:\n")
		if outcome.Explanation != "" {
			a.printf("%s\n", outcome.Explanation)
		}
		a.printf("\nPlease re-run with a more specific description.\n")
		return errAmbiguous

	default:
		a.printf("No show found matching: %q\n", c.query)
		a.printf("Available shows:\n")
		for _, p := range products {
			a.printf("  - %s (%s)\n", p.Name, p.ID)
		}
		return errNoMatch
	}
}

// revenueCommand summarizes revenue over a date range.
type revenueCommand struct {
	from      time.Time
	to        time.Time
	format    display.Format
	compact   bool
	noConvert bool
}

// Execute runs the revenue command.
func (c *revenueCommand) Execute(ctx context.Context, a *app) error {
	converter, err := c.converter(ctx, a)
	if err != nil {
		return err
	}

	names := catalog.New(a.stripe, a.log)
	revenue := aggregator.NewRevenue(names, converter, a.log)

	filter := payments.SessionFilter{
		CreatedFrom: c.from,
		CreatedTo:   endOfDay(c.to),
	}

	scanned, err := aggregator.Scan(ctx, a.stripe, filter, revenue)
	if err != nil {
		return err
	}

	a.log.Debug("revenue scanned", "sessions", scanned, "product_lookups", names.Fetches())

	if scanned == 0 {
		a.printf("No completed sales found for this period.\n")
		return nil
	}

	formatter := display.New(display.Config{
		Format:   c.format,
		Compact:  c.compact,
		MaxWidth: a.width(),
	})

	return formatter.FormatRevenue(a.out, display.Report{
		From:    c.from,
		To:      c.to,
		Summary: revenue.Summary(),
	})
}

// converter returns the identity converter for -no-convert, otherwise a
// fresh rate snapshot.
func (c *revenueCommand) converter(ctx context.Context, a *app) (rates.Converter, error) {
	if c.noConvert {
		return rates.Identity(a.cfg.Rates.BaseCurrency), nil
	}
	return a.rates(ctx)
}

// endOfDay returns 23:59:59 of the day of t.
func endOfDay(t time.Time) time.Time {
	return t.Add(24*time.Hour - time.Second)
}
