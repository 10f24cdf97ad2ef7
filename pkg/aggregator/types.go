// Package aggregator folds completed checkout sessions into per-customer
// and per-show totals.
//
// Sessions are streamed from a payments.SessionSource by Scan and handed to
// one or more sinks. Sinks are plain in-memory maps keyed by a natural
// identifier (buyer email or product id); the order sessions arrive in does
// not affect the result.
//
// Example usage:
//
//	customers := aggregator.NewCustomers("prod_X", log)
//	scanned, err := aggregator.Scan(ctx, client, payments.SessionFilter{}, customers)
//	if err != nil {
//	    return err
//	}
//	for _, row := range customers.Rows() {
//	    fmt.Println(row.Email, row.Tickets)
//	}
package aggregator

import (
	"context"

	"github.com/0xmhha/boxoffice/pkg/checkout"
)

// Sink consumes sessions during a scan.
type Sink interface {
	// Add folds one validated session into the aggregate. An error aborts
	// the scan.
	Add(ctx context.Context, session checkout.Session) error
}

// NameResolver maps product ids to display names.
type NameResolver interface {
	Name(ctx context.Context, productID string) string
	Seed(productID, name string)
}

// CustomerRow is one buyer in a show export.
type CustomerRow struct {
	Name    string
	Email   string
	Phone   string
	Tickets int64
}

// ShowTotal is the revenue of one product in the reporting currency.
type ShowTotal struct {
	ProductID string
	Name      string
	Revenue   int64
	Tickets   int64
}

// Summary is the result of a revenue aggregation.
type Summary struct {
	// Currency is the reporting currency of every amount.
	Currency string

	// GrandTotal is the sum of converted line-item revenue.
	GrandTotal int64

	// Transactions is the number of sessions seen, including sessions
	// without line items.
	Transactions int

	// Tickets is the total quantity across all shows.
	Tickets int64

	// Shows is ordered by revenue descending, then name.
	Shows []ShowTotal
}
