package aggregator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/0xmhha/boxoffice/pkg/checkout"
	"github.com/0xmhha/boxoffice/pkg/logger"
	"github.com/0xmhha/boxoffice/pkg/payments"
	"github.com/0xmhha/boxoffice/pkg/rates"
	"github.com/samber/lo"
)

// Scan lists every completed session matching filter and adds it to each
// sink in order. It returns the number of sessions scanned.
func Scan(ctx context.Context, src payments.SessionSource, filter payments.SessionFilter, sinks ...Sink) (int, error) {
	scanned := 0
	err := src.ListCompletedSessions(ctx, filter, func(s checkout.Session) error {
		scanned++
		for _, sink := range sinks {
			if err := sink.Add(ctx, s); err != nil {
				return err
			}
		}
		return nil
	})

	return scanned, err
}

// customer is the running aggregate for one buyer email.
type customer struct {
	name    string
	phone   string
	tickets int64
}

// Customers aggregates ticket buyers of a single product by email.
type Customers struct {
	productID string
	logger    logger.Logger
	byEmail   map[string]*customer
}

// NewCustomers creates an empty customer aggregate for productID.
func NewCustomers(productID string, log logger.Logger) *Customers {
	if log == nil {
		log = logger.Noop()
	}
	return &Customers{
		productID: productID,
		logger:    log,
		byEmail:   make(map[string]*customer),
	}
}

// Add implements Sink.Add.
//
// Sessions without line items, without tickets for the product, or
// without a buyer email contribute nothing. A non-empty name or phone is
// never replaced by an empty one.
func (c *Customers) Add(_ context.Context, s checkout.Session) error {
	if !s.HasLineItems() {
		c.logger.Debug("session has no line items", "session_id", s.ID)
		return nil
	}

	quantity := s.QuantityFor(c.productID)
	if quantity == 0 {
		return nil
	}

	email := s.Customer.NormalizedEmail()
	if email == "" {
		c.logger.Debug("session has no buyer email", "session_id", s.ID, "tickets", quantity)
		return nil
	}

	entry, ok := c.byEmail[email]
	if !ok {
		entry = &customer{}
		c.byEmail[email] = entry
	}

	entry.tickets += quantity
	if name := strings.TrimSpace(s.Customer.Name); name != "" {
		entry.name = name
	}
	if phone := strings.TrimSpace(s.Customer.Phone); phone != "" {
		entry.phone = phone
	}

	return nil
}

// Len returns the number of unique buyers.
func (c *Customers) Len() int {
	return len(c.byEmail)
}

// Rows returns one row per buyer sorted case-insensitively by name, then
// by email.
func (c *Customers) Rows() []CustomerRow {
	rows := lo.MapToSlice(c.byEmail, func(email string, v *customer) CustomerRow {
		return CustomerRow{
			Name:    v.name,
			Email:   email,
			Phone:   v.phone,
			Tickets: v.tickets,
		}
	})

	sort.Slice(rows, func(i, j int) bool {
		ni, nj := strings.ToLower(rows[i].Name), strings.ToLower(rows[j].Name)
		if ni != nj {
			return ni < nj
		}
		return rows[i].Email < rows[j].Email
	})

	return rows
}

// Revenue aggregates converted line-item revenue per product.
type Revenue struct {
	names     NameResolver
	converter rates.Converter
	logger    logger.Logger

	shows        map[string]*ShowTotal
	grandTotal   int64
	transactions int
}

// NewRevenue creates an empty revenue aggregate reporting in the
// converter's base currency.
func NewRevenue(names NameResolver, converter rates.Converter, log logger.Logger) *Revenue {
	if log == nil {
		log = logger.Noop()
	}
	return &Revenue{
		names:     names,
		converter: converter,
		logger:    log,
		shows:     make(map[string]*ShowTotal),
	}
}

// Add implements Sink.Add.
//
// Every session counts as a transaction. Each line item adds
// quantity × unit amount, converted from the price currency, to its
// product and to the grand total. A conversion failure aborts the scan.
func (r *Revenue) Add(ctx context.Context, s checkout.Session) error {
	r.transactions++

	if !s.HasLineItems() {
		r.logger.Debug("session has no line items", "session_id", s.ID)
		return nil
	}

	for _, item := range s.LineItems {
		productID := item.Price.ProductID
		if item.Price.Product != nil {
			r.names.Seed(productID, item.Price.Product.Name)
		}

		amount, err := r.converter.Convert(item.Amount(), item.Price.Currency)
		if err != nil {
			return fmt.Errorf("session %s: %w", s.ID, err)
		}

		show, ok := r.shows[productID]
		if !ok {
			show = &ShowTotal{
				ProductID: productID,
				Name:      r.names.Name(ctx, productID),
			}
			r.shows[productID] = show
		}

		show.Revenue += amount
		show.Tickets += item.Quantity
		r.grandTotal += amount
	}

	return nil
}

// Summary returns the totals collected so far.
func (r *Revenue) Summary() Summary {
	shows := lo.Map(lo.Values(r.shows), func(s *ShowTotal, _ int) ShowTotal {
		return *s
	})

	sort.Slice(shows, func(i, j int) bool {
		if shows[i].Revenue != shows[j].Revenue {
			return shows[i].Revenue > shows[j].Revenue
		}
		if shows[i].Name != shows[j].Name {
			return shows[i].Name < shows[j].Name
		}
		return shows[i].ProductID < shows[j].ProductID
	})

	return Summary{
		Currency:     r.converter.Base(),
		GrandTotal:   r.grandTotal,
		Transactions: r.transactions,
		Tickets:      lo.SumBy(shows, func(s ShowTotal) int64 { return s.Tickets }),
		Shows:        shows,
	}
}
