// Package checkout defines the payment objects boxoffice reads from the
// payments provider: completed checkout sessions, their line items, prices
// and products.
//
// Provider responses are converted into these types at the ingestion
// boundary and validated there, so aggregation code can rely on every
// field it touches being present.
//
// Invariant: a validated Session has Status == StatusComplete.
// Invariant: every validated LineItem has a non-empty Price.ProductID.
// Invariant: amounts are integers in the smallest currency unit.
package checkout

import (
	"strings"
	"time"
)

// StatusComplete is the only session status boxoffice aggregates.
const StatusComplete = "complete"

// ProductIDPrefix is the prefix of every product identifier.
const ProductIDPrefix = "prod_"

// Session is a completed purchase transaction.
type Session struct {
	ID          string
	Status      string
	Created     time.Time
	AmountTotal int64
	Currency    string
	Customer    Contact

	// LineItems is empty when the provider did not expand line items.
	LineItems []LineItem
}

// Contact is the buyer contact captured at checkout.
type Contact struct {
	Email string
	Name  string
	Phone string
}

// LineItem is one priced entry within a session.
type LineItem struct {
	Quantity int64
	Price    Price
}

// Price is an amount/currency offer attached to a product.
type Price struct {
	ID         string
	UnitAmount int64
	Currency   string
	ProductID  string

	// Product is set only when the provider expanded it.
	Product *Product
}

// Product is a sellable show.
type Product struct {
	ID          string
	Name        string
	Active      bool
	Description string
	Images      []string
	Metadata    map[string]string
}

// NormalizedEmail returns the trimmed, lowercased buyer email.
func (c Contact) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(c.Email))
}

// HasLineItems reports whether the session carries expanded line items.
func (s *Session) HasLineItems() bool {
	return len(s.LineItems) > 0
}

// QuantityFor sums the quantity of line items sold for productID.
func (s *Session) QuantityFor(productID string) int64 {
	var total int64
	for _, item := range s.LineItems {
		if item.Price.ProductID == productID {
			total += item.Quantity
		}
	}
	return total
}

// Amount returns quantity × unit amount in the price currency.
func (li LineItem) Amount() int64 {
	return li.Quantity * li.Price.UnitAmount
}

// Validate checks the session against the ingestion invariants.
//
// Returns a *ValidationError naming the session and, for line-item
// problems, the 1-indexed line item.
func (s *Session) Validate() error {
	if s.ID == "" {
		return &ValidationError{Err: ErrMissingSessionID}
	}
	if s.Status != StatusComplete {
		return &ValidationError{SessionID: s.ID, Err: ErrNotComplete}
	}
	if s.Created.IsZero() {
		return &ValidationError{SessionID: s.ID, Err: ErrInvalidCreated}
	}
	// Setup-mode sessions carry no currency and no line items.
	if s.Currency != strings.ToLower(s.Currency) || (s.Currency == "" && s.HasLineItems()) {
		return &ValidationError{SessionID: s.ID, Err: ErrInvalidCurrency}
	}

	for i, item := range s.LineItems {
		if err := item.Validate(); err != nil {
			return &ValidationError{SessionID: s.ID, LineItem: i + 1, Err: err}
		}
	}

	return nil
}

// Validate checks a single line item.
func (li LineItem) Validate() error {
	if li.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if li.Price.ID == "" {
		return ErrMissingPrice
	}
	if li.Price.UnitAmount < 0 {
		return ErrNegativeAmount
	}
	if li.Price.ProductID == "" {
		return ErrMissingProduct
	}
	if li.Price.Currency == "" {
		return ErrInvalidCurrency
	}
	return nil
}
