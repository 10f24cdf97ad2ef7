package checkout

import (
	"errors"
	"testing"
	"time"
)

func validSession() Session {
	return Session{
		ID:          "cs_test_1",
		Status:      StatusComplete,
		Created:     time.Date(2026, 3, 15, 20, 0, 0, 0, time.UTC),
		AmountTotal: 3000,
		Currency:    "rsd",
		Customer:    Contact{Email: "Buyer@Example.com ", Name: "Ana"},
		LineItems: []LineItem{
			{Quantity: 2, Price: Price{ID: "price_1", UnitAmount: 1500, Currency: "rsd", ProductID: "prod_X"}},
		},
	}
}

func TestSessionValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(s *Session)
		wantErr  error
		wantLine int
	}{
		{"valid", func(s *Session) {}, nil, 0},
		{"no line items is valid", func(s *Session) { s.LineItems = nil }, nil, 0},
		{"missing id", func(s *Session) { s.ID = "" }, ErrMissingSessionID, 0},
		{"open session", func(s *Session) { s.Status = "open" }, ErrNotComplete, 0},
		{"zero created", func(s *Session) { s.Created = time.Time{} }, ErrInvalidCreated, 0},
		{"empty currency", func(s *Session) { s.Currency = "" }, ErrInvalidCurrency, 0},
		{"empty currency without line items", func(s *Session) { s.Currency = ""; s.LineItems = nil }, nil, 0},
		{"uppercase currency", func(s *Session) { s.Currency = "RSD" }, ErrInvalidCurrency, 0},
		{"negative quantity", func(s *Session) { s.LineItems[0].Quantity = -1 }, ErrNegativeQuantity, 1},
		{"missing price", func(s *Session) { s.LineItems[0].Price = Price{} }, ErrMissingPrice, 1},
		{"negative amount", func(s *Session) { s.LineItems[0].Price.UnitAmount = -5 }, ErrNegativeAmount, 1},
		{"missing product", func(s *Session) { s.LineItems[0].Price.ProductID = "" }, ErrMissingProduct, 1},
		{"missing price currency", func(s *Session) { s.LineItems[0].Price.Currency = "" }, ErrInvalidCurrency, 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := validSession()
			tt.mutate(&s)

			err := s.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Validate() error type = %T, want *ValidationError", err)
			}
			if vErr.LineItem != tt.wantLine {
				t.Errorf("LineItem = %d, want %d", vErr.LineItem, tt.wantLine)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	err := &ValidationError{SessionID: "cs_1", LineItem: 2, Err: ErrMissingProduct}
	want := "invalid checkout session cs_1 line item 2: price has no product"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestQuantityFor(t *testing.T) {
	t.Parallel()

	s := validSession()
	s.LineItems = append(s.LineItems,
		LineItem{Quantity: 3, Price: Price{ID: "price_2", Currency: "rsd", ProductID: "prod_Y"}},
		LineItem{Quantity: 1, Price: Price{ID: "price_3", Currency: "rsd", ProductID: "prod_X"}},
	)

	if got := s.QuantityFor("prod_X"); got != 3 {
		t.Errorf("QuantityFor(prod_X) = %d, want 3", got)
	}
	if got := s.QuantityFor("prod_Y"); got != 3 {
		t.Errorf("QuantityFor(prod_Y) = %d, want 3", got)
	}
	if got := s.QuantityFor("prod_Z"); got != 0 {
		t.Errorf("QuantityFor(prod_Z) = %d, want 0", got)
	}
}

func TestNormalizedEmail(t *testing.T) {
	t.Parallel()

	c := Contact{Email: "  Buyer@Example.COM\t"}
	if got := c.NormalizedEmail(); got != "buyer@example.com" {
		t.Errorf("NormalizedEmail() = %q", got)
	}
	if got := (Contact{}).NormalizedEmail(); got != "" {
		t.Errorf("NormalizedEmail() of empty = %q", got)
	}
}

func TestLineItemAmount(t *testing.T) {
	t.Parallel()

	li := LineItem{Quantity: 2, Price: Price{UnitAmount: 1500}}
	if got := li.Amount(); got != 3000 {
		t.Errorf("Amount() = %d, want 3000", got)
	}
}
