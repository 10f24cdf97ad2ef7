package display

import (
	"io"

	"github.com/0xmhha/boxoffice/pkg/checkout"
)

// ProductEntry is one element of the product listing. Price fields are
// null when the product has no active price.
type ProductEntry struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Images        []string          `json:"images"`
	Metadata      map[string]string `json:"metadata"`
	PriceAmount   *int64            `json:"price_amount"`
	PriceCurrency *string           `json:"price_currency"`
}

// NewProductEntry builds a listing entry from a product and its first
// active price, which may be nil.
func NewProductEntry(p checkout.Product, price *checkout.Price) ProductEntry {
	entry := ProductEntry{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Images:      p.Images,
		Metadata:    p.Metadata,
	}
	if entry.Images == nil {
		entry.Images = []string{}
	}
	if entry.Metadata == nil {
		entry.Metadata = map[string]string{}
	}

	if price != nil {
		amount := price.UnitAmount
		currency := price.Currency
		entry.PriceAmount = &amount
		entry.PriceCurrency = &currency
	}

	return entry
}

// WriteProducts writes entries as a JSON array. Non-ASCII text is written
// as is.
func WriteProducts(w io.Writer, entries []ProductEntry, compact bool) error {
	if entries == nil {
		entries = []ProductEntry{}
	}
	return encodeJSON(w, entries, compact)
}
