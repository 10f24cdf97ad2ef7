package payments

import (
	"strings"
	"time"

	"github.com/0xmhha/boxoffice/pkg/checkout"
	"github.com/stripe/stripe-go/v80"
)

// toSession converts and validates a listed session.
func toSession(s *stripe.CheckoutSession) (checkout.Session, error) {
	if s == nil {
		return checkout.Session{}, &checkout.ValidationError{Err: checkout.ErrMissingSessionID}
	}

	out := checkout.Session{
		ID:          s.ID,
		Status:      string(s.Status),
		AmountTotal: s.AmountTotal,
		Currency:    strings.ToLower(string(s.Currency)),
	}
	if s.Created > 0 {
		out.Created = time.Unix(s.Created, 0).UTC()
	}

	if d := s.CustomerDetails; d != nil {
		out.Customer = checkout.Contact{
			Email: d.Email,
			Name:  strings.TrimSpace(d.Name),
			Phone: strings.TrimSpace(d.Phone),
		}
	}

	// Missing expansion yields no line items rather than an error.
	if s.LineItems != nil {
		out.LineItems = make([]checkout.LineItem, 0, len(s.LineItems.Data))
		for _, li := range s.LineItems.Data {
			if li == nil {
				continue
			}
			item := checkout.LineItem{Quantity: li.Quantity}
			if li.Price != nil {
				item.Price = toPrice(li.Price)
			}
			out.LineItems = append(out.LineItems, item)
		}
	}

	if err := out.Validate(); err != nil {
		return checkout.Session{}, err
	}

	return out, nil
}

// toPrice converts a price. The product is kept as an object only when
// the provider expanded it.
func toPrice(p *stripe.Price) checkout.Price {
	out := checkout.Price{
		ID:         p.ID,
		UnitAmount: p.UnitAmount,
		Currency:   strings.ToLower(string(p.Currency)),
	}
	if p.Product != nil {
		out.ProductID = p.Product.ID
		if p.Product.Name != "" {
			product := toProduct(p.Product)
			out.Product = &product
		}
	}
	return out
}

func toProduct(p *stripe.Product) checkout.Product {
	out := checkout.Product{
		ID:          p.ID,
		Name:        p.Name,
		Active:      p.Active,
		Description: p.Description,
		Images:      append([]string(nil), p.Images...),
		Metadata:    make(map[string]string, len(p.Metadata)),
	}
	for key, value := range p.Metadata {
		out.Metadata[key] = value
	}
	return out
}
