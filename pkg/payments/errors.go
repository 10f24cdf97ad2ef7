package payments

import (
	"errors"

	"github.com/stripe/stripe-go/v80"
)

// ErrEmptyProductID is returned when a product lookup gets an empty id.
var ErrEmptyProductID = errors.New("product id must not be empty")

// APIError wraps a failed provider call with the provider's user-facing
// message.
type APIError struct {
	Op      string // Operation, e.g. "list checkout sessions"
	Message string // Provider message shown to the operator
	Err     error  // Underlying SDK error
}

func (e *APIError) Error() string {
	return "Stripe API error: " + e.Op + ": " + e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// wrapAPIError converts an SDK error into *APIError.
func wrapAPIError(op string, err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		msg = stripeErr.Msg
	}

	return &APIError{Op: op, Message: msg, Err: err}
}
