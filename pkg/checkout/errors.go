package checkout

import (
	"errors"
	"strconv"
)

// Common errors returned by session validation.
var (
	// ErrMissingSessionID is returned when a session has no identifier.
	ErrMissingSessionID = errors.New("missing session id")

	// ErrNotComplete is returned for sessions whose status is not complete.
	ErrNotComplete = errors.New("session is not complete")

	// ErrInvalidCreated is returned when the creation timestamp is zero.
	ErrInvalidCreated = errors.New("invalid creation timestamp")

	// ErrInvalidCurrency is returned when a currency code is empty or not lowercase.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrNegativeQuantity is returned when a line item quantity is negative.
	ErrNegativeQuantity = errors.New("negative line item quantity")

	// ErrMissingPrice is returned when a line item has no price.
	ErrMissingPrice = errors.New("line item has no price")

	// ErrNegativeAmount is returned when a unit amount is negative.
	ErrNegativeAmount = errors.New("negative unit amount")

	// ErrMissingProduct is returned when a price references no product.
	ErrMissingProduct = errors.New("price has no product")
)

// ValidationError provides context about a session that failed validation.
type ValidationError struct {
	SessionID string // Session being validated
	LineItem  int    // 1-indexed line item, 0 for session-level problems
	Err       error  // Underlying error
}

func (e *ValidationError) Error() string {
	msg := "invalid checkout session"
	if e.SessionID != "" {
		msg += " " + e.SessionID
	}
	if e.LineItem > 0 {
		msg += " line item " + strconv.Itoa(e.LineItem)
	}
	return msg + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
