package resolver

import "errors"

var (
	// ErrEmptyQuery is returned when the query is blank.
	ErrEmptyQuery = errors.New("show description must not be empty")

	// ErrNoCandidates is returned when there are no products to choose from.
	ErrNoCandidates = errors.New("no active products found")

	// ErrEmptyReply is returned when the model answers without text.
	ErrEmptyReply = errors.New("language model returned no text")
)
