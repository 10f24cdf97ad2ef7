// Package resolver matches a free-text show description to a product id
// with the help of a language model.
//
// The model is given today's date, the candidate products and the query,
// and must answer with a single JSON object. Exactly three outcomes are
// recognized: a match on one product id, an ambiguous answer with an
// explanation, and no match. Anything the model says outside that contract
// is treated as no match.
package resolver

import "context"

// Kind is the outcome of a resolution.
type Kind int

const (
	// NoMatch means no product fits the query.
	NoMatch Kind = iota

	// Matched means exactly one product fits; Outcome.ProductID is set.
	Matched

	// Ambiguous means several products could fit; Outcome.Explanation
	// describes them.
	Ambiguous
)

func (k Kind) String() string {
	switch k {
	case Matched:
		return "matched"
	case Ambiguous:
		return "ambiguous"
	default:
		return "nomatch"
	}
}

// Outcome is the result of Resolve.
type Outcome struct {
	Kind        Kind
	ProductID   string
	Explanation string
	Candidates  []Candidate
}

// Candidate is a product as presented to the model.
type Candidate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Completer sends a single prompt to a language model and returns its
// text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// reply is the JSON object the model is asked to return.
type reply struct {
	Result      string      `json:"result"`
	ProductID   string      `json:"product_id"`
	Explanation string      `json:"explanation"`
	Candidates  []Candidate `json:"candidates"`
}

// Reply result values.
const (
	resultMatch   = "match"
	resultUnclear = "unclear"
	resultNoMatch = "nomatch"
)
