package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/0xmhha/boxoffice/pkg/checkout"
	"github.com/0xmhha/boxoffice/pkg/logger"
	"github.com/samber/lo"
)

// Resolver asks a Completer which product a description refers to.
type Resolver struct {
	completer Completer
	logger    logger.Logger
}

// New creates a resolver.
func New(completer Completer, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.Noop()
	}
	return &Resolver{completer: completer, logger: log}
}

// Resolve matches query against products as of the given day.
//
// Only transport failures are returned as errors; an unusable reply is
// NoMatch. Callers must treat Ambiguous and NoMatch as final.
func (r *Resolver) Resolve(ctx context.Context, query string, products []checkout.Product, asOf time.Time) (Outcome, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Outcome{}, ErrEmptyQuery
	}
	if len(products) == 0 {
		return Outcome{}, ErrNoCandidates
	}

	candidates := lo.Map(products, func(p checkout.Product, _ int) Candidate {
		return Candidate{ID: p.ID, Name: p.Name}
	})

	prompt, err := buildPrompt(query, candidates, asOf)
	if err != nil {
		return Outcome{}, err
	}

	text, err := r.completer.Complete(ctx, prompt)
	if err != nil {
		return Outcome{}, fmt.Errorf("language model request failed: %w", err)
	}

	outcome := parseReply(text)
	r.logger.Debug("show resolved",
		"outcome", outcome.Kind.String(),
		"product_id", outcome.ProductID,
		"candidates", len(candidates),
	)

	return outcome, nil
}

// buildPrompt renders the single user message sent to the model.
func buildPrompt(query string, candidates []Candidate, asOf time.Time) (string, error) {
	products, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode products: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Today is %s.\n\n", asOf.Format("2006-01-02"))
	fmt.Fprintf(&b, "Available products (shows):\n%s\n\n", products)
	fmt.Fprintf(&b, "The user wants to export customers for: %q\n\n", query)
	b.WriteString("Answer with a single JSON object and nothing else.\n")
	fmt.Fprintf(&b, "If exactly one product clearly matches: {\"result\":%q,\"product_id\":\"prod_...\"}\n", resultMatch)
	fmt.Fprintf(&b, "If several products could match: {\"result\":%q,\"explanation\":\"...\",\"candidates\":[{\"id\":\"prod_...\",\"name\":\"...\"}]}\n", resultUnclear)
	fmt.Fprintf(&b, "If nothing matches: {\"result\":%q}\n", resultNoMatch)

	return b.String(), nil
}

// parseReply maps the model's text onto an Outcome. The text may be
// wrapped in a code fence.
func parseReply(text string) Outcome {
	body := strings.TrimSpace(text)
	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end < start {
		return Outcome{Kind: NoMatch}
	}

	var rep reply
	if err := json.Unmarshal([]byte(body[start:end+1]), &rep); err != nil {
		return Outcome{Kind: NoMatch}
	}

	switch strings.ToLower(strings.TrimSpace(rep.Result)) {
	case resultMatch:
		id := strings.TrimSpace(rep.ProductID)
		if !strings.HasPrefix(id, checkout.ProductIDPrefix) {
			return Outcome{Kind: NoMatch}
		}
		return Outcome{Kind: Matched, ProductID: id}

	case resultUnclear:
		return Outcome{
			Kind:        Ambiguous,
			Explanation: explain(rep),
			Candidates:  rep.Candidates,
		}

	default:
		return Outcome{Kind: NoMatch}
	}
}

// explain renders an ambiguous reply for the operator.
func explain(rep reply) string {
	lines := make([]string, 0, len(rep.Candidates)+1)
	if e := strings.TrimSpace(rep.Explanation); e != "" {
		lines = append(lines, e)
	}
	for _, c := range rep.Candidates {
		lines = append(lines, fmt.Sprintf("  - %s (%s)", c.Name, c.ID))
	}
	return strings.Join(lines, "\n")
}
