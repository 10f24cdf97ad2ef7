package display

import (
	"encoding/json"
	"io"
)

// jsonFormatter formats output as JSON.
type jsonFormatter struct {
	config Config
}

type revenueJSON struct {
	From                  string     `json:"from"`
	To                    string     `json:"to"`
	Currency              string     `json:"currency"`
	GrossRevenue          int64      `json:"gross_revenue"`
	GrossRevenueFormatted string     `json:"gross_revenue_formatted"`
	Transactions          int        `json:"transactions"`
	Tickets               int64      `json:"tickets"`
	Shows                 []showJSON `json:"shows"`
}

type showJSON struct {
	ProductID        string `json:"product_id"`
	Name             string `json:"name"`
	Revenue          int64  `json:"revenue"`
	RevenueFormatted string `json:"revenue_formatted"`
	Tickets          int64  `json:"tickets"`
}

// FormatRevenue implements Formatter.FormatRevenue. Amounts are in the
// smallest unit of the report currency.
func (f *jsonFormatter) FormatRevenue(w io.Writer, report Report) error {
	sum := report.Summary

	out := revenueJSON{
		From:                  report.From.Format(dateLayout),
		To:                    report.To.Format(dateLayout),
		Currency:              sum.Currency,
		GrossRevenue:          sum.GrandTotal,
		GrossRevenueFormatted: FormatAmount(sum.GrandTotal, sum.Currency),
		Transactions:          sum.Transactions,
		Tickets:               sum.Tickets,
		Shows:                 make([]showJSON, 0, len(sum.Shows)),
	}
	for _, s := range sum.Shows {
		out.Shows = append(out.Shows, showJSON{
			ProductID:        s.ProductID,
			Name:             s.Name,
			Revenue:          s.Revenue,
			RevenueFormatted: FormatAmount(s.Revenue, sum.Currency),
			Tickets:          s.Tickets,
		})
	}

	return encodeJSON(w, out, f.config.Compact)
}

// encodeJSON writes v without HTML escaping, indented unless compact.
func encodeJSON(w io.Writer, v interface{}, compact bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if !compact {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(v)
}
