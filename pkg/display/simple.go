package display

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// simpleFormatter formats output as simple text.
type simpleFormatter struct {
	config Config
}

// FormatRevenue implements Formatter.FormatRevenue.
func (f *simpleFormatter) FormatRevenue(w io.Writer, report Report) error {
	sum := report.Summary

	if _, err := fmt.Fprintf(w, "Period: %s to %s\nGross revenue: %s\nTransactions: %d\n",
		report.From.Format(dateLayout),
		report.To.Format(dateLayout),
		FormatAmount(sum.GrandTotal, sum.Currency),
		sum.Transactions); err != nil {
		return err
	}

	if len(sum.Shows) == 0 {
		return nil
	}

	nameWidth := 0
	for _, s := range sum.Shows {
		if n := utf8.RuneCountInString(s.Name); n > nameWidth {
			nameWidth = n
		}
	}

	if !f.config.Compact {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "By show:"); err != nil {
		return err
	}

	for _, s := range sum.Shows {
		label := s.Name + strings.Repeat(" ", nameWidth-utf8.RuneCountInString(s.Name))
		if _, err := fmt.Fprintf(w, "  %s  %s (%d tickets)\n",
			label,
			FormatAmount(s.Revenue, sum.Currency),
			s.Tickets); err != nil {
			return err
		}
	}

	return nil
}
