package display

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// minNameWidth is the narrowest the show column is shrunk to.
const minNameWidth = 12

// tableFormatter formats output as tables.
type tableFormatter struct {
	config Config
}

// FormatRevenue implements Formatter.FormatRevenue.
func (f *tableFormatter) FormatRevenue(w io.Writer, report Report) error {
	sum := report.Summary

	if err := writeHeader(w, "Revenue Summary", f.config.Compact); err != nil {
		return err
	}

	rows := [][]string{
		{"Period", report.From.Format(dateLayout) + " to " + report.To.Format(dateLayout)},
		{"Gross Revenue", FormatAmount(sum.GrandTotal, sum.Currency)},
		{"Transactions", formatNumber(int64(sum.Transactions))},
		{"Tickets", formatNumber(sum.Tickets)},
	}
	if err := f.writeTable(w, table{header: []string{"Metric", "Value"}, rows: rows}); err != nil {
		return err
	}

	if err := writeHeader(w, "Revenue by Show", f.config.Compact); err != nil {
		return err
	}

	shows := make([][]string, len(sum.Shows))
	for i, s := range sum.Shows {
		shows[i] = []string{
			s.Name,
			FormatAmount(s.Revenue, sum.Currency),
			formatNumber(s.Tickets),
		}
	}

	return f.writeTable(w, table{
		header: []string{"Show", "Revenue", "Tickets"},
		rows:   shows,
		right:  []bool{false, true, true},
		fit:    true,
	})
}

// table describes one table to write.
type table struct {
	header []string
	rows   [][]string

	// right flags right-aligned columns.
	right []bool

	// fit shortens the first column to respect MaxWidth.
	fit bool
}

// writeTable writes a formatted table.
func (f *tableFormatter) writeTable(w io.Writer, t table) error {
	header, rows, right := t.header, t.rows, t.right

	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}

	// Calculate column widths.
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = utf8.RuneCountInString(h)
	}

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	if t.fit {
		f.fitWidth(widths)
	}

	// Write header.
	if err := f.writeRow(w, header, widths, right); err != nil {
		return err
	}

	// Write separator.
	if !f.config.Compact {
		separator := make([]string, len(header))
		for i, width := range widths {
			separator[i] = strings.Repeat("-", width)
		}
		if err := f.writeRow(w, separator, widths, right); err != nil {
			return err
		}
	}

	// Write rows.
	for _, row := range rows {
		if err := f.writeRow(w, row, widths, right); err != nil {
			return err
		}
	}

	// Add spacing.
	if !f.config.Compact {
		_, err := fmt.Fprintln(w)
		return err
	}

	return nil
}

// fitWidth narrows the first column so a full line fits in MaxWidth.
func (f *tableFormatter) fitWidth(widths []int) {
	if f.config.MaxWidth <= 0 || len(widths) == 0 {
		return
	}

	total := len(widths[1:]) * len(f.gap())
	for _, width := range widths {
		total += width
	}

	excess := total - f.config.MaxWidth
	if excess <= 0 {
		return
	}

	narrowed := widths[0] - excess
	if narrowed < minNameWidth {
		narrowed = minNameWidth
	}
	if narrowed < widths[0] {
		widths[0] = narrowed
	}
}

func (f *tableFormatter) gap() string {
	if f.config.Compact {
		return " "
	}
	return "  "
}

// writeRow writes a single table row.
func (f *tableFormatter) writeRow(w io.Writer, cells []string, widths []int, right []bool) error {
	var b strings.Builder

	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		if i > 0 {
			b.WriteString(f.gap())
		}

		cell = truncate(cell, widths[i])
		pad := strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell))

		if i < len(right) && right[i] {
			b.WriteString(pad)
			b.WriteString(cell)
		} else if i == len(cells)-1 {
			b.WriteString(cell)
		} else {
			b.WriteString(cell)
			b.WriteString(pad)
		}
	}

	_, err := fmt.Fprintln(w, b.String())
	return err
}
