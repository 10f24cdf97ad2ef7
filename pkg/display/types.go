// Package display provides output formatting for revenue reports, product
// listings and customer exports.
//
// Revenue reports support multiple output formats (table, JSON, simple
// text). Product listings are always JSON and customer exports are always
// CSV.
package display

import (
	"io"
	"time"

	"github.com/0xmhha/boxoffice/pkg/aggregator"
)

// Format represents an output format.
type Format string

const (
	// FormatTable displays the report with an aligned per-show table.
	FormatTable Format = "table"

	// FormatJSON displays the report as JSON.
	FormatJSON Format = "json"

	// FormatSimple displays the report as indented text lines.
	FormatSimple Format = "simple"
)

// Formats lists the accepted revenue formats.
var Formats = []Format{FormatTable, FormatSimple, FormatJSON}

// Formatter formats and displays revenue reports.
type Formatter interface {
	// FormatRevenue writes the report for a period.
	//
	// Parameters:
	//   - w: Output writer
	//   - report: Period and aggregated totals
	//
	// Returns error if writing fails.
	FormatRevenue(w io.Writer, report Report) error
}

// Report is a revenue summary over a closed date range.
type Report struct {
	// From and To are the first and last day of the period (UTC).
	From time.Time
	To   time.Time

	Summary aggregator.Summary
}

// Config contains formatter configuration.
type Config struct {
	// Format specifies the output format.
	// Default: FormatTable.
	Format Format

	// Compact enables compact output (less whitespace).
	// Default: false.
	Compact bool

	// MaxWidth limits table lines to this many columns by shortening show
	// names. Zero disables the limit.
	MaxWidth int
}
