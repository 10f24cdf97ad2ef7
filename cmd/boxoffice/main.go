// Package main provides the boxoffice CLI application.
//
// Boxoffice is a set of operator commands for a ticketing business selling
// through Stripe Checkout: it creates shows, lists them, exports ticket
// buyers and summarizes revenue.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/0xmhha/boxoffice/pkg/display"
	"github.com/shopspring/decimal"
)

// version is set during build time.
var version = "dev"

// dateLayout is the input format of -from and -to.
const dateLayout = "2006-01-02"

var (
	errInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	errInvalidPrice    = errors.New("price must be a positive amount")
	errInvalidCurrency = errors.New("currency must be a three-letter code")
	errInvalidMetadata = errors.New("metadata must be a JSON object of string values")
)

type command interface {
	Execute(ctx context.Context, a *app) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the main application logic.
func run(ctx context.Context, args []string) error {
	// Define global flags.
	fs := flag.NewFlagSet("boxoffice", flag.ContinueOnError)
	fs.Usage = func() { _ = showUsage() }
	configPath := fs.String("config", "", "path to configuration file")
	showVersion := fs.Bool("version", false, "show version information")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *showVersion {
		fmt.Printf("boxoffice %s\n", version)
		return nil
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return showUsage()
	}

	name, cmdArgs := rest[0], rest[1:]

	var (
		cmd command
		req requirements
		err error
	)

	switch name {
	case "create-show":
		cmd, err = parseCreateShowArgs(cmdArgs)
		req = requirements{stripe: true}
	case "products":
		cmd, err = parseProductsArgs(cmdArgs)
		req = requirements{stripe: true}
	case "export":
		cmd, err = parseExportArgs(cmdArgs)
		req = requirements{stripe: true}
	case "find":
		cmd, err = parseFindArgs(cmdArgs)
		req = requirements{stripe: true, anthropic: true}
	case "revenue":
		cmd, err = parseRevenueArgs(cmdArgs)
		req = requirements{stripe: true}
	case "config":
		return (&configCommand{configPath: *configPath, out: os.Stdout}).Execute(cmdArgs)
	case "help":
		return showUsage()
	default:
		return fmt.Errorf("unknown command: %s", name)
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	a, err := newApp(*configPath, req)
	if err != nil {
		return err
	}

	return cmd.Execute(ctx, a)
}

// parseCreateShowArgs parses create-show flags. Every value is validated
// here so that malformed input never reaches the API.
func parseCreateShowArgs(args []string) (*createShowCommand, error) {
	fs := flag.NewFlagSet("create-show", flag.ContinueOnError)
	name := fs.String("name", "", "product name (required)")
	price := fs.String("price", "", "ticket price in whole units, e.g. 1500 or 19.99 (required)")
	currency := fs.String("currency", "", "three-letter currency code (required)")
	description := fs.String("description", "", "product description")
	metadata := fs.String("metadata", "", `metadata as a JSON object, e.g. '{"city":"Belgrade"}'`)
	var images stringSlice
	fs.Var(&images, "image", "image URL (repeatable)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if strings.TrimSpace(*name) == "" {
		return nil, errors.New("-name is required")
	}

	unitAmount, err := parsePrice(*price)
	if err != nil {
		return nil, err
	}

	code, err := parseCurrency(*currency)
	if err != nil {
		return nil, err
	}

	meta, err := parseMetadata(*metadata)
	if err != nil {
		return nil, err
	}

	return &createShowCommand{
		name:        strings.TrimSpace(*name),
		description: *description,
		images:      images,
		metadata:    meta,
		unitAmount:  unitAmount,
		currency:    code,
	}, nil
}

// parseProductsArgs parses products flags.
func parseProductsArgs(args []string) (*productsCommand, error) {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	compact := fs.Bool("compact", false, "single-line JSON")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &productsCommand{compact: *compact}, nil
}

// parseExportArgs parses export flags and its product id argument.
func parseExportArgs(args []string) (*exportCommand, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	outputDir := fs.String("output-dir", "", "directory for the CSV file (default from config)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() != 1 || strings.TrimSpace(fs.Arg(0)) == "" {
		return nil, errors.New("usage: boxoffice export [-output-dir DIR] <product_id>")
	}

	return &exportCommand{
		productID: strings.TrimSpace(fs.Arg(0)),
		outputDir: *outputDir,
	}, nil
}

// parseFindArgs parses find flags. Remaining arguments are joined into the
// description, so quoting is optional.
func parseFindArgs(args []string) (*findCommand, error) {
	fs := flag.NewFlagSet("find", flag.ContinueOnError)
	outputDir := fs.String("output-dir", "", "directory for the CSV file (default from config)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		return nil, errors.New(`usage: boxoffice find [-output-dir DIR] "<show description>"`)
	}

	return &findCommand{
		query:     query,
		outputDir: *outputDir,
	}, nil
}

// parseRevenueArgs parses revenue flags.
func parseRevenueArgs(args []string) (*revenueCommand, error) {
	fs := flag.NewFlagSet("revenue", flag.ContinueOnError)
	from := fs.String("from", "", "first day, YYYY-MM-DD (required)")
	to := fs.String("to", "", "last day, inclusive, YYYY-MM-DD (required)")
	format := fs.String("format", "table", "output format (table, json, simple)")
	compact := fs.Bool("compact", false, "compact output")
	noConvert := fs.Bool("no-convert", false, "do not fetch exchange rates; every sale must be in the base currency")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fromDate, err := parseDate("-from", *from)
	if err != nil {
		return nil, err
	}

	toDate, err := parseDate("-to", *to)
	if err != nil {
		return nil, err
	}

	if fromDate.After(toDate) {
		return nil, fmt.Errorf("-from %s is after -to %s", *from, *to)
	}

	f, err := display.ParseFormat(*format)
	if err != nil {
		return nil, err
	}

	return &revenueCommand{
		from:      fromDate,
		to:        toDate,
		format:    f,
		compact:   *compact,
		noConvert: *noConvert,
	}, nil
}

// parseDate parses a YYYY-MM-DD value as midnight UTC.
func parseDate(flagName, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%s is required", flagName)
	}

	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s %q: %w", flagName, value, errInvalidDate)
	}

	return t, nil
}

// parsePrice converts a whole-unit price to the smallest currency unit.
func parsePrice(value string) (int64, error) {
	if value == "" {
		return 0, errors.New("-price is required")
	}

	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("-price %q: %w", value, errInvalidPrice)
	}

	cents := d.Mul(decimal.NewFromInt(100)).RoundBank(0)
	if !cents.IsPositive() {
		return 0, fmt.Errorf("-price %q: %w", value, errInvalidPrice)
	}

	return cents.IntPart(), nil
}

// parseCurrency lowercases and checks a three-letter code.
func parseCurrency(value string) (string, error) {
	code := strings.ToLower(strings.TrimSpace(value))
	if code == "" {
		return "", errors.New("-currency is required")
	}

	if len(code) != 3 {
		return "", fmt.Errorf("-currency %q: %w", value, errInvalidCurrency)
	}
	for _, r := range code {
		if r < 'a' || r > 'z' {
			return "", fmt.Errorf("-currency %q: %w", value, errInvalidCurrency)
		}
	}

	return code, nil
}

// parseMetadata decodes a JSON object of strings. Empty input means no
// metadata.
func parseMetadata(value string) (map[string]string, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(value), &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidMetadata, err)
	}
	if meta == nil {
		return nil, errInvalidMetadata
	}

	return meta, nil
}

// stringSlice collects a repeatable flag.
type stringSlice []string

func (s *stringSlice) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSlice) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// showUsage displays usage information.
func showUsage() error {
	usage := `Boxoffice - ticket sales operations for Stripe Checkout

Usage:
  boxoffice [flags] <command> [command flags]

Commands:
  create-show   Create a product and its ticket price
  products      List active products as JSON
  export        Export the buyers of one product to CSV
  find          Find a show from a description and export its buyers
  revenue       Summarize revenue for a date range
  config        Configuration management (show, path, reset)
  help          Show this help message

Global Flags:
  -config       Path to configuration file
  -version      Show version information

Create-show Flags:
  -name         Product name (required)
  -price        Ticket price in whole units, e.g. 1500 or 19.99 (required)
  -currency     Three-letter currency code (required)
  -description  Product description
  -image        Image URL (repeatable)
  -metadata     JSON object of string values

Export and Find Flags:
  -output-dir   Directory for the CSV file (default: data)

Revenue Command Flags:
  -from         First day, YYYY-MM-DD (required)
  -to           Last day, inclusive, YYYY-MM-DD (required)
  -format       Output format (table, json, simple)
  -compact      Compact output
  -no-convert   Skip exchange rates; all sales must be in the base currency

Credentials:
  STRIPE_API_KEY and ANTHROPIC_API_KEY are read from the environment or
  from a .env file in the working directory.

Examples:
  # Create a show
  boxoffice create-show -name "Kidaš Irena - Belgrade" -price 1500 -currency rsd

  # List active products
  boxoffice products

  # Export buyers of a product
  boxoffice export prod_ABC123

  # Export buyers of a show described in plain words
  boxoffice find "show tomorrow in Belgrade"

  # Revenue for March, in EUR
  boxoffice revenue -from 2026-03-01 -to 2026-03-31

  # Revenue as JSON
  boxoffice revenue -from 2026-03-01 -to 2026-03-31 -format json

Version: %s
`

	fmt.Printf(usage, version)
	return nil
}
