package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/0xmhha/boxoffice/pkg/config"
	"github.com/0xmhha/boxoffice/pkg/logger"
	"github.com/0xmhha/boxoffice/pkg/payments"
	"github.com/0xmhha/boxoffice/pkg/rates"
	"github.com/0xmhha/boxoffice/pkg/resolver"
	"golang.org/x/term"
)

// stripeClient is everything the commands need from the payments provider.
type stripeClient interface {
	payments.SessionSource
	payments.Catalog
	payments.Creator
}

// app carries the dependencies shared by all commands.
type app struct {
	cfg *config.Config
	log logger.Logger

	// out receives operator-facing output.
	out io.Writer

	now   func() time.Time
	width func() int

	stripe    stripeClient
	completer resolver.Completer
	rates     func(ctx context.Context) (rates.Converter, error)
}

// requirements lists the credentials a command needs.
type requirements struct {
	stripe    bool
	anthropic bool
}

// newApp loads configuration and builds the clients a command needs.
// Missing credentials are reported before any client is created.
func newApp(configPath string, req requirements) (*app, error) {
	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if req.stripe {
		if err := cfg.RequireStripe(); err != nil {
			return nil, err
		}
	}
	if req.anthropic {
		if err := cfg.RequireAnthropic(); err != nil {
			return nil, err
		}
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	a := &app{
		cfg:   cfg,
		log:   log,
		out:   os.Stdout,
		now:   time.Now,
		width: stdoutWidth,
		rates: func(ctx context.Context) (rates.Converter, error) {
			return rates.Fetch(ctx, rates.Config{
				BaseURL: cfg.Rates.BaseURL,
				Base:    cfg.Rates.BaseCurrency,
				Timeout: cfg.Rates.Timeout,
			})
		},
	}

	if req.stripe {
		a.stripe = payments.New(payments.Config{APIKey: cfg.Stripe.APIKey}, log)
	}
	if req.anthropic {
		a.completer = resolver.NewAnthropic(resolver.AnthropicConfig{
			APIKey:    cfg.Anthropic.APIKey,
			Model:     cfg.Anthropic.Model,
			MaxTokens: cfg.Anthropic.MaxTokens,
		})
	}

	return a, nil
}

// printf writes operator-facing output.
func (a *app) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

// stdoutWidth returns the terminal width, or 0 when stdout is not a
// terminal.
func stdoutWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}

	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}

	return width
}
