// Package app provides the application context and dependency management
// for the crosscheck CLI. It follows idiomatic Go patterns for CLI applications
// by centralizing configuration, dependency injection, and lifecycle management.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/revenueops/crosscheck/pkg/commission"
	"github.com/revenueops/crosscheck/pkg/errors"
)

// App represents the crosscheck application with all its dependencies.
// It provides a centralized place for configuration, logging, and the
// commission plan book, following the dependency injection pattern.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Commission plan book (lazy-initialized, singleton)
	mu   sync.RWMutex
	book *commission.Book
}

// New creates a new App instance with the given version information.
// The app is initialized with default configuration that can be
// customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	// Load configuration
	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapConfig("app", err)
	}
	app.config = config

	// Initialize logger
	logger := NewLogger(config)
	app.logger = &logger

	// Apply any custom options
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Indicators returns the configured central processing indicators.
// An empty slice means the reconciliation defaults apply.
func (a *App) Indicators() []string {
	return a.config.Indicators
}

// Book returns the commission plan book, creating it lazily if needed.
// The book comes from the configured plans file when one is set and from
// the built-in plans otherwise. This is thread-safe and ensures only one
// instance is created.
func (a *App) Book() (*commission.Book, error) {
	a.mu.RLock()
	if a.book != nil {
		book := a.book
		a.mu.RUnlock()
		return book, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.book != nil {
		return a.book, nil
	}

	book, err := a.loadBook()
	if err != nil {
		return nil, err
	}

	a.book = book
	return book, nil
}

// loadBook builds the plan book from the app configuration.
func (a *App) loadBook() (*commission.Book, error) {
	if a.config.PlansFile != "" {
		return commission.LoadFile(a.config.PlansFile)
	}
	return commission.DefaultBook(), nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithBook sets a custom plan book (useful for testing).
func WithBook(book *commission.Book) Option {
	return func(a *App) error {
		a.book = book
		return nil
	}
}
