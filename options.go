package crosscheck

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/revenueops/crosscheck/pkg/commission"
	"github.com/revenueops/crosscheck/pkg/logging"
	"github.com/revenueops/crosscheck/pkg/reconcile"
	"github.com/revenueops/crosscheck/pkg/records"
)

// config holds the input sources and engine settings gathered from options.
// Unset engine settings stay nil so the engine's own defaults apply.
type config struct {
	dealsFile        string
	transactionFiles []string
	transactionsDir  string

	deals        []records.Deal
	transactions []records.Transaction

	book       *commission.Book
	indicators []string
	epsilon    *float64
	tolerance  *float64
	logger     *zerolog.Logger
}

// defaults returns a config with no inputs and engine defaults untouched.
func defaults() *config {
	return &config{}
}

// apply runs each option against the config.
func (c *config) apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return fmt.Errorf("applying options: %w", err)
		}
	}
	return nil
}

// log returns the configured logger, or the package default.
func (c *config) log() *zerolog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return logging.Default()
}

// engineOptions translates the configured settings into engine options,
// leaving out anything unset.
func (c *config) engineOptions() []reconcile.Option {
	var opts []reconcile.Option
	if c.book != nil {
		opts = append(opts, reconcile.WithBook(c.book))
	}
	if len(c.indicators) > 0 {
		opts = append(opts, reconcile.WithIndicators(c.indicators...))
	}
	if c.epsilon != nil {
		opts = append(opts, reconcile.WithAmountEpsilon(*c.epsilon))
	}
	if c.tolerance != nil {
		opts = append(opts, reconcile.WithAmountTolerance(*c.tolerance))
	}
	if c.logger != nil {
		opts = append(opts, reconcile.WithLogger(*c.logger))
	}
	return opts
}

// Option configures a Crosscheck instance during creation.
type Option func(*config) error

// WithDealsFile reads deals from a CRM export at the given path.
func WithDealsFile(path string) Option {
	return func(c *config) error {
		c.dealsFile = path
		return nil
	}
}

// WithTransactionFiles reads transactions from the given statement exports.
// Each file's category is derived from its name.
func WithTransactionFiles(paths ...string) Option {
	return func(c *config) error {
		c.transactionFiles = append(c.transactionFiles, paths...)
		return nil
	}
}

// WithTransactionsDir reads every csv file in dir as a statement export.
func WithTransactionsDir(dir string) Option {
	return func(c *config) error {
		c.transactionsDir = dir
		return nil
	}
}

// WithDeals adds deal records directly, alongside any read from files.
func WithDeals(deals ...records.Deal) Option {
	return func(c *config) error {
		c.deals = append(c.deals, deals...)
		return nil
	}
}

// WithTransactions adds transaction records directly, alongside any read
// from files.
func WithTransactions(transactions ...records.Transaction) Option {
	return func(c *config) error {
		c.transactions = append(c.transactions, transactions...)
		return nil
	}
}

// WithBook sets the commission plan book used to price deals.
func WithBook(book *commission.Book) Option {
	return func(c *config) error {
		if book == nil {
			return fmt.Errorf("plan book cannot be nil")
		}
		c.book = book
		return nil
	}
}

// WithIndicators sets the markers that identify central rollup deals.
func WithIndicators(markers ...string) Option {
	return func(c *config) error {
		if len(markers) == 0 {
			return fmt.Errorf("at least one indicator marker is required")
		}
		c.indicators = markers
		return nil
	}
}

// WithAmountEpsilon sets the absolute tolerance for amount comparisons.
func WithAmountEpsilon(epsilon float64) Option {
	return func(c *config) error {
		if epsilon < 0 {
			return fmt.Errorf("amount epsilon cannot be negative")
		}
		c.epsilon = &epsilon
		return nil
	}
}

// WithAmountTolerance sets the relative tolerance for amount comparisons.
func WithAmountTolerance(tolerance float64) Option {
	return func(c *config) error {
		if tolerance < 0 || tolerance >= 1 {
			return fmt.Errorf("amount tolerance must be in [0, 1)")
		}
		c.tolerance = &tolerance
		return nil
	}
}

// WithLogger sets the logger used for ingestion and engine progress.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = &log
		return nil
	}
}
