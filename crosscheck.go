// Package crosscheck reconciles CRM deal exports against the commission
// statements that should have paid them.
//
// The root package is the embedding surface: point it at export files or
// hand it records directly, then ask for the reconciliation result. The
// CLI under cmd/crosscheck is a thin layer over this same API.
//
// Example usage:
//
//	// Reconcile a deal export against a directory of statements
//	cc, err := crosscheck.New(
//	    crosscheck.WithDealsFile("deals.csv"),
//	    crosscheck.WithTransactionsDir("exports/"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := cc.Reconcile()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, d := range result.Discrepancies {
//	    fmt.Printf("%s: %s (%.2f)\n", d.Kind, d.DealName, d.Impact)
//	}
//
//	// Or hand records over directly and bring your own plan book
//	cc, err = crosscheck.New(
//	    crosscheck.WithDeals(deals...),
//	    crosscheck.WithTransactions(transactions...),
//	    crosscheck.WithBook(book),
//	)
package crosscheck

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/revenueops/crosscheck/internal/sources"
	"github.com/revenueops/crosscheck/internal/sources/hubspot"
	"github.com/revenueops/crosscheck/internal/sources/salescookie"
	"github.com/revenueops/crosscheck/pkg/reconcile"
	"github.com/revenueops/crosscheck/pkg/records"
)

// Compile-time interface check to ensure proper implementation.
var _ Crosscheck = (*crosscheck)(nil)

// Crosscheck reconciles one loaded input snapshot.
type Crosscheck interface {
	// Deals returns the loaded deal records.
	Deals() []records.Deal

	// Transactions returns the loaded transaction records. Categories are
	// assigned during Reconcile; before that they are empty.
	Transactions() []records.Transaction

	// Reconcile runs the engine over the loaded records. The result is
	// computed once and cached; repeated calls return the same Result.
	Reconcile() (*reconcile.Result, error)
}

// crosscheck is the internal implementation of the Crosscheck interface.
type crosscheck struct {
	engine *reconcile.Engine

	deals        []records.Deal
	transactions []records.Transaction

	mu     sync.Mutex
	result *reconcile.Result
}

// New creates a Crosscheck instance with the given options, reading any
// configured export files up front. File-level problems surface here as
// errors; row-level problems are logged and the affected rows skipped.
func New(opts ...Option) (Crosscheck, error) {
	config := defaults()
	if err := config.apply(opts...); err != nil {
		return nil, err
	}

	cc := &crosscheck{
		deals:        config.deals,
		transactions: config.transactions,
	}

	log := config.log()

	if config.dealsFile != "" {
		deals, ingest, err := hubspot.NewReader().ReadFile(config.dealsFile)
		if err != nil {
			return nil, err
		}
		logIngest(log, ingest)
		cc.deals = append(cc.deals, deals...)
	}

	reader := salescookie.NewReader()
	if config.transactionsDir != "" {
		transactions, ingests, err := reader.ReadDir(config.transactionsDir)
		if err != nil {
			return nil, err
		}
		for _, ingest := range ingests {
			logIngest(log, ingest)
		}
		cc.transactions = append(cc.transactions, transactions...)
	}
	for _, file := range config.transactionFiles {
		transactions, ingest, err := reader.ReadFile(file)
		if err != nil {
			return nil, err
		}
		logIngest(log, ingest)
		cc.transactions = append(cc.transactions, transactions...)
	}

	engine, err := reconcile.New(config.engineOptions()...)
	if err != nil {
		return nil, err
	}
	cc.engine = engine

	return cc, nil
}

// Deals returns the loaded deal records.
func (c *crosscheck) Deals() []records.Deal {
	deals := make([]records.Deal, len(c.deals))
	copy(deals, c.deals)
	return deals
}

// Transactions returns the loaded transaction records.
func (c *crosscheck) Transactions() []records.Transaction {
	transactions := make([]records.Transaction, len(c.transactions))
	copy(transactions, c.transactions)
	return transactions
}

// Reconcile runs the engine over the loaded records.
func (c *crosscheck) Reconcile() (*reconcile.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.result != nil {
		return c.result, nil
	}

	result, err := c.engine.Run(c.deals, c.transactions)
	if err != nil {
		return nil, err
	}
	c.result = result
	return result, nil
}

// logIngest surfaces one file ingestion report through the logger.
// Row-level warnings are real data problems, so they log at warn level.
func logIngest(log *zerolog.Logger, ingest *sources.Report) {
	if ingest == nil {
		return
	}
	log.Info().
		Str("file", ingest.File).
		Int("rows", ingest.Rows).
		Int("skipped", ingest.Skipped).
		Msg("Read export")
	for _, warning := range ingest.Warnings {
		log.Warn().Str("file", ingest.File).Msg(warning)
	}
}
