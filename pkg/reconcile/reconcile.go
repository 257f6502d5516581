// Package reconcile implements the commission reconciliation engine.
//
// The engine consumes normalized deal and transaction records, assigns every
// transaction a category, pulls centrally-processed records out of the
// matching universe, runs a cascading six-phase matcher, validates the
// commission on every match, and returns an immutable Result carrying the
// matches, discrepancies, and run-level summaries. It owns no files, sockets,
// or clocks: the same input always produces bit-identical output.
package reconcile

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/revenueops/crosscheck/pkg/commission"
	"github.com/revenueops/crosscheck/pkg/constants"
	"github.com/revenueops/crosscheck/pkg/logging"
	"github.com/revenueops/crosscheck/pkg/records"
)

// Engine reconciles closed deals against the commission transactions that
// should have paid them.
type Engine struct {
	book       *commission.Book
	indicators *Indicators
	epsilon    float64
	tolerance  float64
	log        zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// New creates an Engine. Defaults: the shipped plan book, the default central
// processing indicators, and the standard amount tolerances.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		book:       commission.DefaultBook(),
		indicators: NewIndicators(),
		epsilon:    constants.AmountEpsilon,
		tolerance:  constants.AmountTolerance,
		log:        *logging.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// WithBook sets the commission plan book used to price missing deals and
// project kicker multipliers.
func WithBook(book *commission.Book) Option {
	return func(e *Engine) error {
		if book == nil {
			return fmt.Errorf("plan book cannot be nil")
		}
		e.book = book
		return nil
	}
}

// WithIndicators replaces the central processing indicator markers.
func WithIndicators(markers ...string) Option {
	return func(e *Engine) error {
		ind := NewIndicators(markers...)
		if len(ind.Markers()) == 0 {
			return fmt.Errorf("at least one indicator marker is required")
		}
		e.indicators = ind
		return nil
	}
}

// WithAmountEpsilon sets the absolute amount difference below which actual
// and expected commissions count as equal.
func WithAmountEpsilon(epsilon float64) Option {
	return func(e *Engine) error {
		if epsilon < 0 {
			return fmt.Errorf("amount epsilon cannot be negative")
		}
		e.epsilon = epsilon
		return nil
	}
}

// WithAmountTolerance sets the relative tolerance used when comparing
// transaction and deal amounts during company matching.
func WithAmountTolerance(tolerance float64) Option {
	return func(e *Engine) error {
		if tolerance < 0 || tolerance >= 1 {
			return fmt.Errorf("amount tolerance must be in [0, 1)")
		}
		e.tolerance = tolerance
		return nil
	}
}

// WithLogger sets the logger the engine writes skip and progress events to.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) error {
		e.log = log
		return nil
	}
}

// Run reconciles one input snapshot and returns its result. Transactions are
// annotated with their category in place; deals are never mutated. Records
// with neither an identifier nor a name cannot be matched and are skipped
// with a logged warning.
func (e *Engine) Run(deals []records.Deal, transactions []records.Transaction) (*Result, error) {
	r := e.newRun(deals, transactions)

	r.phaseCentral()
	r.phaseIdentifier()
	r.phaseNameDate()
	r.phaseCompanyDate()
	r.phaseWithholding()
	r.phaseSplit()
	r.phaseForecast()

	return r.finish(), nil
}
