package reconcile

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/revenueops/crosscheck/pkg/commission"
	"github.com/revenueops/crosscheck/pkg/constants"
	"github.com/revenueops/crosscheck/pkg/records"
)

// run holds the working state of one reconciliation pass. It is created,
// mutated, and discarded inside Engine.Run; only the built Result survives.
type run struct {
	engine    *Engine
	registry  *Registry
	validator *validator

	allDeals        []*records.Deal        // every deal with an identity, input order
	allTransactions []*records.Transaction // every transaction with an identity, input order

	deals        []*records.Deal // the matching universe: non-central deals
	centralDeals []*records.Deal

	regular     []*records.Transaction
	withholding []*records.Transaction
	splits      []*records.Transaction
	forecasts   []*records.Transaction
	central     []centralRecord

	dealsByID      map[string]*records.Deal
	dealsByName    map[string][]*records.Deal
	dealsByCompany map[string][]*records.Deal

	claimed  map[*records.Deal]bool
	attached map[*records.Transaction]bool

	byCategory         map[records.TransactionCategory]int
	discrepancies      []Discrepancy
	centralSummary     CentralSummary
	withholdingSummary WithholdingSummary
	forecastSummary    ForecastSummary
	fingerprint        string
}

// centralRecord pairs a centrally-processed transaction with the indicator
// that flagged it.
type centralRecord struct {
	tx        *records.Transaction
	indicator string
}

// newRun categorizes the input and partitions it into the phase buckets.
// Records with neither identifier nor name are unmatchable and dropped here.
func (e *Engine) newRun(deals []records.Deal, transactions []records.Transaction) *run {
	r := &run{
		engine:         e,
		registry:       NewRegistry(),
		validator:      newValidator(e.book, e.epsilon),
		dealsByID:      make(map[string]*records.Deal),
		dealsByName:    make(map[string][]*records.Deal),
		dealsByCompany: make(map[string][]*records.Deal),
		claimed:        make(map[*records.Deal]bool),
		attached:       make(map[*records.Transaction]bool),
		byCategory:     make(map[records.TransactionCategory]int),
	}
	r.centralSummary.ByIndicator = make(map[string]IndicatorStats)

	for i := range deals {
		d := &deals[i]
		if !d.HasIdentity() {
			e.log.Warn().Int("row", i).Msg("skipping deal with no identifier and no name")
			continue
		}
		r.allDeals = append(r.allDeals, d)
		if e.indicators.IsCentrallyProcessed(d.Name) {
			r.centralDeals = append(r.centralDeals, d)
			continue
		}
		r.deals = append(r.deals, d)
		if d.ID != "" {
			r.dealsByID[d.ID] = d
		}
		if d.Name != "" {
			r.dealsByName[d.Name] = append(r.dealsByName[d.Name], d)
		}
		if key := NormalizeCompany(d.CompanyName); key != "" {
			r.dealsByCompany[key] = append(r.dealsByCompany[key], d)
		}
	}

	for i := range transactions {
		t := &transactions[i]
		if !t.HasIdentity() {
			e.log.Warn().Int("row", i).Str("source", t.SourceFile).
				Msg("skipping transaction with no identifier and no deal name")
			continue
		}
		t.Category = Categorize(t)
		r.allTransactions = append(r.allTransactions, t)
		r.byCategory[t.Category]++

		if indicator, ok := e.indicators.Match(t.DealName); ok {
			r.central = append(r.central, centralRecord{tx: t, indicator: indicator})
			continue
		}
		switch t.Category {
		case records.CategoryWithholding:
			r.withholding = append(r.withholding, t)
		case records.CategoryForecast:
			r.forecasts = append(r.forecasts, t)
		case records.CategorySplit:
			r.splits = append(r.splits, t)
		default:
			r.regular = append(r.regular, t)
		}
	}

	r.fingerprint = fingerprint(r.allDeals, r.allTransactions)
	return r
}

// dealKey is the registry claim key for a deal. Deals without identifiers
// are keyed by name so name-based matches still register ownership.
func dealKey(d *records.Deal) string {
	if d.ID != "" {
		return d.ID
	}
	return "name:" + d.Name
}

// syntheticCentralID builds the pseudo-deal identifier for a centrally
// processed transaction. Two records describing the same increase resolve to
// the same identifier and share one match.
func syntheticCentralID(indicator string, t *records.Transaction) string {
	key := t.ID
	if key == "" {
		key = strings.Join(strings.Fields(strings.ToLower(t.DealName)), " ")
	}
	return "central:" + indicator + ":" + key
}

// claim routes a deal claim through the registry, extending the existing
// match when the deal's key is already owned.
func (r *run) claim(d *records.Deal, strategy MatchStrategy, confidence float64, t *records.Transaction) *Match {
	m, created := r.registry.Claim(dealKey(d), strategy, confidence, t, d)
	if !created {
		m.Extend(t)
	}
	r.claimed[d] = true
	r.attached[t] = true
	return m
}

// phaseCentral resolves centrally-processed transactions into synthetic
// matches. No real deal counterpart is required or expected.
func (r *run) phaseCentral() {
	if len(r.central) > 0 || len(r.centralDeals) > 0 {
		r.engine.log.Debug().
			Int("transactions", len(r.central)).
			Int("deals", len(r.centralDeals)).
			Msg("central records excluded from matching")
	}
	for _, c := range r.central {
		id := syntheticCentralID(c.indicator, c.tx)
		m, created := r.registry.Claim(id, StrategyCentral, constants.ConfidenceIdentifier, c.tx, nil)
		if created {
			m.Central = true
			m.Indicator = c.indicator
		} else {
			m.Extend(c.tx)
		}
		r.attached[c.tx] = true

		r.centralSummary.Count++
		r.centralSummary.TotalCommission += c.tx.Commission
		stats := r.centralSummary.ByIndicator[c.indicator]
		stats.Count++
		stats.Commission += c.tx.Commission
		r.centralSummary.ByIndicator[c.indicator] = stats
	}
}

// phaseIdentifier pairs regular transactions with deals by exact identifier.
func (r *run) phaseIdentifier() {
	for _, t := range r.regular {
		if t.ID == "" {
			continue
		}
		d, ok := r.dealsByID[t.ID]
		if !ok {
			continue
		}
		r.claim(d, StrategyIdentifier, constants.ConfidenceIdentifier, t)
	}
}

// phaseNameDate pairs the remaining regular transactions with unclaimed deals
// by exact name and close dates within one day.
func (r *run) phaseNameDate() {
	for _, t := range r.regular {
		if r.attached[t] || t.DealName == "" {
			continue
		}
		for _, d := range r.dealsByName[t.DealName] {
			if r.claimed[d] || !withinDays(t.CloseDate, d.CloseDate, constants.NameDateWindowDays) {
				continue
			}
			r.claim(d, StrategyNameDate, constants.ConfidenceNameDate, t)
			break
		}
	}
}

// phaseCompanyDate pairs the remaining regular transactions with unclaimed
// deals by normalized company name and close dates within seven days. Every
// candidate in the bucket is scored; the highest confidence wins, ties go to
// the first deal in input order.
func (r *run) phaseCompanyDate() {
	for _, t := range r.regular {
		if r.attached[t] {
			continue
		}
		key := NormalizeCompany(t.CompanyName)
		if key == "" {
			continue
		}

		var best *records.Deal
		bestConfidence := 0.0
		for _, d := range r.dealsByCompany[key] {
			if r.claimed[d] || !withinDays(t.CloseDate, d.CloseDate, constants.CompanyDateWindowDays) {
				continue
			}
			confidence := constants.ConfidenceCompanyDate
			if amountsAgree(t.ACV, d.Amount, r.engine.tolerance) {
				confidence = constants.ConfidenceCompanyAmount
			}
			if confidence > bestConfidence {
				best, bestConfidence = d, confidence
			}
		}
		if best != nil {
			r.claim(best, StrategyCompanyDate, bestConfidence, t)
		}
	}
}

// phaseWithholding appends withholding transactions to the matches that own
// their deals and checks the paid/full ratio. A withholding with no owning
// match is reported, never silently dropped.
func (r *run) phaseWithholding() {
	for _, t := range r.withholding {
		r.withholdingSummary.PaidTotal += t.Paid
		r.withholdingSummary.WithheldTotal += t.Withheld
		r.withholdingSummary.FullTotal += t.FullCommission

		m := r.owningMatch(t)
		if m == nil {
			r.withholdingSummary.Unmatched = append(r.withholdingSummary.Unmatched, t)
			r.discrepancies = append(r.discrepancies, Discrepancy{
				Kind:     KindDataQuality,
				DealID:   t.ID,
				DealName: t.DealName,
				Actual:   t.Paid,
				Impact:   0,
				Severity: SeverityMedium,
				Detail:   "withholding transaction has no owning match",
			})
			continue
		}

		m.Extend(t)
		r.attached[t] = true
		r.withholdingSummary.MatchedCount++
		r.checkWithholdingRatio(t)
	}
}

// checkWithholdingRatio verifies that the paid amount is about half of the
// stated full commission. When no full commission is stated the paid amount
// is taken at face value.
func (r *run) checkWithholdingRatio(t *records.Transaction) {
	full := t.FullCommission
	if full == 0 {
		full = t.Paid * 2
	}
	if full == 0 {
		return
	}

	ratio := t.Paid / full
	if math.Abs(ratio-constants.WithholdingRatio) <= constants.WithholdingRatioTolerance {
		return
	}

	impact := math.Abs(t.Paid - full/2)
	r.discrepancies = append(r.discrepancies, Discrepancy{
		Kind:     KindWithholdingMismatch,
		DealID:   t.ID,
		DealName: t.DealName,
		Expected: full / 2,
		Actual:   t.Paid,
		Impact:   impact,
		Severity: impactSeverity(impact),
		Detail:   fmt.Sprintf("paid %.2f is %.0f%% of full commission %.2f, expected about 50%%", t.Paid, ratio*100, full),
	})
}

// phaseSplit resolves split transactions: append to the match that owns the
// deal, or direct-match a still-unclaimed deal and create a new match. A
// split arriving first for its deal must not leave the deal unmatched.
func (r *run) phaseSplit() {
	for _, t := range r.splits {
		if m := r.owningMatch(t); m != nil {
			m.Extend(t)
			r.attached[t] = true
			continue
		}
		r.directSplitMatch(t)
	}
}

// directSplitMatch claims a deal for a split transaction whose deal has no
// match yet, by identifier first, then by exact name and close date.
func (r *run) directSplitMatch(t *records.Transaction) {
	if t.ID != "" {
		if d, ok := r.dealsByID[t.ID]; ok && !r.claimed[d] {
			r.claim(d, StrategySplitIdentifier, constants.ConfidenceIdentifier, t)
			return
		}
	}
	if t.DealName == "" {
		return
	}
	for _, d := range r.dealsByName[t.DealName] {
		if r.claimed[d] || !withinDays(t.CloseDate, d.CloseDate, constants.NameDateWindowDays) {
			continue
		}
		r.claim(d, StrategySplitNameDate, constants.ConfidenceNameDate, t)
		return
	}
}

// owningMatch finds the match that already owns a transaction's deal, first
// by the transaction identifier, then by exact deal name.
func (r *run) owningMatch(t *records.Transaction) *Match {
	if t.ID != "" {
		if m, ok := r.registry.Lookup(t.ID); ok {
			return m
		}
	}
	if t.DealName != "" {
		for _, d := range r.dealsByName[t.DealName] {
			if m, ok := r.registry.Lookup(dealKey(d)); ok {
				return m
			}
		}
	}
	return nil
}

// phaseForecast aggregates forecast transactions. They are never matched
// against deals; the summary also projects the kicker multiplier the run's
// dominant close year is heading for.
func (r *run) phaseForecast() {
	f := &r.forecastSummary
	f.Transactions = r.forecasts
	for _, t := range r.forecasts {
		f.TotalCommission += t.Commission
		f.KickerTotal += t.KickerValue()
		if t.HasKicker() {
			f.WithKickers++
		}
	}

	f.Year = r.dominantCloseYear()
	plan := r.engine.book.Plan(f.Year)
	if plan == nil {
		return
	}
	f.Attainment = commission.Attainment(r.matchedActual()+f.TotalCommission, plan.AnnualQuota)
	f.ProjectedMultiplier = commission.Multiplier(plan, f.Attainment)
}

// dominantCloseYear returns the most frequent close year across the run's
// transactions, the earliest year on a tie, 0 when no dates are known.
func (r *run) dominantCloseYear() int {
	counts := make(map[int]int)
	for _, t := range r.allTransactions {
		if t.CloseDate.IsZero() {
			continue
		}
		counts[t.CloseDate.Year()]++
	}

	year, best := 0, 0
	for y, n := range counts {
		if n > best || (n == best && y < year) {
			year, best = y, n
		}
	}
	return year
}

// matchedActual sums the regular and split commission attached to genuine
// matches.
func (r *run) matchedActual() float64 {
	total := 0.0
	for _, m := range r.registry.Matches() {
		if m.Central {
			continue
		}
		for _, t := range m.Transactions {
			if t.Category == records.CategoryRegular || t.Category == records.CategorySplit {
				total += t.Commission
			}
		}
	}
	return total
}

// finish validates every match, prices unmatched deals, and assembles the
// immutable result.
func (r *run) finish() *Result {
	matches := r.registry.Matches()

	for _, m := range matches {
		r.discrepancies = append(r.discrepancies, r.validator.validate(m)...)
	}

	var unmatchedDeals []*records.Deal
	for _, d := range r.deals {
		if r.claimed[d] {
			continue
		}
		unmatchedDeals = append(unmatchedDeals, d)
		r.discrepancies = append(r.discrepancies, r.validator.missingDeal(d))
	}

	var unmatchedTransactions []*records.Transaction
	for _, t := range r.allTransactions {
		if r.attached[t] || t.Category == records.CategoryForecast {
			continue
		}
		unmatchedTransactions = append(unmatchedTransactions, t)
	}

	r.engine.log.Debug().
		Int("matches", len(matches)).
		Int("discrepancies", len(r.discrepancies)).
		Int("unmatched_deals", len(unmatchedDeals)).
		Int("unmatched_transactions", len(unmatchedTransactions)).
		Msg("reconciliation complete")

	return newResultBuilder().
		withFingerprint(r.fingerprint).
		withMatches(matches).
		withDiscrepancies(r.discrepancies).
		withCentral(r.centralSummary).
		withWithholding(r.withholdingSummary).
		withForecast(r.forecastSummary).
		withUnmatchedDeals(unmatchedDeals).
		withUnmatchedTransactions(unmatchedTransactions).
		withQuality(scoreQuality(r.allDeals, r.allTransactions)).
		withCounts(len(r.allDeals), r.byCategory).
		build()
}

// withinDays reports whether two close dates fall within the given number of
// days of each other. Unknown dates never match.
func withinDays(a, b utc.Time, days int) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= time.Duration(days)*24*time.Hour
}

// amountsAgree reports whether two amounts differ by no more than the given
// relative tolerance of the larger one.
func amountsAgree(a, b, tolerance float64) bool {
	if a <= 0 || b <= 0 {
		return false
	}
	return math.Abs(a-b)/math.Max(a, b) <= tolerance
}
