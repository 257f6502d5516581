// Package report renders reconciliation results as xlsx workbooks.
//
// The workbook mirrors the shape of a reconcile.Result: a Summary sheet with
// run totals and per-section rollups, then one sheet per concern (matches,
// discrepancies, central processing, withholding, forecast). Rows follow
// result order everywhere, so the same result always produces the same
// workbook.
package report

import (
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/revenueops/crosscheck/pkg/constants"
	"github.com/revenueops/crosscheck/pkg/errors"
	"github.com/revenueops/crosscheck/pkg/reconcile"
	"github.com/revenueops/crosscheck/pkg/records"
)

// Sheet names in workbook order.
const (
	SheetSummary       = "Summary"
	SheetMatches       = "Matched Deals"
	SheetDiscrepancies = "Discrepancies"
	SheetCentral       = "Central Processing"
	SheetWithholding   = "Withholding Analysis"
	SheetForecast      = "Forecast Analysis"
)

// Write renders the result as an xlsx workbook onto w.
func Write(w io.Writer, res *reconcile.Result) error {
	f, err := build(res)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return errors.WrapIO("write", "workbook", err)
	}
	return nil
}

// WriteFile renders the result as an xlsx workbook at path.
func WriteFile(path string, res *reconcile.Result) error {
	f, err := build(res)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// build assembles the workbook in memory.
func build(res *reconcile.Result) (*excelize.File, error) {
	if res == nil {
		return nil, errors.NewValidationError("result", nil, "result is nil")
	}
	f := excelize.NewFile()
	w := &workbook{f: f, res: res}
	if err := w.fill(); err != nil {
		f.Close()
		return nil, errors.WrapIO("build", "workbook", err)
	}
	f.SetActiveSheet(0)
	return f, nil
}

// workbook carries the file, the result, and the shared cell styles while
// the sheets are being written.
type workbook struct {
	f   *excelize.File
	res *reconcile.Result

	titleStyle   int
	sectionStyle int
	headerStyle  int
	moneyStyle   int
	percentStyle int
}

func (w *workbook) fill() error {
	if err := w.styles(); err != nil {
		return err
	}
	if err := w.f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	for _, sheet := range []func() error{
		w.summary,
		w.matches,
		w.discrepancies,
		w.central,
		w.withholding,
		w.forecast,
	} {
		if err := sheet(); err != nil {
			return err
		}
	}
	return nil
}

func (w *workbook) styles() error {
	var err error
	if w.titleStyle, err = w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}); err != nil {
		return err
	}
	if w.sectionStyle, err = w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}}); err != nil {
		return err
	}
	if w.headerStyle, err = w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"CCCCCC"}, Pattern: 1},
	}); err != nil {
		return err
	}
	money := "€#,##0.00"
	if w.moneyStyle, err = w.f.NewStyle(&excelize.Style{CustomNumFmt: &money}); err != nil {
		return err
	}
	percent := "0.0%"
	if w.percentStyle, err = w.f.NewStyle(&excelize.Style{CustomNumFmt: &percent}); err != nil {
		return err
	}
	return nil
}

// summary writes the run overview: totals, withholding and forecast rollups,
// and the discrepancy breakdown by kind.
func (w *workbook) summary() error {
	s, err := w.sheet(SheetSummary)
	if err != nil {
		return err
	}
	res := w.res

	s.add("Commission Reconciliation Report")
	s.style(w.titleStyle, 1, 1)
	s.merge(1, 4)
	s.blank()

	s.add("Run Fingerprint", res.Fingerprint)
	s.add("Data Quality Score", res.Quality.Score)
	s.blank()

	s.add("Overall Statistics")
	s.style(w.sectionStyle, 1, 1)
	s.add("Deals", res.Summary.Deals)
	s.add("Transactions", res.Summary.Transactions)
	for _, c := range []records.TransactionCategory{
		records.CategoryRegular,
		records.CategoryWithholding,
		records.CategoryForecast,
		records.CategorySplit,
	} {
		if n := res.Summary.ByCategory[c]; n > 0 {
			s.add("  "+title(c.String()), n)
		}
	}
	s.add("Matched Deals", res.Summary.Matches)
	s.add("Centrally Processed Transactions", res.Central.Count)
	s.add("Unmatched Deals", res.Summary.UnmatchedDeals)
	s.add("Unmatched Transactions", res.Summary.UnmatchedTransactions)
	s.add("Discrepancies", res.Summary.Discrepancies)
	s.add("Total Impact (EUR)", res.Summary.TotalImpact)
	s.style(w.moneyStyle, 2, 2)
	s.blank()

	s.add("Withholding Summary")
	s.style(w.sectionStyle, 1, 1)
	first := s.row + 1
	s.add("Commission Paid", res.Withholding.PaidTotal)
	s.add("Commission Withheld", res.Withholding.WithheldTotal)
	s.add("Full Commission Value", res.Withholding.FullTotal)
	s.styleColumn(w.moneyStyle, 2, first)
	s.add("Matched Withholding Transactions", res.Withholding.MatchedCount)
	s.add("Unmatched Withholding Transactions", len(res.Withholding.Unmatched))
	s.blank()

	s.add("Forecast Summary")
	s.style(w.sectionStyle, 1, 1)
	first = s.row + 1
	s.add("Forecast Commission", res.Forecast.TotalCommission)
	s.add("Forecast Kickers", res.Forecast.KickerTotal)
	s.styleColumn(w.moneyStyle, 2, first)
	s.add("Transactions With Kickers", res.Forecast.WithKickers)
	if res.Forecast.Year != 0 {
		s.add("Projection Year", res.Forecast.Year)
		s.add("Projected Attainment", res.Forecast.Attainment/100)
		s.style(w.percentStyle, 2, 2)
		s.add("Projected Multiplier", res.Forecast.ProjectedMultiplier)
	}
	s.blank()

	s.add("Discrepancy Breakdown")
	s.style(w.sectionStyle, 1, 1)
	s.add("Kind", "Count", "Impact (EUR)")
	s.style(w.headerStyle, 1, 3)
	for _, kind := range []reconcile.DiscrepancyKind{
		reconcile.KindMissingDeal,
		reconcile.KindCalculationError,
		reconcile.KindWrongRate,
		reconcile.KindWithholdingMismatch,
		reconcile.KindDataQuality,
	} {
		found := res.DiscrepanciesOfKind(kind)
		if len(found) == 0 {
			continue
		}
		var impact float64
		for _, d := range found {
			impact += d.Impact
		}
		s.add(title(kind.String()), len(found), impact)
		s.style(w.moneyStyle, 3, 3)
	}

	s.width(1, 36)
	s.width(2, 42)
	s.width(3, 16)
	return s.err
}

// matches writes one row per match with the commission total of its attached
// transactions. Deals flagged by any discrepancy are marked for review.
func (w *workbook) matches() error {
	s, err := w.sheet(SheetMatches)
	if err != nil {
		return err
	}

	flagged := make(map[string]bool, len(w.res.Discrepancies))
	for _, d := range w.res.Discrepancies {
		if d.DealID != "" {
			flagged[d.DealID] = true
		}
	}

	s.add("Deal ID", "Deal Name", "Close Date", "Amount (EUR)",
		"Transactions", "Commission (EUR)", "Strategy", "Confidence", "Status")
	s.style(w.headerStyle, 1, 9)
	first := s.row + 1
	for _, m := range w.res.Matches {
		var closeDate string
		var amount any
		if m.Deal != nil {
			if !m.Deal.CloseDate.IsZero() {
				closeDate = m.Deal.CloseDate.Format(constants.DateFormat)
			}
			amount = m.Deal.Amount
		}
		var commission float64
		for _, t := range m.Transactions {
			commission += t.Commission
		}
		status := "OK"
		if flagged[m.DealID] {
			status = "Review"
		}
		s.add(displayID(m), matchLabel(m), closeDate, amount,
			len(m.Transactions), commission, m.Strategy.String(), m.Confidence, status)
	}
	s.styleColumn(w.moneyStyle, 4, first)
	s.styleColumn(w.moneyStyle, 6, first)

	s.width(1, 24)
	s.width(2, 50)
	s.width(3, 14)
	s.width(4, 16)
	s.width(6, 18)
	s.width(7, 20)
	return s.err
}

// discrepancies writes every discrepancy, result order.
func (w *workbook) discrepancies() error {
	s, err := w.sheet(SheetDiscrepancies)
	if err != nil {
		return err
	}

	s.add("Kind", "Severity", "Deal ID", "Deal Name",
		"Expected (EUR)", "Actual (EUR)", "Impact (EUR)", "Confidence", "Detail")
	s.style(w.headerStyle, 1, 9)
	first := s.row + 1
	for _, d := range w.res.Discrepancies {
		var confidence any
		if d.Confidence > 0 {
			confidence = d.Confidence
		}
		s.add(title(d.Kind.String()), strings.ToUpper(d.Severity.String()), d.DealID, d.DealName,
			d.Expected, d.Actual, d.Impact, confidence, d.Detail)
	}
	s.styleColumn(w.moneyStyle, 5, first)
	s.styleColumn(w.moneyStyle, 6, first)
	s.styleColumn(w.moneyStyle, 7, first)

	s.width(1, 22)
	s.width(3, 24)
	s.width(4, 50)
	s.width(5, 16)
	s.width(6, 16)
	s.width(7, 16)
	s.width(9, 60)
	return s.err
}

// central writes the per-indicator rollup and then every centrally processed
// transaction.
func (w *workbook) central() error {
	s, err := w.sheet(SheetCentral)
	if err != nil {
		return err
	}
	res := w.res

	s.add("Indicator", "Transactions", "Commission (EUR)")
	s.style(w.headerStyle, 1, 3)
	first := s.row + 1
	indicators := make([]string, 0, len(res.Central.ByIndicator))
	for indicator := range res.Central.ByIndicator {
		indicators = append(indicators, indicator)
	}
	sort.Strings(indicators)
	for _, indicator := range indicators {
		stats := res.Central.ByIndicator[indicator]
		s.add(title(indicator), stats.Count, stats.Commission)
	}
	s.add("Total", res.Central.Count, res.Central.TotalCommission)
	s.style(w.sectionStyle, 1, 1)
	s.styleColumn(w.moneyStyle, 3, first)
	s.blank()

	s.add("Transaction ID", "Deal Name", "Close Date", "Commission (EUR)", "Indicator")
	s.style(w.headerStyle, 1, 5)
	first = s.row + 1
	for _, m := range res.Matches {
		if !m.Central {
			continue
		}
		for _, t := range m.Transactions {
			var closeDate string
			if !t.CloseDate.IsZero() {
				closeDate = t.CloseDate.Format(constants.DateFormat)
			}
			s.add(t.ID, t.DealName, closeDate, t.Commission, title(m.Indicator))
		}
	}
	s.styleColumn(w.moneyStyle, 4, first)

	s.width(1, 24)
	s.width(2, 50)
	s.width(3, 16)
	s.width(4, 18)
	s.width(5, 20)
	return s.err
}

// withholding writes one row per matched withholding transaction with its
// paid-to-full ratio, then the unmatched remainder and the totals.
func (w *workbook) withholding() error {
	s, err := w.sheet(SheetWithholding)
	if err != nil {
		return err
	}
	res := w.res

	s.add("Deal ID", "Deal Name", "Company", "Paid (EUR)",
		"Full Commission (EUR)", "Withheld (EUR)", "Ratio", "Status")
	s.style(w.headerStyle, 1, 8)
	first := s.row + 1
	for _, m := range res.Matches {
		if m.Central {
			continue
		}
		for _, t := range m.Transactions {
			if t.Category != records.CategoryWithholding {
				continue
			}
			s.addWithholding(displayID(m), t)
		}
	}
	s.styleColumn(w.moneyStyle, 4, first)
	s.styleColumn(w.moneyStyle, 5, first)
	s.styleColumn(w.moneyStyle, 6, first)
	s.styleColumn(w.percentStyle, 7, first)
	s.blank()

	if len(res.Withholding.Unmatched) > 0 {
		s.add("Unmatched Withholding Transactions")
		s.style(w.sectionStyle, 1, 1)
		first = s.row + 1
		for _, t := range res.Withholding.Unmatched {
			s.addWithholding(t.ID, t)
		}
		s.styleColumn(w.moneyStyle, 4, first)
		s.styleColumn(w.moneyStyle, 5, first)
		s.styleColumn(w.moneyStyle, 6, first)
		s.styleColumn(w.percentStyle, 7, first)
		s.blank()
	}

	s.add("Totals")
	s.style(w.sectionStyle, 1, 1)
	first = s.row + 1
	s.add("Commission Paid", nil, nil, res.Withholding.PaidTotal)
	s.add("Commission Withheld", nil, nil, res.Withholding.WithheldTotal)
	s.add("Full Commission Value", nil, nil, res.Withholding.FullTotal)
	s.styleColumn(w.moneyStyle, 4, first)

	s.width(1, 24)
	s.width(2, 50)
	s.width(3, 30)
	s.width(4, 14)
	s.width(5, 20)
	s.width(6, 16)
	return s.err
}

// addWithholding writes one withholding row. When the transaction carries no
// full commission value the paid amount is assumed to be the usual half.
func (s *sheet) addWithholding(dealID string, t *records.Transaction) {
	full := t.FullCommission
	if full == 0 {
		full = t.Paid * 2
	}
	var ratio float64
	if full > 0 {
		ratio = t.Paid / full
	}
	status := "OK"
	if diff := ratio - constants.WithholdingRatio; diff > constants.WithholdingRatioTolerance ||
		diff < -constants.WithholdingRatioTolerance {
		status = "Check"
	}
	s.add(dealID, t.DealName, t.CompanyName, t.Paid, full, full-t.Paid, ratio, status)
}

// forecast writes one row per forecast transaction and the projection
// rollup underneath.
func (w *workbook) forecast() error {
	s, err := w.sheet(SheetForecast)
	if err != nil {
		return err
	}
	res := w.res

	s.add("Deal Name", "Close Date", "Commission (EUR)", "Kicker (EUR)", "Source File")
	s.style(w.headerStyle, 1, 5)
	first := s.row + 1
	for _, t := range res.Forecast.Transactions {
		var closeDate string
		if !t.CloseDate.IsZero() {
			closeDate = t.CloseDate.Format(constants.DateFormat)
		}
		s.add(t.DealName, closeDate, t.Commission, t.KickerValue(), t.SourceFile)
	}
	s.styleColumn(w.moneyStyle, 3, first)
	s.styleColumn(w.moneyStyle, 4, first)
	s.blank()

	s.add("Forecast Summary")
	s.style(w.sectionStyle, 1, 1)
	first = s.row + 1
	s.add("Forecast Commission", nil, res.Forecast.TotalCommission)
	s.add("Forecast Kickers", nil, res.Forecast.KickerTotal)
	s.styleColumn(w.moneyStyle, 3, first)
	s.add("Transactions With Kickers", nil, res.Forecast.WithKickers)
	if res.Forecast.Year != 0 {
		s.add("Projection Year", nil, res.Forecast.Year)
		s.add("Projected Attainment", nil, res.Forecast.Attainment/100)
		s.style(w.percentStyle, 3, 3)
		s.add("Projected Multiplier", nil, res.Forecast.ProjectedMultiplier)
	}

	s.width(1, 50)
	s.width(2, 14)
	s.width(3, 18)
	s.width(4, 16)
	s.width(5, 30)
	return s.err
}

// sheet appends rows to one worksheet, tracking the cursor and the first
// error so the sheet builders can chain writes without checking each one.
type sheet struct {
	f    *excelize.File
	name string
	row  int
	err  error
}

func (w *workbook) sheet(name string) (*sheet, error) {
	if name != SheetSummary {
		if _, err := w.f.NewSheet(name); err != nil {
			return nil, err
		}
	}
	return &sheet{f: w.f, name: name}, nil
}

// add writes the values as the next row, leaving nil cells empty.
func (s *sheet) add(values ...any) {
	s.row++
	if s.err != nil {
		return
	}
	for i, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, s.row)
		if err != nil {
			s.err = err
			return
		}
		if err := s.f.SetCellValue(s.name, cell, v); err != nil {
			s.err = err
			return
		}
	}
}

// blank leaves the next row empty.
func (s *sheet) blank() { s.row++ }

// style applies a style across columns of the current row.
func (s *sheet) style(styleID, fromCol, toCol int) {
	if s.err != nil {
		return
	}
	from, err := excelize.CoordinatesToCellName(fromCol, s.row)
	if err != nil {
		s.err = err
		return
	}
	to, err := excelize.CoordinatesToCellName(toCol, s.row)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetCellStyle(s.name, from, to, styleID)
}

// styleColumn applies a style to one column from fromRow through the current
// row. A no-op when no rows were written since fromRow.
func (s *sheet) styleColumn(styleID, col, fromRow int) {
	if s.err != nil || s.row < fromRow {
		return
	}
	from, err := excelize.CoordinatesToCellName(col, fromRow)
	if err != nil {
		s.err = err
		return
	}
	to, err := excelize.CoordinatesToCellName(col, s.row)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetCellStyle(s.name, from, to, styleID)
}

// merge joins columns of the current row into one cell.
func (s *sheet) merge(fromCol, toCol int) {
	if s.err != nil {
		return
	}
	from, err := excelize.CoordinatesToCellName(fromCol, s.row)
	if err != nil {
		s.err = err
		return
	}
	to, err := excelize.CoordinatesToCellName(toCol, s.row)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.MergeCell(s.name, from, to)
}

// width sets one column's display width.
func (s *sheet) width(col int, width float64) {
	if s.err != nil {
		return
	}
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetColWidth(s.name, name, name, width)
}

// title renders an identifier-style value as a heading label.
func title(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

// displayID prefers the bound deal's identifier over the registry claim key,
// which is synthetic for name and central claims.
func displayID(m *reconcile.Match) string {
	if m.Deal != nil {
		return m.Deal.ID
	}
	return m.DealID
}

// matchLabel names a match for the reader: the deal name when a deal is
// bound, otherwise the first transaction's deal name.
func matchLabel(m *reconcile.Match) string {
	if m.Deal != nil && m.Deal.Name != "" {
		return m.Deal.Name
	}
	if len(m.Transactions) > 0 {
		return m.Transactions[0].DealName
	}
	return ""
}
