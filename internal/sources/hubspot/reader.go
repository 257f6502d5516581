// Package hubspot reads CRM deal exports into normalized deal records.
//
// The reader is header driven: columns are located by name, case
// insensitively, with enough alias tolerance to survive the renames CRM
// exports go through. When the export carries a stage column, rows that are
// not closed-won are filtered out before anything else happens; commission
// only exists for won deals.
package hubspot

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/utc"

	"github.com/revenueops/crosscheck/internal/sources"
	"github.com/revenueops/crosscheck/pkg/errors"
	"github.com/revenueops/crosscheck/pkg/records"
)

// closedWonStage is the stage label that marks a deal as commission
// relevant.
const closedWonStage = "closed & won"

// Reader parses CRM deal CSV exports.
type Reader struct{}

// NewReader returns a deal reader.
func NewReader() *Reader {
	return &Reader{}
}

// dealColumns holds the resolved column indexes for one export, -1 for
// columns the export does not carry.
type dealColumns struct {
	id           int
	name         int
	stage        int
	closeDate    int
	amount       int
	amountLocal  int
	currency     int
	dealType     int
	deployment   int
	company      int
	companyID    int
	revenueStart int
	servicesTCV  int
}

// ReadFile reads deals from the CSV export at path.
func (r *Reader) ReadFile(path string) ([]records.Deal, *sources.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()
	return r.Read(f, filepath.Base(path))
}

// Read reads deals from in. name identifies the originating file in the
// report and in error messages.
func (r *Reader) Read(in io.Reader, name string) ([]records.Deal, *sources.Report, error) {
	cr := sources.NewCSV(in)

	headerRow, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &sources.Report{File: name}, nil
		}
		return nil, nil, errors.WrapParse("csv", name, err)
	}
	header := sources.Header(headerRow)

	cols := dealColumns{
		id:           sources.Column(header, "record id", "deal id", "id"),
		name:         sources.Column(header, "deal name", "name"),
		stage:        sources.Column(header, "deal stage"),
		closeDate:    sources.Column(header, "close date"),
		amount:       sources.Column(header, "amount"),
		amountLocal:  sources.Column(header, "amount in company currency"),
		currency:     sources.Column(header, "currency"),
		dealType:     sources.Column(header, "deal type"),
		deployment:   sources.Column(header, "deployment type"),
		company:      sources.Column(header, "associated company (primary)", "associated company", "company name", "company"),
		companyID:    sources.Column(header, "associated company ids (primary)", "associated company ids", "company id"),
		revenueStart: sources.Column(header, "revenue start date"),
		servicesTCV:  sources.Column(header, "tcv (professional services)", "tcv professional services", "acv sales (professional services)"),
	}
	if cols.id < 0 && cols.name < 0 {
		return nil, nil, errors.NewParseError("csv", name, "no identifying columns found", nil)
	}

	report := &sources.Report{File: name}
	var deals []records.Deal
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.WrapParse("csv", name, err)
		}
		line++
		if sources.Blank(row) {
			continue
		}
		report.Rows++

		if cols.stage >= 0 && !strings.EqualFold(sources.Field(row, cols.stage), closedWonStage) {
			report.Skipped++
			continue
		}

		deal := r.parseDeal(row, cols, report, line)
		if !deal.HasIdentity() {
			report.Skipped++
			report.Warnf("line %d: skipping deal with no identifier and no name", line)
			continue
		}
		deals = append(deals, deal)
	}
	return deals, report, nil
}

// parseDeal builds one deal from a data row. Field-level parse failures are
// reported as warnings and leave the field at its zero value; a broken date
// or amount should not cost the whole deal.
func (r *Reader) parseDeal(row []string, cols dealColumns, report *sources.Report, line int) records.Deal {
	deal := records.Deal{
		ID:          sources.Field(row, cols.id),
		Name:        sources.Field(row, cols.name),
		Currency:    sources.Field(row, cols.currency),
		CompanyID:   sources.Field(row, cols.companyID),
		CompanyName: sources.Field(row, cols.company),
		TypeLabel:   sources.Field(row, cols.dealType),
	}
	if deal.Currency == "" {
		deal.Currency = "EUR"
	}

	// Deployment qualifies the managed services rate, so it joins the label
	// before classification.
	label := deal.TypeLabel
	if deployment := sources.Field(row, cols.deployment); deployment != "" {
		label += " " + deployment
	}
	deal.Type = records.ParseDealType(label)

	deal.CloseDate = r.parseDate(sources.Field(row, cols.closeDate), "close date", report, line)
	if rs := r.parseDate(sources.Field(row, cols.revenueStart), "revenue start date", report, line); !rs.IsZero() {
		deal.RevenueStart = &rs
	}

	deal.Amount = r.parseAmount(sources.Field(row, cols.amount), "amount", report, line)
	if local := r.parseAmount(sources.Field(row, cols.amountLocal), "amount in company currency", report, line); local != 0 {
		deal.Amount = local
	}
	deal.ServicesTCV = r.parseAmount(sources.Field(row, cols.servicesTCV), "professional services tcv", report, line)

	return deal
}

func (r *Reader) parseDate(s, column string, report *sources.Report, line int) utc.Time {
	t, err := sources.ParseDate(s)
	if err != nil {
		report.Warnf("line %d: %s: %v", line, column, err)
	}
	return t
}

func (r *Reader) parseAmount(s, column string, report *sources.Report, line int) float64 {
	v, err := sources.ParseAmount(s)
	if err != nil {
		report.Warnf("line %d: %s: %v", line, column, err)
	}
	return v
}
