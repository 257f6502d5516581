// Package salescookie reads commission provider exports into normalized
// transaction records.
//
// Exports come in several dialects: manual exports with the full column set,
// scraped exports with renamed columns and truncated deal names, withholding
// exports carrying a paid and estimated pair per row, and forecast exports
// of not-yet-paid commissions. The reader absorbs all of them. The file name
// decides the source kind (see sources.Kind), which in turn decides how the
// commission columns are interpreted.
package salescookie

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

// maxKickerMultiplier bounds what the performance kicker column can mean as
// a multiplier. No plan grants more than 2.0x, so anything larger was
// written as a payout amount and is folded into the kicker amount instead.
const maxKickerMultiplier = 3.0

// Reader parses commission provider CSV exports.
type Reader struct{}

// NewReader returns a transaction reader.
func NewReader() *Reader {
	return &Reader{}
}

// transactionColumns holds the resolved column indexes for one export, -1
// for columns the export does not carry.
type transactionColumns struct {
	id           int
	dealName     int
	customer     int
	closeDate    int
	revenueStart int
	commission   int
	estimated    int
	paid         int
	withheld     int
	currency     int
	rate         int
	acv          int
	split        int
	performance  int
	campaign     int
	summer       int
	earlyBird    int
}

// ReadFile reads transactions from the CSV export at path. The base file
// name decides the source kind every transaction is tagged with.
func (r *Reader) ReadFile(path string) ([]records.Transaction, *sources.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()
	return r.Read(f, filepath.Base(path))
}

// ReadDir reads every CSV export under dir in sorted name order and merges
// the transactions, one report per file. Sorted order keeps multi-file runs
// deterministic.
func (r *Reader) ReadDir(dir string) ([]records.Transaction, []*sources.Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, errors.WrapIO("read", dir, err)
	}

	var (
		transactions []records.Transaction
		reports      []*sources.Report
	)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		txs, report, err := r.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, nil, err
		}
		transactions = append(transactions, txs...)
		reports = append(reports, report)
	}
	if len(reports) == 0 {
		return nil, nil, errors.NewIOError("read", dir, errors.New("no csv files found"))
	}
	return transactions, reports, nil
}

// Read reads transactions from in. name identifies the originating file: it
// is recorded on every transaction, decides the source kind, and tags the
// report.
func (r *Reader) Read(in io.Reader, name string) ([]records.Transaction, *sources.Report, error) {
	kind := sources.Kind(name)
	splitFile := sources.SplitFile(name)

	cr := sources.NewCSV(in)
	headerRow, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &sources.Report{File: name}, nil
		}
		return nil, nil, errors.WrapParse("csv", name, err)
	}
	header := sources.Header(headerRow)

	cols := transactionColumns{
		id:           sources.Column(header, "unique id", "unique_id", "id"),
		dealName:     sources.Column(header, "deal name", "deal_name", "name"),
		customer:     sources.Column(header, "customer", "company", "client"),
		closeDate:    sources.Column(header, "close date"),
		revenueStart: sources.Column(header, "revenue start date"),
		commission:   sources.Column(header, "commission"),
		estimated:    sources.Column(header, "est. commission", "est commission", "estimated commission", "est. full commission"),
		paid:         sources.Column(header, "commission paid", "paid"),
		withheld:     sources.Column(header, "commission withheld", "withheld"),
		currency:     sources.Column(header, "commission currency", "currency"),
		rate:         sources.Column(header, "commission rate", "commission_rate"),
		acv:          sources.Column(header, "acv (eur)", "acv eur", "acv"),
		split:        sources.Column(header, "split"),
		performance:  sources.Column(header, "performance kicker"),
		campaign:     sources.Column(header, "campaign kicker"),
		summer:       sources.Column(header, "summer kicker"),
		earlyBird:    sources.Column(header, "early bird kicker", "earlybird kicker"),
	}
	if cols.id < 0 && cols.dealName < 0 {
		return nil, nil, errors.NewParseError("csv", name, "no identifying columns found", nil)
	}

	report := &sources.Report{File: name}
	var transactions []records.Transaction
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

		t := r.parseTransaction(row, cols, kind, splitFile, name, report, line)
		if !t.HasIdentity() {
			report.Skipped++
			report.Warnf("line %d: skipping transaction with no identifier and no deal name", line)
			continue
		}
		transactions = append(transactions, t)
	}
	return transactions, report, nil
}

// parseTransaction builds one transaction from a data row. Field-level
// parse failures are reported as warnings and leave the field at its zero
// value.
func (r *Reader) parseTransaction(row []string, cols transactionColumns, kind records.SourceKind, splitFile bool, name string, report *sources.Report, line int) records.Transaction {
	t := records.Transaction{
		ID:         sources.Field(row, cols.id),
		DealName:   sources.Field(row, cols.dealName),
		Currency:   sources.Field(row, cols.currency),
		Split:      sources.Field(row, cols.split),
		SourceFile: name,
		SourceKind: kind,
	}
	if t.Currency == "" {
		t.Currency = "EUR"
	}
	if splitFile && t.Split == "" {
		t.Split = "yes"
	}
	t.CompanyID, t.CompanyName = records.ParseCustomer(sources.Field(row, cols.customer))

	// Scraped exports cut long deal names short. The record is still usable,
	// but exact name matching will not see it, so surface the fact.
	if strings.HasSuffix(t.DealName, "…") {
		report.Warnf("line %d: deal name appears truncated: %q", line, t.DealName)
	}

	t.CloseDate = r.parseDate(sources.Field(row, cols.closeDate), "close date", report, line)
	if rs := r.parseDate(sources.Field(row, cols.revenueStart), "revenue start date", report, line); !rs.IsZero() {
		t.RevenueStart = &rs
	}

	t.Rate = r.parseRate(sources.Field(row, cols.rate), report, line)
	t.ACV = r.parseAmount(sources.Field(row, cols.acv), "acv", report, line)

	commission := r.parseAmount(sources.Field(row, cols.commission), "commission", report, line)
	estimated := r.parseAmount(sources.Field(row, cols.estimated), "est. commission", report, line)
	paid := r.parseAmount(sources.Field(row, cols.paid), "commission paid", report, line)
	withheld := r.parseAmount(sources.Field(row, cols.withheld), "commission withheld", report, line)
	switch {
	case paid != 0 || withheld != 0:
		// Manual exports spell the split out in dedicated columns. These
		// win over the file-name kind, so a withholding row inside a
		// regular export is still recognized.
		t.Paid = paid
		t.Withheld = withheld
		t.FullCommission = estimated
		if t.FullCommission == 0 {
			t.FullCommission = paid + withheld
		}
		t.Commission = commission
		if t.Commission == 0 {
			t.Commission = paid
		}
	case kind == records.SourceWithholding:
		// Withholding rows pair the paid half with the estimated full
		// commission.
		t.Paid = commission
		t.Commission = commission
		t.FullCommission = estimated
		if estimated > 0 {
			t.Withheld = estimated - commission
		}
	default:
		t.Commission = commission
		if t.Commission == 0 {
			t.Commission = estimated
		}
	}

	t.KickerAmount = r.parseAmount(sources.Field(row, cols.campaign), "campaign kicker", report, line) +
		r.parseAmount(sources.Field(row, cols.summer), "summer kicker", report, line) +
		r.parseAmount(sources.Field(row, cols.earlyBird), "early bird kicker", report, line)

	if s := sources.Field(row, cols.performance); s != "" {
		percent := strings.HasSuffix(s, "%")
		v, err := sources.ParseAmount(strings.TrimSuffix(s, "%"))
		switch {
		case err != nil:
			report.Warnf("line %d: performance kicker: %v", line, err)
		case percent:
			t.PerformanceKicker = v / 100
		case v > maxKickerMultiplier:
			t.KickerAmount += v
		default:
			t.PerformanceKicker = v
		}
	}

	return t
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

func (r *Reader) parseRate(s string, report *sources.Report, line int) float64 {
	v, err := sources.ParseRate(s)
	if err != nil {
		report.Warnf("line %d: commission rate: %v", line, err)
	}
	return v
}
