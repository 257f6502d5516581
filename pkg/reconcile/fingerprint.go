package reconcile

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"github.com/revenueops/crosscheck/pkg/records"
)

// fingerprintNamespace scopes run fingerprints so they never collide with
// UUIDs minted elsewhere.
var fingerprintNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("crosscheck.revenueops.dev"))

// fingerprint derives a deterministic UUID from the input records. The same
// deals and transactions in the same order always produce the same value;
// wall time never enters the digest.
func fingerprint(deals []*records.Deal, transactions []*records.Transaction) string {
	h := sha256.New()

	fmt.Fprintf(h, "deals:%d\n", len(deals))
	for _, d := range deals {
		writeDealDigest(h, d)
	}
	fmt.Fprintf(h, "transactions:%d\n", len(transactions))
	for _, t := range transactions {
		writeTransactionDigest(h, t)
	}

	return uuid.NewSHA1(fingerprintNamespace, h.Sum(nil)).String()
}

func writeDealDigest(w io.Writer, d *records.Deal) {
	writeFields(w,
		d.ID,
		d.Name,
		timeDigest(d.CloseDate.IsZero(), d.CloseDate.Unix()),
		floatDigest(d.Amount),
		d.Currency,
		d.CompanyID,
		d.CompanyName,
		string(d.Type),
		floatDigest(d.ServicesTCV),
	)
}

func writeTransactionDigest(w io.Writer, t *records.Transaction) {
	writeFields(w,
		t.ID,
		t.DealName,
		t.CompanyID,
		t.CompanyName,
		timeDigest(t.CloseDate.IsZero(), t.CloseDate.Unix()),
		floatDigest(t.Commission),
		floatDigest(t.Rate),
		floatDigest(t.ACV),
		t.Split,
		floatDigest(t.PerformanceKicker),
		floatDigest(t.KickerAmount),
		floatDigest(t.Paid),
		floatDigest(t.Withheld),
		floatDigest(t.FullCommission),
		string(t.SourceKind),
	)
}

// writeFields emits fields with unit separators and a record separator, so
// adjacent records can never alias each other.
func writeFields(w io.Writer, fields ...string) {
	for _, f := range fields {
		io.WriteString(w, f)
		io.WriteString(w, "\x1f")
	}
	io.WriteString(w, "\x1e")
}

func floatDigest(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func timeDigest(zero bool, unix int64) string {
	if zero {
		return ""
	}
	return strconv.FormatInt(unix, 10)
}
