// Package sources holds the shared plumbing for the file-based record
// providers: source kind detection, per-file ingestion reports, and the
// lenient field parsers the CSV readers share. Providers under this
// directory turn raw export files into the normalized records the
// reconciliation engine consumes; the engine itself never sees a CSV row.
package sources

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/revenueops/crosscheck/pkg/records"
)

// Kind derives the source kind from a file name. Withholding and forecast
// exports are only recognizable by name, so the naming convention is load
// bearing: a misnamed file silently demotes its rows to regular
// transactions.
func Kind(filename string) records.SourceKind {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "withholding"):
		return records.SourceWithholding
	case strings.Contains(name, "estimated"), strings.Contains(name, "forecast"):
		return records.SourceForecast
	default:
		return records.SourceRegular
	}
}

// SplitFile reports whether a file name marks a split export. Split exports
// often leave the per-row split column blank, so readers default the flag on
// for every row they contain. A withholding export is never a split export,
// whatever its name says.
func SplitFile(filename string) bool {
	name := strings.ToLower(filename)
	return strings.Contains(name, "split") && !strings.Contains(name, "withholding")
}

// Report summarizes one file ingestion: the base name of the file, how many
// data rows it held (header excluded), how many of those produced no record,
// and any row-level warnings collected along the way. A warning never stops
// the read; files arrive hand-edited and partially broken, and a partial
// ingest with warnings beats no ingest at all.
type Report struct {
	File     string   `json:"file" yaml:"file"`
	Rows     int      `json:"rows" yaml:"rows"`
	Skipped  int      `json:"skipped" yaml:"skipped"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Warnf records a formatted row-level warning.
func (r *Report) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// NewCSV returns a CSV reader over in with the delimiter sniffed from the
// first line. Exports arrive comma, semicolon, or tab separated depending on
// the locale of the machine that produced them, and scraped files usually
// open with a UTF-8 byte order mark; both quirks are absorbed here so the
// readers never see them. Rows may carry a variable number of fields.
func NewCSV(in io.Reader) *csv.Reader {
	br := bufio.NewReader(in)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, utf8BOM) {
		_, _ = br.Discard(3)
	}

	r := csv.NewReader(br)
	r.Comma = sniffDelimiter(br)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	return r
}

// sniffDelimiter counts the candidate separators in the first line and picks
// the most frequent one, defaulting to comma.
func sniffDelimiter(br *bufio.Reader) rune {
	line, _ := br.Peek(4096)
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	best, count := ',', bytes.Count(line, []byte(","))
	for _, candidate := range []string{";", "\t"} {
		if n := bytes.Count(line, []byte(candidate)); n > count {
			best, count = rune(candidate[0]), n
		}
	}
	return best
}

// Header builds a lookup of normalized column name to index from a CSV
// header row. Names are lower-cased with surrounding and repeated whitespace
// collapsed, so lookups survive the casing and padding quirks of
// hand-exported files. The first occurrence of a duplicated name wins.
func Header(fields []string) map[string]int {
	header := make(map[string]int, len(fields))
	for i, field := range fields {
		name := normalizeHeader(field)
		if name == "" {
			continue
		}
		if _, ok := header[name]; !ok {
			header[name] = i
		}
	}
	return header
}

func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Column returns the index of the first alias present in header, or -1 when
// none is. Aliases are tried in order, so callers list the canonical name
// first and the scraped-format fallbacks after it.
func Column(header map[string]int, aliases ...string) int {
	for _, alias := range aliases {
		if i, ok := header[alias]; ok {
			return i
		}
	}
	return -1
}

// Field returns the trimmed value of column i in row, or the empty string
// when the column is absent or the row is short.
func Field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Blank reports whether every field of a row is empty. Hand-edited exports
// routinely end in a run of blank lines.
func Blank(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// dateLayouts are tried in order. Exports mix ISO dates, ISO datetimes,
// German dotted dates, and US slashed dates, sometimes within one file.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006",
	"01/02/2006",
}

// ParseDate parses a date in any of the accepted layouts into a UTC time.
// An empty value is the zero time without error.
func ParseDate(s string) (utc.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return utc.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return utc.New(t), nil
		}
	}
	return utc.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseAmount parses a monetary amount, tolerating currency symbols,
// thousands separators, and comma decimals. An empty value is zero without
// error.
func ParseAmount(s string) (float64, error) {
	s = cleanNumber(s)
	if s == "" || s == "-" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unrecognized amount %q", s)
	}
	return v, nil
}

// cleanNumber strips currency decoration and normalizes the decimal
// separator for strconv. When both separators appear the rightmost one is
// the decimal point. A single comma followed by one or two digits reads as a
// decimal comma; any other comma is a thousands separator.
func cleanNumber(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '€', '$', ' ', ' ', '\'':
			return -1
		}
		return r
	}, strings.TrimSpace(s))

	dot := strings.LastIndexByte(s, '.')
	comma := strings.LastIndexByte(s, ',')
	switch {
	case dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case dot >= 0 && comma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		if decimals := len(s) - comma - 1; strings.Count(s, ",") == 1 && decimals >= 1 && decimals <= 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	return s
}

// ParseRate parses a commission rate into a fraction. Rates appear as
// percent strings ("7.3%"), bare percent numbers ("7.3"), or fractions
// ("0.073"); anything above 1 is read as a percentage.
func ParseRate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	percent := strings.HasSuffix(s, "%")
	v, err := ParseAmount(strings.TrimSuffix(s, "%"))
	if err != nil {
		return 0, err
	}
	if percent || v > 1 {
		v /= 100
	}
	return v, nil
}
