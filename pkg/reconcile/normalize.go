package reconcile

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// companySuffixes are legal-entity tokens stripped from the end of a
// normalized company name. Stripping repeats, so "gmbh co kg" collapses
// entirely.
var companySuffixes = map[string]bool{
	"gmbh":                  true,
	"ag":                    true,
	"sa":                    true,
	"plc":                   true,
	"ltd":                   true,
	"limited":               true,
	"inc":                   true,
	"abp":                   true,
	"oyj":                   true,
	"bank":                  true,
	"aktiengesellschaft":    true,
	"kommanditgesellschaft": true,
	"co":                    true,
	"kg":                    true,
}

// foldDiacritics reduces accented characters to their ASCII base form.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeCompany reduces a company name to its comparable core: lower-cased,
// diacritics folded, parenthesized segments dropped, dots removed, remaining
// punctuation spaced out, trailing legal-entity suffixes stripped, whitespace
// collapsed. Empty input stays empty.
func NormalizeCompany(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}

	if folded, _, err := transform.String(foldDiacritics, s); err == nil {
		s = folded
	}

	s = dropParenthesized(s)

	// Dots join abbreviations (s.a. reads as sa); other punctuation separates.
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '.':
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	for len(fields) > 1 && companySuffixes[fields[len(fields)-1]] {
		fields = fields[:len(fields)-1]
	}
	if len(fields) == 1 && companySuffixes[fields[0]] {
		return ""
	}

	return strings.Join(fields, " ")
}

// dropParenthesized removes every parenthesized segment. An unclosed opening
// parenthesis drops the rest of the string.
func dropParenthesized(s string) string {
	if !strings.ContainsRune(s, '(') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
