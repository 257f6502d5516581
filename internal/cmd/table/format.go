package table

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FormatMoney formats an amount in euros with comma grouping.
func FormatMoney(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	whole, frac, _ := strings.Cut(strconv.FormatFloat(amount, 'f', 2, 64), ".")
	return sign + "€" + groupDigits(whole) + "." + frac
}

// FormatCount formats a count with comma grouping.
func FormatCount(n int) string {
	return groupDigits(strconv.Itoa(n))
}

// FormatRate formats a fractional rate as a percentage, "-" when unset.
func FormatRate(rate float64) string {
	if rate == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", rate*100)
}

// FormatScore formats a 0-100 data quality score.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f", score)
}

// groupDigits adds comma separators every three digits.
func groupDigits(s string) string {
	if len(s) <= 3 {
		return s
	}

	var out strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(r)
	}
	return out.String()
}

// Truncate shortens s to at most max bytes, ellipsized.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// Title renders an identifier-style value as a heading label.
func Title(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}
