package records

import "strings"

// ParseCustomer splits a provider composite customer field of the form
// "ID; Name" into its parts. The split happens on the first semicolon and
// both sides are trimmed. A composite without a semicolon is all name.
func ParseCustomer(composite string) (id, name string) {
	if idx := strings.Index(composite, ";"); idx >= 0 {
		return strings.TrimSpace(composite[:idx]), strings.TrimSpace(composite[idx+1:])
	}
	return "", strings.TrimSpace(composite)
}

// TruthySplit reports whether a raw split indicator marks the transaction as
// part of a split. Providers write the flag inconsistently, so yes, true, y
// and 1 all count, case-insensitively.
func TruthySplit(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "y", "1":
		return true
	}
	return false
}
