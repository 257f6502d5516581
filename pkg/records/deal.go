// Package records defines the normalized deal and transaction records the
// reconciliation engine consumes. Providers under internal/sources produce
// these types; the engine never sees raw CSV rows.
package records

import (
	"strings"

	"github.com/agentstation/utc"
)

// Deal represents a CRM deal record normalized for reconciliation.
// Deals are immutable after ingestion; the engine only reads them.
type Deal struct {
	ID           string    `json:"id" yaml:"id"`                                           // CRM record identifier (may be empty or truncated at source)
	Name         string    `json:"name" yaml:"name"`                                       // Deal name as entered in the CRM
	CloseDate    utc.Time  `json:"close_date" yaml:"close_date"`                           // Date the deal was closed-won
	Amount       float64   `json:"amount" yaml:"amount"`                                   // Commission-relevant amount in the reporting currency
	Currency     string    `json:"currency,omitempty" yaml:"currency,omitempty"`           // Reporting currency code (EUR unless stated otherwise)
	CompanyID    string    `json:"company_id,omitempty" yaml:"company_id,omitempty"`       // Associated company identifier
	CompanyName  string    `json:"company_name,omitempty" yaml:"company_name,omitempty"`   // Associated company display name
	Type         DealType  `json:"type" yaml:"type"`                                       // Classified deal type for rate lookup
	TypeLabel    string    `json:"type_label,omitempty" yaml:"type_label,omitempty"`       // Raw provider label the type was parsed from
	RevenueStart *utc.Time `json:"revenue_start,omitempty" yaml:"revenue_start,omitempty"` // Revenue start date when the source provides one
	ServicesTCV  float64   `json:"services_tcv,omitempty" yaml:"services_tcv,omitempty"`   // Professional services total contract value
}

// HasIdentity reports whether the deal carries at least one identifying field.
// A deal with neither ID nor name cannot be matched or reported against.
func (d *Deal) HasIdentity() bool {
	return d.ID != "" || d.Name != ""
}

// IsProfessionalServices reports whether the deal is commissioned at the flat
// professional services rate. A deal qualifies by classified type, by the
// "PS @" name prefix, or by carrying a professional services contract value.
func (d *Deal) IsProfessionalServices() bool {
	if d.Type == DealTypeProfessionalServices {
		return true
	}
	if strings.HasPrefix(strings.TrimSpace(d.Name), "PS @") {
		return true
	}
	return d.ServicesTCV > 0
}

// CloseYear returns the calendar year the deal closed in, or 0 when the close
// date is unknown.
func (d *Deal) CloseYear() int {
	if d.CloseDate.IsZero() {
		return 0
	}
	return d.CloseDate.Year()
}

// DealType classifies a deal for commission rate lookup.
type DealType string

// String returns the string representation of a DealType.
func (t DealType) String() string {
	return string(t)
}

// Deal type constants matching the commission plan rate categories.
const (
	DealTypeSoftware               DealType = "software"
	DealTypeManagedServicesPublic  DealType = "managed_services_public"
	DealTypeManagedServicesPrivate DealType = "managed_services_private"
	DealTypeRecurringServices      DealType = "recurring_professional_services"
	DealTypeIndexation             DealType = "indexations_parameter"
	DealTypeChurn                  DealType = "churn"
	DealTypeProfessionalServices   DealType = "professional_services"
	DealTypeUnknown                DealType = "unknown"
)

// dealTypeKeywords maps classification targets to the label fragments that
// select them, in priority order. Short codes match whole words only so a
// label like "Upsell" is not read as a PS deal.
var dealTypeKeywords = []struct {
	phrases []string // case-insensitive substring match
	words   []string // case-insensitive whole-word match
	class   DealType
}{
	{phrases: []string{"software"}, words: []string{"sw"}, class: DealTypeSoftware},
	{phrases: []string{"managed services", "managed software"}, words: []string{"ms"}, class: DealTypeManagedServicesPrivate},
	{phrases: []string{"professional services"}, words: []string{"ps", "abp"}, class: DealTypeRecurringServices},
	{phrases: []string{"indexation", "parameter", "balance sheet"}, class: DealTypeIndexation},
	{phrases: []string{"churn"}, class: DealTypeChurn},
}

// ParseDealType maps a provider deal type label onto a DealType.
// Managed services labels split on deployment: "public" or "rcloud" selects
// the public cloud rate, anything else the private one. Unrecognized labels
// default to software, matching the commission plan's catch-all rate.
func ParseDealType(label string) DealType {
	s := strings.ToLower(strings.TrimSpace(label))
	if s == "" {
		return DealTypeUnknown
	}
	if s == "professional services" {
		return DealTypeProfessionalServices
	}

	for _, entry := range dealTypeKeywords {
		if !matchesKeywords(s, entry.phrases, entry.words) {
			continue
		}
		if entry.class == DealTypeManagedServicesPrivate {
			if strings.Contains(s, "public") || strings.Contains(s, "rcloud") {
				return DealTypeManagedServicesPublic
			}
		}
		return entry.class
	}

	return DealTypeSoftware
}

func matchesKeywords(s string, phrases, words []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(s, phrase) {
			return true
		}
	}
	if len(words) == 0 {
		return false
	}
	for _, field := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '/' || r == ','
	}) {
		for _, word := range words {
			if field == word {
				return true
			}
		}
	}
	return false
}
