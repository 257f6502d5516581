package reconcile

import (
	"fmt"

	"github.com/revenueops/crosscheck/pkg/constants"
	"github.com/revenueops/crosscheck/pkg/records"
)

// Warning flags one defaulted or suspect field on an input record.
type Warning struct {
	Subject string `json:"subject" yaml:"subject"` // Record the warning concerns, ID or name
	Field   string `json:"field" yaml:"field"`     // Field that was missing or suspect
	Message string `json:"message" yaml:"message"` // What was found
}

// Quality is the input quality assessment of a run: a 0-100 score and the
// ordered warnings behind it.
type Quality struct {
	Score    float64   `json:"score" yaml:"score"`       // 100 minus weighted deductions, floor 0
	Warnings []Warning `json:"warnings" yaml:"warnings"` // Input order, deals before transactions
}

// scoreQuality assesses the input records. Deductions scale with the fraction
// of affected records: 30 for deals without ID, 20 for deals with truncated
// IDs, 10 for transactions without close date.
func scoreQuality(deals []*records.Deal, transactions []*records.Transaction) Quality {
	q := Quality{Score: constants.QualityFullScore}

	missingID := 0
	truncatedID := 0
	for _, d := range deals {
		subject := d.ID
		if subject == "" {
			subject = d.Name
		}
		switch {
		case d.ID == "":
			missingID++
			q.Warnings = append(q.Warnings, Warning{
				Subject: subject,
				Field:   "id",
				Message: "deal has no record identifier",
			})
		case len(d.ID) < constants.MinDealIDLength:
			truncatedID++
			q.Warnings = append(q.Warnings, Warning{
				Subject: subject,
				Field:   "id",
				Message: fmt.Sprintf("record identifier has %d digits, expected at least %d",
					len(d.ID), constants.MinDealIDLength),
			})
		}
	}

	missingDate := 0
	for _, t := range transactions {
		if t.CloseDate.IsZero() {
			missingDate++
			subject := t.ID
			if subject == "" {
				subject = t.DealName
			}
			q.Warnings = append(q.Warnings, Warning{
				Subject: subject,
				Field:   "close_date",
				Message: "transaction has no close date",
			})
		}
	}

	if len(deals) > 0 {
		q.Score -= constants.QualityMissingIDWeight * float64(missingID) / float64(len(deals))
		q.Score -= constants.QualityTruncatedIDWeight * float64(truncatedID) / float64(len(deals))
	}
	if len(transactions) > 0 {
		q.Score -= constants.QualityMissingDateWeight * float64(missingDate) / float64(len(transactions))
	}
	if q.Score < 0 {
		q.Score = 0
	}

	return q
}
