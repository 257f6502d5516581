// Package constants provides shared constants used throughout the crosscheck codebase.
// This includes matching tolerances, confidence scores, file permissions, and other
// configuration values that should be consistent across the application.
package constants

import "time"

// Matching constants define the fixed business rules of the reconciliation pipeline
const (
	// ConfidenceIdentifier is the confidence score for exact identifier matches
	ConfidenceIdentifier = 100.0

	// ConfidenceNameDate is the confidence score for exact name plus close-date matches
	ConfidenceNameDate = 95.0

	// ConfidenceCompanyDate is the base confidence for normalized-company matches
	ConfidenceCompanyDate = 70.0

	// ConfidenceCompanyAmount is the boosted confidence for normalized-company
	// matches whose amounts also agree within AmountTolerance
	ConfidenceCompanyAmount = 90.0

	// NameDateWindowDays is the close-date window for name-based matching
	NameDateWindowDays = 1

	// CompanyDateWindowDays is the close-date window for company-based matching
	CompanyDateWindowDays = 7

	// AmountTolerance is the relative tolerance used when comparing a
	// transaction ACV against a deal amount for the confidence boost
	AmountTolerance = 0.05

	// AmountEpsilon is the absolute commission difference (in the reporting
	// currency) below which a match is considered clean
	AmountEpsilon = 1.0

	// WithholdingRatio is the expected paid/full commission ratio for
	// withholding transactions
	WithholdingRatio = 0.5

	// WithholdingRatioTolerance is the allowed deviation from WithholdingRatio
	// before a withholding mismatch is raised
	WithholdingRatioTolerance = 0.05
)

// Validation constants define variance classification thresholds
const (
	// SeverityHighVariance is the variance fraction above which a
	// commission discrepancy is classified as high severity
	SeverityHighVariance = 0.50

	// SeverityMediumVariance is the variance fraction above which a
	// commission discrepancy is classified as medium severity
	SeverityMediumVariance = 0.20

	// MissingDealHighImpact is the impact (in the reporting currency) above
	// which a missing deal is classified as high severity
	MissingDealHighImpact = 100.0

	// ProfessionalServicesRate is the flat commission rate applied to
	// professional-services deals
	ProfessionalServicesRate = 0.01
)

// Data quality constants define the quality score deductions
const (
	// QualityFullScore is the starting data quality score
	QualityFullScore = 100.0

	// QualityMissingIDWeight is the deduction weight for deals without identifiers
	QualityMissingIDWeight = 30.0

	// QualityTruncatedIDWeight is the deduction weight for deals with truncated identifiers
	QualityTruncatedIDWeight = 20.0

	// QualityMissingDateWeight is the deduction weight for transactions without close dates
	QualityMissingDateWeight = 10.0

	// MinDealIDLength is the minimum digit count of a complete deal identifier;
	// shorter identifiers are treated as truncated exports
	MinDealIDLength = 10
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// OutputBufferSize is the maximum size of output buffers in bytes
	OutputBufferSize = 30000

	// MaxDiscrepancyRows is the maximum number of discrepancies rendered in
	// console output before the remainder is summarized
	MaxDiscrepancyRows = 25

	// WriteBufferSize is the default buffer size for write operations
	WriteBufferSize = 4096
)

// Path constants
const (
	// DefaultConfigPath is the default path for the application configuration file
	DefaultConfigPath = "~/.crosscheck.yaml"

	// DefaultReportName is the default output workbook filename
	DefaultReportName = "reconciliation_report.xlsx"
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339

	// DateFormat is the canonical date layout used in reports
	DateFormat = "2006-01-02"

	// TimeFormatFilename is the format used in generated filenames
	TimeFormatFilename = "20060102-150405"
)
