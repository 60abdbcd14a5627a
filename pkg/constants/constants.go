// Package constants provides shared constants for the project-report application.
package constants

// DateLayout is the format expected in config files for asset purchase and
// loan start dates.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// FiscalYearStartMonth is the first calendar month of a fiscal year (April)
	FiscalYearStartMonth = 4

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// HalfYearFactor applies to assets bought in the second half of a fiscal year
	HalfYearFactor = 0.5
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. PROJECT_REPORT_LOGGING_LEVEL
	EnvPrefix = "PROJECT_REPORT"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the compute API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML reports (1 MB)
	DefaultMaxUploadSizeBytes int64 = 1024 * 1024
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 paisa)
	CurrencyTolerance = 0.01

	// BalanceTolerance is the largest balance-sheet difference still reported as balanced
	BalanceTolerance = 0.01

	// GhostRowTolerance is the smallest row delta the ghost-row audit reports
	GhostRowTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
