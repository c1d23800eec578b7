// Package constants provides shared constants for the loan-sim application.
package constants

// DateTimeLayout is the format used for schedule month labels.
const DateTimeLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DefaultInterestRate is the annual rate in percent assumed when an
	// application carries none
	DefaultInterestRate = 3.0

	// DefaultLoanPeriod is the term in months used when an application has a
	// zero term
	DefaultLoanPeriod = 60

	// LoanAmountUnit is the size of one principal override unit (10,000 yen)
	LoanAmountUnit int64 = 10000
)

// Estimator fallback policy defaults. These are business policy pending
// product-owner confirmation and can be overridden in configuration.
const (
	// DefaultFallbackPrincipalRatio is the share of the requested principal
	// assumed to be serviceable per year
	DefaultFallbackPrincipalRatio = 0.25

	// DefaultFallbackAnnualFloor is the minimum annual cash flow assumed by
	// the fallback heuristic
	DefaultFallbackAnnualFloor = 6_000_000.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatXLSX writes a workbook with one sheet per scenario
	OutputFormatXLSX = "xlsx"

	// OutputFormatYAML dumps the resolved inputs and results
	OutputFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// EnvPrefix prefixes environment overrides, e.g. LOANSIM_SIMULATION_GRACEPERIOD
	EnvPrefix = "LOANSIM"
)

// CurrencyTolerance is the tolerance for currency comparisons (1 yen).
const CurrencyTolerance = 1.0

// Capacity solver defaults
const (
	// DefaultCapacityMaxIterations bounds the bisection loop
	DefaultCapacityMaxIterations = 60

	// DefaultCapacityMaxTerm is the longest term searched, in months
	DefaultCapacityMaxTerm = 360
)
