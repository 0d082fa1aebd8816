// Package constants provides shared constants for the hypotheek application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// AnnuityTermMonths is the 30-year term used to convert a monthly budget
	// into a principal amount.
	AnnuityTermMonths = 360

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// MaxPercentage is the upper bound accepted for any interest rate input.
	MaxPercentage = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Regulatory constants
const (
	// StressTestRate is the test rate used when the fixed-rate period is
	// shorter than StressTestPeriodYears.
	StressTestRate = 5.0

	// StressTestPeriodYears is the fixed-rate period below which the stress
	// test rate replaces the offered rate.
	StressTestPeriodYears = 10

	// StudentDebtExemptIncome is the yearly income exempt from student debt
	// repayment for a single person without children (2022).
	StudentDebtExemptIncome = 22356.00

	// StudentDebtPartnerFactor scales the exempt income for borrowers with a
	// partner (143% of minimum wage).
	StudentDebtPartnerFactor = 1.43

	// StudentDebtIncomeShare is the share of income above the exempt amount
	// that is due yearly.
	StudentDebtIncomeShare = 0.04
)

// One-off purchase cost constants
const (
	// OverbidShare is the expected overbid on the asking price.
	OverbidShare = 0.12

	// NHGCostShare is the National Mortgage Guarantee fee as a share of the mortgage.
	NHGCostShare = 0.006

	// NHGPriceLimit is the maximum house price eligible for the guarantee.
	NHGPriceLimit = 435000.0

	// ValuationCost applies to existing buildings only.
	ValuationCost = 800.0

	// NotaryCost covers the notary and land registry.
	NotaryCost = 1600.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "HYPOTHEEK"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024
)

// Rate provider defaults
const (
	// DefaultRatesBaseURL is the market rate provider.
	DefaultRatesBaseURL = "https://api.hypotheker.nl"

	// RatesPath is the offers endpoint below the base URL.
	RatesPath = "/v2/interestrates/hypotheekaanbieders/"

	// DefaultRatesCacheTTLSeconds is how long provider responses are reused.
	DefaultRatesCacheTTLSeconds = 3600

	// DefaultRatesTimeoutSeconds bounds a single provider request.
	DefaultRatesTimeoutSeconds = 10

	// CacheBackendMemory keeps responses in process memory.
	CacheBackendMemory = "memory"

	// CacheBackendRedis keeps responses in redis.
	CacheBackendRedis = "redis"

	// CacheBackendSQLite keeps responses in a sqlite file.
	CacheBackendSQLite = "sqlite"

	// CacheBackendNone disables caching.
	CacheBackendNone = "none"
)
