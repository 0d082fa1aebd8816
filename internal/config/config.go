// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/iwvelando/hypotheek/internal/assessment"
	"github.com/iwvelando/hypotheek/internal/brackets"
	"github.com/iwvelando/hypotheek/internal/domain"
	"github.com/iwvelando/hypotheek/internal/server"
	"github.com/iwvelando/hypotheek/pkg/constants"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Configuration holds all configuration for hypotheek.
type Configuration struct {
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
	Output    OutputConfig    `yaml:"output,omitempty"`
	Brackets  BracketsConfig  `yaml:"brackets,omitempty"`
	Server    server.Config   `yaml:"server,omitempty"`
	Rates     RatesConfig     `yaml:"rates,omitempty"`
	Household HouseholdConfig `yaml:"household,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// BracketsConfig points at the affordability table. An empty File selects
// the table embedded in the binary.
type BracketsConfig struct {
	File string `yaml:"file,omitempty"`
}

// RatesConfig configures the market rate provider.
type RatesConfig struct {
	Enabled bool          `yaml:"enabled"`
	BaseURL string        `yaml:"baseURL,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
	Cache   CacheConfig   `yaml:"cache,omitempty"`
}

// CacheConfig selects where provider responses are kept.
type CacheConfig struct {
	Backend      string        `yaml:"backend,omitempty"` // memory, redis, sqlite, none
	TTL          time.Duration `yaml:"ttl,omitempty"`
	RedisAddress string        `yaml:"redisAddress,omitempty"`
	SQLitePath   string        `yaml:"sqlitePath,omitempty"`
}

// HouseholdConfig holds the household assessed by the calculate command.
type HouseholdConfig struct {
	FixedIncome     float64                  `yaml:"fixedIncome"`
	ZZPIncomes      []float64                `yaml:"zzpIncomes,omitempty"`
	StudentLoans    []assessment.StudentLoan `yaml:"studentLoans,omitempty"`
	Partnered       bool                     `yaml:"partnered"`
	HousePrice      float64                  `yaml:"housePrice"`
	LoanToValue     float64                  `yaml:"loanToValue"`
	FixedRatePeriod int                      `yaml:"fixedRatePeriod"`
	InterestRate    float64                  `yaml:"interestRate"`
	BuildingType    string                   `yaml:"buildingType,omitempty"`
	EnergyLabel     string                   `yaml:"energyLabel,omitempty"`
	UseMarketRate   bool                     `yaml:"useMarketRate"`
	OfferIndex      int                      `yaml:"offerIndex"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("brackets.file", "")
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxBodySize", fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes))
	v.SetDefault("server.readTimeout", 15*time.Second)
	v.SetDefault("server.writeTimeout", 15*time.Second)
	v.SetDefault("rates.enabled", false)
	v.SetDefault("rates.baseURL", constants.DefaultRatesBaseURL)
	v.SetDefault("rates.timeout", constants.DefaultRatesTimeoutSeconds*time.Second)
	v.SetDefault("rates.cache.backend", constants.CacheBackendMemory)
	v.SetDefault("rates.cache.ttl", constants.DefaultRatesCacheTTLSeconds*time.Second)
	v.SetDefault("rates.cache.redisAddress", "")
	v.SetDefault("rates.cache.sqlitePath", "")
	v.SetDefault("household.loanToValue", 100)
	v.SetDefault("household.fixedRatePeriod", constants.StressTestPeriodYears)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

// Defaults returns the configuration used when no file is present.
func Defaults() (*Configuration, error) {
	return LoadConfigurationFromReader(bytes.NewReader(nil))
}

// LoadOrDefault loads configPath, falling back to defaults (plus environment
// overrides) when the file does not exist.
func LoadOrDefault(configPath string) (*Configuration, error) {
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return Defaults()
	}
	return LoadConfiguration(configPath)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	if err := configuration.Server.Normalize(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}
	return &configuration, nil
}

// LoadTable returns the configured affordability table.
func (c *Configuration) LoadTable() (*brackets.Table, error) {
	if c.Brackets.File == "" {
		return brackets.Default()
	}
	return brackets.LoadFile(c.Brackets.File)
}

// Household converts the configured household into an assessment input.
func (h HouseholdConfig) Household() (assessment.Household, error) {
	building, err := domain.ParseBuildingType(h.BuildingType)
	if err != nil {
		return assessment.Household{}, err
	}
	// Unknown labels earn no bonus; ValidateConfiguration warns about them.
	label, _ := domain.ParseEnergyLabel(h.EnergyLabel)
	return assessment.Household{
		FixedIncome:          h.FixedIncome,
		ZZPIncomes:           append([]float64(nil), h.ZZPIncomes...),
		StudentLoans:         append([]assessment.StudentLoan(nil), h.StudentLoans...),
		Partnered:            h.Partnered,
		HousePrice:           h.HousePrice,
		LoanToValue:          h.LoanToValue,
		FixedRatePeriodYears: h.FixedRatePeriod,
		InterestRate:         h.InterestRate,
		BuildingType:         building,
		EnergyLabel:          label,
	}, nil
}

// Dump renders the configuration as YAML.
func (c *Configuration) Dump() ([]byte, error) {
	return yaml.Marshal(c)
}
