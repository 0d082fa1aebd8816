package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/hypotheek/internal/domain"
	"github.com/iwvelando/hypotheek/pkg/constants"
)

const sampleConfig = `logging:
  level: debug
  format: console
output:
  format: csv
server:
  address: 127.0.0.1:9000
  maxBodySize: 128K
  readTimeout: 5s
rates:
  enabled: true
  baseURL: http://localhost:9999
  timeout: 2s
  cache:
    backend: sqlite
    ttl: 10m
    sqlitePath: /tmp/rates.db
household:
  fixedIncome: 42000
  zzpIncomes: [30000, 35000, 40000]
  studentLoans:
    - principal: 20000
      annualInterestRate: 2.56
      months: 420
  partnered: true
  housePrice: 400000
  loanToValue: 90
  fixedRatePeriod: 20
  interestRate: 3.9
  buildingType: Nieuwbouw
  energyLabel: A++
`

func TestLoadConfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
	if cfg.Output.Format != constants.OutputFormatCSV {
		t.Errorf("expected csv output, got %s", cfg.Output.Format)
	}
	if cfg.Server.Address != "127.0.0.1:9000" {
		t.Errorf("expected server address override, got %s", cfg.Server.Address)
	}
	if cfg.Server.BodySizeBytes() != 128*1024 {
		t.Errorf("expected 128K body limit, got %d", cfg.Server.BodySizeBytes())
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("expected 5s read timeout, got %s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 15*time.Second {
		t.Errorf("expected default write timeout, got %s", cfg.Server.WriteTimeout)
	}
	if !cfg.Rates.Enabled || cfg.Rates.BaseURL != "http://localhost:9999" || cfg.Rates.Timeout != 2*time.Second {
		t.Errorf("unexpected rates config %+v", cfg.Rates)
	}
	if cfg.Rates.Cache.Backend != constants.CacheBackendSQLite || cfg.Rates.Cache.TTL != 10*time.Minute {
		t.Errorf("unexpected cache config %+v", cfg.Rates.Cache)
	}

	h, err := cfg.Household.Household()
	if err != nil {
		t.Fatalf("Household() error = %v", err)
	}
	if h.FixedIncome != 42000 || len(h.ZZPIncomes) != 3 || !h.Partnered {
		t.Errorf("unexpected household %+v", h)
	}
	if len(h.StudentLoans) != 1 || h.StudentLoans[0].AnnualInterestRate != 2.56 || h.StudentLoans[0].Months != 420 {
		t.Errorf("unexpected student loans %+v", h.StudentLoans)
	}
	if h.BuildingType != domain.BuildingNew {
		t.Errorf("expected new building, got %s", h.BuildingType)
	}
	if h.EnergyLabel != domain.LabelA2Plus {
		t.Errorf("expected A++ label, got %s", h.EnergyLabel)
	}
	if h.FixedRatePeriodYears != 20 || h.InterestRate != 3.9 || h.LoanToValue != 90 {
		t.Errorf("unexpected mortgage terms %+v", h)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Output.Format != constants.OutputFormatPretty {
		t.Errorf("expected pretty output, got %s", cfg.Output.Format)
	}
	if cfg.Server.Address != constants.DefaultServerAddress {
		t.Errorf("expected default address, got %s", cfg.Server.Address)
	}
	if cfg.Server.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Errorf("expected default body size, got %d", cfg.Server.BodySizeBytes())
	}
	if cfg.Rates.Enabled {
		t.Errorf("expected rates disabled by default")
	}
	if cfg.Rates.Cache.Backend != constants.CacheBackendMemory {
		t.Errorf("expected memory cache, got %s", cfg.Rates.Cache.Backend)
	}
	if cfg.Rates.Cache.TTL != constants.DefaultRatesCacheTTLSeconds*time.Second {
		t.Errorf("unexpected cache ttl %s", cfg.Rates.Cache.TTL)
	}
	if cfg.Household.LoanToValue != 100 || cfg.Household.FixedRatePeriod != constants.StressTestPeriodYears {
		t.Errorf("unexpected household defaults %+v", cfg.Household)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("HYPOTHEEK_OUTPUT_FORMAT", "csv")
	t.Setenv("HYPOTHEEK_SERVER_ADDRESS", ":9191")

	cfg, err := LoadConfigurationFromReader(strings.NewReader("logging:\n  level: warn\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if cfg.Output.Format != "csv" {
		t.Errorf("expected env override for output format, got %s", cfg.Output.Format)
	}
	if cfg.Server.Address != ":9191" {
		t.Errorf("expected env override for server address, got %s", cfg.Server.Address)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected file value for logging level, got %s", cfg.Logging.Level)
	}
}

func TestLoadConfigurationRejectsBadBodySize(t *testing.T) {
	_, err := LoadConfigurationFromReader(strings.NewReader("server:\n  maxBodySize: huge\n"))
	if err == nil {
		t.Fatalf("expected error for invalid body size")
	}
}

func TestHouseholdRejectsUnknownBuildingType(t *testing.T) {
	_, err := HouseholdConfig{BuildingType: "castle"}.Household()
	if err == nil {
		t.Fatalf("expected error for unknown building type")
	}
}

func TestLoadTable(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatalf("Defaults() error = %v", err)
	}
	table, err := cfg.LoadTable()
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	if table.Version() == "" {
		t.Errorf("expected embedded table version")
	}

	cfg.Brackets.File = filepath.Join(t.TempDir(), "missing.csv")
	if _, err := cfg.LoadTable(); err == nil {
		t.Errorf("expected error for missing table file")
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	out, err := cfg.Dump()
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	reloaded, err := LoadConfigurationFromReader(strings.NewReader(string(out)))
	if err != nil {
		t.Fatalf("reloading dumped config: %v", err)
	}
	if reloaded.Household.EnergyLabel != "A++" || reloaded.Rates.Cache.SQLitePath != "/tmp/rates.db" {
		t.Errorf("dumped config lost values: %s", out)
	}
}

func TestExampleConfiguration(t *testing.T) {
	cfg, err := LoadConfiguration(filepath.Join("..", "..", constants.ExampleConfigFile))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	warnings, err := cfg.ValidateConfiguration()
	if err != nil {
		t.Fatalf("ValidateConfiguration() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings for the example, got %v", warnings)
	}

	h, err := cfg.Household.Household()
	if err != nil {
		t.Fatalf("Household() error = %v", err)
	}
	if h.EnergyLabel != domain.LabelA || h.BuildingType != domain.BuildingExisting {
		t.Errorf("unexpected label or building type in %+v", h)
	}
	if len(h.StudentLoans) != 2 {
		t.Errorf("expected two student loans, got %d", len(h.StudentLoans))
	}
	if cfg.Server.BodySizeBytes() != 64*1024 {
		t.Errorf("expected 64K body limit, got %d", cfg.Server.BodySizeBytes())
	}
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantErr     bool
		wantWarning string
	}{
		{
			name:    "Unknown output format",
			yaml:    "output:\n  format: xml\n",
			wantErr: true,
		},
		{
			name:    "Redis without address",
			yaml:    "rates:\n  cache:\n    backend: redis\n",
			wantErr: true,
		},
		{
			name:    "SQLite without path",
			yaml:    "rates:\n  cache:\n    backend: sqlite\n",
			wantErr: true,
		},
		{
			name:    "Unknown cache backend",
			yaml:    "rates:\n  cache:\n    backend: memcached\n",
			wantErr: true,
		},
		{
			name:    "Market rate while rates disabled",
			yaml:    "household:\n  useMarketRate: true\n",
			wantErr: true,
		},
		{
			name:    "Three student loans",
			yaml:    "household:\n  studentLoans:\n    - {principal: 1, months: 1}\n    - {principal: 1, months: 1}\n    - {principal: 1, months: 1}\n",
			wantErr: true,
		},
		{
			name:    "Unknown building type",
			yaml:    "household:\n  buildingType: castle\n",
			wantErr: true,
		},
		{
			name:        "Unknown energy label",
			yaml:        "household:\n  housePrice: 300000\n  energyLabel: Z\n",
			wantWarning: "energy label",
		},
		{
			name:        "Short fixed rate period",
			yaml:        "household:\n  housePrice: 300000\n  fixedRatePeriod: 5\n",
			wantWarning: "stress rate",
		},
		{
			name:        "No house price",
			yaml:        "household:\n  fixedIncome: 50000\n",
			wantWarning: "housePrice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfigurationFromReader(strings.NewReader(tt.yaml))
			if err != nil {
				t.Fatalf("LoadConfigurationFromReader() error = %v", err)
			}
			warnings, err := cfg.ValidateConfiguration()
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected validation error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			found := false
			for _, w := range warnings {
				if strings.Contains(w, tt.wantWarning) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected warning containing %q, got %v", tt.wantWarning, warnings)
			}
		})
	}
}

func TestValidateConfigurationNormalizesOutputFormat(t *testing.T) {
	cfg, err := LoadConfigurationFromReader(strings.NewReader("output:\n  format: \" CSV \"\nhousehold:\n  housePrice: 300000\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if _, err := cfg.ValidateConfiguration(); err != nil {
		t.Fatalf("ValidateConfiguration() error = %v", err)
	}
	if cfg.Output.Format != constants.OutputFormatCSV {
		t.Errorf("expected format %q, got %q", constants.OutputFormatCSV, cfg.Output.Format)
	}
}
