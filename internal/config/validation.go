package config

import (
	"fmt"

	"github.com/iwvelando/hypotheek/internal/domain"
	"github.com/iwvelando/hypotheek/pkg/constants"
	"github.com/iwvelando/hypotheek/pkg/validation"
)

// ValidateConfiguration checks the configuration for settings that cannot
// work. It returns warnings for settings that are accepted but unusual.
func (c *Configuration) ValidateConfiguration() ([]string, error) {
	var warnings []string

	format, err := validation.ParseOutputFormat(c.Output.Format)
	if err != nil {
		return nil, err
	}
	c.Output.Format = format

	switch c.Rates.Cache.Backend {
	case "", constants.CacheBackendMemory, constants.CacheBackendNone:
	case constants.CacheBackendRedis:
		if c.Rates.Cache.RedisAddress == "" {
			return nil, fmt.Errorf("rates.cache.redisAddress is required for the redis backend")
		}
	case constants.CacheBackendSQLite:
		if c.Rates.Cache.SQLitePath == "" {
			return nil, fmt.Errorf("rates.cache.sqlitePath is required for the sqlite backend")
		}
	default:
		return nil, fmt.Errorf("unknown rates.cache.backend %q", c.Rates.Cache.Backend)
	}

	h := c.Household
	if _, ok := domain.ParseEnergyLabel(h.EnergyLabel); !ok {
		warnings = append(warnings, fmt.Sprintf("energy label %q is unknown and earns no bonus", h.EnergyLabel))
	}
	if h.UseMarketRate && !c.Rates.Enabled {
		return nil, fmt.Errorf("household.useMarketRate requires rates.enabled")
	}
	if h.UseMarketRate && h.OfferIndex < 0 {
		return nil, fmt.Errorf("household.offerIndex must not be negative")
	}
	household, err := h.Household()
	if err != nil {
		return nil, err
	}
	if err := household.Validate(); err != nil {
		return nil, fmt.Errorf("invalid household: %w", err)
	}
	if h.FixedRatePeriod < constants.StressTestPeriodYears {
		warnings = append(warnings, fmt.Sprintf("fixed rate period of %d years is assessed at the %.1f%% stress rate",
			h.FixedRatePeriod, constants.StressTestRate))
	}
	if h.HousePrice == 0 {
		warnings = append(warnings, "household.housePrice is not set, one-off costs will be zero")
	}

	return warnings, nil
}
