package main

import (
	"context"
	"fmt"
	"io"

	"github.com/iwvelando/hypotheek/internal/assessment"
	"github.com/iwvelando/hypotheek/internal/domain"
	"github.com/iwvelando/hypotheek/internal/mortgage"
	"github.com/iwvelando/hypotheek/internal/rates"
	"github.com/iwvelando/hypotheek/pkg/constants"
	"go.uber.org/zap"
)

func (a *app) calculator() (*mortgage.Calculator, error) {
	table, err := a.conf.LoadTable()
	if err != nil {
		return nil, fmt.Errorf("failed to load affordability table: %w", err)
	}
	a.logger.Debug("loaded affordability table",
		zap.String("op", "main.calculator"),
		zap.String("version", table.Version()),
		zap.Int("incomeBrackets", len(table.IncomeThresholds())),
		zap.Int("rateBrackets", len(table.RateThresholds())),
	)
	return mortgage.NewCalculator(a.logger, table)
}

func (a *app) assessor() (*assessment.Assessor, error) {
	calc, err := a.calculator()
	if err != nil {
		return nil, err
	}
	return assessment.NewAssessor(a.logger, calc), nil
}

// rateClient returns nil when market rates are disabled. The returned
// function releases the cache.
func (a *app) rateClient() (*rates.Client, func(), error) {
	if !a.conf.Rates.Enabled {
		return nil, func() {}, nil
	}

	cacheConf := a.conf.Rates.Cache
	cache, closeCache, err := rates.OpenCache(cacheConf.Backend, cacheConf.RedisAddress, cacheConf.SQLitePath)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to open rate cache: %w", err)
	}
	release := func() {
		if err := closeCache(); err != nil {
			a.logger.Warn("failed to close rate cache",
				zap.String("op", "main.rateClient"),
				zap.Error(err),
			)
		}
	}

	client := rates.NewClient(a.logger, rates.Options{
		BaseURL:  a.conf.Rates.BaseURL,
		Timeout:  a.conf.Rates.Timeout,
		CacheTTL: cacheConf.TTL,
		Cache:    cache,
	})
	return client, release, nil
}

// household returns the configured household, replacing the interest rate
// with a market offer when useMarketRate is set.
func (a *app) household(ctx context.Context) (assessment.Household, error) {
	h, err := a.conf.Household.Household()
	if err != nil {
		return assessment.Household{}, err
	}
	if !a.conf.Household.UseMarketRate {
		return h, nil
	}

	client, release, err := a.rateClient()
	if err != nil {
		return assessment.Household{}, err
	}
	defer release()
	if client == nil {
		return assessment.Household{}, fmt.Errorf("market rates are disabled")
	}

	offers, err := client.Offers(ctx, rates.Filter{
		LTVBand:              domain.BandForLTV(h.LoanToValue),
		FixedRatePeriodYears: h.FixedRatePeriodYears,
		BuildingType:         h.BuildingType,
		EnergyLabel:          h.EnergyLabel,
		Form:                 domain.FormAnnuity,
	})
	if err != nil {
		return assessment.Household{}, fmt.Errorf("failed to fetch market rates: %w", err)
	}
	rate, err := rates.SelectRate(offers, a.conf.Household.OfferIndex)
	if err != nil {
		return assessment.Household{}, err
	}

	a.logger.Info("using market rate",
		zap.String("op", "main.household"),
		zap.Float64("rate", rate),
		zap.String("provider", offers[a.conf.Household.OfferIndex].Provider),
	)
	h.InterestRate = rate
	return h, nil
}

// write dispatches to the pretty or csv renderer.
func (a *app) write(w io.Writer, pretty, csv func(io.Writer) error) error {
	switch a.outputFormat {
	case constants.OutputFormatCSV:
		return csv(w)
	default:
		return pretty(w)
	}
}
