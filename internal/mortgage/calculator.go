// Package mortgage computes the maximum mortgage a household can carry from
// its test income, student debt payments and the interest rate.
package mortgage

import (
	"fmt"

	"github.com/iwvelando/hypotheek/internal/brackets"
	"github.com/iwvelando/hypotheek/internal/domain"
	"github.com/iwvelando/hypotheek/pkg/constants"
	"github.com/iwvelando/hypotheek/pkg/loans"
	"github.com/iwvelando/hypotheek/pkg/mathutil"
	"github.com/iwvelando/hypotheek/pkg/validation"
	"go.uber.org/zap"
)

// Query holds the inputs for one affordability calculation.
type Query struct {
	PrimaryIncome         float64             `json:"primaryIncome"`
	SecondaryIncome       float64             `json:"secondaryIncome"`
	StudentDebtMonthlyFee float64             `json:"studentDebtMonthlyFee"`
	InterestRate          float64             `json:"interestRate"` // percent
	FixedRatePeriodYears  int                 `json:"fixedRatePeriodYears"`
	EnergyLabel           domain.EnergyLabel  `json:"energyLabel"`
	BuildingType          domain.BuildingType `json:"buildingType"`
}

// Result holds the outcome of a calculation. MonthlyHousingBudget is the
// monthly amount left for mortgage payments after the grossed-up student
// debt; GrossHousingBudget is the amount before it.
type Result struct {
	MaxMortgage          float64 `json:"maxMortgage"`
	StudentDebtImpact    float64 `json:"studentDebtImpact"`
	EnergyLabelAddition  float64 `json:"energyLabelAddition"`
	MonthlyHousingBudget float64 `json:"monthlyHousingBudget"`

	GrossHousingBudget      float64 `json:"grossHousingBudget"`
	TestIncome              float64 `json:"testIncome"`
	TestRate                float64 `json:"testRate"`
	AffordabilityPercentage float64 `json:"affordabilityPercentage"`
	GrossingFactor          float64 `json:"grossingFactor"`
	AnnuityFactor           float64 `json:"annuityFactor"`
	TableVersion            string  `json:"tableVersion"`
}

// Calculator applies the affordability rules against one bracket table. It
// holds no mutable state and is safe for concurrent use.
type Calculator struct {
	table  *brackets.Table
	logger *zap.Logger
}

// NewCalculator creates a calculator that looks up percentages in table.
func NewCalculator(logger *zap.Logger, table *brackets.Table) (*Calculator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if table == nil {
		return nil, fmt.Errorf("mortgage calculator requires a bracket table")
	}
	return &Calculator{table: table, logger: logger}, nil
}

// Table returns the bracket table the calculator uses.
func (c *Calculator) Table() *brackets.Table {
	return c.table
}

// Validate rejects negative amounts and rates outside [0, 100].
func (q Query) Validate() error {
	return validation.First(
		validation.NonNegative("primaryIncome", q.PrimaryIncome),
		validation.NonNegative("secondaryIncome", q.SecondaryIncome),
		validation.NonNegative("studentDebtMonthlyFee", q.StudentDebtMonthlyFee),
		validation.Percentage("interestRate", q.InterestRate),
		validation.NonNegative("fixedRatePeriodYears", float64(q.FixedRatePeriodYears)),
	)
}

// Compute runs the full calculation. A bracket lookup outside the table is
// returned as *brackets.OutOfRangeError; no partial result is returned.
func (c *Calculator) Compute(q Query) (Result, error) {
	if err := q.Validate(); err != nil {
		return Result{}, err
	}

	testIncome := q.PrimaryIncome + q.SecondaryIncome
	testRate := TestRate(q.InterestRate, q.FixedRatePeriodYears)

	percentage, err := c.table.Lookup(testIncome, testRate)
	if err != nil {
		return Result{}, fmt.Errorf("affordability percentage for income %.2f at %.3f%%: %w", testIncome, testRate, err)
	}

	grossBudget := testIncome * percentage / constants.MonthsPerYear
	grossing := GrossingFactor(q.InterestRate)
	grossedDebt := q.StudentDebtMonthlyFee * grossing
	annuity := AnnuityFactor(testRate)
	energy := q.EnergyLabel.Bonus()

	netBudget := grossBudget - grossedDebt
	result := Result{
		MaxMortgage:             mathutil.RoundWhole(netBudget/annuity) + energy,
		StudentDebtImpact:       mathutil.RoundWhole(grossedDebt / annuity),
		EnergyLabelAddition:     energy,
		MonthlyHousingBudget:    netBudget,
		GrossHousingBudget:      grossBudget,
		TestIncome:              testIncome,
		TestRate:                testRate,
		AffordabilityPercentage: percentage,
		GrossingFactor:          grossing,
		AnnuityFactor:           annuity,
		TableVersion:            c.table.Version(),
	}

	c.logger.Debug("computed maximum mortgage",
		zap.String("op", "mortgage.Compute"),
		zap.Float64("testIncome", testIncome),
		zap.Float64("testRate", testRate),
		zap.Float64("percentage", percentage),
		zap.Float64("maxMortgage", result.MaxMortgage),
	)
	return result, nil
}

// MaxMortgage is the positional form of Compute, returning the maximum
// mortgage, the student debt impact, the energy label addition and the net
// monthly housing budget.
func (c *Calculator) MaxMortgage(primaryIncome, secondaryIncome, studentDebtMonthlyFee, interestRate float64,
	fixedRatePeriodYears int, label domain.EnergyLabel) (float64, float64, float64, float64, error) {
	result, err := c.Compute(Query{
		PrimaryIncome:         primaryIncome,
		SecondaryIncome:       secondaryIncome,
		StudentDebtMonthlyFee: studentDebtMonthlyFee,
		InterestRate:          interestRate,
		FixedRatePeriodYears:  fixedRatePeriodYears,
		EnergyLabel:           label,
	})
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return result.MaxMortgage, result.StudentDebtImpact, result.EnergyLabelAddition, result.MonthlyHousingBudget, nil
}

// TestRate substitutes the stress test rate for fixed-rate periods shorter
// than ten years.
func TestRate(interestRate float64, fixedRatePeriodYears int) float64 {
	if fixedRatePeriodYears < constants.StressTestPeriodYears {
		return constants.StressTestRate
	}
	return interestRate
}

// GrossingFactor weighs student debt payments heavier as the market rate rises.
func GrossingFactor(interestRate float64) float64 {
	switch {
	case interestRate <= 2.0:
		return 1.05
	case interestRate <= 2.5:
		return 1.10
	case interestRate <= 3.0:
		return 1.15
	case interestRate <= 4.0:
		return 1.20
	case interestRate <= 4.5:
		return 1.25
	case interestRate <= 5.5:
		return 1.30
	case interestRate <= 6.0:
		return 1.35
	default:
		return 1.40
	}
}

// AnnuityFactor is the monthly payment per unit of principal on a 30-year
// annuity at the given yearly rate. Monthly rate is rate/100/12.
func AnnuityFactor(testRate float64) float64 {
	monthly := testRate / constants.PercentageMultiplier / constants.MonthsPerYear
	return loans.PeriodicPayment(1, monthly, constants.AnnuityTermMonths)
}
