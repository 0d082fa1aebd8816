// Package assessment combines the student debt and mortgage calculators into
// a full household assessment, including the one-off costs of a purchase.
package assessment

import (
	"fmt"

	"github.com/iwvelando/hypotheek/internal/domain"
	"github.com/iwvelando/hypotheek/internal/mortgage"
	"github.com/iwvelando/hypotheek/internal/studentdebt"
	"github.com/iwvelando/hypotheek/pkg/constants"
	"github.com/iwvelando/hypotheek/pkg/loans"
	"github.com/iwvelando/hypotheek/pkg/mathutil"
	"github.com/iwvelando/hypotheek/pkg/validation"
	"go.uber.org/zap"
)

// MaxStudentLoans is the number of separately assessed student loans.
const MaxStudentLoans = 2

// StudentLoan is one outstanding student loan.
type StudentLoan struct {
	Principal          float64 `json:"principal" yaml:"principal" mapstructure:"principal"`
	AnnualInterestRate float64 `json:"annualInterestRate" yaml:"annualInterestRate" mapstructure:"annualInterestRate"`
	Months             int     `json:"months" yaml:"months" mapstructure:"months"`
}

// Household holds everything needed to assess a purchase.
type Household struct {
	FixedIncome          float64             `json:"fixedIncome"`
	ZZPIncomes           []float64           `json:"zzpIncomes"` // self-employed income, last three years
	StudentLoans         []StudentLoan       `json:"studentLoans"`
	Partnered            bool                `json:"partnered"`
	HousePrice           float64             `json:"housePrice"`
	LoanToValue          float64             `json:"loanToValue"` // percent of the house price borrowed
	FixedRatePeriodYears int                 `json:"fixedRatePeriodYears"`
	InterestRate         float64             `json:"interestRate"`
	BuildingType         domain.BuildingType `json:"buildingType"`
	EnergyLabel          domain.EnergyLabel  `json:"energyLabel"`
}

// OneOffCosts are paid in cash at purchase.
type OneOffCosts struct {
	OwnContribution float64 `json:"ownContribution"`
	Overbid         float64 `json:"overbid"`
	NHG             float64 `json:"nhg"`
	Valuation       float64 `json:"valuation"`
	Notary          float64 `json:"notary"`
	Total           float64 `json:"total"`
}

// Assessment is the outcome for a household.
type Assessment struct {
	ZZPIncome             float64         `json:"zzpIncome"`
	TotalIncome           float64         `json:"totalIncome"`
	StudentDebtFees       []float64       `json:"studentDebtFees"`
	StudentDebtMonthlyFee float64         `json:"studentDebtMonthlyFee"`
	Mortgage              mortgage.Result `json:"mortgage"`
	LoanAmount            float64         `json:"loanAmount"`
	MonthlyPayment        float64         `json:"monthlyPayment"`    // gross annuity on LoanAmount at InterestRate
	FirstYearInterest     float64         `json:"firstYearInterest"` // interest paid in the first twelve payments
	Affordable            bool            `json:"affordable"`
	Costs                 OneOffCosts     `json:"costs"`
	Warnings              []string        `json:"warnings,omitempty"`
}

// Assessor runs assessments against one mortgage calculator.
type Assessor struct {
	calc   *mortgage.Calculator
	logger *zap.Logger
}

// NewAssessor creates an Assessor.
func NewAssessor(logger *zap.Logger, calc *mortgage.Calculator) *Assessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assessor{calc: calc, logger: logger}
}

// Validate checks the household fields the calculators do not see.
func (h Household) Validate() error {
	if len(h.StudentLoans) > MaxStudentLoans {
		return fmt.Errorf("at most %d student loans are supported, got %d", MaxStudentLoans, len(h.StudentLoans))
	}
	errs := []error{
		validation.NonNegative("housePrice", h.HousePrice),
		validation.Percentage("loanToValue", h.LoanToValue),
	}
	for _, income := range h.ZZPIncomes {
		errs = append(errs, validation.NonNegative("zzpIncome", income))
	}
	for _, loan := range h.StudentLoans {
		errs = append(errs, validation.NonNegative("studentLoanPrincipal", loan.Principal))
	}
	return validation.First(errs...)
}

// ZZPIncome averages the self-employed income over the years given.
func (h Household) ZZPIncome() float64 {
	return mathutil.Mean(h.ZZPIncomes...)
}

// TotalIncome is the fixed income plus the self-employed average.
func (h Household) TotalIncome() float64 {
	return h.FixedIncome + h.ZZPIncome()
}

// LoanAmount is the part of the house price that is borrowed.
func (h Household) LoanAmount() float64 {
	return mathutil.ApplyPercentage(h.HousePrice, h.LoanToValue)
}

// Assess computes student debt fees, the maximum mortgage and the one-off
// costs for the household.
func (a *Assessor) Assess(h Household) (Assessment, error) {
	if err := h.Validate(); err != nil {
		return Assessment{}, err
	}

	fees, err := StudentDebtFees(h)
	if err != nil {
		return Assessment{}, fmt.Errorf("failed to compute student debt fees: %w", err)
	}
	totalFee := 0.0
	for _, fee := range fees {
		totalFee += fee
	}

	result, err := a.calc.Compute(h.mortgageQuery(totalFee, h.InterestRate))
	if err != nil {
		return Assessment{}, fmt.Errorf("failed to compute maximum mortgage: %w", err)
	}

	assessment := Assessment{
		ZZPIncome:             h.ZZPIncome(),
		TotalIncome:           h.TotalIncome(),
		StudentDebtFees:       fees,
		StudentDebtMonthlyFee: totalFee,
		Mortgage:              result,
		LoanAmount:            h.LoanAmount(),
		Costs:                 Costs(h, result.MaxMortgage),
	}
	assessment.MonthlyPayment = loans.CalculateMonthlyPayment(assessment.LoanAmount, h.InterestRate, constants.AnnuityTermMonths)
	schedule := loans.GenerateSchedule(assessment.LoanAmount, h.InterestRate, constants.AnnuityTermMonths)
	assessment.FirstYearInterest = loans.InterestOver(schedule, constants.MonthsPerYear)
	assessment.Affordable = assessment.LoanAmount <= result.MaxMortgage

	if h.FixedRatePeriodYears < constants.StressTestPeriodYears {
		assessment.Warnings = append(assessment.Warnings,
			fmt.Sprintf("fixed-rate period shorter than %d years, test rate is %.0f%%",
				constants.StressTestPeriodYears, constants.StressTestRate))
	}
	if h.LoanToValue < 100 {
		assessment.Warnings = append(assessment.Warnings,
			fmt.Sprintf("own contribution of %.0f, offered rates drop at every 10%% loan-to-value step", assessment.Costs.OwnContribution))
	}
	if !assessment.Affordable {
		assessment.Warnings = append(assessment.Warnings,
			fmt.Sprintf("loan amount %.0f exceeds the maximum mortgage %.0f", assessment.LoanAmount, result.MaxMortgage))
	}

	a.logger.Debug("assessed household",
		zap.String("op", "assessment.Assess"),
		zap.Float64("totalIncome", assessment.TotalIncome),
		zap.Float64("studentDebtMonthlyFee", totalFee),
		zap.Float64("maxMortgage", result.MaxMortgage),
		zap.Bool("affordable", assessment.Affordable),
	)
	return assessment, nil
}

// StudentDebtFees returns the monthly fee per assessed loan. Partners are
// assessed once over the combined principal at the first loan's terms and
// the total income. Otherwise the first loan is tested against the fixed
// income plus the first self-employed year and the second loan against the
// remaining two years.
func StudentDebtFees(h Household) ([]float64, error) {
	if len(h.StudentLoans) == 0 {
		return []float64{}, nil
	}

	if h.Partnered {
		first := h.StudentLoans[0]
		principal := 0.0
		for _, loan := range h.StudentLoans {
			principal += loan.Principal
		}
		if principal == 0 {
			return []float64{0}, nil
		}
		fee, err := studentdebt.MonthlyFee(principal, first.AnnualInterestRate, first.Months, h.TotalIncome(), true)
		if err != nil {
			return nil, err
		}
		return []float64{fee}, nil
	}

	incomes := []float64{
		h.FixedIncome + zzpYear(h.ZZPIncomes, 0),
		zzpYear(h.ZZPIncomes, 1) + zzpYear(h.ZZPIncomes, 2),
	}
	fees := make([]float64, 0, len(h.StudentLoans))
	for i, loan := range h.StudentLoans {
		if loan.Principal == 0 {
			fees = append(fees, 0)
			continue
		}
		fee, err := studentdebt.MonthlyFee(loan.Principal, loan.AnnualInterestRate, loan.Months, incomes[i], false)
		if err != nil {
			return nil, fmt.Errorf("student loan %d: %w", i+1, err)
		}
		fees = append(fees, fee)
	}
	return fees, nil
}

// Costs returns the one-off purchase costs. The guarantee fee only applies
// below the price limit and valuation only for existing buildings.
func Costs(h Household, maxMortgage float64) OneOffCosts {
	costs := OneOffCosts{
		OwnContribution: h.HousePrice - h.LoanAmount(),
		Overbid:         h.HousePrice * constants.OverbidShare,
		Notary:          constants.NotaryCost,
	}
	if h.HousePrice <= constants.NHGPriceLimit {
		costs.NHG = maxMortgage * constants.NHGCostShare
	}
	if !h.BuildingType.IsNew() {
		costs.Valuation = constants.ValuationCost
	}
	costs.Total = costs.OwnContribution + costs.Overbid + costs.NHG + costs.Valuation + costs.Notary
	return costs
}

func (h Household) mortgageQuery(studentDebtFee, interestRate float64) mortgage.Query {
	return mortgage.Query{
		PrimaryIncome:         h.FixedIncome,
		SecondaryIncome:       h.ZZPIncome(),
		StudentDebtMonthlyFee: studentDebtFee,
		InterestRate:          interestRate,
		FixedRatePeriodYears:  h.FixedRatePeriodYears,
		EnergyLabel:           h.EnergyLabel,
		BuildingType:          h.BuildingType,
	}
}

func zzpYear(incomes []float64, year int) float64 {
	if year < len(incomes) {
		return incomes[year]
	}
	return 0
}
