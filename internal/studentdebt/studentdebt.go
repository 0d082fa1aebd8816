// Package studentdebt computes the income-tested monthly repayment on a
// government student loan.
package studentdebt

import (
	"math"

	"github.com/iwvelando/hypotheek/pkg/constants"
	"github.com/iwvelando/hypotheek/pkg/loans"
	"github.com/iwvelando/hypotheek/pkg/mathutil"
	"github.com/iwvelando/hypotheek/pkg/validation"
)

// Query holds the inputs for a single student loan.
type Query struct {
	Principal          float64 `json:"principal"`
	AnnualInterestRate float64 `json:"annualInterestRate"` // percent
	NumMonths          int     `json:"numMonths"`
	Income             float64 `json:"income"` // yearly
	HasPartner         bool    `json:"hasPartner"`
}

// Result holds the monthly fee along with the two amounts it was capped
// between.
type Result struct {
	MonthlyFee       float64 `json:"monthlyFee"`
	AmortizedPayment float64 `json:"amortizedPayment"`
	Allowance        float64 `json:"allowance"`
}

// Validate rejects inputs that would produce meaningless payments.
func (q Query) Validate() error {
	return validation.First(
		validation.NonNegative("principal", q.Principal),
		validation.Percentage("annualInterestRate", q.AnnualInterestRate),
		validation.Positive("numMonths", float64(q.NumMonths)),
		validation.NonNegative("income", q.Income),
	)
}

// Compute returns the monthly fee for the query.
func Compute(q Query) (Result, error) {
	if err := q.Validate(); err != nil {
		return Result{}, err
	}
	payment := amortizedPayment(q.Principal, q.AnnualInterestRate, q.NumMonths)
	allowance := meansTestedAllowance(q.Income, q.HasPartner)
	return Result{
		MonthlyFee:       mathutil.Min(payment, allowance),
		AmortizedPayment: payment,
		Allowance:        allowance,
	}, nil
}

// MonthlyRate converts an annual percentage into the equivalent monthly
// compounding rate.
func MonthlyRate(annualRatePercent float64) (float64, error) {
	if err := validation.Percentage("annualInterestRate", annualRatePercent); err != nil {
		return 0, err
	}
	return monthlyRate(annualRatePercent), nil
}

// AmortizedPayment is the contractual monthly payment that repays principal
// over numMonths, ignoring income.
func AmortizedPayment(principal, annualRatePercent float64, numMonths int) (float64, error) {
	if err := validation.First(
		validation.NonNegative("principal", principal),
		validation.Percentage("annualInterestRate", annualRatePercent),
		validation.Positive("numMonths", float64(numMonths)),
	); err != nil {
		return 0, err
	}
	return amortizedPayment(principal, annualRatePercent, numMonths), nil
}

// MeansTestedAllowance is the monthly amount the borrower can be asked to
// repay given their yearly income.
func MeansTestedAllowance(income float64, hasPartner bool) (float64, error) {
	if err := validation.NonNegative("income", income); err != nil {
		return 0, err
	}
	return meansTestedAllowance(income, hasPartner), nil
}

// MonthlyFee returns the lesser of the amortized payment and the means-tested
// allowance. A zero allowance yields a zero fee.
func MonthlyFee(principal, annualRatePercent float64, numMonths int, income float64, hasPartner bool) (float64, error) {
	result, err := Compute(Query{
		Principal:          principal,
		AnnualInterestRate: annualRatePercent,
		NumMonths:          numMonths,
		Income:             income,
		HasPartner:         hasPartner,
	})
	if err != nil {
		return 0, err
	}
	return result.MonthlyFee, nil
}

// ExemptIncome is the yearly income below which nothing is due.
func ExemptIncome(hasPartner bool) float64 {
	if hasPartner {
		return mathutil.Round(constants.StudentDebtExemptIncome * constants.StudentDebtPartnerFactor)
	}
	return constants.StudentDebtExemptIncome
}

func monthlyRate(annualRatePercent float64) float64 {
	return math.Pow(1+annualRatePercent/constants.PercentageMultiplier, 1.0/constants.MonthsPerYear) - 1
}

func amortizedPayment(principal, annualRatePercent float64, numMonths int) float64 {
	return loans.PeriodicPayment(principal, monthlyRate(annualRatePercent), numMonths)
}

func meansTestedAllowance(income float64, hasPartner bool) float64 {
	exempt := ExemptIncome(hasPartner)
	if income <= exempt {
		return 0
	}
	return (income - exempt) * constants.StudentDebtIncomeShare / constants.MonthsPerYear
}
