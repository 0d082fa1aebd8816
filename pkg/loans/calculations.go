// Package loans provides common annuity loan utilities.
package loans

import (
	"math"

	"github.com/iwvelando/hypotheek/pkg/constants"
	"github.com/iwvelando/hypotheek/pkg/mathutil"
)

// Payment holds the values for a given payment.
type Payment struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// PeriodicPayment is the level payment that repays principal over
// termMonths at the given rate per month. A zero rate repays linearly.
func PeriodicPayment(principal, periodicRate float64, termMonths int) float64 {
	if periodicRate == 0 {
		return principal / float64(termMonths)
	}
	power := math.Pow(1+periodicRate, float64(termMonths))
	return principal * periodicRate * power / (power - 1)
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
func CalculateMonthlyPayment(principal, annualInterestRate float64, termMonths int) float64 {
	return PeriodicPayment(principal, MonthlyInterestRate(annualInterestRate), termMonths)
}

// MonthlyInterestRate converts a yearly percentage into a nominal monthly rate.
func MonthlyInterestRate(annualInterestRate float64) float64 {
	return annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * MonthlyInterestRate(annualInterestRate)
}

// GenerateSchedule returns the amortization schedule of an annuity loan. The
// last payment absorbs rounding so the remaining principal ends at zero.
func GenerateSchedule(principal, annualInterestRate float64, termMonths int) []Payment {
	if termMonths <= 0 || principal <= 0 {
		return nil
	}

	payment := CalculateMonthlyPayment(principal, annualInterestRate, termMonths)
	schedule := make([]Payment, 0, termMonths)
	remaining := principal
	for month := 1; month <= termMonths; month++ {
		interest := CalculateInterestPayment(remaining, annualInterestRate)
		principalPart := payment - interest
		if month == termMonths || principalPart > remaining {
			principalPart = remaining
		}
		remaining -= principalPart
		if mathutil.IsZero(remaining) {
			remaining = 0
		}
		schedule = append(schedule, Payment{
			Month:              month,
			Payment:            principalPart + interest,
			Principal:          principalPart,
			Interest:           interest,
			RemainingPrincipal: remaining,
		})
	}
	return schedule
}

// InterestOver sums the interest paid in the first months of a schedule.
func InterestOver(schedule []Payment, months int) float64 {
	total := 0.0
	for i := 0; i < months && i < len(schedule); i++ {
		total += schedule[i].Interest
	}
	return total
}
