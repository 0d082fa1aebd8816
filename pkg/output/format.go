// Package output provides utilities for formatting and displaying calculation results.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/hypotheek/internal/assessment"
	"github.com/iwvelando/hypotheek/internal/rates"
	"github.com/iwvelando/hypotheek/internal/studentdebt"
	"github.com/iwvelando/hypotheek/pkg/format"
)

// PrettyFormat writes a human-readable report of an assessment.
func PrettyFormat(w io.Writer, a assessment.Assessment) error {
	m := a.Mortgage
	ew := &errWriter{w: w}
	ew.printf("--- Maximum mortgage (%s) ---\n", m.TableVersion)
	ew.printf("Test income          | %s\n", format.Euro(m.TestIncome))
	ew.printf("  of which zzp       | %s\n", format.Euro(a.ZZPIncome))
	ew.printf("Test rate            | %.3f%%\n", m.TestRate)
	ew.printf("Financing burden     | %.1f%%\n", m.AffordabilityPercentage*100)
	ew.printf("Housing budget       | %s per month\n", format.Euro(m.GrossHousingBudget))
	for i, fee := range a.StudentDebtFees {
		ew.printf("Student loan %d       | %s per month\n", i+1, format.Euro(fee))
	}
	ew.printf("Student debt impact  | -%s\n", format.WholeEuro(m.StudentDebtImpact))
	ew.printf("Energy label         | +%s\n", format.WholeEuro(m.EnergyLabelAddition))
	ew.printf("Maximum mortgage     | %s\n", format.WholeEuro(m.MaxMortgage))
	ew.printf("\n--- Purchase ---\n")
	ew.printf("Loan amount          | %s\n", format.Euro(a.LoanAmount))
	ew.printf("Affordable           | %s\n", yesNo(a.Affordable))
	ew.printf("Monthly payment      | %s gross\n", format.Euro(a.MonthlyPayment))
	ew.printf("First year interest  | %s\n", format.Euro(a.FirstYearInterest))
	ew.printf("Own contribution     | %s\n", format.Euro(a.Costs.OwnContribution))
	ew.printf("Overbid reserve      | %s\n", format.Euro(a.Costs.Overbid))
	ew.printf("NHG                  | %s\n", format.Euro(a.Costs.NHG))
	ew.printf("Valuation            | %s\n", format.Euro(a.Costs.Valuation))
	ew.printf("Notary               | %s\n", format.Euro(a.Costs.Notary))
	ew.printf("Total one-off costs  | %s\n", format.Euro(a.Costs.Total))
	if len(a.Warnings) > 0 {
		ew.printf("\n--- Warnings ---\n")
		for _, warning := range a.Warnings {
			ew.printf("- %s\n", warning)
		}
	}
	return ew.err
}

// CsvFormat writes an assessment as comma-separated field/value rows.
func CsvFormat(w io.Writer, a assessment.Assessment) error {
	m := a.Mortgage
	ew := &errWriter{w: w}
	ew.printf(`"field","value"` + "\n")
	row := func(name, value string) {
		ew.printf(`"%s","%s"`+"\n", name, value)
	}
	row("tableVersion", m.TableVersion)
	row("testIncome", format.Numeric(m.TestIncome))
	row("zzpIncome", format.Numeric(a.ZZPIncome))
	row("testRate", fmt.Sprintf("%.3f", m.TestRate))
	row("affordabilityPercentage", fmt.Sprintf("%.3f", m.AffordabilityPercentage))
	row("grossHousingBudget", format.Numeric(m.GrossHousingBudget))
	row("monthlyHousingBudget", format.Numeric(m.MonthlyHousingBudget))
	row("studentDebtMonthlyFee", format.Numeric(a.StudentDebtMonthlyFee))
	row("studentDebtImpact", format.Numeric(m.StudentDebtImpact))
	row("energyLabelAddition", format.Numeric(m.EnergyLabelAddition))
	row("maxMortgage", format.Numeric(m.MaxMortgage))
	row("loanAmount", format.Numeric(a.LoanAmount))
	row("monthlyPayment", format.Numeric(a.MonthlyPayment))
	row("firstYearInterest", format.Numeric(a.FirstYearInterest))
	row("affordable", fmt.Sprintf("%t", a.Affordable))
	row("ownContribution", format.Numeric(a.Costs.OwnContribution))
	row("overbid", format.Numeric(a.Costs.Overbid))
	row("nhg", format.Numeric(a.Costs.NHG))
	row("valuation", format.Numeric(a.Costs.Valuation))
	row("notary", format.Numeric(a.Costs.Notary))
	row("totalCosts", format.Numeric(a.Costs.Total))
	row("warnings", strings.Join(a.Warnings, "; "))
	return ew.err
}

// PrettySweep writes a human-readable rate sensitivity table.
func PrettySweep(w io.Writer, points []assessment.RatePoint) error {
	ew := &errWriter{w: w}
	ew.printf("Rate    | Test rate | Maximum mortgage | Student debt impact\n")
	ew.printf("____    | _________ | ________________ | ___________________\n")
	for _, p := range points {
		ew.printf("%.3f%% | %.3f%%    | %s | %s\n", p.InterestRate, p.TestRate,
			format.WholeEuro(p.MaxMortgage), format.WholeEuro(p.StudentDebtImpact))
	}
	return ew.err
}

// CsvSweep writes rate sensitivity points in comma-separated value format.
func CsvSweep(w io.Writer, points []assessment.RatePoint) error {
	ew := &errWriter{w: w}
	ew.printf(`"interestRate","testRate","maxMortgage","studentDebtImpact","monthlyHousingBudget"` + "\n")
	for _, p := range points {
		ew.printf(`"%.3f","%.3f","%s","%s","%s"`+"\n", p.InterestRate, p.TestRate,
			format.Numeric(p.MaxMortgage), format.Numeric(p.StudentDebtImpact), format.Numeric(p.MonthlyHousingBudget))
	}
	return ew.err
}

// PrettyStudentDebt writes a human-readable student debt result.
func PrettyStudentDebt(w io.Writer, r studentdebt.Result) error {
	ew := &errWriter{w: w}
	ew.printf("Amortized payment    | %s\n", format.Euro(r.AmortizedPayment))
	ew.printf("Income allowance     | %s\n", format.Euro(r.Allowance))
	ew.printf("Monthly fee          | %s\n", format.Euro(r.MonthlyFee))
	return ew.err
}

// CsvStudentDebt writes a student debt result in comma-separated value format.
func CsvStudentDebt(w io.Writer, r studentdebt.Result) error {
	ew := &errWriter{w: w}
	ew.printf(`"monthlyFee","amortizedPayment","allowance"` + "\n")
	ew.printf(`"%s","%s","%s"`+"\n", format.Numeric(r.MonthlyFee), format.Numeric(r.AmortizedPayment), format.Numeric(r.Allowance))
	return ew.err
}

// PrettyOffers writes market rate offers as a table.
func PrettyOffers(w io.Writer, offers []rates.Offer) error {
	ew := &errWriter{w: w}
	ew.printf("#   | Rate    | Provider\n")
	ew.printf("_   | ____    | ________\n")
	for i, offer := range offers {
		ew.printf("%-3d | %.3f%% | %s\n", i, offer.Rate, offer.Provider)
	}
	return ew.err
}

// CsvOffers writes market rate offers in comma-separated value format.
func CsvOffers(w io.Writer, offers []rates.Offer) error {
	ew := &errWriter{w: w}
	ew.printf(`"index","rate","provider"` + "\n")
	for i, offer := range offers {
		ew.printf(`"%d","%.3f","%s"`+"\n", i, offer.Rate, strings.ReplaceAll(offer.Provider, `"`, `""`))
	}
	return ew.err
}

// errWriter keeps the first write error so report bodies stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(formatStr string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, formatStr, args...)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
