package studentdebt

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/hypotheek/pkg/validation"
)

func TestMonthlyRate(t *testing.T) {
	tests := []struct {
		name     string
		annual   float64
		expected float64
	}{
		{"Zero", 0, 0},
		{"Compounding, not divided by twelve", 2.56, 0.0021087041279623797},
		{"Twelve percent", 12, 0.009488792934583046},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MonthlyRate(tt.annual)
			if err != nil {
				t.Fatalf("MonthlyRate(%v) error = %v", tt.annual, err)
			}
			if math.Abs(result-tt.expected) > 1e-12 {
				t.Errorf("MonthlyRate(%v) = %v, expected %v", tt.annual, result, tt.expected)
			}
		})
	}
}

func TestMonthlyRateRejectsInvalidRates(t *testing.T) {
	for _, annual := range []float64{-200, -0.01, 100.01, math.NaN(), math.Inf(1)} {
		_, err := MonthlyRate(annual)
		var inputErr *validation.InvalidInputError
		if !errors.As(err, &inputErr) {
			t.Errorf("MonthlyRate(%v) expected *InvalidInputError, got %v", annual, err)
			continue
		}
		if inputErr.Field != "annualInterestRate" {
			t.Errorf("MonthlyRate(%v) reported field %s", annual, inputErr.Field)
		}
	}
}

func TestAmortizedPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		annual    float64
		months    int
		expected  float64
	}{
		{"Zero rate is linear", 20000, 0, 420, 20000.0 / 420},
		{"Zero rate odd split", 10000, 0, 3, 10000.0 / 3},
		{"With interest", 20000, 2.56, 420, 71.82582242004946},
		{"Short term", 10000, 1, 180, 59.82942461411032},
		{"Zero principal", 0, 2.56, 420, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := AmortizedPayment(tt.principal, tt.annual, tt.months)
			if err != nil {
				t.Fatalf("AmortizedPayment() error = %v", err)
			}
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("AmortizedPayment() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestAmortizedPaymentZeroRateIsExact(t *testing.T) {
	for _, months := range []int{1, 7, 180, 420} {
		for _, principal := range []float64{0, 1, 12345.67, 20000} {
			result, err := AmortizedPayment(principal, 0, months)
			if err != nil {
				t.Fatalf("AmortizedPayment() error = %v", err)
			}
			if result != principal/float64(months) {
				t.Errorf("AmortizedPayment(%v, 0, %d) = %v, expected exactly %v",
					principal, months, result, principal/float64(months))
			}
		}
	}
}

func TestMeansTestedAllowance(t *testing.T) {
	tests := []struct {
		name       string
		income     float64
		hasPartner bool
		expected   float64
	}{
		{"Single at threshold", 22356.00, false, 0},
		{"Single below threshold", 20000, false, 0},
		{"Single just above threshold", 22356.01, false, 0.01 * 0.04 / 12},
		{"Single well above", 40000, false, 58.81333333333333},
		{"Partner at own threshold", 31969.08, true, 0},
		{"Partner at single threshold", 22356.00, true, 0},
		{"Partner above", 40000, true, 26.76973333333333},
		{"Zero income", 0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MeansTestedAllowance(tt.income, tt.hasPartner)
			if err != nil {
				t.Fatalf("MeansTestedAllowance() error = %v", err)
			}
			if math.Abs(result-tt.expected) > 1e-6 {
				t.Errorf("MeansTestedAllowance(%v, %v) = %v, expected %v", tt.income, tt.hasPartner, result, tt.expected)
			}
		})
	}
}

func TestMeansTestedAllowanceProperties(t *testing.T) {
	previousSingle, previousPartner := 0.0, 0.0
	for income := 0.0; income <= 120000; income += 250 {
		single, _ := MeansTestedAllowance(income, false)
		partner, _ := MeansTestedAllowance(income, true)
		if single < previousSingle || partner < previousPartner {
			t.Fatalf("allowance decreased at income %v", income)
		}
		if partner > single {
			t.Fatalf("partner allowance %v exceeds single allowance %v at income %v", partner, single, income)
		}
		previousSingle, previousPartner = single, partner
	}
}

func TestExemptIncome(t *testing.T) {
	if ExemptIncome(false) != 22356.00 {
		t.Errorf("ExemptIncome(false) = %v, expected 22356.00", ExemptIncome(false))
	}
	if ExemptIncome(true) != 31969.08 {
		t.Errorf("ExemptIncome(true) = %v, expected 31969.08", ExemptIncome(true))
	}
}

func TestMonthlyFee(t *testing.T) {
	tests := []struct {
		name        string
		query       Query
		expected    float64
		capByIncome bool
	}{
		{
			name:     "Reference household pays amortized amount",
			query:    Query{Principal: 20000, AnnualInterestRate: 0, NumMonths: 420, Income: 66666.67},
			expected: 20000.0 / 420,
		},
		{
			name:        "Low income caps the fee",
			query:       Query{Principal: 50000, AnnualInterestRate: 2.56, NumMonths: 420, Income: 25000},
			expected:    (25000 - 22356.00) * 0.04 / 12,
			capByIncome: true,
		},
		{
			name:        "Income below threshold pays nothing",
			query:       Query{Principal: 20000, AnnualInterestRate: 0, NumMonths: 420, Income: 30000, HasPartner: true},
			expected:    0,
			capByIncome: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Compute(tt.query)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if math.Abs(result.MonthlyFee-tt.expected) > 1e-9 {
				t.Errorf("MonthlyFee = %v, expected %v", result.MonthlyFee, tt.expected)
			}
			if result.MonthlyFee > result.AmortizedPayment {
				t.Errorf("MonthlyFee %v exceeds amortized payment %v", result.MonthlyFee, result.AmortizedPayment)
			}
			if tt.capByIncome && result.MonthlyFee != result.Allowance {
				t.Errorf("expected fee to equal allowance %v, got %v", result.Allowance, result.MonthlyFee)
			}

			fee, err := MonthlyFee(tt.query.Principal, tt.query.AnnualInterestRate, tt.query.NumMonths,
				tt.query.Income, tt.query.HasPartner)
			if err != nil {
				t.Fatalf("MonthlyFee() error = %v", err)
			}
			if fee != result.MonthlyFee {
				t.Errorf("MonthlyFee() = %v, Compute() = %v", fee, result.MonthlyFee)
			}
		})
	}
}

func TestMonthlyFeeNeverExceedsAmortizedPayment(t *testing.T) {
	for _, rate := range []float64{0, 0.46, 2.56, 8} {
		for income := 0.0; income <= 200000; income += 5000 {
			for _, partner := range []bool{false, true} {
				result, err := Compute(Query{Principal: 35000, AnnualInterestRate: rate, NumMonths: 240,
					Income: income, HasPartner: partner})
				if err != nil {
					t.Fatalf("Compute() error = %v", err)
				}
				if result.MonthlyFee > result.AmortizedPayment {
					t.Fatalf("fee %v exceeds amortized payment %v (rate %v, income %v)",
						result.MonthlyFee, result.AmortizedPayment, rate, income)
				}
				if result.MonthlyFee < 0 {
					t.Fatalf("negative fee %v", result.MonthlyFee)
				}
			}
		}
	}
}

func TestComputeRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		field string
	}{
		{"Negative principal", Query{Principal: -1, NumMonths: 420}, "principal"},
		{"Zero months", Query{Principal: 1000, NumMonths: 0}, "numMonths"},
		{"Negative months", Query{Principal: 1000, NumMonths: -12}, "numMonths"},
		{"Rate above hundred", Query{Principal: 1000, AnnualInterestRate: 101, NumMonths: 12}, "annualInterestRate"},
		{"Negative rate", Query{Principal: 1000, AnnualInterestRate: -0.5, NumMonths: 12}, "annualInterestRate"},
		{"Negative income", Query{Principal: 1000, NumMonths: 12, Income: -1}, "income"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.query)
			var inputErr *validation.InvalidInputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("expected *validation.InvalidInputError, got %v", err)
			}
			if inputErr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, inputErr.Field)
			}
		})
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	q := Query{Principal: 27345.12, AnnualInterestRate: 2.56, NumMonths: 417, Income: 48211, HasPartner: true}
	first, err := Compute(q)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	second, _ := Compute(q)
	if first != second {
		t.Errorf("Compute() not idempotent: %+v vs %+v", first, second)
	}
}
