package domain

// LTVBand is the loan-to-value bracket the market rate provider prices by.
type LTVBand string

const (
	BandNHG     LTVBand = "0"
	BandUpTo50  LTVBand = "50"
	BandUpTo60  LTVBand = "60"
	BandUpTo70  LTVBand = "70"
	BandUpTo80  LTVBand = "80"
	BandUpTo90  LTVBand = "90"
	BandUpTo100 LTVBand = "100"
	BandAbove   LTVBand = "106"
)

// BandForLTV maps a loan-to-value percentage onto a band.
func BandForLTV(ltv float64) LTVBand {
	switch {
	case ltv <= 60:
		return BandUpTo60
	case ltv <= 70:
		return BandUpTo70
	case ltv <= 80:
		return BandUpTo80
	case ltv <= 90:
		return BandUpTo90
	case ltv <= 100:
		return BandUpTo100
	default:
		return BandAbove
	}
}

// MortgageForm is the repayment structure of a mortgage product.
type MortgageForm string

const (
	FormAnnuity      MortgageForm = "Annuiteitenhypotheek"
	FormLinear       MortgageForm = "Lineaire_hypotheek"
	FormInterestOnly MortgageForm = "Aflossingsvrije_hypotheek"
	FormInvestment   MortgageForm = "Beleggershypotheek"
	FormLife         MortgageForm = "Levenhypotheek"
	FormSavings      MortgageForm = "Spaarhypotheek"
)
