package main

import (
	"io"

	"github.com/iwvelando/hypotheek/internal/domain"
	"github.com/iwvelando/hypotheek/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type householdFlags struct {
	fixedIncome  float64
	zzpIncomes   []float64
	partnered    bool
	housePrice   float64
	loanToValue  float64
	period       int
	rate         float64
	buildingType string
	energyLabel  string
}

func (f *householdFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.fixedIncome, "income", 0, "yearly fixed income")
	cmd.Flags().Float64SliceVar(&f.zzpIncomes, "zzp", nil, "self-employed income of the last three years")
	cmd.Flags().BoolVar(&f.partnered, "partner", false, "household has a partner")
	cmd.Flags().Float64Var(&f.housePrice, "price", 0, "house price")
	cmd.Flags().Float64Var(&f.loanToValue, "ltv", 100, "loan to value percentage")
	cmd.Flags().IntVar(&f.period, "period", 10, "fixed-rate period in years")
	cmd.Flags().Float64Var(&f.rate, "rate", 0, "interest rate in percent")
	cmd.Flags().StringVar(&f.buildingType, "building-type", "", "Bestaande bouw or Nieuwbouw")
	cmd.Flags().StringVar(&f.energyLabel, "energy-label", "", "energy label, e.g. A++")
}

// apply overrides the configured household with the flags that were set.
func (f *householdFlags) apply(cmd *cobra.Command, a *app) {
	h := &a.conf.Household
	changed := cmd.Flags().Changed
	if changed("income") {
		h.FixedIncome = f.fixedIncome
	}
	if changed("zzp") {
		h.ZZPIncomes = f.zzpIncomes
	}
	if changed("partner") {
		h.Partnered = f.partnered
	}
	if changed("price") {
		h.HousePrice = f.housePrice
	}
	if changed("ltv") {
		h.LoanToValue = f.loanToValue
	}
	if changed("period") {
		h.FixedRatePeriod = f.period
	}
	if changed("rate") {
		h.InterestRate = f.rate
		h.UseMarketRate = false
	}
	if changed("building-type") {
		h.BuildingType = f.buildingType
	}
	if changed("energy-label") {
		if _, ok := domain.ParseEnergyLabel(f.energyLabel); !ok {
			a.logger.Warn("unknown energy label, no bonus applied",
				zap.String("op", "main.calculate"),
				zap.String("energyLabel", f.energyLabel),
			)
		}
		h.EnergyLabel = f.energyLabel
	}
}

func calculateCmd(a *app) *cobra.Command {
	flags := &householdFlags{}
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Assess the configured household",
		Long: `Assess the household from the configuration file, optionally overridden by
flags: student debt fees, maximum mortgage, one-off costs and warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.apply(cmd, a)

			assessor, err := a.assessor()
			if err != nil {
				return err
			}
			h, err := a.household(cmd.Context())
			if err != nil {
				return err
			}

			result, err := assessor.Assess(h)
			if err != nil {
				return err
			}

			return a.write(cmd.OutOrStdout(),
				func(w io.Writer) error { return output.PrettyFormat(w, result) },
				func(w io.Writer) error { return output.CsvFormat(w, result) },
			)
		},
	}
	flags.register(cmd)
	return cmd
}
