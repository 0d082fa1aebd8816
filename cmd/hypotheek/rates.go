package main

import (
	"fmt"
	"io"

	"github.com/iwvelando/hypotheek/internal/domain"
	"github.com/iwvelando/hypotheek/internal/rates"
	"github.com/iwvelando/hypotheek/pkg/output"
	"github.com/spf13/cobra"
)

func ratesCmd(a *app) *cobra.Command {
	var ltv float64
	var period int
	var buildingType, energyLabel string
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "List current market rate offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			building, err := domain.ParseBuildingType(buildingType)
			if err != nil {
				return err
			}
			label, ok := domain.ParseEnergyLabel(energyLabel)
			if !ok {
				return fmt.Errorf("unknown energy label %q", energyLabel)
			}

			client, release, err := a.rateClient()
			if err != nil {
				return err
			}
			defer release()
			if client == nil {
				return fmt.Errorf("market rates are disabled, set rates.enabled")
			}

			offers, err := client.Offers(cmd.Context(), rates.Filter{
				LTVBand:              domain.BandForLTV(ltv),
				FixedRatePeriodYears: period,
				BuildingType:         building,
				EnergyLabel:          label,
				Form:                 domain.FormAnnuity,
			})
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(),
				func(w io.Writer) error { return output.PrettyOffers(w, offers) },
				func(w io.Writer) error { return output.CsvOffers(w, offers) },
			)
		},
	}
	cmd.Flags().Float64Var(&ltv, "ltv", 100, "loan to value percentage")
	cmd.Flags().IntVar(&period, "period", 10, "fixed-rate period in years")
	cmd.Flags().StringVar(&buildingType, "building-type", "", "Bestaande bouw or Nieuwbouw")
	cmd.Flags().StringVar(&energyLabel, "energy-label", "", "energy label, e.g. A++")
	return cmd
}
