package main

import (
	"io"

	"github.com/iwvelando/hypotheek/internal/assessment"
	"github.com/iwvelando/hypotheek/pkg/output"
	"github.com/spf13/cobra"
)

func sweepCmd(a *app) *cobra.Command {
	flags := &householdFlags{}
	var from, to, step float64
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Show the maximum mortgage over a range of interest rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.apply(cmd, a)

			rateList, err := assessment.RateRange(from, to, step)
			if err != nil {
				return err
			}
			assessor, err := a.assessor()
			if err != nil {
				return err
			}
			h, err := a.conf.Household.Household()
			if err != nil {
				return err
			}

			points, err := assessor.RateSensitivity(cmd.Context(), h, rateList)
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(),
				func(w io.Writer) error { return output.PrettySweep(w, points) },
				func(w io.Writer) error { return output.CsvSweep(w, points) },
			)
		},
	}
	flags.register(cmd)
	cmd.Flags().Float64Var(&from, "from", 1, "lowest interest rate")
	cmd.Flags().Float64Var(&to, "to", 6, "highest interest rate")
	cmd.Flags().Float64Var(&step, "step", 0.5, "rate increment")
	return cmd
}
