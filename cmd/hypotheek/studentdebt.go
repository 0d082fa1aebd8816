package main

import (
	"io"

	"github.com/iwvelando/hypotheek/internal/studentdebt"
	"github.com/iwvelando/hypotheek/pkg/output"
	"github.com/spf13/cobra"
)

func studentDebtCmd(a *app) *cobra.Command {
	var q studentdebt.Query
	cmd := &cobra.Command{
		Use:   "student-debt",
		Short: "Compute the monthly student loan fee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := studentdebt.Compute(q)
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(),
				func(w io.Writer) error { return output.PrettyStudentDebt(w, result) },
				func(w io.Writer) error { return output.CsvStudentDebt(w, result) },
			)
		},
	}
	cmd.Flags().Float64Var(&q.Principal, "principal", 0, "outstanding principal")
	cmd.Flags().Float64Var(&q.AnnualInterestRate, "rate", 0, "yearly interest rate in percent")
	cmd.Flags().IntVar(&q.NumMonths, "months", 420, "remaining repayment term in months")
	cmd.Flags().Float64Var(&q.Income, "income", 0, "yearly income")
	cmd.Flags().BoolVar(&q.HasPartner, "partner", false, "borrower has a partner")
	return cmd
}
