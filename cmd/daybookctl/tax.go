package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/daybook/earnings"
	"github.com/warp/daybook/generic"
)

func taxCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Presumptive (44ADA) tax computations",
	}
	cmd.AddCommand(taxComputeCmd(a), taxProjectCmd(a), taxPayCmd(a), taxRegimesCmd(a))
	return cmd
}

func taxComputeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compute <fy> <gross-receipts>",
		Short: "Compute tax on gross receipts, e.g. compute 2025-26 2400000",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fy, err := generic.ParseFinancialYear(args[0])
			if err != nil {
				return err
			}
			gross, err := decimalArg("gross_receipts", args[1])
			if err != nil {
				return err
			}
			b, err := a.svc.ComputeTax(fy, gross)
			if err != nil {
				return err
			}
			return printBreakdown(cmd.OutOrStdout(), b)
		},
	}
}

func taxProjectCmd(a *app) *cobra.Command {
	var fyFlag, rateFlag string
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project the financial year's receipts, tax and outstanding liability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fy := generic.FinancialYearOf(a.svc.Today())
			if fyFlag != "" {
				parsed, err := generic.ParseFinancialYear(fyFlag)
				if err != nil {
					return err
				}
				fy = parsed
			}
			rate := decimal.Zero
			if rateFlag != "" {
				parsed, err := decimalArg("daily_rate", rateFlag)
				if err != nil {
					return err
				}
				rate = parsed
			}

			report, err := a.svc.TaxProjection(cmd.Context(), fy, rate)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := report.Projection
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "financial year\t%s (as of %s)\n", fy, p.AsOf)
			fmt.Fprintf(w, "daily rate\t%s\n", report.DailyRate)
			fmt.Fprintf(w, "avg conversion rate\t%s\n", p.Rates.ConversionRate.StringFixed(4))
			fmt.Fprintf(w, "avg deduction\t%s\n", p.Rates.DeductionFraction.StringFixed(4))
			fmt.Fprintf(w, "received\t%s\n", p.Actual.StringFixed(2))
			for _, m := range p.Months {
				fmt.Fprintf(w, "  %s\t%s days\t%s\n", m.Month, m.EffectiveDays, m.Projected.StringFixed(2))
			}
			fmt.Fprintf(w, "projected\t%s\n", p.ProjectedTotal.StringFixed(2))
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(out)
			if err := printBreakdown(out, report.Tax); err != nil {
				return err
			}

			l := report.Liability
			fmt.Fprintf(out, "\npaid %s, outstanding %s, due by %s\n",
				l.Paid.StringFixed(2), l.Outstanding.StringFixed(2), l.DueBy)
			return nil
		},
	}
	cmd.Flags().StringVar(&fyFlag, "fy", "", "financial year, e.g. 2025-26 (default current)")
	cmd.Flags().StringVar(&rateFlag, "daily-rate", "", "daily rate in invoice currency (default newest active project)")
	return cmd
}

func taxPayCmd(a *app) *cobra.Command {
	var kind, reference, paidOn string
	cmd := &cobra.Command{
		Use:   "pay <fy> <amount>",
		Short: "Record tax paid or withheld for a financial year",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fy, err := generic.ParseFinancialYear(args[0])
			if err != nil {
				return err
			}
			amount, err := decimalArg("amount", args[1])
			if err != nil {
				return err
			}
			date := a.svc.Today()
			if paidOn != "" {
				if date, err = generic.ParseDate(paidOn); err != nil {
					return err
				}
			}

			p, err := a.svc.RecordTaxPayment(cmd.Context(), earnings.TaxPayment{
				FinancialYear: fy,
				PaidOn:        date,
				Amount:        amount,
				Kind:          earnings.PaymentKind(kind),
				Reference:     reference,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s recorded for %s\n", p.ID, p.Kind, p.Amount.StringFixed(2), p.FinancialYear)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(earnings.PaymentAdvance), "advance, self_assessment or tds")
	cmd.Flags().StringVar(&reference, "ref", "", "challan or certificate reference")
	cmd.Flags().StringVar(&paidOn, "on", "", "payment date (default today)")
	return cmd
}

func taxRegimesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "regimes",
		Short: "List the financial years with a known tax regime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, fy := range a.svc.Regimes().Years() {
				fmt.Fprintln(cmd.OutOrStdout(), fy)
			}
			return nil
		},
	}
}

func printBreakdown(out io.Writer, b earnings.TaxBreakdown) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "gross receipts\t%s\n", b.GrossReceipts.StringFixed(2))
	fmt.Fprintf(w, "taxable income\t%s\n", b.TaxableIncome.StringFixed(2))
	for _, l := range b.Lines {
		upTo := "and above"
		if l.UpTo != nil {
			upTo = "to " + l.UpTo.StringFixed(0)
		}
		fmt.Fprintf(w, "  %s %s @ %s\t%s\n", l.From.StringFixed(0), upTo, l.Rate, l.Tax.StringFixed(2))
	}
	fmt.Fprintf(w, "slab tax\t%s\n", b.SlabTax.StringFixed(2))
	fmt.Fprintf(w, "rebate\t%s\n", b.Rebate.StringFixed(2))
	fmt.Fprintf(w, "cess\t%s\n", b.Cess.StringFixed(2))
	fmt.Fprintf(w, "total\t%s\n", b.Total.StringFixed(2))
	fmt.Fprintf(w, "effective rate\t%s\n", b.EffectiveRate().StringFixed(4))
	return w.Flush()
}
