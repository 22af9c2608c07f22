package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/daybook/billing"
	"github.com/warp/daybook/generic"
	"github.com/warp/daybook/ledger"
)

func invoiceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoice",
		Aliases: []string{"invoices"},
		Short:   "Draft, send and reconcile invoices",
	}
	cmd.AddCommand(
		invoiceListCmd(a),
		invoiceDraftCmd(a),
		invoiceSendCmd(a),
		invoicePayCmd(a),
		invoiceCancelCmd(a),
		invoiceSweepCmd(a),
	)
	return cmd
}

func invoiceListCmd(a *app) *cobra.Command {
	var status, project string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List invoices by number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := ledger.InvoiceFilter{ProjectID: project}
			if status != "" {
				s, err := billing.ParseStatus(status)
				if err != nil {
					return err
				}
				filter.Status = s
			}
			invoices, err := a.svc.ListInvoices(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printInvoices(cmd.OutOrStdout(), invoices)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only invoices in this status")
	cmd.Flags().StringVar(&project, "project", "", "only invoices of this project")
	return cmd
}

func invoiceDraftCmd(a *app) *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   "draft <project-id> <YYYY-MM>",
		Short: "Draft an invoice for a project's effective working days in a month",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := generic.ParseYearMonth(args[1])
			if err != nil {
				return err
			}
			inv, err := a.svc.DraftInvoice(cmd.Context(), args[0], month, notes)
			if err != nil {
				return err
			}
			return printInvoices(cmd.OutOrStdout(), []billing.Invoice{inv})
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "note printed on the invoice")
	return cmd
}

func invoiceSendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send <invoice-id>",
		Short: "Issue a draft invoice today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := a.svc.SendInvoice(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printInvoices(cmd.OutOrStdout(), []billing.Invoice{inv})
		},
	}
}

func invoicePayCmd(a *app) *cobra.Command {
	var paidOn string
	cmd := &cobra.Command{
		Use:   "pay <invoice-id> <received> <conversion-rate>",
		Short: "Record the home-currency amount credited for an invoice",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := a.svc.Today()
			if paidOn != "" {
				d, err := generic.ParseDate(paidOn)
				if err != nil {
					return err
				}
				date = d
			}
			received, err := decimalArg("received", args[1])
			if err != nil {
				return err
			}
			rate, err := decimalArg("conversion_rate", args[2])
			if err != nil {
				return err
			}

			inv, err := a.svc.RecordPayment(cmd.Context(), args[0], date, received, rate)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s paid on %s: received %s %s, deductions %s\n",
				inv.Number, inv.PaidOn, inv.Received.StringFixed(2), a.svc.HomeCurrency(), inv.Deductions.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().StringVar(&paidOn, "on", "", "payment date (default today)")
	return cmd
}

func invoiceCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <invoice-id>",
		Short: "Cancel an unpaid invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := a.svc.CancelInvoice(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s cancelled\n", inv.Number)
			return nil
		},
	}
}

func invoiceSweepCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Mark sent invoices past their due date as overdue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed, err := a.svc.SweepOverdue(cmd.Context(), a.svc.Today())
			if err != nil {
				return err
			}
			if len(changed) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no invoices overdue")
				return nil
			}
			return printInvoices(cmd.OutOrStdout(), changed)
		},
	}
}

func printInvoices(out io.Writer, invoices []billing.Invoice) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tID\tPERIOD\tDAYS\tTOTAL\tSTATUS\tDUE")
	for _, inv := range invoices {
		due := "-"
		if !inv.DueOn.IsZero() {
			due = inv.DueOn.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s %s\t%s\t%s\n",
			inv.Number, inv.ID, inv.Period.Start.YearMonth(), inv.Days,
			inv.Total.StringFixed(2), inv.Currency, inv.Status, due)
	}
	return w.Flush()
}

func decimalArg(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &generic.ValidationError{Field: field, Value: raw, Reason: "expected a decimal number"}
	}
	return d, nil
}
