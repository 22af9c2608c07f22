package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/generic"
)

func holidaysCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "holidays [year]",
		Short: "List the public holidays of a year",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year := a.svc.Today().Year()
			if len(args) == 1 {
				y, err := strconv.Atoi(args[0])
				if err != nil {
					return &generic.ValidationError{Field: "year", Value: args[0], Reason: "expected YYYY"}
				}
				year = y
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, h := range calendar.ListHolidays(year) {
				kind := "fixed"
				if h.Movable {
					kind = "movable"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", h.Date, h.Date.Weekday().String()[:3], h.Name, kind)
			}
			return w.Flush()
		},
	}
}

func monthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show a month with implicit working days and its summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := monthArg(a, args)
			if err != nil {
				return err
			}
			view, err := a.svc.Month(cmd.Context(), month)
			if err != nil {
				return err
			}

			names := a.svc.Holidays().HolidaysForYear(month.Year)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for d := month.First(); !d.After(month.Last()); d = d.AddDays(1) {
				fmt.Fprintf(w, "%s\t%s\t%s\n", d, d.Weekday().String()[:3], describeDay(view.Entries, names, d))
			}
			s := view.Summary
			fmt.Fprintf(w, "\nworking %d\tleave %d\tholiday %d\thalf %d\textra %d\tweekend %d\n",
				s.Working, s.Leave, s.Holiday, s.HalfDay, s.ExtraWorking, s.Weekend)
			fmt.Fprintf(w, "effective working days\t%s\n", s.EffectiveWorkingDays)
			return w.Flush()
		},
	}
}

func describeDay(entries []calendar.Entry, holidays map[generic.Date]string, d generic.Date) string {
	for _, e := range entries {
		if e.Date() != d {
			continue
		}
		label := string(e.Type())
		if calendar.IsImplicit(e) {
			label += " (implicit)"
		}
		if pid := calendar.ProjectOf(e); pid != "" {
			label += " [" + pid + "]"
		}
		return label
	}
	if name, ok := holidays[d]; ok {
		return "holiday: " + name
	}
	if d.IsWeekend() {
		return "weekend"
	}
	return ""
}

func dayCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Record or clear explicit day records",
	}

	var project, notes string
	set := &cobra.Command{
		Use:   "set <date> <type>",
		Short: "Record a day (" + dayTypeList() + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := generic.ParseDate(args[0])
			if err != nil {
				return err
			}
			dayType, err := calendar.ParseDayType(args[1])
			if err != nil {
				return err
			}
			saved, err := a.svc.SaveDay(cmd.Context(), calendar.DayRecord{
				Date: date, Type: dayType, ProjectID: project, Notes: notes,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", saved.Date, saved.Type)
			return nil
		},
	}
	set.Flags().StringVar(&project, "project", "", "project ID the day is billed to")
	set.Flags().StringVar(&notes, "notes", "", "free-form note")

	del := &cobra.Command{
		Use:   "delete <date>",
		Short: "Remove a record so the day becomes implicit again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := generic.ParseDate(args[0])
			if err != nil {
				return err
			}
			return a.svc.DeleteDay(cmd.Context(), date)
		},
	}

	cmd.AddCommand(set, del)
	return cmd
}

func leaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "leave [YYYY-MM]",
		Short: "Show the leave statement through a month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := monthArg(a, args)
			if err != nil {
				return err
			}
			lines, err := a.svc.LeaveStatement(cmd.Context(), month)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "month\taccrued\tused\tbalance\t")
			for _, l := range lines {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", l.Month, l.Accrued.Value, l.Used.Value, l.Balance.Value)
			}
			return w.Flush()
		},
	}
}

func monthArg(a *app, args []string) (generic.YearMonth, error) {
	if len(args) == 0 {
		return a.svc.Today().YearMonth(), nil
	}
	return generic.ParseYearMonth(args[0])
}

func dayTypeList() string {
	var s string
	for i, t := range calendar.DayTypes {
		if i > 0 {
			s += ", "
		}
		s += string(t)
	}
	return s
}
