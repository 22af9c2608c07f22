// Command daybookctl works on a daybook database from the terminal: record
// days, inspect months and leave, run invoices and project tax without the
// HTTP server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/warp/daybook/config"
	"github.com/warp/daybook/factory"
	"github.com/warp/daybook/ledger"
	"github.com/warp/daybook/store/sqlite"
)

// app carries what PersistentPreRunE opens for the subcommands.
type app struct {
	dbPath    string
	regimeDir string
	logLevel  string
	logFormat string

	dueDays      int
	homeCurrency string

	store *sqlite.Store
	svc   *ledger.Service
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cfg, err := config.Load()
	if err == nil {
		a.dbPath = cfg.DBPath
		a.regimeDir = cfg.TaxRegimeDir
		a.dueDays = cfg.InvoiceDueDays
		a.homeCurrency = cfg.HomeCurrency
	} else {
		a.dbPath = "daybook.db"
	}

	root := &cobra.Command{
		Use:   "daybookctl",
		Short: "Freelancer day book: calendar, leave, invoices and 44ADA tax",
		Long: `daybookctl reads and writes the same SQLite database as the daybook server.

Days without a record count as working unless they fall on a weekend or a
holiday. Leave accrues monthly. Invoices bill a project's effective working
days, and tax is projected for the Indian financial year (April to March).`,
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if a.store != nil {
				return a.store.Close()
			}
			return nil
		},
	}

	// Global flags
	root.PersistentFlags().StringVar(&a.dbPath, "db", a.dbPath, "SQLite database path")
	root.PersistentFlags().StringVar(&a.regimeDir, "tax-regimes", a.regimeDir, "directory of extra tax regime JSON files")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "log format (text, json)")

	// Add commands
	root.AddCommand(holidaysCmd(a))
	root.AddCommand(monthCmd(a))
	root.AddCommand(dayCmd(a))
	root.AddCommand(leaveCmd(a))
	root.AddCommand(invoiceCmd(a))
	root.AddCommand(taxCmd(a))
	root.AddCommand(resetCmd(a))

	return root
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	if _, err := config.ParseLevel(a.logLevel); err != nil {
		return err
	}
	logger := config.NewLogger(cmd.ErrOrStderr(), a.logLevel, a.logFormat)
	slog.SetDefault(logger)

	regimes := factory.NewRegistry()
	if _, err := regimes.LoadDir(a.regimeDir); err != nil {
		return fmt.Errorf("load tax regimes: %w", err)
	}

	store, err := sqlite.New(a.dbPath)
	if err != nil {
		return err
	}
	a.store = store
	a.svc = ledger.NewService(store, ledger.Options{
		Regimes:        regimes,
		Logger:         logger,
		InvoiceDueDays: a.dueDays,
		HomeCurrency:   a.homeCurrency,
	})
	return nil
}

func resetCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every record and restart invoice numbering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset %s without --yes", a.dbPath)
			}
			if err := a.store.Reset(cmd.Context()); err != nil {
				return err
			}
			slog.Warn("database reset", slog.String("db", a.dbPath))
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all data")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
