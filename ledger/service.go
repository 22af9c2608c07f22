/*
Package ledger is the application layer of daybook.

PURPOSE:
  The calendar, leave and earnings packages are pure functions over
  in-memory data. Service loads that data from a Store, calls them, and
  persists the results. Every HTTP handler and CLI command goes through it.

RESPONSIBILITIES:
  - Days:      upsert/delete day records, month views, leave balance
  - Billing:   clients, projects, invoice drafting from month summaries,
               sending, payment reconciliation, overdue sweeps
  - Tax:       tax payments, year projection and liability

ERRORS:
  Missing records come back as *generic.NotFoundError, illegal state
  changes as *generic.StateError and bad input as
  *generic.ValidationError, so callers can map them with errors.Is.

SEE ALSO:
  - store.go: Storage interfaces
  - store/sqlite, store/memory: Implementations
*/
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/factory"
	"github.com/warp/daybook/generic"
	"github.com/warp/daybook/leave"
)

// DefaultInvoiceDueDays is used when Options.InvoiceDueDays is zero.
const DefaultInvoiceDueDays = 30

// Options configures a Service. Zero values get defaults.
type Options struct {
	Holidays       generic.HolidayCalendar
	Regimes        *factory.Registry
	Logger         *slog.Logger
	Now            func() time.Time
	InvoiceDueDays int
	HomeCurrency   string
}

// Service implements daybook's use cases over a Store.
type Service struct {
	store        Store
	holidays     generic.HolidayCalendar
	regimes      *factory.Registry
	logger       *slog.Logger
	now          func() time.Time
	dueDays      int
	homeCurrency string
}

func NewService(store Store, opts Options) *Service {
	s := &Service{
		store:        store,
		holidays:     opts.Holidays,
		regimes:      opts.Regimes,
		logger:       opts.Logger,
		now:          opts.Now,
		dueDays:      opts.InvoiceDueDays,
		homeCurrency: opts.HomeCurrency,
	}
	if s.holidays == nil {
		s.holidays = calendar.NewHolidays()
	}
	if s.regimes == nil {
		s.regimes = factory.NewRegistry()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.dueDays <= 0 {
		s.dueDays = DefaultInvoiceDueDays
	}
	if s.homeCurrency == "" {
		s.homeCurrency = "INR"
	}
	s.logger = s.logger.With("component", "ledger")
	return s
}

// Today is the service clock's current date.
func (s *Service) Today() generic.Date { return generic.DateOf(s.now()) }

func (s *Service) Holidays() generic.HolidayCalendar { return s.holidays }

func (s *Service) Regimes() *factory.Registry { return s.regimes }

func (s *Service) HomeCurrency() string { return s.homeCurrency }

// =============================================================================
// DAYS
// =============================================================================

// SaveDay validates and upserts r. A referenced project must exist.
func (s *Service) SaveDay(ctx context.Context, r calendar.DayRecord) (calendar.DayRecord, error) {
	if err := r.Validate(); err != nil {
		return calendar.DayRecord{}, err
	}
	if r.ProjectID != "" {
		if _, err := s.GetProject(ctx, r.ProjectID); err != nil {
			return calendar.DayRecord{}, err
		}
	}

	// The store keeps the original CreatedAt on update.
	r.CreatedAt = s.now()
	r.UpdatedAt = r.CreatedAt

	saved, err := s.store.UpsertDay(ctx, r)
	if err != nil {
		return calendar.DayRecord{}, fmt.Errorf("save day %s: %w", r.Date, err)
	}
	s.logger.Debug("day saved", slog.String("date", r.Date.String()), slog.String("type", string(r.Type)))
	return saved, nil
}

func (s *Service) DeleteDay(ctx context.Context, date generic.Date) error {
	deleted, err := s.store.DeleteDay(ctx, date)
	if err != nil {
		return fmt.Errorf("delete day %s: %w", date, err)
	}
	if !deleted {
		return &generic.NotFoundError{Kind: "day", ID: date.String()}
	}
	return nil
}

// Days returns the explicit records of a month.
func (s *Service) Days(ctx context.Context, month generic.YearMonth) ([]calendar.DayRecord, error) {
	return s.store.DaysBetween(ctx, month.First(), month.Last())
}

// Month builds the augmented view of a month.
func (s *Service) Month(ctx context.Context, month generic.YearMonth) (calendar.MonthView, error) {
	records, err := s.Days(ctx, month)
	if err != nil {
		return calendar.MonthView{}, err
	}
	return calendar.BuildMonth(records, month, s.holidays)
}

// =============================================================================
// LEAVE
// =============================================================================

// LeavePolicy returns the saved policy, or the default tracking from
// January of the current year.
func (s *Service) LeavePolicy(ctx context.Context) (leave.Policy, error) {
	raw, err := s.store.GetSetting(ctx, SettingLeavePolicy)
	if err != nil {
		return leave.Policy{}, err
	}
	if raw == nil {
		return leave.DefaultPolicy(generic.NewYearMonth(s.Today().Year(), time.January)), nil
	}
	return factory.ParseLeavePolicy(raw)
}

func (s *Service) SetLeavePolicy(ctx context.Context, p leave.Policy) error {
	raw, err := factory.MarshalLeavePolicy(p)
	if err != nil {
		return err
	}
	if err := s.store.PutSetting(ctx, SettingLeavePolicy, raw); err != nil {
		return err
	}
	s.logger.Info("leave policy updated",
		slog.String("leaves_per_month", p.LeavesPerMonth.String()),
		slog.String("tracking_start", p.TrackingStart.String()))
	return nil
}

// LeaveBalance is the balance as of the end of target.
func (s *Service) LeaveBalance(ctx context.Context, target generic.YearMonth) (leave.Balance, error) {
	policy, records, err := s.leaveInputs(ctx, target)
	if err != nil {
		return leave.Balance{}, err
	}
	return leave.CalculateBalance(policy, records, target)
}

// LeaveStatement is the month-by-month running balance through target.
func (s *Service) LeaveStatement(ctx context.Context, target generic.YearMonth) ([]leave.StatementLine, error) {
	policy, records, err := s.leaveInputs(ctx, target)
	if err != nil {
		return nil, err
	}
	return leave.Statement(policy, records, target)
}

func (s *Service) leaveInputs(ctx context.Context, target generic.YearMonth) (leave.Policy, []calendar.DayRecord, error) {
	policy, err := s.LeavePolicy(ctx)
	if err != nil {
		return leave.Policy{}, nil, err
	}
	records, err := s.store.DaysBetween(ctx, generic.Date{}, target.Last())
	if err != nil {
		return leave.Policy{}, nil, err
	}
	return policy, records, nil
}
