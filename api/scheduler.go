/*
scheduler.go - Automated overdue sweep

PURPOSE:
  Periodically marks sent invoices whose due date has passed as overdue,
  so listings and metrics reflect reality without a manual trigger.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Sweeps immediately on start, then on every tick
  - Each sweep is idempotent: only sent invoices due before today move

CONFIGURATION:
  - Interval: How often to sweep (default: 1 hour, OVERDUE_SWEEP_INTERVAL)
  - Enabled: Whether the sweeper runs (default: true)

USAGE:
  sweeper := NewOverdueSweeper(svc, metrics, logger)
  sweeper.Start()
  // ... later
  sweeper.Stop()

SEE ALSO:
  - handlers.go: SweepOverdue endpoint (manual sweep)
  - ledger/invoices.go: Service.SweepOverdue
*/
package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/warp/daybook/billing"
	"github.com/warp/daybook/ledger"
)

// OverdueSweeper runs ledger.Service.SweepOverdue on a ticker.
type OverdueSweeper struct {
	Service  *ledger.Service
	Metrics  *Metrics
	Interval time.Duration
	Enabled  bool

	log    *slog.Logger
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewOverdueSweeper creates a sweeper with a one-hour interval.
func NewOverdueSweeper(svc *ledger.Service, metrics *Metrics, logger *slog.Logger) *OverdueSweeper {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &OverdueSweeper{
		Service:  svc,
		Metrics:  metrics,
		Interval: time.Hour,
		Enabled:  true,
		log:      logger.With(slog.String("component", "overdue-sweeper")),
	}
}

// Start begins sweeping. Calling Start twice is a no-op.
func (s *OverdueSweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		s.log.Info("disabled, not starting")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.Interval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run(s.ticker.C, s.stop)

	s.log.Info("started", slog.Duration("interval", s.Interval))
}

// Stop stops the sweeper and waits for an in-flight sweep to finish.
func (s *OverdueSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.wg.Wait()
		s.ticker = nil
		s.log.Info("stopped")
	}
}

func (s *OverdueSweeper) run(tick <-chan time.Time, stop <-chan struct{}) {
	defer s.wg.Done()

	// Run immediately on start
	s.Sweep(context.Background())

	for {
		select {
		case <-tick:
			s.Sweep(context.Background())
		case <-stop:
			return
		}
	}
}

// Sweep runs one pass as of the service's today and returns how many
// invoices became overdue.
func (s *OverdueSweeper) Sweep(ctx context.Context) int {
	today := s.Service.Today()
	changed, err := s.Service.SweepOverdue(ctx, today)
	if err != nil {
		s.log.Error("sweep failed", slog.String("as_of", today.String()), slog.Any("error", err))
		return len(changed)
	}

	if s.Metrics != nil {
		s.Metrics.overdueSweeps.Inc()
		s.Metrics.invoiceEvent(string(billing.StatusOverdue), len(changed))
	}
	for _, inv := range changed {
		s.log.Info("invoice overdue",
			slog.String("number", inv.Number),
			slog.String("due_on", inv.DueOn.String()),
			slog.String("total", inv.Total.String()+" "+inv.Currency))
	}
	return len(changed)
}
