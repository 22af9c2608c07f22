/*
Package sqlite provides a SQLite-backed implementation of ledger.Store.

PURPOSE:
  Persists day records, clients, projects, invoices, tax payments and
  settings in a single SQLite file. The service layer never sees SQL.

KEY TABLES:
  days:             One explicit record per calendar date (UNIQUE date)
  clients:          Billed parties
  projects:         Day-rate engagements, one client each
  invoices:         Monthly invoices and their payment details
  invoice_counters: Per-year invoice sequence
  tax_payments:     Advance tax, self-assessment and TDS by financial year
  settings:         JSON documents by key (leave policy, home currency)

STORAGE FORMATS:
  Dates are TEXT "2006-01-02", so lexical order is date order.
  Timestamps are TEXT RFC3339 (UTC, nanoseconds).
  Money and day counts are TEXT decimals; never REAL.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. The invoice counter is bumped
  inside a transaction so concurrent drafts cannot share a number.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/daybook.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := ledger.NewService(store, ledger.Options{})

MIGRATION:
  Schema is auto-migrated on New() with CREATE ... IF NOT EXISTS.

SEE ALSO:
  - ledger/store.go: Interface definitions
  - store/memory: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/daybook/billing"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/earnings"
	"github.com/warp/daybook/generic"
	"github.com/warp/daybook/ledger"
)

// Store implements ledger.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ ledger.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection, for health endpoints.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		currency TEXT NOT NULL,
		address TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL REFERENCES clients(id),
		name TEXT NOT NULL,
		daily_rate TEXT NOT NULL,
		currency TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_projects_client
		ON projects(client_id);

	-- At most one explicit record per date
	CREATE TABLE IF NOT EXISTS days (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL UNIQUE,
		day_type TEXT NOT NULL,
		project_id TEXT REFERENCES projects(id),
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS invoices (
		id TEXT PRIMARY KEY,
		number TEXT NOT NULL UNIQUE,
		client_id TEXT NOT NULL REFERENCES clients(id),
		project_id TEXT NOT NULL REFERENCES projects(id),
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		currency TEXT NOT NULL,
		days TEXT NOT NULL,
		daily_rate TEXT NOT NULL,
		total TEXT NOT NULL,
		status TEXT NOT NULL,
		issued_on TEXT,
		due_on TEXT,
		notes TEXT,
		paid_on TEXT,
		conversion_rate TEXT,
		received TEXT,
		deductions TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_invoices_status
		ON invoices(status);
	CREATE INDEX IF NOT EXISTS idx_invoices_project_period
		ON invoices(project_id, period_start);
	CREATE INDEX IF NOT EXISTS idx_invoices_paid_on
		ON invoices(paid_on) WHERE paid_on IS NOT NULL;

	CREATE TABLE IF NOT EXISTS invoice_counters (
		year INTEGER PRIMARY KEY,
		seq INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tax_payments (
		id TEXT PRIMARY KEY,
		financial_year TEXT NOT NULL,
		paid_on TEXT NOT NULL,
		amount TEXT NOT NULL,
		kind TEXT NOT NULL,
		reference TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tax_payments_year
		ON tax_payments(financial_year, paid_on);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DAY STORE
// =============================================================================

const dayColumns = "id, date, day_type, project_id, notes, created_at, updated_at"

// UpsertDay inserts or replaces the record for r.Date. The row keeps its
// ID and created_at across updates.
func (s *Store) UpsertDay(ctx context.Context, r calendar.DayRecord) (calendar.DayRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = now
	}

	query := `
		INSERT INTO days (date, day_type, project_id, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			day_type = excluded.day_type,
			project_id = excluded.project_id,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		r.Date.String(),
		string(r.Type),
		nullString(r.ProjectID),
		nullString(r.Notes),
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
	)
	if err != nil {
		return calendar.DayRecord{}, fmt.Errorf("failed to upsert day: %w", err)
	}

	saved, err := s.getDay(ctx, r.Date)
	if err != nil {
		return calendar.DayRecord{}, err
	}
	if saved == nil {
		return calendar.DayRecord{}, fmt.Errorf("day %s vanished after upsert", r.Date)
	}
	return *saved, nil
}

func (s *Store) DeleteDay(ctx context.Context, date generic.Date) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM days WHERE date = ?", date.String())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) GetDay(ctx context.Context, date generic.Date) (*calendar.DayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getDay(ctx, date)
}

func (s *Store) getDay(ctx context.Context, date generic.Date) (*calendar.DayRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+dayColumns+" FROM days WHERE date = ?", date.String())
	r, err := scanDay(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// DaysBetween returns records in [from, to] ordered by date. A zero from
// means no lower bound.
func (s *Store) DaysBetween(ctx context.Context, from, to generic.Date) ([]calendar.DayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+dayColumns+" FROM days WHERE date >= ? AND date <= ? ORDER BY date",
		from.String(), to.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []calendar.DayRecord
	for rows.Next() {
		r, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, r)
	}
	return days, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDay(row scanner) (calendar.DayRecord, error) {
	var r calendar.DayRecord
	var date, dayType, createdAt, updatedAt string
	var projectID, notes sql.NullString

	if err := row.Scan(&r.ID, &date, &dayType, &projectID, &notes, &createdAt, &updatedAt); err != nil {
		return calendar.DayRecord{}, err
	}

	d, err := generic.ParseDate(date)
	if err != nil {
		return calendar.DayRecord{}, fmt.Errorf("corrupt day row %d: %w", r.ID, err)
	}
	r.Date = d
	r.Type = calendar.DayType(dayType)
	r.ProjectID = projectID.String
	r.Notes = notes.String
	r.CreatedAt = parseTime(createdAt)
	r.UpdatedAt = parseTime(updatedAt)
	return r, nil
}

// =============================================================================
// CLIENT & PROJECT STORE
// =============================================================================

func (s *Store) SaveClient(ctx context.Context, c billing.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO clients (id, name, email, currency, address, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			currency = excluded.currency,
			address = excluded.address
	`
	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.Name, nullString(c.Email), c.Currency, nullString(c.Address),
		formatTime(c.CreatedAt),
	)
	return err
}

// GetClient retrieves a client by ID.
func (s *Store) GetClient(ctx context.Context, id string) (*billing.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c billing.Client
	var email, address sql.NullString
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, currency, address, created_at FROM clients WHERE id = ?",
		id,
	).Scan(&c.ID, &c.Name, &email, &c.Currency, &address, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.Email = email.String
	c.Address = address.String
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}

// ListClients returns all clients ordered by name.
func (s *Store) ListClients(ctx context.Context) ([]billing.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, currency, address, created_at FROM clients ORDER BY name, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []billing.Client
	for rows.Next() {
		var c billing.Client
		var email, address sql.NullString
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &email, &c.Currency, &address, &createdAt); err != nil {
			return nil, err
		}
		c.Email = email.String
		c.Address = address.String
		c.CreatedAt = parseTime(createdAt)
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

const projectColumns = "id, client_id, name, daily_rate, currency, active, created_at"

func (s *Store) SaveProject(ctx context.Context, p billing.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO projects (id, client_id, name, daily_rate, currency, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			daily_rate = excluded.daily_rate,
			currency = excluded.currency,
			active = excluded.active
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.ClientID, p.Name, p.DailyRate.String(), p.Currency, p.Active,
		formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

func (s *Store) GetProject(ctx context.Context, id string) (*billing.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects returns all projects, or one client's when clientID is set.
func (s *Store) ListProjects(ctx context.Context, clientID string) ([]billing.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + projectColumns + " FROM projects"
	var args []any
	if clientID != "" {
		query += " WHERE client_id = ?"
		args = append(args, clientID)
	}
	query += " ORDER BY name, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []billing.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func scanProject(row scanner) (billing.Project, error) {
	var p billing.Project
	var rate, createdAt string
	if err := row.Scan(&p.ID, &p.ClientID, &p.Name, &rate, &p.Currency, &p.Active, &createdAt); err != nil {
		return billing.Project{}, err
	}
	p.DailyRate = parseDecimal(rate)
	p.CreatedAt = parseTime(createdAt)
	return p, nil
}

// =============================================================================
// INVOICE STORE
// =============================================================================

const invoiceColumns = `id, number, client_id, project_id, period_start, period_end, currency,
	days, daily_rate, total, status, issued_on, due_on, notes,
	paid_on, conversion_rate, received, deductions, created_at, updated_at`

// SaveInvoice inserts or replaces an invoice by ID. A duplicate number is
// reported as generic.ErrConflict.
func (s *Store) SaveInvoice(ctx context.Context, inv billing.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			days = excluded.days,
			daily_rate = excluded.daily_rate,
			total = excluded.total,
			status = excluded.status,
			issued_on = excluded.issued_on,
			due_on = excluded.due_on,
			notes = excluded.notes,
			paid_on = excluded.paid_on,
			conversion_rate = excluded.conversion_rate,
			received = excluded.received,
			deductions = excluded.deductions,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		inv.ID,
		inv.Number,
		inv.ClientID,
		inv.ProjectID,
		inv.Period.Start.String(),
		inv.Period.End.String(),
		inv.Currency,
		inv.Days.String(),
		inv.DailyRate.String(),
		inv.Total.String(),
		string(inv.Status),
		nullString(inv.IssuedOn.String()),
		nullString(inv.DueOn.String()),
		nullString(inv.Notes),
		nullString(inv.PaidOn.String()),
		nullDecimal(inv.ConversionRate),
		nullDecimal(inv.Received),
		nullDecimal(inv.Deductions),
		formatTime(inv.CreatedAt),
		formatTime(inv.UpdatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: invoice number %s already used", generic.ErrConflict, inv.Number)
		}
		return fmt.Errorf("failed to save invoice: %w", err)
	}
	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id string) (*billing.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+invoiceColumns+" FROM invoices WHERE id = ?", id)
	inv, err := scanInvoice(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvoices returns invoices matching f ordered by number.
func (s *Store) ListInvoices(ctx context.Context, f ledger.InvoiceFilter) ([]billing.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var where []string
	var args []any
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.ClientID != "" {
		where = append(where, "client_id = ?")
		args = append(args, f.ClientID)
	}
	if f.ProjectID != "" {
		where = append(where, "project_id = ?")
		args = append(args, f.ProjectID)
	}
	if !f.PaidFrom.IsZero() {
		where = append(where, "paid_on >= ?")
		args = append(args, f.PaidFrom.String())
	}
	if !f.PaidTo.IsZero() {
		where = append(where, "paid_on <= ?")
		args = append(args, f.PaidTo.String())
	}

	query := "SELECT " + invoiceColumns + " FROM invoices"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY number"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []billing.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// NextInvoiceSequence bumps the counter for year inside a transaction.
func (s *Store) NextInvoiceSequence(ctx context.Context, year int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO invoice_counters (year, seq) VALUES (?, 1)
		ON CONFLICT(year) DO UPDATE SET seq = seq + 1
	`, year)
	if err != nil {
		return 0, err
	}

	var seq int
	if err := tx.QueryRowContext(ctx, "SELECT seq FROM invoice_counters WHERE year = ?", year).Scan(&seq); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return seq, nil
}

func scanInvoice(row scanner) (billing.Invoice, error) {
	var inv billing.Invoice
	var periodStart, periodEnd, days, rate, total, status, createdAt, updatedAt string
	var issuedOn, dueOn, notes, paidOn, conversionRate, received, deductions sql.NullString

	err := row.Scan(
		&inv.ID, &inv.Number, &inv.ClientID, &inv.ProjectID,
		&periodStart, &periodEnd, &inv.Currency,
		&days, &rate, &total, &status,
		&issuedOn, &dueOn, &notes,
		&paidOn, &conversionRate, &received, &deductions,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return billing.Invoice{}, err
	}

	inv.Period.Start = parseDate(periodStart)
	inv.Period.End = parseDate(periodEnd)
	inv.Days = parseDecimal(days)
	inv.DailyRate = parseDecimal(rate)
	inv.Total = parseDecimal(total)
	inv.Status = billing.Status(status)
	inv.IssuedOn = parseDate(issuedOn.String)
	inv.DueOn = parseDate(dueOn.String)
	inv.Notes = notes.String
	inv.PaidOn = parseDate(paidOn.String)
	inv.ConversionRate = parseDecimal(conversionRate.String)
	inv.Received = parseDecimal(received.String)
	inv.Deductions = parseDecimal(deductions.String)
	inv.CreatedAt = parseTime(createdAt)
	inv.UpdatedAt = parseTime(updatedAt)
	return inv, nil
}

// =============================================================================
// TAX PAYMENT STORE
// =============================================================================

func (s *Store) SaveTaxPayment(ctx context.Context, p earnings.TaxPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO tax_payments (id, financial_year, paid_on, amount, kind, reference, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			financial_year = excluded.financial_year,
			paid_on = excluded.paid_on,
			amount = excluded.amount,
			kind = excluded.kind,
			reference = excluded.reference
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID,
		p.FinancialYear.String(),
		p.PaidOn.String(),
		p.Amount.String(),
		string(p.Kind),
		nullString(p.Reference),
		formatTime(p.CreatedAt),
	)
	return err
}

// ListTaxPayments returns the payments of fy ordered by payment date.
func (s *Store) ListTaxPayments(ctx context.Context, fy generic.FinancialYear) ([]earnings.TaxPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, paid_on, amount, kind, reference, created_at
		FROM tax_payments
		WHERE financial_year = ?
		ORDER BY paid_on, created_at
	`, fy.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []earnings.TaxPayment
	for rows.Next() {
		p := earnings.TaxPayment{FinancialYear: fy}
		var paidOn, amount, kind, createdAt string
		var reference sql.NullString
		if err := rows.Scan(&p.ID, &paidOn, &amount, &kind, &reference, &createdAt); err != nil {
			return nil, err
		}
		p.PaidOn = parseDate(paidOn)
		p.Amount = parseDecimal(amount)
		p.Kind = earnings.PaymentKind(kind)
		p.Reference = reference.String
		p.CreatedAt = parseTime(createdAt)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// =============================================================================
// SETTINGS STORE
// =============================================================================

// GetSetting returns nil when key is unset.
func (s *Store) GetSetting(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (s *Store) PutSetting(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, string(value), formatTime(time.Now()))
	return err
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Children before parents for the foreign keys.
	tables := []string{"days", "invoices", "projects", "clients", "invoice_counters", "tax_payments", "settings"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullDecimal(d decimal.Decimal) sql.NullString {
	if d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	return generic.MustParseDecimal(s)
}

func parseDate(s string) generic.Date {
	if s == "" {
		return generic.Date{}
	}
	d, _ := generic.ParseDate(s)
	return d
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
