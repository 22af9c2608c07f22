/*
handlers.go - HTTP API handlers for the daybook

PURPOSE:
  Exposes the ledger service via REST API. Handles HTTP request/response,
  JSON serialization and validation, and delegates to ledger.Service.

ENDPOINTS:
  Days & months:
    GET    /api/days?month=YYYY-MM        Explicit records of a month
    PUT    /api/days/{date}               Upsert the record for a date
    DELETE /api/days/{date}               Remove the record for a date
    GET    /api/months/{month}            Augmented month view + summary
    GET    /api/holidays?year=YYYY        Holiday calendar

  Leave:
    GET    /api/leave/balance?month=      Balance at the end of a month
    GET    /api/leave/statement?month=    Month-by-month running balance
    GET    /api/settings/leave-policy     Current policy
    PUT    /api/settings/leave-policy     Replace policy

  Billing:
    GET    /api/clients                   List clients
    POST   /api/clients                   Create client
    GET    /api/clients/{id}              Get client
    GET    /api/projects?client_id=       List projects
    POST   /api/projects                  Create project
    GET    /api/projects/{id}             Get project
    PATCH  /api/projects/{id}             Archive or reactivate
    GET    /api/invoices?status=&client_id=&project_id=
    POST   /api/invoices                  Draft invoice for project + month
    GET    /api/invoices/{id}             Get invoice
    POST   /api/invoices/{id}/send        draft -> sent
    POST   /api/invoices/{id}/pay         sent|overdue -> paid
    POST   /api/invoices/{id}/cancel      draft|sent|overdue -> cancelled

  Tax:
    GET    /api/tax/regimes               Configured regimes
    POST   /api/tax/compute               Tax on a gross receipts figure
    GET    /api/tax/projection?fy=&daily_rate=
    GET    /api/tax-payments?fy=          Payments for a year
    POST   /api/tax-payments              Record a payment

  Admin:
    POST   /api/admin/sweep-overdue       Run the overdue sweep now

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed JSON, dates, months, unknown financial year
  - 404: Resource not found
  - 409: State conflict (re-sending, paying a cancelled invoice)
  - 422: Request body fails tag validation
  - 500: Internal errors

SECURITY NOTE:
  No authentication. The daybook is a single-user tool meant to run on
  localhost or behind an authenticating proxy.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"

	"github.com/warp/daybook/billing"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/earnings"
	"github.com/warp/daybook/factory"
	"github.com/warp/daybook/generic"
	"github.com/warp/daybook/ledger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *ledger.Service
	Metrics *Metrics

	log      *slog.Logger
	validate *validator.Validate
}

// NewHandler creates a handler over svc. A nil logger discards output and
// nil metrics get a fresh private registry.
func NewHandler(svc *ledger.Service, logger *slog.Logger, metrics *Metrics) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Handler{
		Service:  svc,
		Metrics:  metrics,
		log:      logger.With(slog.String("component", "api")),
		validate: validator.New(),
	}
}

// =============================================================================
// DAY & MONTH HANDLERS
// =============================================================================

// ListDays returns the explicit records of a month.
// GET /api/days?month=YYYY-MM
func (h *Handler) ListDays(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r, h.Service.Today())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	records, err := h.Service.Days(r.Context(), month)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	dtos := make([]DayDTO, len(records))
	for i, rec := range records {
		dtos[i] = toDayDTO(rec)
	}
	writeJSON(w, r, http.StatusOK, dtos)
}

// SaveDay upserts the record for a date.
// PUT /api/days/{date}
func (h *Handler) SaveDay(w http.ResponseWriter, r *http.Request) {
	date, err := generic.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var req SaveDayRequest
	if !h.decode(w, r, &req) {
		return
	}
	dayType, err := calendar.ParseDayType(req.Type)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	saved, err := h.Service.SaveDay(r.Context(), calendar.DayRecord{
		Date:      date,
		Type:      dayType,
		ProjectID: req.ProjectID,
		Notes:     req.Notes,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toDayDTO(saved))
}

// DeleteDay removes the record for a date, reverting it to implicit.
// DELETE /api/days/{date}
func (h *Handler) DeleteDay(w http.ResponseWriter, r *http.Request) {
	date, err := generic.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if err := h.Service.DeleteDay(r.Context(), date); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetMonth returns the augmented month with its summary.
// GET /api/months/{month}
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	month, err := generic.ParseYearMonth(chi.URLParam(r, "month"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	view, err := h.Service.Month(r.Context(), month)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toMonthDTO(view))
}

// ListHolidays returns the holiday calendar of a year.
// GET /api/holidays?year=YYYY
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year := h.Service.Today().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 || y > 9999 {
			h.writeServiceError(w, r, &generic.ValidationError{Field: "year", Value: raw, Reason: "expected YYYY"})
			return
		}
		year = y
	}
	writeJSON(w, r, http.StatusOK, toHolidayDTOs(calendar.ListHolidays(year)))
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// GetLeaveBalance returns the balance at the end of a month.
// GET /api/leave/balance?month=YYYY-MM
func (h *Handler) GetLeaveBalance(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r, h.Service.Today())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	balance, err := h.Service.LeaveBalance(r.Context(), month)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toLeaveBalanceDTO(balance))
}

// GetLeaveStatement returns the month-by-month running balance.
// GET /api/leave/statement?month=YYYY-MM
func (h *Handler) GetLeaveStatement(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r, h.Service.Today())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	lines, err := h.Service.LeaveStatement(r.Context(), month)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toStatementDTOs(lines))
}

// GetLeavePolicy returns the leave policy in effect.
// GET /api/settings/leave-policy
func (h *Handler) GetLeavePolicy(w http.ResponseWriter, r *http.Request) {
	policy, err := h.Service.LeavePolicy(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, factory.LeavePolicyJSON(policy))
}

// PutLeavePolicy replaces the leave policy.
// PUT /api/settings/leave-policy
func (h *Handler) PutLeavePolicy(w http.ResponseWriter, r *http.Request) {
	var doc factory.LeavePolicyJSON
	if err := render.DecodeJSON(r.Body, &doc); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Service.SetLeavePolicy(r.Context(), doc); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, doc)
}

// =============================================================================
// CLIENT & PROJECT HANDLERS
// =============================================================================

// ListClients returns all clients.
// GET /api/clients
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Service.ListClients(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dtos := make([]ClientDTO, len(clients))
	for i, c := range clients {
		dtos[i] = toClientDTO(c)
	}
	writeJSON(w, r, http.StatusOK, dtos)
}

// CreateClient creates a client.
// POST /api/clients
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if !h.decode(w, r, &req) {
		return
	}

	client, err := h.Service.CreateClient(r.Context(), req.Name, req.Email, req.Currency, req.Address)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toClientDTO(client))
}

// GetClient returns one client.
// GET /api/clients/{id}
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.Service.GetClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toClientDTO(client))
}

// ListProjects returns all projects, or one client's.
// GET /api/projects?client_id=
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Service.ListProjects(r.Context(), r.URL.Query().Get("client_id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = toProjectDTO(p)
	}
	writeJSON(w, r, http.StatusOK, dtos)
}

// CreateProject creates a project for an existing client.
// POST /api/projects
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if !h.decode(w, r, &req) {
		return
	}
	rate, err := parseDecimalField("daily_rate", req.DailyRate)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	project, err := h.Service.CreateProject(r.Context(), req.ClientID, req.Name, rate)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toProjectDTO(project))
}

// GetProject returns one project.
// GET /api/projects/{id}
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.Service.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toProjectDTO(project))
}

// UpdateProject archives or reactivates a project.
// PATCH /api/projects/{id}
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req UpdateProjectRequest
	if !h.decode(w, r, &req) {
		return
	}

	project, err := h.Service.SetProjectActive(r.Context(), chi.URLParam(r, "id"), *req.Active)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toProjectDTO(project))
}

// =============================================================================
// INVOICE HANDLERS
// =============================================================================

// ListInvoices returns invoices, optionally filtered.
// GET /api/invoices?status=&client_id=&project_id=
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ledger.InvoiceFilter{
		ClientID:  q.Get("client_id"),
		ProjectID: q.Get("project_id"),
	}
	if raw := q.Get("status"); raw != "" {
		status, err := billing.ParseStatus(raw)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		filter.Status = status
	}

	invoices, err := h.Service.ListInvoices(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toInvoiceDTOs(invoices))
}

// DraftInvoice drafts the invoice of a project for a month.
// POST /api/invoices
func (h *Handler) DraftInvoice(w http.ResponseWriter, r *http.Request) {
	var req DraftInvoiceRequest
	if !h.decode(w, r, &req) {
		return
	}
	month, err := generic.ParseYearMonth(req.Month)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	inv, err := h.Service.DraftInvoice(r.Context(), req.ProjectID, month, req.Notes)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.Metrics.invoiceEvent(string(inv.Status), 1)
	writeJSON(w, r, http.StatusCreated, toInvoiceDTO(inv))
}

// GetInvoice returns one invoice.
// GET /api/invoices/{id}
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Service.GetInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toInvoiceDTO(inv))
}

// SendInvoice issues a draft.
// POST /api/invoices/{id}/send
func (h *Handler) SendInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Service.SendInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.Metrics.invoiceEvent(string(inv.Status), 1)
	writeJSON(w, r, http.StatusOK, toInvoiceDTO(inv))
}

// PayInvoice records the payment of a sent or overdue invoice.
// POST /api/invoices/{id}/pay
func (h *Handler) PayInvoice(w http.ResponseWriter, r *http.Request) {
	var req PayInvoiceRequest
	if !h.decode(w, r, &req) {
		return
	}
	paidOn, err := generic.ParseDate(req.PaidOn)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	received, err := parseDecimalField("received", req.Received)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	rate, err := parseDecimalField("conversion_rate", req.ConversionRate)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	inv, err := h.Service.RecordPayment(r.Context(), chi.URLParam(r, "id"), paidOn, received, rate)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.Metrics.invoiceEvent(string(inv.Status), 1)
	writeJSON(w, r, http.StatusOK, toInvoiceDTO(inv))
}

// CancelInvoice cancels an unpaid invoice.
// POST /api/invoices/{id}/cancel
func (h *Handler) CancelInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Service.CancelInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.Metrics.invoiceEvent(string(inv.Status), 1)
	writeJSON(w, r, http.StatusOK, toInvoiceDTO(inv))
}

// SweepOverdue runs the overdue sweep as of today.
// POST /api/admin/sweep-overdue
func (h *Handler) SweepOverdue(w http.ResponseWriter, r *http.Request) {
	changed, err := h.Service.SweepOverdue(r.Context(), h.Service.Today())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.Metrics.overdueSweeps.Inc()
	h.Metrics.invoiceEvent(string(billing.StatusOverdue), len(changed))
	writeJSON(w, r, http.StatusOK, toInvoiceDTOs(changed))
}

// =============================================================================
// TAX HANDLERS
// =============================================================================

// ListTaxRegimes returns every configured regime.
// GET /api/tax/regimes
func (h *Handler) ListTaxRegimes(w http.ResponseWriter, r *http.Request) {
	registry := h.Service.Regimes()
	var dtos []TaxRegimeDTO
	for _, fy := range registry.Years() {
		regime, err := registry.Lookup(fy)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		dtos = append(dtos, factory.ToJSON(regime))
	}
	writeJSON(w, r, http.StatusOK, dtos)
}

// ComputeTax computes tax on an explicit gross receipts figure.
// POST /api/tax/compute
func (h *Handler) ComputeTax(w http.ResponseWriter, r *http.Request) {
	var req ComputeTaxRequest
	if !h.decode(w, r, &req) {
		return
	}
	fy, err := generic.ParseFinancialYear(req.FinancialYear)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	gross, err := parseDecimalField("gross_receipts", req.GrossReceipts)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	breakdown, err := h.Service.ComputeTax(fy, gross)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toTaxBreakdownDTO(breakdown))
}

// GetTaxProjection projects the financial year and computes tax on it.
// GET /api/tax/projection?fy=YYYY-YY&daily_rate=
func (h *Handler) GetTaxProjection(w http.ResponseWriter, r *http.Request) {
	fy, err := fyParam(r, h.Service.Today())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	rate := decimal.Zero
	if raw := r.URL.Query().Get("daily_rate"); raw != "" {
		if rate, err = parseDecimalField("daily_rate", raw); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
	}

	report, err := h.Service.TaxProjection(r.Context(), fy, rate)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.Metrics.projectedTaxDue.Set(report.Tax.Total.InexactFloat64())
	writeJSON(w, r, http.StatusOK, toTaxReportDTO(report))
}

// ListTaxPayments returns the payments of a financial year.
// GET /api/tax-payments?fy=YYYY-YY
func (h *Handler) ListTaxPayments(w http.ResponseWriter, r *http.Request) {
	fy, err := fyParam(r, h.Service.Today())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	payments, err := h.Service.ListTaxPayments(r.Context(), fy)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dtos := make([]TaxPaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toTaxPaymentDTO(p)
	}
	writeJSON(w, r, http.StatusOK, dtos)
}

// RecordTaxPayment records tax paid or withheld.
// POST /api/tax-payments
func (h *Handler) RecordTaxPayment(w http.ResponseWriter, r *http.Request) {
	var req TaxPaymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	fy, err := generic.ParseFinancialYear(req.FinancialYear)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	paidOn, err := generic.ParseDate(req.PaidOn)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	amount, err := parseDecimalField("amount", req.Amount)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	payment, err := h.Service.RecordTaxPayment(r.Context(), earnings.TaxPayment{
		FinancialYear: fy,
		PaidOn:        paidOn,
		Amount:        amount,
		Kind:          earnings.PaymentKind(req.Kind),
		Reference:     req.Reference,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toTaxPaymentDTO(payment))
}

// =============================================================================
// HELPERS
// =============================================================================

// decode reads a JSON body into dst and runs tag validation. It writes the
// error response itself and returns false on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeError(w, r, http.StatusUnprocessableEntity, "Validation failed", errors.New(validationMessage(verrs)))
			return false
		}
		writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func validationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", field))
		case "numeric":
			msgs = append(msgs, fmt.Sprintf("field %s must be a number", field))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be an email address", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of: %s", field, err.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", field))
		}
	}
	return strings.Join(msgs, ", ")
}

// writeServiceError maps domain errors to HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case generic.IsClientError(err):
		writeError(w, r, http.StatusBadRequest, "Invalid input", err)
	case generic.IsNotFound(err):
		writeError(w, r, http.StatusNotFound, "Not found", err)
	case generic.IsConflict(err):
		writeError(w, r, http.StatusConflict, "Conflict", err)
	default:
		h.log.Error("request failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		writeError(w, r, http.StatusInternalServerError, "Internal error", nil)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, data)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, r, status, resp)
}

func parseDecimalField(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &generic.ValidationError{Field: field, Value: raw, Reason: "expected a decimal number"}
	}
	return d, nil
}

// monthParam reads ?month=, defaulting to the month of today.
func monthParam(r *http.Request, today generic.Date) (generic.YearMonth, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return today.YearMonth(), nil
	}
	return generic.ParseYearMonth(raw)
}

// fyParam reads ?fy=, defaulting to the financial year containing today.
func fyParam(r *http.Request, today generic.Date) (generic.FinancialYear, error) {
	raw := r.URL.Query().Get("fy")
	if raw == "" {
		return generic.FinancialYearOf(today), nil
	}
	return generic.ParseFinancialYear(raw)
}
