/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the domain model from the external API contract. Money, rates and day
  counts are decimal strings so clients never see float rounding.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry go-playground/validator tags for shape checks
  (required, numeric, oneof). Dates, months and financial years are parsed
  by the generic package in handlers so their messages stay consistent.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/taxregime.go: TaxRegimeJSON
*/
package api

import (
	"time"

	"github.com/warp/daybook/billing"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/earnings"
	"github.com/warp/daybook/factory"
	"github.com/warp/daybook/leave"
	"github.com/warp/daybook/ledger"
)

// =============================================================================
// DAYS & MONTHS
// =============================================================================

// DayDTO is an explicit record or an implicit working day.
type DayDTO struct {
	ID        int64  `json:"id,omitempty"`
	Date      string `json:"date"`
	Type      string `json:"type"`
	ProjectID string `json:"project_id,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Implicit  bool   `json:"implicit,omitempty"`
}

// SaveDayRequest is the body of PUT /api/days/{date}.
type SaveDayRequest struct {
	Type      string `json:"type" validate:"required"`
	ProjectID string `json:"project_id"`
	Notes     string `json:"notes" validate:"max=500"`
}

type HolidayDTO struct {
	Date    string `json:"date"`
	Name    string `json:"name"`
	Movable bool   `json:"movable"`
}

type SummaryDTO struct {
	Working              int    `json:"working"`
	Leave                int    `json:"leave"`
	Holiday              int    `json:"holiday"`
	HalfDay              int    `json:"half_day"`
	ExtraWorking         int    `json:"extra_working"`
	Weekend              int    `json:"weekend"`
	EffectiveWorkingDays string `json:"effective_working_days"`
}

type MonthDTO struct {
	Month    string       `json:"month"`
	Entries  []DayDTO     `json:"entries"`
	Holidays []HolidayDTO `json:"holidays"`
	Summary  SummaryDTO   `json:"summary"`
}

func toDayDTO(r calendar.DayRecord) DayDTO {
	return DayDTO{
		ID:        r.ID,
		Date:      r.Date.String(),
		Type:      string(r.Type),
		ProjectID: r.ProjectID,
		Notes:     r.Notes,
	}
}

func toEntryDTO(e calendar.Entry) DayDTO {
	if rec, ok := e.(calendar.Recorded); ok {
		return toDayDTO(rec.Record)
	}
	return DayDTO{Date: e.Date().String(), Type: string(e.Type()), Implicit: true}
}

func toHolidayDTOs(holidays []calendar.Holiday) []HolidayDTO {
	dtos := make([]HolidayDTO, len(holidays))
	for i, h := range holidays {
		dtos[i] = HolidayDTO{Date: h.Date.String(), Name: h.Name, Movable: h.Movable}
	}
	return dtos
}

func toSummaryDTO(s calendar.MonthSummary) SummaryDTO {
	return SummaryDTO{
		Working:              s.Working,
		Leave:                s.Leave,
		Holiday:              s.Holiday,
		HalfDay:              s.HalfDay,
		ExtraWorking:         s.ExtraWorking,
		Weekend:              s.Weekend,
		EffectiveWorkingDays: s.EffectiveWorkingDays.String(),
	}
}

func toMonthDTO(v calendar.MonthView) MonthDTO {
	entries := make([]DayDTO, len(v.Entries))
	for i, e := range v.Entries {
		entries[i] = toEntryDTO(e)
	}
	return MonthDTO{
		Month:    v.Month.String(),
		Entries:  entries,
		Holidays: toHolidayDTOs(v.Holidays),
		Summary:  toSummaryDTO(v.Summary),
	}
}

// =============================================================================
// LEAVE
// =============================================================================

type LeaveBalanceDTO struct {
	Month         string `json:"month"`
	MonthsElapsed int    `json:"months_elapsed"`
	Accrued       string `json:"accrued"`
	LeaveTaken    int    `json:"leave_taken"`
	HalfDaysTaken int    `json:"half_days_taken"`
	Used          string `json:"used"`
	Remaining     string `json:"remaining"`
}

type LeaveStatementLineDTO struct {
	Month    string `json:"month"`
	Accrued  string `json:"accrued"`
	Used     string `json:"used"`
	Balance  string `json:"balance"`
	Leave    int    `json:"leave"`
	HalfDays int    `json:"half_days"`
}

func toLeaveBalanceDTO(b leave.Balance) LeaveBalanceDTO {
	return LeaveBalanceDTO{
		Month:         b.Target.String(),
		MonthsElapsed: b.MonthsElapsed,
		Accrued:       b.Accrued.Value.String(),
		LeaveTaken:    b.LeaveTaken,
		HalfDaysTaken: b.HalfDaysTaken,
		Used:          b.Used().Value.String(),
		Remaining:     b.Remaining.Value.String(),
	}
}

func toStatementDTOs(lines []leave.StatementLine) []LeaveStatementLineDTO {
	dtos := make([]LeaveStatementLineDTO, len(lines))
	for i, l := range lines {
		dtos[i] = LeaveStatementLineDTO{
			Month:    l.Month.String(),
			Accrued:  l.Accrued.Value.String(),
			Used:     l.Used.Value.String(),
			Balance:  l.Balance.Value.String(),
			Leave:    l.Leave,
			HalfDays: l.HalfDays,
		}
	}
	return dtos
}

// =============================================================================
// CLIENTS & PROJECTS
// =============================================================================

type ClientDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Currency  string `json:"currency"`
	Address   string `json:"address,omitempty"`
	CreatedAt string `json:"created_at"`
}

type CreateClientRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"omitempty,email"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
	Address  string `json:"address"`
}

type ProjectDTO struct {
	ID        string `json:"id"`
	ClientID  string `json:"client_id"`
	Name      string `json:"name"`
	DailyRate string `json:"daily_rate"`
	Currency  string `json:"currency"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

type CreateProjectRequest struct {
	ClientID  string `json:"client_id" validate:"required"`
	Name      string `json:"name" validate:"required,max=200"`
	DailyRate string `json:"daily_rate" validate:"required,numeric"`
}

type UpdateProjectRequest struct {
	Active *bool `json:"active" validate:"required"`
}

func toClientDTO(c billing.Client) ClientDTO {
	return ClientDTO{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Currency:  c.Currency,
		Address:   c.Address,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func toProjectDTO(p billing.Project) ProjectDTO {
	return ProjectDTO{
		ID:        p.ID,
		ClientID:  p.ClientID,
		Name:      p.Name,
		DailyRate: p.DailyRate.String(),
		Currency:  p.Currency,
		Active:    p.Active,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// INVOICES
// =============================================================================

type InvoiceDTO struct {
	ID             string `json:"id"`
	Number         string `json:"number"`
	ClientID       string `json:"client_id"`
	ProjectID      string `json:"project_id"`
	PeriodStart    string `json:"period_start"`
	PeriodEnd      string `json:"period_end"`
	Currency       string `json:"currency"`
	Days           string `json:"days"`
	DailyRate      string `json:"daily_rate"`
	Total          string `json:"total"`
	Status         string `json:"status"`
	IssuedOn       string `json:"issued_on,omitempty"`
	DueOn          string `json:"due_on,omitempty"`
	Notes          string `json:"notes,omitempty"`
	PaidOn         string `json:"paid_on,omitempty"`
	ConversionRate string `json:"conversion_rate,omitempty"`
	Received       string `json:"received,omitempty"`
	Deductions     string `json:"deductions,omitempty"`
}

// DraftInvoiceRequest drafts the invoice of one project for one month.
type DraftInvoiceRequest struct {
	ProjectID string `json:"project_id" validate:"required"`
	Month     string `json:"month" validate:"required"`
	Notes     string `json:"notes" validate:"max=1000"`
}

// PayInvoiceRequest records what the bank credited, in the home currency.
type PayInvoiceRequest struct {
	PaidOn         string `json:"paid_on" validate:"required"`
	Received       string `json:"received" validate:"required,numeric"`
	ConversionRate string `json:"conversion_rate" validate:"required,numeric"`
}

func toInvoiceDTO(inv billing.Invoice) InvoiceDTO {
	dto := InvoiceDTO{
		ID:          inv.ID,
		Number:      inv.Number,
		ClientID:    inv.ClientID,
		ProjectID:   inv.ProjectID,
		PeriodStart: inv.Period.Start.String(),
		PeriodEnd:   inv.Period.End.String(),
		Currency:    inv.Currency,
		Days:        inv.Days.String(),
		DailyRate:   inv.DailyRate.String(),
		Total:       inv.Total.String(),
		Status:      string(inv.Status),
		IssuedOn:    inv.IssuedOn.String(),
		DueOn:       inv.DueOn.String(),
		Notes:       inv.Notes,
		PaidOn:      inv.PaidOn.String(),
	}
	if inv.Status == billing.StatusPaid {
		dto.ConversionRate = inv.ConversionRate.String()
		dto.Received = inv.Received.String()
		dto.Deductions = inv.Deductions.String()
	}
	return dto
}

func toInvoiceDTOs(invoices []billing.Invoice) []InvoiceDTO {
	dtos := make([]InvoiceDTO, len(invoices))
	for i, inv := range invoices {
		dtos[i] = toInvoiceDTO(inv)
	}
	return dtos
}

// =============================================================================
// TAX
// =============================================================================

type TaxPaymentDTO struct {
	ID            string `json:"id"`
	FinancialYear string `json:"financial_year"`
	PaidOn        string `json:"paid_on"`
	Amount        string `json:"amount"`
	Kind          string `json:"kind"`
	Reference     string `json:"reference,omitempty"`
}

type TaxPaymentRequest struct {
	FinancialYear string `json:"financial_year" validate:"required"`
	PaidOn        string `json:"paid_on" validate:"required"`
	Amount        string `json:"amount" validate:"required,numeric"`
	Kind          string `json:"kind" validate:"required,oneof=advance self_assessment tds"`
	Reference     string `json:"reference" validate:"max=100"`
}

type ComputeTaxRequest struct {
	FinancialYear string `json:"financial_year" validate:"required"`
	GrossReceipts string `json:"gross_receipts" validate:"required,numeric"`
}

type SlabLineDTO struct {
	From    string `json:"from"`
	UpTo    string `json:"up_to,omitempty"`
	Rate    string `json:"rate"`
	Taxable string `json:"taxable"`
	Tax     string `json:"tax"`
}

type TaxBreakdownDTO struct {
	FinancialYear  string        `json:"financial_year"`
	GrossReceipts  string        `json:"gross_receipts"`
	TaxableIncome  string        `json:"taxable_income"`
	Lines          []SlabLineDTO `json:"lines"`
	SlabTax        string        `json:"slab_tax"`
	RebateEligible bool          `json:"rebate_eligible"`
	Rebate         string        `json:"rebate"`
	TaxAfterRebate string        `json:"tax_after_rebate"`
	Cess           string        `json:"cess"`
	Total          string        `json:"total"`
	EffectiveRate  string        `json:"effective_rate"`
}

type MonthProjectionDTO struct {
	Month         string `json:"month"`
	EffectiveDays string `json:"effective_days"`
	Billed        string `json:"billed"`
	Projected     string `json:"projected"`
}

type ProjectionDTO struct {
	FinancialYear     string               `json:"financial_year"`
	AsOf              string               `json:"as_of"`
	ConversionRate    string               `json:"avg_conversion_rate"`
	DeductionFraction string               `json:"avg_deduction_fraction"`
	PaidInvoices      int                  `json:"paid_invoices"`
	Actual            string               `json:"actual"`
	Months            []MonthProjectionDTO `json:"months"`
	ProjectedTotal    string               `json:"projected_total"`
	GrossReceipts     string               `json:"gross_receipts"`
}

type LiabilityDTO struct {
	Due         string            `json:"due"`
	Paid        string            `json:"paid"`
	Outstanding string            `json:"outstanding"`
	PaidByKind  map[string]string `json:"paid_by_kind"`
	DueBy       string            `json:"due_by"`
}

type TaxReportDTO struct {
	DailyRate  string          `json:"daily_rate"`
	Projection ProjectionDTO   `json:"projection"`
	Tax        TaxBreakdownDTO `json:"tax"`
	Liability  LiabilityDTO    `json:"liability"`
}

// TaxRegimeDTO wraps the regime document served by GET /api/tax/regimes.
type TaxRegimeDTO = factory.TaxRegimeJSON

func toTaxPaymentDTO(p earnings.TaxPayment) TaxPaymentDTO {
	return TaxPaymentDTO{
		ID:            p.ID,
		FinancialYear: p.FinancialYear.String(),
		PaidOn:        p.PaidOn.String(),
		Amount:        p.Amount.String(),
		Kind:          string(p.Kind),
		Reference:     p.Reference,
	}
}

func toTaxBreakdownDTO(b earnings.TaxBreakdown) TaxBreakdownDTO {
	lines := make([]SlabLineDTO, len(b.Lines))
	for i, l := range b.Lines {
		lines[i] = SlabLineDTO{
			From:    l.From.String(),
			Rate:    l.Rate.String(),
			Taxable: l.Taxable.String(),
			Tax:     l.Tax.String(),
		}
		if l.UpTo != nil {
			lines[i].UpTo = l.UpTo.String()
		}
	}
	return TaxBreakdownDTO{
		FinancialYear:  b.FinancialYear.String(),
		GrossReceipts:  b.GrossReceipts.String(),
		TaxableIncome:  b.TaxableIncome.String(),
		Lines:          lines,
		SlabTax:        b.SlabTax.String(),
		RebateEligible: b.RebateEligible,
		Rebate:         b.Rebate.String(),
		TaxAfterRebate: b.TaxAfterRebate.String(),
		Cess:           b.Cess.String(),
		Total:          b.Total.StringFixed(2),
		EffectiveRate:  b.EffectiveRate().StringFixed(4),
	}
}

func toTaxReportDTO(r ledger.TaxReport) TaxReportDTO {
	p := r.Projection
	months := make([]MonthProjectionDTO, len(p.Months))
	for i, m := range p.Months {
		months[i] = MonthProjectionDTO{
			Month:         m.Month.String(),
			EffectiveDays: m.EffectiveDays.String(),
			Billed:        m.Billed.String(),
			Projected:     m.Projected.StringFixed(2),
		}
	}

	paidByKind := make(map[string]string, len(r.Liability.PaidByKind))
	for k, v := range r.Liability.PaidByKind {
		paidByKind[string(k)] = v.String()
	}

	return TaxReportDTO{
		DailyRate: r.DailyRate.String(),
		Projection: ProjectionDTO{
			FinancialYear:     p.FinancialYear.String(),
			AsOf:              p.AsOf.String(),
			ConversionRate:    p.Rates.ConversionRate.StringFixed(4),
			DeductionFraction: p.Rates.DeductionFraction.StringFixed(6),
			PaidInvoices:      p.Rates.Invoices,
			Actual:            p.Actual.String(),
			Months:            months,
			ProjectedTotal:    p.ProjectedTotal.StringFixed(2),
			GrossReceipts:     p.GrossReceipts().StringFixed(2),
		},
		Tax: toTaxBreakdownDTO(r.Tax),
		Liability: LiabilityDTO{
			Due:         r.Liability.Due.StringFixed(2),
			Paid:        r.Liability.Paid.String(),
			Outstanding: r.Liability.Outstanding.StringFixed(2),
			PaidByKind:  paidByKind,
			DueBy:       r.Liability.DueBy.String(),
		},
	}
}

// =============================================================================
// COMMON
// =============================================================================

// ErrorResponse is returned for any error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
