/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  internal domain model from the external contract. Monetary values
  cross the wire as strings to keep decimal precision out of
  float-typed JSON numbers.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - revenue package: the computed structures these mirror
*/
package api

import (
	"time"

	"github.com/assemned1000/teamgestion-sub000/billing"
	"github.com/assemned1000/teamgestion-sub000/revenue"
	"github.com/assemned1000/teamgestion-sub000/store/sqlite"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ClientDTO represents a client in API responses.
type ClientDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AnchorDay int    `json:"anchor_day"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateClientRequest is the request to create or update a client.
type CreateClientRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AnchorDay int    `json:"anchor_day"`
}

// AssignmentDTO represents a rate assignment.
type AssignmentDTO struct {
	ID          string  `json:"id"`
	ClientID    string  `json:"client_id"`
	EmployeeID  string  `json:"employee_id,omitempty"`
	MonthlyRate string  `json:"monthly_rate"`
	Currency    string  `json:"currency"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`
}

// CreateAssignmentRequest is the request to create a rate assignment.
type CreateAssignmentRequest struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id,omitempty"`
	MonthlyRate string  `json:"monthly_rate"`
	Currency    string  `json:"currency"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`
}

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	HireDate      string `json:"hire_date"`
	MonthlySalary string `json:"monthly_salary"`
	Currency      string `json:"currency"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	HireDate      string `json:"hire_date"`
	MonthlySalary string `json:"monthly_salary"`
	Currency      string `json:"currency"`
}

// RatesDTO carries the exchange-rate set.
type RatesDTO struct {
	EURDZD string `json:"eur_dzd"`
	USDDZD string `json:"usd_dzd"`
	AEDDZD string `json:"aed_dzd"`
	Source string `json:"source,omitempty"` // "stored" or "default"
}

// PeriodDTO is a derived billing/payroll period.
type PeriodDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RevenueLineDTO is one assignment's contribution to a total.
type RevenueLineDTO struct {
	AssignmentID string `json:"assignment_id"`
	Ratio        string `json:"ratio"`
	PeriodAmount string `json:"period_amount"`
	Currency     string `json:"currency"`
	Converted    string `json:"converted"`
}

// ClientRevenueDTO is the period-actual revenue of a client.
type ClientRevenueDTO struct {
	ClientID        string           `json:"client_id"`
	Period          PeriodDTO        `json:"period"`
	DisplayCurrency string           `json:"display_currency"`
	Total           string           `json:"total"`
	Lines           []RevenueLineDTO `json:"lines"`
	AsOf            string           `json:"as_of"`
}

// PayrollLineDTO is one employee's contribution to the payroll total.
type PayrollLineDTO struct {
	EmployeeID   string `json:"employee_id"`
	Ratio        string `json:"ratio"`
	PeriodAmount string `json:"period_amount"`
	Currency     string `json:"currency"`
	Converted    string `json:"converted"`
}

// PayrollSummaryDTO is the company-wide payroll total.
type PayrollSummaryDTO struct {
	DisplayCurrency string           `json:"display_currency"`
	Total           string           `json:"total"`
	Lines           []PayrollLineDTO `json:"lines"`
	AsOf            string           `json:"as_of"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toClientDTO(c sqlite.Client) ClientDTO {
	return ClientDTO{
		ID:        c.ID,
		Name:      c.Name,
		AnchorDay: c.AnchorDay,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func toAssignmentDTO(a sqlite.RateAssignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:          a.ID,
		ClientID:    a.ClientID,
		EmployeeID:  a.EmployeeID,
		MonthlyRate: a.MonthlyRate.Value.String(),
		Currency:    string(a.MonthlyRate.Currency),
		StartDate:   a.Window.Start.String(),
	}
	if a.Window.End != nil {
		v := a.Window.End.String()
		dto.EndDate = &v
	}
	return dto
}

func toEmployeeDTO(e sqlite.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:            e.ID,
		Name:          e.Name,
		Category:      string(e.Category),
		HireDate:      e.HireDate.String(),
		MonthlySalary: e.MonthlySalary.Value.String(),
		Currency:      string(e.MonthlySalary.Currency),
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}

func toRevenueDTO(clientID string, r revenue.ClientRevenue, display billing.Currency, asOf billing.Day) ClientRevenueDTO {
	lines := make([]RevenueLineDTO, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = RevenueLineDTO{
			AssignmentID: l.AssignmentID,
			Ratio:        l.Ratio,
			PeriodAmount: l.PeriodAmount.Value.String(),
			Currency:     string(l.PeriodAmount.Currency),
			Converted:    l.Converted.Value.String(),
		}
	}
	return ClientRevenueDTO{
		ClientID:        clientID,
		Period:          PeriodDTO{Start: r.Period.Start.String(), End: r.Period.End.String()},
		DisplayCurrency: string(display),
		Total:           r.Total.Value.String(),
		Lines:           lines,
		AsOf:            asOf.String(),
	}
}

func toPayrollDTO(p revenue.PayrollSummary, display billing.Currency, asOf billing.Day) PayrollSummaryDTO {
	lines := make([]PayrollLineDTO, len(p.Lines))
	for i, l := range p.Lines {
		lines[i] = PayrollLineDTO{
			EmployeeID:   l.EmployeeID,
			Ratio:        l.Ratio,
			PeriodAmount: l.PeriodAmount.Value.String(),
			Currency:     string(l.PeriodAmount.Currency),
			Converted:    l.Converted.Value.String(),
		}
	}
	return PayrollSummaryDTO{
		DisplayCurrency: string(display),
		Total:           p.Total.Value.String(),
		Lines:           lines,
		AsOf:            asOf.String(),
	}
}
