/*
handlers.go - HTTP API handlers for the valuation dashboard backend

PURPOSE:
  Exposes the entities and the computed figures via REST. Handlers
  parse HTTP, validate input, call the engine and serialize results;
  all numeric semantics live in the billing and revenue packages.

ENDPOINTS:
  Clients:
    GET    /api/clients                    List clients
    POST   /api/clients                    Create/update client
    GET    /api/clients/{id}               Client details
    GET    /api/clients/{id}/assignments   Rate assignments
    POST   /api/clients/{id}/assignments   Add rate assignment
    GET    /api/clients/{id}/revenue       Period-actual revenue

  Employees:
    GET    /api/employees                  List employees
    POST   /api/employees                  Create/update employee

  Payroll:
    GET    /api/payroll/summary            Company payroll total

  Rates:
    GET    /api/rates                      Current exchange rates
    PUT    /api/rates                      Replace exchange rates

TIME HANDLING:
  Computed endpoints accept ?as_of=YYYY-MM-DD for reproducible
  results; absent, "now" is captured once per request and threaded
  through every calculation in it.

ERROR HANDLING:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/assemned1000/teamgestion-sub000/billing"
	"github.com/assemned1000/teamgestion-sub000/revenue"
	"github.com/assemned1000/teamgestion-sub000/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Log     *logrus.Logger
	Display billing.Currency // default display currency
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store, log *logrus.Logger, display billing.Currency) *Handler {
	if display == "" {
		display = billing.DZD
	}
	return &Handler{Store: store, Log: log, Display: display}
}

// table builds a conversion table from the persisted rates, falling
// back to the compiled-in defaults when none are stored.
func (h *Handler) table(r *http.Request) (*billing.Table, error) {
	rates, err := h.Store.GetRates(r.Context())
	if err != nil {
		return nil, err
	}
	if rates == nil {
		defaults := billing.DefaultRates()
		rates = &defaults
	}
	return billing.NewTable(*rates)
}

// =============================================================================
// CLIENT HANDLERS
// =============================================================================

// ListClients returns all clients.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Store.ListClients(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list clients", err)
		return
	}

	dtos := make([]ClientDTO, len(clients))
	for i, c := range clients {
		dtos[i] = toClientDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetClient returns a single client.
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	client, err := h.Store.GetClient(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get client", err)
		return
	}
	if client == nil {
		writeError(w, http.StatusNotFound, "Client not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toClientDTO(*client))
}

// CreateClient creates or updates a client.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	if err := billing.ValidateAnchorDay(req.AnchorDay); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid anchor_day (use 1-31)", err)
		return
	}

	client := sqlite.Client{ID: req.ID, Name: req.Name, AnchorDay: req.AnchorDay}
	if err := h.Store.SaveClient(r.Context(), client); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create client", err)
		return
	}

	writeJSON(w, http.StatusCreated, toClientDTO(client))
}

// =============================================================================
// ASSIGNMENT HANDLERS
// =============================================================================

// ListAssignments returns a client's rate assignments.
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")

	assignments, err := h.Store.ListAssignmentsByClient(r.Context(), clientID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assignments", err)
		return
	}

	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = toAssignmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAssignment adds a rate assignment to a client.
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")

	client, err := h.Store.GetClient(r.Context(), clientID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get client", err)
		return
	}
	if client == nil {
		writeError(w, http.StatusNotFound, "Client not found", nil)
		return
	}

	var req CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rate, err := decimal.NewFromString(req.MonthlyRate)
	if err != nil || rate.IsNegative() {
		writeError(w, http.StatusBadRequest, "Invalid monthly_rate", err)
		return
	}
	currency, err := billing.ParseCurrencyStrict(req.Currency)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unsupported currency", err)
		return
	}

	start, err := parseDateParam(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	window := billing.Window{Start: start}
	if req.EndDate != nil {
		end, err := parseDateParam(*req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
			return
		}
		window.End = &end
	}
	if err := window.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "end_date precedes start_date", err)
		return
	}

	assignment := sqlite.RateAssignment{
		ID:          req.ID,
		ClientID:    clientID,
		EmployeeID:  req.EmployeeID,
		MonthlyRate: billing.Money{Value: rate, Currency: currency},
		Window:      window,
	}
	if err := h.Store.SaveAssignment(r.Context(), assignment); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create assignment", err)
		return
	}

	writeJSON(w, http.StatusCreated, toAssignmentDTO(assignment))
}

// =============================================================================
// COMPUTED: CLIENT REVENUE
// =============================================================================

// ClientRevenue returns the period-actual, currency-normalized revenue
// for one client.
func (h *Handler) ClientRevenue(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")

	client, err := h.Store.GetClient(r.Context(), clientID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get client", err)
		return
	}
	if client == nil {
		writeError(w, http.StatusNotFound, "Client not found", nil)
		return
	}

	display, now, ok := h.computeParams(w, r)
	if !ok {
		return
	}

	table, err := h.table(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load exchange rates", err)
		return
	}

	records, err := h.Store.ListAssignmentsByClient(r.Context(), clientID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assignments", err)
		return
	}

	assignments := make([]revenue.RateAssignment, len(records))
	for i, a := range records {
		assignments[i] = revenue.RateAssignment{
			ID:          a.ID,
			MonthlyRate: a.MonthlyRate,
			Window:      a.Window,
		}
	}

	agg := revenue.NewAggregator(table)
	result := agg.ClientRevenue(client.AnchorDay, assignments, display, now)

	writeJSON(w, http.StatusOK, toRevenueDTO(clientID, result, display, now))
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates or updates an employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	hire, err := parseDateParam(req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hire_date format (use YYYY-MM-DD)", err)
		return
	}
	salary, err := decimal.NewFromString(req.MonthlySalary)
	if err != nil || salary.IsNegative() {
		writeError(w, http.StatusBadRequest, "Invalid monthly_salary", err)
		return
	}
	currency, err := billing.ParseCurrencyStrict(req.Currency)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unsupported currency", err)
		return
	}

	category := billing.TenantCategory(req.Category)
	if category == "" {
		category = billing.CategoryStandard
	}

	employee := sqlite.Employee{
		ID:            req.ID,
		Name:          req.Name,
		Category:      category,
		HireDate:      hire,
		MonthlySalary: billing.Money{Value: salary, Currency: currency},
	}
	if err := h.Store.SaveEmployee(r.Context(), employee); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeDTO(employee))
}

// =============================================================================
// COMPUTED: PAYROLL SUMMARY
// =============================================================================

// PayrollSummary returns the company-wide payroll total for the
// current pay periods.
func (h *Handler) PayrollSummary(w http.ResponseWriter, r *http.Request) {
	display, now, ok := h.computeParams(w, r)
	if !ok {
		return
	}

	table, err := h.table(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load exchange rates", err)
		return
	}

	records, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	employees := make([]revenue.EmployeePay, len(records))
	for i, e := range records {
		employees[i] = revenue.EmployeePay{
			ID:            e.ID,
			Category:      e.Category,
			Hire:          e.HireDate,
			MonthlySalary: e.MonthlySalary,
		}
	}

	agg := revenue.NewAggregator(table)
	result := agg.Payroll(employees, display, now)

	writeJSON(w, http.StatusOK, toPayrollDTO(result, display, now))
}

// =============================================================================
// RATE HANDLERS
// =============================================================================

// GetRates returns the exchange rates currently in effect.
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.Store.GetRates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load exchange rates", err)
		return
	}

	source := "stored"
	if rates == nil {
		defaults := billing.DefaultRates()
		rates = &defaults
		source = "default"
	}

	writeJSON(w, http.StatusOK, RatesDTO{
		EURDZD: rates.EURDZD.String(),
		USDDZD: rates.USDDZD.String(),
		AEDDZD: rates.AEDDZD.String(),
		Source: source,
	})
}

// PutRates replaces the exchange-rate set.
func (h *Handler) PutRates(w http.ResponseWriter, r *http.Request) {
	var req RatesDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rates, err := parseRates(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rates", err)
		return
	}
	if err := rates.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Rates must be positive", err)
		return
	}

	if err := h.Store.SaveRates(r.Context(), rates); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save rates", err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"eur_dzd": rates.EURDZD,
		"usd_dzd": rates.USDDZD,
		"aed_dzd": rates.AEDDZD,
	}).Info("exchange rates replaced via API")

	writeJSON(w, http.StatusOK, RatesDTO{
		EURDZD: rates.EURDZD.String(),
		USDDZD: rates.USDDZD.String(),
		AEDDZD: rates.AEDDZD.String(),
		Source: "stored",
	})
}

func parseRates(req RatesDTO) (billing.RateSet, error) {
	eur, err := decimal.NewFromString(req.EURDZD)
	if err != nil {
		return billing.RateSet{}, err
	}
	usd, err := decimal.NewFromString(req.USDDZD)
	if err != nil {
		return billing.RateSet{}, err
	}
	aed, err := decimal.NewFromString(req.AEDDZD)
	if err != nil {
		return billing.RateSet{}, err
	}
	return billing.RateSet{EURDZD: eur, USDDZD: usd, AEDDZD: aed}, nil
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// computeParams resolves the display currency and "as of" day for the
// computed endpoints. The day defaults to today and is captured once,
// so everything in the request shares one period derivation.
func (h *Handler) computeParams(w http.ResponseWriter, r *http.Request) (billing.Currency, billing.Day, bool) {
	display := h.Display
	if c := r.URL.Query().Get("currency"); c != "" {
		parsed, err := billing.ParseCurrencyStrict(c)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Unsupported display currency", err)
			return "", billing.Day{}, false
		}
		display = parsed
	}

	now := billing.Today()
	if s := r.URL.Query().Get("as_of"); s != "" {
		parsed, err := parseDateParam(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid as_of format (use YYYY-MM-DD)", err)
			return "", billing.Day{}, false
		}
		now = parsed
	}

	return display, now, true
}

func parseDateParam(s string) (billing.Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return billing.Day{}, err
	}
	return billing.DayOf(t), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Code = err.Error()
	}
	writeJSON(w, status, resp)
}
