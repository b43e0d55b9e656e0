/*
Package sqlite provides the SQLite-backed persistence for the
dashboard entities feeding the valuation engine.

PURPOSE:
  The engine itself is pure; everything it consumes (clients and their
  billing anchors, rate assignments, employees, the exchange-rate set)
  lives here. In production the same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

KEY TABLES:
  clients:          Billing anchor day per client
  rate_assignments: Monthly rate lines with activity windows
  employees:        Hire date, salary, tenant category
  exchange_rates:   Latest persisted rate per currency pair

MONEY REPRESENTATION:
  Decimal values are stored as TEXT and parsed with shopspring/decimal
  on read, never as REAL - float columns are exactly the precision bug
  the engine exists to avoid.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened with WAL mode
  so readers don't block each other.

USAGE:
  store, err := sqlite.New("./data/teamgestion.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/assemned1000/teamgestion-sub000/billing"
)

// Store implements persistence for clients, assignments, employees and
// exchange rates.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

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

func (s *Store) migrate() error {
	schema := `
	-- Clients (billing anchor per client)
	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		anchor_day INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Rate assignments (employee-to-client monthly rates)
	CREATE TABLE IF NOT EXISTS rate_assignments (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		employee_id TEXT,
		monthly_rate TEXT NOT NULL,
		currency TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (client_id) REFERENCES clients(id)
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_client
		ON rate_assignments(client_id);
	CREATE INDEX IF NOT EXISTS idx_assignments_client_window
		ON rate_assignments(client_id, start_date, end_date);

	-- Employees
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		hire_date TEXT NOT NULL,
		monthly_salary TEXT NOT NULL,
		salary_currency TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_category
		ON employees(category);

	-- Exchange rates (latest value per pair)
	CREATE TABLE IF NOT EXISTS exchange_rates (
		pair TEXT PRIMARY KEY,
		rate TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENTITY RECORDS
// =============================================================================

type Client struct {
	ID        string
	Name      string
	AnchorDay int
	CreatedAt time.Time
}

type RateAssignment struct {
	ID          string
	ClientID    string
	EmployeeID  string
	MonthlyRate billing.Money
	Window      billing.Window
	CreatedAt   time.Time
}

type Employee struct {
	ID            string
	Name          string
	Category      billing.TenantCategory
	HireDate      billing.Day
	MonthlySalary billing.Money
	CreatedAt     time.Time
}

// =============================================================================
// CLIENTS
// =============================================================================

func (s *Store) SaveClient(ctx context.Context, c Client) error {
	if err := billing.ValidateAnchorDay(c.AnchorDay); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, anchor_day, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, anchor_day = excluded.anchor_day`,
		c.ID, c.Name, c.AnchorDay, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetClient(ctx context.Context, id string) (*Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, anchor_day, created_at FROM clients WHERE id = ?`, id)

	var c Client
	var createdAt string
	if err := row.Scan(&c.ID, &c.Name, &c.AnchorDay, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &c, nil
}

func (s *Store) ListClients(ctx context.Context) ([]Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, anchor_day, created_at FROM clients ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.AnchorDay, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// =============================================================================
// RATE ASSIGNMENTS
// =============================================================================

func (s *Store) SaveAssignment(ctx context.Context, a RateAssignment) error {
	if err := a.Window.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var endDate *string
	if a.Window.End != nil {
		v := a.Window.End.String()
		endDate = &v
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rate_assignments
			(id, client_id, employee_id, monthly_rate, currency, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			monthly_rate = excluded.monthly_rate,
			currency = excluded.currency,
			start_date = excluded.start_date,
			end_date = excluded.end_date`,
		a.ID, a.ClientID, a.EmployeeID,
		a.MonthlyRate.Value.String(), string(a.MonthlyRate.Currency),
		a.Window.Start.String(), endDate,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) ListAssignmentsByClient(ctx context.Context, clientID string) ([]RateAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_id, employee_id, monthly_rate, currency, start_date, end_date, created_at
		FROM rate_assignments WHERE client_id = ? ORDER BY start_date`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []RateAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func scanAssignment(rows *sql.Rows) (RateAssignment, error) {
	var a RateAssignment
	var employeeID, endDate sql.NullString
	var rateStr, currency, startDate, createdAt string

	if err := rows.Scan(&a.ID, &a.ClientID, &employeeID, &rateStr, &currency,
		&startDate, &endDate, &createdAt); err != nil {
		return RateAssignment{}, err
	}

	a.EmployeeID = employeeID.String

	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return RateAssignment{}, fmt.Errorf("corrupt monthly_rate %q: %w", rateStr, err)
	}
	cur, err := billing.ParseCurrencyStrict(currency)
	if err != nil {
		return RateAssignment{}, err
	}
	a.MonthlyRate = billing.Money{Value: rate, Currency: cur}

	start, err := parseDay(startDate)
	if err != nil {
		return RateAssignment{}, err
	}
	a.Window.Start = start
	if endDate.Valid {
		end, err := parseDay(endDate.String)
		if err != nil {
			return RateAssignment{}, err
		}
		a.Window.End = &end
	}

	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return a, nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) SaveEmployee(ctx context.Context, e Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees
			(id, name, category, hire_date, monthly_salary, salary_currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			hire_date = excluded.hire_date,
			monthly_salary = excluded.monthly_salary,
			salary_currency = excluded.salary_currency`,
		e.ID, e.Name, string(e.Category), e.HireDate.String(),
		e.MonthlySalary.Value.String(), string(e.MonthlySalary.Currency),
		time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	employees, err := s.listEmployees(ctx, "WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, nil
	}
	return &employees[0], nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	return s.listEmployees(ctx, "")
}

func (s *Store) listEmployees(ctx context.Context, where string, args ...any) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, hire_date, monthly_salary, salary_currency, created_at
		FROM employees `+where+` ORDER BY name`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		var category, hireDate, salaryStr, currency, createdAt string
		if err := rows.Scan(&e.ID, &e.Name, &category, &hireDate,
			&salaryStr, &currency, &createdAt); err != nil {
			return nil, err
		}

		e.Category = billing.TenantCategory(category)
		hire, err := parseDay(hireDate)
		if err != nil {
			return nil, err
		}
		e.HireDate = hire

		salary, err := decimal.NewFromString(salaryStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt monthly_salary %q: %w", salaryStr, err)
		}
		cur, err := billing.ParseCurrencyStrict(currency)
		if err != nil {
			return nil, err
		}
		e.MonthlySalary = billing.Money{Value: salary, Currency: cur}

		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// =============================================================================
// EXCHANGE RATES
// =============================================================================

// SaveRates upserts the rate set. The set is validated first so a bad
// feed result can never land in the table.
func (s *Store) SaveRates(ctx context.Context, rates billing.RateSet) error {
	if err := rates.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for pair, rate := range map[string]decimal.Decimal{
		"eur_dzd": rates.EURDZD,
		"usd_dzd": rates.USDDZD,
		"aed_dzd": rates.AEDDZD,
	} {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO exchange_rates (pair, rate, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(pair) DO UPDATE SET rate = excluded.rate, updated_at = excluded.updated_at`,
			pair, rate.String(), now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetRates returns the persisted rate set, or nil when none has been
// stored yet (callers then fall back to billing.DefaultRates).
func (s *Store) GetRates(ctx context.Context) (*billing.RateSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT pair, rate FROM exchange_rates`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rates := billing.RateSet{}
	found := 0
	for rows.Next() {
		var pair, rateStr string
		if err := rows.Scan(&pair, &rateStr); err != nil {
			return nil, err
		}
		rate, err := decimal.NewFromString(rateStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt rate %q for %s: %w", rateStr, pair, err)
		}
		switch pair {
		case "eur_dzd":
			rates.EURDZD = rate
			found++
		case "usd_dzd":
			rates.USDDZD = rate
			found++
		case "aed_dzd":
			rates.AEDDZD = rate
			found++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if found < 3 {
		return nil, nil
	}
	return &rates, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func parseDay(s string) (billing.Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return billing.Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return billing.DayOf(t), nil
}
