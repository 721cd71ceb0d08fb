package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

type PayrollStatus string

const (
	PayrollOpen   PayrollStatus = "OPEN"
	PayrollClosed PayrollStatus = "CLOSED"
	PayrollPaid   PayrollStatus = "PAID"
)

type PayrollPeriod struct {
	ID          uuid.UUID      `json:"id"`
	PeriodStart timerange.Date `json:"period_start"`
	PeriodEnd   timerange.Date `json:"period_end"`
	Status      PayrollStatus  `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Amounts are the computed money fields of a payroll record.
type Amounts struct {
	BaseSalary      decimal.Decimal `json:"base_salary_amount"`
	SessionsCount   int             `json:"sessions_count"`
	SessionsAmount  decimal.Decimal `json:"sessions_amount"`
	Bonuses         decimal.Decimal `json:"bonuses_amount"`
	IGSSDeduction   decimal.Decimal `json:"igss_deduction"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`
	TotalPay        decimal.Decimal `json:"total_pay"`
}

type PayrollRecord struct {
	ID         uuid.UUID  `json:"id"`
	EmployeeID uuid.UUID  `json:"employee_id"`
	PeriodID   uuid.UUID  `json:"period_id"`
	Amounts               // inlined into JSON
	PaidAt     *time.Time `json:"paid_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// PayrollRecordView adds the names shown in period listings and exports.
type PayrollRecordView struct {
	PayrollRecord
	EmployeeName string         `json:"employee_name"`
	EmployeeType string         `json:"employee_type,omitempty"`
	PeriodStart  timerange.Date `json:"period_start"`
	PeriodEnd    timerange.Date `json:"period_end"`
}
