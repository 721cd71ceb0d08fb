package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "ACTIVE"
	EmployeeInactive EmployeeStatus = "INACTIVE"
)

type Employee struct {
	ID            uuid.UUID           `json:"id"`
	UserID        *uuid.UUID          `json:"user_id"`
	FirstName     string              `json:"first_name"`
	LastName      string              `json:"last_name"`
	Email         string              `json:"email,omitempty"`
	Phone         string              `json:"phone,omitempty"`
	EmployeeType  string              `json:"employee_type,omitempty"`
	LicenseNumber string              `json:"license_number,omitempty"`
	AreaID        *uuid.UUID          `json:"area_id"`
	BaseSalary    decimal.NullDecimal `json:"base_salary"`
	SessionRate   decimal.NullDecimal `json:"session_rate"`
	IGSSPct       decimal.Decimal     `json:"igss_percentage"`
	HiredDate     *timerange.Date     `json:"hired_date"`
	Status        EmployeeStatus      `json:"status"`
	SpecialtyIDs  []uuid.UUID         `json:"specialty_ids"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (e Employee) FullName() string {
	return FullName(e.FirstName, e.LastName)
}

func (e Employee) HasSpecialty(id uuid.UUID) bool {
	for _, s := range e.SpecialtyIDs {
		if s == id {
			return true
		}
	}
	return false
}

func FullName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}
