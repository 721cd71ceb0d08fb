package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

// AvailabilityWindow is a weekly recurring range in which an employee takes
// appointments, optionally restricted to one specialty.
type AvailabilityWindow struct {
	ID          uuid.UUID       `json:"id"`
	EmployeeID  uuid.UUID       `json:"employee_id"`
	DayOfWeek   int             `json:"day_of_week"`
	StartTime   timerange.Clock `json:"start_time"`
	EndTime     timerange.Clock `json:"end_time"`
	SpecialtyID *uuid.UUID      `json:"specialty_id"`
	IsActive    bool            `json:"is_active"`
}

// WindowView carries the names needed to present availability.
type WindowView struct {
	AvailabilityWindow
	EmployeeName  string
	SpecialtyName *string
}

// Slot is a derived, never persisted, candidate appointment interval.
type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

type ProfessionalAvailability struct {
	EmployeeID     uuid.UUID  `json:"employee_id"`
	EmployeeName   string     `json:"employee_name"`
	SpecialtyID    *uuid.UUID `json:"specialty_id"`
	SpecialtyName  *string    `json:"specialty_name"`
	AvailableSlots []Slot     `json:"available_slots"`
}

type Availability struct {
	Date          timerange.Date             `json:"date"`
	DayOfWeek     int                        `json:"day_of_week"`
	Professionals []ProfessionalAvailability `json:"professionals"`
}
