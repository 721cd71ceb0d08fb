package model

import (
	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

type AppointmentFilter struct {
	From           *timerange.Date
	To             *timerange.Date
	ProfessionalID *uuid.UUID
	PatientID      *uuid.UUID
	Status         *AppointmentStatus
}

type WindowFilter struct {
	DayOfWeek   int
	EmployeeID  *uuid.UUID
	SpecialtyID *uuid.UUID
}

type EmployeeFilter struct {
	Status       *EmployeeStatus
	AreaID       *uuid.UUID
	EmployeeType string
	Search       string
}

type PatientFilter struct {
	Status *PatientStatus
	// Search matches names, email or phone by substring.
	Search string
	// SearchHash matches national_id_hash exactly.
	SearchHash string
}
