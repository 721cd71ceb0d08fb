package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "SCHEDULED"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
)

// BlockingStatuses are the statuses that occupy a professional's time.
var BlockingStatuses = []AppointmentStatus{AppointmentScheduled, AppointmentCompleted}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

// Blocking reports whether an appointment in status s occupies its time range.
func (s AppointmentStatus) Blocking() bool {
	return s == AppointmentScheduled || s == AppointmentCompleted
}

func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentCompleted || s == AppointmentCancelled
}

type Appointment struct {
	ID              uuid.UUID         `json:"id"`
	PatientID       uuid.UUID         `json:"patient_id"`
	ProfessionalID  *uuid.UUID        `json:"professional_id"`
	SpecialtyID     *uuid.UUID        `json:"specialty_id"`
	AppointmentType string            `json:"appointment_type,omitempty"`
	Start           time.Time         `json:"start_datetime"`
	End             time.Time         `json:"end_datetime"`
	Status          AppointmentStatus `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (a Appointment) Range() timerange.Range {
	return timerange.Range{Start: a.Start, End: a.End}
}

// AppointmentView is an appointment joined with display names.
type AppointmentView struct {
	Appointment
	PatientName      string  `json:"patient_name"`
	ProfessionalName *string `json:"professional_name"`
	SpecialtyName    *string `json:"specialty_name"`
}
