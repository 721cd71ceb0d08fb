package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

type ClinicalRecordStatus string

const (
	ClinicalRecordActive ClinicalRecordStatus = "ACTIVE"
	ClinicalRecordClosed ClinicalRecordStatus = "CLOSED"
)

// ClinicalRecord is a patient's case file. Sessions and confidential notes
// can only be added while it is ACTIVE.
type ClinicalRecord struct {
	ID                    uuid.UUID            `json:"id"`
	PatientID             uuid.UUID            `json:"patient_id"`
	RecordNumber          string               `json:"record_number,omitempty"`
	InstitutionName       string               `json:"institution_name,omitempty"`
	Service               string               `json:"service,omitempty"`
	OpeningDate           *timerange.Date      `json:"opening_date"`
	ResponsibleEmployeeID *uuid.UUID           `json:"responsible_employee_id"`
	ResponsibleLicense    string               `json:"responsible_license,omitempty"`
	ReferralSource        string               `json:"referral_source,omitempty"`
	ChiefComplaint        string               `json:"chief_complaint,omitempty"`
	Status                ClinicalRecordStatus `json:"status"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
}

type ClinicalRecordView struct {
	ClinicalRecord
	PatientName     string  `json:"patient_name"`
	ResponsibleName *string `json:"responsible_name"`
}

type ClinicalRecordFilter struct {
	PatientID     *uuid.UUID
	ResponsibleID *uuid.UUID
	Status        *ClinicalRecordStatus
}

// ClinicalSession is a progress note written for one therapy session.
type ClinicalSession struct {
	ID                uuid.UUID  `json:"id"`
	ClinicalRecordID  uuid.UUID  `json:"clinical_record_id"`
	ProfessionalID    *uuid.UUID `json:"professional_id"`
	AppointmentID     *uuid.UUID `json:"appointment_id"`
	SessionAt         time.Time  `json:"session_datetime"`
	SessionNumber     *int       `json:"session_number"`
	Attended          bool       `json:"attended"`
	AbsenceReason     string     `json:"absence_reason,omitempty"`
	Topics            string     `json:"topics,omitempty"`
	Interventions     string     `json:"interventions,omitempty"`
	PatientResponse   string     `json:"patient_response,omitempty"`
	AssignedTasks     string     `json:"assigned_tasks,omitempty"`
	Observations      string     `json:"observations,omitempty"`
	NextAppointmentAt *time.Time `json:"next_appointment_datetime"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type ClinicalSessionView struct {
	ClinicalSession
	ProfessionalName *string `json:"professional_name"`
}

// ConfidentialNote is stored encrypted; Content is plain text only after the
// service has opened it.
type ConfidentialNote struct {
	ID               uuid.UUID  `json:"id"`
	PatientID        uuid.UUID  `json:"patient_id"`
	ClinicalRecordID uuid.UUID  `json:"clinical_record_id"`
	AuthorID         *uuid.UUID `json:"author_employee_id"`
	Content          string     `json:"content"`
	CreatedAt        time.Time  `json:"created_at"`
}

type ConfidentialNoteView struct {
	ConfidentialNote
	AuthorName *string `json:"author_name"`
}

type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskCompleted TaskStatus = "COMPLETED"
	TaskCancelled TaskStatus = "CANCELLED"
)

// PatientTask is homework a clinician assigns to a patient.
type PatientTask struct {
	ID               uuid.UUID       `json:"id"`
	PatientID        uuid.UUID       `json:"patient_id"`
	ClinicalRecordID *uuid.UUID      `json:"clinical_record_id"`
	AssignedByID     *uuid.UUID      `json:"assigned_by_employee_id"`
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	DueDate          *timerange.Date `json:"due_date"`
	Status           TaskStatus      `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type PatientTaskView struct {
	PatientTask
	AssignedByName *string `json:"assigned_by_name"`
}
