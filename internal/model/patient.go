package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

type PatientStatus string

const (
	PatientActive   PatientStatus = "ACTIVE"
	PatientInactive PatientStatus = "INACTIVE"
)

type Patient struct {
	ID                    uuid.UUID       `json:"id"`
	UserID                *uuid.UUID      `json:"user_id"`
	FirstName             string          `json:"first_name"`
	LastName              string          `json:"last_name"`
	DateOfBirth           *timerange.Date `json:"date_of_birth"`
	Gender                string          `json:"gender,omitempty"`
	MaritalStatus         string          `json:"marital_status,omitempty"`
	Occupation            string          `json:"occupation,omitempty"`
	EducationLevel        string          `json:"education_level,omitempty"`
	Address               string          `json:"address,omitempty"`
	Phone                 string          `json:"phone,omitempty"`
	Email                 string          `json:"email,omitempty"`
	NationalID            string          `json:"national_id,omitempty"`
	NationalIDHash        string          `json:"-"`
	EmergencyContactName  string          `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string          `json:"emergency_contact_phone,omitempty"`
	EmergencyContactRel   string          `json:"emergency_contact_relationship,omitempty"`
	Status                PatientStatus   `json:"status"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

func (p Patient) FullName() string {
	return FullName(p.FirstName, p.LastName)
}
