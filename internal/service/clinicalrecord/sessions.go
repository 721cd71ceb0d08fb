package clinicalrecord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/database"
	"github.com/Alijeyrad/clinica_backend/pkg/validation"
)

// SessionRequest records a session. ProfessionalID defaults to the calling
// employee and Attended to true.
type SessionRequest struct {
	SessionDatetime         string     `json:"session_datetime" validate:"required"`
	ProfessionalID          *uuid.UUID `json:"professional_id"`
	AppointmentID           *uuid.UUID `json:"appointment_id"`
	SessionNumber           *int       `json:"session_number" validate:"omitempty,min=1"`
	Attended                *bool      `json:"attended"`
	AbsenceReason           string     `json:"absence_reason"`
	Topics                  string     `json:"topics"`
	Interventions           string     `json:"interventions"`
	PatientResponse         string     `json:"patient_response"`
	AssignedTasks           string     `json:"assigned_tasks"`
	Observations            string     `json:"observations"`
	NextAppointmentDatetime *string    `json:"next_appointment_datetime"`
}

type SessionUpdateRequest struct {
	SessionDatetime         *string    `json:"session_datetime"`
	ProfessionalID          *uuid.UUID `json:"professional_id"`
	AppointmentID           *uuid.UUID `json:"appointment_id"`
	SessionNumber           *int       `json:"session_number" validate:"omitempty,min=1"`
	Attended                *bool      `json:"attended"`
	AbsenceReason           *string    `json:"absence_reason"`
	Topics                  *string    `json:"topics"`
	Interventions           *string    `json:"interventions"`
	PatientResponse         *string    `json:"patient_response"`
	AssignedTasks           *string    `json:"assigned_tasks"`
	Observations            *string    `json:"observations"`
	NextAppointmentDatetime *string    `json:"next_appointment_datetime"`
}

// AddSession writes a progress note on an ACTIVE record.
func (s *clinicalService) AddSession(ctx context.Context, recordID, userID uuid.UUID, req SessionRequest) (model.ClinicalSessionView, error) {
	if err := validation.Struct(req); err != nil {
		return model.ClinicalSessionView{}, err
	}
	at, err := parseTime(req.SessionDatetime)
	if err != nil {
		return model.ClinicalSessionView{}, err
	}
	var next *time.Time
	if req.NextAppointmentDatetime != nil && *req.NextAppointmentDatetime != "" {
		t, err := parseTime(*req.NextAppointmentDatetime)
		if err != nil {
			return model.ClinicalSessionView{}, err
		}
		next = &t
	}

	now := s.now()
	cs := model.ClinicalSession{
		ID:                uuid.Must(uuid.NewV7()),
		ClinicalRecordID:  recordID,
		AppointmentID:     req.AppointmentID,
		SessionAt:         at,
		SessionNumber:     req.SessionNumber,
		Attended:          req.Attended == nil || *req.Attended,
		AbsenceReason:     req.AbsenceReason,
		Topics:            req.Topics,
		Interventions:     req.Interventions,
		PatientResponse:   req.PatientResponse,
		AssignedTasks:     req.AssignedTasks,
		Observations:      req.Observations,
		NextAppointmentAt: next,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = s.store.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.lockActiveRecord(ctx, recordID); err != nil {
			return err
		}
		prof := req.ProfessionalID
		if prof != nil {
			if err := s.activeEmployee(ctx, *prof); err != nil {
				return err
			}
		} else {
			caller, err := s.callerEmployee(ctx, userID)
			if err != nil {
				return err
			}
			prof = caller
		}
		cs.ProfessionalID = prof
		if err := s.store.CreateClinicalSession(ctx, cs); err != nil {
			return fmt.Errorf("create clinical session: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.ClinicalSessionView{}, err
	}
	return s.getSession(ctx, cs.ID)
}

// Sessions lists a record's sessions, latest first.
func (s *clinicalService) Sessions(ctx context.Context, recordID uuid.UUID) ([]model.ClinicalSessionView, error) {
	if _, err := s.Get(ctx, recordID); err != nil {
		return nil, err
	}
	items, err := s.store.ListClinicalSessions(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("list clinical sessions: %w", err)
	}
	return items, nil
}

func (s *clinicalService) UpdateSession(ctx context.Context, id uuid.UUID, req SessionUpdateRequest) (model.ClinicalSessionView, error) {
	if err := validation.Struct(req); err != nil {
		return model.ClinicalSessionView{}, err
	}
	v, err := s.getSession(ctx, id)
	if err != nil {
		return model.ClinicalSessionView{}, err
	}
	cs := v.ClinicalSession

	if req.ProfessionalID != nil &&
		(cs.ProfessionalID == nil || *cs.ProfessionalID != *req.ProfessionalID) {
		if err := s.activeEmployee(ctx, *req.ProfessionalID); err != nil {
			return model.ClinicalSessionView{}, err
		}
		cs.ProfessionalID = req.ProfessionalID
	}
	if req.SessionDatetime != nil {
		if cs.SessionAt, err = parseTime(*req.SessionDatetime); err != nil {
			return model.ClinicalSessionView{}, err
		}
	}
	if req.NextAppointmentDatetime != nil {
		cs.NextAppointmentAt = nil
		if *req.NextAppointmentDatetime != "" {
			t, err := parseTime(*req.NextAppointmentDatetime)
			if err != nil {
				return model.ClinicalSessionView{}, err
			}
			cs.NextAppointmentAt = &t
		}
	}
	if req.AppointmentID != nil {
		cs.AppointmentID = req.AppointmentID
	}
	if req.SessionNumber != nil {
		cs.SessionNumber = req.SessionNumber
	}
	if req.Attended != nil {
		cs.Attended = *req.Attended
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cs.AbsenceReason, req.AbsenceReason)
	set(&cs.Topics, req.Topics)
	set(&cs.Interventions, req.Interventions)
	set(&cs.PatientResponse, req.PatientResponse)
	set(&cs.AssignedTasks, req.AssignedTasks)
	set(&cs.Observations, req.Observations)
	cs.UpdatedAt = s.now()

	if err := s.store.UpdateClinicalSession(ctx, cs); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return model.ClinicalSessionView{}, ErrSessionNotFound
		}
		return model.ClinicalSessionView{}, fmt.Errorf("update clinical session: %w", err)
	}
	return s.getSession(ctx, id)
}

func (s *clinicalService) getSession(ctx context.Context, id uuid.UUID) (model.ClinicalSessionView, error) {
	v, err := s.store.GetClinicalSession(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return model.ClinicalSessionView{}, ErrSessionNotFound
		}
		return model.ClinicalSessionView{}, fmt.Errorf("get clinical session: %w", err)
	}
	return v, nil
}
