package clinicalrecord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/database"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
	"github.com/Alijeyrad/clinica_backend/pkg/validation"
)

type TaskRequest struct {
	Title            string          `json:"title" validate:"required,max=200"`
	Description      string          `json:"description"`
	DueDate          *timerange.Date `json:"due_date"`
	ClinicalRecordID *uuid.UUID      `json:"clinical_record_id"`
}

type TaskUpdateRequest struct {
	Title       *string           `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string           `json:"description"`
	DueDate     *timerange.Date   `json:"due_date"`
	Status      *model.TaskStatus `json:"status" validate:"omitempty,oneof=PENDING COMPLETED CANCELLED"`
}

// AssignTask gives an ACTIVE patient a PENDING task. A referenced record must
// belong to the same patient.
func (s *clinicalService) AssignTask(ctx context.Context, patientID, userID uuid.UUID, req TaskRequest) (model.PatientTaskView, error) {
	if err := validation.Struct(req); err != nil {
		return model.PatientTaskView{}, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.PatientTaskView{}, ErrEmptyTitle
	}
	if err := s.activePatient(ctx, patientID); err != nil {
		return model.PatientTaskView{}, err
	}
	if req.ClinicalRecordID != nil {
		r, err := s.Get(ctx, *req.ClinicalRecordID)
		if err != nil {
			return model.PatientTaskView{}, err
		}
		if r.PatientID != patientID {
			return model.PatientTaskView{}, ErrRecordOfOtherPatient
		}
	}
	author, err := s.callerEmployee(ctx, userID)
	if err != nil {
		return model.PatientTaskView{}, err
	}

	now := s.now()
	t := model.PatientTask{
		ID:               uuid.Must(uuid.NewV7()),
		PatientID:        patientID,
		ClinicalRecordID: req.ClinicalRecordID,
		AssignedByID:     author,
		Title:            title,
		Description:      req.Description,
		DueDate:          req.DueDate,
		Status:           model.TaskPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.CreatePatientTask(ctx, t); err != nil {
		return model.PatientTaskView{}, fmt.Errorf("create patient task: %w", err)
	}
	return s.getTask(ctx, t.ID)
}

// Tasks lists a patient's tasks newest first.
func (s *clinicalService) Tasks(ctx context.Context, patientID uuid.UUID) ([]model.PatientTaskView, error) {
	if _, err := s.getPatient(ctx, patientID); err != nil {
		return nil, err
	}
	return s.listTasks(ctx, patientID)
}

// MyTasks lists the tasks of the patient linked to userID.
func (s *clinicalService) MyTasks(ctx context.Context, userID uuid.UUID) ([]model.PatientTaskView, error) {
	pt, err := s.linkedPatient(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.listTasks(ctx, pt.ID)
}

func (s *clinicalService) UpdateTask(ctx context.Context, id uuid.UUID, req TaskUpdateRequest) (model.PatientTaskView, error) {
	if err := validation.Struct(req); err != nil {
		return model.PatientTaskView{}, err
	}
	v, err := s.getTask(ctx, id)
	if err != nil {
		return model.PatientTaskView{}, err
	}
	t := v.PatientTask

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return model.PatientTaskView{}, ErrEmptyTitle
		}
		t.Title = title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	t.UpdatedAt = s.now()

	if err := s.store.UpdatePatientTask(ctx, t); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return model.PatientTaskView{}, ErrTaskNotFound
		}
		return model.PatientTaskView{}, fmt.Errorf("update patient task: %w", err)
	}
	return s.getTask(ctx, id)
}

func (s *clinicalService) listTasks(ctx context.Context, patientID uuid.UUID) ([]model.PatientTaskView, error) {
	items, err := s.store.ListPatientTasks(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list patient tasks: %w", err)
	}
	return items, nil
}

func (s *clinicalService) getTask(ctx context.Context, id uuid.UUID) (model.PatientTaskView, error) {
	v, err := s.store.GetPatientTask(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return model.PatientTaskView{}, ErrTaskNotFound
		}
		return model.PatientTaskView{}, fmt.Errorf("get patient task: %w", err)
	}
	return v, nil
}
