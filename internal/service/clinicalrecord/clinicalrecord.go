// Package clinicalrecord manages patients' case files and what hangs off them:
// session progress notes, encrypted confidential notes and assigned tasks.
package clinicalrecord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/crypto"
	"github.com/Alijeyrad/clinica_backend/pkg/database"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
	"github.com/Alijeyrad/clinica_backend/pkg/validation"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	PatientID             uuid.UUID       `json:"patient_id"`
	RecordNumber          string          `json:"record_number" validate:"max=50"`
	InstitutionName       string          `json:"institution_name" validate:"max=150"`
	Service               string          `json:"service" validate:"max=120"`
	OpeningDate           *timerange.Date `json:"opening_date"`
	ResponsibleEmployeeID *uuid.UUID      `json:"responsible_employee_id"`
	ResponsibleLicense    string          `json:"responsible_license" validate:"max=100"`
	ReferralSource        string          `json:"referral_source" validate:"max=150"`
	ChiefComplaint        string          `json:"chief_complaint"`
}

// UpdateRequest carries the fields to change; nil fields are left untouched.
type UpdateRequest struct {
	RecordNumber          *string                     `json:"record_number" validate:"omitempty,max=50"`
	InstitutionName       *string                     `json:"institution_name" validate:"omitempty,max=150"`
	Service               *string                     `json:"service" validate:"omitempty,max=120"`
	OpeningDate           *timerange.Date             `json:"opening_date"`
	ResponsibleEmployeeID *uuid.UUID                  `json:"responsible_employee_id"`
	ResponsibleLicense    *string                     `json:"responsible_license" validate:"omitempty,max=100"`
	ReferralSource        *string                     `json:"referral_source" validate:"omitempty,max=150"`
	ChiefComplaint        *string                     `json:"chief_complaint"`
	Status                *model.ClinicalRecordStatus `json:"status" validate:"omitempty,oneof=ACTIVE CLOSED"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

// Store returns database.ErrDuplicate when record_number is already used.
// Confidential note content is stored as given, i.e. sealed by this package.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetPatient(ctx context.Context, id uuid.UUID) (model.Patient, error)
	GetPatientByUserID(ctx context.Context, userID uuid.UUID) (model.Patient, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (model.Employee, error)
	GetEmployeeByUserID(ctx context.Context, userID uuid.UUID) (model.Employee, error)

	CreateClinicalRecord(ctx context.Context, r model.ClinicalRecord) error
	UpdateClinicalRecord(ctx context.Context, r model.ClinicalRecord) error
	// LockClinicalRecord holds the row lock until the surrounding
	// transaction ends.
	LockClinicalRecord(ctx context.Context, id uuid.UUID) (model.ClinicalRecord, error)
	GetClinicalRecord(ctx context.Context, id uuid.UUID) (model.ClinicalRecordView, error)
	ListClinicalRecords(ctx context.Context, f model.ClinicalRecordFilter, p model.Page) ([]model.ClinicalRecordView, int, error)

	CreateClinicalSession(ctx context.Context, cs model.ClinicalSession) error
	UpdateClinicalSession(ctx context.Context, cs model.ClinicalSession) error
	GetClinicalSession(ctx context.Context, id uuid.UUID) (model.ClinicalSessionView, error)
	ListClinicalSessions(ctx context.Context, recordID uuid.UUID) ([]model.ClinicalSessionView, error)

	CreateConfidentialNote(ctx context.Context, n model.ConfidentialNote) error
	ListConfidentialNotes(ctx context.Context, recordID uuid.UUID) ([]model.ConfidentialNoteView, error)

	CreatePatientTask(ctx context.Context, t model.PatientTask) error
	UpdatePatientTask(ctx context.Context, t model.PatientTask) error
	GetPatientTask(ctx context.Context, id uuid.UUID) (model.PatientTaskView, error)
	ListPatientTasks(ctx context.Context, patientID uuid.UUID) ([]model.PatientTaskView, error)
}

// Service methods taking a userID use it to resolve the calling employee or
// patient; uuid.Nil means the caller is unknown.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (model.ClinicalRecordView, error)
	Get(ctx context.Context, id uuid.UUID) (model.ClinicalRecordView, error)
	List(ctx context.Context, f model.ClinicalRecordFilter, p model.Page) ([]model.ClinicalRecordView, model.PageMeta, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]model.ClinicalRecordView, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (model.ClinicalRecordView, error)

	AddSession(ctx context.Context, recordID, userID uuid.UUID, req SessionRequest) (model.ClinicalSessionView, error)
	Sessions(ctx context.Context, recordID uuid.UUID) ([]model.ClinicalSessionView, error)
	UpdateSession(ctx context.Context, id uuid.UUID, req SessionUpdateRequest) (model.ClinicalSessionView, error)

	AddNote(ctx context.Context, recordID, userID uuid.UUID, req NoteRequest) (model.ConfidentialNoteView, error)
	Notes(ctx context.Context, recordID uuid.UUID) ([]model.ConfidentialNoteView, error)

	AssignTask(ctx context.Context, patientID, userID uuid.UUID, req TaskRequest) (model.PatientTaskView, error)
	Tasks(ctx context.Context, patientID uuid.UUID) ([]model.PatientTaskView, error)
	MyTasks(ctx context.Context, userID uuid.UUID) ([]model.PatientTaskView, error)
	UpdateTask(ctx context.Context, id uuid.UUID, req TaskUpdateRequest) (model.PatientTaskView, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type clinicalService struct {
	store  Store
	cipher *crypto.FieldCipher
	now    func() time.Time
}

// New returns the clinical record service. With a nil cipher confidential
// notes cannot be written and are listed without content.
func New(store Store, cipher *crypto.FieldCipher) Service {
	return &clinicalService{store: store, cipher: cipher, now: time.Now}
}

// Create opens a record for an ACTIVE patient.
func (s *clinicalService) Create(ctx context.Context, req CreateRequest) (model.ClinicalRecordView, error) {
	if err := validation.Struct(req); err != nil {
		return model.ClinicalRecordView{}, err
	}
	if err := s.activePatient(ctx, req.PatientID); err != nil {
		return model.ClinicalRecordView{}, err
	}
	if req.ResponsibleEmployeeID != nil {
		if err := s.activeEmployee(ctx, *req.ResponsibleEmployeeID); err != nil {
			return model.ClinicalRecordView{}, err
		}
	}

	now := s.now()
	r := model.ClinicalRecord{
		ID:                    uuid.Must(uuid.NewV7()),
		PatientID:             req.PatientID,
		RecordNumber:          strings.TrimSpace(req.RecordNumber),
		InstitutionName:       strings.TrimSpace(req.InstitutionName),
		Service:               strings.TrimSpace(req.Service),
		OpeningDate:           req.OpeningDate,
		ResponsibleEmployeeID: req.ResponsibleEmployeeID,
		ResponsibleLicense:    strings.TrimSpace(req.ResponsibleLicense),
		ReferralSource:        strings.TrimSpace(req.ReferralSource),
		ChiefComplaint:        req.ChiefComplaint,
		Status:                model.ClinicalRecordActive,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.store.CreateClinicalRecord(ctx, r); err != nil {
		return model.ClinicalRecordView{}, recordWriteErr(err, "create clinical record")
	}
	slog.InfoContext(ctx, "clinical record opened", "clinical_record_id", r.ID, "patient_id", r.PatientID)
	return s.Get(ctx, r.ID)
}

func (s *clinicalService) Get(ctx context.Context, id uuid.UUID) (model.ClinicalRecordView, error) {
	v, err := s.store.GetClinicalRecord(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return model.ClinicalRecordView{}, ErrNotFound
		}
		return model.ClinicalRecordView{}, fmt.Errorf("get clinical record: %w", err)
	}
	return v, nil
}

func (s *clinicalService) List(ctx context.Context, f model.ClinicalRecordFilter, p model.Page) ([]model.ClinicalRecordView, model.PageMeta, error) {
	p = p.Normalize()
	items, total, err := s.store.ListClinicalRecords(ctx, f, p)
	if err != nil {
		return nil, model.PageMeta{}, fmt.Errorf("list clinical records: %w", err)
	}
	return items, model.NewPageMeta(p, total), nil
}

// ListMine returns every record of the patient linked to userID.
func (s *clinicalService) ListMine(ctx context.Context, userID uuid.UUID) ([]model.ClinicalRecordView, error) {
	pt, err := s.linkedPatient(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, _, err := s.store.ListClinicalRecords(ctx, model.ClinicalRecordFilter{PatientID: &pt.ID}, model.Page{})
	if err != nil {
		return nil, fmt.Errorf("list clinical records: %w", err)
	}
	return items, nil
}

func (s *clinicalService) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (model.ClinicalRecordView, error) {
	if err := validation.Struct(req); err != nil {
		return model.ClinicalRecordView{}, err
	}

	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		r, err := s.lockRecord(ctx, id)
		if err != nil {
			return err
		}
		if req.ResponsibleEmployeeID != nil &&
			(r.ResponsibleEmployeeID == nil || *r.ResponsibleEmployeeID != *req.ResponsibleEmployeeID) {
			if err := s.activeEmployee(ctx, *req.ResponsibleEmployeeID); err != nil {
				return err
			}
			r.ResponsibleEmployeeID = req.ResponsibleEmployeeID
		}
		set := func(dst *string, v *string) {
			if v != nil {
				*dst = strings.TrimSpace(*v)
			}
		}
		set(&r.RecordNumber, req.RecordNumber)
		set(&r.InstitutionName, req.InstitutionName)
		set(&r.Service, req.Service)
		set(&r.ResponsibleLicense, req.ResponsibleLicense)
		set(&r.ReferralSource, req.ReferralSource)
		if req.ChiefComplaint != nil {
			r.ChiefComplaint = *req.ChiefComplaint
		}
		if req.OpeningDate != nil {
			r.OpeningDate = req.OpeningDate
		}
		if req.Status != nil {
			r.Status = *req.Status
		}
		r.UpdatedAt = s.now()

		if err := s.store.UpdateClinicalRecord(ctx, r); err != nil {
			return recordWriteErr(err, "update clinical record")
		}
		return nil
	})
	if err != nil {
		return model.ClinicalRecordView{}, err
	}
	return s.Get(ctx, id)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *clinicalService) lockRecord(ctx context.Context, id uuid.UUID) (model.ClinicalRecord, error) {
	r, err := s.store.LockClinicalRecord(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return model.ClinicalRecord{}, ErrNotFound
		}
		return model.ClinicalRecord{}, fmt.Errorf("lock clinical record: %w", err)
	}
	return r, nil
}

// lockActiveRecord locks a record that new entries are being added to.
func (s *clinicalService) lockActiveRecord(ctx context.Context, id uuid.UUID) (model.ClinicalRecord, error) {
	r, err := s.lockRecord(ctx, id)
	if err != nil {
		return model.ClinicalRecord{}, err
	}
	if r.Status != model.ClinicalRecordActive {
		return model.ClinicalRecord{}, ErrRecordClosed
	}
	return r, nil
}

func (s *clinicalService) getPatient(ctx context.Context, id uuid.UUID) (model.Patient, error) {
	pt, err := s.store.GetPatient(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return model.Patient{}, ErrPatientNotFound
		}
		return model.Patient{}, fmt.Errorf("get patient: %w", err)
	}
	return pt, nil
}

func (s *clinicalService) activePatient(ctx context.Context, id uuid.UUID) error {
	pt, err := s.getPatient(ctx, id)
	if err != nil {
		return err
	}
	if pt.Status != model.PatientActive {
		return ErrPatientInactive
	}
	return nil
}

func (s *clinicalService) activeEmployee(ctx context.Context, id uuid.UUID) error {
	e, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("get employee: %w", err)
	}
	if e.Status != model.EmployeeActive {
		return ErrEmployeeInactive
	}
	return nil
}

func (s *clinicalService) linkedPatient(ctx context.Context, userID uuid.UUID) (model.Patient, error) {
	if userID == uuid.Nil {
		return model.Patient{}, ErrNoLinkedPatient
	}
	pt, err := s.store.GetPatientByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return model.Patient{}, ErrNoLinkedPatient
		}
		return model.Patient{}, fmt.Errorf("get patient: %w", err)
	}
	return pt, nil
}

// callerEmployee returns the id of the employee linked to userID, or nil
// when there is none.
func (s *clinicalService) callerEmployee(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	e, err := s.store.GetEmployeeByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return &e.ID, nil
}

func recordWriteErr(err error, op string) error {
	if errors.Is(err, database.ErrDuplicate) {
		return ErrNumberTaken
	}
	return fmt.Errorf("%s: %w", op, err)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDatetime
	}
	return t, nil
}
