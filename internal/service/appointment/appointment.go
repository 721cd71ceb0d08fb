package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/database"
	"github.com/Alijeyrad/clinica_backend/pkg/events"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
	"github.com/Alijeyrad/clinica_backend/pkg/validation"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	PatientID       uuid.UUID  `json:"patient_id"`
	ProfessionalID  *uuid.UUID `json:"professional_id"`
	SpecialtyID     *uuid.UUID `json:"specialty_id"`
	AppointmentType string     `json:"appointment_type" validate:"max=50"`
	StartDatetime   string     `json:"start_datetime" validate:"required"`
	EndDatetime     string     `json:"end_datetime" validate:"required"`
	Notes           string     `json:"notes" validate:"max=2000"`
}

// UpdateRequest carries the fields to change; nil fields are left untouched.
type UpdateRequest struct {
	ProfessionalID  *uuid.UUID `json:"professional_id"`
	SpecialtyID     *uuid.UUID `json:"specialty_id"`
	AppointmentType *string    `json:"appointment_type" validate:"omitempty,max=50"`
	StartDatetime   *string    `json:"start_datetime"`
	EndDatetime     *string    `json:"end_datetime"`
	Notes           *string    `json:"notes" validate:"omitempty,max=2000"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// LockProfessional serialises schedule writes for one professional until
	// the surrounding transaction ends.
	LockProfessional(ctx context.Context, professionalID uuid.UUID) error
	PatientExists(ctx context.Context, id uuid.UUID) (bool, error)
	EmployeeExists(ctx context.Context, id uuid.UUID) (bool, error)
	GetEmployeeByUserID(ctx context.Context, userID uuid.UUID) (model.Employee, error)
	ListBlockingAppointments(ctx context.Context, professionalIDs []uuid.UUID, r timerange.Range) ([]model.Appointment, error)
	CreateAppointment(ctx context.Context, a model.Appointment) error
	UpdateAppointment(ctx context.Context, a model.Appointment) error
	LockAppointment(ctx context.Context, id uuid.UUID) (model.Appointment, error)
	GetAppointmentView(ctx context.Context, id uuid.UUID) (model.AppointmentView, error)
	ListAppointments(ctx context.Context, f model.AppointmentFilter, p model.Page) ([]model.AppointmentView, int, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (model.AppointmentView, error)
	Get(ctx context.Context, id uuid.UUID) (model.AppointmentView, error)
	List(ctx context.Context, f model.AppointmentFilter, p model.Page) ([]model.AppointmentView, model.PageMeta, error)
	ListMine(ctx context.Context, userID uuid.UUID, f model.AppointmentFilter, p model.Page) ([]model.AppointmentView, model.PageMeta, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (model.AppointmentView, error)
	Cancel(ctx context.Context, id uuid.UUID) (model.AppointmentView, error)
	Complete(ctx context.Context, id uuid.UUID) (model.AppointmentView, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type appointmentService struct {
	store  Store
	events events.Publisher
	now    func() time.Time
}

func New(store Store, pub events.Publisher) Service {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &appointmentService{store: store, events: pub, now: time.Now}
}

func (s *appointmentService) Create(ctx context.Context, req CreateRequest) (model.AppointmentView, error) {
	if err := validation.Struct(req); err != nil {
		return model.AppointmentView{}, err
	}
	if req.PatientID == uuid.Nil {
		return model.AppointmentView{}, ErrPatientNotFound
	}
	r, err := parseRange(req.StartDatetime, req.EndDatetime)
	if err != nil {
		return model.AppointmentView{}, err
	}

	now := s.now()
	appt := model.Appointment{
		ID:              uuid.Must(uuid.NewV7()),
		PatientID:       req.PatientID,
		ProfessionalID:  req.ProfessionalID,
		SpecialtyID:     req.SpecialtyID,
		AppointmentType: strings.TrimSpace(req.AppointmentType),
		Start:           r.Start,
		End:             r.End,
		Status:          model.AppointmentScheduled,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.store.WithTx(ctx, func(ctx context.Context) error {
		ok, err := s.store.PatientExists(ctx, appt.PatientID)
		if err != nil {
			return fmt.Errorf("check patient: %w", err)
		}
		if !ok {
			return ErrPatientNotFound
		}
		if err := s.guardSchedule(ctx, appt); err != nil {
			return err
		}
		if err := s.store.CreateAppointment(ctx, appt); err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.AppointmentView{}, err
	}

	events.Emit(ctx, s.events, events.AppointmentCreated, appt.ID)
	return s.Get(ctx, appt.ID)
}

func (s *appointmentService) Get(ctx context.Context, id uuid.UUID) (model.AppointmentView, error) {
	v, err := s.store.GetAppointmentView(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return model.AppointmentView{}, ErrNotFound
		}
		return model.AppointmentView{}, fmt.Errorf("get appointment: %w", err)
	}
	return v, nil
}

func (s *appointmentService) List(ctx context.Context, f model.AppointmentFilter, p model.Page) ([]model.AppointmentView, model.PageMeta, error) {
	p = p.Normalize()
	items, total, err := s.store.ListAppointments(ctx, f, p)
	if err != nil {
		return nil, model.PageMeta{}, fmt.Errorf("list appointments: %w", err)
	}
	return items, model.NewPageMeta(p, total), nil
}

func (s *appointmentService) ListMine(ctx context.Context, userID uuid.UUID, f model.AppointmentFilter, p model.Page) ([]model.AppointmentView, model.PageMeta, error) {
	emp, err := s.store.GetEmployeeByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, model.PageMeta{}, ErrEmployeeNotFound
		}
		return nil, model.PageMeta{}, fmt.Errorf("get employee: %w", err)
	}
	f.ProfessionalID = &emp.ID
	return s.List(ctx, f, p)
}

func (s *appointmentService) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (model.AppointmentView, error) {
	if err := validation.Struct(req); err != nil {
		return model.AppointmentView{}, err
	}

	var rescheduled bool
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		appt, err := s.lock(ctx, id)
		if err != nil {
			return err
		}

		next := appt
		if req.StartDatetime != nil || req.EndDatetime != nil {
			start, end := appt.Start.Format(time.RFC3339Nano), appt.End.Format(time.RFC3339Nano)
			if req.StartDatetime != nil {
				start = *req.StartDatetime
			}
			if req.EndDatetime != nil {
				end = *req.EndDatetime
			}
			r, err := parseRange(start, end)
			if err != nil {
				return err
			}
			next.Start, next.End = r.Start, r.End
		}
		if req.ProfessionalID != nil {
			next.ProfessionalID = req.ProfessionalID
		}
		if req.SpecialtyID != nil {
			next.SpecialtyID = req.SpecialtyID
		}
		if req.AppointmentType != nil {
			next.AppointmentType = strings.TrimSpace(*req.AppointmentType)
		}
		if req.Notes != nil {
			next.Notes = *req.Notes
		}

		rescheduled = !next.Start.Equal(appt.Start) || !next.End.Equal(appt.End) ||
			!sameID(next.ProfessionalID, appt.ProfessionalID)
		if rescheduled {
			if appt.Status.Terminal() {
				return ErrRescheduleTerminal
			}
			if err := s.guardSchedule(ctx, next); err != nil {
				return err
			}
		}

		next.UpdatedAt = s.now()
		if err := s.store.UpdateAppointment(ctx, next); err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.AppointmentView{}, err
	}

	if rescheduled {
		events.Emit(ctx, s.events, events.AppointmentRescheduled, id)
	}
	return s.Get(ctx, id)
}

func (s *appointmentService) Cancel(ctx context.Context, id uuid.UUID) (model.AppointmentView, error) {
	return s.transition(ctx, id, Cancel, events.AppointmentCancelled)
}

func (s *appointmentService) Complete(ctx context.Context, id uuid.UUID) (model.AppointmentView, error) {
	return s.transition(ctx, id, Complete, events.AppointmentCompleted)
}

func (s *appointmentService) transition(ctx context.Context, id uuid.UUID, next func(model.AppointmentStatus) (model.AppointmentStatus, error), ev events.Event) (model.AppointmentView, error) {
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		appt, err := s.lock(ctx, id)
		if err != nil {
			return err
		}
		status, err := next(appt.Status)
		if err != nil {
			return err
		}
		appt.Status = status
		appt.UpdatedAt = s.now()
		if err := s.store.UpdateAppointment(ctx, appt); err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.AppointmentView{}, err
	}

	events.Emit(ctx, s.events, ev, id)
	return s.Get(ctx, id)
}

// guardSchedule verifies the professional exists and holds no overlapping
// blocking appointment. It must run inside the transaction that writes a.
func (s *appointmentService) guardSchedule(ctx context.Context, a model.Appointment) error {
	if a.ProfessionalID == nil {
		return nil
	}
	pid := *a.ProfessionalID

	ok, err := s.store.EmployeeExists(ctx, pid)
	if err != nil {
		return fmt.Errorf("check professional: %w", err)
	}
	if !ok {
		return ErrProfessionalNotFound
	}

	if err := s.store.LockProfessional(ctx, pid); err != nil {
		return fmt.Errorf("lock professional schedule: %w", err)
	}
	existing, err := s.store.ListBlockingAppointments(ctx, []uuid.UUID{pid}, a.Range())
	if err != nil {
		return fmt.Errorf("list appointments: %w", err)
	}
	return CheckConflict(a.Range(), existing, a.ID)
}

func (s *appointmentService) lock(ctx context.Context, id uuid.UUID) (model.Appointment, error) {
	appt, err := s.store.LockAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return model.Appointment{}, ErrNotFound
		}
		return model.Appointment{}, fmt.Errorf("get appointment: %w", err)
	}
	return appt, nil
}

func parseRange(start, end string) (timerange.Range, error) {
	s, err := time.Parse(time.RFC3339, strings.TrimSpace(start))
	if err != nil {
		return timerange.Range{}, ErrInvalidDatetime
	}
	e, err := time.Parse(time.RFC3339, strings.TrimSpace(end))
	if err != nil {
		return timerange.Range{}, ErrInvalidDatetime
	}
	r := timerange.Range{Start: s, End: e}
	if !r.Valid() {
		return timerange.Range{}, ErrInvalidTimeRange
	}
	return r, nil
}
