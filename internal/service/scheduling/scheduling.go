package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/database"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
	"github.com/Alijeyrad/clinica_backend/pkg/validation"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CheckRequest struct {
	Date               string
	SpecialtyID        *uuid.UUID
	ProfessionalID     *uuid.UUID
	IncludeUnavailable bool
}

type WindowInput struct {
	DayOfWeek   int        `json:"day_of_week" validate:"min=0,max=6"`
	StartTime   string     `json:"start_time" validate:"required,clock"`
	EndTime     string     `json:"end_time" validate:"required,clock"`
	SpecialtyID *uuid.UUID `json:"specialty_id"`
	IsActive    *bool      `json:"is_active"`
}

type replaceInput struct {
	Windows []WindowInput `json:"windows" validate:"dive"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEmployee(ctx context.Context, id uuid.UUID) (model.Employee, error)
	ListActiveWindows(ctx context.Context, f model.WindowFilter) ([]model.WindowView, error)
	ListBlockingAppointments(ctx context.Context, professionalIDs []uuid.UUID, r timerange.Range) ([]model.Appointment, error)
	ListWindows(ctx context.Context, employeeID uuid.UUID) ([]model.AvailabilityWindow, error)
	ReplaceWindows(ctx context.Context, employeeID uuid.UUID, windows []model.AvailabilityWindow) error
}

type Service interface {
	CheckAvailability(ctx context.Context, req CheckRequest) (model.Availability, error)
	ListWindows(ctx context.Context, employeeID uuid.UUID) ([]model.AvailabilityWindow, error)
	ReplaceWindows(ctx context.Context, employeeID uuid.UUID, in []WindowInput) ([]model.AvailabilityWindow, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type schedulingService struct {
	store Store
	loc   *time.Location
}

// New returns a scheduling service evaluating dates in loc.
func New(store Store, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &schedulingService{store: store, loc: loc}
}

func (s *schedulingService) CheckAvailability(ctx context.Context, req CheckRequest) (model.Availability, error) {
	date, err := timerange.ParseDate(req.Date)
	if err != nil {
		return model.Availability{}, ErrInvalidDate
	}

	windows, err := s.store.ListActiveWindows(ctx, model.WindowFilter{
		DayOfWeek:   date.DayOfWeek(),
		EmployeeID:  req.ProfessionalID,
		SpecialtyID: req.SpecialtyID,
	})
	if err != nil {
		return model.Availability{}, fmt.Errorf("list windows: %w", err)
	}

	var appts []model.Appointment
	if len(windows) > 0 {
		ids := lo.Uniq(lo.Map(windows, func(w model.WindowView, _ int) uuid.UUID { return w.EmployeeID }))
		appts, err = s.store.ListBlockingAppointments(ctx, ids, date.Bounds(s.loc))
		if err != nil {
			return model.Availability{}, fmt.Errorf("list appointments: %w", err)
		}
	}

	return BuildAvailability(date, s.loc, windows, appts, req.IncludeUnavailable), nil
}

func (s *schedulingService) ListWindows(ctx context.Context, employeeID uuid.UUID) ([]model.AvailabilityWindow, error) {
	if _, err := s.employee(ctx, employeeID); err != nil {
		return nil, err
	}
	ws, err := s.store.ListWindows(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	return ws, nil
}

func (s *schedulingService) ReplaceWindows(ctx context.Context, employeeID uuid.UUID, in []WindowInput) ([]model.AvailabilityWindow, error) {
	if err := validation.Struct(replaceInput{Windows: in}); err != nil {
		return nil, err
	}

	windows := make([]model.AvailabilityWindow, 0, len(in))
	for _, w := range in {
		start, err := timerange.ParseClock(w.StartTime)
		if err != nil {
			return nil, ErrInvalidTimeRange
		}
		end, err := timerange.ParseClock(w.EndTime)
		if err != nil {
			return nil, ErrInvalidTimeRange
		}
		windows = append(windows, model.AvailabilityWindow{
			ID:          uuid.Must(uuid.NewV7()),
			EmployeeID:  employeeID,
			DayOfWeek:   w.DayOfWeek,
			StartTime:   start,
			EndTime:     end,
			SpecialtyID: w.SpecialtyID,
			IsActive:    w.IsActive == nil || *w.IsActive,
		})
	}

	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		emp, err := s.employee(ctx, employeeID)
		if err != nil {
			return err
		}
		if err := ValidateWindows(emp, windows); err != nil {
			return err
		}
		return s.store.ReplaceWindows(ctx, employeeID, windows)
	})
	if err != nil {
		return nil, err
	}
	return windows, nil
}

func (s *schedulingService) employee(ctx context.Context, id uuid.UUID) (model.Employee, error) {
	emp, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return model.Employee{}, ErrEmployeeNotFound
		}
		return model.Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return emp, nil
}
