package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/apperr"
	"github.com/Alijeyrad/clinica_backend/pkg/database"
	"github.com/Alijeyrad/clinica_backend/pkg/events"
	"github.com/Alijeyrad/clinica_backend/pkg/phone"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
	"github.com/Alijeyrad/clinica_backend/pkg/validation"
)

var maxMoney = decimal.RequireFromString("999999999.99")

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	UserID        *uuid.UUID       `json:"user_id"`
	FirstName     string           `json:"first_name" validate:"required,min=2,max=100"`
	LastName      string           `json:"last_name" validate:"required,min=2,max=100"`
	Email         string           `json:"email" validate:"omitempty,email,max=255"`
	Phone         string           `json:"phone" validate:"max=30"`
	EmployeeType  string           `json:"employee_type" validate:"required,oneof=PSYCHOLOGIST PSYCHIATRIST TECHNICIAN MAINTENANCE ADMIN_STAFF"`
	LicenseNumber string           `json:"license_number" validate:"max=100"`
	AreaID        *uuid.UUID       `json:"area_id"`
	BaseSalary    *decimal.Decimal `json:"base_salary"`
	SessionRate   *decimal.Decimal `json:"session_rate"`
	IGSSPct       *decimal.Decimal `json:"igss_percentage"`
	HiredDate     *timerange.Date  `json:"hired_date"`
	SpecialtyIDs  []uuid.UUID      `json:"specialty_ids"`
}

type UpdateRequest struct {
	UserID        *uuid.UUID            `json:"user_id"`
	FirstName     *string               `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName      *string               `json:"last_name" validate:"omitempty,min=2,max=100"`
	Email         *string               `json:"email" validate:"omitempty,email,max=255"`
	Phone         *string               `json:"phone" validate:"omitempty,max=30"`
	EmployeeType  *string               `json:"employee_type" validate:"omitempty,oneof=PSYCHOLOGIST PSYCHIATRIST TECHNICIAN MAINTENANCE ADMIN_STAFF"`
	LicenseNumber *string               `json:"license_number" validate:"omitempty,max=100"`
	AreaID        *uuid.UUID            `json:"area_id"`
	BaseSalary    *decimal.Decimal      `json:"base_salary"`
	SessionRate   *decimal.Decimal      `json:"session_rate"`
	IGSSPct       *decimal.Decimal      `json:"igss_percentage"`
	HiredDate     *timerange.Date       `json:"hired_date"`
	Status        *model.EmployeeStatus `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	SpecialtyIDs  *[]uuid.UUID          `json:"specialty_ids"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

// Store persists employees together with their specialty assignments.
// Writes return database.ErrDuplicate when the email is already used.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateEmployee(ctx context.Context, e model.Employee) error
	UpdateEmployee(ctx context.Context, e model.Employee) error
	GetEmployee(ctx context.Context, id uuid.UUID) (model.Employee, error)
	ListEmployees(ctx context.Context, f model.EmployeeFilter, p model.Page) ([]model.Employee, int, error)
	AreaExists(ctx context.Context, id uuid.UUID) (bool, error)
	CountSpecialties(ctx context.Context, ids []uuid.UUID) (int, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (model.Employee, error)
	Get(ctx context.Context, id uuid.UUID) (model.Employee, error)
	List(ctx context.Context, f model.EmployeeFilter, p model.Page) ([]model.Employee, model.PageMeta, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (model.Employee, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type employeeService struct {
	store  Store
	events events.Publisher
	region string
	loc    *time.Location
	now    func() time.Time
}

// New returns the employee service. region is the default phone region used
// to normalise numbers entered without a country code.
func New(store Store, pub events.Publisher, region string, loc *time.Location) Service {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &employeeService{store: store, events: pub, region: region, loc: loc, now: time.Now}
}

func (s *employeeService) Create(ctx context.Context, req CreateRequest) (model.Employee, error) {
	if err := validation.Struct(req); err != nil {
		return model.Employee{}, err
	}
	if err := checkPay(req.BaseSalary, req.SessionRate, req.IGSSPct); err != nil {
		return model.Employee{}, err
	}
	if err := s.checkHireDate(req.HiredDate); err != nil {
		return model.Employee{}, err
	}
	tel, err := s.normalizePhone(req.Phone)
	if err != nil {
		return model.Employee{}, err
	}

	now := s.now()
	e := model.Employee{
		ID:            uuid.Must(uuid.NewV7()),
		UserID:        req.UserID,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         tel,
		EmployeeType:  req.EmployeeType,
		LicenseNumber: strings.TrimSpace(req.LicenseNumber),
		AreaID:        req.AreaID,
		IGSSPct:       decimal.Zero,
		HiredDate:     req.HiredDate,
		Status:        model.EmployeeActive,
		SpecialtyIDs:  lo.Uniq(req.SpecialtyIDs),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.BaseSalary != nil {
		e.BaseSalary = decimal.NewNullDecimal(*req.BaseSalary)
	}
	if req.SessionRate != nil {
		e.SessionRate = decimal.NewNullDecimal(*req.SessionRate)
	}
	if req.IGSSPct != nil {
		e.IGSSPct = *req.IGSSPct
	}

	err = s.store.WithTx(ctx, func(ctx context.Context) error {
		if err := s.checkRefs(ctx, e.AreaID, e.SpecialtyIDs); err != nil {
			return err
		}
		if err := s.store.CreateEmployee(ctx, e); err != nil {
			if errors.Is(err, database.ErrDuplicate) {
				return ErrEmailTaken
			}
			return fmt.Errorf("create employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Employee{}, err
	}

	if e.Email != "" {
		events.Emit(ctx, s.events, events.EmployeeCreated, e.ID)
	}
	return e, nil
}

func (s *employeeService) Get(ctx context.Context, id uuid.UUID) (model.Employee, error) {
	e, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return model.Employee{}, ErrNotFound
		}
		return model.Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

func (s *employeeService) List(ctx context.Context, f model.EmployeeFilter, p model.Page) ([]model.Employee, model.PageMeta, error) {
	p = p.Normalize()
	f.Search = strings.TrimSpace(f.Search)
	items, total, err := s.store.ListEmployees(ctx, f, p)
	if err != nil {
		return nil, model.PageMeta{}, fmt.Errorf("list employees: %w", err)
	}
	return items, model.NewPageMeta(p, total), nil
}

func (s *employeeService) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (model.Employee, error) {
	if err := validation.Struct(req); err != nil {
		return model.Employee{}, err
	}
	if err := checkPay(req.BaseSalary, req.SessionRate, req.IGSSPct); err != nil {
		return model.Employee{}, err
	}
	if err := s.checkHireDate(req.HiredDate); err != nil {
		return model.Employee{}, err
	}

	var out model.Employee
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		e, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.apply(&e, req); err != nil {
			return err
		}
		var areaID *uuid.UUID
		if req.AreaID != nil {
			areaID = e.AreaID
		}
		var specialties []uuid.UUID
		if req.SpecialtyIDs != nil {
			specialties = e.SpecialtyIDs
		}
		if err := s.checkRefs(ctx, areaID, specialties); err != nil {
			return err
		}

		e.UpdatedAt = s.now()
		if err := s.store.UpdateEmployee(ctx, e); err != nil {
			if errors.Is(err, database.ErrDuplicate) {
				return ErrEmailTaken
			}
			return fmt.Errorf("update employee: %w", err)
		}
		out = e
		return nil
	})
	return out, err
}

func (s *employeeService) apply(e *model.Employee, req UpdateRequest) error {
	if req.UserID != nil {
		e.UserID = req.UserID
	}
	if req.FirstName != nil {
		e.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		e.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		e.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		tel, err := s.normalizePhone(*req.Phone)
		if err != nil {
			return err
		}
		e.Phone = tel
	}
	if req.EmployeeType != nil {
		e.EmployeeType = *req.EmployeeType
	}
	if req.LicenseNumber != nil {
		e.LicenseNumber = strings.TrimSpace(*req.LicenseNumber)
	}
	if req.AreaID != nil {
		e.AreaID = req.AreaID
	}
	if req.BaseSalary != nil {
		e.BaseSalary = decimal.NewNullDecimal(*req.BaseSalary)
	}
	if req.SessionRate != nil {
		e.SessionRate = decimal.NewNullDecimal(*req.SessionRate)
	}
	if req.IGSSPct != nil {
		e.IGSSPct = *req.IGSSPct
	}
	if req.HiredDate != nil {
		e.HiredDate = req.HiredDate
	}
	if req.Status != nil {
		e.Status = *req.Status
	}
	if req.SpecialtyIDs != nil {
		e.SpecialtyIDs = lo.Uniq(*req.SpecialtyIDs)
	}
	return nil
}

func (s *employeeService) checkRefs(ctx context.Context, areaID *uuid.UUID, specialtyIDs []uuid.UUID) error {
	if areaID != nil {
		ok, err := s.store.AreaExists(ctx, *areaID)
		if err != nil {
			return fmt.Errorf("check area: %w", err)
		}
		if !ok {
			return ErrAreaNotFound
		}
	}
	if len(specialtyIDs) > 0 {
		n, err := s.store.CountSpecialties(ctx, specialtyIDs)
		if err != nil {
			return fmt.Errorf("check specialties: %w", err)
		}
		if n != len(specialtyIDs) {
			return ErrSpecialtyNotFound
		}
	}
	return nil
}

func (s *employeeService) normalizePhone(raw string) (string, error) {
	tel, err := phone.Normalize(raw, s.region)
	if err != nil {
		return "", ErrInvalidPhone
	}
	return tel, nil
}

func (s *employeeService) checkHireDate(d *timerange.Date) error {
	if d != nil && d.After(timerange.DateOf(s.now().In(s.loc))) {
		return ErrFutureHireDate
	}
	return nil
}

func checkPay(base, rate, igss *decimal.Decimal) error {
	fields := map[string]string{}
	money := func(name string, d *decimal.Decimal) {
		switch {
		case d == nil:
		case d.IsNegative():
			fields[name] = "must be greater than or equal to 0"
		case d.GreaterThan(maxMoney):
			fields[name] = "must be at most " + maxMoney.String()
		}
	}
	money("base_salary", base)
	money("session_rate", rate)
	if igss != nil && (igss.IsNegative() || igss.GreaterThan(decimal.NewFromInt(100))) {
		fields["igss_percentage"] = "must be between 0 and 100"
	}
	if len(fields) > 0 {
		return apperr.ValidationFields(fields)
	}
	return nil
}
