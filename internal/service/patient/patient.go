package patient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/internal/repo/migrate"
	"github.com/Alijeyrad/clinica_backend/pkg/crypto"
	"github.com/Alijeyrad/clinica_backend/pkg/database"
	"github.com/Alijeyrad/clinica_backend/pkg/phone"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
	"github.com/Alijeyrad/clinica_backend/pkg/validation"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	UserID                *uuid.UUID      `json:"user_id"`
	FirstName             string          `json:"first_name" validate:"required,min=2,max=100"`
	LastName              string          `json:"last_name" validate:"required,min=2,max=100"`
	DateOfBirth           *timerange.Date `json:"date_of_birth"`
	Gender                string          `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	MaritalStatus         string          `json:"marital_status" validate:"omitempty,oneof=SINGLE MARRIED DIVORCED WIDOWED DOMESTIC_PARTNERSHIP"`
	Occupation            string          `json:"occupation" validate:"max=120"`
	EducationLevel        string          `json:"education_level" validate:"max=120"`
	Address               string          `json:"address" validate:"max=500"`
	Phone                 string          `json:"phone" validate:"max=50"`
	Email                 string          `json:"email" validate:"omitempty,email,max=150"`
	NationalID            string          `json:"national_id" validate:"max=30"`
	EmergencyContactName  string          `json:"emergency_contact_name" validate:"max=150"`
	EmergencyContactPhone string          `json:"emergency_contact_phone" validate:"max=50"`
	EmergencyContactRel   string          `json:"emergency_contact_relationship" validate:"max=80"`
}

type UpdateRequest struct {
	UserID                *uuid.UUID           `json:"user_id"`
	FirstName             *string              `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName              *string              `json:"last_name" validate:"omitempty,min=2,max=100"`
	DateOfBirth           *timerange.Date      `json:"date_of_birth"`
	Gender                *string              `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	MaritalStatus         *string              `json:"marital_status" validate:"omitempty,oneof=SINGLE MARRIED DIVORCED WIDOWED DOMESTIC_PARTNERSHIP"`
	Occupation            *string              `json:"occupation" validate:"omitempty,max=120"`
	EducationLevel        *string              `json:"education_level" validate:"omitempty,max=120"`
	Address               *string              `json:"address" validate:"omitempty,max=500"`
	Phone                 *string              `json:"phone" validate:"omitempty,max=50"`
	Email                 *string              `json:"email" validate:"omitempty,email,max=150"`
	NationalID            *string              `json:"national_id" validate:"omitempty,max=30"`
	EmergencyContactName  *string              `json:"emergency_contact_name" validate:"omitempty,max=150"`
	EmergencyContactPhone *string              `json:"emergency_contact_phone" validate:"omitempty,max=50"`
	EmergencyContactRel   *string              `json:"emergency_contact_relationship" validate:"omitempty,max=80"`
	Status                *model.PatientStatus `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

// Store keeps national_id as the ciphertext produced by this package and
// returns database.ErrDuplicate when national_id_hash or user_id is already
// used, wrapping the driver error that names the constraint.
type Store interface {
	CreatePatient(ctx context.Context, p model.Patient) error
	UpdatePatient(ctx context.Context, p model.Patient) error
	GetPatient(ctx context.Context, id uuid.UUID) (model.Patient, error)
	ListPatients(ctx context.Context, f model.PatientFilter, p model.Page) ([]model.Patient, int, error)
	ListAppointments(ctx context.Context, f model.AppointmentFilter, p model.Page) ([]model.AppointmentView, int, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (model.Patient, error)
	Get(ctx context.Context, id uuid.UUID) (model.Patient, error)
	List(ctx context.Context, f model.PatientFilter, p model.Page) ([]model.Patient, model.PageMeta, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (model.Patient, error)
	Appointments(ctx context.Context, id uuid.UUID, p model.Page) ([]model.AppointmentView, model.PageMeta, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type patientService struct {
	store  Store
	cipher *crypto.FieldCipher
	region string
	loc    *time.Location
	now    func() time.Time
}

// New returns the patient service. With a nil cipher national ids are
// rejected on write and hidden on read.
func New(store Store, cipher *crypto.FieldCipher, region string, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &patientService{store: store, cipher: cipher, region: region, loc: loc, now: time.Now}
}

func (s *patientService) Create(ctx context.Context, req CreateRequest) (model.Patient, error) {
	if err := validation.Struct(req); err != nil {
		return model.Patient{}, err
	}
	if err := s.checkBirthDate(req.DateOfBirth); err != nil {
		return model.Patient{}, err
	}

	now := s.now()
	p := model.Patient{
		ID:                   uuid.Must(uuid.NewV7()),
		UserID:               req.UserID,
		FirstName:            strings.TrimSpace(req.FirstName),
		LastName:             strings.TrimSpace(req.LastName),
		DateOfBirth:          req.DateOfBirth,
		Gender:               req.Gender,
		MaritalStatus:        req.MaritalStatus,
		Occupation:           strings.TrimSpace(req.Occupation),
		EducationLevel:       strings.TrimSpace(req.EducationLevel),
		Address:              strings.TrimSpace(req.Address),
		Email:                strings.ToLower(strings.TrimSpace(req.Email)),
		EmergencyContactName: strings.TrimSpace(req.EmergencyContactName),
		EmergencyContactRel:  strings.TrimSpace(req.EmergencyContactRel),
		Status:               model.PatientActive,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	var err error
	if p.Phone, err = s.normalizePhone(req.Phone); err != nil {
		return model.Patient{}, err
	}
	if p.EmergencyContactPhone, err = s.normalizePhone(req.EmergencyContactPhone); err != nil {
		return model.Patient{}, err
	}

	plainID := strings.TrimSpace(req.NationalID)
	sealed, err := s.seal(p, plainID)
	if err != nil {
		return model.Patient{}, err
	}
	if err := s.store.CreatePatient(ctx, sealed); err != nil {
		return model.Patient{}, writeErr(err, "create patient")
	}

	p.NationalID = plainID
	return p, nil
}

func (s *patientService) Get(ctx context.Context, id uuid.UUID) (model.Patient, error) {
	p, err := s.store.GetPatient(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return model.Patient{}, ErrNotFound
		}
		return model.Patient{}, fmt.Errorf("get patient: %w", err)
	}
	return s.open(ctx, p), nil
}

func (s *patientService) List(ctx context.Context, f model.PatientFilter, pg model.Page) ([]model.Patient, model.PageMeta, error) {
	pg = pg.Normalize()
	f.Search = strings.TrimSpace(f.Search)
	if f.Search != "" && s.cipher != nil {
		f.SearchHash = s.cipher.Index(f.Search)
	}
	items, total, err := s.store.ListPatients(ctx, f, pg)
	if err != nil {
		return nil, model.PageMeta{}, fmt.Errorf("list patients: %w", err)
	}
	for i := range items {
		items[i] = s.open(ctx, items[i])
	}
	return items, model.NewPageMeta(pg, total), nil
}

func (s *patientService) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (model.Patient, error) {
	if err := validation.Struct(req); err != nil {
		return model.Patient{}, err
	}
	if err := s.checkBirthDate(req.DateOfBirth); err != nil {
		return model.Patient{}, err
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return model.Patient{}, err
	}
	if err := s.apply(&p, req); err != nil {
		return model.Patient{}, err
	}
	p.UpdatedAt = s.now()

	sealed, err := s.seal(p, p.NationalID)
	if err != nil {
		return model.Patient{}, err
	}
	if err := s.store.UpdatePatient(ctx, sealed); err != nil {
		return model.Patient{}, writeErr(err, "update patient")
	}
	return p, nil
}

func (s *patientService) Appointments(ctx context.Context, id uuid.UUID, pg model.Page) ([]model.AppointmentView, model.PageMeta, error) {
	if _, err := s.store.GetPatient(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, model.PageMeta{}, ErrNotFound
		}
		return nil, model.PageMeta{}, fmt.Errorf("get patient: %w", err)
	}
	pg = pg.Normalize()
	items, total, err := s.store.ListAppointments(ctx, model.AppointmentFilter{PatientID: &id}, pg)
	if err != nil {
		return nil, model.PageMeta{}, fmt.Errorf("list appointments: %w", err)
	}
	return items, model.NewPageMeta(pg, total), nil
}

func (s *patientService) apply(p *model.Patient, req UpdateRequest) error {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&p.FirstName, req.FirstName)
	set(&p.LastName, req.LastName)
	set(&p.Gender, req.Gender)
	set(&p.MaritalStatus, req.MaritalStatus)
	set(&p.Occupation, req.Occupation)
	set(&p.EducationLevel, req.EducationLevel)
	set(&p.Address, req.Address)
	set(&p.NationalID, req.NationalID)
	set(&p.EmergencyContactName, req.EmergencyContactName)
	set(&p.EmergencyContactRel, req.EmergencyContactRel)
	if req.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.DateOfBirth != nil {
		p.DateOfBirth = req.DateOfBirth
	}
	if req.UserID != nil {
		p.UserID = req.UserID
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.Phone != nil {
		tel, err := s.normalizePhone(*req.Phone)
		if err != nil {
			return err
		}
		p.Phone = tel
	}
	if req.EmergencyContactPhone != nil {
		tel, err := s.normalizePhone(*req.EmergencyContactPhone)
		if err != nil {
			return err
		}
		p.EmergencyContactPhone = tel
	}
	return nil
}

// seal returns a copy of p ready for storage: national_id encrypted and
// hashed for uniqueness.
func (s *patientService) seal(p model.Patient, plainID string) (model.Patient, error) {
	p.NationalID, p.NationalIDHash = "", ""
	if plainID == "" {
		return p, nil
	}
	if s.cipher == nil {
		return model.Patient{}, ErrEncryptionDisabled
	}
	enc, err := s.cipher.Seal(plainID)
	if err != nil {
		return model.Patient{}, fmt.Errorf("encrypt national id: %w", err)
	}
	p.NationalID = enc
	p.NationalIDHash = s.cipher.Index(plainID)
	return p, nil
}

// open decrypts national_id in place. A value that cannot be decrypted is
// blanked and logged.
func (s *patientService) open(ctx context.Context, p model.Patient) model.Patient {
	p.NationalIDHash = ""
	if p.NationalID == "" {
		return p
	}
	if s.cipher == nil {
		p.NationalID = ""
		return p
	}
	plain, err := s.cipher.Open(p.NationalID)
	if err != nil {
		slog.WarnContext(ctx, "national id decrypt failed", "patient_id", p.ID, "err", err)
		p.NationalID = ""
		return p
	}
	p.NationalID = plain
	return p
}

func (s *patientService) normalizePhone(raw string) (string, error) {
	tel, err := phone.Normalize(raw, s.region)
	if err != nil {
		return "", ErrInvalidPhone
	}
	return tel, nil
}

func (s *patientService) checkBirthDate(d *timerange.Date) error {
	if d == nil {
		return nil
	}
	if d.Year < 1900 || d.After(timerange.DateOf(s.now().In(s.loc))) {
		return ErrInvalidBirthDate
	}
	return nil
}

func writeErr(err error, op string) error {
	if database.IsUniqueViolation(err, migrate.PatientsUserIDKey) {
		return ErrUserLinked
	}
	if errors.Is(err, database.ErrDuplicate) {
		return ErrNationalIDTaken
	}
	return fmt.Errorf("%s: %w", op, err)
}
