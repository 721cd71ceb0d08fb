// Package catalog manages the clinic's areas and specialties.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/database"
	"github.com/Alijeyrad/clinica_backend/pkg/validation"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

type UpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

// Store returns database.ErrDuplicate when a name is already taken.
type Store interface {
	CreateArea(ctx context.Context, a model.Area) error
	GetArea(ctx context.Context, id uuid.UUID) (model.Area, error)
	ListAreas(ctx context.Context) ([]model.Area, error)
	UpdateArea(ctx context.Context, a model.Area) error

	CreateSpecialty(ctx context.Context, s model.Specialty) error
	GetSpecialty(ctx context.Context, id uuid.UUID) (model.Specialty, error)
	ListSpecialties(ctx context.Context) ([]model.Specialty, error)
	UpdateSpecialty(ctx context.Context, s model.Specialty) error
}

type Service interface {
	CreateArea(ctx context.Context, req CreateRequest) (model.Area, error)
	GetArea(ctx context.Context, id uuid.UUID) (model.Area, error)
	ListAreas(ctx context.Context) ([]model.Area, error)
	UpdateArea(ctx context.Context, id uuid.UUID, req UpdateRequest) (model.Area, error)

	CreateSpecialty(ctx context.Context, req CreateRequest) (model.Specialty, error)
	GetSpecialty(ctx context.Context, id uuid.UUID) (model.Specialty, error)
	ListSpecialties(ctx context.Context) ([]model.Specialty, error)
	UpdateSpecialty(ctx context.Context, id uuid.UUID, req UpdateRequest) (model.Specialty, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type catalogService struct {
	store Store
	now   func() time.Time
}

func New(store Store) Service {
	return &catalogService{store: store, now: time.Now}
}

// ---------------------------------------------------------------------------
// Areas
// ---------------------------------------------------------------------------

func (s *catalogService) CreateArea(ctx context.Context, req CreateRequest) (model.Area, error) {
	if err := validation.Struct(req); err != nil {
		return model.Area{}, err
	}
	a := model.Area{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   s.now(),
	}
	if err := s.store.CreateArea(ctx, a); err != nil {
		return model.Area{}, writeErr(err, ErrAreaExists, "create area")
	}
	return a, nil
}

func (s *catalogService) GetArea(ctx context.Context, id uuid.UUID) (model.Area, error) {
	a, err := s.store.GetArea(ctx, id)
	if err != nil {
		return model.Area{}, readErr(err, ErrAreaNotFound, "get area")
	}
	return a, nil
}

func (s *catalogService) ListAreas(ctx context.Context) ([]model.Area, error) {
	items, err := s.store.ListAreas(ctx)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	return items, nil
}

func (s *catalogService) UpdateArea(ctx context.Context, id uuid.UUID, req UpdateRequest) (model.Area, error) {
	if err := validation.Struct(req); err != nil {
		return model.Area{}, err
	}
	a, err := s.GetArea(ctx, id)
	if err != nil {
		return model.Area{}, err
	}
	a.Name, a.Description = apply(a.Name, a.Description, req)
	if err := s.store.UpdateArea(ctx, a); err != nil {
		return model.Area{}, writeErr(err, ErrAreaExists, "update area")
	}
	return a, nil
}

// ---------------------------------------------------------------------------
// Specialties
// ---------------------------------------------------------------------------

func (s *catalogService) CreateSpecialty(ctx context.Context, req CreateRequest) (model.Specialty, error) {
	if err := validation.Struct(req); err != nil {
		return model.Specialty{}, err
	}
	sp := model.Specialty{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   s.now(),
	}
	if err := s.store.CreateSpecialty(ctx, sp); err != nil {
		return model.Specialty{}, writeErr(err, ErrSpecialtyExists, "create specialty")
	}
	return sp, nil
}

func (s *catalogService) GetSpecialty(ctx context.Context, id uuid.UUID) (model.Specialty, error) {
	sp, err := s.store.GetSpecialty(ctx, id)
	if err != nil {
		return model.Specialty{}, readErr(err, ErrSpecialtyNotFound, "get specialty")
	}
	return sp, nil
}

func (s *catalogService) ListSpecialties(ctx context.Context) ([]model.Specialty, error) {
	items, err := s.store.ListSpecialties(ctx)
	if err != nil {
		return nil, fmt.Errorf("list specialties: %w", err)
	}
	return items, nil
}

func (s *catalogService) UpdateSpecialty(ctx context.Context, id uuid.UUID, req UpdateRequest) (model.Specialty, error) {
	if err := validation.Struct(req); err != nil {
		return model.Specialty{}, err
	}
	sp, err := s.GetSpecialty(ctx, id)
	if err != nil {
		return model.Specialty{}, err
	}
	sp.Name, sp.Description = apply(sp.Name, sp.Description, req)
	if err := s.store.UpdateSpecialty(ctx, sp); err != nil {
		return model.Specialty{}, writeErr(err, ErrSpecialtyExists, "update specialty")
	}
	return sp, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func apply(name, desc string, req UpdateRequest) (string, string) {
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		desc = strings.TrimSpace(*req.Description)
	}
	return name, desc
}

func readErr(err, notFound error, op string) error {
	if errors.Is(err, database.ErrNotFound) {
		return notFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func writeErr(err, dup error, op string) error {
	if errors.Is(err, database.ErrDuplicate) {
		return dup
	}
	return fmt.Errorf("%s: %w", op, err)
}
